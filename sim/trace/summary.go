package trace

// TraceSummary aggregates statistics from a trace matrix and its occupancy.
type TraceSummary struct {
	Users               int
	Cycles              int
	Towers              int
	TowerVisits         []int     // total user-cycles spent at each tower
	TowerShare          []float64 // TowerVisits normalized by users*cycles
	UniqueTowersPerUser []int     // distinct towers visited by each user
	MeanUniqueTowers    float64
	MoveRate            float64 // fraction of cycle-to-cycle steps that change tower
	BusiestTower        []int   // per cycle, tower with the highest count (lowest index on ties)
	PeakOccupancy       int     // highest single tower count over all cycles
}

// Summarize computes aggregate statistics. Safe for empty inputs (returns
// zero-value fields).
func Summarize(m Matrix, occ Occupancy) *TraceSummary {
	s := &TraceSummary{
		Users:  m.Users(),
		Cycles: m.Cycles(),
		Towers: occ.Towers(),
	}
	s.TowerVisits = make([]int, s.Towers)
	s.TowerShare = make([]float64, s.Towers)
	s.UniqueTowersPerUser = make([]int, s.Users)
	s.BusiestTower = make([]int, occ.Cycles())

	for c, counts := range occ {
		best := 0
		for t, n := range counts {
			s.TowerVisits[t] += n
			if n > counts[best] {
				best = t
			}
			if n > s.PeakOccupancy {
				s.PeakOccupancy = n
			}
		}
		s.BusiestTower[c] = best
	}

	moves, steps, unique := 0, 0, 0
	for u, row := range m {
		seen := make(map[int]struct{}, len(row))
		for c, tower := range row {
			seen[tower] = struct{}{}
			if c > 0 {
				steps++
				if tower != row[c-1] {
					moves++
				}
			}
		}
		s.UniqueTowersPerUser[u] = len(seen)
		unique += len(seen)
	}
	if s.Users > 0 {
		s.MeanUniqueTowers = float64(unique) / float64(s.Users)
	}
	if steps > 0 {
		s.MoveRate = float64(moves) / float64(steps)
	}
	if total := s.Users * s.Cycles; total > 0 {
		for t, n := range s.TowerVisits {
			s.TowerShare[t] = float64(n) / float64(total)
		}
	}
	return s
}
