package trace

import "fmt"

// NewMatrix allocates a users x cycles trace matrix.
func NewMatrix(users, cycles int) Matrix {
	m := make(Matrix, users)
	backing := make([]int, users*cycles)
	for u := range m {
		m[u] = backing[u*cycles : (u+1)*cycles : (u+1)*cycles]
	}
	return m
}

// RecordUser stores a complete trace for user u.
func (m Matrix) RecordUser(u int, towers []int) error {
	if u < 0 || u >= len(m) {
		return fmt.Errorf("user %d out of range [0,%d)", u, len(m))
	}
	if len(towers) != len(m[u]) {
		return fmt.Errorf("user %d: trace has %d cycles, want %d", u, len(towers), len(m[u]))
	}
	copy(m[u], towers)
	return nil
}

// Tile repeats every user's trace count times along the cycle axis.
func Tile(m Matrix, count int) Matrix {
	if count <= 1 {
		return m
	}
	out := NewMatrix(m.Users(), m.Cycles()*count)
	for u, row := range m {
		for k := 0; k < count; k++ {
			copy(out[u][k*len(row):], row)
		}
	}
	return out
}

// Aggregate counts, for every cycle, how many users sit at each tower. The
// result is cycles x towers and every cycle sums to m.Users().
func Aggregate(m Matrix, towers int) (Occupancy, error) {
	cycles := m.Cycles()
	occ := make(Occupancy, cycles)
	for c := range occ {
		occ[c] = make([]int, towers)
	}
	for u, row := range m {
		if len(row) != cycles {
			return nil, fmt.Errorf("user %d: trace has %d cycles, want %d", u, len(row), cycles)
		}
		for c, tower := range row {
			if tower < 0 || tower >= towers {
				return nil, fmt.Errorf("user %d cycle %d: tower %d out of range [0,%d)", u, c, tower, towers)
			}
			occ[c][tower]++
		}
	}
	return occ, nil
}
