package geometry

import (
	"fmt"

	"gonum.org/v1/gonum/mat"
)

// Engine is a spatial index over a fixed tower set. The pairwise distance
// matrix is computed once in NewEngine.
type Engine struct {
	towers    []Point
	distances *mat.SymDense
}

// NewEngine copies towers and precomputes their distance matrix.
func NewEngine(towers []Point) (*Engine, error) {
	if len(towers) == 0 {
		return nil, fmt.Errorf("%w, got 0", ErrInvalidTowerCount)
	}
	e := &Engine{towers: append([]Point(nil), towers...)}
	e.distances = DistanceMatrix(e.towers)
	return e, nil
}

// DistanceMatrix returns the symmetric matrix of Euclidean distances between
// towers, with a zero diagonal.
func DistanceMatrix(towers []Point) *mat.SymDense {
	n := len(towers)
	d := mat.NewSymDense(n, nil)
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			d.SetSym(i, j, towers[i].Distance(towers[j]))
		}
	}
	return d
}

// Len returns the number of towers.
func (e *Engine) Len() int { return len(e.towers) }

// Tower returns the position of tower i.
func (e *Engine) Tower(i int) Point { return e.towers[i] }

// Towers returns a copy of the tower positions, indexed by tower id.
func (e *Engine) Towers() []Point {
	return append([]Point(nil), e.towers...)
}

// Distances returns the cached distance matrix. Callers must not modify it.
func (e *Engine) Distances() mat.Symmetric { return e.distances }

// Distance returns the distance between towers i and j.
func (e *Engine) Distance(i, j int) float64 { return e.distances.At(i, j) }

// NearestTower returns the index of the tower closest to p. Ties resolve to
// the lowest index.
func (e *Engine) NearestTower(p Point) int {
	best, bestDist := 0, p.DistanceSq(e.towers[0])
	for i := 1; i < len(e.towers); i++ {
		if d := p.DistanceSq(e.towers[i]); d < bestDist {
			best, bestDist = i, d
		}
	}
	return best
}

// NearestTowers maps every point of a continuous trace to its nearest tower.
func (e *Engine) NearestTowers(points []Point) []int {
	out := make([]int, len(points))
	for i, p := range points {
		out[i] = e.NearestTower(p)
	}
	return out
}

// PredictNextPosition extrapolates the next continuous position from the
// last two visited positions. friction scales the carried velocity: 1 keeps
// full inertia, 0 stays put at history[1].
func PredictNextPosition(history [2]Point, friction float64) Point {
	velocity := history[1].Sub(history[0])
	return history[1].Add(velocity.Scale(friction))
}
