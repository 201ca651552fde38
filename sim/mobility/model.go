// Package mobility generates continuous user positions in the unit square.
// Each Model advances every user by one cycle per Next call; the simulators
// snap those positions onto towers.
package mobility

import (
	"fmt"
	"math"
	"math/rand"

	"github.com/tracesim/tracesim/sim/geometry"
)

// Model names.
const (
	RandomWalk      = "random_walk"
	RandomWaypoint  = "random_waypoint"
	RandomDirection = "random_direction"
	StochasticWalk  = "stochastic_walk"
)

var validModels = map[string]bool{
	RandomWalk:      true,
	RandomWaypoint:  true,
	RandomDirection: true,
	StochasticWalk:  true,
}

// IsValidModel reports whether name is a recognized mobility model.
func IsValidModel(name string) bool {
	return validModels[name]
}

// Model advances all users by one cycle.
type Model interface {
	// Next returns the position of every user after one more cycle. The
	// returned slice is owned by the caller.
	Next() []geometry.Point
}

// Params configures a mobility model. Speeds are in unit-square lengths per
// cycle; WaitTimeMax is in cycles.
type Params struct {
	Users       int
	VelocityMin float64
	VelocityMax float64
	WaitTimeMax int
}

// New builds the named model. Initial positions are uniform in the unit
// square and every draw comes from rng.
func New(name string, p Params, rng *rand.Rand) (Model, error) {
	if p.Users <= 0 {
		return nil, fmt.Errorf("users must be positive, got %d", p.Users)
	}
	if p.VelocityMin < 0 || p.VelocityMax < p.VelocityMin {
		return nil, fmt.Errorf("velocity range [%v, %v] is invalid", p.VelocityMin, p.VelocityMax)
	}
	if p.WaitTimeMax < 0 {
		return nil, fmt.Errorf("wait_time_max must be non-negative, got %d", p.WaitTimeMax)
	}
	base := newWalkers(p, rng)
	switch name {
	case RandomWalk:
		return &randomWalk{walkers: base}, nil
	case StochasticWalk:
		return &stochasticWalk{walkers: base}, nil
	case RandomDirection:
		m := &randomDirection{walkers: base, heading: make([]float64, p.Users)}
		for i := range m.heading {
			m.heading[i] = base.angle()
		}
		return m, nil
	case RandomWaypoint:
		m := &randomWaypoint{walkers: base, dest: make([]geometry.Point, p.Users), speed: make([]float64, p.Users)}
		for i := range m.dest {
			m.dest[i] = base.uniformPoint()
			m.speed[i] = base.velocity()
		}
		return m, nil
	default:
		return nil, fmt.Errorf("unknown mobility model %q; valid: random_walk, random_waypoint, random_direction, stochastic_walk", name)
	}
}

// Positions runs m for cycles steps and returns a users x cycles matrix of
// positions.
func Positions(m Model, users, cycles int) ([][]geometry.Point, error) {
	out := make([][]geometry.Point, users)
	for u := range out {
		out[u] = make([]geometry.Point, cycles)
	}
	for c := 0; c < cycles; c++ {
		next := m.Next()
		if len(next) != users {
			return nil, fmt.Errorf("cycle %d: model returned %d positions, want %d", c, len(next), users)
		}
		for u, p := range next {
			out[u][c] = p
		}
	}
	return out, nil
}

// walkers is the state shared by every model.
type walkers struct {
	params Params
	rng    *rand.Rand
	pos    []geometry.Point
	wait   []int
}

func newWalkers(p Params, rng *rand.Rand) walkers {
	w := walkers{params: p, rng: rng, pos: make([]geometry.Point, p.Users), wait: make([]int, p.Users)}
	for i := range w.pos {
		w.pos[i] = w.uniformPoint()
	}
	return w
}

func (w *walkers) uniformPoint() geometry.Point {
	return geometry.Point{X: w.rng.Float64(), Y: w.rng.Float64()}
}

func (w *walkers) angle() float64 {
	return 2 * math.Pi * w.rng.Float64()
}

func (w *walkers) velocity() float64 {
	return w.params.VelocityMin + w.rng.Float64()*(w.params.VelocityMax-w.params.VelocityMin)
}

func (w *walkers) pause() int {
	return w.rng.Intn(w.params.WaitTimeMax + 1)
}

func (w *walkers) snapshot() []geometry.Point {
	return append([]geometry.Point(nil), w.pos...)
}

// step moves user i by length along heading and reflects off the square's
// edges. It reports whether a wall was hit.
func (w *walkers) step(i int, heading, length float64) bool {
	p := w.pos[i].Add(geometry.Point{X: math.Cos(heading), Y: math.Sin(heading)}.Scale(length))
	var hitX, hitY bool
	p.X, hitX = reflect(p.X)
	p.Y, hitY = reflect(p.Y)
	w.pos[i] = p
	return hitX || hitY
}

// reflect folds x back into [0,1].
func reflect(x float64) (float64, bool) {
	hit := false
	for x < 0 || x > 1 {
		hit = true
		if x < 0 {
			x = -x
		} else {
			x = 2 - x
		}
	}
	return x, hit
}
