package mobility

import (
	"math"

	"github.com/tracesim/tracesim/sim/geometry"
)

// randomWalk moves every user each cycle in a fresh uniform direction.
type randomWalk struct {
	walkers
}

func (m *randomWalk) Next() []geometry.Point {
	for i := range m.pos {
		m.step(i, m.angle(), m.velocity())
	}
	return m.snapshot()
}

// stochasticWalk draws heavy-tailed flight lengths (Pareto, alpha 1.5)
// truncated to the velocity range, pausing after every flight.
type stochasticWalk struct {
	walkers
}

const flightAlpha = 1.5

func (m *stochasticWalk) Next() []geometry.Point {
	for i := range m.pos {
		if m.wait[i] > 0 {
			m.wait[i]--
			continue
		}
		m.step(i, m.angle(), m.flight())
		m.wait[i] = m.pause()
	}
	return m.snapshot()
}

func (m *stochasticWalk) flight() float64 {
	lo, hi := m.params.VelocityMin, m.params.VelocityMax
	if lo == 0 {
		return m.velocity()
	}
	u := 1 - m.rng.Float64() // (0,1]
	return math.Min(hi, lo/math.Pow(u, 1/flightAlpha))
}

// randomDirection keeps each user's heading until a wall is hit, then pauses
// and picks a new heading.
type randomDirection struct {
	walkers
	heading []float64
}

func (m *randomDirection) Next() []geometry.Point {
	for i := range m.pos {
		if m.wait[i] > 0 {
			m.wait[i]--
			continue
		}
		if m.step(i, m.heading[i], m.velocity()) {
			m.heading[i] = m.angle()
			m.wait[i] = m.pause()
		}
	}
	return m.snapshot()
}

// randomWaypoint moves each user toward a uniform destination at a fixed
// per-leg speed, pausing on arrival before drawing the next destination.
type randomWaypoint struct {
	walkers
	dest  []geometry.Point
	speed []float64
}

func (m *randomWaypoint) Next() []geometry.Point {
	for i := range m.pos {
		if m.wait[i] > 0 {
			m.wait[i]--
			continue
		}
		remaining := m.dest[i].Sub(m.pos[i])
		dist := math.Hypot(remaining.X, remaining.Y)
		if dist <= m.speed[i] {
			m.pos[i] = m.dest[i]
			m.wait[i] = m.pause()
			m.dest[i] = m.uniformPoint()
			m.speed[i] = m.velocity()
			continue
		}
		m.pos[i] = m.pos[i].Add(remaining.Scale(m.speed[i] / dist))
	}
	return m.snapshot()
}
