package sim

import (
	"math"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"

	"github.com/tracesim/tracesim/sim/geometry"
	"github.com/tracesim/tracesim/sim/kernel"
)

func newTestGenerator(t *testing.T, towers []geometry.Point, params kernel.Params, friction float64) *traceGenerator {
	t.Helper()
	engine, err := geometry.NewEngine(towers)
	require.NoError(t, err)
	p, err := kernel.Build(engine.Distances(), params)
	require.NoError(t, err)
	return &traceGenerator{engine: engine, sampler: kernel.NewSampler(p), friction: friction}
}

func lineTowers(n int) []geometry.Point {
	towers := make([]geometry.Point, n)
	for i := range towers {
		towers[i] = geometry.Point{X: (float64(i) + 0.5) / float64(n), Y: 0.5}
	}
	return towers
}

func TestColdStart_Uniform(t *testing.T) {
	// GIVEN a 3x3 grid generator
	layout, err := geometry.BuildTowers(9, geometry.LayoutGrid, nil)
	require.NoError(t, err)
	g := newTestGenerator(t, layout.Towers, kernel.Params{Method: kernel.MethodDistanceSquare, DistancePower: 2}, 0.9)
	rng := rand.New(rand.NewSource(42))

	// WHEN many cycle-0 towers are drawn
	const n = 90000
	counts := make([]int, 9)
	for i := 0; i < n; i++ {
		counts[g.coldStart(rng)]++
	}

	// THEN every tower is chosen close to 1/9 of the time
	for tower, c := range counts {
		assert.InDelta(t, 1.0/9, float64(c)/n, 0.01, "tower %d", tower)
	}
}

func TestInertialStep_BiasesAlongMotion(t *testing.T) {
	// GIVEN towers on a line and a sharply local kernel
	towers := lineTowers(5)
	g := newTestGenerator(t, towers, kernel.Params{Method: kernel.MethodDistanceSquare, DistancePower: 5}, 1)
	rng := rand.New(rand.NewSource(7))

	// WHEN a user moving right from tower 1 to tower 2 steps inertially,
	// versus a user at tower 2 with no direction history
	const n = 20000
	inertial, plain := 0, 0
	history := [2]geometry.Point{towers[1], towers[2]}
	for i := 0; i < n; i++ {
		next, err := g.inertialStep(rng, history)
		require.NoError(t, err)
		if next == 3 {
			inertial++
		}
		next, err = g.transition(rng, 2)
		require.NoError(t, err)
		if next == 3 {
			plain++
		}
	}

	// THEN the inertial user reaches the extrapolated tower more often
	assert.Greater(t, inertial, plain)
	assert.Greater(t, float64(inertial)/n, 0.4)
}

func TestInertialStep_ZeroFrictionMatchesTransition(t *testing.T) {
	towers := lineTowers(5)
	g := newTestGenerator(t, towers, kernel.Params{Method: kernel.MethodDistanceSquare, DistancePower: 5}, 0)

	// with no inertia the prediction stays on the current tower, so both
	// paths sample row 2 with identical draws
	a := rand.New(rand.NewSource(11))
	b := rand.New(rand.NewSource(11))
	for i := 0; i < 100; i++ {
		x, err := g.inertialStep(a, [2]geometry.Point{towers[1], towers[2]})
		require.NoError(t, err)
		y, err := g.transition(b, 2)
		require.NoError(t, err)
		assert.Equal(t, y, x)
	}
}

func TestUserTrace_IndicesInRange(t *testing.T) {
	layout, err := geometry.BuildTowers(16, geometry.LayoutGrid, nil)
	require.NoError(t, err)
	g := newTestGenerator(t, layout.Towers, kernel.Params{Method: kernel.MethodDistanceDistribution, Sigma: 0.03, Expander: 1}, 0.9)
	rng := rand.New(rand.NewSource(5))

	for u := 0; u < 50; u++ {
		row := make([]int, 30)
		require.NoError(t, g.userTrace(rng, row))
		for c, tower := range row {
			assert.True(t, tower >= 0 && tower < 16, "user %d cycle %d: tower %d", u, c, tower)
		}
	}
}

func TestUserTrace_MalformedKernel(t *testing.T) {
	// GIVEN a kernel whose rows are all NaN
	engine, err := geometry.NewEngine(lineTowers(3))
	require.NoError(t, err)
	bad := mat.NewDense(3, 3, nil)
	bad.Apply(func(_, _ int, _ float64) float64 { return math.NaN() }, bad)
	g := &traceGenerator{engine: engine, sampler: kernel.NewSampler(bad), friction: 0.5}

	// THEN a single-cycle trace needs no sampling and succeeds
	require.NoError(t, g.userTrace(rand.New(rand.NewSource(1)), make([]int, 1)))

	// THEN the first transition fails with ErrInvalidKernel
	err = g.userTrace(rand.New(rand.NewSource(1)), make([]int, 3))
	assert.ErrorIs(t, err, ErrInvalidKernel)
}
