package sim

import (
	"fmt"
	"math/rand"
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/tracesim/tracesim/sim/geometry"
	"github.com/tracesim/tracesim/sim/kernel"
	"github.com/tracesim/tracesim/sim/trace"
)

// traceGenerator walks users over the tower lattice. It only reads shared
// state, so one generator serves every worker.
type traceGenerator struct {
	engine   *geometry.Engine
	sampler  *kernel.Sampler
	friction float64
}

// coldStart picks the cycle-0 tower uniformly.
func (g *traceGenerator) coldStart(rng *rand.Rand) int {
	return rng.Intn(g.engine.Len())
}

// transition samples the next tower from the kernel row of from.
func (g *traceGenerator) transition(rng *rand.Rand, from int) (int, error) {
	return g.sampler.Sample(rng, from)
}

// inertialStep extrapolates the last two positions, snaps the prediction to
// its nearest tower and samples from that tower's kernel row.
func (g *traceGenerator) inertialStep(rng *rand.Rand, history [2]geometry.Point) (int, error) {
	predicted := geometry.PredictNextPosition(history, g.friction)
	return g.sampler.Sample(rng, g.engine.NearestTower(predicted))
}

// userTrace fills dst with one user's tower sequence.
func (g *traceGenerator) userTrace(rng *rand.Rand, dst []int) error {
	var history [2]geometry.Point
	for c := range dst {
		var (
			tower int
			err   error
		)
		switch c {
		case 0:
			tower = g.coldStart(rng)
		case 1:
			tower, err = g.transition(rng, dst[0])
		default:
			tower, err = g.inertialStep(rng, history)
		}
		if err != nil {
			return fmt.Errorf("cycle %d: %w", c, err)
		}
		dst[c] = tower
		history[0], history[1] = history[1], g.engine.Tower(tower)
	}
	return nil
}

// generate builds the users x cycles trace matrix. Each user draws from its
// own RNG stream, so the result is independent of workers.
func (g *traceGenerator) generate(rng *PartitionedRNG, users, cycles, workers int) (trace.Matrix, error) {
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	traces := trace.NewMatrix(users, cycles)

	var eg errgroup.Group
	eg.SetLimit(workers)
	for u := 0; u < users; u++ {
		u := u
		seed := rng.SeedFor(SubsystemUser(u))
		row := traces[u]
		eg.Go(func() error {
			if err := g.userTrace(rand.New(rand.NewSource(seed)), row); err != nil {
				return fmt.Errorf("user %d: %w", u, err)
			}
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}
	return traces, nil
}
