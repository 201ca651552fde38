package sim

import (
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
	"gonum.org/v1/gonum/mat"

	"github.com/tracesim/tracesim/sim/geometry"
	"github.com/tracesim/tracesim/sim/kernel"
	"github.com/tracesim/tracesim/sim/trace"
)

// Result holds every matrix produced by one trace simulation. All fields are
// read-only once returned.
type Result struct {
	Layout        geometry.Layout
	Distances     mat.Symmetric   // towers x towers
	Probabilities mat.Matrix      // towers x towers, row-stochastic
	Traces        trace.Matrix    // users x cycles
	Occupancy     trace.Occupancy // cycles x towers
}

// NumberTowers returns the effective tower count, which may exceed the
// requested one for grid layouts.
func (r *Result) NumberTowers() int { return r.Layout.Count }

// Summary computes trace statistics over the result.
func (r *Result) Summary() *trace.TraceSummary {
	return trace.Summarize(r.Traces, r.Occupancy)
}

// Generate runs the kernel-driven trace simulator: tower layout, distance
// matrix, transition kernel, per-user traces and occupancy aggregation.
// Configuration is validated before any work starts; on error no partial
// result is returned.
func Generate(cfg Config) (*Result, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	timer := newStageTimer(cfg.Verbose)
	rng := NewPartitionedRNG(NewSimulationKey(cfg.Seed))

	layout, engine, err := buildGeometry(cfg.NumberTowers, cfg.Layout(), rng)
	if err != nil {
		return nil, err
	}
	timer.done("create distances matrix")

	probabilities, err := kernel.Build(engine.Distances(), cfg.KernelParams())
	if err != nil {
		return nil, fmt.Errorf("building transition kernel: %w", err)
	}
	timer.done("create probabilities matrix")

	gen := &traceGenerator{
		engine:   engine,
		sampler:  kernel.NewSampler(probabilities),
		friction: cfg.FrictionCoefficient,
	}
	traces, err := gen.generate(rng, cfg.NumberUsers, cfg.NumberCycles, cfg.Workers)
	if err != nil {
		return nil, fmt.Errorf("generating traces: %w", err)
	}
	timer.done("create user traces")

	occupancy, err := trace.Aggregate(traces, layout.Count)
	if err != nil {
		return nil, fmt.Errorf("aggregating traces: %w", err)
	}
	timer.done("build aggregated data")
	timer.total("generate all")

	return &Result{
		Layout:        layout,
		Distances:     engine.Distances(),
		Probabilities: probabilities,
		Traces:        traces,
		Occupancy:     occupancy,
	}, nil
}

func buildGeometry(count int, kind geometry.LayoutKind, rng *PartitionedRNG) (geometry.Layout, *geometry.Engine, error) {
	layout, err := geometry.BuildTowers(count, kind, rng.ForSubsystem(SubsystemLayout))
	if err != nil {
		return geometry.Layout{}, nil, configErr("number_towers", count, "%v", err)
	}
	engine, err := geometry.NewEngine(layout.Towers)
	if err != nil {
		return geometry.Layout{}, nil, err
	}
	return layout, engine, nil
}

// stageTimer logs how long each pipeline stage took when verbose is set.
type stageTimer struct {
	verbose bool
	start   time.Time
	last    time.Time
}

func newStageTimer(verbose bool) *stageTimer {
	now := time.Now()
	return &stageTimer{verbose: verbose, start: now, last: now}
}

func (t *stageTimer) done(stage string) {
	now := time.Now()
	if t.verbose {
		logrus.Infof("Took %s to %s", now.Sub(t.last), stage)
	}
	t.last = now
}

func (t *stageTimer) total(stage string) {
	if t.verbose {
		logrus.Infof("Took %s to %s", time.Since(t.start), stage)
	}
}
