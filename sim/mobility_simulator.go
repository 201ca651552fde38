package sim

import (
	"fmt"

	"gonum.org/v1/gonum/mat"

	"github.com/tracesim/tracesim/sim/geometry"
	"github.com/tracesim/tracesim/sim/mobility"
	"github.com/tracesim/tracesim/sim/trace"
)

// MobilityResult holds the output of a mobility-model simulation.
type MobilityResult struct {
	Layout    geometry.Layout
	Distances mat.Symmetric
	Positions [][]geometry.Point // users x cycles, before tiling
	Traces    trace.Matrix       // users x (cycles*repeat)
	Occupancy trace.Occupancy    // (cycles*repeat) x towers
}

// Summary computes trace statistics over the result.
func (r *MobilityResult) Summary() *trace.TraceSummary {
	return trace.Summarize(r.Traces, r.Occupancy)
}

// GenerateMobility drives the configured mobility model through the unit
// square, snaps every position to its nearest tower, tiles the tower traces
// Repeat times and aggregates them.
func GenerateMobility(cfg MobilityConfig) (*MobilityResult, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	timer := newStageTimer(cfg.Verbose)
	rng := NewPartitionedRNG(NewSimulationKey(cfg.Seed))

	layout, engine, err := buildGeometry(cfg.NumberTowers, cfg.Layout(), rng)
	if err != nil {
		return nil, err
	}
	model, err := mobility.New(cfg.Model, cfg.ModelParams(), rng.ForSubsystem(SubsystemMobility))
	if err != nil {
		return nil, configErr("model", cfg.Model, "%v", err)
	}
	return runMobility(cfg, layout, engine, model, timer)
}

// GenerateMobilityWith is GenerateMobility with a caller-supplied model; the
// configured model name is ignored.
func GenerateMobilityWith(cfg MobilityConfig, model mobility.Model) (*MobilityResult, error) {
	if err := cfg.validateMotion(); err != nil {
		return nil, err
	}
	rng := NewPartitionedRNG(NewSimulationKey(cfg.Seed))
	layout, engine, err := buildGeometry(cfg.NumberTowers, cfg.Layout(), rng)
	if err != nil {
		return nil, err
	}
	return runMobility(cfg, layout, engine, model, newStageTimer(cfg.Verbose))
}

func runMobility(cfg MobilityConfig, layout geometry.Layout, engine *geometry.Engine, model mobility.Model, timer *stageTimer) (*MobilityResult, error) {
	positions, err := mobility.Positions(model, cfg.NumberUsers, cfg.NumberCycles)
	if err != nil {
		return nil, err
	}
	timer.done("generate user positions")

	traces := trace.NewMatrix(cfg.NumberUsers, cfg.NumberCycles)
	for u, row := range positions {
		if err := traces.RecordUser(u, engine.NearestTowers(row)); err != nil {
			return nil, err
		}
	}
	traces = trace.Tile(traces, cfg.Repeat)
	timer.done("map positions to towers")

	occupancy, err := trace.Aggregate(traces, layout.Count)
	if err != nil {
		return nil, fmt.Errorf("aggregating traces: %w", err)
	}
	timer.total("generate all")

	return &MobilityResult{
		Layout:    layout,
		Distances: engine.Distances(),
		Positions: positions,
		Traces:    traces,
		Occupancy: occupancy,
	}, nil
}
