package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/google/uuid"
	"gonum.org/v1/gonum/mat"

	"github.com/tracesim/tracesim/sim"
	"github.com/tracesim/tracesim/sim/geometry"
	"github.com/tracesim/tracesim/sim/trace"
)

// ResultFile is the JSON document written by --out.
type ResultFile struct {
	RunID           string              `json:"run_id"`
	CreatedAt       time.Time           `json:"created_at"`
	Simulator       string              `json:"simulator"`
	Config          any                 `json:"config"`
	RequestedTowers int                 `json:"requested_towers"`
	NumberTowers    int                 `json:"number_towers"`
	TowersAdjusted  bool                `json:"towers_adjusted"`
	Towers          []geometry.Point    `json:"towers"`
	Distances       [][]float64         `json:"distances"`
	Probabilities   [][]float64         `json:"probabilities,omitempty"`
	Traces          trace.Matrix        `json:"traces"`
	Occupancy       trace.Occupancy     `json:"occupancy"`
	Summary         *trace.TraceSummary `json:"summary"`
	Positions       [][]geometry.Point  `json:"positions,omitempty"`
}

func newResultFile(simulator string, cfg any, layout geometry.Layout, distances mat.Matrix, traces trace.Matrix, occ trace.Occupancy) *ResultFile {
	return &ResultFile{
		RunID:           uuid.NewString(),
		CreatedAt:       time.Now().UTC(),
		Simulator:       simulator,
		Config:          cfg,
		RequestedTowers: layout.Requested,
		NumberTowers:    layout.Count,
		TowersAdjusted:  layout.Adjusted,
		Towers:          layout.Towers,
		Distances:       matrixRows(distances),
		Traces:          traces,
		Occupancy:       occ,
		Summary:         trace.Summarize(traces, occ),
	}
}

func saveTraceResult(stdout io.Writer, path string, cfg sim.Config, r *sim.Result) error {
	doc := newResultFile("trace", cfg, r.Layout, r.Distances, r.Traces, r.Occupancy)
	doc.Probabilities = matrixRows(r.Probabilities)
	return saveResult(stdout, path, doc)
}

func saveMobilityResult(stdout io.Writer, path string, cfg sim.MobilityConfig, r *sim.MobilityResult) error {
	doc := newResultFile("mobility", cfg, r.Layout, r.Distances, r.Traces, r.Occupancy)
	doc.Positions = r.Positions
	return saveResult(stdout, path, doc)
}

// saveResult prints the summary to stdout and, when path is set, writes the
// full document as JSON.
func saveResult(stdout io.Writer, path string, doc *ResultFile) error {
	printSummary(stdout, doc)
	if path == "" {
		return nil
	}
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding result: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing result: %w", err)
	}
	return nil
}

func printSummary(w io.Writer, doc *ResultFile) {
	s := doc.Summary
	fmt.Fprintln(w, "=== Simulation Summary ===")
	fmt.Fprintf(w, "Run ID               : %s\n", doc.RunID)
	fmt.Fprintf(w, "Towers               : %d", doc.NumberTowers)
	if doc.TowersAdjusted {
		fmt.Fprintf(w, " (requested %d)", doc.RequestedTowers)
	}
	fmt.Fprintln(w)
	fmt.Fprintf(w, "Users x Cycles       : %d x %d\n", s.Users, s.Cycles)
	fmt.Fprintf(w, "Mean Unique Towers   : %.2f\n", s.MeanUniqueTowers)
	fmt.Fprintf(w, "Move Rate            : %.3f\n", s.MoveRate)
	fmt.Fprintf(w, "Peak Occupancy       : %d\n", s.PeakOccupancy)
}

func matrixRows(m mat.Matrix) [][]float64 {
	if m == nil {
		return nil
	}
	r, _ := m.Dims()
	rows := make([][]float64, r)
	for i := range rows {
		rows[i] = mat.Row(nil, i, m)
	}
	return rows
}
