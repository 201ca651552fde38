// Package testutil provides shared assertion helpers for the sim/ test
// packages.
package testutil

import (
	"math"
	"testing"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

// AssertFloat64Equal compares two float64 values with relative tolerance.
func AssertFloat64Equal(t *testing.T, name string, want, got, relTol float64) {
	t.Helper()
	if want == 0 && got == 0 {
		return
	}
	diff := math.Abs(want - got)
	maxVal := math.Max(math.Abs(want), math.Abs(got))
	if diff/maxVal > relTol {
		t.Errorf("%s: got %v, want %v (diff=%v, relDiff=%v)", name, got, want, diff, diff/maxVal)
	}
}

// AssertRowStochastic checks that every row of m is non-negative and sums to
// 1 within tol.
func AssertRowStochastic(t *testing.T, m mat.Matrix, tol float64) {
	t.Helper()
	rows, cols := m.Dims()
	row := make([]float64, cols)
	for i := 0; i < rows; i++ {
		mat.Row(row, i, m)
		if sum := floats.Sum(row); math.Abs(sum-1) > tol {
			t.Errorf("row %d sums to %v, want 1±%v", i, sum, tol)
		}
		if min := floats.Min(row); min < 0 || math.IsNaN(min) {
			t.Errorf("row %d has invalid entry %v", i, min)
		}
	}
}

// AssertOccupancyTotals checks that every cycle of an occupancy matrix counts
// exactly users users.
func AssertOccupancyTotals(t *testing.T, occupancy [][]int, users int) {
	t.Helper()
	for c, counts := range occupancy {
		total := 0
		for _, n := range counts {
			total += n
		}
		if total != users {
			t.Errorf("cycle %d: occupancy sums to %d, want %d", c, total, users)
		}
	}
}
