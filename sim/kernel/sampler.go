package kernel

import (
	"fmt"
	"math/rand"
	"sort"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

// Sampler draws destination towers from a transition matrix using
// precomputed per-row cumulative distributions. Rows are validated up front
// but a malformed row only surfaces as an error when it is sampled.
//
// A Sampler is read-only after construction and safe for concurrent use with
// distinct rngs.
type Sampler struct {
	cdf  [][]float64
	errs []error
}

// NewSampler prepares probabilities for sampling.
func NewSampler(probabilities mat.Matrix) *Sampler {
	rows, cols := probabilities.Dims()
	s := &Sampler{
		cdf:  make([][]float64, rows),
		errs: make([]error, rows),
	}
	row := make([]float64, cols)
	for i := 0; i < rows; i++ {
		mat.Row(row, i, probabilities)
		if err := CheckRow(row); err != nil {
			s.errs[i] = fmt.Errorf("row %d: %w", i, err)
			continue
		}
		s.cdf[i] = floats.CumSum(make([]float64, cols), row)
	}
	return s
}

// Len returns the number of rows, which is also the number of towers.
func (s *Sampler) Len() int { return len(s.cdf) }

// Sample draws a destination from row.
func (s *Sampler) Sample(rng *rand.Rand, row int) (int, error) {
	if s.errs[row] != nil {
		return 0, s.errs[row]
	}
	cdf := s.cdf[row]
	u := rng.Float64() * cdf[len(cdf)-1]
	idx := sort.Search(len(cdf), func(i int) bool { return cdf[i] > u })
	if idx == len(cdf) {
		idx = len(cdf) - 1
	}
	return idx, nil
}
