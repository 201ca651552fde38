// Package kernel turns a tower distance matrix into a row-stochastic
// transition matrix and samples destinations from it.
package kernel

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

// Method names a distance-weighting scheme.
type Method string

const (
	// MethodDistanceDistribution scores -(d^2) * DecayKernel(d^2, sigma) * expander.
	MethodDistanceDistribution Method = "distance_distribution"
	// MethodDistanceSquare scores -(d + 1)^distancePower.
	MethodDistanceSquare Method = "distance_square"
)

var validMethods = map[Method]bool{
	MethodDistanceDistribution: true,
	MethodDistanceSquare:       true,
}

// IsValidMethod reports whether name is a recognized weighting method.
func IsValidMethod(name string) bool {
	return validMethods[Method(name)]
}

var (
	// ErrUnknownMethod is returned by Build for an unrecognized Method.
	ErrUnknownMethod = errors.New("unknown weighting method")
	// ErrInvalidKernel is returned when a row used for sampling is not a
	// probability distribution.
	ErrInvalidKernel = errors.New("invalid transition kernel")
)

// RowSumTolerance bounds how far a row sum may stray from 1.
const RowSumTolerance = 1e-9

// Params selects the weighting method and its coefficients. Sigma and
// Expander only apply to MethodDistanceDistribution, DistancePower only to
// MethodDistanceSquare.
type Params struct {
	Method        Method
	Sigma         float64
	Expander      float64
	DistancePower float64
}

// DecayKernel is a smooth weight that strictly decreases with the squared
// distance s. Larger sigma flattens it.
func DecayKernel(s, sigma float64) float64 {
	return 1 / (sigma + s)
}

// Scores returns the raw, unnormalized transition scores for every ordered
// tower pair.
func Scores(distances mat.Symmetric, p Params) (*mat.Dense, error) {
	var score func(d float64) float64
	switch p.Method {
	case MethodDistanceDistribution:
		score = func(d float64) float64 {
			s := d * d
			return -s * DecayKernel(s, p.Sigma) * p.Expander
		}
	case MethodDistanceSquare:
		score = func(d float64) float64 {
			return -math.Pow(d+1, p.DistancePower)
		}
	default:
		return nil, fmt.Errorf("%w %q; valid: distance_distribution, distance_square", ErrUnknownMethod, p.Method)
	}

	n := distances.SymmetricDim()
	raw := mat.NewDense(n, n, nil)
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			raw.Set(i, j, score(distances.At(i, j)))
		}
	}
	return raw, nil
}

// Build returns the transition matrix for distances: row i is the
// distribution over the next tower given the current tower i.
//
// A single matrix-wide offset of max/2 is removed before each row is
// softmax-normalized on its own.
func Build(distances mat.Symmetric, p Params) (*mat.Dense, error) {
	raw, err := Scores(distances, p)
	if err != nil {
		return nil, err
	}
	offset := mat.Max(raw) / 2
	raw.Apply(func(_, _ int, v float64) float64 { return v - offset }, raw)

	n, _ := raw.Dims()
	for i := 0; i < n; i++ {
		row := raw.RawRowView(i)
		Softmax(row, row)
	}
	return raw, nil
}

// Softmax writes the normalized exponential of scores into dst and returns
// it. dst and scores may alias. The row maximum is subtracted first.
func Softmax(dst, scores []float64) []float64 {
	if len(dst) != len(scores) {
		panic("kernel: softmax length mismatch")
	}
	if len(scores) == 0 {
		return dst
	}
	top := floats.Max(scores)
	for i, v := range scores {
		dst[i] = math.Exp(v - top)
	}
	floats.Scale(1/floats.Sum(dst), dst)
	return dst
}

// CheckRow returns ErrInvalidKernel unless row holds finite non-negative
// entries summing to 1 within RowSumTolerance.
func CheckRow(row []float64) error {
	for j, v := range row {
		if math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
			return fmt.Errorf("%w: entry %d is %v", ErrInvalidKernel, j, v)
		}
	}
	if sum := floats.Sum(row); math.Abs(sum-1) > RowSumTolerance {
		return fmt.Errorf("%w: row sums to %v", ErrInvalidKernel, sum)
	}
	return nil
}
