package kernel

import (
	"math"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"
)

func TestSampler_FollowsRowDistribution(t *testing.T) {
	// GIVEN a 2-row kernel with distinct distributions
	p := mat.NewDense(2, 3, []float64{
		0.2, 0.3, 0.5,
		0, 1, 0,
	})
	s := NewSampler(p)
	rng := rand.New(rand.NewSource(1))

	// WHEN sampling row 0 many times
	const n = 100000
	counts := make([]int, 3)
	for i := 0; i < n; i++ {
		j, err := s.Sample(rng, 0)
		require.NoError(t, err)
		counts[j]++
	}

	// THEN frequencies match the row
	for j, want := range []float64{0.2, 0.3, 0.5} {
		assert.InDelta(t, want, float64(counts[j])/n, 0.01, "col %d", j)
	}

	// THEN a degenerate row always returns its only support
	for i := 0; i < 1000; i++ {
		j, err := s.Sample(rng, 1)
		require.NoError(t, err)
		assert.Equal(t, 1, j)
	}
}

func TestSampler_ZeroProbabilityNeverDrawn(t *testing.T) {
	s := NewSampler(mat.NewDense(1, 4, []float64{0, 0.5, 0, 0.5}))
	rng := rand.New(rand.NewSource(2))
	for i := 0; i < 10000; i++ {
		j, err := s.Sample(rng, 0)
		require.NoError(t, err)
		assert.NotContains(t, []int{0, 2}, j)
	}
}

func TestSampler_MalformedRowFailsOnUse(t *testing.T) {
	// GIVEN a kernel whose second row is NaN
	p := mat.NewDense(2, 2, []float64{
		0.5, 0.5,
		math.NaN(), 1,
	})
	s := NewSampler(p)
	rng := rand.New(rand.NewSource(3))

	// THEN the healthy row still samples
	_, err := s.Sample(rng, 0)
	assert.NoError(t, err)

	// THEN the malformed row reports ErrInvalidKernel
	_, err = s.Sample(rng, 1)
	assert.ErrorIs(t, err, ErrInvalidKernel)
	assert.Equal(t, 2, s.Len())
}
