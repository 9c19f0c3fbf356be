package vector

import (
	"errors"
	"math"
	"testing"

	"github.com/find-this-fit/go-backend/pkg/e"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const eps = 1e-6

func unit(dim, axis int) []float32 {
	v := make([]float32, dim)
	v[axis] = 1
	return v
}

func TestEnsureDimension(t *testing.T) {
	tests := []struct {
		name   string
		vec    []float32
		target int
	}{
		{"shorter is zero padded", []float32{1, 2, 3}, 5},
		{"equal is unchanged", []float32{1, 2, 3, 4}, 4},
		{"longer is truncated", []float32{1, 2, 3, 4, 5, 6, 7, 8, 9}, 4},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := EnsureDimension(tt.vec, tt.target)
			assert.Len(t, got, tt.target)
		})
	}
}

func TestEnsureDimensionPadding(t *testing.T) {
	got := EnsureDimension([]float32{1, 2}, 4)

	assert.Equal(t, []float32{1, 2, 0, 0}, got)
	// дополнение нулями не меняет норму
	assert.InDelta(t, Norm([]float32{1, 2}), Norm(got), eps)
}

func TestEnsureDimensionTruncationRenormalizes(t *testing.T) {
	src := Normalize([]float32{1, 1, 1, 1})

	got := EnsureDimension(src, 2)

	require.Len(t, got, 2)
	assert.InDelta(t, 1.0, Norm(got), eps)
}

func TestEnsureDimensionZeroTarget(t *testing.T) {
	assert.Empty(t, EnsureDimension([]float32{1, 2, 3}, 0))
	assert.Empty(t, EnsureDimension([]float32{1, 2, 3}, -1))
}

func TestNormalize(t *testing.T) {
	got := Normalize([]float32{3, 4})

	assert.InDelta(t, 1.0, Norm(got), eps)
	assert.InDelta(t, 0.6, float64(got[0]), eps)
	assert.InDelta(t, 0.8, float64(got[1]), eps)
}

func TestNormalizeZeroVector(t *testing.T) {
	got := Normalize([]float32{0, 0, 0})
	assert.Equal(t, []float32{0, 0, 0}, got)
}

func TestFuseUnitLength(t *testing.T) {
	a := Normalize([]float32{1, 0, 1})
	b := Normalize([]float32{0, 1, 1})

	got, err := Fuse(a, b)

	require.NoError(t, err)
	assert.InDelta(t, 1.0, Norm(got), eps)
}

func TestFuseIdenticalInputs(t *testing.T) {
	a := unit(4, 1)

	got, err := Fuse(a, a)

	require.NoError(t, err)
	for i := range a {
		assert.InDelta(t, float64(a[i]), float64(got[i]), eps)
	}
}

func TestFuseDimensionMismatch(t *testing.T) {
	_, err := Fuse(unit(3, 0), unit(4, 0))
	assert.True(t, errors.Is(err, e.ErrDimensionMismatch))
}

func TestFuseDegenerate(t *testing.T) {
	a := unit(3, 0)
	b := []float32{-1, 0, 0}

	_, err := Fuse(a, b)

	assert.True(t, errors.Is(err, e.ErrDegenerateFusion))
}

func TestCosineDistance(t *testing.T) {
	a := unit(3, 0)

	assert.InDelta(t, 0.0, CosineDistance(a, a), eps)
	assert.InDelta(t, 1.0, CosineDistance(a, unit(3, 1)), eps)
	assert.InDelta(t, 2.0, CosineDistance(a, []float32{-1, 0, 0}), eps)
}

func TestCosineSimilarityDegenerateInputs(t *testing.T) {
	assert.Zero(t, CosineSimilarity([]float32{1}, []float32{1, 2}))
	assert.Zero(t, CosineSimilarity([]float32{0, 0}, []float32{1, 1}))
	assert.Zero(t, CosineSimilarity(nil, nil))
}

func TestFuseMatchesManualAverage(t *testing.T) {
	a := Normalize([]float32{0.2, 0.5, 0.8})
	b := Normalize([]float32{0.9, 0.1, 0.3})

	got, err := Fuse(a, b)
	require.NoError(t, err)

	mean := make([]float64, len(a))
	var norm float64
	for i := range a {
		mean[i] = (float64(a[i]) + float64(b[i])) / 2
		norm += mean[i] * mean[i]
	}
	norm = math.Sqrt(norm)

	for i := range got {
		assert.InDelta(t, mean[i]/norm, float64(got[i]), eps)
	}
}
