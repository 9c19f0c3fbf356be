package usecase

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeSimilaritiesBounds(t *testing.T) {
	distances := []float64{0.05, 0.2, 0.7, 1.3}

	similarities := normalizeSimilarities(distances)

	require.Len(t, similarities, len(distances))
	for i, s := range similarities {
		assert.GreaterOrEqual(t, s, 0.0, "similarity %d below zero", i)
		assert.LessOrEqual(t, s, 1.0, "similarity %d above one", i)
	}

	// самый дальний элемент выдачи получает 0
	assert.Zero(t, similarities[len(similarities)-1])
	// порядок сохраняется: ближе — выше оценка
	for i := 1; i < len(similarities); i++ {
		assert.GreaterOrEqual(t, similarities[i-1], similarities[i])
	}
}

func TestNormalizeSimilaritiesEmpty(t *testing.T) {
	assert.Nil(t, normalizeSimilarities(nil))
	assert.Nil(t, normalizeSimilarities([]float64{}))
}

func TestNormalizeSimilaritiesAllEqual(t *testing.T) {
	similarities := normalizeSimilarities([]float64{0.4, 0.4, 0.4})

	for _, s := range similarities {
		assert.Zero(t, s)
	}
}

func TestNormalizeSimilaritiesAllZero(t *testing.T) {
	// нулевой максимум заменяется единицей: точные совпадения получают 1, а не панику
	similarities := normalizeSimilarities([]float64{0, 0})

	for _, s := range similarities {
		assert.Equal(t, 1.0, s)
	}
}

func TestNormalizeSimilaritiesNearestApproachesOne(t *testing.T) {
	similarities := normalizeSimilarities([]float64{0.0, 0.5, 1.0})

	assert.Equal(t, 1.0, similarities[0])
	assert.Equal(t, 0.5, similarities[1])
	assert.Equal(t, 0.0, similarities[2])
}
