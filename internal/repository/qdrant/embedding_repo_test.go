package qdrant

import (
	"testing"

	"github.com/find-this-fit/go-backend/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func float64Ptr(v float64) *float64 { return &v }

func TestBuildFilterNil(t *testing.T) {
	assert.Nil(t, buildFilter(nil))
}

func TestBuildFilterEmpty(t *testing.T) {
	assert.Nil(t, buildFilter(&domain.SearchFilter{}))
}

func TestBuildFilterAllConditions(t *testing.T) {
	filter := &domain.SearchFilter{
		Category:  "hoodie",
		Brand:     "nike",
		Color:     "black",
		Condition: "used",
		Sources:   []string{"depop", "grailed"},
		MinPrice:  float64Ptr(10),
		MaxPrice:  float64Ptr(150),
	}

	qf := buildFilter(filter)

	require.NotNil(t, qf)
	// category, brand, color, condition, sources, price range
	assert.Len(t, qf.Must, 6)
}

func TestBuildFilterPriceRangeOnly(t *testing.T) {
	qf := buildFilter(&domain.SearchFilter{MinPrice: float64Ptr(25)})

	require.NotNil(t, qf)
	require.Len(t, qf.Must, 1)

	rangeCond := qf.Must[0].GetField()
	require.NotNil(t, rangeCond)
	require.NotNil(t, rangeCond.GetRange())
	require.NotNil(t, rangeCond.GetRange().Gte)
	assert.Equal(t, 25.0, *rangeCond.GetRange().Gte)
	assert.Nil(t, rangeCond.GetRange().Lte)
}

func TestBuildFilterSourcesKeywords(t *testing.T) {
	qf := buildFilter(&domain.SearchFilter{Sources: []string{"vinted"}})

	require.NotNil(t, qf)
	require.Len(t, qf.Must, 1)

	field := qf.Must[0].GetField()
	require.NotNil(t, field)
	assert.Equal(t, "source", field.GetKey())
}
