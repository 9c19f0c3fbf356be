package http

import (
	"errors"
	"net/http"
	"net/url"
	"strings"
	"testing"

	"github.com/find-this-fit/go-backend/pkg/e"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParsePriceToCents(t *testing.T) {
	cases := []struct {
		in   string
		want int64
	}{
		{"599.99", 59999},
		{"600", 60000},
		{"0.01", 1},
		{"0", 0},
	}
	for _, c := range cases {
		got, err := parsePriceToCents(c.in)
		require.NoError(t, err, c.in)
		assert.Equal(t, c.want, got, c.in)
	}
}

func TestParsePriceToCentsRejectsBadInput(t *testing.T) {
	for _, in := range []string{"abc", "-5", "10.999"} {
		_, err := parsePriceToCents(in)
		assert.Error(t, err, in)
	}
}

func TestParsePriceToCentsPrecision(t *testing.T) {
	_, err := parsePriceToCents("10.999")
	assert.True(t, errors.Is(err, e.ErrPricePrecision))
}

func formRequest(values url.Values) *http.Request {
	r, _ := http.NewRequest(http.MethodPost, "/", strings.NewReader(values.Encode()))
	r.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return r
}

func TestParseSearchFilterEmpty(t *testing.T) {
	filter, err := parseSearchFilter(formRequest(url.Values{}))

	require.NoError(t, err)
	assert.Nil(t, filter)
}

func TestParseSearchFilterFull(t *testing.T) {
	filter, err := parseSearchFilter(formRequest(url.Values{
		"category":  {"hoodie"},
		"brand":     {"nike"},
		"sources":   {"depop, grailed"},
		"min_price": {"10"},
		"max_price": {"99.5"},
	}))

	require.NoError(t, err)
	require.NotNil(t, filter)
	assert.Equal(t, "hoodie", filter.Category)
	assert.Equal(t, "nike", filter.Brand)
	assert.Equal(t, []string{"depop", "grailed"}, filter.Sources)
	require.NotNil(t, filter.MinPrice)
	assert.Equal(t, 10.0, *filter.MinPrice)
	require.NotNil(t, filter.MaxPrice)
	assert.Equal(t, 99.5, *filter.MaxPrice)
}

func TestParseSearchFilterRejectsNegativePrice(t *testing.T) {
	_, err := parseSearchFilter(formRequest(url.Values{"min_price": {"-1"}}))

	assert.True(t, errors.Is(err, e.ErrInvalidPrice))
}

func TestToHTTPResponseCategories(t *testing.T) {
	cases := []struct {
		err  error
		code int
	}{
		{e.ErrInvalidInput, http.StatusBadRequest},
		{e.ErrDecode, http.StatusBadRequest},
		{e.ErrInvalidLimit, http.StatusBadRequest},
		{e.ErrUnsupportedInput, http.StatusUnprocessableEntity},
		{e.ErrProvider, http.StatusBadGateway},
		{e.ErrTimeout, http.StatusGatewayTimeout},
		{e.ErrIndexUnavailable, http.StatusServiceUnavailable},
		{errors.New("anything else"), http.StatusInternalServerError},
	}
	for _, c := range cases {
		code, _ := ToHTTPResponse(c.err)
		assert.Equal(t, c.code, code, c.err)
	}
}
