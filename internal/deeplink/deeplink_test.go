package deeplink

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestResolveKnownSources(t *testing.T) {
	r := NewResolver(nil)

	tests := []struct {
		source     string
		externalID string
		want       string
	}{
		{"depop", "123", "depop://product/123"},
		{"grailed", "456", "https://www.grailed.com/listings/456"},
		{"vinted", "789", "https://www.vinted.com/items/789"},
		{"Depop", "123", "depop://product/123"}, // регистр источника не важен
	}

	for _, tt := range tests {
		t.Run(tt.source, func(t *testing.T) {
			got := r.Resolve(tt.source, tt.externalID, "https://example.com/fallback")
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestResolveUnknownSourceFallsBack(t *testing.T) {
	r := NewResolver(nil)

	got := r.Resolve("poshmark", "42", "https://poshmark.com/listing/42")

	assert.Equal(t, "https://poshmark.com/listing/42", got)
}

func TestResolveMissingExternalIDFallsBack(t *testing.T) {
	r := NewResolver(nil)

	got := r.Resolve("depop", "", "https://x/123")

	assert.Equal(t, "https://x/123", got)
}

func TestResolveOverrides(t *testing.T) {
	r := NewResolver(map[string]string{
		"depop":    "https://www.depop.com/products/{id}",
		"poshmark": "poshmark://listing/{id}",
	})

	assert.Equal(t, "https://www.depop.com/products/9", r.Resolve("depop", "9", ""))
	assert.Equal(t, "poshmark://listing/7", r.Resolve("poshmark", "7", ""))
	// не затронутые переопределениями источники остаются встроенными
	assert.Equal(t, "https://www.vinted.com/items/5", r.Resolve("vinted", "5", ""))
}
