package embedding

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/find-this-fit/go-backend/internal/cfg"
	"github.com/find-this-fit/go-backend/pkg/e"
	"github.com/find-this-fit/go-backend/pkg/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// pngHeader — минимальная сигнатура PNG, достаточная для sniff-проверки.
var pngHeader = []byte{0x89, 0x50, 0x4e, 0x47, 0x0d, 0x0a, 0x1a, 0x0a, 0, 0, 0, 0}

func testCfg(addr string) *cfg.EmbeddingCfg {
	return &cfg.EmbeddingCfg{
		Provider:       cfg.ProviderClip,
		ClipAddr:       addr,
		RequestTimeout: 5 * time.Second,
		MaxRetries:     3,
	}
}

func TestNewProviderUnknown(t *testing.T) {
	_, err := NewProvider(&cfg.EmbeddingCfg{Provider: "bert"}, logger.NewSlogLogger())

	assert.True(t, errors.Is(err, e.ErrConfiguration))
}

func TestNewProviderOpenAIRequiresKey(t *testing.T) {
	_, err := NewProvider(&cfg.EmbeddingCfg{Provider: cfg.ProviderOpenAI}, logger.NewSlogLogger())

	// отсутствие ключа — ошибка конфигурации на старте, не при первом запросе
	assert.True(t, errors.Is(err, e.ErrConfiguration))
}

func TestNewProviderClip(t *testing.T) {
	provider, err := NewProvider(testCfg("http://clip:8000"), logger.NewSlogLogger())

	require.NoError(t, err)
	assert.IsType(t, &ClipProvider{}, provider)
}

func TestValidateInputRejectsEmpty(t *testing.T) {
	assert.True(t, errors.Is(validateInput(nil, "  "), e.ErrInvalidInput))
}

func TestValidateInputRejectsNonImageBytes(t *testing.T) {
	assert.True(t, errors.Is(validateInput([]byte("definitely not an image"), ""), e.ErrDecode))
}

func TestClipEmbedFusesModalities(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var vec []float32
		switch r.URL.Path {
		case "/embed/image":
			vec = []float32{1, 0}
		case "/embed/text":
			vec = []float32{0, 1}
		default:
			http.NotFound(w, r)
			return
		}
		_ = json.NewEncoder(w).Encode(clipEmbedResponse{Vector: vec, ModelVersion: "clip-test"})
	}))
	defer server.Close()

	provider := NewClipProvider(testCfg(server.URL), logger.NewSlogLogger())

	vec, err := provider.Embed(context.Background(), pngHeader, "black hoodie")

	require.NoError(t, err)
	require.Len(t, vec, 2)
	// среднее [0.5, 0.5] после ре-нормализации — единичная диагональ
	assert.InDelta(t, 0.7071, float64(vec[0]), 0.001)
	assert.InDelta(t, 0.7071, float64(vec[1]), 0.001)
}

func TestClipEmbedTextOnly(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/embed/text", r.URL.Path)
		_ = json.NewEncoder(w).Encode(clipEmbedResponse{Vector: []float32{3, 4}})
	}))
	defer server.Close()

	provider := NewClipProvider(testCfg(server.URL), logger.NewSlogLogger())

	vec, err := provider.Embed(context.Background(), nil, "vintage denim jacket")

	require.NoError(t, err)
	require.Len(t, vec, 2)
	// сырой вектор [3, 4] нормализуется до единичной длины на нашей стороне
	assert.InDelta(t, 0.6, float64(vec[0]), 0.001)
	assert.InDelta(t, 0.8, float64(vec[1]), 0.001)
}

func TestClipEmbedInvalidBytesNoNetworkCall(t *testing.T) {
	var hits atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
	}))
	defer server.Close()

	provider := NewClipProvider(testCfg(server.URL), logger.NewSlogLogger())

	_, err := provider.Embed(context.Background(), []byte("garbage bytes"), "")

	assert.True(t, errors.Is(err, e.ErrDecode))
	assert.Zero(t, hits.Load())
}

func TestClipEmbedRetriesTransientFailure(t *testing.T) {
	var hits atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if hits.Add(1) == 1 {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		_ = json.NewEncoder(w).Encode(clipEmbedResponse{Vector: []float32{1}})
	}))
	defer server.Close()

	provider := NewClipProvider(testCfg(server.URL), logger.NewSlogLogger())

	vec, err := provider.Embed(context.Background(), nil, "hoodie")

	require.NoError(t, err)
	assert.Equal(t, []float32{1}, vec)
	assert.Equal(t, int32(2), hits.Load())
}

func TestClipEmbedServiceRejectionNotRetried(t *testing.T) {
	var hits atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		w.WriteHeader(http.StatusUnprocessableEntity)
	}))
	defer server.Close()

	provider := NewClipProvider(testCfg(server.URL), logger.NewSlogLogger())

	_, err := provider.Embed(context.Background(), pngHeader, "")

	// 4xx детерминирован, повтор даст тот же ответ
	assert.True(t, errors.Is(err, e.ErrDecode))
	assert.Equal(t, int32(1), hits.Load())
}

func TestClipWarmupReadsModelVersion(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/healthz", r.URL.Path)
		_ = json.NewEncoder(w).Encode(clipHealthResponse{Status: "ok", ModelVersion: "clip-vit-l-14"})
	}))
	defer server.Close()

	provider := NewClipProvider(testCfg(server.URL), logger.NewSlogLogger())

	require.NoError(t, provider.Warmup(context.Background()))
	assert.Equal(t, "clip-vit-l-14", provider.ModelVersion())
}

func TestClipEmbedLeavesModelVersionUntouched(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/healthz" {
			_ = json.NewEncoder(w).Encode(clipHealthResponse{Status: "ok", ModelVersion: "clip-vit-l-14"})
			return
		}
		// сайдкар отдаёт другую версию в ответе на embed, провайдер её игнорирует
		_ = json.NewEncoder(w).Encode(clipEmbedResponse{Vector: []float32{1}, ModelVersion: "clip-rolled-forward"})
	}))
	defer server.Close()

	provider := NewClipProvider(testCfg(server.URL), logger.NewSlogLogger())
	require.NoError(t, provider.Warmup(context.Background()))

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := provider.Embed(context.Background(), nil, "hoodie")
			assert.NoError(t, err)
			assert.Equal(t, "clip-vit-l-14", provider.ModelVersion())
		}()
	}
	wg.Wait()

	assert.Equal(t, "clip-vit-l-14", provider.ModelVersion())
}

func openAICfg(baseURL string) *cfg.EmbeddingCfg {
	return &cfg.EmbeddingCfg{
		Provider:       cfg.ProviderOpenAI,
		OpenAIAPIKey:   "sk-test",
		OpenAIModel:    "image-embedding-3-large",
		OpenAIBaseURL:  baseURL,
		RequestTimeout: 5 * time.Second,
		MaxRetries:     3,
	}
}

func TestOpenAIEmbedRejectsMultimodal(t *testing.T) {
	provider := NewOpenAIProvider(openAICfg("http://api"), logger.NewSlogLogger())

	_, err := provider.Embed(context.Background(), pngHeader, "black hoodie")

	assert.True(t, errors.Is(err, e.ErrUnsupportedInput))
}

func TestOpenAIEmbedText(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/embeddings", r.URL.Path)
		require.Equal(t, "Bearer sk-test", r.Header.Get("Authorization"))

		var req openAIEmbeddingRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		require.Equal(t, []string{"silk scarf"}, req.Input)

		_ = json.NewEncoder(w).Encode(openAIEmbeddingResponse{
			Data: []openAIEmbeddingData{{Embedding: []float32{0.1, 0.2, 0.3}}},
		})
	}))
	defer server.Close()

	provider := NewOpenAIProvider(openAICfg(server.URL), logger.NewSlogLogger())

	vec, err := provider.Embed(context.Background(), nil, "silk scarf")

	require.NoError(t, err)
	assert.Equal(t, []float32{0.1, 0.2, 0.3}, vec)
}

func TestOpenAIEmbedAPIError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(openAIEmbeddingResponse{
			Error: &openAIError{Message: "model overloaded", Type: "server_error"},
		})
	}))
	defer server.Close()

	config := openAICfg(server.URL)
	config.MaxRetries = 1
	provider := NewOpenAIProvider(config, logger.NewSlogLogger())

	_, err := provider.Embed(context.Background(), nil, "scarf")

	assert.True(t, errors.Is(err, e.ErrProvider))
}
