package embedding

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/find-this-fit/go-backend/internal/cfg"
	"github.com/find-this-fit/go-backend/pkg/e"
	"github.com/find-this-fit/go-backend/pkg/jitter"
	"github.com/find-this-fit/go-backend/pkg/logger"
	"github.com/find-this-fit/go-backend/pkg/vector"
)

// ClipProvider — клиент inference-сервиса с резидентной CLIP-моделью.
// Изображение и текст проецируются в общее векторное пространство, поэтому
// мультимодальный запрос сводится к слиянию двух эмбеддингов на стороне клиента.
type ClipProvider struct {
	addr       string
	client     *http.Client
	maxRetries int
	// modelVersion пишется только до начала обслуживания (конструктор и
	// Warmup), дальше читается конкурентно без синхронизации.
	modelVersion string
	logger       logger.Logger
}

type clipImageRequest struct {
	ImageBase64 string `json:"image_base64"`
}

type clipTextRequest struct {
	Text string `json:"text"`
}

type clipEmbedResponse struct {
	Vector       []float32 `json:"vector"`
	ModelVersion string    `json:"model_version"`
}

type clipHealthResponse struct {
	Status       string `json:"status"`
	ModelVersion string `json:"model_version"`
}

func NewClipProvider(config *cfg.EmbeddingCfg, logger logger.Logger) *ClipProvider {
	return &ClipProvider{
		addr: strings.TrimRight(config.ClipAddr, "/"),
		client: &http.Client{
			Timeout: config.RequestTimeout,
		},
		maxRetries:   config.MaxRetries,
		modelVersion: "clip-vit-base-patch32",
		logger:       logger,
	}
}

// Embed векторизует изображение и/или текст. При обеих модальностях каждая
// векторизуется отдельно, результат — среднее с ре-нормализацией.
func (c *ClipProvider) Embed(ctx context.Context, image []byte, text string) ([]float32, error) {
	const op = "ClipProvider.Embed"

	if err := validateInput(image, text); err != nil {
		return nil, e.Wrap(op, err)
	}

	var imageVec, textVec []float32
	var err error

	if len(image) > 0 {
		imageVec, err = c.embedImage(ctx, image)
		if err != nil {
			return nil, e.Wrap(op, err)
		}
	}

	if strings.TrimSpace(text) != "" {
		textVec, err = c.embedText(ctx, text)
		if err != nil {
			return nil, e.Wrap(op, err)
		}
	}

	// Сервис отдаёт нормализованные векторы, но единичную длину контракт
	// требует и на этой стороне: слияние — равновесное среднее только
	// для единичных векторов.
	switch {
	case imageVec != nil && textVec != nil:
		fused, err := vector.Fuse(vector.Normalize(imageVec), vector.Normalize(textVec))
		if err != nil {
			return nil, e.Wrap(op, err)
		}
		return fused, nil
	case imageVec != nil:
		return vector.Normalize(imageVec), nil
	default:
		return vector.Normalize(textVec), nil
	}
}

// Warmup дожидается готовности inference-сервиса: загрузка весов CLIP занимает
// десятки секунд и не должна прийтись на первый пользовательский запрос.
func (c *ClipProvider) Warmup(ctx context.Context) error {
	const (
		op         = "ClipProvider.Warmup"
		baseJitter = 1 * time.Second
		maxJitter  = 30 * time.Second
	)

	for attempt := 0; attempt < c.maxRetries; attempt++ {
		health, err := c.checkHealth(ctx)
		if err == nil {
			if health.ModelVersion != "" {
				c.modelVersion = health.ModelVersion
			}
			return nil
		}

		if attempt == c.maxRetries-1 {
			return e.Wrap(op, fmt.Errorf("all %d attempts failed: %w", c.maxRetries, err))
		}

		sleepTime := jitter.ExponentialBackoff(
			baseJitter,
			maxJitter,
			attempt,
			jitter.DefaultJitter,
		)

		c.logger.Warnf("clip service not ready, retrying in %v (attempt %d)", sleepTime, attempt+1)
		select {
		case <-time.After(sleepTime):
		case <-ctx.Done():
			return e.Wrap(op, ctx.Err())
		}
	}

	return e.Wrap(op, fmt.Errorf("unreachable"))
}

func (c *ClipProvider) ModelVersion() string {
	return c.modelVersion
}

func (c *ClipProvider) embedImage(ctx context.Context, image []byte) ([]float32, error) {
	body := clipImageRequest{
		ImageBase64: base64.StdEncoding.EncodeToString(image),
	}
	return c.embedWithRetry(ctx, "/embed/image", body)
}

func (c *ClipProvider) embedText(ctx context.Context, text string) ([]float32, error) {
	return c.embedWithRetry(ctx, "/embed/text", clipTextRequest{Text: text})
}

// embedWithRetry повторяет запрос с экспоненциальной задержкой. Ошибки декодирования
// изображения на стороне сервиса (4xx) не ретраятся: повтор даст тот же ответ.
func (c *ClipProvider) embedWithRetry(ctx context.Context, path string, body any) ([]float32, error) {
	const (
		op         = "ClipProvider.embedWithRetry"
		baseJitter = 500 * time.Millisecond
		maxJitter  = 10 * time.Second
	)

	var lastErr error
	for attempt := 0; attempt < c.maxRetries; attempt++ {
		vec, err := c.doEmbed(ctx, path, body)
		if err == nil {
			return vec, nil
		}
		if errors.Is(err, e.ErrDecode) || errors.Is(err, e.ErrTimeout) {
			return nil, e.Wrap(op, err)
		}
		lastErr = err

		if attempt == c.maxRetries-1 {
			break
		}

		sleepTime := jitter.ExponentialBackoff(
			baseJitter,
			maxJitter,
			attempt,
			jitter.DefaultJitter,
		)

		c.logger.Warnf("embedding request failed, retrying in %v (attempt %d): %v", sleepTime, attempt+1, err)
		select {
		case <-time.After(sleepTime):
		case <-ctx.Done():
			return nil, e.Wrap(op, ctx.Err())
		}
	}

	return nil, e.Wrap(op, lastErr)
}

func (c *ClipProvider) doEmbed(ctx context.Context, path string, body any) ([]float32, error) {
	jsonData, err := json.Marshal(body)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.addr+path, bytes.NewReader(jsonData))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return nil, e.ErrTimeout
		}
		var netErr interface{ Timeout() bool }
		if errors.As(err, &netErr) && netErr.Timeout() {
			return nil, e.ErrTimeout
		}
		return nil, fmt.Errorf("%w: %v", e.ErrProvider, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", e.ErrProvider, err)
	}

	switch {
	case resp.StatusCode == http.StatusUnprocessableEntity || resp.StatusCode == http.StatusBadRequest:
		return nil, fmt.Errorf("%w: service rejected input: %s", e.ErrDecode, respBody)
	case resp.StatusCode != http.StatusOK:
		return nil, fmt.Errorf("%w: status %d: %s", e.ErrProvider, resp.StatusCode, respBody)
	}

	var embResp clipEmbedResponse
	if err := json.Unmarshal(respBody, &embResp); err != nil {
		return nil, fmt.Errorf("%w: malformed response: %v", e.ErrProvider, err)
	}

	if len(embResp.Vector) == 0 {
		return nil, fmt.Errorf("%w: empty vector in response", e.ErrEmptyVector)
	}

	return embResp.Vector, nil
}

func (c *ClipProvider) checkHealth(ctx context.Context) (*clipHealthResponse, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.addr+"/healthz", nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("health status %d", resp.StatusCode)
	}

	var health clipHealthResponse
	if err := json.NewDecoder(resp.Body).Decode(&health); err != nil {
		return nil, err
	}

	return &health, nil
}
