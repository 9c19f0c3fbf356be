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
)

// OpenAIProvider — хостед-стратегия поверх OpenAI-совместимого embeddings API.
// Принимает одну модальность за запрос: совместного image+text пространства
// у этого API нет, такой вход отклоняется сразу, без сетевого вызова.
type OpenAIProvider struct {
	apiKey     string
	model      string
	baseURL    string
	client     *http.Client
	maxRetries int
	logger     logger.Logger
}

type openAIEmbeddingRequest struct {
	Input []string `json:"input"`
	Model string   `json:"model"`
}

type openAIEmbeddingResponse struct {
	Data  []openAIEmbeddingData `json:"data"`
	Error *openAIError          `json:"error,omitempty"`
}

type openAIEmbeddingData struct {
	Embedding []float32 `json:"embedding"`
	Index     int       `json:"index"`
}

type openAIError struct {
	Message string `json:"message"`
	Type    string `json:"type"`
}

func NewOpenAIProvider(config *cfg.EmbeddingCfg, logger logger.Logger) *OpenAIProvider {
	return &OpenAIProvider{
		apiKey:  config.OpenAIAPIKey,
		model:   config.OpenAIModel,
		baseURL: strings.TrimRight(config.OpenAIBaseURL, "/"),
		client: &http.Client{
			Timeout: config.RequestTimeout,
		},
		maxRetries: config.MaxRetries,
		logger:     logger,
	}
}

func (p *OpenAIProvider) Embed(ctx context.Context, image []byte, text string) ([]float32, error) {
	const op = "OpenAIProvider.Embed"

	if err := validateInput(image, text); err != nil {
		return nil, e.Wrap(op, err)
	}

	if len(image) > 0 && strings.TrimSpace(text) != "" {
		return nil, e.Wrap(op, e.ErrUnsupportedInput)
	}

	var input string
	if len(image) > 0 {
		contentType := http.DetectContentType(image)
		input = fmt.Sprintf("data:%s;base64,%s", contentType, base64.StdEncoding.EncodeToString(image))
	} else {
		input = text
	}

	vec, err := p.embedWithRetry(ctx, input)
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	return vec, nil
}

// Warmup у хостед-провайдера резидентной модели нет, прогревать нечего.
func (p *OpenAIProvider) Warmup(context.Context) error {
	return nil
}

func (p *OpenAIProvider) ModelVersion() string {
	return p.model
}

func (p *OpenAIProvider) embedWithRetry(ctx context.Context, input string) ([]float32, error) {
	const (
		baseJitter = 500 * time.Millisecond
		maxJitter  = 10 * time.Second
	)

	var lastErr error
	for attempt := 0; attempt < p.maxRetries; attempt++ {
		vec, err := p.doEmbed(ctx, input)
		if err == nil {
			return vec, nil
		}
		if errors.Is(err, e.ErrTimeout) || errors.Is(err, e.ErrInvalidInput) {
			return nil, err
		}
		lastErr = err

		if attempt == p.maxRetries-1 {
			break
		}

		sleepTime := jitter.ExponentialBackoff(
			baseJitter,
			maxJitter,
			attempt,
			jitter.DefaultJitter,
		)

		p.logger.Warnf("embedding request failed, retrying in %v (attempt %d): %v", sleepTime, attempt+1, err)
		select {
		case <-time.After(sleepTime):
		case <-ctx.Done():
			return nil, e.Wrap("OpenAIProvider.embedWithRetry", ctx.Err())
		}
	}

	return nil, lastErr
}

func (p *OpenAIProvider) doEmbed(ctx context.Context, input string) ([]float32, error) {
	reqBody := openAIEmbeddingRequest{
		Input: []string{input},
		Model: p.model,
	}

	jsonData, err := json.Marshal(reqBody)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.baseURL+"/embeddings", bytes.NewReader(jsonData))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+p.apiKey)

	resp, err := p.client.Do(req)
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

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: status %d: %s", e.ErrProvider, resp.StatusCode, respBody)
	}

	var embResp openAIEmbeddingResponse
	if err := json.Unmarshal(respBody, &embResp); err != nil {
		return nil, fmt.Errorf("%w: malformed response: %v", e.ErrProvider, err)
	}
	if embResp.Error != nil {
		return nil, fmt.Errorf("%w: api error: %s", e.ErrProvider, embResp.Error.Message)
	}
	if len(embResp.Data) == 0 || len(embResp.Data[0].Embedding) == 0 {
		return nil, fmt.Errorf("%w: empty embedding in response", e.ErrEmptyVector)
	}

	return embResp.Data[0].Embedding, nil
}
