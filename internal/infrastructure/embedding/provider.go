package embedding

import (
	"net/http"
	"strings"

	"github.com/find-this-fit/go-backend/internal/cfg"
	"github.com/find-this-fit/go-backend/internal/usecase"
	"github.com/find-this-fit/go-backend/pkg/e"
	"github.com/find-this-fit/go-backend/pkg/logger"
)

// NewProvider выбирает стратегию эмбеддингов по конфигурации. Выбор делается
// один раз на старте процесса: хостед-провайдер требует API-ключ ещё до
// первого запроса, а не при нём.
func NewProvider(config *cfg.EmbeddingCfg, log logger.Logger) (usecase.EmbeddingProvider, error) {
	const op = "embedding.NewProvider"

	switch config.Provider {
	case cfg.ProviderClip:
		return NewClipProvider(config, log), nil
	case cfg.ProviderOpenAI:
		if config.OpenAIAPIKey == "" {
			return nil, e.Wrap(op, e.ErrConfiguration)
		}
		return NewOpenAIProvider(config, log), nil
	default:
		return nil, e.Wrap(op, e.ErrConfiguration)
	}
}

// validateInput проверяет предусловия обеих стратегий: хотя бы одна модальность
// присутствует, а байты изображения похожи на изображение.
func validateInput(image []byte, text string) error {
	if len(image) == 0 && strings.TrimSpace(text) == "" {
		return e.ErrInvalidInput
	}

	if len(image) > 0 {
		contentType := http.DetectContentType(image)
		if !strings.HasPrefix(contentType, "image/") {
			return e.ErrDecode
		}
	}

	return nil
}
