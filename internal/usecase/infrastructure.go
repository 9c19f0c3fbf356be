package usecase

import "context"

// EmbeddingProvider превращает изображение и/или текст в единичный вектор
// нативной размерности модели. Конкретная стратегия (hosted API или резидентная
// CLIP-модель) выбирается один раз на старте и внедряется как зависимость.
type EmbeddingProvider interface {
	Embed(ctx context.Context, image []byte, text string) ([]float32, error)
	// Warmup прогревает провайдера на старте процесса, чтобы многосекундная
	// загрузка модели не пришлась на первый пользовательский запрос.
	Warmup(ctx context.Context) error
	ModelVersion() string
}

type ImagesInfra interface {
	UploadImages(ctx context.Context, req *UploadImagesReq) (*UploadImagesRes, error)
	CleanupImages(keys []string)
}

type MessageProducer interface {
	WriteRawMessage(ctx context.Context, req *WriteRawMessageReq) error
}
