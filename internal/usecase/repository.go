package usecase

import (
	"context"

	"github.com/find-this-fit/go-backend/internal/domain"
)

type ItemRepository interface {
	Upsert(ctx context.Context, item *domain.Item) (*UpsertItemRes, error)
	MarkEmbedded(ctx context.Context, itemID int64, embeddingVersion int32) error
	GetItemsInfo(ctx context.Context, ids []int64) ([]ItemInfo, error)
	GetFilterOptions(ctx context.Context) (*FilterOptions, error)
}

type EmbeddingRepository interface {
	Upsert(ctx context.Context, vectors []domain.Embedding) error
	Search(ctx context.Context, vector []float32, limit uint64, filter *domain.SearchFilter) ([]domain.Neighbor, error)
}

type EmbeddingVersionRepository interface {
	Upsert(ctx context.Context, itemID int64) (int32, error)
}

type ImageRepository interface {
	Upload(ctx context.Context, image *domain.Image) (string, error)
	Delete(ctx context.Context, key string) error
}

type CacheRepository interface {
	GetItems(ctx context.Context, ids []int64) (map[int64]ItemInfo, error)
	SetItems(ctx context.Context, items []ItemInfo) error
	DeleteItems(ctx context.Context, ids []int64) error

	// Кэш эмбеддингов текстовых запросов: один и тот же текст всегда даёт
	// один и тот же вектор, повторный вызов провайдера не нужен.
	GetQueryEmbedding(ctx context.Context, text string) ([]float32, error)
	SetQueryEmbedding(ctx context.Context, text string, vector []float32) error

	// Кэш справочника значений фильтров: DISTINCT-агрегаты по каталогу
	// дороговаты, чтобы считать их на каждый запрос UI.
	GetFilterOptions(ctx context.Context) (*FilterOptions, error)
	SetFilterOptions(ctx context.Context, options *FilterOptions) error
}

type OutboxRepository interface {
	Create(ctx context.Context, event *OutboxEvent) (*OutboxEvent, error)
	GetAndMarkAsProcessing(ctx context.Context, limit int) ([]*OutboxEvent, error)
	MarkAsProcessed(ctx context.Context, id int64) error
}
