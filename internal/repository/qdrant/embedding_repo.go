package qdrant

import (
	"context"
	"fmt"

	"github.com/find-this-fit/go-backend/internal/cfg"
	"github.com/find-this-fit/go-backend/internal/domain"
	"github.com/find-this-fit/go-backend/pkg/e"
	"github.com/jimlawless/whereami"
	"github.com/qdrant/go-client/qdrant"
)

// EmbeddingRepo репозиторий для работы с embedding-векторами в Qdrant
type EmbeddingRepo struct {
	client *qdrant.Client
	cfg    *cfg.QdrantCfg
}

func NewEmbeddingRepo(client *qdrant.Client, cfg *cfg.QdrantCfg) *EmbeddingRepo {
	return &EmbeddingRepo{
		client: client,
		cfg:    cfg,
	}
}

// Upsert сохраняет или обновляет embedding-векторы в указанной коллекции Qdrant.
func (q *EmbeddingRepo) Upsert(ctx context.Context, vectors []domain.Embedding) error {
	reqVectors := make([]*qdrant.PointStruct, 0, len(vectors))
	for _, vector := range vectors {
		if uint64(len(vector.Vector)) != q.cfg.VectorSize {
			return e.Wrap(whereami.WhereAmI(), e.ErrDimensionMismatch)
		}

		reqVectors = append(reqVectors, &qdrant.PointStruct{
			Id:      qdrant.NewIDUUID(vector.ID),
			Vectors: qdrant.NewVectors(vector.Vector...),
			Payload: qdrant.NewValueMap(vector.Payload),
		})
	}

	_, err := q.client.Upsert(ctx, &qdrant.UpsertPoints{
		CollectionName: q.cfg.QdrantCollectionName,
		Points:         reqVectors,
	})
	if err != nil {
		return e.Wrap(whereami.WhereAmI(), fmt.Errorf("%w: %v", e.ErrIndexUnavailable, err))
	}

	return nil
}

// Search возвращает ближайших соседей вектора запроса, отсортированных по
// возрастанию косинусного расстояния. Атрибутные фильтры применяются на
// стороне Qdrant, до усечения по limit.
func (q *EmbeddingRepo) Search(ctx context.Context, vector []float32, limit uint64, filter *domain.SearchFilter) ([]domain.Neighbor, error) {
	if uint64(len(vector)) != q.cfg.VectorSize {
		return nil, e.Wrap(whereami.WhereAmI(), e.ErrDimensionMismatch)
	}

	points, err := q.client.Query(ctx, &qdrant.QueryPoints{
		CollectionName: q.cfg.QdrantCollectionName,
		Query:          qdrant.NewQuery(vector...),
		Limit:          qdrant.PtrOf(limit),
		Filter:         buildFilter(filter),
		WithPayload:    qdrant.NewWithPayload(true),
	})
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), fmt.Errorf("%w: %v", e.ErrIndexUnavailable, err))
	}

	neighbors := make([]domain.Neighbor, 0, len(points))
	for _, point := range points {
		payload := point.GetPayload()

		// score у косинусной метрики — это similarity, контракт выдачи — расстояние
		neighbors = append(neighbors, domain.Neighbor{
			ItemID:     payload["item_id"].GetIntegerValue(),
			Source:     payload["source"].GetStringValue(),
			ExternalID: payload["external_id"].GetStringValue(),
			Distance:   1 - float64(point.GetScore()),
		})
	}

	return neighbors, nil
}

// buildFilter переводит доменный фильтр в условия Qdrant. Пустой фильтр — nil,
// чтобы запрос шёл по всей коллекции.
func buildFilter(filter *domain.SearchFilter) *qdrant.Filter {
	if filter == nil || filter.IsEmpty() {
		return nil
	}

	must := make([]*qdrant.Condition, 0, 6)

	if filter.Category != "" {
		must = append(must, qdrant.NewMatch("category", filter.Category))
	}
	if filter.Brand != "" {
		// бренд ищется по подстроке без учёта регистра: "nike" находит "Nike Vintage"
		must = append(must, qdrant.NewMatchText("brand", filter.Brand))
	}
	if filter.Color != "" {
		must = append(must, qdrant.NewMatch("color", filter.Color))
	}
	if filter.Condition != "" {
		must = append(must, qdrant.NewMatch("condition", filter.Condition))
	}
	if len(filter.Sources) > 0 {
		must = append(must, qdrant.NewMatchKeywords("source", filter.Sources...))
	}
	if filter.MinPrice != nil || filter.MaxPrice != nil {
		priceRange := &qdrant.Range{}
		if filter.MinPrice != nil {
			priceRange.Gte = filter.MinPrice
		}
		if filter.MaxPrice != nil {
			priceRange.Lte = filter.MaxPrice
		}
		must = append(must, qdrant.NewRange("price", priceRange))
	}

	return &qdrant.Filter{Must: must}
}
