package usecase

import (
	"context"
	"strings"
	"time"

	"github.com/find-this-fit/go-backend/internal/deeplink"
	"github.com/find-this-fit/go-backend/pkg/e"
	"github.com/find-this-fit/go-backend/pkg/logger"
	"github.com/find-this-fit/go-backend/pkg/vector"
)

// SearchUseCase реализует поиск визуально и семантически похожих объявлений:
// вход превращается в вектор целевой размерности, индекс отвечает ближайшими
// соседями, результат ранжируется и обогащается метаданными и deep-link ссылками.
type SearchUseCase struct {
	provider      EmbeddingProvider
	embeddingRepo EmbeddingRepository
	itemRepo      ItemRepository
	cacheRepo     CacheRepository
	deeplinks     *deeplink.Resolver
	vectorSize    int
	defaultLimit  uint64
	maxLimit      uint64
	logger        logger.Logger
}

func NewSearchUC(
	provider EmbeddingProvider,
	embeddingRepo EmbeddingRepository,
	itemRepo ItemRepository,
	cacheRepo CacheRepository,
	deeplinks *deeplink.Resolver,
	vectorSize int,
	defaultLimit uint64,
	maxLimit uint64,
	logger logger.Logger,
) *SearchUseCase {
	return &SearchUseCase{
		provider:      provider,
		embeddingRepo: embeddingRepo,
		itemRepo:      itemRepo,
		cacheRepo:     cacheRepo,
		deeplinks:     deeplinks,
		vectorSize:    vectorSize,
		defaultLimit:  defaultLimit,
		maxLimit:      maxLimit,
		logger:        logger,
	}
}

// SearchSimilar выполняет полный поисковый конвейер запроса.
// Ошибки эмбеддинга и ошибки индекса доходят до вызывающего как разные
// категории: пустая выдача никогда не подменяет собой сбой.
func (s *SearchUseCase) SearchSimilar(ctx context.Context, req *SearchReq) (*SearchRes, error) {
	const op = "SearchUseCase.SearchSimilar"

	limit, err := s.resolveLimit(req.Limit)
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	if len(req.Image) == 0 && strings.TrimSpace(req.Text) == "" {
		return nil, e.Wrap(op, e.ErrInvalidInput)
	}

	queryVector, err := s.queryEmbedding(ctx, req)
	if err != nil {
		return nil, e.Wrap(op, err)
	}
	queryVector = vector.EnsureDimension(queryVector, s.vectorSize)

	neighbors, err := s.embeddingRepo.Search(ctx, queryVector, limit, req.Filter)
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	// Пустая выдача — валидный результат, не ошибка.
	if len(neighbors) == 0 {
		return NewSearchRes([]SearchResult{}), nil
	}

	ids := make([]int64, 0, len(neighbors))
	for _, n := range neighbors {
		ids = append(ids, n.ItemID)
	}

	itemsMap, err := s.collectItemsInfo(ctx, ids)
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	distances := make([]float64, len(neighbors))
	for i, n := range neighbors {
		distances[i] = n.Distance
	}
	similarities := normalizeSimilarities(distances)

	results := make([]SearchResult, 0, len(neighbors))
	for i, n := range neighbors {
		info, ok := itemsMap[n.ItemID]
		if !ok {
			// точка индекса пережила запись каталога: пропускаем, но не молча
			s.logger.Warnf("index point without catalog row: item_id=%d", n.ItemID)
			continue
		}

		results = append(results, SearchResult{
			ItemID:      info.ID,
			Source:      info.Source,
			ExternalID:  info.ExternalID,
			Title:       info.Title,
			Description: info.Description,
			Price:       info.Price,
			Currency:    info.Currency,
			URL:         info.URL,
			ImageURL:    info.ImageURL,
			Brand:       info.Brand,
			Category:    info.Category,
			Color:       info.Color,
			Condition:   info.Condition,
			Size:        info.Size,
			Distance:    n.Distance,
			Similarity:  similarities[i],
			RedirectURL: s.deeplinks.Resolve(info.Source, info.ExternalID, info.URL),
		})
	}

	return NewSearchRes(results), nil
}

// GetFilterOptions возвращает доступные значения фильтров для UI.
// Справочник читается из кэша, при промахе пересчитывается из каталога
// и кэшируется в фоне.
func (s *SearchUseCase) GetFilterOptions(ctx context.Context) (*FilterOptions, error) {
	const op = "SearchUseCase.GetFilterOptions"

	if cached, err := s.cacheRepo.GetFilterOptions(ctx); err == nil && cached != nil {
		return cached, nil
	}

	options, err := s.itemRepo.GetFilterOptions(ctx)
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	go func() {
		bgCtx, cancel := context.WithTimeout(context.Background(), 500*time.Millisecond)
		defer cancel()

		if err := s.cacheRepo.SetFilterOptions(bgCtx, options); err != nil {
			s.logger.Warnf("Failed to cache filter options in background: %v", err)
		}
	}()

	return options, nil
}

// queryEmbedding получает вектор запроса у провайдера. Чисто текстовые запросы
// детерминированы, их векторы читаются из кэша и пишутся туда в фоне.
func (s *SearchUseCase) queryEmbedding(ctx context.Context, req *SearchReq) ([]float32, error) {
	textOnly := len(req.Image) == 0

	if textOnly {
		if cached, err := s.cacheRepo.GetQueryEmbedding(ctx, req.Text); err == nil && cached != nil {
			return cached, nil
		}
	}

	embedded, err := s.provider.Embed(ctx, req.Image, req.Text)
	if err != nil {
		return nil, err
	}

	if textOnly {
		go func() {
			bgCtx, cancel := context.WithTimeout(context.Background(), 500*time.Millisecond)
			defer cancel()

			if err := s.cacheRepo.SetQueryEmbedding(bgCtx, req.Text, embedded); err != nil {
				s.logger.Warnf("Failed to cache query embedding in background: %v", err)
			}
		}()
	}

	return embedded, nil
}

// collectItemsInfo собирает метаданные объявлений: сперва кэш, промахи — из БД,
// добытое из БД докэшируется в фоне.
func (s *SearchUseCase) collectItemsInfo(ctx context.Context, ids []int64) (map[int64]ItemInfo, error) {
	result := make(map[int64]ItemInfo, len(ids))

	nonCacheable := ids
	cachedMap, err := s.cacheRepo.GetItems(ctx, ids)
	if err == nil {
		nonCacheable = make([]int64, 0, len(ids))
		for _, id := range ids {
			if info, ok := cachedMap[id]; ok {
				result[id] = info
			} else {
				nonCacheable = append(nonCacheable, id)
			}
		}
	}

	if len(nonCacheable) > 0 {
		fromDB, err := s.itemRepo.GetItemsInfo(ctx, nonCacheable)
		if err != nil {
			return nil, err
		}

		for _, info := range fromDB {
			result[info.ID] = info
		}

		// Фоновое добавление объявлений в кэш
		go func() {
			bgCtx, cancel := context.WithTimeout(context.Background(), 500*time.Millisecond)
			defer cancel()

			if err := s.cacheRepo.SetItems(bgCtx, fromDB); err != nil {
				s.logger.Warnf("Failed to cache items in background: %v", err)
			}
		}()
	}

	return result, nil
}

func (s *SearchUseCase) resolveLimit(limit uint64) (uint64, error) {
	if limit == 0 {
		return s.defaultLimit, nil
	}
	if limit > s.maxLimit {
		return 0, e.ErrInvalidLimit
	}
	return limit, nil
}
