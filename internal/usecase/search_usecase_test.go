package usecase

import (
	"context"
	"errors"
	"sort"
	"strings"
	"testing"

	"github.com/find-this-fit/go-backend/internal/deeplink"
	"github.com/find-this-fit/go-backend/internal/domain"
	"github.com/find-this-fit/go-backend/pkg/e"
	"github.com/find-this-fit/go-backend/pkg/logger"
	"github.com/find-this-fit/go-backend/pkg/vector"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testDim = 8

// fakeProvider возвращает заранее заданный вектор или ошибку.
type fakeProvider struct {
	vec   []float32
	err   error
	calls int
}

func (f *fakeProvider) Embed(_ context.Context, image []byte, text string) ([]float32, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	if len(image) == 0 && strings.TrimSpace(text) == "" {
		return nil, e.ErrInvalidInput
	}
	return f.vec, nil
}

func (f *fakeProvider) Warmup(context.Context) error { return nil }
func (f *fakeProvider) ModelVersion() string         { return "fake-v1" }

type indexedPoint struct {
	itemID int64
	vec    []float32
	source string
}

// bruteForceIndex — линейный скан с точным косинусным расстоянием,
// эталон упорядочивания для маленьких каталогов.
type bruteForceIndex struct {
	points []indexedPoint
	err    error
}

func (b *bruteForceIndex) Upsert(context.Context, []domain.Embedding) error { return nil }

func (b *bruteForceIndex) Search(_ context.Context, vec []float32, limit uint64, filter *domain.SearchFilter) ([]domain.Neighbor, error) {
	if b.err != nil {
		return nil, b.err
	}
	if len(vec) != testDim {
		return nil, e.ErrDimensionMismatch
	}

	neighbors := make([]domain.Neighbor, 0, len(b.points))
	for _, p := range b.points {
		if filter != nil && len(filter.Sources) > 0 {
			found := false
			for _, s := range filter.Sources {
				if s == p.source {
					found = true
					break
				}
			}
			if !found {
				continue
			}
		}
		neighbors = append(neighbors, domain.Neighbor{
			ItemID:   p.itemID,
			Source:   p.source,
			Distance: vector.CosineDistance(vec, p.vec),
		})
	}

	sort.SliceStable(neighbors, func(i, j int) bool {
		return neighbors[i].Distance < neighbors[j].Distance
	})

	if uint64(len(neighbors)) > limit {
		neighbors = neighbors[:limit]
	}
	return neighbors, nil
}

type fakeItemRepo struct {
	items map[int64]ItemInfo
	err   error
}

func (f *fakeItemRepo) Upsert(context.Context, *domain.Item) (*UpsertItemRes, error) {
	return nil, nil
}
func (f *fakeItemRepo) MarkEmbedded(context.Context, int64, int32) error { return nil }

func (f *fakeItemRepo) GetItemsInfo(_ context.Context, ids []int64) ([]ItemInfo, error) {
	if f.err != nil {
		return nil, f.err
	}
	result := make([]ItemInfo, 0, len(ids))
	for _, id := range ids {
		if info, ok := f.items[id]; ok {
			result = append(result, info)
		}
	}
	return result, nil
}

func (f *fakeItemRepo) GetFilterOptions(context.Context) (*FilterOptions, error) {
	return &FilterOptions{Sources: []string{"depop", "grailed"}}, nil
}

type fakeCache struct {
	queryVectors map[string][]float32
}

func (f *fakeCache) GetItems(context.Context, []int64) (map[int64]ItemInfo, error) {
	return map[int64]ItemInfo{}, nil
}
func (f *fakeCache) SetItems(context.Context, []ItemInfo) error  { return nil }
func (f *fakeCache) DeleteItems(context.Context, []int64) error  { return nil }
func (f *fakeCache) SetQueryEmbedding(_ context.Context, text string, vec []float32) error {
	if f.queryVectors != nil {
		f.queryVectors[text] = vec
	}
	return nil
}
func (f *fakeCache) GetQueryEmbedding(_ context.Context, text string) ([]float32, error) {
	if f.queryVectors == nil {
		return nil, nil
	}
	return f.queryVectors[text], nil
}
func (f *fakeCache) GetFilterOptions(context.Context) (*FilterOptions, error) { return nil, nil }
func (f *fakeCache) SetFilterOptions(context.Context, *FilterOptions) error   { return nil }

func axisVector(axis int) []float32 {
	v := make([]float32, testDim)
	v[axis] = 1
	return v
}

// tiltedVector — единичный вектор рядом с осью axis.
func tiltedVector(axis int, tilt float32) []float32 {
	v := make([]float32, testDim)
	v[axis] = 1
	v[(axis+1)%testDim] = tilt
	return vector.Normalize(v)
}

func newSearchUC(provider EmbeddingProvider, index EmbeddingRepository, items *fakeItemRepo, cache CacheRepository) *SearchUseCase {
	return NewSearchUC(
		provider, index, items, cache,
		deeplink.NewResolver(nil),
		testDim, 20, 100,
		logger.NewSlogLogger(),
	)
}

func TestSearchSimilarRequiresInput(t *testing.T) {
	uc := newSearchUC(&fakeProvider{}, &bruteForceIndex{}, &fakeItemRepo{}, &fakeCache{})

	_, err := uc.SearchSimilar(context.Background(), &SearchReq{})

	assert.True(t, errors.Is(err, e.ErrInvalidInput))
}

func TestSearchSimilarBlankTextOnly(t *testing.T) {
	uc := newSearchUC(&fakeProvider{}, &bruteForceIndex{}, &fakeItemRepo{}, &fakeCache{})

	_, err := uc.SearchSimilar(context.Background(), &SearchReq{Text: "   "})

	assert.True(t, errors.Is(err, e.ErrInvalidInput))
}

func TestSearchSimilarLimitTooLarge(t *testing.T) {
	uc := newSearchUC(&fakeProvider{}, &bruteForceIndex{}, &fakeItemRepo{}, &fakeCache{})

	_, err := uc.SearchSimilar(context.Background(), &SearchReq{Text: "hoodie", Limit: 101})

	assert.True(t, errors.Is(err, e.ErrInvalidLimit))
}

func TestSearchSimilarEmptyCatalog(t *testing.T) {
	uc := newSearchUC(
		&fakeProvider{vec: axisVector(0)},
		&bruteForceIndex{},
		&fakeItemRepo{},
		&fakeCache{},
	)

	res, err := uc.SearchSimilar(context.Background(), &SearchReq{Text: "hoodie"})

	require.NoError(t, err)
	assert.Empty(t, res.Items)
}

func TestSearchSimilarFilterMatchesNothing(t *testing.T) {
	index := &bruteForceIndex{points: []indexedPoint{
		{itemID: 1, vec: axisVector(0), source: "depop"},
	}}
	uc := newSearchUC(&fakeProvider{vec: axisVector(0)}, index, &fakeItemRepo{}, &fakeCache{})

	res, err := uc.SearchSimilar(context.Background(), &SearchReq{
		Text:   "hoodie",
		Filter: &domain.SearchFilter{Sources: []string{"vinted"}},
	})

	require.NoError(t, err)
	assert.Empty(t, res.Items)
}

func TestSearchSimilarProviderErrorPropagates(t *testing.T) {
	uc := newSearchUC(&fakeProvider{err: e.ErrProvider}, &bruteForceIndex{}, &fakeItemRepo{}, &fakeCache{})

	_, err := uc.SearchSimilar(context.Background(), &SearchReq{Text: "hoodie"})

	// сбой эмбеддинга не подменяется пустой выдачей
	assert.True(t, errors.Is(err, e.ErrProvider))
}

func TestSearchSimilarIndexErrorPropagates(t *testing.T) {
	uc := newSearchUC(
		&fakeProvider{vec: axisVector(0)},
		&bruteForceIndex{err: e.ErrIndexUnavailable},
		&fakeItemRepo{},
		&fakeCache{},
	)

	_, err := uc.SearchSimilar(context.Background(), &SearchReq{Text: "hoodie"})

	assert.True(t, errors.Is(err, e.ErrIndexUnavailable))
}

func TestSearchSimilarTopKMatchesBruteForceOrder(t *testing.T) {
	// каталог из 20 известных векторов c возрастающим наклоном от оси запроса
	points := make([]indexedPoint, 0, 20)
	items := make(map[int64]ItemInfo, 20)
	for i := 0; i < 20; i++ {
		id := int64(i + 1)
		points = append(points, indexedPoint{
			itemID: id,
			vec:    tiltedVector(0, float32(i)*0.1),
			source: "depop",
		})
		items[id] = ItemInfo{ID: id, Source: "depop", ExternalID: "x", URL: "https://x"}
	}

	uc := newSearchUC(
		&fakeProvider{vec: axisVector(0)},
		&bruteForceIndex{points: points},
		&fakeItemRepo{items: items},
		&fakeCache{},
	)

	res, err := uc.SearchSimilar(context.Background(), &SearchReq{Text: "q", Limit: 10})

	require.NoError(t, err)
	require.Len(t, res.Items, 10)
	// наклон растёт с id, значит порядок должен быть строго 1..10
	for i, item := range res.Items {
		assert.Equal(t, int64(i+1), item.ItemID)
	}
	// расстояния не убывают
	for i := 1; i < len(res.Items); i++ {
		assert.LessOrEqual(t, res.Items[i-1].Distance, res.Items[i].Distance)
	}
}

func TestSearchSimilarNormalizesShortProviderVector(t *testing.T) {
	// провайдер отдаёт вектор нативной размерности меньше целевой D
	uc := newSearchUC(
		&fakeProvider{vec: []float32{1, 0, 0}},
		&bruteForceIndex{points: []indexedPoint{{itemID: 1, vec: axisVector(0), source: "depop"}}},
		&fakeItemRepo{items: map[int64]ItemInfo{1: {ID: 1, Source: "depop", ExternalID: "1"}}},
		&fakeCache{},
	)

	res, err := uc.SearchSimilar(context.Background(), &SearchReq{Text: "q"})

	require.NoError(t, err)
	require.Len(t, res.Items, 1)
}

func TestSearchSimilarTextQueryUsesEmbeddingCache(t *testing.T) {
	provider := &fakeProvider{vec: axisVector(0)}
	cache := &fakeCache{queryVectors: map[string][]float32{
		"cached query": axisVector(0),
	}}
	uc := newSearchUC(provider, &bruteForceIndex{}, &fakeItemRepo{}, cache)

	_, err := uc.SearchSimilar(context.Background(), &SearchReq{Text: "cached query"})

	require.NoError(t, err)
	assert.Zero(t, provider.calls, "cached text query must not hit the provider")
}

func TestSearchSimilarEndToEnd(t *testing.T) {
	// Сценарий: фото чёрного худи + текст, каталог из целевого объявления
	// и 19 далёких. Первым должен прийти depop/123 с deep-link и близостью ~1.
	queryVec := tiltedVector(0, 0.01)

	points := []indexedPoint{{itemID: 1, vec: axisVector(0), source: "depop"}}
	items := map[int64]ItemInfo{
		1: {
			ID:         1,
			Source:     "depop",
			ExternalID: "123",
			Title:      "Vintage Black Hoodie",
			URL:        "https://x/123",
		},
	}
	for i := 2; i <= 20; i++ {
		id := int64(i)
		points = append(points, indexedPoint{
			itemID: id,
			vec:    axisVector(1 + i%6), // ортогональные запросу оси
			source: "grailed",
		})
		items[id] = ItemInfo{ID: id, Source: "grailed", ExternalID: "g", URL: "https://g"}
	}

	uc := newSearchUC(
		&fakeProvider{vec: queryVec},
		&bruteForceIndex{points: points},
		&fakeItemRepo{items: items},
		&fakeCache{},
	)

	res, err := uc.SearchSimilar(context.Background(), &SearchReq{
		Image: []byte("fake image bytes"),
		Text:  "vintage black hoodie",
		Limit: 20,
	})

	require.NoError(t, err)
	require.NotEmpty(t, res.Items)

	first := res.Items[0]
	assert.Equal(t, "123", first.ExternalID)
	assert.Equal(t, "depop://product/123", first.RedirectURL)
	assert.InDelta(t, 1.0, first.Similarity, 0.01)
}
