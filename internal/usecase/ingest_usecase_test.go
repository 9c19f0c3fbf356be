package usecase

import (
	"context"
	"encoding/json"
	"fmt"
	"testing"

	"github.com/find-this-fit/go-backend/internal/domain"
	"github.com/find-this-fit/go-backend/pkg/e"
	"github.com/find-this-fit/go-backend/pkg/logger"
	"github.com/find-this-fit/go-backend/pkg/tr"
	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeTrTx подменяет pgx.Tx: фиксирует Commit/Rollback, остальное не нужно.
type fakeTrTx struct {
	pgx.Tx
	committed  bool
	rolledBack bool
}

func (f *fakeTrTx) Commit(context.Context) error   { f.committed = true; return nil }
func (f *fakeTrTx) Rollback(context.Context) error { f.rolledBack = true; return nil }

type fakeTrPool struct {
	tx *fakeTrTx
}

func (f *fakeTrPool) BeginTx(context.Context, pgx.TxOptions) (pgx.Tx, error) {
	return f.tx, nil
}

// fakeCatalog эмулирует контракт каталога: upsert по натуральному ключу
// (source, external_id) с детекцией неизменённой записи.
type fakeCatalog struct {
	byKey    map[string]*domain.Item
	versions map[int64]int32
	nextID   int64
}

func newFakeCatalog() *fakeCatalog {
	return &fakeCatalog{
		byKey:    map[string]*domain.Item{},
		versions: map[int64]int32{},
	}
}

func (f *fakeCatalog) Upsert(ctx context.Context, item *domain.Item) (*UpsertItemRes, error) {
	// репозиторий работает только внутри транзакции из контекста
	if _, err := tr.TxFromCtx(ctx); err != nil {
		return nil, err
	}

	key := item.Source + "/" + item.ExternalID
	if existing, ok := f.byKey[key]; ok {
		noChanges := existing.Title == item.Title && existing.Description == item.Description
		if !noChanges {
			existing.Title = item.Title
			existing.Description = item.Description
		}
		stored := *existing
		return NewUpsertItemRes(&stored, noChanges), nil
	}

	f.nextID++
	stored := *item
	stored.ID = f.nextID
	f.byKey[key] = &stored

	created := stored
	return NewUpsertItemRes(&created, false), nil
}

func (f *fakeCatalog) MarkEmbedded(ctx context.Context, itemID int64, version int32) error {
	if _, err := tr.TxFromCtx(ctx); err != nil {
		return err
	}
	for _, item := range f.byKey {
		if item.ID == itemID {
			item.IsEmbedded = true
		}
	}
	f.versions[itemID] = version
	return nil
}

func (f *fakeCatalog) GetItemsInfo(context.Context, []int64) ([]ItemInfo, error) {
	return nil, nil
}

func (f *fakeCatalog) GetFilterOptions(context.Context) (*FilterOptions, error) {
	return nil, nil
}

type fakeVersionRepo struct {
	counters map[int64]int32
}

func (f *fakeVersionRepo) Upsert(_ context.Context, itemID int64) (int32, error) {
	if f.counters == nil {
		f.counters = map[int64]int32{}
	}
	f.counters[itemID]++
	return f.counters[itemID], nil
}

type fakeOutbox struct {
	events []*OutboxEvent
}

func (f *fakeOutbox) Create(_ context.Context, event *OutboxEvent) (*OutboxEvent, error) {
	stored := *event
	stored.ID = int64(len(f.events) + 1)
	f.events = append(f.events, &stored)
	return &stored, nil
}

func (f *fakeOutbox) GetAndMarkAsProcessing(context.Context, int) ([]*OutboxEvent, error) {
	return nil, nil
}

func (f *fakeOutbox) MarkAsProcessed(context.Context, int64) error { return nil }

// recordingIndex фиксирует записанные в индекс векторы.
type recordingIndex struct {
	upserts [][]domain.Embedding
	err     error
}

func (r *recordingIndex) Upsert(_ context.Context, vectors []domain.Embedding) error {
	if r.err != nil {
		return r.err
	}
	r.upserts = append(r.upserts, vectors)
	return nil
}

func (r *recordingIndex) Search(context.Context, []float32, uint64, *domain.SearchFilter) ([]domain.Neighbor, error) {
	return nil, nil
}

type fakeImagesInfra struct {
	uploaded []string
	cleaned  []string
}

func (f *fakeImagesInfra) UploadImages(_ context.Context, req *UploadImagesReq) (*UploadImagesRes, error) {
	keys := make([]string, len(req.Images))
	for i := range req.Images {
		keys[i] = fmt.Sprintf("%s/img-%d.jpg", req.Name, i)
	}
	f.uploaded = append(f.uploaded, keys...)
	return NewUploadImagesRes(keys), nil
}

func (f *fakeImagesInfra) CleanupImages(keys []string) {
	f.cleaned = append(f.cleaned, keys...)
}

type ingestFixture struct {
	uc      *IngestUseCase
	catalog *fakeCatalog
	outbox  *fakeOutbox
	index   *recordingIndex
	images  *fakeImagesInfra
	tx      *fakeTrTx
}

func newIngestFixture(provider EmbeddingProvider) *ingestFixture {
	f := &ingestFixture{
		catalog: newFakeCatalog(),
		outbox:  &fakeOutbox{},
		index:   &recordingIndex{},
		images:  &fakeImagesInfra{},
		tx:      &fakeTrTx{},
	}
	f.uc = NewIngestUC(
		f.catalog,
		&fakeVersionRepo{},
		f.outbox,
		&fakeTrPool{tx: f.tx},
		provider,
		f.images,
		f.index,
		&fakeCache{},
		testDim,
		logger.NewSlogLogger(),
	)
	return f
}

func textListingReq(title string) *IngestItemReq {
	return &IngestItemReq{
		Source:     "depop",
		ExternalID: "42",
		Title:      title,
		URL:        "https://depop.com/products/42",
	}
}

func TestIngestItem_Validation(t *testing.T) {
	tests := []struct {
		name string
		req  *IngestItemReq
		want error
	}{
		{
			name: "missing source",
			req:  &IngestItemReq{ExternalID: "1", Title: "hoodie"},
			want: e.ErrItemSourceRequired,
		},
		{
			name: "missing external id",
			req:  &IngestItemReq{Source: "depop", Title: "hoodie"},
			want: e.ErrExternalIDRequired,
		},
		{
			name: "no image and no text",
			req:  &IngestItemReq{Source: "depop", ExternalID: "1"},
			want: e.ErrInvalidInput,
		},
		{
			name: "non-positive price",
			req: &IngestItemReq{
				Source: "depop", ExternalID: "1", Title: "hoodie",
				Price: int64Ptr(0),
			},
			want: e.ErrInvalidPrice,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newIngestFixture(&fakeProvider{vec: axisVector(0)})

			_, err := f.uc.IngestItem(context.Background(), tt.req)

			assert.ErrorIs(t, err, tt.want)
			assert.Empty(t, f.index.upserts)
			assert.Empty(t, f.outbox.events)
		})
	}
}

func TestIngestItem_WritesIndexAndOutbox(t *testing.T) {
	f := newIngestFixture(&fakeProvider{vec: axisVector(0)})

	event, err := f.uc.IngestItem(context.Background(), textListingReq("vintage hoodie"))
	require.NoError(t, err)
	require.NotNil(t, event)

	assert.NotEmpty(t, event.EventID)
	assert.Equal(t, ItemUpserted, event.EventType)
	assert.True(t, f.tx.committed)

	require.Len(t, f.index.upserts, 1)
	require.Len(t, f.index.upserts[0], 1)
	assert.Len(t, f.index.upserts[0][0].Vector, testDim)

	var payload ItemChangeEvent
	require.NoError(t, json.Unmarshal(event.Payload, &payload))
	assert.Equal(t, "depop", payload.Source)
	assert.Equal(t, "42", payload.ExternalID)
	assert.Equal(t, int32(1), payload.EmbeddingVersion)
	assert.Len(t, payload.PointIDs, 1)

	// объявление помечено доступным для поиска под версией 1
	assert.Equal(t, int32(1), f.catalog.versions[1])
}

func TestIngestItem_ReingestSameKeyCreatesNoDuplicate(t *testing.T) {
	f := newIngestFixture(&fakeProvider{vec: axisVector(0)})

	first, err := f.uc.IngestItem(context.Background(), textListingReq("vintage hoodie"))
	require.NoError(t, err)
	require.NotNil(t, first)

	// тот же натуральный ключ, те же поля: без переиндексации и события
	second, err := f.uc.IngestItem(context.Background(), textListingReq("vintage hoodie"))
	require.NoError(t, err)
	assert.Nil(t, second)

	assert.Len(t, f.catalog.byKey, 1)
	assert.Len(t, f.index.upserts, 1)
	assert.Len(t, f.outbox.events, 1)
}

func TestIngestItem_ReingestChangedFieldsReindexes(t *testing.T) {
	f := newIngestFixture(&fakeProvider{vec: axisVector(0)})

	_, err := f.uc.IngestItem(context.Background(), textListingReq("vintage hoodie"))
	require.NoError(t, err)

	event, err := f.uc.IngestItem(context.Background(), textListingReq("vintage hoodie, wool"))
	require.NoError(t, err)
	require.NotNil(t, event)

	var payload ItemChangeEvent
	require.NoError(t, json.Unmarshal(event.Payload, &payload))
	assert.Equal(t, int32(2), payload.EmbeddingVersion)

	assert.Len(t, f.catalog.byKey, 1)
	assert.Len(t, f.index.upserts, 2)
	assert.Len(t, f.outbox.events, 2)
}

func TestIngestItem_IndexFailureCleansUpImages(t *testing.T) {
	f := newIngestFixture(&fakeProvider{vec: axisVector(0)})
	f.index.err = e.ErrIndexUnavailable

	req := textListingReq("vintage hoodie")
	req.Images = []ListingImage{{Data: []byte{0xff, 0xd8, 0xff}, MimeType: "image/jpeg", Size: 3, Name: "front"}}

	_, err := f.uc.IngestItem(context.Background(), req)

	assert.ErrorIs(t, err, e.ErrIndexUnavailable)
	assert.True(t, f.tx.rolledBack)
	assert.Empty(t, f.outbox.events)

	// компенсация: уже загруженные фотографии удаляются
	require.NotEmpty(t, f.images.uploaded)
	assert.Equal(t, f.images.uploaded, f.images.cleaned)
}

func int64Ptr(v int64) *int64 { return &v }
