package usecase

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"github.com/find-this-fit/go-backend/internal/domain"
	"github.com/find-this-fit/go-backend/pkg/e"
	"github.com/find-this-fit/go-backend/pkg/logger"
	"github.com/find-this-fit/go-backend/pkg/tr"
	"github.com/find-this-fit/go-backend/pkg/vector"
	transaction "github.com/avito-tech/go-transaction-manager/drivers/pgxv5/v2"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// IngestUseCase реализует загрузку объявления в каталог: идемпотентный upsert
// по натуральному ключу, векторизация, запись в индекс и outbox-событие.
type IngestUseCase struct {
	itemRepo      ItemRepository
	versionRepo   EmbeddingVersionRepository
	outboxRepo    OutboxRepository
	dbPool        transaction.Transactional
	provider      EmbeddingProvider
	imagesInfra   ImagesInfra
	embeddingRepo EmbeddingRepository
	cacheRepo     CacheRepository
	vectorSize    int
	logger        logger.Logger
}

func NewIngestUC(
	itemRepo ItemRepository,
	versionRepo EmbeddingVersionRepository,
	outboxRepo OutboxRepository,
	dbPool transaction.Transactional,
	provider EmbeddingProvider,
	imagesInfra ImagesInfra,
	embeddingRepo EmbeddingRepository,
	cacheRepo CacheRepository,
	vectorSize int,
	logger logger.Logger,
) *IngestUseCase {
	return &IngestUseCase{
		itemRepo:      itemRepo,
		versionRepo:   versionRepo,
		outboxRepo:    outboxRepo,
		dbPool:        dbPool,
		provider:      provider,
		imagesInfra:   imagesInfra,
		embeddingRepo: embeddingRepo,
		cacheRepo:     cacheRepo,
		vectorSize:    vectorSize,
		logger:        logger,
	}
}

// IngestItem обрабатывает загрузку объявления: upsert каталога, версия эмбеддинга,
// изображения в MinIO, векторы в индекс и outbox-событие в одной транзакции.
// Повторная загрузка уже проиндексированного объявления без изменений полей
// возвращает (nil, nil): переиндексация не выполняется.
func (u *IngestUseCase) IngestItem(ctx context.Context, req *IngestItemReq) (*OutboxEvent, error) {
	const op = "IngestUseCase.IngestItem"

	var err error
	if err = u.validateItem(req); err != nil {
		return nil, e.Wrap(op, err)
	}

	var (
		imagesRes *UploadImagesRes
		uploaded  bool
	)

	ctx, tx, err := transaction.NewTransaction(ctx, pgx.TxOptions{}, u.dbPool)
	if err != nil {
		return nil, e.Wrap(op, err)
	}
	// Если произошла ошибка, происходит Rollback транзакции и очистка загруженных изображений
	defer func() {
		if err != nil {
			if tx.IsActive() {
				tx.Rollback(ctx)
			}

			if uploaded && imagesRes != nil {
				u.logger.Warnf(
					"Cleaning up orphaned images after transaction failure. source: %s, external_id: %s, error: %v",
					req.Source,
					req.ExternalID,
					e.Wrap(op, err),
				)

				u.imagesInfra.CleanupImages(imagesRes.ImagesKeys)
			}
		}
	}()
	ctx = tr.WithTx(ctx, tx.Transaction())

	// идемпотентный upsert объявления по (source, external_id)
	upsertRes, err := u.itemRepo.Upsert(ctx, u.toItem(req))
	if err != nil {
		return nil, e.Wrap(op, err)
	}
	item := upsertRes.Item

	// Повторная загрузка без изменений полей: объявление уже в индексе,
	// переиндексация и outbox-событие не нужны.
	if upsertRes.NoChanges && item.IsEmbedded {
		if err = tx.Commit(ctx); err != nil {
			return nil, e.Wrap(op, err)
		}
		return nil, nil
	}

	// версия эмбеддинга растёт при каждой переиндексации
	version, err := u.versionRepo.Upsert(ctx, item.ID)
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	// Векторизация: изображение объявления + его текст (title + description)
	embedded, err := u.embedListing(ctx, req)
	if err != nil {
		return nil, e.Wrap(op, err)
	}
	embedded = vector.EnsureDimension(embedded, u.vectorSize)

	// Сохранение изображений в MinIO
	var imageKeys []string
	if len(req.Images) > 0 {
		imagesRes, err = u.imagesInfra.UploadImages(ctx, NewUploadImagesReq(item.Source+"/"+item.ExternalID, req.Images))
		if err != nil {
			return nil, e.Wrap(op, err)
		}
		uploaded = true
		imageKeys = imagesRes.ImagesKeys
	}

	// Запись вектора в Qdrant с привязкой к объявлению
	pointIDs, err := u.upsertEmbedding(ctx, item, imageKeys, embedded)
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	if err = u.itemRepo.MarkEmbedded(ctx, item.ID, version); err != nil {
		return nil, e.Wrap(op, err)
	}

	event, err := u.createOutboxEvent(ctx, item, version, pointIDs)
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	// Коммит изменений в бд
	if err = tx.Commit(ctx); err != nil {
		return nil, e.Wrap(op, err)
	}

	// Удаление из кэша устаревших метаданных объявления
	if err := u.cacheRepo.DeleteItems(ctx, []int64{item.ID}); err != nil {
		u.logger.Warnf("Failed to invalidate item cache: %v", e.Wrap(op, err))
	}

	return event, nil
}

// embedListing строит вектор объявления из его изображения и текста.
func (u *IngestUseCase) embedListing(ctx context.Context, req *IngestItemReq) ([]float32, error) {
	var image []byte
	if len(req.Images) > 0 {
		image = req.Images[0].Data
	}

	text := strings.TrimSpace(strings.TrimSpace(req.Title) + " " + strings.TrimSpace(req.Description))

	embedded, err := u.provider.Embed(ctx, image, text)
	if err != nil {
		return nil, err
	}

	if len(embedded) == 0 {
		return nil, e.ErrEmptyVector
	}

	return embedded, nil
}

// upsertEmbedding сохраняет вектор объявления в Qdrant и возвращает id точек.
func (u *IngestUseCase) upsertEmbedding(ctx context.Context, item *domain.Item, imageKeys []string, embedded []float32) ([]string, error) {
	imagePath := ""
	if len(imageKeys) > 0 {
		imagePath = imageKeys[0]
	}

	pointID := uuid.NewString()
	payload := domain.NewItemPayload(item, imagePath, u.provider.ModelVersion())
	embeddings := []domain.Embedding{*domain.NewEmbedding(pointID, embedded, payload)}

	if err := u.embeddingRepo.Upsert(ctx, embeddings); err != nil {
		return nil, err
	}

	return []string{pointID}, nil
}

// createOutboxEvent записывает outbox-событие об изменении объявления.
func (u *IngestUseCase) createOutboxEvent(ctx context.Context, item *domain.Item, version int32, pointIDs []string) (*OutboxEvent, error) {
	eventID := uuid.NewString()

	payload, err := json.Marshal(ItemChangeEvent{
		EventID:          eventID,
		EventTimestamp:   time.Now().UTC().UnixNano(),
		ItemID:           item.ID,
		Source:           item.Source,
		ExternalID:       item.ExternalID,
		EmbeddingVersion: version,
		PointIDs:         pointIDs,
	})
	if err != nil {
		return nil, err
	}

	return u.outboxRepo.Create(ctx, &OutboxEvent{
		EventID:   eventID,
		EventType: ItemUpserted,
		ItemID:    item.ID,
		Payload:   payload,
		Status:    Pending,
		CreatedAt: time.Now().UTC(),
	})
}

func (u *IngestUseCase) toItem(req *IngestItemReq) *domain.Item {
	item := domain.NewItem(req.Source, req.ExternalID, req.Title, req.Description, req.Price, req.Currency, req.URL, req.ImageURL)
	item.Brand = req.Brand
	item.Category = req.Category
	item.Color = req.Color
	item.Condition = req.Condition
	item.Size = req.Size
	return item
}

// validateItem проверяет корректность входных данных запроса на загрузку объявления.
func (u *IngestUseCase) validateItem(req *IngestItemReq) error {
	if strings.TrimSpace(req.Source) == "" {
		return e.ErrItemSourceRequired
	}

	if strings.TrimSpace(req.ExternalID) == "" {
		return e.ErrExternalIDRequired
	}

	if req.Price != nil && *req.Price <= 0 {
		return e.ErrInvalidPrice
	}

	// для векторизации нужно хотя бы изображение или текст
	if len(req.Images) == 0 && strings.TrimSpace(req.Title) == "" && strings.TrimSpace(req.Description) == "" {
		return e.ErrInvalidInput
	}

	return nil
}
