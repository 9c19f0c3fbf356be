package usecase

import (
	"time"

	"github.com/find-this-fit/go-backend/internal/domain"
)

// SEARCH USECASE

// SearchReq — эфемерный поисковый запрос: изображение и/или текст,
// опциональный фильтр по атрибутам и лимит выдачи. Не персистится.
type SearchReq struct {
	Image  []byte // опциональные байты изображения, уже декодированные из wire-формата
	Text   string
	Filter *domain.SearchFilter
	Limit  uint64 // 0 означает лимит по умолчанию
}

// SearchResult — read-only проекция объявления с вычисленной близостью и deep-link.
type SearchResult struct {
	ItemID      int64
	Source      string
	ExternalID  string
	Title       string
	Description string
	Price       *int64 // в центах
	Currency    string
	URL         string
	ImageURL    string
	Brand       *string
	Category    *string
	Color       *string
	Condition   *string
	Size        *string
	Distance    float64
	// Similarity — batch-relative оценка в [0, 1]: нормирована на максимальное
	// расстояние в этой выдаче и несравнима между разными запросами.
	Similarity  float64
	RedirectURL string
}

type SearchRes struct {
	Items []SearchResult
}

// FilterOptions — доступные значения фильтров для UI.
type FilterOptions struct {
	Categories []string
	Brands     []string
	Colors     []string
	Conditions []string
	Sources    []string
}

// INGEST USECASE

// IngestItemReq — запрос на загрузку объявления в каталог.
type IngestItemReq struct {
	Source      string
	ExternalID  string
	Title       string
	Description string
	Price       *int64 // в центах
	Currency    string
	URL         string
	ImageURL    string
	Brand       *string
	Category    *string
	Color       *string
	Condition   *string
	Size        *string
	Images      []ListingImage
}

// ListingImage представляет изображение, загруженное через multipart/form-data.
type ListingImage struct {
	Data     []byte // байты изображения
	MimeType string // Content-Type из multipart (image/jpeg)
	Size     int64  // фактический размер в байтах
	Name     string // оригинальное имя файла (для логов)
}

// ItemInfo — DTO с метаданными объявления для внешнего использования.
type ItemInfo struct {
	ID          int64
	Source      string
	ExternalID  string
	Title       string
	Description string
	Price       *int64
	Currency    string
	URL         string
	ImageURL    string
	Brand       *string
	Category    *string
	Color       *string
	Condition   *string
	Size        *string
}

// INFRASTRUCTURE

// UploadImagesReq — запрос на загрузку изображений объявления.
type UploadImagesReq struct {
	Name   string
	Images []ListingImage
}

// UploadImagesRes — результат загрузки изображений (ключи в MinIO).
type UploadImagesRes struct {
	ImagesKeys []string
}

type WriteRawMessageReq struct {
	ItemID  int64
	Payload []byte
}

// OUTBOX

type OutboxStatus string

const (
	Pending    OutboxStatus = "pending"
	Processing OutboxStatus = "processing"
	Processed  OutboxStatus = "processed"
)

type OutboxEventType string

const ItemUpserted OutboxEventType = "item_upserted"

type OutboxEvent struct {
	ID          int64
	EventID     string
	EventType   OutboxEventType
	ItemID      int64
	Payload     []byte
	Status      OutboxStatus
	CreatedAt   time.Time
	ProcessedAt *time.Time
}

// ItemChangeEvent — payload outbox-события об изменении объявления.
type ItemChangeEvent struct {
	EventID          string   `json:"event_id"`
	EventTimestamp   int64    `json:"event_timestamp"`
	ItemID           int64    `json:"item_id"`
	Source           string   `json:"source"`
	ExternalID       string   `json:"external_id"`
	EmbeddingVersion int32    `json:"embedding_version"`
	PointIDs         []string `json:"point_ids"`
}

// REPOSITORIES

type UpsertItemRes struct {
	Item      *domain.Item
	NoChanges bool
}

// MAPPERS

func NewUpsertItemRes(item *domain.Item, noChanges bool) *UpsertItemRes {
	return &UpsertItemRes{
		Item:      item,
		NoChanges: noChanges,
	}
}

func NewListingImage(data []byte, mimeType string, size int64, name string) *ListingImage {
	return &ListingImage{
		Data:     data,
		MimeType: mimeType,
		Size:     size,
		Name:     name,
	}
}

func NewUploadImagesReq(name string, images []ListingImage) *UploadImagesReq {
	return &UploadImagesReq{
		Name:   name,
		Images: images,
	}
}

func NewUploadImagesRes(imagesKeys []string) *UploadImagesRes {
	return &UploadImagesRes{
		ImagesKeys: imagesKeys,
	}
}

func NewWriteRawMessageReq(itemID int64, payload []byte) *WriteRawMessageReq {
	return &WriteRawMessageReq{
		ItemID:  itemID,
		Payload: payload,
	}
}

func NewSearchRes(items []SearchResult) *SearchRes {
	return &SearchRes{Items: items}
}
