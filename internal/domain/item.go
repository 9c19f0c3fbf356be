package domain

import "time"

// Item описывает объявление с маркетплейса.
// Пара (Source, ExternalID) — натуральный ключ: повторная загрузка того же
// объявления обновляет существующую запись, а не создаёт дубликат.
type Item struct {
	ID          int64
	Source      string // тег маркетплейса: depop, grailed, vinted...
	ExternalID  string
	Title       string
	Description string
	Price       *int64 // цена хранится в центах
	Currency    string
	URL         string // каноническая ссылка на объявление
	ImageURL    string

	// Атрибуты, извлечённые скраперами или визуальным анализом. Все опциональны.
	Brand     *string
	Category  *string
	Color     *string
	Condition *string
	Size      *string

	// IsEmbedded = false означает «ещё не доступен для поиска»:
	// вектор объявления не записан в индекс.
	IsEmbedded       bool
	EmbeddingVersion int32

	CreatedAt time.Time
	UpdatedAt *time.Time
}

func NewItem(source, externalID, title, description string, price *int64, currency, url, imageURL string) *Item {
	return &Item{
		Source:      source,
		ExternalID:  externalID,
		Title:       title,
		Description: description,
		Price:       price,
		Currency:    currency,
		URL:         url,
		ImageURL:    imageURL,
	}
}
