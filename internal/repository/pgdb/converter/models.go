package converter

import "time"

// ItemModel представляет запись таблицы fashion_items в PostgreSQL.
type ItemModel struct {
	ID          int64      `db:"id"`
	Source      string     `db:"source"`
	ExternalID  string     `db:"external_id"`
	Title       string     `db:"title"`
	Description string     `db:"description"`
	Price       *int64     `db:"price"`
	Currency    string     `db:"currency"`
	URL         string     `db:"url"`
	ImageURL    string     `db:"image_url"`
	Brand       *string    `db:"brand"`
	Category    *string    `db:"category"`
	Color       *string    `db:"color"`
	Condition   *string    `db:"condition"`
	Size        *string    `db:"size"`
	IsEmbedded  bool       `db:"is_embedded"`
	CreatedAt   time.Time  `db:"created_at"`
	UpdatedAt   *time.Time `db:"updated_at"`
}

// OutboxEventModel представляет запись таблицы outbox_events в PostgreSQL.
type OutboxEventModel struct {
	ID          int64      `db:"id"`
	EventID     string     `db:"event_id"`
	EventType   string     `db:"event_type"`
	ItemID      int64      `db:"item_id"`
	Payload     []byte     `db:"payload"`
	Status      string     `db:"status"`
	CreatedAt   time.Time  `db:"created_at"`
	ProcessedAt *time.Time `db:"processed_at"`
}
