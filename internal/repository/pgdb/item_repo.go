package pgdb

import (
	"context"

	"github.com/find-this-fit/go-backend/internal/domain"
	"github.com/find-this-fit/go-backend/internal/repository/pgdb/converter"
	"github.com/find-this-fit/go-backend/internal/usecase"
	"github.com/find-this-fit/go-backend/pkg/e"
	"github.com/find-this-fit/go-backend/pkg/tr"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jimlawless/whereami"
)

// ItemRepo реализует каталог объявлений поверх PostgreSQL.
type ItemRepo struct {
	pool *pgxpool.Pool
	conv converter.ItemConverter
}

func NewItemRepo(pool *pgxpool.Pool, conv converter.ItemConverter) *ItemRepo {
	return &ItemRepo{
		pool: pool,
		conv: conv,
	}
}

// Upsert идемпотентно создаёт или обновляет объявление по натуральному ключу
// (source, external_id). Запись обновляется только при фактическом изменении полей.
func (i *ItemRepo) Upsert(ctx context.Context, item *domain.Item) (*usecase.UpsertItemRes, error) {
	tx, err := tr.TxFromCtx(ctx)
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	query := `
		WITH upsert AS (
		INSERT INTO fashion_items (
			source, external_id, title, description, price, currency,
			url, image_url, brand, category, color, condition, size
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
		ON CONFLICT (source, external_id)
		DO UPDATE SET
			title = EXCLUDED.title,
			description = EXCLUDED.description,
			price = EXCLUDED.price,
			currency = EXCLUDED.currency,
			url = EXCLUDED.url,
			image_url = EXCLUDED.image_url,
			brand = EXCLUDED.brand,
			category = EXCLUDED.category,
			color = EXCLUDED.color,
			condition = EXCLUDED.condition,
			size = EXCLUDED.size,
			updated_at = NOW()
		WHERE
			fashion_items.title IS DISTINCT FROM EXCLUDED.title OR
			fashion_items.description IS DISTINCT FROM EXCLUDED.description OR
			fashion_items.price IS DISTINCT FROM EXCLUDED.price OR
			fashion_items.currency IS DISTINCT FROM EXCLUDED.currency OR
			fashion_items.url IS DISTINCT FROM EXCLUDED.url OR
			fashion_items.image_url IS DISTINCT FROM EXCLUDED.image_url OR
			fashion_items.brand IS DISTINCT FROM EXCLUDED.brand OR
			fashion_items.category IS DISTINCT FROM EXCLUDED.category OR
			fashion_items.color IS DISTINCT FROM EXCLUDED.color OR
			fashion_items.condition IS DISTINCT FROM EXCLUDED.condition OR
			fashion_items.size IS DISTINCT FROM EXCLUDED.size
		RETURNING
			id, source, external_id, title, description, price, currency,
			url, image_url, brand, category, color, condition, size,
			is_embedded, created_at, updated_at
		)
		SELECT
			id, source, external_id, title, description, price, currency,
			url, image_url, brand, category, color, condition, size,
			is_embedded, created_at, updated_at,
			false AS no_changes
		FROM upsert

		UNION ALL

		SELECT
			id, source, external_id, title, description, price, currency,
			url, image_url, brand, category, color, condition, size,
			is_embedded, created_at, updated_at,
			true AS no_changes
		FROM fashion_items
		WHERE source = $1 AND external_id = $2
		  AND NOT EXISTS (SELECT 1 FROM upsert);
	`

	var model converter.ItemModel
	var noChanges bool
	err = tx.QueryRow(ctx, query,
		item.Source, item.ExternalID, item.Title, item.Description,
		item.Price, item.Currency, item.URL, item.ImageURL,
		item.Brand, item.Category, item.Color, item.Condition, item.Size,
	).Scan(
		&model.ID, &model.Source, &model.ExternalID, &model.Title,
		&model.Description, &model.Price, &model.Currency,
		&model.URL, &model.ImageURL, &model.Brand, &model.Category,
		&model.Color, &model.Condition, &model.Size,
		&model.IsEmbedded, &model.CreatedAt, &model.UpdatedAt, &noChanges,
	)
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	return usecase.NewUpsertItemRes(i.conv.ToEntity(&model), noChanges), nil
}

// MarkEmbedded помечает объявление доступным для поиска: его вектор записан
// в индекс под указанной версией эмбеддинга.
func (i *ItemRepo) MarkEmbedded(ctx context.Context, itemID int64, embeddingVersion int32) error {
	tx, err := tr.TxFromCtx(ctx)
	if err != nil {
		return e.Wrap(whereami.WhereAmI(), err)
	}

	query := `
		UPDATE fashion_items
		SET is_embedded = true, embedding_version = $2, updated_at = NOW()
		WHERE id = $1
	`

	if _, err := tx.Exec(ctx, query, itemID, embeddingVersion); err != nil {
		return e.Wrap(whereami.WhereAmI(), err)
	}

	return nil
}

// GetItemsInfo возвращает метаданные объявлений по их идентификаторам.
func (i *ItemRepo) GetItemsInfo(ctx context.Context, ids []int64) ([]usecase.ItemInfo, error) {
	query := `
		SELECT id, source, external_id, title, description, price, currency,
		       url, image_url, brand, category, color, condition, size
		FROM fashion_items
		WHERE id = ANY($1)
	`

	rows, err := i.pool.Query(ctx, query, ids)
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}
	defer rows.Close()

	result := make([]usecase.ItemInfo, 0)
	for rows.Next() {
		var item usecase.ItemInfo
		if err := rows.Scan(
			&item.ID, &item.Source, &item.ExternalID, &item.Title,
			&item.Description, &item.Price, &item.Currency,
			&item.URL, &item.ImageURL, &item.Brand, &item.Category,
			&item.Color, &item.Condition, &item.Size,
		); err != nil {
			return nil, e.Wrap(whereami.WhereAmI(), err)
		}

		result = append(result, item)
	}

	return result, nil
}

// GetFilterOptions собирает фактически встречающиеся значения фильтруемых
// атрибутов по объявлениям, доступным для поиска.
func (i *ItemRepo) GetFilterOptions(ctx context.Context) (*usecase.FilterOptions, error) {
	query := `
		SELECT
			ARRAY(SELECT DISTINCT category  FROM fashion_items WHERE is_embedded AND category  IS NOT NULL ORDER BY category),
			ARRAY(SELECT DISTINCT brand     FROM fashion_items WHERE is_embedded AND brand     IS NOT NULL ORDER BY brand),
			ARRAY(SELECT DISTINCT color     FROM fashion_items WHERE is_embedded AND color     IS NOT NULL ORDER BY color),
			ARRAY(SELECT DISTINCT condition FROM fashion_items WHERE is_embedded AND condition IS NOT NULL ORDER BY condition),
			ARRAY(SELECT DISTINCT source    FROM fashion_items WHERE is_embedded ORDER BY source)
	`

	var options usecase.FilterOptions
	err := i.pool.QueryRow(ctx, query).Scan(
		&options.Categories,
		&options.Brands,
		&options.Colors,
		&options.Conditions,
		&options.Sources,
	)
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	return &options, nil
}
