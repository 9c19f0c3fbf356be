package pgdb

import (
	"context"

	"github.com/find-this-fit/go-backend/pkg/e"
	"github.com/find-this-fit/go-backend/pkg/tr"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jimlawless/whereami"
)

// ItemEmbeddingVersionRepo ведёт монотонный счётчик версий эмбеддинга
// на объявление: каждая перевекторизация получает новую версию.
type ItemEmbeddingVersionRepo struct {
	pool *pgxpool.Pool
}

func NewItemEmbeddingVersionRepo(pool *pgxpool.Pool) *ItemEmbeddingVersionRepo {
	return &ItemEmbeddingVersionRepo{pool: pool}
}

func (i *ItemEmbeddingVersionRepo) Upsert(ctx context.Context, itemID int64) (int32, error) {
	tx, err := tr.TxFromCtx(ctx)
	if err != nil {
		return 0, e.Wrap(whereami.WhereAmI(), err)
	}

	query := `
	INSERT INTO item_embedding_version (item_id)
    VALUES ($1)
    ON CONFLICT (item_id)
    DO UPDATE SET embedding_version = item_embedding_version.embedding_version + 1,
                  updated_at = NOW()
    RETURNING embedding_version;
	`

	var version int32
	if err := tx.QueryRow(ctx, query, itemID).Scan(&version); err != nil {
		return 0, e.Wrap(whereami.WhereAmI(), err)
	}

	return version, nil
}
