package tr

import (
	"context"

	"github.com/find-this-fit/go-backend/pkg/e"
	"github.com/jackc/pgx/v5"
)

type ctxKey struct{}

// TxKey — ключ контекста, под которым usecase кладёт активную транзакцию.
var TxKey = ctxKey{}

// WithTx кладёт объект транзакции в контекст. Значение принимается
// нетипизированным: trm отдаёт транзакцию как interface{}, проверка типа
// откладывается до TxFromCtx.
func WithTx(ctx context.Context, tx any) context.Context {
	return context.WithValue(ctx, TxKey, tx)
}

// TxFromCtx извлекает объект транзакции (pgx.Tx) из контекста
func TxFromCtx(ctx context.Context) (pgx.Tx, error) {
	tx, ok := ctx.Value(TxKey).(pgx.Tx)
	if !ok {
		return nil, e.ErrTransactionNotFound
	}
	return tx, nil
}
