package tr

import (
	"context"
	"testing"

	"github.com/find-this-fit/go-backend/pkg/e"
	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubTx struct {
	pgx.Tx
}

func TestTxFromCtx_RoundTrip(t *testing.T) {
	// trm отдаёт транзакцию нетипизированной, WithTx обязан принимать и её
	var untyped any = stubTx{}
	ctx := WithTx(context.Background(), untyped)

	tx, err := TxFromCtx(ctx)
	require.NoError(t, err)
	assert.Equal(t, stubTx{}, tx)
}

func TestTxFromCtx_Missing(t *testing.T) {
	_, err := TxFromCtx(context.Background())
	assert.ErrorIs(t, err, e.ErrTransactionNotFound)
}

func TestTxFromCtx_WrongType(t *testing.T) {
	ctx := WithTx(context.Background(), "not a transaction")

	_, err := TxFromCtx(ctx)
	assert.ErrorIs(t, err, e.ErrTransactionNotFound)
}
