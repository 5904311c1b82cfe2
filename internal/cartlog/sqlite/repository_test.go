package sqlite

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jcmexdev/shopcart/internal/cartlog"
)

func setupRepo(t *testing.T) *Repository {
	t.Helper()
	repo, err := Open(filepath.Join(t.TempDir(), "cart_log.db"))
	require.NoError(t, err)
	t.Cleanup(func() { repo.Close() })
	return repo
}

func TestRepository_SaveAndList(t *testing.T) {
	repo := setupRepo(t)
	ctx := context.Background()
	at := time.Date(2024, 3, 9, 12, 30, 0, 123, time.UTC)

	entries := []*cartlog.Entry{
		{CartID: "c1", Event: cartlog.EventCartCreated, Total: "0.00", Discount: "0.00", RecordedAt: at},
		{CartID: "c2", Event: cartlog.EventCartCreated, Total: "0.00", Discount: "0.00", RecordedAt: at},
		{CartID: "c1", Event: cartlog.EventItemAdded, ProductID: 7, Quantity: 3, Total: "3000.00", Discount: "0.00",
			TraceID: "4bf92f3577b34da6a3ce929d0e0e4736", SpanID: "00f067aa0ba902b7", RecordedAt: at.Add(time.Second)},
	}
	for _, e := range entries {
		require.NoError(t, repo.Save(ctx, e))
	}

	got, err := repo.ListByCart(ctx, "c1")
	require.NoError(t, err)
	require.Len(t, got, 2)

	assert.Equal(t, cartlog.EventCartCreated, got[0].Event)
	assert.True(t, at.Equal(got[0].RecordedAt))

	assert.Equal(t, cartlog.EventItemAdded, got[1].Event)
	assert.Equal(t, int64(7), got[1].ProductID)
	assert.Equal(t, 3, got[1].Quantity)
	assert.Equal(t, "3000.00", got[1].Total)
	assert.Equal(t, "4bf92f3577b34da6a3ce929d0e0e4736", got[1].TraceID)
}

func TestRepository_ListUnknownCart(t *testing.T) {
	repo := setupRepo(t)

	got, err := repo.ListByCart(context.Background(), "nobody")
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestOpen_ReopenKeepsRows(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cart_log.db")
	ctx := context.Background()

	repo, err := Open(path)
	require.NoError(t, err)
	require.NoError(t, repo.Save(ctx, &cartlog.Entry{CartID: "c1", Event: cartlog.EventCancelled, RecordedAt: time.Now()}))
	require.NoError(t, repo.Close())

	repo, err = Open(path)
	require.NoError(t, err)
	defer repo.Close()

	got, err := repo.ListByCart(ctx, "c1")
	require.NoError(t, err)
	assert.Len(t, got, 1)
}
