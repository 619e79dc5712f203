package storage_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/gaqzi/review-service/internal/reviewing"
	"github.com/gaqzi/review-service/internal/reviewing/storage"
	"github.com/gaqzi/review-service/test"
)

func TestPostgresStore(t *testing.T) {
	if testing.Short() {
		t.Skip("starts a postgres container")
	}

	ctx := context.Background()
	startCtx, cancel := context.WithTimeout(ctx, 2*time.Minute)
	defer cancel()
	conn, done, err := test.StartPostgres(startCtx)
	require.NoError(t, err, "expected to have started postgres")
	t.Cleanup(done)

	store, err := storage.ConnectPostgres(ctx, conn)
	require.NoError(t, err, "expected to have connected and migrated")
	t.Cleanup(func() { _ = store.Close() })

	t.Run("migrating again is a no-op", func(t *testing.T) {
		again, err := storage.ConnectPostgres(ctx, conn)
		require.NoError(t, err)
		require.NoError(t, again.Close())
	})

	StorageTest(t, ctx, func() reviewing.Storage {
		_, err := store.DeleteAll(ctx)
		require.NoError(t, err, "expected to have emptied the reviews table between tests")

		return store
	})
}
