package storage_test

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/gaqzi/review-service/internal/reviewing"
	"github.com/gaqzi/review-service/internal/reviewing/storage"
	"github.com/gaqzi/review-service/test/a"
)

func TestMemoryStore(t *testing.T) {
	StorageTest(t, context.Background(), func() reviewing.Storage { return storage.NewMemoryStore() })

	t.Run("FindAll returns the reviews in the order they were first saved", func(t *testing.T) {
		ctx := context.Background()
		store := storage.NewMemoryStore()
		for _, id := range []string{"3", "1", "2"} {
			_, err := store.Save(ctx, a.Review().WithID(id).Build())
			require.NoError(t, err)
		}
		_, err := store.Save(ctx, a.Review().WithID("3").WithRating(1).Build())
		require.NoError(t, err)

		all, err := store.FindAll(ctx)
		require.NoError(t, err)

		var ids []string
		for _, r := range all {
			ids = append(ids, r.ID())
		}
		require.Equal(t, []string{"3", "1", "2"}, ids, "expected overwriting to keep the original position")
	})

	t.Run("concurrent saves of different ids are all kept", func(t *testing.T) {
		ctx := context.Background()
		store := storage.NewMemoryStore()

		var wg sync.WaitGroup
		for i := 0; i < 50; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				_, _ = store.Save(ctx, a.Review().WithID(a.UUID()).Build())
			}()
		}
		wg.Wait()

		all, err := store.FindAll(ctx)
		require.NoError(t, err)
		require.Len(t, all, 50)
	})
}
