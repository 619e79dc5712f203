package storage_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/gaqzi/review-service/internal/reviewing"
	"github.com/gaqzi/review-service/internal/reviewing/storage"
	"github.com/gaqzi/review-service/test/a"
)

// StorageTest is a base suite used to test across the implementations of reviewing.Storage.
// It's implemented this way to ensure that the implementations can be used interchangeably, and to allow for the use
// of lighter implementations during testing.
// Every call to storeFactory must return an empty store.
func StorageTest(t *testing.T, ctx context.Context, storeFactory func() reviewing.Storage) {
	t.Run("Save", func(t *testing.T) {
		t.Run("returns an error when saving a review that wasn't constructed", func(t *testing.T) {
			store := storeFactory()

			_, actual := store.Save(ctx, reviewing.Review{})

			require.ErrorIs(t, actual, storage.ErrNoID, "expected the sentinel error for not having an ID set")
		})

		t.Run("returns the saved review", func(t *testing.T) {
			store := storeFactory()
			review := a.Review().Build()

			actual, err := store.Save(ctx, review)

			require.NoError(t, err, "expected to have saved successfully when the review is valid")
			require.Equal(t, review, actual)
		})

		t.Run("saving with an existing id replaces the whole review", func(t *testing.T) {
			store := storeFactory()
			_, err := store.Save(ctx, a.Review().Build())
			require.NoError(t, err)
			updated := a.Review().WithRating(1).WithTitle("Changed my mind").WithComment("It broke").Build()

			_, err = store.Save(ctx, updated)
			require.NoError(t, err)

			all, err := store.FindAll(ctx)
			require.NoError(t, err)
			require.Equal(t, []reviewing.Review{updated}, all, "expected only the updated review to be stored")
		})

		t.Run("saving the same review twice is the same as saving it once", func(t *testing.T) {
			store := storeFactory()
			review := a.Review().Build()

			_, err := store.Save(ctx, review)
			require.NoError(t, err)
			_, err = store.Save(ctx, review)
			require.NoError(t, err)

			all, err := store.FindAll(ctx)
			require.NoError(t, err)
			require.Equal(t, []reviewing.Review{review}, all)
		})
	})

	t.Run("FindByID", func(t *testing.T) {
		t.Run("not finding a review is not an error", func(t *testing.T) {
			store := storeFactory()

			_, ok, err := store.FindByID(ctx, "does-not-exist")

			require.NoError(t, err, "expected not found to not be an error")
			require.False(t, ok)
		})

		t.Run("after saving, gets back the same object as save when asking by ID", func(t *testing.T) {
			store := storeFactory()
			expected, err := store.Save(ctx, a.Review().Build())
			require.NoError(t, err, "expected the valid review to have been saved successfully")

			actual, ok, err := store.FindByID(ctx, expected.ID())
			require.NoError(t, err, "expected to have fetched successfully when just saving the object")

			require.True(t, ok)
			require.Equal(t, expected, actual, "expected the objects to have the same info when no changes between save and fetch")
		})

		t.Run("a timestamp with nanoseconds reads back the same as save returned it", func(t *testing.T) {
			store := storeFactory()
			expected, err := store.Save(ctx, a.Review().WithCreatedAt(a.Timestamp("2025-10-01T10:00:00.123456789Z")).Build())
			require.NoError(t, err)

			actual, ok, err := store.FindByID(ctx, expected.ID())
			require.NoError(t, err)
			require.True(t, ok)
			require.Equal(t, expected.CreatedAt(), actual.CreatedAt(), "expected createdAt to not change between save and fetch")

			all, err := store.FindAll(ctx)
			require.NoError(t, err)
			require.Equal(t, []reviewing.Review{expected}, all)
		})
	})

	t.Run("FindAll", func(t *testing.T) {
		t.Run("with no stored reviews it returns an empty list", func(t *testing.T) {
			store := storeFactory()

			reviews, err := store.FindAll(ctx)
			require.NoError(t, err)

			require.Empty(t, reviews, "expected to have gotten back no items")
		})

		t.Run("returns every stored review", func(t *testing.T) {
			store := storeFactory()
			var expected []reviewing.Review
			for _, id := range []string{"1", "2", "3"} {
				r, err := store.Save(ctx, a.Review().WithID(id).Build())
				require.NoError(t, err)
				expected = append(expected, r)
			}

			actual, err := store.FindAll(ctx)
			require.NoError(t, err)

			require.ElementsMatch(t, expected, actual, "expected all the stored reviews, in any order")
		})
	})

	t.Run("Delete", func(t *testing.T) {
		t.Run("returns false and leaves the store alone when the id isn't stored", func(t *testing.T) {
			store := storeFactory()
			review, err := store.Save(ctx, a.Review().Build())
			require.NoError(t, err)

			deleted, err := store.Delete(ctx, "does-not-exist")

			require.NoError(t, err)
			require.False(t, deleted)
			all, err := store.FindAll(ctx)
			require.NoError(t, err)
			require.Equal(t, []reviewing.Review{review}, all)
		})

		t.Run("returns true and removes only that review", func(t *testing.T) {
			store := storeFactory()
			keep, err := store.Save(ctx, a.Review().WithID("keep").Build())
			require.NoError(t, err)
			_, err = store.Save(ctx, a.Review().WithID("remove").Build())
			require.NoError(t, err)

			deleted, err := store.Delete(ctx, "remove")

			require.NoError(t, err)
			require.True(t, deleted)
			all, err := store.FindAll(ctx)
			require.NoError(t, err)
			require.Equal(t, []reviewing.Review{keep}, all)
		})
	})

	t.Run("Exists", func(t *testing.T) {
		store := storeFactory()
		review, err := store.Save(ctx, a.Review().Build())
		require.NoError(t, err)

		exists, err := store.Exists(ctx, review.ID())
		require.NoError(t, err)
		require.True(t, exists, "expected a saved review to exist")

		exists, err = store.Exists(ctx, "does-not-exist")
		require.NoError(t, err)
		require.False(t, exists, "expected an unsaved review to not exist")
	})
}
