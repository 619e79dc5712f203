package reviewing

import "context"

// Storage persists reviews. Not finding a review is never an error,
// any error returned is a failure of the storage itself.
type Storage interface {
	// FindByID returns the review and true, or false when there's no review with the id.
	FindByID(ctx context.Context, id string) (Review, bool, error)

	// FindAll returns every stored review. There's no guaranteed order.
	FindAll(ctx context.Context) ([]Review, error)

	// Save inserts the review or fully replaces the one stored with the same id.
	Save(ctx context.Context, review Review) (Review, error)

	// Delete removes the review and reports whether anything was removed.
	Delete(ctx context.Context, id string) (bool, error)

	// Exists reports whether a review with the id is stored.
	Exists(ctx context.Context, id string) (bool, error)
}
