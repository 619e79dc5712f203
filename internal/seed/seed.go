// Package seed has a fixed set of reviews for filling a store during local development.
package seed

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/gaqzi/review-service/internal/reviewing"
)

var fixtures = []reviewing.NewParams{
	{
		ID:        "1",
		Rating:    5,
		Title:     "Excellent service",
		Comment:   "Everything was perfect. Highly recommended!",
		CreatedAt: time.Date(2025, 10, 1, 10, 0, 0, 0, time.UTC),
	},
	{
		ID:        "2",
		Rating:    4,
		Title:     "Very good",
		Comment:   "Good experience overall, but room for improvement.",
		CreatedAt: time.Date(2025, 10, 2, 12, 30, 0, 0, time.UTC),
	},
	{
		ID:        "3",
		Rating:    2,
		Title:     "Not satisfied",
		Comment:   "Service was slow and the staff was not friendly.",
		CreatedAt: time.Date(2025, 10, 3, 15, 45, 0, 0, time.UTC),
	},
	{
		ID:        "4",
		Rating:    3,
		Title:     "Average",
		Comment:   "It was okay, nothing special.",
		CreatedAt: time.Date(2025, 10, 4, 9, 20, 0, 0, time.UTC),
	},
	{
		ID:        "5",
		Rating:    5,
		Title:     "Outstanding!",
		Comment:   "Best experience I have ever had.",
		CreatedAt: time.Date(2025, 10, 5, 18, 0, 0, 0, time.UTC),
	},
}

// Reviews returns the fixture reviews in id order.
func Reviews(ctx context.Context) ([]reviewing.Review, error) {
	reviews := make([]reviewing.Review, 0, len(fixtures))
	for _, p := range fixtures {
		r, err := reviewing.New(ctx, p)
		if err != nil {
			return nil, fmt.Errorf("fixture review %q: %w", p.ID, err)
		}
		reviews = append(reviews, r)
	}

	return reviews, nil
}

// Seed saves every fixture review into the store, overwriting any review with the same id.
// It stops at the first failure and returns how many were saved until then.
func Seed(ctx context.Context, store reviewing.Storage) (int, error) {
	reviews, err := Reviews(ctx)
	if err != nil {
		return 0, err
	}

	for i, r := range reviews {
		if _, err := store.Save(ctx, r); err != nil {
			return i, fmt.Errorf("failed to seed review %q: %w", r.ID(), err)
		}
		slog.InfoContext(ctx, "seeded review", "id", r.ID(), "title", r.Title())
	}

	return len(reviews), nil
}
