package reviewing

import (
	"context"

	"github.com/gaqzi/review-service/internal/platform/action"
)

// reviewServiceActions provides the steps the Service hands off to the Review aggregate.
// It's a way to keep the Service about collaboration while letting the tests swap
// out a step to see how the Service reacts when it misbehaves.
func reviewServiceActions() *action.Mapper {
	m := &action.Mapper{}

	m.Add("New", func(ctx context.Context, p NewParams) (Review, error) {
		return New(ctx, p)
	})

	return m
}
