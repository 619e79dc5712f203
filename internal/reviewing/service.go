package reviewing

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/gaqzi/review-service/internal/platform/action"
)

type Service struct {
	reviewStore  Storage
	newID        func() string
	now          func() time.Time
	actionMapper *action.Mapper
}

type Option func(s *Service)

// WithIDGenerator sets the function handing out a fresh id for each added review.
func WithIDGenerator(fn func() string) Option {
	return func(s *Service) {
		s.newID = fn
	}
}

// WithClock sets the function used to timestamp new reviews.
func WithClock(fn func() time.Time) Option {
	return func(s *Service) {
		s.now = fn
	}
}

// WithActionMapper replaces the default actions, only meant for tests.
func WithActionMapper(m *action.Mapper) Option {
	return func(s *Service) {
		s.actionMapper = m
	}
}

// NewService defaults to UUIDv7 ids and the current UTC time in microseconds,
// the finest precision every storage keeps.
func NewService(reviewStore Storage, opts ...Option) *Service {
	s := &Service{
		reviewStore:  reviewStore,
		newID:        func() string { return uuid.Must(uuid.NewV7()).String() },
		now:          func() time.Time { return time.Now().UTC().Truncate(time.Microsecond) },
		actionMapper: reviewServiceActions(),
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// AddReview validates the content and stores it as a new review.
// Any error returned is a *Failure.
func (s *Service) AddReview(ctx context.Context, content Content) (Review, error) {
	if err := content.Validate(ctx); err != nil {
		return Review{}, contentFailure(err)
	}

	id := strings.TrimSpace(s.newID())
	createdAt := s.now()

	// Checking and then saving isn't atomic, two adds racing on the same id means the last save wins.
	exists, err := s.reviewStore.Exists(ctx, id)
	if err != nil {
		return Review{}, failureFrom(err)
	}
	if exists {
		return Review{}, &Failure{
			Kind:     KindConflictExists,
			Messages: []string{fmt.Sprintf("Review with id '%s' already exists", id)},
		}
	}

	review, err := s.newReview(ctx, NewParams{
		ID:        id,
		Rating:    content.Rating,
		Title:     content.Title,
		Comment:   content.Comment,
		CreatedAt: createdAt,
	})
	if err != nil {
		var invalid *InvalidReviewError
		if errors.As(err, &invalid) {
			return Review{}, failureFrom(err)
		}

		return Review{}, &Failure{Kind: KindInternal, Messages: []string{err.Error()}, Err: err}
	}

	saved, err := s.reviewStore.Save(ctx, review)
	if err != nil {
		return Review{}, failureFrom(err)
	}

	return saved, nil
}

// contentFailure keeps broken content rules as a validation failure, anything else went wrong inside validation.
func contentFailure(err error) *Failure {
	var content *ContentError
	if errors.As(err, &content) {
		return failureFrom(err)
	}

	return &Failure{Kind: KindInternal, Messages: []string{err.Error()}, Err: err}
}

func (s *Service) newReview(ctx context.Context, p NewParams) (Review, error) {
	do, err := action.Lookup[func(context.Context, NewParams) (Review, error)](s.actionMapper, "New")
	if err != nil {
		return Review{}, err
	}

	return do(ctx, p)
}

type ReviewList struct {
	Reviews    []Review
	TotalCount int
}

// ListReviews returns every stored review, in whatever order the storage returned them.
// Any error returned is a *Failure.
func (s *Service) ListReviews(ctx context.Context) (ReviewList, error) {
	reviews, err := s.reviewStore.FindAll(ctx)
	if err != nil {
		return ReviewList{}, failureFrom(err)
	}
	if reviews == nil {
		reviews = []Review{}
	}

	return ReviewList{Reviews: reviews, TotalCount: len(reviews)}, nil
}

// GetReview returns the review or a *Failure of KindNotFound.
func (s *Service) GetReview(ctx context.Context, id string) (Review, error) {
	review, ok, err := s.reviewStore.FindByID(ctx, id)
	if err != nil {
		return Review{}, failureFrom(err)
	}
	if !ok {
		return Review{}, notFound(id)
	}

	return review, nil
}

// DeleteReview removes the review or returns a *Failure of KindNotFound when there was nothing to remove.
func (s *Service) DeleteReview(ctx context.Context, id string) error {
	deleted, err := s.reviewStore.Delete(ctx, id)
	if err != nil {
		return failureFrom(err)
	}
	if !deleted {
		return notFound(id)
	}

	return nil
}

type Summary struct {
	TotalCount    int
	AverageRating float64
	// CountByRating has an entry for every allowed rating, even those without reviews.
	CountByRating map[int]int
}

// Summarize describes all the stored reviews.
func (s *Service) Summarize(ctx context.Context) (Summary, error) {
	reviews, err := s.reviewStore.FindAll(ctx)
	if err != nil {
		return Summary{}, failureFrom(err)
	}

	counts := make(map[int]int, RatingMax)
	for rating := RatingMin; rating <= RatingMax; rating++ {
		counts[rating] = len(FilterByRating(reviews, rating))
	}

	return Summary{
		TotalCount:    len(reviews),
		AverageRating: AverageRating(reviews),
		CountByRating: counts,
	}, nil
}

func notFound(id string) *Failure {
	return &Failure{
		Kind:     KindNotFound,
		Messages: []string{fmt.Sprintf("Review with id '%s' not found", id)},
	}
}
