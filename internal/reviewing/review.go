package reviewing

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/gaqzi/review-service/internal/platform/validate"
)

const (
	RatingMin        = 1
	RatingMax        = 5
	TitleMaxLength   = 200
	CommentMaxLength = 5000
)

var (
	msgID        = "ID is required and cannot be empty"
	msgCreatedAt = "Created date must be a valid timestamp"
	msgRating    = fmt.Sprintf("Rating must be an integer between %d and %d", RatingMin, RatingMax)
	msgTitle     = fmt.Sprintf("Title must be between 1 and %d characters", TitleMaxLength)
	msgComment   = fmt.Sprintf("Comment must be between 1 and %d characters", CommentMaxLength)
)

// Content is the part of a review that a client writes.
// It's validated on its own before an ID and creation time is assigned.
type Content struct {
	Rating  int    `validate:"min=1,max=5"`
	Title   string `validate:"notblank,max=200"`
	Comment string `validate:"notblank,max=5000"`
}

// ContentError lists every rule the content broke, in the order rating, title, comment.
type ContentError struct {
	Messages []string
}

func (e *ContentError) Error() string {
	return "invalid review content: " + strings.Join(e.Messages, ", ")
}

// Validate checks all the content rules and returns a *ContentError with one message per broken rule.
func (c Content) Validate(ctx context.Context) error {
	fields, err := validate.FailedFields(validate.Struct(ctx, c))
	if err != nil {
		return fmt.Errorf("failed to validate review content: %w", err)
	}
	if len(fields) == 0 {
		return nil
	}

	failed := make(map[string]bool, len(fields))
	for _, f := range fields {
		failed[f] = true
	}

	var msgs []string
	for _, rule := range []struct{ field, msg string }{
		{"Rating", msgRating},
		{"Title", msgTitle},
		{"Comment", msgComment},
	} {
		if failed[rule.field] {
			msgs = append(msgs, rule.msg)
		}
	}

	return &ContentError{Messages: msgs}
}

// The predicates run the same rules as the tags on Content.
const (
	ratingRules  = "min=1,max=5"
	titleRules   = "notblank,max=200"
	commentRules = "notblank,max=5000"
)

func IsValidRating(rating int) bool {
	return validate.Var(context.Background(), rating, ratingRules) == nil
}

func IsValidTitle(title string) bool {
	return validate.Var(context.Background(), title, titleRules) == nil
}

func IsValidComment(comment string) bool {
	return validate.Var(context.Background(), comment, commentRules) == nil
}

// Review is a persisted review. The zero value is not a valid review,
// use New to construct one.
type Review struct {
	id        string
	rating    int
	title     string
	comment   string
	createdAt time.Time
}

func (r Review) ID() string           { return r.id }
func (r Review) Rating() int          { return r.rating }
func (r Review) Title() string        { return r.title }
func (r Review) Comment() string      { return r.comment }
func (r Review) CreatedAt() time.Time { return r.createdAt }

// Content returns the client written part of the review.
func (r Review) Content() Content {
	return Content{Rating: r.rating, Title: r.title, Comment: r.comment}
}

type NewParams struct {
	ID        string
	Rating    int
	Title     string
	Comment   string
	CreatedAt time.Time
}

// InvalidReviewError is returned by New with every reason the review couldn't be constructed.
type InvalidReviewError struct {
	Messages []string
}

func (e *InvalidReviewError) Error() string {
	return "invalid review: " + strings.Join(e.Messages, ", ")
}

// New constructs a Review or returns an *InvalidReviewError listing all the reasons it can't.
// It does not check whether the ID is already taken, that's up to the storage.
func New(ctx context.Context, p NewParams) (Review, error) {
	var msgs []string

	if strings.TrimSpace(p.ID) == "" {
		msgs = append(msgs, msgID)
	}

	if p.CreatedAt.IsZero() {
		msgs = append(msgs, msgCreatedAt)
	}

	content := Content{Rating: p.Rating, Title: p.Title, Comment: p.Comment}
	if err := content.Validate(ctx); err != nil {
		var contentErr *ContentError
		if !errors.As(err, &contentErr) {
			return Review{}, err
		}
		msgs = append(msgs, contentErr.Messages...)
	}

	if len(msgs) > 0 {
		return Review{}, &InvalidReviewError{Messages: msgs}
	}

	return Review{
		id:        p.ID,
		rating:    p.Rating,
		title:     p.Title,
		comment:   p.Comment,
		createdAt: p.CreatedAt,
	}, nil
}
