package reviewing_test

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/gaqzi/review-service/internal/reviewing"
	"github.com/gaqzi/review-service/test/a"
)

func validContent() reviewing.Content {
	return a.Review().Content()
}

func contentMessages(t *testing.T, err error) []string {
	t.Helper()

	var contentErr *reviewing.ContentError
	require.ErrorAs(t, err, &contentErr, "expected the validation to fail with a content error")

	return contentErr.Messages
}

func TestContent_Validate(t *testing.T) {
	ctx := context.Background()

	t.Run("valid content passes", func(t *testing.T) {
		require.NoError(t, validContent().Validate(ctx))
	})

	t.Run("rating", func(t *testing.T) {
		for _, tc := range []struct {
			rating int
			valid  bool
		}{
			{-1, false},
			{0, false},
			{1, true},
			{3, true},
			{5, true},
			{6, false},
		} {
			c := validContent()
			c.Rating = tc.rating

			err := c.Validate(ctx)

			if tc.valid {
				require.NoError(t, err, "expected rating %d to be valid", tc.rating)
				require.True(t, reviewing.IsValidRating(tc.rating))
				continue
			}
			require.Equal(t, []string{"Rating must be an integer between 1 and 5"}, contentMessages(t, err), "rating %d", tc.rating)
			require.False(t, reviewing.IsValidRating(tc.rating))
		}
	})

	t.Run("title", func(t *testing.T) {
		for name, tc := range map[string]struct {
			title string
			valid bool
		}{
			"empty":                {"", false},
			"only whitespace":      {" \t ", false},
			"only a separator":     {"\x1c\x1f", false},
			"one character":        {"a", true},
			"exactly at the max":   {strings.Repeat("a", 200), true},
			"one over the max":     {strings.Repeat("a", 201), false},
			"max counted as runes": {strings.Repeat("é", 200), true},
		} {
			t.Run(name, func(t *testing.T) {
				c := validContent()
				c.Title = tc.title

				err := c.Validate(ctx)

				require.Equal(t, tc.valid, reviewing.IsValidTitle(tc.title), "expected the predicate to agree with Validate")
				if tc.valid {
					require.NoError(t, err)
					return
				}
				require.Equal(t, []string{"Title must be between 1 and 200 characters"}, contentMessages(t, err))
			})
		}
	})

	t.Run("comment", func(t *testing.T) {
		for name, tc := range map[string]struct {
			comment string
			valid   bool
		}{
			"empty":              {"", false},
			"only whitespace":    {"\n\n", false},
			"only a separator":   {"\x1e", false},
			"exactly at the max": {strings.Repeat("b", 5000), true},
			"one over the max":   {strings.Repeat("b", 5001), false},
		} {
			t.Run(name, func(t *testing.T) {
				c := validContent()
				c.Comment = tc.comment

				err := c.Validate(ctx)

				require.Equal(t, tc.valid, reviewing.IsValidComment(tc.comment), "expected the predicate to agree with Validate")
				if tc.valid {
					require.NoError(t, err)
					return
				}
				require.Equal(t, []string{"Comment must be between 1 and 5000 characters"}, contentMessages(t, err))
			})
		}
	})

	t.Run("with every rule broken all messages are returned in rating, title, comment order", func(t *testing.T) {
		err := reviewing.Content{Rating: 0, Title: "", Comment: ""}.Validate(ctx)

		require.Equal(
			t,
			[]string{
				"Rating must be an integer between 1 and 5",
				"Title must be between 1 and 200 characters",
				"Comment must be between 1 and 5000 characters",
			},
			contentMessages(t, err),
		)
	})
}

func TestNew(t *testing.T) {
	ctx := context.Background()

	t.Run("with valid params the review has exactly the values passed in", func(t *testing.T) {
		p := a.Review().Params()

		r, err := reviewing.New(ctx, p)

		require.NoError(t, err)
		require.Equal(t, p.ID, r.ID())
		require.Equal(t, p.Rating, r.Rating())
		require.Equal(t, p.Title, r.Title())
		require.Equal(t, p.Comment, r.Comment())
		require.Equal(t, p.CreatedAt, r.CreatedAt())
		require.Equal(t, reviewing.Content{Rating: p.Rating, Title: p.Title, Comment: p.Comment}, r.Content())
	})

	t.Run("an empty id fails even when the content is valid", func(t *testing.T) {
		_, err := reviewing.New(ctx, a.Review().WithID("  ").Params())

		var invalid *reviewing.InvalidReviewError
		require.ErrorAs(t, err, &invalid)
		require.Equal(t, []string{"ID is required and cannot be empty"}, invalid.Messages)
	})

	t.Run("a zero created time fails", func(t *testing.T) {
		_, err := reviewing.New(ctx, a.Review().WithCreatedAt(time.Time{}).Params())

		var invalid *reviewing.InvalidReviewError
		require.ErrorAs(t, err, &invalid)
		require.Equal(t, []string{"Created date must be a valid timestamp"}, invalid.Messages)
	})

	t.Run("messages accumulate across the id, the created time, and the content", func(t *testing.T) {
		_, err := reviewing.New(ctx, a.Review().IsInvalid().Params())

		var invalid *reviewing.InvalidReviewError
		require.ErrorAs(t, err, &invalid)
		require.Equal(
			t,
			[]string{
				"ID is required and cannot be empty",
				"Created date must be a valid timestamp",
				"Rating must be an integer between 1 and 5",
				"Title must be between 1 and 200 characters",
				"Comment must be between 1 and 5000 characters",
			},
			invalid.Messages,
		)
		require.ErrorContains(t, err, "invalid review: ID is required")
	})
}
