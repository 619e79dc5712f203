package validate_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/gaqzi/review-service/internal/platform/validate"
)

type testStruct struct {
	Hello string `validate:"required"`
}

type blankStruct struct {
	Name  string `validate:"notblank"`
	Count int    `validate:"min=1"`
}

func TestStruct(t *testing.T) {
	ctx := context.Background()

	require.Error(t, validate.Struct(ctx, testStruct{}), "expected an error for an empty object")
	require.NoError(t, validate.Struct(ctx, testStruct{"Hello"}), "when the struct is valid don't error")

	t.Run("notblank fails on a whitespace only string", func(t *testing.T) {
		require.Error(t, validate.Struct(ctx, blankStruct{Name: " \t\n", Count: 1}))
		require.NoError(t, validate.Struct(ctx, blankStruct{Name: " x ", Count: 1}))
	})
}

func TestVar(t *testing.T) {
	ctx := context.Background()

	require.NoError(t, validate.Var(ctx, "hello", "notblank,max=5"))
	require.Error(t, validate.Var(ctx, "hello!", "notblank,max=5"), "expected max to fail one over")
	require.Error(t, validate.Var(ctx, "\x1c", "notblank"), "expected separator control characters to count as blank")
	require.Error(t, validate.Var(ctx, 0, "min=1"))
}

func TestFailedFields(t *testing.T) {
	ctx := context.Background()

	t.Run("returns the failing struct fields in declaration order", func(t *testing.T) {
		fields, err := validate.FailedFields(validate.Struct(ctx, blankStruct{}))

		require.NoError(t, err)
		require.Equal(t, []string{"Name", "Count"}, fields)
	})

	t.Run("returns nothing for a nil error", func(t *testing.T) {
		fields, err := validate.FailedFields(nil)

		require.NoError(t, err)
		require.Empty(t, fields)
	})

	t.Run("passes through errors that aren't from validation", func(t *testing.T) {
		expected := errors.New("uh-oh")

		_, err := validate.FailedFields(expected)

		require.ErrorIs(t, err, expected)
	})
}
