package reviewing

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestContentFailure(t *testing.T) {
	t.Run("broken content rules are a validation failure", func(t *testing.T) {
		f := contentFailure(&ContentError{Messages: []string{msgRating}})

		require.Equal(t, KindValidationFailed, f.Kind)
		require.Equal(t, []string{msgRating}, f.Messages)
	})

	t.Run("validation itself failing is internal, no storage was involved", func(t *testing.T) {
		err := errors.New("failed to validate review content: bad tag")

		f := contentFailure(err)

		require.Equal(t, KindInternal, f.Kind)
		require.Equal(t, []string{err.Error()}, f.Messages)
		require.ErrorIs(t, f, err)
	})
}
