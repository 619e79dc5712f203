package test_test

import (
	"context"
	"testing"
	"time"

	"github.com/go-sqlx/sqlx"
	_ "github.com/lib/pq"
	"github.com/stretchr/testify/require"

	"github.com/gaqzi/review-service/test"
)

func TestStartPostgres(t *testing.T) {
	if testing.Short() {
		t.Skip("starts a postgres container")
	}

	t.Run("starts postgres, and returns a valid connection string, and a done to stop postgres", func(t *testing.T) {
		ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
		defer cancel()

		conn, done, err := test.StartPostgres(ctx)
		require.NoError(t, err, "expected to have started a postgres container successfully")

		db, err := sqlx.Connect("postgres", conn)
		require.NoError(t, err)

		var result int
		require.NoError(t, db.QueryRow(`SELECT 1+1`).Scan(&result))
		require.Equal(t, 2, result, "expected to have gotten a valid result from postgres")

		// Now, let's clean up by shutting down the container, any queries after that have to fail.
		done()
		err = db.QueryRow(`SELECT 1+2`).Err()
		require.Error(t, err, "expected an error because calling `done()` shuts down the container")
	})
}
