package test

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
)

// StartPostgres starts an empty postgres in a container, the schema is up to whoever connects.
// Call done to stop the container.
func StartPostgres(ctx context.Context) (conn string, done func(), err error) {
	postgresContainer, err := postgres.Run(ctx,
		"docker.io/postgres:16-alpine",
		postgres.WithDatabase("reviews"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second),
		),
	)
	if err != nil {
		return "", func() {}, fmt.Errorf("failed to start postgres: %w", err)
	}

	done = func() {
		if err := testcontainers.TerminateContainer(postgresContainer); err != nil {
			slog.Error("failed to terminate postgres container", "error", err)
		}
	}

	connectionString, err := postgresContainer.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		done()
		return "", func() {}, fmt.Errorf("failed to get postgres connection string: %w", err)
	}

	return connectionString, done, nil
}
