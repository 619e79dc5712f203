// Command seed-reviews fills the configured storage with the fixture reviews.
package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"

	"github.com/joho/godotenv"

	"github.com/gaqzi/review-service/internal/app"
	"github.com/gaqzi/review-service/internal/seed"
)

func main() {
	// Both files are optional and only used during local development,
	// tmp/local-dev.env is written by local-dev-dependencies.
	for _, f := range []string{".env", "tmp/local-dev.env"} {
		_ = godotenv.Load(f)
	}

	cfg, err := app.LoadConfig()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	slog.SetDefault(app.NewLogger(cfg).Logger)
	if cfg.Storage == "" || cfg.Storage == "memory" {
		slog.Warn("seeding the memory storage only lasts until this command exits")
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	if err := run(ctx, cfg); err != nil {
		slog.Error("failed seeding reviews", "error", err)
		cancel()
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg app.Config) error {
	store, closeStore, err := app.OpenStorage(ctx, cfg)
	if err != nil {
		return err
	}
	defer func() {
		if err := closeStore(); err != nil {
			slog.Error("failed to close storage", "error", err)
		}
	}()

	n, err := seed.Seed(ctx, store)
	if err != nil {
		return err
	}

	slog.Info("seeding complete", "reviews", n, "storage", cfg.Storage)
	return nil
}
