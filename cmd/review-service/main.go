package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/gaqzi/review-service/internal/app"
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

	ctx, cancel := context.WithCancel(context.Background())
	server, err := app.Start(ctx, cfg)
	if err != nil {
		slog.Error("failed to start server", "error", err)
		cancel()
		os.Exit(1)
	}

	slog.Info("server started", "addr", "http://"+server.Config.Addr, "storage", cfg.Storage)

	shutdown := make(chan os.Signal, 2)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	for {
		sig := <-shutdown
		switch sig {
		case os.Interrupt, syscall.SIGTERM:
			cancel()
			shutCtx, shutCancel := context.WithTimeout(context.Background(), 10*time.Second)

			if err := server.Stop(shutCtx); err != nil {
				slog.Error("failed to shut safely", "error", err)
				shutCancel()
				os.Exit(1)
			}

			shutCancel()
			return
		default:
			slog.Warn("unhandled signal", "signal", sig.String())
		}
	}
}
