package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/caarlos0/env/v10"
	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/httplog/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	phttp "github.com/gaqzi/review-service/internal/platform/http"
	"github.com/gaqzi/review-service/internal/reviewing"
	revhttp "github.com/gaqzi/review-service/internal/reviewing/http"
	"github.com/gaqzi/review-service/internal/reviewing/storage"
)

type CosmosConfig struct {
	Endpoint    string `env:"ENDPOINT"`
	Key         string `env:"KEY"`
	DatabaseID  string `env:"DATABASE_ID"`
	ContainerID string `env:"CONTAINER_ID"`
}

type Config struct {
	Addr string `env:"REVIEWS_ADDR"`
	// Storage is one of memory, postgres, badger, or cosmos.
	Storage     string `env:"REVIEWS_STORAGE"`
	DatabaseURL string `env:"DATABASE_URL"`
	// BadgerPath empty keeps the badger store in memory.
	BadgerPath string       `env:"BADGER_PATH"`
	Cosmos     CosmosConfig `envPrefix:"COSMOS_"`

	LogLevel slog.Level `env:"LOG_LEVEL"`
	LogJSON  bool       `env:"LOG_JSON"`
}

func NewConfig() Config {
	return Config{
		Addr:    "127.0.0.1:3000",
		Storage: "memory",
		Cosmos: CosmosConfig{
			DatabaseID:  "reviews-db",
			ContainerID: "reviews",
		},
		LogLevel: slog.LevelInfo,
	}
}

// LoadConfig reads the environment on top of NewConfig.
func LoadConfig() (Config, error) {
	cfg := NewConfig()
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("failed to parse config from environment: %w", err)
	}

	return cfg, nil
}

// NewLogger builds the process logger, it's also the request logger for the server.
func NewLogger(cfg Config) *httplog.Logger {
	return httplog.NewLogger("review-service", httplog.Options{
		LogLevel:        cfg.LogLevel,
		JSON:            cfg.LogJSON,
		Concise:         true,
		QuietDownRoutes: []string{"/healthz", "/metrics"},
		QuietDownPeriod: 10 * time.Second,
	})
}

// OpenStorage connects to the configured backend. The returned func releases it.
func OpenStorage(ctx context.Context, cfg Config) (reviewing.Storage, func() error, error) {
	switch cfg.Storage {
	case "", "memory":
		return storage.NewMemoryStore(), func() error { return nil }, nil
	case "postgres":
		if cfg.DatabaseURL == "" {
			return nil, nil, errors.New("DATABASE_URL must be set for postgres storage")
		}
		store, err := storage.ConnectPostgres(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, nil, err
		}
		return store, store.Close, nil
	case "badger":
		store, err := storage.OpenBadger(cfg.BadgerPath)
		if err != nil {
			return nil, nil, err
		}
		return store, store.Close, nil
	case "cosmos":
		store, err := storage.NewCosmosStore(storage.CosmosOptions{
			Endpoint:    cfg.Cosmos.Endpoint,
			Key:         cfg.Cosmos.Key,
			DatabaseID:  cfg.Cosmos.DatabaseID,
			ContainerID: cfg.Cosmos.ContainerID,
		})
		if err != nil {
			return nil, nil, err
		}
		return store, func() error { return nil }, nil
	default:
		return nil, nil, fmt.Errorf("unknown storage %q, expected one of: memory, postgres, badger, cosmos", cfg.Storage)
	}
}

type Server struct {
	Config Config
	HTTP   *http.Server

	closeStore func() error
}

// Stop will shut down the server safely and then release the storage.
func (s *Server) Stop(ctx context.Context) error {
	return errors.Join(s.HTTP.Shutdown(ctx), s.closeStore())
}

// Start wires up the app and starts running it
func Start(ctx context.Context, cfg Config) (*Server, error) {
	store, closeStore, err := OpenStorage(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s storage: %w", cfg.Storage, err)
	}

	ln, err := net.Listen("tcp", cfg.Addr)
	if err != nil {
		_ = closeStore()
		return nil, fmt.Errorf("failed to listen to %q: %w", cfg.Addr, err)
	}
	cfg.Addr = ln.Addr().String() // In case cfg.Addr was random we'll update the config to point to what we ended up using

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	r := chi.NewRouter()
	r.Use(httplog.RequestLogger(NewLogger(cfg)))
	r.Use(chimw.Recoverer)
	r.Use(phttp.NewMetrics(registry).Middleware)

	r.Get("/healthz", phttp.Healthz)
	r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))
	r.Route("/reviews", revhttp.Handler(reviewing.NewService(store)))

	server := http.Server{
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}
	server.BaseContext = func(_ net.Listener) context.Context { return ctx }

	go (func() {
		if err := server.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("server stopped unexpectedly", "error", err)
		}
	})()

	return &Server{
		Config:     cfg,
		HTTP:       &server,
		closeStore: closeStore,
	}, nil
}
