package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"

	"connectrpc.com/connect"
	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/net/http2"
	"golang.org/x/net/http2/h2c"

	"github.com/mmynk/youome/internal/cache"
	"github.com/mmynk/youome/internal/config"
	"github.com/mmynk/youome/internal/ledger"
	"github.com/mmynk/youome/internal/metrics"
	"github.com/mmynk/youome/internal/middleware"
	"github.com/mmynk/youome/internal/rpc"
	"github.com/mmynk/youome/internal/service"
	"github.com/mmynk/youome/internal/storage"
	"github.com/mmynk/youome/internal/storage/memory"
	"github.com/mmynk/youome/internal/storage/sqlstore"
	"github.com/mmynk/youome/pkg/logging"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}
	logging.Configure(cfg.LogLevel, cfg.LogFormat)

	store, err := openStore(cfg)
	if err != nil {
		slog.Error("Failed to initialize storage", "driver", cfg.DBDriver, "error", err)
		os.Exit(1)
	}
	defer store.Close()
	slog.Info("Storage initialized", "driver", cfg.DBDriver)

	strategy, err := ledger.ParseMergeStrategy(cfg.MergeStrategy)
	if err != nil {
		slog.Error("Invalid merge strategy", "error", err)
		os.Exit(1)
	}

	planCache, closeCache, err := openCache(cfg)
	if err != nil {
		slog.Error("Failed to initialize cache", "error", err)
		os.Exit(1)
	}
	defer closeCache()

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	m := metrics.New(reg)

	svc, err := service.New(store, ledger.New(store, ledger.WithMergeStrategy(strategy)),
		service.WithCache(planCache),
		service.WithMetrics(m),
	)
	if err != nil {
		slog.Error("Failed to initialize service", "error", err)
		os.Exit(1)
	}
	slog.Info("Ledger ready", "merge_strategy", strategy.String())

	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Recoverer)
	r.Use(middleware.RequestLogger)
	r.Use(middleware.CORS)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok"}`))
	})
	r.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{Registry: reg}))

	ledgerPath, ledgerHandler := rpc.NewLedgerServiceHandler(svc,
		connect.WithInterceptors(middleware.LoggingInterceptor(m)),
	)
	r.Mount(ledgerPath, ledgerHandler)

	// Wrap with h2c for HTTP/2 without TLS (required for Connect)
	h2cHandler := h2c.NewHandler(r, &http2.Server{})

	addr := cfg.Addr()
	slog.Info("Connect server starting", "address", addr, "url", "http://localhost"+addr)
	if err := http.ListenAndServe(addr, h2cHandler); err != nil {
		slog.Error("Server failed", "error", err)
		os.Exit(1)
	}
}

func openStore(cfg *config.Config) (storage.Store, error) {
	if cfg.DBDriver == "memory" {
		return memory.New(), nil
	}
	return sqlstore.Open(cfg.DBDriver, cfg.DatabaseURL)
}

// openCache connects to Redis when REDIS_ADDR is set and falls back to a
// process-local cache otherwise.
func openCache(cfg *config.Config) (cache.Cache, func(), error) {
	if cfg.RedisAddr == "" {
		slog.Info("Using in-memory plan cache", "ttl", cfg.CacheTTL)
		return cache.NewInMemoryCache(cfg.CacheTTL), func() {}, nil
	}
	rc, err := cache.NewRedisCache(context.Background(), cache.Config{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
		TTL:      cfg.CacheTTL,
	})
	if err != nil {
		return nil, nil, err
	}
	slog.Info("Using Redis plan cache", "addr", cfg.RedisAddr, "ttl", cfg.CacheTTL)
	return rc, func() { rc.Close() }, nil
}
