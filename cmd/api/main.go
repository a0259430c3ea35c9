// Package main implements the Generator Oracle API server.
package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
	"golang.org/x/time/rate"

	"github.com/EmersonEIMS/generator-oracle/engine/correlate"
	"github.com/EmersonEIMS/generator-oracle/engine/diagnose"
	"github.com/EmersonEIMS/generator-oracle/engine/ingest"
	"github.com/EmersonEIMS/generator-oracle/engine/store"
	"github.com/EmersonEIMS/generator-oracle/engine/syncproto"
	"github.com/EmersonEIMS/generator-oracle/engine/versionstore"
	"github.com/EmersonEIMS/generator-oracle/pkg/metrics"
	"github.com/EmersonEIMS/generator-oracle/pkg/mid"
)

// Config holds all environment-based configuration. Postgres, Neo4j, and
// NATS are optional: a missing backend degrades the related feature and
// the server keeps running on the built-in corpus.
type Config struct {
	Port        string
	DatabaseURL string
	Neo4jURL    string
	Neo4jUser   string
	Neo4jPass   string
	NATSURL     string
	CORSOrigin  string
	RatePerSec  float64
	RateBurst   int
}

func loadConfig() Config {
	return Config{
		Port:        envOr("PORT", "8080"),
		DatabaseURL: os.Getenv("DATABASE_URL"),
		Neo4jURL:    os.Getenv("NEO4J_URL"),
		Neo4jUser:   envOr("NEO4J_USER", "neo4j"),
		Neo4jPass:   envOr("NEO4J_PASS", "password"),
		NATSURL:     os.Getenv("NATS_URL"),
		CORSOrigin:  envOr("CORS_ORIGIN", "*"),
		RatePerSec:  envFloatOr("RATE_LIMIT_RPS", 10),
		RateBurst:   envIntOr("RATE_LIMIT_BURST", 20),
	}
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envIntOr(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func envFloatOr(key string, fallback float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return fallback
}

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	slog.SetDefault(logger)

	cfg := loadConfig()

	if err := run(cfg, logger); err != nil {
		logger.Error("server exited with error", "err", err)
		os.Exit(1)
	}
}

func run(cfg Config, logger *slog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// --- Corpus store, seeded from the built-in records ---
	src := store.SeedSource()
	snap, err := store.BuildSnapshot(store.SeedRecords())
	if err != nil {
		return err
	}
	st := store.New(snap, logger)

	// --- Postgres version store (optional) ---
	var versionStore syncproto.VersionStore
	if cfg.DatabaseURL != "" {
		pg, err := versionstore.New(cfg.DatabaseURL)
		if err != nil {
			logger.Warn("postgres unavailable, sync serves full corpus only", "err", err)
		} else {
			defer pg.Close()
			if err := pg.InitSchema(ctx); err != nil {
				logger.Warn("sync schema init failed", "err", err)
			}
			versionStore = pg
		}
	}

	// --- Neo4j correlation graph (optional) ---
	graphExtra := map[string][]correlate.Entry{}
	if cfg.Neo4jURL != "" {
		driver, err := neo4j.NewDriverWithContext(cfg.Neo4jURL,
			neo4j.BasicAuth(cfg.Neo4jUser, cfg.Neo4jPass, ""))
		if err != nil {
			logger.Warn("neo4j unavailable, correlations use related codes only", "err", err)
		} else {
			defer driver.Close(ctx)
			graph := correlate.NewGraphStore(driver)
			extra, err := graph.LoadAll(ctx)
			if err != nil {
				logger.Warn("correlation graph load failed", "err", err)
			} else {
				graphExtra = extra
			}
		}
	}

	// --- NATS corpus-update consumer (optional) ---
	if cfg.NATSURL != "" {
		nc, err := nats.Connect(cfg.NATSURL)
		if err != nil {
			logger.Warn("nats unavailable, corpus updates need a restart", "err", err)
		} else {
			defer nc.Close()
			sub, err := ingest.StartConsumer(nc, st, src, logger)
			if err != nil {
				logger.Warn("corpus-update subscription failed", "err", err)
			} else {
				defer sub.Unsubscribe()
			}
		}
	}

	// --- Services ---
	registry := metrics.New()
	analyzer := diagnose.NewAnalyzer(st, logger)
	syncSvc := syncproto.NewService(versionStore, st, logger)
	correlations := newCorrelator(st, graphExtra)
	limiter := mid.NewLimiterRegistry(rate.Limit(cfg.RatePerSec), cfg.RateBurst)

	api := &apiServer{
		store:        st,
		analyzer:     analyzer,
		sync:         syncSvc,
		correlations: correlations,
		metrics:      registry,
		logger:       logger,
	}

	// --- HTTP server ---
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/health", api.handleHealth)
	mux.HandleFunc("GET /api/oracle/lookup", api.handleLookup)
	mux.HandleFunc("GET /api/oracle/search", api.handleSearch)
	mux.HandleFunc("POST /api/oracle/analyze", api.handleAnalyze)
	mux.HandleFunc("POST /api/oracle/severity", api.handleSeverity)
	mux.HandleFunc("GET /api/oracle/correlate", api.handleCorrelate)
	mux.HandleFunc("GET /api/oracle/sync", api.handleSyncCheck)
	mux.HandleFunc("POST /api/oracle/sync", api.handleSyncDownload)
	mux.Handle("GET /metrics", registry.Handler())

	handler := mid.Chain(mux,
		mid.Recover(logger),
		mid.Logger(logger),
		mid.CORS(cfg.CORSOrigin),
		mid.OTel("generator-oracle-api"),
		mid.RateLimit(limiter),
	)

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	// --- Graceful shutdown ---
	errCh := make(chan error, 1)
	go func() {
		logger.Info("api server starting", "port", cfg.Port, "records", st.Snapshot().Len())
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if err != nil && err != http.ErrServerClosed {
			return err
		}
	case <-ctx.Done():
		logger.Info("shutdown signal received")
	}

	shutCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutCtx)
}
