// Command screeningd runs the sanctions/watchlist screening engine's
// HTTP server: single-query search, bulk job submission, and admin
// config, over an in-memory index optionally seeded from an NDJSON
// watchlist file at startup.
package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/sentineltrust/screening-engine/internal/applog"
	"github.com/sentineltrust/screening-engine/internal/bulkjob"
	"github.com/sentineltrust/screening-engine/internal/config"
	"github.com/sentineltrust/screening-engine/internal/httpapi"
	"github.com/sentineltrust/screening-engine/internal/index"
	"github.com/sentineltrust/screening-engine/internal/objectstore"
	"github.com/sentineltrust/screening-engine/internal/ratelimit"
	"github.com/sentineltrust/screening-engine/internal/scoring"
	"github.com/sentineltrust/screening-engine/internal/search"
	"github.com/sentineltrust/screening-engine/pkg/version"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	logger := applog.New("screening-engine", cfg.LogLevel, cfg.LogFormat)
	applog.InitDefault("screening-engine", cfg.LogLevel, cfg.LogFormat)

	idx := index.New()
	loadWatchlist(logger, idx, cfg.WatchlistDataPath)

	scoringConfig := scoring.NewConfig(scoring.DefaultWeights())
	searcher := search.New(idx, scoringConfig)

	store := objectstore.NewFilesystemStore(cfg.ObjectStoreRoot)
	jobs := bulkjob.New(searcher, store, logger, cfg.BulkJobChunkParallelism)

	var limiter *ratelimit.RateLimiter
	if cfg.RateLimitEnabled {
		limiter = ratelimit.New(ratelimit.Config{
			RequestsPerSecond: cfg.RateLimitPerSecond,
			Burst:             cfg.RateLimitBurst,
		})
	}

	handler := httpapi.NewHandler(searcher, jobs, scoringConfig, logger, limiter)
	server := &http.Server{Addr: cfg.ListenAddr, Handler: handler}

	go func() {
		logger.Logger.Infof("screening engine %s listening on %s", version.FullVersion(), cfg.ListenAddr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("serve: %v", err)
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Fatalf("shutdown: %v", err)
	}
}

// loadWatchlist seeds idx from path's NDJSON contents, if path is set.
// A missing or unreadable file is fatal: the engine has nothing to
// screen against otherwise.
func loadWatchlist(logger *applog.Logger, idx *index.Index, path string) {
	if path == "" {
		logger.Logger.Warn("WATCHLIST_DATA_PATH not set; starting with an empty index")
		return
	}

	file, err := os.Open(path)
	if err != nil {
		log.Fatalf("open watchlist data %s: %v", path, err)
	}
	defer file.Close()

	entities, skipped, err := index.LoadNDJSON(file)
	if err != nil {
		log.Fatalf("load watchlist data %s: %v", path, err)
	}
	idx.Replace(entities)
	logger.Logger.Infof("loaded %d entities from %s (%d malformed lines skipped)", len(entities), path, skipped)
}
