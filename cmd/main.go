// edujobs aggregator service
//
// Keeps a deduplicated, classified corpus of education job postings across
// Asia. Every refresh cycle reads the local snapshot files and the live
// aggregation endpoint, normalizes and merges them (existing records win),
// persists new postings to PostgreSQL and publishes EVENT_FEED_REFRESHED to
// Redis. The corpus is served read-only as JSON.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/joho/godotenv/autoload"

	"edujobs/aggregator/internal/config"
	"edujobs/aggregator/internal/db"
	"edujobs/aggregator/internal/feed"
	"edujobs/aggregator/internal/ingest"
	"edujobs/aggregator/internal/scheduler"
	"edujobs/aggregator/internal/source"
	"edujobs/aggregator/internal/store"
)

const (
	version        = "1.0.0"
	connectTimeout = 10 * time.Second
)

func main() {
	// ── Config ──────────────────────────────────────────────────────────────
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("[aggregator] Config error: %v", err)
	}

	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: cfg.LogLevel})))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// ── PostgreSQL ───────────────────────────────────────────────────────────
	log.Println("[aggregator] Connecting to PostgreSQL…")
	pool, err := db.NewPostgresPool(ctx, cfg.DatabaseURL, connectTimeout)
	if err != nil {
		log.Fatalf("[aggregator] PostgreSQL: %v", err)
	}
	defer pool.Close()
	log.Println("[aggregator] PostgreSQL connected ✓")

	jobStore := store.New(pool)
	if err := jobStore.EnsureSchema(ctx); err != nil {
		log.Fatalf("[aggregator] %v", err)
	}

	// ── Redis ────────────────────────────────────────────────────────────────
	log.Println("[aggregator] Connecting to Redis…")
	rdb, err := db.NewRedisClient(ctx, cfg.RedisURL, connectTimeout)
	if err != nil {
		log.Fatalf("[aggregator] Redis: %v", err)
	}
	defer rdb.Close()
	log.Println("[aggregator] Redis connected ✓")

	// ── Corpus ───────────────────────────────────────────────────────────────
	corpus := feed.NewCorpus(cfg.RefreshInterval())
	existing, err := jobStore.LoadAll(ctx)
	if err != nil {
		log.Fatalf("[aggregator] Load corpus: %v", err)
	}
	corpus.Seed(existing)

	stamps := feed.NewRedisStamps(rdb)
	if last, next, ok, err := stamps.Load(ctx); err != nil {
		slog.Warn("refresh stamps unavailable", "err", err)
	} else if ok {
		corpus.Restore(last, next)
	}
	log.Printf("[aggregator] Corpus loaded: %d job(s)", corpus.Len())

	// ── Refresh worker + scheduler ───────────────────────────────────────────
	var local, live []ingest.Source
	for _, s := range cfg.Sources.Snapshots {
		local = append(local, source.NewSnapshot(s.Name, s.Path))
	}
	for _, s := range cfg.Sources.Live {
		live = append(live, source.NewLive(s.Name, s.URL, cfg.LiveTimeout))
	}

	worker := ingest.NewWorker(corpus, local, live, jobStore, ingest.NewRedisPublisher(rdb), stamps)
	sched := scheduler.New(worker, cfg.RefreshIntervalHours)
	if err := sched.Start(ctx); err != nil {
		log.Fatalf("[aggregator] Scheduler: %v", err)
	}

	// ── HTTP server ──────────────────────────────────────────────────────────
	mux := http.NewServeMux()
	mux.HandleFunc("/health", healthHandler)
	feed.NewHandler(corpus).RegisterRoutes(mux)

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.Port),
		Handler:      mux,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
	}

	go func() {
		log.Printf("[aggregator] v%s listening on :%s", version, cfg.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("[aggregator] HTTP server error: %v", err)
		}
	}()

	// ── Graceful shutdown ────────────────────────────────────────────────────
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("[aggregator] Shutting down…")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("[aggregator] Shutdown error: %v", err)
	}
	cancel()
	sched.Stop()
	log.Println("[aggregator] Stopped.")
}

func healthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(map[string]string{
		"status":  "ok",
		"service": "aggregator",
		"version": version,
	})
}
