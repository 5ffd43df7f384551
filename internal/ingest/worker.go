// Package ingest runs the refresh cycle: fetch the snapshot and live batches,
// normalize them, merge them into the corpus, persist what is new and
// announce the result.
package ingest

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"edujobs/aggregator/internal/feed"
	"edujobs/aggregator/internal/model"
	"edujobs/aggregator/internal/pipeline"
)

// Source hands raw records to a refresh cycle.
type Source interface {
	Name() string
	Fetch(ctx context.Context) ([]model.RawJob, error)
}

// Sink persists records that are new to the corpus.
type Sink interface {
	InsertNew(ctx context.Context, jobs []model.Job) (int, error)
}

// Publisher announces a finished cycle.
type Publisher interface {
	Publish(ctx context.Context, ev Event) error
}

// StampSaver records the refresh stamps outside the process.
type StampSaver interface {
	Save(ctx context.Context, st feed.Stats) error
}

// Result summarises one cycle.
type Result struct {
	CycleID   string
	Local     int // normalized records from snapshot sources
	Live      int // normalized records from live sources
	Total     int
	Added     int
	Persisted int
	Unsaved   int // records kept for the next cycle after a failed persist
}

// Worker merges every cycle's batches into corpus. Sink, publisher and stamps
// are optional. Records the sink failed to store are offered to it again on
// the next cycle.
type Worker struct {
	corpus *feed.Corpus
	local  []Source
	live   []Source
	sink   Sink
	pub    Publisher
	stamps StampSaver
	now    func() time.Time

	mu      sync.Mutex
	unsaved []model.Job
}

// NewWorker constructs a Worker.
func NewWorker(corpus *feed.Corpus, local, live []Source, sink Sink, pub Publisher, stamps StampSaver) *Worker {
	return &Worker{
		corpus: corpus,
		local:  local,
		live:   live,
		sink:   sink,
		pub:    pub,
		stamps: stamps,
		now:    time.Now,
	}
}

// Run executes one refresh cycle. The snapshot batch is merged before the
// live batch, so a snapshot record wins over a live duplicate. A failing
// source contributes an empty batch; only cancellation aborts the cycle.
func (w *Worker) Run(ctx context.Context) (Result, error) {
	res := Result{CycleID: uuid.NewString()}
	logger := slog.With("cycle", res.CycleID)
	logger.Info("refresh cycle started", "local_sources", len(w.local), "live_sources", len(w.live))

	localRaw, liveRaw, err := w.fetchAll(ctx, logger)
	if err == nil {
		err = ctx.Err()
	}
	if err != nil {
		return res, fmt.Errorf("refresh cycle %s: %w", res.CycleID, err)
	}

	localBatch := pipeline.NormalizeBatch(localRaw)
	liveBatch := pipeline.NormalizeBatch(liveRaw)
	res.Local, res.Live = len(localBatch), len(liveBatch)
	logger.Info("batches normalized",
		"local_raw", len(localRaw), "local", res.Local,
		"live_raw", len(liveRaw), "live", res.Live)

	existing := w.corpus.Jobs()
	merged := pipeline.Merge(pipeline.Merge(existing, localBatch), liveBatch)
	added := pipeline.Added(existing, merged)
	res.Total, res.Added = len(merged), len(added)

	if w.sink != nil {
		res.Persisted, res.Unsaved = w.persist(ctx, logger, added)
	}

	stats := w.corpus.Replace(merged, w.now())

	if w.stamps != nil {
		if err := w.stamps.Save(ctx, stats); err != nil {
			logger.Warn("save refresh stamps failed", "err", err)
		}
	}

	if w.pub != nil {
		ev := Event{
			Type:       EventFeedRefreshed,
			CycleID:    res.CycleID,
			Total:      res.Total,
			Added:      res.Added,
			LastUpdate: stats.LastUpdate,
			NextUpdate: stats.NextUpdate,
		}
		if err := w.pub.Publish(ctx, ev); err != nil {
			logger.Warn("publish "+EventFeedRefreshed+" failed", "err", err)
		}
	}

	logger.Info("refresh cycle complete",
		"total", res.Total, "added", res.Added, "persisted", res.Persisted, "unsaved", res.Unsaved)
	return res, nil
}

// persist stores this cycle's new records together with any left over from a
// failed attempt. The sink skips keys it already holds, so retrying a
// partially stored batch is safe. On failure the whole batch is queued again.
func (w *Worker) persist(ctx context.Context, logger *slog.Logger, added []model.Job) (persisted, unsaved int) {
	w.mu.Lock()
	defer w.mu.Unlock()

	batch := make([]model.Job, 0, len(w.unsaved)+len(added))
	seen := make(map[string]struct{}, cap(batch))
	for _, group := range [][]model.Job{w.unsaved, added} {
		for _, j := range group {
			if _, dup := seen[j.IdentityKey]; dup {
				continue
			}
			seen[j.IdentityKey] = struct{}{}
			batch = append(batch, j)
		}
	}
	if len(batch) == 0 {
		return 0, 0
	}

	n, err := w.sink.InsertNew(ctx, batch)
	if err != nil {
		logger.Warn("persist new jobs failed, retrying next cycle", "jobs", len(batch), "err", err)
		w.unsaved = batch
		return n, len(batch)
	}
	w.unsaved = nil
	return n, 0
}

// fetchAll queries every source concurrently and concatenates the results
// in source order. A source error only drops that source; cancellation of
// ctx stops the remaining fetches and is returned.
func (w *Worker) fetchAll(ctx context.Context, logger *slog.Logger) (local, live []model.RawJob, err error) {
	sources := append(append([]Source(nil), w.local...), w.live...)
	batches := make([][]model.RawJob, len(sources))

	g, gctx := errgroup.WithContext(ctx)
	for i, src := range sources {
		g.Go(func() error {
			start := time.Now()
			jobs, err := src.Fetch(gctx)
			if err != nil {
				if ctxErr := ctx.Err(); ctxErr != nil {
					return ctxErr
				}
				logger.Warn("source failed, continuing without it",
					"source", src.Name(), "err", err)
				return nil
			}
			logger.Debug("source fetched",
				"source", src.Name(), "records", len(jobs), "took", time.Since(start))
			batches[i] = jobs
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, nil, err
	}

	for i, b := range batches {
		if i < len(w.local) {
			local = append(local, b...)
		} else {
			live = append(live, b...)
		}
	}
	return local, live, nil
}
