// Package scheduler wires up the cron job that periodically refreshes the
// corpus.
package scheduler

import (
	"context"
	"fmt"
	"log"
	"sync"

	"github.com/robfig/cron/v3"

	"edujobs/aggregator/internal/ingest"
)

// Runner executes one refresh cycle.
type Runner interface {
	Run(ctx context.Context) (ingest.Result, error)
}

// Scheduler wraps robfig/cron and manages the refresh loop.
type Scheduler struct {
	cron   *cron.Cron
	runner Runner
	spec   string // cron spec, e.g. "@every 6h"

	mu      sync.Mutex
	running bool
	wg      sync.WaitGroup
}

// New creates a Scheduler that fires every intervalHours hours.
func New(runner Runner, intervalHours int) *Scheduler {
	return &Scheduler{
		cron:   cron.New(cron.WithLogger(cron.DefaultLogger)),
		runner: runner,
		spec:   fmt.Sprintf("@every %dh", intervalHours),
	}
}

// Spec returns the cron expression the scheduler registers.
func (s *Scheduler) Spec() string { return s.spec }

// Start registers the job and starts the scheduler. Also runs one cycle
// immediately so the feed is fresh without waiting for the first tick.
func (s *Scheduler) Start(ctx context.Context) error {
	_, err := s.cron.AddFunc(s.spec, func() {
		s.RunOnce(ctx)
	})
	if err != nil {
		return fmt.Errorf("cron.AddFunc: %w", err)
	}

	s.cron.Start()
	log.Printf("[scheduler] Cron started, spec: %s", s.spec)

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		s.RunOnce(ctx)
	}()

	return nil
}

// Stop shuts the scheduler down and waits for a running cycle to finish.
func (s *Scheduler) Stop() {
	<-s.cron.Stop().Done()
	s.wg.Wait()
	log.Println("[scheduler] Cron stopped")
}

// RunOnce runs a refresh cycle unless one is already in progress. It reports
// whether a cycle was started.
func (s *Scheduler) RunOnce(ctx context.Context) bool {
	s.mu.Lock()
	if s.running {
		s.mu.Unlock()
		log.Println("[scheduler] Previous refresh still running, skipping tick")
		return false
	}
	s.running = true
	s.mu.Unlock()

	defer func() {
		s.mu.Lock()
		s.running = false
		s.mu.Unlock()
	}()

	log.Println("[scheduler] Refresh cycle started")
	res, err := s.runner.Run(ctx)
	if err != nil {
		log.Printf("[scheduler] Refresh error: %v", err)
		return true
	}
	log.Printf("[scheduler] Refresh cycle %s complete, total=%d added=%d", res.CycleID, res.Total, res.Added)
	return true
}
