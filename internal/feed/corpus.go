// Package feed owns the running corpus and serves it read-only: filtering,
// sorting, the taxonomy with extras, and the JSON handlers.
package feed

import (
	"sync"
	"time"

	"edujobs/aggregator/internal/model"
)

// Stats describes the corpus as of the last refresh.
type Stats struct {
	Total      int        `json:"total"`
	LastUpdate *time.Time `json:"lastUpdate"`
	NextUpdate *time.Time `json:"nextUpdate"`
}

// Corpus holds the merged job list between refresh cycles. The refresh
// worker is the only writer; handlers read snapshots.
type Corpus struct {
	mu         sync.RWMutex
	jobs       []model.Job
	byKey      map[string]int
	interval   time.Duration
	lastUpdate time.Time
	nextUpdate time.Time
}

// NewCorpus returns an empty corpus refreshed every interval.
func NewCorpus(interval time.Duration) *Corpus {
	return &Corpus{interval: interval, byKey: map[string]int{}}
}

// Jobs returns a copy of the corpus in its stored order (newest first).
func (c *Corpus) Jobs() []model.Job {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return append([]model.Job(nil), c.jobs...)
}

// Get looks a record up by identity key.
func (c *Corpus) Get(key string) (model.Job, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	i, ok := c.byKey[key]
	if !ok {
		return model.Job{}, false
	}
	return c.jobs[i], true
}

// Len returns the number of records.
func (c *Corpus) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.jobs)
}

// Seed installs jobs without touching the refresh stamps. Used at startup
// with the persisted corpus.
func (c *Corpus) Seed(jobs []model.Job) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.set(jobs)
}

// Replace installs the result of a refresh cycle completed at now and
// returns the resulting stats.
func (c *Corpus) Replace(jobs []model.Job, now time.Time) Stats {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.set(jobs)
	c.lastUpdate = now
	c.nextUpdate = now.Add(c.interval)
	return c.statsLocked()
}

// Restore sets the refresh stamps, e.g. from a previous process.
func (c *Corpus) Restore(last, next time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.lastUpdate = last
	c.nextUpdate = next
}

// Stats returns the record count and the refresh stamps.
func (c *Corpus) Stats() Stats {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.statsLocked()
}

func (c *Corpus) set(jobs []model.Job) {
	c.jobs = append([]model.Job(nil), jobs...)
	c.byKey = make(map[string]int, len(c.jobs))
	for i, j := range c.jobs {
		if _, dup := c.byKey[j.IdentityKey]; !dup {
			c.byKey[j.IdentityKey] = i
		}
	}
}

func (c *Corpus) statsLocked() Stats {
	s := Stats{Total: len(c.jobs)}
	if !c.lastUpdate.IsZero() {
		t := c.lastUpdate
		s.LastUpdate = &t
	}
	if !c.nextUpdate.IsZero() {
		t := c.nextUpdate
		s.NextUpdate = &t
	}
	return s
}
