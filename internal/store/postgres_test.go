package store_test

import (
	"context"
	"os"
	"testing"
	"time"

	"edujobs/aggregator/internal/db"
	"edujobs/aggregator/internal/model"
	"edujobs/aggregator/internal/store"
)

// Runs against a disposable database only: the jobs table is truncated.
func newStore(t *testing.T) *store.Store {
	t.Helper()
	url := os.Getenv("TEST_DATABASE_URL")
	if url == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}
	ctx := context.Background()
	pool, err := db.NewPostgresPool(ctx, url, 5*time.Second)
	if err != nil {
		t.Fatalf("connect: %v", err)
	}
	t.Cleanup(pool.Close)

	s := store.New(pool)
	if err := s.EnsureSchema(ctx); err != nil {
		t.Fatalf("EnsureSchema: %v", err)
	}
	if _, err := pool.Exec(ctx, `TRUNCATE jobs`); err != nil {
		t.Fatalf("truncate: %v", err)
	}
	return s
}

func TestStore_InsertNewKeepsExisting(t *testing.T) {
	s := newStore(t)
	ctx := context.Background()
	d := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)

	n, err := s.InsertNew(ctx, []model.Job{
		{IdentityKey: "https://x.com/1", Title: "Teacher"},
		{IdentityKey: "https://x.com/2", Title: "Dean", PostingDate: &d, Country: "Japan"},
	})
	if err != nil || n != 2 {
		t.Fatalf("InsertNew = (%d, %v), want 2", n, err)
	}

	n, err = s.InsertNew(ctx, []model.Job{{IdentityKey: "https://x.com/1", Title: "Changed"}})
	if err != nil || n != 0 {
		t.Fatalf("second InsertNew = (%d, %v), want 0", n, err)
	}

	jobs, err := s.LoadAll(ctx)
	if err != nil {
		t.Fatalf("LoadAll: %v", err)
	}
	if len(jobs) != 2 || jobs[0].Title != "Dean" || jobs[1].Title != "Teacher" {
		t.Fatalf("LoadAll = %+v, want [Dean, Teacher]", jobs)
	}
	if jobs[0].PostingDate == nil || !jobs[0].PostingDate.Equal(d) || jobs[0].Country != "Japan" {
		t.Errorf("Dean row = %+v", jobs[0])
	}
	if jobs[1].PostingDate != nil {
		t.Errorf("undated row got PostingDate %v", jobs[1].PostingDate)
	}
}

func TestStore_InsertNewEmpty(t *testing.T) {
	s := newStore(t)
	if n, err := s.InsertNew(context.Background(), nil); err != nil || n != 0 {
		t.Errorf("InsertNew(nil) = (%d, %v)", n, err)
	}
}
