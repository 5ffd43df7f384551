// Package store persists the corpus in PostgreSQL, one row per identity key.
package store

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"edujobs/aggregator/internal/model"
)

// Schema creates the jobs table. It is safe to run on every start.
const Schema = `
CREATE TABLE IF NOT EXISTS jobs (
	identity_key         TEXT PRIMARY KEY,
	job_id               TEXT NOT NULL DEFAULT '',
	title                TEXT NOT NULL DEFAULT '',
	description          TEXT NOT NULL DEFAULT '',
	school               TEXT NOT NULL DEFAULT '',
	location             TEXT NOT NULL DEFAULT '',
	city                 TEXT NOT NULL DEFAULT '',
	country              TEXT NOT NULL DEFAULT '',
	category             TEXT NOT NULL DEFAULT '',
	experience_level     TEXT NOT NULL DEFAULT '',
	source               TEXT NOT NULL DEFAULT '',
	posting_date         TIMESTAMPTZ,
	application_deadline TIMESTAMPTZ,
	original_url         TEXT NOT NULL DEFAULT '',
	apply_url            TEXT NOT NULL DEFAULT '',
	created_at           TIMESTAMPTZ NOT NULL DEFAULT NOW()
);
CREATE INDEX IF NOT EXISTS jobs_posting_date_idx ON jobs (posting_date DESC NULLS LAST);`

const columns = `identity_key, job_id, title, description, school, location, city,
	country, category, experience_level, source, posting_date,
	application_deadline, original_url, apply_url`

// Store reads and writes the jobs table.
type Store struct {
	pool *pgxpool.Pool
}

// New returns a Store backed by pool.
func New(pool *pgxpool.Pool) *Store {
	return &Store{pool: pool}
}

// EnsureSchema creates the table and index if they do not exist.
func (s *Store) EnsureSchema(ctx context.Context) error {
	if _, err := s.pool.Exec(ctx, Schema); err != nil {
		return fmt.Errorf("ensure schema: %w", err)
	}
	return nil
}

// LoadAll returns the persisted corpus, newest first with undated rows last.
func (s *Store) LoadAll(ctx context.Context) ([]model.Job, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT `+columns+`
		 FROM jobs
		 ORDER BY posting_date DESC NULLS LAST, created_at ASC`,
	)
	if err != nil {
		return nil, fmt.Errorf("query jobs: %w", err)
	}
	defer rows.Close()

	jobs := make([]model.Job, 0)
	for rows.Next() {
		var j model.Job
		if err := rows.Scan(
			&j.IdentityKey, &j.ID, &j.Title, &j.Description, &j.School,
			&j.Location, &j.City, &j.Country, &j.Category, &j.ExperienceLevel,
			&j.Source, &j.PostingDate, &j.ApplicationDeadline,
			&j.OriginalURL, &j.ApplyURL,
		); err != nil {
			return nil, fmt.Errorf("scan: %w", err)
		}
		jobs = append(jobs, j)
	}
	return jobs, rows.Err()
}

// InsertNew writes jobs whose identity key is not stored yet and returns how
// many rows were inserted. Existing rows are never updated.
func (s *Store) InsertNew(ctx context.Context, jobs []model.Job) (int, error) {
	if len(jobs) == 0 {
		return 0, nil
	}

	batch := &pgx.Batch{}
	for _, j := range jobs {
		batch.Queue(
			`INSERT INTO jobs (`+columns+`)
			 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
			 ON CONFLICT (identity_key) DO NOTHING`,
			j.IdentityKey, j.ID, j.Title, j.Description, j.School,
			j.Location, j.City, j.Country, j.Category, j.ExperienceLevel,
			j.Source, j.PostingDate, j.ApplicationDeadline,
			j.OriginalURL, j.ApplyURL,
		)
	}

	results := s.pool.SendBatch(ctx, batch)
	defer results.Close()

	inserted := 0
	for range jobs {
		tag, err := results.Exec()
		if err != nil {
			return inserted, fmt.Errorf("insert job: %w", err)
		}
		inserted += int(tag.RowsAffected())
	}
	return inserted, nil
}
