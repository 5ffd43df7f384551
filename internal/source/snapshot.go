// Package source implements the collaborators that hand raw job records to
// the pipeline: local JSON snapshots and the live aggregation endpoint.
package source

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"edujobs/aggregator/internal/model"
)

// ErrSnapshotShape is returned when a document is neither an array of
// records nor an object with a "jobs" array.
var ErrSnapshotShape = errors.New("expected an array of jobs or an object with a jobs array")

// Snapshot reads raw records from a JSON file on disk.
type Snapshot struct {
	name string
	path string
}

// NewSnapshot constructs a Snapshot source for path.
func NewSnapshot(name, path string) *Snapshot {
	if name == "" {
		name = path
	}
	return &Snapshot{name: name, path: path}
}

// Name identifies the source in logs.
func (s *Snapshot) Name() string { return s.name }

// Fetch reads and decodes the whole file.
func (s *Snapshot) Fetch(ctx context.Context) ([]model.RawJob, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	data, err := os.ReadFile(s.path)
	if err != nil {
		return nil, fmt.Errorf("read snapshot: %w", err)
	}
	jobs, err := DecodeJobs(data)
	if err != nil {
		return nil, fmt.Errorf("decode snapshot %s: %w", s.path, err)
	}
	return jobs, nil
}

// DecodeJobs accepts both `[{...}, ...]` and `{"jobs": [{...}, ...]}`.
// Array elements that are not objects are skipped. A document of any other
// shape is an error.
func DecodeJobs(data []byte) ([]model.RawJob, error) {
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return nil, ErrSnapshotShape
	}

	var items []json.RawMessage
	switch data[0] {
	case '[':
		if err := json.Unmarshal(data, &items); err != nil {
			return nil, fmt.Errorf("json unmarshal: %w", err)
		}
	case '{':
		var wrapper struct {
			Jobs []json.RawMessage `json:"jobs"`
		}
		if err := json.Unmarshal(data, &wrapper); err != nil {
			return nil, fmt.Errorf("json unmarshal: %w", err)
		}
		if wrapper.Jobs == nil {
			return nil, ErrSnapshotShape
		}
		items = wrapper.Jobs
	default:
		return nil, ErrSnapshotShape
	}

	jobs := make([]model.RawJob, 0, len(items))
	for _, item := range items {
		var job model.RawJob
		if err := json.Unmarshal(item, &job); err != nil || job == nil {
			continue
		}
		jobs = append(jobs, job)
	}
	return jobs, nil
}
