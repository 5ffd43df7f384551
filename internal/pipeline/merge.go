package pipeline

import (
	"sort"
	"strings"

	"edujobs/aggregator/internal/model"
)

// Merge folds an incoming batch into an existing corpus and returns a new
// slice, newest posting first.
//
// Records are keyed by IdentityKey. An incoming record is dropped when its key
// is empty or already present, so the existing copy always wins and merging
// the same batch twice changes nothing. Within the batch the first record for
// a key wins. Undated postings sort last; ties keep their merged order.
func Merge(existing, incoming []model.Job) []model.Job {
	out := make([]model.Job, 0, len(existing)+len(incoming))
	seen := make(map[string]struct{}, len(existing)+len(incoming))

	for _, j := range existing {
		if k := strings.TrimSpace(j.IdentityKey); k != "" {
			seen[k] = struct{}{}
		}
		out = append(out, j)
	}

	for _, j := range incoming {
		k := strings.TrimSpace(j.IdentityKey)
		if k == "" {
			continue
		}
		if _, dup := seen[k]; dup {
			continue
		}
		seen[k] = struct{}{}
		out = append(out, j)
	}

	SortNewestFirst(out)
	return out
}

// Added returns the records of merged whose keys are not in existing.
func Added(existing, merged []model.Job) []model.Job {
	known := make(map[string]struct{}, len(existing))
	for _, j := range existing {
		known[strings.TrimSpace(j.IdentityKey)] = struct{}{}
	}
	var added []model.Job
	for _, j := range merged {
		if _, ok := known[strings.TrimSpace(j.IdentityKey)]; !ok {
			added = append(added, j)
		}
	}
	return added
}

// SortNewestFirst orders jobs by posting date descending, in place. Jobs
// without a date go last.
func SortNewestFirst(jobs []model.Job) {
	sort.SliceStable(jobs, func(a, b int) bool {
		da, db := jobs[a].PostingDate, jobs[b].PostingDate
		switch {
		case da == nil:
			return false
		case db == nil:
			return true
		}
		return da.After(*db)
	})
}
