// Package model defines shared data structures for the aggregator service.
package model

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// RawJob is a job-like record as received from a snapshot file or the live
// endpoint. Every field is optional and may carry any JSON type; only the
// normalizer reads it.
type RawJob map[string]any

// String returns the field as trimmed text. Numbers are formatted, anything
// else (nil, objects, arrays) yields "".
func (r RawJob) String(key string) string {
	switch v := r[key].(type) {
	case string:
		return strings.TrimSpace(v)
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case int, int64:
		return fmt.Sprintf("%d", v)
	case fmt.Stringer:
		return strings.TrimSpace(v.String())
	}
	return ""
}

// First returns the first non-empty String among keys.
func (r RawJob) First(keys ...string) string {
	for _, k := range keys {
		if s := r.String(k); s != "" {
			return s
		}
	}
	return ""
}

// Job is a normalized posting. It is serialised as-is by the HTTP layer and
// stored one row per IdentityKey in the jobs table.
type Job struct {
	IdentityKey         string     `json:"identityKey"`
	ID                  string     `json:"id,omitempty"`
	Title               string     `json:"title"`
	Description         string     `json:"description"`
	School              string     `json:"school,omitempty"`
	Location            string     `json:"location,omitempty"`
	City                string     `json:"city,omitempty"`
	Country             string     `json:"country"`
	Category            string     `json:"category"`
	ExperienceLevel     string     `json:"experienceLevel,omitempty"`
	Source              string     `json:"source,omitempty"`
	PostingDate         *time.Time `json:"postingDate"`
	ApplicationDeadline *time.Time `json:"applicationDeadline"`
	OriginalURL         string     `json:"originalUrl"`
	ApplyURL            string     `json:"applyUrl"`
}

// DisplayTitle is the title shown to users; postings without one still render.
func (j Job) DisplayTitle() string {
	if strings.TrimSpace(j.Title) == "" {
		return "Untitled role"
	}
	return j.Title
}

// ViewURL is the link to the posting itself.
func (j Job) ViewURL() string {
	if j.OriginalURL != "" {
		return j.OriginalURL
	}
	return j.ApplyURL
}

// PostedUnix returns the posting time in seconds, or 0 when unknown so that
// undated postings sort as the oldest.
func (j Job) PostedUnix() int64 {
	if j.PostingDate == nil {
		return 0
	}
	return j.PostingDate.Unix()
}
