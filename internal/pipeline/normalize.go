// Package pipeline turns raw job records into a clean, de-duplicated corpus.
//
// Normalize and Merge are pure: they perform no I/O, hold no locks and never
// mutate their inputs, so independent batches may be processed concurrently.
package pipeline

import (
	"strings"

	"edujobs/aggregator/internal/classify"
	"edujobs/aggregator/internal/model"
)

// Normalize builds a Job from a raw record. The boolean is false when the
// record is unusable: it has neither a title nor a URL, or no field from
// which a stable identity key can be derived. Rejection is not an error.
func Normalize(raw model.RawJob) (model.Job, bool) {
	originalURL := raw.First("original_url", "apply_url")
	applyURL := raw.First("apply_url", "original_url")
	title := raw.String("title")
	if originalURL == "" && title == "" {
		return model.Job{}, false
	}

	school := raw.String("school")
	if school == "" {
		school, title = schoolFromTitle(title)
	}

	job := model.Job{
		Title:               title,
		Description:         classify.Sanitize(rawText(raw, "description")),
		School:              school,
		Location:            raw.String("location"),
		City:                raw.String("city"),
		Country:             raw.String("country"),
		ExperienceLevel:     raw.String("experience_level"),
		Source:              raw.String("source"),
		PostingDate:         parseDate(raw["posting_date"]),
		ApplicationDeadline: parseDate(raw["application_deadline"]),
		OriginalURL:         originalURL,
		ApplyURL:            applyURL,
	}

	job.Country = classify.Country(job)

	if job.Category = raw.String("category"); job.Category == "" {
		job.Category = classify.Category(job.Title)
	}

	job.IdentityKey = IdentityKey(job.OriginalURL, job.ApplyURL, raw.String("id"))
	if job.IdentityKey == "" {
		return model.Job{}, false
	}
	if job.ID = raw.String("id"); job.ID == "" {
		job.ID = job.IdentityKey
	}

	return job, true
}

// NormalizeBatch normalizes every record and silently drops the rejected ones.
// Input order is preserved.
func NormalizeBatch(raws []model.RawJob) []model.Job {
	out := make([]model.Job, 0, len(raws))
	for _, raw := range raws {
		if job, ok := Normalize(raw); ok {
			out = append(out, job)
		}
	}
	return out
}

// IdentityKey is the first non-empty of the posting URL, the apply URL and the
// source ID, trimmed. The cascade order decides which records are duplicates
// and must not change.
func IdentityKey(originalURL, applyURL, id string) string {
	for _, k := range []string{originalURL, applyURL, id} {
		if k = strings.TrimSpace(k); k != "" {
			return k
		}
	}
	return ""
}

// schoolFromTitle splits titles of the form "SCHOOL NAME: Role". The prefix
// must be longer than three characters and entirely upper case.
func schoolFromTitle(title string) (school, rest string) {
	left, right, found := strings.Cut(title, ":")
	if !found {
		return "", title
	}
	left = strings.TrimSpace(left)
	if len([]rune(left)) <= 3 || left != strings.ToUpper(left) {
		return "", title
	}
	if rest = strings.TrimSpace(right); rest == "" {
		rest = title
	}
	return left, rest
}

// rawText returns a string field untouched so the sanitizer sees the markup.
func rawText(raw model.RawJob, key string) string {
	if s, ok := raw[key].(string); ok {
		return s
	}
	return raw.String(key)
}
