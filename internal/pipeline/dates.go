package pipeline

import (
	"strings"
	"time"

	"github.com/araddon/dateparse"
)

// parseDate accepts an already-structured time or a string in any common
// layout (ISO-8601, RFC 1123 feed dates, "2 Jan 2024"...). JSON numbers are
// read as Unix milliseconds. Anything else, including unparseable text and
// zero times, yields nil. Zoneless strings are read as UTC.
//
// Fragments such as "Mon," or "Jan 2" parse to year 0 and are rejected.
func parseDate(v any) *time.Time {
	var t time.Time
	switch d := v.(type) {
	case time.Time:
		t = d
	case *time.Time:
		if d == nil {
			return nil
		}
		t = *d
	case string:
		s := strings.TrimSpace(d)
		if s == "" {
			return nil
		}
		parsed, err := dateparse.ParseIn(s, time.UTC)
		if err != nil {
			return nil
		}
		t = parsed
	case float64:
		if d == 0 {
			return nil
		}
		t = time.UnixMilli(int64(d)).UTC()
	default:
		return nil
	}
	if t.IsZero() || t.Year() < 1 {
		return nil
	}
	return &t
}
