package feed

import (
	"fmt"
	"sort"
	"strings"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"edujobs/aggregator/internal/model"
)

// Sort orders a filtered listing.
type Sort string

const (
	SortDateDesc Sort = "date_desc"
	SortDateAsc  Sort = "date_asc"
	SortTitleAsc Sort = "title_asc"
)

// ParseSort converts a query value to a Sort. An empty value means date_desc.
func ParseSort(s string) (Sort, error) {
	switch Sort(s) {
	case "", SortDateDesc:
		return SortDateDesc, nil
	case SortDateAsc, SortTitleAsc:
		return Sort(s), nil
	}
	return "", fmt.Errorf("invalid sort %q: must be one of date_desc, date_asc, title_asc", s)
}

// Query is a user filter over the corpus. Empty fields match everything.
type Query struct {
	Q        string
	Country  string
	Category string
	Sort     Sort
}

// Filter returns the records matching q in the requested order. jobs is not
// modified.
func Filter(jobs []model.Job, q Query) []model.Job {
	needle := strings.ToLower(strings.TrimSpace(q.Q))

	out := make([]model.Job, 0, len(jobs))
	for _, j := range jobs {
		if q.Country != "" && j.Country != q.Country {
			continue
		}
		if q.Category != "" && j.Category != q.Category {
			continue
		}
		if !MatchesText(j, needle) {
			continue
		}
		out = append(out, j)
	}

	switch q.Sort {
	case SortDateAsc:
		sort.SliceStable(out, func(a, b int) bool { return out[a].PostedUnix() < out[b].PostedUnix() })
	case SortTitleAsc:
		col := collate.New(language.English)
		sort.SliceStable(out, func(a, b int) bool { return col.CompareString(out[a].Title, out[b].Title) < 0 })
	default:
		sort.SliceStable(out, func(a, b int) bool { return out[a].PostedUnix() > out[b].PostedUnix() })
	}
	return out
}

// MatchesText reports whether the lower-cased needle appears anywhere in the
// combined title, school, location, country, city and category text. An
// empty needle matches every record.
func MatchesText(j model.Job, needle string) bool {
	if needle == "" {
		return true
	}
	combined := strings.ToLower(strings.Join([]string{
		j.Title, j.School, j.Location, j.Country, j.City, j.Category,
	}, " "))
	return strings.Contains(combined, needle)
}
