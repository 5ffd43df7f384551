package feed_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"edujobs/aggregator/internal/feed"
	"edujobs/aggregator/internal/model"
)

func job(key, title, country, category, day string) model.Job {
	j := model.Job{IdentityKey: key, Title: title, Country: country, Category: category, OriginalURL: key}
	if day != "" {
		d, _ := time.Parse("2006-01-02", day)
		j.PostingDate = &d
	}
	return j
}

func titles(jobs []model.Job) []string {
	out := make([]string, len(jobs))
	for i, j := range jobs {
		out[i] = j.Title
	}
	return out
}

func sameOrder(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

var sample = []model.Job{
	job("https://x.com/1", "Teacher", "China", "Primary Teaching", "2024-01-01"),
	job("https://x.com/2", "Dean", "Japan", "Senior Management", "2024-05-01"),
	job("https://x.com/3", "apple Coordinator", "Atlantis", "Fruit", ""),
	job("https://x.com/4", "École Librarian", "Japan", "Library / Learning Resources", "2023-06-01"),
}

// ── ParseSort ──────────────────────────────────────────────────────────────

func TestParseSort(t *testing.T) {
	cases := map[string]feed.Sort{
		"":          feed.SortDateDesc,
		"date_desc": feed.SortDateDesc,
		"date_asc":  feed.SortDateAsc,
		"title_asc": feed.SortTitleAsc,
	}
	for in, want := range cases {
		got, err := feed.ParseSort(in)
		if err != nil || got != want {
			t.Errorf("ParseSort(%q) = (%q, %v), want %q", in, got, err, want)
		}
	}
	if _, err := feed.ParseSort("random"); err == nil {
		t.Error("ParseSort(\"random\") expected error, got nil")
	}
}

// ── Filter ─────────────────────────────────────────────────────────────────

func TestFilter_Sorts(t *testing.T) {
	cases := []struct {
		sort feed.Sort
		want []string
	}{
		{feed.SortDateDesc, []string{"Dean", "Teacher", "École Librarian", "apple Coordinator"}},
		{feed.SortDateAsc, []string{"apple Coordinator", "École Librarian", "Teacher", "Dean"}},
		{feed.SortTitleAsc, []string{"apple Coordinator", "Dean", "École Librarian", "Teacher"}},
	}
	for _, c := range cases {
		got := titles(feed.Filter(sample, feed.Query{Sort: c.sort}))
		if !sameOrder(got, c.want) {
			t.Errorf("Filter(sort=%s) = %v, want %v", c.sort, got, c.want)
		}
	}
}

func TestFilter_Criteria(t *testing.T) {
	cases := []struct {
		name string
		q    feed.Query
		want []string
	}{
		{"country", feed.Query{Country: "Japan"}, []string{"Dean", "École Librarian"}},
		{"category", feed.Query{Category: "Primary Teaching"}, []string{"Teacher"}},
		{"text in title, case-insensitive", feed.Query{Q: "  DEAN "}, []string{"Dean"}},
		{"text in country", feed.Query{Q: "atlant"}, []string{"apple Coordinator"}},
		{"text in category", feed.Query{Q: "management"}, []string{"Dean"}},
		{"combined", feed.Query{Country: "Japan", Q: "libr"}, []string{"École Librarian"}},
		{"no match", feed.Query{Country: "Peru"}, []string{}},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			got := titles(feed.Filter(sample, c.q))
			if !sameOrder(got, c.want) {
				t.Errorf("Filter(%+v) = %v, want %v", c.q, got, c.want)
			}
		})
	}
}

func TestFilter_DoesNotReorderInput(t *testing.T) {
	before := titles(sample)
	feed.Filter(sample, feed.Query{Sort: feed.SortTitleAsc})
	if !sameOrder(before, titles(sample)) {
		t.Error("Filter reordered its input")
	}
}

func TestMatchesText_EmptyNeedle(t *testing.T) {
	if !feed.MatchesText(model.Job{}, "") {
		t.Error("empty needle should match every record")
	}
}

// ── Taxonomy ───────────────────────────────────────────────────────────────

func TestTaxonomy_Extras(t *testing.T) {
	view := feed.Taxonomy(sample)
	if len(view.Countries) == 0 || view.Countries[0].Label != "Northeast Asia" {
		t.Fatalf("curated country groups missing or reordered: %+v", view.Countries)
	}
	if !sameOrder(view.ExtraCountries, []string{"Atlantis"}) {
		t.Errorf("ExtraCountries = %v, want [Atlantis]", view.ExtraCountries)
	}
	if !sameOrder(view.ExtraCategories, []string{"Fruit"}) {
		t.Errorf("ExtraCategories = %v, want [Fruit]", view.ExtraCategories)
	}
}

// ── Corpus ─────────────────────────────────────────────────────────────────

func TestCorpus_ReplaceStampsNextUpdate(t *testing.T) {
	c := feed.NewCorpus(6 * time.Hour)
	if s := c.Stats(); s.Total != 0 || s.LastUpdate != nil || s.NextUpdate != nil {
		t.Fatalf("new corpus stats = %+v", s)
	}

	now := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	s := c.Replace(sample, now)
	if s.Total != len(sample) {
		t.Errorf("Total = %d, want %d", s.Total, len(sample))
	}
	if !s.LastUpdate.Equal(now) || !s.NextUpdate.Equal(now.Add(6*time.Hour)) {
		t.Errorf("stamps = (%v, %v)", s.LastUpdate, s.NextUpdate)
	}
}

func TestCorpus_SeedKeepsStamps(t *testing.T) {
	c := feed.NewCorpus(time.Hour)
	last := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	c.Restore(last, last.Add(time.Hour))
	c.Seed(sample[:1])

	s := c.Stats()
	if s.Total != 1 || s.LastUpdate == nil || !s.LastUpdate.Equal(last) {
		t.Errorf("Stats = %+v", s)
	}
}

func TestCorpus_JobsIsACopy(t *testing.T) {
	c := feed.NewCorpus(time.Hour)
	c.Seed(sample)
	jobs := c.Jobs()
	jobs[0].Title = "mutated"
	if got, _ := c.Get(sample[0].IdentityKey); got.Title != sample[0].Title {
		t.Error("mutating Jobs() result changed the corpus")
	}
}

// ── Handler ────────────────────────────────────────────────────────────────

func newServer(t *testing.T) *http.ServeMux {
	t.Helper()
	c := feed.NewCorpus(6 * time.Hour)
	c.Replace(sample, time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC))
	mux := http.NewServeMux()
	feed.NewHandler(c).RegisterRoutes(mux)
	return mux
}

func get(t *testing.T, mux *http.ServeMux, target string) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, target, nil))
	return rec
}

func TestHandler_ListJobs(t *testing.T) {
	rec := get(t, newServer(t), "/jobs?country=Japan&sort=title_asc")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body)
	}
	var jobs []model.Job
	if err := json.NewDecoder(rec.Body).Decode(&jobs); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got := titles(jobs); !sameOrder(got, []string{"Dean", "École Librarian"}) {
		t.Errorf("titles = %v", got)
	}
}

func TestHandler_ListJobsBadSort(t *testing.T) {
	rec := get(t, newServer(t), "/jobs?sort=sideways")
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
	var body map[string]string
	json.NewDecoder(rec.Body).Decode(&body)
	if body["error"] == "" {
		t.Error("error body missing")
	}
}

func TestHandler_GetJob(t *testing.T) {
	mux := newServer(t)

	rec := get(t, mux, "/jobs/"+url.PathEscape("https://x.com/2"))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body)
	}
	var j model.Job
	json.NewDecoder(rec.Body).Decode(&j)
	if j.Title != "Dean" {
		t.Errorf("Title = %q, want Dean", j.Title)
	}

	if rec := get(t, mux, "/jobs/"+url.PathEscape("https://x.com/404")); rec.Code != http.StatusNotFound {
		t.Errorf("unknown key status = %d, want 404", rec.Code)
	}
}

func TestHandler_MethodNotAllowed(t *testing.T) {
	mux := newServer(t)
	for _, path := range []string{"/jobs", "/taxonomy", "/stats"} {
		rec := httptest.NewRecorder()
		mux.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, path, nil))
		if rec.Code != http.StatusMethodNotAllowed {
			t.Errorf("POST %s status = %d, want 405", path, rec.Code)
		}
	}
}

func TestHandler_TaxonomyAndStats(t *testing.T) {
	mux := newServer(t)

	var view feed.TaxonomyView
	json.NewDecoder(get(t, mux, "/taxonomy").Body).Decode(&view)
	if !sameOrder(view.ExtraCountries, []string{"Atlantis"}) {
		t.Errorf("extraCountries = %v", view.ExtraCountries)
	}

	var stats feed.Stats
	json.NewDecoder(get(t, mux, "/stats").Body).Decode(&stats)
	if stats.Total != len(sample) || stats.NextUpdate == nil {
		t.Errorf("stats = %+v", stats)
	}
}
