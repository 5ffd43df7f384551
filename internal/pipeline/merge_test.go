package pipeline_test

import (
	"sort"
	"testing"
	"time"

	"edujobs/aggregator/internal/model"
	"edujobs/aggregator/internal/pipeline"
)

func dated(key, title, day string) model.Job {
	j := model.Job{IdentityKey: key, Title: title, OriginalURL: key, ApplyURL: key}
	if day != "" {
		d, err := time.Parse("2006-01-02", day)
		if err != nil {
			panic(err)
		}
		j.PostingDate = &d
	}
	return j
}

func keys(jobs []model.Job) []string {
	out := make([]string, 0, len(jobs))
	for _, j := range jobs {
		out = append(out, j.IdentityKey)
	}
	return out
}

func keySet(jobs []model.Job) map[string]bool {
	m := make(map[string]bool, len(jobs))
	for _, j := range jobs {
		m[j.IdentityKey] = true
	}
	return m
}

func sameSet(a, b map[string]bool) bool {
	if len(a) != len(b) {
		return false
	}
	for k := range a {
		if !b[k] {
			return false
		}
	}
	return true
}

func TestMerge_ExistingWins(t *testing.T) {
	existing := []model.Job{dated("k1", "Original", "2024-01-01")}
	incoming := []model.Job{dated("k1", "Changed", "2024-06-01")}

	got := pipeline.Merge(existing, incoming)
	if len(got) != 1 {
		t.Fatalf("len(Merge) = %d, want 1", len(got))
	}
	if got[0].Title != "Original" {
		t.Errorf("Title = %q, want the existing record", got[0].Title)
	}
}

func TestMerge_Idempotent(t *testing.T) {
	corpus := []model.Job{dated("a", "A", "2024-01-01"), dated("b", "B", "")}
	batch := []model.Job{dated("b", "B2", "2024-02-01"), dated("c", "C", "2024-03-01"), dated("", "no key", "2024-04-01")}

	once := pipeline.Merge(corpus, batch)
	twice := pipeline.Merge(once, batch)

	if !sameSet(keySet(once), keySet(twice)) {
		t.Errorf("keys after second merge %v, want %v", keys(twice), keys(once))
	}
	for i := range once {
		if once[i].IdentityKey != twice[i].IdentityKey || once[i].Title != twice[i].Title {
			t.Errorf("position %d changed: %+v vs %+v", i, once[i], twice[i])
		}
	}
}

func TestMerge_UnionOfKeys(t *testing.T) {
	corpus := []model.Job{dated("a", "A", "2024-01-01"), dated("b", "B", "2024-01-02")}
	batch := []model.Job{dated("c", "C", "2023-12-01"), dated("a", "A2", ""), dated("", "dropped", "2025-01-01"), dated("  ", "blank", "")}

	got := keySet(pipeline.Merge(corpus, batch))
	want := map[string]bool{"a": true, "b": true, "c": true}
	if !sameSet(got, want) {
		t.Errorf("keys = %v, want a, b, c", got)
	}
}

func TestMerge_IncomingOrderDoesNotChangeMembership(t *testing.T) {
	corpus := []model.Job{dated("a", "A", "2024-01-01")}
	batch := []model.Job{dated("b", "B", "2024-01-03"), dated("c", "C", "2024-01-02"), dated("d", "D", "")}
	reversed := []model.Job{batch[2], batch[1], batch[0]}

	if !sameSet(keySet(pipeline.Merge(corpus, batch)), keySet(pipeline.Merge(corpus, reversed))) {
		t.Error("membership depends on incoming order")
	}
}

func TestMerge_FirstIncomingDuplicateWins(t *testing.T) {
	got := pipeline.Merge(nil, []model.Job{dated("k", "first", "2024-01-01"), dated("k", "second", "2024-05-01")})
	if len(got) != 1 || got[0].Title != "first" {
		t.Errorf("Merge = %+v, want only the first record", got)
	}
}

func TestMerge_EmptyIncomingIsNoop(t *testing.T) {
	corpus := []model.Job{dated("b", "B", "2024-01-02"), dated("a", "A", "2024-01-01")}
	for _, incoming := range [][]model.Job{nil, {}} {
		got := pipeline.Merge(corpus, incoming)
		if len(got) != 2 || got[0].IdentityKey != "b" || got[1].IdentityKey != "a" {
			t.Errorf("Merge(corpus, %v) = %v", incoming, keys(got))
		}
	}
	if got := pipeline.Merge(nil, nil); len(got) != 0 {
		t.Errorf("Merge(nil, nil) = %v, want empty", keys(got))
	}
}

func TestMerge_SortsNewestFirstWithUndatedLast(t *testing.T) {
	got := pipeline.Merge(
		[]model.Job{dated("old", "", "2023-01-01"), dated("none1", "", "")},
		[]model.Job{dated("none2", "", ""), dated("new", "", "2024-09-09"), dated("mid", "", "2024-01-01")},
	)
	want := []string{"new", "mid", "old", "none1", "none2"}
	if g := keys(got); !equal(g, want) {
		t.Errorf("order = %v, want %v", g, want)
	}
}

func TestMerge_DoesNotMutateInputs(t *testing.T) {
	corpus := []model.Job{dated("a", "A", "2023-01-01"), dated("b", "B", "2024-01-01")}
	before := keys(corpus)
	pipeline.Merge(corpus, []model.Job{dated("c", "C", "2025-01-01")})
	if after := keys(corpus); !equal(before, after) {
		t.Errorf("existing corpus reordered: %v -> %v", before, after)
	}
}

func TestAdded(t *testing.T) {
	existing := []model.Job{dated("a", "A", "")}
	merged := pipeline.Merge(existing, []model.Job{dated("b", "B", ""), dated("a", "A2", "")})
	added := keys(pipeline.Added(existing, merged))
	sort.Strings(added)
	if !equal(added, []string{"b"}) {
		t.Errorf("Added = %v, want [b]", added)
	}
}

// Local snapshot first, then the live batch, as one refresh cycle does.
func TestNormalizeThenMerge_EndToEnd(t *testing.T) {
	local := pipeline.NormalizeBatch([]model.RawJob{
		{"title": "Teacher", "original_url": "https://x.com/1", "posting_date": "2024-01-01"},
	})
	live := pipeline.NormalizeBatch([]model.RawJob{
		{"title": "Teacher", "apply_url": "https://x.com/1", "posting_date": "2024-06-01"},
		{"title": "Dean", "original_url": "https://x.com/2", "posting_date": "2024-05-01"},
	})

	corpus := pipeline.Merge(pipeline.Merge(nil, local), live)

	if len(corpus) != 2 {
		t.Fatalf("len(corpus) = %d, want 2", len(corpus))
	}
	if corpus[0].Title != "Dean" || corpus[1].Title != "Teacher" {
		t.Fatalf("order = [%s, %s], want [Dean, Teacher]", corpus[0].Title, corpus[1].Title)
	}
	wantTeacher := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	if !corpus[1].PostingDate.Equal(wantTeacher) {
		t.Errorf("Teacher posting date = %v, want %v (local copy kept)", corpus[1].PostingDate, wantTeacher)
	}
	if corpus[0].Category != "Senior Management" {
		t.Errorf("Dean category = %q, want Senior Management", corpus[0].Category)
	}
}

func equal(a, b []string) bool {
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
