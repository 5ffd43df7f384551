package feed

import (
	"encoding/json"
	"net/http"
	"net/url"
	"strings"
)

// Handler serves the corpus as JSON.
//
// Routes:
//
//	GET /jobs?q=&country=&category=&sort=  → filtered listing
//	GET /jobs/{identity key, URL-escaped}  → single record
//	GET /taxonomy                          → curated groups plus extras
//	GET /stats                             → count and refresh stamps
type Handler struct {
	corpus *Corpus
}

// NewHandler returns a Handler reading from corpus.
func NewHandler(corpus *Corpus) *Handler {
	return &Handler{corpus: corpus}
}

// RegisterRoutes mounts the feed routes on mux.
func (h *Handler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("/jobs", h.handleJobs)
	mux.HandleFunc("/jobs/", h.handleJob)
	mux.HandleFunc("/taxonomy", h.handleTaxonomy)
	mux.HandleFunc("/stats", h.handleStats)
}

func (h *Handler) handleJobs(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		jsonError(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	params := r.URL.Query()
	sortBy, err := ParseSort(params.Get("sort"))
	if err != nil {
		jsonError(w, err.Error(), http.StatusBadRequest)
		return
	}

	jobs := Filter(h.corpus.Jobs(), Query{
		Q:        params.Get("q"),
		Country:  params.Get("country"),
		Category: params.Get("category"),
		Sort:     sortBy,
	})
	jsonOK(w, jobs)
}

// handleJob handles GET /jobs/{key}. Keys are usually URLs, so the raw
// escaped path is used to keep %2F intact until the key is unescaped.
func (h *Handler) handleJob(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		jsonError(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	escaped := strings.TrimPrefix(r.URL.EscapedPath(), "/jobs/")
	key, err := url.PathUnescape(escaped)
	if err != nil || strings.TrimSpace(key) == "" {
		jsonError(w, "invalid job key", http.StatusBadRequest)
		return
	}

	job, ok := h.corpus.Get(key)
	if !ok {
		jsonError(w, "job not found", http.StatusNotFound)
		return
	}
	jsonOK(w, job)
}

func (h *Handler) handleTaxonomy(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		jsonError(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	jsonOK(w, Taxonomy(h.corpus.Jobs()))
}

func (h *Handler) handleStats(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		jsonError(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	jsonOK(w, h.corpus.Stats())
}

func jsonOK(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(v)
}

func jsonError(w http.ResponseWriter, msg string, code int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(map[string]string{"error": msg})
}
