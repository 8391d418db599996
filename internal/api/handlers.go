package api

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/spatialbench/spatialbench-go/internal/config"
	"github.com/spatialbench/spatialbench-go/internal/report"
	"github.com/spatialbench/spatialbench-go/internal/results"
)

// Handler contains all HTTP handlers.
type Handler struct {
	config  *config.Config
	archive *results.Store
}

// NewHandler creates a new handler.
func NewHandler(cfg *config.Config, archive *results.Store) *Handler {
	return &Handler{config: cfg, archive: archive}
}

// HealthCheck handles health check requests.
func (h *Handler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{
		"status":  "healthy",
		"service": "spatialbench",
	})
}

// ListResults returns every suite found in the results directory, keyed
// by engine.
func (h *Handler) ListResults(w http.ResponseWriter, r *http.Request) {
	suites, err := report.LoadDir(h.config.Server.ResultsDir)
	if err != nil {
		h.errorResponse(w, "failed to load results", http.StatusInternalServerError)
		return
	}
	h.jsonResponse(w, suites)
}

// GetEngineResults returns the suite for one engine.
func (h *Handler) GetEngineResults(w http.ResponseWriter, r *http.Request) {
	engine := chi.URLParam(r, "engine")

	suites, err := report.LoadDir(h.config.Server.ResultsDir)
	if err != nil {
		h.errorResponse(w, "failed to load results", http.StatusInternalServerError)
		return
	}
	suite, ok := suites[engine]
	if !ok {
		h.errorResponse(w, "no results for engine "+engine, http.StatusNotFound)
		return
	}
	h.jsonResponse(w, suite)
}

// GetSummary renders the markdown comparison report over the results
// directory.
func (h *Handler) GetSummary(w http.ResponseWriter, r *http.Request) {
	suites, err := report.LoadDir(h.config.Server.ResultsDir)
	if err != nil {
		h.errorResponse(w, "failed to load results", http.StatusInternalServerError)
		return
	}

	md := report.Markdown(suites, h.config.Benchmark.Timeout, h.config.Benchmark.Runs)
	w.Header().Set("Content-Type", "text/markdown; charset=utf-8")
	w.Write([]byte(md))
}

// ListRuns returns archived runs from MongoDB, newest first.
func (h *Handler) ListRuns(w http.ResponseWriter, r *http.Request) {
	if h.archive == nil {
		h.errorResponse(w, "run archive not configured", http.StatusNotFound)
		return
	}

	limit := int64(20)
	if s := r.URL.Query().Get("limit"); s != "" {
		if n, err := strconv.ParseInt(s, 10, 64); err == nil && n > 0 {
			limit = n
		}
	}

	runs, err := h.archive.List(r.Context(), limit)
	if err != nil {
		h.errorResponse(w, "failed to list runs", http.StatusInternalServerError)
		return
	}
	h.jsonResponse(w, runs)
}

// GetRun returns one archived run by ID.
func (h *Handler) GetRun(w http.ResponseWriter, r *http.Request) {
	if h.archive == nil {
		h.errorResponse(w, "run archive not configured", http.StatusNotFound)
		return
	}

	run, err := h.archive.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.errorResponse(w, "failed to get run", http.StatusInternalServerError)
		return
	}
	if run == nil {
		h.errorResponse(w, "run not found", http.StatusNotFound)
		return
	}
	h.jsonResponse(w, run)
}

func (h *Handler) jsonResponse(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(v)
}

func (h *Handler) errorResponse(w http.ResponseWriter, message string, status int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{
		"error": message,
	})
}
