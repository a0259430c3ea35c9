package main

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/EmersonEIMS/generator-oracle/engine/correlate"
	"github.com/EmersonEIMS/generator-oracle/engine/diagnose"
	"github.com/EmersonEIMS/generator-oracle/engine/severity"
	"github.com/EmersonEIMS/generator-oracle/engine/store"
	"github.com/EmersonEIMS/generator-oracle/engine/syncproto"
	"github.com/EmersonEIMS/generator-oracle/pkg/metrics"
)

type apiServer struct {
	store        *store.Store
	analyzer     *diagnose.Analyzer
	sync         *syncproto.Service
	correlations *correlator
	metrics      *metrics.Registry
	logger       *slog.Logger
}

// correlator lazily rebuilds the correlation index whenever the corpus
// snapshot changes, so NATS-triggered reloads refresh correlations too.
type correlator struct {
	store *store.Store
	extra map[string][]correlate.Entry

	mu   sync.Mutex
	snap *store.Snapshot
	idx  *correlate.Index
}

func newCorrelator(st *store.Store, extra map[string][]correlate.Entry) *correlator {
	return &correlator{store: st, extra: extra}
}

func (c *correlator) Correlated(code string) []correlate.Entry {
	snap := c.store.Snapshot()
	c.mu.Lock()
	if snap != c.snap {
		c.idx = correlate.BuildIndex(snap.Records(), c.extra)
		c.snap = snap
	}
	idx := c.idx
	c.mu.Unlock()
	return idx.Correlated(code)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]any{"success": false, "error": msg})
}

func (s *apiServer) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":  "ok",
		"records": s.store.Snapshot().Len(),
	})
}

// GET /api/oracle/lookup?code=E1001
func (s *apiServer) handleLookup(w http.ResponseWriter, r *http.Request) {
	code := r.URL.Query().Get("code")
	if code == "" {
		writeError(w, http.StatusBadRequest, "code parameter is required")
		return
	}
	s.metrics.Counter("oracle_lookups_total", "Fault code lookups").Inc()

	rec, found := s.store.GetExactCode(code)
	resp := map[string]any{"success": true, "found": found}
	if found {
		resp["record"] = rec
	}
	writeJSON(w, http.StatusOK, resp)
}

// GET /api/oracle/search?q=oil+pressure&limit=10
func (s *apiServer) handleSearch(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("q")
	if query == "" {
		writeError(w, http.StatusBadRequest, "q parameter is required")
		return
	}
	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			writeError(w, http.StatusBadRequest, "limit must be a non-negative integer")
			return
		}
		limit = n
	}
	s.metrics.Counter("oracle_searches_total", "Fault code searches").Inc()

	results := s.store.Search(query, limit)
	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"results": results,
		"count":   len(results),
	})
}

// AnalyzeRequest is the JSON body for POST /api/oracle/analyze.
type AnalyzeRequest struct {
	Query string `json:"query"`
}

func (s *apiServer) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	var req AnalyzeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	start := time.Now()
	analysis := s.analyzer.Analyze(r.Context(), req.Query)
	s.metrics.Counter("oracle_diagnoses_total", "Symptom analyses").Inc()
	s.metrics.Histogram("oracle_diagnose_seconds", "Symptom analysis latency", nil).Since(start)

	writeJSON(w, http.StatusOK, map[string]any{
		"success":    true,
		"analysis":   analysis,
		"confidence": analysis.Confidence,
	})
}

// SeverityRequest is the JSON body for POST /api/oracle/severity. Either a
// fault code (scored from its record) or a raw base score may be given.
// Every conditions field is individually optional; omitted ones keep their
// nominal defaults.
type SeverityRequest struct {
	Code       string               `json:"code,omitempty"`
	Base       *float64             `json:"base,omitempty"`
	Conditions *severity.Conditions `json:"conditions,omitempty"`
}

func (s *apiServer) handleSeverity(w http.ResponseWriter, r *http.Request) {
	// Pre-seeding the conditions lets a partial object override only the
	// fields it names.
	defaults := severity.DefaultConditions()
	req := SeverityRequest{Conditions: &defaults}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	cond := severity.DefaultConditions()
	if req.Conditions != nil {
		cond = *req.Conditions
	}

	var result severity.Result
	switch {
	case req.Code != "":
		rec, found := s.store.GetExactCode(req.Code)
		if !found {
			writeJSON(w, http.StatusOK, map[string]any{"success": true, "found": false})
			return
		}
		result = severity.ScoreRecord(rec, cond)
	case req.Base != nil:
		result = severity.Score(*req.Base, cond)
	default:
		writeError(w, http.StatusBadRequest, "either code or base is required")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"found":   true,
		"score":   result,
	})
}

// GET /api/oracle/correlate?code=E1001
func (s *apiServer) handleCorrelate(w http.ResponseWriter, r *http.Request) {
	code := r.URL.Query().Get("code")
	if code == "" {
		writeError(w, http.StatusBadRequest, "code parameter is required")
		return
	}

	entries := s.correlations.Correlated(code)
	if entries == nil {
		entries = []correlate.Entry{}
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"success":      true,
		"code":         code,
		"correlations": entries,
	})
}

// GET /api/oracle/sync?version=1.0.0
func (s *apiServer) handleSyncCheck(w http.ResponseWriter, r *http.Request) {
	result := s.sync.Check(r.Context(), r.URL.Query().Get("version"))
	writeJSON(w, http.StatusOK, result)
}

// SyncDownloadRequest is the JSON body for POST /api/oracle/sync.
type SyncDownloadRequest struct {
	FromVersion string `json:"fromVersion"`
	ToVersion   string `json:"toVersion"`
}

func (s *apiServer) handleSyncDownload(w http.ResponseWriter, r *http.Request) {
	var req SyncDownloadRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	result := s.sync.Download(r.Context(), req.FromVersion, req.ToVersion)
	s.metrics.Counter("oracle_sync_downloads_total", "Sync downloads served").Inc()
	writeJSON(w, http.StatusOK, result)
}
