package main

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"math"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/EmersonEIMS/generator-oracle/engine/diagnose"
	"github.com/EmersonEIMS/generator-oracle/engine/severity"
	"github.com/EmersonEIMS/generator-oracle/engine/store"
	"github.com/EmersonEIMS/generator-oracle/engine/syncproto"
	"github.com/EmersonEIMS/generator-oracle/pkg/metrics"
)

func testServer(t *testing.T) *apiServer {
	t.Helper()
	snap, err := store.BuildSnapshot(store.SeedRecords())
	if err != nil {
		t.Fatalf("BuildSnapshot: %v", err)
	}
	st := store.New(snap, slog.Default())
	return &apiServer{
		store:        st,
		analyzer:     diagnose.NewAnalyzer(st, nil),
		sync:         syncproto.NewService(nil, st, nil),
		correlations: newCorrelator(st, nil),
		metrics:      metrics.New(),
		logger:       slog.Default(),
	}
}

func postSeverity(t *testing.T, s *apiServer, body string) severityResponse {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/api/oracle/severity", bytes.NewBufferString(body))
	rec := httptest.NewRecorder()
	s.handleSeverity(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}
	var resp severityResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	return resp
}

type severityResponse struct {
	Success bool            `json:"success"`
	Found   bool            `json:"found"`
	Score   severity.Result `json:"score"`
}

func TestHandleSeverity_PartialConditionsKeepDefaults(t *testing.T) {
	s := testServer(t)

	// Only the load is given; ambient temperature and the rest must keep
	// their nominal defaults instead of scoring as zero.
	resp := postSeverity(t, s, `{"code":"E1001","conditions":{"loadPercentage":95}}`)
	if !resp.Found {
		t.Fatal("E1001 should be found in the seed corpus")
	}
	// Warning base 5 plus the load penalty (95-85)*0.04; no cold penalty.
	if math.Abs(resp.Score.Adjusted-5.4) > 1e-9 {
		t.Errorf("adjusted = %g, want 5.4 with omitted fields defaulted", resp.Score.Adjusted)
	}
}

func TestHandleSeverity_NoConditions(t *testing.T) {
	s := testServer(t)
	resp := postSeverity(t, s, `{"code":"E1001"}`)
	if !resp.Found {
		t.Fatal("E1001 should be found in the seed corpus")
	}
	if resp.Score.Adjusted != resp.Score.Raw {
		t.Errorf("adjusted = %g raw = %g, want no penalty under nominal defaults",
			resp.Score.Adjusted, resp.Score.Raw)
	}
}

func TestHandleSeverity_RequiresCodeOrBase(t *testing.T) {
	s := testServer(t)
	req := httptest.NewRequest(http.MethodPost, "/api/oracle/severity", bytes.NewBufferString(`{}`))
	rec := httptest.NewRecorder()
	s.handleSeverity(rec, req)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400 when neither code nor base is given", rec.Code)
	}
}
