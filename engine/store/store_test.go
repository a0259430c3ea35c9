package store

import (
	"context"
	"errors"
	"testing"

	"github.com/EmersonEIMS/generator-oracle/engine/domain"
)

func testRecords() []domain.FaultCodeRecord {
	return []domain.FaultCodeRecord{
		{ID: "a", Code: "E1001", Brand: "Cummins", Title: "Low Oil Pressure",
			Description: "Oil pressure below threshold", Category: "Lubrication",
			Severity: domain.SeverityWarning},
		{ID: "b", Code: "E1003", Brand: "Cummins", Title: "High Coolant Temperature",
			Description: "Coolant over limit", Category: "Cooling System",
			Severity: domain.SeverityCritical},
		{ID: "c", Code: "F101", Brand: "SmartGen", Title: "Fuel Level Low",
			Description: "Tank below warning threshold", Category: "Fuel System",
			Severity: domain.SeverityWarning},
	}
}

func mustSnapshot(t *testing.T, records []domain.FaultCodeRecord) *Snapshot {
	t.Helper()
	snap, err := BuildSnapshot(records)
	if err != nil {
		t.Fatalf("BuildSnapshot: %v", err)
	}
	return snap
}

func TestBuildSnapshot_RejectsDuplicates(t *testing.T) {
	records := testRecords()
	dup := records[0]
	dup.ID = "dup"
	dup.Code = "e 1001" // same code after normalization
	_, err := BuildSnapshot(append(records, dup))
	if !errors.Is(err, domain.ErrDuplicateRecord) {
		t.Errorf("expected ErrDuplicateRecord, got %v", err)
	}
}

func TestBuildSnapshot_RejectsInvalid(t *testing.T) {
	records := testRecords()
	records[0].Title = ""
	if _, err := BuildSnapshot(records); !errors.Is(err, domain.ErrMissingTitle) {
		t.Errorf("expected ErrMissingTitle, got %v", err)
	}
}

func TestGetExactCode_CaseAndWhitespace(t *testing.T) {
	snap := mustSnapshot(t, testRecords())
	for _, q := range []string{"E1001", "e1001", "  e 1001  "} {
		rec, ok := snap.GetExactCode(q)
		if !ok || rec.ID != "a" {
			t.Errorf("GetExactCode(%q) = (%v, %v), want record a", q, rec.ID, ok)
		}
	}
	if _, ok := snap.GetExactCode("NOPE99"); ok {
		t.Error("expected not found for unknown code")
	}
}

func TestGetExactCode_BrandTieBreak(t *testing.T) {
	records := testRecords()
	records = append(records, domain.FaultCodeRecord{
		ID: "z", Code: "E1001", Brand: "Aggreko", Title: "Shared Code",
		Severity: domain.SeverityInfo,
	})
	snap := mustSnapshot(t, records)
	rec, ok := snap.GetExactCode("E1001")
	if !ok || rec.Brand != "Aggreko" {
		t.Errorf("shared code resolved to %q, want brand ascending (Aggreko)", rec.Brand)
	}
}

func TestSearch_Ranking(t *testing.T) {
	snap := mustSnapshot(t, testRecords())

	results := snap.Search("E1001", 0)
	if len(results) == 0 || results[0].Confidence != ConfidenceExact || results[0].Record.ID != "a" {
		t.Fatalf("exact code search = %+v, want record a at confidence 100", results)
	}

	results = snap.Search("E10", 0)
	if len(results) != 2 {
		t.Fatalf("prefix search returned %d results, want 2", len(results))
	}
	for _, r := range results {
		if r.Confidence != ConfidencePrefix {
			t.Errorf("prefix confidence = %d, want %d", r.Confidence, ConfidencePrefix)
		}
	}
	// Ties break by code ascending.
	if results[0].Record.Code != "E1001" || results[1].Record.Code != "E1003" {
		t.Errorf("tie order = %s, %s; want E1001, E1003", results[0].Record.Code, results[1].Record.Code)
	}

	results = snap.Search("coolant temperature", 0)
	if len(results) == 0 || results[0].Record.ID != "b" {
		t.Fatalf("keyword search top = %+v, want record b", results)
	}
	if got := results[0].Confidence; got < keywordFloor || got > keywordFloor+keywordSpan {
		t.Errorf("keyword confidence = %d, want within [%d,%d]", got, keywordFloor, keywordFloor+keywordSpan)
	}

	results = snap.Search("Lubrication", 0)
	found := false
	for _, r := range results {
		if r.Record.ID == "a" && r.Confidence >= ConfidenceCategory {
			found = true
		}
	}
	if !found {
		t.Errorf("category search missing record a: %+v", results)
	}
}

func TestSearch_LimitAndEmpty(t *testing.T) {
	snap := mustSnapshot(t, testRecords())
	if got := snap.Search("   ", 0); got != nil {
		t.Errorf("blank query = %+v, want nil", got)
	}
	if got := snap.Search("E10", 1); len(got) != 1 {
		t.Errorf("limit 1 returned %d results", len(got))
	}
}

func TestStore_ReloadSwapsSnapshot(t *testing.T) {
	st := New(mustSnapshot(t, testRecords()), nil)
	if st.Snapshot().Len() != 3 {
		t.Fatalf("initial len = %d, want 3", st.Snapshot().Len())
	}

	bigger := append(testRecords(), domain.FaultCodeRecord{
		ID: "d", Code: "V101", Brand: "CAT PowerWizard", Title: "Under Voltage",
		Severity: domain.SeverityWarning,
	})
	if err := st.Reload(context.Background(), StaticSource(bigger)); err != nil {
		t.Fatalf("Reload: %v", err)
	}
	if st.Snapshot().Len() != 4 {
		t.Errorf("post-reload len = %d, want 4", st.Snapshot().Len())
	}
}

func TestStore_ReloadKeepsOldSnapshotOnFailure(t *testing.T) {
	st := New(mustSnapshot(t, testRecords()), nil)
	bad := testRecords()
	bad[0].Brand = ""
	if err := st.Reload(context.Background(), StaticSource(bad)); err == nil {
		t.Fatal("expected reload error for invalid corpus")
	}
	if st.Snapshot().Len() != 3 {
		t.Errorf("snapshot changed after failed reload, len = %d", st.Snapshot().Len())
	}
}

func TestSeedRecords_BuildCleanly(t *testing.T) {
	snap := mustSnapshot(t, SeedRecords())
	if snap.Len() == 0 {
		t.Fatal("seed corpus is empty")
	}
	if _, ok := snap.GetExactCode("E1001"); !ok {
		t.Error("seed corpus missing E1001")
	}
}
