package correlate

import (
	"testing"

	"github.com/EmersonEIMS/generator-oracle/engine/domain"
)

func corpus() []domain.FaultCodeRecord {
	return []domain.FaultCodeRecord{
		{ID: "a", Code: "E1001", Brand: "Cummins", Category: "Lubrication",
			Title: "Low Oil Pressure", Severity: domain.SeverityWarning,
			Symptoms:     []string{"oil warning light", "engine shutdown"},
			RelatedCodes: []string{"DS-7320-101", "F101"}},
		{ID: "b", Code: "DS-7320-101", Brand: "DeepSea", Category: "Lubrication",
			Title: "Oil Pressure Shutdown", Severity: domain.SeverityCritical,
			Symptoms: []string{"engine shutdown", "oil pressure alarm"}},
		{ID: "c", Code: "F101", Brand: "SmartGen", Category: "Fuel System",
			Title: "Fuel Level Low", Severity: domain.SeverityWarning},
	}
}

func TestBuildIndex_RelatedCodes(t *testing.T) {
	idx := BuildIndex(corpus(), nil)

	entries := idx.Correlated("E1001")
	if len(entries) != 2 {
		t.Fatalf("E1001 correlations = %d, want 2", len(entries))
	}
	// Same category sorts first (75 over 50).
	if entries[0].Code != "DS-7320-101" || entries[0].Similarity != 75 {
		t.Errorf("top entry = %+v, want DS-7320-101 at 75", entries[0])
	}
	if entries[1].Code != "F101" || entries[1].Similarity != 50 {
		t.Errorf("second entry = %+v, want F101 at 50", entries[1])
	}
	if len(entries[0].CommonSymptoms) != 1 || entries[0].CommonSymptoms[0] != "engine shutdown" {
		t.Errorf("common symptoms = %v, want [engine shutdown]", entries[0].CommonSymptoms)
	}
}

func TestBuildIndex_Symmetric(t *testing.T) {
	idx := BuildIndex(corpus(), nil)
	entries := idx.Correlated("DS-7320-101")
	if len(entries) != 1 || entries[0].Code != "E1001" {
		t.Errorf("reverse correlation = %+v, want E1001", entries)
	}
}

func TestCorrelated_UnknownCode(t *testing.T) {
	idx := BuildIndex(corpus(), nil)
	if got := idx.Correlated("NOPE99"); len(got) != 0 {
		t.Errorf("unknown code = %+v, want empty", got)
	}
}

func TestCorrelated_NormalizesLookup(t *testing.T) {
	idx := BuildIndex(corpus(), nil)
	if got := idx.Correlated("  ds-7320-101 "); len(got) != 1 {
		t.Errorf("normalized lookup = %+v, want 1 entry", got)
	}
}

func TestGraphEdges(t *testing.T) {
	edges := GraphEdges(corpus())

	records := corpus()
	keyA, keyB, keyC := records[0].Key(), records[1].Key(), records[2].Key()

	if sim := edges[keyA][keyB]; sim != 75 {
		t.Errorf("E1001 to DS-7320-101 similarity = %d, want 75 (same category)", sim)
	}
	if sim := edges[keyA][keyC]; sim != 50 {
		t.Errorf("E1001 to F101 similarity = %d, want 50 (cross category)", sim)
	}
	// Edges are symmetric even when only one side lists the relation.
	if sim := edges[keyB][keyA]; sim != 75 {
		t.Errorf("reverse edge similarity = %d, want 75", sim)
	}
	if _, ok := edges[keyB][keyC]; ok {
		t.Error("unrelated records must not get an edge")
	}
}

func TestBuildIndex_MergesGraphEntries(t *testing.T) {
	extra := map[string][]Entry{
		"E1001": {
			{Brand: "Perkins", Code: "PERK-001", Similarity: 90, Description: "Oil Sensor Fault"},
			// Duplicate of a corpus-derived entry; must not double up.
			{Brand: "DeepSea", Code: "DS-7320-101", Similarity: 75},
		},
	}
	idx := BuildIndex(corpus(), extra)
	entries := idx.Correlated("E1001")
	if len(entries) != 3 {
		t.Fatalf("merged correlations = %d, want 3", len(entries))
	}
	if entries[0].Code != "PERK-001" || entries[0].Similarity != 90 {
		t.Errorf("top merged entry = %+v, want PERK-001 at 90", entries[0])
	}
}
