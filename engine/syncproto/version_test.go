package syncproto

import (
	"testing"

	"github.com/EmersonEIMS/generator-oracle/engine/domain"
)

func TestCompareVersions_NumericOrdering(t *testing.T) {
	cases := []struct {
		a, b string
		want int
	}{
		{"1.10.0", "1.9.0", 1},
		{"2.0.0", "1.99.99", 1},
		{"1.0.0", "1.0.0", 0},
		{"1.0.1", "1.0.2", -1},
		{"v1.2.0", "1.2.0", 0},
		{"garbage", "0.0.0", 0}, // unparseable degrades to zero
	}
	for _, c := range cases {
		if got := CompareVersions(c.a, c.b); got != c.want {
			t.Errorf("CompareVersions(%q, %q) = %d, want %d", c.a, c.b, got, c.want)
		}
	}
}

func TestIsNewerVersion(t *testing.T) {
	if !IsNewerVersion("1.10.0", "1.9.0") {
		t.Error("1.10.0 should be newer than 1.9.0")
	}
	if IsNewerVersion("1.0.0", "1.0.0") {
		t.Error("equal versions are not newer")
	}
	if IsNewerVersion("0.9.0", "1.0.0") {
		t.Error("0.9.0 is not newer than 1.0.0")
	}
}

func TestIncrementVersion(t *testing.T) {
	cases := []struct {
		version, part, want string
	}{
		{"1.2.3", "patch", "1.2.4"},
		{"1.2.3", "minor", "1.3.0"},
		{"1.2.3", "major", "2.0.0"},
		{"1.2.3", "bogus", "1.2.4"},
		{"", "patch", "0.0.1"},
	}
	for _, c := range cases {
		if got := IncrementVersion(c.version, c.part); got != c.want {
			t.Errorf("IncrementVersion(%q, %q) = %q, want %q", c.version, c.part, got, c.want)
		}
	}
}

func TestChecksum_StableAndOrderIndependent(t *testing.T) {
	records := []domain.FaultCodeRecord{
		{ID: "a", Code: "E1001"},
		{ID: "b", Code: "E1003"},
	}
	reversed := []domain.FaultCodeRecord{records[1], records[0]}

	if CorpusChecksum(records) != CorpusChecksum(reversed) {
		t.Error("corpus checksum should not depend on record order")
	}
	if CorpusChecksum(records) == CorpusChecksum(records[:1]) {
		t.Error("different corpora should not collide on the happy path")
	}
	if len(CorpusChecksum(records)) != 8 {
		t.Errorf("checksum %q is not eight hex digits", CorpusChecksum(records))
	}
}

func TestRecordChecksum_IgnoresUpdatedAt(t *testing.T) {
	a := domain.FaultCodeRecord{ID: "a", Code: "E1001", Title: "Low Oil Pressure"}
	b := a
	b.UpdatedAt = b.UpdatedAt.AddDate(0, 0, 1)
	if RecordChecksum(a) != RecordChecksum(b) {
		t.Error("timestamp-only change should not alter the checksum")
	}
	b.Title = "Changed"
	if RecordChecksum(a) == RecordChecksum(b) {
		t.Error("content change should alter the checksum")
	}
}

func TestCalculateDelta(t *testing.T) {
	oldSet := map[string]string{"a": "1", "b": "2", "c": "3"}
	newSet := map[string]string{"b": "2", "c": "9", "d": "4"}

	d := CalculateDelta(oldSet, newSet)
	if len(d.Added) != 1 || d.Added[0] != "d" {
		t.Errorf("added = %v, want [d]", d.Added)
	}
	if len(d.Updated) != 1 || d.Updated[0] != "c" {
		t.Errorf("updated = %v, want [c]", d.Updated)
	}
	if len(d.Removed) != 1 || d.Removed[0] != "a" {
		t.Errorf("removed = %v, want [a]", d.Removed)
	}
	if d.Count() != 3 || d.IsEmpty() {
		t.Errorf("count = %d, empty = %v", d.Count(), d.IsEmpty())
	}

	same := CalculateDelta(oldSet, oldSet)
	if !same.IsEmpty() {
		t.Errorf("identical sets gave delta %+v", same)
	}
}
