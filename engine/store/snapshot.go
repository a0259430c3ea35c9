// Package store holds the authoritative in-memory fault-code corpus as an
// immutable snapshot and provides exact, prefix, and keyword lookups.
// Snapshots are rebuilt and swapped whole, never mutated in place, so readers
// need no locks.
package store

import (
	"fmt"
	"sort"
	"strings"

	"github.com/EmersonEIMS/generator-oracle/engine/domain"
)

// Snapshot is a fully built, read-only view of the corpus.
type Snapshot struct {
	records []domain.FaultCodeRecord
	byCode  map[string][]int // normalized code -> record indices, brand ascending
	byKey   map[string]int   // (brand, code) key -> record index
}

// BuildSnapshot validates and indexes records. Duplicate (code, brand) pairs
// are a corpus-authoring bug and fail the build.
func BuildSnapshot(records []domain.FaultCodeRecord) (*Snapshot, error) {
	s := &Snapshot{
		records: make([]domain.FaultCodeRecord, 0, len(records)),
		byCode:  make(map[string][]int, len(records)),
		byKey:   make(map[string]int, len(records)),
	}

	for _, r := range records {
		if err := domain.ValidateRecord(r); err != nil {
			return nil, fmt.Errorf("store: record %s/%s: %w", r.Brand, r.Code, err)
		}
		key := r.Key()
		if _, ok := s.byKey[key]; ok {
			return nil, fmt.Errorf("store: %s: %w", key, domain.ErrDuplicateRecord)
		}
		r.Code = domain.NormalizeCode(r.Code)
		idx := len(s.records)
		s.records = append(s.records, r)
		s.byKey[key] = idx
		s.byCode[r.Code] = append(s.byCode[r.Code], idx)
	}

	// A code shared by several brands resolves deterministically: brand ascending.
	for code, idxs := range s.byCode {
		sort.Slice(idxs, func(i, j int) bool {
			return s.records[idxs[i]].Brand < s.records[idxs[j]].Brand
		})
		s.byCode[code] = idxs
	}

	return s, nil
}

// Len returns the number of records in the snapshot.
func (s *Snapshot) Len() int { return len(s.records) }

// Records returns the snapshot's records. Callers must not mutate.
func (s *Snapshot) Records() []domain.FaultCodeRecord { return s.records }

// GetExactCode looks up a record by code, case- and whitespace-insensitive.
func (s *Snapshot) GetExactCode(code string) (domain.FaultCodeRecord, bool) {
	idxs, ok := s.byCode[domain.NormalizeCode(code)]
	if !ok || len(idxs) == 0 {
		return domain.FaultCodeRecord{}, false
	}
	return s.records[idxs[0]], true
}

// GetByBrand looks up a record by its exact (brand, code) identity.
func (s *Snapshot) GetByBrand(brand, code string) (domain.FaultCodeRecord, bool) {
	key := strings.ToUpper(strings.TrimSpace(brand)) + "|" + domain.NormalizeCode(code)
	idx, ok := s.byKey[key]
	if !ok {
		return domain.FaultCodeRecord{}, false
	}
	return s.records[idx], true
}
