package store

import (
	"context"
	"fmt"
	"log/slog"
	"sync/atomic"

	"github.com/EmersonEIMS/generator-oracle/engine/domain"
)

// Source provides the full fault-code corpus. Implementations include the
// built-in seed corpus, normalized external databases, and sync downloads.
type Source interface {
	LoadAll(ctx context.Context) ([]domain.FaultCodeRecord, error)
}

// Store serves an immutable corpus snapshot. Reads are lock-free; Reload
// builds a complete new snapshot before making it visible.
type Store struct {
	snap   atomic.Pointer[Snapshot]
	logger *slog.Logger
}

// New creates a Store serving the given snapshot.
func New(snap *Snapshot, logger *slog.Logger) *Store {
	if logger == nil {
		logger = slog.Default()
	}
	s := &Store{logger: logger}
	if snap == nil {
		snap = &Snapshot{byCode: map[string][]int{}, byKey: map[string]int{}}
	}
	s.snap.Store(snap)
	return s
}

// Snapshot returns the current snapshot. Always non-nil.
func (s *Store) Snapshot() *Snapshot { return s.snap.Load() }

// Swap installs a fully built snapshot.
func (s *Store) Swap(snap *Snapshot) {
	s.snap.Store(snap)
	s.logger.Info("store: snapshot swapped", "records", snap.Len())
}

// Reload pulls the corpus from the source and swaps in the new snapshot.
// On failure the previous snapshot keeps serving.
func (s *Store) Reload(ctx context.Context, src Source) error {
	records, err := src.LoadAll(ctx)
	if err != nil {
		return fmt.Errorf("store: load corpus: %w", err)
	}
	snap, err := BuildSnapshot(records)
	if err != nil {
		return err
	}
	s.Swap(snap)
	return nil
}

// GetExactCode looks up a record in the current snapshot.
func (s *Store) GetExactCode(code string) (domain.FaultCodeRecord, bool) {
	return s.Snapshot().GetExactCode(code)
}

// Search ranks records in the current snapshot against a query.
func (s *Store) Search(query string, limit int) []SearchResult {
	return s.Snapshot().Search(query, limit)
}

// Records returns the current snapshot's records.
func (s *Store) Records() []domain.FaultCodeRecord {
	return s.Snapshot().Records()
}

// StaticSource serves a fixed record slice. Used for seeds and tests.
type StaticSource []domain.FaultCodeRecord

// LoadAll returns the static records.
func (src StaticSource) LoadAll(context.Context) ([]domain.FaultCodeRecord, error) {
	return src, nil
}
