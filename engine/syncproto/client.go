package syncproto

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/EmersonEIMS/generator-oracle/engine/domain"
)

// SyncState is the client's position in the sync cycle.
type SyncState string

const (
	StateUpToDate        SyncState = "UP_TO_DATE"
	StateChecking        SyncState = "CHECKING"
	StateUpdateAvailable SyncState = "UPDATE_AVAILABLE"
	StateDownloading     SyncState = "DOWNLOADING"
	StateApplying        SyncState = "APPLYING"
)

// validTransitions defines allowed (from -> to) state transitions.
var validTransitions = map[SyncState][]SyncState{
	StateUpToDate:        {StateChecking},
	StateChecking:        {StateUpToDate, StateUpdateAvailable},
	StateUpdateAvailable: {StateDownloading, StateUpToDate},
	StateDownloading:     {StateApplying, StateUpToDate},
	StateApplying:        {StateUpToDate},
}

// CanTransition reports whether moving from one sync state to another is
// allowed.
func CanTransition(from, to SyncState) bool {
	for _, s := range validTransitions[from] {
		if s == to {
			return true
		}
	}
	return false
}

// Remote is the server half of the protocol as the client sees it.
// *Service satisfies it directly for in-process use.
type Remote interface {
	Check(ctx context.Context, clientVersion string) CheckResult
	Download(ctx context.Context, fromVersion, toVersion string) DownloadResult
}

// Cache is the client's local fault database.
type Cache interface {
	Version() string
	SetVersion(version string)
	ReplaceAll(records []domain.FaultCodeRecord)
	Apply(changed []domain.FaultCodeRecord, removed []string)
}

// Client drives the sync state machine against a Remote, keeping a Cache
// current. A failed leg leaves the cache untouched and settles back to
// UP_TO_DATE; the next cycle retries from scratch.
type Client struct {
	remote Remote
	cache  Cache
	logger *slog.Logger

	mu    sync.Mutex
	state SyncState
}

// NewClient creates a sync client in the UP_TO_DATE state.
func NewClient(remote Remote, cache Cache, logger *slog.Logger) *Client {
	if logger == nil {
		logger = slog.Default()
	}
	return &Client{remote: remote, cache: cache, logger: logger, state: StateUpToDate}
}

// State returns the current sync state.
func (c *Client) State() SyncState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

func (c *Client) transition(to SyncState) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !CanTransition(c.state, to) {
		return fmt.Errorf("syncproto: invalid transition %s -> %s", c.state, to)
	}
	c.state = to
	return nil
}

// Sync runs one full cycle: check, and when an update exists, download and
// apply it. Returns the version the cache holds afterwards.
func (c *Client) Sync(ctx context.Context) (string, error) {
	if err := c.transition(StateChecking); err != nil {
		return c.cache.Version(), err
	}

	local := c.cache.Version()
	if local == "" {
		local = ZeroVersion
	}

	check := c.remote.Check(ctx, local)
	if !check.HasUpdate {
		c.mustTransition(StateUpToDate)
		return local, nil
	}
	c.mustTransition(StateUpdateAvailable)
	c.logger.Info("sync: update available",
		"local", local, "latest", check.LatestVersion, "changes", check.ChangeCount)

	c.mustTransition(StateDownloading)
	dl := c.remote.Download(ctx, local, check.LatestVersion)
	if !dl.Success {
		c.mustTransition(StateUpToDate)
		return local, fmt.Errorf("syncproto: download of %s failed", check.LatestVersion)
	}

	c.mustTransition(StateApplying)
	if dl.IsFullSync {
		c.cache.ReplaceAll(dl.Faults)
	} else {
		c.cache.Apply(dl.Faults, dl.Removed)
	}
	c.cache.SetVersion(dl.Version)
	c.mustTransition(StateUpToDate)

	c.logger.Info("sync: cache updated",
		"version", dl.Version, "faults", dl.FaultCount, "fullSync", dl.IsFullSync)
	return dl.Version, nil
}

// mustTransition is for transitions the state machine guarantees valid.
func (c *Client) mustTransition(to SyncState) {
	if err := c.transition(to); err != nil {
		panic(err)
	}
}

// MemoryCache is an in-memory Cache, used in tests and by the API's warm
// standby corpus.
type MemoryCache struct {
	mu      sync.RWMutex
	version string
	records map[string]domain.FaultCodeRecord
}

// NewMemoryCache creates an empty cache at the zero version.
func NewMemoryCache() *MemoryCache {
	return &MemoryCache{version: ZeroVersion, records: make(map[string]domain.FaultCodeRecord)}
}

func (m *MemoryCache) Version() string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.version
}

func (m *MemoryCache) SetVersion(version string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.version = version
}

func (m *MemoryCache) ReplaceAll(records []domain.FaultCodeRecord) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.records = make(map[string]domain.FaultCodeRecord, len(records))
	for _, r := range records {
		m.records[r.ID] = r
	}
}

func (m *MemoryCache) Apply(changed []domain.FaultCodeRecord, removed []string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, r := range changed {
		m.records[r.ID] = r
	}
	for _, id := range removed {
		delete(m.records, id)
	}
}

// Len returns the number of cached records.
func (m *MemoryCache) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.records)
}

// Records returns the cached records in unspecified order.
func (m *MemoryCache) Records() []domain.FaultCodeRecord {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]domain.FaultCodeRecord, 0, len(m.records))
	for _, r := range m.records {
		out = append(out, r)
	}
	return out
}
