package syncproto

import (
	"context"
	"log/slog"
	"sort"
	"time"

	"github.com/EmersonEIMS/generator-oracle/engine/domain"
	"github.com/EmersonEIMS/generator-oracle/pkg/resilience"
)

// Update actions recorded against a published version.
const (
	ActionAdd    = "add"
	ActionUpdate = "update"
	ActionRemove = "remove"
)

// Version is one published fault-database release.
type Version struct {
	Version    string    `json:"version"`
	FaultCount int       `json:"faultCount"`
	Checksum   string    `json:"checksum"`
	Changelog  []string  `json:"changelog,omitempty"`
	ReleasedAt time.Time `json:"releasedAt"`
	IsCurrent  bool      `json:"isCurrent"`
}

// Update is one record-level change belonging to a version. Record is nil
// for removals.
type Update struct {
	FaultID string                  `json:"faultId"`
	Action  string                  `json:"action"`
	Record  *domain.FaultCodeRecord `json:"record,omitempty"`
}

// CheckResult answers "is my copy stale". Field names are the wire contract
// with deployed clients.
type CheckResult struct {
	HasUpdate      bool     `json:"hasUpdate"`
	CurrentVersion string   `json:"currentVersion"`
	LatestVersion  string   `json:"latestVersion"`
	ChangeCount    int      `json:"changeCount"`
	Changelog      []string `json:"changelog,omitempty"`
}

// DownloadResult carries a full corpus or a delta to the client.
type DownloadResult struct {
	Success    bool                     `json:"success"`
	Version    string                   `json:"version"`
	Faults     []domain.FaultCodeRecord `json:"faults"`
	Removed    []string                 `json:"removed,omitempty"`
	IsFullSync bool                     `json:"isFullSync"`
	FaultCount int                      `json:"faultCount"`
}

// VersionStore is the persistence behind the sync service.
type VersionStore interface {
	// CurrentVersion returns the single current version, or ok=false when
	// nothing has been published yet.
	CurrentVersion(ctx context.Context) (Version, bool, error)
	// VersionsAfter returns versions strictly newer than after, oldest first.
	VersionsAfter(ctx context.Context, after string) ([]Version, error)
	// UpdatesSince returns record-level changes in versions newer than after.
	UpdatesSince(ctx context.Context, after string) ([]Update, error)
}

// CorpusProvider supplies the full record set for full syncs.
type CorpusProvider interface {
	Records() []domain.FaultCodeRecord
}

// Service is the server side of the sync protocol. The version store sits
// behind a circuit breaker; when it is down or tripping, Check reports "no
// update" and Download falls back to a full sync of the in-memory corpus,
// so clients keep working off whatever data is available.
type Service struct {
	store   VersionStore
	corpus  CorpusProvider
	breaker *resilience.Breaker
	logger  *slog.Logger
}

// NewService creates a sync service. store may be nil when no version
// database is configured; the service then serves full syncs only.
func NewService(store VersionStore, corpus CorpusProvider, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		store:   store,
		corpus:  corpus,
		breaker: resilience.NewBreaker(resilience.DefaultBreakerOpts),
		logger:  logger,
	}
}

// Check compares the client's version against the latest published one.
// Never fails: store trouble degrades to hasUpdate=false.
func (s *Service) Check(ctx context.Context, clientVersion string) CheckResult {
	if clientVersion == "" {
		clientVersion = ZeroVersion
	}

	latest, ok, err := s.currentVersion(ctx)
	if err != nil {
		s.logger.Warn("sync: version check degraded", "error", err)
		return CheckResult{
			HasUpdate:      false,
			CurrentVersion: clientVersion,
			LatestVersion:  InitialVersion,
		}
	}
	if !ok {
		return CheckResult{
			HasUpdate:      IsNewerVersion(InitialVersion, clientVersion),
			CurrentVersion: clientVersion,
			LatestVersion:  InitialVersion,
		}
	}

	result := CheckResult{
		CurrentVersion: clientVersion,
		LatestVersion:  latest.Version,
		Changelog:      latest.Changelog,
	}
	if !IsNewerVersion(latest.Version, clientVersion) {
		return result
	}
	result.HasUpdate = true
	result.ChangeCount = s.changeCount(ctx, clientVersion, latest)
	return result
}

// Download returns the records a client needs to reach the current version.
// Full sync when the client reports no version, the zero version, or a
// version predating tracked deltas; otherwise a delta of the intervening
// versions.
func (s *Service) Download(ctx context.Context, fromVersion, toVersion string) DownloadResult {
	version := toVersion
	if latest, ok, err := s.currentVersion(ctx); err == nil && ok {
		version = latest.Version
	} else if version == "" {
		version = InitialVersion
	}

	full := fromVersion == "" || fromVersion == ZeroVersion ||
		CompareVersions(fromVersion, InitialVersion) < 0
	if !full && s.store != nil {
		if result, ok := s.deltaDownload(ctx, fromVersion, version); ok {
			return result
		}
		// Delta unavailable, fall through to full sync.
	}

	records := s.corpus.Records()
	return DownloadResult{
		Success:    true,
		Version:    version,
		Faults:     records,
		IsFullSync: true,
		FaultCount: len(records),
	}
}

func (s *Service) deltaDownload(ctx context.Context, from, version string) (DownloadResult, bool) {
	var updates []Update
	err := s.breaker.Call(ctx, func(ctx context.Context) error {
		var err error
		updates, err = s.store.UpdatesSince(ctx, from)
		return err
	})
	if err != nil {
		s.logger.Warn("sync: delta download degraded to full sync", "from", from, "error", err)
		return DownloadResult{}, false
	}
	if len(updates) == 0 {
		return DownloadResult{}, false
	}

	// Later updates to the same record win.
	changed := make(map[string]*domain.FaultCodeRecord)
	removed := make(map[string]struct{})
	for _, u := range updates {
		switch u.Action {
		case ActionRemove:
			delete(changed, u.FaultID)
			removed[u.FaultID] = struct{}{}
		case ActionAdd, ActionUpdate:
			if u.Record != nil {
				delete(removed, u.FaultID)
				changed[u.FaultID] = u.Record
			}
		}
	}

	result := DownloadResult{Success: true, Version: version}
	for _, rec := range changed {
		result.Faults = append(result.Faults, *rec)
	}
	sort.Slice(result.Faults, func(i, j int) bool { return result.Faults[i].ID < result.Faults[j].ID })
	for id := range removed {
		result.Removed = append(result.Removed, id)
	}
	sort.Strings(result.Removed)
	result.FaultCount = len(result.Faults)
	return result, true
}

func (s *Service) currentVersion(ctx context.Context) (Version, bool, error) {
	if s.store == nil {
		return Version{}, false, nil
	}
	var (
		v  Version
		ok bool
	)
	err := s.breaker.Call(ctx, func(ctx context.Context) error {
		var err error
		v, ok, err = s.store.CurrentVersion(ctx)
		return err
	})
	return v, ok, err
}

// changeCount sums fault counts of the versions between client and latest.
// Errors degrade to the latest version's own count.
func (s *Service) changeCount(ctx context.Context, clientVersion string, latest Version) int {
	var versions []Version
	err := s.breaker.Call(ctx, func(ctx context.Context) error {
		var err error
		versions, err = s.store.VersionsAfter(ctx, clientVersion)
		return err
	})
	if err != nil {
		s.logger.Warn("sync: change count degraded", "error", err)
		return latest.FaultCount
	}
	total := 0
	for _, v := range versions {
		total += v.FaultCount
	}
	return total
}
