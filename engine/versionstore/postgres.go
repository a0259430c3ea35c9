// Package versionstore persists published fault-database versions and their
// record-level updates in Postgres, backing the sync protocol's VersionStore.
package versionstore

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"sort"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"

	"github.com/EmersonEIMS/generator-oracle/engine/domain"
	"github.com/EmersonEIMS/generator-oracle/engine/syncproto"
)

const queryTimeout = 5 * time.Second

// Postgres implements syncproto.VersionStore on a Postgres database.
type Postgres struct {
	db *sqlx.DB
}

// New connects and configures the pool.
func New(connectionString string) (*Postgres, error) {
	db, err := sqlx.Connect("postgres", connectionString)
	if err != nil {
		return nil, fmt.Errorf("versionstore: connect: %w", err)
	}
	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)
	return &Postgres{db: db}, nil
}

// NewFromDB wraps an existing connection, used in tests.
func NewFromDB(db *sqlx.DB) *Postgres { return &Postgres{db: db} }

// Close closes the database connection.
func (p *Postgres) Close() error { return p.db.Close() }

// InitSchema creates the sync tables if they do not exist.
func (p *Postgres) InitSchema(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	stmts := []string{
		`CREATE TABLE IF NOT EXISTS oracle_fault_versions (
			id SERIAL PRIMARY KEY,
			version VARCHAR(20) NOT NULL UNIQUE,
			fault_count INTEGER DEFAULT 0,
			checksum VARCHAR(64),
			changelog JSONB,
			released_at TIMESTAMP WITH TIME ZONE DEFAULT NOW(),
			is_current BOOLEAN DEFAULT FALSE
		)`,
		`CREATE TABLE IF NOT EXISTS oracle_fault_updates (
			id SERIAL PRIMARY KEY,
			version_id INTEGER REFERENCES oracle_fault_versions(id),
			fault_id VARCHAR(100) NOT NULL,
			action VARCHAR(10) NOT NULL,
			fault_data JSONB,
			created_at TIMESTAMP WITH TIME ZONE DEFAULT NOW()
		)`,
		`CREATE INDEX IF NOT EXISTS idx_fault_versions_current ON oracle_fault_versions(is_current)`,
		`CREATE INDEX IF NOT EXISTS idx_fault_updates_version ON oracle_fault_updates(version_id)`,
	}
	for _, stmt := range stmts {
		if _, err := p.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("versionstore: init schema: %w", err)
		}
	}
	return nil
}

// versionRow mirrors oracle_fault_versions.
type versionRow struct {
	ID         int            `db:"id"`
	Version    string         `db:"version"`
	FaultCount int            `db:"fault_count"`
	Checksum   sql.NullString `db:"checksum"`
	Changelog  []byte         `db:"changelog"`
	ReleasedAt time.Time      `db:"released_at"`
	IsCurrent  bool           `db:"is_current"`
}

func (r versionRow) toVersion() syncproto.Version {
	v := syncproto.Version{
		Version:    r.Version,
		FaultCount: r.FaultCount,
		Checksum:   r.Checksum.String,
		ReleasedAt: r.ReleasedAt,
		IsCurrent:  r.IsCurrent,
	}
	if len(r.Changelog) > 0 {
		// Malformed changelog JSON is not fatal; the version still serves.
		_ = json.Unmarshal(r.Changelog, &v.Changelog)
	}
	return v
}

// CurrentVersion returns the single current version, ok=false when nothing
// has been published.
func (p *Postgres) CurrentVersion(ctx context.Context) (syncproto.Version, bool, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	var row versionRow
	err := p.db.GetContext(ctx, &row,
		`SELECT * FROM oracle_fault_versions WHERE is_current = true LIMIT 1`)
	if err == sql.ErrNoRows {
		return syncproto.Version{}, false, nil
	}
	if err != nil {
		return syncproto.Version{}, false, fmt.Errorf("versionstore: current version: %w", err)
	}
	return row.toVersion(), true, nil
}

// VersionsAfter returns versions strictly newer than after, oldest first.
// Ordering happens in Go because "1.10.0" sorts before "1.9.0" as a string.
func (p *Postgres) VersionsAfter(ctx context.Context, after string) ([]syncproto.Version, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	var rows []versionRow
	if err := p.db.SelectContext(ctx, &rows, `SELECT * FROM oracle_fault_versions`); err != nil {
		return nil, fmt.Errorf("versionstore: list versions: %w", err)
	}

	var versions []syncproto.Version
	for _, row := range rows {
		if syncproto.IsNewerVersion(row.Version, after) {
			versions = append(versions, row.toVersion())
		}
	}
	sort.Slice(versions, func(i, j int) bool {
		return syncproto.CompareVersions(versions[i].Version, versions[j].Version) < 0
	})
	return versions, nil
}

// updateRow mirrors oracle_fault_updates joined with its version.
type updateRow struct {
	Version   string `db:"version"`
	FaultID   string `db:"fault_id"`
	Action    string `db:"action"`
	FaultData []byte `db:"fault_data"`
}

// UpdatesSince returns record-level changes from versions newer than after,
// in version order.
func (p *Postgres) UpdatesSince(ctx context.Context, after string) ([]syncproto.Update, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	var rows []updateRow
	err := p.db.SelectContext(ctx, &rows,
		`SELECT v.version, u.fault_id, u.action, u.fault_data
		 FROM oracle_fault_updates u
		 JOIN oracle_fault_versions v ON v.id = u.version_id
		 ORDER BY u.id`)
	if err != nil {
		return nil, fmt.Errorf("versionstore: list updates: %w", err)
	}

	var updates []syncproto.Update
	for _, row := range rows {
		if !syncproto.IsNewerVersion(row.Version, after) {
			continue
		}
		u := syncproto.Update{FaultID: row.FaultID, Action: row.Action}
		if len(row.FaultData) > 0 {
			var rec domain.FaultCodeRecord
			if err := json.Unmarshal(row.FaultData, &rec); err != nil {
				return nil, fmt.Errorf("versionstore: decode fault %s: %w", row.FaultID, err)
			}
			u.Record = &rec
		}
		updates = append(updates, u)
	}
	return updates, nil
}

// Publish records a new version and its updates, making it current and the
// previous current version non-current, all in one transaction. The new
// version must be strictly newer than the current one.
func (p *Postgres) Publish(ctx context.Context, v syncproto.Version, updates []syncproto.Update) error {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	tx, err := p.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("versionstore: begin publish: %w", err)
	}
	defer tx.Rollback()

	var current string
	err = tx.GetContext(ctx, &current,
		`SELECT version FROM oracle_fault_versions WHERE is_current = true LIMIT 1`)
	if err != nil && err != sql.ErrNoRows {
		return fmt.Errorf("versionstore: read current: %w", err)
	}
	if err == nil && !syncproto.IsNewerVersion(v.Version, current) {
		return fmt.Errorf("versionstore: version %s is not newer than current %s", v.Version, current)
	}

	if _, err := tx.ExecContext(ctx,
		`UPDATE oracle_fault_versions SET is_current = false WHERE is_current = true`); err != nil {
		return fmt.Errorf("versionstore: retire current: %w", err)
	}

	changelog, err := json.Marshal(v.Changelog)
	if err != nil {
		return fmt.Errorf("versionstore: encode changelog: %w", err)
	}
	var versionID int
	err = tx.GetContext(ctx, &versionID,
		`INSERT INTO oracle_fault_versions (version, fault_count, checksum, changelog, released_at, is_current)
		 VALUES ($1, $2, $3, $4, NOW(), true)
		 RETURNING id`,
		v.Version, v.FaultCount, v.Checksum, changelog)
	if err != nil {
		return fmt.Errorf("versionstore: insert version %s: %w", v.Version, err)
	}

	for _, u := range updates {
		var data []byte
		if u.Record != nil {
			if data, err = json.Marshal(u.Record); err != nil {
				return fmt.Errorf("versionstore: encode fault %s: %w", u.FaultID, err)
			}
		}
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO oracle_fault_updates (version_id, fault_id, action, fault_data)
			 VALUES ($1, $2, $3, $4)`,
			versionID, u.FaultID, u.Action, data); err != nil {
			return fmt.Errorf("versionstore: insert update %s: %w", u.FaultID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("versionstore: commit publish: %w", err)
	}
	return nil
}
