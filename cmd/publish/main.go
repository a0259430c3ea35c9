// Command publish releases a new fault-database version: it loads and
// validates a corpus, computes the delta against the last published state,
// records the version and its updates in Postgres, and notifies running
// API instances over NATS.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/neo4j/neo4j-go-driver/v5/neo4j"

	"github.com/EmersonEIMS/generator-oracle/engine/correlate"
	"github.com/EmersonEIMS/generator-oracle/engine/domain"
	"github.com/EmersonEIMS/generator-oracle/engine/ingest"
	"github.com/EmersonEIMS/generator-oracle/engine/store"
	"github.com/EmersonEIMS/generator-oracle/engine/syncproto"
	"github.com/EmersonEIMS/generator-oracle/engine/versionstore"
)

func main() {
	var (
		dbURL      = flag.String("db", os.Getenv("DATABASE_URL"), "Postgres connection string")
		natsURL    = flag.String("nats", os.Getenv("NATS_URL"), "NATS server URL (optional)")
		neo4jURL   = flag.String("neo4j", os.Getenv("NEO4J_URL"), "Neo4j bolt URL for the correlation graph (optional)")
		neo4jUser  = flag.String("neo4j-user", envOr("NEO4J_USER", "neo4j"), "Neo4j username")
		neo4jPass  = flag.String("neo4j-pass", envOr("NEO4J_PASS", "password"), "Neo4j password")
		corpusFile = flag.String("corpus", "", "JSON file of fault records (default: built-in seed corpus)")
		bump       = flag.String("bump", "patch", "version part to increment: major, minor, patch")
		changelog  = flag.String("changelog", "", "one-line changelog entry")
		timeout    = flag.Duration("timeout", 30*time.Second, "overall timeout")
	)
	flag.Parse()

	logger := slog.New(slog.NewJSONHandler(os.Stderr, nil))
	slog.SetDefault(logger)

	if *dbURL == "" {
		logger.Error("a Postgres connection string is required (-db or DATABASE_URL)")
		os.Exit(1)
	}

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	opts := publishOpts{
		dbURL:      *dbURL,
		natsURL:    *natsURL,
		neo4jURL:   *neo4jURL,
		neo4jUser:  *neo4jUser,
		neo4jPass:  *neo4jPass,
		corpusFile: *corpusFile,
		bump:       *bump,
		changelog:  *changelog,
	}
	if err := run(ctx, opts, logger); err != nil {
		logger.Error("publish failed", "err", err)
		os.Exit(1)
	}
}

type publishOpts struct {
	dbURL      string
	natsURL    string
	neo4jURL   string
	neo4jUser  string
	neo4jPass  string
	corpusFile string
	bump       string
	changelog  string
}

func run(ctx context.Context, opts publishOpts, logger *slog.Logger) error {
	records, err := loadCorpus(opts.corpusFile)
	if err != nil {
		return err
	}
	// Validation gate: a corpus that fails to build is never published.
	if _, err := store.BuildSnapshot(records); err != nil {
		return err
	}

	pg, err := versionstore.New(opts.dbURL)
	if err != nil {
		return err
	}
	defer pg.Close()
	if err := pg.InitSchema(ctx); err != nil {
		return err
	}

	current, published, err := pg.CurrentVersion(ctx)
	if err != nil {
		return err
	}
	currentVersion := syncproto.ZeroVersion
	if published {
		currentVersion = current.Version
	}
	newVersion := syncproto.IncrementVersion(currentVersion, opts.bump)

	previous, err := previousCorpus(ctx, pg)
	if err != nil {
		return err
	}
	delta := syncproto.CalculateDelta(syncproto.ChecksumMap(previous), syncproto.ChecksumMap(records))
	if delta.IsEmpty() && published {
		logger.Info("corpus unchanged, nothing to publish", "version", currentVersion)
		return nil
	}

	updates := buildUpdates(records, delta)
	version := syncproto.Version{
		Version:    newVersion,
		FaultCount: len(records),
		Checksum:   syncproto.CorpusChecksum(records),
	}
	if opts.changelog != "" {
		version.Changelog = []string{opts.changelog}
	}
	if err := pg.Publish(ctx, version, updates); err != nil {
		return err
	}
	logger.Info("version published",
		"version", newVersion, "faults", len(records),
		"added", len(delta.Added), "updated", len(delta.Updated), "removed", len(delta.Removed))

	if opts.neo4jURL != "" {
		if err := syncGraph(ctx, opts, records, logger); err != nil {
			logger.Warn("correlation graph update failed", "err", err)
		}
	}

	if opts.natsURL != "" {
		nc, err := nats.Connect(opts.natsURL)
		if err != nil {
			logger.Warn("nats unavailable, running instances will not reload", "err", err)
			return nil
		}
		defer nc.Close()
		if err := ingest.PublishCorpusUpdated(ctx, nc, ingest.CorpusUpdated{
			Version:    newVersion,
			FaultCount: len(records),
			Checksum:   version.Checksum,
		}); err != nil {
			logger.Warn("corpus-update event failed", "err", err)
		}
	}
	return nil
}

// syncGraph mirrors the published corpus into the Neo4j correlation graph.
func syncGraph(ctx context.Context, opts publishOpts, records []domain.FaultCodeRecord, logger *slog.Logger) error {
	driver, err := neo4j.NewDriverWithContext(opts.neo4jURL,
		neo4j.BasicAuth(opts.neo4jUser, opts.neo4jPass, ""))
	if err != nil {
		return err
	}
	defer driver.Close(ctx)

	graph := correlate.NewGraphStore(driver)
	if err := graph.SaveBatch(ctx, records, correlate.GraphEdges(records)); err != nil {
		return err
	}
	nodes, edges, err := graph.CorrelationCounts(ctx)
	if err != nil {
		return err
	}
	logger.Info("correlation graph updated", "nodes", nodes, "edges", edges)
	return nil
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func loadCorpus(path string) ([]domain.FaultCodeRecord, error) {
	if path == "" {
		return store.SeedRecords(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read corpus: %w", err)
	}
	var records []domain.FaultCodeRecord
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("decode corpus: %w", err)
	}
	return records, nil
}

// previousCorpus replays the full update history into the record state the
// last published version describes.
func previousCorpus(ctx context.Context, pg *versionstore.Postgres) ([]domain.FaultCodeRecord, error) {
	updates, err := pg.UpdatesSince(ctx, syncproto.ZeroVersion)
	if err != nil {
		return nil, err
	}
	state := make(map[string]domain.FaultCodeRecord)
	for _, u := range updates {
		switch u.Action {
		case syncproto.ActionRemove:
			delete(state, u.FaultID)
		case syncproto.ActionAdd, syncproto.ActionUpdate:
			if u.Record != nil {
				state[u.FaultID] = *u.Record
			}
		}
	}
	records := make([]domain.FaultCodeRecord, 0, len(state))
	for _, r := range state {
		records = append(records, r)
	}
	return records, nil
}

func buildUpdates(records []domain.FaultCodeRecord, delta syncproto.Delta) []syncproto.Update {
	byID := make(map[string]domain.FaultCodeRecord, len(records))
	for _, r := range records {
		byID[r.ID] = r
	}
	var updates []syncproto.Update
	for _, id := range delta.Added {
		rec := byID[id]
		updates = append(updates, syncproto.Update{FaultID: id, Action: syncproto.ActionAdd, Record: &rec})
	}
	for _, id := range delta.Updated {
		rec := byID[id]
		updates = append(updates, syncproto.Update{FaultID: id, Action: syncproto.ActionUpdate, Record: &rec})
	}
	for _, id := range delta.Removed {
		updates = append(updates, syncproto.Update{FaultID: id, Action: syncproto.ActionRemove})
	}
	return updates
}
