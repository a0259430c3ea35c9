package ingest

import (
	"context"
	"log/slog"

	"github.com/nats-io/nats.go"

	"github.com/EmersonEIMS/generator-oracle/engine/store"
	"github.com/EmersonEIMS/generator-oracle/pkg/fn"
	"github.com/EmersonEIMS/generator-oracle/pkg/natsutil"
)

// SubjectCorpusUpdated announces that a new fault-database version was
// published and running instances should rebuild their snapshots.
const SubjectCorpusUpdated = "oracle.corpus.updated"

// CorpusUpdated is the event payload.
type CorpusUpdated struct {
	Version    string `json:"version"`
	FaultCount int    `json:"faultCount"`
	Checksum   string `json:"checksum"`
}

// PublishCorpusUpdated emits the update event after a successful publish.
func PublishCorpusUpdated(ctx context.Context, nc *nats.Conn, ev CorpusUpdated) error {
	return natsutil.Publish(ctx, nc, SubjectCorpusUpdated, ev)
}

// StartConsumer subscribes to corpus-update events and reloads the store
// from the source on each one. Transient source failures are retried; if
// all attempts fail the previous snapshot keeps serving.
func StartConsumer(nc *nats.Conn, st *store.Store, src store.Source, logger *slog.Logger) (*nats.Subscription, error) {
	if logger == nil {
		logger = slog.Default()
	}
	return natsutil.Subscribe(nc, SubjectCorpusUpdated, func(ctx context.Context, ev CorpusUpdated) {
		logger.Info("ingest: corpus update received",
			"version", ev.Version, "faults", ev.FaultCount)
		r := fn.Retry(ctx, fn.DefaultRetry, func(ctx context.Context) fn.Result[struct{}] {
			return fn.FromPair(struct{}{}, st.Reload(ctx, src))
		})
		if _, err := r.Unwrap(); err != nil {
			logger.Error("ingest: corpus reload failed, keeping previous snapshot",
				"version", ev.Version, "error", err)
		}
	})
}
