// Package sources loads flow logs for the viewer from a file, a NATS JetStream
// stream or a CNPG (Postgres) table.
package sources

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/carverauto/flowlogs/pkg/logger"
	"github.com/carverauto/flowlogs/pkg/models"
)

// Source loads a snapshot of flow logs, oldest first.
type Source interface {
	Load(ctx context.Context) ([]*models.FlowLog, error)
	Close() error
}

// Streamer is implemented by sources that keep delivering flow logs after the
// initial Load. Stream blocks until ctx is done.
type Streamer interface {
	Stream(ctx context.Context, fn func(*models.FlowLog)) error
}

// New opens the source selected by cfg.
func New(ctx context.Context, cfg *models.ViewerConfig, log logger.Logger) (Source, error) {
	if log == nil {
		log = logger.Global()
	}

	log = log.WithComponent("sources")

	switch cfg.Source {
	case models.SourceFile:
		return NewFileSource(cfg.File, cfg.Limit, log), nil
	case models.SourceNATS:
		if cfg.NATS == nil {
			return nil, models.ErrMissingNATSConfig
		}

		return NewNATSSource(ctx, cfg.NATS, cfg.Limit, log)
	case models.SourceCNPG:
		if cfg.CNPG == nil {
			return nil, models.ErrMissingCNPGConfig
		}

		return NewCNPGSource(ctx, cfg.CNPG, cfg.Limit, log)
	default:
		return nil, fmt.Errorf("%w: %q", models.ErrUnknownSource, cfg.Source)
	}
}

// decodeFlowLog parses one JSON flow log and reports inconsistent records
// without rejecting them.
func decodeFlowLog(data []byte, log logger.Logger) (*models.FlowLog, error) {
	var f models.FlowLog

	if err := json.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("%w: %w", errDecode, err)
	}

	checkFlowLog(&f, log)

	return &f, nil
}

func checkFlowLog(f *models.FlowLog, log logger.Logger) {
	if err := f.Validate(); err != nil {
		log.Warn().Err(err).
			Str("source_name", f.SourceName).
			Str("dest_name", f.DestName).
			Msg("Keeping inconsistent flow log")
	}
}

// keepLast trims rows to the newest limit entries; limit <= 0 keeps all.
func keepLast(rows []*models.FlowLog, limit int) []*models.FlowLog {
	if limit > 0 && len(rows) > limit {
		return rows[len(rows)-limit:]
	}

	return rows
}
