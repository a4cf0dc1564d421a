package ingest

import (
	"context"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// Runner wires up the cron job that periodically pulls rows from a source
// and feeds them through the deduplicator.
type Runner struct {
	cron   *cron.Cron
	dedup  *Deduplicator
	source RowSource
	spec   string
	logger *zap.Logger
}

// NewRunner creates a Runner firing on the given cron spec, e.g. "@every 6h".
func NewRunner(dedup *Deduplicator, source RowSource, spec string, logger *zap.Logger) *Runner {
	return &Runner{
		cron:   cron.New(),
		dedup:  dedup,
		source: source,
		spec:   spec,
		logger: logger,
	}
}

// Start registers the job and starts the scheduler. Also runs one sweep
// immediately so the corpus is populated without waiting for the first tick.
func (r *Runner) Start(ctx context.Context) error {
	_, err := r.cron.AddFunc(r.spec, func() {
		r.runSweep(ctx)
	})
	if err != nil {
		return err
	}

	r.cron.Start()
	r.logger.Info("ingestion cron started", zap.String("spec", r.spec))

	go r.runSweep(ctx)

	return nil
}

// Stop gracefully shuts down the scheduler.
func (r *Runner) Stop() {
	r.cron.Stop()
	r.logger.Info("ingestion cron stopped")
}

func (r *Runner) runSweep(ctx context.Context) {
	r.logger.Info("ingestion sweep started")

	rows, err := r.source.Fetch(ctx)
	if err != nil {
		r.logger.Error("row source fetch failed", zap.Error(err))
		return
	}
	if len(rows) == 0 {
		r.logger.Info("row source returned no rows")
		return
	}

	result, err := r.dedup.IngestBatch(ctx, rows)
	if err != nil {
		r.logger.Error("ingestion sweep failed", zap.Error(err))
		return
	}

	r.logger.Info("ingestion sweep complete",
		zap.Int("created", result.Created),
		zap.Int("skipped", result.Skipped),
		zap.Int("failed", result.Failed))
}
