package worker

import (
	"context"
	"log/slog"
	"time"

	"github.com/ledgerpos/credit-terminal/internal/application"
	"github.com/ledgerpos/credit-terminal/internal/config"
)

// JournalSweeper marks PENDING submissions that never resolved as UNKNOWN.
// A submission only stays PENDING when the process died between sending a
// write and recording its outcome, so anything older than staleAfter needs
// manual reconciliation against the ledger.
type JournalSweeper struct {
	journal    application.SubmissionJournal
	interval   time.Duration
	batchSize  int
	staleAfter time.Duration
	logger     *slog.Logger
}

func NewJournalSweeper(journal application.SubmissionJournal, cfg config.SweeperConfig, logger *slog.Logger) *JournalSweeper {
	return &JournalSweeper{
		journal:    journal,
		interval:   cfg.Interval,
		batchSize:  cfg.BatchSize,
		staleAfter: cfg.StaleAfter,
		logger:     logger,
	}
}

func (w *JournalSweeper) Start(ctx context.Context) {
	w.logger.Info("journal sweeper started", "interval", w.interval, "stale_after", w.staleAfter)
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			w.logger.Info("journal sweeper stopping")
			return
		case <-ticker.C:
			if err := w.sweep(ctx); err != nil {
				w.logger.Error("journal sweep failed", "error", err)
			}
		}
	}
}

func (w *JournalSweeper) sweep(ctx context.Context) error {
	marked, err := w.journal.MarkStalePendingUnknown(ctx, w.staleAfter, w.batchSize)
	if err != nil {
		return err
	}
	if marked > 0 {
		w.logger.Warn("stale pending submissions marked unknown",
			"count", marked,
			"stale_after", w.staleAfter,
		)
	}
	return nil
}
