package worker_test

import (
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/ledgerpos/credit-terminal/internal/application"
	"github.com/ledgerpos/credit-terminal/internal/application/services"
	"github.com/ledgerpos/credit-terminal/internal/config"
	"github.com/ledgerpos/credit-terminal/internal/worker"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJournalSweeper_MarksStalePendingUnknown(t *testing.T) {
	journal := services.NewMockJournal()

	stale := application.SubmissionEntry{
		Key:       "key-stale",
		Operation: "process_payment",
		Status:    application.SubmissionPending,
		CreatedAt: time.Now().Add(-time.Hour),
	}
	fresh := application.SubmissionEntry{
		Key:       "key-fresh",
		Operation: "process_payment",
		Status:    application.SubmissionPending,
		CreatedAt: time.Now(),
	}
	resolved := application.SubmissionEntry{
		Key:       "key-done",
		Operation: "store_change",
		Status:    application.SubmissionSucceeded,
		CreatedAt: time.Now().Add(-time.Hour),
	}
	require.NoError(t, journal.Record(context.Background(), stale))
	require.NoError(t, journal.Record(context.Background(), fresh))
	require.NoError(t, journal.Record(context.Background(), resolved))

	sweeper := worker.NewJournalSweeper(journal, config.SweeperConfig{
		Interval:   10 * time.Millisecond,
		BatchSize:  50,
		StaleAfter: 10 * time.Minute,
	}, slog.New(slog.DiscardHandler))

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		defer close(done)
		sweeper.Start(ctx)
	}()

	require.Eventually(t, func() bool {
		entry, err := journal.FindByKey(context.Background(), "key-stale")
		require.NoError(t, err)
		return entry != nil && entry.Status == application.SubmissionUnknown
	}, time.Second, 5*time.Millisecond)

	cancel()
	<-done

	freshEntry, err := journal.FindByKey(context.Background(), "key-fresh")
	require.NoError(t, err)
	assert.Equal(t, application.SubmissionPending, freshEntry.Status)

	doneEntry, err := journal.FindByKey(context.Background(), "key-done")
	require.NoError(t, err)
	assert.Equal(t, application.SubmissionSucceeded, doneEntry.Status)
}
