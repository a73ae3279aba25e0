package services

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/ledgerpos/credit-terminal/internal/application"
)

// Journal bookkeeping around a single write. Journal failures are logged and
// swallowed: the journal exists to aid reconciliation, it must never block a
// sale at the counter.

func recordSubmission(ctx context.Context, journal application.SubmissionJournal, logger *slog.Logger, key, operation, customerID, staffID string, req any) {
	err := journal.Record(ctx, application.SubmissionEntry{
		Key:         key,
		Operation:   operation,
		CustomerID:  customerID,
		StaffID:     staffID,
		RequestHash: ComputeHash(req),
		Status:      application.SubmissionPending,
		CreatedAt:   time.Now(),
	})
	if err != nil {
		logger.Error("failed to journal submission",
			"key", key,
			"operation", operation,
			"error", err,
		)
	}
}

func resolveSubmission(ctx context.Context, journal application.SubmissionJournal, logger *slog.Logger, key string, response any, callErr error) {
	var err error
	if callErr == nil {
		payload, marshalErr := json.Marshal(response)
		if marshalErr != nil {
			payload = nil
		}
		err = journal.MarkSucceeded(ctx, key, payload)
	} else {
		rec := application.Classify(callErr)
		_, definitive := application.IsLedgerError(callErr)
		switch {
		case rec.Kind == application.KindTimeout, rec.Kind == application.KindNetwork:
			// no usable response: the ledger may or may not have applied it
			err = journal.MarkUnknown(ctx, key, string(rec.Kind))
		case rec.Kind == application.KindUnknown && !definitive:
			err = journal.MarkUnknown(ctx, key, string(rec.Kind))
		default:
			// a structured ledger response means the write was rejected,
			// even when the code is one we cannot classify
			err = journal.MarkFailed(ctx, key, string(rec.Kind))
		}
	}
	if err != nil {
		logger.Error("failed to resolve journaled submission", "key", key, "error", err)
	}
}
