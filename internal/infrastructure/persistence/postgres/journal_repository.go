// Package postgres holds the terminal's local repositories. Only data the
// terminal itself owns lives here; slips and wallet balances stay with the
// remote ledger.
package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/ledgerpos/credit-terminal/internal/application"
	"github.com/ledgerpos/credit-terminal/internal/infrastructure/persistence"
)

var (
	ErrSubmissionNotFound  = errors.New("submission not found")
	ErrDuplicateSubmission = errors.New("submission key already recorded")
)

// JournalRepository records every write this terminal submits to the ledger,
// keyed by the idempotency key the write was sent under.
type JournalRepository struct {
	db *persistence.DB
}

func NewJournalRepository(db *persistence.DB) *JournalRepository {
	return &JournalRepository{db: db}
}

func (r *JournalRepository) Record(ctx context.Context, entry application.SubmissionEntry) error {
	query := `
		INSERT INTO ledger_submissions (key, operation, customer_id, staff_id, request_hash, status, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`

	createdAt := entry.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now()
	}

	_, err := r.db.Pool.Exec(ctx, query,
		entry.Key, entry.Operation, entry.CustomerID, entry.StaffID,
		entry.RequestHash, application.SubmissionPending, createdAt,
	)
	if err != nil {
		if persistence.IsUniqueViolation(err) {
			return ErrDuplicateSubmission
		}
		return fmt.Errorf("failed to record submission: %w", err)
	}
	return nil
}

func (r *JournalRepository) MarkSucceeded(ctx context.Context, key string, responsePayload []byte) error {
	query := `
		UPDATE ledger_submissions
		SET status = $2, response_payload = $3, resolved_at = $4
		WHERE key = $1
	`
	return r.resolve(ctx, query, key, application.SubmissionSucceeded, responsePayload)
}

func (r *JournalRepository) MarkFailed(ctx context.Context, key string, errorCode string) error {
	query := `
		UPDATE ledger_submissions
		SET status = $2, error_code = $3, resolved_at = $4
		WHERE key = $1
	`
	return r.resolve(ctx, query, key, application.SubmissionFailed, errorCode)
}

func (r *JournalRepository) MarkUnknown(ctx context.Context, key string, reason string) error {
	query := `
		UPDATE ledger_submissions
		SET status = $2, error_code = $3, resolved_at = $4
		WHERE key = $1
	`
	return r.resolve(ctx, query, key, application.SubmissionUnknown, reason)
}

func (r *JournalRepository) resolve(ctx context.Context, query, key string, status application.SubmissionStatus, detail any) error {
	tag, err := r.db.Pool.Exec(ctx, query, key, status, detail, time.Now())
	if err != nil {
		return fmt.Errorf("failed to resolve submission %s: %w", key, err)
	}
	if tag.RowsAffected() == 0 {
		return ErrSubmissionNotFound
	}
	return nil
}

func (r *JournalRepository) FindByKey(ctx context.Context, key string) (*application.SubmissionEntry, error) {
	query := `
		SELECT key, operation, customer_id, staff_id, request_hash, status, COALESCE(error_code, ''), created_at, resolved_at
		FROM ledger_submissions
		WHERE key = $1
	`

	var entry application.SubmissionEntry
	err := r.db.Pool.QueryRow(ctx, query, key).Scan(
		&entry.Key,
		&entry.Operation,
		&entry.CustomerID,
		&entry.StaffID,
		&entry.RequestHash,
		&entry.Status,
		&entry.ErrorCode,
		&entry.CreatedAt,
		&entry.ResolvedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrSubmissionNotFound
		}
		return nil, fmt.Errorf("failed to load submission %s: %w", key, err)
	}
	return &entry, nil
}

// MarkStalePendingUnknown flips submissions stuck in PENDING longer than
// olderThan to UNKNOWN so staff can reconcile them against the ledger.
func (r *JournalRepository) MarkStalePendingUnknown(ctx context.Context, olderThan time.Duration, limit int) (int, error) {
	query := `
		UPDATE ledger_submissions
		SET status = $1, error_code = 'STALE_PENDING', resolved_at = $2
		WHERE key IN (
			SELECT key FROM ledger_submissions
			WHERE status = $3 AND created_at < $4
			ORDER BY created_at
			LIMIT $5
		)
	`

	tag, err := r.db.Pool.Exec(ctx, query,
		application.SubmissionUnknown, time.Now(),
		application.SubmissionPending, time.Now().Add(-olderThan), limit,
	)
	if err != nil {
		return 0, fmt.Errorf("failed to sweep stale submissions: %w", err)
	}
	return int(tag.RowsAffected()), nil
}
