package storage

import (
	"context"
	"time"

	"github.com/clearbas/compliance-engine/pkg/models"
)

// AttemptStore defines the interface the payment retry scheduler drives.
// Terminal attempts (SUCCEEDED, FAILED) are never returned by ListDueAttempts
// and never mutated again.
type AttemptStore interface {
	// ListDueAttempts retrieves PENDING and RETRYING attempts whose NextRunAt
	// is unset or has passed, ordered by creation time ascending, limited to
	// the batch size.
	ListDueAttempts(ctx context.Context, now time.Time, limit int32) ([]models.BasPaymentAttempt, error)

	// ClaimAttempt takes a short lease on the attempt by pushing NextRunAt
	// forward, conditioned on the exact state the caller read. Returns
	// ErrAttemptClaimed when a concurrent scheduler got there first.
	ClaimAttempt(ctx context.Context, attempt *models.BasPaymentAttempt, leaseUntil time.Time) error

	// MarkAttemptSucceeded records a successful settlement: SUCCEEDED,
	// incremented attempt count, failure reason and next run cleared.
	MarkAttemptSucceeded(ctx context.Context, attempt *models.BasPaymentAttempt) error

	// MarkAttemptFailed records a failed execution. A nil nextRunAt marks the
	// attempt terminally FAILED; otherwise it becomes RETRYING scheduled at
	// nextRunAt with the failure reason stored.
	MarkAttemptFailed(ctx context.Context, attempt *models.BasPaymentAttempt, reason string, nextRunAt *time.Time) error

	// CountOfflinePending counts PENDING attempts flagged for offline
	// fallback, i.e. the backlog awaiting manual reconciliation.
	CountOfflinePending(ctx context.Context) (int, error)
}
