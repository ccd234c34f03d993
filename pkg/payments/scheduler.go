// Package payments runs the BAS payment-settlement retry loop. Due attempts
// are claimed one at a time with a conditional lease, executed against the
// banking partner, and rescheduled with exponential backoff until they either
// settle or exhaust their retries.
package payments

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/clearbas/compliance-engine/pkg/metrics"
	"github.com/clearbas/compliance-engine/pkg/models"
	"github.com/clearbas/compliance-engine/pkg/storage"
)

const (
	// MaxAttempts is the terminal attempt count. The fifth failure marks
	// the attempt FAILED and escalates it.
	MaxAttempts = 5

	// DefaultBatchSize bounds how many due attempts one run processes.
	DefaultBatchSize = 25

	// claimLease is how far a claim pushes the attempt's schedule forward.
	// A crashed run leaves the attempt eligible again after this window.
	claimLease = 2 * time.Minute
)

// Store is the slice of the data layer the scheduler needs.
type Store interface {
	storage.AttemptStore
}

// Scheduler processes due BAS payment attempts.
type Scheduler struct {
	Store    Store
	Executor Executor
	Failures FailureHandler
	Metrics  metrics.Recorder
	Logger   *slog.Logger
}

// NewScheduler creates a new Scheduler.
func NewScheduler(store Store, executor Executor, failures FailureHandler, recorder metrics.Recorder, logger *slog.Logger) *Scheduler {
	return &Scheduler{
		Store:    store,
		Executor: executor,
		Failures: failures,
		Metrics:  recorder,
		Logger:   logger,
	}
}

// Options tune one ProcessQueue run. Zero values take the defaults.
type Options struct {
	Now       time.Time
	BatchSize int32
}

// RunResult summarizes one ProcessQueue run.
type RunResult struct {
	Due       int `json:"due"`
	Skipped   int `json:"skipped"`
	Offline   int `json:"offline"`
	Succeeded int `json:"succeeded"`
	Retried   int `json:"retried"`
	Exhausted int `json:"exhausted"`
}

// ProcessQueue claims and executes due attempts sequentially. Attempts
// claimed by a concurrent run are skipped. Offline-fallback attempts never
// reach the partner: they are acknowledged as settled immediately and the
// actual submission happens out of band. The retry backlog gauge is published
// before processing and the offline backlog gauge after.
func (s *Scheduler) ProcessQueue(ctx context.Context, opts Options) (*RunResult, error) {
	now := opts.Now
	if now.IsZero() {
		now = time.Now().UTC()
	}
	batchSize := opts.BatchSize
	if batchSize <= 0 {
		batchSize = DefaultBatchSize
	}

	due, err := s.Store.ListDueAttempts(ctx, now, batchSize)
	if err != nil {
		return nil, fmt.Errorf("failed to list due attempts: %w", err)
	}

	if err := s.Metrics.Gauge(ctx, metrics.GaugeRetryBacklog, float64(len(due))); err != nil {
		s.Logger.Warn("failed to publish retry backlog gauge", "error", err)
	}

	result := &RunResult{Due: len(due)}
	for i := range due {
		attempt := &due[i]

		if err := s.Store.ClaimAttempt(ctx, attempt, now.Add(claimLease)); err != nil {
			if errors.Is(err, storage.ErrAttemptClaimed) {
				result.Skipped++
				continue
			}
			return nil, fmt.Errorf("failed to claim attempt %s: %w", attempt.ID, err)
		}

		if attempt.OfflineFallback {
			if err := s.Store.MarkAttemptSucceeded(ctx, attempt); err != nil {
				return nil, fmt.Errorf("failed to acknowledge offline attempt %s: %w", attempt.ID, err)
			}
			result.Offline++
			s.Logger.Info("attempt acknowledged for offline submission",
				"attempt_id", attempt.ID,
				"bas_cycle_id", attempt.BasCycleID,
			)
			continue
		}

		if err := s.processAttempt(ctx, attempt, now, result); err != nil {
			return nil, err
		}
	}

	offline, err := s.Store.CountOfflinePending(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to count offline backlog: %w", err)
	}
	if err := s.Metrics.Gauge(ctx, metrics.GaugeOfflineBacklog, float64(offline)); err != nil {
		s.Logger.Warn("failed to publish offline backlog gauge", "error", err)
	}

	return result, nil
}

func (s *Scheduler) processAttempt(ctx context.Context, attempt *models.BasPaymentAttempt, now time.Time, result *RunResult) error {
	execErr := s.Executor.Execute(ctx, attempt)
	if execErr == nil {
		if err := s.Store.MarkAttemptSucceeded(ctx, attempt); err != nil {
			return fmt.Errorf("failed to finalize attempt %s: %w", attempt.ID, err)
		}
		result.Succeeded++
		s.Logger.Info("payment attempt settled",
			"attempt_id", attempt.ID,
			"bas_cycle_id", attempt.BasCycleID,
		)
		return nil
	}

	newCount := attempt.AttemptCount + 1
	if newCount >= MaxAttempts {
		if err := s.Store.MarkAttemptFailed(ctx, attempt, execErr.Error(), nil); err != nil {
			return fmt.Errorf("failed to mark attempt %s exhausted: %w", attempt.ID, err)
		}
		attempt.AttemptCount = newCount
		attempt.Status = models.FAILED
		if err := s.Failures.OnFailure(ctx, attempt, execErr); err != nil {
			s.Logger.Error("failed to escalate exhausted attempt",
				"attempt_id", attempt.ID,
				"error", err,
			)
		}
		result.Exhausted++
		s.Logger.Error("payment attempt exhausted",
			"attempt_id", attempt.ID,
			"bas_cycle_id", attempt.BasCycleID,
			"attempt_count", newCount,
			"reason", execErr.Error(),
		)
		return nil
	}

	nextRunAt := now.Add(Backoff(newCount))
	if err := s.Store.MarkAttemptFailed(ctx, attempt, execErr.Error(), &nextRunAt); err != nil {
		return fmt.Errorf("failed to reschedule attempt %s: %w", attempt.ID, err)
	}
	result.Retried++
	s.Logger.Warn("payment attempt rescheduled",
		"attempt_id", attempt.ID,
		"bas_cycle_id", attempt.BasCycleID,
		"attempt_count", newCount,
		"next_run_at", nextRunAt,
		"reason", execErr.Error(),
	)
	return nil
}

// Backoff returns the delay before the next run after the given number of
// failed attempts: 2^count minutes.
func Backoff(count int) time.Duration {
	return time.Duration(1<<count) * time.Minute
}
