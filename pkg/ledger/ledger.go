// Package ledger enforces the credit-only fund-segregation policy for
// designated accounts. All balance movements flow through a single transfer
// primitive; debits are rejected before any persistence and converted into
// alerts and audit evidence.
package ledger

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/clearbas/compliance-engine/pkg/models"
	"github.com/clearbas/compliance-engine/pkg/storage"
)

// ErrInvalidAmount is returned for non-positive credit amounts. No mutation
// occurs.
var ErrInvalidAmount = errors.New("transfer amount must be positive")

// ErrWriteCapExceeded is returned when a credit exceeds the calling partner's
// write capability. No mutation occurs.
var ErrWriteCapExceeded = errors.New("amount exceeds partner write capability")

// ErrDesignatedWithdrawalAttempt is the policy-violation error for any
// attempted debit of a designated account.
var ErrDesignatedWithdrawalAttempt = errors.New("designated_withdrawal_attempt")

// ErrPolicyBreach signals that a debit was accepted by the underlying
// primitive. This is a fatal defect in the segregation policy, never a
// retryable condition.
var ErrPolicyBreach = errors.New("designated account policy breach: debit was not rejected")

// Store is the slice of the data layer the ledger needs.
type Store interface {
	storage.LedgerStore
	storage.AlertStore
	storage.AuditLog
}

// Service applies the transfer policy on top of the store's atomic credit
// primitive.
type Service struct {
	Store  Store
	Logger *slog.Logger
}

// NewService creates a new ledger Service.
func NewService(store Store, logger *slog.Logger) *Service {
	return &Service{Store: store, Logger: logger}
}

// CreditInput describes one partner-initiated credit.
type CreditInput struct {
	OrgID      string
	AccountID  string
	Amount     int64
	Source     string
	ActorID    string
	Capability models.PartnerCapability
}

// CreditResult is returned after a successful credit.
type CreditResult struct {
	AccountID  string `json:"account_id"`
	NewBalance int64  `json:"new_balance"`
	TransferID string `json:"transfer_id"`
}

// CreditDesignatedAccount validates the amount against the partner's write
// capability and applies the credit atomically (balance, transfer record and
// audit entry in one unit of work).
func (s *Service) CreditDesignatedAccount(ctx context.Context, input CreditInput) (*CreditResult, error) {
	if input.Amount <= 0 {
		return nil, ErrInvalidAmount
	}
	if input.Amount > input.Capability.MaxWriteCents {
		s.Logger.Warn("credit rejected by partner write cap",
			"org_id", input.OrgID,
			"account_id", input.AccountID,
			"amount", input.Amount,
			"max_write_cents", input.Capability.MaxWriteCents,
			"partner", input.Capability.ID,
		)
		return nil, fmt.Errorf("%w: %d > %d", ErrWriteCapExceeded, input.Amount, input.Capability.MaxWriteCents)
	}
	// 10*amount avoids float arithmetic for the 90% threshold.
	if input.Amount*10 >= input.Capability.MaxWriteCents*9 {
		s.Logger.Warn("credit approaching partner write cap",
			"org_id", input.OrgID,
			"account_id", input.AccountID,
			"amount", input.Amount,
			"max_write_cents", input.Capability.MaxWriteCents,
			"partner", input.Capability.ID,
		)
	}

	return s.applyTransfer(ctx, input)
}

// applyTransfer is the single primitive through which every designated
// account movement passes. Negative amounts are the policy boundary: they are
// rejected here, before any balance mutation, with an alert and an audit
// entry as side effects.
func (s *Service) applyTransfer(ctx context.Context, input CreditInput) (*CreditResult, error) {
	if input.Amount < 0 {
		if err := s.recordViolation(ctx, input); err != nil {
			return nil, err
		}
		return nil, fmt.Errorf("%w: attempted debit of %d on account %s",
			ErrDesignatedWithdrawalAttempt, input.Amount, input.AccountID)
	}
	if input.Amount == 0 {
		return nil, ErrInvalidAmount
	}

	transfer := &models.DesignatedTransfer{
		OrgID:     input.OrgID,
		AccountID: input.AccountID,
		Amount:    input.Amount,
		Source:    input.Source,
		ActorID:   input.ActorID,
	}
	audit := &models.AuditEntry{
		OrgID:   input.OrgID,
		ActorID: input.ActorID,
		Action:  models.ActionPartnerReconcile,
		Metadata: map[string]string{
			"account_id": input.AccountID,
			"amount":     fmt.Sprintf("%d", input.Amount),
			"source":     input.Source,
			"partner":    input.Capability.ID,
		},
	}

	newBalance, err := s.Store.CreditAccount(ctx, transfer, audit)
	if err != nil {
		return nil, err
	}

	return &CreditResult{
		AccountID:  input.AccountID,
		NewBalance: newBalance,
		TransferID: transfer.ID,
	}, nil
}

// recordViolation raises the HIGH withdrawal-attempt alert (find-or-create)
// and writes the violation audit entry.
func (s *Service) recordViolation(ctx context.Context, input CreditInput) error {
	message := fmt.Sprintf("Attempted withdrawal of %s from designated account %s", models.FormatCents(-input.Amount), input.AccountID)

	existing, err := s.Store.FindOpenAlert(ctx, input.OrgID, models.AlertDesignatedWithdrawalAttempt)
	if err != nil {
		return fmt.Errorf("failed to look up open violation alert: %w", err)
	}
	if existing == nil {
		_, err := s.Store.CreateAlert(ctx, &models.Alert{
			OrgID:    input.OrgID,
			Type:     models.AlertDesignatedWithdrawalAttempt,
			Severity: models.SeverityHigh,
			Message:  message,
		})
		if err != nil && !errors.Is(err, storage.ErrAlertAlreadyOpen) {
			return fmt.Errorf("failed to raise violation alert: %w", err)
		}
	}

	_, err = s.Store.AppendAudit(ctx, &models.AuditEntry{
		OrgID:   input.OrgID,
		ActorID: input.ActorID,
		Action:  models.ActionViolation,
		Metadata: map[string]string{
			"account_id": input.AccountID,
			"amount":     fmt.Sprintf("%d", input.Amount),
			"source":     input.Source,
			"violation":  "designated_withdrawal_attempt",
		},
	})
	if err != nil {
		return fmt.Errorf("failed to write violation audit entry: %w", err)
	}

	s.Logger.Error("designated account withdrawal attempt blocked",
		"org_id", input.OrgID,
		"account_id", input.AccountID,
		"amount", input.Amount,
		"actor_id", input.ActorID,
	)
	return nil
}

// DebitProbeInput describes a deliberate debit attempt used to verify the
// policy boundary. Amount is the positive magnitude to probe with.
type DebitProbeInput struct {
	OrgID     string
	AccountID string
	Amount    int64
	ActorID   string
}

// SimulateDebitAttempt drives a negative transfer through the same primitive
// credits use. A nil error means the boundary held: the debit was rejected,
// the alert is open and the violation is on the audit trail. If the debit
// were ever accepted the caller receives ErrPolicyBreach, which must be
// treated as fatal.
func (s *Service) SimulateDebitAttempt(ctx context.Context, input DebitProbeInput) error {
	if input.Amount <= 0 {
		return ErrInvalidAmount
	}

	_, err := s.applyTransfer(ctx, CreditInput{
		OrgID:     input.OrgID,
		AccountID: input.AccountID,
		Amount:    -input.Amount,
		Source:    "policy-probe",
		ActorID:   input.ActorID,
	})
	if err == nil {
		return fmt.Errorf("%w: account %s accepted a debit of %d", ErrPolicyBreach, input.AccountID, input.Amount)
	}
	if errors.Is(err, ErrDesignatedWithdrawalAttempt) {
		return nil
	}
	return err
}
