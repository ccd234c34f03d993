package storage

import (
	"context"
	"time"

	"github.com/clearbas/compliance-engine/pkg/models"
)

// LedgerReader defines the interface for reading designated-account state.
type LedgerReader interface {
	// GetAccount retrieves a designated account by its ID.
	GetAccount(ctx context.Context, accountID string) (*models.DesignatedAccount, error)

	// ListAccountsByOrg retrieves all designated accounts for an org.
	ListAccountsByOrg(ctx context.Context, orgID string) ([]models.DesignatedAccount, error)

	// ListOrgIDs retrieves the distinct org IDs that have designated accounts.
	ListOrgIDs(ctx context.Context) ([]string, error)

	// ListTransfersSince retrieves an account's transfers created at or after
	// the cutoff, oldest first.
	ListTransfersSince(ctx context.Context, accountID string, since time.Time) ([]models.DesignatedTransfer, error)
}

// LedgerWriter defines the privileged credit primitive. There is deliberately
// no debit counterpart: designated accounts are credit-only.
type LedgerWriter interface {
	// CreditAccount atomically increments the account balance by the transfer
	// amount, persists the transfer, and appends the audit entry. All three
	// writes happen in one storage transaction; partial application is
	// impossible. Returns the new balance.
	CreditAccount(ctx context.Context, transfer *models.DesignatedTransfer, audit *models.AuditEntry) (int64, error)
}

// LedgerStore combines the reader and writer interfaces.
type LedgerStore interface {
	LedgerReader
	LedgerWriter
}
