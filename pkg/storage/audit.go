package storage

import (
	"context"

	"github.com/clearbas/compliance-engine/pkg/models"
)

// AuditLog defines the append-only audit trail consumed by every component.
type AuditLog interface {
	// AppendAudit persists the entry, filling in its ID, timestamp and hash
	// chain fields, and returns the persisted entry.
	AppendAudit(ctx context.Context, entry *models.AuditEntry) (*models.AuditEntry, error)
}
