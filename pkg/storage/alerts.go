package storage

import (
	"context"

	"github.com/clearbas/compliance-engine/pkg/models"
)

// AlertStore defines the open-alert lifecycle. The implementation must
// enforce at most one open alert per (org, type) at the storage layer, not
// by application-level sequencing.
type AlertStore interface {
	// FindOpenAlert returns the open alert of the given type for the org, or
	// nil when none is open.
	FindOpenAlert(ctx context.Context, orgID, alertType string) (*models.Alert, error)

	// CreateAlert persists a new open alert. Returns ErrAlertAlreadyOpen when
	// an open alert of the same (org, type) exists; concurrent creates
	// collapse into that error rather than duplicating.
	CreateAlert(ctx context.Context, alert *models.Alert) (*models.Alert, error)

	// ResolveAlert resolves the open alert of the given type, stamping
	// ResolvedAt and the optional note. Returns ErrNoOpenAlert when nothing
	// is open. The alert keeps its original ID.
	ResolveAlert(ctx context.Context, orgID, alertType, note string) (*models.Alert, error)
}
