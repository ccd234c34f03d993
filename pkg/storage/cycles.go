package storage

import (
	"context"

	"github.com/clearbas/compliance-engine/pkg/models"
)

// CycleStore defines the interface for BAS cycle readiness bookkeeping.
type CycleStore interface {
	// ListUnlodgedCycles retrieves the org's cycles with no lodgment yet,
	// ordered by period start ascending (oldest obligation first).
	ListUnlodgedCycles(ctx context.Context, orgID string) ([]models.BasCycle, error)

	// UpdateCycleReadiness persists the recomputed secured amounts and status
	// together with the orchestration audit entry in one storage transaction.
	UpdateCycleReadiness(ctx context.Context, cycle *models.BasCycle, audit *models.AuditEntry) error
}
