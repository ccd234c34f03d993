// Package bas drives the BAS-cycle readiness state machine. Each run allocates
// an org's secured designated funds to its unlodged cycles, oldest first, and
// keeps the shortfall alerts in sync with the outcome.
package bas

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/clearbas/compliance-engine/pkg/models"
	"github.com/clearbas/compliance-engine/pkg/storage"
)

// systemActor identifies orchestrator-initiated writes on the audit trail.
const systemActor = "bas-orchestrator"

// Store is the slice of the data layer the orchestrator needs.
type Store interface {
	storage.LedgerReader
	storage.CycleStore
	storage.AlertStore
	storage.AuditLog
}

// Orchestrator recomputes cycle readiness from current designated balances.
type Orchestrator struct {
	Store  Store
	Logger *slog.Logger
}

// NewOrchestrator creates a new Orchestrator.
func NewOrchestrator(store Store, logger *slog.Logger) *Orchestrator {
	return &Orchestrator{Store: store, Logger: logger}
}

// OrchestrationResult summarizes one orchestration run for an org.
type OrchestrationResult struct {
	OrgID          string `json:"org_id"`
	Ready          int    `json:"ready"`
	Blocked        int    `json:"blocked"`
	Updated        int    `json:"updated"`
	PaygwShortfall int64  `json:"paygw_shortfall"`
	GstShortfall   int64  `json:"gst_shortfall"`
}

// Orchestrate loads the org's designated balances, allocates them to unlodged
// cycles oldest first and persists every cycle whose secured amounts or
// status changed. A cycle is READY only when both obligations are fully
// covered. Re-running with unchanged balances writes nothing.
func (o *Orchestrator) Orchestrate(ctx context.Context, orgID string) (*OrchestrationResult, error) {
	accounts, err := o.Store.ListAccountsByOrg(ctx, orgID)
	if err != nil {
		return nil, fmt.Errorf("failed to load designated accounts: %w", err)
	}

	var paygwAvailable, gstAvailable int64
	for _, account := range accounts {
		switch account.Type {
		case models.PAYGW:
			paygwAvailable += account.Balance
		case models.GST:
			gstAvailable += account.Balance
		}
	}

	cycles, err := o.Store.ListUnlodgedCycles(ctx, orgID)
	if err != nil {
		return nil, fmt.Errorf("failed to load unlodged cycles: %w", err)
	}

	result := &OrchestrationResult{OrgID: orgID}
	for i := range cycles {
		cycle := &cycles[i]

		paygwSecured := allocate(&paygwAvailable, cycle.PaygwRequired)
		gstSecured := allocate(&gstAvailable, cycle.GstRequired)

		status := models.BLOCKED
		if paygwSecured >= cycle.PaygwRequired && gstSecured >= cycle.GstRequired {
			status = models.READY
		}

		if status == models.READY {
			result.Ready++
		} else {
			result.Blocked++
			result.PaygwShortfall += shortfall(cycle.PaygwRequired, paygwSecured)
			result.GstShortfall += shortfall(cycle.GstRequired, gstSecured)
		}

		unchanged := cycle.PaygwSecured == paygwSecured &&
			cycle.GstSecured == gstSecured &&
			cycle.OverallStatus == status
		if unchanged {
			continue
		}

		previous := cycle.OverallStatus
		cycle.PaygwSecured = paygwSecured
		cycle.GstSecured = gstSecured
		cycle.OverallStatus = status

		audit := &models.AuditEntry{
			OrgID:   orgID,
			ActorID: systemActor,
			Action:  models.ActionBasOrchestrated,
			Metadata: map[string]string{
				"cycle_id":        cycle.ID,
				"previous_status": string(previous),
				"status":          string(status),
				"paygw_secured":   fmt.Sprintf("%d", paygwSecured),
				"gst_secured":     fmt.Sprintf("%d", gstSecured),
			},
		}
		if err := o.Store.UpdateCycleReadiness(ctx, cycle, audit); err != nil {
			return nil, fmt.Errorf("failed to update cycle %s: %w", cycle.ID, err)
		}
		result.Updated++

		o.Logger.Info("cycle readiness updated",
			"org_id", orgID,
			"cycle_id", cycle.ID,
			"status", status,
			"paygw_secured", paygwSecured,
			"gst_secured", gstSecured,
		)
	}

	if err := o.syncShortfallAlert(ctx, orgID, models.AlertPaygwShortfall, result.PaygwShortfall); err != nil {
		return nil, err
	}
	if err := o.syncShortfallAlert(ctx, orgID, models.AlertGstShortfall, result.GstShortfall); err != nil {
		return nil, err
	}

	return result, nil
}

// allocate takes up to required from the remaining pool and returns the
// amount secured.
func allocate(remaining *int64, required int64) int64 {
	if required <= 0 {
		return 0
	}
	secured := required
	if *remaining < required {
		secured = *remaining
	}
	if secured < 0 {
		secured = 0
	}
	*remaining -= secured
	return secured
}

func shortfall(required, secured int64) int64 {
	if secured >= required {
		return 0
	}
	return required - secured
}

// syncShortfallAlert converges the open shortfall alert for one obligation
// type onto the run's outcome: open it when a shortfall exists, resolve it
// when the obligation is covered. At most one open alert per type per org.
func (o *Orchestrator) syncShortfallAlert(ctx context.Context, orgID, alertType string, amount int64) error {
	if amount > 0 {
		existing, err := o.Store.FindOpenAlert(ctx, orgID, alertType)
		if err != nil {
			return fmt.Errorf("failed to look up open %s alert: %w", alertType, err)
		}
		if existing != nil {
			return nil
		}
		_, err = o.Store.CreateAlert(ctx, &models.Alert{
			OrgID:    orgID,
			Type:     alertType,
			Severity: models.SeverityHigh,
			Message:  fmt.Sprintf("Unlodged BAS cycles short by %s", models.FormatCents(amount)),
		})
		if err != nil && !errors.Is(err, storage.ErrAlertAlreadyOpen) {
			return fmt.Errorf("failed to raise %s alert: %w", alertType, err)
		}
		return nil
	}

	_, err := o.Store.ResolveAlert(ctx, orgID, alertType, "obligation covered by secured funds")
	if err != nil && !errors.Is(err, storage.ErrNoOpenAlert) {
		return fmt.Errorf("failed to resolve %s alert: %w", alertType, err)
	}
	return nil
}
