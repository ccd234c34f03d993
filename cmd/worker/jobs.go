package main

import (
	"context"
	"log/slog"

	"github.com/clearbas/compliance-engine/pkg/bas"
	"github.com/clearbas/compliance-engine/pkg/payments"
	"github.com/clearbas/compliance-engine/pkg/storage"
)

// Jobs contains the logic for all scheduled tasks.
type Jobs struct {
	Store        storage.LedgerReader
	Scheduler    *payments.Scheduler
	Orchestrator *bas.Orchestrator
	Logger       *slog.Logger
}

// ProcessPaymentRetries runs one pass of the payment retry loop.
func (j *Jobs) ProcessPaymentRetries() {
	j.Logger.Info("starting payment retry job")
	ctx := context.Background()

	result, err := j.Scheduler.ProcessQueue(ctx, payments.Options{})
	if err != nil {
		j.Logger.Error("payment retry job failed", "error", err)
		return
	}

	j.Logger.Info("payment retry job finished",
		"due", result.Due,
		"succeeded", result.Succeeded,
		"retried", result.Retried,
		"exhausted", result.Exhausted,
		"offline", result.Offline,
		"skipped", result.Skipped,
	)
}

// OrchestrateAllOrgs recomputes BAS-cycle readiness for every known org.
func (j *Jobs) OrchestrateAllOrgs() {
	j.Logger.Info("starting orchestration sweep job")
	ctx := context.Background()

	orgIDs, err := j.Store.ListOrgIDs(ctx)
	if err != nil {
		j.Logger.Error("failed to list orgs for orchestration sweep", "error", err)
		return
	}

	for _, orgID := range orgIDs {
		result, err := j.Orchestrator.Orchestrate(ctx, orgID)
		if err != nil {
			j.Logger.Error("orchestration failed", "org_id", orgID, "error", err)
			continue
		}
		j.Logger.Info("orchestration finished",
			"org_id", orgID,
			"ready", result.Ready,
			"blocked", result.Blocked,
			"updated", result.Updated,
		)
	}
}
