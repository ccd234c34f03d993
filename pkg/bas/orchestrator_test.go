package bas

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/clearbas/compliance-engine/pkg/models"
	"github.com/clearbas/compliance-engine/pkg/storage"
	storage_mocks "github.com/clearbas/compliance-engine/pkg/storage/mocks"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func quarterCycle(id string, start time.Time, paygwRequired, gstRequired int64) models.BasCycle {
	return models.BasCycle{
		ID:            id,
		OrgID:         "org-1",
		PeriodStart:   start,
		PeriodEnd:     start.AddDate(0, 3, 0),
		PaygwRequired: paygwRequired,
		GstRequired:   gstRequired,
		OverallStatus: models.BLOCKED,
	}
}

func orgAccounts(paygw, gst int64) []models.DesignatedAccount {
	return []models.DesignatedAccount{
		{ID: "acc-paygw", OrgID: "org-1", Type: models.PAYGW, Balance: paygw},
		{ID: "acc-gst", OrgID: "org-1", Type: models.GST, Balance: gst},
	}
}

func TestOrchestrate(t *testing.T) {
	q1 := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

	t.Run("Shortfall Blocks Cycle And Raises Alert", func(t *testing.T) {
		mockStore := new(storage_mocks.Storage)
		mockStore.On("ListAccountsByOrg", mock.Anything, "org-1").Return(orgAccounts(12000, 4000), nil)
		mockStore.On("ListUnlodgedCycles", mock.Anything, "org-1").
			Return([]models.BasCycle{quarterCycle("cycle-1", q1, 15000, 4000)}, nil)
		mockStore.On("UpdateCycleReadiness", mock.Anything,
			mock.MatchedBy(func(cycle *models.BasCycle) bool {
				return cycle.PaygwSecured == 12000 && cycle.GstSecured == 4000 && cycle.OverallStatus == models.BLOCKED
			}),
			mock.MatchedBy(func(audit *models.AuditEntry) bool {
				return audit.Action == models.ActionBasOrchestrated
			}),
		).Return(nil)
		mockStore.On("FindOpenAlert", mock.Anything, "org-1", models.AlertPaygwShortfall).Return(nil, nil)
		mockStore.On("CreateAlert", mock.Anything, mock.MatchedBy(func(alert *models.Alert) bool {
			return alert.Type == models.AlertPaygwShortfall && alert.Severity == models.SeverityHigh
		})).Return(&models.Alert{ID: "alert-1"}, nil)
		mockStore.On("ResolveAlert", mock.Anything, "org-1", models.AlertGstShortfall, mock.Anything).
			Return(nil, storage.ErrNoOpenAlert)

		orchestrator := NewOrchestrator(mockStore, testLogger())
		result, err := orchestrator.Orchestrate(context.Background(), "org-1")

		assert.NoError(t, err)
		assert.Equal(t, 0, result.Ready)
		assert.Equal(t, 1, result.Blocked)
		assert.Equal(t, 1, result.Updated)
		assert.Equal(t, int64(3000), result.PaygwShortfall)
		assert.Equal(t, int64(0), result.GstShortfall)
		mockStore.AssertExpectations(t)
	})

	t.Run("Covered Cycle Becomes Ready And Resolves Alert", func(t *testing.T) {
		cycle := quarterCycle("cycle-1", q1, 15000, 4000)
		cycle.PaygwSecured = 12000
		cycle.GstSecured = 4000

		mockStore := new(storage_mocks.Storage)
		mockStore.On("ListAccountsByOrg", mock.Anything, "org-1").Return(orgAccounts(15000, 4000), nil)
		mockStore.On("ListUnlodgedCycles", mock.Anything, "org-1").Return([]models.BasCycle{cycle}, nil)
		mockStore.On("UpdateCycleReadiness", mock.Anything,
			mock.MatchedBy(func(updated *models.BasCycle) bool {
				return updated.PaygwSecured == 15000 && updated.OverallStatus == models.READY
			}),
			mock.Anything,
		).Return(nil)
		mockStore.On("ResolveAlert", mock.Anything, "org-1", models.AlertPaygwShortfall, mock.Anything).
			Return(&models.Alert{ID: "alert-1"}, nil)
		mockStore.On("ResolveAlert", mock.Anything, "org-1", models.AlertGstShortfall, mock.Anything).
			Return(nil, storage.ErrNoOpenAlert)

		orchestrator := NewOrchestrator(mockStore, testLogger())
		result, err := orchestrator.Orchestrate(context.Background(), "org-1")

		assert.NoError(t, err)
		assert.Equal(t, 1, result.Ready)
		assert.Equal(t, 0, result.Blocked)
		mockStore.AssertExpectations(t)
	})

	t.Run("Unchanged Cycle Writes Nothing", func(t *testing.T) {
		cycle := quarterCycle("cycle-1", q1, 15000, 4000)
		cycle.PaygwSecured = 12000
		cycle.GstSecured = 4000
		cycle.OverallStatus = models.BLOCKED

		mockStore := new(storage_mocks.Storage)
		mockStore.On("ListAccountsByOrg", mock.Anything, "org-1").Return(orgAccounts(12000, 4000), nil)
		mockStore.On("ListUnlodgedCycles", mock.Anything, "org-1").Return([]models.BasCycle{cycle}, nil)
		mockStore.On("FindOpenAlert", mock.Anything, "org-1", models.AlertPaygwShortfall).
			Return(&models.Alert{ID: "alert-1", Type: models.AlertPaygwShortfall}, nil)
		mockStore.On("ResolveAlert", mock.Anything, "org-1", models.AlertGstShortfall, mock.Anything).
			Return(nil, storage.ErrNoOpenAlert)

		orchestrator := NewOrchestrator(mockStore, testLogger())
		result, err := orchestrator.Orchestrate(context.Background(), "org-1")

		assert.NoError(t, err)
		assert.Equal(t, 0, result.Updated)
		mockStore.AssertNotCalled(t, "UpdateCycleReadiness", mock.Anything, mock.Anything, mock.Anything)
		mockStore.AssertNotCalled(t, "CreateAlert", mock.Anything, mock.Anything)
		mockStore.AssertExpectations(t)
	})

	t.Run("Oldest Cycle Gets Funds First", func(t *testing.T) {
		older := quarterCycle("cycle-1", q1, 10000, 2000)
		newer := quarterCycle("cycle-2", q1.AddDate(0, 3, 0), 10000, 2000)

		var updates []models.BasCycle
		mockStore := new(storage_mocks.Storage)
		mockStore.On("ListAccountsByOrg", mock.Anything, "org-1").Return(orgAccounts(15000, 4000), nil)
		mockStore.On("ListUnlodgedCycles", mock.Anything, "org-1").Return([]models.BasCycle{older, newer}, nil)
		mockStore.On("UpdateCycleReadiness", mock.Anything, mock.Anything, mock.Anything).
			Run(func(args mock.Arguments) {
				updates = append(updates, *args.Get(1).(*models.BasCycle))
			}).Return(nil)
		mockStore.On("FindOpenAlert", mock.Anything, "org-1", models.AlertPaygwShortfall).Return(nil, nil)
		mockStore.On("CreateAlert", mock.Anything, mock.Anything).Return(&models.Alert{ID: "alert-1"}, nil)
		mockStore.On("ResolveAlert", mock.Anything, "org-1", models.AlertGstShortfall, mock.Anything).
			Return(nil, storage.ErrNoOpenAlert)

		orchestrator := NewOrchestrator(mockStore, testLogger())
		result, err := orchestrator.Orchestrate(context.Background(), "org-1")

		assert.NoError(t, err)
		assert.Len(t, updates, 2)
		assert.Equal(t, "cycle-1", updates[0].ID)
		assert.Equal(t, models.READY, updates[0].OverallStatus)
		assert.Equal(t, "cycle-2", updates[1].ID)
		assert.Equal(t, models.BLOCKED, updates[1].OverallStatus)
		assert.Equal(t, int64(5000), updates[1].PaygwSecured)
		assert.Equal(t, int64(5000), result.PaygwShortfall)
		mockStore.AssertExpectations(t)
	})
}
