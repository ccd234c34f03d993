package bas

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	basdomain "github.com/clearbas/compliance-engine/pkg/bas"
	"github.com/clearbas/compliance-engine/pkg/models"
	"github.com/clearbas/compliance-engine/pkg/storage"
	storage_mocks "github.com/clearbas/compliance-engine/pkg/storage/mocks"
)

func newTestRouter(mockStore *storage_mocks.Storage) *chi.Mux {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	handler := NewHandler(basdomain.NewOrchestrator(mockStore, logger))

	router := chi.NewRouter()
	router.Post("/orgs/{orgID}/bas/orchestrate", handler.Orchestrate)
	return router
}

func TestOrchestrate(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		mockStore := new(storage_mocks.Storage)
		mockStore.On("ListAccountsByOrg", mock.Anything, "org-1").
			Return([]models.DesignatedAccount{
				{ID: "acc-paygw", OrgID: "org-1", Type: models.PAYGW, Balance: 15000},
				{ID: "acc-gst", OrgID: "org-1", Type: models.GST, Balance: 4000},
			}, nil)
		mockStore.On("ListUnlodgedCycles", mock.Anything, "org-1").
			Return([]models.BasCycle{{
				ID:            "cycle-1",
				OrgID:         "org-1",
				PaygwRequired: 15000,
				GstRequired:   4000,
				OverallStatus: models.BLOCKED,
			}}, nil)
		mockStore.On("UpdateCycleReadiness", mock.Anything, mock.Anything, mock.Anything).Return(nil)
		mockStore.On("ResolveAlert", mock.Anything, "org-1", mock.Anything, mock.Anything).
			Return(nil, storage.ErrNoOpenAlert)

		router := newTestRouter(mockStore)
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/orgs/org-1/bas/orchestrate", nil))

		assert.Equal(t, http.StatusOK, rr.Code)

		var result basdomain.OrchestrationResult
		assert.NoError(t, json.Unmarshal(rr.Body.Bytes(), &result))
		assert.Equal(t, 1, result.Ready)
		assert.Equal(t, 0, result.Blocked)
		mockStore.AssertExpectations(t)
	})

	t.Run("Storage Error", func(t *testing.T) {
		mockStore := new(storage_mocks.Storage)
		mockStore.On("ListAccountsByOrg", mock.Anything, "org-1").
			Return(nil, assert.AnError)

		router := newTestRouter(mockStore)
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/orgs/org-1/bas/orchestrate", nil))

		assert.Equal(t, http.StatusInternalServerError, rr.Code)
		mockStore.AssertExpectations(t)
	})
}
