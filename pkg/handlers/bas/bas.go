// Package bas exposes BAS-cycle orchestration over HTTP.
package bas

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"

	basdomain "github.com/clearbas/compliance-engine/pkg/bas"
)

// Orchestrator is the slice of the orchestration service the handler uses.
type Orchestrator interface {
	Orchestrate(ctx context.Context, orgID string) (*basdomain.OrchestrationResult, error)
}

// Handler holds the dependencies for BAS handlers.
type Handler struct {
	Orchestrator Orchestrator
}

// NewHandler creates a new Handler.
func NewHandler(orchestrator Orchestrator) *Handler {
	return &Handler{Orchestrator: orchestrator}
}

// Orchestrate handles the logic for running one orchestration pass for an org.
func (h *Handler) Orchestrate(w http.ResponseWriter, r *http.Request) {
	orgID := chi.URLParam(r, "orgID")

	result, err := h.Orchestrator.Orchestrate(r.Context(), orgID)
	if err != nil {
		http.Error(w, fmt.Sprintf("Failed to orchestrate BAS cycles: %v", err), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(result); err != nil {
		http.Error(w, fmt.Sprintf("Failed to write response: %v", err), http.StatusInternalServerError)
	}
}
