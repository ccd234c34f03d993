// Package evidence exposes evidence-artifact generation and sealing over HTTP.
package evidence

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"

	evdomain "github.com/clearbas/compliance-engine/pkg/evidence"
	"github.com/clearbas/compliance-engine/pkg/models"
	"github.com/clearbas/compliance-engine/pkg/storage"
)

// Generator is the slice of the evidence service the handler uses.
type Generator interface {
	GenerateReconciliationArtifact(ctx context.Context, orgID, actorID string) (*evdomain.Result, error)
	SealArtifact(ctx context.Context, artifactID, wormURI string) (*models.EvidenceArtifact, error)
}

// Handler holds the dependencies for evidence handlers.
type Handler struct {
	Generator Generator
	Store     storage.EvidenceStore
}

// NewHandler creates a new Handler.
func NewHandler(generator Generator, store storage.EvidenceStore) *Handler {
	return &Handler{Generator: generator, Store: store}
}

// GenerateRequest is the body for generating a reconciliation artifact.
type GenerateRequest struct {
	ActorID string `json:"actor_id"`
}

// GenerateReconciliation handles the logic for creating a new reconciliation
// artifact for an org.
func (h *Handler) GenerateReconciliation(w http.ResponseWriter, r *http.Request) {
	orgID := chi.URLParam(r, "orgID")

	var req GenerateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, fmt.Sprintf("Invalid request body: %v", err), http.StatusBadRequest)
		return
	}

	result, err := h.Generator.GenerateReconciliationArtifact(r.Context(), orgID, req.ActorID)
	if err != nil {
		http.Error(w, fmt.Sprintf("Failed to generate reconciliation artifact: %v", err), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	if err := json.NewEncoder(w).Encode(result); err != nil {
		http.Error(w, fmt.Sprintf("Failed to write response: %v", err), http.StatusInternalServerError)
	}
}

// SealRequest is the body for sealing an artifact.
type SealRequest struct {
	WormURI string `json:"worm_uri"`
}

// SealArtifact handles the logic for the one-time WORM seal.
func (h *Handler) SealArtifact(w http.ResponseWriter, r *http.Request) {
	artifactID := chi.URLParam(r, "artifactID")

	var req SealRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, fmt.Sprintf("Invalid request body: %v", err), http.StatusBadRequest)
		return
	}

	sealed, err := h.Generator.SealArtifact(r.Context(), artifactID, req.WormURI)
	if err != nil {
		switch {
		case errors.Is(err, evdomain.ErrEmptyWormURI):
			http.Error(w, err.Error(), http.StatusBadRequest)
		case errors.Is(err, storage.ErrArtifactNotFound):
			http.Error(w, "Evidence artifact not found", http.StatusNotFound)
		case errors.Is(err, storage.ErrArtifactSealed):
			http.Error(w, "Evidence artifact is already sealed", http.StatusConflict)
		default:
			http.Error(w, fmt.Sprintf("Failed to seal artifact: %v", err), http.StatusInternalServerError)
		}
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(sealed); err != nil {
		http.Error(w, fmt.Sprintf("Failed to write response: %v", err), http.StatusInternalServerError)
	}
}

// GetArtifact handles the logic for retrieving an artifact by its ID.
func (h *Handler) GetArtifact(w http.ResponseWriter, r *http.Request) {
	artifactID := chi.URLParam(r, "artifactID")

	artifact, err := h.Store.GetArtifact(r.Context(), artifactID)
	if err != nil {
		if errors.Is(err, storage.ErrArtifactNotFound) {
			http.Error(w, "Evidence artifact not found", http.StatusNotFound)
			return
		}
		http.Error(w, fmt.Sprintf("Failed to retrieve artifact: %v", err), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(artifact); err != nil {
		http.Error(w, fmt.Sprintf("Failed to write response: %v", err), http.StatusInternalServerError)
	}
}
