// Package designated exposes the designated-account ledger over HTTP.
package designated

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/clearbas/compliance-engine/pkg/ledger"
	"github.com/clearbas/compliance-engine/pkg/models"
	"github.com/clearbas/compliance-engine/pkg/storage"
)

// PolicyService is the slice of the ledger service the handler uses.
type PolicyService interface {
	CreditDesignatedAccount(ctx context.Context, input ledger.CreditInput) (*ledger.CreditResult, error)
	SimulateDebitAttempt(ctx context.Context, input ledger.DebitProbeInput) error
}

// Handler holds the dependencies for designated-account handlers.
type Handler struct {
	Ledger     PolicyService
	Store      storage.LedgerReader
	Capability models.PartnerCapability
}

// NewHandler creates a new Handler.
func NewHandler(ledgerService PolicyService, store storage.LedgerReader, capability models.PartnerCapability) *Handler {
	return &Handler{Ledger: ledgerService, Store: store, Capability: capability}
}

// CreditRequest is the body for crediting a designated account.
type CreditRequest struct {
	OrgID       string `json:"org_id"`
	AmountCents int64  `json:"amount_cents"`
	Source      string `json:"source"`
	ActorID     string `json:"actor_id"`
}

// CreditAccount handles the logic for crediting a designated account.
func (h *Handler) CreditAccount(w http.ResponseWriter, r *http.Request) {
	accountID := chi.URLParam(r, "accountID")

	var req CreditRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, fmt.Sprintf("Invalid request body: %v", err), http.StatusBadRequest)
		return
	}
	if req.OrgID == "" {
		http.Error(w, "org_id is required", http.StatusBadRequest)
		return
	}

	result, err := h.Ledger.CreditDesignatedAccount(r.Context(), ledger.CreditInput{
		OrgID:      req.OrgID,
		AccountID:  accountID,
		Amount:     req.AmountCents,
		Source:     req.Source,
		ActorID:    req.ActorID,
		Capability: h.Capability,
	})
	if err != nil {
		switch {
		case errors.Is(err, ledger.ErrInvalidAmount):
			http.Error(w, err.Error(), http.StatusBadRequest)
		case errors.Is(err, ledger.ErrWriteCapExceeded):
			http.Error(w, err.Error(), http.StatusConflict)
		case errors.Is(err, storage.ErrAccountNotFound):
			http.Error(w, "Designated account not found", http.StatusNotFound)
		case errors.Is(err, storage.ErrBalanceConflict):
			http.Error(w, "Account balance changed concurrently, retry the credit", http.StatusConflict)
		default:
			http.Error(w, fmt.Sprintf("Failed to credit account: %v", err), http.StatusInternalServerError)
		}
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	if err := json.NewEncoder(w).Encode(result); err != nil {
		http.Error(w, fmt.Sprintf("Failed to write response: %v", err), http.StatusInternalServerError)
	}
}

// DebitProbeRequest is the body for a deliberate debit attempt.
type DebitProbeRequest struct {
	OrgID       string `json:"org_id"`
	AmountCents int64  `json:"amount_cents"`
	ActorID     string `json:"actor_id"`
}

// DebitProbeResponse reports the outcome of a policy probe.
type DebitProbeResponse struct {
	AccountID  string `json:"account_id"`
	PolicyHeld bool   `json:"policy_held"`
}

// ProbeDebit handles the logic for verifying the credit-only boundary.
func (h *Handler) ProbeDebit(w http.ResponseWriter, r *http.Request) {
	accountID := chi.URLParam(r, "accountID")

	var req DebitProbeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, fmt.Sprintf("Invalid request body: %v", err), http.StatusBadRequest)
		return
	}

	err := h.Ledger.SimulateDebitAttempt(r.Context(), ledger.DebitProbeInput{
		OrgID:     req.OrgID,
		AccountID: accountID,
		Amount:    req.AmountCents,
		ActorID:   req.ActorID,
	})
	if err != nil {
		switch {
		case errors.Is(err, ledger.ErrInvalidAmount):
			http.Error(w, err.Error(), http.StatusBadRequest)
		default:
			http.Error(w, fmt.Sprintf("Debit probe failed: %v", err), http.StatusInternalServerError)
		}
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	resp := DebitProbeResponse{AccountID: accountID, PolicyHeld: true}
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		http.Error(w, fmt.Sprintf("Failed to write response: %v", err), http.StatusInternalServerError)
	}
}

// ListAccounts handles the logic for listing an org's designated accounts.
func (h *Handler) ListAccounts(w http.ResponseWriter, r *http.Request) {
	orgID := r.URL.Query().Get("org")
	if orgID == "" {
		http.Error(w, "org query parameter is required", http.StatusBadRequest)
		return
	}

	accounts, err := h.Store.ListAccountsByOrg(r.Context(), orgID)
	if err != nil {
		http.Error(w, fmt.Sprintf("Failed to retrieve accounts: %v", err), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(accounts); err != nil {
		http.Error(w, fmt.Sprintf("Failed to write response: %v", err), http.StatusInternalServerError)
	}
}
