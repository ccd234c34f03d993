// Package evidence builds hash-addressed reconciliation artifacts for
// regulator audit. Payloads are canonical: fixed struct field order, integer
// minor-unit amounts and UTC timestamps, so any third party can recompute the
// digest from the stored payload bytes and match it exactly.
package evidence

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/clearbas/compliance-engine/pkg/models"
	"github.com/clearbas/compliance-engine/pkg/storage"
	"github.com/google/uuid"
)

// KindDesignatedReconciliation is the artifact kind produced by the
// generator.
const KindDesignatedReconciliation = "designated-reconciliation"

// ErrEmptyWormURI is returned when sealing with a blank URI.
var ErrEmptyWormURI = errors.New("worm uri must not be empty")

// movementWindow bounds the inflow aggregation included in each snapshot.
const movementWindow = 24 * time.Hour

// Store is the slice of the data layer the generator needs. It reads ledger
// state and only ever writes its own artifacts.
type Store interface {
	storage.LedgerReader
	storage.EvidenceStore
	storage.AuditLog
}

// Generator assembles and persists reconciliation artifacts.
type Generator struct {
	Store  Store
	Logger *slog.Logger
}

// NewGenerator creates a new Generator.
func NewGenerator(store Store, logger *slog.Logger) *Generator {
	return &Generator{Store: store, Logger: logger}
}

// Totals aggregates designated balances per obligation type, in cents.
type Totals struct {
	Paygw int64 `json:"paygw"`
	Gst   int64 `json:"gst"`
}

// AccountMovement summarizes one account's recent activity.
type AccountMovement struct {
	AccountID        string             `json:"accountId"`
	Type             models.AccountType `json:"type"`
	Balance          int64              `json:"balance"`
	Inflow24h        int64              `json:"inflow24h"`
	TransferCount24h int                `json:"transferCount24h"`
}

// ReconciliationSnapshot is the canonical artifact payload. Field order is
// the canonical serialization order; movements are sorted by account id.
type ReconciliationSnapshot struct {
	OrgID       string            `json:"orgId"`
	GeneratedAt string            `json:"generatedAt"`
	Totals      Totals            `json:"totals"`
	Movements   []AccountMovement `json:"movements"`
}

// Result is returned to the caller after generation.
type Result struct {
	ArtifactID string                 `json:"artifact_id"`
	SHA256     string                 `json:"sha256"`
	Summary    ReconciliationSnapshot `json:"summary"`
}

// Canonicalize serializes a snapshot into its canonical byte form, the exact
// bytes the digest covers.
func Canonicalize(snapshot ReconciliationSnapshot) ([]byte, error) {
	return json.Marshal(snapshot)
}

// Digest computes the lowercase-hex SHA-256 of the canonical bytes.
func Digest(canonical []byte) string {
	sum := sha256.Sum256(canonical)
	return hex.EncodeToString(sum[:])
}

// VerifyArtifact recomputes the digest over the stored payload and reports
// whether it matches the stored digest.
func VerifyArtifact(artifact *models.EvidenceArtifact) bool {
	return Digest([]byte(artifact.Payload)) == artifact.SHA256
}

// GenerateReconciliationArtifact snapshots the org's designated accounts,
// digests the canonical payload and appends a new artifact. Prior artifacts
// are never touched; repeat calls with unchanged totals still create new
// records.
func (g *Generator) GenerateReconciliationArtifact(ctx context.Context, orgID, actorID string) (*Result, error) {
	now := time.Now().UTC()
	cutoff := now.Add(-movementWindow)

	accounts, err := g.Store.ListAccountsByOrg(ctx, orgID)
	if err != nil {
		return nil, fmt.Errorf("failed to load designated accounts: %w", err)
	}
	sort.Slice(accounts, func(i, j int) bool { return accounts[i].ID < accounts[j].ID })

	var totals Totals
	movements := make([]AccountMovement, 0, len(accounts))
	for _, account := range accounts {
		transfers, err := g.Store.ListTransfersSince(ctx, account.ID, cutoff)
		if err != nil {
			return nil, fmt.Errorf("failed to load transfers for account %s: %w", account.ID, err)
		}

		var inflow int64
		for _, transfer := range transfers {
			inflow += transfer.Amount
		}

		movements = append(movements, AccountMovement{
			AccountID:        account.ID,
			Type:             account.Type,
			Balance:          account.Balance,
			Inflow24h:        inflow,
			TransferCount24h: len(transfers),
		})

		switch account.Type {
		case models.PAYGW:
			totals.Paygw += account.Balance
		case models.GST:
			totals.Gst += account.Balance
		}
	}

	snapshot := ReconciliationSnapshot{
		OrgID:       orgID,
		GeneratedAt: now.Format(time.RFC3339Nano),
		Totals:      totals,
		Movements:   movements,
	}

	canonical, err := Canonicalize(snapshot)
	if err != nil {
		return nil, fmt.Errorf("failed to canonicalize snapshot: %w", err)
	}
	digest := Digest(canonical)

	artifact := &models.EvidenceArtifact{
		ID:        uuid.New().String(),
		OrgID:     orgID,
		Kind:      KindDesignatedReconciliation,
		SHA256:    digest,
		Payload:   string(canonical),
		CreatedAt: now,
	}
	audit := &models.AuditEntry{
		OrgID:   orgID,
		ActorID: actorID,
		Action:  models.ActionReconciliation,
		Metadata: map[string]string{
			"artifact_id": artifact.ID,
			"sha256":      digest,
			"paygw_total": fmt.Sprintf("%d", totals.Paygw),
			"gst_total":   fmt.Sprintf("%d", totals.Gst),
		},
	}

	if err := g.Store.PutArtifact(ctx, artifact, audit); err != nil {
		return nil, err
	}

	g.Logger.Info("reconciliation artifact generated",
		"org_id", orgID,
		"artifact_id", artifact.ID,
		"sha256", digest,
	)

	return &Result{
		ArtifactID: artifact.ID,
		SHA256:     digest,
		Summary:    snapshot,
	}, nil
}

// SealArtifact assigns the artifact's WORM URI exactly once. After sealing,
// no field of the artifact changes again; the storage layer enforces the
// one-time write.
func (g *Generator) SealArtifact(ctx context.Context, artifactID, wormURI string) (*models.EvidenceArtifact, error) {
	if wormURI == "" {
		return nil, ErrEmptyWormURI
	}

	sealed, err := g.Store.SealArtifact(ctx, artifactID, wormURI)
	if err != nil {
		return nil, err
	}

	g.Logger.Info("evidence artifact sealed",
		"artifact_id", artifactID,
		"worm_uri", wormURI,
	)
	return sealed, nil
}
