package storage

import (
	"context"

	"github.com/clearbas/compliance-engine/pkg/models"
)

// EvidenceStore defines the append-only evidence artifact store.
type EvidenceStore interface {
	// PutArtifact persists a new artifact together with its audit entry in
	// one storage transaction. Existing artifacts are never overwritten.
	PutArtifact(ctx context.Context, artifact *models.EvidenceArtifact, audit *models.AuditEntry) error

	// GetArtifact retrieves an artifact by its ID.
	GetArtifact(ctx context.Context, artifactID string) (*models.EvidenceArtifact, error)

	// SealArtifact assigns the WORM URI exactly once. Returns
	// ErrArtifactSealed when the artifact already has one.
	SealArtifact(ctx context.Context, artifactID, wormURI string) (*models.EvidenceArtifact, error)
}
