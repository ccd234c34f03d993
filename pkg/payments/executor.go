package payments

import (
	"context"

	"github.com/clearbas/compliance-engine/pkg/models"
)

// Executor submits one BAS payment attempt to the banking partner.
type Executor interface {
	Execute(ctx context.Context, attempt *models.BasPaymentAttempt) error
}

// FailureHandler is notified exactly once when an attempt exhausts its
// retries and becomes terminally FAILED.
type FailureHandler interface {
	OnFailure(ctx context.Context, attempt *models.BasPaymentAttempt, execErr error) error
}
