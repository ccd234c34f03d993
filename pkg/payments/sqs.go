package payments

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sqs"
	"github.com/clearbas/compliance-engine/pkg/models"
)

// SQSAPI is the slice of the SQS client the escalator uses.
type SQSAPI interface {
	SendMessage(ctx context.Context, params *sqs.SendMessageInput, optFns ...func(*sqs.Options)) (*sqs.SendMessageOutput, error)
}

// EscalationMessage is the queue payload emitted for a terminally failed
// attempt.
type EscalationMessage struct {
	AttemptID    string    `json:"attempt_id"`
	BasCycleID   string    `json:"bas_cycle_id"`
	OrgID        string    `json:"org_id"`
	AttemptCount int       `json:"attempt_count"`
	Reason       string    `json:"reason"`
	FailedAt     time.Time `json:"failed_at"`
}

// SQSEscalator implements the FailureHandler interface using AWS SQS.
type SQSEscalator struct {
	Client   SQSAPI
	QueueURL string
}

// NewSQSEscalator creates a new SQSEscalator.
func NewSQSEscalator(client SQSAPI, queueURL string) *SQSEscalator {
	return &SQSEscalator{
		Client:   client,
		QueueURL: queueURL,
	}
}

// Make sure we conform to the interface
var _ FailureHandler = (*SQSEscalator)(nil)

// OnFailure sends the exhausted attempt to the escalation queue for manual
// follow-up.
func (s *SQSEscalator) OnFailure(ctx context.Context, attempt *models.BasPaymentAttempt, execErr error) error {
	msg := EscalationMessage{
		AttemptID:    attempt.ID,
		BasCycleID:   attempt.BasCycleID,
		OrgID:        attempt.OrgID,
		AttemptCount: attempt.AttemptCount,
		Reason:       execErr.Error(),
		FailedAt:     time.Now().UTC(),
	}

	body, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("failed to marshal escalation message for SQS: %w", err)
	}

	_, err = s.Client.SendMessage(ctx, &sqs.SendMessageInput{
		QueueUrl:    aws.String(s.QueueURL),
		MessageBody: aws.String(string(body)),
	})
	if err != nil {
		return fmt.Errorf("failed to send escalation message to SQS: %w", err)
	}

	return nil
}
