package payments

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/aws/aws-sdk-go-v2/service/sqs"
	"github.com/clearbas/compliance-engine/pkg/models"
	payments_mocks "github.com/clearbas/compliance-engine/pkg/payments/mocks"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func TestSQSEscalatorOnFailure(t *testing.T) {
	attempt := &models.BasPaymentAttempt{
		ID:           "att-1",
		BasCycleID:   "cycle-1",
		OrgID:        "org-1",
		Status:       models.FAILED,
		AttemptCount: MaxAttempts,
	}
	execErr := errors.New("partner rejected")

	t.Run("Success", func(t *testing.T) {
		var sent *sqs.SendMessageInput

		mockClient := new(payments_mocks.SQSAPI)
		mockClient.On("SendMessage", mock.Anything, mock.Anything).
			Run(func(args mock.Arguments) {
				sent = args.Get(1).(*sqs.SendMessageInput)
			}).Return(&sqs.SendMessageOutput{}, nil)

		escalator := NewSQSEscalator(mockClient, "https://sqs.example/escalations")
		err := escalator.OnFailure(context.Background(), attempt, execErr)

		assert.NoError(t, err)
		assert.Equal(t, "https://sqs.example/escalations", *sent.QueueUrl)

		var msg EscalationMessage
		assert.NoError(t, json.Unmarshal([]byte(*sent.MessageBody), &msg))
		assert.Equal(t, "att-1", msg.AttemptID)
		assert.Equal(t, MaxAttempts, msg.AttemptCount)
		assert.Equal(t, "partner rejected", msg.Reason)
		mockClient.AssertExpectations(t)
	})

	t.Run("Send Failure", func(t *testing.T) {
		mockClient := new(payments_mocks.SQSAPI)
		mockClient.On("SendMessage", mock.Anything, mock.Anything).
			Return(nil, errors.New("queue unavailable"))

		escalator := NewSQSEscalator(mockClient, "https://sqs.example/escalations")
		err := escalator.OnFailure(context.Background(), attempt, execErr)

		assert.Error(t, err)
		assert.Contains(t, err.Error(), "failed to send escalation message to SQS")
		mockClient.AssertExpectations(t)
	})
}
