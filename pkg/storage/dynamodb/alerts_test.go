package dynamodb

import (
	"context"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/clearbas/compliance-engine/pkg/models"
	"github.com/clearbas/compliance-engine/pkg/storage"
	"github.com/clearbas/compliance-engine/pkg/storage/dynamodb/mocks"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func marshalAlertItem(t *testing.T, item alertItem) map[string]types.AttributeValue {
	t.Helper()
	av, err := attributevalue.MarshalMap(item)
	assert.NoError(t, err)
	return av
}

func TestFindOpenAlert(t *testing.T) {
	t.Run("Found", func(t *testing.T) {
		item := alertItem{
			OrgID:     "org-1",
			SK:        openAlertSK(models.AlertPaygwShortfall),
			ID:        "alert-1",
			Type:      models.AlertPaygwShortfall,
			Severity:  models.SeverityHigh,
			Message:   "Unlodged BAS cycles short by $30.00",
			CreatedAt: time.Now().UTC(),
		}

		mockClient := new(mocks.DynamoDBAPI)
		mockClient.On("GetItem", mock.Anything, mock.Anything).
			Return(&dynamodb.GetItemOutput{Item: marshalAlertItem(t, item)}, nil)

		store := New(mockClient, testTables())
		alert, err := store.FindOpenAlert(context.Background(), "org-1", models.AlertPaygwShortfall)

		assert.NoError(t, err)
		assert.Equal(t, "alert-1", alert.ID)
		assert.Nil(t, alert.ResolvedAt)
		mockClient.AssertExpectations(t)
	})

	t.Run("None Open", func(t *testing.T) {
		mockClient := new(mocks.DynamoDBAPI)
		mockClient.On("GetItem", mock.Anything, mock.Anything).
			Return(&dynamodb.GetItemOutput{}, nil)

		store := New(mockClient, testTables())
		alert, err := store.FindOpenAlert(context.Background(), "org-1", models.AlertPaygwShortfall)

		assert.NoError(t, err)
		assert.Nil(t, alert)
		mockClient.AssertExpectations(t)
	})
}

func TestCreateAlert(t *testing.T) {
	newAlert := func() *models.Alert {
		return &models.Alert{
			OrgID:    "org-1",
			Type:     models.AlertDesignatedWithdrawalAttempt,
			Severity: models.SeverityHigh,
			Message:  "Attempted withdrawal of $2.00 from designated account acc-1",
		}
	}

	t.Run("Success", func(t *testing.T) {
		mockClient := new(mocks.DynamoDBAPI)
		mockClient.On("PutItem", mock.Anything, mock.Anything).
			Return(&dynamodb.PutItemOutput{}, nil)

		store := New(mockClient, testTables())
		created, err := store.CreateAlert(context.Background(), newAlert())

		assert.NoError(t, err)
		assert.NotEmpty(t, created.ID)
		assert.False(t, created.CreatedAt.IsZero())
		mockClient.AssertExpectations(t)
	})

	t.Run("Already Open", func(t *testing.T) {
		mockClient := new(mocks.DynamoDBAPI)
		mockClient.On("PutItem", mock.Anything, mock.Anything).
			Return(nil, &types.ConditionalCheckFailedException{})

		store := New(mockClient, testTables())
		_, err := store.CreateAlert(context.Background(), newAlert())

		assert.ErrorIs(t, err, storage.ErrAlertAlreadyOpen)
		mockClient.AssertExpectations(t)
	})
}

func TestResolveAlert(t *testing.T) {
	open := alertItem{
		OrgID:     "org-1",
		SK:        openAlertSK(models.AlertGstShortfall),
		ID:        "alert-7",
		Type:      models.AlertGstShortfall,
		Severity:  models.SeverityHigh,
		Message:   "Unlodged BAS cycles short by $10.00",
		CreatedAt: time.Now().UTC(),
	}

	t.Run("Success", func(t *testing.T) {
		mockClient := new(mocks.DynamoDBAPI)
		mockClient.On("GetItem", mock.Anything, mock.Anything).
			Return(&dynamodb.GetItemOutput{Item: marshalAlertItem(t, open)}, nil)
		mockClient.On("TransactWriteItems", mock.Anything, mock.MatchedBy(func(input *dynamodb.TransactWriteItemsInput) bool {
			return len(input.TransactItems) == 2 &&
				input.TransactItems[0].Put != nil &&
				input.TransactItems[1].Delete != nil
		})).Return(&dynamodb.TransactWriteItemsOutput{}, nil)

		store := New(mockClient, testTables())
		resolved, err := store.ResolveAlert(context.Background(), "org-1", models.AlertGstShortfall, "obligation covered")

		assert.NoError(t, err)
		assert.Equal(t, "alert-7", resolved.ID)
		assert.NotNil(t, resolved.ResolvedAt)
		assert.Equal(t, "obligation covered", resolved.ResolutionNote)
		mockClient.AssertExpectations(t)
	})

	t.Run("No Open Alert", func(t *testing.T) {
		mockClient := new(mocks.DynamoDBAPI)
		mockClient.On("GetItem", mock.Anything, mock.Anything).
			Return(&dynamodb.GetItemOutput{}, nil)

		store := New(mockClient, testTables())
		_, err := store.ResolveAlert(context.Background(), "org-1", models.AlertGstShortfall, "n/a")

		assert.ErrorIs(t, err, storage.ErrNoOpenAlert)
		mockClient.AssertExpectations(t)
	})
}
