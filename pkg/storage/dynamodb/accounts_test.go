package dynamodb

import (
	"context"
	"errors"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/clearbas/compliance-engine/pkg/models"
	"github.com/clearbas/compliance-engine/pkg/storage"
	"github.com/clearbas/compliance-engine/pkg/storage/dynamodb/mocks"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func testTables() TableNames {
	return TableNames{
		Accounts:  "accounts",
		Transfers: "transfers",
		Alerts:    "alerts",
		Cycles:    "cycles",
		Attempts:  "attempts",
		Evidence:  "evidence",
		Audit:     "audit",
	}
}

func marshalAccount(t *testing.T, account models.DesignatedAccount) map[string]types.AttributeValue {
	t.Helper()
	item, err := attributevalue.MarshalMap(account)
	assert.NoError(t, err)
	return item
}

func TestGetAccount(t *testing.T) {
	account := models.DesignatedAccount{ID: "acc-1", OrgID: "org-1", Type: models.PAYGW, Balance: 12000}

	t.Run("Success", func(t *testing.T) {
		mockClient := new(mocks.DynamoDBAPI)
		mockClient.On("GetItem", mock.Anything, mock.Anything).
			Return(&dynamodb.GetItemOutput{Item: marshalAccount(t, account)}, nil)

		store := New(mockClient, testTables())
		got, err := store.GetAccount(context.Background(), "acc-1")

		assert.NoError(t, err)
		assert.Equal(t, int64(12000), got.Balance)
		assert.Equal(t, models.PAYGW, got.Type)
		mockClient.AssertExpectations(t)
	})

	t.Run("Not Found", func(t *testing.T) {
		mockClient := new(mocks.DynamoDBAPI)
		mockClient.On("GetItem", mock.Anything, mock.Anything).
			Return(&dynamodb.GetItemOutput{}, nil)

		store := New(mockClient, testTables())
		_, err := store.GetAccount(context.Background(), "missing")

		assert.ErrorIs(t, err, storage.ErrAccountNotFound)
		mockClient.AssertExpectations(t)
	})

	t.Run("Storage Error", func(t *testing.T) {
		mockClient := new(mocks.DynamoDBAPI)
		mockClient.On("GetItem", mock.Anything, mock.Anything).
			Return(nil, errors.New("some storage error"))

		store := New(mockClient, testTables())
		_, err := store.GetAccount(context.Background(), "acc-1")

		assert.Error(t, err)
		assert.Contains(t, err.Error(), "failed to get designated account from DynamoDB")
		mockClient.AssertExpectations(t)
	})
}

func TestCreditAccount(t *testing.T) {
	account := models.DesignatedAccount{ID: "acc-1", OrgID: "org-1", Type: models.PAYGW, Balance: 12000}

	newTransfer := func() *models.DesignatedTransfer {
		return &models.DesignatedTransfer{
			OrgID:     "org-1",
			AccountID: "acc-1",
			Amount:    500,
			Source:    "partner-feed",
			ActorID:   "partner-1",
		}
	}
	newAudit := func() *models.AuditEntry {
		return &models.AuditEntry{
			OrgID:   "org-1",
			ActorID: "partner-1",
			Action:  models.ActionPartnerReconcile,
		}
	}

	t.Run("Success", func(t *testing.T) {
		mockClient := new(mocks.DynamoDBAPI)
		mockClient.On("GetItem", mock.Anything, mock.Anything).
			Return(&dynamodb.GetItemOutput{Item: marshalAccount(t, account)}, nil)
		// No prior audit entries for the org.
		mockClient.On("Query", mock.Anything, mock.Anything).
			Return(&dynamodb.QueryOutput{}, nil)
		mockClient.On("TransactWriteItems", mock.Anything, mock.MatchedBy(func(input *dynamodb.TransactWriteItemsInput) bool {
			return len(input.TransactItems) == 3 &&
				input.TransactItems[0].Update != nil &&
				input.TransactItems[1].Put != nil &&
				input.TransactItems[2].Put != nil
		})).Return(&dynamodb.TransactWriteItemsOutput{}, nil)

		store := New(mockClient, testTables())
		transfer := newTransfer()
		newBalance, err := store.CreditAccount(context.Background(), transfer, newAudit())

		assert.NoError(t, err)
		assert.Equal(t, int64(12500), newBalance)
		assert.NotEmpty(t, transfer.ID)
		assert.False(t, transfer.CreatedAt.IsZero())
		mockClient.AssertExpectations(t)
	})

	t.Run("Balance Conflict", func(t *testing.T) {
		mockClient := new(mocks.DynamoDBAPI)
		mockClient.On("GetItem", mock.Anything, mock.Anything).
			Return(&dynamodb.GetItemOutput{Item: marshalAccount(t, account)}, nil)
		mockClient.On("Query", mock.Anything, mock.Anything).
			Return(&dynamodb.QueryOutput{}, nil)
		mockClient.On("TransactWriteItems", mock.Anything, mock.Anything).
			Return(nil, &types.TransactionCanceledException{
				CancellationReasons: []types.CancellationReason{
					{Code: aws.String("ConditionalCheckFailed")},
					{Code: aws.String("None")},
					{Code: aws.String("None")},
				},
			})

		store := New(mockClient, testTables())
		_, err := store.CreditAccount(context.Background(), newTransfer(), newAudit())

		assert.ErrorIs(t, err, storage.ErrBalanceConflict)
		mockClient.AssertExpectations(t)
	})

	t.Run("Account Not Found", func(t *testing.T) {
		mockClient := new(mocks.DynamoDBAPI)
		mockClient.On("GetItem", mock.Anything, mock.Anything).
			Return(&dynamodb.GetItemOutput{}, nil)

		store := New(mockClient, testTables())
		_, err := store.CreditAccount(context.Background(), newTransfer(), newAudit())

		assert.ErrorIs(t, err, storage.ErrAccountNotFound)
		mockClient.AssertExpectations(t)
	})

	t.Run("Org Mismatch", func(t *testing.T) {
		other := account
		other.OrgID = "org-2"

		mockClient := new(mocks.DynamoDBAPI)
		mockClient.On("GetItem", mock.Anything, mock.Anything).
			Return(&dynamodb.GetItemOutput{Item: marshalAccount(t, other)}, nil)

		store := New(mockClient, testTables())
		_, err := store.CreditAccount(context.Background(), newTransfer(), newAudit())

		assert.ErrorIs(t, err, storage.ErrAccountNotFound)
		mockClient.AssertExpectations(t)
	})
}

func TestListAccountsByOrg(t *testing.T) {
	t.Run("Merges Pages", func(t *testing.T) {
		paygw := models.DesignatedAccount{ID: "acc-1", OrgID: "org-1", Type: models.PAYGW, Balance: 12000}
		gst := models.DesignatedAccount{ID: "acc-2", OrgID: "org-1", Type: models.GST, Balance: 4000}
		lastKey := map[string]types.AttributeValue{"id": &types.AttributeValueMemberS{Value: "acc-1"}}

		mockClient := new(mocks.DynamoDBAPI)
		mockClient.On("Query", mock.Anything, mock.MatchedBy(func(input *dynamodb.QueryInput) bool {
			return input.ExclusiveStartKey == nil
		})).Return(&dynamodb.QueryOutput{
			Items:            []map[string]types.AttributeValue{marshalAccount(t, paygw)},
			LastEvaluatedKey: lastKey,
		}, nil).Once()
		mockClient.On("Query", mock.Anything, mock.MatchedBy(func(input *dynamodb.QueryInput) bool {
			return input.ExclusiveStartKey != nil
		})).Return(&dynamodb.QueryOutput{
			Items: []map[string]types.AttributeValue{marshalAccount(t, gst)},
		}, nil).Once()

		store := New(mockClient, testTables())
		accounts, err := store.ListAccountsByOrg(context.Background(), "org-1")

		assert.NoError(t, err)
		assert.Len(t, accounts, 2)
		assert.Equal(t, "acc-1", accounts[0].ID)
		assert.Equal(t, "acc-2", accounts[1].ID)
		mockClient.AssertExpectations(t)
	})
}

func TestListOrgIDs(t *testing.T) {
	t.Run("Deduplicates", func(t *testing.T) {
		items := make([]map[string]types.AttributeValue, 0, 3)
		for _, org := range []string{"org-1", "org-2", "org-1"} {
			items = append(items, map[string]types.AttributeValue{
				"org_id": &types.AttributeValueMemberS{Value: org},
			})
		}

		mockClient := new(mocks.DynamoDBAPI)
		mockClient.On("Scan", mock.Anything, mock.Anything).
			Return(&dynamodb.ScanOutput{Items: items}, nil)

		store := New(mockClient, testTables())
		orgs, err := store.ListOrgIDs(context.Background())

		assert.NoError(t, err)
		assert.Equal(t, []string{"org-1", "org-2"}, orgs)
		mockClient.AssertExpectations(t)
	})
}
