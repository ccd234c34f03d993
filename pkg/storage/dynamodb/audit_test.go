package dynamodb

import (
	"context"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/clearbas/compliance-engine/pkg/models"
	"github.com/clearbas/compliance-engine/pkg/storage/dynamodb/mocks"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func TestAppendAudit(t *testing.T) {
	newEntry := func() *models.AuditEntry {
		return &models.AuditEntry{
			OrgID:   "org-1",
			ActorID: "partner-1",
			Action:  models.ActionPartnerReconcile,
			Metadata: map[string]string{
				"account_id": "acc-1",
				"amount":     "500",
			},
		}
	}

	t.Run("First Entry Starts Chain", func(t *testing.T) {
		mockClient := new(mocks.DynamoDBAPI)
		mockClient.On("Query", mock.Anything, mock.Anything).
			Return(&dynamodb.QueryOutput{}, nil)
		mockClient.On("PutItem", mock.Anything, mock.Anything).
			Return(&dynamodb.PutItemOutput{}, nil)

		store := New(mockClient, testTables())
		entry, err := store.AppendAudit(context.Background(), newEntry())

		assert.NoError(t, err)
		assert.NotEmpty(t, entry.ID)
		assert.Empty(t, entry.PrevHash)
		assert.Len(t, entry.Hash, 64)
		mockClient.AssertExpectations(t)
	})

	t.Run("Links To Previous Hash", func(t *testing.T) {
		prior := auditItem{
			OrgID:     "org-1",
			SK:        "2026-08-01T10:00:00Z#audit-0",
			ID:        "audit-0",
			Action:    models.ActionReconciliation,
			CreatedAt: time.Now().UTC().Add(-time.Hour),
			Hash:      "1111111111111111111111111111111111111111111111111111111111111111",
		}
		priorAV, err := attributevalue.MarshalMap(prior)
		assert.NoError(t, err)

		mockClient := new(mocks.DynamoDBAPI)
		mockClient.On("Query", mock.Anything, mock.Anything).
			Return(&dynamodb.QueryOutput{Items: []map[string]types.AttributeValue{priorAV}}, nil)
		mockClient.On("PutItem", mock.Anything, mock.Anything).
			Return(&dynamodb.PutItemOutput{}, nil)

		store := New(mockClient, testTables())
		entry, err := store.AppendAudit(context.Background(), newEntry())

		assert.NoError(t, err)
		assert.Equal(t, prior.Hash, entry.PrevHash)
		assert.NotEqual(t, prior.Hash, entry.Hash)
		mockClient.AssertExpectations(t)
	})

	t.Run("Same Content Different Chain Position Changes Hash", func(t *testing.T) {
		first := newEntry()
		first.ID = "audit-1"
		first.CreatedAt = time.Date(2026, 8, 1, 10, 0, 0, 0, time.UTC)

		second := newEntry()
		second.ID = "audit-1"
		second.CreatedAt = first.CreatedAt
		second.PrevHash = "2222222222222222222222222222222222222222222222222222222222222222"

		firstHash, err := chainHash(first)
		assert.NoError(t, err)
		secondHash, err := chainHash(second)
		assert.NoError(t, err)

		assert.NotEqual(t, firstHash, secondHash)
	})
}
