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

func marshalArtifact(t *testing.T, artifact models.EvidenceArtifact) map[string]types.AttributeValue {
	t.Helper()
	av, err := attributevalue.MarshalMap(artifact)
	assert.NoError(t, err)
	return av
}

func TestPutArtifact(t *testing.T) {
	artifact := &models.EvidenceArtifact{
		ID:        "artifact-1",
		OrgID:     "org-1",
		Kind:      "designated-reconciliation",
		SHA256:    "ab12",
		Payload:   `{"orgId":"org-1"}`,
		CreatedAt: time.Now().UTC(),
	}
	audit := &models.AuditEntry{OrgID: "org-1", ActorID: "auditor-1", Action: models.ActionReconciliation}

	t.Run("Success", func(t *testing.T) {
		mockClient := new(mocks.DynamoDBAPI)
		// No prior audit entries for the org.
		mockClient.On("Query", mock.Anything, mock.Anything).
			Return(&dynamodb.QueryOutput{}, nil)
		mockClient.On("TransactWriteItems", mock.Anything, mock.MatchedBy(func(input *dynamodb.TransactWriteItemsInput) bool {
			return len(input.TransactItems) == 2 &&
				input.TransactItems[0].Put != nil &&
				input.TransactItems[1].Put != nil
		})).Return(&dynamodb.TransactWriteItemsOutput{}, nil)

		store := New(mockClient, testTables())
		err := store.PutArtifact(context.Background(), artifact, audit)

		assert.NoError(t, err)
		mockClient.AssertExpectations(t)
	})
}

func TestSealArtifact(t *testing.T) {
	sealed := models.EvidenceArtifact{
		ID:      "artifact-1",
		OrgID:   "org-1",
		Kind:    "designated-reconciliation",
		SHA256:  "ab12",
		WormURI: "worm://bucket/artifact-1",
	}

	t.Run("Success", func(t *testing.T) {
		mockClient := new(mocks.DynamoDBAPI)
		mockClient.On("UpdateItem", mock.Anything, mock.Anything).
			Return(&dynamodb.UpdateItemOutput{Attributes: marshalArtifact(t, sealed)}, nil)

		store := New(mockClient, testTables())
		got, err := store.SealArtifact(context.Background(), "artifact-1", "worm://bucket/artifact-1")

		assert.NoError(t, err)
		assert.Equal(t, "worm://bucket/artifact-1", got.WormURI)
		mockClient.AssertExpectations(t)
	})

	t.Run("Already Sealed", func(t *testing.T) {
		mockClient := new(mocks.DynamoDBAPI)
		mockClient.On("UpdateItem", mock.Anything, mock.Anything).
			Return(nil, &types.ConditionalCheckFailedException{})
		mockClient.On("GetItem", mock.Anything, mock.Anything).
			Return(&dynamodb.GetItemOutput{Item: marshalArtifact(t, sealed)}, nil)

		store := New(mockClient, testTables())
		_, err := store.SealArtifact(context.Background(), "artifact-1", "worm://bucket/other")

		assert.ErrorIs(t, err, storage.ErrArtifactSealed)
		mockClient.AssertExpectations(t)
	})

	t.Run("Not Found", func(t *testing.T) {
		mockClient := new(mocks.DynamoDBAPI)
		mockClient.On("UpdateItem", mock.Anything, mock.Anything).
			Return(nil, &types.ConditionalCheckFailedException{})
		mockClient.On("GetItem", mock.Anything, mock.Anything).
			Return(&dynamodb.GetItemOutput{}, nil)

		store := New(mockClient, testTables())
		_, err := store.SealArtifact(context.Background(), "missing", "worm://bucket/missing")

		assert.ErrorIs(t, err, storage.ErrArtifactNotFound)
		mockClient.AssertExpectations(t)
	})
}
