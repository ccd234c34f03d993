package dynamodb

import (
	"context"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/clearbas/compliance-engine/pkg/models"
	"github.com/clearbas/compliance-engine/pkg/storage"
)

// PutArtifact persists a new evidence artifact together with its audit entry
// in one transaction. The conditional put keeps the table append-only: an
// existing artifact is never overwritten.
func (s *Store) PutArtifact(ctx context.Context, artifact *models.EvidenceArtifact, audit *models.AuditEntry) error {
	artifactAV, err := attributevalue.MarshalMap(artifact)
	if err != nil {
		return fmt.Errorf("failed to marshal evidence artifact: %w", err)
	}

	auditItem, err := s.prepareAuditItem(ctx, audit, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("failed to prepare audit entry: %w", err)
	}

	input := &dynamodb.TransactWriteItemsInput{
		TransactItems: []types.TransactWriteItem{
			{
				Put: &types.Put{
					TableName:           aws.String(s.Tables.Evidence),
					Item:                artifactAV,
					ConditionExpression: aws.String("attribute_not_exists(id)"),
				},
			},
			{
				Put: &types.Put{
					TableName:           aws.String(s.Tables.Audit),
					Item:                auditItem,
					ConditionExpression: aws.String("attribute_not_exists(sk)"),
				},
			},
		},
	}

	if _, err := s.Client.TransactWriteItems(ctx, input); err != nil {
		return fmt.Errorf("failed to persist evidence artifact: %w", err)
	}
	return nil
}

// GetArtifact retrieves an evidence artifact by its ID.
func (s *Store) GetArtifact(ctx context.Context, artifactID string) (*models.EvidenceArtifact, error) {
	input := &dynamodb.GetItemInput{
		TableName:      aws.String(s.Tables.Evidence),
		Key:            map[string]types.AttributeValue{"id": &types.AttributeValueMemberS{Value: artifactID}},
		ConsistentRead: aws.Bool(true),
	}

	result, err := s.Client.GetItem(ctx, input)
	if err != nil {
		return nil, fmt.Errorf("failed to get evidence artifact from DynamoDB: %w", err)
	}
	if result.Item == nil {
		return nil, storage.ErrArtifactNotFound
	}

	var artifact models.EvidenceArtifact
	if err := attributevalue.UnmarshalMap(result.Item, &artifact); err != nil {
		return nil, fmt.Errorf("failed to unmarshal evidence artifact: %w", err)
	}
	return &artifact, nil
}

// SealArtifact assigns the WORM URI exactly once. The conditional update is
// the storage-layer enforcement of the one-time seal: a second seal fails
// the attribute_not_exists check regardless of application sequencing.
func (s *Store) SealArtifact(ctx context.Context, artifactID, wormURI string) (*models.EvidenceArtifact, error) {
	input := &dynamodb.UpdateItemInput{
		TableName: aws.String(s.Tables.Evidence),
		Key: map[string]types.AttributeValue{
			"id": &types.AttributeValueMemberS{Value: artifactID},
		},
		UpdateExpression:    aws.String("SET worm_uri = :uri"),
		ConditionExpression: aws.String("attribute_exists(id) AND attribute_not_exists(worm_uri)"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":uri": &types.AttributeValueMemberS{Value: wormURI},
		},
		ReturnValues: types.ReturnValueAllNew,
	}

	result, err := s.Client.UpdateItem(ctx, input)
	if err != nil {
		if isConditionalCheckFailed(err) {
			// Distinguish a missing artifact from an already-sealed one.
			if _, getErr := s.GetArtifact(ctx, artifactID); getErr != nil {
				return nil, getErr
			}
			return nil, storage.ErrArtifactSealed
		}
		return nil, fmt.Errorf("failed to seal evidence artifact: %w", err)
	}

	var artifact models.EvidenceArtifact
	if err := attributevalue.UnmarshalMap(result.Attributes, &artifact); err != nil {
		return nil, fmt.Errorf("failed to unmarshal sealed artifact: %w", err)
	}
	return &artifact, nil
}
