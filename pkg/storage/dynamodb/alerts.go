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
	"github.com/google/uuid"
)

// alertItem is the table representation of an alert. Open alerts live at the
// deterministic sort key "OPEN#<type>", which makes the at-most-one-open
// invariant a storage-layer conditional put rather than application
// sequencing. Resolved alerts are rewritten under "ALERT#<id>".
type alertItem struct {
	OrgID          string               `dynamodbav:"org_id"`
	SK             string               `dynamodbav:"sk"`
	ID             string               `dynamodbav:"id"`
	Type           string               `dynamodbav:"type"`
	Severity       models.AlertSeverity `dynamodbav:"severity"`
	Message        string               `dynamodbav:"message"`
	CreatedAt      time.Time            `dynamodbav:"created_at"`
	ResolvedAt     *time.Time           `dynamodbav:"resolved_at,omitempty"`
	ResolutionNote string               `dynamodbav:"resolution_note,omitempty"`
}

func openAlertSK(alertType string) string {
	return "OPEN#" + alertType
}

func resolvedAlertSK(alertID string) string {
	return "ALERT#" + alertID
}

func (it *alertItem) toModel() *models.Alert {
	return &models.Alert{
		ID:             it.ID,
		OrgID:          it.OrgID,
		Type:           it.Type,
		Severity:       it.Severity,
		Message:        it.Message,
		CreatedAt:      it.CreatedAt,
		ResolvedAt:     it.ResolvedAt,
		ResolutionNote: it.ResolutionNote,
	}
}

// FindOpenAlert returns the open alert of the given type, or nil when none.
func (s *Store) FindOpenAlert(ctx context.Context, orgID, alertType string) (*models.Alert, error) {
	input := &dynamodb.GetItemInput{
		TableName: aws.String(s.Tables.Alerts),
		Key: map[string]types.AttributeValue{
			"org_id": &types.AttributeValueMemberS{Value: orgID},
			"sk":     &types.AttributeValueMemberS{Value: openAlertSK(alertType)},
		},
		ConsistentRead: aws.Bool(true),
	}

	result, err := s.Client.GetItem(ctx, input)
	if err != nil {
		return nil, fmt.Errorf("failed to get open alert from DynamoDB: %w", err)
	}
	if result.Item == nil {
		return nil, nil
	}

	var item alertItem
	if err := attributevalue.UnmarshalMap(result.Item, &item); err != nil {
		return nil, fmt.Errorf("failed to unmarshal alert: %w", err)
	}
	return item.toModel(), nil
}

// CreateAlert persists a new open alert. The conditional put makes concurrent
// creates for the same (org, type) collapse into ErrAlertAlreadyOpen.
func (s *Store) CreateAlert(ctx context.Context, alert *models.Alert) (*models.Alert, error) {
	if alert.ID == "" {
		alert.ID = uuid.New().String()
	}
	if alert.CreatedAt.IsZero() {
		alert.CreatedAt = time.Now().UTC()
	}

	item := alertItem{
		OrgID:     alert.OrgID,
		SK:        openAlertSK(alert.Type),
		ID:        alert.ID,
		Type:      alert.Type,
		Severity:  alert.Severity,
		Message:   alert.Message,
		CreatedAt: alert.CreatedAt,
	}
	av, err := attributevalue.MarshalMap(item)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal alert: %w", err)
	}

	input := &dynamodb.PutItemInput{
		TableName:           aws.String(s.Tables.Alerts),
		Item:                av,
		ConditionExpression: aws.String("attribute_not_exists(sk)"),
	}

	if _, err := s.Client.PutItem(ctx, input); err != nil {
		if isConditionalCheckFailed(err) {
			return nil, storage.ErrAlertAlreadyOpen
		}
		return nil, fmt.Errorf("failed to create alert in DynamoDB: %w", err)
	}
	return alert, nil
}

// ResolveAlert stamps the open alert of the given type as resolved. The
// resolved record keeps the alert's ID and moves to its permanent sort key;
// the open marker is deleted in the same transaction, conditioned on it still
// holding the same alert, so a concurrent resolve cannot double-fire.
func (s *Store) ResolveAlert(ctx context.Context, orgID, alertType, note string) (*models.Alert, error) {
	open, err := s.FindOpenAlert(ctx, orgID, alertType)
	if err != nil {
		return nil, err
	}
	if open == nil {
		return nil, storage.ErrNoOpenAlert
	}

	now := time.Now().UTC()
	resolved := *open
	resolved.ResolvedAt = &now
	resolved.ResolutionNote = note

	item := alertItem{
		OrgID:          resolved.OrgID,
		SK:             resolvedAlertSK(resolved.ID),
		ID:             resolved.ID,
		Type:           resolved.Type,
		Severity:       resolved.Severity,
		Message:        resolved.Message,
		CreatedAt:      resolved.CreatedAt,
		ResolvedAt:     resolved.ResolvedAt,
		ResolutionNote: resolved.ResolutionNote,
	}
	av, err := attributevalue.MarshalMap(item)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal resolved alert: %w", err)
	}

	input := &dynamodb.TransactWriteItemsInput{
		TransactItems: []types.TransactWriteItem{
			{
				Put: &types.Put{
					TableName:           aws.String(s.Tables.Alerts),
					Item:                av,
					ConditionExpression: aws.String("attribute_not_exists(sk)"),
				},
			},
			{
				Delete: &types.Delete{
					TableName: aws.String(s.Tables.Alerts),
					Key: map[string]types.AttributeValue{
						"org_id": &types.AttributeValueMemberS{Value: orgID},
						"sk":     &types.AttributeValueMemberS{Value: openAlertSK(alertType)},
					},
					ConditionExpression: aws.String("id = :id"),
					ExpressionAttributeValues: map[string]types.AttributeValue{
						":id": &types.AttributeValueMemberS{Value: resolved.ID},
					},
				},
			},
		},
	}

	if _, err := s.Client.TransactWriteItems(ctx, input); err != nil {
		if transactionConditionFailed(err) {
			return nil, storage.ErrNoOpenAlert
		}
		return nil, fmt.Errorf("failed to resolve alert in DynamoDB: %w", err)
	}
	return &resolved, nil
}
