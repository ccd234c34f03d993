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
)

// cycleItem keys BAS cycles by org with the RFC3339 period start as sort key,
// so a plain Query returns cycles oldest-obligation-first.
type cycleItem struct {
	OrgID string `dynamodbav:"org_id"`
	SK    string `dynamodbav:"sk"`
	models.BasCycle
}

func cycleSK(periodStart time.Time) string {
	return periodStart.UTC().Format(time.RFC3339)
}

// ListUnlodgedCycles retrieves the org's cycles with no lodgment yet, ordered
// by period start ascending.
func (s *Store) ListUnlodgedCycles(ctx context.Context, orgID string) ([]models.BasCycle, error) {
	input := &dynamodb.QueryInput{
		TableName:              aws.String(s.Tables.Cycles),
		KeyConditionExpression: aws.String("org_id = :org"),
		FilterExpression:       aws.String("attribute_not_exists(lodged_at)"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":org": &types.AttributeValueMemberS{Value: orgID},
		},
		ConsistentRead: aws.Bool(true),
	}

	var cycles []models.BasCycle
	for {
		result, err := s.Client.Query(ctx, input)
		if err != nil {
			return nil, fmt.Errorf("failed to query unlodged cycles for org %s: %w", orgID, err)
		}

		var items []cycleItem
		if err := attributevalue.UnmarshalListOfMaps(result.Items, &items); err != nil {
			return nil, fmt.Errorf("failed to unmarshal BAS cycles: %w", err)
		}
		for _, item := range items {
			cycles = append(cycles, item.BasCycle)
		}

		if result.LastEvaluatedKey == nil {
			break
		}
		input.ExclusiveStartKey = result.LastEvaluatedKey
	}
	return cycles, nil
}

// UpdateCycleReadiness persists the recomputed secured amounts and status
// together with the orchestration audit entry in one transaction. The update
// is conditioned on the cycle still being unlodged: once lodgment stamps the
// cycle it leaves this engine's ownership.
func (s *Store) UpdateCycleReadiness(ctx context.Context, cycle *models.BasCycle, audit *models.AuditEntry) error {
	now := time.Now().UTC()
	auditItem, err := s.prepareAuditItem(ctx, audit, now)
	if err != nil {
		return fmt.Errorf("failed to prepare audit entry: %w", err)
	}

	input := &dynamodb.TransactWriteItemsInput{
		TransactItems: []types.TransactWriteItem{
			{
				Update: &types.Update{
					TableName: aws.String(s.Tables.Cycles),
					Key: map[string]types.AttributeValue{
						"org_id": &types.AttributeValueMemberS{Value: cycle.OrgID},
						"sk":     &types.AttributeValueMemberS{Value: cycleSK(cycle.PeriodStart)},
					},
					UpdateExpression:    aws.String("SET paygw_secured = :paygw, gst_secured = :gst, overall_status = :status"),
					ConditionExpression: aws.String("attribute_not_exists(lodged_at)"),
					ExpressionAttributeValues: map[string]types.AttributeValue{
						":paygw":  &types.AttributeValueMemberN{Value: fmt.Sprintf("%d", cycle.PaygwSecured)},
						":gst":    &types.AttributeValueMemberN{Value: fmt.Sprintf("%d", cycle.GstSecured)},
						":status": &types.AttributeValueMemberS{Value: string(cycle.OverallStatus)},
					},
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
		return fmt.Errorf("failed to update cycle readiness: %w", err)
	}
	return nil
}
