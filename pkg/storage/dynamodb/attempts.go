package dynamodb

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/clearbas/compliance-engine/pkg/models"
	"github.com/clearbas/compliance-engine/pkg/storage"
)

const attemptsByStatusIndex = "status-created_at-index"

// ListDueAttempts retrieves PENDING and RETRYING attempts whose NextRunAt is
// unset or has passed, oldest first, limited to the batch size. The status
// index is queried per status and the two result sets merged.
func (s *Store) ListDueAttempts(ctx context.Context, now time.Time, limit int32) ([]models.BasPaymentAttempt, error) {
	var due []models.BasPaymentAttempt
	for _, status := range []models.AttemptStatus{models.PENDING, models.RETRYING} {
		batch, err := s.queryAttemptsByStatus(ctx, status, now, limit)
		if err != nil {
			return nil, err
		}
		due = append(due, batch...)
	}

	sort.Slice(due, func(i, j int) bool {
		return due[i].CreatedAt.Before(due[j].CreatedAt)
	})
	if int32(len(due)) > limit {
		due = due[:limit]
	}
	return due, nil
}

func (s *Store) queryAttemptsByStatus(ctx context.Context, status models.AttemptStatus, now time.Time, limit int32) ([]models.BasPaymentAttempt, error) {
	nowAV, err := attributevalue.Marshal(now)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal due cutoff: %w", err)
	}

	input := &dynamodb.QueryInput{
		TableName:              aws.String(s.Tables.Attempts),
		IndexName:              aws.String(attemptsByStatusIndex),
		KeyConditionExpression: aws.String("#status = :status"),
		FilterExpression:       aws.String("attribute_not_exists(next_run_at) OR next_run_at <= :now"),
		ExpressionAttributeNames: map[string]string{
			"#status": "status",
		},
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":status": &types.AttributeValueMemberS{Value: string(status)},
			":now":    nowAV,
		},
		Limit: aws.Int32(limit),
	}

	// Limit applies before the filter, so a page can come back short or
	// empty while due rows sit further along the index. Walk pages until
	// enough post-filter rows are collected.
	var attempts []models.BasPaymentAttempt
	for {
		result, err := s.Client.Query(ctx, input)
		if err != nil {
			return nil, fmt.Errorf("failed to query %s attempts: %w", status, err)
		}

		var batch []models.BasPaymentAttempt
		if err := attributevalue.UnmarshalListOfMaps(result.Items, &batch); err != nil {
			return nil, fmt.Errorf("failed to unmarshal payment attempts: %w", err)
		}
		attempts = append(attempts, batch...)

		if int32(len(attempts)) >= limit || result.LastEvaluatedKey == nil {
			break
		}
		input.ExclusiveStartKey = result.LastEvaluatedKey
	}
	return attempts, nil
}

// ClaimAttempt takes a short lease on the attempt by pushing NextRunAt
// forward, conditioned on the exact status, attempt count and schedule the
// caller read. A concurrent scheduler that already claimed or processed the
// row fails the condition, and the caller skips it. The lease is the only
// mutation; status stays whatever the caller read.
func (s *Store) ClaimAttempt(ctx context.Context, attempt *models.BasPaymentAttempt, leaseUntil time.Time) error {
	leaseAV, err := attributevalue.Marshal(leaseUntil)
	if err != nil {
		return fmt.Errorf("failed to marshal claim lease: %w", err)
	}

	condition := "#status = :status AND attempt_count = :count AND attribute_not_exists(next_run_at)"
	values := map[string]types.AttributeValue{
		":status": &types.AttributeValueMemberS{Value: string(attempt.Status)},
		":count":  &types.AttributeValueMemberN{Value: fmt.Sprintf("%d", attempt.AttemptCount)},
		":lease":  leaseAV,
	}
	if attempt.NextRunAt != nil {
		readNextAV, err := attributevalue.Marshal(*attempt.NextRunAt)
		if err != nil {
			return fmt.Errorf("failed to marshal read schedule: %w", err)
		}
		condition = "#status = :status AND attempt_count = :count AND next_run_at = :read_next"
		values[":read_next"] = readNextAV
	}

	input := &dynamodb.UpdateItemInput{
		TableName: aws.String(s.Tables.Attempts),
		Key: map[string]types.AttributeValue{
			"id": &types.AttributeValueMemberS{Value: attempt.ID},
		},
		UpdateExpression:    aws.String("SET next_run_at = :lease"),
		ConditionExpression: aws.String(condition),
		ExpressionAttributeNames: map[string]string{
			"#status": "status",
		},
		ExpressionAttributeValues: values,
	}

	if _, err := s.Client.UpdateItem(ctx, input); err != nil {
		if isConditionalCheckFailed(err) {
			return storage.ErrAttemptClaimed
		}
		return fmt.Errorf("failed to claim payment attempt: %w", err)
	}
	return nil
}

// MarkAttemptSucceeded finalizes a settled attempt.
func (s *Store) MarkAttemptSucceeded(ctx context.Context, attempt *models.BasPaymentAttempt) error {
	nowAV, err := attributevalue.Marshal(time.Now().UTC())
	if err != nil {
		return fmt.Errorf("failed to marshal timestamp: %w", err)
	}

	input := &dynamodb.UpdateItemInput{
		TableName: aws.String(s.Tables.Attempts),
		Key: map[string]types.AttributeValue{
			"id": &types.AttributeValueMemberS{Value: attempt.ID},
		},
		UpdateExpression:    aws.String("SET #status = :succeeded, attempt_count = :count, updated_at = :now REMOVE failure_reason, next_run_at"),
		ConditionExpression: aws.String("#status = :claimed_status"),
		ExpressionAttributeNames: map[string]string{
			"#status": "status",
		},
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":succeeded":      &types.AttributeValueMemberS{Value: string(models.SUCCEEDED)},
			":count":          &types.AttributeValueMemberN{Value: fmt.Sprintf("%d", attempt.AttemptCount+1)},
			":claimed_status": &types.AttributeValueMemberS{Value: string(attempt.Status)},
			":now":            nowAV,
		},
	}

	if _, err := s.Client.UpdateItem(ctx, input); err != nil {
		return fmt.Errorf("failed to mark attempt %s succeeded: %w", attempt.ID, err)
	}
	return nil
}

// MarkAttemptFailed records a failed execution. A nil nextRunAt makes the
// attempt terminally FAILED; otherwise it becomes RETRYING at nextRunAt.
func (s *Store) MarkAttemptFailed(ctx context.Context, attempt *models.BasPaymentAttempt, reason string, nextRunAt *time.Time) error {
	nowAV, err := attributevalue.Marshal(time.Now().UTC())
	if err != nil {
		return fmt.Errorf("failed to marshal timestamp: %w", err)
	}

	status := models.RETRYING
	update := "SET #status = :status, attempt_count = :count, failure_reason = :reason, next_run_at = :next, updated_at = :now"
	values := map[string]types.AttributeValue{
		":count":          &types.AttributeValueMemberN{Value: fmt.Sprintf("%d", attempt.AttemptCount+1)},
		":reason":         &types.AttributeValueMemberS{Value: reason},
		":claimed_status": &types.AttributeValueMemberS{Value: string(attempt.Status)},
		":now":            nowAV,
	}
	if nextRunAt == nil {
		status = models.FAILED
		update = "SET #status = :status, attempt_count = :count, failure_reason = :reason, updated_at = :now REMOVE next_run_at"
	} else {
		nextAV, err := attributevalue.Marshal(*nextRunAt)
		if err != nil {
			return fmt.Errorf("failed to marshal retry schedule: %w", err)
		}
		values[":next"] = nextAV
	}
	values[":status"] = &types.AttributeValueMemberS{Value: string(status)}

	input := &dynamodb.UpdateItemInput{
		TableName: aws.String(s.Tables.Attempts),
		Key: map[string]types.AttributeValue{
			"id": &types.AttributeValueMemberS{Value: attempt.ID},
		},
		UpdateExpression:    aws.String(update),
		ConditionExpression: aws.String("#status = :claimed_status"),
		ExpressionAttributeNames: map[string]string{
			"#status": "status",
		},
		ExpressionAttributeValues: values,
	}

	if _, err := s.Client.UpdateItem(ctx, input); err != nil {
		return fmt.Errorf("failed to mark attempt %s failed: %w", attempt.ID, err)
	}
	return nil
}

// CountOfflinePending counts PENDING attempts flagged for offline fallback.
func (s *Store) CountOfflinePending(ctx context.Context) (int, error) {
	input := &dynamodb.QueryInput{
		TableName:              aws.String(s.Tables.Attempts),
		IndexName:              aws.String(attemptsByStatusIndex),
		KeyConditionExpression: aws.String("#status = :pending"),
		FilterExpression:       aws.String("offline_fallback = :true"),
		ExpressionAttributeNames: map[string]string{
			"#status": "status",
		},
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":pending": &types.AttributeValueMemberS{Value: string(models.PENDING)},
			":true":    &types.AttributeValueMemberBOOL{Value: true},
		},
		Select: types.SelectCount,
	}

	total := 0
	for {
		result, err := s.Client.Query(ctx, input)
		if err != nil {
			return 0, fmt.Errorf("failed to count offline pending attempts: %w", err)
		}
		total += int(result.Count)
		if result.LastEvaluatedKey == nil {
			break
		}
		input.ExclusiveStartKey = result.LastEvaluatedKey
	}
	return total, nil
}
