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

const transfersByAccountIndex = "account_id-created_at-index"

// GetAccount retrieves a designated account from DynamoDB by its ID.
// The read is strongly consistent: balances feed readiness and evidence
// computations.
func (s *Store) GetAccount(ctx context.Context, accountID string) (*models.DesignatedAccount, error) {
	input := &dynamodb.GetItemInput{
		TableName:      aws.String(s.Tables.Accounts),
		Key:            map[string]types.AttributeValue{"id": &types.AttributeValueMemberS{Value: accountID}},
		ConsistentRead: aws.Bool(true),
	}

	result, err := s.Client.GetItem(ctx, input)
	if err != nil {
		return nil, fmt.Errorf("failed to get designated account from DynamoDB: %w", err)
	}
	if result.Item == nil {
		return nil, storage.ErrAccountNotFound
	}

	var account models.DesignatedAccount
	if err := attributevalue.UnmarshalMap(result.Item, &account); err != nil {
		return nil, fmt.Errorf("failed to unmarshal designated account: %w", err)
	}
	return &account, nil
}

// ListAccountsByOrg retrieves all designated accounts for an org via the
// org_id index.
func (s *Store) ListAccountsByOrg(ctx context.Context, orgID string) ([]models.DesignatedAccount, error) {
	input := &dynamodb.QueryInput{
		TableName:              aws.String(s.Tables.Accounts),
		IndexName:              aws.String("org_id-index"),
		KeyConditionExpression: aws.String("org_id = :org"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":org": &types.AttributeValueMemberS{Value: orgID},
		},
	}

	var accounts []models.DesignatedAccount
	for {
		result, err := s.Client.Query(ctx, input)
		if err != nil {
			return nil, fmt.Errorf("failed to query designated accounts for org %s: %w", orgID, err)
		}

		var batch []models.DesignatedAccount
		if err := attributevalue.UnmarshalListOfMaps(result.Items, &batch); err != nil {
			return nil, fmt.Errorf("failed to unmarshal designated accounts: %w", err)
		}
		accounts = append(accounts, batch...)

		if result.LastEvaluatedKey == nil {
			break
		}
		input.ExclusiveStartKey = result.LastEvaluatedKey
	}
	return accounts, nil
}

// ListOrgIDs retrieves the distinct org IDs present in the accounts table.
func (s *Store) ListOrgIDs(ctx context.Context) ([]string, error) {
	input := &dynamodb.ScanInput{
		TableName:            aws.String(s.Tables.Accounts),
		ProjectionExpression: aws.String("org_id"),
	}

	seen := map[string]bool{}
	var orgs []string
	for {
		result, err := s.Client.Scan(ctx, input)
		if err != nil {
			return nil, fmt.Errorf("failed to scan accounts table for orgs: %w", err)
		}
		for _, item := range result.Items {
			var row struct {
				OrgID string `dynamodbav:"org_id"`
			}
			if err := attributevalue.UnmarshalMap(item, &row); err != nil {
				return nil, fmt.Errorf("failed to unmarshal org id: %w", err)
			}
			if row.OrgID != "" && !seen[row.OrgID] {
				seen[row.OrgID] = true
				orgs = append(orgs, row.OrgID)
			}
		}
		if result.LastEvaluatedKey == nil {
			break
		}
		input.ExclusiveStartKey = result.LastEvaluatedKey
	}
	return orgs, nil
}

// ListTransfersSince retrieves an account's transfers created at or after the
// cutoff, oldest first.
func (s *Store) ListTransfersSince(ctx context.Context, accountID string, since time.Time) ([]models.DesignatedTransfer, error) {
	sinceAV, err := attributevalue.Marshal(since)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal transfer cutoff: %w", err)
	}

	input := &dynamodb.QueryInput{
		TableName:              aws.String(s.Tables.Transfers),
		IndexName:              aws.String(transfersByAccountIndex),
		KeyConditionExpression: aws.String("account_id = :account AND created_at >= :since"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":account": &types.AttributeValueMemberS{Value: accountID},
			":since":   sinceAV,
		},
	}

	result, err := s.Client.Query(ctx, input)
	if err != nil {
		return nil, fmt.Errorf("failed to query transfers for account %s: %w", accountID, err)
	}

	var transfers []models.DesignatedTransfer
	if err := attributevalue.UnmarshalListOfMaps(result.Items, &transfers); err != nil {
		return nil, fmt.Errorf("failed to unmarshal transfers: %w", err)
	}
	return transfers, nil
}

// CreditAccount atomically applies a credit: the balance increment, the
// transfer record and the audit entry commit in one TransactWriteItems call.
// The balance update is conditioned on the balance read at the start, so a
// concurrent credit forces a retryable ErrBalanceConflict instead of a lost
// update.
func (s *Store) CreditAccount(ctx context.Context, transfer *models.DesignatedTransfer, audit *models.AuditEntry) (int64, error) {
	account, err := s.GetAccount(ctx, transfer.AccountID)
	if err != nil {
		return 0, fmt.Errorf("failed to load account for credit: %w", err)
	}
	if account.OrgID != transfer.OrgID {
		return 0, storage.ErrAccountNotFound
	}

	now := time.Now().UTC()
	if transfer.ID == "" {
		transfer.ID = uuid.New().String()
	}
	transfer.CreatedAt = now
	newBalance := account.Balance + transfer.Amount

	transferAV, err := attributevalue.MarshalMap(transfer)
	if err != nil {
		return 0, fmt.Errorf("failed to marshal transfer: %w", err)
	}

	auditItem, err := s.prepareAuditItem(ctx, audit, now)
	if err != nil {
		return 0, fmt.Errorf("failed to prepare audit entry: %w", err)
	}

	nowAV, err := attributevalue.Marshal(now)
	if err != nil {
		return 0, fmt.Errorf("failed to marshal timestamp: %w", err)
	}

	input := &dynamodb.TransactWriteItemsInput{
		TransactItems: []types.TransactWriteItem{
			{
				// Operation 1: Increment the designated account balance.
				Update: &types.Update{
					TableName: aws.String(s.Tables.Accounts),
					Key: map[string]types.AttributeValue{
						"id": &types.AttributeValueMemberS{Value: account.ID},
					},
					UpdateExpression:    aws.String("SET balance = :new_balance, updated_at = :now"),
					ConditionExpression: aws.String("balance = :current_balance"),
					ExpressionAttributeValues: map[string]types.AttributeValue{
						":new_balance":     &types.AttributeValueMemberN{Value: fmt.Sprintf("%d", newBalance)},
						":current_balance": &types.AttributeValueMemberN{Value: fmt.Sprintf("%d", account.Balance)},
						":now":             nowAV,
					},
				},
			},
			{
				// Operation 2: Record the transfer.
				Put: &types.Put{
					TableName:           aws.String(s.Tables.Transfers),
					Item:                transferAV,
					ConditionExpression: aws.String("attribute_not_exists(id)"),
				},
			},
			{
				// Operation 3: Append the audit entry.
				Put: &types.Put{
					TableName:           aws.String(s.Tables.Audit),
					Item:                auditItem,
					ConditionExpression: aws.String("attribute_not_exists(sk)"),
				},
			},
		},
	}

	if _, err := s.Client.TransactWriteItems(ctx, input); err != nil {
		if transactionConditionFailed(err) {
			return 0, storage.ErrBalanceConflict
		}
		return 0, fmt.Errorf("failed to execute credit transaction: %w", err)
	}

	return newBalance, nil
}
