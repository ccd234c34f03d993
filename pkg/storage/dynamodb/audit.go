package dynamodb

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/clearbas/compliance-engine/pkg/models"
	"github.com/google/uuid"
)

// auditItem is the table representation of an audit entry: org partition,
// time-ordered sort key.
type auditItem struct {
	OrgID     string            `dynamodbav:"org_id"`
	SK        string            `dynamodbav:"sk"`
	ID        string            `dynamodbav:"id"`
	ActorID   string            `dynamodbav:"actor_id"`
	Action    string            `dynamodbav:"action"`
	Metadata  map[string]string `dynamodbav:"metadata,omitempty"`
	CreatedAt time.Time         `dynamodbav:"created_at"`
	Hash      string            `dynamodbav:"hash"`
	PrevHash  string            `dynamodbav:"prev_hash,omitempty"`
}

// AppendAudit persists a single audit entry outside any wider transaction.
func (s *Store) AppendAudit(ctx context.Context, entry *models.AuditEntry) (*models.AuditEntry, error) {
	item, err := s.prepareAuditItem(ctx, entry, time.Now().UTC())
	if err != nil {
		return nil, fmt.Errorf("failed to prepare audit entry: %w", err)
	}

	input := &dynamodb.PutItemInput{
		TableName:           aws.String(s.Tables.Audit),
		Item:                item,
		ConditionExpression: aws.String("attribute_not_exists(sk)"),
	}

	if _, err := s.Client.PutItem(ctx, input); err != nil {
		return nil, fmt.Errorf("failed to append audit entry to DynamoDB: %w", err)
	}
	return entry, nil
}

// prepareAuditItem fills in the entry's ID, timestamp and hash-chain fields,
// then marshals it into its table shape. The previous hash is read from the
// org's most recent entry; the chain is best-effort under concurrent writers.
func (s *Store) prepareAuditItem(ctx context.Context, entry *models.AuditEntry, now time.Time) (map[string]types.AttributeValue, error) {
	if entry.ID == "" {
		entry.ID = uuid.New().String()
	}
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = now
	}

	prevHash, err := s.latestAuditHash(ctx, entry.OrgID)
	if err != nil {
		return nil, err
	}
	entry.PrevHash = prevHash
	entry.Hash, err = chainHash(entry)
	if err != nil {
		return nil, err
	}

	item := auditItem{
		OrgID:     entry.OrgID,
		SK:        fmt.Sprintf("%s#%s", entry.CreatedAt.UTC().Format(time.RFC3339Nano), entry.ID),
		ID:        entry.ID,
		ActorID:   entry.ActorID,
		Action:    entry.Action,
		Metadata:  entry.Metadata,
		CreatedAt: entry.CreatedAt,
		Hash:      entry.Hash,
		PrevHash:  entry.PrevHash,
	}

	av, err := attributevalue.MarshalMap(item)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal audit entry: %w", err)
	}
	return av, nil
}

// latestAuditHash returns the hash of the org's most recent audit entry, or
// empty for the first entry in the chain.
func (s *Store) latestAuditHash(ctx context.Context, orgID string) (string, error) {
	input := &dynamodb.QueryInput{
		TableName:              aws.String(s.Tables.Audit),
		KeyConditionExpression: aws.String("org_id = :org"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":org": &types.AttributeValueMemberS{Value: orgID},
		},
		ScanIndexForward: aws.Bool(false),
		Limit:            aws.Int32(1),
		ConsistentRead:   aws.Bool(true),
	}

	result, err := s.Client.Query(ctx, input)
	if err != nil {
		return "", fmt.Errorf("failed to query latest audit entry: %w", err)
	}
	if len(result.Items) == 0 {
		return "", nil
	}

	var latest auditItem
	if err := attributevalue.UnmarshalMap(result.Items[0], &latest); err != nil {
		return "", fmt.Errorf("failed to unmarshal latest audit entry: %w", err)
	}
	return latest.Hash, nil
}

// chainHash computes the entry hash over the previous hash plus the entry's
// canonical JSON form.
func chainHash(entry *models.AuditEntry) (string, error) {
	canonical, err := json.Marshal(struct {
		ID        string            `json:"id"`
		OrgID     string            `json:"orgId"`
		ActorID   string            `json:"actorId"`
		Action    string            `json:"action"`
		Metadata  map[string]string `json:"metadata,omitempty"`
		CreatedAt string            `json:"createdAt"`
	}{
		ID:        entry.ID,
		OrgID:     entry.OrgID,
		ActorID:   entry.ActorID,
		Action:    entry.Action,
		Metadata:  entry.Metadata,
		CreatedAt: entry.CreatedAt.UTC().Format(time.RFC3339Nano),
	})
	if err != nil {
		return "", fmt.Errorf("failed to canonicalize audit entry: %w", err)
	}

	h := sha256.New()
	h.Write([]byte(entry.PrevHash))
	h.Write([]byte("|"))
	h.Write(canonical)
	return hex.EncodeToString(h.Sum(nil)), nil
}
