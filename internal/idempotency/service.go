// Package idempotency guards mutating requests against client retries.
// A request is keyed by user, endpoint and body hash; replays within
// the retention window get the cached response instead of a second
// write.
package idempotency

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

// Records are kept for 24 hours; replays after that are treated as new
// requests.
const retention = 24 * time.Hour

const (
	statusPending   = "pending"
	statusCompleted = "completed"
	statusFailed    = "failed"
)

type IdempotencyService struct {
	client    *dynamodb.Client
	tableName string
}

type record struct {
	Key         string    `dynamodbav:"key"`
	UserID      string    `dynamodbav:"user_id"`
	RequestHash string    `dynamodbav:"request_hash"`
	Response    string    `dynamodbav:"response"`
	Status      string    `dynamodbav:"status"`
	CreatedAt   time.Time `dynamodbav:"created_at"`
	ExpiresAt   time.Time `dynamodbav:"expires_at"`
	TTL         int64     `dynamodbav:"ttl"`
}

func NewIdempotencyService() (*IdempotencyService, error) {
	cfg, err := config.LoadDefaultConfig(context.TODO())
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %v", err)
	}

	tableName := "dmood-idempotency"
	if envTable := os.Getenv("IDEMPOTENCY_TABLE_NAME"); envTable != "" {
		tableName = envTable
	}

	return &IdempotencyService{
		client:    dynamodb.NewFromConfig(cfg),
		tableName: tableName,
	}, nil
}

func hashOf(parts ...string) string {
	h := sha256.New()
	for _, p := range parts {
		h.Write([]byte(p))
		h.Write([]byte{':'})
	}
	return hex.EncodeToString(h.Sum(nil))
}

// ProcessIdempotentRequest runs handler at most once per distinct
// request. A replay of a completed request returns the cached
// response; a replay while the first attempt is still pending is
// rejected; the same key with a different body is a conflict.
func (s *IdempotencyService) ProcessIdempotentRequest(
	ctx context.Context,
	userID, endpoint, requestBody string,
	handler func() (interface{}, error),
) (interface{}, error) {
	key := hashOf(userID, endpoint, requestBody)
	requestHash := hashOf(requestBody)

	existing, err := s.get(ctx, key)
	if err != nil {
		return nil, fmt.Errorf("failed to check idempotency: %v", err)
	}

	if existing != nil {
		if existing.RequestHash != requestHash {
			return nil, fmt.Errorf("idempotency key conflict: same key used for different request")
		}
		switch existing.Status {
		case statusCompleted:
			var response interface{}
			if err := json.Unmarshal([]byte(existing.Response), &response); err != nil {
				return nil, fmt.Errorf("failed to unmarshal cached response: %v", err)
			}
			return response, nil
		case statusPending:
			return nil, fmt.Errorf("request is already being processed")
		}
	}

	now := time.Now()
	if err := s.put(ctx, &record{
		Key:         key,
		UserID:      userID,
		RequestHash: requestHash,
		Status:      statusPending,
		CreatedAt:   now,
		ExpiresAt:   now.Add(retention),
		TTL:         now.Add(retention).Unix(),
	}); err != nil {
		return nil, fmt.Errorf("failed to store idempotency record: %v", err)
	}

	response, err := handler()
	if err != nil {
		// Best effort: a failed status update must not mask the real error.
		_ = s.setStatus(ctx, key, fmt.Sprintf("error: %v", err), statusFailed)
		return nil, err
	}

	responseJSON, err := json.Marshal(response)
	if err != nil {
		_ = s.setStatus(ctx, key, "error: failed to marshal response", statusFailed)
		return nil, fmt.Errorf("failed to marshal response: %v", err)
	}

	if err := s.setStatus(ctx, key, string(responseJSON), statusCompleted); err != nil {
		return nil, fmt.Errorf("failed to finalize idempotency record: %v", err)
	}

	return response, nil
}

func (s *IdempotencyService) get(ctx context.Context, key string) (*record, error) {
	result, err := s.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(s.tableName),
		Key: map[string]types.AttributeValue{
			"key": &types.AttributeValueMemberS{Value: key},
		},
	})
	if err != nil {
		return nil, err
	}
	if result.Item == nil {
		return nil, nil // No existing record
	}

	var rec record
	if err := attributevalue.UnmarshalMap(result.Item, &rec); err != nil {
		return nil, fmt.Errorf("failed to unmarshal idempotency record: %v", err)
	}

	// Expired records are dropped and the request treated as new.
	if time.Now().After(rec.ExpiresAt) {
		_, _ = s.client.DeleteItem(ctx, &dynamodb.DeleteItemInput{
			TableName: aws.String(s.tableName),
			Key: map[string]types.AttributeValue{
				"key": &types.AttributeValueMemberS{Value: key},
			},
		})
		return nil, nil
	}

	return &rec, nil
}

func (s *IdempotencyService) put(ctx context.Context, rec *record) error {
	item, err := attributevalue.MarshalMap(rec)
	if err != nil {
		return fmt.Errorf("failed to marshal idempotency record: %v", err)
	}

	_, err = s.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName:           aws.String(s.tableName),
		Item:                item,
		ConditionExpression: aws.String("attribute_not_exists(#key)"),
		ExpressionAttributeNames: map[string]string{
			"#key": "key",
		},
	})
	if err != nil {
		if _, ok := err.(*types.ConditionalCheckFailedException); ok {
			return fmt.Errorf("idempotency key already exists")
		}
		return err
	}
	return nil
}

func (s *IdempotencyService) setStatus(ctx context.Context, key, response, status string) error {
	_, err := s.client.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName: aws.String(s.tableName),
		Key: map[string]types.AttributeValue{
			"key": &types.AttributeValueMemberS{Value: key},
		},
		UpdateExpression: aws.String("SET #response = :response, #status = :status, #updated_at = :updated_at"),
		ExpressionAttributeNames: map[string]string{
			"#response":   "response",
			"#status":     "status",
			"#updated_at": "updated_at",
		},
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":response":   &types.AttributeValueMemberS{Value: response},
			":status":     &types.AttributeValueMemberS{Value: status},
			":updated_at": &types.AttributeValueMemberS{Value: time.Now().Format(time.RFC3339)},
		},
	})
	if err != nil {
		return fmt.Errorf("failed to update idempotency record: %v", err)
	}
	return nil
}
