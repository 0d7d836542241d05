package dynamodb

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"roadmap-backend/application/ports"
	appErrors "roadmap-backend/pkg/errors"
)

// DistributedLock serializes content edits per roadmap using DynamoDB
// conditional writes. The TTL attribute lets DynamoDB reap locks left
// behind by crashed writers.
type DistributedLock struct {
	client    *dynamodb.Client
	tableName string
	logger    *zap.Logger
}

// NewDistributedLock creates a new distributed lock instance
func NewDistributedLock(client *dynamodb.Client, tableName string, logger *zap.Logger) *DistributedLock {
	return &DistributedLock{
		client:    client,
		tableName: tableName,
		logger:    logger,
	}
}

// Acquire attempts to take the lock for a key. A held, unexpired lock
// fails with a roadmap-locked error so the caller can surface a retry
// to the client.
func (dl *DistributedLock) Acquire(ctx context.Context, key string, ttl time.Duration) (ports.Unlocker, error) {
	lockID := uuid.New().String()
	now := time.Now()
	expiresAt := now.Add(ttl)

	item := map[string]types.AttributeValue{
		"PK":         &types.AttributeValueMemberS{Value: fmt.Sprintf("LOCK#%s", key)},
		"SK":         &types.AttributeValueMemberS{Value: "LOCK"},
		"LockID":     &types.AttributeValueMemberS{Value: lockID},
		"AcquiredAt": &types.AttributeValueMemberS{Value: now.Format(time.RFC3339)},
		"ExpiresAt":  &types.AttributeValueMemberS{Value: expiresAt.Format(time.RFC3339)},
		"TTL":        &types.AttributeValueMemberN{Value: fmt.Sprintf("%d", expiresAt.Unix())},
	}

	input := &dynamodb.PutItemInput{
		TableName:           aws.String(dl.tableName),
		Item:                item,
		ConditionExpression: aws.String("attribute_not_exists(PK) OR ExpiresAt < :now"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":now": &types.AttributeValueMemberS{Value: now.Format(time.RFC3339)},
		},
	}

	_, err := dl.client.PutItem(ctx, input)
	if err != nil {
		var conditionalCheckFailed *types.ConditionalCheckFailedException
		if errors.As(err, &conditionalCheckFailed) {
			dl.logger.Debug("lock already held", zap.String("key", key))
			return nil, appErrors.NewConflictError(
				fmt.Sprintf("another edit is in progress for %s", key)).WithRetryable(true)
		}
		return nil, appErrors.NewDatabaseError("acquire lock", err)
	}

	dl.logger.Debug("lock acquired",
		zap.String("key", key),
		zap.String("lock_id", lockID),
		zap.Duration("ttl", ttl))

	return &lock{
		parent: dl,
		key:    key,
		lockID: lockID,
	}, nil
}

// lock is one acquired lock
type lock struct {
	parent *DistributedLock
	key    string
	lockID string
}

// Release deletes the lock record. Releasing a lock someone else now
// holds (ours expired and was taken over) is treated as success.
func (l *lock) Release(ctx context.Context) error {
	input := &dynamodb.DeleteItemInput{
		TableName: aws.String(l.parent.tableName),
		Key: map[string]types.AttributeValue{
			"PK": &types.AttributeValueMemberS{Value: fmt.Sprintf("LOCK#%s", l.key)},
			"SK": &types.AttributeValueMemberS{Value: "LOCK"},
		},
		ConditionExpression: aws.String("LockID = :lockId"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":lockId": &types.AttributeValueMemberS{Value: l.lockID},
		},
	}

	_, err := l.parent.client.DeleteItem(ctx, input)
	if err != nil {
		var conditionalCheckFailed *types.ConditionalCheckFailedException
		if errors.As(err, &conditionalCheckFailed) {
			l.parent.logger.Warn("lock already released or taken over",
				zap.String("key", l.key),
				zap.String("lock_id", l.lockID))
			return nil
		}
		return appErrors.NewDatabaseError("release lock", err)
	}

	l.parent.logger.Debug("lock released",
		zap.String("key", l.key),
		zap.String("lock_id", l.lockID))

	return nil
}
