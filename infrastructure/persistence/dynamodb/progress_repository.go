package dynamodb

import (
	"context"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/expression"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"go.uber.org/zap"

	"roadmap-backend/application/ports"
	"roadmap-backend/domain/core/entities"
	"roadmap-backend/domain/core/valueobjects"
	appErrors "roadmap-backend/pkg/errors"
)

// ProgressRepository implements ports.ProgressRepository. Progress
// records share the roadmap's partition so the reconciliation fan-out
// is a single Query:
//
//	PK=ROADMAP#<roadmapID>  SK=PROGRESS#<userID>
//	GSI1PK=USER#<userID>    GSI1SK=PROGRESS#<roadmapID>
type ProgressRepository struct {
	client    *dynamodb.Client
	tableName string
	logger    *zap.Logger
}

// NewProgressRepository creates a new ProgressRepository
func NewProgressRepository(client *dynamodb.Client, tableName string, logger *zap.Logger) ports.ProgressRepository {
	return &ProgressRepository{
		client:    client,
		tableName: tableName,
		logger:    logger,
	}
}

// progressItem represents the DynamoDB item structure for a progress record
type progressItem struct {
	PK         string              `dynamodbav:"PK"`
	SK         string              `dynamodbav:"SK"`
	GSI1PK     string              `dynamodbav:"GSI1PK"`
	GSI1SK     string              `dynamodbav:"GSI1SK"`
	EntityType string              `dynamodbav:"EntityType"`
	ProgressID string              `dynamodbav:"ProgressID"`
	UserID     string              `dynamodbav:"UserID"`
	RoadmapID  string              `dynamodbav:"RoadmapID"`
	Items      []progressItemEntry `dynamodbav:"Items"`
	CreatedAt  string              `dynamodbav:"CreatedAt"`
	UpdatedAt  string              `dynamodbav:"UpdatedAt"`
	Version    int                 `dynamodbav:"Version"`
}

type progressItemEntry struct {
	TopicID string `dynamodbav:"TopicID"`
	Status  string `dynamodbav:"Status"`
}

// Save persists a progress record
func (r *ProgressRepository) Save(ctx context.Context, progress *entities.Progress) error {
	entries := make([]progressItemEntry, 0, len(progress.Items()))
	for _, item := range progress.Items() {
		entries = append(entries, progressItemEntry{
			TopicID: item.TopicID.String(),
			Status:  string(item.Status),
		})
	}

	item := progressItem{
		PK:         roadmapPK(progress.RoadmapID()),
		SK:         fmt.Sprintf("PROGRESS#%s", progress.UserID()),
		GSI1PK:     fmt.Sprintf("USER#%s", progress.UserID()),
		GSI1SK:     fmt.Sprintf("PROGRESS#%s", progress.RoadmapID()),
		EntityType: "PROGRESS",
		ProgressID: progress.ID(),
		UserID:     progress.UserID(),
		RoadmapID:  progress.RoadmapID(),
		Items:      entries,
		CreatedAt:  progress.CreatedAt().Format(time.RFC3339),
		UpdatedAt:  progress.UpdatedAt().Format(time.RFC3339),
		Version:    progress.Version(),
	}

	av, err := attributevalue.MarshalMap(item)
	if err != nil {
		return appErrors.NewDatabaseError("marshal progress", err)
	}

	_, err = r.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(r.tableName),
		Item:      av,
	})
	if err != nil {
		return appErrors.NewDatabaseError("save progress", err)
	}

	return nil
}

// FindByUserAndRoadmap loads one record, returning (nil, nil) when absent
func (r *ProgressRepository) FindByUserAndRoadmap(ctx context.Context, userID, roadmapID string) (*entities.Progress, error) {
	out, err := r.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(r.tableName),
		Key: map[string]types.AttributeValue{
			"PK": &types.AttributeValueMemberS{Value: roadmapPK(roadmapID)},
			"SK": &types.AttributeValueMemberS{Value: fmt.Sprintf("PROGRESS#%s", userID)},
		},
	})
	if err != nil {
		return nil, appErrors.NewDatabaseError("get progress", err)
	}
	if out.Item == nil {
		return nil, nil
	}

	return unmarshalProgress(out.Item)
}

// FindByRoadmap loads every progress record for a roadmap
func (r *ProgressRepository) FindByRoadmap(ctx context.Context, roadmapID string) ([]*entities.Progress, error) {
	keyCond := expression.Key("PK").Equal(expression.Value(roadmapPK(roadmapID))).
		And(expression.Key("SK").BeginsWith("PROGRESS#"))
	expr, err := expression.NewBuilder().WithKeyCondition(keyCond).Build()
	if err != nil {
		return nil, appErrors.NewDatabaseError("build progress query", err)
	}

	var records []*entities.Progress
	paginator := dynamodb.NewQueryPaginator(r.client, &dynamodb.QueryInput{
		TableName:                 aws.String(r.tableName),
		KeyConditionExpression:    expr.KeyCondition(),
		ExpressionAttributeNames:  expr.Names(),
		ExpressionAttributeValues: expr.Values(),
	})
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, appErrors.NewDatabaseError("query progress records", err)
		}
		for _, item := range page.Items {
			record, err := unmarshalProgress(item)
			if err != nil {
				return nil, err
			}
			records = append(records, record)
		}
	}

	return records, nil
}

// DeleteByRoadmap removes every progress record for a roadmap
func (r *ProgressRepository) DeleteByRoadmap(ctx context.Context, roadmapID string) error {
	records, err := r.FindByRoadmap(ctx, roadmapID)
	if err != nil {
		return err
	}

	for _, record := range records {
		_, err := r.client.DeleteItem(ctx, &dynamodb.DeleteItemInput{
			TableName: aws.String(r.tableName),
			Key: map[string]types.AttributeValue{
				"PK": &types.AttributeValueMemberS{Value: roadmapPK(roadmapID)},
				"SK": &types.AttributeValueMemberS{Value: fmt.Sprintf("PROGRESS#%s", record.UserID())},
			},
		})
		if err != nil {
			return appErrors.NewDatabaseError("delete progress", err)
		}
	}

	return nil
}

func unmarshalProgress(av map[string]types.AttributeValue) (*entities.Progress, error) {
	var item progressItem
	if err := attributevalue.UnmarshalMap(av, &item); err != nil {
		return nil, appErrors.NewDatabaseError("unmarshal progress", err)
	}

	items := make([]entities.ProgressItem, 0, len(item.Items))
	for _, entry := range item.Items {
		topicID, err := valueobjects.NewTopicIDFromString(entry.TopicID)
		if err != nil {
			return nil, appErrors.NewDatabaseError("unmarshal progress topic id", err)
		}
		status, err := entities.ParseProgressStatus(entry.Status)
		if err != nil {
			return nil, err
		}
		items = append(items, entities.ProgressItem{TopicID: topicID, Status: status})
	}

	createdAt, _ := time.Parse(time.RFC3339, item.CreatedAt)
	updatedAt, _ := time.Parse(time.RFC3339, item.UpdatedAt)

	return entities.ReconstructProgress(
		item.ProgressID, item.UserID, item.RoadmapID, items, createdAt, updatedAt, item.Version), nil
}
