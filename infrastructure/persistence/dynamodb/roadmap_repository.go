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
	"roadmap-backend/domain/core/aggregates"
	"roadmap-backend/domain/core/valueobjects"
	appErrors "roadmap-backend/pkg/errors"
)

// RoadmapRepository implements ports.RoadmapRepository using a
// single-table layout:
//
//	PK=ROADMAP#<id>  SK=METADATA
//	GSI1PK=OWNER#<ownerID>  GSI1SK=ROADMAP#<id>
type RoadmapRepository struct {
	client    *dynamodb.Client
	tableName string
	indexName string
	logger    *zap.Logger
}

// NewRoadmapRepository creates a new RoadmapRepository
func NewRoadmapRepository(client *dynamodb.Client, tableName, indexName string, logger *zap.Logger) ports.RoadmapRepository {
	return &RoadmapRepository{
		client:    client,
		tableName: tableName,
		indexName: indexName,
		logger:    logger,
	}
}

// roadmapItem represents the DynamoDB item structure for a roadmap
type roadmapItem struct {
	PK          string `dynamodbav:"PK"`
	SK          string `dynamodbav:"SK"`
	GSI1PK      string `dynamodbav:"GSI1PK"`
	GSI1SK      string `dynamodbav:"GSI1SK"`
	EntityType  string `dynamodbav:"EntityType"`
	RoadmapID   string `dynamodbav:"RoadmapID"`
	OwnerID     string `dynamodbav:"OwnerID"`
	Name        string `dynamodbav:"Name"`
	Description string `dynamodbav:"Description"`
	Status      string `dynamodbav:"Status"`
	TopicsCount int    `dynamodbav:"TopicsCount"`
	Content     string `dynamodbav:"Content,omitempty"`
	CreatedAt   string `dynamodbav:"CreatedAt"`
	UpdatedAt   string `dynamodbav:"UpdatedAt"`
	Version     int    `dynamodbav:"Version"`
}

// Save persists a roadmap aggregate
func (r *RoadmapRepository) Save(ctx context.Context, roadmap *aggregates.Roadmap) error {
	item := roadmapItem{
		PK:          roadmapPK(roadmap.ID().String()),
		SK:          "METADATA",
		GSI1PK:      fmt.Sprintf("OWNER#%s", roadmap.OwnerID()),
		GSI1SK:      roadmapPK(roadmap.ID().String()),
		EntityType:  "ROADMAP",
		RoadmapID:   roadmap.ID().String(),
		OwnerID:     roadmap.OwnerID(),
		Name:        roadmap.Name(),
		Description: roadmap.Description(),
		Status:      string(roadmap.Status()),
		TopicsCount: roadmap.TopicsCount(),
		CreatedAt:   roadmap.CreatedAt().Format(time.RFC3339),
		UpdatedAt:   roadmap.UpdatedAt().Format(time.RFC3339),
		Version:     roadmap.Version(),
	}
	if roadmap.HasContent() {
		item.Content = string(roadmap.Content().EncodeJSON())
	}

	av, err := attributevalue.MarshalMap(item)
	if err != nil {
		return appErrors.NewDatabaseError("marshal roadmap", err)
	}

	_, err = r.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(r.tableName),
		Item:      av,
	})
	if err != nil {
		return appErrors.NewDatabaseError("save roadmap", err)
	}

	return nil
}

// FindByID loads one roadmap, returning (nil, nil) when absent
func (r *RoadmapRepository) FindByID(ctx context.Context, roadmapID string) (*aggregates.Roadmap, error) {
	out, err := r.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(r.tableName),
		Key: map[string]types.AttributeValue{
			"PK": &types.AttributeValueMemberS{Value: roadmapPK(roadmapID)},
			"SK": &types.AttributeValueMemberS{Value: "METADATA"},
		},
	})
	if err != nil {
		return nil, appErrors.NewDatabaseError("get roadmap", err)
	}
	if out.Item == nil {
		return nil, nil
	}

	return r.unmarshalRoadmap(out.Item)
}

// FindByOwner lists all roadmaps owned by a user via GSI1
func (r *RoadmapRepository) FindByOwner(ctx context.Context, ownerID string) ([]*aggregates.Roadmap, error) {
	keyCond := expression.Key("GSI1PK").Equal(expression.Value(fmt.Sprintf("OWNER#%s", ownerID))).
		And(expression.Key("GSI1SK").BeginsWith("ROADMAP#"))
	expr, err := expression.NewBuilder().WithKeyCondition(keyCond).Build()
	if err != nil {
		return nil, appErrors.NewDatabaseError("build owner query", err)
	}

	return r.queryRoadmaps(ctx, &dynamodb.QueryInput{
		TableName:                 aws.String(r.tableName),
		IndexName:                 aws.String(r.indexName),
		KeyConditionExpression:    expr.KeyCondition(),
		ExpressionAttributeNames:  expr.Names(),
		ExpressionAttributeValues: expr.Values(),
	})
}

// FindPublic lists all published roadmaps. Backed by a filtered scan;
// listings are capped to a page downstream.
func (r *RoadmapRepository) FindPublic(ctx context.Context) ([]*aggregates.Roadmap, error) {
	filter := expression.Name("EntityType").Equal(expression.Value("ROADMAP")).
		And(expression.Name("Status").Equal(expression.Value(string(aggregates.StatusPublic))))
	expr, err := expression.NewBuilder().WithFilter(filter).Build()
	if err != nil {
		return nil, appErrors.NewDatabaseError("build public scan", err)
	}

	var roadmaps []*aggregates.Roadmap
	paginator := dynamodb.NewScanPaginator(r.client, &dynamodb.ScanInput{
		TableName:                 aws.String(r.tableName),
		FilterExpression:          expr.Filter(),
		ExpressionAttributeNames:  expr.Names(),
		ExpressionAttributeValues: expr.Values(),
	})
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, appErrors.NewDatabaseError("scan public roadmaps", err)
		}
		for _, item := range page.Items {
			roadmap, err := r.unmarshalRoadmap(item)
			if err != nil {
				return nil, err
			}
			roadmaps = append(roadmaps, roadmap)
		}
	}

	return roadmaps, nil
}

// FindByIDs loads roadmaps by id, preserving the requested order and
// skipping ids that no longer exist
func (r *RoadmapRepository) FindByIDs(ctx context.Context, roadmapIDs []string) ([]*aggregates.Roadmap, error) {
	roadmaps := make([]*aggregates.Roadmap, 0, len(roadmapIDs))
	for _, id := range roadmapIDs {
		roadmap, err := r.FindByID(ctx, id)
		if err != nil {
			return nil, err
		}
		if roadmap != nil {
			roadmaps = append(roadmaps, roadmap)
		}
	}
	return roadmaps, nil
}

// Delete removes a roadmap's metadata item
func (r *RoadmapRepository) Delete(ctx context.Context, roadmapID string) error {
	_, err := r.client.DeleteItem(ctx, &dynamodb.DeleteItemInput{
		TableName: aws.String(r.tableName),
		Key: map[string]types.AttributeValue{
			"PK": &types.AttributeValueMemberS{Value: roadmapPK(roadmapID)},
			"SK": &types.AttributeValueMemberS{Value: "METADATA"},
		},
	})
	if err != nil {
		return appErrors.NewDatabaseError("delete roadmap", err)
	}
	return nil
}

func (r *RoadmapRepository) queryRoadmaps(ctx context.Context, input *dynamodb.QueryInput) ([]*aggregates.Roadmap, error) {
	var roadmaps []*aggregates.Roadmap
	paginator := dynamodb.NewQueryPaginator(r.client, input)
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, appErrors.NewDatabaseError("query roadmaps", err)
		}
		for _, item := range page.Items {
			roadmap, err := r.unmarshalRoadmap(item)
			if err != nil {
				return nil, err
			}
			roadmaps = append(roadmaps, roadmap)
		}
	}
	return roadmaps, nil
}

func (r *RoadmapRepository) unmarshalRoadmap(av map[string]types.AttributeValue) (*aggregates.Roadmap, error) {
	var item roadmapItem
	if err := attributevalue.UnmarshalMap(av, &item); err != nil {
		return nil, appErrors.NewDatabaseError("unmarshal roadmap", err)
	}

	var content *valueobjects.GraphDocument
	if item.Content != "" {
		doc, err := valueobjects.DecodeGraphDocument([]byte(item.Content))
		if err != nil {
			// Stored content should always decode; surface loudly if not
			r.logger.Error("stored roadmap content failed to decode",
				zap.String("roadmap_id", item.RoadmapID),
				zap.Error(err))
			return nil, err
		}
		content = doc
	}

	status, err := aggregates.ParseRoadmapStatus(item.Status)
	if err != nil {
		return nil, err
	}

	createdAt, _ := time.Parse(time.RFC3339, item.CreatedAt)
	updatedAt, _ := time.Parse(time.RFC3339, item.UpdatedAt)

	return aggregates.ReconstructRoadmap(
		aggregates.RoadmapID(item.RoadmapID),
		item.OwnerID,
		item.Name,
		item.Description,
		content,
		item.TopicsCount,
		status,
		createdAt,
		updatedAt,
		item.Version,
	), nil
}

func roadmapPK(roadmapID string) string {
	return fmt.Sprintf("ROADMAP#%s", roadmapID)
}
