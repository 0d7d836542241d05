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
	appErrors "roadmap-backend/pkg/errors"
)

// AccessRepository implements ports.AccessRepository:
//
//	PK=ROADMAP#<roadmapID>  SK=GRANT#<userID>
//	GSI1PK=USER#<userID>    GSI1SK=GRANT#<roadmapID>
type AccessRepository struct {
	client    *dynamodb.Client
	tableName string
	indexName string
	logger    *zap.Logger
}

// NewAccessRepository creates a new AccessRepository
func NewAccessRepository(client *dynamodb.Client, tableName, indexName string, logger *zap.Logger) ports.AccessRepository {
	return &AccessRepository{
		client:    client,
		tableName: tableName,
		indexName: indexName,
		logger:    logger,
	}
}

// grantItem represents the DynamoDB item structure for an access grant
type grantItem struct {
	PK         string `dynamodbav:"PK"`
	SK         string `dynamodbav:"SK"`
	GSI1PK     string `dynamodbav:"GSI1PK"`
	GSI1SK     string `dynamodbav:"GSI1SK"`
	EntityType string `dynamodbav:"EntityType"`
	GrantID    string `dynamodbav:"GrantID"`
	RoadmapID  string `dynamodbav:"RoadmapID"`
	UserID     string `dynamodbav:"UserID"`
	GrantedBy  string `dynamodbav:"GrantedBy"`
	CreatedAt  string `dynamodbav:"CreatedAt"`
}

// Save persists a grant
func (r *AccessRepository) Save(ctx context.Context, grant *entities.AccessGrant) error {
	item := grantItem{
		PK:         roadmapPK(grant.RoadmapID()),
		SK:         grantSK(grant.UserID()),
		GSI1PK:     userPK(grant.UserID()),
		GSI1SK:     fmt.Sprintf("GRANT#%s", grant.RoadmapID()),
		EntityType: "GRANT",
		GrantID:    grant.ID(),
		RoadmapID:  grant.RoadmapID(),
		UserID:     grant.UserID(),
		GrantedBy:  grant.GrantedBy(),
		CreatedAt:  grant.CreatedAt().Format(time.RFC3339),
	}

	av, err := attributevalue.MarshalMap(item)
	if err != nil {
		return appErrors.NewDatabaseError("marshal grant", err)
	}

	_, err = r.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(r.tableName),
		Item:      av,
	})
	if err != nil {
		return appErrors.NewDatabaseError("save grant", err)
	}

	return nil
}

// Exists reports whether a grant exists for the pair
func (r *AccessRepository) Exists(ctx context.Context, roadmapID, userID string) (bool, error) {
	out, err := r.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(r.tableName),
		Key: map[string]types.AttributeValue{
			"PK": &types.AttributeValueMemberS{Value: roadmapPK(roadmapID)},
			"SK": &types.AttributeValueMemberS{Value: grantSK(userID)},
		},
		ProjectionExpression: aws.String("PK"),
	})
	if err != nil {
		return false, appErrors.NewDatabaseError("get grant", err)
	}
	return out.Item != nil, nil
}

// FindByRoadmap lists every grant on a roadmap
func (r *AccessRepository) FindByRoadmap(ctx context.Context, roadmapID string) ([]*entities.AccessGrant, error) {
	keyCond := expression.Key("PK").Equal(expression.Value(roadmapPK(roadmapID))).
		And(expression.Key("SK").BeginsWith("GRANT#"))
	expr, err := expression.NewBuilder().WithKeyCondition(keyCond).Build()
	if err != nil {
		return nil, appErrors.NewDatabaseError("build grant query", err)
	}

	return r.queryGrants(ctx, &dynamodb.QueryInput{
		TableName:                 aws.String(r.tableName),
		KeyConditionExpression:    expr.KeyCondition(),
		ExpressionAttributeNames:  expr.Names(),
		ExpressionAttributeValues: expr.Values(),
	})
}

// FindByUser lists every grant a user holds via GSI1
func (r *AccessRepository) FindByUser(ctx context.Context, userID string) ([]*entities.AccessGrant, error) {
	keyCond := expression.Key("GSI1PK").Equal(expression.Value(userPK(userID))).
		And(expression.Key("GSI1SK").BeginsWith("GRANT#"))
	expr, err := expression.NewBuilder().WithKeyCondition(keyCond).Build()
	if err != nil {
		return nil, appErrors.NewDatabaseError("build user grant query", err)
	}

	return r.queryGrants(ctx, &dynamodb.QueryInput{
		TableName:                 aws.String(r.tableName),
		IndexName:                 aws.String(r.indexName),
		KeyConditionExpression:    expr.KeyCondition(),
		ExpressionAttributeNames:  expr.Names(),
		ExpressionAttributeValues: expr.Values(),
	})
}

// Delete removes one grant
func (r *AccessRepository) Delete(ctx context.Context, roadmapID, userID string) error {
	_, err := r.client.DeleteItem(ctx, &dynamodb.DeleteItemInput{
		TableName: aws.String(r.tableName),
		Key: map[string]types.AttributeValue{
			"PK": &types.AttributeValueMemberS{Value: roadmapPK(roadmapID)},
			"SK": &types.AttributeValueMemberS{Value: grantSK(userID)},
		},
	})
	if err != nil {
		return appErrors.NewDatabaseError("delete grant", err)
	}
	return nil
}

// DeleteByRoadmap removes every grant on a roadmap, used on publish
// and on roadmap deletion
func (r *AccessRepository) DeleteByRoadmap(ctx context.Context, roadmapID string) error {
	grants, err := r.FindByRoadmap(ctx, roadmapID)
	if err != nil {
		return err
	}

	for _, grant := range grants {
		if err := r.Delete(ctx, roadmapID, grant.UserID()); err != nil {
			return err
		}
	}

	return nil
}

func (r *AccessRepository) queryGrants(ctx context.Context, input *dynamodb.QueryInput) ([]*entities.AccessGrant, error) {
	var grants []*entities.AccessGrant
	paginator := dynamodb.NewQueryPaginator(r.client, input)
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, appErrors.NewDatabaseError("query grants", err)
		}
		for _, av := range page.Items {
			var item grantItem
			if err := attributevalue.UnmarshalMap(av, &item); err != nil {
				return nil, appErrors.NewDatabaseError("unmarshal grant", err)
			}
			createdAt, _ := time.Parse(time.RFC3339, item.CreatedAt)
			grants = append(grants, entities.ReconstructAccessGrant(
				item.GrantID, item.RoadmapID, item.UserID, item.GrantedBy, createdAt))
		}
	}
	return grants, nil
}

func grantSK(userID string) string {
	return fmt.Sprintf("GRANT#%s", userID)
}
