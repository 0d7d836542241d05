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

// UserRepository implements ports.UserRepository:
//
//	PK=USER#<id>          SK=METADATA
//	GSI1PK=EMAIL#<email>  GSI1SK=METADATA
type UserRepository struct {
	client    *dynamodb.Client
	tableName string
	indexName string
	logger    *zap.Logger
}

// NewUserRepository creates a new UserRepository
func NewUserRepository(client *dynamodb.Client, tableName, indexName string, logger *zap.Logger) ports.UserRepository {
	return &UserRepository{
		client:    client,
		tableName: tableName,
		indexName: indexName,
		logger:    logger,
	}
}

// userItem represents the DynamoDB item structure for a user
type userItem struct {
	PK              string   `dynamodbav:"PK"`
	SK              string   `dynamodbav:"SK"`
	GSI1PK          string   `dynamodbav:"GSI1PK"`
	GSI1SK          string   `dynamodbav:"GSI1SK"`
	EntityType      string   `dynamodbav:"EntityType"`
	UserID          string   `dynamodbav:"UserID"`
	Email           string   `dynamodbav:"Email"`
	Username        string   `dynamodbav:"Username"`
	RecentlyVisited []string `dynamodbav:"RecentlyVisited"`
	Starred         []string `dynamodbav:"Starred"`
	CreatedAt       string   `dynamodbav:"CreatedAt"`
	UpdatedAt       string   `dynamodbav:"UpdatedAt"`
}

// Save persists a user
func (r *UserRepository) Save(ctx context.Context, user *entities.User) error {
	item := userItem{
		PK:              userPK(user.ID()),
		SK:              "METADATA",
		GSI1PK:          fmt.Sprintf("EMAIL#%s", user.Email()),
		GSI1SK:          "METADATA",
		EntityType:      "USER",
		UserID:          user.ID(),
		Email:           user.Email(),
		Username:        user.Username(),
		RecentlyVisited: user.RecentlyVisited(),
		Starred:         user.Starred(),
		CreatedAt:       user.CreatedAt().Format(time.RFC3339),
		UpdatedAt:       user.UpdatedAt().Format(time.RFC3339),
	}

	av, err := attributevalue.MarshalMap(item)
	if err != nil {
		return appErrors.NewDatabaseError("marshal user", err)
	}

	_, err = r.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(r.tableName),
		Item:      av,
	})
	if err != nil {
		return appErrors.NewDatabaseError("save user", err)
	}

	return nil
}

// FindByID loads one user, returning (nil, nil) when absent
func (r *UserRepository) FindByID(ctx context.Context, userID string) (*entities.User, error) {
	out, err := r.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(r.tableName),
		Key: map[string]types.AttributeValue{
			"PK": &types.AttributeValueMemberS{Value: userPK(userID)},
			"SK": &types.AttributeValueMemberS{Value: "METADATA"},
		},
	})
	if err != nil {
		return nil, appErrors.NewDatabaseError("get user", err)
	}
	if out.Item == nil {
		return nil, nil
	}

	return unmarshalUser(out.Item)
}

// FindByEmail looks a user up by email via GSI1
func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*entities.User, error) {
	keyCond := expression.Key("GSI1PK").Equal(expression.Value(fmt.Sprintf("EMAIL#%s", email)))
	expr, err := expression.NewBuilder().WithKeyCondition(keyCond).Build()
	if err != nil {
		return nil, appErrors.NewDatabaseError("build email query", err)
	}

	out, err := r.client.Query(ctx, &dynamodb.QueryInput{
		TableName:                 aws.String(r.tableName),
		IndexName:                 aws.String(r.indexName),
		KeyConditionExpression:    expr.KeyCondition(),
		ExpressionAttributeNames:  expr.Names(),
		ExpressionAttributeValues: expr.Values(),
		Limit:                     aws.Int32(1),
	})
	if err != nil {
		return nil, appErrors.NewDatabaseError("query user by email", err)
	}
	if len(out.Items) == 0 {
		return nil, nil
	}

	return unmarshalUser(out.Items[0])
}

func unmarshalUser(av map[string]types.AttributeValue) (*entities.User, error) {
	var item userItem
	if err := attributevalue.UnmarshalMap(av, &item); err != nil {
		return nil, appErrors.NewDatabaseError("unmarshal user", err)
	}

	createdAt, _ := time.Parse(time.RFC3339, item.CreatedAt)
	updatedAt, _ := time.Parse(time.RFC3339, item.UpdatedAt)

	return entities.ReconstructUser(
		item.UserID, item.Email, item.Username,
		item.RecentlyVisited, item.Starred, createdAt, updatedAt), nil
}

func userPK(userID string) string {
	return fmt.Sprintf("USER#%s", userID)
}
