package repository

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"

	"github.com/deppfellow/users-api/internal/config"
	"github.com/deppfellow/users-api/internal/model"
)

// DynamoAPI is the subset of the DynamoDB client the store uses.
// Tests substitute a fake implementation.
type DynamoAPI interface {
	PutItem(ctx context.Context, params *dynamodb.PutItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error)
	GetItem(ctx context.Context, params *dynamodb.GetItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.GetItemOutput, error)
	Scan(ctx context.Context, params *dynamodb.ScanInput, optFns ...func(*dynamodb.Options)) (*dynamodb.ScanOutput, error)
	UpdateItem(ctx context.Context, params *dynamodb.UpdateItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.UpdateItemOutput, error)
	DeleteItem(ctx context.Context, params *dynamodb.DeleteItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.DeleteItemOutput, error)
	DescribeTable(ctx context.Context, params *dynamodb.DescribeTableInput, optFns ...func(*dynamodb.Options)) (*dynamodb.DescribeTableOutput, error)
}

// DynamoStore keeps user items in a DynamoDB table whose hash key is userId.
type DynamoStore struct {
	client    DynamoAPI
	tableName string
}

// NewDynamoClient builds a DynamoDB client for the configured region.
// A non-empty endpoint redirects the client, e.g. to DynamoDB Local.
func NewDynamoClient(ctx context.Context, cfg config.AWSConfig) (*dynamodb.Client, error) {
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(cfg.Region))
	if err != nil {
		return nil, fmt.Errorf("failed to load aws config: %w", err)
	}

	return dynamodb.NewFromConfig(awsCfg, func(o *dynamodb.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
		}
	}), nil
}

// NewDynamoStore wraps a DynamoDB client bound to tableName.
func NewDynamoStore(client DynamoAPI, tableName string) *DynamoStore {
	return &DynamoStore{
		client:    client,
		tableName: tableName,
	}
}

// TableName reports the table the store writes to.
func (s *DynamoStore) TableName() string {
	return s.tableName
}

func (s *DynamoStore) key(userID string) model.Item {
	return model.Item{
		model.AttrUserID: &types.AttributeValueMemberS{Value: userID},
	}
}

func (s *DynamoStore) Put(ctx context.Context, item model.Item) error {
	_, err := s.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(s.tableName),
		Item:      item,
	})
	if err != nil {
		return fmt.Errorf("put item: %w", err)
	}
	return nil
}

func (s *DynamoStore) Get(ctx context.Context, userID string) (model.Item, error) {
	out, err := s.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(s.tableName),
		Key:       s.key(userID),
	})
	if err != nil {
		return nil, fmt.Errorf("get item: %w", err)
	}
	if len(out.Item) == 0 {
		return nil, nil
	}
	return out.Item, nil
}

// Scan walks every page of the table.
func (s *DynamoStore) Scan(ctx context.Context) ([]model.Item, error) {
	items := []model.Item{}

	paginator := dynamodb.NewScanPaginator(s.client, &dynamodb.ScanInput{
		TableName: aws.String(s.tableName),
	})
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("scan: %w", err)
		}
		items = append(items, page.Items...)
	}

	return items, nil
}

// Update issues a SET expression over the given attributes and asks DynamoDB
// for ALL_NEW. userId is never part of the expression.
func (s *DynamoStore) Update(ctx context.Context, userID string, fields model.Item) (model.Item, error) {
	expr, names, values := buildSetExpression(fields)
	if expr == "" {
		return nil, fmt.Errorf("update item: no attributes to update")
	}

	out, err := s.client.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName:                 aws.String(s.tableName),
		Key:                       s.key(userID),
		UpdateExpression:          aws.String(expr),
		ExpressionAttributeNames:  names,
		ExpressionAttributeValues: values,
		ReturnValues:              types.ReturnValueAllNew,
	})
	if err != nil {
		return nil, fmt.Errorf("update item: %w", err)
	}
	return out.Attributes, nil
}

// Delete asks DynamoDB for ALL_OLD so the removed item comes back from the
// same call that removed it.
func (s *DynamoStore) Delete(ctx context.Context, userID string) (model.Item, error) {
	out, err := s.client.DeleteItem(ctx, &dynamodb.DeleteItemInput{
		TableName:    aws.String(s.tableName),
		Key:          s.key(userID),
		ReturnValues: types.ReturnValueAllOld,
	})
	if err != nil {
		return nil, fmt.Errorf("delete item: %w", err)
	}
	if len(out.Attributes) == 0 {
		return nil, nil
	}
	return out.Attributes, nil
}

// Ping checks that the table exists and is reachable.
func (s *DynamoStore) Ping(ctx context.Context) error {
	_, err := s.client.DescribeTable(ctx, &dynamodb.DescribeTableInput{
		TableName: aws.String(s.tableName),
	})
	if err != nil {
		return fmt.Errorf("describe table %s: %w", s.tableName, err)
	}
	return nil
}

// updatableAttrs fixes the order attributes appear in the SET expression.
var updatableAttrs = []string{model.AttrName, model.AttrEmail, model.AttrAge}

// buildSetExpression renders "SET #name = :name, #email = :email, #age = :age" for
// whichever of the updatable attributes are present. Every attribute goes
// through an expression name since "name" is a DynamoDB reserved word.
func buildSetExpression(fields model.Item) (string, map[string]string, map[string]types.AttributeValue) {
	names := map[string]string{}
	values := map[string]types.AttributeValue{}
	expr := ""

	for _, attr := range updatableAttrs {
		v, ok := fields[attr]
		if !ok {
			continue
		}

		namePlaceholder := "#" + attr
		valuePlaceholder := ":" + attr
		names[namePlaceholder] = attr
		values[valuePlaceholder] = v

		if expr == "" {
			expr = "SET "
		} else {
			expr += ", "
		}
		expr += namePlaceholder + " = " + valuePlaceholder
	}

	return expr, names, values
}
