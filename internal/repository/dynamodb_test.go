package repository

import (
	"context"
	"errors"
	"strconv"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/deppfellow/users-api/internal/model"
)

// fakeDynamo records the last input of each call and answers from canned
// outputs. Scan serves pages in order, linked through LastEvaluatedKey.
type fakeDynamo struct {
	err error

	putInput    *dynamodb.PutItemInput
	getInput    *dynamodb.GetItemInput
	updateInput *dynamodb.UpdateItemInput
	deleteInput *dynamodb.DeleteItemInput
	scanCalls   int

	getItem      model.Item
	updateAttrs  model.Item
	deleteAttrs  model.Item
	scanPages    [][]model.Item
	describeName string
}

func (f *fakeDynamo) PutItem(_ context.Context, in *dynamodb.PutItemInput, _ ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error) {
	f.putInput = in
	if f.err != nil {
		return nil, f.err
	}
	return &dynamodb.PutItemOutput{}, nil
}

func (f *fakeDynamo) GetItem(_ context.Context, in *dynamodb.GetItemInput, _ ...func(*dynamodb.Options)) (*dynamodb.GetItemOutput, error) {
	f.getInput = in
	if f.err != nil {
		return nil, f.err
	}
	return &dynamodb.GetItemOutput{Item: f.getItem}, nil
}

func (f *fakeDynamo) Scan(_ context.Context, in *dynamodb.ScanInput, _ ...func(*dynamodb.Options)) (*dynamodb.ScanOutput, error) {
	f.scanCalls++
	if f.err != nil {
		return nil, f.err
	}

	page := 0
	if in.ExclusiveStartKey != nil {
		n, _ := strconv.Atoi(in.ExclusiveStartKey["page"].(*types.AttributeValueMemberN).Value)
		page = n
	}
	if page >= len(f.scanPages) {
		return &dynamodb.ScanOutput{}, nil
	}

	out := &dynamodb.ScanOutput{Items: f.scanPages[page]}
	if page+1 < len(f.scanPages) {
		out.LastEvaluatedKey = map[string]types.AttributeValue{
			"page": &types.AttributeValueMemberN{Value: strconv.Itoa(page + 1)},
		}
	}
	return out, nil
}

func (f *fakeDynamo) UpdateItem(_ context.Context, in *dynamodb.UpdateItemInput, _ ...func(*dynamodb.Options)) (*dynamodb.UpdateItemOutput, error) {
	f.updateInput = in
	if f.err != nil {
		return nil, f.err
	}
	return &dynamodb.UpdateItemOutput{Attributes: f.updateAttrs}, nil
}

func (f *fakeDynamo) DeleteItem(_ context.Context, in *dynamodb.DeleteItemInput, _ ...func(*dynamodb.Options)) (*dynamodb.DeleteItemOutput, error) {
	f.deleteInput = in
	if f.err != nil {
		return nil, f.err
	}
	return &dynamodb.DeleteItemOutput{Attributes: f.deleteAttrs}, nil
}

func (f *fakeDynamo) DescribeTable(_ context.Context, in *dynamodb.DescribeTableInput, _ ...func(*dynamodb.Options)) (*dynamodb.DescribeTableOutput, error) {
	f.describeName = aws.ToString(in.TableName)
	if f.err != nil {
		return nil, f.err
	}
	return &dynamodb.DescribeTableOutput{}, nil
}

func TestDynamoStore_Put(t *testing.T) {
	fake := &fakeDynamo{}
	store := NewDynamoStore(fake, "Users")
	item := userItem("u1", "Ann", "a@x.io", "30")

	require.NoError(t, store.Put(context.Background(), item))
	assert.Equal(t, "Users", aws.ToString(fake.putInput.TableName))
	assert.Equal(t, item, fake.putInput.Item)
	assert.Nil(t, fake.putInput.ConditionExpression)
}

func TestDynamoStore_Get(t *testing.T) {
	fake := &fakeDynamo{getItem: userItem("u1", "Ann", "a@x.io", "30")}
	store := NewDynamoStore(fake, "Users")

	got, err := store.Get(context.Background(), "u1")
	require.NoError(t, err)
	assert.Equal(t, fake.getItem, got)
	assert.Equal(t, &types.AttributeValueMemberS{Value: "u1"}, fake.getInput.Key[model.AttrUserID])

	fake.getItem = nil
	missing, err := store.Get(context.Background(), "nobody")
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestDynamoStore_ScanReadsEveryPage(t *testing.T) {
	fake := &fakeDynamo{scanPages: [][]model.Item{
		{userItem("a", "A", "a@x.io", "1"), userItem("b", "B", "b@x.io", "2")},
		{userItem("c", "C", "c@x.io", "3")},
	}}
	store := NewDynamoStore(fake, "Users")

	items, err := store.Scan(context.Background())
	require.NoError(t, err)
	assert.Len(t, items, 3)
	assert.Equal(t, 2, fake.scanCalls)
}

func TestDynamoStore_ScanEmptyTable(t *testing.T) {
	store := NewDynamoStore(&fakeDynamo{}, "Users")

	items, err := store.Scan(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, items)
	assert.Empty(t, items)
}

func TestDynamoStore_Update(t *testing.T) {
	fake := &fakeDynamo{updateAttrs: userItem("u1", "Ann", "a@x.io", "31")}
	store := NewDynamoStore(fake, "Users")

	fields := model.Item{
		model.AttrAge:   &types.AttributeValueMemberN{Value: "31"},
		model.AttrName:  &types.AttributeValueMemberS{Value: "Ann"},
		model.AttrEmail: &types.AttributeValueMemberS{Value: "a@x.io"},
	}

	got, err := store.Update(context.Background(), "u1", fields)
	require.NoError(t, err)
	assert.Equal(t, fake.updateAttrs, got)

	in := fake.updateInput
	assert.Equal(t, "SET #name = :name, #email = :email, #age = :age", aws.ToString(in.UpdateExpression))
	assert.Equal(t, map[string]string{"#name": "name", "#email": "email", "#age": "age"}, in.ExpressionAttributeNames)
	assert.Equal(t, fields[model.AttrAge], in.ExpressionAttributeValues[":age"])
	assert.Equal(t, types.ReturnValueAllNew, in.ReturnValues)
	assert.Equal(t, &types.AttributeValueMemberS{Value: "u1"}, in.Key[model.AttrUserID])
	assert.NotContains(t, aws.ToString(in.UpdateExpression), "userId")
}

func TestDynamoStore_UpdateWithoutFields(t *testing.T) {
	fake := &fakeDynamo{}
	store := NewDynamoStore(fake, "Users")

	_, err := store.Update(context.Background(), "u1", model.Item{})
	assert.Error(t, err)
	assert.Nil(t, fake.updateInput)
}

func TestDynamoStore_Delete(t *testing.T) {
	fake := &fakeDynamo{deleteAttrs: userItem("u1", "Ann", "a@x.io", "30")}
	store := NewDynamoStore(fake, "Users")

	old, err := store.Delete(context.Background(), "u1")
	require.NoError(t, err)
	assert.Equal(t, fake.deleteAttrs, old)
	assert.Equal(t, types.ReturnValueAllOld, fake.deleteInput.ReturnValues)

	fake.deleteAttrs = nil
	missing, err := store.Delete(context.Background(), "u1")
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestDynamoStore_ErrorsAreWrapped(t *testing.T) {
	cause := errors.New("ResourceNotFoundException: table missing")
	fake := &fakeDynamo{err: cause}
	store := NewDynamoStore(fake, "Users")
	ctx := context.Background()

	err := store.Put(ctx, userItem("u1", "Ann", "a@x.io", "30"))
	assert.ErrorIs(t, err, cause)

	_, err = store.Get(ctx, "u1")
	assert.ErrorIs(t, err, cause)

	_, err = store.Scan(ctx)
	assert.ErrorIs(t, err, cause)

	_, err = store.Delete(ctx, "u1")
	assert.ErrorIs(t, err, cause)

	err = store.Ping(ctx)
	assert.ErrorIs(t, err, cause)
	assert.Equal(t, "Users", fake.describeName)
}
