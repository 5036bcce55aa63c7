package dyndb_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/raywall/bookmark-service/dyndb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestPut_Success(t *testing.T) {
	t.Parallel()

	mockClient := &MockDynamoClient{}
	store := createTestStore(mockClient)

	mockClient.On("PutItem", mock.Anything, mock.MatchedBy(func(in *dynamodb.PutItemInput) bool {
		return aws.ToString(in.TableName) == "test-table" &&
			strings.Contains(aws.ToString(in.ConditionExpression), "attribute_not_exists") &&
			hasName(in.ExpressionAttributeNames, "sk") &&
			in.Item["data"].(*types.AttributeValueMemberS).Value == "hello"
	})).Return(&dynamodb.PutItemOutput{}, nil)

	err := store.Put(context.Background(), TestItem{PK: "u1", SK: "b1", Data: "hello"})

	require.NoError(t, err)
	mockClient.AssertExpectations(t)
}

func TestPut_AlreadyExists(t *testing.T) {
	t.Parallel()

	mockClient := &MockDynamoClient{}
	store := createTestStore(mockClient)

	mockClient.On("PutItem", mock.Anything, mock.Anything).
		Return(nil, &types.ConditionalCheckFailedException{Message: aws.String("exists")})

	err := store.Put(context.Background(), TestItem{PK: "u1", SK: "b1"})

	assert.ErrorIs(t, err, dyndb.ErrAlreadyExists)
}

func TestPut_ClientError(t *testing.T) {
	t.Parallel()

	mockClient := &MockDynamoClient{}
	store := createTestStore(mockClient)
	boom := errors.New("throttled")

	mockClient.On("PutItem", mock.Anything, mock.Anything).Return(nil, boom)

	err := store.Put(context.Background(), TestItem{PK: "u1", SK: "b1"})

	require.Error(t, err)
	assert.ErrorIs(t, err, boom)
	assert.Contains(t, err.Error(), "put failed")
}

func TestUpdate_Success(t *testing.T) {
	t.Parallel()

	mockClient := &MockDynamoClient{}
	store := createTestStore(mockClient)

	mockClient.On("UpdateItem", mock.Anything, mock.MatchedBy(func(in *dynamodb.UpdateItemInput) bool {
		pk, ok := in.Key["pk"].(*types.AttributeValueMemberS)
		if !ok || pk.Value != "u1" {
			return false
		}
		sk, ok := in.Key["sk"].(*types.AttributeValueMemberS)
		if !ok || sk.Value != "b1" {
			return false
		}
		return strings.HasPrefix(aws.ToString(in.UpdateExpression), "SET") &&
			strings.Contains(aws.ToString(in.ConditionExpression), "attribute_exists") &&
			hasName(in.ExpressionAttributeNames, "data") &&
			len(in.ExpressionAttributeValues) == 1
	})).Return(&dynamodb.UpdateItemOutput{}, nil)

	err := store.Update(context.Background(), "u1", "b1", map[string]any{"data": "new"})

	require.NoError(t, err)
	mockClient.AssertExpectations(t)
}

func TestUpdate_MissingItem(t *testing.T) {
	t.Parallel()

	mockClient := &MockDynamoClient{}
	store := createTestStore(mockClient)

	mockClient.On("UpdateItem", mock.Anything, mock.Anything).
		Return(nil, &types.ConditionalCheckFailedException{})

	err := store.Update(context.Background(), "u1", "nope", map[string]any{"data": "new"})

	assert.ErrorIs(t, err, dyndb.ErrNotFound)
}

func TestUpdate_RejectsKeyAttributes(t *testing.T) {
	t.Parallel()

	mockClient := &MockDynamoClient{}
	store := createTestStore(mockClient)

	err := store.Update(context.Background(), "u1", "b1", map[string]any{"sk": "other"})
	require.Error(t, err)

	err = store.Update(context.Background(), "u1", "b1", nil)
	require.Error(t, err)

	mockClient.AssertNotCalled(t, "UpdateItem", mock.Anything, mock.Anything)
}

func TestDelete_Success(t *testing.T) {
	t.Parallel()

	mockClient := &MockDynamoClient{}
	store := createTestStore(mockClient)

	mockClient.On("DeleteItem", mock.Anything, &dynamodb.DeleteItemInput{
		TableName: aws.String("test-table"),
		Key: map[string]types.AttributeValue{
			"pk": &types.AttributeValueMemberS{Value: "u1"},
			"sk": &types.AttributeValueMemberS{Value: "b1"},
		},
	}).Return(&dynamodb.DeleteItemOutput{}, nil).Twice()

	require.NoError(t, store.Delete(context.Background(), "u1", "b1"))
	require.NoError(t, store.Delete(context.Background(), "u1", "b1"))
	mockClient.AssertExpectations(t)
}

func TestDelete_ClientError(t *testing.T) {
	t.Parallel()

	mockClient := &MockDynamoClient{}
	store := createTestStore(mockClient)

	mockClient.On("DeleteItem", mock.Anything, mock.Anything).Return(nil, errors.New("unreachable"))

	err := store.Delete(context.Background(), "u1", "b1")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "delete failed")
}

// A configuração passada ao New é usada como está, sem consultar o ambiente.
func TestNew_IgnoresEnvironment(t *testing.T) {
	t.Setenv("TABLE_NAME", "env-table")
	t.Setenv("DYNAMODB_HASH_KEY", "env_pk")

	mockClient := &MockDynamoClient{}
	store := dyndb.New[TestItem](mockClient, dyndb.TableConfig{TableName: "", HashKey: "pk", SortKey: "sk"})

	mockClient.On("DeleteItem", mock.Anything, mock.MatchedBy(func(in *dynamodb.DeleteItemInput) bool {
		_, hasPK := in.Key["pk"]
		return aws.ToString(in.TableName) == "" && hasPK
	})).Return(&dynamodb.DeleteItemOutput{}, nil)

	require.NoError(t, store.Delete(context.Background(), "u1", "b1"))
	mockClient.AssertExpectations(t)
}
