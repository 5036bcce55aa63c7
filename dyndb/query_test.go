package dyndb_test

import (
	"context"
	"errors"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/raywall/bookmark-service/dyndb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func rawItem(pk, sk, data string) map[string]types.AttributeValue {
	return map[string]types.AttributeValue{
		"pk":   &types.AttributeValueMemberS{Value: pk},
		"sk":   &types.AttributeValueMemberS{Value: sk},
		"data": &types.AttributeValueMemberS{Value: data},
	}
}

func firstPage(in *dynamodb.QueryInput) bool  { return len(in.ExclusiveStartKey) == 0 }
func secondPage(in *dynamodb.QueryInput) bool { return len(in.ExclusiveStartKey) > 0 }

func setupTwoPages(client *MockDynamoClient) {
	lastKey := map[string]types.AttributeValue{
		"pk": &types.AttributeValueMemberS{Value: "u1"},
		"sk": &types.AttributeValueMemberS{Value: "b2"},
	}
	client.On("Query", mock.Anything, mock.MatchedBy(firstPage)).Return(&dynamodb.QueryOutput{
		Items:            []map[string]types.AttributeValue{rawItem("u1", "b1", "one"), rawItem("u1", "b2", "two")},
		LastEvaluatedKey: lastKey,
	}, nil)
	client.On("Query", mock.Anything, mock.MatchedBy(secondPage)).Return(&dynamodb.QueryOutput{
		Items: []map[string]types.AttributeValue{rawItem("u1", "b3", "three")},
	}, nil)
}

func TestQuery_Iter_AllPages(t *testing.T) {
	t.Parallel()

	mockClient := &MockDynamoClient{}
	store := createTestStore(mockClient)
	setupTwoPages(mockClient)

	var got []string
	for item, err := range store.Query().KeyEqual("pk", "u1").Iter(context.Background()) {
		require.NoError(t, err)
		got = append(got, item.SK)
	}

	assert.Equal(t, []string{"b1", "b2", "b3"}, got)
	mockClient.AssertNumberOfCalls(t, "Query", 2)
}

func TestQuery_Iter_Input(t *testing.T) {
	t.Parallel()

	mockClient := &MockDynamoClient{}
	store := createTestStore(mockClient)

	mockClient.On("Query", mock.Anything, mock.MatchedBy(func(in *dynamodb.QueryInput) bool {
		return aws.ToString(in.TableName) == "test-table" &&
			aws.ToBool(in.ScanIndexForward) &&
			aws.ToInt32(in.Limit) == 25 &&
			hasName(in.ExpressionAttributeNames, "pk") &&
			in.KeyConditionExpression != nil
	})).Return(&dynamodb.QueryOutput{}, nil)

	count := 0
	for _, err := range store.Query().KeyEqual("pk", "u1").PageSize(25).Iter(context.Background()) {
		require.NoError(t, err)
		count++
	}

	assert.Zero(t, count)
	mockClient.AssertExpectations(t)
}

func TestQuery_Iter_IsLazy(t *testing.T) {
	t.Parallel()

	mockClient := &MockDynamoClient{}
	store := createTestStore(mockClient)
	setupTwoPages(mockClient)

	seq := store.Query().KeyEqual("pk", "u1").Iter(context.Background())
	mockClient.AssertNotCalled(t, "Query", mock.Anything, mock.Anything)

	for item, err := range seq {
		require.NoError(t, err)
		assert.Equal(t, "b1", item.SK)
		break
	}

	mockClient.AssertNumberOfCalls(t, "Query", 1)
}

func TestQuery_Iter_NotRestartable(t *testing.T) {
	t.Parallel()

	mockClient := &MockDynamoClient{}
	store := createTestStore(mockClient)
	setupTwoPages(mockClient)

	seq := store.Query().KeyEqual("pk", "u1").Iter(context.Background())

	first := 0
	for range seq {
		first++
	}
	second := 0
	for range seq {
		second++
	}

	assert.Equal(t, 3, first)
	assert.Zero(t, second)
}

func TestQuery_Iter_Error(t *testing.T) {
	t.Parallel()

	mockClient := &MockDynamoClient{}
	store := createTestStore(mockClient)
	boom := errors.New("service unavailable")

	mockClient.On("Query", mock.Anything, mock.Anything).Return(nil, boom)

	var errs []error
	for _, err := range store.Query().KeyEqual("pk", "u1").Iter(context.Background()) {
		errs = append(errs, err)
	}

	require.Len(t, errs, 1)
	assert.ErrorIs(t, errs[0], boom)
}

func TestQuery_Iter_MissingKeyCondition(t *testing.T) {
	t.Parallel()

	mockClient := &MockDynamoClient{}
	store := createTestStore(mockClient)

	for _, err := range store.Query().Iter(context.Background()) {
		assert.ErrorIs(t, err, dyndb.ErrMissingKeyCondition)
	}
	mockClient.AssertNotCalled(t, "Query", mock.Anything, mock.Anything)
}
