package dal

import (
	"context"
	"errors"
	"testing"

	"b2bconnect-backend/models"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

// MockDatabaseClient implements DatabaseClientInterface for testing
type MockDatabaseClient struct {
	mock.Mock
}

func (m *MockDatabaseClient) GetItem(ctx context.Context, config models.QueryConfig, result interface{}) error {
	args := m.Called(ctx, config, result)
	return args.Error(0)
}

func (m *MockDatabaseClient) PutItem(ctx context.Context, tableName string, item interface{}) error {
	args := m.Called(ctx, tableName, item)
	return args.Error(0)
}

func (m *MockDatabaseClient) UpdateItem(ctx context.Context, tableName, key, keyValue string, updates map[string]interface{}) error {
	args := m.Called(ctx, tableName, key, keyValue, updates)
	return args.Error(0)
}

func (m *MockDatabaseClient) DeleteItem(ctx context.Context, tableName, key, value string) error {
	args := m.Called(ctx, tableName, key, value)
	return args.Error(0)
}

func (m *MockDatabaseClient) AddToCounter(ctx context.Context, tableName, key, keyValue, field string, delta int) error {
	args := m.Called(ctx, tableName, key, keyValue, field, delta)
	return args.Error(0)
}

func (m *MockDatabaseClient) QueryByIndex(ctx context.Context, tableName, indexName, keyName, keyValue string, results interface{}) error {
	args := m.Called(ctx, tableName, indexName, keyName, keyValue, results)
	return args.Error(0)
}

func (m *MockDatabaseClient) Scan(ctx context.Context, tableName string, results interface{}) error {
	args := m.Called(ctx, tableName, results)
	return args.Error(0)
}

func (m *MockDatabaseClient) CreateTable(ctx context.Context, input *dynamodb.CreateTableInput) error {
	args := m.Called(ctx, input)
	return args.Error(0)
}

func (m *MockDatabaseClient) DescribeTable(ctx context.Context, tableName string) (*dynamodb.DescribeTableOutput, error) {
	args := m.Called(ctx, tableName)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dynamodb.DescribeTableOutput), args.Error(1)
}

func (m *MockDatabaseClient) DeleteTable(ctx context.Context, input *dynamodb.DeleteTableInput) error {
	args := m.Called(ctx, input)
	return args.Error(0)
}

type DALTestSuite struct {
	suite.Suite
	mockClient *MockDatabaseClient
	ctx        context.Context
}

func (s *DALTestSuite) SetupTest() {
	s.mockClient = new(MockDatabaseClient)
	s.ctx = context.Background()
}

func (s *DALTestSuite) TestGetItemPassesQueryConfig() {
	cfg := models.QueryConfig{
		TableName: "dev_businesses",
		KeyName:   "id",
		KeyValue:  "b-1",
		KeyType:   models.StringType,
	}

	var result models.Business
	s.mockClient.On("GetItem", s.ctx, cfg, &result).Return(nil)

	err := s.mockClient.GetItem(s.ctx, cfg, &result)

	s.NoError(err)
	s.mockClient.AssertExpectations(s.T())
}

func (s *DALTestSuite) TestAddToCounterPropagatesError() {
	expected := errors.New("throughput exceeded")
	s.mockClient.On("AddToCounter", s.ctx, "dev_businesses", "id", "b-1", "view_count", 1).
		Return(expected)

	err := s.mockClient.AddToCounter(s.ctx, "dev_businesses", "id", "b-1", "view_count", 1)

	s.ErrorIs(err, expected)
	s.mockClient.AssertExpectations(s.T())
}

func TestDALTestSuite(t *testing.T) {
	suite.Run(t, new(DALTestSuite))
}

func TestDatabaseClientInterface(t *testing.T) {
	// Both the mock and the real client must satisfy the interface.
	var _ DatabaseClientInterface = (*MockDatabaseClient)(nil)
	var _ DatabaseClientInterface = (*DynamoDBClient)(nil)
	var _ BlobStoreInterface = (*S3BlobStore)(nil)
}

func TestKeyAttribute(t *testing.T) {
	tests := []struct {
		name     string
		keyType  models.AttributeType
		value    string
		expected types.AttributeValue
	}{
		{
			name:     "string key",
			keyType:  models.StringType,
			value:    "abc",
			expected: &types.AttributeValueMemberS{Value: "abc"},
		},
		{
			name:     "number key",
			keyType:  models.NumberType,
			value:    "42",
			expected: &types.AttributeValueMemberN{Value: "42"},
		},
		{
			name:     "binary key",
			keyType:  models.BinaryType,
			value:    "abc",
			expected: &types.AttributeValueMemberB{Value: []byte("abc")},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, keyAttribute(tt.keyType, tt.value))
		})
	}
}
