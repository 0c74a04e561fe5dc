package dal

import (
	"context"
	"io"

	"b2bconnect-backend/models"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
)

// DatabaseClientInterface defines the contract for database operations
type DatabaseClientInterface interface {
	// Core CRUD operations
	GetItem(ctx context.Context, config models.QueryConfig, result interface{}) error
	PutItem(ctx context.Context, tableName string, item interface{}) error
	UpdateItem(ctx context.Context, tableName, key, keyValue string, updates map[string]interface{}) error
	DeleteItem(ctx context.Context, tableName, key, value string) error

	// Atomic counter increments, used for view and unread counts
	AddToCounter(ctx context.Context, tableName, key, keyValue, field string, delta int) error

	// Query and Scan operations
	QueryByIndex(ctx context.Context, tableName, indexName, keyName, keyValue string, results interface{}) error
	Scan(ctx context.Context, tableName string, results interface{}) error

	// Table management operations
	CreateTable(ctx context.Context, input *dynamodb.CreateTableInput) error
	DescribeTable(ctx context.Context, tableName string) (*dynamodb.DescribeTableOutput, error)
	DeleteTable(ctx context.Context, input *dynamodb.DeleteTableInput) error
}

// BlobStoreInterface defines the contract for media uploads
type BlobStoreInterface interface {
	Upload(ctx context.Context, key, contentType string, body io.Reader) (string, error)
}
