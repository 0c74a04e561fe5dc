package infrastructure

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/tidwall/gjson"
)

// TableSchema mirrors the CreateTable JSON shape used in table_schema.json
type TableSchema struct {
	TableName              string                 `json:"TableName"`
	AttributeDefinitions   []AttributeDefinition  `json:"AttributeDefinitions"`
	KeySchema              []KeySchemaElement     `json:"KeySchema"`
	ProvisionedThroughput  Throughput             `json:"ProvisionedThroughput"`
	GlobalSecondaryIndexes []GlobalSecondaryIndex `json:"GlobalSecondaryIndexes,omitempty"`
}

type AttributeDefinition struct {
	AttributeName string `json:"AttributeName"`
	AttributeType string `json:"AttributeType"`
}

type KeySchemaElement struct {
	AttributeName string `json:"AttributeName"`
	KeyType       string `json:"KeyType"`
}

type Throughput struct {
	ReadCapacityUnits  int64 `json:"ReadCapacityUnits"`
	WriteCapacityUnits int64 `json:"WriteCapacityUnits"`
}

type GlobalSecondaryIndex struct {
	IndexName             string             `json:"IndexName"`
	KeySchema             []KeySchemaElement `json:"KeySchema"`
	Projection            Projection         `json:"Projection"`
	ProvisionedThroughput Throughput         `json:"ProvisionedThroughput"`
}

type Projection struct {
	ProjectionType string `json:"ProjectionType"`
}

//go:embed table_schema.json
var tablesSchema []byte

// GetTables resolves a prefixed table name ("dev_businesses") to its schema
// and returns the CreateTable input with the prefixed name applied.
func GetTables(tableName string) (*dynamodb.CreateTableInput, error) {
	schemaKey := extractBaseTableName(tableName)

	tableJSON := gjson.Get(string(tablesSchema), schemaKey)
	if !tableJSON.Exists() {
		return nil, fmt.Errorf("table schema not found for key: %s", schemaKey)
	}

	var schema TableSchema
	if err := json.Unmarshal([]byte(tableJSON.Raw), &schema); err != nil {
		return nil, fmt.Errorf("failed to unmarshal schema JSON: %w", err)
	}

	schema.TableName = tableName
	return schema.ToDynamoInput(), nil
}

// extractBaseTableName strips the environment prefix, "dev_posts" -> "posts"
func extractBaseTableName(tableName string) string {
	parts := strings.Split(tableName, "_")
	if len(parts) > 1 {
		return parts[len(parts)-1]
	}
	return tableName
}

// ToDynamoInput converts the JSON schema into the SDK's CreateTableInput
func (ts *TableSchema) ToDynamoInput() *dynamodb.CreateTableInput {
	attrDefs := make([]types.AttributeDefinition, 0, len(ts.AttributeDefinitions))
	for _, a := range ts.AttributeDefinitions {
		attrDefs = append(attrDefs, types.AttributeDefinition{
			AttributeName: aws.String(a.AttributeName),
			AttributeType: types.ScalarAttributeType(a.AttributeType),
		})
	}

	keySchema := make([]types.KeySchemaElement, 0, len(ts.KeySchema))
	for _, k := range ts.KeySchema {
		keySchema = append(keySchema, types.KeySchemaElement{
			AttributeName: aws.String(k.AttributeName),
			KeyType:       types.KeyType(k.KeyType),
		})
	}

	var gsis []types.GlobalSecondaryIndex
	for _, g := range ts.GlobalSecondaryIndexes {
		gsiKeys := make([]types.KeySchemaElement, 0, len(g.KeySchema))
		for _, k := range g.KeySchema {
			gsiKeys = append(gsiKeys, types.KeySchemaElement{
				AttributeName: aws.String(k.AttributeName),
				KeyType:       types.KeyType(k.KeyType),
			})
		}
		gsis = append(gsis, types.GlobalSecondaryIndex{
			IndexName: aws.String(g.IndexName),
			KeySchema: gsiKeys,
			Projection: &types.Projection{
				ProjectionType: types.ProjectionType(g.Projection.ProjectionType),
			},
			ProvisionedThroughput: &types.ProvisionedThroughput{
				ReadCapacityUnits:  aws.Int64(g.ProvisionedThroughput.ReadCapacityUnits),
				WriteCapacityUnits: aws.Int64(g.ProvisionedThroughput.WriteCapacityUnits),
			},
		})
	}

	return &dynamodb.CreateTableInput{
		TableName:            aws.String(ts.TableName),
		AttributeDefinitions: attrDefs,
		KeySchema:            keySchema,
		ProvisionedThroughput: &types.ProvisionedThroughput{
			ReadCapacityUnits:  aws.Int64(ts.ProvisionedThroughput.ReadCapacityUnits),
			WriteCapacityUnits: aws.Int64(ts.ProvisionedThroughput.WriteCapacityUnits),
		},
		GlobalSecondaryIndexes: gsis,
	}
}
