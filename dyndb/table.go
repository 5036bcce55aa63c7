package dyndb

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

// CreateTable cria a tabela com chaves do tipo string e cobrança sob demanda.
// Com wait > 0, aguarda a tabela ficar ACTIVE.
func CreateTable(ctx context.Context, client TableAdminClient, cfg TableConfig, wait time.Duration) error {
	if cfg.TableName == "" || cfg.HashKey == "" {
		return fmt.Errorf("dynamostore: table name and hash key are required")
	}

	attrs := []types.AttributeDefinition{
		{AttributeName: aws.String(cfg.HashKey), AttributeType: types.ScalarAttributeTypeS},
	}
	schema := []types.KeySchemaElement{
		{AttributeName: aws.String(cfg.HashKey), KeyType: types.KeyTypeHash},
	}
	if cfg.SortKey != "" {
		attrs = append(attrs, types.AttributeDefinition{AttributeName: aws.String(cfg.SortKey), AttributeType: types.ScalarAttributeTypeS})
		schema = append(schema, types.KeySchemaElement{AttributeName: aws.String(cfg.SortKey), KeyType: types.KeyTypeRange})
	}

	_, err := client.CreateTable(ctx, &dynamodb.CreateTableInput{
		TableName:            aws.String(cfg.TableName),
		AttributeDefinitions: attrs,
		KeySchema:            schema,
		BillingMode:          types.BillingModePayPerRequest,
	})
	if err != nil {
		var inUse *types.ResourceInUseException
		if errors.As(err, &inUse) {
			return ErrTableExists
		}
		return fmt.Errorf("dynamostore: create table failed: %w", err)
	}

	if wait <= 0 {
		return nil
	}
	waiter := dynamodb.NewTableExistsWaiter(client)
	if err := waiter.Wait(ctx, &dynamodb.DescribeTableInput{TableName: aws.String(cfg.TableName)}, wait); err != nil {
		return fmt.Errorf("dynamostore: wait for table failed: %w", err)
	}
	return nil
}
