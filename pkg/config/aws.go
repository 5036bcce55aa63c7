package config

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
)

// LoadAWS carrega a configuração da AWS (env vars, profile, IAM role) na região configurada.
func LoadAWS(ctx context.Context, c AWSConf) (aws.Config, error) {
	opts := []func(*awsconfig.LoadOptions) error{}
	if c.Region != "" {
		opts = append(opts, awsconfig.WithRegion(c.Region))
	}
	cfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return aws.Config{}, fmt.Errorf("config: carregando credenciais AWS: %w", err)
	}
	return cfg, nil
}

// NewDynamoDBClient cria o cliente, apontando para DYNAMODB_ENDPOINT quando definido (DynamoDB Local).
func NewDynamoDBClient(awsCfg aws.Config, c AWSConf) *dynamodb.Client {
	return dynamodb.NewFromConfig(awsCfg, func(o *dynamodb.Options) {
		if c.DynamoDBEndpoint != "" {
			o.BaseEndpoint = aws.String(c.DynamoDBEndpoint)
		}
	})
}
