// Copyright 2025 Raywall Malheiros de Souza
// Licensed under the Mozilla Public License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//	https://www.mozilla.org/en-US/MPL/2.0/
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.
package dyndb

import (
	"context"
	"errors"

	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/expression"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
)

var (
	// ErrNotFound: a condição de existência do item falhou
	ErrNotFound = errors.New("dyndb: item not found")
	// ErrAlreadyExists: já existe um item com a mesma chave primária
	ErrAlreadyExists = errors.New("dyndb: item already exists")
	// ErrTableExists: a tabela já foi criada
	ErrTableExists = errors.New("dyndb: table already exists")
	// ErrMissingKeyCondition: Query sem condição de chave
	ErrMissingKeyCondition = errors.New("dyndb: query requires a key condition")
)

// DynamoDBClient interface para abstrair o cliente DynamoDB.
// Também satisfaz dynamodb.QueryAPIClient, usado pelo paginator.
type DynamoDBClient interface {
	PutItem(ctx context.Context, params *dynamodb.PutItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error)
	UpdateItem(ctx context.Context, params *dynamodb.UpdateItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.UpdateItemOutput, error)
	DeleteItem(ctx context.Context, params *dynamodb.DeleteItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.DeleteItemOutput, error)
	Query(ctx context.Context, params *dynamodb.QueryInput, optFns ...func(*dynamodb.Options)) (*dynamodb.QueryOutput, error)
}

// TableAdminClient cobre as chamadas de provisionamento da tabela
type TableAdminClient interface {
	CreateTable(ctx context.Context, params *dynamodb.CreateTableInput, optFns ...func(*dynamodb.Options)) (*dynamodb.CreateTableOutput, error)
	DescribeTable(ctx context.Context, params *dynamodb.DescribeTableInput, optFns ...func(*dynamodb.Options)) (*dynamodb.DescribeTableOutput, error)
}

// Store é a interface genérica de persistência
type Store[T any] interface {
	// Put grava o item somente se a chave primária ainda não existir
	Put(ctx context.Context, item T) error
	// Update aplica SET nos campos informados somente se o item existir
	Update(ctx context.Context, hashKey, sortKey any, fields map[string]any) error
	// Delete é idempotente
	Delete(ctx context.Context, hashKey, sortKey any) error

	Query() *QueryBuilder[T]
}

// TableConfig descreve a tabela e suas chaves
type TableConfig struct {
	TableName string
	HashKey   string
	SortKey   string // opcional
}

// primaryKeyAttr é o atributo usado nas condições de existência
func (c TableConfig) primaryKeyAttr() string {
	if c.SortKey != "" {
		return c.SortKey
	}
	return c.HashKey
}

// QueryBuilder monta uma Query de forma fluente
type QueryBuilder[T any] struct {
	store       *dynamoStore[T]
	keyCond     *expression.KeyConditionBuilder
	pageSize    int32
	consistent  bool
	scanForward bool
}
