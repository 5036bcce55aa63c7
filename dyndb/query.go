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
	"fmt"
	"iter"
	"sync/atomic"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/expression"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
)

// Query inicia uma Query em ordem crescente da sort key
func (s *dynamoStore[T]) Query() *QueryBuilder[T] {
	return &QueryBuilder[T]{
		store:       s,
		scanForward: true,
	}
}

func (qb *QueryBuilder[T]) KeyEqual(key string, value any) *QueryBuilder[T] {
	return qb.withKey(expression.KeyEqual(expression.Key(key), expression.Value(value)))
}

func (qb *QueryBuilder[T]) KeyBeginsWith(key, prefix string) *QueryBuilder[T] {
	return qb.withKey(expression.Key(key).BeginsWith(prefix))
}

// PageSize limita os itens lidos por chamada, não o total da sequência
func (qb *QueryBuilder[T]) PageSize(n int32) *QueryBuilder[T] {
	qb.pageSize = n
	return qb
}

func (qb *QueryBuilder[T]) ScanForward(forward bool) *QueryBuilder[T] {
	qb.scanForward = forward
	return qb
}

func (qb *QueryBuilder[T]) ConsistentRead(consistent bool) *QueryBuilder[T] {
	qb.consistent = consistent
	return qb
}

func (qb *QueryBuilder[T]) withKey(cond expression.KeyConditionBuilder) *QueryBuilder[T] {
	if qb.keyCond == nil {
		qb.keyCond = &cond
	} else {
		tmp := qb.keyCond.And(cond)
		qb.keyCond = &tmp
	}
	return qb
}

func (qb *QueryBuilder[T]) input() (*dynamodb.QueryInput, error) {
	if qb.keyCond == nil {
		return nil, ErrMissingKeyCondition
	}
	expr, err := expression.NewBuilder().WithKeyCondition(*qb.keyCond).Build()
	if err != nil {
		return nil, fmt.Errorf("dynamostore: build expression failed: %w", err)
	}

	return &dynamodb.QueryInput{
		TableName:                 aws.String(qb.store.cfg.TableName),
		KeyConditionExpression:    expr.KeyCondition(),
		ExpressionAttributeNames:  expr.Names(),
		ExpressionAttributeValues: expr.Values(),
		ScanIndexForward:          aws.Bool(qb.scanForward),
		ConsistentRead:            aws.Bool(qb.consistent),
	}, nil
}

// Iter executa a consulta sob demanda: cada página só é buscada quando o
// consumidor chega nela. A sequência só pode ser percorrida uma vez; um
// segundo range não produz nenhum item. Um erro encerra a sequência.
func (qb *QueryBuilder[T]) Iter(ctx context.Context) iter.Seq2[T, error] {
	var consumed atomic.Bool

	return func(yield func(T, error) bool) {
		if !consumed.CompareAndSwap(false, true) {
			return
		}

		var zero T
		input, err := qb.input()
		if err != nil {
			yield(zero, err)
			return
		}

		paginator := dynamodb.NewQueryPaginator(qb.store.client, input, func(o *dynamodb.QueryPaginatorOptions) {
			if qb.pageSize > 0 {
				o.Limit = qb.pageSize
			}
		})

		for paginator.HasMorePages() {
			page, err := paginator.NextPage(ctx)
			if err != nil {
				yield(zero, fmt.Errorf("dynamostore: query failed: %w", err))
				return
			}
			for _, raw := range page.Items {
				var item T
				if err := attributevalue.UnmarshalMap(raw, &item); err != nil {
					yield(zero, fmt.Errorf("dynamostore: unmarshal failed: %w", err))
					return
				}
				if !yield(item, nil) {
					return
				}
			}
		}
	}
}
