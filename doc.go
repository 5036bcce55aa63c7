// Package bookmarkservice é o backend de bookmarks por usuário: quatro
// handlers (POST, GET, PUT, DELETE) atrás do API Gateway, persistindo em uma
// tabela DynamoDB com chave de partição user_id e chave de ordenação
// bookmark_id.
//
// Visão Geral:
//
// 1. bookmark: modelo, validação das requisições, geração de ids (UUIDv7,
// ordenáveis por tempo) e o contrato Repository, com implementações para
// DynamoDB e para um banco local (badger).
//
// 2. dyndb: Store[T] genérico sobre o cliente DynamoDB, com put condicional,
// update guardado por attribute_exists, delete idempotente e Query lazy
// exposta como iter.Seq2.
//
// 3. localdb: o mesmo layout de chaves sobre BadgerDB, usado pelo runtime
// local e pelos testes.
//
// 4. envloader e pkg/config: configuração via tags "env"/"envDefault",
// arquivo YAML opcional (CONFIG_FILE_PATH) e interpolação ${ssm.}/${secret.}.
//
// 5. pkg/handler, pkg/transport e pkg/responder: tradução entre eventos do API
// Gateway e o serviço, roteamento por método e gateway HTTP local.
//
// Binários:
//
//	cmd/server   RUNTIME=lambda (lambda.Start) ou RUNTIME=local (HTTP em :PORT)
//	cmd/toolkit  validate | create-table
//
// Exemplo local:
//
//	TABLE_NAME=bookmarks RUNTIME=local STORE_BACKEND=badger go run ./cmd/server
//	curl -X POST localhost:8080/bookmarks \
//		-d '{"user_id":"u1","bookmark_url":"https://go.dev","title":"Go"}'
//	curl 'localhost:8080/bookmarks?user_id=u1'
package bookmarkservice
