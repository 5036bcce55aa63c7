// Package dyndb fornece uma abstração genérica e fortemente tipada sobre o
// AWS DynamoDB Go SDK (v2).
//
// Visão Geral:
// O pacote `dyndb` oferece a interface `Store[T]`, que esconde os tipos de
// baixo nível do SDK (AttributeValue, expressões) atrás de operações tipadas.
//
// Funcionalidades Principais:
//   - Put condicional: nunca sobrescreve um item existente (ErrAlreadyExists).
//   - Update parcial: SET apenas nos campos informados e somente se o item
//     existir (ErrNotFound caso contrário).
//   - Delete idempotente.
//   - Query fluente com paginação preguiçosa via `iter.Seq2`.
//   - CreateTable para provisionar a tabela (DynamoDB Local ou AWS).
//
// Exemplo:
//
//	type Bookmark struct {
//		UserID     string `dynamodbav:"user_id"`
//		BookmarkID string `dynamodbav:"bookmark_id"`
//		Title      string `dynamodbav:"title"`
//	}
//
//	store := dyndb.New[Bookmark](client, dyndb.TableConfig{
//		TableName: "bookmarks", HashKey: "user_id", SortKey: "bookmark_id",
//	})
//
//	for b, err := range store.Query().KeyEqual("user_id", "u1").Iter(ctx) {
//		if err != nil { /* ... */ }
//		fmt.Println(b.Title)
//	}
package dyndb
