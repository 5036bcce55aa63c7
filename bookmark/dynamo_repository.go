package bookmark

import (
	"context"
	"errors"
	"iter"

	"github.com/raywall/bookmark-service/dyndb"
	"github.com/rs/zerolog"
)

// DynamoRepository is the Repository backed by a DynamoDB table with
// partition key user_id and sort key bookmark_id.
type DynamoRepository struct {
	store dyndb.Store[Bookmark]
	ids   IDGenerator
}

// TableConfig returns the key layout of the bookmarks table.
func TableConfig(tableName string) dyndb.TableConfig {
	return dyndb.TableConfig{
		TableName: tableName,
		HashKey:   AttrUserID,
		SortKey:   AttrBookmarkID,
	}
}

// NewDynamoRepository wires the repository to a DynamoDB client.
func NewDynamoRepository(client dyndb.DynamoDBClient, tableName string, ids IDGenerator) *DynamoRepository {
	return &DynamoRepository{
		store: dyndb.New[Bookmark](client, TableConfig(tableName)),
		ids:   ids,
	}
}

func (r *DynamoRepository) Create(ctx context.Context, userID, bookmarkURL, title string) (string, error) {
	id, err := r.ids.NewID()
	if err != nil {
		return "", &StoreError{Op: "create", Err: err}
	}

	item := Bookmark{UserID: userID, BookmarkID: id, BookmarkURL: bookmarkURL, Title: title}
	if err := r.store.Put(ctx, item); err != nil {
		return "", &StoreError{Op: "create", Err: err}
	}

	zerolog.Ctx(ctx).Debug().Str("user_id", userID).Str("bookmark_id", id).Msg("bookmark stored")
	return id, nil
}

func (r *DynamoRepository) List(ctx context.Context, userID string) iter.Seq2[Bookmark, error] {
	seq := r.store.Query().
		KeyEqual(AttrUserID, userID).
		ConsistentRead(true).
		Iter(ctx)
	return storeErrors("list", seq)
}

func (r *DynamoRepository) Update(ctx context.Context, userID, bookmarkID, bookmarkURL, title string) error {
	err := r.store.Update(ctx, userID, bookmarkID, map[string]any{
		AttrBookmarkURL: bookmarkURL,
		AttrTitle:       title,
	})
	if errors.Is(err, dyndb.ErrNotFound) {
		zerolog.Ctx(ctx).Debug().Str("user_id", userID).Str("bookmark_id", bookmarkID).Msg("update skipped, bookmark does not exist")
		return nil
	}
	if err != nil {
		return &StoreError{Op: "update", Err: err}
	}
	return nil
}

func (r *DynamoRepository) Delete(ctx context.Context, userID, bookmarkID string) error {
	if err := r.store.Delete(ctx, userID, bookmarkID); err != nil {
		return &StoreError{Op: "delete", Err: err}
	}
	return nil
}
