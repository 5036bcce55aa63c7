package bookmark

import (
	"context"
	"errors"
	"iter"

	"github.com/dgraph-io/badger/v4"
	"github.com/raywall/bookmark-service/localdb"
	"github.com/rs/zerolog"
)

// LocalRepository is the Repository backed by an embedded BadgerDB store.
// It follows the same rules as DynamoRepository and backs the local runtime.
type LocalRepository struct {
	store *localdb.Store[Bookmark]
	ids   IDGenerator
}

// NewLocalRepository stores bookmarks in db under tableName.
func NewLocalRepository(db *badger.DB, tableName string, ids IDGenerator) *LocalRepository {
	return &LocalRepository{
		store: localdb.New(db, tableName, func(b Bookmark) (string, string) {
			return b.UserID, b.BookmarkID
		}),
		ids: ids,
	}
}

func (r *LocalRepository) Create(ctx context.Context, userID, bookmarkURL, title string) (string, error) {
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

func (r *LocalRepository) List(ctx context.Context, userID string) iter.Seq2[Bookmark, error] {
	return storeErrors("list", r.store.Query(ctx, userID))
}

func (r *LocalRepository) Update(ctx context.Context, userID, bookmarkID, bookmarkURL, title string) error {
	err := r.store.Update(ctx, userID, bookmarkID, func(b *Bookmark) {
		b.BookmarkURL = bookmarkURL
		b.Title = title
	})
	if errors.Is(err, localdb.ErrNotFound) {
		zerolog.Ctx(ctx).Debug().Str("user_id", userID).Str("bookmark_id", bookmarkID).Msg("update skipped, bookmark does not exist")
		return nil
	}
	if err != nil {
		return &StoreError{Op: "update", Err: err}
	}
	return nil
}

func (r *LocalRepository) Delete(ctx context.Context, userID, bookmarkID string) error {
	if err := r.store.Delete(ctx, userID, bookmarkID); err != nil {
		return &StoreError{Op: "delete", Err: err}
	}
	return nil
}
