package bookmark

import (
	"context"
	"iter"
)

// Repository is the store adapter the handlers depend on.
type Repository interface {
	// Create stores a new bookmark under a freshly generated id and returns it.
	Create(ctx context.Context, userID, bookmarkURL, title string) (string, error)
	// List yields the user's bookmarks in ascending bookmark_id order. The
	// sequence is lazy and can be ranged only once.
	List(ctx context.Context, userID string) iter.Seq2[Bookmark, error]
	// Update replaces title and url of an existing bookmark. Updating a
	// bookmark that does not exist is a no-op and never creates one.
	Update(ctx context.Context, userID, bookmarkID, bookmarkURL, title string) error
	// Delete removes the bookmark; deleting a missing one succeeds.
	Delete(ctx context.Context, userID, bookmarkID string) error
}

// storeErrors wraps a backend error from a sequence into a StoreError.
func storeErrors(op string, seq iter.Seq2[Bookmark, error]) iter.Seq2[Bookmark, error] {
	return func(yield func(Bookmark, error) bool) {
		for b, err := range seq {
			if err != nil {
				yield(Bookmark{}, &StoreError{Op: op, Err: err})
				return
			}
			if !yield(b, nil) {
				return
			}
		}
	}
}
