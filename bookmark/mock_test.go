package bookmark_test

import (
	"context"
	"fmt"
	"iter"
	"sync"

	"github.com/raywall/bookmark-service/bookmark"
	"github.com/stretchr/testify/mock"
)

// MockRepository mocks the Repository interface.
type MockRepository struct {
	mock.Mock
}

func (m *MockRepository) Create(ctx context.Context, userID, bookmarkURL, title string) (string, error) {
	args := m.Called(ctx, userID, bookmarkURL, title)
	return args.String(0), args.Error(1)
}

func (m *MockRepository) List(ctx context.Context, userID string) iter.Seq2[bookmark.Bookmark, error] {
	args := m.Called(ctx, userID)
	return args.Get(0).(iter.Seq2[bookmark.Bookmark, error])
}

func (m *MockRepository) Update(ctx context.Context, userID, bookmarkID, bookmarkURL, title string) error {
	args := m.Called(ctx, userID, bookmarkID, bookmarkURL, title)
	return args.Error(0)
}

func (m *MockRepository) Delete(ctx context.Context, userID, bookmarkID string) error {
	args := m.Called(ctx, userID, bookmarkID)
	return args.Error(0)
}

// seqOf builds a sequence from items followed by an optional error.
func seqOf(err error, items ...bookmark.Bookmark) iter.Seq2[bookmark.Bookmark, error] {
	return func(yield func(bookmark.Bookmark, error) bool) {
		for _, b := range items {
			if !yield(b, nil) {
				return
			}
		}
		if err != nil {
			yield(bookmark.Bookmark{}, err)
		}
	}
}

// counterIDs hands out fixed-width, increasing ids.
type counterIDs struct {
	mu sync.Mutex
	n  int
}

func (c *counterIDs) NewID() (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.n++
	return fmt.Sprintf("id-%06d", c.n), nil
}

type failingIDs struct{ err error }

func (f failingIDs) NewID() (string, error) { return "", f.err }
