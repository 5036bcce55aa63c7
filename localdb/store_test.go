package localdb_test

import (
	"context"
	"fmt"
	"testing"

	"github.com/raywall/bookmark-service/localdb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type note struct {
	Owner string `json:"owner"`
	ID    string `json:"id"`
	Text  string `json:"text"`
}

func newStore(t *testing.T) *localdb.Store[note] {
	t.Helper()
	db, err := localdb.Open(localdb.Options{})
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	return localdb.New(db, "notes", func(n note) (string, string) { return n.Owner, n.ID })
}

func collect(t *testing.T, store *localdb.Store[note], owner string) []note {
	t.Helper()
	out := []note{}
	for n, err := range store.Query(context.Background(), owner) {
		require.NoError(t, err)
		out = append(out, n)
	}
	return out
}

func TestPut_RejectsDuplicateKey(t *testing.T) {
	t.Parallel()
	store := newStore(t)
	ctx := context.Background()

	require.NoError(t, store.Put(ctx, note{Owner: "u1", ID: "a", Text: "first"}))
	err := store.Put(ctx, note{Owner: "u1", ID: "a", Text: "second"})
	assert.ErrorIs(t, err, localdb.ErrAlreadyExists)

	got := collect(t, store, "u1")
	require.Len(t, got, 1)
	assert.Equal(t, "first", got[0].Text)
}

func TestQuery_SortedAndIsolatedByOwner(t *testing.T) {
	t.Parallel()
	store := newStore(t)
	ctx := context.Background()

	for _, id := range []string{"c", "a", "b"} {
		require.NoError(t, store.Put(ctx, note{Owner: "u1", ID: id}))
	}
	require.NoError(t, store.Put(ctx, note{Owner: "u10", ID: "z"}))
	require.NoError(t, store.Put(ctx, note{Owner: "u", ID: "y"}))

	got := collect(t, store, "u1")
	ids := make([]string, 0, len(got))
	for _, n := range got {
		ids = append(ids, n.ID)
	}
	assert.Equal(t, []string{"a", "b", "c"}, ids)
	assert.Empty(t, collect(t, store, "nobody"))
}

func TestQuery_EarlyBreakAndSingleUse(t *testing.T) {
	t.Parallel()
	store := newStore(t)
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		require.NoError(t, store.Put(ctx, note{Owner: "u1", ID: fmt.Sprintf("%02d", i)}))
	}

	seq := store.Query(ctx, "u1")
	seen := 0
	for _, err := range seq {
		require.NoError(t, err)
		seen++
		if seen == 2 {
			break
		}
	}
	assert.Equal(t, 2, seen)

	again := 0
	for range seq {
		again++
	}
	assert.Zero(t, again)
}

func TestQuery_CancelledContext(t *testing.T) {
	t.Parallel()
	store := newStore(t)
	require.NoError(t, store.Put(context.Background(), note{Owner: "u1", ID: "a"}))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var errs []error
	for _, err := range store.Query(ctx, "u1") {
		errs = append(errs, err)
	}
	require.Len(t, errs, 1)
	assert.ErrorIs(t, errs[0], context.Canceled)
}

func TestUpdate(t *testing.T) {
	t.Parallel()
	store := newStore(t)
	ctx := context.Background()

	require.NoError(t, store.Put(ctx, note{Owner: "u1", ID: "a", Text: "old"}))

	require.NoError(t, store.Update(ctx, "u1", "a", func(n *note) { n.Text = "new" }))
	got := collect(t, store, "u1")
	require.Len(t, got, 1)
	assert.Equal(t, note{Owner: "u1", ID: "a", Text: "new"}, got[0])

	err := store.Update(ctx, "u1", "missing", func(n *note) { n.Text = "ghost" })
	assert.ErrorIs(t, err, localdb.ErrNotFound)
	assert.Len(t, collect(t, store, "u1"), 1)

	err = store.Update(ctx, "u1", "a", func(n *note) { n.ID = "b" })
	require.Error(t, err)
	assert.Equal(t, "new", collect(t, store, "u1")[0].Text)
}

func TestDelete_Idempotent(t *testing.T) {
	t.Parallel()
	store := newStore(t)
	ctx := context.Background()

	require.NoError(t, store.Put(ctx, note{Owner: "u1", ID: "a"}))
	require.NoError(t, store.Delete(ctx, "u1", "a"))
	require.NoError(t, store.Delete(ctx, "u1", "a"))
	require.NoError(t, store.Delete(ctx, "u2", "never"))
	assert.Empty(t, collect(t, store, "u1"))
}

func TestKeys_SeparatorBytesDoNotCollide(t *testing.T) {
	t.Parallel()
	store := newStore(t)
	ctx := context.Background()

	require.NoError(t, store.Put(ctx, note{Owner: "a\x00b", ID: "id1", Text: "victim"}))
	require.NoError(t, store.Put(ctx, note{Owner: "a\x01", ID: "id2", Text: "other"}))

	assert.Empty(t, collect(t, store, "a"))

	// unescaped, this key equals ("a\x00b", "id1")
	require.NoError(t, store.Put(ctx, note{Owner: "a", ID: "b\x00id1", Text: "attacker"}))
	require.NoError(t, store.Delete(ctx, "a", "b\x00id1"))

	got := collect(t, store, "a\x00b")
	require.Len(t, got, 1)
	assert.Equal(t, "victim", got[0].Text)
	assert.ErrorIs(t, store.Update(ctx, "a", "b\x00id1", func(n *note) { n.Text = "x" }), localdb.ErrNotFound)
	assert.Len(t, collect(t, store, "a\x01"), 1)
}
