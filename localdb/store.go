// Package localdb implements an embedded, ordered item store on top of
// BadgerDB. Items are addressed by a hash key and a sort key, and a query for
// one hash key returns its items in ascending sort-key order, mirroring the
// DynamoDB table layout used in production.
package localdb

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"iter"
	"sync/atomic"

	"github.com/dgraph-io/badger/v4"
)

var (
	// ErrNotFound is returned by Update when no item exists under the key.
	ErrNotFound = errors.New("localdb: item not found")
	// ErrAlreadyExists is returned by Put when the key is already taken.
	ErrAlreadyExists = errors.New("localdb: item already exists")
)

const sep = 0x00

// Options configures the underlying BadgerDB instance.
type Options struct {
	// Path to the database directory. If empty, uses in-memory mode.
	Path string
	// Logger for BadgerDB. If nil, logging is disabled.
	Logger badger.Logger
}

// Open opens (or creates) the BadgerDB database.
func Open(opts Options) (*badger.DB, error) {
	badgerOpts := badger.DefaultOptions(opts.Path)
	if opts.Path == "" {
		badgerOpts = badgerOpts.WithInMemory(true)
	}
	badgerOpts = badgerOpts.WithLogger(opts.Logger)

	db, err := badger.Open(badgerOpts)
	if err != nil {
		return nil, fmt.Errorf("open badger db: %w", err)
	}
	return db, nil
}

// KeyFunc extracts the hash and sort key of an item.
type KeyFunc[T any] func(item T) (hashKey, sortKey string)

// Store is a typed table inside a BadgerDB database. Values are stored as JSON.
type Store[T any] struct {
	db    *badger.DB
	table string
	keyOf KeyFunc[T]
}

// New returns a Store for the named table.
func New[T any](db *badger.DB, table string, keyOf KeyFunc[T]) *Store[T] {
	return &Store[T]{db: db, table: table, keyOf: keyOf}
}

// partition returns the key prefix shared by every item of a hash key.
// Each part is escaped so that sep only ever appears as a delimiter.
func (s *Store[T]) partition(hashKey string) []byte {
	buf := make([]byte, 0, len(s.table)+len(hashKey)+2)
	buf = appendEscaped(buf, s.table)
	buf = append(buf, sep)
	buf = appendEscaped(buf, hashKey)
	return append(buf, sep)
}

func (s *Store[T]) key(hashKey, sortKey string) []byte {
	return appendEscaped(s.partition(hashKey), sortKey)
}

// appendEscaped writes 0x00 as 0x01 0x01 and 0x01 as 0x01 0x02. Byte order
// between escaped strings is preserved.
func appendEscaped(buf []byte, part string) []byte {
	for i := 0; i < len(part); i++ {
		switch c := part[i]; c {
		case 0x00:
			buf = append(buf, 0x01, 0x01)
		case 0x01:
			buf = append(buf, 0x01, 0x02)
		default:
			buf = append(buf, c)
		}
	}
	return buf
}

// Put stores item only if its key is not taken yet.
func (s *Store[T]) Put(ctx context.Context, item T) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	value, err := json.Marshal(item)
	if err != nil {
		return fmt.Errorf("localdb: marshal failed: %w", err)
	}
	key := s.key(s.keyOf(item))

	err = s.db.Update(func(txn *badger.Txn) error {
		_, err := txn.Get(key)
		if err == nil {
			return ErrAlreadyExists
		}
		if !errors.Is(err, badger.ErrKeyNotFound) {
			return err
		}
		return txn.Set(key, value)
	})
	if err != nil && !errors.Is(err, ErrAlreadyExists) {
		return fmt.Errorf("localdb: put failed: %w", err)
	}
	return err
}

// Update loads the item under the key, applies mutate and writes it back in
// the same transaction. It returns ErrNotFound and writes nothing when the key
// is absent. mutate must not change the item's key.
func (s *Store[T]) Update(ctx context.Context, hashKey, sortKey string, mutate func(*T)) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	key := s.key(hashKey, sortKey)

	err := s.db.Update(func(txn *badger.Txn) error {
		entry, err := txn.Get(key)
		if errors.Is(err, badger.ErrKeyNotFound) {
			return ErrNotFound
		}
		if err != nil {
			return err
		}

		var item T
		if err := entry.Value(func(v []byte) error {
			return json.Unmarshal(v, &item)
		}); err != nil {
			return err
		}

		mutate(&item)
		if h, r := s.keyOf(item); h != hashKey || r != sortKey {
			return fmt.Errorf("localdb: update must not change the item key")
		}

		value, err := json.Marshal(item)
		if err != nil {
			return err
		}
		return txn.Set(key, value)
	})
	if err != nil && !errors.Is(err, ErrNotFound) {
		return fmt.Errorf("localdb: update failed: %w", err)
	}
	return err
}

// Delete removes the item. Deleting a missing key is not an error.
func (s *Store[T]) Delete(ctx context.Context, hashKey, sortKey string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	err := s.db.Update(func(txn *badger.Txn) error {
		return txn.Delete(s.key(hashKey, sortKey))
	})
	if err != nil {
		return fmt.Errorf("localdb: delete failed: %w", err)
	}
	return nil
}

var errStopped = errors.New("localdb: iteration stopped")

// Query yields every item of hashKey in ascending sort-key order. Items are
// read from a single snapshot while the caller ranges; the sequence can be
// ranged only once.
func (s *Store[T]) Query(ctx context.Context, hashKey string) iter.Seq2[T, error] {
	var consumed atomic.Bool

	return func(yield func(T, error) bool) {
		if !consumed.CompareAndSwap(false, true) {
			return
		}
		var zero T
		prefix := s.partition(hashKey)

		err := s.db.View(func(txn *badger.Txn) error {
			opts := badger.DefaultIteratorOptions
			opts.Prefix = prefix

			it := txn.NewIterator(opts)
			defer it.Close()

			for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
				if err := ctx.Err(); err != nil {
					return err
				}
				var item T
				if err := it.Item().Value(func(v []byte) error {
					return json.Unmarshal(v, &item)
				}); err != nil {
					return fmt.Errorf("localdb: unmarshal failed: %w", err)
				}
				if !yield(item, nil) {
					return errStopped
				}
			}
			return nil
		})
		if err != nil && !errors.Is(err, errStopped) {
			yield(zero, fmt.Errorf("localdb: query failed: %w", err))
		}
	}
}
