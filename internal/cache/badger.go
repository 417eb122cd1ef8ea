package cache

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/dgraph-io/badger/v4"
)

const (
	valuePrefix = "v:"
	groupPrefix = "g:"
)

// Badger is an in-process cache backed by an in-memory badger database.
type Badger struct {
	db     *badger.DB
	logger *slog.Logger

	mu       sync.Mutex
	versions map[string]uint64
}

// NewBadger opens an in-memory badger cache.
func NewBadger(logger *slog.Logger) (*Badger, error) {
	opts := badger.DefaultOptions("").WithInMemory(true)
	opts.Logger = nil // badger's own logging is too chatty

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open badger cache: %w", err)
	}

	logger.Debug("badger cache opened")
	return &Badger{db: db, logger: logger, versions: make(map[string]uint64)}, nil
}

func groupMemberKey(group, key string) []byte {
	return []byte(groupPrefix + group + ":" + key)
}

func (b *Badger) bump(name string) {
	b.mu.Lock()
	b.versions[name]++
	b.mu.Unlock()
}

// Version sums the invalidation counters of key and groups.
func (b *Badger) Version(_ context.Context, key string, groups ...string) (uint64, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	sum := b.versions[valuePrefix+key]
	for _, g := range groups {
		sum += b.versions[groupPrefix+g]
	}
	return sum, nil
}

// Get returns the value for key.
func (b *Badger) Get(_ context.Context, key string) ([]byte, bool, error) {
	var out []byte
	err := b.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(valuePrefix + key))
		if err != nil {
			return err
		}
		out, err = item.ValueCopy(nil)
		return err
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return out, true, nil
}

// Set stores value with ttl and records group membership with the same ttl.
func (b *Badger) Set(_ context.Context, key string, value []byte, ttl time.Duration, groups ...string) error {
	return b.db.Update(func(txn *badger.Txn) error {
		if err := txn.SetEntry(withTTL(badger.NewEntry([]byte(valuePrefix+key), value), ttl)); err != nil {
			return err
		}
		for _, g := range groups {
			if err := txn.SetEntry(withTTL(badger.NewEntry(groupMemberKey(g, key), nil), ttl)); err != nil {
				return err
			}
		}
		return nil
	})
}

func withTTL(e *badger.Entry, ttl time.Duration) *badger.Entry {
	if ttl > 0 {
		return e.WithTTL(ttl)
	}
	return e
}

// Delete removes key.
func (b *Badger) Delete(_ context.Context, key string) error {
	b.bump(valuePrefix + key)
	return b.db.Update(func(txn *badger.Txn) error {
		return txn.Delete([]byte(valuePrefix + key))
	})
}

// ExpireGroup deletes every key registered under group along with the
// membership records.
func (b *Badger) ExpireGroup(_ context.Context, group string) error {
	b.bump(groupPrefix + group)
	prefix := []byte(groupPrefix + group + ":")

	var members [][]byte
	err := b.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = false
		opts.Prefix = prefix

		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			members = append(members, it.Item().KeyCopy(nil))
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("scan group %q: %w", group, err)
	}

	wb := b.db.NewWriteBatch()
	defer wb.Cancel()

	for _, member := range members {
		key := member[len(prefix):]
		if err := wb.Delete(append([]byte(valuePrefix), key...)); err != nil {
			return err
		}
		if err := wb.Delete(member); err != nil {
			return err
		}
	}
	if err := wb.Flush(); err != nil {
		return fmt.Errorf("expire group %q: %w", group, err)
	}

	b.logger.Debug("cache group expired", slog.String("group", group), slog.Int("keys", len(members)))
	return nil
}

// Close releases the badger database.
func (b *Badger) Close() error {
	return b.db.Close()
}
