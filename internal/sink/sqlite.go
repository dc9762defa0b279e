package sink

import (
	"context"

	"github.com/rapidpro/rapidpro-cli/internal/store"
)

// SQLite upserts records into the export store, keyed by resource and identifier.
type SQLite struct {
	store *store.Store
	owned bool
}

// NewSQLite writes to an open store. The store is not closed by Close.
func NewSQLite(s *store.Store) *SQLite {
	return &SQLite{store: s}
}

// OpenSQLite opens the database at path and closes it with the sink.
func OpenSQLite(ctx context.Context, path string) (*SQLite, error) {
	s, err := store.Open(ctx, path)
	if err != nil {
		return nil, err
	}
	return &SQLite{store: s, owned: true}, nil
}

func (s *SQLite) Write(ctx context.Context, resource string, batch []Record) error {
	items := make([]store.Item, 0, len(batch))
	for _, r := range batch {
		items = append(items, store.Item{ID: RecordID(r), Data: r})
	}
	return s.store.SaveItems(ctx, resource, items)
}

func (s *SQLite) Close() error {
	if s.owned {
		return s.store.Close()
	}
	return nil
}
