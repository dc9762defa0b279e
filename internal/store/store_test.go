package store_test

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rapidpro/rapidpro-cli/internal/store"
)

func openTestStore(t *testing.T) *store.Store {
	t.Helper()
	s, err := store.Open(context.Background(), filepath.Join(t.TempDir(), "export.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestSaveItems_Upserts(t *testing.T) {
	ctx := context.Background()
	s := openTestStore(t)

	require.NoError(t, s.SaveItems(ctx, "contacts", []store.Item{
		{ID: "c1", Data: map[string]any{"name": "Ann"}},
		{ID: "c2", Data: map[string]any{"name": "Bob"}},
	}))
	require.NoError(t, s.SaveItems(ctx, "contacts", []store.Item{
		{ID: "c1", Data: map[string]any{"name": "Annie"}},
	}))

	n, err := s.Count(ctx, "contacts")
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	item, err := s.Item(ctx, "contacts", "c1")
	require.NoError(t, err)
	assert.Equal(t, "Annie", item["name"])

	n, err = s.Count(ctx, "runs")
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestCursor_Lifecycle(t *testing.T) {
	ctx := context.Background()
	s := openTestStore(t)

	cursor, err := s.Cursor(ctx, "runs")
	require.NoError(t, err)
	assert.Empty(t, cursor)

	require.NoError(t, s.SaveCursor(ctx, "runs", "cD0yMDE1"))
	require.NoError(t, s.SaveCursor(ctx, "runs", "cD0yMDE2"))
	cursor, err = s.Cursor(ctx, "runs")
	require.NoError(t, err)
	assert.Equal(t, "cD0yMDE2", cursor)

	require.NoError(t, s.ClearCursor(ctx, "runs"))
	cursor, err = s.Cursor(ctx, "runs")
	require.NoError(t, err)
	assert.Empty(t, cursor)
}

func TestMigrateIdempotent(t *testing.T) {
	ctx := context.Background()
	db, err := sql.Open("sqlite", filepath.Join(t.TempDir(), "m.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	for i := 0; i < 2; i++ {
		require.NoError(t, store.Migrate(ctx, db), "run %d", i+1)
	}
	var count int
	require.NoError(t, db.QueryRow("SELECT COUNT(*) FROM schema_migrations").Scan(&count))
	assert.Equal(t, 1, count)
}

func TestReopenKeepsData(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "export.db")

	s, err := store.Open(ctx, path)
	require.NoError(t, err)
	require.NoError(t, s.SaveCursor(ctx, "messages", "abc"))
	require.NoError(t, s.Close())

	s, err = store.Open(ctx, path)
	require.NoError(t, err)
	defer func() { _ = s.Close() }()
	cursor, err := s.Cursor(ctx, "messages")
	require.NoError(t, err)
	assert.Equal(t, "abc", cursor)
}
