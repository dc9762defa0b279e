package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

// Item is one exported object, keyed by its identifier within a resource.
type Item struct {
	ID   string
	Data map[string]any
}

// Store wraps the export database.
type Store struct {
	db *sql.DB
}

func (s *Store) Close() error {
	return s.db.Close()
}

// SaveItems upserts items of a resource in one transaction.
func (s *Store) SaveItems(ctx context.Context, resource string, items []Item) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	stmt, err := tx.PrepareContext(ctx, `INSERT INTO items (resource, id, data, exported_at) VALUES (?, ?, ?, ?)
		ON CONFLICT (resource, id) DO UPDATE SET data = excluded.data, exported_at = excluded.exported_at`)
	if err != nil {
		_ = tx.Rollback()
		return fmt.Errorf("prepare: %w", err)
	}
	defer func() { _ = stmt.Close() }()

	now := time.Now().UTC().Format(time.RFC3339)
	for _, it := range items {
		data, err := json.Marshal(it.Data)
		if err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("encode %s %s: %w", resource, it.ID, err)
		}
		if _, err := stmt.ExecContext(ctx, resource, it.ID, string(data), now); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("save %s %s: %w", resource, it.ID, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

// SaveCursor records where a resource export can resume from.
func (s *Store) SaveCursor(ctx context.Context, resource, cursor string) error {
	_, err := s.db.ExecContext(ctx, `INSERT INTO cursors (resource, cursor, updated_at) VALUES (?, ?, ?)
		ON CONFLICT (resource) DO UPDATE SET cursor = excluded.cursor, updated_at = excluded.updated_at`,
		resource, cursor, time.Now().UTC().Format(time.RFC3339))
	if err != nil {
		return fmt.Errorf("save cursor for %s: %w", resource, err)
	}
	return nil
}

// Cursor returns the saved checkpoint of a resource, or "" if there is none.
func (s *Store) Cursor(ctx context.Context, resource string) (string, error) {
	var cursor string
	err := s.db.QueryRowContext(ctx, "SELECT cursor FROM cursors WHERE resource = ?", resource).Scan(&cursor)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("load cursor for %s: %w", resource, err)
	}
	return cursor, nil
}

// ClearCursor forgets the checkpoint of a finished export.
func (s *Store) ClearCursor(ctx context.Context, resource string) error {
	if _, err := s.db.ExecContext(ctx, "DELETE FROM cursors WHERE resource = ?", resource); err != nil {
		return fmt.Errorf("clear cursor for %s: %w", resource, err)
	}
	return nil
}

// Count returns how many items of a resource are stored.
func (s *Store) Count(ctx context.Context, resource string) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM items WHERE resource = ?", resource).Scan(&n); err != nil {
		return 0, fmt.Errorf("count %s: %w", resource, err)
	}
	return n, nil
}

// Item loads one stored item.
func (s *Store) Item(ctx context.Context, resource, id string) (map[string]any, error) {
	var raw string
	err := s.db.QueryRowContext(ctx, "SELECT data FROM items WHERE resource = ? AND id = ?", resource, id).Scan(&raw)
	if err != nil {
		return nil, fmt.Errorf("load %s %s: %w", resource, id, err)
	}
	var data map[string]any
	if err := json.Unmarshal([]byte(raw), &data); err != nil {
		return nil, fmt.Errorf("decode %s %s: %w", resource, id, err)
	}
	return data, nil
}
