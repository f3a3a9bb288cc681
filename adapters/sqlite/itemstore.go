package sqlite

import (
	"context"
	"fmt"

	"github.com/artpar/tiger/domain/item"
	"github.com/artpar/tiger/ports"
)

// ItemStore implements ports.ItemStore using SQLite.
type ItemStore struct {
	db *DB
}

var _ ports.ItemStore = (*ItemStore)(nil)

// NewItemStore creates a new SQLite item store.
func NewItemStore(db *DB) *ItemStore {
	return &ItemStore{db: db}
}

// ReplaceAll discards the stored items and stores items instead, in one
// transaction.
func (s *ItemStore) ReplaceAll(ctx context.Context, items []item.Item) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM items`); err != nil {
		return fmt.Errorf("clear items: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT OR REPLACE INTO items (kind, name, path, line, vanilla)
		VALUES (?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("prepare insert: %w", err)
	}
	defer stmt.Close()

	for _, it := range items {
		if _, err := stmt.ExecContext(ctx, it.Kind.String(), it.Name, it.Path, it.Line, it.Vanilla); err != nil {
			return fmt.Errorf("insert %s %s: %w", it.Kind, it.Name, err)
		}
	}
	return tx.Commit()
}

// Exists reports whether an item is stored.
func (s *ItemStore) Exists(ctx context.Context, kind item.Kind, name string) (bool, error) {
	var n int
	err := s.db.QueryRowContext(ctx, `
		SELECT COUNT(*) FROM items WHERE kind = ? AND name = ?
	`, kind.String(), name).Scan(&n)
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// List returns the items of kind whose names start with prefix, by name.
func (s *ItemStore) List(ctx context.Context, kind item.Kind, prefix string) ([]item.Item, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT name, path, line, vanilla
		FROM items
		WHERE kind = ? AND substr(name, 1, ?) = ?
		ORDER BY name
	`, kind.String(), len(prefix), prefix)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []item.Item
	for rows.Next() {
		it := item.Item{Kind: kind}
		if err := rows.Scan(&it.Name, &it.Path, &it.Line, &it.Vanilla); err != nil {
			return nil, err
		}
		items = append(items, it)
	}
	return items, rows.Err()
}

// Count returns the number of stored items per kind.
func (s *ItemStore) Count(ctx context.Context) (map[item.Kind]int, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT kind, COUNT(*) FROM items GROUP BY kind`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	counts := make(map[item.Kind]int)
	for rows.Next() {
		var name string
		var n int
		if err := rows.Scan(&name, &n); err != nil {
			return nil, err
		}
		if kind, ok := item.ParseKind(name); ok {
			counts[kind] = n
		}
	}
	return counts, rows.Err()
}
