// Package sqlite persists records as JSON documents in a single SQLite table
// keyed by resource and id.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/bytedance/sonic"
	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/goliatone/go-formengine/pkg/provider"
)

const schema = `CREATE TABLE IF NOT EXISTS records (
	resource TEXT NOT NULL,
	id       TEXT NOT NULL,
	data     BLOB NOT NULL,
	PRIMARY KEY (resource, id)
)`

// DB wraps the database handle shared by every resource table.
type DB struct {
	db *sql.DB
}

// Open opens dsn with the modernc driver and creates the records table.
func Open(ctx context.Context, dsn string) (*DB, error) {
	if strings.TrimSpace(dsn) == "" {
		return nil, errors.New("sqlite: dsn is required")
	}
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("sqlite: open: %w", err)
	}
	db.SetMaxOpenConns(1)
	if _, err := db.ExecContext(ctx, schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("sqlite: migrate: %w", err)
	}
	return &DB{db: db}, nil
}

// Close releases the handle.
func (d *DB) Close() error {
	return d.db.Close()
}

// Ping checks the connection.
func (d *DB) Ping(ctx context.Context) error {
	return d.db.PingContext(ctx)
}

// Table is a provider.Provider over one resource. List returns records in
// insertion order.
type Table[T provider.Entity[T]] struct {
	db       *sql.DB
	resource string
}

// NewTable binds resource to db.
func NewTable[T provider.Entity[T]](db *DB, resource string) *Table[T] {
	return &Table[T]{db: db.db, resource: resource}
}

// Seed inserts items when the resource has no records yet.
func (t *Table[T]) Seed(ctx context.Context, items []T) error {
	var count int
	if err := t.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM records WHERE resource = ?`, t.resource).Scan(&count); err != nil {
		return fmt.Errorf("sqlite: count %s: %w", t.resource, err)
	}
	if count > 0 {
		return nil
	}
	for _, item := range items {
		if _, err := t.Create(ctx, item); err != nil {
			return err
		}
	}
	return nil
}

// List implements provider.Provider.
func (t *Table[T]) List(ctx context.Context) ([]T, error) {
	rows, err := t.db.QueryContext(ctx, `SELECT data FROM records WHERE resource = ? ORDER BY rowid`, t.resource)
	if err != nil {
		return nil, fmt.Errorf("sqlite: list %s: %w", t.resource, err)
	}
	defer rows.Close()

	out := []T{}
	for rows.Next() {
		var data []byte
		if err := rows.Scan(&data); err != nil {
			return nil, fmt.Errorf("sqlite: scan %s: %w", t.resource, err)
		}
		item, err := decode[T](data)
		if err != nil {
			return nil, err
		}
		out = append(out, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlite: list %s: %w", t.resource, err)
	}
	return out, nil
}

// Get implements provider.Provider.
func (t *Table[T]) Get(ctx context.Context, id string) (T, error) {
	var zero T
	var data []byte
	err := t.db.QueryRowContext(ctx, `SELECT data FROM records WHERE resource = ? AND id = ?`, t.resource, id).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return zero, fmt.Errorf("sqlite: get %s %q: %w", t.resource, id, provider.ErrNotFound)
	}
	if err != nil {
		return zero, fmt.Errorf("sqlite: get %s %q: %w", t.resource, id, err)
	}
	return decode[T](data)
}

// Create implements provider.Provider.
func (t *Table[T]) Create(ctx context.Context, item T) (T, error) {
	var zero T
	if item.EntityID() == "" {
		item = item.WithID(uuid.NewString())
	}
	data, err := sonic.Marshal(item)
	if err != nil {
		return zero, fmt.Errorf("sqlite: encode %s: %w", t.resource, err)
	}
	res, err := t.db.ExecContext(ctx,
		`INSERT INTO records (resource, id, data) VALUES (?, ?, ?) ON CONFLICT DO NOTHING`,
		t.resource, item.EntityID(), data)
	if err != nil {
		return zero, fmt.Errorf("sqlite: create %s: %w", t.resource, err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return zero, fmt.Errorf("sqlite: create %s %q: %w", t.resource, item.EntityID(), provider.ErrConflict)
	}
	return item, nil
}

// Update implements provider.Provider.
func (t *Table[T]) Update(ctx context.Context, id string, item T) (T, error) {
	var zero T
	item = item.WithID(id)
	data, err := sonic.Marshal(item)
	if err != nil {
		return zero, fmt.Errorf("sqlite: encode %s: %w", t.resource, err)
	}
	res, err := t.db.ExecContext(ctx, `UPDATE records SET data = ? WHERE resource = ? AND id = ?`, data, t.resource, id)
	if err != nil {
		return zero, fmt.Errorf("sqlite: update %s %q: %w", t.resource, id, err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return zero, fmt.Errorf("sqlite: update %s %q: %w", t.resource, id, provider.ErrNotFound)
	}
	return item, nil
}

// Delete implements provider.Provider.
func (t *Table[T]) Delete(ctx context.Context, id string) error {
	res, err := t.db.ExecContext(ctx, `DELETE FROM records WHERE resource = ? AND id = ?`, t.resource, id)
	if err != nil {
		return fmt.Errorf("sqlite: delete %s %q: %w", t.resource, id, err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("sqlite: delete %s %q: %w", t.resource, id, provider.ErrNotFound)
	}
	return nil
}

func decode[T any](data []byte) (T, error) {
	var item T
	if err := sonic.Unmarshal(data, &item); err != nil {
		return item, fmt.Errorf("sqlite: decode: %w", err)
	}
	return item, nil
}
