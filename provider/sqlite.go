package provider

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sync"

	_ "github.com/mattn/go-sqlite3"
	"github.com/zenzo-ecosystem/zvm/interp"
)

// SQLiteRegistry keeps signed items and the chain height in a SQLite
// database. Items are returned in the order they were first registered.
type SQLiteRegistry struct {
	db *sql.DB
	mu sync.Mutex
}

const registrySchema = `
CREATE TABLE IF NOT EXISTS items (
	seq        INTEGER PRIMARY KEY AUTOINCREMENT,
	tx         TEXT NOT NULL UNIQUE,
	name       TEXT NOT NULL,
	timestamp  INTEGER,
	validation TEXT NOT NULL DEFAULT ''
);
CREATE TABLE IF NOT EXISTS chain (
	id         INTEGER PRIMARY KEY CHECK (id = 1),
	best_block INTEGER
);`

// OpenSQLiteRegistry opens or creates the registry at path. ":memory:" gives
// a private in-memory registry.
func OpenSQLiteRegistry(path string) (*SQLiteRegistry, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	// An in-memory database lives only as long as its connection.
	db.SetMaxOpenConns(1)

	_, err = db.Exec("PRAGMA busy_timeout = 5000")
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("setting busy timeout: %w", err)
	}
	_, err = db.Exec(registrySchema)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("creating tables: %w", err)
	}
	return &SQLiteRegistry{db: db}, nil
}

func (r *SQLiteRegistry) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

// PutItem registers item, replacing the fields of an existing item with the
// same tx without changing its position.
func (r *SQLiteRegistry) PutItem(ctx context.Context, item interp.Item) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return putItem(ctx, r.db, item)
}

func putItem(ctx context.Context, db execer, item interp.Item) error {
	if err := item.Validate(); err != nil {
		return err
	}
	_, err := db.ExecContext(ctx, `INSERT INTO items (tx, name, timestamp, validation) VALUES (?, ?, ?, ?)
		ON CONFLICT(tx) DO UPDATE SET name = excluded.name, timestamp = excluded.timestamp, validation = excluded.validation`,
		item.Tx, item.StrName, nullInt64(item.Timestamp), item.Contracts.Validation)
	if err != nil {
		return fmt.Errorf("saving item %s: %w", item.Tx, err)
	}
	return nil
}

func (r *SQLiteRegistry) SetBestBlock(ctx context.Context, height int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return setBestBlock(ctx, r.db, &height)
}

func setBestBlock(ctx context.Context, db execer, height *int64) error {
	_, err := db.ExecContext(ctx, "INSERT OR REPLACE INTO chain (id, best_block) VALUES (1, ?)", nullInt64(height))
	if err != nil {
		return fmt.Errorf("saving best block: %w", err)
	}
	return nil
}

// Import stores every item and the best block of data in one transaction.
func (r *SQLiteRegistry) Import(ctx context.Context, data *interp.ContextualData) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("starting import: %w", err)
	}
	for _, item := range data.SignedItems {
		if err := putItem(ctx, tx, item); err != nil {
			tx.Rollback()
			return err
		}
	}
	if data.BestBlock != nil {
		if err := setBestBlock(ctx, tx, data.BestBlock); err != nil {
			tx.Rollback()
			return err
		}
	}
	return tx.Commit()
}

func (r *SQLiteRegistry) Items(ctx context.Context) ([]interp.Item, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	rows, err := r.db.QueryContext(ctx, "SELECT tx, name, timestamp, validation FROM items ORDER BY seq")
	if err != nil {
		return nil, fmt.Errorf("querying items: %w", err)
	}
	defer rows.Close()

	var items []interp.Item
	for rows.Next() {
		var (
			it interp.Item
			ts sql.NullInt64
		)
		if err := rows.Scan(&it.Tx, &it.StrName, &ts, &it.Contracts.Validation); err != nil {
			return nil, fmt.Errorf("scanning item: %w", err)
		}
		if ts.Valid {
			it.Timestamp = interp.Int64(ts.Int64)
		}
		items = append(items, it)
	}
	return items, rows.Err()
}

func (r *SQLiteRegistry) BestBlock(ctx context.Context) (*int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var h sql.NullInt64
	err := r.db.QueryRowContext(ctx, "SELECT best_block FROM chain WHERE id = 1").Scan(&h)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("querying best block: %w", err)
	}
	if !h.Valid {
		return nil, nil
	}
	return interp.Int64(h.Int64), nil
}

func (r *SQLiteRegistry) Snapshot(ctx context.Context, thisTx string) (*interp.ContextualData, error) {
	items, err := r.Items(ctx)
	if err != nil {
		return nil, err
	}
	best, err := r.BestBlock(ctx)
	if err != nil {
		return nil, err
	}
	data := &interp.ContextualData{
		BestBlock:   best,
		SignedItems: items,
	}
	if thisTx == "" {
		return data, nil
	}
	return selectThis(data, thisTx)
}

func nullInt64(v *int64) sql.NullInt64 {
	if v == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: *v, Valid: true}
}
