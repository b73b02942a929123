/*
 * Copyright © 2026 Suparena Software Inc., All rights reserved.
 */

// Package mapdb provides the built-in in-memory database backend.
//
// The backend is schema-optional: resolving it without connection
// configuration yields a handle managing zero tables, while a connection
// with scanner keys binds the resolved table set. Records live in per-table
// ordered slices; transactions stage inserts and apply them on commit.
package mapdb

import (
	"context"
	"fmt"
	"sync"

	"github.com/suparena/databridge/config"
	"github.com/suparena/databridge/database"
	"github.com/suparena/databridge/entity"
	"github.com/suparena/databridge/errors"
	"github.com/suparena/databridge/registry"
)

// ProviderName is the registry key of this backend.
const ProviderName = "map"

func init() {
	registry.Register(ProviderName, registry.ProviderFunc(New))
}

// Database is an in-memory handle. It is safe for concurrent readers, but
// like every handle it is single-owner while a transaction is open.
type Database struct {
	mu     sync.RWMutex
	tables []*entity.Descriptor
	byName map[string]*entity.Descriptor
	rows   map[string][]any
	staged map[string][]any
	inTx   bool
	closed bool
}

var _ database.Database = (*Database)(nil)

// New constructs an in-memory handle from connection configuration.
func New(ctx context.Context, conn *config.Connection) (database.Database, error) {
	tables, err := database.ResolveTables(conn)
	if err != nil {
		return nil, err
	}
	return NewWithTables(tables), nil
}

// NewWithTables constructs a handle managing the given tables directly,
// bypassing configuration.
func NewWithTables(tables []*entity.Descriptor) *Database {
	db := &Database{
		tables: tables,
		byName: make(map[string]*entity.Descriptor, len(tables)),
		rows:   make(map[string][]any, len(tables)),
	}
	for _, d := range tables {
		db.byName[d.Name()] = d
	}
	return db
}

// Tables returns the managed descriptors in scan order.
func (db *Database) Tables() []*entity.Descriptor {
	db.mu.RLock()
	defer db.mu.RUnlock()
	out := make([]*entity.Descriptor, len(db.tables))
	copy(out, db.tables)
	return out
}

// Begin opens the handle's transaction.
func (db *Database) Begin(ctx context.Context) error {
	db.mu.Lock()
	defer db.mu.Unlock()
	if db.closed {
		return fmt.Errorf("mapdb: begin: %w", errors.ErrClosed)
	}
	if db.inTx {
		return fmt.Errorf("mapdb: begin: %w: transaction already open", errors.ErrTxState)
	}
	db.inTx = true
	db.staged = make(map[string][]any)
	return nil
}

// Commit applies the staged inserts.
func (db *Database) Commit(ctx context.Context) error {
	db.mu.Lock()
	defer db.mu.Unlock()
	if db.closed {
		return fmt.Errorf("mapdb: commit: %w", errors.ErrClosed)
	}
	if !db.inTx {
		return fmt.Errorf("mapdb: commit: %w: no open transaction", errors.ErrTxState)
	}
	for name, staged := range db.staged {
		db.rows[name] = append(db.rows[name], staged...)
	}
	db.inTx = false
	db.staged = nil
	return nil
}

// Rollback discards the staged inserts.
func (db *Database) Rollback(ctx context.Context) error {
	db.mu.Lock()
	defer db.mu.Unlock()
	if db.closed {
		return fmt.Errorf("mapdb: rollback: %w", errors.ErrClosed)
	}
	if !db.inTx {
		return fmt.Errorf("mapdb: rollback: %w: no open transaction", errors.ErrTxState)
	}
	db.inTx = false
	db.staged = nil
	return nil
}

// Query returns the table-scoped query object.
func (db *Database) Query(table *entity.Descriptor) database.Query {
	if table == nil {
		return database.ErrorQuery(fmt.Errorf("mapdb: nil table descriptor"))
	}
	db.mu.RLock()
	defer db.mu.RUnlock()
	if db.closed {
		return database.ErrorQuery(fmt.Errorf("mapdb: %w", errors.ErrClosed))
	}
	if _, ok := db.byName[table.Name()]; !ok {
		return database.ErrorQuery(fmt.Errorf("mapdb: %w", errors.NewUnknownTableError(table.Name())))
	}
	return &query{db: db, table: table}
}

// Close releases the handle and drops its data. An open transaction is
// discarded.
func (db *Database) Close() error {
	db.mu.Lock()
	defer db.mu.Unlock()
	db.closed = true
	db.inTx = false
	db.rows = nil
	db.staged = nil
	return nil
}

// Len reports the number of committed rows of a table. It exists for tests
// and diagnostics.
func (db *Database) Len(table string) int {
	db.mu.RLock()
	defer db.mu.RUnlock()
	return len(db.rows[table])
}

type query struct {
	db    *Database
	table *entity.Descriptor
}

// Select returns the table's rows in insertion order. Inside a transaction
// the handle's own staged inserts are visible.
func (q *query) Select(ctx context.Context) ([]any, error) {
	q.db.mu.RLock()
	defer q.db.mu.RUnlock()
	if q.db.closed {
		return nil, fmt.Errorf("mapdb: select: %w", errors.ErrClosed)
	}
	name := q.table.Name()
	committed := q.db.rows[name]
	out := make([]any, 0, len(committed)+len(q.db.staged[name]))
	out = append(out, committed...)
	if q.db.inTx {
		out = append(out, q.db.staged[name]...)
	}
	return out, nil
}

// Insert stores one record, staged while a transaction is open.
func (q *query) Insert(ctx context.Context, rec any) error {
	if _, err := q.table.Values(rec); err != nil {
		return fmt.Errorf("mapdb: insert: %w", err)
	}
	q.db.mu.Lock()
	defer q.db.mu.Unlock()
	if q.db.closed {
		return fmt.Errorf("mapdb: insert: %w", errors.ErrClosed)
	}
	name := q.table.Name()
	if q.db.inTx {
		q.db.staged[name] = append(q.db.staged[name], rec)
		return nil
	}
	q.db.rows[name] = append(q.db.rows[name], rec)
	return nil
}
