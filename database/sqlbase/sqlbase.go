/*
 * Copyright © 2026 Suparena Software Inc., All rights reserved.
 */

// Package sqlbase carries the shared database/sql core of the relational
// backends. A backend contributes its driver name, a Dialect and optional
// session statements; sqlbase owns schema creation, statement building,
// transaction state and row marshaling through the table descriptors.
package sqlbase

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"sync"

	"github.com/suparena/databridge/database"
	"github.com/suparena/databridge/entity"
	"github.com/suparena/databridge/errors"
)

// Dialect describes the engine-specific pieces of SQL generation.
type Dialect struct {
	// Name identifies the dialect in diagnostics.
	Name string

	// Quote wraps an identifier in the engine's quoting characters.
	Quote func(ident string) string

	// Placeholder renders the n-th parameter placeholder (1-based).
	Placeholder func(n int) string

	// ColumnType maps a descriptor column to the engine's column type.
	ColumnType func(c entity.Column) string
}

// tableSQL holds the statements prebuilt for one table at open time.
type tableSQL struct {
	selectAll string
	insert    string
}

// Handle is the shared relational implementation of database.Database.
type Handle struct {
	db      *sql.DB
	dialect Dialect
	tables  []*entity.Descriptor
	byName  map[string]*entity.Descriptor
	stmts   map[string]tableSQL

	mu     sync.Mutex
	tx     *sql.Tx
	closed bool
}

var _ database.Database = (*Handle)(nil)

// Open connects through the named database/sql driver and hands the pool to
// New. The returned handle owns the connection.
func Open(ctx context.Context, driver, dsn string, dialect Dialect, tables []*entity.Descriptor, sessionStmts ...string) (*Handle, error) {
	db, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("%s: opening database: %w", dialect.Name, err)
	}
	return New(ctx, db, dialect, tables, sessionStmts...)
}

// New wraps an already-configured pool. It pings the database, applies the
// session statements best-effort, and creates the managed tables if they do
// not exist. The pool is closed on failure.
func New(ctx context.Context, db *sql.DB, dialect Dialect, tables []*entity.Descriptor, sessionStmts ...string) (*Handle, error) {
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("%s: pinging database: %w", dialect.Name, err)
	}

	// Session statements are advisory tuning (pragmas and the like); an
	// engine rejecting one is not fatal.
	for _, stmt := range sessionStmts {
		_, _ = db.ExecContext(ctx, stmt)
	}

	h := &Handle{
		db:      db,
		dialect: dialect,
		tables:  tables,
		byName:  make(map[string]*entity.Descriptor, len(tables)),
		stmts:   make(map[string]tableSQL, len(tables)),
	}
	for _, d := range tables {
		h.byName[d.Name()] = d
		h.stmts[d.Name()] = tableSQL{
			selectAll: SelectSQL(dialect, d),
			insert:    InsertSQL(dialect, d),
		}
		if _, err := db.ExecContext(ctx, CreateTableSQL(dialect, d)); err != nil {
			db.Close()
			return nil, fmt.Errorf("%s: creating table %s: %w", dialect.Name, d.Name(), err)
		}
	}
	return h, nil
}

// CreateTableSQL renders the idempotent DDL run for a table at open time.
func CreateTableSQL(dialect Dialect, d *entity.Descriptor) string {
	var b strings.Builder
	b.WriteString("CREATE TABLE IF NOT EXISTS ")
	b.WriteString(dialect.Quote(d.Name()))
	b.WriteString(" (")
	for i, c := range d.Columns() {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(dialect.Quote(c.Name))
		b.WriteByte(' ')
		b.WriteString(dialect.ColumnType(c))
	}
	if key, ok := d.Key(); ok {
		b.WriteString(", PRIMARY KEY (")
		b.WriteString(dialect.Quote(key.Name))
		b.WriteByte(')')
	}
	b.WriteByte(')')
	return b.String()
}

// SelectSQL renders the full-table select statement.
func SelectSQL(dialect Dialect, d *entity.Descriptor) string {
	names := d.ColumnNames()
	quoted := make([]string, len(names))
	for i, n := range names {
		quoted[i] = dialect.Quote(n)
	}
	return "SELECT " + strings.Join(quoted, ", ") + " FROM " + dialect.Quote(d.Name())
}

// InsertSQL renders the single-row insert statement.
func InsertSQL(dialect Dialect, d *entity.Descriptor) string {
	names := d.ColumnNames()
	quoted := make([]string, len(names))
	marks := make([]string, len(names))
	for i, n := range names {
		quoted[i] = dialect.Quote(n)
		marks[i] = dialect.Placeholder(i + 1)
	}
	return "INSERT INTO " + dialect.Quote(d.Name()) +
		" (" + strings.Join(quoted, ", ") + ") VALUES (" + strings.Join(marks, ", ") + ")"
}

// Tables returns the managed descriptors in scan order.
func (h *Handle) Tables() []*entity.Descriptor {
	out := make([]*entity.Descriptor, len(h.tables))
	copy(out, h.tables)
	return out
}

// Begin opens the handle's transaction.
func (h *Handle) Begin(ctx context.Context) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return fmt.Errorf("%s: begin: %w", h.dialect.Name, errors.ErrClosed)
	}
	if h.tx != nil {
		return fmt.Errorf("%s: begin: %w: transaction already open", h.dialect.Name, errors.ErrTxState)
	}
	tx, err := h.db.BeginTx(ctx, nil)
	if err != nil {
		return errors.NewTransactionError("begin", err)
	}
	h.tx = tx
	return nil
}

// Commit commits the open transaction.
func (h *Handle) Commit(ctx context.Context) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.tx == nil {
		return fmt.Errorf("%s: commit: %w: no open transaction", h.dialect.Name, errors.ErrTxState)
	}
	tx := h.tx
	h.tx = nil
	if err := tx.Commit(); err != nil {
		return errors.NewTransactionError("commit", err)
	}
	return nil
}

// Rollback discards the open transaction.
func (h *Handle) Rollback(ctx context.Context) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.tx == nil {
		return fmt.Errorf("%s: rollback: %w: no open transaction", h.dialect.Name, errors.ErrTxState)
	}
	tx := h.tx
	h.tx = nil
	if err := tx.Rollback(); err != nil {
		return errors.NewTransactionError("rollback", err)
	}
	return nil
}

// Query returns the table-scoped query object.
func (h *Handle) Query(table *entity.Descriptor) database.Query {
	if table == nil {
		return database.ErrorQuery(fmt.Errorf("%s: nil table descriptor", h.dialect.Name))
	}
	h.mu.Lock()
	closed := h.closed
	h.mu.Unlock()
	if closed {
		return database.ErrorQuery(fmt.Errorf("%s: %w", h.dialect.Name, errors.ErrClosed))
	}
	if _, ok := h.byName[table.Name()]; !ok {
		return database.ErrorQuery(fmt.Errorf("%s: %w", h.dialect.Name, errors.NewUnknownTableError(table.Name())))
	}
	return &query{h: h, table: table}
}

// Close rolls back any open transaction and releases the connection pool.
func (h *Handle) Close() error {
	h.mu.Lock()
	if h.closed {
		h.mu.Unlock()
		return nil
	}
	h.closed = true
	tx := h.tx
	h.tx = nil
	h.mu.Unlock()

	if tx != nil {
		_ = tx.Rollback()
	}
	return h.db.Close()
}

// runner abstracts *sql.DB and *sql.Tx.
type runner interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
}

func (h *Handle) runner() (runner, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return nil, errors.ErrClosed
	}
	if h.tx != nil {
		return h.tx, nil
	}
	return h.db, nil
}

type query struct {
	h     *Handle
	table *entity.Descriptor
}

// Select reads every row of the table in the engine's enumeration order.
func (q *query) Select(ctx context.Context) ([]any, error) {
	r, err := q.h.runner()
	if err != nil {
		return nil, fmt.Errorf("%s: select %s: %w", q.h.dialect.Name, q.table.Name(), err)
	}
	rows, err := r.QueryContext(ctx, q.h.stmts[q.table.Name()].selectAll)
	if err != nil {
		return nil, fmt.Errorf("%s: select %s: %w", q.h.dialect.Name, q.table.Name(), err)
	}
	defer rows.Close()

	var out []any
	for rows.Next() {
		targets := q.table.ScanTargets()
		if err := rows.Scan(targets...); err != nil {
			return nil, fmt.Errorf("%s: scanning %s row: %w", q.h.dialect.Name, q.table.Name(), err)
		}
		rec, err := q.table.Scan(targets)
		if err != nil {
			return nil, fmt.Errorf("%s: decoding %s row: %w", q.h.dialect.Name, q.table.Name(), err)
		}
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: reading %s rows: %w", q.h.dialect.Name, q.table.Name(), err)
	}
	return out, nil
}

// Insert stores one record through the prebuilt insert statement.
func (q *query) Insert(ctx context.Context, rec any) error {
	values, err := q.table.Values(rec)
	if err != nil {
		return fmt.Errorf("%s: insert into %s: %w", q.h.dialect.Name, q.table.Name(), err)
	}
	r, err := q.h.runner()
	if err != nil {
		return fmt.Errorf("%s: insert into %s: %w", q.h.dialect.Name, q.table.Name(), err)
	}
	if _, err := r.ExecContext(ctx, q.h.stmts[q.table.Name()].insert, values...); err != nil {
		return fmt.Errorf("%s: insert into %s: %w", q.h.dialect.Name, q.table.Name(), err)
	}
	return nil
}
