/*
 * Copyright © 2026 Suparena Software Inc., All rights reserved.
 */

// Package mock provides a mock implementation of the Database interface for testing
package mock

import (
	"context"
	"fmt"
	"sync"

	"github.com/suparena/databridge/database"
	"github.com/suparena/databridge/entity"
	"github.com/suparena/databridge/errors"
)

// Database is a mock implementation of database.Database for testing. It
// behaves like an in-memory backend with staged transactions and lets tests
// inject failures at every contract point and observe every call.
type Database struct {
	mu     sync.RWMutex
	tables []*entity.Descriptor
	byName map[string]*entity.Descriptor
	rows   map[string][]any
	staged map[string][]any
	inTx   bool

	beginErr    error
	commitErr   error
	rollbackErr error
	selectErr   map[string]error
	insertErr   map[string]*insertFailure

	beginCalls    int
	commitCalls   int
	rollbackCalls int
	selectCalls   map[string]int
	insertCalls   map[string]int
}

type insertFailure struct {
	failOn int // 1-based insert attempt that fails
	err    error
}

var _ database.Database = (*Database)(nil)

// New creates a mock database managing the given tables.
func New(tables ...*entity.Descriptor) *Database {
	m := &Database{
		tables:      tables,
		byName:      make(map[string]*entity.Descriptor, len(tables)),
		rows:        make(map[string][]any, len(tables)),
		selectErr:   make(map[string]error),
		insertErr:   make(map[string]*insertFailure),
		selectCalls: make(map[string]int),
		insertCalls: make(map[string]int),
	}
	for _, d := range tables {
		m.byName[d.Name()] = d
	}
	return m
}

// WithBeginError makes Begin return an error
func (m *Database) WithBeginError(err error) *Database {
	m.beginErr = err
	return m
}

// WithCommitError makes Commit return an error
func (m *Database) WithCommitError(err error) *Database {
	m.commitErr = err
	return m
}

// WithRollbackError makes Rollback return an error
func (m *Database) WithRollbackError(err error) *Database {
	m.rollbackErr = err
	return m
}

// WithSelectError makes Select on the given table return an error
func (m *Database) WithSelectError(table string, err error) *Database {
	m.selectErr[table] = err
	return m
}

// WithInsertError makes the Nth insert attempt on the given table fail
// (1-based count across the handle's lifetime)
func (m *Database) WithInsertError(table string, failOn int, err error) *Database {
	m.insertErr[table] = &insertFailure{failOn: failOn, err: err}
	return m
}

// Seed stores committed rows directly, bypassing transactions
func (m *Database) Seed(table string, recs ...any) *Database {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.rows[table] = append(m.rows[table], recs...)
	return m
}

// Tables returns the managed descriptors in construction order.
func (m *Database) Tables() []*entity.Descriptor {
	out := make([]*entity.Descriptor, len(m.tables))
	copy(out, m.tables)
	return out
}

// Begin opens the mock transaction, honoring an injected begin error.
func (m *Database) Begin(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.beginCalls++
	if m.beginErr != nil {
		return m.beginErr
	}
	if m.inTx {
		return fmt.Errorf("mock: begin: %w: transaction already open", errors.ErrTxState)
	}
	m.inTx = true
	m.staged = make(map[string][]any)
	return nil
}

// Commit applies staged rows, honoring an injected commit error.
func (m *Database) Commit(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.commitCalls++
	if m.commitErr != nil {
		return m.commitErr
	}
	if !m.inTx {
		return fmt.Errorf("mock: commit: %w: no open transaction", errors.ErrTxState)
	}
	for name, staged := range m.staged {
		m.rows[name] = append(m.rows[name], staged...)
	}
	m.inTx = false
	m.staged = nil
	return nil
}

// Rollback discards staged rows, honoring an injected rollback error.
func (m *Database) Rollback(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.rollbackCalls++
	if m.rollbackErr != nil {
		return m.rollbackErr
	}
	if !m.inTx {
		return fmt.Errorf("mock: rollback: %w: no open transaction", errors.ErrTxState)
	}
	m.inTx = false
	m.staged = nil
	return nil
}

// Query returns the table-scoped query object.
func (m *Database) Query(table *entity.Descriptor) database.Query {
	if table == nil {
		return database.ErrorQuery(fmt.Errorf("mock: nil table descriptor"))
	}
	if _, ok := m.byName[table.Name()]; !ok {
		return database.ErrorQuery(fmt.Errorf("mock: %w", errors.NewUnknownTableError(table.Name())))
	}
	return &query{m: m, table: table.Name()}
}

// Close discards all state.
func (m *Database) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.inTx = false
	m.rows = make(map[string][]any)
	m.staged = nil
	return nil
}

type query struct {
	m     *Database
	table string
}

func (q *query) Select(ctx context.Context) ([]any, error) {
	m := q.m
	m.mu.Lock()
	defer m.mu.Unlock()
	m.selectCalls[q.table]++
	if err := m.selectErr[q.table]; err != nil {
		return nil, err
	}
	committed := m.rows[q.table]
	out := make([]any, 0, len(committed))
	out = append(out, committed...)
	if m.inTx {
		out = append(out, m.staged[q.table]...)
	}
	return out, nil
}

func (q *query) Insert(ctx context.Context, rec any) error {
	m := q.m
	m.mu.Lock()
	defer m.mu.Unlock()
	m.insertCalls[q.table]++
	if f := m.insertErr[q.table]; f != nil && m.insertCalls[q.table] == f.failOn {
		return f.err
	}
	if m.inTx {
		m.staged[q.table] = append(m.staged[q.table], rec)
		return nil
	}
	m.rows[q.table] = append(m.rows[q.table], rec)
	return nil
}

// Helper methods for testing

// BeginCalls returns how often Begin was called
func (m *Database) BeginCalls() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.beginCalls
}

// CommitCalls returns how often Commit was called
func (m *Database) CommitCalls() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.commitCalls
}

// RollbackCalls returns how often Rollback was called
func (m *Database) RollbackCalls() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.rollbackCalls
}

// SelectCalls returns how often Select was called for a table
func (m *Database) SelectCalls(table string) int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.selectCalls[table]
}

// InsertCalls returns how often Insert was attempted for a table
func (m *Database) InsertCalls(table string) int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.insertCalls[table]
}

// Rows returns a copy of the committed rows of a table
func (m *Database) Rows(table string) []any {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]any, len(m.rows[table]))
	copy(out, m.rows[table])
	return out
}

// RowCount returns the number of committed rows of a table
func (m *Database) RowCount(table string) int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.rows[table])
}

// InTx reports whether the mock currently has an open transaction
func (m *Database) InTx() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.inTx
}
