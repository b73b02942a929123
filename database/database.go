/*
 * Copyright © 2026 Suparena Software Inc., All rights reserved.
 */

package database

import (
	"context"

	"github.com/suparena/databridge/config"
	"github.com/suparena/databridge/entity"
)

// Database is the uniform handle over one underlying storage resource,
// scoped to an immutable table set fixed at construction.
//
// A handle is either in autocommit mode or inside exactly one open
// transaction; nested transactions are not supported. Begin and Commit (or
// Rollback) must be paired, and a handle is single-owner for the duration of
// a transaction. Owners must Close the handle on every exit path.
type Database interface {
	// Tables returns the descriptors this handle manages, in the order the
	// table set was resolved.
	Tables() []*entity.Descriptor

	// Begin opens the handle's transaction. It fails with ErrTxState when a
	// transaction is already open, or with a begin TransactionError when the
	// backend refuses.
	Begin(ctx context.Context) error

	// Commit commits the open transaction. It fails with ErrTxState when no
	// transaction is open, or with a commit TransactionError when the
	// backend refuses; the data state after a failed commit is
	// backend-defined.
	Commit(ctx context.Context) error

	// Rollback discards the open transaction. It fails with ErrTxState when
	// no transaction is open.
	Rollback(ctx context.Context) error

	// Query returns the table-scoped query object. The result is never nil;
	// operations on a table the handle does not manage fail with
	// ErrUnknownTable.
	Query(table *entity.Descriptor) Query

	// Close releases the underlying resource. An open transaction is
	// discarded.
	Close() error
}

// Query reads and writes one table of a handle.
type Query interface {
	// Select returns every record of the table in the backend's enumeration
	// order. Records are *T values of the table's record type.
	Select(ctx context.Context) ([]any, error)

	// Insert stores one record. Inside a transaction the write becomes
	// visible at commit; in autocommit mode it is applied immediately.
	Insert(ctx context.Context, rec any) error
}

// ResolveTables resolves a connection's table-set selection against the
// entity registry. A nil connection yields an empty table set, which is
// valid for schema-less backends.
func ResolveTables(conn *config.Connection) ([]*entity.Descriptor, error) {
	if conn == nil {
		return nil, nil
	}
	return entity.Scan(conn.Autoscan, conn.Package, conn.Tables)
}

// errorQuery is a Query whose operations fail with a fixed error. Backends
// return it from Query for tables outside their set.
type errorQuery struct {
	err error
}

// ErrorQuery returns a Query whose Select and Insert fail with err.
func ErrorQuery(err error) Query {
	return errorQuery{err: err}
}

func (q errorQuery) Select(ctx context.Context) ([]any, error) { return nil, q.err }

func (q errorQuery) Insert(ctx context.Context, rec any) error { return q.err }
