/*
 * Copyright © 2026 Suparena Software Inc., All rights reserved.
 */

// Package sqlite provides the embedded-file Database backend, registered
// under "sqlite". It uses the pure-Go modernc.org driver, so no cgo is
// required.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite"

	"github.com/suparena/databridge/config"
	"github.com/suparena/databridge/database"
	"github.com/suparena/databridge/database/sqlbase"
	"github.com/suparena/databridge/entity"
	"github.com/suparena/databridge/registry"
)

// ProviderName is the registry key of this backend.
const ProviderName = "sqlite"

func init() {
	registry.Register(ProviderName, registry.ProviderFunc(New))
}

var sessionStmts = []string{
	"PRAGMA journal_mode = WAL",
	"PRAGMA synchronous = NORMAL",
	"PRAGMA busy_timeout = 5000",
	"PRAGMA foreign_keys = ON",
}

// New opens the SQLite database named by the connection's File key (DSN is
// accepted as an alias) and returns a handle managing the scanned tables.
// ":memory:" opens a private in-memory database.
func New(ctx context.Context, conn *config.Connection) (database.Database, error) {
	path := ""
	if conn != nil {
		path = conn.File
		if path == "" {
			path = conn.DSN
		}
	}
	if path == "" {
		return nil, fmt.Errorf("sqlite: connection requires a file")
	}

	tables, err := database.ResolveTables(conn)
	if err != nil {
		return nil, fmt.Errorf("sqlite: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("sqlite: opening %s: %w", path, err)
	}
	// The modernc driver gives every pooled connection its own :memory:
	// database, and concurrent writers on a file trip SQLITE_BUSY.
	db.SetMaxOpenConns(1)

	return sqlbase.New(ctx, db, Dialect(), tables, sessionStmts...)
}

// Dialect returns the SQLite flavor of SQL generation.
func Dialect() sqlbase.Dialect {
	return sqlbase.Dialect{
		Name:        ProviderName,
		Quote:       func(ident string) string { return `"` + ident + `"` },
		Placeholder: func(int) string { return "?" },
		ColumnType:  columnType,
	}
}

// columnType declares DATETIME for time columns so the driver converts
// stored text back into time.Time on scan.
func columnType(c entity.Column) string {
	switch c.Kind {
	case entity.KindString:
		return "TEXT"
	case entity.KindInt:
		return "INTEGER"
	case entity.KindFloat:
		return "REAL"
	case entity.KindBool:
		return "INTEGER"
	case entity.KindTime:
		return "DATETIME"
	case entity.KindBytes:
		return "BLOB"
	default:
		return "TEXT"
	}
}
