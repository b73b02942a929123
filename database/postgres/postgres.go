/*
 * Copyright © 2026 Suparena Software Inc., All rights reserved.
 */

// Package postgres provides the PostgreSQL Database backend, registered
// under "postgres". It rides the pgx stdlib driver so the shared relational
// core can stay on database/sql.
package postgres

import (
	"context"
	"fmt"
	"net/url"

	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/suparena/databridge/config"
	"github.com/suparena/databridge/database"
	"github.com/suparena/databridge/database/sqlbase"
	"github.com/suparena/databridge/entity"
	"github.com/suparena/databridge/registry"
)

// ProviderName is the registry key of this backend.
const ProviderName = "postgres"

const defaultPort = 5432

func init() {
	registry.Register(ProviderName, registry.ProviderFunc(New))
}

// New connects to PostgreSQL and returns a handle managing the scanned
// tables.
func New(ctx context.Context, conn *config.Connection) (database.Database, error) {
	dsn, err := BuildDSN(conn)
	if err != nil {
		return nil, err
	}
	tables, err := database.ResolveTables(conn)
	if err != nil {
		return nil, fmt.Errorf("postgres: %w", err)
	}
	return sqlbase.Open(ctx, "pgx", dsn, Dialect(), tables)
}

// BuildDSN renders a postgres:// URL for a connection. A verbatim DSN is
// passed through untouched; pgx accepts both URL and keyword forms.
func BuildDSN(conn *config.Connection) (string, error) {
	if conn == nil {
		return "", fmt.Errorf("postgres: connection requires a dsn or host")
	}
	if conn.DSN != "" {
		return conn.DSN, nil
	}
	if conn.Host == "" {
		return "", fmt.Errorf("postgres: connection requires a dsn or host")
	}

	port := conn.Port
	if port == 0 {
		port = defaultPort
	}
	u := url.URL{
		Scheme: "postgres",
		Host:   fmt.Sprintf("%s:%d", conn.Host, port),
		Path:   "/" + conn.Database,
	}
	if conn.User != "" {
		if conn.Password != "" {
			u.User = url.UserPassword(conn.User, conn.Password)
		} else {
			u.User = url.User(conn.User)
		}
	}
	if mode := conn.Param("sslmode", ""); mode != "" {
		q := u.Query()
		q.Set("sslmode", mode)
		u.RawQuery = q.Encode()
	}
	return u.String(), nil
}

// Dialect returns the PostgreSQL flavor of SQL generation.
func Dialect() sqlbase.Dialect {
	return sqlbase.Dialect{
		Name:        ProviderName,
		Quote:       func(ident string) string { return `"` + ident + `"` },
		Placeholder: func(n int) string { return fmt.Sprintf("$%d", n) },
		ColumnType:  columnType,
	}
}

func columnType(c entity.Column) string {
	switch c.Kind {
	case entity.KindString:
		return "TEXT"
	case entity.KindInt:
		return "BIGINT"
	case entity.KindFloat:
		return "DOUBLE PRECISION"
	case entity.KindBool:
		return "BOOLEAN"
	case entity.KindTime:
		return "TIMESTAMPTZ"
	case entity.KindBytes:
		return "BYTEA"
	default:
		return "TEXT"
	}
}
