/*
 * Copyright © 2026 Suparena Software Inc., All rights reserved.
 */

// Package mysql provides the MySQL Database backend, registered under
// "mysql". The connection can carry a verbatim DSN or the usual
// host/port/user/password/database fields; either way parseTime is forced
// on so DATETIME columns scan as time.Time.
package mysql

import (
	"context"
	"fmt"

	"github.com/go-sql-driver/mysql"

	"github.com/suparena/databridge/config"
	"github.com/suparena/databridge/database"
	"github.com/suparena/databridge/database/sqlbase"
	"github.com/suparena/databridge/entity"
	"github.com/suparena/databridge/registry"
)

// ProviderName is the registry key of this backend.
const ProviderName = "mysql"

const defaultPort = 3306

func init() {
	registry.Register(ProviderName, registry.ProviderFunc(New))
}

// New connects to MySQL and returns a handle managing the scanned tables.
func New(ctx context.Context, conn *config.Connection) (database.Database, error) {
	dsn, err := BuildDSN(conn)
	if err != nil {
		return nil, err
	}
	tables, err := database.ResolveTables(conn)
	if err != nil {
		return nil, fmt.Errorf("mysql: %w", err)
	}
	return sqlbase.Open(ctx, "mysql", dsn, Dialect(), tables)
}

// BuildDSN renders the driver DSN for a connection. A verbatim DSN is
// re-parsed so parseTime can be forced on.
func BuildDSN(conn *config.Connection) (string, error) {
	if conn == nil {
		return "", fmt.Errorf("mysql: connection requires a dsn or host")
	}
	if conn.DSN != "" {
		cfg, err := mysql.ParseDSN(conn.DSN)
		if err != nil {
			return "", fmt.Errorf("mysql: parsing dsn: %w", err)
		}
		cfg.ParseTime = true
		return cfg.FormatDSN(), nil
	}
	if conn.Host == "" {
		return "", fmt.Errorf("mysql: connection requires a dsn or host")
	}

	port := conn.Port
	if port == 0 {
		port = defaultPort
	}
	cfg := mysql.NewConfig()
	cfg.Net = "tcp"
	cfg.Addr = fmt.Sprintf("%s:%d", conn.Host, port)
	cfg.User = conn.User
	cfg.Passwd = conn.Password
	cfg.DBName = conn.Database
	cfg.ParseTime = true
	return cfg.FormatDSN(), nil
}

// Dialect returns the MySQL flavor of SQL generation.
func Dialect() sqlbase.Dialect {
	return sqlbase.Dialect{
		Name:        ProviderName,
		Quote:       func(ident string) string { return "`" + ident + "`" },
		Placeholder: func(int) string { return "?" },
		ColumnType:  columnType,
	}
}

// columnType keeps string columns indexable (VARCHAR rather than TEXT) so
// they can carry the primary key.
func columnType(c entity.Column) string {
	switch c.Kind {
	case entity.KindString:
		return "VARCHAR(255)"
	case entity.KindInt:
		return "BIGINT"
	case entity.KindFloat:
		return "DOUBLE"
	case entity.KindBool:
		return "TINYINT(1)"
	case entity.KindTime:
		return "DATETIME(6)"
	case entity.KindBytes:
		return "BLOB"
	default:
		return "VARCHAR(255)"
	}
}
