/*
 * Copyright © 2026 Suparena Software Inc., All rights reserved.
 */

package mysql

import (
	"reflect"
	"strings"
	"testing"
	"time"

	"github.com/suparena/databridge/config"
	"github.com/suparena/databridge/database/sqlbase"
	"github.com/suparena/databridge/entity"
	"github.com/suparena/databridge/registry"
)

type Match struct {
	ID     string    `db:"id,pk"`
	Winner string    `db:"winner"`
	Score  int       `db:"score"`
	Played time.Time `db:"played"`
}

func TestProviderRegistration(t *testing.T) {
	if !registry.Has(ProviderName) {
		t.Fatal("mysql provider should self-register")
	}
}

func TestBuildDSN(t *testing.T) {
	t.Run("FromFields", func(t *testing.T) {
		dsn, err := BuildDSN(&config.Connection{
			Host:     "db.local",
			Port:     3307,
			User:     "app",
			Password: "secret",
			Database: "bridge",
		})
		if err != nil {
			t.Fatalf("BuildDSN failed: %v", err)
		}
		if !strings.HasPrefix(dsn, "app:secret@tcp(db.local:3307)/bridge") {
			t.Fatalf("Unexpected DSN %q", dsn)
		}
		if !strings.Contains(dsn, "parseTime=true") {
			t.Fatalf("Expected parseTime=true in DSN, got %q", dsn)
		}
	})

	t.Run("DefaultPort", func(t *testing.T) {
		dsn, err := BuildDSN(&config.Connection{Host: "db.local", Database: "bridge"})
		if err != nil {
			t.Fatalf("BuildDSN failed: %v", err)
		}
		if !strings.Contains(dsn, "tcp(db.local:3306)") {
			t.Fatalf("Expected default port 3306, got %q", dsn)
		}
	})

	t.Run("VerbatimDSNForcesParseTime", func(t *testing.T) {
		dsn, err := BuildDSN(&config.Connection{DSN: "app:secret@tcp(db.local:3306)/bridge"})
		if err != nil {
			t.Fatalf("BuildDSN failed: %v", err)
		}
		if !strings.Contains(dsn, "parseTime=true") {
			t.Fatalf("Expected parseTime=true forced on, got %q", dsn)
		}
	})

	t.Run("MissingHost", func(t *testing.T) {
		if _, err := BuildDSN(&config.Connection{User: "app"}); err == nil {
			t.Fatal("Expected error for connection without dsn or host")
		}
		if _, err := BuildDSN(nil); err == nil {
			t.Fatal("Expected error for nil connection")
		}
	})
}

func TestDialectDDL(t *testing.T) {
	d, err := entity.NewDescriptor("matches", reflect.TypeOf(Match{}))
	if err != nil {
		t.Fatalf("Failed to build descriptor: %v", err)
	}

	ddl := sqlbase.CreateTableSQL(Dialect(), d)
	want := "CREATE TABLE IF NOT EXISTS `matches` (`id` VARCHAR(255), `winner` VARCHAR(255), `score` BIGINT, `played` DATETIME(6), PRIMARY KEY (`id`))"
	if ddl != want {
		t.Fatalf("Expected %q, got %q", want, ddl)
	}

	insert := sqlbase.InsertSQL(Dialect(), d)
	if !strings.Contains(insert, "VALUES (?, ?, ?, ?)") {
		t.Fatalf("Expected question-mark placeholders, got %q", insert)
	}
}
