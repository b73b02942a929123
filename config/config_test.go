/*
 * Copyright © 2026 Suparena Software Inc., All rights reserved.
 */

package config

import (
	goerrors "errors"
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/suparena/databridge/errors"
)

const sampleRoot = `
database:
  provider: sqlite
  connection:
    autoscan: true
    package: github.com/acme/app/models
    file: data/app.db
    params:
      journal: wal
archive:
  provider: map
warehouse:
  provider: mysql
  connection:
    autoscan: false
    tables:
      - players
      - match_logs
    host: db.internal
    port: 3306
    user: bridge
    password: secret
    database: warehouse
`

func TestParseRoot(t *testing.T) {
	root, err := Parse([]byte(sampleRoot))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}

	s, err := root.Section("database")
	if err != nil {
		t.Fatalf("Section failed: %v", err)
	}
	if s.Provider != "sqlite" {
		t.Fatalf("Expected provider sqlite, got %q", s.Provider)
	}
	if s.Connection == nil || !s.Connection.Autoscan {
		t.Fatal("Expected autoscan connection")
	}
	if s.Connection.Package != "github.com/acme/app/models" {
		t.Errorf("Unexpected package filter %q", s.Connection.Package)
	}
	if s.Connection.File != "data/app.db" {
		t.Errorf("Unexpected file %q", s.Connection.File)
	}
	if got := s.Connection.Param("journal", ""); got != "wal" {
		t.Errorf("Expected params.journal wal, got %q", got)
	}
	if got := s.Connection.Param("absent", "fallback"); got != "fallback" {
		t.Errorf("Expected fallback for absent param, got %q", got)
	}
}

func TestParseExplicitTables(t *testing.T) {
	root, err := Parse([]byte(sampleRoot))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}

	s, err := root.Section("warehouse")
	if err != nil {
		t.Fatalf("Section failed: %v", err)
	}
	c := s.Connection
	if c.Autoscan {
		t.Error("Expected autoscan false")
	}
	if want := []string{"players", "match_logs"}; !reflect.DeepEqual(c.Tables, want) {
		t.Errorf("Expected tables %v, got %v", want, c.Tables)
	}
	if c.Host != "db.internal" || c.Port != 3306 || c.Database != "warehouse" {
		t.Errorf("Unexpected connection fields: %+v", c)
	}
}

func TestSectionWithoutConnection(t *testing.T) {
	root, err := Parse([]byte(sampleRoot))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}

	s, err := root.Section("archive")
	if err != nil {
		t.Fatalf("Section failed: %v", err)
	}
	if s.Provider != "map" {
		t.Fatalf("Expected provider map, got %q", s.Provider)
	}
	if s.Connection != nil {
		t.Fatal("Absent connection block should stay nil")
	}
}

func TestMissingSection(t *testing.T) {
	root, err := Parse([]byte(sampleRoot))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}

	_, err = root.Section("nope")
	if err == nil {
		t.Fatal("Expected error for missing section")
	}
	if !goerrors.Is(err, errors.ErrMissingSection) {
		t.Fatalf("Expected ErrMissingSection, got %v", err)
	}

	var nilRoot *Root
	if _, err := nilRoot.Section("database"); !goerrors.Is(err, errors.ErrMissingSection) {
		t.Fatalf("Nil root should report missing section, got %v", err)
	}
}

func TestSectionNames(t *testing.T) {
	root, err := Parse([]byte(sampleRoot))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}

	want := []string{"archive", "database", "warehouse"}
	if got := root.SectionNames(); !reflect.DeepEqual(got, want) {
		t.Fatalf("Expected sections %v, got %v", want, got)
	}
}

func TestLoadFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "databridge.yaml")
	if err := os.WriteFile(path, []byte(sampleRoot), 0o600); err != nil {
		t.Fatalf("Writing fixture: %v", err)
	}

	root, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if _, err := root.Section(DefaultSection); err != nil {
		t.Fatalf("Expected default section present: %v", err)
	}

	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Fatal("Expected error for missing file")
	}
}

func TestParseRejectsMalformedYAML(t *testing.T) {
	if _, err := Parse([]byte("database: [unclosed")); err == nil {
		t.Fatal("Expected parse error")
	}
}
