/*
 * Copyright © 2026 Suparena Software Inc., All rights reserved.
 */

package main

import (
	"bytes"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs(args)
	defer rootCmd.SetArgs(nil)
	err := rootCmd.Execute()
	return buf.String(), err
}

func TestVersionCmd(t *testing.T) {
	out, err := execute(t, "version")
	if err != nil {
		t.Fatalf("Execute failed: %v", err)
	}
	if !strings.Contains(out, "databridge version") {
		t.Fatalf("Expected version output, got %q", out)
	}
	if !strings.Contains(out, "Git commit:") {
		t.Fatalf("Expected the git commit line, got %q", out)
	}
}

func TestProvidersCmd(t *testing.T) {
	out, err := execute(t, "providers")
	if err != nil {
		t.Fatalf("Execute failed: %v", err)
	}
	got := strings.Fields(out)
	want := []string{"dynamodb", "map", "mysql", "postgres", "redis", "sqlite"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("Expected providers %v, got %v", want, got)
	}
}

func TestDumpCmd(t *testing.T) {
	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "databridge.yaml")
	cfg := `
source-db:
  provider: map
  connection:
    tables: [records, events]
dest-db:
  provider: map
  connection:
    tables: [records, events]
`
	if err := os.WriteFile(cfgPath, []byte(cfg), 0o644); err != nil {
		t.Fatalf("Failed to write config: %v", err)
	}

	t.Run("CopiesBetweenSections", func(t *testing.T) {
		if _, err := execute(t, "dump", "--config", cfgPath, "--source", "source-db", "--dest", "dest-db"); err != nil {
			t.Fatalf("Execute failed: %v", err)
		}
	})

	t.Run("UnknownSection", func(t *testing.T) {
		if _, err := execute(t, "dump", "--config", cfgPath, "--source", "missing", "--dest", "dest-db"); err == nil {
			t.Fatalf("Expected an error for an unknown section")
		}
	})

	t.Run("MissingConfigFile", func(t *testing.T) {
		if _, err := execute(t, "dump", "--config", filepath.Join(dir, "absent.yaml"), "--source", "source-db", "--dest", "dest-db"); err == nil {
			t.Fatalf("Expected an error for a missing config file")
		}
	})
}
