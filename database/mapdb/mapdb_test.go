/*
 * Copyright © 2026 Suparena Software Inc., All rights reserved.
 */

package mapdb

import (
	"context"
	goerrors "errors"
	"testing"

	"github.com/suparena/databridge/config"
	"github.com/suparena/databridge/entity"
	"github.com/suparena/databridge/errors"
	"github.com/suparena/databridge/registry"
)

type Note struct {
	ID   string `db:"id,pk"`
	Body string `db:"body"`
}

type Tag struct {
	ID string `db:"id,pk"`
}

func setup(t *testing.T) (*entity.Descriptor, *entity.Descriptor) {
	t.Helper()
	entity.Reset()
	t.Cleanup(entity.Reset)
	return entity.Register[Note]("notes"), entity.Register[Tag]("tags")
}

func TestProviderRegistration(t *testing.T) {
	if !registry.Has(ProviderName) {
		t.Fatal("map provider should self-register")
	}
}

func TestNewFromConnection(t *testing.T) {
	notes, _ := setup(t)
	ctx := context.Background()

	t.Run("NilConnection", func(t *testing.T) {
		db, err := New(ctx, nil)
		if err != nil {
			t.Fatalf("New failed: %v", err)
		}
		if len(db.Tables()) != 0 {
			t.Fatal("Nil connection should yield zero tables")
		}
	})

	t.Run("ExplicitTables", func(t *testing.T) {
		db, err := New(ctx, &config.Connection{Tables: []string{"notes"}})
		if err != nil {
			t.Fatalf("New failed: %v", err)
		}
		tables := db.Tables()
		if len(tables) != 1 || tables[0] != notes {
			t.Fatalf("Expected [notes], got %v", tables)
		}
	})

	t.Run("Autoscan", func(t *testing.T) {
		db, err := New(ctx, &config.Connection{Autoscan: true})
		if err != nil {
			t.Fatalf("New failed: %v", err)
		}
		if len(db.Tables()) != 2 {
			t.Fatalf("Expected 2 tables, got %d", len(db.Tables()))
		}
	})

	t.Run("UnknownTable", func(t *testing.T) {
		_, err := New(ctx, &config.Connection{Tables: []string{"missing"}})
		if !errors.IsUnknownTable(err) {
			t.Fatalf("Expected ErrUnknownTable, got %v", err)
		}
	})
}

func TestInsertAndSelectOrder(t *testing.T) {
	notes, _ := setup(t)
	ctx := context.Background()
	db := NewWithTables([]*entity.Descriptor{notes})

	q := db.Query(notes)
	for _, id := range []string{"a", "b", "c"} {
		if err := q.Insert(ctx, &Note{ID: id}); err != nil {
			t.Fatalf("Insert failed: %v", err)
		}
	}

	rows, err := q.Select(ctx)
	if err != nil {
		t.Fatalf("Select failed: %v", err)
	}
	if len(rows) != 3 {
		t.Fatalf("Expected 3 rows, got %d", len(rows))
	}
	for i, id := range []string{"a", "b", "c"} {
		if rows[i].(*Note).ID != id {
			t.Fatalf("Insertion order not preserved: %v", rows)
		}
	}

	// Mutating the returned slice must not affect the store
	rows[0] = &Note{ID: "z"}
	again, _ := q.Select(ctx)
	if again[0].(*Note).ID != "a" {
		t.Fatal("Select should return a copied slice")
	}
}

func TestInsertRejectsWrongRecordType(t *testing.T) {
	notes, _ := setup(t)
	db := NewWithTables([]*entity.Descriptor{notes})

	if err := db.Query(notes).Insert(context.Background(), &Tag{ID: "t"}); err == nil {
		t.Fatal("Expected error inserting a Tag into notes")
	}
}

func TestQueryUnknownTable(t *testing.T) {
	notes, tags := setup(t)
	db := NewWithTables([]*entity.Descriptor{notes})

	_, err := db.Query(tags).Select(context.Background())
	if !errors.IsUnknownTable(err) {
		t.Fatalf("Expected ErrUnknownTable, got %v", err)
	}
	if err := db.Query(tags).Insert(context.Background(), &Tag{ID: "t"}); !errors.IsUnknownTable(err) {
		t.Fatalf("Expected ErrUnknownTable, got %v", err)
	}
}

func TestTransactionStaging(t *testing.T) {
	notes, _ := setup(t)
	ctx := context.Background()

	t.Run("CommitApplies", func(t *testing.T) {
		db := NewWithTables([]*entity.Descriptor{notes})
		if err := db.Begin(ctx); err != nil {
			t.Fatalf("Begin failed: %v", err)
		}
		if err := db.Query(notes).Insert(ctx, &Note{ID: "a"}); err != nil {
			t.Fatalf("Insert failed: %v", err)
		}

		// Read-your-writes inside the transaction
		rows, _ := db.Query(notes).Select(ctx)
		if len(rows) != 1 {
			t.Fatalf("Expected staged row visible in transaction, got %d rows", len(rows))
		}
		if db.Len("notes") != 0 {
			t.Fatal("Staged row should not be committed yet")
		}

		if err := db.Commit(ctx); err != nil {
			t.Fatalf("Commit failed: %v", err)
		}
		if db.Len("notes") != 1 {
			t.Fatal("Commit should apply staged rows")
		}
	})

	t.Run("RollbackDiscards", func(t *testing.T) {
		db := NewWithTables([]*entity.Descriptor{notes})
		if err := db.Begin(ctx); err != nil {
			t.Fatalf("Begin failed: %v", err)
		}
		if err := db.Query(notes).Insert(ctx, &Note{ID: "a"}); err != nil {
			t.Fatalf("Insert failed: %v", err)
		}
		if err := db.Rollback(ctx); err != nil {
			t.Fatalf("Rollback failed: %v", err)
		}

		rows, _ := db.Query(notes).Select(ctx)
		if len(rows) != 0 {
			t.Fatal("Rollback should discard staged rows")
		}
	})
}

func TestTransactionPairing(t *testing.T) {
	notes, _ := setup(t)
	ctx := context.Background()
	db := NewWithTables([]*entity.Descriptor{notes})

	if err := db.Commit(ctx); !goerrors.Is(err, errors.ErrTxState) {
		t.Fatalf("Commit without Begin should fail with ErrTxState, got %v", err)
	}
	if err := db.Rollback(ctx); !goerrors.Is(err, errors.ErrTxState) {
		t.Fatalf("Rollback without Begin should fail with ErrTxState, got %v", err)
	}

	if err := db.Begin(ctx); err != nil {
		t.Fatalf("Begin failed: %v", err)
	}
	if err := db.Begin(ctx); !goerrors.Is(err, errors.ErrTxState) {
		t.Fatalf("Nested Begin should fail with ErrTxState, got %v", err)
	}
}

func TestClosedHandle(t *testing.T) {
	notes, _ := setup(t)
	ctx := context.Background()
	db := NewWithTables([]*entity.Descriptor{notes})

	if err := db.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}

	if err := db.Begin(ctx); !goerrors.Is(err, errors.ErrClosed) {
		t.Fatalf("Begin on closed handle should fail with ErrClosed, got %v", err)
	}
	if _, err := db.Query(notes).Select(ctx); !goerrors.Is(err, errors.ErrClosed) {
		t.Fatalf("Select on closed handle should fail with ErrClosed, got %v", err)
	}
}
