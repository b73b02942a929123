/*
 * Copyright © 2026 Suparena Software Inc., All rights reserved.
 */

package mock

import (
	"context"
	goerrors "errors"
	"fmt"
	"reflect"
	"testing"

	"github.com/suparena/databridge/entity"
	"github.com/suparena/databridge/errors"
)

type Widget struct {
	ID string `db:"id,pk"`
}

func widgetTable(t *testing.T) *entity.Descriptor {
	t.Helper()
	entity.Reset()
	t.Cleanup(entity.Reset)
	return entity.Register[Widget]("widgets")
}

func TestSeedAndSelect(t *testing.T) {
	table := widgetTable(t)
	m := New(table).Seed("widgets", &Widget{ID: "a"}, &Widget{ID: "b"})

	rows, err := m.Query(table).Select(context.Background())
	if err != nil {
		t.Fatalf("Select failed: %v", err)
	}
	if len(rows) != 2 || rows[0].(*Widget).ID != "a" {
		t.Fatalf("Expected seeded rows in order, got %v", rows)
	}
	if m.SelectCalls("widgets") != 1 {
		t.Fatalf("Expected 1 recorded select, got %d", m.SelectCalls("widgets"))
	}
}

func TestTransactionStaging(t *testing.T) {
	table := widgetTable(t)
	ctx := context.Background()
	m := New(table)

	if err := m.Begin(ctx); err != nil {
		t.Fatalf("Begin failed: %v", err)
	}
	if err := m.Query(table).Insert(ctx, &Widget{ID: "a"}); err != nil {
		t.Fatalf("Insert failed: %v", err)
	}
	if m.RowCount("widgets") != 0 {
		t.Fatal("Row should be staged, not committed")
	}
	if err := m.Commit(ctx); err != nil {
		t.Fatalf("Commit failed: %v", err)
	}
	if m.RowCount("widgets") != 1 {
		t.Fatal("Commit should apply staged rows")
	}
	if m.BeginCalls() != 1 || m.CommitCalls() != 1 {
		t.Fatal("Call recording mismatch")
	}
}

func TestErrorInjection(t *testing.T) {
	table := widgetTable(t)
	ctx := context.Background()

	t.Run("Begin", func(t *testing.T) {
		cause := fmt.Errorf("backend down")
		m := New(table).WithBeginError(cause)
		if err := m.Begin(ctx); !goerrors.Is(err, cause) {
			t.Fatalf("Expected injected begin error, got %v", err)
		}
	})

	t.Run("Commit", func(t *testing.T) {
		cause := fmt.Errorf("commit refused")
		m := New(table).WithCommitError(cause)
		if err := m.Begin(ctx); err != nil {
			t.Fatalf("Begin failed: %v", err)
		}
		if err := m.Commit(ctx); !goerrors.Is(err, cause) {
			t.Fatalf("Expected injected commit error, got %v", err)
		}
	})

	t.Run("Select", func(t *testing.T) {
		cause := fmt.Errorf("read failed")
		m := New(table).WithSelectError("widgets", cause)
		if _, err := m.Query(table).Select(ctx); !goerrors.Is(err, cause) {
			t.Fatalf("Expected injected select error, got %v", err)
		}
	})

	t.Run("InsertOnNthAttempt", func(t *testing.T) {
		cause := fmt.Errorf("disk full")
		m := New(table).WithInsertError("widgets", 3, cause)
		q := m.Query(table)
		for i := 1; i <= 2; i++ {
			if err := q.Insert(ctx, &Widget{ID: fmt.Sprintf("w%d", i)}); err != nil {
				t.Fatalf("Insert %d should succeed, got %v", i, err)
			}
		}
		if err := q.Insert(ctx, &Widget{ID: "w3"}); !goerrors.Is(err, cause) {
			t.Fatalf("Third insert should fail with injected error, got %v", err)
		}
		if m.InsertCalls("widgets") != 3 {
			t.Fatalf("Expected 3 recorded insert attempts, got %d", m.InsertCalls("widgets"))
		}
	})
}

func TestQueryUnknownTable(t *testing.T) {
	table := widgetTable(t)
	m := New(table)

	type Other struct {
		ID string `db:"id,pk"`
	}
	unknown, err := entity.NewDescriptor("others", reflect.TypeOf(Other{}))
	if err != nil {
		t.Fatalf("NewDescriptor failed: %v", err)
	}

	if _, err := m.Query(unknown).Select(context.Background()); !errors.IsUnknownTable(err) {
		t.Fatalf("Expected ErrUnknownTable, got %v", err)
	}
}
