//go:build integration
// +build integration

/*
 * Copyright © 2026 Suparena Software Inc., All rights reserved.
 */

package postgres

import (
	"context"
	"log"
	"os"
	"testing"

	"github.com/joho/godotenv"

	"github.com/suparena/databridge/config"
	"github.com/suparena/databridge/entity"
)

func integrationConnection(t *testing.T) *config.Connection {
	t.Helper()
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, proceeding with environment variables")
	}
	dsn := os.Getenv("POSTGRES_TEST_DSN")
	if dsn == "" {
		t.Skip("POSTGRES_TEST_DSN not set, skipping integration test")
	}
	return &config.Connection{DSN: dsn, Tables: []string{"events"}}
}

func TestIntegrationRoundTrip(t *testing.T) {
	entity.Reset()
	t.Cleanup(entity.Reset)
	events := entity.Register[Event]("events")

	ctx := context.Background()
	db, err := New(ctx, integrationConnection(t))
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	defer db.Close()

	rec := &Event{ID: "e1", Kind: "signup", Payload: []byte(`{"ok":true}`), Weight: 1.5}

	if err := db.Begin(ctx); err != nil {
		t.Fatalf("Begin failed: %v", err)
	}
	if err := db.Query(events).Insert(ctx, rec); err != nil {
		t.Fatalf("Insert failed: %v", err)
	}
	if err := db.Commit(ctx); err != nil {
		t.Fatalf("Commit failed: %v", err)
	}

	rows, err := db.Query(events).Select(ctx)
	if err != nil {
		t.Fatalf("Select failed: %v", err)
	}

	found := false
	for _, r := range rows {
		e := r.(*Event)
		if e.ID != "e1" {
			continue
		}
		found = true
		if e.Kind != "signup" || string(e.Payload) != `{"ok":true}` || e.Weight != 1.5 {
			t.Fatalf("Expected %+v, got %+v", rec, e)
		}
	}
	if !found {
		t.Fatal("Inserted row not returned by select")
	}
}
