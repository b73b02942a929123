//go:build integration
// +build integration

/*
 * Copyright © 2026 Suparena Software Inc., All rights reserved.
 */

package mysql

import (
	"context"
	"log"
	"os"
	"testing"
	"time"

	"github.com/joho/godotenv"

	"github.com/suparena/databridge/config"
	"github.com/suparena/databridge/entity"
)

func integrationConnection(t *testing.T) *config.Connection {
	t.Helper()
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, proceeding with environment variables")
	}
	dsn := os.Getenv("MYSQL_TEST_DSN")
	if dsn == "" {
		t.Skip("MYSQL_TEST_DSN not set, skipping integration test")
	}
	return &config.Connection{DSN: dsn, Tables: []string{"matches"}}
}

func TestIntegrationRoundTrip(t *testing.T) {
	entity.Reset()
	t.Cleanup(entity.Reset)
	matches := entity.Register[Match]("matches")

	ctx := context.Background()
	db, err := New(ctx, integrationConnection(t))
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	defer db.Close()

	played := time.Date(2024, 6, 10, 19, 0, 0, 0, time.UTC)
	rec := &Match{ID: "m1", Winner: "Anna", Score: 11, Played: played}

	if err := db.Begin(ctx); err != nil {
		t.Fatalf("Begin failed: %v", err)
	}
	if err := db.Query(matches).Insert(ctx, rec); err != nil {
		t.Fatalf("Insert failed: %v", err)
	}
	if err := db.Commit(ctx); err != nil {
		t.Fatalf("Commit failed: %v", err)
	}

	rows, err := db.Query(matches).Select(ctx)
	if err != nil {
		t.Fatalf("Select failed: %v", err)
	}

	found := false
	for _, r := range rows {
		m := r.(*Match)
		if m.ID != "m1" {
			continue
		}
		found = true
		if m.Winner != "Anna" || m.Score != 11 || !m.Played.Equal(played) {
			t.Fatalf("Expected %+v, got %+v", rec, m)
		}
	}
	if !found {
		t.Fatal("Inserted row not returned by select")
	}
}
