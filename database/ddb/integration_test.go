//go:build integration
// +build integration

/*
 * Copyright © 2026 Suparena Software Inc., All rights reserved.
 */

package ddb

import (
	"context"
	"fmt"
	"log"
	"os"
	"testing"
	"time"

	"github.com/go-openapi/strfmt"
	"github.com/joho/godotenv"

	"github.com/suparena/databridge/config"
	"github.com/suparena/databridge/entity"
)

func integrationConnection(t *testing.T) *config.Connection {
	t.Helper()
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, proceeding with environment variables")
	}

	tableName := os.Getenv("AWS_DDB_TABLE")
	if tableName == "" {
		t.Skip("AWS_DDB_TABLE not set, skipping integration test")
	}

	conn := &config.Connection{
		Table:  tableName,
		Region: os.Getenv("AWS_REGION"),
		Tables: []string{"ratings"},
	}
	if accessKey := os.Getenv("AWS_ACCESS_KEY"); accessKey != "" {
		conn.Params = map[string]string{
			"access_key": accessKey,
			"secret_key": os.Getenv("AWS_SECRET_KEY"),
		}
	}
	return conn
}

func TestIntegrationPutAndScan(t *testing.T) {
	entity.Reset()
	t.Cleanup(entity.Reset)
	ratings := entity.Register[Rating]("ratings")

	ctx := context.Background()
	db, err := New(ctx, integrationConnection(t))
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	defer db.Close()

	rec := &Rating{
		ID:        "integration-r1",
		System:    "elo",
		Points:    1900,
		UpdatedAt: strfmt.DateTime(time.Now()),
	}
	if err := db.Query(ratings).Insert(ctx, rec); err != nil {
		t.Fatalf("Insert failed: %v", err)
	}

	rows, err := db.Query(ratings).Select(ctx)
	if err != nil {
		t.Fatalf("Select failed: %v", err)
	}

	found := false
	for _, r := range rows {
		if r.(*Rating).ID == "integration-r1" {
			found = true
		}
	}
	if !found {
		t.Fatal("Inserted record not returned by scan")
	}
}

func TestIntegrationBatchCommit(t *testing.T) {
	entity.Reset()
	t.Cleanup(entity.Reset)
	ratings := entity.Register[Rating]("ratings")

	ctx := context.Background()
	db, err := New(ctx, integrationConnection(t))
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	defer db.Close()

	if err := db.Begin(ctx); err != nil {
		t.Fatalf("Begin failed: %v", err)
	}
	// More than one BatchWriteItem chunk
	run := time.Now().Format("150405")
	for i := 0; i < 30; i++ {
		rec := &Rating{
			ID:        fmt.Sprintf("integration-batch-%s-%02d", run, i),
			System:    "elo",
			Points:    1500 + i,
			UpdatedAt: strfmt.DateTime(time.Now()),
		}
		if err := db.Query(ratings).Insert(ctx, rec); err != nil {
			t.Fatalf("Insert failed: %v", err)
		}
	}
	if err := db.Commit(ctx); err != nil {
		t.Fatalf("Commit failed: %v", err)
	}
}
