/*
Package databridge provides a pluggable data-access layer for Go applications,
resolving named storage providers into uniform database handles and moving
data between heterogeneous backends.

The library follows a register → resolve → operate workflow:
  - Register: record types join the entity registry, providers join the provider registry
  - Resolve: a provider name plus connection configuration yields a database handle
  - Operate: handles expose tables, transactions, per-table queries and cross-backend dumps

Key Features:
  - Type-safe record access using Go generics
  - Multiple storage backend support (SQLite, MySQL, PostgreSQL, Redis, DynamoDB, in-memory)
  - Declarative table schemas derived from struct tags
  - Configuration-driven provider resolution from YAML roots
  - Asynchronous cross-backend dumps with progress tracking
  - Semantic error types for better error handling
  - Comprehensive mock backend for testing

Basic Usage:

	// Register record types
	players := entity.Register[Player]("players")

	// Resolve a handle from an explicit provider and connection
	db, _ := databridge.Get[database.Database](ctx, "sqlite", &config.Connection{
		File:   "app.db",
		Tables: []string{"players"},
	})
	defer db.Close()

	// Typed queries
	q, _ := databridge.QueryFor[Player](db)
	_ = q.Insert(ctx, &Player{ID: "p1", Name: "Anna"})
	rows, _ := q.Select(ctx)

	// Copy everything into another backend
	dst, _ := databridge.Get[database.Database](ctx, "map", &config.Connection{
		Tables: []string{"players"},
	})
	job, _ := databridge.Dump(ctx, db, dst)
	_ = job.Wait(ctx)

For more information, see the documentation at https://github.com/suparena/databridge
*/
package databridge
