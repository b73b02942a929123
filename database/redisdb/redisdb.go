/*
 * Copyright © 2026 Suparena Software Inc., All rights reserved.
 */

// Package redisdb provides the Redis Database backend, registered under
// "redis". Records are stored as JSON strings under "<table>:<key>", so
// every managed table must carry a primary key column. Select scans the
// table prefix and sorts the keys, which makes enumeration deterministic
// but not insertion-ordered.
package redisdb

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"sync"

	"github.com/redis/go-redis/v9"

	"github.com/suparena/databridge/config"
	"github.com/suparena/databridge/database"
	"github.com/suparena/databridge/entity"
	"github.com/suparena/databridge/errors"
	"github.com/suparena/databridge/registry"
)

// ProviderName is the registry key of this backend.
const ProviderName = "redis"

const scanPageSize = 256

func init() {
	registry.Register(ProviderName, registry.ProviderFunc(New))
}

// Database is the Redis implementation of database.Database.
type Database struct {
	rdb    *redis.Client
	tables []*entity.Descriptor
	byName map[string]*entity.Descriptor

	mu     sync.Mutex
	inTx   bool
	staged map[string]map[string][]byte // table -> record key -> payload
	closed bool
}

var _ database.Database = (*Database)(nil)

// New connects to Redis at the connection's Addr (DB and Password are
// honored) and returns a handle managing the scanned tables.
func New(ctx context.Context, conn *config.Connection) (database.Database, error) {
	if conn == nil || conn.Addr == "" {
		return nil, fmt.Errorf("redis: connection requires an addr")
	}
	tables, err := database.ResolveTables(conn)
	if err != nil {
		return nil, fmt.Errorf("redis: %w", err)
	}
	byName := make(map[string]*entity.Descriptor, len(tables))
	for _, d := range tables {
		if _, ok := d.Key(); !ok {
			return nil, fmt.Errorf("redis: table %q has no primary key column", d.Name())
		}
		byName[d.Name()] = d
	}

	rdb := redis.NewClient(&redis.Options{
		Addr:     conn.Addr,
		Password: conn.Password,
		DB:       conn.DB,
	})
	if err := rdb.Ping(ctx).Err(); err != nil {
		rdb.Close()
		return nil, fmt.Errorf("redis: pinging %s: %w", conn.Addr, err)
	}

	return &Database{rdb: rdb, tables: tables, byName: byName}, nil
}

// Tables returns the managed descriptors in scan order.
func (db *Database) Tables() []*entity.Descriptor {
	out := make([]*entity.Descriptor, len(db.tables))
	copy(out, db.tables)
	return out
}

// Begin starts staging inserts. They are flushed in one pipeline on Commit.
func (db *Database) Begin(ctx context.Context) error {
	db.mu.Lock()
	defer db.mu.Unlock()
	if db.closed {
		return fmt.Errorf("redis: begin: %w", errors.ErrClosed)
	}
	if db.inTx {
		return fmt.Errorf("redis: begin: %w: transaction already open", errors.ErrTxState)
	}
	db.inTx = true
	db.staged = make(map[string]map[string][]byte)
	return nil
}

// Commit flushes the staged inserts through a single pipeline.
func (db *Database) Commit(ctx context.Context) error {
	db.mu.Lock()
	if !db.inTx {
		db.mu.Unlock()
		return fmt.Errorf("redis: commit: %w: no open transaction", errors.ErrTxState)
	}
	staged := db.staged
	db.inTx = false
	db.staged = nil
	db.mu.Unlock()

	pipe := db.rdb.TxPipeline()
	for table, records := range staged {
		for key, payload := range records {
			pipe.Set(ctx, table+":"+key, payload, 0)
		}
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return errors.NewTransactionError("commit", err)
	}
	return nil
}

// Rollback discards the staged inserts.
func (db *Database) Rollback(ctx context.Context) error {
	db.mu.Lock()
	defer db.mu.Unlock()
	if !db.inTx {
		return fmt.Errorf("redis: rollback: %w: no open transaction", errors.ErrTxState)
	}
	db.inTx = false
	db.staged = nil
	return nil
}

// Query returns the table-scoped query object.
func (db *Database) Query(table *entity.Descriptor) database.Query {
	if table == nil {
		return database.ErrorQuery(fmt.Errorf("redis: nil table descriptor"))
	}
	db.mu.Lock()
	closed := db.closed
	db.mu.Unlock()
	if closed {
		return database.ErrorQuery(fmt.Errorf("redis: %w", errors.ErrClosed))
	}
	if _, ok := db.byName[table.Name()]; !ok {
		return database.ErrorQuery(fmt.Errorf("redis: %w", errors.NewUnknownTableError(table.Name())))
	}
	return &query{db: db, table: table}
}

// Close discards any staged transaction and releases the client.
func (db *Database) Close() error {
	db.mu.Lock()
	if db.closed {
		db.mu.Unlock()
		return nil
	}
	db.closed = true
	db.inTx = false
	db.staged = nil
	db.mu.Unlock()
	return db.rdb.Close()
}

type query struct {
	db    *Database
	table *entity.Descriptor
}

// Select reads every record of the table, committed and staged, in key
// order.
func (q *query) Select(ctx context.Context) ([]any, error) {
	prefix := q.table.Name() + ":"

	var cursor uint64
	payloads := make(map[string][]byte)
	for {
		page, next, err := q.db.rdb.Scan(ctx, cursor, prefix+"*", scanPageSize).Result()
		if err != nil {
			return nil, fmt.Errorf("redis: scanning %s: %w", q.table.Name(), err)
		}
		if len(page) > 0 {
			values, err := q.db.rdb.MGet(ctx, page...).Result()
			if err != nil {
				return nil, fmt.Errorf("redis: reading %s records: %w", q.table.Name(), err)
			}
			for i, v := range values {
				s, ok := v.(string)
				if !ok {
					continue // expired between scan and mget
				}
				payloads[page[i]] = []byte(s)
			}
		}
		cursor = next
		if cursor == 0 {
			break
		}
	}

	// Read-your-writes: staged records shadow committed ones.
	q.db.mu.Lock()
	if q.db.inTx {
		for key, payload := range q.db.staged[q.table.Name()] {
			payloads[prefix+key] = payload
		}
	}
	q.db.mu.Unlock()

	keys := make([]string, 0, len(payloads))
	for k := range payloads {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	out := make([]any, 0, len(keys))
	for _, k := range keys {
		rec := q.table.New()
		if err := json.Unmarshal(payloads[k], rec); err != nil {
			return nil, fmt.Errorf("redis: decoding %s: %w", k, err)
		}
		out = append(out, rec)
	}
	return out, nil
}

// Insert stores one record, immediately or staged when a transaction is
// open.
func (q *query) Insert(ctx context.Context, rec any) error {
	key, err := q.table.KeyString(rec)
	if err != nil {
		return fmt.Errorf("redis: insert into %s: %w", q.table.Name(), err)
	}
	payload, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("redis: encoding %s record: %w", q.table.Name(), err)
	}

	q.db.mu.Lock()
	if q.db.closed {
		q.db.mu.Unlock()
		return fmt.Errorf("redis: insert into %s: %w", q.table.Name(), errors.ErrClosed)
	}
	if q.db.inTx {
		records, ok := q.db.staged[q.table.Name()]
		if !ok {
			records = make(map[string][]byte)
			q.db.staged[q.table.Name()] = records
		}
		records[key] = payload
		q.db.mu.Unlock()
		return nil
	}
	q.db.mu.Unlock()

	if err := q.db.rdb.Set(ctx, q.table.Name()+":"+key, payload, 0).Err(); err != nil {
		return fmt.Errorf("redis: insert into %s: %w", q.table.Name(), err)
	}
	return nil
}
