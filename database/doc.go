/*
Package database defines the handle contract every storage backend
implements.

The main interface is Database, which scopes one underlying storage resource
to a fixed table set and exposes table-scoped queries and explicit
transaction boundaries:

	type Database interface {
	    Tables() []*entity.Descriptor
	    Begin(ctx context.Context) error
	    Commit(ctx context.Context) error
	    Rollback(ctx context.Context) error
	    Query(table *entity.Descriptor) Query
	    Close() error
	}

Implementations:
  - mapdb: in-memory backend with staged transactions
  - sqlite: embedded file backend over modernc.org/sqlite
  - mysql, postgres: networked relational backends over database/sql
  - redisdb: key-value backend over go-redis with pipelined commits
  - ddb: DynamoDB backend with single-table layout and batched commits
  - mock: configurable in-memory backend with failure injection for tests

Relational backends share the sqlbase core, which owns DDL generation,
statement building and transaction state over database/sql.
*/
package database
