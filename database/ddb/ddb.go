/*
 * Copyright © 2026 Suparena Software Inc., All rights reserved.
 */

// Package ddb provides the DynamoDB Database backend, registered under
// "dynamodb". All managed tables share one DynamoDB table: each record is
// stored with PK and SK "<TABLE>#<key>" and an EntityType attribute naming
// its logical table, so Select can scan with an EntityType filter.
package ddb

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	sdk "github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"

	"github.com/suparena/databridge/config"
	"github.com/suparena/databridge/database"
	"github.com/suparena/databridge/entity"
	"github.com/suparena/databridge/errors"
	"github.com/suparena/databridge/registry"
)

// ProviderName is the registry key of this backend.
const ProviderName = "dynamodb"

// batchSize is the BatchWriteItem limit imposed by DynamoDB.
const batchSize = 25

const maxBatchRetries = 3

func init() {
	registry.Register(ProviderName, registry.ProviderFunc(New))
}

// Database is the DynamoDB implementation of database.Database.
type Database struct {
	client    *sdk.Client
	tableName string
	tables    []*entity.Descriptor
	byName    map[string]*entity.Descriptor

	mu     sync.Mutex
	inTx   bool
	staged map[string]map[string]map[string]types.AttributeValue // table -> PK -> item
	closed bool
}

var _ database.Database = (*Database)(nil)

// New builds a DynamoDB-backed handle. The connection must name the
// DynamoDB table; Region, Endpoint and static credentials (params
// access_key / secret_key) are honored, otherwise the default AWS chain
// applies.
func New(ctx context.Context, conn *config.Connection) (database.Database, error) {
	if conn == nil || conn.Table == "" {
		return nil, fmt.Errorf("dynamodb: connection requires a table")
	}
	tables, err := database.ResolveTables(conn)
	if err != nil {
		return nil, fmt.Errorf("dynamodb: %w", err)
	}
	byName := make(map[string]*entity.Descriptor, len(tables))
	for _, d := range tables {
		if _, ok := d.Key(); !ok {
			return nil, fmt.Errorf("dynamodb: table %q has no primary key column", d.Name())
		}
		byName[d.Name()] = d
	}

	client, err := newClient(ctx, conn)
	if err != nil {
		return nil, err
	}
	return &Database{
		client:    client,
		tableName: conn.Table,
		tables:    tables,
		byName:    byName,
	}, nil
}

func newClient(ctx context.Context, conn *config.Connection) (*sdk.Client, error) {
	var opts []func(*awsconfig.LoadOptions) error
	if conn.Region != "" {
		opts = append(opts, awsconfig.WithRegion(conn.Region))
	}
	if accessKey := conn.Param("access_key", ""); accessKey != "" {
		secretKey := conn.Param("secret_key", "")
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(accessKey, secretKey, ""),
		))
	}

	cfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("dynamodb: loading AWS configuration: %w", err)
	}

	var clientOpts []func(*sdk.Options)
	if conn.Endpoint != "" {
		clientOpts = append(clientOpts, func(o *sdk.Options) {
			o.BaseEndpoint = aws.String(conn.Endpoint)
		})
	}
	return sdk.NewFromConfig(cfg, clientOpts...), nil
}

// itemKey renders the partition key of a record: "<TABLE>#<key>" with the
// logical table name uppercased.
func itemKey(table, key string) string {
	return strings.ToUpper(table) + "#" + key
}

// buildItem marshals a record and injects the PK, SK and EntityType
// attributes.
func buildItem(d *entity.Descriptor, rec any) (map[string]types.AttributeValue, string, error) {
	key, err := d.KeyString(rec)
	if err != nil {
		return nil, "", err
	}
	av, err := attributevalue.MarshalMap(rec)
	if err != nil {
		return nil, "", fmt.Errorf("failed to marshal record: %w", err)
	}

	pk := itemKey(d.Name(), key)
	av["PK"] = &types.AttributeValueMemberS{Value: pk}
	av["SK"] = &types.AttributeValueMemberS{Value: pk}
	av["EntityType"] = &types.AttributeValueMemberS{Value: d.Name()}
	return av, pk, nil
}

// decodeItem strips the key attributes and unmarshals the remainder into a
// fresh record.
func decodeItem(d *entity.Descriptor, item map[string]types.AttributeValue) (any, error) {
	clean := make(map[string]types.AttributeValue, len(item))
	for k, v := range item {
		clean[k] = v
	}
	delete(clean, "PK")
	delete(clean, "SK")
	delete(clean, "EntityType")

	rec := d.New()
	if err := attributevalue.UnmarshalMap(clean, rec); err != nil {
		return nil, fmt.Errorf("failed to unmarshal item: %w", err)
	}
	return rec, nil
}

// Tables returns the managed descriptors in scan order.
func (db *Database) Tables() []*entity.Descriptor {
	out := make([]*entity.Descriptor, len(db.tables))
	copy(out, db.tables)
	return out
}

// Begin starts staging puts. They are flushed as BatchWriteItem chunks on
// Commit, which is not atomic across chunks; a failed commit leaves the
// already-written chunks in place.
func (db *Database) Begin(ctx context.Context) error {
	db.mu.Lock()
	defer db.mu.Unlock()
	if db.closed {
		return fmt.Errorf("dynamodb: begin: %w", errors.ErrClosed)
	}
	if db.inTx {
		return fmt.Errorf("dynamodb: begin: %w: transaction already open", errors.ErrTxState)
	}
	db.inTx = true
	db.staged = make(map[string]map[string]map[string]types.AttributeValue)
	return nil
}

// Commit flushes the staged puts.
func (db *Database) Commit(ctx context.Context) error {
	db.mu.Lock()
	if !db.inTx {
		db.mu.Unlock()
		return fmt.Errorf("dynamodb: commit: %w: no open transaction", errors.ErrTxState)
	}
	staged := db.staged
	db.inTx = false
	db.staged = nil
	db.mu.Unlock()

	var writes []types.WriteRequest
	for _, records := range staged {
		for _, item := range records {
			writes = append(writes, types.WriteRequest{
				PutRequest: &types.PutRequest{Item: item},
			})
		}
	}
	for start := 0; start < len(writes); start += batchSize {
		end := start + batchSize
		if end > len(writes) {
			end = len(writes)
		}
		if err := db.writeBatch(ctx, writes[start:end]); err != nil {
			return errors.NewTransactionError("commit", err)
		}
	}
	return nil
}

// writeBatch submits one chunk, retrying unprocessed items.
func (db *Database) writeBatch(ctx context.Context, writes []types.WriteRequest) error {
	pending := writes
	for attempt := 0; len(pending) > 0; attempt++ {
		if attempt >= maxBatchRetries {
			return fmt.Errorf("%d items unprocessed after %d attempts", len(pending), attempt)
		}
		out, err := db.client.BatchWriteItem(ctx, &sdk.BatchWriteItemInput{
			RequestItems: map[string][]types.WriteRequest{db.tableName: pending},
		})
		if err != nil {
			return fmt.Errorf("BatchWriteItem failed: %w", err)
		}
		pending = out.UnprocessedItems[db.tableName]
	}
	return nil
}

// Rollback discards the staged puts.
func (db *Database) Rollback(ctx context.Context) error {
	db.mu.Lock()
	defer db.mu.Unlock()
	if !db.inTx {
		return fmt.Errorf("dynamodb: rollback: %w: no open transaction", errors.ErrTxState)
	}
	db.inTx = false
	db.staged = nil
	return nil
}

// Query returns the table-scoped query object.
func (db *Database) Query(table *entity.Descriptor) database.Query {
	if table == nil {
		return database.ErrorQuery(fmt.Errorf("dynamodb: nil table descriptor"))
	}
	db.mu.Lock()
	closed := db.closed
	db.mu.Unlock()
	if closed {
		return database.ErrorQuery(fmt.Errorf("dynamodb: %w", errors.ErrClosed))
	}
	if _, ok := db.byName[table.Name()]; !ok {
		return database.ErrorQuery(fmt.Errorf("dynamodb: %w", errors.NewUnknownTableError(table.Name())))
	}
	return &query{db: db, table: table}
}

// Close discards any staged transaction. The SDK client holds no
// connection of its own.
func (db *Database) Close() error {
	db.mu.Lock()
	defer db.mu.Unlock()
	db.closed = true
	db.inTx = false
	db.staged = nil
	return nil
}

type query struct {
	db    *Database
	table *entity.Descriptor
}

// Select scans the DynamoDB table with an EntityType filter and pages
// through the results. Staged records shadow committed ones.
func (q *query) Select(ctx context.Context) ([]any, error) {
	q.db.mu.Lock()
	stagedPKs := make(map[string]bool)
	var stagedItems []map[string]types.AttributeValue
	if q.db.inTx {
		for pk, item := range q.db.staged[q.table.Name()] {
			stagedPKs[pk] = true
			stagedItems = append(stagedItems, item)
		}
	}
	q.db.mu.Unlock()

	var out []any
	input := &sdk.ScanInput{
		TableName:        aws.String(q.db.tableName),
		FilterExpression: aws.String("EntityType = :et"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":et": &types.AttributeValueMemberS{Value: q.table.Name()},
		},
	}
	for {
		page, err := q.db.client.Scan(ctx, input)
		if err != nil {
			return nil, fmt.Errorf("dynamodb: scanning %s: %w", q.table.Name(), err)
		}
		for _, item := range page.Items {
			if pk, ok := item["PK"].(*types.AttributeValueMemberS); ok && stagedPKs[pk.Value] {
				continue
			}
			rec, err := decodeItem(q.table, item)
			if err != nil {
				return nil, fmt.Errorf("dynamodb: decoding %s item: %w", q.table.Name(), err)
			}
			out = append(out, rec)
		}
		if len(page.LastEvaluatedKey) == 0 {
			break
		}
		input.ExclusiveStartKey = page.LastEvaluatedKey
	}

	for _, item := range stagedItems {
		rec, err := decodeItem(q.table, item)
		if err != nil {
			return nil, fmt.Errorf("dynamodb: decoding staged %s item: %w", q.table.Name(), err)
		}
		out = append(out, rec)
	}
	return out, nil
}

// Insert stores one record, immediately or staged when a transaction is
// open.
func (q *query) Insert(ctx context.Context, rec any) error {
	item, pk, err := buildItem(q.table, rec)
	if err != nil {
		return fmt.Errorf("dynamodb: insert into %s: %w", q.table.Name(), err)
	}

	q.db.mu.Lock()
	if q.db.closed {
		q.db.mu.Unlock()
		return fmt.Errorf("dynamodb: insert into %s: %w", q.table.Name(), errors.ErrClosed)
	}
	if q.db.inTx {
		records, ok := q.db.staged[q.table.Name()]
		if !ok {
			records = make(map[string]map[string]types.AttributeValue)
			q.db.staged[q.table.Name()] = records
		}
		records[pk] = item
		q.db.mu.Unlock()
		return nil
	}
	q.db.mu.Unlock()

	if _, err := q.db.client.PutItem(ctx, &sdk.PutItemInput{
		TableName: aws.String(q.db.tableName),
		Item:      item,
	}); err != nil {
		return fmt.Errorf("dynamodb: insert into %s: PutItem failed: %w", q.table.Name(), err)
	}
	return nil
}
