/*
 * Copyright © 2026 Suparena Software Inc., All rights reserved.
 */

// Package dump copies every table of a source database into a destination
// database.
//
// A dump is asynchronous: Run validates the two handles, starts a single
// worker goroutine and returns a Job handle. The worker opens one
// transaction on each side, copies the source's tables in order (all rows
// of a table, row by row), commits the source and then the destination,
// and closes the Job.
//
// Progress is reported through an optional callback:
//
//	job, err := dump.Run(ctx, src, dst, dump.WithProgress(func(p dump.Progress) {
//	    if p.Table == nil {
//	        fmt.Println("done")
//	        return
//	    }
//	    fmt.Printf("%s: %d rows left\n", p.Table.Name(), p.Remaining)
//	}))
//
// Each table produces an event carrying its total row count when copying
// starts, another event after every batch of inserts with the rows still
// remaining, and — after both commits — a single terminal event with a nil
// Table ends the stream.
package dump

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/suparena/databridge/database"
	"github.com/suparena/databridge/entity"
	"github.com/suparena/databridge/errors"
)

// Progress is one progress event of a running dump.
type Progress struct {
	Table     *entity.Descriptor // table being copied, nil on the terminal event
	Remaining int                // rows not yet inserted (total at table start)
}

// ProgressFunc receives progress events. It runs on the worker goroutine,
// so it must be cheap and must not block.
type ProgressFunc func(Progress)

// Options configures a dump run.
type Options struct {
	Progress  ProgressFunc   // Optional progress callback
	Logger    zerolog.Logger // Worker logging (default: no-op)
	BatchSize int            // Inserts between progress events (default: 100)
	TableDone bool           // Additionally emit {table, 0} when a table finishes
}

// Option is a functional option for configuring a dump run.
type Option func(*Options)

// DefaultOptions returns the default dump options.
func DefaultOptions() Options {
	return Options{
		Logger:    zerolog.Nop(),
		BatchSize: 100,
	}
}

// WithProgress sets the progress callback.
func WithProgress(fn ProgressFunc) Option {
	return func(opts *Options) {
		opts.Progress = fn
	}
}

// WithLogger sets the worker logger.
func WithLogger(logger zerolog.Logger) Option {
	return func(opts *Options) {
		opts.Logger = logger
	}
}

// WithBatchSize sets the number of inserts between progress events.
func WithBatchSize(n int) Option {
	return func(opts *Options) {
		if n > 0 {
			opts.BatchSize = n
		}
	}
}

// WithTableDone makes every table end with a zero-remaining event, even
// when its row count is not a multiple of the batch size.
func WithTableDone(enabled bool) Option {
	return func(opts *Options) {
		opts.TableDone = enabled
	}
}

// Job is the handle of one asynchronous dump run.
type Job struct {
	id   uuid.UUID
	done chan struct{}

	mu  sync.Mutex
	err error
}

// ID returns the job's unique identifier.
func (j *Job) ID() uuid.UUID { return j.id }

// Done is closed when the dump has finished, successfully or not.
func (j *Job) Done() <-chan struct{} { return j.done }

// Err returns the dump's failure, or nil. It is meaningful once Done is
// closed.
func (j *Job) Err() error {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.err
}

// Wait blocks until the dump finishes or the context is canceled. The dump
// itself keeps running if Wait's context expires first.
func (j *Job) Wait(ctx context.Context) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-j.done:
		return j.Err()
	}
}

func (j *Job) setErr(err error) {
	j.mu.Lock()
	j.err = err
	j.mu.Unlock()
}

// Run starts copying src into dst and returns the Job handle.
//
// The destination must manage every table the source manages, compared by
// name; otherwise Run fails synchronously with IncompatibleSchemasError
// before touching either database. Extra destination tables are allowed.
func Run(ctx context.Context, src, dst database.Database, opts ...Option) (*Job, error) {
	if src == nil || dst == nil {
		return nil, fmt.Errorf("dump: %w", errors.ErrNilDatabase)
	}
	options := DefaultOptions()
	for _, opt := range opts {
		opt(&options)
	}

	if err := checkContainment(src, dst); err != nil {
		return nil, err
	}

	job := &Job{id: uuid.New(), done: make(chan struct{})}
	go job.run(ctx, src, dst, options)
	return job, nil
}

// checkContainment verifies the destination's table set is a superset of
// the source's.
func checkContainment(src, dst database.Database) error {
	have := make(map[string]bool)
	for _, d := range dst.Tables() {
		have[d.Name()] = true
	}
	var missing []string
	for _, d := range src.Tables() {
		if !have[d.Name()] {
			missing = append(missing, d.Name())
		}
	}
	if len(missing) > 0 {
		return errors.NewIncompatibleSchemasError(missing)
	}
	return nil
}

func (j *Job) run(ctx context.Context, src, dst database.Database, opts Options) {
	defer close(j.done)
	j.setErr(j.copy(ctx, src, dst, opts))
}

func (j *Job) copy(ctx context.Context, src, dst database.Database, opts Options) error {
	logger := opts.Logger.With().Str("job", j.id.String()).Logger()
	emit := func(p Progress) {
		if opts.Progress != nil {
			opts.Progress(p)
		}
	}

	// The destination inserts through its own descriptors; containment was
	// verified by name, so every source table resolves.
	dstTables := make(map[string]*entity.Descriptor)
	for _, d := range dst.Tables() {
		dstTables[d.Name()] = d
	}

	if err := src.Begin(ctx); err != nil {
		return fmt.Errorf("dump: beginning source transaction: %w", err)
	}
	if err := dst.Begin(ctx); err != nil {
		_ = src.Rollback(ctx)
		return fmt.Errorf("dump: beginning destination transaction: %w", err)
	}

	rollback := func() {
		_ = src.Rollback(ctx)
		_ = dst.Rollback(ctx)
	}

	for _, table := range src.Tables() {
		if err := ctx.Err(); err != nil {
			rollback()
			return fmt.Errorf("dump: canceled before table %s: %w", table.Name(), err)
		}

		rows, err := src.Query(table).Select(ctx)
		if err != nil {
			rollback()
			return fmt.Errorf("dump: reading table %s: %w", table.Name(), err)
		}
		total := len(rows)
		logger.Debug().Str("table", table.Name()).Int("rows", total).Msg("copying table")
		emit(Progress{Table: table, Remaining: total})

		dq := dst.Query(dstTables[table.Name()])
		inserted := 0
		for _, rec := range rows {
			if err := dq.Insert(ctx, rec); err != nil {
				rollback()
				return fmt.Errorf("dump: writing table %s: %w", table.Name(), err)
			}
			inserted++
			if inserted%opts.BatchSize == 0 {
				emit(Progress{Table: table, Remaining: total - inserted})
			}
		}
		if opts.TableDone && total%opts.BatchSize != 0 {
			emit(Progress{Table: table, Remaining: 0})
		}
	}

	if err := src.Commit(ctx); err != nil {
		_ = dst.Rollback(ctx)
		return fmt.Errorf("dump: committing source transaction: %w", err)
	}
	if err := dst.Commit(ctx); err != nil {
		return fmt.Errorf("dump: committing destination transaction: %w", err)
	}

	logger.Info().Msg("dump complete")
	emit(Progress{})
	return nil
}
