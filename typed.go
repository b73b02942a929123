/*
 * Copyright © 2026 Suparena Software Inc., All rights reserved.
 */

package databridge

import (
	"context"
	"fmt"

	"github.com/suparena/databridge/database"
	"github.com/suparena/databridge/entity"
)

// TypedQuery is a typed view over a table-scoped query, for hosts that
// prefer compile-time record types over the any-based Query interface.
type TypedQuery[T any] struct {
	q     database.Query
	table *entity.Descriptor
}

// QueryFor builds a typed query for T's registered table on the given
// handle. T must have been registered through entity.Register.
func QueryFor[T any](db database.Database) (*TypedQuery[T], error) {
	d, ok := entity.DescriptorFor[T]()
	if !ok {
		var zero T
		return nil, fmt.Errorf("databridge: no table registered for type %T", zero)
	}
	return &TypedQuery[T]{q: db.Query(d), table: d}, nil
}

// Table returns the descriptor the query is scoped to.
func (t *TypedQuery[T]) Table() *entity.Descriptor { return t.table }

// Select reads every record of the table.
func (t *TypedQuery[T]) Select(ctx context.Context) ([]*T, error) {
	rows, err := t.q.Select(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]*T, 0, len(rows))
	for _, r := range rows {
		rec, ok := r.(*T)
		if !ok {
			return nil, fmt.Errorf("databridge: backend returned %T for table %s", r, t.table.Name())
		}
		out = append(out, rec)
	}
	return out, nil
}

// Insert stores one record.
func (t *TypedQuery[T]) Insert(ctx context.Context, rec *T) error {
	return t.q.Insert(ctx, rec)
}
