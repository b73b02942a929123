/*
 * Copyright © 2026 Suparena Software Inc., All rights reserved.
 */

package entity

import (
	"database/sql"
	"fmt"
	"reflect"
	"strconv"
	"strings"
	"time"

	"github.com/go-openapi/strfmt"
)

// Kind classifies the storage representation of a column.
type Kind int

const (
	KindString Kind = iota
	KindInt
	KindFloat
	KindBool
	KindTime
	KindBytes
)

// String returns the kind name used in diagnostics and dialect type maps.
func (k Kind) String() string {
	switch k {
	case KindString:
		return "string"
	case KindInt:
		return "int"
	case KindFloat:
		return "float"
	case KindBool:
		return "bool"
	case KindTime:
		return "time"
	case KindBytes:
		return "bytes"
	}
	return "unknown"
}

// Column describes one persisted field of a record type.
type Column struct {
	Name    string
	Kind    Kind
	PK      bool
	Pointer bool

	index int
	typ   reflect.Type
}

// Descriptor identifies one persisted record type and carries the metadata
// needed to construct, destructure and rehydrate instances of it. Descriptors
// are immutable once created; use Register to create and register one.
type Descriptor struct {
	name    string
	typ     reflect.Type
	pkgPath string
	columns []Column
	key     int // index into columns, -1 when no primary key
}

var (
	timeType     = reflect.TypeOf(time.Time{})
	dateTimeType = reflect.TypeOf(strfmt.DateTime{})
)

// NewDescriptor builds a descriptor for the given struct type. Columns are
// derived from exported fields: a `db:"name"` tag overrides the default
// snake_case field name, `db:"-"` skips the field, and a ",pk" option marks
// the primary key column. Most callers should use Register instead.
func NewDescriptor(name string, t reflect.Type) (*Descriptor, error) {
	if name == "" {
		return nil, fmt.Errorf("entity: table name must not be empty")
	}
	for t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	if t.Kind() != reflect.Struct {
		return nil, fmt.Errorf("entity: table %q: record type %s is not a struct", name, t)
	}

	d := &Descriptor{
		name:    name,
		typ:     t,
		pkgPath: t.PkgPath(),
		key:     -1,
	}
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		if f.PkgPath != "" { // unexported
			continue
		}
		colName, pk, skip := parseTag(f)
		if skip {
			continue
		}
		kind, pointer, err := kindOf(f.Type)
		if err != nil {
			return nil, fmt.Errorf("entity: table %q, field %s: %w", name, f.Name, err)
		}
		if pk {
			if d.key >= 0 {
				return nil, fmt.Errorf("entity: table %q: multiple primary key columns", name)
			}
			if pointer {
				return nil, fmt.Errorf("entity: table %q, field %s: primary key must not be a pointer", name, f.Name)
			}
			d.key = len(d.columns)
		}
		d.columns = append(d.columns, Column{
			Name:    colName,
			Kind:    kind,
			PK:      pk,
			Pointer: pointer,
			index:   i,
			typ:     f.Type,
		})
	}
	if len(d.columns) == 0 {
		return nil, fmt.Errorf("entity: table %q: record type %s has no persistable fields", name, t)
	}
	return d, nil
}

func parseTag(f reflect.StructField) (name string, pk, skip bool) {
	tag := f.Tag.Get("db")
	if tag == "-" {
		return "", false, true
	}
	parts := strings.Split(tag, ",")
	name = parts[0]
	for _, opt := range parts[1:] {
		if opt == "pk" {
			pk = true
		}
	}
	if name == "" {
		name = toSnake(f.Name)
	}
	return name, pk, false
}

func kindOf(t reflect.Type) (Kind, bool, error) {
	pointer := false
	if t.Kind() == reflect.Ptr {
		pointer = true
		t = t.Elem()
	}
	switch {
	case t == timeType, t == dateTimeType:
		return KindTime, pointer, nil
	case t.Kind() == reflect.String:
		return KindString, pointer, nil
	case t.Kind() == reflect.Int, t.Kind() == reflect.Int32, t.Kind() == reflect.Int64:
		return KindInt, pointer, nil
	case t.Kind() == reflect.Float32, t.Kind() == reflect.Float64:
		return KindFloat, pointer, nil
	case t.Kind() == reflect.Bool:
		return KindBool, pointer, nil
	case t.Kind() == reflect.Slice && t.Elem().Kind() == reflect.Uint8:
		if pointer {
			return 0, false, fmt.Errorf("unsupported field type *[]byte")
		}
		return KindBytes, false, nil
	}
	return 0, false, fmt.Errorf("unsupported field type %s", t)
}

func toSnake(s string) string {
	var b strings.Builder
	runes := []rune(s)
	for i, r := range runes {
		if r >= 'A' && r <= 'Z' {
			if i > 0 && (isLower(runes[i-1]) || (i+1 < len(runes) && isLower(runes[i+1]))) {
				b.WriteByte('_')
			}
			b.WriteRune(r - 'A' + 'a')
		} else {
			b.WriteRune(r)
		}
	}
	return b.String()
}

func isLower(r rune) bool {
	return r >= 'a' && r <= 'z'
}

// Name returns the registered table name.
func (d *Descriptor) Name() string { return d.name }

// Type returns the record struct type.
func (d *Descriptor) Type() reflect.Type { return d.typ }

// PkgPath returns the Go package path of the record type, used by the
// autoscan package filter.
func (d *Descriptor) PkgPath() string { return d.pkgPath }

// String implements fmt.Stringer.
func (d *Descriptor) String() string { return d.name }

// Columns returns the persisted columns in declaration order.
func (d *Descriptor) Columns() []Column {
	out := make([]Column, len(d.columns))
	copy(out, d.columns)
	return out
}

// ColumnNames returns the column names in declaration order.
func (d *Descriptor) ColumnNames() []string {
	out := make([]string, len(d.columns))
	for i, c := range d.columns {
		out[i] = c.Name
	}
	return out
}

// Key returns the primary key column, if the record type declares one.
func (d *Descriptor) Key() (Column, bool) {
	if d.key < 0 {
		return Column{}, false
	}
	return d.columns[d.key], true
}

// New returns a pointer to a fresh zero record.
func (d *Descriptor) New() any {
	return reflect.New(d.typ).Interface()
}

// record unwraps rec into an addressable struct value of the descriptor's type.
func (d *Descriptor) record(rec any) (reflect.Value, error) {
	v := reflect.ValueOf(rec)
	for v.Kind() == reflect.Ptr {
		if v.IsNil() {
			return reflect.Value{}, fmt.Errorf("entity: table %q: nil record", d.name)
		}
		v = v.Elem()
	}
	if v.Type() != d.typ {
		return reflect.Value{}, fmt.Errorf("entity: table %q stores %s, got %T", d.name, d.typ, rec)
	}
	return v, nil
}

// Values destructures a record into normalized column values in declaration
// order: string, int64, float64, bool, time.Time or []byte, with nil for
// unset pointer fields. The record may be passed as *T or T.
func (d *Descriptor) Values(rec any) ([]any, error) {
	v, err := d.record(rec)
	if err != nil {
		return nil, err
	}
	out := make([]any, len(d.columns))
	for i, c := range d.columns {
		f := v.Field(c.index)
		if c.Pointer {
			if f.IsNil() {
				out[i] = nil
				continue
			}
			f = f.Elem()
		}
		out[i] = normalize(c.Kind, f)
	}
	return out, nil
}

func normalize(k Kind, f reflect.Value) any {
	switch k {
	case KindString:
		return f.String()
	case KindInt:
		return f.Int()
	case KindFloat:
		return f.Float()
	case KindBool:
		return f.Bool()
	case KindTime:
		// Strip any monotonic reading before the value reaches a driver.
		return f.Convert(timeType).Interface().(time.Time).Round(0)
	case KindBytes:
		return f.Bytes()
	}
	return f.Interface()
}

// ScanTargets returns fresh scan destinations for one row, one per column,
// suitable for database/sql row scanning. Pass the filled targets to Scan to
// rehydrate the record.
func (d *Descriptor) ScanTargets() []any {
	out := make([]any, len(d.columns))
	for i, c := range d.columns {
		switch c.Kind {
		case KindString:
			out[i] = new(sql.NullString)
		case KindInt:
			out[i] = new(sql.NullInt64)
		case KindFloat:
			out[i] = new(sql.NullFloat64)
		case KindBool:
			out[i] = new(sql.NullBool)
		case KindTime:
			out[i] = new(sql.NullTime)
		case KindBytes:
			out[i] = new([]byte)
		}
	}
	return out
}

// Scan constructs a record from targets previously produced by ScanTargets
// and filled by a row scan. It returns a *T.
func (d *Descriptor) Scan(targets []any) (any, error) {
	if len(targets) != len(d.columns) {
		return nil, fmt.Errorf("entity: table %q: expected %d scan targets, got %d", d.name, len(d.columns), len(targets))
	}
	rec := reflect.New(d.typ)
	v := rec.Elem()
	for i, c := range d.columns {
		val, ok, err := holderValue(c, targets[i])
		if err != nil {
			return nil, fmt.Errorf("entity: table %q, column %q: %w", d.name, c.Name, err)
		}
		if !ok {
			continue // NULL, leave zero or nil
		}
		f := v.Field(c.index)
		if c.Pointer {
			p := reflect.New(f.Type().Elem())
			p.Elem().Set(val.Convert(f.Type().Elem()))
			f.Set(p)
			continue
		}
		f.Set(val.Convert(f.Type()))
	}
	return rec.Interface(), nil
}

func holderValue(c Column, target any) (reflect.Value, bool, error) {
	switch c.Kind {
	case KindString:
		h, ok := target.(*sql.NullString)
		if !ok {
			return reflect.Value{}, false, fmt.Errorf("bad scan target %T", target)
		}
		return reflect.ValueOf(h.String), h.Valid, nil
	case KindInt:
		h, ok := target.(*sql.NullInt64)
		if !ok {
			return reflect.Value{}, false, fmt.Errorf("bad scan target %T", target)
		}
		return reflect.ValueOf(h.Int64), h.Valid, nil
	case KindFloat:
		h, ok := target.(*sql.NullFloat64)
		if !ok {
			return reflect.Value{}, false, fmt.Errorf("bad scan target %T", target)
		}
		return reflect.ValueOf(h.Float64), h.Valid, nil
	case KindBool:
		h, ok := target.(*sql.NullBool)
		if !ok {
			return reflect.Value{}, false, fmt.Errorf("bad scan target %T", target)
		}
		return reflect.ValueOf(h.Bool), h.Valid, nil
	case KindTime:
		h, ok := target.(*sql.NullTime)
		if !ok {
			return reflect.Value{}, false, fmt.Errorf("bad scan target %T", target)
		}
		return reflect.ValueOf(h.Time), h.Valid, nil
	case KindBytes:
		h, ok := target.(*[]byte)
		if !ok {
			return reflect.Value{}, false, fmt.Errorf("bad scan target %T", target)
		}
		return reflect.ValueOf(*h), *h != nil, nil
	}
	return reflect.Value{}, false, fmt.Errorf("unknown column kind %v", c.Kind)
}

// KeyString renders the record's primary key as a string, for backends that
// address records by key.
func (d *Descriptor) KeyString(rec any) (string, error) {
	key, ok := d.Key()
	if !ok {
		return "", fmt.Errorf("entity: table %q has no primary key column", d.name)
	}
	v, err := d.record(rec)
	if err != nil {
		return "", err
	}
	f := v.Field(key.index)
	switch key.Kind {
	case KindString:
		return f.String(), nil
	case KindInt:
		return strconv.FormatInt(f.Int(), 10), nil
	default:
		return fmt.Sprint(normalize(key.Kind, f)), nil
	}
}
