/*
 * Copyright © 2026 Suparena Software Inc., All rights reserved.
 */

package entity

import (
	"strings"

	"github.com/suparena/databridge/errors"
)

// Scan resolves the table set a handle should manage. With autoscan enabled
// it returns every registered descriptor, optionally filtered by package
// prefix; otherwise it resolves the explicit table name list. The two modes
// are mutually exclusive and an empty result is valid.
func Scan(autoscan bool, pkgPrefix string, tables []string) ([]*Descriptor, error) {
	if autoscan {
		return Autoscan(pkgPrefix), nil
	}
	return Explicit(tables)
}

// Autoscan returns all registered descriptors in registration order. When
// pkgPrefix is non-empty, only types whose package path starts with the
// prefix are kept. The registry guarantees the result carries no duplicates.
func Autoscan(pkgPrefix string) []*Descriptor {
	all := All()
	if pkgPrefix == "" {
		return all
	}
	var out []*Descriptor
	for _, d := range all {
		if strings.HasPrefix(d.PkgPath(), pkgPrefix) {
			out = append(out, d)
		}
	}
	return out
}

// Explicit resolves each listed table name against the registry, preserving
// list order and dropping repeated names. Any name that does not resolve is
// fatal: no partial table set is returned.
func Explicit(tables []string) ([]*Descriptor, error) {
	var out []*Descriptor
	seen := make(map[string]bool, len(tables))
	for _, name := range tables {
		if seen[name] {
			continue
		}
		seen[name] = true
		d, ok := Lookup(name)
		if !ok {
			return nil, errors.NewUnknownTableError(name)
		}
		out = append(out, d)
	}
	return out, nil
}
