/*
 * Copyright © 2026 Suparena Software Inc., All rights reserved.
 */

package databridge

import (
	"context"
	"fmt"
	"sync"

	"github.com/suparena/databridge/config"
	"github.com/suparena/databridge/database"
	"github.com/suparena/databridge/dump"
	"github.com/suparena/databridge/errors"
	"github.com/suparena/databridge/registry"
)

// Get resolves the named provider from the default registry and asks it for
// a handle built from conn. T selects the expected handle type; use
// database.Database to accept any backend.
func Get[T database.Database](ctx context.Context, provider string, conn *config.Connection) (T, error) {
	return registry.ResolveAs[T](registry.Default(), ctx, provider, conn)
}

// GetSection resolves a handle from one section of a configuration root.
// The section's provider key names the provider; its connection block is
// optional and passed through as-is.
func GetSection[T database.Database](ctx context.Context, root *config.Root, section string) (T, error) {
	var zero T
	s, err := root.Section(section)
	if err != nil {
		return zero, err
	}
	if s.Provider == "" {
		return zero, errors.NewMissingProviderError(section)
	}
	return Get[T](ctx, s.Provider, s.Connection)
}

var (
	defaultRootMu sync.RWMutex
	defaultRoot   *config.Root
)

// SetDefaultRoot installs the process-wide configuration root used by
// GetDefault. Passing nil clears it.
func SetDefaultRoot(root *config.Root) {
	defaultRootMu.Lock()
	defaultRoot = root
	defaultRootMu.Unlock()
}

// GetDefault resolves a handle from the "database" section of the installed
// default root. It never guesses: without an installed root it fails with
// ErrNoDefaultConfig.
func GetDefault[T database.Database](ctx context.Context) (T, error) {
	return GetDefaultSection[T](ctx, config.DefaultSection)
}

// GetDefaultSection is GetDefault for a named section of the default root.
func GetDefaultSection[T database.Database](ctx context.Context, section string) (T, error) {
	defaultRootMu.RLock()
	root := defaultRoot
	defaultRootMu.RUnlock()

	var zero T
	if root == nil {
		return zero, fmt.Errorf("databridge: %w", errors.ErrNoDefaultConfig)
	}
	return GetSection[T](ctx, root, section)
}

// Register adds or replaces a provider in the default registry.
func Register(name string, p registry.Provider) {
	registry.Register(name, p)
}

// Unregister removes a provider from the default registry, returning the
// provider that was registered, if any.
func Unregister(name string) (registry.Provider, bool) {
	return registry.Unregister(name)
}

// Has reports whether a provider is registered in the default registry.
func Has(name string) bool {
	return registry.Has(name)
}

// Providers returns the names registered in the default registry, sorted.
func Providers() []string {
	return registry.Names()
}

// Dump copies every table of src into dst on a background worker. See the
// dump package for progress reporting and options.
func Dump(ctx context.Context, src, dst database.Database, opts ...dump.Option) (*dump.Job, error) {
	return dump.Run(ctx, src, dst, opts...)
}
