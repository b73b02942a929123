/*
 * Copyright © 2026 Suparena Software Inc., All rights reserved.
 */

package registry

import (
	"context"
	"fmt"
	"reflect"
	"sort"
	"sync"

	"github.com/suparena/databridge/config"
	"github.com/suparena/databridge/database"
	"github.com/suparena/databridge/errors"
)

// Provider is a named factory capability: given connection configuration it
// constructs a ready-to-use database handle bound to its table set.
// Implementations must never return a nil handle together with a nil error.
type Provider interface {
	Get(ctx context.Context, conn *config.Connection) (database.Database, error)
}

// ProviderFunc adapts a function to the Provider interface.
type ProviderFunc func(ctx context.Context, conn *config.Connection) (database.Database, error)

// Get implements Provider.
func (f ProviderFunc) Get(ctx context.Context, conn *config.Connection) (database.Database, error) {
	return f(ctx, conn)
}

// Registry is a thread-safe mapping from provider name to Provider.
// Registration is an unconditional upsert. Tests that need isolation
// should use their own Registry instance instead of mutating the default.
type Registry struct {
	mu        sync.RWMutex
	providers map[string]Provider
}

// New creates an empty registry.
func New() *Registry {
	return &Registry{providers: make(map[string]Provider)}
}

// Register stores the provider under the given name, replacing any previous
// registration.
func (r *Registry) Register(name string, p Provider) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.providers[name] = p
}

// Unregister removes and returns the provider registered under the name.
// The second result reports whether a registration existed; removing an
// unknown name is not an error.
func (r *Registry) Unregister(name string) (Provider, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.providers[name]
	if ok {
		delete(r.providers, name)
	}
	return p, ok
}

// Has reports whether a provider is registered under the name.
func (r *Registry) Has(name string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.providers[name]
	return ok
}

// Names returns the registered provider names, sorted.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.providers))
	for name := range r.providers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Resolve looks up the provider and invokes it. It fails with
// ErrProviderNotFound for an unknown name and with ErrNilDatabase when the
// provider returns no handle and no error. The provider runs outside the
// registry lock; whatever resources it opens belong to the returned handle.
func (r *Registry) Resolve(ctx context.Context, name string, conn *config.Connection) (database.Database, error) {
	r.mu.RLock()
	p, ok := r.providers[name]
	r.mu.RUnlock()
	if !ok {
		return nil, errors.NewProviderNotFoundError(name, r.Names())
	}

	db, err := p.Get(ctx, conn)
	if err != nil {
		return nil, fmt.Errorf("provider %q: %w", name, err)
	}
	if db == nil {
		return nil, fmt.Errorf("provider %q: %w", name, errors.ErrNilDatabase)
	}
	return db, nil
}

// ResolveAs resolves a handle and converts it to the requested type T,
// failing with ErrTypeMismatch when the provider produced something else.
func ResolveAs[T database.Database](r *Registry, ctx context.Context, name string, conn *config.Connection) (T, error) {
	var zero T
	db, err := r.Resolve(ctx, name, conn)
	if err != nil {
		return zero, err
	}
	h, ok := db.(T)
	if !ok {
		want := reflect.TypeOf((*T)(nil)).Elem().String()
		return zero, errors.NewTypeMismatchError(name, want, fmt.Sprintf("%T", db))
	}
	return h, nil
}

// defaultRegistry is the process-wide registry the built-in backends
// register into from their init functions.
var defaultRegistry = New()

// Default returns the process-wide registry.
func Default() *Registry {
	return defaultRegistry
}

// Register registers a provider in the default registry.
func Register(name string, p Provider) {
	defaultRegistry.Register(name, p)
}

// Unregister removes a provider from the default registry.
func Unregister(name string) (Provider, bool) {
	return defaultRegistry.Unregister(name)
}

// Has reports whether the default registry knows the name.
func Has(name string) bool {
	return defaultRegistry.Has(name)
}

// Names lists the default registry's provider names, sorted.
func Names() []string {
	return defaultRegistry.Names()
}

// Resolve resolves a handle from the default registry.
func Resolve(ctx context.Context, name string, conn *config.Connection) (database.Database, error) {
	return defaultRegistry.Resolve(ctx, name, conn)
}
