/*
 * Copyright © 2026 Suparena Software Inc., All rights reserved.
 */

package entity

import (
	"fmt"
	"reflect"
	"sync"
)

// The entity registry is the process-wide set of record types available to
// database handles. Types are registered once, typically from init functions,
// and looked up by table name during scanning.

var (
	mu      sync.RWMutex
	byName  = make(map[string]*Descriptor)
	byType  = make(map[reflect.Type]*Descriptor)
	ordered []*Descriptor
)

// Register derives a descriptor for T and registers it under the given table
// name. It panics on an invalid record type or if the name or type is already
// registered, to prevent accidental overrides.
func Register[T any](name string) *Descriptor {
	var zero T
	t := reflect.TypeOf(zero)
	if t == nil {
		t = reflect.TypeOf(&zero).Elem()
	}
	d, err := NewDescriptor(name, t)
	if err != nil {
		panic(fmt.Sprintf("entity registry: %v", err))
	}

	mu.Lock()
	defer mu.Unlock()
	if _, exists := byName[name]; exists {
		panic(fmt.Sprintf("entity registry: table %q already registered", name))
	}
	if prev, exists := byType[d.typ]; exists {
		panic(fmt.Sprintf("entity registry: type %s already registered as table %q", d.typ, prev.name))
	}
	byName[name] = d
	byType[d.typ] = d
	ordered = append(ordered, d)
	return d
}

// Lookup returns the descriptor registered under the given table name.
func Lookup(name string) (*Descriptor, bool) {
	mu.RLock()
	defer mu.RUnlock()
	d, ok := byName[name]
	return d, ok
}

// DescriptorFor returns the descriptor registered for type T, if any.
func DescriptorFor[T any]() (*Descriptor, bool) {
	var zero T
	t := reflect.TypeOf(zero)
	if t == nil {
		t = reflect.TypeOf(&zero).Elem()
	}
	for t.Kind() == reflect.Ptr {
		t = t.Elem()
	}

	mu.RLock()
	defer mu.RUnlock()
	d, ok := byType[t]
	return d, ok
}

// All returns every registered descriptor in registration order.
func All() []*Descriptor {
	mu.RLock()
	defer mu.RUnlock()
	out := make([]*Descriptor, len(ordered))
	copy(out, ordered)
	return out
}

// Reset clears the registry. It exists for tests; production code registers
// types once at startup and never unregisters them.
func Reset() {
	mu.Lock()
	defer mu.Unlock()
	byName = make(map[string]*Descriptor)
	byType = make(map[reflect.Type]*Descriptor)
	ordered = nil
}
