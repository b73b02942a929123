/*
 * Copyright © 2026 Suparena Software Inc., All rights reserved.
 */

package errors

import (
	"errors"
	"fmt"
	"strings"
)

// Common sentinel errors
var (
	// ErrProviderNotFound is returned when no provider is registered under a name
	ErrProviderNotFound = errors.New("provider not found")

	// ErrNilDatabase is returned when a provider returns a nil handle without an error
	ErrNilDatabase = errors.New("provider returned nil database")

	// ErrTypeMismatch is returned when a resolved handle cannot be converted to the requested type
	ErrTypeMismatch = errors.New("database type mismatch")

	// ErrMissingProvider is returned when a configuration section has no provider key
	ErrMissingProvider = errors.New("missing provider key")

	// ErrMissingSection is returned when a configuration root has no section with the given name
	ErrMissingSection = errors.New("missing configuration section")

	// ErrNoDefaultConfig is returned when default resolution is used before a
	// default configuration root has been installed
	ErrNoDefaultConfig = errors.New("no default configuration installed")

	// ErrUnknownTable is returned when a table name does not resolve to a registered record type
	ErrUnknownTable = errors.New("unknown table")

	// ErrIncompatibleSchemas is returned when a dump destination does not manage
	// every table the source manages
	ErrIncompatibleSchemas = errors.New("incompatible table sets")

	// ErrTxBegin is returned when a backend fails to start a transaction
	ErrTxBegin = errors.New("transaction begin failed")

	// ErrTxCommit is returned when a backend fails to commit a transaction
	ErrTxCommit = errors.New("transaction commit failed")

	// ErrTxState is returned when begin/commit/rollback calls are not paired
	ErrTxState = errors.New("invalid transaction state")

	// ErrClosed is returned when an operation is attempted on a closed handle
	ErrClosed = errors.New("database is closed")
)

// ProviderNotFoundError reports a lookup miss in the provider registry,
// carrying the names that are registered so callers can see what is available.
type ProviderNotFoundError struct {
	Name  string
	Known []string
}

func (e *ProviderNotFoundError) Error() string {
	if len(e.Known) == 0 {
		return fmt.Sprintf("unknown database provider %q (no providers registered)", e.Name)
	}
	return fmt.Sprintf("unknown database provider %q, available: %s", e.Name, strings.Join(e.Known, ", "))
}

func (e *ProviderNotFoundError) Is(target error) bool {
	return target == ErrProviderNotFound
}

// TypeMismatchError reports that a provider produced a handle of a different
// type than the caller requested.
type TypeMismatchError struct {
	Provider string
	Want     string
	Got      string
}

func (e *TypeMismatchError) Error() string {
	return fmt.Sprintf("provider %q produced %s, caller requested %s", e.Provider, e.Got, e.Want)
}

func (e *TypeMismatchError) Is(target error) bool {
	return target == ErrTypeMismatch
}

// UnknownTableError reports a table name that does not resolve to any
// registered record type.
type UnknownTableError struct {
	Name string
}

func (e *UnknownTableError) Error() string {
	return fmt.Sprintf("table %q is not registered", e.Name)
}

func (e *UnknownTableError) Is(target error) bool {
	return target == ErrUnknownTable
}

// IncompatibleSchemasError reports the tables the dump destination is missing.
type IncompatibleSchemasError struct {
	Missing []string
}

func (e *IncompatibleSchemasError) Error() string {
	return fmt.Sprintf("destination does not manage source tables: %s", strings.Join(e.Missing, ", "))
}

func (e *IncompatibleSchemasError) Is(target error) bool {
	return target == ErrIncompatibleSchemas
}

// TransactionError wraps a backend failure during begin, commit or rollback.
type TransactionError struct {
	Op  string // "begin", "commit" or "rollback"
	Err error
}

func (e *TransactionError) Error() string {
	return fmt.Sprintf("transaction %s failed: %v", e.Op, e.Err)
}

func (e *TransactionError) Unwrap() error {
	return e.Err
}

func (e *TransactionError) Is(target error) bool {
	switch target {
	case ErrTxBegin:
		return e.Op == "begin"
	case ErrTxCommit:
		return e.Op == "commit"
	}
	return false
}

// ConfigError reports a configuration shape problem at a specific section or key.
type ConfigError struct {
	Section string
	Key     string
	Message string
}

func (e *ConfigError) Error() string {
	if e.Key != "" {
		return fmt.Sprintf("configuration section %q, key %q: %s", e.Section, e.Key, e.Message)
	}
	return fmt.Sprintf("configuration section %q: %s", e.Section, e.Message)
}

func (e *ConfigError) Is(target error) bool {
	switch target {
	case ErrMissingProvider:
		return e.Key == "provider"
	case ErrMissingSection:
		return e.Key == ""
	}
	return false
}

// Helper functions for creating errors

// NewProviderNotFoundError creates a new ProviderNotFoundError
func NewProviderNotFoundError(name string, known []string) error {
	return &ProviderNotFoundError{Name: name, Known: known}
}

// NewTypeMismatchError creates a new TypeMismatchError
func NewTypeMismatchError(provider, want, got string) error {
	return &TypeMismatchError{Provider: provider, Want: want, Got: got}
}

// NewUnknownTableError creates a new UnknownTableError
func NewUnknownTableError(name string) error {
	return &UnknownTableError{Name: name}
}

// NewIncompatibleSchemasError creates a new IncompatibleSchemasError
func NewIncompatibleSchemasError(missing []string) error {
	return &IncompatibleSchemasError{Missing: missing}
}

// NewTransactionError creates a new TransactionError wrapping the backend cause
func NewTransactionError(op string, err error) error {
	return &TransactionError{Op: op, Err: err}
}

// NewMissingSectionError creates a ConfigError for an absent section
func NewMissingSectionError(section string) error {
	return &ConfigError{Section: section, Message: "section not found; add it to the configuration root"}
}

// NewMissingProviderError creates a ConfigError for a section without a provider key
func NewMissingProviderError(section string) error {
	return &ConfigError{Section: section, Key: "provider", Message: "add a provider value to the section"}
}

// IsProviderNotFound checks if an error is a provider lookup miss
func IsProviderNotFound(err error) bool {
	return errors.Is(err, ErrProviderNotFound)
}

// IsNilDatabase checks if an error reports a nil handle from a provider
func IsNilDatabase(err error) bool {
	return errors.Is(err, ErrNilDatabase)
}

// IsTypeMismatch checks if an error is a handle type mismatch
func IsTypeMismatch(err error) bool {
	return errors.Is(err, ErrTypeMismatch)
}

// IsUnknownTable checks if an error is an unresolved table name
func IsUnknownTable(err error) bool {
	return errors.Is(err, ErrUnknownTable)
}

// IsIncompatibleSchemas checks if an error is a dump precondition failure
func IsIncompatibleSchemas(err error) bool {
	return errors.Is(err, ErrIncompatibleSchemas)
}

// IsTxBegin checks if an error is a transaction begin failure
func IsTxBegin(err error) bool {
	return errors.Is(err, ErrTxBegin)
}

// IsTxCommit checks if an error is a transaction commit failure
func IsTxCommit(err error) bool {
	return errors.Is(err, ErrTxCommit)
}
