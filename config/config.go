/*
 * Copyright © 2026 Suparena Software Inc., All rights reserved.
 */

package config

import (
	"fmt"
	"os"
	"sort"

	"gopkg.in/yaml.v3"

	"github.com/suparena/databridge/errors"
)

// DefaultSection is the section name used by default resolution.
const DefaultSection = "database"

// Connection is the typed connection configuration handed to providers.
// Scanner keys select the table set; the remaining fields are read only by
// the backends they apply to. A nil *Connection is valid and means
// "no configuration", which schema-less backends accept.
type Connection struct {
	// Table set selection
	Autoscan bool     `yaml:"autoscan"`
	Package  string   `yaml:"package"`
	Tables   []string `yaml:"tables"`

	// Embedded file backends
	File string `yaml:"file"`

	// Networked relational backends
	DSN      string `yaml:"dsn"`
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	Database string `yaml:"database"`

	// Key-value backends
	Addr string `yaml:"addr"`
	DB   int    `yaml:"db"`

	// DynamoDB
	Table    string `yaml:"table"`
	Region   string `yaml:"region"`
	Endpoint string `yaml:"endpoint"`

	// Backend-specific pass-through keys
	Params map[string]string `yaml:"params"`
}

// Param returns a pass-through parameter value, or the fallback when unset.
func (c *Connection) Param(key, fallback string) string {
	if c == nil || c.Params == nil {
		return fallback
	}
	if v, ok := c.Params[key]; ok {
		return v
	}
	return fallback
}

// Section pairs a provider name with its connection configuration.
type Section struct {
	Provider   string      `yaml:"provider"`
	Connection *Connection `yaml:"connection"`
}

// Root is a parsed configuration root: a set of named sections, each
// selecting a provider and an optional connection.
type Root struct {
	sections map[string]*Section
}

// Parse decodes a YAML configuration root.
func Parse(data []byte) (*Root, error) {
	sections := make(map[string]*Section)
	if err := yaml.Unmarshal(data, &sections); err != nil {
		return nil, fmt.Errorf("config: parsing root: %w", err)
	}
	return &Root{sections: sections}, nil
}

// Load reads and parses a YAML configuration root from a file.
func Load(path string) (*Root, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: reading %s: %w", path, err)
	}
	return Parse(data)
}

// NewRoot builds a configuration root in code, for hosts that do not load
// YAML.
func NewRoot(sections map[string]*Section) *Root {
	copied := make(map[string]*Section, len(sections))
	for name, s := range sections {
		copied[name] = s
	}
	return &Root{sections: copied}
}

// Section returns the named section, or ErrMissingSection when the root does
// not contain it.
func (r *Root) Section(name string) (*Section, error) {
	if r == nil {
		return nil, errors.NewMissingSectionError(name)
	}
	s, ok := r.sections[name]
	if !ok || s == nil {
		return nil, errors.NewMissingSectionError(name)
	}
	return s, nil
}

// SectionNames returns the configured section names, sorted.
func (r *Root) SectionNames() []string {
	if r == nil {
		return nil
	}
	names := make([]string, 0, len(r.sections))
	for name := range r.sections {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
