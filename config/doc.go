/*
Package config defines the typed configuration consumed by provider
resolution.

A configuration root is a YAML document of named sections. Each section
selects a provider and optionally carries a connection block:

	database:
	  provider: sqlite
	  connection:
	    autoscan: true
	    package: github.com/acme/app/models
	    file: data/app.db

	archive:
	  provider: map

The connection block is a single typed struct with optional fields per
backend rather than an open key-value map; unknown backend-specific knobs
travel in the params map. An absent connection block is valid for backends
that need no schema or credentials.
*/
package config
