/*
 * Copyright © 2026 Suparena Software Inc., All rights reserved.
 */

// Package tabledefs registers the record types the databridge CLI ships
// with. Hosts embedding the library register their own types instead;
// this generic schema exists so the CLI can move data between backends
// without a companion program.
package tabledefs

import (
	"github.com/go-openapi/strfmt"

	"github.com/suparena/databridge/entity"
)

// Record is a general-purpose keyed document.
type Record struct {
	ID        string          `json:"Id" db:"id,pk"`
	Kind      string          `json:"Kind" db:"kind"`
	Body      string          `json:"Body" db:"body"`
	CreatedAt strfmt.DateTime `json:"CreatedAt" db:"created_at"`
}

// Event is an append-only log line.
type Event struct {
	ID      string          `json:"Id" db:"id,pk"`
	Source  string          `json:"Source" db:"source"`
	Message string          `json:"Message" db:"message"`
	At      strfmt.DateTime `json:"At" db:"at"`
}

var (
	Records = entity.Register[Record]("records")
	Events  = entity.Register[Event]("events")
)
