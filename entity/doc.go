/*
Package entity maintains the registry of persisted record types and the
table descriptors database handles are scoped to.

A record type is an exported struct whose fields map to columns. Types are
registered once, usually from an init function, under a stable table name:

	type Player struct {
	    ID     string          `db:"id,pk"`
	    Name   string          `db:"name"`
	    Rating int             `db:"rating"`
	    Joined strfmt.DateTime `db:"joined"`
	}

	func init() {
	    entity.Register[Player]("players")
	}

Column names default to the snake_case field name; a `db` tag overrides the
name, `db:"-"` skips the field, and the ",pk" option marks the primary key
column required by key-addressed backends.

Table sets are resolved from connection configuration by the scanner:

	// every registered type under a package prefix, in registration order
	tables, _ := entity.Scan(true, "github.com/acme/app/models", nil)

	// an explicit list; unknown names are fatal
	tables, err := entity.Scan(false, "", []string{"players", "match_logs"})

Descriptors carry the construct/destructure capabilities backends use to move
records in and out of storage: New, Values, ScanTargets/Scan and KeyString.

The registry is thread-safe and should be populated during initialization,
typically in init() functions.
*/
package entity
