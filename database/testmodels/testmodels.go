// Package testmodels holds record types shared by tests across packages.
// They are registered from init so importing the package is enough to make
// the tables available to autoscan.
package testmodels

import (
	"github.com/go-openapi/strfmt"

	"github.com/suparena/databridge/entity"
)

type Player struct {

	// Unique identifier for the player.
	// Required: true
	ID string `json:"Id" db:"id,pk"`

	// Display name of the player.
	// Required: true
	Name string `json:"Name" db:"name"`

	// Current rating points.
	Rating int `json:"Rating" db:"rating"`

	// Timestamp when the player record was created.
	// Format: date-time
	CreatedAt strfmt.DateTime `json:"CreatedAt" db:"created_at"`
}

type MatchLog struct {

	// Unique identifier for the match.
	// Required: true
	ID string `json:"Id" db:"id,pk"`

	// Identifier of the first player.
	PlayerA string `json:"PlayerA" db:"player_a"`

	// Identifier of the second player.
	PlayerB string `json:"PlayerB" db:"player_b"`

	// Final score, formatted as "3-1".
	Score string `json:"Score" db:"score"`

	// Timestamp when the match finished.
	// Format: date-time
	PlayedAt strfmt.DateTime `json:"PlayedAt" db:"played_at"`
}

var (
	Players   = entity.Register[Player]("players")
	MatchLogs = entity.Register[MatchLog]("match_logs")
)
