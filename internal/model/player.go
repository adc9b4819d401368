package model

import "github.com/google/uuid"

// PlayerProfile maps a player's UUID to their last known username.
// A profile is created the first time a player is named in a PUT or
// appears in an uploaded stats bundle.
type PlayerProfile struct {
	UUID     uuid.UUID `json:"uuid"`
	Username string    `json:"username,omitempty"`
}
