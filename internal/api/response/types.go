package response

import (
	"github.com/google/uuid"

	"github.com/minebase/playerstats/internal/model"
)

// Profile is the API representation of a player profile
type Profile struct {
	UUID     uuid.UUID `json:"uuid"`
	Username string    `json:"username,omitempty"`
}

// ProfileFromModel converts a model profile to its API representation
func ProfileFromModel(p *model.PlayerProfile) Profile {
	return Profile{
		UUID:     p.UUID,
		Username: p.Username,
	}
}

// Health is the health check response
type Health struct {
	Status string `json:"status"`
}
