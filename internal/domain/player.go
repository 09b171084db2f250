// Package domain contains entities without logic, just meta-data
package domain

import "time"

type (
	PlayerID     string
	ConnectionID string
)

// Player is a lobby participant. RoomCode is empty while the player is not
// in a room.
type Player struct {
	ID               PlayerID     `json:"id"`
	Nickname         string       `json:"nickname"`
	RoomCode         RoomCode     `json:"roomCode,omitempty"`
	ConnectionID     ConnectionID `json:"-"`
	IsActive         bool         `json:"isActive"`
	LastActivityTime time.Time    `json:"lastActivityTime"`
}

// NewPlayer avoids ad-hoc struct literals in the store.
func NewPlayer(id PlayerID, nickname string, code RoomCode, now time.Time) *Player {
	return &Player{
		ID:               id,
		Nickname:         nickname,
		RoomCode:         code,
		IsActive:         true,
		LastActivityTime: now,
	}
}

// Touch marks the player active at now.
func (p *Player) Touch(now time.Time) {
	p.IsActive = true
	p.LastActivityTime = now
}
