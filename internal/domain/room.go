package domain

import (
	"slices"
	"time"
)

// RoomCode is a 5 digit numeric room identifier.
type RoomCode string

// Room references its members by id only; player records live in the store.
type Room struct {
	Code      RoomCode
	HostID    PlayerID
	CreatedAt time.Time
	Members   []PlayerID
	Messages  []Message
	IsActive  bool
}

func NewRoom(code RoomCode, host PlayerID, now time.Time) *Room {
	return &Room{
		Code:      code,
		HostID:    host,
		CreatedAt: now,
		Members:   []PlayerID{host},
		IsActive:  true,
	}
}

func (r *Room) HasMember(id PlayerID) bool {
	return slices.Contains(r.Members, id)
}

// AddMember appends id unless it is already a member.
func (r *Room) AddMember(id PlayerID) bool {
	if r.HasMember(id) {
		return false
	}
	r.Members = append(r.Members, id)
	return true
}

func (r *Room) RemoveMember(id PlayerID) bool {
	i := slices.Index(r.Members, id)
	if i < 0 {
		return false
	}
	r.Members = slices.Delete(r.Members, i, i+1)
	return true
}

// Append adds m to the log. When limit is positive the oldest entries are
// dropped so that at most limit messages remain.
func (r *Room) Append(m Message, limit int) {
	r.Messages = append(r.Messages, m)
	if limit > 0 && len(r.Messages) > limit {
		r.Messages = slices.Delete(r.Messages, 0, len(r.Messages)-limit)
	}
}
