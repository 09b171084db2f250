package core

import "github.com/dkeye/Lobby/internal/domain"

// Frame is a raw encoded payload ready for the wire.
type Frame []byte

// SignalConnection abstracts the client messaging transport.
// Owned by the adapter; the adapter must Close() it.
type SignalConnection interface {
	TrySend(Frame) error
	Close()
}

// PlayerView is a read-only view of a player for room listings.
type PlayerView struct {
	ID               domain.PlayerID `json:"id"`
	Nickname         string          `json:"nickname"`
	IsActive         bool            `json:"isActive"`
	LastActivityTime int64           `json:"lastActivityTime"`
}

// RoomInfo is the lobby listing entry of a room.
type RoomInfo struct {
	Code        domain.RoomCode `json:"code"`
	MemberCount int             `json:"memberCount"`
	HostID      domain.PlayerID `json:"hostId"`
	CreatedAt   int64           `json:"createdAt"`
}

// RoomSnapshot is a copy of a room's state; mutating it never touches the
// store.
type RoomSnapshot struct {
	Code     domain.RoomCode  `json:"roomCode"`
	HostID   domain.PlayerID  `json:"hostId"`
	Players  []PlayerView     `json:"playersList"`
	Messages []domain.Message `json:"messages"`
}

// LeaveResult describes what LeaveRoom did. Left is false when the call was a
// no-op because the player or its room was unknown.
type LeaveResult struct {
	Left      bool
	PlayerID  domain.PlayerID
	Nickname  string
	RoomCode  domain.RoomCode
	WasHost   bool
	Closed    bool
	Remaining []domain.PlayerID
	// Players is the room's list right after the departure; empty when the
	// room was closed.
	Players []PlayerView
}

// EnterResult is the outcome of HostRoom and EnterRoom: the room the player
// is now in and the room it had to leave on the way, if any.
type EnterResult struct {
	Room     RoomSnapshot
	Added    bool
	Detached LeaveResult
}
