package app

import (
	"github.com/dkeye/Lobby/internal/core"
	"github.com/dkeye/Lobby/internal/domain"
)

// Inbound events.
const (
	EventRoomCreate     = "room:create"
	EventRoomJoin       = "room:join"
	EventRoomLeave      = "room:leave"
	EventRoomClose      = "room:close"
	EventRoomsList      = "rooms:list"
	EventChatSend       = "chat:send"
	EventPlayerActivity = "player:activity"
	EventPing           = "ping"
)

// Outbound events.
const (
	EventAck           = "ack"
	EventPong          = "pong"
	EventPlayerJoined  = "room:playerJoined"
	EventPlayerLeft    = "room:playerLeft"
	EventRoomClosed    = "room:closed"
	EventChatMessage   = "chat:message"
	EventStatusUpdated = "player:statusUpdated"
	EventRoomUpdated   = "room:updated"
)

// Reasons carried by room:closed.
const (
	ReasonHostDisconnected = "host_disconnected"
	ReasonHostClosed       = "host_closed"
)

// Envelope is every server to client frame.
type Envelope struct {
	Type string `json:"type"`
	Data any    `json:"data,omitempty"`
}

type RoomUpdated struct {
	RoomCode    domain.RoomCode   `json:"roomCode"`
	PlayersList []core.PlayerView `json:"playersList"`
	Messages    []domain.Message  `json:"messages"`
}

type PlayerJoined struct {
	PlayerID    domain.PlayerID   `json:"playerId"`
	Nickname    string            `json:"nickname"`
	PlayersList []core.PlayerView `json:"playersList"`
}

type PlayerLeft struct {
	PlayerID    domain.PlayerID   `json:"playerId"`
	PlayersList []core.PlayerView `json:"playersList"`
}

type RoomClosed struct {
	Reason string `json:"reason"`
}

type StatusUpdated struct {
	PlayerID    domain.PlayerID   `json:"playerId"`
	IsActive    bool              `json:"isActive"`
	PlayersList []core.PlayerView `json:"playersList"`
}
