// Package orch sequences store operations and outbound broadcasts for every
// inbound client event. It holds no state of its own.
package orch

import (
	"strings"
	"sync"

	"github.com/dkeye/Lobby/internal/app"
	"github.com/dkeye/Lobby/internal/core"
	"github.com/dkeye/Lobby/internal/domain"
	"github.com/rs/zerolog/log"
)

// Orchestrator runs each inbound event to completion: the store mutation and
// the fan-out it causes happen under mu, so no other event interleaves.
type Orchestrator struct {
	Store    *core.Store
	Registry *app.Registry
	Out      *app.Broadcaster

	mu sync.Mutex
}

func New(store *core.Store, reg *app.Registry, policy app.Policy) *Orchestrator {
	return &Orchestrator{
		Store:    store,
		Registry: reg,
		Out:      &app.Broadcaster{Store: store, Registry: reg, Policy: policy},
	}
}

// Ack answers exactly one inbound event.
type Ack struct {
	Success bool   `json:"success"`
	Error   string `json:"error,omitempty"`
	Data    any    `json:"data,omitempty"`
}

func okAck(data any) Ack { return Ack{Success: true, Data: data} }

func failAck(err error) Ack { return Ack{Error: err.Error()} }

type CreateRequest struct {
	PlayerID domain.PlayerID `json:"playerId"`
	Nickname string          `json:"nickname"`
}

type JoinRequest struct {
	PlayerID domain.PlayerID `json:"playerId"`
	Nickname string          `json:"nickname"`
	RoomCode string          `json:"roomCode"`
}

type PlayerRequest struct {
	PlayerID domain.PlayerID `json:"playerId"`
}

type ChatRequest struct {
	PlayerID domain.PlayerID `json:"playerId"`
	Message  string          `json:"message"`
}

// RoomJoined is the ack payload of room:create and room:join.
type RoomJoined struct {
	RoomCode    domain.RoomCode   `json:"roomCode"`
	PlayerID    domain.PlayerID   `json:"playerId"`
	Nickname    string            `json:"nickname"`
	PlayersList []core.PlayerView `json:"playersList"`
	Messages    []domain.Message  `json:"messages"`
	HostID      domain.PlayerID   `json:"hostId"`
}

type RoomsList struct {
	Rooms []core.RoomInfo `json:"rooms"`
}

// Guard is held by other writers of client frames (the reconciler) so their
// output never interleaves with an event in progress.
func (o *Orchestrator) Guard() sync.Locker {
	return &o.mu
}

// Disconnect runs the leave flow for whichever player the connection is
// still bound to, then forgets the player and the connection.
func (o *Orchestrator) Disconnect(conn domain.ConnectionID) {
	o.mu.Lock()
	defer o.mu.Unlock()

	if res, ok := o.Store.DisconnectConnection(conn); ok {
		log.Info().Str("module", "orch").Str("conn", string(conn)).Str("player", string(res.PlayerID)).Msg("player disconnected")
		o.announceLeave(res)
	}
	o.Registry.Unbind(conn)
}

func cleanNickname(s string) (string, error) {
	if err := domain.ValidateNickname(s); err != nil {
		return "", err
	}
	return strings.TrimSpace(s), nil
}
