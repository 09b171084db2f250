package orch

import (
	"github.com/dkeye/Lobby/internal/app"
	"github.com/dkeye/Lobby/internal/domain"
	"github.com/rs/zerolog/log"
)

// SendChat validates on the trimmed body but stores the message as sent.
func (o *Orchestrator) SendChat(req ChatRequest) Ack {
	o.mu.Lock()
	defer o.mu.Unlock()

	p, ok := o.Store.Player(req.PlayerID)
	if !ok {
		return failAck(domain.ErrPlayerNotFound)
	}
	if _, ok := o.Store.Room(p.RoomCode); !ok {
		return failAck(domain.ErrRoomNotFound)
	}
	if err := domain.ValidateMessage(req.Message); err != nil {
		return failAck(err)
	}

	o.Store.UpdateActivity(p.ID)
	msg, ok := o.Store.AddMessage(p.RoomCode, p.Nickname, req.Message)
	if !ok {
		return failAck(domain.ErrRoomNotFound)
	}
	if cur, ok := o.Store.Player(p.ID); ok {
		msg.IsActive = cur.IsActive
	}

	log.Debug().Str("module", "orch").Str("room", string(p.RoomCode)).Str("player", string(p.ID)).Msg("broadcasting chat message")
	o.Out.ToRoom(p.RoomCode, app.EventChatMessage, msg)
	return okAck(nil)
}

func (o *Orchestrator) Activity(req PlayerRequest) Ack {
	o.mu.Lock()
	defer o.mu.Unlock()

	if !o.Store.UpdateActivity(req.PlayerID) {
		return failAck(domain.ErrPlayerNotFound)
	}
	p, ok := o.Store.Player(req.PlayerID)
	if !ok {
		return failAck(domain.ErrPlayerNotFound)
	}
	if _, ok := o.Store.Room(p.RoomCode); ok {
		o.Out.ToRoom(p.RoomCode, app.EventStatusUpdated, app.StatusUpdated{
			PlayerID:    p.ID,
			IsActive:    p.IsActive,
			PlayersList: o.Store.PlayersList(p.RoomCode),
		})
	}
	return okAck(nil)
}
