package orch

import (
	"github.com/dkeye/Lobby/internal/app"
	"github.com/dkeye/Lobby/internal/core"
	"github.com/dkeye/Lobby/internal/domain"
	"github.com/rs/zerolog/log"
)

func (o *Orchestrator) CreateRoom(conn domain.ConnectionID, req CreateRequest) Ack {
	if err := domain.ValidatePlayerID(string(req.PlayerID)); err != nil {
		return failAck(err)
	}
	nickname, err := cleanNickname(req.Nickname)
	if err != nil {
		return failAck(err)
	}

	o.mu.Lock()
	defer o.mu.Unlock()

	res, err := o.Store.HostRoom(req.PlayerID, nickname, conn)
	if err != nil {
		log.Error().Err(err).Str("module", "orch").Str("player", string(req.PlayerID)).Msg("create room")
		return failAck(err)
	}
	o.announceLeave(res.Detached)

	log.Info().Str("module", "orch").Str("room", string(res.Room.Code)).Str("nickname", nickname).Msg("room created")
	return okAck(roomJoined(req.PlayerID, nickname, res.Room))
}

func (o *Orchestrator) JoinRoom(conn domain.ConnectionID, req JoinRequest) Ack {
	if err := domain.ValidatePlayerID(string(req.PlayerID)); err != nil {
		return failAck(err)
	}
	if err := domain.ValidateRoomCode(req.RoomCode); err != nil {
		return failAck(err)
	}
	nickname, err := cleanNickname(req.Nickname)
	if err != nil {
		return failAck(err)
	}
	code := domain.RoomCode(req.RoomCode)

	o.mu.Lock()
	defer o.mu.Unlock()

	res, err := o.Store.EnterRoom(req.PlayerID, nickname, code, conn)
	if err != nil {
		log.Warn().Err(err).Str("module", "orch").Str("room", req.RoomCode).Msg("join room")
		return failAck(err)
	}
	o.announceLeave(res.Detached)

	log.Info().Str("module", "orch").Str("room", string(code)).Str("nickname", nickname).Msg("player joined")
	o.Out.ToRoom(code, app.EventPlayerJoined, app.PlayerJoined{
		PlayerID:    req.PlayerID,
		Nickname:    nickname,
		PlayersList: res.Room.Players,
	})
	return okAck(roomJoined(req.PlayerID, nickname, res.Room))
}

func (o *Orchestrator) LeaveRoom(req PlayerRequest) Ack {
	o.mu.Lock()
	defer o.mu.Unlock()

	if _, ok := o.Store.Player(req.PlayerID); !ok {
		log.Warn().Str("module", "orch").Str("player", string(req.PlayerID)).Msg("leave: player not found")
		return failAck(domain.ErrPlayerNotFound)
	}
	o.announceLeave(o.Store.LeaveRoom(req.PlayerID))
	return okAck(nil)
}

// CloseRoom lets the host end its room for everyone.
func (o *Orchestrator) CloseRoom(req PlayerRequest) Ack {
	o.mu.Lock()
	defer o.mu.Unlock()

	p, ok := o.Store.Player(req.PlayerID)
	if !ok {
		return failAck(domain.ErrPlayerNotFound)
	}
	room, ok := o.Store.Room(p.RoomCode)
	if !ok {
		return failAck(domain.ErrRoomNotFound)
	}
	if room.HostID != p.ID {
		return failAck(domain.ErrNotHost)
	}

	members, closed := o.Store.CloseRoom(room.Code)
	if closed {
		log.Info().Str("module", "orch").Str("room", string(room.Code)).Msg("room closed by host")
		o.Out.ToPlayers(members, app.EventRoomClosed, app.RoomClosed{Reason: app.ReasonHostClosed})
	}
	return okAck(nil)
}

func (o *Orchestrator) ListRooms() Ack {
	return okAck(RoomsList{Rooms: o.Store.AvailableRooms()})
}

func roomJoined(id domain.PlayerID, nickname string, room core.RoomSnapshot) RoomJoined {
	return RoomJoined{
		RoomCode:    room.Code,
		PlayerID:    id,
		Nickname:    nickname,
		PlayersList: room.Players,
		Messages:    room.Messages,
		HostID:      room.HostID,
	}
}

// announceLeave tells the room about a departure. Caller holds o.mu.
func (o *Orchestrator) announceLeave(res core.LeaveResult) {
	if !res.Left {
		return
	}
	if res.Closed {
		if res.WasHost {
			log.Info().Str("module", "orch").Str("room", string(res.RoomCode)).Str("nickname", res.Nickname).Msg("host left, room closed")
			o.Out.ToPlayers(res.Remaining, app.EventRoomClosed, app.RoomClosed{Reason: app.ReasonHostDisconnected})
		}
		return
	}
	log.Info().Str("module", "orch").Str("room", string(res.RoomCode)).Str("nickname", res.Nickname).Msg("player left")
	o.Out.ToRoom(res.RoomCode, app.EventPlayerLeft, app.PlayerLeft{
		PlayerID:    res.PlayerID,
		PlayersList: res.Players,
	})
}
