package signal

import (
	"github.com/dkeye/Lobby/internal/app/orch"
	"github.com/rs/zerolog/log"
)

func (ctl *SignalWSController) handleCreate(conn *WsSignalConn, env inbound) {
	var p orch.CreateRequest
	if !ctl.decode(conn, env, &p) {
		return
	}
	p.PlayerID = conn.playerID(p.PlayerID)
	log.Info().Str("module", "signal").Str("player", string(p.PlayerID)).Str("nickname", p.Nickname).Msg("room:create")
	ctl.reply(conn, env, ctl.Orch.CreateRoom(conn.id, p))
}

func (ctl *SignalWSController) handleJoin(conn *WsSignalConn, env inbound) {
	var p orch.JoinRequest
	if !ctl.decode(conn, env, &p) {
		return
	}
	p.PlayerID = conn.playerID(p.PlayerID)
	log.Info().Str("module", "signal").Str("player", string(p.PlayerID)).Str("room", p.RoomCode).Msg("room:join")
	ctl.reply(conn, env, ctl.Orch.JoinRoom(conn.id, p))
}

// handleLeave leaves the current room; the connection stays open.
func (ctl *SignalWSController) handleLeave(conn *WsSignalConn, env inbound) {
	var p orch.PlayerRequest
	if !ctl.decode(conn, env, &p) {
		return
	}
	p.PlayerID = conn.playerID(p.PlayerID)
	log.Info().Str("module", "signal").Str("player", string(p.PlayerID)).Msg("room:leave")
	ctl.reply(conn, env, ctl.Orch.LeaveRoom(p))
}

func (ctl *SignalWSController) handleClose(conn *WsSignalConn, env inbound) {
	var p orch.PlayerRequest
	if !ctl.decode(conn, env, &p) {
		return
	}
	p.PlayerID = conn.playerID(p.PlayerID)
	log.Info().Str("module", "signal").Str("player", string(p.PlayerID)).Msg("room:close")
	ctl.reply(conn, env, ctl.Orch.CloseRoom(p))
}

func (ctl *SignalWSController) handleList(conn *WsSignalConn, env inbound) {
	ctl.reply(conn, env, ctl.Orch.ListRooms())
}
