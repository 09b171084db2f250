package signal

import "github.com/dkeye/Lobby/internal/app/orch"

func (ctl *SignalWSController) handleChat(conn *WsSignalConn, env inbound) {
	var p orch.ChatRequest
	if !ctl.decode(conn, env, &p) {
		return
	}
	p.PlayerID = conn.playerID(p.PlayerID)
	ctl.reply(conn, env, ctl.Orch.SendChat(p))
}

func (ctl *SignalWSController) handleActivity(conn *WsSignalConn, env inbound) {
	var p orch.PlayerRequest
	if !ctl.decode(conn, env, &p) {
		return
	}
	p.PlayerID = conn.playerID(p.PlayerID)
	ctl.reply(conn, env, ctl.Orch.Activity(p))
}
