package signal

import (
	"encoding/json"

	"github.com/dkeye/Lobby/internal/app"
	"github.com/dkeye/Lobby/internal/app/orch"
	"github.com/dkeye/Lobby/internal/domain"
	"github.com/rs/zerolog/log"
)

type ackFrame struct {
	Type  string `json:"type"`
	AckID string `json:"ack,omitempty"`
	Event string `json:"event"`
	orch.Ack
}

func (ctl *SignalWSController) handlePing(conn *WsSignalConn) {
	ctl.sendJSON(conn, app.Envelope{Type: app.EventPong})
}

func (ctl *SignalWSController) reply(conn *WsSignalConn, env inbound, ack orch.Ack) {
	if !ack.Success {
		log.Debug().Str("module", "signal").Str("event", env.Type).Str("error", ack.Error).Msg("event rejected")
	}
	ctl.sendJSON(conn, ackFrame{Type: app.EventAck, AckID: env.Ack, Event: env.Type, Ack: ack})
}

// decode fills v from the envelope data; a missing body leaves v zero.
func (ctl *SignalWSController) decode(conn *WsSignalConn, env inbound, v any) bool {
	if len(env.Data) == 0 {
		return true
	}
	if err := json.Unmarshal(env.Data, v); err != nil {
		log.Error().Err(err).Str("module", "signal").Str("event", env.Type).Msg("bad payload")
		ctl.reply(conn, env, orch.Ack{Error: "bad_payload"})
		return false
	}
	return true
}

// playerID falls back to the client's session token.
func (c *WsSignalConn) playerID(id domain.PlayerID) domain.PlayerID {
	if id != "" {
		return id
	}
	return c.clientToken
}
