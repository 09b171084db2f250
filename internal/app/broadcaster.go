package app

import (
	"encoding/json"

	"github.com/dkeye/Lobby/internal/core"
	"github.com/dkeye/Lobby/internal/domain"
	"github.com/rs/zerolog/log"
)

// PublishResult reports delivery stats of one fan-out.
type PublishResult struct {
	SentTo  int
	Dropped []domain.ConnectionID
}

// Broadcaster fans encoded envelopes out to connections. Delivery is best
// effort: it never waits for a slow client.
type Broadcaster struct {
	Store    *core.Store
	Registry *Registry
	Policy   Policy
}

func Encode(event string, data any) (core.Frame, error) {
	return json.Marshal(Envelope{Type: event, Data: data})
}

// ToRoom sends to every current member of the room.
func (b *Broadcaster) ToRoom(code domain.RoomCode, event string, data any) PublishResult {
	return b.ToConnections(b.Store.RoomConnections(code), event, data)
}

// ToPlayers sends to the given players, typically members of a room that no
// longer exists.
func (b *Broadcaster) ToPlayers(ids []domain.PlayerID, event string, data any) PublishResult {
	return b.ToConnections(b.Store.Connections(ids), event, data)
}

func (b *Broadcaster) ToConnections(ids []domain.ConnectionID, event string, data any) PublishResult {
	res := PublishResult{}
	if len(ids) == 0 {
		return res
	}
	frame, err := Encode(event, data)
	if err != nil {
		log.Error().Err(err).Str("module", "app.broadcast").Str("event", event).Msg("encode")
		return res
	}
	for _, id := range ids {
		if b.deliver(id, frame) {
			res.SentTo++
			continue
		}
		res.Dropped = append(res.Dropped, id)
	}
	log.Debug().Str("module", "app.broadcast").Str("event", event).Int("sent_to", res.SentTo).Int("dropped", len(res.Dropped)).Msg("broadcast result")
	return res
}

// Send delivers one envelope to one connection.
func (b *Broadcaster) Send(id domain.ConnectionID, event string, data any) bool {
	frame, err := Encode(event, data)
	if err != nil {
		log.Error().Err(err).Str("module", "app.broadcast").Str("event", event).Msg("encode")
		return false
	}
	return b.deliver(id, frame)
}

func (b *Broadcaster) deliver(id domain.ConnectionID, frame core.Frame) bool {
	conn, ok := b.Registry.Get(id)
	if !ok {
		return false
	}
	err := conn.TrySend(frame)
	if err == nil {
		return true
	}
	log.Warn().Err(err).Str("module", "app.broadcast").Str("conn", string(id)).Msg("send failed")
	if b.Policy == nil {
		return false
	}
	switch b.Policy.OnBackPressure(id) {
	case CloseConnection:
		b.Registry.Cancel(id)
	case DropFrame, NoAction:
	}
	return false
}
