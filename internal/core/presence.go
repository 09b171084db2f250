package core

import (
	"time"

	"github.com/dkeye/Lobby/internal/domain"
	"github.com/rs/zerolog/log"
)

// activityTimer is the pending inactivity countdown of one player. The store
// owns it through s.timers; a callback whose entry is no longer the current
// one for its player does nothing.
type activityTimer struct {
	t *time.Timer
}

// UpdateActivity marks the player active and restarts its inactivity
// countdown. Only the deadline of the latest call counts.
func (s *Store) UpdateActivity(playerID domain.PlayerID) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.players[playerID]; !ok {
		return false
	}
	s.armLocked(playerID)
	return true
}

// Shutdown cancels every pending countdown.
func (s *Store) Shutdown() {
	s.mu.Lock()
	defer s.mu.Unlock()

	for id := range s.timers {
		s.cancelLocked(id)
	}
	log.Info().Str("module", "core.presence").Msg("activity timers stopped")
}

// PendingTimers reports how many countdowns are armed.
func (s *Store) PendingTimers() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.timers)
}

func (s *Store) armLocked(id domain.PlayerID) {
	p, ok := s.players[id]
	if !ok {
		return
	}
	p.Touch(s.now())

	s.cancelLocked(id)
	entry := &activityTimer{}
	// The callback blocks on mu until the caller releases it, so entry.t is
	// always set before expire reads the map.
	entry.t = time.AfterFunc(s.timeout, func() { s.expire(id, entry) })
	s.timers[id] = entry
}

func (s *Store) cancelLocked(id domain.PlayerID) {
	if entry, ok := s.timers[id]; ok {
		entry.t.Stop()
		delete(s.timers, id)
	}
}

func (s *Store) expire(id domain.PlayerID, entry *activityTimer) {
	defer func() {
		if r := recover(); r != nil {
			log.Error().Str("module", "core.presence").Str("player", string(id)).Interface("panic", r).Msg("activity timer recovered")
		}
	}()

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.timers[id] != entry {
		return
	}
	delete(s.timers, id)
	if p, ok := s.players[id]; ok {
		p.IsActive = false
		log.Debug().Str("module", "core.presence").Str("player", string(id)).Msg("player inactive")
	}
}
