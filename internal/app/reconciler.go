package app

import (
	"context"
	"sync"
	"time"

	"github.com/dkeye/Lobby/internal/core"
	"github.com/rs/zerolog/log"
)

const DefaultSyncInterval = 5 * time.Second

// Reconciler periodically resends the full state of every occupied room to
// its members so that clients which missed an incremental event converge.
type Reconciler struct {
	Store    *core.Store
	Out      *Broadcaster
	Interval time.Duration
	// Guard, when set, is held for a whole tick.
	Guard sync.Locker

	logged bool
}

// Run ticks until ctx is done.
func (r *Reconciler) Run(ctx context.Context) {
	interval := r.Interval
	if interval <= 0 {
		interval = DefaultSyncInterval
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	log.Info().Str("module", "app.reconciler").Dur("interval", interval).Msg("room sync started")
	for {
		select {
		case <-ctx.Done():
			log.Info().Str("module", "app.reconciler").Msg("room sync stopped")
			return
		case <-ticker.C:
			r.Tick()
		}
	}
}

// Tick broadcasts room:updated to every room with at least one listed
// player and returns how many rooms were synced.
func (r *Reconciler) Tick() (synced int) {
	defer func() {
		if rec := recover(); rec != nil {
			log.Error().Str("module", "app.reconciler").Interface("panic", rec).Msg("room sync tick recovered")
		}
	}()
	if r.Guard != nil {
		r.Guard.Lock()
		defer r.Guard.Unlock()
	}

	for _, snap := range r.Store.Snapshots() {
		r.Out.ToRoom(snap.Code, EventRoomUpdated, RoomUpdated{
			RoomCode:    snap.Code,
			PlayersList: snap.Players,
			Messages:    snap.Messages,
		})
		synced++
	}
	if synced > 0 && !r.logged {
		log.Info().Str("module", "app.reconciler").Int("rooms", synced).Msg("room:updated emit loop")
		r.logged = true
	}
	return synced
}
