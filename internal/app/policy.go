package app

import (
	"fmt"

	"github.com/dkeye/Lobby/internal/domain"
)

type BackpressureAction int

const (
	NoAction BackpressureAction = iota
	DropFrame
	CloseConnection
)

// Policy decides what happens to a connection whose outbound queue is full.
type Policy interface {
	OnBackPressure(conn domain.ConnectionID) BackpressureAction
}

// DropPolicy loses the frame and keeps the connection. The next reconciler
// tick resends full room state anyway.
type DropPolicy struct{}

func (DropPolicy) OnBackPressure(domain.ConnectionID) BackpressureAction {
	return DropFrame
}

// KickPolicy disconnects slow clients.
type KickPolicy struct{}

func (KickPolicy) OnBackPressure(domain.ConnectionID) BackpressureAction {
	return CloseConnection
}

func PolicyByName(name string) (Policy, error) {
	switch name {
	case "", "drop":
		return DropPolicy{}, nil
	case "kick":
		return KickPolicy{}, nil
	default:
		return nil, fmt.Errorf("unknown slow client policy %q", name)
	}
}
