package domain

import (
	"errors"
	"fmt"
)

// Error categories. Concrete errors below wrap one of them so callers can
// branch with errors.Is.
var (
	ErrInvalidInput = errors.New("invalid input")
	ErrNotFound     = errors.New("not found")
)

var (
	ErrInvalidNickname = fmt.Errorf("%w: invalid nickname", ErrInvalidInput)
	ErrInvalidRoomCode = fmt.Errorf("%w: invalid room code", ErrInvalidInput)
	ErrInvalidMessage  = fmt.Errorf("%w: invalid message", ErrInvalidInput)
	ErrInvalidPlayerID = fmt.Errorf("%w: invalid player id", ErrInvalidInput)

	ErrRoomNotFound   = fmt.Errorf("room %w", ErrNotFound)
	ErrPlayerNotFound = fmt.Errorf("player %w", ErrNotFound)

	ErrNotHost        = errors.New("only the host can close the room")
	ErrRoomsExhausted = errors.New("no free room codes")
)
