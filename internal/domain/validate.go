package domain

import (
	"strings"
	"unicode/utf8"
)

const (
	MinNicknameLen = 3
	MaxNicknameLen = 20
	MaxMessageLen  = 500
	RoomCodeLen    = 5
	MaxPlayerIDLen = 64
)

func ValidateNickname(nickname string) error {
	n := utf8.RuneCountInString(strings.TrimSpace(nickname))
	if n < MinNicknameLen || n > MaxNicknameLen {
		return ErrInvalidNickname
	}
	return nil
}

func ValidateRoomCode(code string) error {
	if len(code) != RoomCodeLen {
		return ErrInvalidRoomCode
	}
	for i := 0; i < len(code); i++ {
		if code[i] < '0' || code[i] > '9' {
			return ErrInvalidRoomCode
		}
	}
	return nil
}

func ValidateMessage(body string) error {
	n := utf8.RuneCountInString(strings.TrimSpace(body))
	if n == 0 || n > MaxMessageLen {
		return ErrInvalidMessage
	}
	return nil
}

func ValidatePlayerID(id string) error {
	if id == "" || len(id) > MaxPlayerIDLen {
		return ErrInvalidPlayerID
	}
	return nil
}
