package domain

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestValidateNickname(t *testing.T) {
	tests := []struct {
		name     string
		nickname string
		wantErr  bool
	}{
		{"valid", "alice", false},
		{"min length", "bob", false},
		{"max length", strings.Repeat("x", MaxNicknameLen), false},
		{"trimmed to valid", "  carol  ", false},
		{"empty", "", true},
		{"too short", "al", true},
		{"only spaces", "      ", true},
		{"short after trim", "  ab  ", true},
		{"too long", strings.Repeat("x", MaxNicknameLen+1), true},
		{"multibyte counted as runes", "ñañañ", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateNickname(tt.nickname)
			if tt.wantErr {
				require.ErrorIs(t, err, ErrInvalidNickname)
				require.ErrorIs(t, err, ErrInvalidInput)
				return
			}
			require.NoError(t, err)
		})
	}
}

func TestValidateRoomCode(t *testing.T) {
	require.NoError(t, ValidateRoomCode("12345"))
	require.NoError(t, ValidateRoomCode("00000"))

	for _, code := range []string{"", "1234", "123456", "12a45", " 1234", "１２３４５"} {
		require.ErrorIs(t, ValidateRoomCode(code), ErrInvalidRoomCode, "code %q", code)
	}
}

func TestValidateMessage(t *testing.T) {
	require.NoError(t, ValidateMessage("hello"))
	require.NoError(t, ValidateMessage(strings.Repeat("a", MaxMessageLen)))

	require.ErrorIs(t, ValidateMessage(""), ErrInvalidMessage)
	require.ErrorIs(t, ValidateMessage("   \n\t"), ErrInvalidMessage)
	require.ErrorIs(t, ValidateMessage(strings.Repeat("a", MaxMessageLen+1)), ErrInvalidMessage)
}

func TestErrorCategories(t *testing.T) {
	require.True(t, errors.Is(ErrRoomNotFound, ErrNotFound))
	require.True(t, errors.Is(ErrPlayerNotFound, ErrNotFound))
	require.False(t, errors.Is(ErrNotHost, ErrNotFound))
	require.ErrorIs(t, ValidatePlayerID(""), ErrInvalidInput)
}
