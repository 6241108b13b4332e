package common

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNewError(t *testing.T) {
	cause := fmt.Errorf("disk on fire")
	err := NewError(ErrorCodeIo, cause)

	require.Equal(t, ErrorCodeIo, err.Code)
	require.Equal(t, "disk on fire", err.Message)
	require.Equal(t, "disk on fire", err.Error())
	require.ErrorIs(t, err, cause)

	var coded *CodedError
	require.ErrorAs(t, fmt.Errorf("wrapped: %w", err), &coded)
	require.Equal(t, ErrorCodeIo, coded.Code)
}

func TestNewErrorNilCause(t *testing.T) {
	err := NewError(ErrorCodeInvalidRequest, nil)
	require.Equal(t, "", err.Message)
	require.Nil(t, errors.Unwrap(err))
}

func TestTruncateText(t *testing.T) {
	cases := []struct {
		name       string
		text       string
		length     int
		breakWords bool
		want       string
	}{
		{"short text untouched", "hello", 10, false, "hello"},
		{"exact length untouched", "hello", 5, false, "hello"},
		{"breaks words when asked", "hello world", 8, true, "hello wo..."},
		{"backs up to a boundary", "hello world", 8, false, "hello..."},
		{"zero length", "hello", 0, false, ""},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			require.Equal(t, tc.want, TruncateText(tc.text, tc.length, tc.breakWords))
		})
	}
}

func TestMemberDisplayName(t *testing.T) {
	member := Member{Username: "lrrJUDGE"}
	require.Equal(t, "lrrJUDGE", member.DisplayName())

	member.Nick = "Judge"
	require.Equal(t, "Judge", member.DisplayName())
}
