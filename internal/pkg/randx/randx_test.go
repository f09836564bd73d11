package randx

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRoomIDFormat(t *testing.T) {
	id, err := RoomID()
	require.NoError(t, err)

	assert.Len(t, id, RoomIDLength)
	assert.True(t, IsValidRoomID(id))
}

func TestRoomIDsAreUnique(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		id, err := RoomID()
		require.NoError(t, err)
		assert.False(t, seen[id], "duplicate room ID %q", id)
		seen[id] = true
	}
}

func TestIsValidRoomID(t *testing.T) {
	assert.True(t, IsValidRoomID("Abc123"))
	assert.False(t, IsValidRoomID("short"))
	assert.False(t, IsValidRoomID("toolong1"))
	assert.False(t, IsValidRoomID("bad-id"))
	assert.False(t, IsValidRoomID(""))
}

func TestSessionKeysAreUnique(t *testing.T) {
	assert.NotEqual(t, SessionKey(), SessionKey())
}

func TestNicknameFallback(t *testing.T) {
	name := Nickname()
	assert.True(t, strings.HasPrefix(name, "painter-"))
	assert.Len(t, name, len("painter-")+4)
}
