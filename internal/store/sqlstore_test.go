package store

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"codewords/internal/room"
	"codewords/internal/shared"
)

func openTestSQLite(t *testing.T) *SQLiteStore {
	t.Helper()
	s, err := OpenSQLite(filepath.Join(t.TempDir(), "rooms.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func TestSQLiteStore_CreateAndGet(t *testing.T) {
	s := openTestSQLite(t)
	require.NoError(t, s.CreateRoom(testRoom("ABC12")))

	r, ok := s.GetRoom("ABC12")
	require.True(t, ok)
	assert.Equal(t, "ABC12", r.Code)
	assert.Equal(t, shared.StateWaiting, r.GameState)
	require.Len(t, r.Players, 1)
	assert.Equal(t, "alice", r.Players[0].Username)

	_, ok = s.GetRoom("XXXXX")
	assert.False(t, ok)
}

func TestSQLiteStore_CreateDuplicate(t *testing.T) {
	s := openTestSQLite(t)
	require.NoError(t, s.CreateRoom(testRoom("ABC12")))
	assert.ErrorIs(t, s.CreateRoom(testRoom("ABC12")), room.ErrRoomExists)
}

func TestSQLiteStore_ApplyMutation(t *testing.T) {
	s := openTestSQLite(t)
	require.NoError(t, s.CreateRoom(testRoom("ABC12")))

	updated, err := s.ApplyMutation("ABC12", func(r *shared.Room) error {
		r.GameState = shared.StateActive
		r.CurrentTurnTeam = shared.TeamRed
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, shared.StateActive, updated.GameState)

	stored, ok := s.GetRoom("ABC12")
	require.True(t, ok)
	assert.Equal(t, shared.StateActive, stored.GameState)
	assert.Equal(t, shared.TeamRed, stored.CurrentTurnTeam)
}

func TestSQLiteStore_ApplyMutation_NotFound(t *testing.T) {
	s := openTestSQLite(t)
	_, err := s.ApplyMutation("XXXXX", func(r *shared.Room) error { return nil })
	assert.ErrorIs(t, err, room.ErrRoomNotFound)
}

func TestSQLiteStore_FailedMutationRollsBack(t *testing.T) {
	s := openTestSQLite(t)
	require.NoError(t, s.CreateRoom(testRoom("ABC12")))

	_, err := s.ApplyMutation("ABC12", func(r *shared.Room) error {
		r.RedScore = 99
		return room.ErrInvalidState
	})
	assert.ErrorIs(t, err, room.ErrInvalidState)

	stored, ok := s.GetRoom("ABC12")
	require.True(t, ok)
	assert.Equal(t, 0, stored.RedScore)
}

func TestSQLiteStore_DeleteIdempotent(t *testing.T) {
	s := openTestSQLite(t)
	require.NoError(t, s.CreateRoom(testRoom("ABC12")))
	require.NoError(t, s.DeleteRoom("ABC12"))
	require.NoError(t, s.DeleteRoom("ABC12"))

	_, ok := s.GetRoom("ABC12")
	assert.False(t, ok)
}
