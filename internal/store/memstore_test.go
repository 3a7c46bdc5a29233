package store

import (
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"codewords/internal/room"
	"codewords/internal/shared"
)

func testRoom(code string) *shared.Room {
	return &shared.Room{
		Code:      code,
		GameState: shared.StateWaiting,
		Players: []shared.Player{
			{Username: "alice", Role: shared.RoleSpymaster, Team: shared.TeamRed},
		},
	}
}

func TestMemoryStore_CreateAndGet(t *testing.T) {
	m := NewMemoryStore()
	require.NoError(t, m.CreateRoom(testRoom("ABC12")))

	r, ok := m.GetRoom("ABC12")
	require.True(t, ok)
	assert.Equal(t, "ABC12", r.Code)

	_, ok = m.GetRoom("XXXXX")
	assert.False(t, ok)
}

func TestMemoryStore_CreateDuplicate(t *testing.T) {
	m := NewMemoryStore()
	require.NoError(t, m.CreateRoom(testRoom("ABC12")))
	assert.ErrorIs(t, m.CreateRoom(testRoom("ABC12")), room.ErrRoomExists)
}

func TestMemoryStore_GetReturnsSnapshot(t *testing.T) {
	m := NewMemoryStore()
	require.NoError(t, m.CreateRoom(testRoom("ABC12")))

	r, ok := m.GetRoom("ABC12")
	require.True(t, ok)
	r.Players = nil

	again, ok := m.GetRoom("ABC12")
	require.True(t, ok)
	assert.Len(t, again.Players, 1)
}

func TestMemoryStore_ApplyMutation(t *testing.T) {
	m := NewMemoryStore()
	require.NoError(t, m.CreateRoom(testRoom("ABC12")))

	updated, err := m.ApplyMutation("ABC12", func(r *shared.Room) error {
		r.RedScore = 3
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, 3, updated.RedScore)
	assert.False(t, updated.LastActivity.IsZero())

	stored, ok := m.GetRoom("ABC12")
	require.True(t, ok)
	assert.Equal(t, 3, stored.RedScore)
}

func TestMemoryStore_ApplyMutation_NotFound(t *testing.T) {
	m := NewMemoryStore()
	_, err := m.ApplyMutation("XXXXX", func(r *shared.Room) error { return nil })
	assert.ErrorIs(t, err, room.ErrRoomNotFound)
}

func TestMemoryStore_FailedMutationRollsBack(t *testing.T) {
	m := NewMemoryStore()
	require.NoError(t, m.CreateRoom(testRoom("ABC12")))

	boom := errors.New("boom")
	_, err := m.ApplyMutation("ABC12", func(r *shared.Room) error {
		r.RedScore = 99
		return boom
	})
	assert.ErrorIs(t, err, boom)

	stored, ok := m.GetRoom("ABC12")
	require.True(t, ok)
	assert.Equal(t, 0, stored.RedScore)
}

func TestMemoryStore_MutationsAreSerialized(t *testing.T) {
	m := NewMemoryStore()
	require.NoError(t, m.CreateRoom(testRoom("ABC12")))

	const n = 64
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := m.ApplyMutation("ABC12", func(r *shared.Room) error {
				r.RedScore++
				return nil
			})
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	stored, ok := m.GetRoom("ABC12")
	require.True(t, ok)
	assert.Equal(t, n, stored.RedScore)
}

func TestMemoryStore_DeleteIdempotent(t *testing.T) {
	m := NewMemoryStore()
	require.NoError(t, m.CreateRoom(testRoom("ABC12")))
	require.NoError(t, m.DeleteRoom("ABC12"))
	require.NoError(t, m.DeleteRoom("ABC12"))

	_, ok := m.GetRoom("ABC12")
	assert.False(t, ok)
}
