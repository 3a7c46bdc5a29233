package store

import (
	"sync"
	"time"

	"codewords/internal/room"
	"codewords/internal/shared"
)

type entry struct {
	mu   sync.Mutex
	room *shared.Room
}

// MemoryStore keeps room documents in process memory. Mutations for one
// room are serialized on a per-room mutex and applied to a copy, so a
// failed mutation never leaks partial state.
type MemoryStore struct {
	mu    sync.RWMutex
	rooms map[string]*entry
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		rooms: map[string]*entry{},
	}
}

func (m *MemoryStore) CreateRoom(r *shared.Room) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.rooms[r.Code]; ok {
		return room.ErrRoomExists
	}
	m.rooms[r.Code] = &entry{room: r.Clone()}
	return nil
}

func (m *MemoryStore) GetRoom(code string) (*shared.Room, bool) {
	m.mu.RLock()
	e, ok := m.rooms[code]
	m.mu.RUnlock()
	if !ok {
		return nil, false
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.room.Clone(), true
}

func (m *MemoryStore) ApplyMutation(code string, fn func(*shared.Room) error) (*shared.Room, error) {
	m.mu.RLock()
	e, ok := m.rooms[code]
	m.mu.RUnlock()
	if !ok {
		return nil, room.ErrRoomNotFound
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	next := e.room.Clone()
	if err := fn(next); err != nil {
		return nil, err
	}
	next.LastActivity = time.Now()
	e.room = next
	return next.Clone(), nil
}

func (m *MemoryStore) DeleteRoom(code string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.rooms, code)
	return nil
}
