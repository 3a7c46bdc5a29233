package room

import (
	"errors"
	"fmt"
	"math/rand"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"codewords/internal/config"
	"codewords/internal/grid"
	"codewords/internal/shared"
)

// Store is the persistence gateway. ApplyMutation must run fn against the
// room's current state as one atomic read-modify-write: no two mutations of
// the same room may interleave, and a failed fn must leave the stored state
// untouched. The tile-reveal check-and-set depends on this.
type Store interface {
	CreateRoom(r *shared.Room) error
	GetRoom(code string) (*shared.Room, bool)
	ApplyMutation(code string, fn func(*shared.Room) error) (*shared.Room, error)
	DeleteRoom(code string) error
}

// ContentSource supplies grid content at room creation time. The grid is
// generated exactly once per room.
type ContentSource interface {
	Words(n int) []string
	Pattern(starting grid.TileColor) []grid.TileColor
}

// Starter-policy names accepted by SetPolicy.
const (
	PolicyAnyStartingTeamMember = "any-starting-team-member"
	PolicyRedAgentOnly          = "red-agent-only"
)

// Manager owns the room registry and drives every room action: resolve,
// validate, mutate, persist, then broadcast. Broadcasts are issued only
// after the mutation has committed.
type Manager struct {
	store   Store
	cfg     config.Config
	content ContentSource
	hub     Broadcaster

	mu         sync.RWMutex
	policy     StarterPolicy
	policyName string
}

func NewManager(s Store, cfg config.Config, content ContentSource) *Manager {
	return &Manager{
		store:      s,
		cfg:        cfg,
		content:    content,
		policy:     AnyStartingTeamMember,
		policyName: PolicyAnyStartingTeamMember,
	}
}

// SetHub wires the broadcast hub after construction; hub and manager
// reference each other.
func (m *Manager) SetHub(hub Broadcaster) {
	m.hub = hub
}

// SetPolicy switches the starter-authorization rule by name.
func (m *Manager) SetPolicy(name string) error {
	var p StarterPolicy
	switch name {
	case PolicyAnyStartingTeamMember:
		p = AnyStartingTeamMember
	case PolicyRedAgentOnly:
		p = RedAgentOnly
	default:
		return fmt.Errorf("%w: unknown policy %q", ErrValidation, name)
	}
	m.mu.Lock()
	m.policy = p
	m.policyName = name
	m.mu.Unlock()
	return nil
}

func (m *Manager) PolicyName() string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.policyName
}

func (m *Manager) starterPolicy() StarterPolicy {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.policy
}

func (m *Manager) MaxPlayers() int     { return m.cfg.MaxPlayers }
func (m *Manager) RoomCodeLength() int { return m.cfg.RoomCodeLength }

// CreateRoom builds a waiting room with the creator as its only player and
// a grid drawn from the content source. An empty code asks for a generated
// one.
func (m *Manager) CreateRoom(code string, creator shared.Player) (*shared.Room, error) {
	if creator.Username == "" || !creator.Role.Valid() || !creator.Team.Valid() {
		return nil, ErrValidation
	}
	g, err := grid.Generate(m.content.Words(grid.Size), m.content.Pattern(StartingTeam.TileColor()))
	if err != nil {
		return nil, err
	}

	attempts := 1
	if code == "" {
		attempts = 5
	}
	for i := 0; i < attempts; i++ {
		c := code
		if c == "" {
			c = randCode(m.cfg.RoomCodeLength)
		}
		now := time.Now()
		r := &shared.Room{
			Code:         c,
			Grid:         g,
			Players:      []shared.Player{creator},
			GameState:    shared.StateWaiting,
			MaxPlayers:   m.cfg.MaxPlayers,
			CreatedAt:    now,
			LastActivity: now,
		}
		err = m.store.CreateRoom(r)
		if err == nil {
			log.Info().Str("room", c).Str("creator", creator.Username).Msg("room created")
			return r, nil
		}
		if !errors.Is(err, ErrRoomExists) {
			return nil, err
		}
	}
	return nil, err
}

// Get returns a snapshot of the room.
func (m *Manager) Get(code string) (*shared.Room, error) {
	r, ok := m.store.GetRoom(code)
	if !ok {
		return nil, ErrRoomNotFound
	}
	return r, nil
}

// Join adds a player and notifies subscribers of the new roster.
func (m *Manager) Join(code string, p shared.Player) (*shared.Room, error) {
	updated, err := m.store.ApplyMutation(code, func(r *shared.Room) error {
		return Join(r, p)
	})
	if err != nil {
		return nil, err
	}
	m.broadcast(code, "roomDataUpdated", gin.H{
		"players":   updated.Players,
		"gridState": updated.Grid,
	})
	return updated, nil
}

// Leave removes a player. When the last player leaves, the room is
// destroyed and subscribers are told; no empty room persists.
func (m *Manager) Leave(code, username string) (*shared.Room, bool, error) {
	empty := false
	updated, err := m.store.ApplyMutation(code, func(r *shared.Room) error {
		empty = Leave(r, username)
		return nil
	})
	if err != nil {
		return nil, false, err
	}
	if empty {
		if err := m.store.DeleteRoom(code); err != nil {
			return nil, false, err
		}
		log.Info().Str("room", code).Msg("room destroyed, last player left")
		m.broadcast(code, "roomDeleted", gin.H{"roomCode": code})
		return updated, true, nil
	}
	m.broadcast(code, "roomDataUpdated", gin.H{
		"players":   updated.Players,
		"gridState": updated.Grid,
	})
	return updated, false, nil
}

// StartGame moves the room into active play if the requester passes the
// starter policy.
func (m *Manager) StartGame(code, requester string) (*shared.Room, error) {
	policy := m.starterPolicy()
	updated, err := m.store.ApplyMutation(code, func(r *shared.Room) error {
		return Start(r, requester, policy)
	})
	if err != nil {
		return nil, err
	}
	m.broadcast(code, "gameStarted", gin.H{
		"currentTurnTeam": updated.CurrentTurnTeam,
		"timerStartTime":  updated.TimerStartTime,
	})
	return updated, nil
}

// Reveal flips one tile for the acting team and applies the resulting turn
// or game-state effects. The boolean reports the already-revealed case: a
// pure no-op with no mutation and no broadcast.
func (m *Manager) Reveal(code string, index int, actor string, team shared.Team) (*shared.Room, bool, error) {
	if !team.Valid() {
		return nil, false, ErrValidation
	}
	already := false
	var effect RevealEffect
	updated, err := m.store.ApplyMutation(code, func(r *shared.Room) error {
		if r.GameState != shared.StateActive {
			return ErrInvalidState
		}
		color, err := r.Grid.Reveal(index)
		if errors.Is(err, grid.ErrAlreadyRevealed) {
			already = true
			return err
		}
		if err != nil {
			return err
		}
		effect, err = ApplyRevealEffect(r, color, team)
		if err != nil {
			return err
		}
		r.TurnHistory = append(r.TurnHistory, shared.TileAction{
			Index:     index,
			ClickedBy: actor,
			Team:      team,
			Outcome:   effect.Outcome,
			At:        time.Now(),
		})
		return nil
	})
	if already {
		// The room can vanish between the duplicate click and this read.
		cur, ok := m.store.GetRoom(code)
		if !ok {
			return nil, false, ErrRoomNotFound
		}
		return cur, true, nil
	}
	if err != nil {
		return nil, false, err
	}

	m.broadcast(code, "gridUpdated", gin.H{"gridState": updated.Grid})
	switch {
	case effect.GameOver:
		log.Info().Str("room", code).Str("winner", string(effect.Winner)).Msg("game ended")
		m.broadcast(code, "gameEnded", gin.H{
			"gridState": updated.Grid,
			"winner":    effect.Winner,
			"message":   effect.Message,
		})
	case effect.TurnSwitched:
		m.broadcast(code, "turnSwitched", gin.H{
			"currentTurnTeam": updated.CurrentTurnTeam,
			"timerStartTime":  updated.TimerStartTime,
		})
	}
	return updated, false, nil
}

// EndTurn is the explicit turn hand-over.
func (m *Manager) EndTurn(code string) (*shared.Room, error) {
	updated, err := m.store.ApplyMutation(code, func(r *shared.Room) error {
		return EndTurn(r)
	})
	if err != nil {
		return nil, err
	}
	m.broadcast(code, "turnSwitched", gin.H{
		"currentTurnTeam": updated.CurrentTurnTeam,
		"timerStartTime":  updated.TimerStartTime,
	})
	return updated, nil
}

// Delete removes the room explicitly. Idempotent on a missing code.
func (m *Manager) Delete(code string) error {
	if err := m.store.DeleteRoom(code); err != nil {
		return err
	}
	m.broadcast(code, "roomDeleted", gin.H{"roomCode": code})
	return nil
}

// Resync pushes the current roster and grid to every subscriber, for
// clients that ask for a refresh.
func (m *Manager) Resync(code string) error {
	r, err := m.Get(code)
	if err != nil {
		return err
	}
	m.broadcast(code, "roomDataUpdated", gin.H{
		"players":   r.Players,
		"gridState": r.Grid,
	})
	return nil
}

func (m *Manager) broadcast(code, event string, payload interface{}) {
	if m.hub == nil {
		return
	}
	m.hub.Broadcast(code, event, payload)
}

const letters = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"

func randCode(n int) string {
	r := rand.New(rand.NewSource(time.Now().UnixNano()))
	b := make([]byte, n)
	for i := range b {
		b[i] = letters[r.Intn(len(letters))]
	}
	return string(b)
}
