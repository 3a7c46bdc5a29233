package shared

import (
	"time"

	"codewords/internal/grid"
)

type Team string

const (
	TeamRed  Team = "Red"
	TeamBlue Team = "Blue"
	TeamNone Team = ""
)

func (t Team) Valid() bool {
	return t == TeamRed || t == TeamBlue
}

func (t Team) Opponent() Team {
	switch t {
	case TeamRed:
		return TeamBlue
	case TeamBlue:
		return TeamRed
	}
	return TeamNone
}

// TileColor maps a team to the color of the tiles it must reveal.
func (t Team) TileColor() grid.TileColor {
	switch t {
	case TeamRed:
		return grid.ColorRed
	case TeamBlue:
		return grid.ColorBlue
	}
	return grid.ColorNeutral
}

type Role string

const (
	RoleSpymaster Role = "Spymaster"
	RoleAgent     Role = "Agent"
)

func (r Role) Valid() bool {
	return r == RoleSpymaster || r == RoleAgent
}

type GameState string

const (
	StateWaiting GameState = "waiting"
	StateActive  GameState = "active"
	StateEnded   GameState = "ended"
)

type Player struct {
	Username string `json:"username"`
	Role     Role   `json:"role"`
	Team     Team   `json:"team"`
}

// TileAction is one entry of the room's append-only audit log.
type TileAction struct {
	Index     int       `json:"index"`
	ClickedBy string    `json:"clickedBy"`
	Team      Team      `json:"team"`
	Outcome   string    `json:"outcome"`
	At        time.Time `json:"timestamp"`
}

// Room is the persisted document for one active game. CurrentTurnTeam is
// TeamNone unless GameState is StateActive, and GameState only ever moves
// waiting -> active -> ended.
type Room struct {
	Code            string       `json:"roomCode"`
	Grid            grid.Grid    `json:"gridState"`
	Players         []Player     `json:"players"`
	CurrentTurnTeam Team         `json:"currentTurnTeam"`
	GameState       GameState    `json:"gameState"`
	TimerStartTime  *time.Time   `json:"timerStartTime"`
	TurnHistory     []TileAction `json:"turnHistory"`
	RedScore        int          `json:"redTeamScore"`
	BlueScore       int          `json:"blueTeamScore"`
	Winner          Team         `json:"winner,omitempty"`
	EndReason       string       `json:"endReason,omitempty"`
	MaxPlayers      int          `json:"maxPlayers"`
	CreatedAt       time.Time    `json:"createdAt"`
	LastActivity    time.Time    `json:"lastActivity"`
}

// FindPlayer returns the roster entry for username, or nil.
func (r *Room) FindPlayer(username string) *Player {
	for i := range r.Players {
		if r.Players[i].Username == username {
			return &r.Players[i]
		}
	}
	return nil
}

// Clone deep-copies the room so stores can hand out snapshots without
// sharing mutable slices with callers.
func (r *Room) Clone() *Room {
	c := *r
	c.Grid = append(grid.Grid(nil), r.Grid...)
	c.Players = append([]Player(nil), r.Players...)
	c.TurnHistory = append([]TileAction(nil), r.TurnHistory...)
	if r.TimerStartTime != nil {
		ts := *r.TimerStartTime
		c.TimerStartTime = &ts
	}
	return &c
}
