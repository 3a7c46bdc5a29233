package room

import (
	"fmt"
	"time"

	"codewords/internal/grid"
	"codewords/internal/shared"
)

// StartingTeam opens every game; the pattern generator gives it the ninth
// tile.
const StartingTeam = shared.TeamRed

// StarterPolicy decides whether username may start the game in room r.
// Historical versions of the service disagreed on this rule, so it is a
// parameter rather than a hard-coded check.
type StarterPolicy func(r *shared.Room, username string) error

// AnyStartingTeamMember allows any member of the team due to go first.
func AnyStartingTeamMember(r *shared.Room, username string) error {
	p := r.FindPlayer(username)
	if p == nil || p.Team != StartingTeam {
		return ErrUnauthorized
	}
	return nil
}

// RedAgentOnly is the stricter historical rule: only a non-spymaster on the
// Red team may start.
func RedAgentOnly(r *shared.Room, username string) error {
	p := r.FindPlayer(username)
	if p == nil || p.Team != shared.TeamRed || p.Role != shared.RoleAgent {
		return ErrUnauthorized
	}
	return nil
}

// Start moves the room from waiting to active, hands the first turn to the
// starting team and records the timer start.
func Start(r *shared.Room, requester string, policy StarterPolicy) error {
	if r.GameState != shared.StateWaiting {
		return ErrInvalidState
	}
	if policy != nil {
		if err := policy(r, requester); err != nil {
			return err
		}
	}
	r.GameState = shared.StateActive
	r.CurrentTurnTeam = StartingTeam
	resetTimer(r)
	return nil
}

// AdvanceTurn hands the turn to the other team and restarts the turn timer.
// Only meaningful while active; callers guard the state.
func AdvanceTurn(r *shared.Room) {
	r.CurrentTurnTeam = r.CurrentTurnTeam.Opponent()
	resetTimer(r)
}

// EndTurn is the explicit, player-initiated form of AdvanceTurn.
func EndTurn(r *shared.Room) error {
	if r.GameState != shared.StateActive {
		return ErrInvalidState
	}
	AdvanceTurn(r)
	return nil
}

func resetTimer(r *shared.Room) {
	now := time.Now()
	r.TimerStartTime = &now
}

// Outcomes recorded in the turn history.
const (
	OutcomeTurnContinues = "turn_continues"
	OutcomeTurnEnded     = "turn_ended"
	OutcomeTurnForfeited = "turn_forfeited"
	OutcomeGameEnded     = "game_ended"
)

// RevealEffect describes what a reveal did to the room, so the caller can
// broadcast the matching events after the mutation commits.
type RevealEffect struct {
	Outcome      string
	TurnSwitched bool
	GameOver     bool
	Winner       shared.Team
	Message      string
}

// ApplyRevealEffect resolves a freshly revealed color against the revealing
// team:
//   - black ends the game, the opponent wins;
//   - neutral ends the turn;
//   - the team's own color keeps the turn, and revealing the last tile of
//     that color wins the game;
//   - the other team's color forfeits the turn, scores for the owner, and
//     revealing their last tile hands them the win.
func ApplyRevealEffect(r *shared.Room, color grid.TileColor, revealing shared.Team) (RevealEffect, error) {
	if r.GameState != shared.StateActive {
		return RevealEffect{}, ErrInvalidState
	}
	switch color {
	case grid.ColorBlack:
		winner := revealing.Opponent()
		msg := fmt.Sprintf("%s wins! Black tile guessed.", winner)
		endGame(r, winner, msg)
		return RevealEffect{Outcome: OutcomeGameEnded, GameOver: true, Winner: winner, Message: msg}, nil

	case grid.ColorNeutral:
		AdvanceTurn(r)
		return RevealEffect{Outcome: OutcomeTurnEnded, TurnSwitched: true}, nil

	case revealing.TileColor():
		addScore(r, revealing)
		if r.Grid.Remaining(color) == 0 {
			msg := fmt.Sprintf("%s wins! All their tiles revealed.", revealing)
			endGame(r, revealing, msg)
			return RevealEffect{Outcome: OutcomeGameEnded, GameOver: true, Winner: revealing, Message: msg}, nil
		}
		return RevealEffect{Outcome: OutcomeTurnContinues}, nil

	default:
		// Wrong-team hit: the tile still counts for its owner.
		owner := revealing.Opponent()
		addScore(r, owner)
		if r.Grid.Remaining(color) == 0 {
			msg := fmt.Sprintf("%s wins! All their tiles revealed.", owner)
			endGame(r, owner, msg)
			return RevealEffect{Outcome: OutcomeGameEnded, GameOver: true, Winner: owner, Message: msg}, nil
		}
		AdvanceTurn(r)
		return RevealEffect{Outcome: OutcomeTurnForfeited, TurnSwitched: true}, nil
	}
}

func addScore(r *shared.Room, team shared.Team) {
	if team == shared.TeamRed {
		r.RedScore++
	} else {
		r.BlueScore++
	}
}

func endGame(r *shared.Room, winner shared.Team, reason string) {
	r.GameState = shared.StateEnded
	r.Winner = winner
	r.EndReason = reason
	r.CurrentTurnTeam = shared.TeamNone
	r.TimerStartTime = nil
}
