package http

import "codewords/internal/shared"

// CreateRoomRequest represents the payload for /api/rooms/create. An empty
// roomCode asks the server to generate one.
type CreateRoomRequest struct {
	RoomCode string        `json:"roomCode"`
	Creator  shared.Player `json:"creator"`
}

// JoinRoomRequest represents the payload for joining an existing room.
type JoinRoomRequest struct {
	RoomCode string      `json:"roomCode"`
	Username string      `json:"username"`
	Role     shared.Role `json:"role"`
	Team     shared.Team `json:"team"`
}

// LeaveRoomRequest represents the payload for leaving a room.
type LeaveRoomRequest struct {
	RoomCode string `json:"roomCode"`
	Username string `json:"username"`
}

// StartGameRequest represents the payload for starting the game.
type StartGameRequest struct {
	RoomCode string `json:"roomCode"`
	Username string `json:"username"`
}

// RevealTileRequest represents a tile reveal. Either a flat index or a
// row/col pair addresses the tile.
type RevealTileRequest struct {
	RoomCode string      `json:"roomCode"`
	Index    *int        `json:"index"`
	Row      *int        `json:"row"`
	Col      *int        `json:"col"`
	Team     shared.Team `json:"team"`
	Username string      `json:"username"`
}

// EndTurnRequest represents an explicit turn hand-over.
type EndTurnRequest struct {
	RoomCode string `json:"roomCode"`
}

// SetPolicyRequest switches the starter-authorization rule.
type SetPolicyRequest struct {
	Policy string `json:"policy"`
}
