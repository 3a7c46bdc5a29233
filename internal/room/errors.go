package room

import "errors"

var (
	ErrRoomExists     = errors.New("room code already in use")
	ErrRoomNotFound   = errors.New("room not found")
	ErrValidation     = errors.New("username, role and team are required")
	ErrUsernameTaken  = errors.New("username already taken in this room")
	ErrSpymasterTaken = errors.New("team already has a spymaster")
	ErrRoomFull       = errors.New("room is full")
	ErrInvalidState   = errors.New("action not allowed in current game state")
	ErrUnauthorized   = errors.New("player is not allowed to start the game")
)
