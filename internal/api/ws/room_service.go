package ws

import "codewords/internal/shared"

// RoomService is the slice of the room manager the hub dispatches inbound
// socket actions to.
type RoomService interface {
	Join(code string, p shared.Player) (*shared.Room, error)
	Leave(code, username string) (*shared.Room, bool, error)
	StartGame(code, requester string) (*shared.Room, error)
	Reveal(code string, index int, actor string, team shared.Team) (*shared.Room, bool, error)
	EndTurn(code string) (*shared.Room, error)
	Resync(code string) error
}
