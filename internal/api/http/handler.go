package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"codewords/internal/grid"
	"codewords/internal/room"
	"codewords/internal/shared"
)

// statusFor maps the room error taxonomy onto HTTP statuses. Anything
// unrecognized is an infrastructure failure.
func statusFor(err error) int {
	switch {
	case errors.Is(err, room.ErrRoomNotFound):
		return http.StatusNotFound
	case errors.Is(err, room.ErrRoomExists),
		errors.Is(err, room.ErrUsernameTaken),
		errors.Is(err, room.ErrSpymasterTaken),
		errors.Is(err, room.ErrRoomFull),
		errors.Is(err, room.ErrInvalidState):
		return http.StatusConflict
	case errors.Is(err, room.ErrUnauthorized):
		return http.StatusForbidden
	case errors.Is(err, room.ErrValidation),
		errors.Is(err, grid.ErrInvalidIndex),
		errors.Is(err, grid.ErrInvalidPattern),
		errors.Is(err, grid.ErrInvalidWords):
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}

func fail(c *gin.Context, err error) {
	c.JSON(statusFor(err), gin.H{"error": err.Error()})
}

// @Summary Create new room
// @Description Create a new room in the waiting state with the creator as its only player
// @Tags Room
// @Accept json
// @Produce json
// @Param request body http.CreateRoomRequest true "Room code and creator"
// @Success 201 {object} map[string]interface{}
// @Router /api/rooms/create [post]
func CreateRoomHandler(rm *room.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req CreateRoomRequest
		if err := c.BindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid payload"})
			return
		}
		rx, err := rm.CreateRoom(req.RoomCode, req.Creator)
		if err != nil {
			fail(c, err)
			return
		}
		c.JSON(http.StatusCreated, gin.H{"roomCode": rx.Code, "room": rx})
	}
}

// @Summary Join a room
// @Description Add a player to an existing room
// @Tags Room
// @Accept json
// @Produce json
// @Param request body http.JoinRoomRequest true "Player info"
// @Success 200 {object} map[string]interface{}
// @Router /api/rooms/join [post]
func JoinRoomHandler(rm *room.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req JoinRoomRequest
		if err := c.BindJSON(&req); err != nil || req.RoomCode == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "roomCode required"})
			return
		}
		rx, err := rm.Join(req.RoomCode, shared.Player{
			Username: req.Username,
			Role:     req.Role,
			Team:     req.Team,
		})
		if err != nil {
			fail(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"room": rx})
	}
}

// @Summary Leave a room
// @Description Remove a player; the room is destroyed when the last player leaves
// @Tags Room
// @Accept json
// @Produce json
// @Param request body http.LeaveRoomRequest true "Player info"
// @Success 200 {object} map[string]interface{}
// @Router /api/rooms/leave [post]
func LeaveRoomHandler(rm *room.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req LeaveRoomRequest
		if err := c.BindJSON(&req); err != nil || req.RoomCode == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "roomCode required"})
			return
		}
		rx, deleted, err := rm.Leave(req.RoomCode, req.Username)
		if err != nil {
			fail(c, err)
			return
		}
		if deleted {
			c.JSON(http.StatusOK, gin.H{"roomDeleted": true})
			return
		}
		c.JSON(http.StatusOK, gin.H{"room": rx})
	}
}

// @Summary Start the game
// @Description Move the room from waiting to active; the starting team gets the first turn
// @Tags Game
// @Accept json
// @Produce json
// @Param request body http.StartGameRequest true "Requester"
// @Success 200 {object} map[string]interface{}
// @Router /api/rooms/start [post]
func StartGameHandler(rm *room.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req StartGameRequest
		if err := c.BindJSON(&req); err != nil || req.RoomCode == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "roomCode required"})
			return
		}
		rx, err := rm.StartGame(req.RoomCode, req.Username)
		if err != nil {
			fail(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"room": rx})
	}
}

// @Summary Reveal a tile
// @Description Reveal one tile for the acting team and apply the turn/game effects
// @Tags Game
// @Accept json
// @Produce json
// @Param request body http.RevealTileRequest true "Tile and acting team"
// @Success 200 {object} map[string]interface{}
// @Router /api/rooms/reveal [post]
func RevealTileHandler(rm *room.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req RevealTileRequest
		if err := c.BindJSON(&req); err != nil || req.RoomCode == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "roomCode required"})
			return
		}
		index, err := revealIndex(req)
		if err != nil {
			fail(c, err)
			return
		}
		rx, already, err := rm.Reveal(req.RoomCode, index, req.Username, req.Team)
		if err != nil {
			fail(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"room":            rx,
			"alreadyRevealed": already,
			"winner":          rx.Winner,
		})
	}
}

func revealIndex(req RevealTileRequest) (int, error) {
	if req.Index != nil {
		return *req.Index, nil
	}
	if req.Row != nil && req.Col != nil {
		return grid.Index(*req.Row, *req.Col)
	}
	return 0, grid.ErrInvalidIndex
}

// @Summary End the current turn
// @Description Hand the turn to the other team and restart the turn timer
// @Tags Game
// @Accept json
// @Produce json
// @Param request body http.EndTurnRequest true "Room code"
// @Success 200 {object} map[string]interface{}
// @Router /api/rooms/end-turn [post]
func EndTurnHandler(rm *room.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req EndTurnRequest
		if err := c.BindJSON(&req); err != nil || req.RoomCode == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "roomCode required"})
			return
		}
		rx, err := rm.EndTurn(req.RoomCode)
		if err != nil {
			fail(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"room": rx})
	}
}

// @Summary Get room state
// @Description Return the current room snapshot
// @Tags Room
// @Produce json
// @Param code path string true "Room Code"
// @Success 200 {object} map[string]interface{}
// @Router /api/rooms/{code} [get]
func GetRoomHandler(rm *room.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		rx, err := rm.Get(c.Param("code"))
		if err != nil {
			fail(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"room": rx})
	}
}

// @Summary Delete a room
// @Description Remove the room; idempotent on a missing code
// @Tags Room
// @Produce json
// @Param code path string true "Room Code"
// @Success 200 {object} map[string]interface{}
// @Router /api/rooms/{code} [delete]
func DeleteRoomHandler(rm *room.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := rm.Delete(c.Param("code")); err != nil {
			fail(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"deleted": true})
	}
}
