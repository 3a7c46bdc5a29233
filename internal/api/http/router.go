package http

import (
	"github.com/gin-gonic/gin"

	"codewords/internal/api/ws"
	"codewords/internal/room"
)

func NewRouter(rm *room.Manager, hub *ws.Hub) *gin.Engine {
	r := gin.Default()

	// WebSocket for live room updates
	r.GET("/ws", hub.HandleWS)

	// --- ROOM ENDPOINTS ---
	rooms := r.Group("/api/rooms")
	rooms.POST("/create", CreateRoomHandler(rm))
	rooms.POST("/join", JoinRoomHandler(rm))
	rooms.POST("/leave", LeaveRoomHandler(rm))
	rooms.GET("/:code", GetRoomHandler(rm))
	rooms.DELETE("/:code", DeleteRoomHandler(rm))

	// --- GAME ENDPOINTS ---
	rooms.POST("/start", StartGameHandler(rm))
	rooms.POST("/reveal", RevealTileHandler(rm))
	rooms.POST("/end-turn", EndTurnHandler(rm))

	// --- CONFIG ENDPOINTS ---
	r.GET("/config/game", GetConfigHandler(rm))
	r.POST("/config/policy", SetPolicyHandler(rm))

	return r
}
