package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"codewords/internal/room"
)

// @Summary Get game configuration
// @Description Returns the room defaults and the active starter policy
// @Tags Config
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Router /config/game [get]
func GetConfigHandler(rm *room.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"maxPlayers":     rm.MaxPlayers(),
			"roomCodeLength": rm.RoomCodeLength(),
			"startingTeam":   room.StartingTeam,
			"starterPolicy":  rm.PolicyName(),
		})
	}
}

// @Summary Set starter policy
// @Description Switch the starter-authorization rule for new game starts
// @Tags Config
// @Accept json
// @Produce json
// @Param request body http.SetPolicyRequest true "Policy name"
// @Success 200 {object} map[string]interface{}
// @Router /config/policy [post]
func SetPolicyHandler(rm *room.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req SetPolicyRequest
		if err := c.BindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid payload"})
			return
		}
		if err := rm.SetPolicy(req.Policy); err != nil {
			fail(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"starterPolicy": rm.PolicyName()})
	}
}
