package handlers

import (
	"errors"

	"github.com/gin-gonic/gin"

	"cadetboard/internal/services"
)

type CadetsHandler struct {
	cadets *services.CadetService
}

func NewCadetsHandler(cadets *services.CadetService) *CadetsHandler {
	return &CadetsHandler{cadets: cadets}
}

type CheckOnlineRequest struct {
	OnlinePlayers []string `json:"online_players"`
}

// Info returns one cadet's progress flags.
func (h *CadetsHandler) Info(c *gin.Context) {
	cadet, err := h.cadets.CadetInfo(c.Request.Context(), c.Param("nickname"))
	if errors.Is(err, services.ErrCadetNotFound) {
		c.JSON(404, gin.H{"success": false, "error": "Cadet not found"})
		return
	}
	if err != nil {
		c.JSON(500, gin.H{"success": false, "error": "Failed to fetch cadet"})
		return
	}

	c.JSON(200, gin.H{"success": true, "cadet": cadet})
}

// Online intersects the reported online players with the cadet sheet.
func (h *CadetsHandler) Online(c *gin.Context) {
	var req CheckOnlineRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(400, gin.H{"success": false, "error": "Invalid request"})
		return
	}

	cadets, err := h.cadets.CheckOnline(c.Request.Context(), req.OnlinePlayers)
	if err != nil {
		c.JSON(500, gin.H{"success": false, "error": "Failed to fetch cadets"})
		return
	}

	c.JSON(200, gin.H{"success": true, "online_cadets": cadets})
}
