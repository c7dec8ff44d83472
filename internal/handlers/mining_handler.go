package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"sodtech/internal/auth"
	"sodtech/internal/services"
)

// MiningHandler exposes the mining and boost operations
type MiningHandler struct {
	miningService *services.MiningService
}

// NewMiningHandler creates a new MiningHandler
func NewMiningHandler(miningService *services.MiningService) *MiningHandler {
	return &MiningHandler{miningService: miningService}
}

// Mine performs one mining action for the authenticated user
func (h *MiningHandler) Mine(c *gin.Context) {
	userID, exists := auth.GetUserID(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	earned, err := h.miningService.Mine(userID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"earned":  earned,
	})
}

// ActivateBoost buys a boost for the authenticated user
func (h *MiningHandler) ActivateBoost(c *gin.Context) {
	userID, exists := auth.GetUserID(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	state, err := h.miningService.ActivateBoost(userID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    state,
	})
}

// GetBoostState reports the current boost state
func (h *MiningHandler) GetBoostState(c *gin.Context) {
	userID, exists := auth.GetUserID(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	state, err := h.miningService.GetBoostState(userID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    state,
	})
}

// GetStats returns the user's mining stats
func (h *MiningHandler) GetStats(c *gin.Context) {
	userID, exists := auth.GetUserID(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	stats, err := h.miningService.GetStats(userID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    stats,
	})
}
