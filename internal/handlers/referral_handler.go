package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"sodtech/internal/auth"
	"sodtech/internal/services"
)

// ReferralHandler exposes the referral reads
type ReferralHandler struct {
	referralService *services.ReferralService
	userService     *services.UserService
}

// NewReferralHandler creates a new ReferralHandler
func NewReferralHandler(referralService *services.ReferralService, userService *services.UserService) *ReferralHandler {
	return &ReferralHandler{
		referralService: referralService,
		userService:     userService,
	}
}

// GetReferralCode returns the user's shareable code
func (h *ReferralHandler) GetReferralCode(c *gin.Context) {
	userID, exists := auth.GetUserID(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	user, err := h.userService.GetUserByID(userID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    gin.H{"code": user.ReferralCode},
	})
}

// GetReferrals returns everyone the user has referred
func (h *ReferralHandler) GetReferrals(c *gin.Context) {
	userID, exists := auth.GetUserID(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	referrals, err := h.referralService.GetReferrals(userID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    referrals,
	})
}
