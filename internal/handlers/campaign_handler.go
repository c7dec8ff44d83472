package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"sodtech/internal/auth"
	"sodtech/internal/models"
	"sodtech/internal/services"
)

// CampaignHandler exposes campaign browsing, participation and authoring
type CampaignHandler struct {
	campaignService *services.CampaignService
}

// NewCampaignHandler creates a new CampaignHandler
func NewCampaignHandler(campaignService *services.CampaignService) *CampaignHandler {
	return &CampaignHandler{campaignService: campaignService}
}

// ListCampaigns returns campaigns currently open for participation
func (h *CampaignHandler) ListCampaigns(c *gin.Context) {
	campaigns, err := h.campaignService.ListActiveCampaigns(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    campaigns,
	})
}

// GetCampaign returns one campaign
func (h *CampaignHandler) GetCampaign(c *gin.Context) {
	campaignID, err := parseID(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid campaign ID"})
		return
	}

	campaign, err := h.campaignService.GetCampaign(campaignID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    campaign,
	})
}

// Participate enrolls the authenticated user into a campaign
func (h *CampaignHandler) Participate(c *gin.Context) {
	userID, exists := auth.GetUserID(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	campaignID, err := parseID(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid campaign ID"})
		return
	}

	participation, err := h.campaignService.Participate(userID, campaignID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"data":    participation,
	})
}

// Complete submits completion evidence for a campaign the user joined
func (h *CampaignHandler) Complete(c *gin.Context) {
	userID, exists := auth.GetUserID(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	campaignID, err := parseID(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid campaign ID"})
		return
	}

	var evidence models.CompletionData
	if err := c.ShouldBindJSON(&evidence); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	participation, err := h.campaignService.Complete(userID, campaignID, &evidence)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    participation,
	})
}

// GetParticipations lists the user's participations
func (h *CampaignHandler) GetParticipations(c *gin.Context) {
	userID, exists := auth.GetUserID(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	participations, err := h.campaignService.GetParticipations(userID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    participations,
	})
}

// CreateCampaign lets a business user author a campaign
func (h *CampaignHandler) CreateCampaign(c *gin.Context) {
	businessID, exists := auth.GetUserID(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	var req struct {
		Title           string                       `json:"title" binding:"required"`
		Description     string                       `json:"description"`
		CampaignType    string                       `json:"campaign_type" binding:"required"`
		Requirements    *models.CampaignRequirements `json:"requirements"`
		RewardSOD       string                       `json:"reward_sod"`
		RewardToman     string                       `json:"reward_toman"`
		TotalBudget     string                       `json:"total_budget" binding:"required"`
		MaxParticipants *int                         `json:"max_participants"`
		StartDate       time.Time                    `json:"start_date" binding:"required"`
		EndDate         time.Time                    `json:"end_date" binding:"required"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	campaign, err := h.campaignService.CreateCampaign(businessID, &services.CreateCampaignInput{
		Title:           req.Title,
		Description:     req.Description,
		CampaignType:    req.CampaignType,
		Requirements:    req.Requirements,
		RewardSOD:       req.RewardSOD,
		RewardToman:     req.RewardToman,
		TotalBudget:     req.TotalBudget,
		MaxParticipants: req.MaxParticipants,
		StartDate:       req.StartDate,
		EndDate:         req.EndDate,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"data":    campaign,
	})
}

// parseID parses a positive uint route parameter
func parseID(value string) (uint, error) {
	id, err := strconv.ParseUint(value, 10, 32)
	if err != nil {
		return 0, err
	}
	return uint(id), nil
}
