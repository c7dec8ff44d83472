package handlers

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"sodtech/internal/services"
)

// respondError maps a service failure kind to an HTTP status. Unknown errors
// are a 500 and never reported to the client as success.
func respondError(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	message := err.Error()

	switch {
	case errors.Is(err, services.ErrInsufficientBalance),
		errors.Is(err, services.ErrInvalidCompletionData):
		status = http.StatusUnprocessableEntity
	case errors.Is(err, services.ErrBoostAlreadyActive),
		errors.Is(err, services.ErrAlreadyParticipated),
		errors.Is(err, services.ErrCampaignFull),
		errors.Is(err, services.ErrBudgetExhausted),
		errors.Is(err, services.ErrPhoneAlreadyExists):
		status = http.StatusConflict
	case errors.Is(err, services.ErrCampaignNotActive),
		errors.Is(err, services.ErrCampaignWindowClosed),
		errors.Is(err, services.ErrInvalidReferral):
		status = http.StatusBadRequest
	case errors.Is(err, services.ErrUserNotFound),
		errors.Is(err, services.ErrParticipationNotFound):
		status = http.StatusNotFound
	case errors.Is(err, services.ErrInvalidCredentials):
		status = http.StatusUnauthorized
	}

	if status == http.StatusInternalServerError {
		log.Printf("[HTTP] Internal error: %v", err)
		message = "Internal server error"
	}

	c.JSON(status, gin.H{"error": message})
}
