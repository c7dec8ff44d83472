package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"sodtech/internal/auth"
	"sodtech/internal/services"
)

// WalletHandler exposes wallet reads
type WalletHandler struct {
	ledger *services.LedgerService
}

// NewWalletHandler creates a new WalletHandler
func NewWalletHandler(ledger *services.LedgerService) *WalletHandler {
	return &WalletHandler{ledger: ledger}
}

// GetWallet returns the authenticated user's balances
func (h *WalletHandler) GetWallet(c *gin.Context) {
	userID, exists := auth.GetUserID(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	wallet, err := h.ledger.GetWallet(userID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    wallet,
	})
}

// GetTransactions returns the user's recent ledger entries
func (h *WalletHandler) GetTransactions(c *gin.Context) {
	userID, exists := auth.GetUserID(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))

	transactions, err := h.ledger.GetTransactions(userID, limit)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    transactions,
	})
}
