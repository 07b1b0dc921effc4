package handler

import (
	"net/http"

	"reportly/internal/middleware"
	"reportly/internal/repository"
	"reportly/internal/service"

	"github.com/gin-gonic/gin"
)

type CreditHandler struct {
	credits  *service.CreditService
	userRepo *repository.UserRepository
}

func NewCreditHandler(credits *service.CreditService, userRepo *repository.UserRepository) *CreditHandler {
	return &CreditHandler{credits: credits, userRepo: userRepo}
}

// GetBalance returns the current balance with the ten most recent transactions.
func (h *CreditHandler) GetBalance(c *gin.Context) {
	userID := middleware.GetUserID(c)
	user, err := h.userRepo.GetByID(userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "wallet error"})
		return
	}
	balance, err := h.credits.GetBalance(user)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "wallet error"})
		return
	}
	recent, err := h.credits.GetTransactionHistory(userID, 10)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "wallet error"})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"balance":      balance,
		"transactions": recent,
	})
}

// GetTransactions returns the full transaction history, newest first.
func (h *CreditHandler) GetTransactions(c *gin.Context) {
	userID := middleware.GetUserID(c)
	txns, err := h.credits.GetTransactionHistory(userID, 0)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "wallet error"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"transactions": txns})
}
