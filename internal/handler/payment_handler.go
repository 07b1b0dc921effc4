package handler

import (
	"errors"
	"net/http"

	"reportly/internal/middleware"
	"reportly/internal/repository"
	"reportly/internal/service"

	"github.com/gin-gonic/gin"
)

type PaymentHandler struct {
	svc      *service.PaymentService
	userRepo *repository.UserRepository
}

func NewPaymentHandler(svc *service.PaymentService, userRepo *repository.UserRepository) *PaymentHandler {
	return &PaymentHandler{svc: svc, userRepo: userRepo}
}

func (h *PaymentHandler) ListPackages(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"packages": h.svc.Packages()})
}

type PurchaseRequest struct {
	PackageID string `json:"package_id" binding:"required"`
}

func (h *PaymentHandler) Purchase(c *gin.Context) {
	userID := middleware.GetUserID(c)
	var req PurchaseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	user, err := h.userRepo.GetByID(userID)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
		return
	}
	p, err := h.svc.InitiatePurchase(c.Request.Context(), user, req.PackageID)
	if err != nil {
		if errors.Is(err, service.ErrPackageNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "package not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "purchase failed"})
		return
	}
	c.JSON(http.StatusCreated, p)
}

func (h *PaymentHandler) History(c *gin.Context) {
	userID := middleware.GetUserID(c)
	payments, err := h.svc.History(userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not list payments"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"payments": payments})
}
