package handler

import (
	"errors"
	"net/http"

	"reportly/internal/middleware"
	"reportly/internal/repository"
	"reportly/internal/service"

	"github.com/gin-gonic/gin"
)

type SubscriptionHandler struct {
	svc      *service.SubscriptionService
	userRepo *repository.UserRepository
}

func NewSubscriptionHandler(svc *service.SubscriptionService, userRepo *repository.UserRepository) *SubscriptionHandler {
	return &SubscriptionHandler{svc: svc, userRepo: userRepo}
}

func (h *SubscriptionHandler) ListPlans(c *gin.Context) {
	plans, err := h.svc.ActivePlans()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not list plans"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"plans": plans})
}

func (h *SubscriptionHandler) Current(c *gin.Context) {
	userID := middleware.GetUserID(c)
	sub, plan, err := h.svc.Current(userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not load subscription"})
		return
	}
	if sub == nil {
		c.JSON(http.StatusOK, gin.H{"subscription": nil})
		return
	}
	c.JSON(http.StatusOK, gin.H{"subscription": sub, "plan": plan})
}

type SubscribeRequest struct {
	PlanID uint `json:"plan_id" binding:"required"`
}

func (h *SubscriptionHandler) Subscribe(c *gin.Context) {
	userID := middleware.GetUserID(c)
	var req SubscribeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	user, err := h.userRepo.GetByID(userID)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
		return
	}
	sub, err := h.svc.Subscribe(user, req.PlanID)
	if err != nil {
		if errors.Is(err, service.ErrPlanNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "plan not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "subscription failed"})
		return
	}
	c.JSON(http.StatusCreated, sub)
}
