package handler

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"io"
	"log"
	"net/http"

	"reportly/internal/models"
	"reportly/internal/repository"
	"reportly/internal/service"

	"github.com/gin-gonic/gin"
)

// PaymentWebhookHandler receives gateway notifications. Confirm and fail are
// idempotent: a replayed event answers 200 without moving credits again.
type PaymentWebhookHandler struct {
	svc       *service.PaymentService
	auditRepo *repository.AuditLogRepository
	secret    string
}

func NewPaymentWebhookHandler(svc *service.PaymentService, auditRepo *repository.AuditLogRepository, secret string) *PaymentWebhookHandler {
	return &PaymentWebhookHandler{svc: svc, auditRepo: auditRepo, secret: secret}
}

type webhookEvent struct {
	Event     string `json:"event"`
	Reference string `json:"reference"`
}

func (h *PaymentWebhookHandler) Handle(c *gin.Context) {
	body, err := io.ReadAll(io.LimitReader(c.Request.Body, 1<<20))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "could not read body"})
		return
	}
	if h.secret != "" && !h.verifySignature(body, c.GetHeader("X-Signature")) {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid signature"})
		return
	}
	var ev webhookEvent
	if err := json.Unmarshal(body, &ev); err != nil || ev.Reference == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing reference"})
		return
	}

	switch ev.Event {
	case "payment.completed", "payment.success":
		p, err := h.svc.ConfirmPayment(ev.Reference)
		if err != nil {
			if errors.Is(err, service.ErrAlreadyProcessed) {
				c.JSON(http.StatusOK, gin.H{"status": "already processed"})
				return
			}
			if errors.Is(err, service.ErrPaymentNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"error": "unknown reference"})
				return
			}
			log.Printf("[webhook] confirm failed: ref=%s err=%v", ev.Reference, err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "confirmation failed"})
			return
		}
		h.auditPayment(p.UserID, "payment_completed", c)
		c.JSON(http.StatusOK, gin.H{"status": "completed", "payment_id": p.ID})
	case "payment.failed", "payment.expired":
		p, err := h.svc.FailPayment(ev.Reference)
		if err != nil {
			if errors.Is(err, service.ErrAlreadyProcessed) {
				c.JSON(http.StatusOK, gin.H{"status": "already processed"})
				return
			}
			if errors.Is(err, service.ErrPaymentNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"error": "unknown reference"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": "update failed"})
			return
		}
		h.auditPayment(p.UserID, "payment_failed", c)
		c.JSON(http.StatusOK, gin.H{"status": "failed"})
	default:
		c.JSON(http.StatusOK, gin.H{"status": "ignored"})
	}
}

func (h *PaymentWebhookHandler) auditPayment(userID uint, action string, c *gin.Context) {
	if h.auditRepo == nil {
		return
	}
	_ = h.auditRepo.Create(&models.AuditLog{
		UserID:    &userID,
		Action:    action,
		Resource:  "payment",
		IP:        c.ClientIP(),
		UserAgent: c.Request.UserAgent(),
	})
}

func (h *PaymentWebhookHandler) verifySignature(body []byte, signature string) bool {
	if signature == "" {
		return false
	}
	mac := hmac.New(sha256.New, []byte(h.secret))
	mac.Write(body)
	expected := hex.EncodeToString(mac.Sum(nil))
	return hmac.Equal([]byte(expected), []byte(signature))
}
