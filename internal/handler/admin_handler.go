package handler

import (
	"errors"
	"net/http"

	"reportly/internal/domain"
	"reportly/internal/middleware"
	"reportly/internal/models"
	"reportly/internal/repository"
	"reportly/internal/service"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// AdminHandler covers template management and manual credit adjustments.
type AdminHandler struct {
	templates *repository.TemplateRepository
	userRepo  *repository.UserRepository
	credits   *service.CreditService
	auditRepo *repository.AuditLogRepository
}

func NewAdminHandler(
	templates *repository.TemplateRepository,
	userRepo *repository.UserRepository,
	credits *service.CreditService,
	auditRepo *repository.AuditLogRepository,
) *AdminHandler {
	return &AdminHandler{templates: templates, userRepo: userRepo, credits: credits, auditRepo: auditRepo}
}

type TemplateFieldRequest struct {
	FieldKey    string `json:"field_key" binding:"required"`
	Label       string `json:"label"`
	FieldType   string `json:"field_type"`
	Placeholder string `json:"placeholder"`
	Required    bool   `json:"required"`
	Options     string `json:"options"`
	SortOrder   int    `json:"sort_order"`
}

type TemplateRequest struct {
	ToolID             string                 `json:"tool_id" binding:"required"`
	Title              string                 `json:"title" binding:"required"`
	Description        string                 `json:"description"`
	Category           string                 `json:"category"`
	Industry           string                 `json:"industry"`
	SystemPrompt       string                 `json:"system_prompt"`
	CalculationPrompt  string                 `json:"calculation_prompt"`
	OutputFormatPrompt string                 `json:"output_format_prompt"`
	IsActive           *bool                  `json:"is_active"`
	Fields             []TemplateFieldRequest `json:"fields"`
}

func (h *AdminHandler) CreateTemplate(c *gin.Context) {
	var req TemplateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if _, err := h.templates.GetByToolID(req.ToolID); err == nil {
		c.JSON(http.StatusConflict, gin.H{"error": "tool_id already exists"})
		return
	}
	t := &models.ReportTemplate{
		ToolID:             req.ToolID,
		Title:              req.Title,
		Description:        req.Description,
		Category:           req.Category,
		Industry:           req.Industry,
		SystemPrompt:       req.SystemPrompt,
		CalculationPrompt:  req.CalculationPrompt,
		OutputFormatPrompt: req.OutputFormatPrompt,
		IsActive:           true,
	}
	if req.IsActive != nil {
		t.IsActive = *req.IsActive
	}
	if err := h.templates.Create(t); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not create template"})
		return
	}
	for _, f := range req.Fields {
		_ = h.templates.CreateField(&models.InputField{
			TemplateID:  t.ID,
			FieldKey:    f.FieldKey,
			Label:       f.Label,
			FieldType:   f.FieldType,
			Placeholder: f.Placeholder,
			Required:    f.Required,
			Options:     f.Options,
			SortOrder:   f.SortOrder,
		})
	}
	c.JSON(http.StatusCreated, t)
}

func (h *AdminHandler) UpdateTemplate(c *gin.Context) {
	id, err := parseID(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid template id"})
		return
	}
	t, err := h.templates.GetByID(id)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "template not found"})
		return
	}
	var req TemplateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	t.ToolID = req.ToolID
	t.Title = req.Title
	t.Description = req.Description
	t.Category = req.Category
	t.Industry = req.Industry
	t.SystemPrompt = req.SystemPrompt
	t.CalculationPrompt = req.CalculationPrompt
	t.OutputFormatPrompt = req.OutputFormatPrompt
	if req.IsActive != nil {
		t.IsActive = *req.IsActive
	}
	if err := h.templates.Update(t); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not update template"})
		return
	}
	if req.Fields != nil {
		// Replace field set wholesale; fields are cheap rows.
		_ = h.templates.DeleteFields(t.ID)
		for _, f := range req.Fields {
			_ = h.templates.CreateField(&models.InputField{
				TemplateID:  t.ID,
				FieldKey:    f.FieldKey,
				Label:       f.Label,
				FieldType:   f.FieldType,
				Placeholder: f.Placeholder,
				Required:    f.Required,
				Options:     f.Options,
				SortOrder:   f.SortOrder,
			})
		}
	}
	c.JSON(http.StatusOK, t)
}

func (h *AdminHandler) DeleteTemplate(c *gin.Context) {
	id, err := parseID(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid template id"})
		return
	}
	if err := h.templates.Delete(id); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not delete template"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "deleted"})
}

type AdjustCreditsRequest struct {
	UserID      uint   `json:"user_id" binding:"required"`
	Amount      int64  `json:"amount" binding:"required"` // positive credits, negative debits
	Description string `json:"description"`
}

// AdjustCredits applies a manual signed adjustment through the ledger so the
// audit trail stays complete.
func (h *AdminHandler) AdjustCredits(c *gin.Context) {
	var req AdjustCreditsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	user, err := h.userRepo.GetByID(req.UserID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not load user"})
		return
	}
	desc := req.Description
	if desc == "" {
		desc = "Manual adjustment by admin"
	}
	var txn *models.CreditTransaction
	if req.Amount > 0 {
		txn, err = h.credits.AddCredits(user, req.Amount, domain.TxAdminAdjustment, "", desc)
	} else {
		txn, err = h.credits.DeductCredits(user, -req.Amount, domain.TxAdminAdjustment, "", desc)
	}
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInsufficientCredits):
			c.JSON(http.StatusBadRequest, gin.H{"error": "insufficient credits"})
		case errors.Is(err, service.ErrInvalidAmount):
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid amount"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "adjustment failed"})
		}
		return
	}
	adminID := middleware.GetUserID(c)
	_ = h.auditRepo.Create(&models.AuditLog{
		UserID:    &adminID,
		Action:    "credit_adjustment",
		Resource:  "credits",
		IP:        c.ClientIP(),
		UserAgent: c.Request.UserAgent(),
	})
	c.JSON(http.StatusOK, txn)
}
