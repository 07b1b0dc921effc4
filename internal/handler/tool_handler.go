package handler

import (
	"net/http"

	"reportly/internal/repository"

	"github.com/gin-gonic/gin"
)

// ToolHandler exposes the public read side of report templates ("tools").
type ToolHandler struct {
	templates *repository.TemplateRepository
}

func NewToolHandler(templates *repository.TemplateRepository) *ToolHandler {
	return &ToolHandler{templates: templates}
}

func (h *ToolHandler) List(c *gin.Context) {
	tools, err := h.templates.ListActive()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not list tools"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"tools": tools})
}

func (h *ToolHandler) Get(c *gin.Context) {
	t, err := h.templates.GetByToolID(c.Param("tool_id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "tool not found"})
		return
	}
	c.JSON(http.StatusOK, t)
}

func (h *ToolHandler) GetFields(c *gin.Context) {
	t, err := h.templates.GetByToolID(c.Param("tool_id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "tool not found"})
		return
	}
	fields, err := h.templates.ListFields(t.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not list fields"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"fields": fields})
}
