package handler

import (
	"errors"
	"io"
	"net/http"
	"strconv"

	"reportly/internal/middleware"
	"reportly/internal/models"
	"reportly/internal/repository"
	"reportly/internal/service"

	"github.com/gin-gonic/gin"
)

type ReportHandler struct {
	svc      *service.ReportService
	fileRepo *repository.FileRepository
}

func NewReportHandler(svc *service.ReportService, fileRepo *repository.FileRepository) *ReportHandler {
	return &ReportHandler{svc: svc, fileRepo: fileRepo}
}

type CreateReportRequest struct {
	ToolID     string            `json:"tool_id" binding:"required"`
	Title      string            `json:"title" binding:"required,max=255"`
	Industry   string            `json:"industry"`
	ReportType string            `json:"report_type"`
	Audience   string            `json:"audience"`
	Purpose    string            `json:"purpose"`
	Tone       string            `json:"tone"`
	Depth      string            `json:"depth"`
	Inputs     map[string]string `json:"inputs"`
}

func (h *ReportHandler) Create(c *gin.Context) {
	userID := middleware.GetUserID(c)
	var req CreateReportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	rep, err := h.svc.Create(userID, service.CreateReportParams{
		ToolID:     req.ToolID,
		Title:      req.Title,
		Industry:   req.Industry,
		ReportType: req.ReportType,
		Audience:   req.Audience,
		Purpose:    req.Purpose,
		Tone:       req.Tone,
		Depth:      req.Depth,
		Inputs:     req.Inputs,
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not create report"})
		return
	}
	c.JSON(http.StatusCreated, rep)
}

// Generate runs one settlement attempt and returns the updated report.
// Insufficient credits maps to 402 so clients can prompt a purchase.
func (h *ReportHandler) Generate(c *gin.Context) {
	userID := middleware.GetUserID(c)
	reportID, err := parseID(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid report id"})
		return
	}
	rep, err := h.svc.Generate(c.Request.Context(), reportID, userID)
	switch {
	case err == nil:
		c.JSON(http.StatusOK, rep)
	case errors.Is(err, service.ErrReportNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "report not found"})
	case errors.Is(err, service.ErrAccessDenied):
		c.JSON(http.StatusForbidden, gin.H{"error": "access denied"})
	case errors.Is(err, service.ErrInsufficientCredits):
		c.JSON(http.StatusPaymentRequired, gin.H{"error": "Insufficient credits. Please purchase more credits."})
	case errors.Is(err, service.ErrGenerationFailed):
		c.JSON(http.StatusInternalServerError, gin.H{"error": "report generation failed", "report": rep})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "report generation failed"})
	}
}

func (h *ReportHandler) ListMine(c *gin.Context) {
	userID := middleware.GetUserID(c)
	reports, err := h.svc.ListMine(userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not list reports"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"reports": reports})
}

func (h *ReportHandler) Get(c *gin.Context) {
	userID := middleware.GetUserID(c)
	reportID, err := parseID(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid report id"})
		return
	}
	rep, err := h.svc.GetOwned(reportID, userID)
	switch {
	case err == nil:
		c.JSON(http.StatusOK, rep)
	case errors.Is(err, service.ErrReportNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "report not found"})
	case errors.Is(err, service.ErrAccessDenied):
		c.JSON(http.StatusForbidden, gin.H{"error": "access denied"})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not load report"})
	}
}

// maxUploadBytes caps attached data files. Only text-like content is
// accepted; binary document parsing is handled upstream, not here.
const maxUploadBytes = 2 << 20

// AttachFile stores a text/CSV excerpt against a draft report for the
// generation prompt.
func (h *ReportHandler) AttachFile(c *gin.Context) {
	userID := middleware.GetUserID(c)
	reportID, err := parseID(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid report id"})
		return
	}
	if _, err := h.svc.GetOwned(reportID, userID); err != nil {
		if errors.Is(err, service.ErrAccessDenied) {
			c.JSON(http.StatusForbidden, gin.H{"error": "access denied"})
			return
		}
		c.JSON(http.StatusNotFound, gin.H{"error": "report not found"})
		return
	}
	file, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "file required"})
		return
	}
	if file.Size > maxUploadBytes {
		c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": "file too large"})
		return
	}
	f, err := file.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "could not read file"})
		return
	}
	defer f.Close()
	text, err := io.ReadAll(io.LimitReader(f, maxUploadBytes))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "could not read file"})
		return
	}
	uf := &models.UploadedFile{
		ReportID:         reportID,
		UserID:           userID,
		OriginalFilename: file.Filename,
		ContentType:      file.Header.Get("Content-Type"),
		FileSize:         file.Size,
		ExtractedText:    string(text),
	}
	if err := h.fileRepo.Create(uf); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "upload failed"})
		return
	}
	c.JSON(http.StatusCreated, gin.H{
		"id":                uf.ID,
		"original_filename": uf.OriginalFilename,
		"file_size":         uf.FileSize,
	})
}

func parseID(s string) (uint, error) {
	id, err := strconv.ParseUint(s, 10, 32)
	return uint(id), err
}
