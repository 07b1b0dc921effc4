package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sort"
	"time"

	"reportly/internal/domain"
	"reportly/internal/models"
	"reportly/internal/repository"
	"reportly/pkg/openai"

	"gorm.io/gorm"
)

var (
	ErrReportNotFound   = errors.New("report not found")
	ErrAccessDenied     = errors.New("access denied")
	ErrGenerationFailed = errors.New("report generation failed")
)

// ReportService owns the report lifecycle and the settlement flow: a
// generation is gated on the ledger balance, and credits are deducted only
// after the generation collaborator returns successfully. Failure is free to
// the user.
type ReportService struct {
	reports   *repository.ReportRepository
	templates *repository.TemplateRepository
	files     *repository.FileRepository
	users     *repository.UserRepository
	credits   *CreditService
	generator openai.Generator
	cost      int64
}

func NewReportService(
	reports *repository.ReportRepository,
	templates *repository.TemplateRepository,
	files *repository.FileRepository,
	users *repository.UserRepository,
	credits *CreditService,
	generator openai.Generator,
	cost int64,
) *ReportService {
	if cost <= 0 {
		cost = 1
	}
	return &ReportService{
		reports:   reports,
		templates: templates,
		files:     files,
		users:     users,
		credits:   credits,
		generator: generator,
		cost:      cost,
	}
}

type CreateReportParams struct {
	ToolID     string
	Title      string
	Industry   string
	ReportType string
	Audience   string
	Purpose    string
	Tone       string
	Depth      string
	Inputs     map[string]string
}

// Create stores a new report in DRAFT status together with its wizard inputs,
// linked to a template when the tool id matches one.
func (s *ReportService) Create(userID uint, p CreateReportParams) (*models.Report, error) {
	rep := &models.Report{
		UserID:     userID,
		ToolID:     p.ToolID,
		Title:      p.Title,
		Industry:   p.Industry,
		ReportType: p.ReportType,
		Audience:   p.Audience,
		Purpose:    p.Purpose,
		Tone:       p.Tone,
		Depth:      p.Depth,
		Status:     domain.ReportStatusDraft,
	}
	if tpl, err := s.templates.GetByToolID(p.ToolID); err == nil {
		rep.TemplateID = &tpl.ID
	}
	if err := s.reports.Create(rep); err != nil {
		return nil, err
	}
	for _, key := range sortedKeys(p.Inputs) {
		in := &models.ReportInput{ReportID: rep.ID, FieldKey: key, Value: p.Inputs[key]}
		if err := s.reports.CreateInput(in); err != nil {
			return nil, err
		}
	}
	return rep, nil
}

// Generate runs one settlement attempt for the report:
// ownership check, balance check, DRAFT/PENDING/FAILED -> PROCESSING,
// generation call, then debit-on-success or FAILED-without-debit.
// Retrying after a failure is the caller's decision; each call is a fresh
// attempt subject to the same balance check.
func (s *ReportService) Generate(ctx context.Context, reportID, userID uint) (*models.Report, error) {
	rep, err := s.reports.GetByID(reportID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrReportNotFound
		}
		return nil, err
	}
	if rep.UserID != userID {
		return nil, ErrAccessDenied
	}
	user, err := s.users.GetByID(userID)
	if err != nil {
		return nil, err
	}

	// Reject before any state change so an underfunded call leaves the
	// report exactly as it was.
	enough, err := s.credits.HasEnoughCredits(user, s.cost)
	if err != nil {
		return nil, err
	}
	if !enough {
		return nil, ErrInsufficientCredits
	}

	// PENDING marks the attempt accepted and funded; PROCESSING flips just
	// before the model call. A crash while queued is then distinguishable
	// from a crash mid-generation, and either leaves an observable state
	// instead of silently reverting.
	rep.Status = domain.ReportStatusPending
	if err := s.reports.UpdateStatus(rep.ID, rep.Status); err != nil {
		return nil, err
	}
	rep.Status = domain.ReportStatusProcessing
	if err := s.reports.UpdateStatus(rep.ID, rep.Status); err != nil {
		return nil, err
	}

	content, genErr := s.generator.Generate(ctx, s.buildGenerationRequest(rep))
	if genErr != nil {
		log.Printf("[report] generation failed: report=%d user=%d err=%v", rep.ID, userID, genErr)
		rep.Status = domain.ReportStatusFailed
		rep.Content = "Report generation failed: " + genErr.Error()
		if err := s.reports.Update(rep); err != nil {
			return nil, err
		}
		return rep, fmt.Errorf("%w: %v", ErrGenerationFailed, genErr)
	}

	// Debit strictly after success, at most once per attempt. A concurrent
	// spender can still drain the wallet between the pre-check and here;
	// the guarded deduction turns that race into a failed attempt with no
	// charge.
	if _, err := s.credits.DeductCredits(user, s.cost, domain.TxReportUsage,
		fmt.Sprintf("%d", rep.ID), "Generated report: "+rep.Title); err != nil {
		rep.Status = domain.ReportStatusFailed
		rep.Content = "Report generation failed: " + err.Error()
		if uerr := s.reports.Update(rep); uerr != nil {
			return nil, uerr
		}
		return rep, err
	}

	now := time.Now()
	rep.Content = content
	rep.Status = domain.ReportStatusGenerated
	rep.AIModel = s.generator.Model()
	rep.CreditsUsed = s.cost
	rep.CompletedAt = &now
	if err := s.reports.Update(rep); err != nil {
		return nil, err
	}
	return rep, nil
}

func (s *ReportService) buildGenerationRequest(rep *models.Report) openai.GenerationRequest {
	req := openai.GenerationRequest{
		Title:      rep.Title,
		Industry:   rep.Industry,
		ReportType: rep.ReportType,
		Audience:   rep.Audience,
		Purpose:    rep.Purpose,
		Tone:       rep.Tone,
		Depth:      rep.Depth,
	}
	if rep.TemplateID != nil {
		if tpl, err := s.templates.GetByID(*rep.TemplateID); err == nil {
			req.SystemPrompt = tpl.SystemPrompt
			req.UserPrompt = tpl.CalculationPrompt
			if tpl.OutputFormatPrompt != "" {
				req.UserPrompt += "\n\n" + tpl.OutputFormatPrompt
			}
		}
	}
	if inputs, err := s.reports.ListInputs(rep.ID); err == nil && len(inputs) > 0 {
		req.Inputs = make(map[string]string, len(inputs))
		for _, in := range inputs {
			req.Inputs[in.FieldKey] = in.Value
			req.InputKeys = append(req.InputKeys, in.FieldKey)
		}
	}
	if files, err := s.files.ListByReport(rep.ID); err == nil {
		for _, f := range files {
			req.FileExcerpts = append(req.FileExcerpts, openai.FileExcerpt{
				Filename:    f.OriginalFilename,
				ContentType: f.ContentType,
				Text:        f.ExtractedText,
			})
		}
	}
	return req
}

// GetOwned returns the report if it exists and belongs to the user.
func (s *ReportService) GetOwned(reportID, userID uint) (*models.Report, error) {
	rep, err := s.reports.GetByID(reportID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrReportNotFound
		}
		return nil, err
	}
	if rep.UserID != userID {
		return nil, ErrAccessDenied
	}
	return rep, nil
}

func (s *ReportService) ListMine(userID uint) ([]models.Report, error) {
	return s.reports.ListByUser(userID)
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
