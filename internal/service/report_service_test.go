package service

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"reportly/internal/domain"
	"reportly/internal/models"
	"reportly/internal/repository"
	"reportly/pkg/openai"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// scriptedGenerator returns queued results in order, repeating the last one.
type scriptedGenerator struct {
	results []scriptedResult
	calls   int
}

type scriptedResult struct {
	content string
	err     error
}

func (g *scriptedGenerator) Model() string { return "scripted" }

func (g *scriptedGenerator) Generate(_ context.Context, _ openai.GenerationRequest) (string, error) {
	i := g.calls
	if i >= len(g.results) {
		i = len(g.results) - 1
	}
	g.calls++
	r := g.results[i]
	return r.content, r.err
}

type reportFixture struct {
	db      *gorm.DB
	credits *CreditService
	svc     *ReportService
	gen     *scriptedGenerator
	user    *models.User
}

func newReportFixture(t *testing.T, balance int64, results ...scriptedResult) *reportFixture {
	t.Helper()
	db := newTestDB(t)
	credits := NewCreditService(db, testCreditsConfig())
	gen := &scriptedGenerator{results: results}
	svc := NewReportService(
		repository.NewReportRepository(db),
		repository.NewTemplateRepository(db),
		repository.NewFileRepository(db),
		repository.NewUserRepository(db),
		credits,
		gen,
		1,
	)
	user := newTestUser(t, db, "reports@example.com", balance)
	return &reportFixture{db: db, credits: credits, svc: svc, gen: gen, user: user}
}

func (f *reportFixture) createReport(t *testing.T) *models.Report {
	t.Helper()
	rep, err := f.svc.Create(f.user.ID, CreateReportParams{
		ToolID:   "cash-flow-analysis",
		Title:    "Q3 Cash Flow",
		Industry: "Retail",
		Inputs:   map[string]string{"revenue": "120000", "expenses": "90000"},
	})
	require.NoError(t, err)
	require.Equal(t, domain.ReportStatusDraft, rep.Status)
	return rep
}

func TestCreateStoresDraftWithInputs(t *testing.T) {
	f := newReportFixture(t, 10)
	rep := f.createReport(t)

	var inputs []models.ReportInput
	require.NoError(t, f.db.Where("report_id = ?", rep.ID).Order("field_key").Find(&inputs).Error)
	require.Len(t, inputs, 2)
	assert.Equal(t, "expenses", inputs[0].FieldKey)
	assert.Equal(t, "revenue", inputs[1].FieldKey)
}

func TestGenerateSuccessDebitsExactlyOnce(t *testing.T) {
	f := newReportFixture(t, 10, scriptedResult{content: "# Q3 Cash Flow\n\nLooks healthy."})
	rep := f.createReport(t)

	got, err := f.svc.Generate(context.Background(), rep.ID, f.user.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.ReportStatusGenerated, got.Status)
	assert.Contains(t, got.Content, "Looks healthy")
	assert.Equal(t, "scripted", got.AIModel)
	assert.Equal(t, int64(1), got.CreditsUsed)
	require.NotNil(t, got.CompletedAt)

	balance, err := f.credits.GetBalance(f.user)
	require.NoError(t, err)
	assert.Equal(t, int64(9), balance)

	txns, err := f.credits.GetTransactionHistory(f.user.ID, 0)
	require.NoError(t, err)
	require.Len(t, txns, 1)
	assert.Equal(t, domain.TxReportUsage, txns[0].Kind)
	assert.Equal(t, int64(-1), txns[0].Delta)
	assert.Equal(t, fmt.Sprintf("%d", rep.ID), txns[0].ReferenceID)
}

func TestGenerateFailureIsFree(t *testing.T) {
	f := newReportFixture(t, 10, scriptedResult{err: errors.New("model overloaded")})
	rep := f.createReport(t)

	got, err := f.svc.Generate(context.Background(), rep.ID, f.user.ID)
	assert.ErrorIs(t, err, ErrGenerationFailed)
	require.NotNil(t, got)
	assert.Equal(t, domain.ReportStatusFailed, got.Status)
	assert.Contains(t, got.Content, "Report generation failed:")
	assert.Contains(t, got.Content, "model overloaded")

	balance, err := f.credits.GetBalance(f.user)
	require.NoError(t, err)
	assert.Equal(t, int64(10), balance, "a failed generation must not charge")

	txns, err := f.credits.GetTransactionHistory(f.user.ID, 0)
	require.NoError(t, err)
	assert.Empty(t, txns)
}

func TestGenerateWalksLifecycleStatuses(t *testing.T) {
	f := newReportFixture(t, 10, scriptedResult{content: "done"})
	rep := f.createReport(t)

	// Record every status written for the report: PENDING once the attempt
	// is accepted and funded, PROCESSING just before the model call.
	var transitions []string
	err := f.db.Callback().Update().After("gorm:update").Register("record_report_status", func(tx *gorm.DB) {
		if tx.Statement.Table != "reports" {
			return
		}
		if dest, ok := tx.Statement.Dest.(map[string]interface{}); ok {
			if status, ok := dest["status"].(string); ok {
				transitions = append(transitions, status)
			}
		}
	})
	require.NoError(t, err)

	got, err := f.svc.Generate(context.Background(), rep.ID, f.user.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.ReportStatusGenerated, got.Status)
	assert.Equal(t, []string{domain.ReportStatusPending, domain.ReportStatusProcessing}, transitions)
}

func TestGenerateInsufficientCreditsLeavesReportUntouched(t *testing.T) {
	f := newReportFixture(t, 0, scriptedResult{content: "never called"})
	rep := f.createReport(t)

	_, err := f.svc.Generate(context.Background(), rep.ID, f.user.ID)
	assert.ErrorIs(t, err, ErrInsufficientCredits)
	assert.Zero(t, f.gen.calls, "generation must not start without credits")

	reloaded, err := f.svc.GetOwned(rep.ID, f.user.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.ReportStatusDraft, reloaded.Status)
	assert.Empty(t, reloaded.Content)
}

func TestGenerateDeniedForForeignReport(t *testing.T) {
	f := newReportFixture(t, 10, scriptedResult{content: "never called"})
	rep := f.createReport(t)
	other := newTestUser(t, f.db, "other@example.com", 10)

	_, err := f.svc.Generate(context.Background(), rep.ID, other.ID)
	assert.ErrorIs(t, err, ErrAccessDenied)
	assert.Zero(t, f.gen.calls)

	reloaded, err := f.svc.GetOwned(rep.ID, f.user.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.ReportStatusDraft, reloaded.Status)
}

func TestGenerateUnknownReport(t *testing.T) {
	f := newReportFixture(t, 10, scriptedResult{content: "unused"})
	_, err := f.svc.Generate(context.Background(), 9999, f.user.ID)
	assert.ErrorIs(t, err, ErrReportNotFound)
}

func TestRegenerateAfterFailureChargesOnlyForSuccess(t *testing.T) {
	f := newReportFixture(t, 5,
		scriptedResult{err: errors.New("timeout")},
		scriptedResult{content: "second attempt content"},
	)
	rep := f.createReport(t)

	_, err := f.svc.Generate(context.Background(), rep.ID, f.user.ID)
	assert.ErrorIs(t, err, ErrGenerationFailed)

	got, err := f.svc.Generate(context.Background(), rep.ID, f.user.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.ReportStatusGenerated, got.Status)
	assert.Contains(t, got.Content, "second attempt content")

	balance, err := f.credits.GetBalance(f.user)
	require.NoError(t, err)
	assert.Equal(t, int64(4), balance, "only the successful attempt is charged")

	txns, err := f.credits.GetTransactionHistory(f.user.ID, 0)
	require.NoError(t, err)
	assert.Len(t, txns, 1)
}

func TestGetOwned(t *testing.T) {
	f := newReportFixture(t, 10)
	rep := f.createReport(t)
	other := newTestUser(t, f.db, "intruder@example.com", 0)

	got, err := f.svc.GetOwned(rep.ID, f.user.ID)
	require.NoError(t, err)
	assert.Equal(t, rep.ID, got.ID)

	_, err = f.svc.GetOwned(rep.ID, other.ID)
	assert.ErrorIs(t, err, ErrAccessDenied)

	_, err = f.svc.GetOwned(12345, f.user.ID)
	assert.ErrorIs(t, err, ErrReportNotFound)
}
