package repository

import (
	"reportly/internal/models"

	"gorm.io/gorm"
)

type ReportRepository struct {
	db *gorm.DB
}

func NewReportRepository(db *gorm.DB) *ReportRepository {
	return &ReportRepository{db: db}
}

func (r *ReportRepository) Create(rep *models.Report) error {
	return r.db.Create(rep).Error
}

func (r *ReportRepository) GetByID(id uint) (*models.Report, error) {
	var rep models.Report
	if err := r.db.First(&rep, id).Error; err != nil {
		return nil, err
	}
	return &rep, nil
}

func (r *ReportRepository) ListByUser(userID uint) ([]models.Report, error) {
	var reports []models.Report
	err := r.db.Where("user_id = ?", userID).Order("created_at DESC").Find(&reports).Error
	return reports, err
}

func (r *ReportRepository) Update(rep *models.Report) error {
	return r.db.Save(rep).Error
}

// UpdateStatus persists only the status column. Used to make the
// PROCESSING transition observable before the generation call starts.
func (r *ReportRepository) UpdateStatus(id uint, status string) error {
	return r.db.Model(&models.Report{}).Where("id = ?", id).Update("status", status).Error
}

func (r *ReportRepository) CreateInput(in *models.ReportInput) error {
	return r.db.Create(in).Error
}

func (r *ReportRepository) ListInputs(reportID uint) ([]models.ReportInput, error) {
	var inputs []models.ReportInput
	err := r.db.Where("report_id = ?", reportID).Find(&inputs).Error
	return inputs, err
}
