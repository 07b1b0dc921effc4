package repository

import (
	"reportly/internal/models"

	"gorm.io/gorm"
)

type FileRepository struct {
	db *gorm.DB
}

func NewFileRepository(db *gorm.DB) *FileRepository {
	return &FileRepository{db: db}
}

func (r *FileRepository) Create(f *models.UploadedFile) error {
	return r.db.Create(f).Error
}

func (r *FileRepository) ListByReport(reportID uint) ([]models.UploadedFile, error) {
	var files []models.UploadedFile
	err := r.db.Where("report_id = ?", reportID).Order("created_at").Find(&files).Error
	return files, err
}
