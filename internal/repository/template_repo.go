package repository

import (
	"reportly/internal/models"

	"gorm.io/gorm"
)

type TemplateRepository struct {
	db *gorm.DB
}

func NewTemplateRepository(db *gorm.DB) *TemplateRepository {
	return &TemplateRepository{db: db}
}

func (r *TemplateRepository) Create(t *models.ReportTemplate) error {
	return r.db.Create(t).Error
}

func (r *TemplateRepository) GetByID(id uint) (*models.ReportTemplate, error) {
	var t models.ReportTemplate
	if err := r.db.First(&t, id).Error; err != nil {
		return nil, err
	}
	return &t, nil
}

func (r *TemplateRepository) GetByToolID(toolID string) (*models.ReportTemplate, error) {
	var t models.ReportTemplate
	if err := r.db.Where("tool_id = ?", toolID).First(&t).Error; err != nil {
		return nil, err
	}
	return &t, nil
}

func (r *TemplateRepository) ListActive() ([]models.ReportTemplate, error) {
	var templates []models.ReportTemplate
	err := r.db.Where("is_active = ?", true).Order("category, title").Find(&templates).Error
	return templates, err
}

func (r *TemplateRepository) Update(t *models.ReportTemplate) error {
	return r.db.Save(t).Error
}

func (r *TemplateRepository) Delete(id uint) error {
	return r.db.Delete(&models.ReportTemplate{}, id).Error
}

func (r *TemplateRepository) ListFields(templateID uint) ([]models.InputField, error) {
	var fields []models.InputField
	err := r.db.Where("template_id = ?", templateID).Order("sort_order").Find(&fields).Error
	return fields, err
}

func (r *TemplateRepository) CreateField(f *models.InputField) error {
	return r.db.Create(f).Error
}

func (r *TemplateRepository) DeleteFields(templateID uint) error {
	return r.db.Where("template_id = ?", templateID).Delete(&models.InputField{}).Error
}
