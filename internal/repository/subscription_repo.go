package repository

import (
	"reportly/internal/models"

	"gorm.io/gorm"
)

type SubscriptionRepository struct {
	db *gorm.DB
}

func NewSubscriptionRepository(db *gorm.DB) *SubscriptionRepository {
	return &SubscriptionRepository{db: db}
}

func (r *SubscriptionRepository) ListActivePlans() ([]models.SubscriptionPlan, error) {
	var plans []models.SubscriptionPlan
	err := r.db.Where("is_active = ?", true).Order("sort_order").Find(&plans).Error
	return plans, err
}

func (r *SubscriptionRepository) GetPlanByID(id uint) (*models.SubscriptionPlan, error) {
	var p models.SubscriptionPlan
	if err := r.db.First(&p, id).Error; err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *SubscriptionRepository) GetActiveByUser(userID uint) (*models.UserSubscription, error) {
	var s models.UserSubscription
	if err := r.db.Where("user_id = ? AND status = ?", userID, "ACTIVE").First(&s).Error; err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *SubscriptionRepository) Create(s *models.UserSubscription) error {
	return r.db.Create(s).Error
}

func (r *SubscriptionRepository) Update(s *models.UserSubscription) error {
	return r.db.Save(s).Error
}
