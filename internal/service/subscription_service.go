package service

import (
	"errors"
	"fmt"
	"time"

	"reportly/internal/domain"
	"reportly/internal/models"
	"reportly/internal/repository"

	"gorm.io/gorm"
)

var ErrPlanNotFound = errors.New("subscription plan not found")

// SubscriptionService manages plan membership; subscribing grants the plan's
// monthly credits through the ledger.
type SubscriptionService struct {
	db      *gorm.DB
	subs    *repository.SubscriptionRepository
	users   *repository.UserRepository
	credits *CreditService
}

func NewSubscriptionService(db *gorm.DB, subs *repository.SubscriptionRepository, users *repository.UserRepository, credits *CreditService) *SubscriptionService {
	return &SubscriptionService{db: db, subs: subs, users: users, credits: credits}
}

func (s *SubscriptionService) ActivePlans() ([]models.SubscriptionPlan, error) {
	return s.subs.ListActivePlans()
}

func (s *SubscriptionService) Current(userID uint) (*models.UserSubscription, *models.SubscriptionPlan, error) {
	sub, err := s.subs.GetActiveByUser(userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, nil
		}
		return nil, nil, err
	}
	plan, err := s.subs.GetPlanByID(sub.PlanID)
	if err != nil {
		return sub, nil, err
	}
	return sub, plan, nil
}

// Subscribe cancels any active subscription, starts a 30-day one on the
// given plan, updates the user's plan name and grants the monthly credits.
// All of it commits in one database transaction: a failed grant leaves the
// previous subscription active and the user's plan untouched.
func (s *SubscriptionService) Subscribe(user *models.User, planID uint) (*models.UserSubscription, error) {
	plan, err := s.subs.GetPlanByID(planID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPlanNotFound
		}
		return nil, err
	}

	sub := &models.UserSubscription{
		UserID:    user.ID,
		PlanID:    plan.ID,
		Status:    domain.SubscriptionActive,
		StartDate: time.Now(),
		EndDate:   time.Now().Add(30 * 24 * time.Hour),
	}
	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.UserSubscription{}).
			Where("user_id = ? AND status = ?", user.ID, domain.SubscriptionActive).
			Update("status", domain.SubscriptionCancelled).Error; err != nil {
			return err
		}
		if err := tx.Create(sub).Error; err != nil {
			return err
		}
		if err := tx.Model(&models.User{}).Where("id = ?", user.ID).Update("plan", plan.Name).Error; err != nil {
			return err
		}
		_, err := s.credits.AddCreditsTx(tx, user, plan.CreditsPerMonth, domain.TxSubscriptionGrant,
			fmt.Sprintf("%d", sub.ID), fmt.Sprintf("Monthly credits from %s subscription", plan.Name))
		return err
	})
	if err != nil {
		return nil, err
	}
	user.Plan = plan.Name
	return sub, nil
}
