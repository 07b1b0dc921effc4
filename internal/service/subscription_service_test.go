package service

import (
	"testing"

	"reportly/internal/domain"
	"reportly/internal/models"
	"reportly/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func seedTestPlans(t *testing.T, db *gorm.DB) (free, pro models.SubscriptionPlan) {
	t.Helper()
	free = models.SubscriptionPlan{Name: "Free", CreditsPerMonth: 10, MaxReportsPerMonth: 10, IsActive: true, SortOrder: 1}
	pro = models.SubscriptionPlan{Name: "Pro", MonthlyPriceCents: 2999, CreditsPerMonth: 100, MaxReportsPerMonth: 100, IsActive: true, SortOrder: 2}
	require.NoError(t, db.Create(&free).Error)
	require.NoError(t, db.Create(&pro).Error)
	return free, pro
}

func TestSubscribeGrantsMonthlyCredits(t *testing.T) {
	db := newTestDB(t)
	credits := NewCreditService(db, testCreditsConfig())
	svc := NewSubscriptionService(db, repository.NewSubscriptionRepository(db), repository.NewUserRepository(db), credits)
	_, pro := seedTestPlans(t, db)
	user := newTestUser(t, db, "sub@example.com", 0)

	sub, err := svc.Subscribe(user, pro.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.SubscriptionActive, sub.Status)
	assert.True(t, sub.EndDate.After(sub.StartDate))
	assert.Equal(t, "Pro", user.Plan)

	balance, err := credits.GetBalance(user)
	require.NoError(t, err)
	assert.Equal(t, int64(100), balance)

	txns, err := credits.GetTransactionHistory(user.ID, 0)
	require.NoError(t, err)
	require.Len(t, txns, 1)
	assert.Equal(t, domain.TxSubscriptionGrant, txns[0].Kind)
}

func TestSubscribeReplacesActiveSubscription(t *testing.T) {
	db := newTestDB(t)
	credits := NewCreditService(db, testCreditsConfig())
	subRepo := repository.NewSubscriptionRepository(db)
	svc := NewSubscriptionService(db, subRepo, repository.NewUserRepository(db), credits)
	free, pro := seedTestPlans(t, db)
	user := newTestUser(t, db, "upgrade@example.com", 0)

	first, err := svc.Subscribe(user, free.ID)
	require.NoError(t, err)

	second, err := svc.Subscribe(user, pro.ID)
	require.NoError(t, err)

	var old models.UserSubscription
	require.NoError(t, db.First(&old, first.ID).Error)
	assert.Equal(t, domain.SubscriptionCancelled, old.Status)

	active, err := subRepo.GetActiveByUser(user.ID)
	require.NoError(t, err)
	assert.Equal(t, second.ID, active.ID)
	assert.Equal(t, pro.ID, active.PlanID)

	// 10 from Free, then 100 from Pro
	balance, err := credits.GetBalance(user)
	require.NoError(t, err)
	assert.Equal(t, int64(110), balance)
}

func TestSubscribeRollsBackOnFailedGrant(t *testing.T) {
	db := newTestDB(t)
	credits := NewCreditService(db, testCreditsConfig())
	subRepo := repository.NewSubscriptionRepository(db)
	svc := NewSubscriptionService(db, subRepo, repository.NewUserRepository(db), credits)
	free, _ := seedTestPlans(t, db)
	broken := models.SubscriptionPlan{Name: "Broken", CreditsPerMonth: 0, IsActive: true, SortOrder: 3}
	require.NoError(t, db.Create(&broken).Error)
	user := newTestUser(t, db, "rollback@example.com", 0)

	first, err := svc.Subscribe(user, free.ID)
	require.NoError(t, err)

	// The zero-credit plan fails the grant; the cancel, the new row and the
	// plan column change must all roll back with it.
	_, err = svc.Subscribe(user, broken.ID)
	require.ErrorIs(t, err, ErrInvalidAmount)

	active, err := subRepo.GetActiveByUser(user.ID)
	require.NoError(t, err)
	assert.Equal(t, first.ID, active.ID)

	var count int64
	require.NoError(t, db.Model(&models.UserSubscription{}).Where("user_id = ?", user.ID).Count(&count).Error)
	assert.Equal(t, int64(1), count)

	var stored models.User
	require.NoError(t, db.First(&stored, user.ID).Error)
	assert.Equal(t, "Free", stored.Plan)

	balance, err := credits.GetBalance(user)
	require.NoError(t, err)
	assert.Equal(t, int64(10), balance)
}

func TestSubscribeUnknownPlan(t *testing.T) {
	db := newTestDB(t)
	credits := NewCreditService(db, testCreditsConfig())
	svc := NewSubscriptionService(db, repository.NewSubscriptionRepository(db), repository.NewUserRepository(db), credits)
	user := newTestUser(t, db, "noplan@example.com", 0)

	_, err := svc.Subscribe(user, 999)
	assert.ErrorIs(t, err, ErrPlanNotFound)
}

func TestCurrentWithoutSubscription(t *testing.T) {
	db := newTestDB(t)
	credits := NewCreditService(db, testCreditsConfig())
	svc := NewSubscriptionService(db, repository.NewSubscriptionRepository(db), repository.NewUserRepository(db), credits)
	user := newTestUser(t, db, "none@example.com", 0)

	sub, plan, err := svc.Current(user.ID)
	require.NoError(t, err)
	assert.Nil(t, sub)
	assert.Nil(t, plan)
}
