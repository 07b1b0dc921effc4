package service

import (
	"testing"

	"reportly/config"
	"reportly/internal/models"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// newTestDB opens a private in-memory database per test. A single connection
// keeps concurrent writes serialized the same way for every run.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	require.NoError(t, db.AutoMigrate(
		&models.User{},
		&models.CreditWallet{},
		&models.CreditTransaction{},
		&models.Report{},
		&models.ReportInput{},
		&models.ReportTemplate{},
		&models.InputField{},
		&models.UploadedFile{},
		&models.Payment{},
		&models.SubscriptionPlan{},
		&models.UserSubscription{},
	))
	return db
}

func newTestUser(t *testing.T, db *gorm.DB, email string, credits int64) *models.User {
	t.Helper()
	u := &models.User{Email: email, FullName: "Test User", Role: "USER", Credits: credits}
	require.NoError(t, db.Create(u).Error)
	return u
}

func testCreditsConfig() *config.CreditsConfig {
	return &config.CreditsConfig{ReportCost: 1, SignupGrant: 1000, LedgerRetries: 3}
}
