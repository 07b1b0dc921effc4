package database

import (
	"log"

	"reportly/config"
	"reportly/internal/models"

	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func NewDB(cfg *config.DatabaseConfig) (*gorm.DB, error) {
	db, err := gorm.Open(mysql.Open(cfg.DSN), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Error), // Only log errors, not every SQL query
	})
	if err != nil {
		return nil, err
	}
	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	sqlDB.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	return db, nil
}

// AutoMigrate runs Gorm auto-migration for all models.
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.User{},
		&models.CreditWallet{},
		&models.CreditTransaction{},
		&models.ReportTemplate{},
		&models.InputField{},
		&models.Report{},
		&models.ReportInput{},
		&models.UploadedFile{},
		&models.Payment{},
		&models.SubscriptionPlan{},
		&models.UserSubscription{},
		&models.AuditLog{},
	)
}

// SeedPlans inserts the default subscription plans once.
func SeedPlans(db *gorm.DB) {
	var count int64
	db.Model(&models.SubscriptionPlan{}).Count(&count)
	if count > 0 {
		return
	}
	plans := []models.SubscriptionPlan{
		{
			Name:               "Free",
			MonthlyPriceCents:  0,
			CreditsPerMonth:    10,
			MaxReportsPerMonth: 5,
			FeaturesJSON:       `["10 credits/month", "5 reports/month", "Basic templates", "Email support"]`,
			SortOrder:          0,
		},
		{
			Name:               "Pro",
			MonthlyPriceCents:  2999,
			CreditsPerMonth:    100,
			MaxReportsPerMonth: 50,
			FeaturesJSON:       `["100 credits/month", "50 reports/month", "All templates", "Priority support", "Custom branding"]`,
			SortOrder:          1,
		},
		{
			Name:               "Enterprise",
			MonthlyPriceCents:  9999,
			CreditsPerMonth:    500,
			MaxReportsPerMonth: 999,
			FeaturesJSON:       `["500 credits/month", "Unlimited reports", "All templates", "24/7 support", "Custom branding", "API access"]`,
			SortOrder:          2,
		},
	}
	for i := range plans {
		if err := db.Create(&plans[i]).Error; err != nil {
			log.Printf("[seed] plan %s: %v", plans[i].Name, err)
		}
	}
}

// SeedTemplates inserts a couple of starter report templates once.
func SeedTemplates(db *gorm.DB) {
	var count int64
	db.Model(&models.ReportTemplate{}).Count(&count)
	if count > 0 {
		return
	}
	templates := []struct {
		tpl    models.ReportTemplate
		fields []models.InputField
	}{
		{
			tpl: models.ReportTemplate{
				ToolID:       "cash-flow-analysis",
				Title:        "Cash Flow Analysis",
				Description:  "Analyze cash inflows and outflows over a period",
				Category:     "finance",
				Industry:     "General",
				SystemPrompt: "You are a senior financial analyst writing for business stakeholders.",
			},
			fields: []models.InputField{
				{FieldKey: "period", Label: "Reporting period", FieldType: "text", Required: true, SortOrder: 0},
				{FieldKey: "opening_balance", Label: "Opening balance", FieldType: "number", SortOrder: 1},
				{FieldKey: "notes", Label: "Additional notes", FieldType: "textarea", SortOrder: 2},
			},
		},
		{
			tpl: models.ReportTemplate{
				ToolID:       "market-overview",
				Title:        "Market Overview",
				Description:  "High level overview of a target market",
				Category:     "strategy",
				Industry:     "General",
				SystemPrompt: "You are a market research consultant producing an executive briefing.",
			},
			fields: []models.InputField{
				{FieldKey: "market", Label: "Target market", FieldType: "text", Required: true, SortOrder: 0},
				{FieldKey: "competitors", Label: "Known competitors", FieldType: "textarea", SortOrder: 1},
			},
		},
	}
	for i := range templates {
		t := &templates[i]
		if err := db.Create(&t.tpl).Error; err != nil {
			log.Printf("[seed] template %s: %v", t.tpl.ToolID, err)
			continue
		}
		for j := range t.fields {
			t.fields[j].TemplateID = t.tpl.ID
			if err := db.Create(&t.fields[j]).Error; err != nil {
				log.Printf("[seed] field %s.%s: %v", t.tpl.ToolID, t.fields[j].FieldKey, err)
			}
		}
	}
}
