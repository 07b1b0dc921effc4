package router

import (
	"reportly/config"
	"reportly/internal/domain"
	"reportly/internal/handler"
	"reportly/internal/middleware"
	"reportly/internal/repository"
	"reportly/internal/service"
	"reportly/pkg/cloudinary"
	"reportly/pkg/openai"
	"reportly/pkg/payment"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

func Setup(cfg *config.Config, db *gorm.DB, cloud cloudinary.Client, generator openai.Generator, provider payment.Provider, demoMode bool) *gin.Engine {
	if cfg.Server.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RateLimit(middleware.NewRateLimiter(&cfg.Server)))

	// Repositories
	userRepo := repository.NewUserRepository(db)
	reportRepo := repository.NewReportRepository(db)
	templateRepo := repository.NewTemplateRepository(db)
	paymentRepo := repository.NewPaymentRepository(db)
	subscriptionRepo := repository.NewSubscriptionRepository(db)
	fileRepo := repository.NewFileRepository(db)
	auditRepo := repository.NewAuditLogRepository(db)

	// Services
	authSvc := service.NewAuthService(cfg, userRepo)
	creditSvc := service.NewCreditService(db, &cfg.Credits)
	reportSvc := service.NewReportService(reportRepo, templateRepo, fileRepo, userRepo, creditSvc, generator, cfg.Credits.ReportCost)
	paymentSvc := service.NewPaymentService(db, &cfg.Payment, paymentRepo, userRepo, creditSvc, provider, demoMode)
	subscriptionSvc := service.NewSubscriptionService(db, subscriptionRepo, userRepo, creditSvc)

	// Handlers
	authHandler := handler.NewAuthHandler(authSvc, auditRepo)
	googleOAuthHandler := handler.NewGoogleOAuthHandler(cfg, authSvc, auditRepo)
	meHandler := handler.NewMeHandler(userRepo, cloud)
	toolHandler := handler.NewToolHandler(templateRepo)
	reportHandler := handler.NewReportHandler(reportSvc, fileRepo)
	creditHandler := handler.NewCreditHandler(creditSvc, userRepo)
	paymentHandler := handler.NewPaymentHandler(paymentSvc, userRepo)
	webhookHandler := handler.NewPaymentWebhookHandler(paymentSvc, auditRepo, cfg.Payment.WebhookSecret)
	subscriptionHandler := handler.NewSubscriptionHandler(subscriptionSvc, userRepo)
	adminHandler := handler.NewAdminHandler(templateRepo, userRepo, creditSvc, auditRepo)

	authMw := middleware.AuthRequired(&cfg.JWT)

	api := r.Group("/api/v1")
	{
		authGroup := api.Group("/auth")
		{
			authGroup.POST("/register", authHandler.Register)
			authGroup.POST("/login", authHandler.Login)
			authGroup.POST("/logout", authMw, authHandler.Logout)
			authGroup.PATCH("/change-password", authMw, authHandler.ChangePassword)
			authGroup.POST("/refresh", authHandler.Refresh)
			authGroup.GET("/google", googleOAuthHandler.Redirect)
			authGroup.GET("/google/callback", googleOAuthHandler.Callback)
			authGroup.POST("/google/token", googleOAuthHandler.Token)
		}

		me := api.Group("/me")
		me.Use(authMw)
		{
			me.GET("/profile", meHandler.GetProfile)
			me.PATCH("/profile", meHandler.UpdateProfile)
			me.POST("/avatar", meHandler.UploadAvatar)
		}

		tools := api.Group("/tools")
		{
			tools.GET("", toolHandler.List)
			tools.GET("/:tool_id", toolHandler.Get)
			tools.GET("/:tool_id/fields", toolHandler.GetFields)
		}

		reports := api.Group("/reports")
		reports.Use(authMw)
		{
			reports.POST("", reportHandler.Create)
			reports.GET("", reportHandler.ListMine)
			reports.GET("/:id", reportHandler.Get)
			reports.POST("/:id/generate", reportHandler.Generate)
			reports.POST("/:id/files", reportHandler.AttachFile)
		}

		credits := api.Group("/credits")
		credits.Use(authMw)
		{
			credits.GET("/balance", creditHandler.GetBalance)
			credits.GET("/transactions", creditHandler.GetTransactions)
		}

		payments := api.Group("/payments")
		{
			payments.GET("/packages", paymentHandler.ListPackages)
			payments.POST("/purchase", authMw, paymentHandler.Purchase)
			payments.GET("/history", authMw, paymentHandler.History)
		}

		api.POST("/webhooks/payment", webhookHandler.Handle)

		subscriptions := api.Group("/subscriptions")
		{
			subscriptions.GET("/plans", subscriptionHandler.ListPlans)
			subscriptions.GET("/current", authMw, subscriptionHandler.Current)
			subscriptions.POST("", authMw, subscriptionHandler.Subscribe)
		}

		admin := api.Group("/admin")
		admin.Use(authMw, middleware.RequireRole(domain.RoleAdmin))
		{
			admin.POST("/templates", adminHandler.CreateTemplate)
			admin.PUT("/templates/:id", adminHandler.UpdateTemplate)
			admin.DELETE("/templates/:id", adminHandler.DeleteTemplate)
			admin.POST("/credits/adjust", adminHandler.AdjustCredits)
		}
	}

	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	return r
}
