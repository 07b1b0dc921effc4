package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"reportly/config"
	"reportly/internal/database"
	"reportly/internal/router"
	"reportly/pkg/cloudinary"
	"reportly/pkg/openai"
	"reportly/pkg/payment"
)

func main() {
	cfg := config.Load()
	db, err := database.NewDB(&cfg.Database)
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	if err := database.AutoMigrate(db); err != nil {
		log.Fatalf("migrate: %v", err)
	}
	database.SeedPlans(db)
	database.SeedTemplates(db)

	var cloud cloudinary.Client
	if cfg.Cloudinary.CloudName != "" {
		cloud, err = cloudinary.NewClientFromParams(cfg.Cloudinary.CloudName, cfg.Cloudinary.APIKey, cfg.Cloudinary.APISecret)
		if err != nil {
			log.Fatalf("cloudinary: %v", err)
		}
	} else {
		log.Printf("[cloudinary] disabled: set CLOUDINARY_CLOUD_NAME to enable avatar uploads")
	}

	var generator openai.Generator
	if cfg.OpenAI.APIKey != "" {
		generator = openai.NewClient(cfg.OpenAI.APIKey, cfg.OpenAI.Model, cfg.OpenAI.BaseURL, cfg.OpenAI.Timeout)
		log.Printf("[openai] report generation enabled: model=%s", cfg.OpenAI.Model)
	} else {
		generator = openai.MockGenerator{}
		log.Printf("[openai] no API key, using mock generator")
	}

	var provider payment.Provider
	demoMode := cfg.Payment.APIKey == ""
	if demoMode {
		provider = &payment.StubProvider{}
		log.Printf("[payment] no gateway key, purchases auto-complete (demo mode)")
	} else {
		provider = payment.NewPaysecureProvider(cfg.Payment.BaseURL, cfg.Payment.APIKey)
	}

	engine := router.Setup(cfg, db, cloud, generator, provider, demoMode)
	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      engine,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}
	go func() {
		log.Printf("server listening on :%s", cfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen: %v", err)
		}
	}()
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("shutting down...")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("server shutdown:", err)
	}
	fmt.Println("server stopped")
}
