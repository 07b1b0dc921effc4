package config

import (
	"os"
	"strconv"
	"time"
)

type Config struct {
	Server     ServerConfig
	Database   DatabaseConfig
	JWT        JWTConfig
	OAuth      OAuthConfig
	Cloudinary CloudinaryConfig
	OpenAI     OpenAIConfig
	Payment    PaymentConfig
	Credits    CreditsConfig
}

type ServerConfig struct {
	Port         string
	Env          string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	RateLimit    int           // requests allowed per client per window
	RateWindow   time.Duration // sliding window for the rate limiter
}

type DatabaseConfig struct {
	DSN             string
	MaxIdleConns    int
	MaxOpenConns    int
	ConnMaxLifetime time.Duration
}

type JWTConfig struct {
	AccessSecret  string
	RefreshSecret string
	AccessExpiry  time.Duration
	RefreshExpiry time.Duration
	Issuer        string
}

type OAuthConfig struct {
	GoogleClientID     string
	GoogleClientSecret string
	GoogleRedirectURL  string
}

type CloudinaryConfig struct {
	CloudName string
	APIKey    string
	APISecret string
}

type OpenAIConfig struct {
	APIKey  string
	Model   string
	BaseURL string
	Timeout time.Duration // generation is a long blocking call
}

// CreditPackage is one purchasable credit bundle. Packages are configuration,
// not a process-wide constant, so deployments can reprice without a rebuild.
type CreditPackage struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Credits     int64  `json:"credits"`
	PriceCents  int64  `json:"price_cents"`
	Description string `json:"description"`
}

type PaymentConfig struct {
	BaseURL        string
	APIKey         string
	WebhookSecret  string
	PaymentExpiry  time.Duration
	WebhookBaseURL string // callback will be WebhookBaseURL + /api/v1/webhooks/payment
	Packages       []CreditPackage
}

type CreditsConfig struct {
	ReportCost    int64 // credits deducted per successful generation
	SignupGrant   int64 // credits granted at registration
	LedgerRetries int   // bounded retries on wallet write contention
}

func Load() *Config {
	return &Config{
		Server: ServerConfig{
			Port:        getenv("PORT", "8088"),
			Env:         getenv("APP_ENV", "development"),
			ReadTimeout: 10 * time.Second,
			// Report generation holds the response open for up to three
			// minutes, so the write timeout must exceed the OpenAI timeout.
			WriteTimeout: 200 * time.Second,
			RateLimit:    getenvInt("RATE_LIMIT", 100),
			RateWindow:   time.Minute,
		},
		Database: DatabaseConfig{
			DSN:             getenv("DATABASE_DSN", "reportly:reportly@tcp(localhost:3306)/reportly?charset=utf8mb4&parseTime=True&loc=Local"),
			MaxIdleConns:    10,
			MaxOpenConns:    100,
			ConnMaxLifetime: time.Hour,
		},
		JWT: JWTConfig{
			AccessSecret:  getenv("JWT_ACCESS_SECRET", "change-me-in-production"),
			RefreshSecret: getenv("JWT_REFRESH_SECRET", "change-me-refresh"),
			AccessExpiry:  15 * time.Minute,
			RefreshExpiry: 168 * time.Hour,
			Issuer:        "reportly",
		},
		OAuth: OAuthConfig{
			GoogleClientID:     os.Getenv("GOOGLE_CLIENT_ID"),
			GoogleClientSecret: os.Getenv("GOOGLE_CLIENT_SECRET"),
			GoogleRedirectURL:  getenv("GOOGLE_REDIRECT_URL", "http://localhost:8088/api/v1/auth/google/callback"),
		},
		Cloudinary: CloudinaryConfig{
			CloudName: os.Getenv("CLOUDINARY_CLOUD_NAME"),
			APIKey:    os.Getenv("CLOUDINARY_API_KEY"),
			APISecret: os.Getenv("CLOUDINARY_API_SECRET"),
		},
		OpenAI: OpenAIConfig{
			APIKey:  os.Getenv("OPENAI_API_KEY"),
			Model:   getenv("OPENAI_MODEL", "gpt-4o"),
			BaseURL: getenv("OPENAI_BASE_URL", "https://api.openai.com"),
			Timeout: 180 * time.Second,
		},
		Payment: PaymentConfig{
			BaseURL:        getenv("PAYSECURE_BASE_URL", "https://api.paysecure.net"),
			APIKey:         os.Getenv("PAYSECURE_API_KEY"),
			WebhookSecret:  os.Getenv("PAYMENT_WEBHOOK_SECRET"),
			PaymentExpiry:  30 * time.Minute,
			WebhookBaseURL: getenv("PAYMENT_WEBHOOK_BASE_URL", "http://localhost:8088"),
			Packages: []CreditPackage{
				{ID: "starter", Name: "Starter Pack", Credits: 10, PriceCents: 999, Description: "Perfect for trying out"},
				{ID: "standard", Name: "Standard Pack", Credits: 50, PriceCents: 3999, Description: "Most popular choice"},
				{ID: "professional", Name: "Professional Pack", Credits: 100, PriceCents: 6999, Description: "Best value"},
				{ID: "enterprise", Name: "Enterprise Pack", Credits: 500, PriceCents: 29999, Description: "For heavy users"},
			},
		},
		Credits: CreditsConfig{
			ReportCost:    1,
			SignupGrant:   1000,
			LedgerRetries: 3,
		},
	}
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getenvInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}
