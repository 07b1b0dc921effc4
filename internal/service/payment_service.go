package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"reportly/config"
	"reportly/internal/domain"
	"reportly/internal/models"
	"reportly/internal/repository"
	"reportly/pkg/payment"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

var (
	ErrPackageNotFound  = errors.New("credit package not found")
	ErrPaymentNotFound  = errors.New("payment not found")
	ErrAlreadyProcessed = errors.New("payment already processed")
)

// PaymentService sells credit packages. A payment credits the wallet exactly
// once, when the gateway confirms it; failed or expired payments never credit.
type PaymentService struct {
	db       *gorm.DB
	cfg      *config.PaymentConfig
	payments *repository.PaymentRepository
	users    *repository.UserRepository
	credits  *CreditService
	provider payment.Provider
	demoMode bool // no gateway configured: auto-complete purchases
}

func NewPaymentService(
	db *gorm.DB,
	cfg *config.PaymentConfig,
	payments *repository.PaymentRepository,
	users *repository.UserRepository,
	credits *CreditService,
	provider payment.Provider,
	demoMode bool,
) *PaymentService {
	return &PaymentService{
		db:       db,
		cfg:      cfg,
		payments: payments,
		users:    users,
		credits:  credits,
		provider: provider,
		demoMode: demoMode,
	}
}

func (s *PaymentService) Packages() []config.CreditPackage {
	return s.cfg.Packages
}

func (s *PaymentService) GetPackage(id string) (*config.CreditPackage, error) {
	for i := range s.cfg.Packages {
		if s.cfg.Packages[i].ID == id {
			return &s.cfg.Packages[i], nil
		}
	}
	return nil, ErrPackageNotFound
}

// InitiatePurchase records a PENDING payment and asks the provider for a
// checkout URL. In demo mode the payment completes immediately.
func (s *PaymentService) InitiatePurchase(ctx context.Context, user *models.User, packageID string) (*models.Payment, error) {
	pkg, err := s.GetPackage(packageID)
	if err != nil {
		return nil, err
	}
	orderID := uuid.New().String()
	expires := time.Now().Add(s.cfg.PaymentExpiry)
	p := &models.Payment{
		UserID:         user.ID,
		PackageID:      pkg.ID,
		AmountCents:    pkg.PriceCents,
		Currency:       "USD",
		CreditsGranted: pkg.Credits,
		Provider:       "paysecure",
		ProviderRef:    orderID,
		Status:         domain.PaymentStatusPending,
		IdempotencyKey: uuid.New().String(),
		ExpiresAt:      &expires,
	}
	if s.demoMode {
		p.Provider = "demo"
	}
	if err := s.payments.Create(p); err != nil {
		return nil, err
	}

	if s.demoMode {
		return s.completePayment(p, user)
	}

	resp, err := s.provider.InitiatePayment(ctx, payment.PaymentRequest{
		UserID:         user.ID,
		AmountCents:    pkg.PriceCents,
		Currency:       "USD",
		OrderID:        orderID,
		IdempotencyKey: p.IdempotencyKey,
		Description:    fmt.Sprintf("%s (%d credits)", pkg.Name, pkg.Credits),
		CustomerEmail:  user.Email,
		CallbackURL:    s.cfg.WebhookBaseURL + "/api/v1/webhooks/payment",
		ExpiresIn:      s.cfg.PaymentExpiry,
	})
	if err != nil {
		p.Status = domain.PaymentStatusFailed
		_ = s.payments.Update(p)
		return nil, fmt.Errorf("payment initiation failed: %w", err)
	}
	p.ProviderRef = resp.Reference
	p.CheckoutURL = resp.CheckoutURL
	if err := s.payments.Update(p); err != nil {
		return nil, err
	}
	return p, nil
}

// ConfirmPayment settles a gateway confirmation. Idempotent by provider
// reference: a replayed webhook is a no-op.
func (s *PaymentService) ConfirmPayment(providerRef string) (*models.Payment, error) {
	p, err := s.payments.GetByProviderRef(providerRef)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPaymentNotFound
		}
		return nil, err
	}
	if p.Status != domain.PaymentStatusPending {
		return p, ErrAlreadyProcessed
	}
	user, err := s.users.GetByID(p.UserID)
	if err != nil {
		return nil, err
	}
	return s.completePayment(p, user)
}

// completePayment flips the payment to COMPLETED and grants the credits in
// one database transaction. The status flip is guarded on PENDING, so two
// racing confirmations settle exactly one; a failed grant rolls the flip
// back and the payment stays PENDING for the next webhook replay.
func (s *PaymentService) completePayment(p *models.Payment, user *models.User) (*models.Payment, error) {
	now := time.Now()
	err := s.db.Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&models.Payment{}).
			Where("id = ? AND status = ?", p.ID, domain.PaymentStatusPending).
			Updates(map[string]interface{}{"status": domain.PaymentStatusCompleted, "completed_at": now})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrAlreadyProcessed
		}
		_, err := s.credits.AddCreditsTx(tx, user, p.CreditsGranted, domain.TxPurchase,
			fmt.Sprintf("%d", p.ID), fmt.Sprintf("Purchased %s", p.PackageID))
		return err
	})
	if err != nil {
		if errors.Is(err, ErrAlreadyProcessed) {
			return p, ErrAlreadyProcessed
		}
		return nil, err
	}
	p.Status = domain.PaymentStatusCompleted
	p.CompletedAt = &now
	log.Printf("[payment] completed: payment=%d user=%d credits=%d", p.ID, user.ID, p.CreditsGranted)
	return p, nil
}

// FailPayment marks a pending payment failed. No credits move.
func (s *PaymentService) FailPayment(providerRef string) (*models.Payment, error) {
	p, err := s.payments.GetByProviderRef(providerRef)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPaymentNotFound
		}
		return nil, err
	}
	if p.Status != domain.PaymentStatusPending {
		return p, ErrAlreadyProcessed
	}
	p.Status = domain.PaymentStatusFailed
	if err := s.payments.Update(p); err != nil {
		return nil, err
	}
	return p, nil
}

func (s *PaymentService) History(userID uint) ([]models.Payment, error) {
	return s.payments.ListByUser(userID)
}
