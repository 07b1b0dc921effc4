package payment

import (
	"context"
	"time"
)

type PaymentRequest struct {
	UserID         uint
	AmountCents    int64
	Currency       string
	OrderID        string // unique order id, echoed back in the webhook
	IdempotencyKey string
	Description    string
	CustomerEmail  string
	CallbackURL    string
	ExpiresIn      time.Duration
}

type PaymentResponse struct {
	Reference   string
	Status      string
	CheckoutURL string
	ExpiresAt   time.Time
}

type Provider interface {
	InitiatePayment(ctx context.Context, req PaymentRequest) (*PaymentResponse, error)
	VerifyPayment(ctx context.Context, reference string) (bool, error)
}
