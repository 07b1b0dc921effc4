package payment

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"time"
)

// PaysecureProvider creates hosted-checkout transactions on the Paysecure
// gateway. The customer completes payment on the returned checkout page and
// the gateway notifies us via webhook.
type PaysecureProvider struct {
	BaseURL string
	APIKey  string
	client  *http.Client
}

func NewPaysecureProvider(baseURL, apiKey string) *PaysecureProvider {
	if baseURL == "" {
		baseURL = "https://api.paysecure.net"
	}
	return &PaysecureProvider{
		BaseURL: baseURL,
		APIKey:  apiKey,
		client:  &http.Client{Timeout: 30 * time.Second},
	}
}

type paysecureTxReq struct {
	Amount        string `json:"amount"`
	Currency      string `json:"currency"`
	OrderID       string `json:"order_id"`
	Description   string `json:"description"`
	CustomerEmail string `json:"customer_email"`
	CallbackURL   string `json:"callback_url"`
}

type paysecureTxResp struct {
	PurchaseID  string `json:"purchase_id"`
	Status      string `json:"status"`
	CheckoutURL string `json:"checkout_url"`
	Message     string `json:"message"`
}

func (p *PaysecureProvider) InitiatePayment(ctx context.Context, req PaymentRequest) (*PaymentResponse, error) {
	body, _ := json.Marshal(paysecureTxReq{
		Amount:        fmt.Sprintf("%.2f", float64(req.AmountCents)/100),
		Currency:      req.Currency,
		OrderID:       req.OrderID,
		Description:   req.Description,
		CustomerEmail: req.CustomerEmail,
		CallbackURL:   req.CallbackURL,
	})
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, p.BaseURL+"/purchases/", bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	httpReq.Header.Set("Authorization", "Bearer "+p.APIKey)
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := p.client.Do(httpReq)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	respBody, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		log.Printf("[paysecure] initiate failed: %d %s", resp.StatusCode, string(respBody))
		return nil, fmt.Errorf("paysecure: status %d", resp.StatusCode)
	}
	var out paysecureTxResp
	if err := json.Unmarshal(respBody, &out); err != nil {
		return nil, err
	}
	if out.PurchaseID == "" {
		return nil, fmt.Errorf("paysecure: empty purchase id")
	}
	return &PaymentResponse{
		Reference:   out.PurchaseID,
		Status:      "PENDING",
		CheckoutURL: out.CheckoutURL,
		ExpiresAt:   time.Now().Add(req.ExpiresIn),
	}, nil
}

type paysecureStatusResp struct {
	Status string `json:"status"`
}

func (p *PaysecureProvider) VerifyPayment(ctx context.Context, reference string) (bool, error) {
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, p.BaseURL+"/purchases/"+reference+"/", nil)
	if err != nil {
		return false, err
	}
	httpReq.Header.Set("Authorization", "Bearer "+p.APIKey)
	resp, err := p.client.Do(httpReq)
	if err != nil {
		return false, err
	}
	defer resp.Body.Close()
	respBody, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != http.StatusOK {
		return false, fmt.Errorf("paysecure: status %d", resp.StatusCode)
	}
	var out paysecureStatusResp
	if err := json.Unmarshal(respBody, &out); err != nil {
		return false, err
	}
	return out.Status == "paid" || out.Status == "completed", nil
}
