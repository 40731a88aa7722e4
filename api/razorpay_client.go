package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/neuraldesk/billing/internal/slogging"
)

// RazorpayOrder is the subset of the provider's order object we consume
type RazorpayOrder struct {
	ID       string `json:"id"`
	Amount   int64  `json:"amount"`
	Currency string `json:"currency"`
	Receipt  string `json:"receipt"`
	Status   string `json:"status"`
}

// OrderCreator creates orders with the payment provider
type OrderCreator interface {
	CreateOrder(ctx context.Context, amount int64, currency, receipt string, notes map[string]string) (*RazorpayOrder, error)
}

// RazorpayClient is a minimal REST client for the Razorpay Orders API.
// Calls are synchronous and never retried here; idempotent retries are
// the caller's responsibility, keyed by receipt.
type RazorpayClient struct {
	keyID      string
	keySecret  string
	baseURL    string
	httpClient *http.Client
}

// NewRazorpayClient creates a client authenticated with the API key pair
func NewRazorpayClient(keyID, keySecret, baseURL string) *RazorpayClient {
	if baseURL == "" {
		baseURL = "https://api.razorpay.com/v1"
	}
	return &RazorpayClient{
		keyID:      keyID,
		keySecret:  keySecret,
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: 15 * time.Second},
	}
}

// KeyID returns the public API key id, which checkout clients need
func (c *RazorpayClient) KeyID() string {
	return c.keyID
}

// CreateOrder creates an order for amount (minor units) with the provider
func (c *RazorpayClient) CreateOrder(ctx context.Context, amount int64, currency, receipt string, notes map[string]string) (*RazorpayOrder, error) {
	logger := slogging.Get()

	payload := map[string]any{
		"amount":   amount,
		"currency": currency,
		"receipt":  receipt,
	}
	if len(notes) > 0 {
		payload["notes"] = notes
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to encode order request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/orders", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to build order request: %w", err)
	}
	req.SetBasicAuth(c.keyID, c.keySecret)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		logger.Error("razorpay order creation failed: %v", err)
		return nil, fmt.Errorf("payment provider unavailable: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	respBody, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, fmt.Errorf("failed to read order response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		logger.Error("razorpay order creation rejected: status=%d body=%s", resp.StatusCode, respBody)
		return nil, fmt.Errorf("payment provider returned status %d", resp.StatusCode)
	}

	var order RazorpayOrder
	if err := json.Unmarshal(respBody, &order); err != nil {
		return nil, fmt.Errorf("failed to decode order response: %w", err)
	}
	if order.ID == "" {
		return nil, fmt.Errorf("payment provider returned an order without an id")
	}

	logger.Info("razorpay order created: id=%s amount=%d currency=%s", order.ID, order.Amount, order.Currency)
	return &order, nil
}

// SetHTTPClient overrides the HTTP client (used by tests)
func (c *RazorpayClient) SetHTTPClient(client *http.Client) {
	c.httpClient = client
}
