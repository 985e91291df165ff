// Package payment is the bridge to the hosted-payment gateway: a one-shot
// outbound session request plus webhook signature verification.
package payment

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/storeapp/ecommerce-api/internal/config"
)

// ErrGatewayUnavailable reports a transport-level failure. The order stays
// Pending and the caller may retry the initiate call.
var ErrGatewayUnavailable = errors.New("payment gateway unavailable")

type Customer struct {
	Email string `json:"email"`
}

// SessionRequest is the hosted-payment-session payload.
// swagger:model SessionRequest
type SessionRequest struct {
	TxRef       string   `json:"tx_ref"`
	Amount      string   `json:"amount"`
	Currency    string   `json:"currency"`
	RedirectURL string   `json:"redirect_url"`
	Customer    Customer `json:"customer"`
}

type Client struct {
	HTTP          *http.Client
	BaseURL       string
	SecretKey     string
	RedirectURL   string
	Currency      string
	webhookSecret string
}

func NewClient(cfg config.Config) *Client {
	return &Client{
		HTTP:          &http.Client{Timeout: cfg.PaymentTimeout},
		BaseURL:       cfg.PaymentBaseURL,
		SecretKey:     cfg.PaymentSecretKey,
		RedirectURL:   cfg.PaymentRedirect,
		Currency:      cfg.PaymentCurrency,
		webhookSecret: cfg.WebhookSecret,
	}
}

// Initiate submits a payment-session request for the order total and returns
// the gateway's session payload unchanged. No retries; the caller re-invokes
// on failure.
func (c *Client) Initiate(ctx context.Context, orderID string, amount decimal.Decimal, email string) (json.RawMessage, error) {
	req := SessionRequest{
		TxRef:       uuid.NewString(),
		Amount:      amount.String(),
		Currency:    c.Currency,
		RedirectURL: fmt.Sprintf("%s?o_id=%s", c.RedirectURL, orderID),
		Customer:    Customer{Email: email},
	}
	body, err := json.Marshal(req)
	if err != nil {
		return nil, err
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.BaseURL+"/payments", bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	httpReq.Header.Set("Authorization", "Bearer "+c.SecretKey)
	httpReq.Header.Set("Content-Type", "application/json")

	res, err := c.HTTP.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrGatewayUnavailable, err)
	}
	defer res.Body.Close()

	payload, err := io.ReadAll(res.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrGatewayUnavailable, err)
	}
	if res.StatusCode < 200 || res.StatusCode >= 300 {
		return nil, fmt.Errorf("gateway returned %s: %s", res.Status, payload)
	}
	return payload, nil
}

// VerifyWebhook checks the confirmation callback signature: hex-encoded
// HMAC-SHA256 of the raw body under the shared webhook secret.
func (c *Client) VerifyWebhook(signature string, body []byte) bool {
	if c.webhookSecret == "" || signature == "" {
		return false
	}
	mac := hmac.New(sha256.New, []byte(c.webhookSecret))
	mac.Write(body)
	want := hex.EncodeToString(mac.Sum(nil))
	return hmac.Equal([]byte(want), []byte(signature))
}

// SignWebhook produces the signature VerifyWebhook expects. Exported for the
// gateway simulator and tests.
func SignWebhook(secret string, body []byte) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(body)
	return hex.EncodeToString(mac.Sum(nil))
}
