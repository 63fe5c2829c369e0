package payment

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"toolrental-backend/internal/config"
	"toolrental-backend/internal/logger"
)

// HTTPGateway talks JSON to a payment provider at a configured URL.
//
//	POST {url}/captures  {"rental_id":1,"amount_cents":3000,"method":"card","currency":"usd"}
//	200                  {"transaction_id":"..."}
type HTTPGateway struct {
	baseURL  string
	apiKey   string
	method   string
	currency string
	timeout  time.Duration
	client   *http.Client
}

func NewHTTPGateway(cfg config.PaymentConfig) *HTTPGateway {
	return &HTTPGateway{
		baseURL:  strings.TrimRight(cfg.URL, "/"),
		apiKey:   cfg.APIKey,
		method:   cfg.Method,
		currency: cfg.Currency,
		timeout:  cfg.Timeout(),
		client:   &http.Client{Timeout: cfg.Timeout()},
	}
}

func (g *HTTPGateway) Method() string {
	return g.method
}

type captureRequest struct {
	RentalID    int32  `json:"rental_id"`
	AmountCents int64  `json:"amount_cents"`
	Method      string `json:"method"`
	Currency    string `json:"currency"`
}

type captureResponse struct {
	TransactionID string `json:"transaction_id"`
	Error         string `json:"error,omitempty"`
}

func (g *HTTPGateway) Capture(ctx context.Context, req CaptureRequest) (*CaptureResult, error) {
	logger.ExternalServiceCall(ctx, "HTTPGateway", "Capture", "rental_id", req.RentalID, "amount_cents", req.AmountCents, "attempt", req.Attempt)

	res, err := g.capture(ctx, req)
	logger.ExternalServiceResult(ctx, "HTTPGateway", "Capture", err)
	return res, err
}

func (g *HTTPGateway) capture(ctx context.Context, cr CaptureRequest) (*CaptureResult, error) {
	if g.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, g.timeout)
		defer cancel()
	}

	body, err := json.Marshal(captureRequest{
		RentalID:    cr.RentalID,
		AmountCents: cr.AmountCents,
		Method:      g.method,
		Currency:    g.currency,
	})
	if err != nil {
		return nil, fmt.Errorf("encoding capture request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.baseURL+"/captures", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("building capture request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Idempotency-Key", cr.IdempotencyKey())
	if g.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+g.apiKey)
	}

	resp, err := g.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("capture request failed: %w", err)
	}
	defer resp.Body.Close()

	var out captureResponse
	if err := json.NewDecoder(io.LimitReader(resp.Body, 1<<20)).Decode(&out); err != nil && resp.StatusCode < 300 {
		return nil, fmt.Errorf("decoding capture response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		err := fmt.Errorf("gateway returned %d", resp.StatusCode)
		if out.Error != "" {
			err = fmt.Errorf("gateway returned %d: %s", resp.StatusCode, out.Error)
		}
		if resp.StatusCode == http.StatusPaymentRequired {
			return nil, fmt.Errorf("%w: %w", ErrDeclined, err)
		}
		return nil, err
	}
	if out.TransactionID == "" {
		return nil, fmt.Errorf("gateway response has no transaction id")
	}
	return &CaptureResult{TransactionID: out.TransactionID, AmountCents: cr.AmountCents}, nil
}
