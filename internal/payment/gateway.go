// Package payment captures rental charges through an external gateway.
package payment

import (
	"context"
	"errors"
	"fmt"

	"toolrental-backend/internal/config"
)

// ErrDeclined marks a capture the provider refused outright, such as a card
// decline. Transport failures and timeouts are not declines.
var ErrDeclined = errors.New("payment declined")

// CaptureRequest asks for one charge. Attempt counts the earlier declined
// captures for the rental.
type CaptureRequest struct {
	RentalID    int32
	AmountCents int64
	Attempt     int
}

// IdempotencyKey stays the same across retries of one attempt, so a retry
// after a lost response cannot charge twice, and changes after a decline so
// the provider does not replay it.
func (r CaptureRequest) IdempotencyKey() string {
	if r.Attempt == 0 {
		return fmt.Sprintf("rental-%d-capture", r.RentalID)
	}
	return fmt.Sprintf("rental-%d-capture-%d", r.RentalID, r.Attempt)
}

// CaptureResult is what a gateway returns for a successful capture.
type CaptureResult struct {
	TransactionID string
	AmountCents   int64
}

// Gateway captures funds for a rental. Implementations must be idempotent per
// CaptureRequest.IdempotencyKey and wrap ErrDeclined for provider refusals.
type Gateway interface {
	Capture(ctx context.Context, req CaptureRequest) (*CaptureResult, error)
	// Method is recorded as the payment_method of every Payment row.
	Method() string
}

// New builds the gateway selected by cfg.Gateway.
func New(cfg config.PaymentConfig) (Gateway, error) {
	switch cfg.Gateway {
	case "", "mock":
		return NewMockGateway(cfg.Method), nil
	case "http":
		return NewHTTPGateway(cfg), nil
	case "stripe":
		return NewStripeGateway(cfg), nil
	default:
		return nil, fmt.Errorf("unknown payment gateway: %q", cfg.Gateway)
	}
}
