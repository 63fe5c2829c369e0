package payment

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"toolrental-backend/internal/config"
	"toolrental-backend/internal/logger"

	"github.com/stripe/stripe-go/v80"
	"github.com/stripe/stripe-go/v80/client"
)

// StripeGateway charges through a confirmed Stripe PaymentIntent. The
// configured method is a saved Stripe payment method id (pm_...).
type StripeGateway struct {
	api      *client.API
	method   string
	currency string
}

func NewStripeGateway(cfg config.PaymentConfig) *StripeGateway {
	backendCfg := &stripe.BackendConfig{
		HTTPClient:        &http.Client{Timeout: cfg.Timeout()},
		MaxNetworkRetries: stripe.Int64(0),
	}
	if cfg.URL != "" {
		backendCfg.URL = stripe.String(cfg.URL)
	}
	backend := stripe.GetBackendWithConfig(stripe.APIBackend, backendCfg)

	api := &client.API{}
	api.Init(cfg.APIKey, &stripe.Backends{API: backend, Connect: backend, Uploads: backend})

	return &StripeGateway{api: api, method: cfg.Method, currency: cfg.Currency}
}

func (g *StripeGateway) Method() string {
	return g.method
}

func (g *StripeGateway) Capture(ctx context.Context, req CaptureRequest) (*CaptureResult, error) {
	logger.ExternalServiceCall(ctx, "Stripe", "CreatePaymentIntent", "rental_id", req.RentalID, "amount_cents", req.AmountCents, "attempt", req.Attempt)

	params := &stripe.PaymentIntentParams{
		Amount:             stripe.Int64(req.AmountCents),
		Currency:           stripe.String(g.currency),
		PaymentMethod:      stripe.String(g.method),
		PaymentMethodTypes: stripe.StringSlice([]string{"card"}),
		Confirm:            stripe.Bool(true),
	}
	params.Context = ctx
	params.SetIdempotencyKey(req.IdempotencyKey())
	params.AddMetadata("rental_id", strconv.Itoa(int(req.RentalID)))

	pi, err := g.api.PaymentIntents.New(params)
	if err != nil {
		logger.ExternalServiceResult(ctx, "Stripe", "CreatePaymentIntent", err)
		var stripeErr *stripe.Error
		if errors.As(err, &stripeErr) && (stripeErr.Type == stripe.ErrorTypeCard || stripeErr.HTTPStatusCode == http.StatusPaymentRequired) {
			return nil, fmt.Errorf("stripe capture failed: %w: %w", ErrDeclined, err)
		}
		return nil, fmt.Errorf("stripe capture failed: %w", err)
	}
	switch pi.Status {
	case stripe.PaymentIntentStatusSucceeded:
	case stripe.PaymentIntentStatusProcessing:
		err := fmt.Errorf("stripe payment intent %s is still %s", pi.ID, pi.Status)
		logger.ExternalServiceResult(ctx, "Stripe", "CreatePaymentIntent", err)
		return nil, err
	default:
		err := fmt.Errorf("%w: stripe payment intent %s is %s", ErrDeclined, pi.ID, pi.Status)
		logger.ExternalServiceResult(ctx, "Stripe", "CreatePaymentIntent", err)
		return nil, err
	}

	logger.ExternalServiceResult(ctx, "Stripe", "CreatePaymentIntent", nil, "transaction_id", pi.ID)
	return &CaptureResult{TransactionID: pi.ID, AmountCents: req.AmountCents}, nil
}
