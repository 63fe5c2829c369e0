package payment

import (
	"context"
	"sync"

	"toolrental-backend/internal/logger"

	"github.com/google/uuid"
)

// MockGateway succeeds with a generated transaction id unless told to fail.
// A second capture with the same idempotency key returns the first result.
type MockGateway struct {
	method string

	mu       sync.Mutex
	captured map[string]*CaptureResult
	failWith error
	calls    int
}

func NewMockGateway(method string) *MockGateway {
	if method == "" {
		method = "mock"
	}
	return &MockGateway{
		method:   method,
		captured: make(map[string]*CaptureResult),
	}
}

func (g *MockGateway) Method() string {
	return g.method
}

func (g *MockGateway) Capture(ctx context.Context, req CaptureRequest) (*CaptureResult, error) {
	logger.ExternalServiceCall(ctx, "MockGateway", "Capture", "rental_id", req.RentalID, "amount_cents", req.AmountCents, "attempt", req.Attempt)

	if err := ctx.Err(); err != nil {
		logger.ExternalServiceResult(ctx, "MockGateway", "Capture", err)
		return nil, err
	}

	g.mu.Lock()
	defer g.mu.Unlock()
	g.calls++

	if g.failWith != nil {
		logger.ExternalServiceResult(ctx, "MockGateway", "Capture", g.failWith)
		return nil, g.failWith
	}
	key := req.IdempotencyKey()
	if res, ok := g.captured[key]; ok {
		logger.ExternalServiceResult(ctx, "MockGateway", "Capture", nil, "transaction_id", res.TransactionID, "replayed", true)
		return res, nil
	}

	res := &CaptureResult{TransactionID: "mock_" + uuid.NewString(), AmountCents: req.AmountCents}
	g.captured[key] = res
	logger.ExternalServiceResult(ctx, "MockGateway", "Capture", nil, "transaction_id", res.TransactionID)
	return res, nil
}

// FailWith makes every following capture return err. Pass nil to recover.
func (g *MockGateway) FailWith(err error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.failWith = err
}

// Calls returns how many captures were attempted.
func (g *MockGateway) Calls() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.calls
}
