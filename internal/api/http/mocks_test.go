package http

import (
	"context"
	"time"

	"toolrental-backend/internal/domain"
	"toolrental-backend/internal/service"

	"github.com/stretchr/testify/mock"
)

type MockLifecycle struct {
	mock.Mock
}

func (m *MockLifecycle) result(args mock.Arguments) (*service.TransitionResult, error) {
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.TransitionResult), args.Error(1)
}

func (m *MockLifecycle) CreateRentalTransaction(ctx context.Context, req service.CreateRentalRequest) (*domain.RentalPair, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.RentalPair), args.Error(1)
}

func (m *MockLifecycle) ConfirmPickup(ctx context.Context, rentalID int32) (*service.TransitionResult, error) {
	return m.result(m.Called(ctx, rentalID))
}

func (m *MockLifecycle) ConfirmReturn(ctx context.Context, rentalID int32) (*service.TransitionResult, error) {
	return m.result(m.Called(ctx, rentalID))
}

func (m *MockLifecycle) CancelByOrder(ctx context.Context, orderID int32) (*service.TransitionResult, error) {
	return m.result(m.Called(ctx, orderID))
}

func (m *MockLifecycle) CancelByRental(ctx context.Context, rentalID int32) (*service.TransitionResult, error) {
	return m.result(m.Called(ctx, rentalID))
}

func (m *MockLifecycle) Extend(ctx context.Context, rentalID int32, additionalDays int) (*service.TransitionResult, error) {
	return m.result(m.Called(ctx, rentalID, additionalDays))
}

func (m *MockLifecycle) RetryCapture(ctx context.Context, rentalID int32) (*service.TransitionResult, error) {
	return m.result(m.Called(ctx, rentalID))
}

func (m *MockLifecycle) RetryUnbilled(ctx context.Context, limit int) (int, error) {
	args := m.Called(ctx, limit)
	return args.Int(0), args.Error(1)
}

func (m *MockLifecycle) ExpireStalePending(ctx context.Context, cutoff time.Time, limit int) (int, error) {
	args := m.Called(ctx, cutoff, limit)
	return args.Int(0), args.Error(1)
}

func (m *MockLifecycle) GetOrder(ctx context.Context, orderID int32) (*domain.Order, error) {
	args := m.Called(ctx, orderID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Order), args.Error(1)
}

func (m *MockLifecycle) GetRental(ctx context.Context, rentalID int32) (*domain.Rental, error) {
	args := m.Called(ctx, rentalID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Rental), args.Error(1)
}

func (m *MockLifecycle) ListOrdersByUser(ctx context.Context, userID int32) ([]domain.Order, error) {
	args := m.Called(ctx, userID)
	orders, _ := args.Get(0).([]domain.Order)
	return orders, args.Error(1)
}

func (m *MockLifecycle) ListRentalsByUser(ctx context.Context, userID int32) ([]domain.Rental, error) {
	args := m.Called(ctx, userID)
	rentals, _ := args.Get(0).([]domain.Rental)
	return rentals, args.Error(1)
}

func (m *MockLifecycle) ListRentalsByTool(ctx context.Context, toolID int32) ([]domain.Rental, error) {
	args := m.Called(ctx, toolID)
	rentals, _ := args.Get(0).([]domain.Rental)
	return rentals, args.Error(1)
}

func (m *MockLifecycle) ListPaymentsByRental(ctx context.Context, rentalID int32) ([]domain.Payment, error) {
	args := m.Called(ctx, rentalID)
	payments, _ := args.Get(0).([]domain.Payment)
	return payments, args.Error(1)
}

func (m *MockLifecycle) ListPaymentsByUser(ctx context.Context, userID int32) ([]domain.Payment, error) {
	args := m.Called(ctx, userID)
	payments, _ := args.Get(0).([]domain.Payment)
	return payments, args.Error(1)
}

type MockCatalog struct {
	mock.Mock
}

func (m *MockCatalog) GetTool(ctx context.Context, id int32) (*domain.Tool, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Tool), args.Error(1)
}

func (m *MockCatalog) ListActiveTools(ctx context.Context) ([]domain.Tool, error) {
	args := m.Called(ctx)
	tools, _ := args.Get(0).([]domain.Tool)
	return tools, args.Error(1)
}

func (m *MockCatalog) ListToolsByOwner(ctx context.Context, ownerID int32) ([]domain.Tool, error) {
	args := m.Called(ctx, ownerID)
	tools, _ := args.Get(0).([]domain.Tool)
	return tools, args.Error(1)
}

func (m *MockCatalog) CreateTool(ctx context.Context, ownerID int32, tool *domain.Tool) error {
	args := m.Called(ctx, ownerID, tool)
	return args.Error(0)
}

func (m *MockCatalog) UpdateTool(ctx context.Context, ownerID, toolID int32, update service.ToolUpdate) (*domain.Tool, error) {
	args := m.Called(ctx, ownerID, toolID, update)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Tool), args.Error(1)
}

func (m *MockCatalog) DeactivateTool(ctx context.Context, ownerID, toolID int32) error {
	args := m.Called(ctx, ownerID, toolID)
	return args.Error(0)
}

type MockHistory struct {
	mock.Mock
}

func (m *MockHistory) Record(ctx context.Context, userID, orderID int32, detail string) error {
	return m.Called(ctx, userID, orderID, detail).Error(0)
}

func (m *MockHistory) ListByUser(ctx context.Context, userID int32) ([]domain.HistoryEntry, error) {
	args := m.Called(ctx, userID)
	entries, _ := args.Get(0).([]domain.HistoryEntry)
	return entries, args.Error(1)
}

func (m *MockHistory) ListByOrder(ctx context.Context, orderID int32) ([]domain.HistoryEntry, error) {
	args := m.Called(ctx, orderID)
	entries, _ := args.Get(0).([]domain.HistoryEntry)
	return entries, args.Error(1)
}

type MockAuth struct {
	mock.Mock
}

func (m *MockAuth) Register(ctx context.Context, req service.RegisterRequest) (*domain.User, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockAuth) Login(ctx context.Context, email, password string) (string, *domain.User, error) {
	args := m.Called(ctx, email, password)
	if args.Get(1) == nil {
		return args.String(0), nil, args.Error(2)
	}
	return args.String(0), args.Get(1).(*domain.User), args.Error(2)
}

func (m *MockAuth) GetUser(ctx context.Context, userID int32) (*domain.User, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

type MockSupport struct {
	mock.Mock
}

func (m *MockSupport) Submit(ctx context.Context, req *domain.SupportRequest) error {
	return m.Called(ctx, req).Error(0)
}

func (m *MockSupport) List(ctx context.Context) ([]domain.SupportRequest, error) {
	args := m.Called(ctx)
	reqs, _ := args.Get(0).([]domain.SupportRequest)
	return reqs, args.Error(1)
}

func (m *MockSupport) UpdateStatus(ctx context.Context, id int32, status domain.SupportStatus) (*domain.SupportRequest, error) {
	args := m.Called(ctx, id, status)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.SupportRequest), args.Error(1)
}

type stubPinger struct {
	err error
}

func (p stubPinger) PingContext(ctx context.Context) error {
	return p.err
}
