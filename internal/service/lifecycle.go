package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"toolrental-backend/internal/domain"
	"toolrental-backend/internal/logger"
	"toolrental-backend/internal/payment"
	"toolrental-backend/internal/repository"
	"toolrental-backend/internal/utils"
)

type CreateRentalRequest struct {
	CustomerID      int32
	ToolID          int32
	StartDate       time.Time
	EndDate         time.Time
	DeliveryType    domain.DeliveryType
	DeliveryAddress string
}

// Warning reports a problem that happened after a transition committed. The
// transition stands; the warning tells the caller what still needs attention.
type Warning struct {
	Kind    domain.ErrorKind `json:"kind"`
	Message string           `json:"message"`
}

type TransitionResult struct {
	Order    *domain.Order   `json:"order"`
	Rental   *domain.Rental  `json:"rental"`
	Payment  *domain.Payment `json:"payment,omitempty"`
	Warnings []Warning       `json:"warnings,omitempty"`
}

func (r *TransitionResult) warn(kind domain.ErrorKind, message string) {
	r.Warnings = append(r.Warnings, Warning{Kind: kind, Message: message})
}

type lifecycleManager struct {
	store     repository.Store
	gateway   payment.Gateway
	history   HistoryRecorder
	txTimeout time.Duration
	now       func() time.Time
}

type LifecycleOption func(*lifecycleManager)

// WithTxTimeout bounds every lifecycle transaction.
func WithTxTimeout(d time.Duration) LifecycleOption {
	return func(m *lifecycleManager) {
		m.txTimeout = d
	}
}

func WithClock(now func() time.Time) LifecycleOption {
	return func(m *lifecycleManager) {
		m.now = now
	}
}

func NewLifecycleManager(store repository.Store, gateway payment.Gateway, history HistoryRecorder, opts ...LifecycleOption) LifecycleManager {
	m := &lifecycleManager{
		store:   store,
		gateway: gateway,
		history: history,
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// withinTx runs fn in one transaction bounded by the configured timeout.
func (m *lifecycleManager) withinTx(ctx context.Context, fn func(ctx context.Context, repos *repository.Repos) error) error {
	if m.txTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, m.txTimeout)
		defer cancel()
	}
	return classify(m.store.WithinTx(ctx, func(repos *repository.Repos) error {
		return fn(ctx, repos)
	}))
}

func (m *lifecycleManager) CreateRentalTransaction(ctx context.Context, req CreateRentalRequest) (*domain.RentalPair, error) {
	logger.EnterMethod("LifecycleManager.CreateRentalTransaction", "customerID", req.CustomerID, "toolID", req.ToolID)

	start, end := req.StartDate.UTC(), req.EndDate.UTC()
	if err := utils.ValidateRentalWindow(start, end, m.now()); err != nil {
		logger.ExitMethodWithError("LifecycleManager.CreateRentalTransaction", err)
		return nil, err
	}
	if !req.DeliveryType.Valid() {
		logger.ExitMethodWithError("LifecycleManager.CreateRentalTransaction", domain.ErrInvalidDeliveryType)
		return nil, domain.ErrInvalidDeliveryType
	}
	address := strings.TrimSpace(req.DeliveryAddress)
	switch req.DeliveryType {
	case domain.DeliveryTypeDelivery:
		if address == "" {
			logger.ExitMethodWithError("LifecycleManager.CreateRentalTransaction", domain.ErrMissingDeliveryAddress)
			return nil, domain.ErrMissingDeliveryAddress
		}
	case domain.DeliveryTypePickup:
		address = ""
	}
	days, err := utils.RentalDays(start, end)
	if err != nil {
		return nil, domain.ErrEndBeforeStart
	}

	var pair *domain.RentalPair
	err = m.withinTx(ctx, func(ctx context.Context, repos *repository.Repos) error {
		user, err := repos.Users.GetByID(ctx, req.CustomerID)
		if err != nil {
			return err
		}
		if !user.IsActive() {
			return domain.NewError(domain.KindInvalidInput, "user %d is not active", user.ID)
		}

		// Locking the tool keeps a concurrent deactivation from slipping in
		// between this check and the insert.
		tool, err := repos.Tools.GetForUpdate(ctx, req.ToolID)
		if err != nil {
			return err
		}
		if !tool.IsActive() {
			return domain.NewError(domain.KindInvalidInput, "tool %d is not available for rent", tool.ID)
		}
		total, err := utils.TotalPriceCents(tool.PricePerDayCents, days)
		if err != nil {
			return domain.ErrPriceOverflow
		}

		order := &domain.Order{
			UserID:          user.ID,
			ToolID:          tool.ID,
			ToolName:        tool.Name,
			StartDate:       start,
			EndDate:         end,
			Status:          domain.StatusPending,
			DeliveryType:    req.DeliveryType,
			DeliveryAddress: address,
		}
		if err := repos.Orders.Create(ctx, order); err != nil {
			return fmt.Errorf("creating order: %w", err)
		}

		rental := &domain.Rental{
			OrderID:          order.ID,
			ToolID:           tool.ID,
			RenterID:         user.ID,
			ToolName:         tool.Name,
			StartDate:        start,
			EndDate:          end,
			Status:           domain.StatusPending,
			PricePerDayCents: tool.PricePerDayCents,
			TotalPriceCents:  total,
		}
		if err := repos.Rentals.Create(ctx, rental); err != nil {
			return fmt.Errorf("creating rental: %w", err)
		}

		pair = &domain.RentalPair{Order: order, Rental: rental}
		return nil
	})
	if err != nil {
		logger.ExitMethodWithError("LifecycleManager.CreateRentalTransaction", err)
		return nil, err
	}

	logger.ExitMethod("LifecycleManager.CreateRentalTransaction", "orderID", pair.Order.ID, "rentalID", pair.Rental.ID, "totalCents", pair.Rental.TotalPriceCents)
	return pair, nil
}

type pairLocker func(ctx context.Context, repos *repository.Repos) (*domain.RentalPair, error)

func byRental(id int32) pairLocker {
	return func(ctx context.Context, repos *repository.Repos) (*domain.RentalPair, error) {
		return repos.Rentals.LockPairByRental(ctx, id)
	}
}

func byOrder(id int32) pairLocker {
	return func(ctx context.Context, repos *repository.Repos) (*domain.RentalPair, error) {
		return repos.Rentals.LockPairByOrder(ctx, id)
	}
}

// transition locks the pair, checks that to is reachable and moves both rows.
func (m *lifecycleManager) transition(ctx context.Context, lock pairLocker, to domain.LifecycleStatus) (*domain.RentalPair, error) {
	var pair *domain.RentalPair
	err := m.withinTx(ctx, func(ctx context.Context, repos *repository.Repos) error {
		p, err := lock(ctx, repos)
		if err != nil {
			return err
		}
		if !p.Consistent() {
			logger.ErrorContext(ctx, "Order and rental are out of sync", "orderID", p.Order.ID, "rentalID", p.Rental.ID,
				"orderStatus", p.Order.Status, "rentalStatus", p.Rental.Status)
			return domain.NewError(domain.KindStorageError, "order %d and rental %d are out of sync", p.Order.ID, p.Rental.ID)
		}

		from := p.Rental.Status
		if !from.CanTransitionTo(to) {
			return domain.NewError(domain.KindInvalidTransition, "cannot move rental %d from %s to %s", p.Rental.ID, from, to)
		}
		if err := repos.Orders.UpdateStatus(ctx, p.Order.ID, from, to); err != nil {
			return err
		}
		if err := repos.Rentals.UpdateStatus(ctx, p.Rental.ID, from, to); err != nil {
			return err
		}

		now := m.now().UTC()
		p.Order.Status, p.Order.UpdatedAt = to, now
		p.Rental.Status, p.Rental.UpdatedAt = to, now
		pair = p
		return nil
	})
	if err != nil {
		return nil, err
	}
	logger.InfoContext(ctx, "Rental transitioned", "orderID", pair.Order.ID, "rentalID", pair.Rental.ID, "status", to)
	return pair, nil
}

func (m *lifecycleManager) ConfirmPickup(ctx context.Context, rentalID int32) (*TransitionResult, error) {
	logger.EnterMethod("LifecycleManager.ConfirmPickup", "rentalID", rentalID)
	pair, err := m.transition(ctx, byRental(rentalID), domain.StatusActive)
	if err != nil {
		logger.ExitMethodWithError("LifecycleManager.ConfirmPickup", err)
		return nil, err
	}
	logger.ExitMethod("LifecycleManager.ConfirmPickup")
	return &TransitionResult{Order: pair.Order, Rental: pair.Rental}, nil
}

// ConfirmReturn completes the pair, then bills it and writes the history line.
// Failures after the commit come back as warnings; the return itself stands.
func (m *lifecycleManager) ConfirmReturn(ctx context.Context, rentalID int32) (*TransitionResult, error) {
	logger.EnterMethod("LifecycleManager.ConfirmReturn", "rentalID", rentalID)
	pair, err := m.transition(ctx, byRental(rentalID), domain.StatusCompleted)
	if err != nil {
		logger.ExitMethodWithError("LifecycleManager.ConfirmReturn", err)
		return nil, err
	}

	res := &TransitionResult{Order: pair.Order, Rental: pair.Rental}
	m.settle(ctx, pair.Rental, res)

	days, _ := utils.RentalDays(pair.Rental.StartDate, pair.Rental.EndDate)
	detail := fmt.Sprintf("Rental of %s for %d days", pair.Rental.ToolName, days)
	if err := m.history.Record(ctx, pair.Order.UserID, pair.Order.ID, detail); err != nil {
		logger.ErrorContext(ctx, "Failed to record rental history", "orderID", pair.Order.ID, "error", err)
		res.warn(domain.KindHistoryRecordFailed, "the return was recorded but the history entry could not be written")
	}

	logger.ExitMethod("LifecycleManager.ConfirmReturn", "warnings", len(res.Warnings))
	return res, nil
}

func (m *lifecycleManager) CancelByOrder(ctx context.Context, orderID int32) (*TransitionResult, error) {
	logger.EnterMethod("LifecycleManager.CancelByOrder", "orderID", orderID)
	pair, err := m.transition(ctx, byOrder(orderID), domain.StatusCancelled)
	if err != nil {
		logger.ExitMethodWithError("LifecycleManager.CancelByOrder", err)
		return nil, err
	}
	logger.ExitMethod("LifecycleManager.CancelByOrder")
	return &TransitionResult{Order: pair.Order, Rental: pair.Rental}, nil
}

func (m *lifecycleManager) CancelByRental(ctx context.Context, rentalID int32) (*TransitionResult, error) {
	logger.EnterMethod("LifecycleManager.CancelByRental", "rentalID", rentalID)
	pair, err := m.transition(ctx, byRental(rentalID), domain.StatusCancelled)
	if err != nil {
		logger.ExitMethodWithError("LifecycleManager.CancelByRental", err)
		return nil, err
	}
	logger.ExitMethod("LifecycleManager.CancelByRental")
	return &TransitionResult{Order: pair.Order, Rental: pair.Rental}, nil
}

func (m *lifecycleManager) Extend(ctx context.Context, rentalID int32, additionalDays int) (*TransitionResult, error) {
	logger.EnterMethod("LifecycleManager.Extend", "rentalID", rentalID, "additionalDays", additionalDays)
	if additionalDays <= 0 {
		logger.ExitMethodWithError("LifecycleManager.Extend", domain.ErrInvalidExtension)
		return nil, domain.ErrInvalidExtension
	}
	if additionalDays > utils.MaxExtensionDays {
		logger.ExitMethodWithError("LifecycleManager.Extend", domain.ErrExtensionTooLong)
		return nil, domain.ErrExtensionTooLong
	}

	var pair *domain.RentalPair
	err := m.withinTx(ctx, func(ctx context.Context, repos *repository.Repos) error {
		p, err := repos.Rentals.LockPairByRental(ctx, rentalID)
		if err != nil {
			return err
		}
		if !p.Rental.Status.Extendable() {
			return domain.NewError(domain.KindInvalidTransition, "rental %d is %s and can no longer be extended", p.Rental.ID, p.Rental.Status)
		}

		newEnd, err := utils.ExtendEndDate(p.Rental.EndDate, additionalDays)
		if err != nil {
			return domain.ErrExtensionTooLong
		}
		newTotal, err := utils.ExtendedTotalCents(p.Rental.TotalPriceCents, p.Rental.PricePerDayCents, additionalDays)
		if err != nil {
			return domain.ErrPriceOverflow
		}
		if err := repos.Orders.UpdateEndDate(ctx, p.Order.ID, newEnd); err != nil {
			return err
		}
		if err := repos.Rentals.UpdateEndDateAndTotal(ctx, p.Rental.ID, newEnd, newTotal); err != nil {
			return err
		}

		now := m.now().UTC()
		p.Order.EndDate, p.Order.UpdatedAt = newEnd, now
		p.Rental.EndDate, p.Rental.TotalPriceCents, p.Rental.UpdatedAt = newEnd, newTotal, now
		pair = p
		return nil
	})
	if err != nil {
		logger.ExitMethodWithError("LifecycleManager.Extend", err)
		return nil, err
	}

	logger.ExitMethod("LifecycleManager.Extend", "endDate", pair.Rental.EndDate, "totalCents", pair.Rental.TotalPriceCents)
	return &TransitionResult{Order: pair.Order, Rental: pair.Rental}, nil
}

// RetryCapture bills a completed rental that has no completed payment yet.
// Calling it for a rental that is already paid returns the existing payment.
func (m *lifecycleManager) RetryCapture(ctx context.Context, rentalID int32) (*TransitionResult, error) {
	logger.EnterMethod("LifecycleManager.RetryCapture", "rentalID", rentalID)

	repos := m.store.Repos()
	rental, err := repos.Rentals.GetByID(ctx, rentalID)
	if err != nil {
		err = classify(err)
		logger.ExitMethodWithError("LifecycleManager.RetryCapture", err)
		return nil, err
	}
	if rental.Status != domain.StatusCompleted {
		err := domain.NewError(domain.KindInvalidTransition, "rental %d is %s; only completed rentals are billed", rental.ID, rental.Status)
		logger.ExitMethodWithError("LifecycleManager.RetryCapture", err)
		return nil, err
	}
	order, err := repos.Orders.GetByID(ctx, rental.OrderID)
	if err != nil {
		err = classify(err)
		logger.ExitMethodWithError("LifecycleManager.RetryCapture", err)
		return nil, err
	}

	res := &TransitionResult{Order: order, Rental: rental}
	m.settle(ctx, rental, res)
	logger.ExitMethod("LifecycleManager.RetryCapture", "warnings", len(res.Warnings))
	return res, nil
}

// settle captures the rental total unless a completed payment already exists
// and records the attempt. Problems become warnings on res.
func (m *lifecycleManager) settle(ctx context.Context, rental *domain.Rental, res *TransitionResult) {
	p, err := m.capture(ctx, rental)
	res.Payment = p
	if err != nil {
		logger.WarnContext(ctx, "Payment capture failed", "rentalID", rental.ID, "amountCents", rental.TotalPriceCents, "error", err)
		res.warn(domain.KindPaymentCaptureFailed, "payment capture failed and must be retried")
	}
}

func (m *lifecycleManager) capture(ctx context.Context, rental *domain.Rental) (*domain.Payment, error) {
	existing, err := m.store.Repos().Payments.FindCompletedByRental(ctx, rental.ID)
	if err != nil {
		return nil, classify(err)
	}
	if existing != nil {
		logger.DebugContext(ctx, "Rental already paid", "rentalID", rental.ID, "paymentID", existing.ID)
		return existing, nil
	}

	attempt, err := m.declinedAttempts(ctx, rental.ID)
	if err != nil {
		return nil, err
	}

	p := &domain.Payment{
		RentalID:      rental.ID,
		AmountCents:   rental.TotalPriceCents,
		PaymentMethod: m.gateway.Method(),
	}
	result, captureErr := m.gateway.Capture(ctx, payment.CaptureRequest{
		RentalID:    rental.ID,
		AmountCents: rental.TotalPriceCents,
		Attempt:     attempt,
	})
	if captureErr != nil {
		p.Status = domain.PaymentStatusFailed
		if errors.Is(captureErr, payment.ErrDeclined) {
			p.Status = domain.PaymentStatusDeclined
		}
		p.FailureReason = captureErr.Error()
	} else {
		paidAt := m.now().UTC()
		p.Status = domain.PaymentStatusCompleted
		p.TransactionID = &result.TransactionID
		p.PaymentDate = &paidAt
	}

	err = m.withinTx(ctx, func(ctx context.Context, repos *repository.Repos) error {
		return repos.Payments.Create(ctx, p)
	})
	if errors.Is(err, domain.ErrConflict) {
		// A concurrent capture recorded the same rental first.
		existing, findErr := m.store.Repos().Payments.FindCompletedByRental(ctx, rental.ID)
		if findErr == nil && existing != nil {
			return existing, nil
		}
	}
	if err != nil {
		if captureErr == nil {
			logger.ErrorContext(ctx, "Captured payment could not be recorded", "rentalID", rental.ID, "transactionID", *p.TransactionID, "error", err)
		}
		return nil, err
	}
	if captureErr != nil {
		return p, captureErr
	}
	logger.InfoContext(ctx, "Payment captured", "rentalID", rental.ID, "paymentID", p.ID, "amountCents", p.AmountCents)
	return p, nil
}

// declinedAttempts counts the declined captures already recorded for a rental.
// Failed rows that were not declines keep the previous attempt number.
func (m *lifecycleManager) declinedAttempts(ctx context.Context, rentalID int32) (int, error) {
	payments, err := m.store.Repos().Payments.ListByRental(ctx, rentalID)
	if err != nil {
		return 0, classify(err)
	}
	n := 0
	for _, p := range payments {
		if p.Status == domain.PaymentStatusDeclined {
			n++
		}
	}
	return n, nil
}

func (m *lifecycleManager) RetryUnbilled(ctx context.Context, limit int) (int, error) {
	rentals, err := m.store.Repos().Rentals.ListUnbilled(ctx, limit)
	if err != nil {
		return 0, classify(err)
	}

	paid := 0
	for i := range rentals {
		if ctx.Err() != nil {
			return paid, classify(ctx.Err())
		}
		if _, err := m.capture(ctx, &rentals[i]); err != nil {
			logger.WarnContext(ctx, "Retry capture failed", "rentalID", rentals[i].ID, "error", err)
			continue
		}
		paid++
	}
	return paid, nil
}

func (m *lifecycleManager) ExpireStalePending(ctx context.Context, cutoff time.Time, limit int) (int, error) {
	rentals, err := m.store.Repos().Rentals.ListStalePending(ctx, cutoff, limit)
	if err != nil {
		return 0, classify(err)
	}

	var errs []error
	cancelled := 0
	for _, r := range rentals {
		if _, err := m.CancelByRental(ctx, r.ID); err != nil {
			if errors.Is(err, domain.ErrInvalidTransition) {
				// Picked up or cancelled since it was listed.
				continue
			}
			errs = append(errs, fmt.Errorf("cancelling rental %d: %w", r.ID, err))
			continue
		}
		cancelled++
	}
	return cancelled, errors.Join(errs...)
}

func (m *lifecycleManager) GetOrder(ctx context.Context, orderID int32) (*domain.Order, error) {
	o, err := m.store.Repos().Orders.GetByID(ctx, orderID)
	return o, classify(err)
}

func (m *lifecycleManager) GetRental(ctx context.Context, rentalID int32) (*domain.Rental, error) {
	r, err := m.store.Repos().Rentals.GetByID(ctx, rentalID)
	return r, classify(err)
}

func (m *lifecycleManager) ListOrdersByUser(ctx context.Context, userID int32) ([]domain.Order, error) {
	orders, err := m.store.Repos().Orders.ListByUser(ctx, userID)
	return orders, classify(err)
}

func (m *lifecycleManager) ListRentalsByUser(ctx context.Context, userID int32) ([]domain.Rental, error) {
	rentals, err := m.store.Repos().Rentals.ListByRenter(ctx, userID)
	return rentals, classify(err)
}

func (m *lifecycleManager) ListRentalsByTool(ctx context.Context, toolID int32) ([]domain.Rental, error) {
	rentals, err := m.store.Repos().Rentals.ListByTool(ctx, toolID)
	return rentals, classify(err)
}

func (m *lifecycleManager) ListPaymentsByRental(ctx context.Context, rentalID int32) ([]domain.Payment, error) {
	repos := m.store.Repos()
	if _, err := repos.Rentals.GetByID(ctx, rentalID); err != nil {
		return nil, classify(err)
	}
	payments, err := repos.Payments.ListByRental(ctx, rentalID)
	return payments, classify(err)
}

func (m *lifecycleManager) ListPaymentsByUser(ctx context.Context, userID int32) ([]domain.Payment, error) {
	payments, err := m.store.Repos().Payments.ListByUser(ctx, userID)
	return payments, classify(err)
}
