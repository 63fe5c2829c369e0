package domain

import "time"

type PaymentStatus string

const (
	PaymentStatusPending   PaymentStatus = "pending"
	PaymentStatusCompleted PaymentStatus = "completed"
	PaymentStatusFailed    PaymentStatus = "failed"
	PaymentStatusDeclined  PaymentStatus = "declined"
	PaymentStatusRefunded  PaymentStatus = "refunded"
)

type Payment struct {
	ID            int32         `json:"id"`
	RentalID      int32         `json:"rental_id"`
	AmountCents   int64         `json:"amount_cents"`
	PaymentMethod string        `json:"payment_method"`
	TransactionID *string       `json:"transaction_id,omitempty"` // NULL for failed attempts
	Status        PaymentStatus `json:"status"`
	FailureReason string        `json:"failure_reason,omitempty"`
	PaymentDate   *time.Time    `json:"payment_date,omitempty"`
	CreatedAt     time.Time     `json:"created_at"`
}
