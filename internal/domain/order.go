package domain

import "time"

type DeliveryType string

const (
	DeliveryTypePickup   DeliveryType = "pickup"
	DeliveryTypeDelivery DeliveryType = "delivery"
)

func (d DeliveryType) Valid() bool {
	return d == DeliveryTypePickup || d == DeliveryTypeDelivery
}

// Order is the customer-facing rental request.
type Order struct {
	ID              int32           `json:"id"`
	UserID          int32           `json:"user_id"`
	ToolID          int32           `json:"tool_id"`
	ToolName        string          `json:"tool_name,omitempty"`
	StartDate       time.Time       `json:"start_date"`
	EndDate         time.Time       `json:"end_date"`
	Status          LifecycleStatus `json:"status"`
	DeliveryType    DeliveryType    `json:"delivery_type"`
	DeliveryAddress string          `json:"delivery_address,omitempty"`
	CreatedAt       time.Time       `json:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at"`
}

// RentalPair is an Order together with the Rental created for it.
type RentalPair struct {
	Order  *Order  `json:"order"`
	Rental *Rental `json:"rental"`
}

// Consistent reports whether the two halves agree on identity and status.
func (p *RentalPair) Consistent() bool {
	if p.Order == nil || p.Rental == nil {
		return false
	}
	return p.Rental.OrderID == p.Order.ID &&
		p.Order.Status == p.Rental.Status &&
		p.Order.ToolID == p.Rental.ToolID &&
		p.Order.UserID == p.Rental.RenterID
}
