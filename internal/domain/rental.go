package domain

import "time"

// Rental is the owner/tool-facing mirror of an Order. It carries the pricing.
type Rental struct {
	ID        int32           `json:"id"`
	OrderID   int32           `json:"order_id"`
	ToolID    int32           `json:"tool_id"`
	RenterID  int32           `json:"renter_id"`
	ToolName  string          `json:"tool_name,omitempty"`
	StartDate time.Time       `json:"start_date"`
	EndDate   time.Time       `json:"end_date"`
	Status    LifecycleStatus `json:"status"`
	// Price snapshot taken from the tool at creation time. Extensions and
	// captures use it, never the live tool price.
	PricePerDayCents int64     `json:"price_per_day_cents"`
	TotalPriceCents  int64     `json:"total_price_cents"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}
