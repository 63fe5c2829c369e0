package domain

import "time"

type ToolStatus string

const (
	ToolStatusActive   ToolStatus = "active"
	ToolStatusInactive ToolStatus = "inactive"
)

type Tool struct {
	ID               int32      `json:"id"`
	OwnerID          int32      `json:"owner_id"`
	OwnerName        string     `json:"owner_name,omitempty"` // Populated on reads joined with users
	Name             string     `json:"name"`
	Description      string     `json:"description"`
	PricePerDayCents int64      `json:"price_per_day_cents"`
	ImageURL         string     `json:"image_url"`
	Status           ToolStatus `json:"status"`
	CreatedAt        time.Time  `json:"created_at"`
}

// IsActive reports whether the tool can be rented.
func (t *Tool) IsActive() bool {
	return t.Status == ToolStatusActive
}
