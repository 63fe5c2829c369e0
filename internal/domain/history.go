package domain

import "time"

// HistoryEntry is one append-only audit line.
type HistoryEntry struct {
	ID        int32     `json:"id"`
	UserID    int32     `json:"user_id"`
	OrderID   int32     `json:"order_id"`
	Detail    string    `json:"detail"`
	CreatedAt time.Time `json:"created_at"`
}
