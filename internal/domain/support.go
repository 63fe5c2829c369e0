package domain

import "time"

type SupportStatus string

const (
	SupportStatusPending  SupportStatus = "pending"
	SupportStatusFinished SupportStatus = "finished"
	SupportStatusRejected SupportStatus = "rejected"
)

type SupportRequest struct {
	ID        int32         `json:"id"`
	UserID    *int32        `json:"user_id,omitempty"`
	Type      string        `json:"type"`
	Message   string        `json:"message"`
	Status    SupportStatus `json:"status"`
	Name      string        `json:"name"`
	Email     string        `json:"email"`
	Phone     string        `json:"phone,omitempty"`
	Address   string        `json:"address,omitempty"`
	CreatedAt time.Time     `json:"created_at"`
}
