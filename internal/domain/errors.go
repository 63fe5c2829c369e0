package domain

import (
	"errors"
	"fmt"
)

// ErrorKind is the machine-readable class of a failure. It is what API
// clients see in the "kind" field of an error response.
type ErrorKind string

const (
	KindNotFound             ErrorKind = "NOT_FOUND"
	KindInvalidInput         ErrorKind = "INVALID_INPUT"
	KindInvalidTransition    ErrorKind = "INVALID_TRANSITION"
	KindPaymentCaptureFailed ErrorKind = "PAYMENT_CAPTURE_FAILED"
	KindStorageTimeout       ErrorKind = "STORAGE_TIMEOUT"
	KindStorageError         ErrorKind = "STORAGE_ERROR"
	KindUnauthorized         ErrorKind = "UNAUTHORIZED"
	KindForbidden            ErrorKind = "FORBIDDEN"
	KindConflict             ErrorKind = "CONFLICT"

	// Only ever reported as a warning next to a successful transition.
	KindHistoryRecordFailed ErrorKind = "HISTORY_RECORD_FAILED"
)

// Error carries a kind, a message that is safe to show to a caller, and an
// optional cause that is only ever logged.
type Error struct {
	Kind    ErrorKind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is reports whether target is an *Error of the same kind. A target with an
// empty message matches every error of that kind.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	if t.Kind != e.Kind {
		return false
	}
	return t.Message == "" || t.Message == e.Message
}

// NewError builds an error of the given kind.
func NewError(kind ErrorKind, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// WrapError builds an error of the given kind around cause.
func WrapError(kind ErrorKind, cause error, message string) *Error {
	return &Error{Kind: kind, Message: message, Err: cause}
}

// KindOf returns the kind of err, or KindStorageError for anything that is
// not a domain error.
func KindOf(err error) ErrorKind {
	var de *Error
	if errors.As(err, &de) {
		return de.Kind
	}
	return KindStorageError
}

// Kind-wide sentinels, for use with errors.Is.
var (
	ErrNotFound             = &Error{Kind: KindNotFound}
	ErrInvalidInput         = &Error{Kind: KindInvalidInput}
	ErrInvalidTransition    = &Error{Kind: KindInvalidTransition}
	ErrPaymentCaptureFailed = &Error{Kind: KindPaymentCaptureFailed}
	ErrStorageTimeout       = &Error{Kind: KindStorageTimeout}
	ErrStorage              = &Error{Kind: KindStorageError}
	ErrUnauthorized         = &Error{Kind: KindUnauthorized}
	ErrForbidden            = &Error{Kind: KindForbidden}
	ErrConflict             = &Error{Kind: KindConflict}
)

var (
	ErrToolNotFound           = &Error{Kind: KindNotFound, Message: "tool not found"}
	ErrUserNotFound           = &Error{Kind: KindNotFound, Message: "user not found"}
	ErrOrderNotFound          = &Error{Kind: KindNotFound, Message: "order not found"}
	ErrRentalNotFound         = &Error{Kind: KindNotFound, Message: "rental not found"}
	ErrSupportRequestNotFound = &Error{Kind: KindNotFound, Message: "support request not found"}

	ErrInvalidDateRange       = &Error{Kind: KindInvalidInput, Message: "invalid date range"}
	ErrStartDateInPast        = &Error{Kind: KindInvalidInput, Message: "start date cannot be in the past", Err: ErrInvalidDateRange}
	ErrEndBeforeStart         = &Error{Kind: KindInvalidInput, Message: "end date must be after start date", Err: ErrInvalidDateRange}
	ErrMissingDeliveryAddress = &Error{Kind: KindInvalidInput, Message: "delivery address is required for delivery orders"}
	ErrInvalidDeliveryType    = &Error{Kind: KindInvalidInput, Message: "delivery type must be pickup or delivery"}
	ErrInvalidExtension       = &Error{Kind: KindInvalidInput, Message: "additional days must be positive"}
	ErrExtensionTooLong       = &Error{Kind: KindInvalidInput, Message: "extension exceeds the maximum rental length", Err: ErrInvalidExtension}
	ErrPriceOverflow          = &Error{Kind: KindInvalidInput, Message: "rental total is too large"}

	ErrToolInUse = &Error{Kind: KindConflict, Message: "tool has pending or active rentals"}
)
