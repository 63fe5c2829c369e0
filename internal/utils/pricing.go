package utils

import (
	"fmt"
	"math"
	"strings"
	"time"

	"toolrental-backend/internal/domain"
)

// Day is the billing unit for rentals.
const Day = 24 * time.Hour

const dateLayout = "2006-01-02"

// MaxExtensionDays caps a single extension request.
const MaxExtensionDays = 3650

// ParseRentalDate accepts either a calendar date (yyyy-mm-dd, taken as
// midnight UTC) or a full RFC 3339 timestamp.
func ParseRentalDate(value string) (time.Time, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return time.Time{}, fmt.Errorf("date is required")
	}
	if t, err := time.Parse(time.RFC3339, value); err == nil {
		return t.UTC(), nil
	}
	t, err := time.Parse(dateLayout, value)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q, expected yyyy-mm-dd or RFC 3339", value)
	}
	return t, nil
}

// RentalDays returns the number of billable days between start and end.
// Partial days round up. end must be strictly after start.
func RentalDays(start, end time.Time) (int, error) {
	if !end.After(start) {
		return 0, fmt.Errorf("end date must be after start date")
	}
	d := end.Sub(start)
	days := int(d / Day)
	if d%Day != 0 {
		days++
	}
	return days, nil
}

// TotalPriceCents returns pricePerDay × days. It fails when the product
// does not fit in int64.
func TotalPriceCents(pricePerDayCents int64, days int) (int64, error) {
	if pricePerDayCents < 0 || days < 0 {
		return 0, fmt.Errorf("price and days must not be negative")
	}
	if days != 0 && pricePerDayCents > math.MaxInt64/int64(days) {
		return 0, fmt.Errorf("total price overflows")
	}
	return pricePerDayCents * int64(days), nil
}

// ExtendedTotalCents adds days more days at pricePerDay to total.
func ExtendedTotalCents(total, pricePerDayCents int64, days int) (int64, error) {
	extra, err := TotalPriceCents(pricePerDayCents, days)
	if err != nil {
		return 0, err
	}
	if total > math.MaxInt64-extra {
		return 0, fmt.Errorf("total price overflows")
	}
	return total + extra, nil
}

// ExtendEndDate moves end forward by the given number of whole days.
// days must be in [1, MaxExtensionDays].
func ExtendEndDate(end time.Time, days int) (time.Time, error) {
	if days <= 0 || days > MaxExtensionDays {
		return time.Time{}, fmt.Errorf("extension must be between 1 and %d days", MaxExtensionDays)
	}
	newEnd := end.Add(time.Duration(days) * Day)
	if !newEnd.After(end) {
		return time.Time{}, fmt.Errorf("extended end date overflows")
	}
	return newEnd, nil
}

// ValidateRentalWindow checks the creation-time date rules: the rental
// cannot start in the past and must end after it starts.
func ValidateRentalWindow(start, end, now time.Time) error {
	if start.Before(now) {
		return domain.ErrStartDateInPast
	}
	if !end.After(start) {
		return domain.ErrEndBeforeStart
	}
	return nil
}
