package service

import (
	"context"
	"errors"

	"toolrental-backend/internal/domain"
)

// classify makes sure nothing but a *domain.Error leaves the service layer.
func classify(err error) error {
	if err == nil {
		return nil
	}
	var de *domain.Error
	if errors.As(err, &de) {
		return err
	}
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return domain.WrapError(domain.KindStorageTimeout, err, "storage operation timed out")
	}
	return domain.WrapError(domain.KindStorageError, err, "storage failure")
}
