package jobs

import (
	"context"

	"toolrental-backend/internal/logger"
)

// RetryPaymentCaptures bills completed rentals whose capture failed or never
// ran.
func (jr *JobRunner) RetryPaymentCaptures() {
	jr.runWithRecovery("RetryPaymentCaptures", jr.retryPaymentCaptures)
}

func (jr *JobRunner) retryPaymentCaptures(ctx context.Context) error {
	paid, err := jr.lifecycle.RetryUnbilled(ctx, jr.config.Lifecycle.JobBatchSize)
	if err != nil {
		return err
	}
	logger.Info("Retried payment captures", "paid", paid)
	return nil
}

// ExpireStalePending cancels pending rentals whose start date passed more than
// the grace period ago and were never picked up.
func (jr *JobRunner) ExpireStalePending() {
	jr.runWithRecovery("ExpireStalePending", jr.expireStalePending)
}

func (jr *JobRunner) expireStalePending(ctx context.Context) error {
	cutoff := jr.now().UTC().Add(-jr.config.Lifecycle.StalePendingGrace())
	cancelled, err := jr.lifecycle.ExpireStalePending(ctx, cutoff, jr.config.Lifecycle.JobBatchSize)
	if cancelled > 0 {
		logger.Info("Expired stale pending rentals", "cancelled", cancelled, "cutoff", cutoff)
	}
	return err
}
