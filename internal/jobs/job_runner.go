package jobs

import (
	"context"
	"time"

	"toolrental-backend/internal/config"
	"toolrental-backend/internal/logger"
)

// Lifecycle is the part of the rental lifecycle manager the jobs drive.
type Lifecycle interface {
	RetryUnbilled(ctx context.Context, limit int) (int, error)
	ExpireStalePending(ctx context.Context, cutoff time.Time, limit int) (int, error)
}

// JobRunner coordinates all scheduled jobs
type JobRunner struct {
	lifecycle Lifecycle
	config    *config.Config
	now       func() time.Time
}

func NewJobRunner(lifecycle Lifecycle, cfg *config.Config) *JobRunner {
	return &JobRunner{
		lifecycle: lifecycle,
		config:    cfg,
		now:       time.Now,
	}
}

func (jr *JobRunner) Config() *config.Config {
	return jr.config
}

// runWithRecovery wraps job execution with panic recovery
func (jr *JobRunner) runWithRecovery(jobName string, jobFunc func(ctx context.Context) error) {
	defer func() {
		if r := recover(); r != nil {
			logger.Error("Job panicked", "job", jobName, "panic", r)
		}
	}()

	logger.Info("Starting job", "job", jobName)
	start := time.Now()
	if err := jobFunc(context.Background()); err != nil {
		logger.Error("Job failed", "job", jobName, "error", err, "duration", time.Since(start))
		return
	}
	logger.Info("Job completed", "job", jobName, "duration", time.Since(start))
}

// RunAll runs every job once, for manual execution.
func (jr *JobRunner) RunAll() {
	jr.RetryPaymentCaptures()
	jr.ExpireStalePending()
}
