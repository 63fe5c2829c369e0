package scheduler

import (
	"context"
	"testing"
	"time"

	"toolrental-backend/internal/config"
	"toolrental-backend/internal/jobs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type noopLifecycle struct{}

func (noopLifecycle) RetryUnbilled(ctx context.Context, limit int) (int, error) { return 0, nil }

func (noopLifecycle) ExpireStalePending(ctx context.Context, cutoff time.Time, limit int) (int, error) {
	return 0, nil
}

func TestNewScheduler(t *testing.T) {
	cfg := &config.Config{Scheduler: config.SchedulerConfig{
		RetryPaymentCaptures: "0 */15 * * * *",
		ExpireStalePending:   "0 0 1 * * *",
	}}
	s, err := NewScheduler(jobs.NewJobRunner(noopLifecycle{}, cfg))
	require.NoError(t, err)
	assert.Equal(t, 2, s.JobCount())

	s.Start()
	s.Stop()
}

func TestNewScheduler_BadSpec(t *testing.T) {
	cfg := &config.Config{Scheduler: config.SchedulerConfig{
		RetryPaymentCaptures: "every now and then",
		ExpireStalePending:   "0 0 1 * * *",
	}}
	_, err := NewScheduler(jobs.NewJobRunner(noopLifecycle{}, cfg))
	assert.ErrorContains(t, err, "RetryPaymentCaptures")
}
