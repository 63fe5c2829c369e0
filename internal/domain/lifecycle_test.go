package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLifecycleStatus_CanTransitionTo(t *testing.T) {
	tests := []struct {
		from, to LifecycleStatus
		allowed  bool
	}{
		{StatusPending, StatusActive, true},
		{StatusPending, StatusCancelled, true},
		{StatusPending, StatusCompleted, false},
		{StatusActive, StatusCompleted, true},
		{StatusActive, StatusCancelled, false},
		{StatusActive, StatusPending, false},
		{StatusCompleted, StatusCancelled, false},
		{StatusCancelled, StatusActive, false},
	}

	for _, tt := range tests {
		t.Run(string(tt.from)+"->"+string(tt.to), func(t *testing.T) {
			assert.Equal(t, tt.allowed, tt.from.CanTransitionTo(tt.to))
		})
	}
}

func TestLifecycleStatus_Terminal(t *testing.T) {
	assert.False(t, StatusPending.IsTerminal())
	assert.False(t, StatusActive.IsTerminal())
	assert.True(t, StatusCompleted.IsTerminal())
	assert.True(t, StatusCancelled.IsTerminal())

	assert.True(t, StatusPending.Extendable())
	assert.True(t, StatusActive.Extendable())
	assert.False(t, StatusCompleted.Extendable())
	assert.False(t, LifecycleStatus("returned").Valid())
}
