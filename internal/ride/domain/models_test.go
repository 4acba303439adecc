package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCanTransition(t *testing.T) {
	allowed := []struct{ from, to RideStatus }{
		{StatusPending, StatusAccepted},
		{StatusAccepted, StatusArrived},
		{StatusArrived, StatusInProgress},
		{StatusInProgress, StatusCompleted},
		{StatusPending, StatusCancelled},
		{StatusAccepted, StatusCancelled},
		{StatusArrived, StatusCancelled},
		{StatusInProgress, StatusCancelled},
	}
	for _, tc := range allowed {
		assert.True(t, CanTransition(tc.from, tc.to), "%s -> %s should be legal", tc.from, tc.to)
	}

	denied := []struct{ from, to RideStatus }{
		{StatusPending, StatusArrived},
		{StatusPending, StatusCompleted},
		{StatusAccepted, StatusInProgress},
		{StatusAccepted, StatusCompleted},
		{StatusArrived, StatusCompleted},
		{StatusCompleted, StatusCancelled},
		{StatusCancelled, StatusAccepted},
		{StatusCompleted, StatusInProgress},
	}
	for _, tc := range denied {
		assert.False(t, CanTransition(tc.from, tc.to), "%s -> %s should be illegal", tc.from, tc.to)
	}
}

func TestTerminalAndInTrip(t *testing.T) {
	assert.True(t, Terminal(StatusCompleted))
	assert.True(t, Terminal(StatusCancelled))
	assert.False(t, Terminal(StatusInProgress))

	assert.True(t, InTrip(StatusAccepted))
	assert.True(t, InTrip(StatusArrived))
	assert.True(t, InTrip(StatusInProgress))
	assert.False(t, InTrip(StatusPending))
	assert.False(t, InTrip(StatusCompleted))
	assert.False(t, InTrip(StatusCancelled))
}
