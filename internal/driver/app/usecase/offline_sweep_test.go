package usecase

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ride-entitlement/internal/driver/models"
	"ride-entitlement/internal/shared/clock"
)

func TestOfflineSweep_MarksOnlyStaleOnlineDrivers(t *testing.T) {
	start := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	clk := clock.NewFake(start)
	repo := newFakeRepo()

	stale := mustUUID()
	fresh := mustUUID()
	onTrip := mustUUID()
	offline := mustUUID()

	staleSeen := start.Add(-2 * time.Minute)
	freshSeen := start.Add(-10 * time.Second)

	repo.add(stale, models.DriverOnline, models.SubscriptionActive, &staleSeen)
	repo.add(fresh, models.DriverOnline, models.SubscriptionActive, &freshSeen)
	repo.add(onTrip, models.DriverOnTrip, models.SubscriptionActive, &staleSeen)
	repo.add(offline, models.DriverOffline, models.SubscriptionActive, &staleSeen)

	svc := newTestService(repo, clk, time.Minute)

	n, err := svc.RunOfflineSweep(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	assert.Equal(t, models.DriverOffline, repo.drivers[stale].OnlineStatus)
	assert.Equal(t, models.DriverOnline, repo.drivers[fresh].OnlineStatus)
	// Trips outlive heartbeats. The sweep never touches ON_TRIP.
	assert.Equal(t, models.DriverOnTrip, repo.drivers[onTrip].OnlineStatus)
	assert.Equal(t, models.DriverOffline, repo.drivers[offline].OnlineStatus)
}

func TestOfflineSweep_SecondRunIsNoop(t *testing.T) {
	start := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	clk := clock.NewFake(start)
	repo := newFakeRepo()

	seen := start.Add(-5 * time.Minute)
	repo.add(mustUUID(), models.DriverOnline, models.SubscriptionActive, &seen)

	svc := newTestService(repo, clk, time.Minute)

	n, err := svc.RunOfflineSweep(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	n, err = svc.RunOfflineSweep(context.Background())
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestOfflineSweep_HeartbeatResetsStaleness(t *testing.T) {
	start := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	clk := clock.NewFake(start)
	repo := newFakeRepo()

	driverID := mustUUID()
	seen := start.Add(-50 * time.Second)
	repo.add(driverID, models.DriverOnline, models.SubscriptionActive, &seen)

	svc := newTestService(repo, clk, time.Minute)

	// Heartbeat lands just before the driver would have gone stale.
	clk.Advance(30 * time.Second)
	_, err := svc.Heartbeat(context.Background(), driverID)
	require.NoError(t, err)

	clk.Advance(45 * time.Second)
	n, err := svc.RunOfflineSweep(context.Background())
	require.NoError(t, err)
	assert.Zero(t, n)
	assert.Equal(t, models.DriverOnline, repo.drivers[driverID].OnlineStatus)
}
