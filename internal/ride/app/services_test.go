package app

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	drivermodels "ride-entitlement/internal/driver/models"
	"ride-entitlement/internal/ride/domain"
	"ride-entitlement/internal/shared/apperrors"
	"ride-entitlement/internal/shared/clock"
	sharedmodels "ride-entitlement/internal/shared/models"
	"ride-entitlement/internal/shared/util"
)

// fakeRideRepo keeps the same guarantee the Postgres repo gets from row
// locking: the whole accept check-and-claim runs under one mutex, so exactly
// one concurrent caller can win a pending ride.
type fakeRideRepo struct {
	mu      sync.Mutex
	rides   map[string]*domain.Ride
	drivers map[string]*drivermodels.DriverProfile
}

func newFakeRideRepo() *fakeRideRepo {
	return &fakeRideRepo{
		rides:   map[string]*domain.Ride{},
		drivers: map[string]*drivermodels.DriverProfile{},
	}
}

func (f *fakeRideRepo) addDriver(id string, online drivermodels.OnlineStatus, cached drivermodels.SubscriptionStatus) {
	f.drivers[id] = &drivermodels.DriverProfile{ID: id, OnlineStatus: online, SubscriptionStatus: cached}
}

func (f *fakeRideRepo) CreateRide(ctx context.Context, ride domain.Ride) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	clone := ride
	f.rides[ride.ID] = &clone
	return nil
}

func (f *fakeRideRepo) GetRideByID(ctx context.Context, rideID string) (*domain.Ride, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	ride, ok := f.rides[rideID]
	if !ok {
		return nil, domain.ErrRideNotFound
	}
	clone := *ride
	return &clone, nil
}

func (f *fakeRideRepo) AcceptRide(ctx context.Context, rideID, driverID string, now time.Time) (*domain.Ride, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	ride, ok := f.rides[rideID]
	if !ok {
		return nil, domain.ErrRideNotFound
	}
	switch ride.Status {
	case domain.StatusPending:
	case domain.StatusCancelled:
		return nil, domain.ErrRideCancelled
	default:
		return nil, domain.ErrRideAlreadyTaken
	}

	driver, ok := f.drivers[driverID]
	if !ok {
		return nil, drivermodels.ErrDriverNotFound
	}
	if driver.SubscriptionStatus != drivermodels.SubscriptionActive {
		return nil, domain.ErrDriverNotEntitled
	}

	ride.Status = domain.StatusAccepted
	ride.DriverID = &driverID
	ride.AcceptedAt = &now
	driver.OnlineStatus = drivermodels.DriverOnTrip

	clone := *ride
	return &clone, nil
}

func (f *fakeRideRepo) TransitionStatus(ctx context.Context, rideID string, from, to domain.RideStatus) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	ride, ok := f.rides[rideID]
	if !ok || ride.Status != from {
		return domain.ErrInvalidTransition
	}
	ride.Status = to
	return nil
}

func (f *fakeRideRepo) FinishRide(ctx context.Context, rideID, driverID string, from, to domain.RideStatus, now time.Time) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	ride, ok := f.rides[rideID]
	if !ok || ride.Status != from {
		return domain.ErrInvalidTransition
	}
	ride.Status = to
	if to == domain.StatusCancelled {
		ride.CancelledAt = &now
	} else {
		ride.CompletedAt = &now
	}

	if driver, ok := f.drivers[driverID]; ok {
		if driver.SubscriptionStatus == drivermodels.SubscriptionActive {
			driver.OnlineStatus = drivermodels.DriverOnline
		} else {
			driver.OnlineStatus = drivermodels.DriverOffline
		}
	}
	return nil
}

func mustUUID() string {
	id, err := util.GenerateUUID()
	if err != nil {
		panic(err)
	}
	return id
}

func newTestRideService(repo *fakeRideRepo) *RideService {
	clk := clock.NewFake(time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC))
	return NewRideService(repo, nil, util.New(), clk)
}

func seedPendingRide(repo *fakeRideRepo) string {
	rideID := mustUUID()
	repo.rides[rideID] = &domain.Ride{
		ID:          rideID,
		PassengerID: mustUUID(),
		Status:      domain.StatusPending,
	}
	return rideID
}

func TestAcceptRide_EntitledDriverWins(t *testing.T) {
	repo := newFakeRideRepo()
	rideID := seedPendingRide(repo)
	driverID := mustUUID()
	repo.addDriver(driverID, drivermodels.DriverOnline, drivermodels.SubscriptionActive)

	svc := newTestRideService(repo)

	ride, err := svc.AcceptRide(context.Background(), rideID, driverID)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusAccepted, ride.Status)
	require.NotNil(t, ride.DriverID)
	assert.Equal(t, driverID, *ride.DriverID)
	assert.Equal(t, drivermodels.DriverOnTrip, repo.drivers[driverID].OnlineStatus)
}

func TestAcceptRide_FailureReasons(t *testing.T) {
	repo := newFakeRideRepo()
	rideID := seedPendingRide(repo)

	entitled := mustUUID()
	repo.addDriver(entitled, drivermodels.DriverOnline, drivermodels.SubscriptionActive)
	lapsed := mustUUID()
	repo.addDriver(lapsed, drivermodels.DriverOnline, drivermodels.SubscriptionExpired)

	svc := newTestRideService(repo)

	_, err := svc.AcceptRide(context.Background(), rideID, lapsed)
	assert.ErrorIs(t, err, domain.ErrDriverNotEntitled)

	_, err = svc.AcceptRide(context.Background(), rideID, mustUUID())
	assert.ErrorIs(t, err, drivermodels.ErrDriverNotFound)

	_, err = svc.AcceptRide(context.Background(), mustUUID(), entitled)
	assert.ErrorIs(t, err, domain.ErrRideNotFound)

	// Claim it, then try again.
	_, err = svc.AcceptRide(context.Background(), rideID, entitled)
	require.NoError(t, err)
	_, err = svc.AcceptRide(context.Background(), rideID, entitled)
	assert.ErrorIs(t, err, domain.ErrRideAlreadyTaken)

	// Cancelled rides report cancellation, not "taken".
	cancelled := seedPendingRide(repo)
	repo.rides[cancelled].Status = domain.StatusCancelled
	_, err = svc.AcceptRide(context.Background(), cancelled, entitled)
	assert.ErrorIs(t, err, domain.ErrRideCancelled)
}

func TestAcceptRide_ConcurrentRaceHasOneWinner(t *testing.T) {
	repo := newFakeRideRepo()
	rideID := seedPendingRide(repo)

	driverA := mustUUID()
	driverB := mustUUID()
	repo.addDriver(driverA, drivermodels.DriverOnline, drivermodels.SubscriptionActive)
	repo.addDriver(driverB, drivermodels.DriverOnline, drivermodels.SubscriptionActive)

	svc := newTestRideService(repo)

	var wg sync.WaitGroup
	results := make([]error, 2)
	for i, driverID := range []string{driverA, driverB} {
		wg.Add(1)
		go func(i int, driverID string) {
			defer wg.Done()
			_, results[i] = svc.AcceptRide(context.Background(), rideID, driverID)
		}(i, driverID)
	}
	wg.Wait()

	wins, losses := 0, 0
	for _, err := range results {
		switch {
		case err == nil:
			wins++
		case errors.Is(err, domain.ErrRideAlreadyTaken):
			losses++
		default:
			t.Fatalf("unexpected error: %v", err)
		}
	}
	assert.Equal(t, 1, wins, "exactly one driver must win")
	assert.Equal(t, 1, losses, "the loser must see the ride already accepted")

	ride := repo.rides[rideID]
	require.NotNil(t, ride.DriverID)
	assert.Contains(t, []string{driverA, driverB}, *ride.DriverID)
}

func TestUpdateRideStatus_HappyPathReleasesDriver(t *testing.T) {
	repo := newFakeRideRepo()
	rideID := seedPendingRide(repo)
	driverID := mustUUID()
	repo.addDriver(driverID, drivermodels.DriverOnline, drivermodels.SubscriptionActive)

	svc := newTestRideService(repo)

	_, err := svc.AcceptRide(context.Background(), rideID, driverID)
	require.NoError(t, err)

	for _, next := range []domain.RideStatus{domain.StatusArrived, domain.StatusInProgress} {
		ride, err := svc.UpdateRideStatus(context.Background(), rideID, driverID, sharedmodels.RoleDriver, next)
		require.NoError(t, err)
		assert.Equal(t, next, ride.Status)
		assert.Equal(t, drivermodels.DriverOnTrip, repo.drivers[driverID].OnlineStatus)
	}

	ride, err := svc.UpdateRideStatus(context.Background(), rideID, driverID, sharedmodels.RoleDriver, domain.StatusCompleted)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusCompleted, ride.Status)
	require.NotNil(t, ride.CompletedAt)
	assert.Equal(t, drivermodels.DriverOnline, repo.drivers[driverID].OnlineStatus)
}

func TestUpdateRideStatus_CompletionWithLapsedEntitlementGoesOffline(t *testing.T) {
	repo := newFakeRideRepo()
	rideID := seedPendingRide(repo)
	driverID := mustUUID()
	repo.addDriver(driverID, drivermodels.DriverOnline, drivermodels.SubscriptionActive)

	svc := newTestRideService(repo)

	_, err := svc.AcceptRide(context.Background(), rideID, driverID)
	require.NoError(t, err)

	// Entitlement lapses mid-trip; the trip keeps going, but completion
	// releases into OFFLINE rather than ONLINE.
	repo.drivers[driverID].SubscriptionStatus = drivermodels.SubscriptionExpired

	_, err = svc.UpdateRideStatus(context.Background(), rideID, driverID, sharedmodels.RoleDriver, domain.StatusArrived)
	require.NoError(t, err)
	_, err = svc.UpdateRideStatus(context.Background(), rideID, driverID, sharedmodels.RoleDriver, domain.StatusInProgress)
	require.NoError(t, err)
	_, err = svc.UpdateRideStatus(context.Background(), rideID, driverID, sharedmodels.RoleDriver, domain.StatusCompleted)
	require.NoError(t, err)

	assert.Equal(t, drivermodels.DriverOffline, repo.drivers[driverID].OnlineStatus)
}

func TestUpdateRideStatus_Guards(t *testing.T) {
	repo := newFakeRideRepo()
	rideID := seedPendingRide(repo)
	driverID := mustUUID()
	other := mustUUID()
	repo.addDriver(driverID, drivermodels.DriverOnline, drivermodels.SubscriptionActive)
	repo.addDriver(other, drivermodels.DriverOnline, drivermodels.SubscriptionActive)

	svc := newTestRideService(repo)

	// Unassigned ride: a driver cannot advance it, an admin can cancel it.
	_, err := svc.UpdateRideStatus(context.Background(), rideID, driverID, sharedmodels.RoleDriver, domain.StatusCancelled)
	assert.ErrorIs(t, err, domain.ErrNotAssignedDriver)

	_, err = svc.AcceptRide(context.Background(), rideID, driverID)
	require.NoError(t, err)

	// Another driver cannot touch someone else's trip.
	_, err = svc.UpdateRideStatus(context.Background(), rideID, other, sharedmodels.RoleDriver, domain.StatusArrived)
	assert.ErrorIs(t, err, domain.ErrNotAssignedDriver)

	// Skipping states is illegal.
	_, err = svc.UpdateRideStatus(context.Background(), rideID, driverID, sharedmodels.RoleDriver, domain.StatusCompleted)
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)

	// Admin cancel releases the driver.
	ride, err := svc.UpdateRideStatus(context.Background(), rideID, mustUUID(), sharedmodels.RoleAdmin, domain.StatusCancelled)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusCancelled, ride.Status)
	assert.Equal(t, drivermodels.DriverOnline, repo.drivers[driverID].OnlineStatus)

	// Terminal states admit nothing further.
	_, err = svc.UpdateRideStatus(context.Background(), rideID, driverID, sharedmodels.RoleDriver, domain.StatusArrived)
	assert.ErrorIs(t, err, domain.ErrRideCancelled)

	_, err = svc.UpdateRideStatus(context.Background(), rideID, driverID, sharedmodels.RoleDriver, "TELEPORTED")
	assert.ErrorIs(t, err, apperrors.ErrValidation)
}
