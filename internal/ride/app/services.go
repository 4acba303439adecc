package app

import (
	"context"
	"fmt"
	"strings"

	"ride-entitlement/internal/ride/domain"
	"ride-entitlement/internal/shared/clock"
	sharedmodels "ride-entitlement/internal/shared/models"
	"ride-entitlement/internal/shared/util"
	"ride-entitlement/internal/shared/validation"
)

type RideService struct {
	repo   domain.RideRepository
	pub    domain.Publisher
	logger *util.Logger
	clk    clock.Clock
}

func NewRideService(repo domain.RideRepository, pub domain.Publisher, logger *util.Logger, clk clock.Clock) *RideService {
	return &RideService{repo: repo, pub: pub, logger: logger, clk: clk}
}

// CreateRide is the minimal intake: matching and offer fan-out live outside
// this engine, the gate only needs pending rides to exist.
func (s *RideService) CreateRide(ctx context.Context, passengerID string) (*domain.Ride, error) {
	instance := "RideService.CreateRide"

	if err := validation.ValidateUUID(passengerID, "passenger_id"); err != nil {
		return nil, err
	}

	rideID, err := util.GenerateUUID()
	if err != nil {
		return nil, fmt.Errorf("failed generating uuid: %w", err)
	}

	ride := domain.Ride{
		ID:          rideID,
		PassengerID: passengerID,
		Status:      domain.StatusPending,
		RequestedAt: s.clk.Now(),
	}

	if err := s.repo.CreateRide(ctx, ride); err != nil {
		s.logger.Error(instance, err)
		return nil, err
	}

	s.publish(ctx, "ride.status.pending", map[string]interface{}{
		"ride_id":      ride.ID,
		"passenger_id": passengerID,
	})

	s.logger.Info(instance, fmt.Sprintf("ride %s created for passenger %s", rideID, passengerID))

	return &ride, nil
}

// AcceptRide lets an entitled, available driver claim a pending ride. The
// repo transaction guarantees at most one winner; every loser gets the
// specific reason so the caller can tell "stop polling" from "retry".
func (s *RideService) AcceptRide(ctx context.Context, rideID, driverID string) (*domain.Ride, error) {
	instance := "RideService.AcceptRide"

	if err := validation.ValidateUUID(rideID, "ride_id"); err != nil {
		return nil, err
	}
	if err := validation.ValidateUUID(driverID, "driver_id"); err != nil {
		return nil, err
	}

	ride, err := s.repo.AcceptRide(ctx, rideID, driverID, s.clk.Now())
	if err != nil {
		return nil, err
	}

	s.publish(ctx, "ride.status.accepted", map[string]interface{}{
		"ride_id":   rideID,
		"driver_id": driverID,
	})

	s.logger.Info(instance, fmt.Sprintf("ride %s accepted by driver %s", rideID, driverID))

	return ride, nil
}

// UpdateRideStatus advances the ride state machine. Terminal transitions
// release the driver back into the presence tracker's normal rules.
func (s *RideService) UpdateRideStatus(ctx context.Context, rideID, callerID, callerRole string, target domain.RideStatus) (*domain.Ride, error) {
	instance := "RideService.UpdateRideStatus"

	if err := validation.ValidateUUID(rideID, "ride_id"); err != nil {
		return nil, err
	}
	if err := validation.ValidateOneOf(string(target), "status",
		string(domain.StatusArrived), string(domain.StatusInProgress),
		string(domain.StatusCompleted), string(domain.StatusCancelled)); err != nil {
		return nil, err
	}

	ride, err := s.repo.GetRideByID(ctx, rideID)
	if err != nil {
		return nil, err
	}

	if callerRole != sharedmodels.RoleAdmin {
		if ride.DriverID == nil || *ride.DriverID != callerID {
			return nil, domain.ErrNotAssignedDriver
		}
	}

	if !domain.CanTransition(ride.Status, target) {
		if ride.Status == domain.StatusCancelled {
			return nil, domain.ErrRideCancelled
		}
		return nil, domain.ErrInvalidTransition
	}

	driverID := ""
	if ride.DriverID != nil {
		driverID = *ride.DriverID
	}

	if domain.Terminal(target) {
		err = s.repo.FinishRide(ctx, rideID, driverID, ride.Status, target, s.clk.Now())
	} else {
		err = s.repo.TransitionStatus(ctx, rideID, ride.Status, target)
	}
	if err != nil {
		return nil, err
	}

	s.publish(ctx, "ride.status."+strings.ToLower(string(target)), map[string]interface{}{
		"ride_id":   rideID,
		"driver_id": ride.DriverID,
	})

	s.logger.Info(instance, fmt.Sprintf("ride %s moved %s -> %s", rideID, ride.Status, target))

	return s.repo.GetRideByID(ctx, rideID)
}

func (s *RideService) GetRideByID(ctx context.Context, rideID string) (*domain.Ride, error) {
	if err := validation.ValidateUUID(rideID, "ride_id"); err != nil {
		return nil, err
	}
	return s.repo.GetRideByID(ctx, rideID)
}

func (s *RideService) publish(ctx context.Context, routingKey string, payload interface{}) {
	if s.pub == nil {
		return
	}
	if err := s.pub.Publish(ctx, routingKey, payload); err != nil {
		s.logger.Warn("RideService.publish", fmt.Sprintf("failed to publish %s: %v", routingKey, err))
	}
}
