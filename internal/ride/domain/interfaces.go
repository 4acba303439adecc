package domain

import (
	"context"
	"time"
)

type RideRepository interface {
	CreateRide(ctx context.Context, ride Ride) error
	GetRideByID(ctx context.Context, rideID string) (*Ride, error)

	// AcceptRide is the contention point: one transaction that locks the
	// ride row, checks driver entitlement and ride state, and claims the
	// ride while marking the driver ON_TRIP. Exactly one concurrent caller
	// can succeed.
	AcceptRide(ctx context.Context, rideID, driverID string, now time.Time) (*Ride, error)

	// TransitionStatus applies a mid-trip transition (ARRIVED,
	// IN_PROGRESS) as a conditional write keyed on the current status.
	TransitionStatus(ctx context.Context, rideID string, from, to RideStatus) error

	// FinishRide applies a terminal transition and, in the same
	// transaction, releases the driver from ON_TRIP back to ONLINE if
	// still entitled, otherwise OFFLINE.
	FinishRide(ctx context.Context, rideID, driverID string, from, to RideStatus, now time.Time) error
}

type Publisher interface {
	Publish(ctx context.Context, routingKey string, payload interface{}) error
}
