package domain

import "time"

type RideStatus string

const (
	StatusPending    RideStatus = "PENDING"
	StatusAccepted   RideStatus = "ACCEPTED"
	StatusArrived    RideStatus = "ARRIVED"
	StatusInProgress RideStatus = "IN_PROGRESS"
	StatusCompleted  RideStatus = "COMPLETED"
	StatusCancelled  RideStatus = "CANCELLED"
)

type Ride struct {
	ID          string     `db:"id" json:"id"`
	PassengerID string     `db:"passenger_id" json:"passenger_id"`
	DriverID    *string    `db:"driver_id" json:"driver_id,omitempty"`
	Status      RideStatus `db:"status" json:"status"`
	RequestedAt time.Time  `db:"requested_at" json:"requested_at"`
	AcceptedAt  *time.Time `db:"accepted_at" json:"accepted_at,omitempty"`
	CompletedAt *time.Time `db:"completed_at" json:"completed_at,omitempty"`
	CancelledAt *time.Time `db:"cancelled_at" json:"cancelled_at,omitempty"`
	UpdatedAt   time.Time  `db:"updated_at" json:"updated_at"`
}

// transitions is the ride state machine: the happy path runs
// PENDING → ACCEPTED → ARRIVED → IN_PROGRESS → COMPLETED, and any
// non-terminal state may cancel. Nothing leaves COMPLETED or CANCELLED.
var transitions = map[RideStatus][]RideStatus{
	StatusPending:    {StatusAccepted, StatusCancelled},
	StatusAccepted:   {StatusArrived, StatusCancelled},
	StatusArrived:    {StatusInProgress, StatusCancelled},
	StatusInProgress: {StatusCompleted, StatusCancelled},
}

func CanTransition(from, to RideStatus) bool {
	for _, next := range transitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// Terminal reports whether the status admits no further transitions.
func Terminal(status RideStatus) bool {
	return status == StatusCompleted || status == StatusCancelled
}

// InTrip reports whether a ride in this status keeps its driver ON_TRIP.
func InTrip(status RideStatus) bool {
	return status == StatusAccepted || status == StatusArrived || status == StatusInProgress
}
