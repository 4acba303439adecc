package domain

import (
	"fmt"

	"ride-entitlement/internal/shared/apperrors"
)

var (
	ErrRideNotFound = fmt.Errorf("ride %w", apperrors.ErrNotFound)

	// Losing racers and stale pollers get distinct messages so callers can
	// tell "stop polling" (taken, cancelled) from "fix your state" cases.
	ErrRideAlreadyTaken = apperrors.StateConflict("ride has already been accepted")
	ErrRideCancelled    = apperrors.StateConflict("ride has been cancelled")

	ErrDriverNotEntitled = apperrors.StateConflict("driver has no active subscription")
	ErrInvalidTransition = apperrors.StateConflict("illegal ride status transition")
	ErrNotAssignedDriver = fmt.Errorf("%w: ride is assigned to another driver", apperrors.ErrForbidden)
)
