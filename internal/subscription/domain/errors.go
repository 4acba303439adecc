package domain

import (
	"fmt"

	"ride-entitlement/internal/shared/apperrors"
)

var (
	ErrSubscriptionNotFound = fmt.Errorf("subscription %w", apperrors.ErrNotFound)
	ErrPlanNotFound         = fmt.Errorf("plan %w", apperrors.ErrNotFound)

	ErrNotPending = apperrors.StateConflict("only a pending subscription can be verified")
	ErrNotActive  = apperrors.StateConflict("subscription is not active")
	ErrNotPaused  = apperrors.StateConflict("subscription is not paused")
)
