package domain

import (
	"context"
	"time"

	drivermodels "ride-entitlement/internal/driver/models"
)

type Repository interface {
	CreateSubscription(ctx context.Context, sub Subscription) error
	GetSubscription(ctx context.Context, id string) (*Subscription, error)
	ListByDriver(ctx context.Context, driverID string) ([]Subscription, error)
	DeleteSubscription(ctx context.Context, id string) error

	// Conditional lifecycle writes. Each is a single atomic
	// read-check-write; ErrSubscriptionNotFound / the matching state
	// conflict error is returned when the precondition does not hold.
	Activate(ctx context.Context, id string, start, expiry time.Time) error
	Reject(ctx context.Context, id string) error
	Pause(ctx context.Context, id string, pausedAt time.Time) error
	Resume(ctx context.Context, id string, now time.Time) (*Subscription, error)

	// ExpireDue flips ACTIVE records whose expiry has passed to EXPIRED
	// and returns the distinct driver ids that were affected.
	ExpireDue(ctx context.Context, now time.Time) ([]string, error)

	GetPlan(ctx context.Context, id string) (*Plan, error)
	ListPlans(ctx context.Context) ([]Plan, error)

	// Driver profile cache access for the synchronizer.
	GetDriverProfile(ctx context.Context, driverID string) (*drivermodels.DriverProfile, error)
	ListDriverIDs(ctx context.Context) ([]string, error)
	UpdateDriverEntitlement(ctx context.Context, driverID string, status drivermodels.SubscriptionStatus, expiry *time.Time, forceOffline bool) error
	SetDriverCachedPending(ctx context.Context, driverID string) error
}

type Publisher interface {
	Publish(ctx context.Context, routingKey string, payload interface{}) error
}

// Notifier pushes a message to a connected driver (websocket). Losing the
// driver's attention is acceptable; losing entitlement state is not, so
// notify errors are logged and never fail the mutation.
type Notifier interface {
	NotifyDriver(driverID string, payload interface{}) error
}
