package app

import (
	"context"
	"fmt"

	"ride-entitlement/internal/shared/validation"
	"ride-entitlement/internal/subscription/domain"
)

// Pause freezes an active subscription's expiry clock. The record moves to
// PAUSED and the driver's entitlement is recomputed immediately, which drops
// their presence: a paused subscription grants nothing.
func (s *LedgerService) Pause(ctx context.Context, subscriptionID string) (*domain.Subscription, error) {
	instance := "Ledger.Pause"

	if err := validation.ValidateUUID(subscriptionID, "subscription_id"); err != nil {
		return nil, err
	}

	if err := s.repo.Pause(ctx, subscriptionID, s.clk.Now()); err != nil {
		return nil, err
	}

	sub, err := s.repo.GetSubscription(ctx, subscriptionID)
	if err != nil {
		return nil, err
	}

	if _, err := s.RecomputeDriver(ctx, sub.DriverID); err != nil {
		s.logger.Error(instance, err)
	}

	s.publish(ctx, "subscription.paused", map[string]interface{}{
		"subscription_id": subscriptionID,
		"driver_id":       sub.DriverID,
		"paused_at":       sub.PausedAt,
	})

	s.logger.Info(instance, fmt.Sprintf("subscription %s paused (driver %s)", subscriptionID, sub.DriverID))

	return sub, nil
}

// Resume shifts the expiry forward by exactly the paused duration, so the
// driver keeps every remaining day regardless of how long the pause lasted,
// then recomputes entitlement (resume may restore it).
func (s *LedgerService) Resume(ctx context.Context, subscriptionID string) (*domain.Subscription, error) {
	instance := "Ledger.Resume"

	if err := validation.ValidateUUID(subscriptionID, "subscription_id"); err != nil {
		return nil, err
	}

	sub, err := s.repo.Resume(ctx, subscriptionID, s.clk.Now())
	if err != nil {
		return nil, err
	}

	if _, err := s.RecomputeDriver(ctx, sub.DriverID); err != nil {
		s.logger.Error(instance, err)
	}

	s.publish(ctx, "subscription.resumed", map[string]interface{}{
		"subscription_id": subscriptionID,
		"driver_id":       sub.DriverID,
		"expiry_date":     sub.ExpiryDate,
	})

	s.logger.Info(instance, fmt.Sprintf("subscription %s resumed (driver %s)", subscriptionID, sub.DriverID))

	return sub, nil
}
