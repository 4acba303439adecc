package app

import (
	"context"
	"fmt"
	"time"

	drivermodels "ride-entitlement/internal/driver/models"
	"ride-entitlement/internal/subscription/domain"
)

// Reduce derives the canonical cached entitlement from a driver's ledger
// records. Precedence: entitled (ACTIVE with future expiry, keeping the
// furthest expiry when drift left several) > PAUSED > EXPIRED > NONE.
// Pure function; re-running it against the same records converges.
func Reduce(records []domain.Subscription, now time.Time) (drivermodels.SubscriptionStatus, *time.Time) {
	var bestExpiry *time.Time
	hasPaused := false
	hasExpired := false

	for i := range records {
		rec := &records[i]
		switch {
		case rec.EntitledAt(now):
			if bestExpiry == nil || rec.ExpiryDate.After(*bestExpiry) {
				bestExpiry = rec.ExpiryDate
			}
		case rec.Status == domain.StatusPaused:
			hasPaused = true
		case rec.Status == domain.StatusExpired,
			rec.Status == domain.StatusActive: // stored ACTIVE with a past expiry
			hasExpired = true
		}
	}

	switch {
	case bestExpiry != nil:
		return drivermodels.SubscriptionActive, bestExpiry
	case hasPaused:
		return drivermodels.SubscriptionPaused, nil
	case hasExpired:
		return drivermodels.SubscriptionExpired, nil
	default:
		return drivermodels.SubscriptionNone, nil
	}
}

// RecomputeDriver reconciles the driver's cached entitlement with the
// ledger. The profile is written when the computed pair differs from the
// stored one, or when a non-entitled driver's presence is still up; either
// way a non-ACTIVE target forces the driver offline in the same write.
// Returns whether a write happened.
func (s *LedgerService) RecomputeDriver(ctx context.Context, driverID string) (bool, error) {
	instance := "Synchronizer.RecomputeDriver"

	records, err := s.repo.ListByDriver(ctx, driverID)
	if err != nil {
		return false, err
	}

	profile, err := s.repo.GetDriverProfile(ctx, driverID)
	if err != nil {
		return false, err
	}

	target, expiry := Reduce(records, s.clk.Now())
	cacheMatches := profile.SubscriptionStatus == target && equalExpiry(profile.SubscriptionExpiry, expiry)
	forceOffline := target != drivermodels.SubscriptionActive
	presenceDrifted := forceOffline && profile.OnlineStatus != drivermodels.DriverOffline
	if cacheMatches && !presenceDrifted {
		return false, nil
	}

	if err := s.repo.UpdateDriverEntitlement(ctx, driverID, target, expiry, forceOffline); err != nil {
		return false, err
	}

	if !cacheMatches {
		s.publish(ctx, "driver.entitlement_changed", map[string]interface{}{
			"driver_id":           driverID,
			"subscription_status": target,
			"subscription_expiry": expiry,
		})
	}

	if presenceDrifted {
		s.publish(ctx, "driver.forced_offline", map[string]interface{}{
			"driver_id": driverID,
			"reason":    string(target),
		})
		s.notifyDriver(driverID, map[string]interface{}{
			"type":                "forced_offline",
			"subscription_status": target,
		})
		s.logger.Info(instance, fmt.Sprintf("driver %s forced offline (entitlement %s)", driverID, target))
	}

	return true, nil
}

// MassSync runs the reducer over every driver. It is the self-healing pass
// that corrects drift from partial failures; a second run with no ledger
// change in between performs zero writes.
func (s *LedgerService) MassSync(ctx context.Context) (int, error) {
	instance := "Synchronizer.MassSync"

	driverIDs, err := s.repo.ListDriverIDs(ctx)
	if err != nil {
		return 0, err
	}

	changed := 0
	for _, driverID := range driverIDs {
		wrote, err := s.RecomputeDriver(ctx, driverID)
		if err != nil {
			s.logger.Error(instance, fmt.Errorf("driver %s: %w", driverID, err))
			continue
		}
		if wrote {
			changed++
		}
	}

	if changed > 0 {
		s.logger.Info(instance, fmt.Sprintf("reconciled %d of %d drivers", changed, len(driverIDs)))
	}

	return changed, nil
}

func (s *LedgerService) notifyDriver(driverID string, payload interface{}) {
	if s.notifier == nil {
		return
	}
	if err := s.notifier.NotifyDriver(driverID, payload); err != nil {
		s.logger.Warn("Synchronizer.notify", fmt.Sprintf("driver %s: %v", driverID, err))
	}
}

func equalExpiry(a, b *time.Time) bool {
	if a == nil || b == nil {
		return a == b
	}
	return a.Equal(*b)
}
