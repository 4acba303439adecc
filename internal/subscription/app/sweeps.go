package app

import (
	"context"
	"fmt"
	"time"
)

// RunExpirySweep flips due ACTIVE records to EXPIRED, then recomputes each
// affected driver. Conditional writes keyed on current state make an
// overlapping run match nothing.
func (s *LedgerService) RunExpirySweep(ctx context.Context) (int, error) {
	instance := "Ledger.ExpirySweep"

	driverIDs, err := s.repo.ExpireDue(ctx, s.clk.Now())
	if err != nil {
		return 0, err
	}

	for _, driverID := range driverIDs {
		s.publish(ctx, "subscription.expired", map[string]interface{}{
			"driver_id": driverID,
		})
		if _, err := s.RecomputeDriver(ctx, driverID); err != nil {
			s.logger.Error(instance, fmt.Errorf("driver %s: %w", driverID, err))
		}
	}

	if len(driverIDs) > 0 {
		s.logger.Info(instance, fmt.Sprintf("expired subscriptions for %d drivers", len(driverIDs)))
	}

	return len(driverIDs), nil
}

// StartSweeps launches the expiry sweep and mass sync on independent
// tickers. Errors are logged and the loop proceeds to the next tick.
func (s *LedgerService) StartSweeps(ctx context.Context, expiryInterval, massSyncInterval time.Duration) {
	go s.loop(ctx, "Ledger.ExpirySweep", expiryInterval, func(ctx context.Context) error {
		_, err := s.RunExpirySweep(ctx)
		return err
	})

	go s.loop(ctx, "Synchronizer.MassSync", massSyncInterval, func(ctx context.Context) error {
		_, err := s.MassSync(ctx)
		return err
	})
}

func (s *LedgerService) loop(ctx context.Context, instance string, interval time.Duration, run func(context.Context) error) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.logger.Info(instance, "stopped")
			return
		case <-ticker.C:
			if err := run(ctx); err != nil {
				s.logger.Error(instance, err)
			}
		}
	}
}
