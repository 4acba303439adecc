package usecase

import (
	"context"
	"fmt"
	"time"
)

// RunOfflineSweep marks stale ONLINE drivers OFFLINE. It is a pure reducer
// over current profile state: a run that matches nothing is a no-op, so
// overlapping runs converge.
func (s *service) RunOfflineSweep(ctx context.Context) (int64, error) {
	cutoff := s.clk.Now().Add(-s.timeout)
	return s.repo.MarkStaleOffline(ctx, cutoff)
}

func (s *service) StartOfflineSweep(ctx context.Context, interval time.Duration) {
	instance := "PresenceTracker.OfflineSweep"

	ticker := time.NewTicker(interval)

	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				s.logger.Info(instance, "offline sweep stopped")
				return
			case <-ticker.C:
				n, err := s.RunOfflineSweep(ctx)
				if err != nil {
					s.logger.Error(instance, err)
					continue
				}
				if n > 0 {
					s.logger.Info(instance, fmt.Sprintf("marked %d stale drivers offline", n))
				}
			}
		}
	}()
}
