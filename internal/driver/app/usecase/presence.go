package usecase

import (
	"context"

	"ride-entitlement/internal/driver/models"
	"ride-entitlement/internal/shared/validation"
)

func (s *service) Heartbeat(ctx context.Context, driverID string) (*models.DriverProfile, error) {
	if err := validation.ValidateUUID(driverID, "driver_id"); err != nil {
		return nil, err
	}

	return s.repo.Heartbeat(ctx, driverID, s.clk.Now())
}

func (s *service) GetProfile(ctx context.Context, driverID string) (*models.DriverProfile, error) {
	if err := validation.ValidateUUID(driverID, "driver_id"); err != nil {
		return nil, err
	}

	return s.repo.GetProfile(ctx, driverID)
}
