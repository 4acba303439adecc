package usecase

import (
	"context"
	"time"

	"ride-entitlement/internal/driver/adapter/psql"
	"ride-entitlement/internal/driver/models"
	"ride-entitlement/internal/shared/clock"
	"ride-entitlement/internal/shared/util"
)

type service struct {
	repo    psql.Repo
	logger  *util.Logger
	clk     clock.Clock
	timeout time.Duration
}

type Service interface {
	Heartbeat(ctx context.Context, driverID string) (*models.DriverProfile, error)
	GetProfile(ctx context.Context, driverID string) (*models.DriverProfile, error)
	RunOfflineSweep(ctx context.Context) (int64, error)
	StartOfflineSweep(ctx context.Context, interval time.Duration)
}

// NewService wires the presence tracker. timeout is the heartbeat staleness
// window after which an ONLINE driver is swept OFFLINE.
func NewService(repo psql.Repo, logger *util.Logger, clk clock.Clock, timeout time.Duration) Service {
	return &service{repo: repo, logger: logger, clk: clk, timeout: timeout}
}
