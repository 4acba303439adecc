package psql

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"ride-entitlement/internal/driver/models"
)

type repo struct {
	db *pgxpool.Pool
}

type Repo interface {
	Heartbeat(ctx context.Context, driverID string, now time.Time) (*models.DriverProfile, error)
	GetProfile(ctx context.Context, driverID string) (*models.DriverProfile, error)
	MarkStaleOffline(ctx context.Context, cutoff time.Time) (int64, error)
}

func NewRepo(db *pgxpool.Pool) Repo {
	return &repo{db: db}
}
