package psql

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"

	"ride-entitlement/internal/driver/models"
	"ride-entitlement/internal/shared/apperrors"
)

// Heartbeat is a single last-write-wins UPDATE so concurrent heartbeats from
// the same driver never need coordination. ON_TRIP is preserved; otherwise
// presence follows the cached entitlement.
func (r *repo) Heartbeat(ctx context.Context, driverID string, now time.Time) (*models.DriverProfile, error) {
	query := `
		UPDATE drivers
		SET last_seen_at = $2,
		    online_status = CASE
		        WHEN online_status = 'ON_TRIP' THEN 'ON_TRIP'
		        WHEN subscription_status = 'ACTIVE' THEN 'ONLINE'
		        ELSE 'OFFLINE'
		    END,
		    updated_at = NOW()
		WHERE id = $1
		RETURNING id, online_status, last_seen_at, subscription_status, subscription_expiry, created_at, updated_at
	`

	profile := &models.DriverProfile{}
	err := r.db.QueryRow(ctx, query, driverID, now).Scan(
		&profile.ID, &profile.OnlineStatus, &profile.LastSeenAt,
		&profile.SubscriptionStatus, &profile.SubscriptionExpiry,
		&profile.CreatedAt, &profile.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, models.ErrDriverNotFound
	} else if err != nil {
		return nil, apperrors.Transient(err)
	}

	return profile, nil
}

func (r *repo) GetProfile(ctx context.Context, driverID string) (*models.DriverProfile, error) {
	query := `
		SELECT id, online_status, last_seen_at, subscription_status, subscription_expiry, created_at, updated_at
		FROM drivers
		WHERE id = $1
	`

	profile := &models.DriverProfile{}
	err := r.db.QueryRow(ctx, query, driverID).Scan(
		&profile.ID, &profile.OnlineStatus, &profile.LastSeenAt,
		&profile.SubscriptionStatus, &profile.SubscriptionExpiry,
		&profile.CreatedAt, &profile.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, models.ErrDriverNotFound
	} else if err != nil {
		return nil, apperrors.Transient(err)
	}

	return profile, nil
}

// MarkStaleOffline batch-transitions ONLINE drivers whose last heartbeat is
// older than the cutoff. ON_TRIP rows are left alone: trip completion, not
// inactivity, owns that transition.
func (r *repo) MarkStaleOffline(ctx context.Context, cutoff time.Time) (int64, error) {
	query := `
		UPDATE drivers
		SET online_status = 'OFFLINE',
		    updated_at = NOW()
		WHERE online_status = 'ONLINE'
		  AND last_seen_at < $1
	`

	cmd, err := r.db.Exec(ctx, query, cutoff)
	if err != nil {
		return 0, apperrors.Transient(err)
	}

	return cmd.RowsAffected(), nil
}
