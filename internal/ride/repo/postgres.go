package repo

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	drivermodels "ride-entitlement/internal/driver/models"
	"ride-entitlement/internal/ride/domain"
	"ride-entitlement/internal/shared/apperrors"
)

type RideRepo struct {
	db *pgxpool.Pool
}

func NewRideRepo(db *pgxpool.Pool) *RideRepo {
	return &RideRepo{db: db}
}

const rideColumns = `id, passenger_id, driver_id, status, requested_at, accepted_at, completed_at, cancelled_at, updated_at`

func scanRide(row pgx.Row) (*domain.Ride, error) {
	var ride domain.Ride
	err := row.Scan(
		&ride.ID, &ride.PassengerID, &ride.DriverID, &ride.Status,
		&ride.RequestedAt, &ride.AcceptedAt, &ride.CompletedAt, &ride.CancelledAt,
		&ride.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &ride, nil
}

func (r *RideRepo) CreateRide(ctx context.Context, ride domain.Ride) error {
	_, err := r.db.Exec(ctx, `
		INSERT INTO rides (id, passenger_id, status, requested_at, updated_at)
		VALUES ($1, $2, $3, $4, $4)
	`, ride.ID, ride.PassengerID, ride.Status, ride.RequestedAt)
	if err != nil {
		return apperrors.Transient(err)
	}
	return nil
}

func (r *RideRepo) GetRideByID(ctx context.Context, rideID string) (*domain.Ride, error) {
	ride, err := scanRide(r.db.QueryRow(ctx, `SELECT `+rideColumns+` FROM rides WHERE id = $1`, rideID))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrRideNotFound
	} else if err != nil {
		return nil, apperrors.Transient(err)
	}
	return ride, nil
}

// AcceptRide locks the ride row first, so concurrent acceptors serialize on
// it: the winner sees PENDING and claims, every loser sees the committed
// ACCEPTED and fails with the specific conflict. The driver check and both
// writes share the transaction.
func (r *RideRepo) AcceptRide(ctx context.Context, rideID, driverID string, now time.Time) (*domain.Ride, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return nil, apperrors.Transient(err)
	}
	defer tx.Rollback(ctx)

	var status domain.RideStatus
	err = tx.QueryRow(ctx, `SELECT status FROM rides WHERE id = $1 FOR UPDATE`, rideID).Scan(&status)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrRideNotFound
	} else if err != nil {
		return nil, apperrors.Transient(err)
	}

	switch status {
	case domain.StatusPending:
		// claimable
	case domain.StatusCancelled:
		return nil, domain.ErrRideCancelled
	default:
		return nil, domain.ErrRideAlreadyTaken
	}

	var subscriptionStatus drivermodels.SubscriptionStatus
	err = tx.QueryRow(ctx, `SELECT subscription_status FROM drivers WHERE id = $1 FOR UPDATE`, driverID).
		Scan(&subscriptionStatus)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, drivermodels.ErrDriverNotFound
	} else if err != nil {
		return nil, apperrors.Transient(err)
	}

	if subscriptionStatus != drivermodels.SubscriptionActive {
		return nil, domain.ErrDriverNotEntitled
	}

	ride, err := scanRide(tx.QueryRow(ctx, `
		UPDATE rides
		SET status = 'ACCEPTED', driver_id = $2, accepted_at = $3, updated_at = NOW()
		WHERE id = $1
		RETURNING `+rideColumns, rideID, driverID, now))
	if err != nil {
		return nil, apperrors.Transient(err)
	}

	_, err = tx.Exec(ctx, `
		UPDATE drivers
		SET online_status = 'ON_TRIP', updated_at = NOW()
		WHERE id = $1
	`, driverID)
	if err != nil {
		return nil, apperrors.Transient(err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, apperrors.Transient(err)
	}

	return ride, nil
}

func (r *RideRepo) TransitionStatus(ctx context.Context, rideID string, from, to domain.RideStatus) error {
	cmd, err := r.db.Exec(ctx, `
		UPDATE rides
		SET status = $3, updated_at = NOW()
		WHERE id = $1 AND status = $2
	`, rideID, from, to)
	if err != nil {
		return apperrors.Transient(err)
	}
	if cmd.RowsAffected() == 0 {
		// Somebody moved the ride between our read and this write.
		return domain.ErrInvalidTransition
	}
	return nil
}

// FinishRide ends the trip and releases the driver in one transaction. The
// driver's next presence follows their cached entitlement: ONLINE only if
// still ACTIVE, otherwise OFFLINE.
func (r *RideRepo) FinishRide(ctx context.Context, rideID, driverID string, from, to domain.RideStatus, now time.Time) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return apperrors.Transient(err)
	}
	defer tx.Rollback(ctx)

	tsColumn := "completed_at"
	if to == domain.StatusCancelled {
		tsColumn = "cancelled_at"
	}

	cmd, err := tx.Exec(ctx, `
		UPDATE rides
		SET status = $3, `+tsColumn+` = $4, updated_at = NOW()
		WHERE id = $1 AND status = $2
	`, rideID, from, to, now)
	if err != nil {
		return apperrors.Transient(err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrInvalidTransition
	}

	if driverID != "" {
		_, err = tx.Exec(ctx, `
			UPDATE drivers
			SET online_status = CASE
			        WHEN subscription_status = 'ACTIVE' THEN 'ONLINE'
			        ELSE 'OFFLINE'
			    END,
			    updated_at = NOW()
			WHERE id = $1
		`, driverID)
		if err != nil {
			return apperrors.Transient(err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return apperrors.Transient(err)
	}
	return nil
}
