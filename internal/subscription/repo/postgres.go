package repo

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	drivermodels "ride-entitlement/internal/driver/models"
	"ride-entitlement/internal/shared/apperrors"
	"ride-entitlement/internal/subscription/domain"
)

type SubscriptionRepo struct {
	db *pgxpool.Pool
}

func NewSubscriptionRepo(db *pgxpool.Pool) *SubscriptionRepo {
	return &SubscriptionRepo{db: db}
}

const subscriptionColumns = `id, driver_id, plan_id, status, payment_evidence, start_date, expiry_date, paused_at, created_at`

func scanSubscription(row pgx.Row) (*domain.Subscription, error) {
	var sub domain.Subscription
	err := row.Scan(
		&sub.ID, &sub.DriverID, &sub.PlanID, &sub.Status, &sub.PaymentEvidence,
		&sub.StartDate, &sub.ExpiryDate, &sub.PausedAt, &sub.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &sub, nil
}

func (r *SubscriptionRepo) CreateSubscription(ctx context.Context, sub domain.Subscription) error {
	query := `
		INSERT INTO subscriptions (id, driver_id, plan_id, status, payment_evidence, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`
	_, err := r.db.Exec(ctx, query,
		sub.ID, sub.DriverID, sub.PlanID, sub.Status, sub.PaymentEvidence, sub.CreatedAt,
	)
	if err != nil {
		return apperrors.Transient(err)
	}
	return nil
}

func (r *SubscriptionRepo) GetSubscription(ctx context.Context, id string) (*domain.Subscription, error) {
	row := r.db.QueryRow(ctx, `SELECT `+subscriptionColumns+` FROM subscriptions WHERE id = $1`, id)

	sub, err := scanSubscription(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrSubscriptionNotFound
	} else if err != nil {
		return nil, apperrors.Transient(err)
	}
	return sub, nil
}

func (r *SubscriptionRepo) ListByDriver(ctx context.Context, driverID string) ([]domain.Subscription, error) {
	rows, err := r.db.Query(ctx, `
		SELECT `+subscriptionColumns+`
		FROM subscriptions
		WHERE driver_id = $1
		ORDER BY created_at DESC
	`, driverID)
	if err != nil {
		return nil, apperrors.Transient(err)
	}
	defer rows.Close()

	subs := []domain.Subscription{}
	for rows.Next() {
		sub, err := scanSubscription(rows)
		if err != nil {
			return nil, apperrors.Transient(err)
		}
		subs = append(subs, *sub)
	}
	return subs, rows.Err()
}

func (r *SubscriptionRepo) DeleteSubscription(ctx context.Context, id string) error {
	cmd, err := r.db.Exec(ctx, `DELETE FROM subscriptions WHERE id = $1`, id)
	if err != nil {
		return apperrors.Transient(err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrSubscriptionNotFound
	}
	return nil
}

func (r *SubscriptionRepo) Activate(ctx context.Context, id string, start, expiry time.Time) error {
	query := `
		UPDATE subscriptions
		SET status = 'ACTIVE', start_date = $2, expiry_date = $3
		WHERE id = $1 AND status = 'PENDING'
	`
	cmd, err := r.db.Exec(ctx, query, id, start, expiry)
	if err != nil {
		return apperrors.Transient(err)
	}
	if cmd.RowsAffected() == 0 {
		return r.conflictOrNotFound(ctx, id, domain.ErrNotPending)
	}
	return nil
}

func (r *SubscriptionRepo) Reject(ctx context.Context, id string) error {
	query := `
		UPDATE subscriptions
		SET status = 'REJECTED'
		WHERE id = $1 AND status = 'PENDING'
	`
	cmd, err := r.db.Exec(ctx, query, id)
	if err != nil {
		return apperrors.Transient(err)
	}
	if cmd.RowsAffected() == 0 {
		return r.conflictOrNotFound(ctx, id, domain.ErrNotPending)
	}
	return nil
}

// Pause freezes the expiry clock: expiry_date stays put, paused_at records
// when the freeze began. The WHERE clause is the whole state check, so
// concurrent admin retries cannot double-apply.
func (r *SubscriptionRepo) Pause(ctx context.Context, id string, pausedAt time.Time) error {
	query := `
		UPDATE subscriptions
		SET status = 'PAUSED', paused_at = $2
		WHERE id = $1 AND status = 'ACTIVE'
	`
	cmd, err := r.db.Exec(ctx, query, id, pausedAt)
	if err != nil {
		return apperrors.Transient(err)
	}
	if cmd.RowsAffected() == 0 {
		return r.conflictOrNotFound(ctx, id, domain.ErrNotActive)
	}
	return nil
}

// Resume shifts expiry_date forward by exactly the paused duration and
// clears paused_at, all in one conditional statement.
func (r *SubscriptionRepo) Resume(ctx context.Context, id string, now time.Time) (*domain.Subscription, error) {
	query := `
		UPDATE subscriptions
		SET status = 'ACTIVE',
		    expiry_date = expiry_date + ($2::timestamptz - paused_at),
		    paused_at = NULL
		WHERE id = $1 AND status = 'PAUSED'
		RETURNING ` + subscriptionColumns

	sub, err := scanSubscription(r.db.QueryRow(ctx, query, id, now))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, r.conflictOrNotFound(ctx, id, domain.ErrNotPaused)
	} else if err != nil {
		return nil, apperrors.Transient(err)
	}
	return sub, nil
}

func (r *SubscriptionRepo) conflictOrNotFound(ctx context.Context, id string, conflict error) error {
	var exists bool
	err := r.db.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM subscriptions WHERE id = $1)`, id).Scan(&exists)
	if err != nil {
		return apperrors.Transient(err)
	}
	if !exists {
		return domain.ErrSubscriptionNotFound
	}
	return conflict
}

func (r *SubscriptionRepo) ExpireDue(ctx context.Context, now time.Time) ([]string, error) {
	rows, err := r.db.Query(ctx, `
		UPDATE subscriptions
		SET status = 'EXPIRED'
		WHERE status = 'ACTIVE' AND expiry_date < $1
		RETURNING driver_id
	`, now)
	if err != nil {
		return nil, apperrors.Transient(err)
	}
	defer rows.Close()

	seen := map[string]bool{}
	driverIDs := []string{}
	for rows.Next() {
		var driverID string
		if err := rows.Scan(&driverID); err != nil {
			return nil, apperrors.Transient(err)
		}
		if !seen[driverID] {
			seen[driverID] = true
			driverIDs = append(driverIDs, driverID)
		}
	}
	return driverIDs, rows.Err()
}

func (r *SubscriptionRepo) GetPlan(ctx context.Context, id string) (*domain.Plan, error) {
	var plan domain.Plan
	err := r.db.QueryRow(ctx, `
		SELECT id, name, price, duration_days, status FROM plans WHERE id = $1
	`, id).Scan(&plan.ID, &plan.Name, &plan.Price, &plan.DurationDays, &plan.Status)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrPlanNotFound
	} else if err != nil {
		return nil, apperrors.Transient(err)
	}
	return &plan, nil
}

func (r *SubscriptionRepo) ListPlans(ctx context.Context) ([]domain.Plan, error) {
	rows, err := r.db.Query(ctx, `
		SELECT id, name, price, duration_days, status
		FROM plans
		WHERE status = 'ACTIVE'
		ORDER BY price
	`)
	if err != nil {
		return nil, apperrors.Transient(err)
	}
	defer rows.Close()

	plans := []domain.Plan{}
	for rows.Next() {
		var plan domain.Plan
		if err := rows.Scan(&plan.ID, &plan.Name, &plan.Price, &plan.DurationDays, &plan.Status); err != nil {
			return nil, apperrors.Transient(err)
		}
		plans = append(plans, plan)
	}
	return plans, rows.Err()
}

func (r *SubscriptionRepo) GetDriverProfile(ctx context.Context, driverID string) (*drivermodels.DriverProfile, error) {
	profile := &drivermodels.DriverProfile{}
	err := r.db.QueryRow(ctx, `
		SELECT id, online_status, last_seen_at, subscription_status, subscription_expiry, created_at, updated_at
		FROM drivers
		WHERE id = $1
	`, driverID).Scan(
		&profile.ID, &profile.OnlineStatus, &profile.LastSeenAt,
		&profile.SubscriptionStatus, &profile.SubscriptionExpiry,
		&profile.CreatedAt, &profile.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, drivermodels.ErrDriverNotFound
	} else if err != nil {
		return nil, apperrors.Transient(err)
	}
	return profile, nil
}

func (r *SubscriptionRepo) ListDriverIDs(ctx context.Context) ([]string, error) {
	rows, err := r.db.Query(ctx, `SELECT id FROM drivers`)
	if err != nil {
		return nil, apperrors.Transient(err)
	}
	defer rows.Close()

	ids := []string{}
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, apperrors.Transient(err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// UpdateDriverEntitlement rewrites the cached entitlement pair and, when the
// driver is no longer entitled, drops presence in the same statement so
// entitlement loss and availability loss cannot be observed apart.
func (r *SubscriptionRepo) UpdateDriverEntitlement(ctx context.Context, driverID string, status drivermodels.SubscriptionStatus, expiry *time.Time, forceOffline bool) error {
	query := `
		UPDATE drivers
		SET subscription_status = $2,
		    subscription_expiry = $3,
		    online_status = CASE WHEN $4 THEN 'OFFLINE' ELSE online_status END,
		    updated_at = NOW()
		WHERE id = $1
	`
	cmd, err := r.db.Exec(ctx, query, driverID, status, expiry, forceOffline)
	if err != nil {
		return apperrors.Transient(err)
	}
	if cmd.RowsAffected() == 0 {
		return drivermodels.ErrDriverNotFound
	}
	return nil
}

// SetDriverCachedPending is the UI hint written on submission; it never
// overwrites an ACTIVE cache.
func (r *SubscriptionRepo) SetDriverCachedPending(ctx context.Context, driverID string) error {
	query := `
		UPDATE drivers
		SET subscription_status = 'PENDING', updated_at = NOW()
		WHERE id = $1 AND subscription_status <> 'ACTIVE'
	`
	if _, err := r.db.Exec(ctx, query, driverID); err != nil {
		return apperrors.Transient(err)
	}
	return nil
}
