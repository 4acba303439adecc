package app

import (
	"context"
	"fmt"

	"ride-entitlement/internal/shared/clock"
	"ride-entitlement/internal/shared/util"
	"ride-entitlement/internal/shared/validation"
	"ride-entitlement/internal/subscription/domain"
)

type LedgerService struct {
	repo     domain.Repository
	pub      domain.Publisher
	notifier domain.Notifier
	logger   *util.Logger
	clk      clock.Clock
}

func NewLedgerService(repo domain.Repository, pub domain.Publisher, notifier domain.Notifier, logger *util.Logger, clk clock.Clock) *LedgerService {
	return &LedgerService{repo: repo, pub: pub, notifier: notifier, logger: logger, clk: clk}
}

// Submit creates a PENDING ledger record for the driver. The cached profile
// status becomes PENDING as a UI hint unless the driver is already ACTIVE;
// entitlement itself only changes when an admin verifies.
func (s *LedgerService) Submit(ctx context.Context, driverID, planID, paymentEvidence string) (*domain.Subscription, error) {
	instance := "Ledger.Submit"

	if err := validation.ValidateUUID(driverID, "driver_id"); err != nil {
		return nil, err
	}
	if err := validation.ValidateStringNotEmpty(planID, "plan_id"); err != nil {
		return nil, err
	}
	if err := validation.ValidateStringNotEmpty(paymentEvidence, "payment_evidence"); err != nil {
		return nil, err
	}

	if _, err := s.repo.GetDriverProfile(ctx, driverID); err != nil {
		return nil, err
	}

	plan, err := s.repo.GetPlan(ctx, planID)
	if err != nil {
		return nil, err
	}
	if plan.Status != domain.PlanActive {
		return nil, domain.ErrPlanNotFound
	}

	id, err := util.GenerateUUID()
	if err != nil {
		return nil, fmt.Errorf("failed generating uuid: %w", err)
	}

	sub := domain.Subscription{
		ID:              id,
		DriverID:        driverID,
		PlanID:          planID,
		Status:          domain.StatusPending,
		PaymentEvidence: paymentEvidence,
		CreatedAt:       s.clk.Now(),
	}

	if err := s.repo.CreateSubscription(ctx, sub); err != nil {
		s.logger.Error(instance, err)
		return nil, err
	}

	if err := s.repo.SetDriverCachedPending(ctx, driverID); err != nil {
		s.logger.Error(instance, err)
	}

	s.publish(ctx, "subscription.submitted", map[string]interface{}{
		"subscription_id": sub.ID,
		"driver_id":       driverID,
		"plan_id":         planID,
	})

	s.logger.Info(instance, fmt.Sprintf("subscription %s submitted for driver %s (plan %s)", sub.ID, driverID, plan.Name))

	return &sub, nil
}

// Verify applies an admin decision to a pending record, then recomputes the
// driver's cached entitlement from the full ledger.
func (s *LedgerService) Verify(ctx context.Context, subscriptionID, decision string) (*domain.Subscription, error) {
	instance := "Ledger.Verify"

	if err := validation.ValidateUUID(subscriptionID, "subscription_id"); err != nil {
		return nil, err
	}
	if err := validation.ValidateOneOf(decision, "decision", domain.DecisionActive, domain.DecisionRejected); err != nil {
		return nil, err
	}

	sub, err := s.repo.GetSubscription(ctx, subscriptionID)
	if err != nil {
		return nil, err
	}

	switch decision {
	case domain.DecisionActive:
		plan, err := s.repo.GetPlan(ctx, sub.PlanID)
		if err != nil {
			return nil, err
		}

		start := s.clk.Now()
		expiry := start.AddDate(0, 0, plan.DurationDays)

		if err := s.repo.Activate(ctx, subscriptionID, start, expiry); err != nil {
			return nil, err
		}

		s.publish(ctx, "subscription.verified", map[string]interface{}{
			"subscription_id": subscriptionID,
			"driver_id":       sub.DriverID,
			"expiry_date":     expiry,
		})
		s.logger.Info(instance, fmt.Sprintf("subscription %s activated until %s", subscriptionID, expiry.Format("2006-01-02")))

	case domain.DecisionRejected:
		if err := s.repo.Reject(ctx, subscriptionID); err != nil {
			return nil, err
		}

		s.publish(ctx, "subscription.rejected", map[string]interface{}{
			"subscription_id": subscriptionID,
			"driver_id":       sub.DriverID,
		})
		s.logger.Info(instance, fmt.Sprintf("subscription %s rejected", subscriptionID))
	}

	if _, err := s.RecomputeDriver(ctx, sub.DriverID); err != nil {
		s.logger.Error(instance, err)
	}

	return s.repo.GetSubscription(ctx, subscriptionID)
}

// Delete hard-removes a record (refund path) and recomputes the driver
// strictly afterwards, since the deletion changes the record set being
// reduced.
func (s *LedgerService) Delete(ctx context.Context, subscriptionID string) error {
	instance := "Ledger.Delete"

	if err := validation.ValidateUUID(subscriptionID, "subscription_id"); err != nil {
		return err
	}

	sub, err := s.repo.GetSubscription(ctx, subscriptionID)
	if err != nil {
		return err
	}

	if err := s.repo.DeleteSubscription(ctx, subscriptionID); err != nil {
		return err
	}

	if _, err := s.RecomputeDriver(ctx, sub.DriverID); err != nil {
		s.logger.Error(instance, err)
	}

	s.publish(ctx, "subscription.deleted", map[string]interface{}{
		"subscription_id": subscriptionID,
		"driver_id":       sub.DriverID,
	})

	s.logger.Info(instance, fmt.Sprintf("subscription %s deleted (driver %s)", subscriptionID, sub.DriverID))

	return nil
}

func (s *LedgerService) ListByDriver(ctx context.Context, driverID string) ([]domain.Subscription, error) {
	if err := validation.ValidateUUID(driverID, "driver_id"); err != nil {
		return nil, err
	}
	return s.repo.ListByDriver(ctx, driverID)
}

func (s *LedgerService) ListPlans(ctx context.Context) ([]domain.Plan, error) {
	return s.repo.ListPlans(ctx)
}

// publish logs and moves on: lifecycle events are advisory, the ledger write
// already happened.
func (s *LedgerService) publish(ctx context.Context, routingKey string, payload interface{}) {
	if s.pub == nil {
		return
	}
	if err := s.pub.Publish(ctx, routingKey, payload); err != nil {
		s.logger.Warn("Ledger.publish", fmt.Sprintf("failed to publish %s: %v", routingKey, err))
	}
}
