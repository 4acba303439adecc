package app

import (
	"context"
	"sync"
	"time"

	drivermodels "ride-entitlement/internal/driver/models"
	"ride-entitlement/internal/shared/util"
	"ride-entitlement/internal/subscription/domain"
)

// fakeRepo mirrors the conditional-write semantics of the Postgres repo so
// service tests exercise the same state machine without a database.
type fakeRepo struct {
	mu      sync.Mutex
	subs    map[string]*domain.Subscription
	plans   map[string]*domain.Plan
	drivers map[string]*drivermodels.DriverProfile

	entitlementWrites int
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{
		subs:    map[string]*domain.Subscription{},
		plans:   map[string]*domain.Plan{},
		drivers: map[string]*drivermodels.DriverProfile{},
	}
}

func (f *fakeRepo) addDriver(id string, online drivermodels.OnlineStatus, cached drivermodels.SubscriptionStatus) {
	f.drivers[id] = &drivermodels.DriverProfile{
		ID:                 id,
		OnlineStatus:       online,
		SubscriptionStatus: cached,
	}
}

func (f *fakeRepo) addPlan(id string, durationDays int) {
	f.plans[id] = &domain.Plan{ID: id, Name: "Test", Price: 100, DurationDays: durationDays, Status: domain.PlanActive}
}

func (f *fakeRepo) addSubscription(sub domain.Subscription) {
	clone := sub
	f.subs[sub.ID] = &clone
}

func (f *fakeRepo) CreateSubscription(ctx context.Context, sub domain.Subscription) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	clone := sub
	f.subs[sub.ID] = &clone
	return nil
}

func (f *fakeRepo) GetSubscription(ctx context.Context, id string) (*domain.Subscription, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	sub, ok := f.subs[id]
	if !ok {
		return nil, domain.ErrSubscriptionNotFound
	}
	clone := *sub
	return &clone, nil
}

func (f *fakeRepo) ListByDriver(ctx context.Context, driverID string) ([]domain.Subscription, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := []domain.Subscription{}
	for _, sub := range f.subs {
		if sub.DriverID == driverID {
			out = append(out, *sub)
		}
	}
	return out, nil
}

func (f *fakeRepo) DeleteSubscription(ctx context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.subs[id]; !ok {
		return domain.ErrSubscriptionNotFound
	}
	delete(f.subs, id)
	return nil
}

func (f *fakeRepo) Activate(ctx context.Context, id string, start, expiry time.Time) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	sub, ok := f.subs[id]
	if !ok {
		return domain.ErrSubscriptionNotFound
	}
	if sub.Status != domain.StatusPending {
		return domain.ErrNotPending
	}
	sub.Status = domain.StatusActive
	sub.StartDate = &start
	sub.ExpiryDate = &expiry
	return nil
}

func (f *fakeRepo) Reject(ctx context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	sub, ok := f.subs[id]
	if !ok {
		return domain.ErrSubscriptionNotFound
	}
	if sub.Status != domain.StatusPending {
		return domain.ErrNotPending
	}
	sub.Status = domain.StatusRejected
	return nil
}

func (f *fakeRepo) Pause(ctx context.Context, id string, pausedAt time.Time) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	sub, ok := f.subs[id]
	if !ok {
		return domain.ErrSubscriptionNotFound
	}
	if sub.Status != domain.StatusActive {
		return domain.ErrNotActive
	}
	sub.Status = domain.StatusPaused
	sub.PausedAt = &pausedAt
	return nil
}

func (f *fakeRepo) Resume(ctx context.Context, id string, now time.Time) (*domain.Subscription, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	sub, ok := f.subs[id]
	if !ok {
		return nil, domain.ErrSubscriptionNotFound
	}
	if sub.Status != domain.StatusPaused {
		return nil, domain.ErrNotPaused
	}
	elapsed := now.Sub(*sub.PausedAt)
	shifted := sub.ExpiryDate.Add(elapsed)
	sub.Status = domain.StatusActive
	sub.ExpiryDate = &shifted
	sub.PausedAt = nil
	clone := *sub
	return &clone, nil
}

func (f *fakeRepo) ExpireDue(ctx context.Context, now time.Time) ([]string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	seen := map[string]bool{}
	affected := []string{}
	for _, sub := range f.subs {
		if sub.Status == domain.StatusActive && sub.ExpiryDate != nil && sub.ExpiryDate.Before(now) {
			sub.Status = domain.StatusExpired
			if !seen[sub.DriverID] {
				seen[sub.DriverID] = true
				affected = append(affected, sub.DriverID)
			}
		}
	}
	return affected, nil
}

func (f *fakeRepo) GetPlan(ctx context.Context, id string) (*domain.Plan, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	plan, ok := f.plans[id]
	if !ok {
		return nil, domain.ErrPlanNotFound
	}
	clone := *plan
	return &clone, nil
}

func (f *fakeRepo) ListPlans(ctx context.Context) ([]domain.Plan, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := []domain.Plan{}
	for _, plan := range f.plans {
		out = append(out, *plan)
	}
	return out, nil
}

func (f *fakeRepo) GetDriverProfile(ctx context.Context, driverID string) (*drivermodels.DriverProfile, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	profile, ok := f.drivers[driverID]
	if !ok {
		return nil, drivermodels.ErrDriverNotFound
	}
	clone := *profile
	return &clone, nil
}

func (f *fakeRepo) ListDriverIDs(ctx context.Context) ([]string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	ids := []string{}
	for id := range f.drivers {
		ids = append(ids, id)
	}
	return ids, nil
}

func (f *fakeRepo) UpdateDriverEntitlement(ctx context.Context, driverID string, status drivermodels.SubscriptionStatus, expiry *time.Time, forceOffline bool) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	profile, ok := f.drivers[driverID]
	if !ok {
		return drivermodels.ErrDriverNotFound
	}
	profile.SubscriptionStatus = status
	profile.SubscriptionExpiry = expiry
	if forceOffline {
		profile.OnlineStatus = drivermodels.DriverOffline
	}
	f.entitlementWrites++
	return nil
}

func (f *fakeRepo) SetDriverCachedPending(ctx context.Context, driverID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	profile, ok := f.drivers[driverID]
	if !ok {
		return nil
	}
	if profile.SubscriptionStatus != drivermodels.SubscriptionActive {
		profile.SubscriptionStatus = drivermodels.SubscriptionPending
	}
	return nil
}

type recordingPublisher struct {
	mu   sync.Mutex
	keys []string
}

func (p *recordingPublisher) Publish(ctx context.Context, routingKey string, payload interface{}) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.keys = append(p.keys, routingKey)
	return nil
}

func (p *recordingPublisher) published(key string) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	for _, k := range p.keys {
		if k == key {
			return true
		}
	}
	return false
}

type recordingNotifier struct {
	mu       sync.Mutex
	notified []string
}

func (n *recordingNotifier) NotifyDriver(driverID string, payload interface{}) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.notified = append(n.notified, driverID)
	return nil
}

func mustUUID() string {
	id, err := util.GenerateUUID()
	if err != nil {
		panic(err)
	}
	return id
}
