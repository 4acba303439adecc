package domain

import "time"

type RecordStatus string

const (
	StatusPending  RecordStatus = "PENDING"
	StatusActive   RecordStatus = "ACTIVE"
	StatusPaused   RecordStatus = "PAUSED"
	StatusExpired  RecordStatus = "EXPIRED"
	StatusRejected RecordStatus = "REJECTED"
)

// Verify decisions.
const (
	DecisionActive   = "ACTIVE"
	DecisionRejected = "REJECTED"
)

// Subscription is one ledger record. The set of a driver's records is the
// source of truth for entitlement; paused_at is non-null exactly while the
// record is PAUSED.
type Subscription struct {
	ID              string       `db:"id" json:"id"`
	DriverID        string       `db:"driver_id" json:"driver_id"`
	PlanID          string       `db:"plan_id" json:"plan_id"`
	Status          RecordStatus `db:"status" json:"status"`
	PaymentEvidence string       `db:"payment_evidence" json:"payment_evidence"`
	StartDate       *time.Time   `db:"start_date" json:"start_date,omitempty"`
	ExpiryDate      *time.Time   `db:"expiry_date" json:"expiry_date,omitempty"`
	PausedAt        *time.Time   `db:"paused_at" json:"paused_at,omitempty"`
	CreatedAt       time.Time    `db:"created_at" json:"created_at"`
}

// EntitledAt reports whether this record alone grants entitlement at t.
// The stored ACTIVE flag is stale between expiry sweeps, so the date is
// always checked alongside it.
func (s *Subscription) EntitledAt(t time.Time) bool {
	return s.Status == StatusActive && s.ExpiryDate != nil && s.ExpiryDate.After(t)
}

type Plan struct {
	ID           string  `db:"id" json:"id"`
	Name         string  `db:"name" json:"name"`
	Price        float64 `db:"price" json:"price"`
	DurationDays int     `db:"duration_days" json:"duration_days"`
	Status       string  `db:"status" json:"status"`
}

const PlanActive = "ACTIVE"
