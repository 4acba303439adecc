package models

import (
	"time"
)

type OnlineStatus string

const (
	DriverOffline OnlineStatus = "OFFLINE"
	DriverOnline  OnlineStatus = "ONLINE"
	DriverOnTrip  OnlineStatus = "ON_TRIP"
)

// SubscriptionStatus is the cached entitlement on the driver profile. It is
// derived from the subscription ledger and is never authoritative on its own.
type SubscriptionStatus string

const (
	SubscriptionNone    SubscriptionStatus = "NONE"
	SubscriptionPending SubscriptionStatus = "PENDING"
	SubscriptionActive  SubscriptionStatus = "ACTIVE"
	SubscriptionPaused  SubscriptionStatus = "PAUSED"
	SubscriptionExpired SubscriptionStatus = "EXPIRED"
)

type DriverProfile struct {
	ID                 string             `db:"id" json:"id"`
	OnlineStatus       OnlineStatus       `db:"online_status" json:"online_status"`
	LastSeenAt         *time.Time         `db:"last_seen_at" json:"last_seen_at,omitempty"`
	SubscriptionStatus SubscriptionStatus `db:"subscription_status" json:"subscription_status"`
	SubscriptionExpiry *time.Time         `db:"subscription_expiry" json:"subscription_expiry,omitempty"`
	CreatedAt          time.Time          `db:"created_at" json:"created_at"`
	UpdatedAt          time.Time          `db:"updated_at" json:"updated_at"`
}

// Entitled reports whether the cached entitlement currently allows the
// driver to go online or accept rides.
func (p *DriverProfile) Entitled() bool {
	return p.SubscriptionStatus == SubscriptionActive
}
