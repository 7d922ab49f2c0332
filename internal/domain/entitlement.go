package domain

import "time"

type Tier string

const (
	TierFree   Tier = "free"
	TierBasic  Tier = "basic"
	TierPro    Tier = "pro"
	TierAgency Tier = "agency"
)

type SubscriptionStatus string

const (
	SubActive    SubscriptionStatus = "active"
	SubCanceled  SubscriptionStatus = "canceled"
	SubCancelled SubscriptionStatus = "cancelled"
	SubPastDue   SubscriptionStatus = "past_due"
	SubExpired   SubscriptionStatus = "expired"
)

// Entitlement is the owning account's subscription state as this gateway
// sees it. Mutated only by the billing/admin flows; read-only here.
type Entitlement struct {
	Tier             Tier
	Status           SubscriptionStatus
	CurrentPeriodEnd *time.Time
	// DomainLimit is the contractual allow-list size; -1 means unlimited.
	DomainLimit     int
	BrandingEnabled bool
}

// Cancelled matches both spellings the billing provider has emitted over
// time.
func (s SubscriptionStatus) Cancelled() bool {
	return s == SubCanceled || s == SubCancelled
}

// InGrace reports whether a cancelled subscription is still inside its
// paid period at now.
func (e Entitlement) InGrace(now time.Time) bool {
	return e.CurrentPeriodEnd != nil && e.CurrentPeriodEnd.After(now)
}
