package usecase

import (
	"time"

	"widgetgate/internal/domain"
)

// EvaluateStanding runs the identity/billing ladder, first match wins:
//
//  1. no identity                                -> IDENTITY_INVALID
//  2. identity paused or deleted                 -> IDENTITY_INVALID
//  3. subscription expired                       -> LICENSE_EXPIRED
//  4. cancelled with no recorded period end      -> LICENSE_CANCELLED
//  5. cancelled with a lapsed period end         -> LICENSE_EXPIRED
//  6. cancelled inside the period, or past_due   -> allowed (grace)
//
// Identity is checked before billing so the error surfaced is the most
// specific one, and billing before any domain matching so an invalid
// widget cannot be used to probe which domains are configured.
func EvaluateStanding(widget *domain.Widget, ent domain.Entitlement, now time.Time) (bool, domain.DenyReason) {
	if widget == nil {
		return false, domain.ReasonIdentityInvalid
	}
	if widget.Status != domain.WidgetActive {
		return false, domain.ReasonIdentityInvalid
	}
	if ent.Status == domain.SubExpired {
		return false, domain.ReasonLicenseExpired
	}
	if ent.Status.Cancelled() && !ent.InGrace(now) {
		if ent.CurrentPeriodEnd == nil {
			return false, domain.ReasonLicenseCancelled
		}
		return false, domain.ReasonLicenseExpired
	}
	return true, ""
}

// EvaluateAccess extends EvaluateStanding with the domain check. The page
// domain is matched last, after identity and billing have passed.
func EvaluateAccess(widget *domain.Widget, ent domain.Entitlement, pageDomain string, now time.Time) (bool, domain.DenyReason) {
	if ok, reason := EvaluateStanding(widget, ent, now); !ok {
		return false, reason
	}
	if !domain.DomainAuthorized(pageDomain, widget.AllowedDomains, ent.Tier) {
		return false, domain.ReasonDomainUnauthorized
	}
	return true, ""
}
