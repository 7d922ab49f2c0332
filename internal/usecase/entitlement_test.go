package usecase

import (
	"testing"
	"time"

	"widgetgate/internal/domain"
)

func activeWidget() *domain.Widget {
	return &domain.Widget{
		ID:             "w-1",
		PublicKey:      "k",
		AccountID:      "acct-1",
		Status:         domain.WidgetActive,
		AllowedDomains: []string{"example.com"},
	}
}

func TestEvaluateStandingLadder(t *testing.T) {
	now := time.Date(2026, 8, 28, 12, 0, 0, 0, time.UTC)
	yesterday := now.Add(-24 * time.Hour)
	nextWeek := now.Add(7 * 24 * time.Hour)

	paused := activeWidget()
	paused.Status = domain.WidgetPaused
	deleted := activeWidget()
	deleted.Status = domain.WidgetDeleted

	cases := []struct {
		name       string
		widget     *domain.Widget
		ent        domain.Entitlement
		wantOK     bool
		wantReason domain.DenyReason
	}{
		{"nil identity", nil, domain.Entitlement{Status: domain.SubActive}, false, domain.ReasonIdentityInvalid},
		{"paused widget", paused, domain.Entitlement{Status: domain.SubActive}, false, domain.ReasonIdentityInvalid},
		{"deleted widget", deleted, domain.Entitlement{Status: domain.SubActive}, false, domain.ReasonIdentityInvalid},
		{"paused widget outranks expired billing", paused, domain.Entitlement{Status: domain.SubExpired}, false, domain.ReasonIdentityInvalid},
		{"expired", activeWidget(), domain.Entitlement{Status: domain.SubExpired}, false, domain.ReasonLicenseExpired},
		{"canceled no period end", activeWidget(), domain.Entitlement{Status: domain.SubCanceled}, false, domain.ReasonLicenseCancelled},
		{"cancelled spelling no period end", activeWidget(), domain.Entitlement{Status: domain.SubCancelled}, false, domain.ReasonLicenseCancelled},
		{"canceled past period end", activeWidget(), domain.Entitlement{Status: domain.SubCanceled, CurrentPeriodEnd: &yesterday}, false, domain.ReasonLicenseExpired},
		{"canceled in grace", activeWidget(), domain.Entitlement{Status: domain.SubCanceled, CurrentPeriodEnd: &nextWeek}, true, ""},
		{"past_due in grace", activeWidget(), domain.Entitlement{Status: domain.SubPastDue}, true, ""},
		{"active", activeWidget(), domain.Entitlement{Status: domain.SubActive}, true, ""},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			ok, reason := EvaluateStanding(tc.widget, tc.ent, now)
			if ok != tc.wantOK || reason != tc.wantReason {
				t.Fatalf("EvaluateStanding = (%v, %q), want (%v, %q)", ok, reason, tc.wantOK, tc.wantReason)
			}
		})
	}
}

func TestEvaluateAccessDomainCheckedLast(t *testing.T) {
	now := time.Now()

	// An invalid identity must not reveal anything about domains.
	paused := activeWidget()
	paused.Status = domain.WidgetPaused
	ok, reason := EvaluateAccess(paused, domain.Entitlement{Status: domain.SubActive}, "evil.com", now)
	if ok || reason != domain.ReasonIdentityInvalid {
		t.Fatalf("got (%v, %q), want identity error before domain error", ok, reason)
	}

	// Billing expiry beats the domain result too.
	ok, reason = EvaluateAccess(activeWidget(), domain.Entitlement{Status: domain.SubExpired}, "evil.com", now)
	if ok || reason != domain.ReasonLicenseExpired {
		t.Fatalf("got (%v, %q), want billing error before domain error", ok, reason)
	}

	ok, reason = EvaluateAccess(activeWidget(), domain.Entitlement{Status: domain.SubActive, Tier: domain.TierPro}, "evil.com", now)
	if ok || reason != domain.ReasonDomainUnauthorized {
		t.Fatalf("got (%v, %q), want DOMAIN_UNAUTHORIZED", ok, reason)
	}

	ok, reason = EvaluateAccess(activeWidget(), domain.Entitlement{Status: domain.SubActive, Tier: domain.TierPro}, "api.example.com", now)
	if !ok || reason != "" {
		t.Fatalf("got (%v, %q), want allowed", ok, reason)
	}

	// Agency embeds anywhere.
	ok, _ = EvaluateAccess(activeWidget(), domain.Entitlement{Status: domain.SubActive, Tier: domain.TierAgency}, "evil.com", now)
	if !ok {
		t.Fatal("agency tier must pass the domain check on any domain")
	}
}
