package usecase

import (
	"context"
	"encoding/json"
	"time"

	"widgetgate/internal/domain"
)

// ServeWidget stamps and returns the embed script for one resolved
// identity. The caller has already resolved the key (a nil widget means
// the lookup missed) and normalized the page domain; rate limiting
// happens around this usecase, not inside it.
type ServeWidget struct {
	Identities IdentityStore
	Bundles    BundleProvider
	// BaseURL is the public origin embedded into the script for relay
	// callbacks, e.g. "https://gate.example.com".
	BaseURL string
	Now     func() time.Time
}

func (uc *ServeWidget) now() time.Time {
	if uc.Now != nil {
		return uc.Now()
	}
	return time.Now()
}

// Execute returns the script bytes on success, or a deny reason. The
// error return carries only unexpected failures (store or artifact I/O);
// business-rule denials never surface as errors.
func (uc *ServeWidget) Execute(ctx context.Context, widget *domain.Widget, pageDomain string) ([]byte, domain.DenyReason, error) {
	if widget == nil {
		return nil, domain.ReasonIdentityInvalid, nil
	}
	ent, err := uc.Identities.GetOwnerEntitlement(ctx, widget)
	if err != nil {
		return nil, domain.ReasonInternal, err
	}
	if ok, reason := EvaluateAccess(widget, ent, pageDomain, uc.now()); !ok {
		return nil, reason, nil
	}
	script, err := uc.Bundles.Serve(ctx, widget, ent, uc.BaseURL)
	if err != nil {
		return nil, domain.ReasonInternal, err
	}
	return script, "", nil
}

// WidgetSummary is the shape exposed to validate callers: enough to
// render, nothing an unauthorized site could mine.
type WidgetSummary struct {
	ID   string      `json:"id"`
	Type string      `json:"type"`
	Tier domain.Tier `json:"tier"`
}

type ValidateResult struct {
	Valid  bool              `json:"valid"`
	Reason domain.DenyReason `json:"reason,omitempty"`
	Widget *WidgetSummary    `json:"widget,omitempty"`
}

// ValidateDomain answers "could this domain embed this widget right now"
// without serving anything. It runs the same evaluation as the script
// path so the two can never drift.
type ValidateDomain struct {
	Identities IdentityStore
	Now        func() time.Time
}

func (uc *ValidateDomain) now() time.Time {
	if uc.Now != nil {
		return uc.Now()
	}
	return time.Now()
}

func (uc *ValidateDomain) Execute(ctx context.Context, widget *domain.Widget, pageDomain string) (ValidateResult, error) {
	if widget == nil {
		return ValidateResult{Valid: false, Reason: domain.ReasonIdentityInvalid}, nil
	}
	ent, err := uc.Identities.GetOwnerEntitlement(ctx, widget)
	if err != nil {
		return ValidateResult{}, err
	}
	if ok, reason := EvaluateAccess(widget, ent, pageDomain, uc.now()); !ok {
		return ValidateResult{Valid: false, Reason: reason}, nil
	}
	return ValidateResult{
		Valid: true,
		Widget: &WidgetSummary{
			ID:   widget.ID,
			Type: widget.Type,
			Tier: ent.Tier,
		},
	}, nil
}

// ConfigResult is the JSON configuration object served to an already
// loaded widget. Stored config plus the computed entitlement flags, one
// shape for both the widget runtime and the dashboard preview.
type ConfigResult struct {
	WidgetID        string          `json:"widget_id"`
	Type            string          `json:"type"`
	Tier            domain.Tier     `json:"tier"`
	BrandingEnabled bool            `json:"branding_enabled"`
	DomainLimit     int             `json:"domain_limit"`
	Config          json.RawMessage `json:"config"`
}

// WidgetConfig serves the configuration endpoint. Identity and billing
// standing apply; the page domain does not, because the config call is
// made by an already-served script.
type WidgetConfig struct {
	Identities IdentityStore
	Now        func() time.Time
}

func (uc *WidgetConfig) now() time.Time {
	if uc.Now != nil {
		return uc.Now()
	}
	return time.Now()
}

func (uc *WidgetConfig) Execute(ctx context.Context, widget *domain.Widget) (*ConfigResult, domain.DenyReason, error) {
	if widget == nil {
		return nil, domain.ReasonIdentityInvalid, nil
	}
	ent, err := uc.Identities.GetOwnerEntitlement(ctx, widget)
	if err != nil {
		return nil, domain.ReasonInternal, err
	}
	if ok, reason := EvaluateStanding(widget, ent, uc.now()); !ok {
		return nil, reason, nil
	}
	cfg := widget.Config
	if len(cfg) == 0 {
		cfg = json.RawMessage("{}")
	}
	return &ConfigResult{
		WidgetID:        widget.ID,
		Type:            widget.Type,
		Tier:            ent.Tier,
		BrandingEnabled: ent.BrandingEnabled,
		DomainLimit:     ent.DomainLimit,
		Config:          cfg,
	}, "", nil
}
