package db

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"widgetgate/internal/domain"

	"gorm.io/gorm"
)

var errDBUnavailable = errors.New("database unavailable")

// WidgetRepository resolves public keys to widget identities and widgets
// to their owning account's entitlement. Widget-scoped keys resolve
// directly; license-scoped (legacy) keys resolve through the account to
// its oldest active widget, so both kinds share one serving pipeline.
type WidgetRepository struct {
	db *gorm.DB
}

func NewWidgetRepository(db *gorm.DB) *WidgetRepository {
	return &WidgetRepository{db: db}
}

func (r *WidgetRepository) GetByKey(ctx context.Context, key string) (*domain.Widget, error) {
	if r.db == nil {
		return nil, errDBUnavailable
	}
	var model WidgetModel
	err := r.db.WithContext(ctx).First(&model, "public_key = ?", key).Error
	if err == nil {
		return toWidget(model, domain.KeyKindWidget)
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	var account AccountModel
	err = r.db.WithContext(ctx).First(&account, "license_key = ?", key).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	err = r.db.WithContext(ctx).
		Where("account_id = ? AND status = ?", account.ID, string(domain.WidgetActive)).
		Order("created_at asc").
		First(&model).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	widget, convErr := toWidget(model, domain.KeyKindLicense)
	if convErr != nil {
		return nil, convErr
	}
	// The caller asked with the license key; keep it as the resolving key.
	widget.PublicKey = key
	return widget, nil
}

func (r *WidgetRepository) GetOwnerEntitlement(ctx context.Context, widget *domain.Widget) (domain.Entitlement, error) {
	if r.db == nil {
		return domain.Entitlement{}, errDBUnavailable
	}
	var account AccountModel
	err := r.db.WithContext(ctx).First(&account, "id = ?", widget.AccountID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.Entitlement{}, domain.ErrNotFound
		}
		return domain.Entitlement{}, err
	}
	return domain.Entitlement{
		Tier:             domain.Tier(account.Tier),
		Status:           domain.SubscriptionStatus(account.SubscriptionStatus),
		CurrentPeriodEnd: account.CurrentPeriodEnd,
		DomainLimit:      account.DomainLimit,
		BrandingEnabled:  account.BrandingEnabled,
	}, nil
}

func toWidget(model WidgetModel, kind domain.KeyKind) (*domain.Widget, error) {
	var allowed []string
	if len(model.AllowedDomains) > 0 {
		if err := json.Unmarshal(model.AllowedDomains, &allowed); err != nil {
			return nil, fmt.Errorf("decode allowed domains for widget %s: %w", model.ID, err)
		}
	}
	return &domain.Widget{
		ID:             model.ID,
		PublicKey:      model.PublicKey,
		KeyKind:        kind,
		AccountID:      model.AccountID,
		Status:         domain.WidgetStatus(model.Status),
		AllowedDomains: allowed,
		Type:           model.WidgetType,
		Config:         json.RawMessage(model.Config),
	}, nil
}
