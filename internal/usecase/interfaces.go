package usecase

import (
	"context"

	"widgetgate/internal/domain"
)

// IdentityStore is the read-only view of widget/account records this
// gateway consumes. Lookups must reflect the store's current state; key
// revocation has to stop resolving immediately, so implementations do not
// cache existence.
type IdentityStore interface {
	GetByKey(ctx context.Context, key string) (*domain.Widget, error)
	GetOwnerEntitlement(ctx context.Context, widget *domain.Widget) (domain.Entitlement, error)
}

// BundleProvider returns the stamped script bytes for an authorized
// widget/entitlement pair.
type BundleProvider interface {
	Serve(ctx context.Context, widget *domain.Widget, ent domain.Entitlement, baseURL string) ([]byte, error)
}
