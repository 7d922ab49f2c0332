package bundle

import (
	"context"
	"fmt"
	"time"

	"widgetgate/internal/domain"
	"widgetgate/internal/usecase"
)

// Provider wires Source, Inject and Cache behind usecase.BundleProvider.
type Provider struct {
	Source *Source
	Cache  *Cache
	TTL    time.Duration
}

func NewProvider(source *Source, ttl time.Duration) *Provider {
	if ttl <= 0 {
		ttl = 60 * time.Second
	}
	return &Provider{
		Source: source,
		Cache:  NewCache(nil),
		TTL:    ttl,
	}
}

func (p *Provider) Serve(ctx context.Context, widget *domain.Widget, ent domain.Entitlement, baseURL string) ([]byte, error) {
	cfg := RuntimeConfig{
		WidgetID:        widget.ID,
		WidgetKey:       widget.PublicKey,
		Tier:            ent.Tier,
		BrandingEnabled: ent.BrandingEnabled,
		DomainLimit:     ent.DomainLimit,
		RelayURL:        fmt.Sprintf("%s/widget/%s/relay", baseURL, widget.PublicKey),
	}
	key := cfg.CacheKey()
	if data, ok := p.Cache.Get(key); ok {
		return data, nil
	}
	artifact, err := p.Source.Artifact()
	if err != nil {
		return nil, err
	}
	stamped, err := Inject(artifact, cfg)
	if err != nil {
		return nil, err
	}
	p.Cache.Put(key, stamped, p.TTL)
	return stamped, nil
}

var _ usecase.BundleProvider = (*Provider)(nil)
