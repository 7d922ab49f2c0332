package db

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"sync"
	"time"

	"widgetgate/internal/domain"
)

// MemoryIdentityStore backs the gateway when no database is configured:
// local development and tests. Same resolution rules as WidgetRepository.
type MemoryIdentityStore struct {
	mu       sync.RWMutex
	widgets  map[string]domain.Widget      // by public key
	byID     map[string]domain.Widget      // by widget id
	accounts map[string]domain.Entitlement // by account id
	licenses map[string]string             // license key -> account id
	order    map[string]time.Time          // widget id -> created at
}

func NewMemoryIdentityStore() *MemoryIdentityStore {
	return &MemoryIdentityStore{
		widgets:  make(map[string]domain.Widget),
		byID:     make(map[string]domain.Widget),
		accounts: make(map[string]domain.Entitlement),
		licenses: make(map[string]string),
		order:    make(map[string]time.Time),
	}
}

func (s *MemoryIdentityStore) PutAccount(id, licenseKey string, ent domain.Entitlement) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.accounts[id] = ent
	if licenseKey != "" {
		s.licenses[licenseKey] = id
	}
}

func (s *MemoryIdentityStore) PutWidget(w domain.Widget, createdAt time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.widgets[w.PublicKey] = w
	s.byID[w.ID] = w
	s.order[w.ID] = createdAt
}

func (s *MemoryIdentityStore) RemoveWidget(publicKey string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if w, ok := s.widgets[publicKey]; ok {
		delete(s.byID, w.ID)
		delete(s.order, w.ID)
	}
	delete(s.widgets, publicKey)
}

func (s *MemoryIdentityStore) GetByKey(_ context.Context, key string) (*domain.Widget, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if w, ok := s.widgets[key]; ok {
		w.KeyKind = domain.KeyKindWidget
		return &w, nil
	}
	accountID, ok := s.licenses[key]
	if !ok {
		return nil, domain.ErrNotFound
	}
	var candidates []domain.Widget
	for _, w := range s.byID {
		if w.AccountID == accountID && w.Status == domain.WidgetActive {
			candidates = append(candidates, w)
		}
	}
	if len(candidates) == 0 {
		return nil, domain.ErrNotFound
	}
	sort.Slice(candidates, func(i, j int) bool {
		return s.order[candidates[i].ID].Before(s.order[candidates[j].ID])
	})
	w := candidates[0]
	w.KeyKind = domain.KeyKindLicense
	w.PublicKey = key
	return &w, nil
}

func (s *MemoryIdentityStore) GetOwnerEntitlement(_ context.Context, widget *domain.Widget) (domain.Entitlement, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	ent, ok := s.accounts[widget.AccountID]
	if !ok {
		return domain.Entitlement{}, domain.ErrNotFound
	}
	return ent, nil
}

type seedFile struct {
	Accounts []seedAccount `json:"accounts"`
	Widgets  []seedWidget  `json:"widgets"`
}

type seedAccount struct {
	ID               string     `json:"id"`
	LicenseKey       string     `json:"license_key"`
	Tier             string     `json:"tier"`
	Status           string     `json:"subscription_status"`
	CurrentPeriodEnd *time.Time `json:"current_period_end"`
	DomainLimit      *int       `json:"domain_limit"`
	BrandingEnabled  *bool      `json:"branding_enabled"`
}

type seedWidget struct {
	ID             string          `json:"id"`
	PublicKey      string          `json:"public_key"`
	AccountID      string          `json:"account_id"`
	Status         string          `json:"status"`
	WidgetType     string          `json:"widget_type"`
	AllowedDomains []string        `json:"allowed_domains"`
	Config         json.RawMessage `json:"config"`
}

// LoadSeed populates the store from a JSON fixture so a dev instance can
// serve real-looking widgets without Postgres.
func (s *MemoryIdentityStore) LoadSeed(path string) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read seed file: %w", err)
	}
	var seed seedFile
	if err := json.Unmarshal(raw, &seed); err != nil {
		return fmt.Errorf("decode seed file: %w", err)
	}
	for _, a := range seed.Accounts {
		ent := domain.Entitlement{
			Tier:             domain.Tier(a.Tier),
			Status:           domain.SubscriptionStatus(a.Status),
			CurrentPeriodEnd: a.CurrentPeriodEnd,
			DomainLimit:      -1,
			BrandingEnabled:  true,
		}
		if a.DomainLimit != nil {
			ent.DomainLimit = *a.DomainLimit
		}
		if a.BrandingEnabled != nil {
			ent.BrandingEnabled = *a.BrandingEnabled
		}
		s.PutAccount(a.ID, a.LicenseKey, ent)
	}
	now := time.Now()
	for i, w := range seed.Widgets {
		status := domain.WidgetStatus(w.Status)
		if status == "" {
			status = domain.WidgetActive
		}
		s.PutWidget(domain.Widget{
			ID:             w.ID,
			PublicKey:      w.PublicKey,
			AccountID:      w.AccountID,
			Status:         status,
			AllowedDomains: w.AllowedDomains,
			Type:           w.WidgetType,
			Config:         w.Config,
		}, now.Add(time.Duration(i)*time.Millisecond))
	}
	return nil
}
