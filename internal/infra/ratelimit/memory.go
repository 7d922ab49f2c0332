// Package ratelimit provides the two fixed-window limiter backends:
// an in-process counter map for single-instance deployments and a Redis
// backed counter shared across instances. Backend selection happens once
// at startup; running only the memory backend behind a load balancer
// multiplies the effective limit by the instance count.
package ratelimit

import (
	"context"
	"errors"
	"sync"
	"time"

	"widgetgate/internal/domain"
)

type memoryLimiter struct {
	mu      sync.Mutex
	now     func() time.Time
	windows map[string]*window
	maxKeys int
	// sweepInterval bounds how long an expired window can linger: a
	// full scan runs on the first request after the interval elapses,
	// and again whenever the map hits maxKeys.
	sweepInterval time.Duration
	lastSweep     time.Time
}

type window struct {
	count int
	endAt time.Time
}

type MemoryConfig struct {
	Now           func() time.Time
	MaxKeys       int
	SweepInterval time.Duration
}

func NewMemoryLimiter(cfg MemoryConfig) domain.RateLimiter {
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	if cfg.MaxKeys <= 0 {
		cfg.MaxKeys = 10000
	}
	if cfg.SweepInterval <= 0 {
		cfg.SweepInterval = time.Minute
	}
	return &memoryLimiter{
		now:           cfg.Now,
		windows:       make(map[string]*window),
		maxKeys:       cfg.MaxKeys,
		sweepInterval: cfg.SweepInterval,
		lastSweep:     cfg.Now(),
	}
}

func (m *memoryLimiter) Allow(_ context.Context, key string, limit int, windowLen time.Duration) (domain.RateLimitDecision, error) {
	if limit <= 0 {
		return domain.RateLimitDecision{Allowed: true, Limit: limit, Remaining: limit}, nil
	}
	now := m.now()

	m.mu.Lock()
	defer m.mu.Unlock()

	if now.Sub(m.lastSweep) >= m.sweepInterval {
		m.sweep(now)
	}

	w, ok := m.windows[key]
	if ok && now.After(w.endAt) {
		delete(m.windows, key)
		ok = false
	}
	if !ok {
		if len(m.windows) >= m.maxKeys {
			m.sweep(now)
		}
		if len(m.windows) >= m.maxKeys {
			return domain.RateLimitDecision{}, errors.New("rate limiter key capacity exceeded")
		}
		w = &window{endAt: now.Add(windowLen)}
		m.windows[key] = w
	}

	if w.count < limit {
		w.count++
		return domain.RateLimitDecision{
			Allowed:   true,
			Limit:     limit,
			Remaining: limit - w.count,
			ResetAt:   w.endAt,
		}, nil
	}
	return domain.RateLimitDecision{
		Allowed:   false,
		Limit:     limit,
		Remaining: 0,
		ResetAt:   w.endAt,
	}, nil
}

func (m *memoryLimiter) sweep(now time.Time) {
	for key, w := range m.windows {
		if now.After(w.endAt) {
			delete(m.windows, key)
		}
	}
	m.lastSweep = now
}
