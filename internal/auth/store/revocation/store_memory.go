package revocation

import (
	"context"
	"sync"
	"time"
)

// MemoryTRL is the single-instance fallback used when Redis is not configured.
type MemoryTRL struct {
	mu      sync.Mutex
	entries map[string]time.Time
	clock   func() time.Time
}

type MemoryOption func(*MemoryTRL)

func WithClock(clock func() time.Time) MemoryOption {
	return func(t *MemoryTRL) {
		if clock != nil {
			t.clock = clock
		}
	}
}

func NewMemoryTRL(opts ...MemoryOption) *MemoryTRL {
	t := &MemoryTRL{entries: make(map[string]time.Time), clock: time.Now}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

func (t *MemoryTRL) RevokeToken(_ context.Context, jti string, ttl time.Duration) error {
	if jti == "" {
		return nil
	}
	if err := validateTTL(ttl); err != nil {
		return err
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	now := t.clock()
	for k, exp := range t.entries {
		if !now.Before(exp) {
			delete(t.entries, k)
		}
	}
	t.entries[jti] = now.Add(ttl)
	return nil
}

func (t *MemoryTRL) IsTokenRevoked(_ context.Context, jti string) (bool, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	exp, ok := t.entries[jti]
	return ok && t.clock().Before(exp), nil
}
