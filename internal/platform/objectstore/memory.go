package objectstore

import (
	"context"
	"fmt"
	"net/url"
	"sync"
	"time"
)

// Memory keeps objects in process. Used for local development and tests.
type Memory struct {
	mu      sync.RWMutex
	objects map[string][]byte
	ttl     time.Duration
	now     func() time.Time
}

func NewMemory() *Memory {
	return &Memory{objects: make(map[string][]byte), ttl: DefaultSignedURLTTL, now: time.Now}
}

func (m *Memory) Put(_ context.Context, key, _ string, body []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.objects[key] = append([]byte(nil), body...)
	return nil
}

func (m *Memory) Delete(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.objects, key)
	return nil
}

func (m *Memory) SignedURL(_ context.Context, key string) (string, error) {
	if key == "" {
		return "", nil
	}
	expires := m.now().Add(m.ttl).Unix()
	return fmt.Sprintf("memory://objects/%s?expires=%d", url.PathEscape(key), expires), nil
}

// Has reports whether key is stored.
func (m *Memory) Has(key string) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	_, ok := m.objects[key]
	return ok
}

// Len returns the number of stored objects.
func (m *Memory) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.objects)
}
