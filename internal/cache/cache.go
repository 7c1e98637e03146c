// Package cache memoizes computed session balances. Keys embed the session's
// last-update timestamp, so a write to the session makes old entries
// unreachable and nothing is ever invalidated explicitly.
package cache

import (
	"context"
	"fmt"
	"sync"
	"time"
)

// Cache stores opaque values under string keys with a fixed TTL.
type Cache interface {
	// Get returns the value and true on a hit.
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, value []byte) error
	Close() error
}

// BalancesKey identifies one balances computation.
func BalancesKey(sessionID string, lastUpdatedAt int64, multiCurrency bool) string {
	mode := "blended"
	if multiCurrency {
		mode = "multi"
	}
	return fmt.Sprintf("balances:%s:%d:%s", sessionID, lastUpdatedAt, mode)
}

// Noop never stores anything.
type Noop struct{}

func (Noop) Get(context.Context, string) ([]byte, bool, error) { return nil, false, nil }
func (Noop) Set(context.Context, string, []byte) error         { return nil }
func (Noop) Close() error                                      { return nil }

// sweepThreshold is the entry count above which Set drops expired entries.
// Keys of edited sessions are never read again, so they only go away here.
const sweepThreshold = 1024

// Memory is an in-process cache for single-instance deployments and tests.
type Memory struct {
	ttl time.Duration
	now func() time.Time

	mu      sync.Mutex
	entries map[string]memoryEntry
}

type memoryEntry struct {
	value   []byte
	expires time.Time
}

// NewMemory creates an in-process cache whose entries live for ttl.
func NewMemory(ttl time.Duration) *Memory {
	return &Memory{ttl: ttl, now: time.Now, entries: make(map[string]memoryEntry)}
}

func (m *Memory) Get(_ context.Context, key string) ([]byte, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	e, ok := m.entries[key]
	if !ok {
		return nil, false, nil
	}
	if m.now().After(e.expires) {
		delete(m.entries, key)
		return nil, false, nil
	}
	return e.value, true, nil
}

func (m *Memory) Set(_ context.Context, key string, value []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	now := m.now()
	if len(m.entries) >= sweepThreshold {
		for k, e := range m.entries {
			if now.After(e.expires) {
				delete(m.entries, k)
			}
		}
	}
	m.entries[key] = memoryEntry{value: value, expires: now.Add(m.ttl)}
	return nil
}

func (m *Memory) Close() error { return nil }
