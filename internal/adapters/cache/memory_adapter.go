package cache

import (
	"context"
	"sync"
	"time"

	"github.com/zatekoja/facilityreservation/internal/domain/providers"
)

type memoryEntry struct {
	value     []byte
	expiresAt time.Time
}

func (e memoryEntry) expired(now time.Time) bool {
	return !e.expiresAt.IsZero() && !now.Before(e.expiresAt)
}

// MemoryAdapter implements CacheProvider in process. Expired entries are
// dropped lazily on access.
type MemoryAdapter struct {
	mu      sync.Mutex
	entries map[string]memoryEntry
	now     func() time.Time
}

// NewMemoryAdapter creates an in-process cache
func NewMemoryAdapter() *MemoryAdapter {
	return &MemoryAdapter{
		entries: make(map[string]memoryEntry),
		now:     time.Now,
	}
}

var _ providers.CacheProvider = (*MemoryAdapter)(nil)

// Get retrieves a value from cache
func (a *MemoryAdapter) Get(ctx context.Context, key string) ([]byte, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	e, ok := a.entries[key]
	if !ok {
		return nil, providers.ErrCacheMiss
	}
	if e.expired(a.now()) {
		delete(a.entries, key)
		return nil, providers.ErrCacheMiss
	}
	out := make([]byte, len(e.value))
	copy(out, e.value)
	return out, nil
}

// Set stores a value in cache with expiration
func (a *MemoryAdapter) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	e := memoryEntry{value: append([]byte(nil), value...)}
	if ttl > 0 {
		e.expiresAt = a.now().Add(ttl)
	}
	a.entries[key] = e
	return nil
}

// Delete removes a value from cache
func (a *MemoryAdapter) Delete(ctx context.Context, key string) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	delete(a.entries, key)
	return nil
}

// Exists checks if a key exists in cache
func (a *MemoryAdapter) Exists(ctx context.Context, key string) (bool, error) {
	_, err := a.Get(ctx, key)
	if err == providers.ErrCacheMiss {
		return false, nil
	}
	return err == nil, err
}
