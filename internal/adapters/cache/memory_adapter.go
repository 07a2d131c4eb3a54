package cache

import (
	"context"
	"fmt"
	"strconv"
	"sync"
	"time"

	"github.com/medatlas/directory-api/internal/domain/providers"
)

// MemoryAdapter implements CacheProvider with an in-process map. It is the
// fallback when no Redis instance is configured; entries expire lazily on
// access. A process restart clears it.
type MemoryAdapter struct {
	mu      sync.Mutex
	entries map[string]memoryEntry
	now     func() time.Time
}

type memoryEntry struct {
	value     []byte
	expiresAt time.Time
}

// NewMemoryAdapter creates a new in-memory cache adapter
func NewMemoryAdapter() providers.CacheProvider {
	return &MemoryAdapter{
		entries: make(map[string]memoryEntry),
		now:     time.Now,
	}
}

// Get retrieves a value from cache
func (a *MemoryAdapter) Get(ctx context.Context, key string) ([]byte, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	entry, ok := a.entries[key]
	if !ok || a.now().After(entry.expiresAt) {
		delete(a.entries, key)
		return nil, fmt.Errorf("key not found: %s", key)
	}
	return entry.value, nil
}

// Set stores a value in cache with expiration
func (a *MemoryAdapter) Set(ctx context.Context, key string, value []byte, expirationSeconds int) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	a.entries[key] = memoryEntry{
		value:     value,
		expiresAt: a.now().Add(time.Duration(expirationSeconds) * time.Second),
	}
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
	a.mu.Lock()
	defer a.mu.Unlock()

	entry, ok := a.entries[key]
	if !ok {
		return false, nil
	}
	if a.now().After(entry.expiresAt) {
		delete(a.entries, key)
		return false, nil
	}
	return true, nil
}

// Increment atomically bumps a counter under the adapter lock. A live
// counter keeps its original expiry; an absent or expired one restarts at 1
// with a fresh window.
func (a *MemoryAdapter) Increment(ctx context.Context, key string, expirationSeconds int) (int64, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	now := a.now()
	entry, ok := a.entries[key]
	var count int64
	if ok && now.Before(entry.expiresAt) {
		count, _ = strconv.ParseInt(string(entry.value), 10, 64)
	} else {
		entry = memoryEntry{expiresAt: now.Add(time.Duration(expirationSeconds) * time.Second)}
	}

	count++
	entry.value = []byte(strconv.FormatInt(count, 10))
	a.entries[key] = entry
	return count, nil
}
