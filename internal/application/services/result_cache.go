package services

import (
	"context"
	"sync"
	"time"
)

// ResultCache holds exactly one value and its fetch time, replaced wholesale
// on every refresh. A read inside the TTL window returns the cached value;
// a read after expiry discards it and fetches fresh. Concurrent misses are
// deduplicated: one caller fetches, the rest wait for its result.
//
// The clock is injected so expiry can be unit-tested without sleeping.
type ResultCache[T any] struct {
	ttl time.Duration
	now func() time.Time

	mu        sync.Mutex
	value     T
	fetchedAt time.Time
	valid     bool
	inflight  *inflightFetch[T]
}

type inflightFetch[T any] struct {
	done  chan struct{}
	value T
	err   error
}

// NewResultCache creates a cache with the given TTL. A nil now defaults to
// time.Now.
func NewResultCache[T any](ttl time.Duration, now func() time.Time) *ResultCache[T] {
	if now == nil {
		now = time.Now
	}
	return &ResultCache[T]{ttl: ttl, now: now}
}

// GetOrFetch returns the cached value when fresh, otherwise runs fetch and
// stores its result. Callers arriving while a fetch is in flight share that
// fetch's outcome instead of issuing their own.
func (c *ResultCache[T]) GetOrFetch(ctx context.Context, fetch func(context.Context) (T, error)) (T, error) {
	c.mu.Lock()
	if c.valid && c.now().Sub(c.fetchedAt) < c.ttl {
		value := c.value
		c.mu.Unlock()
		return value, nil
	}
	c.valid = false

	if c.inflight != nil {
		flight := c.inflight
		c.mu.Unlock()
		select {
		case <-flight.done:
			return flight.value, flight.err
		case <-ctx.Done():
			var zero T
			return zero, ctx.Err()
		}
	}

	flight := &inflightFetch[T]{done: make(chan struct{})}
	c.inflight = flight
	c.mu.Unlock()

	value, err := fetch(ctx)
	flight.value = value
	flight.err = err

	c.mu.Lock()
	c.inflight = nil
	if err == nil {
		c.value = value
		c.fetchedAt = c.now()
		c.valid = true
	}
	c.mu.Unlock()

	close(flight.done)
	return value, err
}
