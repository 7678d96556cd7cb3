// Package cache provides small write-expiring caches that stop players from
// farming mission progress, such as breaking blocks they just placed.
//
// Entries expire a fixed time after they were written. Expiry is checked on
// read and stale entries are never swept. Bounds are approximate: the size is
// split across shards and each shard evicts its own oldest write when full,
// so a bounded cache may evict before holding size entries. Caches are safe
// for concurrent use.
package cache

import (
	"container/list"
	"slices"
	"sync"
	"time"

	"github.com/cespare/xxhash/v2"
)

const (
	maxShards     = 16
	minShardSlots = 16
)

// Key is a cache key that can render a stable string for shard selection.
type Key interface {
	comparable
	CacheKey() string
}

type entry[K Key, V any] struct {
	key     K
	value   V
	written time.Time
}

type shard[K Key, V any] struct {
	mu    sync.Mutex
	items map[K]*list.Element
	order *list.List
	limit int
}

// TTL is a sharded expire-after-write cache.
type TTL[K Key, V any] struct {
	shards  []*shard[K, V]
	size    int
	timeout time.Duration
	now     func() time.Time
}

// Option configures a TTL cache.
type Option func(*options)

type options struct {
	now func() time.Time
}

// WithClock overrides the wall clock.
func WithClock(now func() time.Time) Option {
	return func(o *options) {
		if now != nil {
			o.now = now
		}
	}
}

// NewTTL creates a cache whose entries expire timeout after being written.
// A size of zero or less leaves the cache unbounded; a timeout of zero or
// less disables expiry.
func NewTTL[K Key, V any](size int, timeout time.Duration, opts ...Option) *TTL[K, V] {
	o := options{now: time.Now}
	for _, opt := range opts {
		opt(&o)
	}

	count := maxShards
	if size > 0 {
		count = max(1, min(maxShards, size/minShardSlots))
	}
	c := &TTL[K, V]{
		shards:  make([]*shard[K, V], count),
		size:    size,
		timeout: timeout,
		now:     o.now,
	}
	for i := range c.shards {
		limit := 0
		if size > 0 {
			limit = size / count
			if i < size%count {
				limit++
			}
		}
		c.shards[i] = &shard[K, V]{
			items: make(map[K]*list.Element),
			order: list.New(),
			limit: limit,
		}
	}
	return c
}

// Size returns the configured bound; zero or less means unbounded.
func (c *TTL[K, V]) Size() int { return c.size }

// Timeout returns the configured expiry.
func (c *TTL[K, V]) Timeout() time.Duration { return c.timeout }

func (c *TTL[K, V]) shardFor(key K) *shard[K, V] {
	if len(c.shards) == 1 {
		return c.shards[0]
	}
	return c.shards[xxhash.Sum64String(key.CacheKey())%uint64(len(c.shards))]
}

// Put stores value under key, refreshing its write time.
func (c *TTL[K, V]) Put(key K, value V) {
	c.put(key, value, c.now())
}

func (c *TTL[K, V]) put(key K, value V, written time.Time) {
	s := c.shardFor(key)
	s.mu.Lock()
	defer s.mu.Unlock()

	if el, ok := s.items[key]; ok {
		s.order.Remove(el)
	}
	s.items[key] = s.order.PushBack(&entry[K, V]{key: key, value: value, written: written})
	s.evict()
}

func (s *shard[K, V]) evict() {
	for s.limit > 0 && s.order.Len() > s.limit {
		oldest := s.order.Front()
		s.order.Remove(oldest)
		delete(s.items, oldest.Value.(*entry[K, V]).key)
	}
}

// Get returns the value for key when present and unexpired.
func (c *TTL[K, V]) Get(key K) (V, bool) {
	s := c.shardFor(key)
	s.mu.Lock()
	defer s.mu.Unlock()

	var zero V
	el, ok := s.items[key]
	if !ok {
		return zero, false
	}
	e := el.Value.(*entry[K, V])
	if c.expired(e, c.now()) {
		return zero, false
	}
	return e.value, true
}

// Contains reports whether key is present and unexpired.
func (c *TTL[K, V]) Contains(key K) bool {
	_, ok := c.Get(key)
	return ok
}

// Upsert stores fn(current, present) under key as a fresh write. present is
// false when the key is missing or expired.
func (c *TTL[K, V]) Upsert(key K, fn func(current V, present bool) V) V {
	s := c.shardFor(key)
	s.mu.Lock()
	defer s.mu.Unlock()

	now := c.now()
	var current V
	present := false
	if el, ok := s.items[key]; ok {
		e := el.Value.(*entry[K, V])
		if !c.expired(e, now) {
			current, present = e.value, true
		}
		s.order.Remove(el)
		delete(s.items, key)
	}
	value := fn(current, present)
	s.items[key] = s.order.PushBack(&entry[K, V]{key: key, value: value, written: now})
	s.evict()
	return value
}

// Update replaces the value for key in place without refreshing the write
// time. It reports false when the key is missing or expired.
func (c *TTL[K, V]) Update(key K, fn func(V) V) bool {
	s := c.shardFor(key)
	s.mu.Lock()
	defer s.mu.Unlock()

	el, ok := s.items[key]
	if !ok {
		return false
	}
	e := el.Value.(*entry[K, V])
	if c.expired(e, c.now()) {
		return false
	}
	e.value = fn(e.value)
	return true
}

// Delete removes key.
func (c *TTL[K, V]) Delete(key K) {
	s := c.shardFor(key)
	s.mu.Lock()
	defer s.mu.Unlock()
	if el, ok := s.items[key]; ok {
		s.order.Remove(el)
		delete(s.items, key)
	}
}

// Len returns the number of stored entries, including expired ones not yet
// overwritten or evicted.
func (c *TTL[K, V]) Len() int {
	total := 0
	for _, s := range c.shards {
		s.mu.Lock()
		total += s.order.Len()
		s.mu.Unlock()
	}
	return total
}

// Rebuild returns a cache with new parameters holding the unexpired entries
// of c. Entries are carried over oldest first and count as freshly written.
func (c *TTL[K, V]) Rebuild(size int, timeout time.Duration) *TTL[K, V] {
	return c.RebuildFunc(size, timeout, nil)
}

// RebuildFunc is Rebuild with each carried value passed through clone while
// its shard in c is still locked. Values holding mutable state must be
// copied this way so the two caches never share it. A nil clone keeps
// values as they are.
func (c *TTL[K, V]) RebuildFunc(size int, timeout time.Duration, clone func(V) V) *TTL[K, V] {
	next := NewTTL[K, V](size, timeout, WithClock(c.now))
	now := c.now()

	var live []entry[K, V]
	for _, s := range c.shards {
		s.mu.Lock()
		for el := s.order.Front(); el != nil; el = el.Next() {
			e := el.Value.(*entry[K, V])
			if c.expired(e, now) {
				continue
			}
			kept := *e
			if clone != nil {
				kept.value = clone(e.value)
			}
			live = append(live, kept)
		}
		s.mu.Unlock()
	}
	slices.SortStableFunc(live, func(a, b entry[K, V]) int {
		return a.written.Compare(b.written)
	})
	for _, e := range live {
		next.put(e.key, e.value, now)
	}
	return next
}

func (c *TTL[K, V]) expired(e *entry[K, V], now time.Time) bool {
	return c.timeout > 0 && now.Sub(e.written) >= c.timeout
}
