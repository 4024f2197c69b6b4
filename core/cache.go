package core

import (
	"context"
	"sync"
	"time"

	lru "github.com/hashicorp/golang-lru/v2/expirable"
	"golang.org/x/sync/singleflight"
)

// CacheConfig tunes one per-kind cache. Zero values are replaced by the
// defaults in spec.md §4.3 when constructing a CacheSet via NewCacheSet.
type CacheConfig struct {
	TTL      time.Duration
	TTI      time.Duration
	Capacity int
	// MaxWeightBytes bounds total payload bytes rather than entry count; it
	// is only consulted by the scratchpad cache (the only kind whose
	// entries vary widely in size).
	MaxWeightBytes int64
}

const (
	defaultTTL               = 3600 * time.Second
	defaultTTI               = 900 * time.Second
	defaultRegisterCapacity  = 1000
	defaultHistoryCapacity   = 200
	defaultPointerCapacity   = 1000
	defaultScratchpadWeight  = 8 * 1024 * 1024
)

func (c CacheConfig) withDefaults(capacity int, maxWeight int64) CacheConfig {
	if c.TTL == 0 {
		c.TTL = defaultTTL
	}
	if c.TTI == 0 {
		c.TTI = defaultTTI
	}
	if c.Capacity == 0 {
		c.Capacity = capacity
	}
	if c.MaxWeightBytes == 0 {
		c.MaxWeightBytes = maxWeight
	}
	return c
}

type cacheEntry[V any] struct {
	value      V
	lastAccess time.Time
}

// objectCache is a bounded, TTL+TTI cache for one network-object kind. TTL
// eviction is delegated to hashicorp/golang-lru/v2's expirable.LRU; TTI
// (time since last access) is tracked alongside it, since expirable.LRU only
// evicts by time-since-insertion. Concurrent misses for the same key
// coalesce onto a single upstream fetch via golang.org/x/sync/singleflight.
type objectCache[V any] struct {
	mu        sync.Mutex
	lru       *lru.LRU[string, cacheEntry[V]]
	tti       time.Duration
	group     singleflight.Group
	weight    func(V) int64
	maxWeight int64
	curWeight int64
	order     []string // recency order for weighted eviction, oldest first
}

func newObjectCache[V any](cfg CacheConfig, weight func(V) int64) *objectCache[V] {
	c := &objectCache[V]{
		tti:       cfg.TTI,
		weight:    weight,
		maxWeight: cfg.MaxWeightBytes,
	}
	c.lru = lru.NewLRU[string, cacheEntry[V]](cfg.Capacity, c.onEvict, cfg.TTL)
	return c
}

func (c *objectCache[V]) onEvict(key string, entry cacheEntry[V]) {
	if c.weight != nil {
		c.curWeight -= c.weight(entry.value)
	}
	for i, k := range c.order {
		if k == key {
			c.order = append(c.order[:i], c.order[i+1:]...)
			break
		}
	}
}

// Get returns the cached value if present and not idle-expired.
func (c *objectCache[V]) Get(key string) (V, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	entry, ok := c.lru.Get(key)
	if !ok {
		var zero V
		return zero, false
	}
	if c.tti > 0 && time.Since(entry.lastAccess) > c.tti {
		c.lru.Remove(key)
		var zero V
		return zero, false
	}
	entry.lastAccess = time.Now()
	c.lru.Add(key, entry)
	return entry.value, true
}

// Set stores v under key, evicting older weighted entries first if this
// cache enforces a byte budget.
func (c *objectCache[V]) Set(key string, v V) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.setLocked(key, v)
}

func (c *objectCache[V]) setLocked(key string, v V) {
	if old, ok := c.lru.Peek(key); ok && c.weight != nil {
		c.curWeight -= c.weight(old.value)
	} else {
		c.order = append(c.order, key)
	}
	c.lru.Add(key, cacheEntry[V]{value: v, lastAccess: time.Now()})
	if c.weight == nil || c.maxWeight == 0 {
		return
	}
	c.curWeight += c.weight(v)
	for c.curWeight > c.maxWeight && len(c.order) > 0 {
		oldest := c.order[0]
		c.order = c.order[1:]
		c.lru.Remove(oldest)
	}
}

// Invalidate removes key unconditionally. Called before and after every
// write, and on any "not found" read result (spec.md §4.2-§4.3).
func (c *objectCache[V]) Invalidate(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.lru.Remove(key)
}

// GetOrLoad returns the cached value for key, or calls load exactly once per
// set of concurrent callers sharing the same key, caching the result on
// success.
func (c *objectCache[V]) GetOrLoad(ctx context.Context, key string, load func(context.Context) (V, error)) (V, error) {
	if v, ok := c.Get(key); ok {
		return v, nil
	}
	v, err, _ := c.group.Do(key, func() (any, error) {
		loaded, err := load(ctx)
		if err != nil {
			var zero V
			return zero, err
		}
		c.Set(key, loaded)
		return loaded, nil
	})
	if err != nil {
		var zero V
		return zero, err
	}
	return v.(V), nil
}

// CacheSet bundles the per-kind caches the Network Object Wrappers (C2)
// consult. One CacheSet is typically shared by every Ark a process touches.
type CacheSet struct {
	Registers        *objectCache[[32]byte]
	RegisterHistory  *objectCache[[][32]byte]
	Pointers         *objectCache[Pointer]
	Scratchpads      *objectCache[Scratchpad]
}

// NewCacheSet builds a CacheSet from per-kind configs; zero-valued configs
// fall back to spec.md §4.3's defaults.
func NewCacheSet(registers, history, pointers, scratchpads CacheConfig) *CacheSet {
	registers = registers.withDefaults(defaultRegisterCapacity, 0)
	history = history.withDefaults(defaultHistoryCapacity, 0)
	pointers = pointers.withDefaults(defaultPointerCapacity, 0)
	scratchpads = scratchpads.withDefaults(1<<20, defaultScratchpadWeight)

	return &CacheSet{
		Registers:       newObjectCache[[32]byte](registers, nil),
		RegisterHistory: newObjectCache[[][32]byte](history, nil),
		Pointers:        newObjectCache[Pointer](pointers, nil),
		Scratchpads: newObjectCache[Scratchpad](scratchpads, func(s Scratchpad) int64 {
			return int64(len(s.Payload))
		}),
	}
}

// NewDefaultCacheSet builds a CacheSet using the defaults for every kind.
func NewDefaultCacheSet() *CacheSet {
	return NewCacheSet(CacheConfig{}, CacheConfig{}, CacheConfig{}, CacheConfig{})
}

func registerKey(addr RegisterAddress) string     { return string(addr[:]) }
func pointerKey(addr PointerAddress) string       { return string(addr[:]) }
func scratchpadKey(addr ScratchpadAddress) string { return string(addr[:]) }
