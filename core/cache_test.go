package core

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestObjectCacheGetSetInvalidate(t *testing.T) {
	c := newObjectCache[string](CacheConfig{TTL: time.Minute, TTI: time.Minute, Capacity: 10}, nil)

	_, ok := c.Get("missing")
	assert.False(t, ok)

	c.Set("a", "value-a")
	v, ok := c.Get("a")
	require.True(t, ok)
	assert.Equal(t, "value-a", v)

	c.Invalidate("a")
	_, ok = c.Get("a")
	assert.False(t, ok)
}

func TestObjectCacheTTIExpiry(t *testing.T) {
	c := newObjectCache[string](CacheConfig{TTL: time.Minute, TTI: 10 * time.Millisecond, Capacity: 10}, nil)
	c.Set("a", "value-a")

	time.Sleep(30 * time.Millisecond)
	_, ok := c.Get("a")
	assert.False(t, ok, "entry idle past TTI should be evicted on read")
}

func TestObjectCacheGetOrLoadCoalescesConcurrentMisses(t *testing.T) {
	c := newObjectCache[int](CacheConfig{TTL: time.Minute, TTI: time.Minute, Capacity: 10}, nil)
	var loads int32

	var wg sync.WaitGroup
	results := make([]int, 8)
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			v, err := c.GetOrLoad(context.Background(), "shared", func(context.Context) (int, error) {
				atomic.AddInt32(&loads, 1)
				time.Sleep(20 * time.Millisecond)
				return 42, nil
			})
			require.NoError(t, err)
			results[i] = v
		}(i)
	}
	wg.Wait()

	assert.Equal(t, int32(1), atomic.LoadInt32(&loads), "concurrent misses for the same key must coalesce into one load")
	for _, v := range results {
		assert.Equal(t, 42, v)
	}
}

func TestObjectCacheGetOrLoadDoesNotCacheErrors(t *testing.T) {
	c := newObjectCache[int](CacheConfig{TTL: time.Minute, TTI: time.Minute, Capacity: 10}, nil)
	var calls int32

	_, err := c.GetOrLoad(context.Background(), "k", func(context.Context) (int, error) {
		atomic.AddInt32(&calls, 1)
		return 0, assert.AnError
	})
	require.Error(t, err)

	v, err := c.GetOrLoad(context.Background(), "k", func(context.Context) (int, error) {
		atomic.AddInt32(&calls, 1)
		return 7, nil
	})
	require.NoError(t, err)
	assert.Equal(t, 7, v)
	assert.Equal(t, int32(2), atomic.LoadInt32(&calls))
}

func TestObjectCacheWeightedEviction(t *testing.T) {
	weight := func(s Scratchpad) int64 { return int64(len(s.Payload)) }
	c := newObjectCache[Scratchpad](CacheConfig{TTL: time.Minute, TTI: time.Minute, Capacity: 100, MaxWeightBytes: 10}, weight)

	c.Set("a", Scratchpad{Payload: make([]byte, 6)})
	c.Set("b", Scratchpad{Payload: make([]byte, 6)})

	_, aOK := c.Get("a")
	_, bOK := c.Get("b")
	assert.False(t, aOK, "oldest entry should be evicted once the byte budget is exceeded")
	assert.True(t, bOK)
}

func TestNewDefaultCacheSetFillsDefaults(t *testing.T) {
	cs := NewDefaultCacheSet()
	require.NotNil(t, cs.Registers)
	require.NotNil(t, cs.RegisterHistory)
	require.NotNil(t, cs.Pointers)
	require.NotNil(t, cs.Scratchpads)
}
