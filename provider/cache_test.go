package provider

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andreyvit/zerovec/internal/hexspec"
)

func TestCachingProvider_hits(t *testing.T) {
	inner := &countingProvider{data: map[DataLocale][]byte{en: []byte("hello")}}
	c := NewCachingProvider(inner, CacheOptions{Logger: hexspec.Logger(t)})

	r1, err := c.LoadBuffer(testKey, RequestFor(en))
	require.NoError(t, err)
	r2, err := c.LoadBuffer(testKey, RequestFor(en))
	require.NoError(t, err)

	assert.Equal(t, "hello", string(r1.Payload.Get()))
	assert.Equal(t, "hello", string(r2.Payload.Get()))
	assert.Equal(t, Zerovec, r2.Metadata.BufferFormat)
	assert.Equal(t, int64(1), inner.loads.Load())
	hits, misses := c.Stats()
	assert.Equal(t, int64(1), hits)
	assert.Equal(t, int64(1), misses)

	r1.Close()
	r2.Close()
	assert.Equal(t, int64(0), inner.releases.Load())
	assert.Equal(t, 1, c.Len())

	c.Purge()
	assert.Equal(t, int64(1), inner.releases.Load())
	assert.Equal(t, 0, c.Len())
}

func TestCachingProvider_eviction(t *testing.T) {
	inner := &countingProvider{data: map[DataLocale][]byte{en: []byte("hello"), de: []byte("hallo")}}
	c := NewCachingProvider(inner, CacheOptions{Logger: hexspec.Logger(t), Capacity: 1})

	r, err := c.LoadBuffer(testKey, RequestFor(en))
	require.NoError(t, err)
	r.Close()

	r, err = c.LoadBuffer(testKey, RequestFor(de))
	require.NoError(t, err)
	assert.Equal(t, int64(1), inner.releases.Load())
	assert.Equal(t, 1, c.Len())

	// evicted entries stay valid for whoever holds them
	held, err := c.LoadBuffer(testKey, RequestFor(de))
	require.NoError(t, err)
	r.Close()
	r, err = c.LoadBuffer(testKey, RequestFor(en))
	require.NoError(t, err)
	r.Close()
	assert.Equal(t, "hallo", string(held.Payload.Get()))
	held.Close()
	assert.Equal(t, int64(2), inner.releases.Load())
	assert.Equal(t, int64(3), inner.loads.Load())
}

func TestCachingProvider_errorsAreNotCached(t *testing.T) {
	inner := &countingProvider{}
	c := NewCachingProvider(inner, CacheOptions{})

	for range 2 {
		_, err := c.LoadBuffer(testKey, RequestFor(en))
		assert.ErrorIs(t, err, ErrMissingLocale)
	}
	assert.Equal(t, int64(2), inner.loads.Load())
	assert.Equal(t, 0, c.Len())
}

func TestCachingProvider_concurrentMisses(t *testing.T) {
	inner := &countingProvider{data: map[DataLocale][]byte{en: []byte("hello")}, gate: make(chan struct{})}
	c := NewCachingProvider(inner, CacheOptions{Logger: hexspec.Logger(t)})

	const n = 16
	var wg sync.WaitGroup
	results := make([]string, n)
	errs := make([]error, n)
	for i := range n {
		wg.Add(1)
		go func() {
			defer wg.Done()
			r, err := c.LoadBuffer(testKey, RequestFor(en))
			errs[i] = err
			if err == nil {
				results[i] = string(r.Payload.Get())
				r.Close()
			}
		}()
	}
	close(inner.gate)
	wg.Wait()

	for i := range n {
		require.NoError(t, errs[i])
		assert.Equal(t, "hello", results[i])
	}
	assert.Equal(t, int64(1), inner.loads.Load())
	assert.Equal(t, int64(0), inner.releases.Load())
}
