package provider

import (
	"container/list"
	"context"
	"log/slog"
	"sync"
	"sync/atomic"

	"golang.org/x/sync/singleflight"
)

type CacheOptions struct {
	Logger *slog.Logger

	// Capacity is the maximum number of cached responses. Defaults to 256.
	Capacity int
}

const defaultCacheCapacity = 256

// CachingProvider keeps recently loaded buffers in an LRU cache. Cached
// payloads and the ones handed out share their buffer; concurrent misses
// for the same request are collapsed into a single load.
type CachingProvider struct {
	inner  BufferProvider
	logger *slog.Logger
	flight singleflight.Group

	mu        sync.Mutex
	capacity  int
	items     map[cacheKey]*list.Element
	evictList *list.List

	hits   atomic.Int64
	misses atomic.Int64
}

type cacheKey struct {
	hash   DataKeyHash
	locale DataLocale
}

func (k cacheKey) String() string {
	return k.hash.String() + "/" + k.locale.String()
}

type cacheEntry struct {
	key  cacheKey
	resp DataResponse[[]byte]
}

func NewCachingProvider(inner BufferProvider, opt CacheOptions) *CachingProvider {
	if opt.Logger == nil {
		opt.Logger = slog.Default()
	}
	if opt.Capacity <= 0 {
		opt.Capacity = defaultCacheCapacity
	}
	return &CachingProvider{
		inner:     inner,
		logger:    opt.Logger,
		capacity:  opt.Capacity,
		items:     make(map[cacheKey]*list.Element),
		evictList: list.New(),
	}
}

func (c *CachingProvider) LoadBuffer(key DataKey, req DataRequest) (DataResponse[[]byte], error) {
	ck := cacheKey{key.Hash(), req.Locale}
	if resp, ok := c.lookup(ck); ok {
		c.hits.Add(1)
		return resp, nil
	}
	c.misses.Add(1)

	_, err, _ := c.flight.Do(ck.String(), func() (any, error) {
		if c.contains(ck) {
			return nil, nil
		}
		resp, err := c.inner.LoadBuffer(key, req)
		if err != nil {
			return nil, err
		}
		c.insert(ck, resp)
		return nil, nil
	})
	if err != nil {
		return DataResponse[[]byte]{}, err
	}
	if resp, ok := c.lookup(ck); ok {
		return resp, nil
	}
	// evicted before we got to it
	return c.inner.LoadBuffer(key, req)
}

func (c *CachingProvider) contains(k cacheKey) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, ok := c.items[k]
	return ok
}

// lookup returns a clone of the cached response.
func (c *CachingProvider) lookup(k cacheKey) (DataResponse[[]byte], bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	el, ok := c.items[k]
	if !ok {
		return DataResponse[[]byte]{}, false
	}
	c.evictList.MoveToFront(el)
	resp := el.Value.(*cacheEntry).resp
	return DataResponse[[]byte]{resp.Metadata, resp.Payload.Clone()}, true
}

func (c *CachingProvider) insert(k cacheKey, resp DataResponse[[]byte]) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if el, ok := c.items[k]; ok {
		c.evictList.MoveToFront(el)
		old := el.Value.(*cacheEntry)
		old.resp.Close()
		old.resp = resp
		return
	}
	c.items[k] = c.evictList.PushFront(&cacheEntry{k, resp})
	for c.evictList.Len() > c.capacity {
		c.removeElement(c.evictList.Back())
	}
}

func (c *CachingProvider) removeElement(el *list.Element) {
	e := c.evictList.Remove(el).(*cacheEntry)
	delete(c.items, e.key)
	e.resp.Close()
	c.logger.LogAttrs(context.Background(), slog.LevelDebug, "provider: cache evicted", slog.String("entry", e.key.String()))
}

// Len returns the number of cached responses.
func (c *CachingProvider) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.evictList.Len()
}

// Stats returns the number of cache hits and misses so far.
func (c *CachingProvider) Stats() (hits, misses int64) {
	return c.hits.Load(), c.misses.Load()
}

// Purge closes and drops every cached response.
func (c *CachingProvider) Purge() {
	c.mu.Lock()
	defer c.mu.Unlock()
	for c.evictList.Len() > 0 {
		c.removeElement(c.evictList.Back())
	}
}
