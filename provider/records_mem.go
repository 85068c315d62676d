package provider

import (
	"iter"
	"sync"

	"github.com/andreyvit/zerovec"
)

var (
	memLocaleLayout = zerovec.VarLayout(zerovec.String)
	memRecordLayout = zerovec.VarLayout(zerovec.Bytes)
)

type memBucketMap = zerovec.Map[string, []byte]

// memRecords keeps every bucket as a frozen zerovec.Map. Readers work on
// the map they found, writers on a builder frozen again when they are done.
type memRecords struct {
	mu      sync.RWMutex
	buckets map[string]memBucketMap
	closed  bool
}

func newMemRecords() *memRecords {
	return &memRecords{buckets: make(map[string]memBucketMap)}
}

func (s *memRecords) View(path string, fn func(recordBucket) error) error {
	s.mu.RLock()
	m, ok := s.buckets[path]
	closed := s.closed
	s.mu.RUnlock()
	if closed {
		return errStoreClosed
	}
	if !ok {
		return fn(nil)
	}
	return fn(frozenBucket{m})
}

func (s *memRecords) Update(path string, create bool, fn func(recordBucket) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return errStoreClosed
	}
	m, ok := s.buckets[path]
	if !ok && !create {
		return fn(nil)
	}
	var b *zerovec.MapBuilder[string, []byte]
	if ok {
		b = zerovec.UpdateMap(m)
	} else {
		b = zerovec.NewMapBuilder(memLocaleLayout, memRecordLayout)
	}
	if err := fn(builderBucket{b}); err != nil {
		return err
	}
	s.buckets[path] = b.Freeze()
	return nil
}

func (s *memRecords) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	s.buckets = nil
	return nil
}

type frozenBucket struct {
	m memBucketMap
}

func (b frozenBucket) Get(locale string) []byte {
	v, _ := b.m.Get(locale)
	return v
}

func (frozenBucket) Put(string, []byte) error { return errReadOnly }
func (frozenBucket) Delete(string) error { return errReadOnly }

func (b frozenBucket) Locales() iter.Seq[string] {
	return b.m.Keys()
}

type builderBucket struct {
	b *zerovec.MapBuilder[string, []byte]
}

func (b builderBucket) Get(locale string) []byte {
	v, _ := b.b.Get(locale)
	return v
}

func (b builderBucket) Put(locale string, rec []byte) error {
	b.b.Set(locale, rec)
	return nil
}

func (b builderBucket) Delete(locale string) error {
	b.b.Remove(locale)
	return nil
}

func (b builderBucket) Locales() iter.Seq[string] {
	return func(yield func(string) bool) {
		for k := range b.b.All() {
			if !yield(k) {
				return
			}
		}
	}
}
