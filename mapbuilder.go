package zerovec

import (
	"fmt"
	"iter"
	"slices"
)

// MapBuilder is the mutable, owned state of a Map before it is frozen into
// bytes. Keys are kept sorted at all times, so Freeze does not sort.
type MapBuilder[K, V any] struct {
	kl     Layout[K]
	vl     Layout[V]
	keys   []K
	values []V
}

func NewMapBuilder[K, V any](kl Layout[K], vl Layout[V]) *MapBuilder[K, V] {
	return &MapBuilder[K, V]{kl: kl, vl: vl}
}

// UpdateMap returns a builder seeded with the entries of m. Variable-width
// keys and values keep referencing m's bytes until Freeze copies them.
func UpdateMap[K, V any](m Map[K, V]) *MapBuilder[K, V] {
	b := NewMapBuilder(m.kl, m.vl)
	n := m.Len()
	b.keys = make([]K, 0, n)
	b.values = make([]V, 0, n)
	for k, v := range m.All() {
		b.keys = append(b.keys, k)
		b.values = append(b.values, v)
	}
	return b
}

func (b *MapBuilder[K, V]) Len() int {
	return len(b.keys)
}

func (b *MapBuilder[K, V]) search(key K) (int, bool) {
	return slices.BinarySearchFunc(b.keys, key, b.kl.Compare)
}

// Insert adds a new entry and fails with ErrDuplicateKey if key is present.
func (b *MapBuilder[K, V]) Insert(key K, value V) error {
	i, found := b.search(key)
	if found {
		return fmt.Errorf("%w: %v", ErrDuplicateKey, key)
	}
	b.keys = slices.Insert(b.keys, i, key)
	b.values = slices.Insert(b.values, i, value)
	return nil
}

// Set adds or replaces an entry, returning the replaced value if any.
func (b *MapBuilder[K, V]) Set(key K, value V) (V, bool) {
	i, found := b.search(key)
	if found {
		old := b.values[i]
		b.values[i] = value
		return old, true
	}
	b.keys = slices.Insert(b.keys, i, key)
	b.values = slices.Insert(b.values, i, value)
	var zero V
	return zero, false
}

func (b *MapBuilder[K, V]) Remove(key K) (V, bool) {
	i, found := b.search(key)
	if !found {
		var zero V
		return zero, false
	}
	old := b.values[i]
	b.keys = slices.Delete(b.keys, i, i+1)
	b.values = slices.Delete(b.values, i, i+1)
	return old, true
}

func (b *MapBuilder[K, V]) Get(key K) (V, bool) {
	i, found := b.search(key)
	if !found {
		var zero V
		return zero, false
	}
	return b.values[i], true
}

func (b *MapBuilder[K, V]) All() iter.Seq2[K, V] {
	return func(yield func(K, V) bool) {
		for i, k := range b.keys {
			if !yield(k, b.values[i]) {
				return
			}
		}
	}
}

// Freeze serializes the current entries into a new immutable Map. The
// builder stays usable.
func (b *MapBuilder[K, V]) Freeze() Map[K, V] {
	return viewMap(b.kl, b.vl, appendMap(nil, b.kl, b.vl, b.keys, b.values))
}
