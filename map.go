package zerovec

import (
	"encoding/binary"
	"fmt"
	"iter"
	"slices"
)

// Map is a sorted key/value association over a byte slice laid out as
//
//	keysLen:u32 | keys | values
//
// where keys and values are two vectors of equal length in the byte form of
// their Layout. Keys are strictly increasing, so lookups are binary
// searches. An empty byte slice is an empty map.
type Map[K, V any] struct {
	kl     Layout[K]
	vl     Layout[V]
	keys   Vector[K]
	values Vector[V]
	raw    []byte
}

// Entry is a key/value pair used when building maps.
type Entry[K, V any] struct {
	Key   K
	Value V
}

// ParseMap validates raw and returns a Map borrowing it.
func ParseMap[K, V any](kl Layout[K], vl Layout[V], raw []byte) (Map[K, V], error) {
	if len(raw) == 0 {
		return emptyMap(kl, vl), nil
	}
	if len(raw) < countWidth {
		return Map[K, V]{}, formatErrf(raw, 0, ErrLengthMismatch, "map header truncated")
	}
	keysLen := uint64(binary.LittleEndian.Uint32(raw))
	if keysLen > uint64(len(raw)-countWidth) {
		return Map[K, V]{}, formatErrf(raw, 0, ErrLengthMismatch, "keys region of %d bytes does not fit into %d bytes", keysLen, len(raw))
	}
	split := countWidth + int(keysLen)
	keys, err := kl.Parse(raw[countWidth:split:split])
	if err != nil {
		return Map[K, V]{}, fmt.Errorf("map keys: %w", err)
	}
	values, err := vl.Parse(raw[split:])
	if err != nil {
		return Map[K, V]{}, fmt.Errorf("map values: %w", err)
	}
	if keys.Len() != values.Len() {
		return Map[K, V]{}, formatErrf(raw, split, ErrLengthMismatch, "%d keys, %d values", keys.Len(), values.Len())
	}
	for i := 1; i < keys.Len(); i++ {
		switch c := kl.Compare(keys.At(i-1), keys.At(i)); {
		case c == 0:
			return Map[K, V]{}, formatErrf(raw, countWidth, ErrDuplicateKey, "keys %d and %d are equal", i-1, i)
		case c > 0:
			return Map[K, V]{}, formatErrf(raw, countWidth, ErrUnsortedKeys, "key %d sorts after key %d", i-1, i)
		}
	}
	return Map[K, V]{kl, vl, keys, values, raw}, nil
}

func viewMap[K, V any](kl Layout[K], vl Layout[V], raw []byte) Map[K, V] {
	if len(raw) == 0 {
		return emptyMap(kl, vl)
	}
	split := countWidth + int(binary.LittleEndian.Uint32(raw))
	return Map[K, V]{kl, vl, kl.view(raw[countWidth:split:split]), vl.view(raw[split:]), raw}
}

func emptyMap[K, V any](kl Layout[K], vl Layout[V]) Map[K, V] {
	return Map[K, V]{kl, vl, kl.view(nil), vl.view(nil), nil}
}

// BuildMap sorts entries by key and serializes them. Entries with equal keys
// are rejected with ErrDuplicateKey; use MapBuilder.Set for overwrite
// semantics.
func BuildMap[K, V any](kl Layout[K], vl Layout[V], entries []Entry[K, V]) (Map[K, V], error) {
	sorted := slices.Clone(entries)
	slices.SortStableFunc(sorted, func(a, b Entry[K, V]) int {
		return kl.Compare(a.Key, b.Key)
	})
	keys := make([]K, len(sorted))
	values := make([]V, len(sorted))
	for i, e := range sorted {
		if i > 0 && kl.Compare(sorted[i-1].Key, e.Key) == 0 {
			return Map[K, V]{}, fmt.Errorf("%w: %v", ErrDuplicateKey, e.Key)
		}
		keys[i], values[i] = e.Key, e.Value
	}
	return viewMap(kl, vl, appendMap(nil, kl, vl, keys, values)), nil
}

// MapFromGoMap builds a Map from a Go map. It fails only if two distinct Go
// keys compare equal under the key layout.
func MapFromGoMap[K comparable, V any](kl Layout[K], vl Layout[V], m map[K]V) (Map[K, V], error) {
	entries := make([]Entry[K, V], 0, len(m))
	for k, v := range m {
		entries = append(entries, Entry[K, V]{k, v})
	}
	return BuildMap(kl, vl, entries)
}

// appendMap serializes already sorted, unique keys and their values.
func appendMap[K, V any](buf []byte, kl Layout[K], vl Layout[V], keys []K, values []V) []byte {
	if len(keys) == 0 {
		return buf
	}
	start, buf := grow(buf, countWidth)
	buf = kl.Append(buf, keys)
	putLen32(buf[start:], len(buf)-start-countWidth)
	return vl.Append(buf, values)
}

func (m Map[K, V]) Len() int {
	if m.keys == nil {
		return 0
	}
	return m.keys.Len()
}

func (m Map[K, V]) IsEmpty() bool {
	return m.Len() == 0
}

// Bytes returns the serialized form of the map.
func (m Map[K, V]) Bytes() []byte {
	return m.raw
}

// KeyVector returns the keys in ascending order.
func (m Map[K, V]) KeyVector() Vector[K] {
	return m.keys
}

func (m Map[K, V]) ValueVector() Vector[V] {
	return m.values
}

// IndexOf returns the index of key, or the index where it would be inserted
// and false.
func (m Map[K, V]) IndexOf(key K) (int, bool) {
	if m.Len() == 0 {
		return 0, false
	}
	return m.keys.BinarySearchFunc(func(k K) int {
		return m.kl.Compare(k, key)
	})
}

func (m Map[K, V]) Get(key K) (V, bool) {
	i, found := m.IndexOf(key)
	if !found {
		var zero V
		return zero, false
	}
	return m.values.At(i), true
}

func (m Map[K, V]) Contains(key K) bool {
	_, found := m.IndexOf(key)
	return found
}

// GetByIndex returns the i-th entry in key order.
func (m Map[K, V]) GetByIndex(i int) (K, V, bool) {
	if i < 0 || i >= m.Len() {
		var zk K
		var zv V
		return zk, zv, false
	}
	return m.keys.At(i), m.values.At(i), true
}

// All iterates over entries in ascending key order.
func (m Map[K, V]) All() iter.Seq2[K, V] {
	return m.between(0, m.Len())
}

// Range iterates over entries with lo <= key < hi.
func (m Map[K, V]) Range(lo, hi K) iter.Seq2[K, V] {
	i, _ := m.IndexOf(lo)
	j, _ := m.IndexOf(hi)
	return m.between(i, max(i, j))
}

func (m Map[K, V]) between(i, j int) iter.Seq2[K, V] {
	return func(yield func(K, V) bool) {
		for k := i; k < j; k++ {
			if !yield(m.keys.At(k), m.values.At(k)) {
				return
			}
		}
	}
}

func (m Map[K, V]) Keys() iter.Seq[K] {
	return func(yield func(K) bool) {
		for i := range m.Len() {
			if !yield(m.keys.At(i)) {
				return
			}
		}
	}
}

func (m Map[K, V]) Values() iter.Seq[V] {
	return func(yield func(V) bool) {
		for i := range m.Len() {
			if !yield(m.values.At(i)) {
				return
			}
		}
	}
}

// Entries materializes the map as a slice of entries. Variable-width keys and
// values still share memory with the map's bytes.
func (m Map[K, V]) Entries() []Entry[K, V] {
	result := make([]Entry[K, V], 0, m.Len())
	for k, v := range m.All() {
		result = append(result, Entry[K, V]{k, v})
	}
	return result
}
