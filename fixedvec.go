package zerovec

import (
	"fmt"
	"iter"
	"strings"
)

// FixedVec is a sequence of fixed-width elements stored back to back in a
// byte slice. Elements are decoded on every access; nothing is cached.
//
// The zero FixedVec is an empty vector with no codec and must not be read
// from except through Len and IsEmpty.
type FixedVec[T any] struct {
	codec Codec[T]
	data  []byte
	width int
	n     int
}

// ParseFixedVec validates data and returns a FixedVec that borrows it. data
// must not be modified while the vector is in use.
func ParseFixedVec[T any](c Codec[T], data []byte) (FixedVec[T], error) {
	w := c.Width()
	n, err := elementCount(data, w)
	if err != nil {
		return FixedVec[T]{}, err
	}
	if v, ok := c.(ElementValidator); ok {
		for i := range n {
			off := i * w
			if err := v.ValidateElement(data[off : off+w]); err != nil {
				return FixedVec[T]{}, formatErrf(data, off, invalidElement(err), "element %d", i)
			}
		}
	}
	return FixedVec[T]{c, data, w, n}, nil
}

// viewFixedVec skips validation; data must already be known to be valid.
func viewFixedVec[T any](c Codec[T], data []byte) FixedVec[T] {
	w := c.Width()
	return FixedVec[T]{c, data, w, len(data) / w}
}

// NewFixedVec encodes items into a freshly allocated buffer.
func NewFixedVec[T any](c Codec[T], items []T) FixedVec[T] {
	return viewFixedVec(c, AppendFixedVec(nil, c, items))
}

// AppendFixedVec appends the byte form of items to buf.
func AppendFixedVec[T any](buf []byte, c Codec[T], items []T) []byte {
	w := c.Width()
	off, buf := grow(buf, w*len(items))
	for _, item := range items {
		c.Put(buf[off:off+w], item)
		off += w
	}
	return buf
}

func (v FixedVec[T]) Len() int {
	return v.n
}

func (v FixedVec[T]) IsEmpty() bool {
	return v.n == 0
}

// Bytes returns the backing byte slice, which is the vector's serialized form.
func (v FixedVec[T]) Bytes() []byte {
	return v.data
}

// Codec returns the element codec.
func (v FixedVec[T]) Codec() Codec[T] {
	return v.codec
}

// Get returns the i-th element, or false if i is out of range.
func (v FixedVec[T]) Get(i int) (T, bool) {
	if i < 0 || i >= v.n {
		var zero T
		return zero, false
	}
	return v.get(i), true
}

// At returns the i-th element and panics with an *IndexError if i is out of
// range.
func (v FixedVec[T]) At(i int) T {
	checkIndex(i, v.n)
	return v.get(i)
}

func (v FixedVec[T]) get(i int) T {
	off := i * v.width
	return v.codec.Get(v.data[off : off+v.width])
}

func (v FixedVec[T]) First() (T, bool) {
	return v.Get(0)
}

func (v FixedVec[T]) Last() (T, bool) {
	return v.Get(v.n - 1)
}

// All iterates over the elements in index order.
func (v FixedVec[T]) All() iter.Seq[T] {
	return func(yield func(T) bool) {
		for i := range v.n {
			if !yield(v.get(i)) {
				return
			}
		}
	}
}

// Indexed iterates over (index, element) pairs.
func (v FixedVec[T]) Indexed() iter.Seq2[int, T] {
	return func(yield func(int, T) bool) {
		for i := range v.n {
			if !yield(i, v.get(i)) {
				return
			}
		}
	}
}

func (v FixedVec[T]) Backward() iter.Seq[T] {
	return func(yield func(T) bool) {
		for i := v.n - 1; i >= 0; i-- {
			if !yield(v.get(i)) {
				return
			}
		}
	}
}

// BinarySearch searches for target in a vector sorted in ascending order by
// the codec's Compare. It returns the position where target is found, or
// where it would be inserted, and whether it was found. On unsorted input it
// still terminates and returns some position in [0, Len].
func (v FixedVec[T]) BinarySearch(target T) (int, bool) {
	return v.BinarySearchFunc(func(e T) int {
		return v.codec.Compare(e, target)
	})
}

// BinarySearchFunc is like BinarySearch, but uses cmp(element) which must
// return the ordering of the element relative to the target.
func (v FixedVec[T]) BinarySearchFunc(cmp func(T) int) (int, bool) {
	lo, hi := 0, v.n
	for lo < hi {
		m := int(uint(lo+hi) >> 1)
		if cmp(v.get(m)) < 0 {
			lo = m + 1
		} else {
			hi = m
		}
	}
	return lo, lo < v.n && cmp(v.get(lo)) == 0
}

// Slice returns the sub-vector [i, j) sharing the same bytes, or false if the
// bounds are invalid.
func (v FixedVec[T]) Slice(i, j int) (FixedVec[T], bool) {
	if i < 0 || j < i || j > v.n {
		return FixedVec[T]{}, false
	}
	return FixedVec[T]{v.codec, v.data[i*v.width : j*v.width], v.width, j - i}, true
}

// ToSlice decodes every element into a new slice.
func (v FixedVec[T]) ToSlice() []T {
	result := make([]T, v.n)
	for i := range v.n {
		result[i] = v.get(i)
	}
	return result
}

// Equal reports whether both vectors hold the same elements under the
// codec's Compare.
func (v FixedVec[T]) Equal(other FixedVec[T]) bool {
	if v.n != other.n {
		return false
	}
	for i := range v.n {
		if v.codec.Compare(v.get(i), other.get(i)) != 0 {
			return false
		}
	}
	return true
}

func (v FixedVec[T]) String() string {
	var buf strings.Builder
	buf.WriteByte('[')
	for i := range v.n {
		if i > 0 {
			buf.WriteByte(' ')
		}
		fmt.Fprint(&buf, v.get(i))
	}
	buf.WriteByte(']')
	return buf.String()
}
