package zerovec

import (
	"encoding/binary"
	"iter"
	"math"
)

// VarVec is a sequence of variable-length elements over a byte slice laid
// out as
//
//	count:u32 | offsets:(count+1)×u32 | data
//
// where element i is data[offsets[i]:offsets[i+1]]. An empty byte slice is an
// empty vector.
type VarVec[T any] struct {
	codec VarCodec[T]
	raw   []byte
	n     int
	data  int // start of the data region in raw
}

// ParseVarVec validates the header and every element of data, and returns a
// VarVec borrowing it.
func ParseVarVec[T any](c VarCodec[T], raw []byte) (VarVec[T], error) {
	if len(raw) == 0 {
		return VarVec[T]{codec: c}, nil
	}
	if len(raw) < countWidth+offsetWidth {
		return VarVec[T]{}, formatErrf(raw, 0, ErrLengthMismatch, "VarVec header truncated")
	}
	count := uint64(binary.LittleEndian.Uint32(raw))
	maxCount := uint64(len(raw)-countWidth)/offsetWidth - 1
	if count > maxCount {
		return VarVec[T]{}, formatErrf(raw, 0, ErrLengthMismatch, "VarVec count %d does not fit into %d bytes", count, len(raw))
	}
	n := int(count)
	dataStart := countWidth + (n+1)*offsetWidth
	dataLen := len(raw) - dataStart
	offsets := raw[countWidth:dataStart]

	prev := le32(offsets, 0)
	if prev != 0 {
		return VarVec[T]{}, formatErrf(raw, countWidth, ErrInvalidOffsetTable, "first offset is %d", prev)
	}
	for i := 1; i <= n; i++ {
		off := le32(offsets, i)
		if off < prev {
			return VarVec[T]{}, formatErrf(raw, countWidth+i*offsetWidth, ErrInvalidOffsetTable, "offset %d is %d, less than previous %d", i, off, prev)
		}
		if uint64(off) > uint64(dataLen) {
			return VarVec[T]{}, formatErrf(raw, countWidth+i*offsetWidth, ErrInvalidOffsetTable, "offset %d is %d, past data length %d", i, off, dataLen)
		}
		prev = off
	}
	if uint64(prev) != uint64(dataLen) {
		return VarVec[T]{}, formatErrf(raw, countWidth+n*offsetWidth, ErrInvalidOffsetTable, "last offset is %d, data length is %d", prev, dataLen)
	}

	v := VarVec[T]{c, raw, n, dataStart}
	for i := range n {
		if err := c.Validate(v.elementBytes(i)); err != nil {
			return VarVec[T]{}, formatErrf(raw, dataStart+int(le32(offsets, i)), invalidElement(err), "element %d", i)
		}
	}
	return v, nil
}

// viewVarVec skips validation; raw must already be known to be valid.
func viewVarVec[T any](c VarCodec[T], raw []byte) VarVec[T] {
	if len(raw) == 0 {
		return VarVec[T]{codec: c}
	}
	n := int(binary.LittleEndian.Uint32(raw))
	return VarVec[T]{c, raw, n, countWidth + (n+1)*offsetWidth}
}

// NewVarVec serializes items into a new buffer.
func NewVarVec[T any](c VarCodec[T], items []T) VarVec[T] {
	return viewVarVec(c, AppendVarVec(nil, c, items))
}

// AppendVarVec appends the byte form of items to buf. Zero items append
// nothing. Panics if the data region does not fit into 32-bit offsets.
func AppendVarVec[T any](buf []byte, c VarCodec[T], items []T) []byte {
	if len(items) == 0 {
		return buf
	}
	start, buf := grow(buf, countWidth+(len(items)+1)*offsetWidth)
	putLen32(buf[start:], len(items))
	hdr := start + countWidth
	dataStart := len(buf)
	binary.LittleEndian.PutUint32(buf[hdr:], 0)
	for i, item := range items {
		buf = c.Append(buf, item)
		n := len(buf) - dataStart
		if uint64(n) > math.MaxUint32 {
			panic("zerovec: VarVec data exceeds 4 GiB")
		}
		binary.LittleEndian.PutUint32(buf[hdr+(i+1)*offsetWidth:], uint32(n))
	}
	return buf
}

func (v VarVec[T]) Len() int {
	return v.n
}

func (v VarVec[T]) IsEmpty() bool {
	return v.n == 0
}

func (v VarVec[T]) Bytes() []byte {
	return v.raw
}

func (v VarVec[T]) offset(i int) int {
	return int(le32(v.raw[countWidth:], i))
}

func (v VarVec[T]) elementBytes(i int) []byte {
	s, e := v.data+v.offset(i), v.data+v.offset(i+1)
	return v.raw[s:e:e]
}

// ElementBytes returns the raw bytes of element i, or false if i is out of
// range.
func (v VarVec[T]) ElementBytes(i int) ([]byte, bool) {
	if i < 0 || i >= v.n {
		return nil, false
	}
	return v.elementBytes(i), true
}

// Get returns a view of element i, or false if i is out of range.
func (v VarVec[T]) Get(i int) (T, bool) {
	if i < 0 || i >= v.n {
		var zero T
		return zero, false
	}
	return v.codec.View(v.elementBytes(i)), true
}

// At is like Get, but panics with an *IndexError if i is out of range.
func (v VarVec[T]) At(i int) T {
	checkIndex(i, v.n)
	return v.codec.View(v.elementBytes(i))
}

func (v VarVec[T]) All() iter.Seq[T] {
	return func(yield func(T) bool) {
		for i := range v.n {
			if !yield(v.codec.View(v.elementBytes(i))) {
				return
			}
		}
	}
}

func (v VarVec[T]) Indexed() iter.Seq2[int, T] {
	return func(yield func(int, T) bool) {
		for i := range v.n {
			if !yield(i, v.codec.View(v.elementBytes(i))) {
				return
			}
		}
	}
}

// BinarySearch has the same contract as FixedVec.BinarySearch.
func (v VarVec[T]) BinarySearch(target T) (int, bool) {
	return v.BinarySearchFunc(func(e T) int {
		return v.codec.Compare(e, target)
	})
}

func (v VarVec[T]) BinarySearchFunc(cmp func(T) int) (int, bool) {
	lo, hi := 0, v.n
	for lo < hi {
		m := int(uint(lo+hi) >> 1)
		if cmp(v.codec.View(v.elementBytes(m))) < 0 {
			lo = m + 1
		} else {
			hi = m
		}
	}
	return lo, lo < v.n && cmp(v.codec.View(v.elementBytes(lo))) == 0
}

// ToSlice materializes every element. The backing bytes are copied once, so
// the result does not share memory with the vector.
func (v VarVec[T]) ToSlice() []T {
	own := viewVarVec(v.codec, append([]byte(nil), v.raw...))
	result := make([]T, v.n)
	for i := range v.n {
		result[i] = own.codec.View(own.elementBytes(i))
	}
	return result
}
