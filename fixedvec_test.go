package zerovec

import (
	"errors"
	"strings"
	"testing"

	"github.com/andreyvit/zerovec/internal/hexspec"
)

func TestFixedVec_roundTrip(t *testing.T) {
	items := []uint32{211, 281, 421, 32}
	v := NewFixedVec(Uint32, items)
	parsed := must(ParseFixedVec(Uint32, v.Bytes()))
	deepEqual(t, parsed.ToSlice(), items)
	eq(t, parsed.Len(), 4)
	eq(t, parsed.Equal(v), true)
}

func TestFixedVec_lengthMismatch(t *testing.T) {
	_, err := ParseFixedVec(Uint32, make([]byte, 6))
	isErr(t, err, ErrLengthMismatch)

	var fe *FormatError
	if !errors.As(err, &fe) {
		t.Fatalf("err = %T, wanted *FormatError", err)
	}
	eq(t, fe.Off, 4)
}

func TestFixedVec_empty(t *testing.T) {
	v := must(ParseFixedVec(Uint16, nil))
	eq(t, v.Len(), 0)
	eq(t, v.IsEmpty(), true)
	_, ok := v.Get(0)
	eq(t, ok, false)
	_, ok = v.First()
	eq(t, ok, false)
	_, ok = v.Last()
	eq(t, ok, false)
	pos, found := v.BinarySearch(5)
	eq(t, pos, 0)
	eq(t, found, false)

	var zero FixedVec[uint16]
	eq(t, zero.Len(), 0)
	eq(t, len(zero.ToSlice()), 0)
}

func TestFixedVec_get(t *testing.T) {
	v := must(ParseFixedVec(Uint16, hexspec.Expand("0100 0200 0300")))
	for i, want := range []uint16{1, 2, 3} {
		got, ok := v.Get(i)
		eq(t, ok, true)
		eq(t, got, want)
		eq(t, v.At(i), want)
	}
	_, ok := v.Get(3)
	eq(t, ok, false)
	_, ok = v.Get(-1)
	eq(t, ok, false)

	first, _ := v.First()
	last, _ := v.Last()
	eq(t, first, 1)
	eq(t, last, 3)

	expectPanic(t, ErrIndexOutOfRange, func() { v.At(3) })
	expectPanic(t, ErrIndexOutOfRange, func() { v.At(-1) })
}

func TestFixedVec_iteration(t *testing.T) {
	v := NewFixedVec(Int16, []int16{5, -3, 8})
	a := collect(v.All())
	b := collect(v.All())
	deepEqual(t, a, []int16{5, -3, 8})
	deepEqual(t, b, a)
	deepEqual(t, collect(v.Backward()), []int16{8, -3, 5})

	var idx []int
	for i, e := range v.Indexed() {
		if e == -3 {
			break
		}
		idx = append(idx, i)
	}
	deepEqual(t, idx, []int{0})
}

func TestFixedVec_binarySearch(t *testing.T) {
	v := NewFixedVec(Uint32, []uint32{10, 20, 20, 30})
	tests := []struct {
		target uint32
		pos    int
		found  bool
	}{
		{5, 0, false},
		{10, 0, true},
		{15, 1, false},
		{20, 1, true},
		{30, 3, true},
		{31, 4, false},
	}
	for _, tt := range tests {
		pos, found := v.BinarySearch(tt.target)
		if pos != tt.pos || found != tt.found {
			t.Errorf("BinarySearch(%d) = (%d, %v), wanted (%d, %v)", tt.target, pos, found, tt.pos, tt.found)
		}
	}
}

func TestFixedVec_binarySearchUnsorted(t *testing.T) {
	v := NewFixedVec(Uint8, []uint8{9, 1, 8, 2, 7, 3})
	for target := range uint8(12) {
		pos, _ := v.BinarySearch(target)
		if pos < 0 || pos > v.Len() {
			t.Fatalf("BinarySearch(%d) = %d, out of [0, %d]", target, pos, v.Len())
		}
	}
}

func TestFixedVec_slice(t *testing.T) {
	v := NewFixedVec(Uint8, []uint8{1, 2, 3, 4, 5})
	s, ok := v.Slice(1, 4)
	eq(t, ok, true)
	deepEqual(t, s.ToSlice(), []uint8{2, 3, 4})
	hexspec.BytesEq(t, s.Bytes(), []byte{2, 3, 4})

	s, ok = v.Slice(5, 5)
	eq(t, ok, true)
	eq(t, s.Len(), 0)

	for _, r := range [][2]int{{-1, 2}, {3, 2}, {0, 6}} {
		if _, ok := v.Slice(r[0], r[1]); ok {
			t.Errorf("Slice(%d, %d) succeeded, wanted failure", r[0], r[1])
		}
	}
}

func TestFixedVec_toSliceIsOwned(t *testing.T) {
	data := []byte{1, 2}
	v := must(ParseFixedVec(Uint8, data))
	s := v.ToSlice()
	data[0] = 9
	eq(t, s[0], 1)
	eq(t, v.At(0), 9)
}

func TestFixedVec_string(t *testing.T) {
	eq(t, NewFixedVec(Int8, []int8{1, -2}).String(), "[1 -2]")
	if s := NewFixedVec(Uint8, nil).String(); !strings.HasPrefix(s, "[") {
		t.Fatalf("String() = %q", s)
	}
}
