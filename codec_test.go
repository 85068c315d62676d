package zerovec

import (
	"math"
	"testing"

	"github.com/andreyvit/zerovec/internal/hexspec"
)

func TestCodec_littleEndian(t *testing.T) {
	hexspec.BytesEq(t, NewFixedVec(Uint16, []uint16{1, 0x0203}).Bytes(), hexspec.Expand("0100 0302"))
	hexspec.BytesEq(t, NewFixedVec(Uint32, []uint32{0x01020304}).Bytes(), hexspec.Expand("04030201"))
	hexspec.BytesEq(t, NewFixedVec(Int16, []int16{-2}).Bytes(), hexspec.Expand("feff"))
	hexspec.BytesEq(t, NewFixedVec(Int64, []int64{-1}).Bytes(), hexspec.Expand("ff*8"))
	hexspec.BytesEq(t, NewFixedVec(Float32, []float32{1}).Bytes(), hexspec.Expand("0000803f"))
	hexspec.BytesEq(t, NewFixedVec(Bool, []bool{true, false}).Bytes(), hexspec.Expand("01 00"))
	hexspec.BytesEq(t, NewFixedVec(Rune, []rune{'A', 0x1F600}).Bytes(), hexspec.Expand("410000 00f601"))
}

func TestCodec_roundTrip(t *testing.T) {
	deepEqual(t, NewFixedVec(Uint64, []uint64{0, 1, math.MaxUint64}).ToSlice(), []uint64{0, 1, math.MaxUint64})
	deepEqual(t, NewFixedVec(Int8, []int8{-128, 0, 127}).ToSlice(), []int8{-128, 0, 127})
	deepEqual(t, NewFixedVec(Int32, []int32{math.MinInt32, -1, math.MaxInt32}).ToSlice(), []int32{math.MinInt32, -1, math.MaxInt32})
	deepEqual(t, NewFixedVec(Float64, []float64{-0.5, math.Inf(1)}).ToSlice(), []float64{-0.5, math.Inf(1)})
	deepEqual(t, NewFixedVec(Rune, []rune{0, 'ж', 0x10FFFF}).ToSlice(), []rune{0, 'ж', 0x10FFFF})
}

func TestCodec_validation(t *testing.T) {
	_, err := ParseFixedVec(Bool, []byte{0, 1, 2})
	isErr(t, err, ErrInvalidElement)

	_, err = ParseFixedVec(Rune, hexspec.Expand("00d800"))
	isErr(t, err, ErrInvalidElement)

	_, err = ParseFixedVec(Rune, hexspec.Expand("000011"))
	isErr(t, err, ErrInvalidElement)

	_, err = ParseVarVec(String, hexspec.Expand("#1 #0 #1 ff"))
	isErr(t, err, ErrInvalidElement)
}

func TestPairOf(t *testing.T) {
	c := PairOf(Int32, Uint8)
	eq(t, c.Width(), 5)

	v := NewFixedVec(c, []Pair[int32, uint8]{{-1, 2}, {3, 4}})
	hexspec.BytesEq(t, v.Bytes(), hexspec.Expand("ffffffff 02 03000000 04"))
	deepEqual(t, v.ToSlice(), []Pair[int32, uint8]{{-1, 2}, {3, 4}})

	eq(t, c.Compare(Pair[int32, uint8]{1, 9}, Pair[int32, uint8]{2, 0}), -1)
	eq(t, c.Compare(Pair[int32, uint8]{2, 1}, Pair[int32, uint8]{2, 0}), 1)
	eq(t, c.Compare(Pair[int32, uint8]{2, 1}, Pair[int32, uint8]{2, 1}), 0)

	_, err := ParseFixedVec(PairOf(Uint8, Bool), []byte{1, 1, 2, 7})
	isErr(t, err, ErrInvalidElement)
}

func TestBoolCompare(t *testing.T) {
	eq(t, Bool.Compare(false, true), -1)
	eq(t, Bool.Compare(true, false), 1)
	eq(t, Bool.Compare(true, true), 0)
}
