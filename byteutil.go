package zerovec

import (
	"encoding/binary"
	"math"
	"slices"
)

const (
	countWidth  = 4
	offsetWidth = 4
)

// grow extends buf by n bytes and returns the offset of the new region.
// Existing contents are kept; the new bytes are not cleared.
func grow(buf []byte, n int) (int, []byte) {
	off := len(buf)
	buf = slices.Grow(buf, n)
	return off, buf[:off+n]
}

func le32(buf []byte, i int) uint32 {
	return binary.LittleEndian.Uint32(buf[i*4:])
}

func putLen32(buf []byte, n int) {
	if n < 0 || uint64(n) > math.MaxUint32 {
		panic("zerovec: length does not fit into 32 bits")
	}
	binary.LittleEndian.PutUint32(buf, uint32(n))
}

// compareSeqs orders two sequences element-wise, shorter first on a tie.
func compareSeqs[T any](a, b Vector[T], compare func(a, b T) int) int {
	na, nb := a.Len(), b.Len()
	for i := range min(na, nb) {
		if c := compare(a.At(i), b.At(i)); c != 0 {
			return c
		}
	}
	switch {
	case na < nb:
		return -1
	case na > nb:
		return 1
	default:
		return 0
	}
}
