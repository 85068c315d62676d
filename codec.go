package zerovec

import (
	"bytes"
	"cmp"
	"encoding/binary"
	"fmt"
	"math"
	"strings"
	"unicode/utf8"
	"unsafe"
)

// Codec describes a fixed-width element type. Put and Get always receive
// exactly Width() bytes. Encodings must not depend on the platform, so all
// built-in codecs are little-endian with no padding.
//
// Types produced by code generators satisfy this contract by encoding their
// fields in declaration order.
type Codec[T any] interface {
	Width() int
	Put(dst []byte, v T)
	Get(src []byte) T
	Compare(a, b T) int
}

// ElementValidator is implemented by codecs whose byte patterns are not all
// valid. Parsing calls it for every element, so Get never sees a bad pattern.
type ElementValidator interface {
	ValidateElement(src []byte) error
}

// VarCodec describes a variable-length element type. View is only ever called
// on bytes that passed Validate, so it must not fail.
type VarCodec[T any] interface {
	Validate(b []byte) error
	View(b []byte) T
	Append(dst []byte, v T) []byte
	Compare(a, b T) int
}

// elementCount validates that data holds a whole number of elements.
func elementCount(data []byte, width int) (int, error) {
	if width <= 0 {
		panic(fmt.Sprintf("zerovec: invalid element width %d", width))
	}
	if rem := len(data) % width; rem != 0 {
		return 0, formatErrf(data, len(data)-rem, ErrLengthMismatch, "%d bytes is not a multiple of element width %d", len(data), width)
	}
	return len(data) / width, nil
}

var (
	Uint8   Codec[uint8]   = u8Codec{}
	Uint16  Codec[uint16]  = u16Codec{}
	Uint32  Codec[uint32]  = u32Codec{}
	Uint64  Codec[uint64]  = u64Codec{}
	Int8    Codec[int8]    = i8Codec{}
	Int16   Codec[int16]   = i16Codec{}
	Int32   Codec[int32]   = i32Codec{}
	Int64   Codec[int64]   = i64Codec{}
	Float32 Codec[float32] = f32Codec{}
	Float64 Codec[float64] = f64Codec{}
	Bool    Codec[bool]    = boolCodec{}
	Rune    Codec[rune]    = runeCodec{}

	String VarCodec[string] = stringCodec{}
	Bytes  VarCodec[[]byte] = bytesCodec{}
)

type u8Codec struct{}

func (u8Codec) Width() int { return 1 }
func (u8Codec) Put(dst []byte, v uint8) { dst[0] = v }
func (u8Codec) Get(src []byte) uint8 { return src[0] }
func (u8Codec) Compare(a, b uint8) int { return cmp.Compare(a, b) }

type u16Codec struct{}

func (u16Codec) Width() int { return 2 }
func (u16Codec) Put(dst []byte, v uint16) { binary.LittleEndian.PutUint16(dst, v) }
func (u16Codec) Get(src []byte) uint16 { return binary.LittleEndian.Uint16(src) }
func (u16Codec) Compare(a, b uint16) int { return cmp.Compare(a, b) }

type u32Codec struct{}

func (u32Codec) Width() int { return 4 }
func (u32Codec) Put(dst []byte, v uint32) { binary.LittleEndian.PutUint32(dst, v) }
func (u32Codec) Get(src []byte) uint32 { return binary.LittleEndian.Uint32(src) }
func (u32Codec) Compare(a, b uint32) int { return cmp.Compare(a, b) }

type u64Codec struct{}

func (u64Codec) Width() int { return 8 }
func (u64Codec) Put(dst []byte, v uint64) { binary.LittleEndian.PutUint64(dst, v) }
func (u64Codec) Get(src []byte) uint64 { return binary.LittleEndian.Uint64(src) }
func (u64Codec) Compare(a, b uint64) int { return cmp.Compare(a, b) }

type i8Codec struct{}

func (i8Codec) Width() int { return 1 }
func (i8Codec) Put(dst []byte, v int8) { dst[0] = byte(v) }
func (i8Codec) Get(src []byte) int8 { return int8(src[0]) }
func (i8Codec) Compare(a, b int8) int { return cmp.Compare(a, b) }

type i16Codec struct{}

func (i16Codec) Width() int { return 2 }
func (i16Codec) Put(dst []byte, v int16) { binary.LittleEndian.PutUint16(dst, uint16(v)) }
func (i16Codec) Get(src []byte) int16 { return int16(binary.LittleEndian.Uint16(src)) }
func (i16Codec) Compare(a, b int16) int { return cmp.Compare(a, b) }

type i32Codec struct{}

func (i32Codec) Width() int { return 4 }
func (i32Codec) Put(dst []byte, v int32) { binary.LittleEndian.PutUint32(dst, uint32(v)) }
func (i32Codec) Get(src []byte) int32 { return int32(binary.LittleEndian.Uint32(src)) }
func (i32Codec) Compare(a, b int32) int { return cmp.Compare(a, b) }

type i64Codec struct{}

func (i64Codec) Width() int { return 8 }
func (i64Codec) Put(dst []byte, v int64) { binary.LittleEndian.PutUint64(dst, uint64(v)) }
func (i64Codec) Get(src []byte) int64 { return int64(binary.LittleEndian.Uint64(src)) }
func (i64Codec) Compare(a, b int64) int { return cmp.Compare(a, b) }

type f32Codec struct{}

func (f32Codec) Width() int { return 4 }
func (f32Codec) Put(dst []byte, v float32) { binary.LittleEndian.PutUint32(dst, math.Float32bits(v)) }
func (f32Codec) Get(src []byte) float32 { return math.Float32frombits(binary.LittleEndian.Uint32(src)) }
func (f32Codec) Compare(a, b float32) int { return cmp.Compare(a, b) }

type f64Codec struct{}

func (f64Codec) Width() int { return 8 }
func (f64Codec) Put(dst []byte, v float64) { binary.LittleEndian.PutUint64(dst, math.Float64bits(v)) }
func (f64Codec) Get(src []byte) float64 { return math.Float64frombits(binary.LittleEndian.Uint64(src)) }
func (f64Codec) Compare(a, b float64) int { return cmp.Compare(a, b) }

type boolCodec struct{}

func (boolCodec) Width() int { return 1 }

func (boolCodec) Put(dst []byte, v bool) {
	if v {
		dst[0] = 1
	} else {
		dst[0] = 0
	}
}

func (boolCodec) Get(src []byte) bool { return src[0] != 0 }

func (boolCodec) Compare(a, b bool) int {
	switch {
	case a == b:
		return 0
	case !a:
		return -1
	default:
		return 1
	}
}

func (boolCodec) ValidateElement(src []byte) error {
	if src[0] > 1 {
		return fmt.Errorf("bool byte 0x%02x", src[0])
	}
	return nil
}

// runeCodec stores Unicode scalar values in 3 bytes.
type runeCodec struct{}

func (runeCodec) Width() int { return 3 }

func (runeCodec) Put(dst []byte, v rune) {
	u := uint32(v)
	dst[0] = byte(u)
	dst[1] = byte(u >> 8)
	dst[2] = byte(u >> 16)
}

func (runeCodec) Get(src []byte) rune {
	return rune(uint32(src[0]) | uint32(src[1])<<8 | uint32(src[2])<<16)
}

func (runeCodec) Compare(a, b rune) int { return cmp.Compare(a, b) }

func (c runeCodec) ValidateElement(src []byte) error {
	if r := c.Get(src); !utf8.ValidRune(r) {
		return fmt.Errorf("invalid scalar value U+%X", r)
	}
	return nil
}

// Pair is a two-field element, encoded as First followed by Second.
type Pair[A, B any] struct {
	First  A
	Second B
}

// PairOf combines two fixed-width codecs. Pairs order by First, then Second.
func PairOf[A, B any](a Codec[A], b Codec[B]) Codec[Pair[A, B]] {
	return pairCodec[A, B]{a, b, a.Width()}
}

type pairCodec[A, B any] struct {
	a Codec[A]
	b Codec[B]
	w int
}

func (c pairCodec[A, B]) Width() int { return c.w + c.b.Width() }

func (c pairCodec[A, B]) Put(dst []byte, v Pair[A, B]) {
	c.a.Put(dst[:c.w], v.First)
	c.b.Put(dst[c.w:], v.Second)
}

func (c pairCodec[A, B]) Get(src []byte) Pair[A, B] {
	return Pair[A, B]{c.a.Get(src[:c.w]), c.b.Get(src[c.w:])}
}

func (c pairCodec[A, B]) Compare(x, y Pair[A, B]) int {
	if r := c.a.Compare(x.First, y.First); r != 0 {
		return r
	}
	return c.b.Compare(x.Second, y.Second)
}

func (c pairCodec[A, B]) ValidateElement(src []byte) error {
	if v, ok := c.a.(ElementValidator); ok {
		if err := v.ValidateElement(src[:c.w]); err != nil {
			return err
		}
	}
	if v, ok := c.b.(ElementValidator); ok {
		if err := v.ValidateElement(src[c.w:]); err != nil {
			return err
		}
	}
	return nil
}

type stringCodec struct{}

func (stringCodec) Validate(b []byte) error {
	if !utf8.Valid(b) {
		return fmt.Errorf("invalid UTF-8")
	}
	return nil
}

// View returns a string sharing memory with b. The string is only valid as
// long as b's owner is.
func (stringCodec) View(b []byte) string {
	if len(b) == 0 {
		return ""
	}
	return unsafe.String(&b[0], len(b))
}

func (stringCodec) Append(dst []byte, v string) []byte {
	off, dst := grow(dst, len(v))
	copy(dst[off:], v)
	return dst
}

func (stringCodec) Compare(a, b string) int { return strings.Compare(a, b) }

type bytesCodec struct{}

func (bytesCodec) Validate(b []byte) error { return nil }
func (bytesCodec) View(b []byte) []byte { return b[:len(b):len(b)] }
func (bytesCodec) Append(dst []byte, v []byte) []byte { return append(dst, v...) }
func (bytesCodec) Compare(a, b []byte) int { return bytes.Compare(a, b) }
