package calendardata

import (
	"bytes"
	"errors"
	"fmt"

	"github.com/andreyvit/zerovec"
)

var errTinyStr = errors.New("invalid tiny string")

// TinyStr4 is a short ASCII identifier stored inline, padded with NUL bytes.
// Month codes like "M01" and "M05L" are TinyStr4.
type TinyStr4 [4]byte

// TinyStr16 holds identifiers of up to 16 ASCII bytes, such as era codes.
type TinyStr16 [16]byte

func NewTinyStr4(s string) (TinyStr4, error) {
	var t TinyStr4
	err := fillTiny(t[:], s)
	return t, err
}

func MustTinyStr4(s string) TinyStr4 {
	t, err := NewTinyStr4(s)
	if err != nil {
		panic(err)
	}
	return t
}

func NewTinyStr16(s string) (TinyStr16, error) {
	var t TinyStr16
	err := fillTiny(t[:], s)
	return t, err
}

func MustTinyStr16(s string) TinyStr16 {
	t, err := NewTinyStr16(s)
	if err != nil {
		panic(err)
	}
	return t
}

func (t TinyStr4) String() string { return tinyString(t[:]) }
func (t TinyStr16) String() string { return tinyString(t[:]) }

func fillTiny(dst []byte, s string) error {
	if len(s) == 0 || len(s) > len(dst) {
		return fmt.Errorf("%w: %q must be 1 to %d bytes", errTinyStr, s, len(dst))
	}
	copy(dst, s)
	return validateTiny(dst)
}

func tinyString(b []byte) string {
	if i := bytes.IndexByte(b, 0); i >= 0 {
		b = b[:i]
	}
	return string(b)
}

// validateTiny accepts non-empty printable ASCII followed only by NULs.
func validateTiny(b []byte) error {
	end := len(b)
	for i, c := range b {
		if c == 0 {
			end = i
			break
		}
		if c < 0x21 || c > 0x7e {
			return fmt.Errorf("%w: byte 0x%02x at %d", errTinyStr, c, i)
		}
	}
	if end == 0 {
		return fmt.Errorf("%w: empty", errTinyStr)
	}
	for i := end; i < len(b); i++ {
		if b[i] != 0 {
			return fmt.Errorf("%w: byte 0x%02x after NUL padding", errTinyStr, b[i])
		}
	}
	return nil
}

// TinyStr4Codec and TinyStr16Codec store tiny strings as their raw bytes.
// They order bytewise, which for NUL-padded ASCII is the string order.
var (
	TinyStr4Codec  zerovec.Codec[TinyStr4]  = tiny4Codec{}
	TinyStr16Codec zerovec.Codec[TinyStr16] = tiny16Codec{}
)

type tiny4Codec struct{}

func (tiny4Codec) Width() int { return 4 }
func (tiny4Codec) Put(dst []byte, v TinyStr4) { copy(dst, v[:]) }
func (tiny4Codec) Get(src []byte) TinyStr4 { return TinyStr4(src) }
func (tiny4Codec) Compare(a, b TinyStr4) int { return bytes.Compare(a[:], b[:]) }
func (tiny4Codec) ValidateElement(src []byte) error { return validateTiny(src) }

type tiny16Codec struct{}

func (tiny16Codec) Width() int { return 16 }
func (tiny16Codec) Put(dst []byte, v TinyStr16) { copy(dst, v[:]) }
func (tiny16Codec) Get(src []byte) TinyStr16 { return TinyStr16(src) }
func (tiny16Codec) Compare(a, b TinyStr16) int { return bytes.Compare(a[:], b[:]) }
func (tiny16Codec) ValidateElement(src []byte) error { return validateTiny(src) }
