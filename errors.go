package zerovec

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrLengthMismatch means a byte slice's length is inconsistent with the
	// layout: not a multiple of the element width, too short for a header, or
	// holding a different number of keys and values.
	ErrLengthMismatch = errors.New("length mismatch")

	// ErrInvalidOffsetTable means a VarVec header is not monotonic, does not
	// start at zero, or does not end at the data length.
	ErrInvalidOffsetTable = errors.New("invalid offset table")

	// ErrIndexOutOfRange is reported (as a panic) by unchecked accessors like At.
	ErrIndexOutOfRange = errors.New("index out of range")

	// ErrDuplicateKey is returned when building a Map from entries that contain
	// the same key twice, and when parsing a Map whose keys repeat.
	ErrDuplicateKey = errors.New("duplicate key")

	// ErrUnsortedKeys means a serialized Map's keys are not in ascending order.
	ErrUnsortedKeys = errors.New("keys not sorted")

	// ErrInvalidElement means an element's bytes are rejected by its codec
	// (invalid UTF-8, a bool that is neither 0 nor 1, and so on).
	ErrInvalidElement = errors.New("invalid element")
)

// FormatError describes malformed input detected while parsing a container.
// Err is one of the sentinel errors above, possibly joined with the codec's
// own error, so errors.Is works against the sentinels.
type FormatError struct {
	Data []byte
	Off  int
	Err  error
	Msg  string
}

func formatErrf(data []byte, off int, err error, format string, args ...any) error {
	return &FormatError{data, off, err, fmt.Sprintf(format, args...)}
}

func invalidElement(err error) error {
	return fmt.Errorf("%w: %w", ErrInvalidElement, err)
}

func (e *FormatError) Unwrap() error {
	return e.Err
}

// errContext is how many bytes around Off Error prints.
const errContext = 16

// Error prints the bytes around Off, with the byte at Off in brackets:
//
//	map header truncated at offset 0 of 2: length mismatch: [01]00
func (e *FormatError) Error() string {
	var buf strings.Builder
	fmt.Fprintf(&buf, "%s at offset %d of %d: %v", e.Msg, e.Off, len(e.Data), e.Err)
	n := len(e.Data)
	if n == 0 {
		return buf.String()
	}
	off := min(max(e.Off, 0), n)
	lo, hi := max(off-errContext, 0), min(off+errContext, n)
	buf.WriteString(": ")
	if lo > 0 {
		buf.WriteString("...")
	}
	fmt.Fprintf(&buf, "%x[", e.Data[lo:off])
	if off < n {
		fmt.Fprintf(&buf, "%02x", e.Data[off])
		off++
	}
	fmt.Fprintf(&buf, "]%x", e.Data[off:max(off, hi)])
	if hi < n {
		buf.WriteString("...")
	}
	return buf.String()
}

// IndexError is the panic value of unchecked accessors called with an index
// outside of [0, Len).
type IndexError struct {
	Index int
	Len   int
}

func (e *IndexError) Error() string {
	return fmt.Sprintf("zerovec: index %d out of range [0, %d)", e.Index, e.Len)
}

func (e *IndexError) Unwrap() error {
	return ErrIndexOutOfRange
}

func checkIndex(i, n int) {
	if i < 0 || i >= n {
		panic(&IndexError{i, n})
	}
}
