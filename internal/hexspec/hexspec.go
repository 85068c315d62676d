// Package hexspec builds and compares byte buffers in tests.
//
// A spec is a whitespace-separated list of elements:
//
//	0a0b       hex bytes; underscores split groups, odd groups get a leading 0 (1_2 is 01 02)
//	#123       decimal u32, little-endian; negative numbers are two's complement
//	#123:2     the same with an explicit width of 1, 2, 4 or 8 bytes
//	'abc       ASCII text
//	05..       zero-padded to 4 bytes (05.. is u32 5)
//	05...      zero-padded to 8 bytes
//	ff*3       repeat
//	00/note    everything after a slash is a comment
package hexspec

import (
	"bytes"
	"encoding/binary"
	"encoding/hex"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"testing"
)

// Expand concatenates the bytes of all specs. It panics on malformed input.
func Expand(specs ...string) []byte {
	var b []byte
	for _, spec := range specs {
		for _, elem := range strings.Fields(spec) {
			chunk, err := expandElem(elem)
			if err != nil {
				panic(fmt.Errorf("hexspec: %w in element %q", err, elem))
			}
			b = append(b, chunk...)
		}
	}
	return b
}

func expandElem(elem string) ([]byte, error) {
	body, _, _ := strings.Cut(elem, "/")
	if body == "" {
		return nil, nil
	}

	rep := 1
	if i := strings.LastIndexByte(body, '*'); i >= 0 && !strings.HasPrefix(body, "'") {
		n, err := strconv.Atoi(body[i+1:])
		if err != nil || n < 0 {
			return nil, fmt.Errorf("invalid repeat count %q", body[i+1:])
		}
		body, rep = body[:i], n
	}

	pad := 0
	if s, ok := strings.CutSuffix(body, "..."); ok {
		body, pad = s, 8
	} else if s, ok := strings.CutSuffix(body, ".."); ok {
		body, pad = s, 4
	}

	var unit []byte
	var err error
	switch {
	case strings.HasPrefix(body, "'"):
		unit = []byte(body[1:])
	case strings.HasPrefix(body, "#"):
		unit, err = expandNumber(body[1:])
	default:
		unit, err = expandHex(body)
	}
	if err != nil {
		return nil, err
	}
	if len(unit) < pad {
		unit = append(unit, make([]byte, pad-len(unit))...)
	}
	return bytes.Repeat(unit, rep), nil
}

func expandNumber(s string) ([]byte, error) {
	num, widthStr, hasWidth := strings.Cut(s, ":")
	width := 4
	if hasWidth {
		w, err := strconv.Atoi(widthStr)
		if err != nil || (w != 1 && w != 2 && w != 4 && w != 8) {
			return nil, fmt.Errorf("invalid width %q", widthStr)
		}
		width = w
	}
	var v uint64
	if strings.HasPrefix(num, "-") {
		n, err := strconv.ParseInt(num, 10, width*8)
		if err != nil {
			return nil, err
		}
		v = uint64(n)
	} else {
		n, err := strconv.ParseUint(num, 10, width*8)
		if err != nil {
			return nil, err
		}
		v = n
	}
	return binary.LittleEndian.AppendUint64(nil, v)[:width], nil
}

func expandHex(s string) ([]byte, error) {
	var out []byte
	for group := range strings.SplitSeq(s, "_") {
		if len(group)%2 != 0 {
			group = "0" + group
		}
		b, err := hex.DecodeString(group)
		if err != nil {
			return nil, err
		}
		out = append(out, b...)
	}
	return out, nil
}

// HexDump formats b 16 bytes per line, starring the byte at mark.
func HexDump(b []byte, mark int) string {
	var buf strings.Builder
	for off := 0; off == 0 || off < len(b); off += 16 {
		line := b[off:min(off+16, len(b))]
		fmt.Fprintf(&buf, "%04x:", off)
		for i := range 16 {
			switch {
			case i >= len(line):
				buf.WriteString("   ")
			case off+i == mark:
				fmt.Fprintf(&buf, "*%02x", line[i])
			default:
				fmt.Fprintf(&buf, " %02x", line[i])
			}
		}
		buf.WriteString("  |")
		for _, c := range line {
			if c < 0x20 || c > 0x7e {
				c = '.'
			}
			buf.WriteByte(c)
		}
		buf.WriteString("|\n")
	}
	return buf.String()
}

// BytesEq fails the test with hex dumps of both buffers if they differ.
func BytesEq(t testing.TB, a, e []byte) bool {
	if bytes.Equal(a, e) {
		return true
	}
	off := 0
	for off < len(a) && off < len(e) && a[off] == e[off] {
		off++
	}
	t.Helper()
	t.Errorf("** got %d bytes:\n%swanted %d bytes:\n%sfirst difference at 0x%x", len(a), HexDump(a, off), len(e), HexDump(e, off), off)
	return false
}

// Logger returns a debug-level logger that writes to the test log.
func Logger(t testing.TB) *slog.Logger {
	return slog.New(slog.NewTextHandler(testWriter{t}, &slog.HandlerOptions{
		Level: slog.LevelDebug,
	}))
}

type testWriter struct{ t testing.TB }

func (w testWriter) Write(buf []byte) (int, error) {
	w.t.Log(strings.TrimSuffix(string(buf), "\n"))
	return len(buf), nil
}
