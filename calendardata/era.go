package calendardata

import (
	"cmp"
	"encoding/binary"
	"fmt"
	"strconv"
	"strings"

	"github.com/andreyvit/zerovec"
)

// EraStartDate is the ISO date an era begins on.
type EraStartDate struct {
	Year  int32
	Month uint8
	Day   uint8
}

// ParseEraStartDate parses "Y-M-D", with an optional leading minus sign for
// years before 1 CE.
func ParseEraStartDate(s string) (EraStartDate, error) {
	rest, neg := strings.CutPrefix(s, "-")
	ys, rest, ok1 := strings.Cut(rest, "-")
	ms, ds, ok2 := strings.Cut(rest, "-")
	if !ok1 || !ok2 {
		return EraStartDate{}, fmt.Errorf("invalid era start date %q", s)
	}
	year, err := strconv.ParseInt(ys, 10, 32)
	if err != nil {
		return EraStartDate{}, fmt.Errorf("invalid era start date %q: year: %w", s, err)
	}
	month, err := strconv.ParseUint(ms, 10, 8)
	if err != nil {
		return EraStartDate{}, fmt.Errorf("invalid era start date %q: month: %w", s, err)
	}
	day, err := strconv.ParseUint(ds, 10, 8)
	if err != nil {
		return EraStartDate{}, fmt.Errorf("invalid era start date %q: day: %w", s, err)
	}
	if neg {
		year = -year
	}
	d := EraStartDate{int32(year), uint8(month), uint8(day)}
	if err := d.validate(); err != nil {
		return EraStartDate{}, fmt.Errorf("invalid era start date %q: %w", s, err)
	}
	return d, nil
}

func MustEraStartDate(s string) EraStartDate {
	d, err := ParseEraStartDate(s)
	if err != nil {
		panic(err)
	}
	return d
}

func (d EraStartDate) validate() error {
	if d.Month < 1 || d.Month > 12 {
		return fmt.Errorf("month %d out of range", d.Month)
	}
	if d.Day < 1 || d.Day > 31 {
		return fmt.Errorf("day %d out of range", d.Day)
	}
	return nil
}

func (d EraStartDate) String() string {
	return fmt.Sprintf("%d-%d-%d", d.Year, d.Month, d.Day)
}

// Compare orders dates chronologically.
func (d EraStartDate) Compare(o EraStartDate) int {
	if c := cmp.Compare(d.Year, o.Year); c != 0 {
		return c
	}
	if c := cmp.Compare(d.Month, o.Month); c != 0 {
		return c
	}
	return cmp.Compare(d.Day, o.Day)
}

// EraStartDateCodec stores a date in 6 bytes: year as i32 LE, then month and
// day.
var EraStartDateCodec zerovec.Codec[EraStartDate] = eraDateCodec{}

type eraDateCodec struct{}

func (eraDateCodec) Width() int { return 6 }

func (eraDateCodec) Put(dst []byte, v EraStartDate) {
	binary.LittleEndian.PutUint32(dst, uint32(v.Year))
	dst[4] = v.Month
	dst[5] = v.Day
}

func (eraDateCodec) Get(src []byte) EraStartDate {
	return EraStartDate{int32(binary.LittleEndian.Uint32(src)), src[4], src[5]}
}

func (eraDateCodec) Compare(a, b EraStartDate) int {
	return a.Compare(b)
}

func (c eraDateCodec) ValidateElement(src []byte) error {
	return c.Get(src).validate()
}
