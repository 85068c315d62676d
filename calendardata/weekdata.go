package calendardata

import (
	"fmt"
	"time"

	"github.com/vmihailenco/msgpack/v5"

	"github.com/andreyvit/zerovec"
)

// Weekday is an ISO weekday, Monday = 1 through Sunday = 7.
type Weekday uint8

const (
	Monday Weekday = iota + 1
	Tuesday
	Wednesday
	Thursday
	Friday
	Saturday
	Sunday
)

func (w Weekday) Time() time.Weekday {
	return time.Weekday(w % 7)
}

func (w Weekday) String() string {
	return w.Time().String()
}

func (w Weekday) IsValid() bool {
	return w >= Monday && w <= Sunday
}

// WeekData describes how weeks are counted in a region.
type WeekData struct {
	FirstWeekday Weekday

	// MinWeekDays is the number of days of a week that must fall into a
	// month or year for the week to count as its first.
	MinWeekDays uint8
}

const weekDataSize = 2

// ParseWeekData decodes the 2-byte form: first weekday, then min days.
func ParseWeekData(data []byte) (WeekData, error) {
	if len(data) != weekDataSize {
		return WeekData{}, fmt.Errorf("%w: week data is %d bytes, wanted %d", zerovec.ErrLengthMismatch, len(data), weekDataSize)
	}
	w := WeekData{Weekday(data[0]), data[1]}
	if err := w.validate(); err != nil {
		return WeekData{}, fmt.Errorf("%w: %w", zerovec.ErrInvalidElement, err)
	}
	return w, nil
}

func (w WeekData) validate() error {
	if !w.FirstWeekday.IsValid() {
		return fmt.Errorf("invalid first weekday %d", w.FirstWeekday)
	}
	if w.MinWeekDays < 1 || w.MinWeekDays > 7 {
		return fmt.Errorf("min week days %d out of range", w.MinWeekDays)
	}
	return nil
}

func (w WeekData) Bytes() []byte {
	return []byte{byte(w.FirstWeekday), w.MinWeekDays}
}

func (w WeekData) EncodeMsgpack(enc *msgpack.Encoder) error {
	if err := enc.EncodeArrayLen(2); err != nil {
		return err
	}
	if err := enc.EncodeUint8(uint8(w.FirstWeekday)); err != nil {
		return err
	}
	return enc.EncodeUint8(w.MinWeekDays)
}

func (w *WeekData) DecodeMsgpack(dec *msgpack.Decoder) error {
	if n, err := dec.DecodeArrayLen(); err != nil {
		return err
	} else if n != 2 {
		return fmt.Errorf("week data has %d elements, wanted 2", n)
	}
	first, err := dec.DecodeUint8()
	if err != nil {
		return err
	}
	minDays, err := dec.DecodeUint8()
	if err != nil {
		return err
	}
	v := WeekData{Weekday(first), minDays}
	if err := v.validate(); err != nil {
		return err
	}
	*w = v
	return nil
}
