package calendardata

import (
	"fmt"
	"iter"
	"slices"

	"github.com/vmihailenco/msgpack/v5"

	"github.com/andreyvit/zerovec"
)

// Era is one entry of an era table.
type Era struct {
	Start EraStartDate
	Code  TinyStr16
}

var eraCodec = zerovec.PairOf(EraStartDateCodec, TinyStr16Codec)

// JapaneseEras maps era start dates to era codes, in chronological order.
// The zero value has no eras.
type JapaneseEras struct {
	dates zerovec.FixedVec[zerovec.Pair[EraStartDate, TinyStr16]]
}

// ParseJapaneseEras validates data and returns a table borrowing it. Start
// dates must be strictly increasing.
func ParseJapaneseEras(data []byte) (JapaneseEras, error) {
	v, err := zerovec.ParseFixedVec(eraCodec, data)
	if err != nil {
		return JapaneseEras{}, err
	}
	for i := 1; i < v.Len(); i++ {
		if v.At(i-1).First.Compare(v.At(i).First) >= 0 {
			return JapaneseEras{}, fmt.Errorf("%w: era %d starts on %v, not after %v", zerovec.ErrUnsortedKeys, i, v.At(i).First, v.At(i-1).First)
		}
	}
	return JapaneseEras{v}, nil
}

// NewJapaneseEras builds a table from eras in any order.
func NewJapaneseEras(eras []Era) (JapaneseEras, error) {
	pairs := make([]zerovec.Pair[EraStartDate, TinyStr16], len(eras))
	for i, e := range eras {
		pairs[i] = zerovec.Pair[EraStartDate, TinyStr16]{First: e.Start, Second: e.Code}
	}
	slices.SortFunc(pairs, func(a, b zerovec.Pair[EraStartDate, TinyStr16]) int {
		return a.First.Compare(b.First)
	})
	return ParseJapaneseEras(zerovec.AppendFixedVec(nil, eraCodec, pairs))
}

func (j JapaneseEras) Len() int {
	return j.dates.Len()
}

func (j JapaneseEras) Bytes() []byte {
	return j.dates.Bytes()
}

func (j JapaneseEras) All() iter.Seq[Era] {
	return func(yield func(Era) bool) {
		for i := range j.dates.Len() {
			p := j.dates.At(i)
			if !yield(Era{p.First, p.Second}) {
				return
			}
		}
	}
}

// EraFor returns the era that date falls into: the last one starting on or
// before it. Dates before the first era report false.
func (j JapaneseEras) EraFor(date EraStartDate) (Era, bool) {
	if j.dates.Len() == 0 {
		return Era{}, false
	}
	i, found := j.dates.BinarySearchFunc(func(p zerovec.Pair[EraStartDate, TinyStr16]) int {
		return p.First.Compare(date)
	})
	if !found {
		if i == 0 {
			return Era{}, false
		}
		i--
	}
	p := j.dates.At(i)
	return Era{p.First, p.Second}, true
}

// EraRange returns the start of the era with the given code and the start of
// the following era, if there is one.
func (j JapaneseEras) EraRange(code TinyStr16) (start EraStartDate, end EraStartDate, hasEnd bool, ok bool) {
	for i := j.dates.Len() - 1; i >= 0; i-- {
		p := j.dates.At(i)
		if p.Second != code {
			continue
		}
		if next, exists := j.dates.Get(i + 1); exists {
			return p.First, next.First, true, true
		}
		return p.First, EraStartDate{}, false, true
	}
	return EraStartDate{}, EraStartDate{}, false, false
}

// EncodeMsgpack writes the table as an array of [date, code] pairs.
func (j JapaneseEras) EncodeMsgpack(enc *msgpack.Encoder) error {
	if err := enc.EncodeArrayLen(j.Len()); err != nil {
		return err
	}
	for e := range j.All() {
		if err := enc.EncodeArrayLen(2); err != nil {
			return err
		}
		if err := enc.EncodeString(e.Start.String()); err != nil {
			return err
		}
		if err := enc.EncodeString(e.Code.String()); err != nil {
			return err
		}
	}
	return nil
}

func (j *JapaneseEras) DecodeMsgpack(dec *msgpack.Decoder) error {
	n, err := dec.DecodeArrayLen()
	if err != nil {
		return err
	}
	// n comes from the input, so eras grows as entries actually decode
	var eras []Era
	for range n {
		if l, err := dec.DecodeArrayLen(); err != nil {
			return err
		} else if l != 2 {
			return fmt.Errorf("era entry has %d elements, wanted 2", l)
		}
		ds, err := dec.DecodeString()
		if err != nil {
			return err
		}
		cs, err := dec.DecodeString()
		if err != nil {
			return err
		}
		start, err := ParseEraStartDate(ds)
		if err != nil {
			return err
		}
		code, err := NewTinyStr16(cs)
		if err != nil {
			return err
		}
		eras = append(eras, Era{start, code})
	}
	v, err := NewJapaneseEras(eras)
	if err != nil {
		return err
	}
	*j = v
	return nil
}
