package calendardata

import (
	"iter"

	"github.com/vmihailenco/msgpack/v5"

	"github.com/andreyvit/zerovec"
)

var (
	monthCodeLayout = zerovec.FixedLayout(TinyStr4Codec)
	monthNameLayout = zerovec.VarLayout(zerovec.String)
)

// MonthNames maps month codes ("M01".."M13", "M05L" for leap months) to
// display names.
type MonthNames struct {
	m zerovec.Map[TinyStr4, string]
}

func ParseMonthNames(data []byte) (MonthNames, error) {
	m, err := zerovec.ParseMap(monthCodeLayout, monthNameLayout, data)
	if err != nil {
		return MonthNames{}, err
	}
	return MonthNames{m}, nil
}

// NewMonthNames builds a table from month code to name.
func NewMonthNames(names map[string]string) (MonthNames, error) {
	b := zerovec.NewMapBuilder(monthCodeLayout, monthNameLayout)
	for code, name := range names {
		c, err := NewTinyStr4(code)
		if err != nil {
			return MonthNames{}, err
		}
		if err := b.Insert(c, name); err != nil {
			return MonthNames{}, err
		}
	}
	return MonthNames{b.Freeze()}, nil
}

func (n MonthNames) Len() int {
	return n.m.Len()
}

func (n MonthNames) Bytes() []byte {
	return n.m.Bytes()
}

// Get returns the name of a month code. The string shares memory with the
// table.
func (n MonthNames) Get(code string) (string, bool) {
	c, err := NewTinyStr4(code)
	if err != nil {
		return "", false
	}
	return n.m.Get(c)
}

func (n MonthNames) All() iter.Seq2[TinyStr4, string] {
	return n.m.All()
}

// EncodeMsgpack writes the table as a map in month code order.
func (n MonthNames) EncodeMsgpack(enc *msgpack.Encoder) error {
	if err := enc.EncodeMapLen(n.Len()); err != nil {
		return err
	}
	for code, name := range n.All() {
		if err := enc.EncodeString(code.String()); err != nil {
			return err
		}
		if err := enc.EncodeString(name); err != nil {
			return err
		}
	}
	return nil
}

func (n *MonthNames) DecodeMsgpack(dec *msgpack.Decoder) error {
	count, err := dec.DecodeMapLen()
	if err != nil {
		return err
	}
	b := zerovec.NewMapBuilder(monthCodeLayout, monthNameLayout)
	for range count {
		code, err := dec.DecodeString()
		if err != nil {
			return err
		}
		name, err := dec.DecodeString()
		if err != nil {
			return err
		}
		c, err := NewTinyStr4(code)
		if err != nil {
			return err
		}
		if err := b.Insert(c, name); err != nil {
			return err
		}
	}
	*n = MonthNames{b.Freeze()}
	return nil
}
