package provider

import (
	"golang.org/x/text/language"
)

// DataLocale is the locale a request is made for. The zero value is the
// undetermined locale "und".
type DataLocale struct {
	tag language.Tag
}

var Und = DataLocale{}

// ParseLocale parses and canonicalizes a BCP-47 tag. The empty string is und.
func ParseLocale(s string) (DataLocale, error) {
	if s == "" {
		return Und, nil
	}
	tag, err := language.Parse(s)
	if err != nil {
		return Und, err
	}
	return LocaleFromTag(tag), nil
}

func MustLocale(s string) DataLocale {
	l, err := ParseLocale(s)
	if err != nil {
		panic(err)
	}
	return l
}

func LocaleFromTag(tag language.Tag) DataLocale {
	if tag == language.Und {
		return Und
	}
	return DataLocale{tag}
}

func (l DataLocale) Tag() language.Tag {
	return l.tag
}

func (l DataLocale) IsUnd() bool {
	return l.tag == language.Und
}

// Parent returns the next locale to try when data for l is missing:
// "sr-Latn-RS" → "sr-Latn" → "sr" → "und".
func (l DataLocale) Parent() DataLocale {
	return LocaleFromTag(l.tag.Parent())
}

func (l DataLocale) String() string {
	return l.tag.String()
}
