package provider

import (
	"errors"
	"fmt"
	"strings"
)

// DataErrorKind classifies provider failures. Kinds are errors themselves,
// so errors.Is(err, provider.ErrMissingLocale) works on any *DataError.
type DataErrorKind uint8

const (
	ErrMissingDataKey DataErrorKind = iota + 1
	ErrMissingLocale
	ErrNeedsLocale
	ErrExtraneousLocale
	ErrFilteredResource
	ErrMismatchedType
	ErrMissingPayload
	ErrInvalidState
	ErrCustom
	ErrIo
	ErrUnavailableBufferFormat
)

var kindMessages = [...]string{
	ErrMissingDataKey:          "missing data for key",
	ErrMissingLocale:           "missing data for locale",
	ErrNeedsLocale:             "request needs a locale",
	ErrExtraneousLocale:        "request has an extraneous locale",
	ErrFilteredResource:        "resource blocked by filter",
	ErrMismatchedType:          "mismatched types",
	ErrMissingPayload:          "missing payload",
	ErrInvalidState:            "invalid state",
	ErrCustom:                  "custom",
	ErrIo:                      "I/O error",
	ErrUnavailableBufferFormat: "unavailable buffer format",
}

func (k DataErrorKind) Error() string {
	if int(k) < len(kindMessages) && kindMessages[k] != "" {
		return kindMessages[k]
	}
	return fmt.Sprintf("data error %d", uint8(k))
}

// WithKey returns a *DataError of this kind for key.
func (k DataErrorKind) WithKey(key DataKey) *DataError {
	return &DataError{Kind: k, Key: key}
}

// WithRequest returns a *DataError of this kind for key and req.
func (k DataErrorKind) WithRequest(key DataKey, req DataRequest) *DataError {
	return &DataError{Kind: k, Key: key, Locale: req.Locale}
}

// WithStr returns a *DataError of this kind with a short context string,
// usually a type name.
func (k DataErrorKind) WithStr(s string) *DataError {
	return &DataError{Kind: k, Str: s}
}

// DataError is returned by all providers. Err, if set, is the underlying
// cause (a parse failure, an I/O error).
type DataError struct {
	Kind   DataErrorKind
	Key    DataKey
	Locale DataLocale
	Str    string
	Err    error
}

func (e *DataError) Error() string {
	var buf strings.Builder
	buf.WriteString("provider: ")
	buf.WriteString(e.Kind.Error())
	if e.Str != "" {
		buf.WriteString(" (")
		buf.WriteString(e.Str)
		buf.WriteByte(')')
	}
	if !e.Key.IsZero() {
		buf.WriteString(": ")
		buf.WriteString(e.Key.String())
	}
	if !e.Locale.IsUnd() {
		buf.WriteString("/")
		buf.WriteString(e.Locale.String())
	}
	if e.Err != nil {
		buf.WriteString(": ")
		buf.WriteString(e.Err.Error())
	}
	return buf.String()
}

func (e *DataError) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Err}
}

// Wrap records cause as the underlying error and returns e.
func (e *DataError) Wrap(cause error) *DataError {
	e.Err = cause
	return e
}

// KindOf returns the kind of a *DataError anywhere in err's chain, or 0.
func KindOf(err error) DataErrorKind {
	var de *DataError
	if errors.As(err, &de) {
		return de.Kind
	}
	return 0
}
