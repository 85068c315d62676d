package provider

import (
	"errors"
	"iter"
)

var (
	errStoreClosed = errors.New("store closed")
	errReadOnly    = errors.New("read-only transaction")
)

// recordStore persists encoded records grouped into one bucket per key path,
// with locale tags as keys inside a bucket.
type recordStore interface {
	// View calls fn with the bucket for path, or nil if there is none. Data
	// returned by the bucket is only valid until fn returns.
	View(path string, fn func(b recordBucket) error) error

	// Update calls fn with a writable bucket, creating it if create is set
	// (otherwise fn gets nil for a missing bucket). Changes made by fn are
	// kept only if it returns nil.
	Update(path string, create bool, fn func(b recordBucket) error) error

	Close() error
}

type recordBucket interface {
	Get(locale string) []byte
	Put(locale string, rec []byte) error
	Delete(locale string) error

	// Locales yields locale tags in byte order.
	Locales() iter.Seq[string]
}
