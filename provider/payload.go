package provider

import (
	"reflect"

	"github.com/andreyvit/zerovec/yoke"
)

// DataPayload holds a data struct, either owned or borrowed from a shared
// buffer. Borrowed payloads keep the buffer alive until Close.
//
// A payload must be closed exactly once by whoever ends up holding it.
// MapProject, TryMapProject and TryUnwrapOwned consume the payload.
type DataPayload[T any] struct {
	y *yoke.Yoke[T, *yoke.RcCart]
}

// FromOwned wraps a value that borrows from no buffer.
func FromOwned[T any](v T) *DataPayload[T] {
	return &DataPayload[T]{yoke.Owned[T, *yoke.RcCart](v)}
}

// FromCart wraps a shared buffer as a byte payload, taking ownership of the
// caller's reference.
func FromCart(cart *yoke.RcCart) *DataPayload[[]byte] {
	return &DataPayload[[]byte]{yoke.Attach(cart, func(data []byte) []byte { return data })}
}

// FromYoke wraps an existing yoke.
func FromYoke[T any](y *yoke.Yoke[T, *yoke.RcCart]) *DataPayload[T] {
	return &DataPayload[T]{y}
}

func (p *DataPayload[T]) Get() T {
	return p.y.Get()
}

// IsOwned reports whether the payload holds no buffer.
func (p *DataPayload[T]) IsOwned() bool {
	return !p.y.HasCart()
}

// TryUnwrapOwned returns the value of an owned payload and consumes it.
// Borrowed payloads fail with ErrInvalidState and stay usable.
func (p *DataPayload[T]) TryUnwrapOwned() (T, error) {
	if !p.IsOwned() {
		var zero T
		return zero, ErrInvalidState.WithStr("payload borrows from a buffer")
	}
	v := p.y.Get()
	p.y.Close()
	return v, nil
}

// Clone returns another reference to the same data.
func (p *DataPayload[T]) Clone() *DataPayload[T] {
	return &DataPayload[T]{yoke.Clone(p.y)}
}

// Close releases the buffer, if any. The payload must not be used afterwards.
func (p *DataPayload[T]) Close() {
	p.y.Close()
}

// Yoke exposes the underlying yoke.
func (p *DataPayload[T]) Yoke() *yoke.Yoke[T, *yoke.RcCart] {
	return p.y
}

// MapProject transforms the payload into another one sharing the same
// buffer. data is the buffer's bytes (nil for owned payloads).
func MapProject[T, T2 any](p *DataPayload[T], fn func(v T, data []byte) T2) *DataPayload[T2] {
	return &DataPayload[T2]{yoke.Project(p.y, fn)}
}

// TryMapProject is MapProject for fallible transforms. p is consumed, and
// the buffer released on failure.
func TryMapProject[T, T2 any](p *DataPayload[T], fn func(v T, data []byte) (T2, error)) (*DataPayload[T2], error) {
	y, err := yoke.TryProject(p.y, fn)
	if err != nil {
		return nil, err
	}
	return &DataPayload[T2]{y}, nil
}

func typeName[T any]() string {
	return reflect.TypeFor[T]().String()
}
