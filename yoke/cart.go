package yoke

import (
	"errors"
	"sync/atomic"
)

// ErrReleased is the panic value when an RcCart is used after its last
// reference is gone.
var ErrReleased = errors.New("yoke: cart already released")

// Cart owns the bytes a derived value borrows from. Bytes must return the
// same memory for the whole lifetime of the cart.
type Cart interface {
	Bytes() []byte
}

// Releaser is implemented by carts that hold resources beyond GC-managed
// memory. A Yoke calls Release exactly once when it is done with the cart.
type Releaser interface {
	Release()
}

// Retainer is implemented by carts with shared ownership. Retain returns a
// new reference to the same bytes.
type Retainer[C any] interface {
	Cart
	Retain() C
}

func release(c Cart) {
	if r, ok := c.(Releaser); ok {
		r.Release()
	}
}

// BytesCart is a cart over GC-owned memory. It needs no release.
type BytesCart []byte

func (c BytesCart) Bytes() []byte {
	return c
}

// RcCart is a reference-counted buffer. NewRcCart returns it with one
// reference; onRelease runs once, when the last reference is released.
// RcCart is safe for concurrent use.
type RcCart struct {
	data      []byte
	refs      atomic.Int64
	onRelease func(data []byte)
}

func NewRcCart(data []byte, onRelease func(data []byte)) *RcCart {
	c := &RcCart{data: data, onRelease: onRelease}
	c.refs.Store(1)
	return c
}

func (c *RcCart) Bytes() []byte {
	if c.refs.Load() <= 0 {
		panic(ErrReleased)
	}
	return c.data
}

// Retain adds a reference and returns c.
func (c *RcCart) Retain() *RcCart {
	if _, ok := c.TryRetain(); !ok {
		panic(ErrReleased)
	}
	return c
}

// TryRetain adds a reference unless the last one is already gone. Use it
// when another goroutine may be releasing c concurrently.
func (c *RcCart) TryRetain() (*RcCart, bool) {
	for {
		n := c.refs.Load()
		if n <= 0 {
			return nil, false
		}
		if c.refs.CompareAndSwap(n, n+1) {
			return c, true
		}
	}
}

// Release drops a reference. Releasing more times than retained panics.
func (c *RcCart) Release() {
	n := c.refs.Add(-1)
	switch {
	case n == 0:
		if c.onRelease != nil {
			c.onRelease(c.data)
		}
	case n < 0:
		panic(ErrReleased)
	}
}

// Refs returns the current number of references.
func (c *RcCart) Refs() int {
	return int(c.refs.Load())
}
