// Package yoke keeps a value that borrows from a buffer together with the
// owner of that buffer (the cart), so the pair can be stored, returned and
// transformed as one unit.
//
// The derived value is only reachable through Get while the Yoke is alive.
// Project moves the cart into a new Yoke and invalidates the old one, and
// Close drops the derived value before releasing the cart.
//
// A Yoke is not safe for concurrent mutation (Close, Project); concurrent
// Get calls are fine.
package yoke

import (
	"errors"
)

var (
	// ErrClosed is the panic value of Get on a closed Yoke.
	ErrClosed = errors.New("yoke: closed")

	// ErrConsumed is the panic value of Get on a Yoke that was passed to
	// Project or TryProject.
	ErrConsumed = errors.New("yoke: consumed by projection")
)

type state uint8

const (
	live state = iota
	consumed
	closed
)

// Yoke pairs a derived value Y with the cart C it borrows from.
type Yoke[Y any, C Cart] struct {
	derived Y
	cart    C
	hasCart bool
	state   state
}

// Attach runs fn on the cart's bytes and yokes the result to the cart. The
// Yoke takes ownership of cart.
func Attach[Y any, C Cart](cart C, fn func(data []byte) Y) *Yoke[Y, C] {
	data := cart.Bytes()
	derived, _ := derive(cart, true, func() (Y, error) { return fn(data), nil })
	return &Yoke[Y, C]{derived: derived, cart: cart, hasCart: true}
}

// TryAttach is like Attach for fallible derivations. On failure the cart is
// released and the error returned.
func TryAttach[Y any, C Cart](cart C, fn func(data []byte) (Y, error)) (*Yoke[Y, C], error) {
	data := cart.Bytes()
	derived, err := derive(cart, true, func() (Y, error) { return fn(data) })
	if err != nil {
		return nil, err
	}
	return &Yoke[Y, C]{derived: derived, cart: cart, hasCart: true}, nil
}

// derive runs fn and releases the cart if fn fails or panics, since no
// Yoke will own it afterwards.
func derive[Y any, C Cart](cart C, hasCart bool, fn func() (Y, error)) (Y, error) {
	ok := false
	defer func() {
		if !ok && hasCart {
			release(cart)
		}
	}()
	v, err := fn()
	ok = err == nil
	return v, err
}

// Owned wraps a value that borrows from nothing.
func Owned[Y any, C Cart](v Y) *Yoke[Y, C] {
	return &Yoke[Y, C]{derived: v}
}

func (y *Yoke[Y, C]) check() {
	switch y.state {
	case consumed:
		panic(ErrConsumed)
	case closed:
		panic(ErrClosed)
	}
}

// Get returns the derived value. It must not be retained past Close or
// Project of y.
func (y *Yoke[Y, C]) Get() Y {
	y.check()
	return y.derived
}

// Cart returns the backing cart, or the zero C for owned values.
func (y *Yoke[Y, C]) Cart() C {
	y.check()
	return y.cart
}

func (y *Yoke[Y, C]) HasCart() bool {
	y.check()
	return y.hasCart
}

// IsLive reports whether y can still be used.
func (y *Yoke[Y, C]) IsLive() bool {
	return y != nil && y.state == live
}

// Close drops the derived value, then releases the cart. Closing twice, or
// closing a consumed Yoke, does nothing.
func (y *Yoke[Y, C]) Close() {
	if y.state != live {
		return
	}
	var zeroY Y
	var zeroC C
	y.derived = zeroY
	y.state = closed
	cart, hasCart := y.cart, y.hasCart
	y.cart, y.hasCart = zeroC, false
	if hasCart {
		release(cart)
	}
}

// take detaches the contents of y, leaving it consumed.
func (y *Yoke[Y, C]) take() (Y, C, bool) {
	y.check()
	var zeroY Y
	var zeroC C
	d, c, h := y.derived, y.cart, y.hasCart
	y.derived, y.cart, y.hasCart = zeroY, zeroC, false
	y.state = consumed
	return d, c, h
}

func (y *Yoke[Y, C]) data() []byte {
	if !y.hasCart {
		return nil
	}
	return y.cart.Bytes()
}

// Project derives a new value from y's derived value and cart bytes. The cart
// moves to the returned Yoke without being retained or copied, and y becomes
// unusable.
func Project[Y, Y2 any, C Cart](y *Yoke[Y, C], fn func(derived Y, data []byte) Y2) *Yoke[Y2, C] {
	data := y.data()
	d, c, h := y.take()
	d2, _ := derive(c, h, func() (Y2, error) { return fn(d, data), nil })
	return &Yoke[Y2, C]{derived: d2, cart: c, hasCart: h}
}

// TryProject is like Project for fallible derivations. y is consumed either
// way; on failure the cart is released.
//
// If fn panics in any of Attach, TryAttach, Project or TryProject, the cart
// is released before the panic propagates.
func TryProject[Y, Y2 any, C Cart](y *Yoke[Y, C], fn func(derived Y, data []byte) (Y2, error)) (*Yoke[Y2, C], error) {
	data := y.data()
	d, c, h := y.take()
	d2, err := derive(c, h, func() (Y2, error) { return fn(d, data) })
	if err != nil {
		return nil, err
	}
	return &Yoke[Y2, C]{derived: d2, cart: c, hasCart: h}, nil
}

// Clone returns another Yoke sharing y's cart, which gets retained.
func Clone[Y any, C Retainer[C]](y *Yoke[Y, C]) *Yoke[Y, C] {
	y.check()
	r := &Yoke[Y, C]{derived: y.derived, hasCart: y.hasCart}
	if y.hasCart {
		r.cart = y.cart.Retain()
	}
	return r
}
