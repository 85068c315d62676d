package yoke

// AttachUnchecked yokes a value that was already derived from cart's bytes
// by some other code path, without re-deriving it.
//
// The caller guarantees that every byte slice, string or pointer reachable
// from derived which refers to borrowed memory points into cart.Bytes(). If
// that does not hold, derived may outlive the memory it references. Prefer
// Attach or Project whenever the derivation can be expressed as a function
// of the cart's bytes.
func AttachUnchecked[Y any, C Cart](cart C, derived Y) *Yoke[Y, C] {
	return &Yoke[Y, C]{derived: derived, cart: cart, hasCart: true}
}
