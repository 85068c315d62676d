package zerovec

import "bytes"

// FixedVecOf makes FixedVec[T] usable as a variable-width element, so that a
// VarVec or Map can hold vectors. Nested vectors order element-wise.
func FixedVecOf[T any](c Codec[T]) VarCodec[FixedVec[T]] {
	return fixedVecCodec[T]{c}
}

// VarVecOf does the same for VarVec[T].
func VarVecOf[T any](c VarCodec[T]) VarCodec[VarVec[T]] {
	return varVecCodec[T]{c}
}

// MapOf makes Map[K, V] usable as a variable-width element. Nested maps order
// by their byte form, which is enough to keep them as sorted keys.
func MapOf[K, V any](kl Layout[K], vl Layout[V]) VarCodec[Map[K, V]] {
	return mapCodec[K, V]{kl, vl}
}

type fixedVecCodec[T any] struct {
	c Codec[T]
}

func (n fixedVecCodec[T]) Validate(b []byte) error {
	_, err := ParseFixedVec(n.c, b)
	return err
}

func (n fixedVecCodec[T]) View(b []byte) FixedVec[T] {
	return viewFixedVec(n.c, b)
}

func (n fixedVecCodec[T]) Append(dst []byte, v FixedVec[T]) []byte {
	return append(dst, v.Bytes()...)
}

func (n fixedVecCodec[T]) Compare(a, b FixedVec[T]) int {
	return compareSeqs[T](a, b, n.c.Compare)
}

type varVecCodec[T any] struct {
	c VarCodec[T]
}

func (n varVecCodec[T]) Validate(b []byte) error {
	_, err := ParseVarVec(n.c, b)
	return err
}

func (n varVecCodec[T]) View(b []byte) VarVec[T] {
	return viewVarVec(n.c, b)
}

func (n varVecCodec[T]) Append(dst []byte, v VarVec[T]) []byte {
	return append(dst, v.Bytes()...)
}

func (n varVecCodec[T]) Compare(a, b VarVec[T]) int {
	return compareSeqs[T](a, b, n.c.Compare)
}

type mapCodec[K, V any] struct {
	kl Layout[K]
	vl Layout[V]
}

func (n mapCodec[K, V]) Validate(b []byte) error {
	_, err := ParseMap(n.kl, n.vl, b)
	return err
}

func (n mapCodec[K, V]) View(b []byte) Map[K, V] {
	return viewMap(n.kl, n.vl, b)
}

func (n mapCodec[K, V]) Append(dst []byte, v Map[K, V]) []byte {
	return append(dst, v.Bytes()...)
}

func (n mapCodec[K, V]) Compare(a, b Map[K, V]) int {
	return bytes.Compare(a.Bytes(), b.Bytes())
}
