package zerovec

import "iter"

// Vector is the read API shared by FixedVec and VarVec.
type Vector[T any] interface {
	Len() int
	Get(i int) (T, bool)
	At(i int) T
	All() iter.Seq[T]
	BinarySearch(target T) (int, bool)
	BinarySearchFunc(cmp func(T) int) (int, bool)
	Bytes() []byte
}

var (
	_ Vector[int32]  = FixedVec[int32]{}
	_ Vector[string] = VarVec[string]{}
)

// Layout chooses how a Map stores its keys or values: as a FixedVec of a
// fixed-width codec, or as a VarVec of a variable-width one. Obtain one from
// FixedLayout or VarLayout.
type Layout[T any] interface {
	Parse(data []byte) (Vector[T], error)
	Append(buf []byte, items []T) []byte
	Compare(a, b T) int

	view(data []byte) Vector[T]
}

func FixedLayout[T any](c Codec[T]) Layout[T] {
	return fixedLayout[T]{c}
}

func VarLayout[T any](c VarCodec[T]) Layout[T] {
	return varLayout[T]{c}
}

type fixedLayout[T any] struct {
	c Codec[T]
}

func (l fixedLayout[T]) Parse(data []byte) (Vector[T], error) {
	v, err := ParseFixedVec(l.c, data)
	if err != nil {
		return nil, err
	}
	return v, nil
}

func (l fixedLayout[T]) view(data []byte) Vector[T] {
	return viewFixedVec(l.c, data)
}

func (l fixedLayout[T]) Append(buf []byte, items []T) []byte {
	return AppendFixedVec(buf, l.c, items)
}

func (l fixedLayout[T]) Compare(a, b T) int {
	return l.c.Compare(a, b)
}

type varLayout[T any] struct {
	c VarCodec[T]
}

func (l varLayout[T]) Parse(data []byte) (Vector[T], error) {
	v, err := ParseVarVec(l.c, data)
	if err != nil {
		return nil, err
	}
	return v, nil
}

func (l varLayout[T]) view(data []byte) Vector[T] {
	return viewVarVec(l.c, data)
}

func (l varLayout[T]) Append(buf []byte, items []T) []byte {
	return AppendVarVec(buf, l.c, items)
}

func (l varLayout[T]) Compare(a, b T) int {
	return l.c.Compare(a, b)
}
