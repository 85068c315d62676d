/*
Package zerovec implements zero-copy containers over byte slices: they are
validated once and then read in place, without decoding the whole buffer into
Go values.

We implement:

1. FixedVec, a sequence of fixed-width elements.

2. VarVec, a sequence of variable-width elements (strings, byte strings, or
other containers).

3. Map, a sorted key/value association with binary-search lookup. Values may
themselves be maps or vectors, which gives multi-level lookup tables with no
extra allocation.

4. MapBuilder, the owned mutable state that a Map is frozen from.

All containers are immutable after construction and safe for concurrent reads.
Use package yoke to keep a container together with the buffer it borrows.

# Binary encoding

All integers are little-endian. There is no padding and no alignment
requirement; elements are decoded by copying bytes from arbitrary offsets.

**Element codecs.** Each fixed-width type has a Codec with a constant Width.
Integers and floats use their natural width. Bool is one byte, 0 or 1. Rune is
a 3-byte scalar value. PairOf concatenates two codecs in field order.

**FixedVec**: raw concatenation of encoded elements. The length must be a
multiple of the element width. No header.

**VarVec**:
1. Element count N (u32).
2. N+1 offsets (u32) into the data region. The first one is 0, they never
decrease, and the last one equals the data region length.
3. Data region: concatenated element bytes.

An empty byte slice is an empty VarVec.

**Map**:
1. Length of the keys region in bytes (u32).
2. Keys region: a FixedVec or VarVec of keys, strictly increasing.
3. Values region: a FixedVec or VarVec with as many values as there are keys.

An empty byte slice is an empty Map.

# Errors

Parse functions check everything up front and return a *FormatError wrapping
ErrLengthMismatch, ErrInvalidOffsetTable, ErrDuplicateKey, ErrUnsortedKeys or
ErrInvalidElement. After a successful parse, reads do not fail. Accessors named
At panic with an *IndexError on bad indices; Get returns false instead.
*/
package zerovec
