// Copyright 2023 Gustavo C. Viegas. All rights reserved.

// Package bitvec defines a bit vector type useful for
// tracking membership over an arena of indexed objects
// (e.g., the visited elements of a graph traversal).
package bitvec

import (
	"unsafe"
)

// Uint represents the granularity of a bit vector.
type Uint interface {
	~uint | ~uint8 | ~uint16 | ~uint32 | ~uint64 | ~uintptr
}

// V is a growable bit vector with custom granularity.
type V[T Uint] struct {
	s   []T
	rem int
}

// nbit returns the number of bits in T.
// TODO: This is not constant.
func (*V[T]) nbit() int { return int(unsafe.Sizeof(T(0))) * 8 }

// Len returns the number of bits in the vector.
func (v *V[_]) Len() int { return len(v.s) * v.nbit() }

// Rem returns the number of unset bits in the vector.
func (v *V[_]) Rem() int { return v.rem }

// Count returns the number of set bits in the vector.
func (v *V[_]) Count() int { return v.Len() - v.rem }

// Grow resizes the vector to contain nplus additional Uints.
// The new extent will be appended as a contiguous range of
// unset bits.
// It returns the value of v.Len prior to appending the new
// extent.
// It is valid to call this method with any value of nplus.
func (v *V[T]) Grow(nplus int) (index int) {
	index = v.Len()
	if nplus > 0 {
		v.rem += nplus * v.nbit()
		v.s = append(v.s, make([]T, nplus)...)
	}
	return
}

// Reserve grows the vector, if needed, so that it holds
// at least n bits.
func (v *V[T]) Reserve(n int) {
	if d := n - v.Len(); d > 0 {
		nb := v.nbit()
		v.Grow((d + nb - 1) / nb)
	}
}

// Set sets a given bit.
func (v *V[T]) Set(index int) {
	n := v.nbit()
	i := index / n
	b := T(1) << (index & (n - 1))
	if v.s[i]&b == 0 {
		v.s[i] |= b
		v.rem--
	}
}

// IsSet checks whether a given bit is set.
func (v *V[T]) IsSet(index int) bool {
	n := v.nbit()
	i := index / n
	b := T(1) << (index & (n - 1))
	return v.s[i]&b != 0
}

// Mark sets a given bit, growing the vector as needed.
// It returns false if the bit was already set.
func (v *V[T]) Mark(index int) bool {
	v.Reserve(index + 1)
	if v.IsSet(index) {
		return false
	}
	v.Set(index)
	return true
}

// Clear unsets every bit in the vector.
func (v *V[T]) Clear() {
	n := v.Len()
	if n == v.Rem() {
		return
	}
	clear(v.s)
	v.rem = n
}
