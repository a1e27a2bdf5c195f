// Copyright 2026 Gustavo C. Viegas. All rights reserved.

package dmx

import (
	"bytes"
	"errors"
	"slices"
	"strconv"
	"strings"

	"github.com/gviegas/dmx/linear"
)

// Value is the payload of an attribute.
// The set of implementations is closed: Int, Float, Bool,
// String, Binary, Time, ObjectID, Color, Vector2, Vector3,
// Vector4, Angle, Quaternion, Matrix, UInt64, UInt8,
// ElementRef and *Array.
// A nil Value means that the payload is absent.
type Value interface {
	// Type returns the AttrType of the value.
	Type() AttrType

	isValue()
}

type (
	// Int is a signed 32-bit integer.
	Int int32
	// Float is a single precision float.
	Float float32
	// Bool is a boolean.
	Bool bool
	// String is a UTF-8 string.
	String string
	// Binary is an opaque byte buffer.
	Binary []byte
	// Time is a time value in seconds.
	Time float32
	// ObjectID is a GUID stored as a value.
	ObjectID GUID
	// Color is an RGBA color with 8-bit channels.
	Color [4]uint8
	// Vector2 is a 2-component vector.
	Vector2 linear.V2
	// Vector3 is a 3-component vector.
	Vector3 linear.V3
	// Vector4 is a 4-component vector.
	Vector4 linear.V4
	// Angle is a rotation in Euler angles.
	Angle linear.Euler
	// Quaternion is a rotation quaternion.
	Quaternion linear.Q
	// Matrix is a 4x4 matrix.
	Matrix linear.M4
	// UInt64 is an unsigned 64-bit integer.
	UInt64 uint64
	// UInt8 is an unsigned 8-bit integer.
	UInt8 uint8
)

func (Int) Type() AttrType        { return AttrInt }
func (Float) Type() AttrType      { return AttrFloat }
func (Bool) Type() AttrType       { return AttrBool }
func (String) Type() AttrType     { return AttrString }
func (Binary) Type() AttrType     { return AttrBinary }
func (Time) Type() AttrType       { return AttrTime }
func (ObjectID) Type() AttrType   { return AttrObjectID }
func (Color) Type() AttrType      { return AttrColor }
func (Vector2) Type() AttrType    { return AttrVector2 }
func (Vector3) Type() AttrType    { return AttrVector3 }
func (Vector4) Type() AttrType    { return AttrVector4 }
func (Angle) Type() AttrType      { return AttrAngle }
func (Quaternion) Type() AttrType { return AttrQuaternion }
func (Matrix) Type() AttrType     { return AttrMatrix }
func (UInt64) Type() AttrType     { return AttrUInt64 }
func (UInt8) Type() AttrType      { return AttrUInt8 }
func (ElementRef) Type() AttrType { return AttrElement }
func (a *Array) Type() AttrType   { return a.typ }

func (Int) isValue()        {}
func (Float) isValue()      {}
func (Bool) isValue()       {}
func (String) isValue()     {}
func (Binary) isValue()     {}
func (Time) isValue()       {}
func (ObjectID) isValue()   {}
func (Color) isValue()      {}
func (Vector2) isValue()    {}
func (Vector3) isValue()    {}
func (Vector4) isValue()    {}
func (Angle) isValue()      {}
func (Quaternion) isValue() {}
func (Matrix) isValue()     {}
func (UInt64) isValue()     {}
func (UInt8) isValue()      {}
func (ElementRef) isValue() {}
func (*Array) isValue()     {}

// ElementRef is a non-owning reference to an element of
// a Graph. It identifies the element by its position in
// the graph's element pool.
// The zero value is a null reference.
type ElementRef struct {
	g *Graph
	i int
}

// Element returns the referenced element, or nil if r is
// a null reference.
func (r ElementRef) Element() *Element {
	if r.g == nil || r.i < 0 || r.i >= len(r.g.elements) {
		return nil
	}
	return r.g.elements[r.i]
}

// IsNull returns whether r references no element.
func (r ElementRef) IsNull() bool { return r.Element() == nil }

// Array is an ordered sequence of values of the same
// scalar type.
type Array struct {
	typ  AttrType
	vals []Value
}

// Errors returned by array operations.
var (
	ErrNotArray     = errors.New(prefix + "not an array type")
	ErrTypeMismatch = errors.New(prefix + "value type does not match array type")
	ErrNotFound     = errors.New(prefix + "value not found in array")
)

// NewArray creates an array whose elements are of type
// elem, initialized with vals.
func NewArray(elem AttrType, vals ...Value) (*Array, error) {
	typ := elem.Array()
	if typ == AttrInvalid {
		return nil, ErrNotArray
	}
	for _, v := range vals {
		if v == nil || v.Type() != elem {
			return nil, ErrTypeMismatch
		}
	}
	return &Array{typ: typ, vals: slices.Clone(vals)}, nil
}

// Elem returns the type of the elements of a.
func (a *Array) Elem() AttrType { return a.typ.Elem() }

// Len returns the number of elements in a.
func (a *Array) Len() int { return len(a.vals) }

// At returns the element at index i.
func (a *Array) At(i int) Value { return a.vals[i] }

// Values returns a copy of the elements of a.
func (a *Array) Values() []Value { return slices.Clone(a.vals) }

func (a *Array) add(v Value) error {
	if v == nil || v.Type() != a.Elem() {
		return ErrTypeMismatch
	}
	a.vals = append(a.vals, v)
	return nil
}

func (a *Array) remove(v Value) error {
	if v == nil || v.Type() != a.Elem() {
		return ErrTypeMismatch
	}
	for i, x := range a.vals {
		if Equal(x, v) {
			a.vals = slices.Delete(a.vals, i, i+1)
			return nil
		}
	}
	return ErrNotFound
}

// Equal reports whether a and b hold the same value.
// Element references are equal when they reference the
// same element (or are both null).
func Equal(a, b Value) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	if a.Type() != b.Type() {
		return false
	}
	switch x := a.(type) {
	case Binary:
		return bytes.Equal(x, b.(Binary))
	case ElementRef:
		return x.Element() == b.(ElementRef).Element()
	case *Array:
		y := b.(*Array)
		if x.Len() != y.Len() {
			return false
		}
		for i := range x.vals {
			if !Equal(x.vals[i], y.vals[i]) {
				return false
			}
		}
		return true
	default:
		return a == b
	}
}

func formatFloat(f float32) string {
	return strconv.FormatFloat(float64(f), 'g', -1, 32)
}

func joinFloats(fs []float32) string {
	var sb strings.Builder
	for i, f := range fs {
		if i > 0 {
			sb.WriteByte(' ')
		}
		sb.WriteString(formatFloat(f))
	}
	return sb.String()
}

// FormatValue returns the textual form of v.
// Binary values and arrays are summarized rather than
// written out in full.
// It returns the empty string if v is nil.
func FormatValue(v Value) string {
	switch x := v.(type) {
	case nil:
		return ""
	case Int:
		return strconv.FormatInt(int64(x), 10)
	case Float:
		return formatFloat(float32(x))
	case Bool:
		return strconv.FormatBool(bool(x))
	case String:
		return string(x)
	case Binary:
		return "Binary (" + strconv.Itoa(len(x)) + " bytes)"
	case Time:
		return formatFloat(float32(x))
	case ObjectID:
		return GUID(x).String()
	case Color:
		return strconv.Itoa(int(x[0])) + " " + strconv.Itoa(int(x[1])) + " " +
			strconv.Itoa(int(x[2])) + " " + strconv.Itoa(int(x[3]))
	case Vector2:
		return joinFloats(x[:])
	case Vector3:
		return joinFloats(x[:])
	case Vector4:
		return joinFloats(x[:])
	case Angle:
		return joinFloats(x[:])
	case Quaternion:
		q := linear.Q(x)
		c := q.XYZW()
		return joinFloats(c[:])
	case Matrix:
		m := linear.M4(x)
		r := m.Rows()
		return joinFloats(r[:])
	case UInt64:
		return strconv.FormatUint(uint64(x), 10)
	case UInt8:
		return strconv.FormatUint(uint64(x), 10)
	case ElementRef:
		e := x.Element()
		if e == nil {
			return "Element [NULL]"
		}
		return "Element [" + e.name + "][" + e.typ + "]"
	case *Array:
		return "Array [" + x.typ.String() + "][" + strconv.Itoa(len(x.vals)) + " elements]"
	default:
		panic("unexpected Value implementation")
	}
}
