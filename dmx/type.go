// Copyright 2026 Gustavo C. Viegas. All rights reserved.

package dmx

// AttrType identifies the kind of value an attribute holds.
// The set of types is closed.
type AttrType int

// Scalar types.
const (
	AttrNone AttrType = iota
	AttrElement
	AttrInt
	AttrFloat
	AttrBool
	AttrString
	AttrBinary
	AttrTime
	AttrObjectID
	AttrColor
	AttrVector2
	AttrVector3
	AttrVector4
	AttrAngle
	AttrQuaternion
	AttrMatrix
	AttrUInt64
	AttrUInt8
)

// Array types.
// Each one is the array counterpart of the scalar type
// whose value is arrayOffset less.
const (
	AttrElementArray AttrType = iota + AttrUInt8 + 1
	AttrIntArray
	AttrFloatArray
	AttrBoolArray
	AttrStringArray
	AttrBinaryArray
	AttrTimeArray
	AttrObjectIDArray
	AttrColorArray
	AttrVector2Array
	AttrVector3Array
	AttrVector4Array
	AttrAngleArray
	AttrQuaternionArray
	AttrMatrixArray
	AttrUInt64Array
	AttrUInt8Array

	// AttrInvalid is the type of attributes that could not
	// be resolved.
	AttrInvalid
)

// Array type bounds.
const (
	AttrArrayFirst = AttrElementArray
	AttrArrayLast  = AttrUInt8Array
)

const arrayOffset = AttrElementArray - AttrElement

var typeNames = [...]string{
	AttrNone:            "none",
	AttrElement:         "element",
	AttrInt:             "int",
	AttrFloat:           "float",
	AttrBool:            "bool",
	AttrString:          "string",
	AttrBinary:          "binary",
	AttrTime:            "time",
	AttrObjectID:        "objectid",
	AttrColor:           "color",
	AttrVector2:         "vector2",
	AttrVector3:         "vector3",
	AttrVector4:         "vector4",
	AttrAngle:           "angle",
	AttrQuaternion:      "quaternion",
	AttrMatrix:          "matrix",
	AttrUInt64:          "uint64",
	AttrUInt8:           "uint8",
	AttrElementArray:    "element_array",
	AttrIntArray:        "int_array",
	AttrFloatArray:      "float_array",
	AttrBoolArray:       "bool_array",
	AttrStringArray:     "string_array",
	AttrBinaryArray:     "binary_array",
	AttrTimeArray:       "time_array",
	AttrObjectIDArray:   "objectid_array",
	AttrColorArray:      "color_array",
	AttrVector2Array:    "vector2_array",
	AttrVector3Array:    "vector3_array",
	AttrVector4Array:    "vector4_array",
	AttrAngleArray:      "angle_array",
	AttrQuaternionArray: "quaternion_array",
	AttrMatrixArray:     "matrix_array",
	AttrUInt64Array:     "uint64_array",
	AttrUInt8Array:      "uint8_array",
	AttrInvalid:         "invalid",
}

// TypeToString returns the name of t.
// Names are stable and unique for every AttrType.
func TypeToString(t AttrType) string {
	if !t.Valid() {
		return "[!] invalid AttrType value"
	}
	return typeNames[t]
}

// String implements fmt.Stringer.
func (t AttrType) String() string { return TypeToString(t) }

// Valid returns whether t is a member of the enumeration.
func (t AttrType) Valid() bool { return t >= AttrNone && t <= AttrInvalid }

// IsArray returns whether t is an array type.
func (t AttrType) IsArray() bool { return t >= AttrArrayFirst && t <= AttrArrayLast }

// IsScalar returns whether t is a scalar type other than AttrNone.
func (t AttrType) IsScalar() bool { return t >= AttrElement && t <= AttrUInt8 }

// Elem returns the scalar type of the elements of an
// array type, or AttrInvalid if t is not an array type.
func (t AttrType) Elem() AttrType {
	if !t.IsArray() {
		return AttrInvalid
	}
	return t - arrayOffset
}

// Array returns the array type whose elements are of
// type t, or AttrInvalid if t is not a scalar type.
func (t AttrType) Array() AttrType {
	if !t.IsScalar() {
		return AttrInvalid
	}
	return t + arrayOffset
}
