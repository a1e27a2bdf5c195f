// Copyright 2022 Gustavo C. Viegas. All rights reserved.

// Package linear defines the float32 vector, rotation and
// matrix types carried by DMX attribute values.
package linear

// V2 is a 2-component vector of float32.
type V2 [2]float32

// V3 is a 3-component vector of float32.
type V3 [3]float32

// V4 is a 4-component vector of float32.
type V4 [4]float32

// Euler is a rotation given as pitch, yaw and roll,
// in degrees.
type Euler [3]float32

// Pitch returns the rotation around the X axis.
func (e Euler) Pitch() float32 { return e[0] }

// Yaw returns the rotation around the Y axis.
func (e Euler) Yaw() float32 { return e[1] }

// Roll returns the rotation around the Z axis.
func (e Euler) Roll() float32 { return e[2] }
