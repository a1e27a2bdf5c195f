// Copyright 2022 Gustavo C. Viegas. All rights reserved.

package linear

// Q is a quaternion of float32.
// V holds the x, y and z components and R holds w.
type Q struct {
	V V3
	R float32
}

// QFromXYZW returns the quaternion whose components
// are stored in x, y, z, w order.
func QFromXYZW(c [4]float32) Q {
	return Q{V: V3{c[0], c[1], c[2]}, R: c[3]}
}

// XYZW returns the components of q in x, y, z, w order.
func (q *Q) XYZW() [4]float32 {
	return [4]float32{q.V[0], q.V[1], q.V[2], q.R}
}
