// Copyright 2022 Gustavo C. Viegas. All rights reserved.

package linear

// M4 is a column-major 4x4 matrix of float32.
type M4 [4]V4

// FromRows sets m from 16 values in row-major order.
func (m *M4) FromRows(rows *[16]float32) {
	for r := 0; r < 4; r++ {
		for c := 0; c < 4; c++ {
			m[c][r] = rows[r*4+c]
		}
	}
}

// Rows returns the elements of m in row-major order.
func (m *M4) Rows() (rows [16]float32) {
	for r := 0; r < 4; r++ {
		for c := 0; c < 4; c++ {
			rows[r*4+c] = m[c][r]
		}
	}
	return
}
