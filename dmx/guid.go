// Copyright 2026 Gustavo C. Viegas. All rights reserved.

package dmx

import (
	"github.com/google/uuid"
)

// GUID is the 16-byte identifier of an element, in the
// byte order used by the file (Microsoft GUID layout, whose
// first three fields are little-endian).
type GUID [16]byte

// swap converts between the file layout and RFC 4122
// byte order. It is its own inverse.
func swap(b [16]byte) (s [16]byte) {
	s = b
	s[0], s[1], s[2], s[3] = b[3], b[2], b[1], b[0]
	s[4], s[5] = b[5], b[4]
	s[6], s[7] = b[7], b[6]
	return
}

// String returns the canonical textual form of g
// (xxxxxxxx-xxxx-xxxx-xxxx-xxxxxxxxxxxx).
func (g GUID) String() string { return uuid.UUID(swap(g)).String() }

// IsZero returns whether every byte of g is zero.
func (g GUID) IsZero() bool { return g == GUID{} }

// ParseGUID parses the textual form of a GUID.
// Braces and the urn:uuid: prefix are accepted.
func ParseGUID(s string) (GUID, error) {
	u, err := uuid.Parse(s)
	if err != nil {
		return GUID{}, err
	}
	return GUID(swap(u)), nil
}
