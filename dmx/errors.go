// Copyright 2026 Gustavo C. Viegas. All rights reserved.

package dmx

import (
	"errors"
	"strconv"
)

const prefix = "dmx: "

// Kinds of fatal decoding failures.
// Every error returned by Decode because of bad input
// matches exactly one of these under errors.Is.
var (
	// ErrFormat means that the stream is not binary DMX,
	// or that its encoding version is not supported.
	ErrFormat = errors.New(prefix + "unrecognized format")

	// ErrTruncated means that the stream ended before a
	// declared length was satisfied.
	ErrTruncated = errors.New(prefix + "truncated input")

	// ErrMalformed means that the stream contains an
	// unknown type id, an invalid length or count, or an
	// out of range string index.
	ErrMalformed = errors.New(prefix + "malformed data")
)

// DecodeError describes a fatal decoding failure.
type DecodeError struct {
	// Kind is ErrFormat, ErrTruncated or ErrMalformed.
	Kind error
	// Offset is the number of bytes consumed when the
	// failure was detected.
	Offset int64
	// Reason describes what was being decoded.
	Reason string
	// Err is the underlying error, if any.
	Err error
}

// Error implements error.
func (e *DecodeError) Error() string {
	s := e.Kind.Error() + " at offset " + strconv.FormatInt(e.Offset, 10) + ": " + e.Reason
	if e.Err != nil {
		s += ": " + e.Err.Error()
	}
	return s
}

// Unwrap returns e.Kind and, if present, e.Err.
func (e *DecodeError) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Err}
}
