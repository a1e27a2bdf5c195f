// Copyright 2026 Gustavo C. Viegas. All rights reserved.

// Package wire implements little-endian primitive reads
// over a sequential byte source.
package wire

import (
	"bufio"
	"encoding/binary"
	"errors"
	"io"
	"math"
)

// chunk is the largest allocation made ahead of the data
// actually arriving.
const chunk = 1 << 20

// Reader reads primitives from an io.Reader.
// Every short read is reported as io.ErrUnexpectedEOF.
type Reader struct {
	r    *bufio.Reader
	off  int64
	size int64
	buf  [8]byte
}

// NewReader creates a new Reader.
// If r exposes its length (Len() int) or is an io.Seeker,
// the number of remaining bytes is known up front and
// Remaining reports it.
func NewReader(r io.Reader) *Reader {
	return &Reader{r: bufio.NewReader(r), size: sizeOf(r)}
}

func sizeOf(r io.Reader) int64 {
	switch x := r.(type) {
	case interface{ Len() int }:
		return int64(x.Len())
	case io.Seeker:
		cur, err := x.Seek(0, io.SeekCurrent)
		if err != nil {
			return -1
		}
		end, err := x.Seek(0, io.SeekEnd)
		if err != nil {
			return -1
		}
		if _, err = x.Seek(cur, io.SeekStart); err != nil {
			return -1
		}
		return end - cur
	}
	return -1
}

// Offset returns the number of bytes consumed so far.
func (r *Reader) Offset() int64 { return r.off }

// Remaining returns the number of bytes left to read,
// or -1 if it is not known.
func (r *Reader) Remaining() int64 {
	if r.size < 0 {
		return -1
	}
	return r.size - r.off
}

func short(err error) error {
	if err == io.EOF {
		return io.ErrUnexpectedEOF
	}
	return err
}

func (r *Reader) fill(n int) ([]byte, error) {
	b := r.buf[:n]
	k, err := io.ReadFull(r.r, b)
	r.off += int64(k)
	if err != nil {
		return nil, short(err)
	}
	return b, nil
}

// Byte reads a single byte.
func (r *Reader) Byte() (byte, error) {
	c, err := r.r.ReadByte()
	if err != nil {
		return 0, short(err)
	}
	r.off++
	return c, nil
}

// Int16 reads a signed 16-bit integer.
func (r *Reader) Int16() (int16, error) {
	b, err := r.fill(2)
	if err != nil {
		return 0, err
	}
	return int16(binary.LittleEndian.Uint16(b)), nil
}

// Int32 reads a signed 32-bit integer.
func (r *Reader) Int32() (int32, error) {
	b, err := r.fill(4)
	if err != nil {
		return 0, err
	}
	return int32(binary.LittleEndian.Uint32(b)), nil
}

// Uint64 reads an unsigned 64-bit integer.
func (r *Reader) Uint64() (uint64, error) {
	b, err := r.fill(8)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint64(b), nil
}

// Float32 reads an IEEE-754 single precision value.
func (r *Reader) Float32() (float32, error) {
	b, err := r.fill(4)
	if err != nil {
		return 0, err
	}
	return math.Float32frombits(binary.LittleEndian.Uint32(b)), nil
}

// Floats reads len(dst) consecutive float32 values.
func (r *Reader) Floats(dst []float32) error {
	for i := range dst {
		f, err := r.Float32()
		if err != nil {
			return err
		}
		dst[i] = f
	}
	return nil
}

// Full fills dst entirely.
func (r *Reader) Full(dst []byte) error {
	n, err := io.ReadFull(r.r, dst)
	r.off += int64(n)
	if err != nil {
		return short(err)
	}
	return nil
}

// ErrNegativeLength is returned by Bytes when n < 0.
var ErrNegativeLength = errors.New("wire: negative length")

// Bytes reads n bytes into a new slice.
// When the remaining length is known and smaller than n,
// it fails without consuming input. Otherwise, storage
// grows as data arrives so that a bogus n cannot force
// a large allocation by itself.
func (r *Reader) Bytes(n int) ([]byte, error) {
	switch {
	case n < 0:
		return nil, ErrNegativeLength
	case n == 0:
		return []byte{}, nil
	}
	if rem := r.Remaining(); rem >= 0 && int64(n) > rem {
		return nil, io.ErrUnexpectedEOF
	}
	if n <= chunk {
		b := make([]byte, n)
		if err := r.Full(b); err != nil {
			return nil, err
		}
		return b, nil
	}
	b := make([]byte, 0, chunk)
	for len(b) < n {
		k := min(n-len(b), chunk)
		b = append(b, make([]byte, k)...)
		if err := r.Full(b[len(b)-k:]); err != nil {
			return nil, err
		}
	}
	return b, nil
}

// CString reads a NUL-terminated string.
// The terminator is consumed but not returned.
func (r *Reader) CString() (string, error) {
	b, err := r.r.ReadBytes(0)
	r.off += int64(len(b))
	if err != nil {
		return "", short(err)
	}
	return string(b[:len(b)-1]), nil
}
