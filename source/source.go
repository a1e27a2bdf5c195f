// Copyright 2026 Gustavo C. Viegas. All rights reserved.

// Package source opens DMX inputs that may be stored
// compressed. The compression is identified by the leading
// bytes of the stream; anything not recognized is passed
// through unchanged.
package source

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
	"github.com/pierrec/lz4/v4"
)

const prefix = "source: "

// Compression identifies the compression of a stream.
type Compression int

// Compressions.
const (
	None Compression = iota
	Zstd
	LZ4
	Gzip
)

// String implements fmt.Stringer.
func (c Compression) String() string {
	switch c {
	case None:
		return "none"
	case Zstd:
		return "zstd"
	case LZ4:
		return "lz4"
	case Gzip:
		return "gzip"
	}
	return "[!] invalid Compression value"
}

// Stream signatures.
var (
	zstdMagic = []byte{0x28, 0xb5, 0x2f, 0xfd}
	lz4Magic  = []byte{0x04, 0x22, 0x4d, 0x18}
	gzipMagic = []byte{0x1f, 0x8b}
)

const magicLen = 4

// sniff identifies the compression from the first bytes
// of a stream.
func sniff(head []byte) Compression {
	switch {
	case bytes.HasPrefix(head, zstdMagic):
		return Zstd
	case bytes.HasPrefix(head, lz4Magic):
		return LZ4
	case bytes.HasPrefix(head, gzipMagic):
		return Gzip
	}
	return None
}

// peek returns the first bytes of r without consuming
// them, along with a reader that yields the whole stream.
// Seekable readers are rewound so that they can be
// returned as is.
func peek(r io.Reader) ([]byte, io.Reader, error) {
	if rs, ok := r.(io.ReadSeeker); ok {
		head := make([]byte, magicLen)
		n, err := io.ReadFull(rs, head)
		if err != nil && err != io.ErrUnexpectedEOF && err != io.EOF {
			return nil, nil, err
		}
		if _, err := rs.Seek(int64(-n), io.SeekCurrent); err != nil {
			return nil, nil, err
		}
		return head[:n], rs, nil
	}
	br := bufio.NewReader(r)
	head, err := br.Peek(magicLen)
	if err != nil && err != io.EOF {
		return nil, nil, err
	}
	return head, br, nil
}

// NewReader returns a reader that yields the decompressed
// contents of r, along with the compression that was
// detected.
// If no compression is detected, the returned reader
// produces the bytes of r unchanged (it is r itself when
// r is an io.ReadSeeker).
func NewReader(r io.Reader) (io.Reader, Compression, error) {
	r, _, c, err := newReader(r)
	return r, c, err
}

// newReader is NewReader, but it also returns a Closer
// that releases decoder resources.
func newReader(r io.Reader) (io.Reader, io.Closer, Compression, error) {
	head, r, err := peek(r)
	if err != nil {
		return nil, nil, None, fmt.Errorf(prefix+"failed to read signature: %w", err)
	}
	c := sniff(head)
	switch c {
	case Zstd:
		d, err := zstd.NewReader(r, zstd.WithDecoderConcurrency(1))
		if err != nil {
			return nil, nil, c, fmt.Errorf(prefix+"failed to create zstd decoder: %w", err)
		}
		rc := d.IOReadCloser()
		return rc, rc, c, nil
	case LZ4:
		return lz4.NewReader(r), nopCloser{}, c, nil
	case Gzip:
		d, err := gzip.NewReader(r)
		if err != nil {
			return nil, nil, c, fmt.Errorf(prefix+"invalid gzip header: %w", err)
		}
		return d, d, c, nil
	}
	return r, nopCloser{}, None, nil
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

// File is an opened input.
type File struct {
	io.Reader
	f           *os.File
	d           io.Closer
	compression Compression
}

// Compression returns the compression of the file.
func (f *File) Compression() Compression { return f.compression }

// Close closes the file.
func (f *File) Close() error {
	err := f.d.Close()
	return errors.Join(err, f.f.Close())
}

// Open opens the named file for reading, decompressing
// it if needed.
func Open(name string) (*File, error) {
	f, err := os.Open(name)
	if err != nil {
		return nil, err
	}
	r, d, c, err := newReader(f)
	if err != nil {
		f.Close()
		return nil, err
	}
	return &File{Reader: r, f: f, d: d, compression: c}, nil
}
