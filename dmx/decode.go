// Copyright 2026 Gustavo C. Viegas. All rights reserved.

package dmx

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"

	"github.com/gviegas/dmx/internal/wire"
	"github.com/gviegas/dmx/linear"
)

// Element reference markers.
const (
	refNull = -1
	refStub = -2
)

// maxPrealloc bounds the capacity reserved from a count
// read from the stream.
const maxPrealloc = 4096

// Time values are stored as ticks of 1/10000 s.
const timeScale = 10000

// wireScalars maps wire type ids 1 through 14 to scalar
// types; ids 15 through 28 are the array counterparts.
var wireScalars = [...]AttrType{
	AttrElement,
	AttrInt,
	AttrFloat,
	AttrBool,
	AttrString,
	AttrBinary,
	AttrObjectID,
	AttrColor,
	AttrVector2,
	AttrVector3,
	AttrVector4,
	AttrAngle,
	AttrQuaternion,
	AttrMatrix,
}

// wireType returns the AttrType for a wire type id, or
// AttrInvalid if id is unknown.
// Version 3 replaced object ids with time values.
func wireType(version int, id byte) (t AttrType) {
	n := len(wireScalars)
	switch i := int(id); {
	case i >= 1 && i <= n:
		t = wireScalars[i-1]
	case i > n && i <= 2*n:
		t = wireScalars[i-n-1].Array()
	default:
		return AttrInvalid
	}
	if version >= 3 {
		switch t {
		case AttrObjectID:
			t = AttrTime
		case AttrObjectIDArray:
			t = AttrTimeArray
		}
	}
	return
}

// payloadMin returns the minimum number of bytes taken
// by a scalar of type t.
func payloadMin(t AttrType) int64 {
	switch t {
	case AttrBool, AttrString, AttrUInt8:
		return 1
	case AttrVector2, AttrUInt64:
		return 8
	case AttrVector3, AttrAngle:
		return 12
	case AttrObjectID, AttrVector4, AttrQuaternion:
		return 16
	case AttrMatrix:
		return 64
	default:
		return 4
	}
}

// Decoder decodes binary DMX streams.
// The zero value is ready for use.
type Decoder struct {
	// Logger receives diagnostics, such as element
	// references that could not be resolved.
	// If nil, nothing is logged.
	Logger *slog.Logger
}

// Decode decodes a binary DMX stream using a zero Decoder.
func Decode(r io.Reader) (*Graph, error) {
	var d Decoder
	return d.Decode(r)
}

// pendingRef is an element reference waiting for the
// element table to be complete.
type pendingRef struct {
	attr *Attribute
	// Index into the attribute's array, or -1 for
	// scalar references.
	slot  int
	index int
	guid  GUID
	stub  bool
}

// decodeState holds the transient tables of one call
// to Decoder.Decode.
type decodeState struct {
	r      *wire.Reader
	log    *slog.Logger
	ver    int
	dict   []string
	g      *Graph
	byGUID map[GUID]int
	refs   []pendingRef
}

// Decode decodes r into a new Graph.
// Structural failures abort decoding and return a
// *DecodeError; no partial graph is returned.
// Element references that cannot be resolved do not
// fail the decode: the affected attribute is set to
// AttrInvalid instead.
func (d *Decoder) Decode(r io.Reader) (*Graph, error) {
	log := d.Logger
	if log == nil {
		log = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	s := &decodeState{
		r:      wire.NewReader(r),
		log:    log,
		g:      new(Graph),
		byGUID: make(map[GUID]int),
	}
	if err := s.decode(); err != nil {
		return nil, err
	}
	log.Debug("decoded dmx",
		"header", s.g.header.String(),
		"elements", len(s.g.elements),
		"attributes", s.g.nattr,
		"bytes", s.r.Offset())
	return s.g, nil
}

func (s *decodeState) decode() (err error) {
	if s.g.header, err = s.header(); err != nil {
		return
	}
	s.ver = s.g.header.EncodingVersion
	if err = s.dictionary(); err != nil {
		return
	}
	if err = s.elements(); err != nil {
		return
	}
	for _, e := range s.g.elements {
		if err = s.attributes(e); err != nil {
			return
		}
	}
	s.resolve()
	if len(s.g.elements) > 0 {
		s.g.root = s.g.newAttribute("root", AttrElement, ElementRef{g: s.g, i: 0})
	} else {
		s.g.root = s.g.newAttribute("root", AttrNone, nil)
	}
	return
}

func (s *decodeState) fail(kind error, reason string, err error) error {
	return &DecodeError{Kind: kind, Offset: s.r.Offset(), Reason: reason, Err: err}
}

// readErr classifies an error from the wire reader.
func (s *decodeState) readErr(what string, err error) error {
	switch {
	case errors.Is(err, io.ErrUnexpectedEOF):
		return s.fail(ErrTruncated, "reading "+what, nil)
	case errors.Is(err, wire.ErrNegativeLength):
		return s.fail(ErrMalformed, "reading "+what, err)
	default:
		return fmt.Errorf(prefix+"reading %s: %w", what, err)
	}
}

// header reads the text header. It is parsed as soon as
// its closing "-->" is followed by a newline or NUL, so an
// unsupported encoding is rejected without reading further.
// A newline must then be followed by the NUL terminator.
func (s *decodeState) header() (Header, error) {
	var sb strings.Builder
	for {
		c, err := s.r.Byte()
		if err != nil {
			return Header{}, s.readErr("header", err)
		}
		if (c == '\n' || c == 0) && strings.HasSuffix(strings.TrimRight(sb.String(), " \t\r"), headerSuffix) {
			h, reason := parseHeader(sb.String())
			if reason != "" {
				return Header{}, s.fail(ErrFormat, reason, nil)
			}
			if c == '\n' {
				if c, err = s.r.Byte(); err != nil {
					return Header{}, s.readErr("header", err)
				}
				if c != 0 {
					return Header{}, s.fail(ErrFormat, "missing NUL after header", nil)
				}
			}
			return h, nil
		}
		if c == 0 {
			return Header{}, s.fail(ErrFormat, "unterminated header comment", nil)
		}
		if n := sb.Len(); n < len(headerPrefix) && c != headerPrefix[n] {
			return Header{}, s.fail(ErrFormat, "missing header signature", nil)
		}
		if sb.Len() >= maxHeaderLen {
			return Header{}, s.fail(ErrFormat, "header too long", nil)
		}
		sb.WriteByte(c)
	}
}

// count reads a non-negative 32-bit count of items that
// take at least size bytes each.
func (s *decodeState) count(what string, size int64) (int, error) {
	n, err := s.r.Int32()
	if err != nil {
		return 0, s.readErr(what, err)
	}
	return s.checkCount(what, int64(n), size)
}

func (s *decodeState) checkCount(what string, n, size int64) (int, error) {
	if n < 0 {
		return 0, s.fail(ErrMalformed, "negative "+what+" "+strconv.FormatInt(n, 10), nil)
	}
	if rem := s.r.Remaining(); rem >= 0 && n > rem/size {
		return 0, s.fail(ErrTruncated, what+" "+strconv.FormatInt(n, 10)+" exceeds remaining input", nil)
	}
	return int(n), nil
}

// dictionary reads the string table of versions 2 and
// later.
func (s *decodeState) dictionary() error {
	if s.ver < 2 {
		return nil
	}
	var n int64
	if s.ver >= 4 {
		x, err := s.r.Int32()
		if err != nil {
			return s.readErr("string table size", err)
		}
		n = int64(x)
	} else {
		x, err := s.r.Int16()
		if err != nil {
			return s.readErr("string table size", err)
		}
		n = int64(x)
	}
	cnt, err := s.checkCount("string table size", n, 1)
	if err != nil {
		return err
	}
	s.dict = make([]string, 0, min(cnt, maxPrealloc))
	for i := 0; i < cnt; i++ {
		str, err := s.r.CString()
		if err != nil {
			return s.readErr("string table entry", err)
		}
		s.dict = append(s.dict, str)
	}
	return nil
}

// str reads a string, either inline or as an index into
// the string table.
func (s *decodeState) str(what string, fromDict bool) (string, error) {
	if !fromDict {
		str, err := s.r.CString()
		if err != nil {
			return "", s.readErr(what, err)
		}
		return str, nil
	}
	var i int
	if s.ver >= 5 {
		x, err := s.r.Int32()
		if err != nil {
			return "", s.readErr(what, err)
		}
		i = int(x)
	} else {
		x, err := s.r.Int16()
		if err != nil {
			return "", s.readErr(what, err)
		}
		i = int(x)
	}
	if i < 0 || i >= len(s.dict) {
		return "", s.fail(ErrMalformed, what+": string index "+strconv.Itoa(i)+" out of range", nil)
	}
	return s.dict[i], nil
}

// elements reads the element table.
// Every element is registered by index and GUID before
// any attribute is read, so that references to elements
// further ahead in the stream can be resolved.
func (s *decodeState) elements() error {
	n, err := s.count("element count", 16)
	if err != nil {
		return err
	}
	s.g.elements = make([]*Element, 0, min(n, maxPrealloc))
	for i := 0; i < n; i++ {
		typ, err := s.str("element type", s.ver >= 2)
		if err != nil {
			return err
		}
		name, err := s.str("element name", s.ver >= 4)
		if err != nil {
			return err
		}
		var guid GUID
		if err := s.r.Full(guid[:]); err != nil {
			return s.readErr("element id", err)
		}
		e := s.g.newElement(name, typ, guid)
		if j, dup := s.byGUID[guid]; dup {
			s.log.Warn("duplicate element id", "id", guid.String(), "first", j, "index", e.index)
			continue
		}
		s.byGUID[guid] = e.index
	}
	return nil
}

// attributes reads the attributes of e.
func (s *decodeState) attributes(e *Element) error {
	n, err := s.count("attribute count", 3)
	if err != nil {
		return err
	}
	for i := 0; i < n; i++ {
		name, err := s.str("attribute name", s.ver >= 2)
		if err != nil {
			return err
		}
		id, err := s.r.Byte()
		if err != nil {
			return s.readErr("attribute type", err)
		}
		t := wireType(s.ver, id)
		if t == AttrInvalid {
			return s.fail(ErrMalformed, "attribute "+strconv.Quote(name)+": unknown type id "+strconv.Itoa(int(id)), nil)
		}
		a := s.g.newAttribute(name, t, nil)
		if a.value, err = s.value(a, t); err != nil {
			return err
		}
		e.set(a)
	}
	return nil
}

// value reads the payload of a.
func (s *decodeState) value(a *Attribute, t AttrType) (Value, error) {
	if !t.IsArray() {
		return s.scalar(a, t, -1)
	}
	elem := t.Elem()
	n, err := s.count("array length", payloadMin(elem))
	if err != nil {
		return nil, err
	}
	arr := &Array{typ: t, vals: make([]Value, 0, min(n, maxPrealloc))}
	for i := 0; i < n; i++ {
		v, err := s.scalar(a, elem, i)
		if err != nil {
			return nil, err
		}
		arr.vals = append(arr.vals, v)
	}
	return arr, nil
}

func valueOf(a *Attribute) string { return "value of " + strconv.Quote(a.name) }

// scalar reads a single value of type t.
// slot is the position in the enclosing array, or -1.
func (s *decodeState) scalar(a *Attribute, t AttrType, slot int) (Value, error) {
	switch t {
	case AttrElement:
		return s.ref(a, slot)
	case AttrInt:
		x, err := s.r.Int32()
		if err != nil {
			return nil, s.readErr(valueOf(a), err)
		}
		return Int(x), nil
	case AttrFloat:
		x, err := s.r.Float32()
		if err != nil {
			return nil, s.readErr(valueOf(a), err)
		}
		return Float(x), nil
	case AttrBool:
		x, err := s.r.Byte()
		if err != nil {
			return nil, s.readErr(valueOf(a), err)
		}
		return Bool(x != 0), nil
	case AttrString:
		// Strings inside arrays are always inline.
		x, err := s.str("string value", s.ver >= 4 && slot < 0)
		if err != nil {
			return nil, err
		}
		return String(x), nil
	case AttrBinary:
		n, err := s.r.Int32()
		if err != nil {
			return nil, s.readErr(valueOf(a), err)
		}
		if n < 0 {
			return nil, s.fail(ErrMalformed, valueOf(a)+": negative binary length "+strconv.Itoa(int(n)), nil)
		}
		b, err := s.r.Bytes(int(n))
		if err != nil {
			return nil, s.readErr(valueOf(a), err)
		}
		return Binary(b), nil
	case AttrTime:
		x, err := s.r.Int32()
		if err != nil {
			return nil, s.readErr(valueOf(a), err)
		}
		return Time(float32(x) / timeScale), nil
	case AttrObjectID:
		var x ObjectID
		if err := s.r.Full(x[:]); err != nil {
			return nil, s.readErr(valueOf(a), err)
		}
		return x, nil
	case AttrColor:
		var x Color
		if err := s.r.Full(x[:]); err != nil {
			return nil, s.readErr(valueOf(a), err)
		}
		return x, nil
	case AttrVector2:
		var x Vector2
		if err := s.r.Floats(x[:]); err != nil {
			return nil, s.readErr(valueOf(a), err)
		}
		return x, nil
	case AttrVector3:
		var x Vector3
		if err := s.r.Floats(x[:]); err != nil {
			return nil, s.readErr(valueOf(a), err)
		}
		return x, nil
	case AttrVector4:
		var x Vector4
		if err := s.r.Floats(x[:]); err != nil {
			return nil, s.readErr(valueOf(a), err)
		}
		return x, nil
	case AttrAngle:
		var x Angle
		if err := s.r.Floats(x[:]); err != nil {
			return nil, s.readErr(valueOf(a), err)
		}
		return x, nil
	case AttrQuaternion:
		var c [4]float32
		if err := s.r.Floats(c[:]); err != nil {
			return nil, s.readErr(valueOf(a), err)
		}
		return Quaternion(linear.QFromXYZW(c)), nil
	case AttrMatrix:
		var rows [16]float32
		if err := s.r.Floats(rows[:]); err != nil {
			return nil, s.readErr(valueOf(a), err)
		}
		var m linear.M4
		m.FromRows(&rows)
		return Matrix(m), nil
	case AttrUInt64:
		x, err := s.r.Uint64()
		if err != nil {
			return nil, s.readErr(valueOf(a), err)
		}
		return UInt64(x), nil
	case AttrUInt8:
		x, err := s.r.Byte()
		if err != nil {
			return nil, s.readErr(valueOf(a), err)
		}
		return UInt8(x), nil
	default:
		panic("unexpected scalar AttrType: " + t.String())
	}
}

// ref reads an element reference and queues it for
// resolution. The returned value is a placeholder.
func (s *decodeState) ref(a *Attribute, slot int) (Value, error) {
	x, err := s.r.Int32()
	if err != nil {
		return nil, s.readErr(valueOf(a), err)
	}
	switch x {
	case refNull:
		return ElementRef{}, nil
	case refStub:
		str, err := s.r.CString()
		if err != nil {
			return nil, s.readErr(valueOf(a), err)
		}
		guid, err := ParseGUID(str)
		if err != nil {
			return nil, s.fail(ErrMalformed, valueOf(a)+": invalid element id "+strconv.Quote(str), err)
		}
		s.refs = append(s.refs, pendingRef{attr: a, slot: slot, guid: guid, stub: true})
	default:
		s.refs = append(s.refs, pendingRef{attr: a, slot: slot, index: int(x)})
	}
	return ElementRef{}, nil
}

// resolve replaces every pending reference with a handle
// to the referenced element. A reference whose target is
// not in the tables invalidates its attribute (for arrays,
// the whole attribute).
func (s *decodeState) resolve() {
	for _, p := range s.refs {
		if !p.attr.IsValid() {
			continue
		}
		i, ok := p.index, false
		if p.stub {
			i, ok = s.byGUID[p.guid]
		} else {
			ok = i >= 0 && i < len(s.g.elements)
		}
		if !ok {
			target := strconv.Itoa(p.index)
			if p.stub {
				target = p.guid.String()
			}
			s.log.Debug("dangling element reference", "attribute", p.attr.name, "target", target)
			p.attr.invalidate()
			continue
		}
		ref := ElementRef{g: s.g, i: i}
		if p.slot < 0 {
			p.attr.value = ref
		} else {
			p.attr.value.(*Array).vals[p.slot] = ref
		}
	}
}
