// Copyright 2026 Gustavo C. Viegas. All rights reserved.

package dmx

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"math"

	"github.com/gviegas/dmx/linear"
)

// Reference encoder used to produce test streams.

// tElem describes an element to encode.
type tElem struct {
	typ, name string
	guid      GUID
	attrs     []tAttr
}

// tAttr describes an attribute to encode.
// value holds a Value for scalars, tRef or tStub for
// element references and []any for arrays.
type tAttr struct {
	name  string
	typ   AttrType
	value any
}

// tRef is an element reference by index.
type tRef int32

// tStub is an element reference by GUID text.
type tStub string

type encoder struct {
	ver  int
	buf  bytes.Buffer
	dict []string
	idx  map[string]int
}

// encode produces a binary DMX stream of version ver.
func encode(ver int, elems []tElem) []byte {
	e := &encoder{ver: ver, idx: make(map[string]int)}
	if ver >= 2 {
		for _, el := range elems {
			e.intern(el.typ)
			if ver >= 4 {
				e.intern(el.name)
			}
			for _, a := range el.attrs {
				e.intern(a.name)
				if s, ok := a.value.(String); ok && ver >= 4 {
					e.intern(string(s))
				}
			}
		}
	}
	fmt.Fprintf(&e.buf, "<!-- dmx encoding binary %d format dmx 1 -->\n", ver)
	e.buf.WriteByte(0)
	if ver >= 2 {
		if ver >= 4 {
			e.i32(int32(len(e.dict)))
		} else {
			e.i16(int16(len(e.dict)))
		}
		for _, s := range e.dict {
			e.cstr(s)
		}
	}
	e.i32(int32(len(elems)))
	for _, el := range elems {
		e.str(el.typ, ver >= 2)
		e.str(el.name, ver >= 4)
		e.buf.Write(el.guid[:])
	}
	for _, el := range elems {
		e.i32(int32(len(el.attrs)))
		for _, a := range el.attrs {
			e.str(a.name, ver >= 2)
			e.buf.WriteByte(wireID(ver, a.typ))
			if a.typ.IsArray() {
				vs := a.value.([]any)
				e.i32(int32(len(vs)))
				for _, v := range vs {
					e.scalar(a.typ.Elem(), v, true)
				}
			} else {
				e.scalar(a.typ, a.value, false)
			}
		}
	}
	return e.buf.Bytes()
}

// wireID is the inverse of wireType.
func wireID(ver int, t AttrType) byte {
	if t.IsArray() {
		return wireID(ver, t.Elem()) + byte(len(wireScalars))
	}
	if t == AttrTime && ver >= 3 {
		t = AttrObjectID
	}
	for i, x := range wireScalars {
		if x == t {
			return byte(i + 1)
		}
	}
	panic("no wire id for " + t.String())
}

func (e *encoder) intern(s string) {
	if _, ok := e.idx[s]; !ok {
		e.idx[s] = len(e.dict)
		e.dict = append(e.dict, s)
	}
}

func (e *encoder) i16(x int16) { binary.Write(&e.buf, binary.LittleEndian, x) }
func (e *encoder) i32(x int32) { binary.Write(&e.buf, binary.LittleEndian, x) }

func (e *encoder) f32(fs ...float32) {
	for _, f := range fs {
		binary.Write(&e.buf, binary.LittleEndian, math.Float32bits(f))
	}
}

func (e *encoder) cstr(s string) {
	e.buf.WriteString(s)
	e.buf.WriteByte(0)
}

func (e *encoder) str(s string, fromDict bool) {
	switch {
	case !fromDict:
		e.cstr(s)
	case e.ver >= 5:
		e.i32(int32(e.idx[s]))
	default:
		e.i16(int16(e.idx[s]))
	}
}

func (e *encoder) scalar(t AttrType, v any, inArray bool) {
	switch t {
	case AttrElement:
		switch x := v.(type) {
		case tRef:
			e.i32(int32(x))
		case tStub:
			e.i32(refStub)
			e.cstr(string(x))
		default:
			panic("bad element reference")
		}
	case AttrInt:
		e.i32(int32(v.(Int)))
	case AttrFloat:
		e.f32(float32(v.(Float)))
	case AttrBool:
		if v.(Bool) {
			e.buf.WriteByte(1)
		} else {
			e.buf.WriteByte(0)
		}
	case AttrString:
		e.str(string(v.(String)), e.ver >= 4 && !inArray)
	case AttrBinary:
		b := v.(Binary)
		e.i32(int32(len(b)))
		e.buf.Write(b)
	case AttrTime:
		e.i32(int32(math.Round(float64(v.(Time)) * timeScale)))
	case AttrObjectID:
		x := v.(ObjectID)
		e.buf.Write(x[:])
	case AttrColor:
		x := v.(Color)
		e.buf.Write(x[:])
	case AttrVector2:
		x := v.(Vector2)
		e.f32(x[:]...)
	case AttrVector3:
		x := v.(Vector3)
		e.f32(x[:]...)
	case AttrVector4:
		x := v.(Vector4)
		e.f32(x[:]...)
	case AttrAngle:
		x := v.(Angle)
		e.f32(x[:]...)
	case AttrQuaternion:
		q := linear.Q(v.(Quaternion))
		c := q.XYZW()
		e.f32(c[:]...)
	case AttrMatrix:
		m := linear.M4(v.(Matrix))
		r := m.Rows()
		e.f32(r[:]...)
	default:
		panic("cannot encode " + t.String())
	}
}

// guid returns a GUID whose bytes are all n.
func guid(n byte) (g GUID) {
	for i := range g {
		g[i] = n
	}
	return
}
