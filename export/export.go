// Copyright 2026 Gustavo C. Viegas. All rights reserved.

// Package export converts decoded DMX graphs into plain
// documents that can be serialized as JSON, YAML or CBOR.
//
// A Document is flat: elements are listed once, in pool
// order, and element references are written as the GUID
// of the target. Cyclic graphs export without recursion.
package export

import (
	"encoding/hex"
	"encoding/json"
	"errors"
	"io"
	"math"
	"strings"

	"github.com/fxamacker/cbor/v2"
	"github.com/zeebo/blake3"
	"gopkg.in/yaml.v3"

	"github.com/gviegas/dmx/dmx"
	"github.com/gviegas/dmx/linear"
)

const prefix = "export: "

// Document is the exported form of a dmx.Graph.
type Document struct {
	Header   string    `json:"header" yaml:"header"`
	Root     string    `json:"root" yaml:"root"`
	Elements []Element `json:"elements" yaml:"elements"`
}

// Element is the exported form of a dmx.Element.
type Element struct {
	ID         string      `json:"id" yaml:"id"`
	Name       string      `json:"name" yaml:"name"`
	Type       string      `json:"type" yaml:"type"`
	Attributes []Attribute `json:"attributes" yaml:"attributes"`
}

// Attribute is the exported form of a dmx.Attribute.
// Value is nil for attributes that have no value.
type Attribute struct {
	Name  string `json:"name" yaml:"name"`
	Type  string `json:"type" yaml:"type"`
	Valid bool   `json:"valid" yaml:"valid"`
	Value any    `json:"value" yaml:"value"`
}

// Blob summarizes a binary value.
type Blob struct {
	Length int    `json:"length" yaml:"length"`
	BLAKE3 string `json:"blake3" yaml:"blake3"`
}

// Angle is the exported form of a dmx.Angle, in degrees.
type Angle struct {
	Pitch float32 `json:"pitch" yaml:"pitch"`
	Yaw   float32 `json:"yaw" yaml:"yaw"`
	Roll  float32 `json:"roll" yaml:"roll"`
}

// Options controls the conversion.
type Options struct {
	// InlineBinary causes binary values to be exported as
	// their contents rather than as a Blob.
	InlineBinary bool
}

// FromGraph converts g using the default options.
func FromGraph(g *dmx.Graph) *Document {
	var o Options
	return o.FromGraph(g)
}

// FromGraph converts g.
func (o *Options) FromGraph(g *dmx.Graph) *Document {
	doc := &Document{
		Header:   g.Header().String(),
		Elements: make([]Element, 0, g.Len()),
	}
	if e := g.Root().Element(); e != nil {
		doc.Root = e.GUID().String()
	}
	for _, e := range g.Elements() {
		x := Element{
			ID:         e.GUID().String(),
			Name:       e.Name(),
			Type:       e.Type(),
			Attributes: make([]Attribute, 0, e.Len()),
		}
		for _, a := range e.All() {
			x.Attributes = append(x.Attributes, Attribute{
				Name:  a.Name(),
				Type:  a.Type().String(),
				Valid: a.IsValid(),
				Value: o.value(a.Value()),
			})
		}
		doc.Elements = append(doc.Elements, x)
	}
	return doc
}

func floats(fs []float32) []float32 { return append([]float32(nil), fs...) }

// value converts v into a tree of basic types.
func (o *Options) value(v dmx.Value) any {
	switch x := v.(type) {
	case nil:
		return nil
	case dmx.Int:
		return int32(x)
	case dmx.Float:
		return float32(x)
	case dmx.Bool:
		return bool(x)
	case dmx.String:
		return string(x)
	case dmx.Binary:
		if o.InlineBinary {
			return []byte(x)
		}
		sum := blake3.Sum256(x)
		return Blob{Length: len(x), BLAKE3: hex.EncodeToString(sum[:])}
	case dmx.Time:
		return float32(x)
	case dmx.ObjectID:
		return dmx.GUID(x).String()
	case dmx.Color:
		return []int{int(x[0]), int(x[1]), int(x[2]), int(x[3])}
	case dmx.Vector2:
		return floats(x[:])
	case dmx.Vector3:
		return floats(x[:])
	case dmx.Vector4:
		return floats(x[:])
	case dmx.Angle:
		e := linear.Euler(x)
		return Angle{Pitch: e.Pitch(), Yaw: e.Yaw(), Roll: e.Roll()}
	case dmx.Quaternion:
		q := linear.Q(x)
		c := q.XYZW()
		return c[:]
	case dmx.Matrix:
		m := linear.M4(x)
		r := m.Rows()
		return r[:]
	case dmx.UInt64:
		return uint64(x)
	case dmx.UInt8:
		return uint8(x)
	case dmx.ElementRef:
		if e := x.Element(); e != nil {
			return e.GUID().String()
		}
		return nil
	case *dmx.Array:
		s := make([]any, x.Len())
		for i := range s {
			s[i] = o.value(x.At(i))
		}
		return s
	}
	panic("unexpected dmx.Value implementation")
}

// Format identifies a serialization format.
type Format int

// Formats.
const (
	JSON Format = iota
	YAML
	CBOR
)

// String implements fmt.Stringer.
func (f Format) String() string {
	switch f {
	case JSON:
		return "json"
	case YAML:
		return "yaml"
	case CBOR:
		return "cbor"
	}
	return "[!] invalid Format value"
}

// ParseFormat parses the name of a Format.
// It is case insensitive.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(s) {
	case "json":
		return JSON, nil
	case "yaml", "yml":
		return YAML, nil
	case "cbor":
		return CBOR, nil
	}
	return 0, errors.New(prefix + "unknown format " + s)
}

// encMode is the CBOR encoder configured with Core
// Deterministic Encoding.
var encMode cbor.EncMode

func init() {
	var err error
	if encMode, err = cbor.CoreDetEncOptions().EncMode(); err != nil {
		panic(prefix + "CBOR encoder initialization failed: " + err.Error())
	}
}

// Encode writes doc to w in format f.
// JSON has no representation for NaN and infinities, so
// non-finite floats are written as the strings "NaN",
// "+Inf" and "-Inf" in that format.
func Encode(w io.Writer, doc *Document, f Format) error {
	switch f {
	case JSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "\t")
		return enc.Encode(jsonDocument(doc))
	case YAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(doc); err != nil {
			return err
		}
		return enc.Close()
	case CBOR:
		return encMode.NewEncoder(w).Encode(doc)
	}
	return errors.New(prefix + "invalid Format value")
}

// jsonDocument returns doc, or a copy of it whose
// non-finite floats were replaced by strings.
func jsonDocument(doc *Document) *Document {
	c := doc
	for i, e := range doc.Elements {
		var attrs []Attribute
		for j, a := range e.Attributes {
			v, ok := jsonValue(a.Value)
			if !ok {
				continue
			}
			if attrs == nil {
				attrs = append([]Attribute(nil), e.Attributes...)
			}
			attrs[j].Value = v
		}
		if attrs == nil {
			continue
		}
		if c == doc {
			c = &Document{Header: doc.Header, Root: doc.Root, Elements: append([]Element(nil), doc.Elements...)}
		}
		c.Elements[i].Attributes = attrs
	}
	return c
}

// jsonAngle is an Angle with non-finite components.
type jsonAngle struct {
	Pitch any `json:"pitch"`
	Yaw   any `json:"yaw"`
	Roll  any `json:"roll"`
}

// jsonValue replaces the non-finite floats in v.
// It reports whether any replacement was made.
func jsonValue(v any) (any, bool) {
	switch x := v.(type) {
	case float32:
		if finite(x) {
			return v, false
		}
		return jsonFloat(x), true
	case []float32:
		if finite(x...) {
			return v, false
		}
		s := make([]any, len(x))
		for i, f := range x {
			s[i] = jsonFloat(f)
		}
		return s, true
	case Angle:
		if finite(x.Pitch, x.Yaw, x.Roll) {
			return v, false
		}
		return jsonAngle{jsonFloat(x.Pitch), jsonFloat(x.Yaw), jsonFloat(x.Roll)}, true
	case []any:
		var s []any
		for i, e := range x {
			e, ok := jsonValue(e)
			if !ok {
				continue
			}
			if s == nil {
				s = append([]any(nil), x...)
			}
			s[i] = e
		}
		if s == nil {
			return v, false
		}
		return s, true
	}
	return v, false
}

func finite(fs ...float32) bool {
	for _, f := range fs {
		if math.IsNaN(float64(f)) || math.IsInf(float64(f), 0) {
			return false
		}
	}
	return true
}

func jsonFloat(f float32) any {
	switch {
	case math.IsNaN(float64(f)):
		return "NaN"
	case math.IsInf(float64(f), 1):
		return "+Inf"
	case math.IsInf(float64(f), -1):
		return "-Inf"
	}
	return f
}
