// Copyright 2026 Gustavo C. Viegas. All rights reserved.

package dmx

import (
	"io"
	"strconv"
	"strings"

	"github.com/gviegas/dmx/internal/bitvec"
)

// Printer writes a depth-first, indented description of
// a graph. Each element and each attribute is printed at
// most once per traversal, so cyclic graphs terminate.
//
// The zero value is ready for use.
type Printer struct {
	elems bitvec.V[uint64]
	attrs bitvec.V[uint64]
	sb    strings.Builder
}

// Print returns the description of x, which must be
// either an *Element or an *Attribute.
func Print(x any) string {
	var p Printer
	return p.Sprint(x)
}

// Sprint returns the description of x, which must be
// either an *Element or an *Attribute.
// It starts a new traversal.
func (p *Printer) Sprint(x any) string {
	p.elems.Clear()
	p.attrs.Clear()
	p.sb.Reset()
	switch x := x.(type) {
	case *Element:
		if x != nil {
			p.element(x, "")
		}
	case *Attribute:
		if x != nil {
			p.sb.WriteString(x.name)
			p.attribute(x, "\t")
		}
	default:
		panic("dmx.Printer: unexpected type")
	}
	return p.sb.String()
}

// Fprint writes the description of x to w.
// It starts a new traversal.
func (p *Printer) Fprint(w io.Writer, x any) error {
	_, err := io.WriteString(w, p.Sprint(x))
	return err
}

// Visited returns the number of distinct elements and
// attributes reached by the last traversal.
func (p *Printer) Visited() (elements, attributes int) {
	return p.elems.Count(), p.attrs.Count()
}

func (p *Printer) element(e *Element, indent string) {
	if !p.elems.Mark(e.index) {
		return
	}
	sb := &p.sb
	sb.WriteString(indent)
	sb.WriteString(e.name)
	sb.WriteString(" (")
	sb.WriteString(e.typ)
	sb.WriteString(", ")
	sb.WriteString(strconv.Itoa(len(e.attrs)))
	sb.WriteString(" attributes)")
	for _, a := range e.attrs {
		sb.WriteString("\n\t")
		sb.WriteString(indent)
		sb.WriteString(a.name)
		p.attribute(a, indent+"\t\t")
	}
}

func (p *Printer) attribute(a *Attribute, indent string) {
	if !p.attrs.Mark(a.index) {
		return
	}
	sb := &p.sb
	sb.WriteString(" (")
	sb.WriteString(a.typ.String())
	sb.WriteString("):\n")
	switch x := a.value.(type) {
	case nil:
		sb.WriteString(indent)
		sb.WriteString("NULL")
	case ElementRef:
		if e := x.Element(); e != nil {
			p.element(e, indent+"\t")
		}
	default:
		sb.WriteString(indent)
		sb.WriteString(FormatValue(x))
	}
}
