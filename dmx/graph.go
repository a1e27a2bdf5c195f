// Copyright 2026 Gustavo C. Viegas. All rights reserved.

// Package dmx implements a decoder and object model for
// binary DMX, a typed-attribute graph format used to store
// scene descriptions.
//
// A decoded file is a Graph: a flat pool of elements, each
// one owning named attributes, plus a root attribute.
// Element-valued attributes hold ElementRef handles into
// the pool, so arbitrary topology (including cycles) is
// represented without ownership cycles.
package dmx

import (
	"slices"
)

// Graph is the result of decoding a DMX stream.
// It owns every element and attribute reachable from it.
type Graph struct {
	header   Header
	elements []*Element
	nattr    int
	root     *Attribute
}

// Header returns the header of the decoded stream.
func (g *Graph) Header() Header { return g.header }

// Elements returns every element of the graph,
// in decode order.
func (g *Graph) Elements() []*Element { return slices.Clone(g.elements) }

// Len returns the number of elements in the graph.
func (g *Graph) Len() int { return len(g.elements) }

// Element returns the element at index i.
func (g *Graph) Element(i int) *Element { return g.elements[i] }

// Root returns the root attribute of the graph.
func (g *Graph) Root() *Attribute { return g.root }

// Find returns the element identified by guid, or nil
// if there is no such element.
func (g *Graph) Find(guid GUID) *Element {
	for _, e := range g.elements {
		if e.guid == guid {
			return e
		}
	}
	return nil
}

// Invalid returns every attribute of the graph that
// failed to resolve, in element order.
// A graph for which it returns nothing is fully valid.
func (g *Graph) Invalid() (attrs []*Attribute) {
	for _, e := range g.elements {
		for _, a := range e.attrs {
			if !a.IsValid() {
				attrs = append(attrs, a)
			}
		}
	}
	return
}

// String implements fmt.Stringer.
// It prints the graph starting at the root attribute.
func (g *Graph) String() string { return Print(g.root) }

func (g *Graph) newElement(name, typ string, guid GUID) *Element {
	e := &Element{
		name:  name,
		typ:   typ,
		guid:  guid,
		g:     g,
		index: len(g.elements),
	}
	g.elements = append(g.elements, e)
	return e
}

func (g *Graph) newAttribute(name string, typ AttrType, value Value) *Attribute {
	a := &Attribute{
		name:  name,
		typ:   typ,
		value: value,
		index: g.nattr,
	}
	g.nattr++
	return a
}
