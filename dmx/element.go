// Copyright 2026 Gustavo C. Viegas. All rights reserved.

package dmx

import (
	"iter"
	"slices"
)

// Element is a named node of a Graph.
// It owns an ordered set of uniquely named attributes.
// Elements are created by the decoder only.
type Element struct {
	name   string
	typ    string
	guid   GUID
	attrs  []*Attribute
	byName map[string]int
	g      *Graph
	index  int
}

// Name returns the name of the element.
func (e *Element) Name() string { return e.name }

// Type returns the type tag of the element.
// It is free-form text, not an AttrType.
func (e *Element) Type() string { return e.typ }

// GUID returns the unique identifier of the element.
func (e *Element) GUID() GUID { return e.guid }

// Index returns the position of the element in its
// graph's element pool.
func (e *Element) Index() int { return e.index }

// Len returns the number of attributes.
func (e *Element) Len() int { return len(e.attrs) }

// Attributes returns the attributes of the element,
// in file order.
func (e *Element) Attributes() []*Attribute { return slices.Clone(e.attrs) }

// All returns an iterator over the attributes of the
// element, in file order, keyed by name.
func (e *Element) All() iter.Seq2[string, *Attribute] {
	return func(yield func(string, *Attribute) bool) {
		for _, a := range e.attrs {
			if !yield(a.name, a) {
				return
			}
		}
	}
}

// Get returns the attribute called name, or nil if the
// element has no such attribute.
func (e *Element) Get(name string) *Attribute {
	if i, ok := e.byName[name]; ok {
		return e.attrs[i]
	}
	return nil
}

// Child returns the element referenced by the attribute
// called name, or nil if there is no such attribute or
// it is not a (non-null) element reference.
func (e *Element) Child(name string) *Element {
	if a := e.Get(name); a != nil {
		return a.Element()
	}
	return nil
}

// Ref returns a reference to e.
func (e *Element) Ref() ElementRef { return ElementRef{g: e.g, i: e.index} }

// set inserts a. An attribute with the same name is
// replaced in place.
func (e *Element) set(a *Attribute) {
	a.owner = e
	if i, ok := e.byName[a.name]; ok {
		e.attrs[i] = a
		return
	}
	if e.byName == nil {
		e.byName = make(map[string]int)
	}
	e.byName[a.name] = len(e.attrs)
	e.attrs = append(e.attrs, a)
}

// String implements fmt.Stringer.
// It produces the same output as Print.
func (e *Element) String() string { return Print(e) }
