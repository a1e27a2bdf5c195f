// Copyright 2026 Gustavo C. Viegas. All rights reserved.

package dmx

import (
	"github.com/dustin/go-humanize"
)

// Attribute is a named, typed value owned by an element.
// Its value is nil if and only if its type is AttrNone
// or AttrInvalid.
type Attribute struct {
	name  string
	typ   AttrType
	value Value
	owner *Element
	// Position in the owning graph's attribute arena.
	index int
}

// Name returns the name of the attribute.
func (a *Attribute) Name() string { return a.name }

// Type returns the type of the attribute.
func (a *Attribute) Type() AttrType { return a.typ }

// Value returns the value of the attribute.
func (a *Attribute) Value() Value { return a.value }

// Owner returns the element that holds the attribute,
// or nil for the root attribute of a graph.
func (a *Attribute) Owner() *Element { return a.owner }

// IsValid returns whether the attribute was resolved
// successfully (i.e., its type is not AttrInvalid).
func (a *Attribute) IsValid() bool { return a.typ != AttrInvalid }

// invalidate degrades a to AttrInvalid, dropping its value.
func (a *Attribute) invalidate() {
	a.typ = AttrInvalid
	a.value = nil
}

// Element returns the element referenced by an attribute
// of type AttrElement. It returns nil for any other type
// and for null references.
func (a *Attribute) Element() *Element {
	if r, ok := a.value.(ElementRef); ok {
		return r.Element()
	}
	return nil
}

// Get returns the attribute called name of the element
// referenced by a, or nil if there is no such attribute.
func (a *Attribute) Get(name string) *Attribute {
	if e := a.Element(); e != nil {
		return e.Get(name)
	}
	return nil
}

// AddArrayValue appends v to an array attribute.
// It fails if a is not of an array type or if the type
// of v differs from the array's element type.
func (a *Attribute) AddArrayValue(v Value) error {
	arr, ok := a.value.(*Array)
	if !ok || !a.typ.IsArray() {
		return ErrNotArray
	}
	return arr.add(v)
}

// RemoveArrayValue removes the first element of an array
// attribute that is Equal to v.
// It fails if a is not of an array type, if the type of v
// differs from the array's element type or if no element
// matches.
func (a *Attribute) RemoveArrayValue(v Value) error {
	arr, ok := a.value.(*Array)
	if !ok || !a.typ.IsArray() {
		return ErrNotArray
	}
	return arr.remove(v)
}

// ValueString returns a short description of the value
// of a. Binary sizes are given in human-readable units.
// It returns the empty string if the value is absent.
func (a *Attribute) ValueString() string {
	switch x := a.value.(type) {
	case nil:
		return ""
	case Binary:
		return "Binary [" + humanize.IBytes(uint64(len(x))) + "]"
	default:
		return FormatValue(x)
	}
}

// String implements fmt.Stringer.
// It produces the same output as Print.
func (a *Attribute) String() string { return Print(a) }

