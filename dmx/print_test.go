// Copyright 2026 Gustavo C. Viegas. All rights reserved.

package dmx

import (
	"bytes"
	"strings"
	"testing"
)

func printGraph(t *testing.T) *Graph {
	doc := []tElem{
		{"DmeScene", "scene", guid(1), []tAttr{
			{"count", AttrInt, Int(3)},
			{"child", AttrElement, tRef(1)},
			{"self", AttrElement, tRef(0)},
		}},
		{"DmeLeaf", "leaf", guid(2), []tAttr{
			{"data", AttrBinary, Binary{1, 2, 3, 4}},
			{"values", AttrIntArray, []any{Int(1), Int(2)}},
			{"bad", AttrElement, tRef(5)},
		}},
	}
	g, err := Decode(bytes.NewReader(encode(5, doc)))
	if err != nil {
		t.Fatalf("Decode:\nhave %v\nwant nil", err)
	}
	return g
}

func TestPrint(t *testing.T) {
	g := printGraph(t)
	want := "scene (DmeScene, 3 attributes)" +
		"\n\tcount (int):\n\t\t3" +
		"\n\tchild (element):\n" +
		"\t\t\tleaf (DmeLeaf, 3 attributes)" +
		"\n\t\t\t\tdata (binary):\n\t\t\t\t\tBinary (4 bytes)" +
		"\n\t\t\t\tvalues (int_array):\n\t\t\t\t\tArray [int_array][2 elements]" +
		"\n\t\t\t\tbad (invalid):\n\t\t\t\t\tNULL" +
		"\n\tself (element):\n"
	if have := Print(g.Element(0)); have != want {
		t.Fatalf("Print:\nhave %q\nwant %q", have, want)
	}
	if have := g.Element(0).String(); have != want {
		t.Fatalf("Element.String:\nhave %q\nwant %q", have, want)
	}

	a := g.Element(1).Get("data")
	if have, want := Print(a), "data (binary):\n\tBinary (4 bytes)"; have != want {
		t.Fatalf("Print (attribute):\nhave %q\nwant %q", have, want)
	}
	if have := a.String(); have != Print(a) {
		t.Fatalf("Attribute.String:\nhave %q\nwant %q", have, Print(a))
	}
	if have := g.String(); !strings.HasPrefix(have, "root (element):\n\t\tscene (DmeScene, 3 attributes)") {
		t.Fatalf("Graph.String:\nhave %q\nwant root prefix", have)
	}
}

func TestPrinter(t *testing.T) {
	g := printGraph(t)
	var p Printer
	s1 := p.Sprint(g.Element(0))
	ne, na := p.Visited()
	if ne != 2 || na != 6 {
		t.Fatalf("Printer.Visited:\nhave %d, %d\nwant 2, 6", ne, na)
	}
	// A new traversal starts from scratch.
	if s2 := p.Sprint(g.Element(0)); s2 != s1 {
		t.Fatalf("Printer.Sprint (reuse):\nhave %q\nwant %q", s2, s1)
	}
	p.Sprint(g.Element(1))
	if ne, na := p.Visited(); ne != 1 || na != 3 {
		t.Fatalf("Printer.Visited (leaf):\nhave %d, %d\nwant 1, 3", ne, na)
	}
	var buf bytes.Buffer
	if err := p.Fprint(&buf, g.Element(0)); err != nil {
		t.Fatalf("Printer.Fprint:\nhave %v\nwant nil", err)
	}
	if buf.String() != s1 {
		t.Fatalf("Printer.Fprint:\nhave %q\nwant %q", buf.String(), s1)
	}
}

func TestPrintNil(t *testing.T) {
	var e *Element
	var a *Attribute
	if s := Print(e); s != "" {
		t.Fatalf("Print(nil *Element):\nhave %q\nwant \"\"", s)
	}
	if s := Print(a); s != "" {
		t.Fatalf("Print(nil *Attribute):\nhave %q\nwant \"\"", s)
	}
	defer func() {
		if recover() == nil {
			t.Fatal("Print(int): expected panic")
		}
	}()
	Print(1)
}
