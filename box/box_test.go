package box

import (
	"testing"

	"github.com/tdewolff/canvas"
)

func TestParseColor(t *testing.T) {
	cases := []struct {
		in   string
		want Color
	}{
		{"#000", Black},
		{"#ff0000", 0xffff0000},
		{"#80112233", 0x80112233},
		{"0x00000000", Transparent},
		{"ffffff", White},
	}
	for _, tc := range cases {
		got, err := ParseColor(tc.in)
		if err != nil {
			t.Fatalf("ParseColor(%q) error: %v", tc.in, err)
		}
		if got != tc.want {
			t.Fatalf("ParseColor(%q) = %s, want %s", tc.in, got, tc.want)
		}
	}
	if _, err := ParseColor("#12345"); err == nil {
		t.Fatalf("expected error for 5-digit color")
	}
}

func TestTransparentIsAlphaZero(t *testing.T) {
	if !Transparent.IsTransparent() || !Color(0x00ff0000).IsTransparent() {
		t.Fatalf("alpha 0 colors must be transparent")
	}
	if Black.IsTransparent() {
		t.Fatalf("black must not be transparent")
	}
	if c := ARGB(0x12, 0x34, 0x56, 0x78); c != 0x12345678 {
		t.Fatalf("ARGB packing mismatch: %s", c)
	}
}

func TestExtentThroughDecoration(t *testing.T) {
	leaf := &Leaf{Width: 3, Height: 2, Depth: 1}
	deco := &Decoration{Base: &Decoration{Base: leaf}}
	w, h, d := Extent(deco)
	if w != 3 || h != 2 || d != 1 {
		t.Fatalf("unexpected extent %g %g %g", w, h, d)
	}
	if w, h, d := Extent(nil); w != 0 || h != 0 || d != 0 {
		t.Fatalf("nil extent should be zero")
	}
}

func TestOverlayKeepsProducerTree(t *testing.T) {
	glyph := &Leaf{Width: 1, Height: 1, Outline: canvas.Rectangle(1, 1)}
	space := &Leaf{Width: 1}
	inner := &Group{Children: []Node{glyph}, Width: 1, Height: 1}
	root := &Group{Children: []Node{inner, space, glyph}, Width: 3, Height: 1}

	out := Overlay(root, NonSpace)
	if out == Node(root) {
		t.Fatalf("overlay must build a new root")
	}
	if len(root.Children) != 3 || root.Children[0] != Node(inner) || root.Children[1] != Node(space) {
		t.Fatalf("producer tree was modified")
	}
	if len(inner.Children) != 1 || inner.Children[0] != Node(glyph) {
		t.Fatalf("producer inner group was modified")
	}

	og := out.(*Group)
	if _, ok := og.Children[0].(*Decoration); !ok {
		t.Fatalf("inner group should be framed, got %T", og.Children[0])
	}
	if og.Children[1] != Node(space) {
		t.Fatalf("spacing must not be framed")
	}
	if d, ok := og.Children[2].(*Decoration); !ok || d.Kind != DebugFrame || d.Base != Node(glyph) {
		t.Fatalf("glyph should be framed by reference, got %#v", og.Children[2])
	}
	if w, h, _ := Extent(out); w != 3 || h != 1 {
		t.Fatalf("overlay must keep metrics, got %g x %g", w, h)
	}
}

func TestOverlayOnlyLeaves(t *testing.T) {
	glyph := &Leaf{Width: 1, Height: 1, Outline: canvas.Rectangle(1, 1)}
	inner := &Group{Children: []Node{glyph}, Width: 1, Height: 1}
	root := &Group{Children: []Node{inner}, Width: 1, Height: 1}

	og := Overlay(root, OnlyLeaves).(*Group)
	g, ok := og.Children[0].(*Group)
	if !ok {
		t.Fatalf("groups must not be framed with OnlyLeaves, got %T", og.Children[0])
	}
	if _, ok := g.Children[0].(*Decoration); !ok {
		t.Fatalf("leaf should be framed, got %T", g.Children[0])
	}
}
