package dsl_test

import (
	"strings"
	"testing"

	"github.com/ByLCY/texbridge/box"
	"github.com/ByLCY/texbridge/dsl"
)

const sampleTree = `
// x^2 + y
hbox 30 7 2 {
  glyph 10 7 2
  leaf 5 0 0
  vbox 15 7 2 shift -1 {
    glyph 15 3 0
    debug { glyph 15 4 2 }
  }
}
`

func TestParseDocument(t *testing.T) {
	doc, err := dsl.ParseString(sampleTree)
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	root := doc.Root
	if root.Kind() != "hbox" {
		t.Fatalf("expected hbox root, got %s", root.Kind())
	}
	if len(root.Group.Children) != 3 {
		t.Fatalf("expected 3 children, got %d", len(root.Group.Children))
	}
	if got := root.Group.Children[1].Kind(); got != "leaf" {
		t.Fatalf("expected spacing leaf, got %s", got)
	}
	vbox := root.Group.Children[2].Group
	if vbox == nil || vbox.Kind != "vbox" {
		t.Fatalf("expected vbox, got %+v", root.Group.Children[2])
	}
	if vbox.Shift == nil || *vbox.Shift != -1 {
		t.Fatalf("expected shift -1, got %v", vbox.Shift)
	}
	if vbox.Children[1].Kind() != "debug" {
		t.Fatalf("expected debug node, got %s", vbox.Children[1].Kind())
	}
}

func TestBuildTree(t *testing.T) {
	root, err := dsl.ParseTree(strings.NewReader(sampleTree))
	if err != nil {
		t.Fatalf("ParseTree error: %v", err)
	}
	group, ok := root.(*box.Group)
	if !ok {
		t.Fatalf("expected *box.Group root, got %T", root)
	}
	if group.Width != 30 || group.Height != 7 || group.Depth != 2 {
		t.Fatalf("unexpected root extent: %+v", group)
	}
	glyph := group.Children[0].(*box.Leaf)
	if glyph.Outline == nil {
		t.Fatalf("glyph should carry an outline")
	}
	space := group.Children[1].(*box.Leaf)
	if !box.IsSpace(space) {
		t.Fatalf("plain leaf should be spacing")
	}
	vbox := group.Children[2].(*box.Group)
	if vbox.Axis != box.Vertical || vbox.Shift != -1 {
		t.Fatalf("unexpected vbox: axis=%v shift=%v", vbox.Axis, vbox.Shift)
	}
	deco, ok := vbox.Children[1].(*box.Decoration)
	if !ok || deco.Kind != box.DebugFrame {
		t.Fatalf("expected debug decoration, got %T", vbox.Children[1])
	}
}

func TestParseSemicolonSeparators(t *testing.T) {
	root, err := dsl.ParseTree(strings.NewReader("hbox 2 1 0 { glyph 1 1 0; glyph 1 1 0 }"))
	if err != nil {
		t.Fatalf("ParseTree error: %v", err)
	}
	if n := len(root.(*box.Group).Children); n != 2 {
		t.Fatalf("expected 2 children, got %d", n)
	}
}

func TestParseRejectsUnknownNode(t *testing.T) {
	if _, err := dsl.ParseString("circle 1 2 3"); err == nil {
		t.Fatalf("expected parse error for unknown node")
	}
	if _, err := dsl.ParseString("leaf 1 2"); err == nil {
		t.Fatalf("expected parse error for missing depth")
	}
}
