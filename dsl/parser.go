package dsl

import (
	"fmt"
	"io"

	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"
	"github.com/tdewolff/canvas"

	"github.com/ByLCY/texbridge/box"
)

// 盒子树描述语言，用于测试夹具与命令行输入：
//
//	hbox 30 7 2 {
//	  glyph 10 7 2
//	  leaf 5 0 0          // 空白
//	  vbox 15 7 2 shift -1 {
//	    glyph 15 3 0
//	    debug { glyph 15 4 2 }
//	  }
//	}
//
// 数字依次为宽、高（基线以上）、深度（基线以下）。

var (
	treeLexer = lexer.MustSimple([]lexer.SimpleRule{
		{Name: "Whitespace", Pattern: `[ \t\r]+`},
		{Name: "Newline", Pattern: `\n+`},
		{Name: "BlockComment", Pattern: `/\*[^*]*\*+(?:[^/*][^*]*\*+)*/`},
		{Name: "LineComment", Pattern: `//[^\n]*`},
		{Name: "HashComment", Pattern: `#[^\n]*`},
		{Name: "Number", Pattern: `[-+]?(?:\d+\.\d*|\.\d+|\d+)`},
		{Name: "Ident", Pattern: `[A-Za-z_][A-Za-z0-9_-]*`},
		{Name: "Symbol", Pattern: `[;]`},
		{Name: "LBrace", Pattern: `{`},
		{Name: "RBrace", Pattern: `}`},
	})

	documentParser = participle.MustBuild[Document](
		participle.Lexer(treeLexer),
		participle.Elide("Whitespace", "LineComment", "BlockComment", "HashComment"),
	)
)

// Document is the root AST node: exactly one tree.
type Document struct {
	Pos  lexer.Position `parser:"" json:"-"`
	Root *Node          `parser:"( Newline | ';' )* @@ ( Newline | ';' )*"`
}

// Node is one of leaf/glyph, hbox/vbox or debug.
type Node struct {
	Pos   lexer.Position `parser:"" json:"-"`
	Leaf  *LeafNode      `parser:"  @@"`
	Group *GroupNode     `parser:"| @@"`
	Debug *DebugNode     `parser:"| @@"`
}

// Kind returns the human-readable node type.
func (n *Node) Kind() string {
	switch {
	case n == nil:
		return "unknown"
	case n.Leaf != nil:
		return n.Leaf.Kind
	case n.Group != nil:
		return n.Group.Kind
	case n.Debug != nil:
		return "debug"
	default:
		return "unknown"
	}
}

// LeafNode describes a character cell; "glyph" carries a filled outline.
type LeafNode struct {
	Kind   string  `parser:"@( 'leaf' | 'glyph' )"`
	Width  float64 `parser:"@Number"`
	Height float64 `parser:"@Number"`
	Depth  float64 `parser:"@Number"`
}

// GroupNode describes a horizontal or vertical list.
type GroupNode struct {
	Kind     string   `parser:"@( 'hbox' | 'vbox' )"`
	Width    float64  `parser:"@Number"`
	Height   float64  `parser:"@Number"`
	Depth    float64  `parser:"@Number"`
	Shift    *float64 `parser:"( 'shift' @Number )?"`
	Children []*Node  `parser:"'{' ( Newline | ';' )* ( @@ ( Newline | ';' )* )* '}'"`
}

// DebugNode wraps a single node in a debug frame.
type DebugNode struct {
	Base *Node `parser:"'debug' '{' ( Newline | ';' )* @@ ( Newline | ';' )* '}'"`
}

// Parse parses a tree description from an io.Reader.
func Parse(r io.Reader) (*Document, error) {
	return documentParser.Parse("", r)
}

// ParseString parses a tree description from a string.
func ParseString(input string) (*Document, error) {
	return documentParser.ParseString("", input)
}

// ParseTree 解析并直接构建盒子树。
func ParseTree(r io.Reader) (box.Node, error) {
	doc, err := Parse(r)
	if err != nil {
		return nil, fmt.Errorf("解析盒子树失败: %w", err)
	}
	return Build(doc)
}

// Build 把 AST 转换为盒子树。
func Build(doc *Document) (box.Node, error) {
	if doc == nil || doc.Root == nil {
		return nil, fmt.Errorf("文档为空")
	}
	return buildNode(doc.Root)
}

func buildNode(n *Node) (box.Node, error) {
	switch {
	case n == nil:
		return nil, fmt.Errorf("节点为空")
	case n.Leaf != nil:
		l := n.Leaf
		leaf := &box.Leaf{Width: l.Width, Height: l.Height, Depth: l.Depth}
		if l.Kind == "glyph" {
			leaf.Outline = glyphOutline(l.Width, l.Height, l.Depth)
		}
		return leaf, nil
	case n.Group != nil:
		g := n.Group
		group := &box.Group{Width: g.Width, Height: g.Height, Depth: g.Depth}
		if g.Kind == "vbox" {
			group.Axis = box.Vertical
		}
		if g.Shift != nil {
			group.Shift = *g.Shift
		}
		group.Children = make([]box.Node, 0, len(g.Children))
		for _, child := range g.Children {
			c, err := buildNode(child)
			if err != nil {
				return nil, err
			}
			group.Children = append(group.Children, c)
		}
		return group, nil
	case n.Debug != nil:
		base, err := buildNode(n.Debug.Base)
		if err != nil {
			return nil, err
		}
		return &box.Decoration{Base: base, Kind: box.DebugFrame}, nil
	default:
		return nil, fmt.Errorf("%s: 无法识别的节点", n.Pos)
	}
}

// glyphOutline 生成占满字符单元的矩形轮廓：原点在基线左端，y 向下。
func glyphOutline(w, h, d float64) *canvas.Path {
	if w <= 0 || h+d <= 0 {
		return nil
	}
	return canvas.Rectangle(w, h+d).Translate(0, -h)
}
