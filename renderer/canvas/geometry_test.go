package canvasrenderer

import (
	"image/color"
	"math"
	"regexp"
	"strconv"
	"testing"

	"github.com/tdewolff/canvas"

	"github.com/ByLCY/texbridge/box"
	"github.com/ByLCY/texbridge/buffer"
	"github.com/ByLCY/texbridge/render"
)

const coordEpsilon = 1e-3

var (
	viewBoxPattern  = regexp.MustCompile(`viewBox="0 0 ([^ "]+) ([^"]+)"`)
	pathDataPattern = regexp.MustCompile(`<path d="([^"]*)"`)
	pathToken       = regexp.MustCompile(`[A-Za-z]|-?(?:\d+\.?\d*|\.\d+)(?:[eE][-+]?\d+)?`)
)

type point struct{ x, y float64 }

// pathPoints 读出 SVG 中所有路径的端点与控制点（仅绝对坐标命令）。
func pathPoints(t *testing.T, svg string) []point {
	t.Helper()
	var pts []point
	for _, m := range pathDataPattern.FindAllStringSubmatch(svg, -1) {
		var cmd string
		var cur point
		var nums []float64
		flush := func() {
			switch cmd {
			case "M", "L", "Q", "C":
				for i := 0; i+1 < len(nums); i += 2 {
					cur = point{nums[i], nums[i+1]}
					pts = append(pts, cur)
				}
			case "H":
				for _, v := range nums {
					cur.x = v
					pts = append(pts, cur)
				}
			case "V":
				for _, v := range nums {
					cur.y = v
					pts = append(pts, cur)
				}
			case "", "z", "Z":
			default:
				t.Fatalf("unexpected path command %q in %q", cmd, m[1])
			}
			nums = nums[:0]
		}
		for _, tok := range pathToken.FindAllString(m[1], -1) {
			if v, err := strconv.ParseFloat(tok, 64); err == nil {
				nums = append(nums, v)
				continue
			}
			flush()
			cmd = tok
		}
		flush()
	}
	if len(pts) == 0 {
		t.Fatalf("no path data in %.300s", svg)
	}
	return pts
}

func viewBox(t *testing.T, svg string) (float64, float64) {
	t.Helper()
	m := viewBoxPattern.FindStringSubmatch(svg)
	if m == nil {
		t.Fatalf("no viewBox in %.200s", svg)
	}
	w, err1 := strconv.ParseFloat(m[1], 64)
	h, err2 := strconv.ParseFloat(m[2], 64)
	if err1 != nil || err2 != nil {
		t.Fatalf("bad viewBox %q", m[0])
	}
	return w, h
}

func yRange(pts []point) (lo, hi float64) {
	lo, hi = math.Inf(1), math.Inf(-1)
	for _, p := range pts {
		lo, hi = math.Min(lo, p.y), math.Max(hi, p.y)
	}
	return lo, hi
}

func emitSVG(t *testing.T, tree box.Node, size float64, fit bool) string {
	t.Helper()
	r := NewRendererWithOptions(Options{Registry: buffer.NewRegistry(), FitContent: fit})
	h, err := render.New(tree, size)
	if err != nil {
		t.Fatalf("render.New error: %v", err)
	}
	out, err := r.Emit(h)
	if err != nil {
		t.Fatalf("Emit error: %v", err)
	}
	return string(out)
}

func near(a, b float64) bool { return math.Abs(a-b) < coordEpsilon }

func TestSVGGlyphGeometry(t *testing.T) {
	h, _ := render.New(glyphTree(), 20)
	width, _ := h.Width()
	height, _ := h.Height()
	depth, _ := h.Depth()

	svg := emitSVG(t, glyphTree(), 20, false)
	if w, vh := viewBox(t, svg); w != float64(width) || vh != float64(height) {
		t.Fatalf("viewBox = %g x %g, want %d x %d", w, vh, width, height)
	}
	pts := pathPoints(t, svg)
	for _, p := range pts {
		if p.x < -coordEpsilon || p.x > float64(width)+coordEpsilon ||
			p.y < -coordEpsilon || p.y > float64(height+depth)+coordEpsilon {
			t.Fatalf("point %+v outside [0,%d]x[0,%d]", p, width, height+depth)
		}
	}
	// 字形占据 x∈[0,20]，顶边贴住 y=0，底边落在基线下 depth 处。
	lo, hi := yRange(pts)
	if !near(lo, 0) || !near(hi, float64(height+depth)) {
		t.Fatalf("glyph spans y %g..%g, want 0..%d", lo, hi, height+depth)
	}
	for _, p := range pts {
		if p.x > 20+coordEpsilon {
			t.Fatalf("glyph leaked into the space box: %+v", p)
		}
	}
}

// overshootTree 的字形轮廓比单元深度多出 extra 个原生单位。
func overshootTree(extra float64) box.Node {
	return &box.Group{
		Width: 1, Height: 1,
		Children: []box.Node{
			&box.Leaf{Width: 1, Height: 1, Outline: canvas.Rectangle(1, 1+extra).Translate(0, -1)},
		},
	}
}

func TestFitContentGrowsSurface(t *testing.T) {
	svg := emitSVG(t, overshootTree(1), 10, false)
	if _, vh := viewBox(t, svg); vh != 10 {
		t.Fatalf("without fit the height stays at the ascent, got %g", vh)
	}

	svg = emitSVG(t, overshootTree(1), 10, true)
	_, vh := viewBox(t, svg)
	if vh != 20 {
		t.Fatalf("fitted height = %g, want 20", vh)
	}
	lo, hi := yRange(pathPoints(t, svg))
	if !near(lo, 0) || !near(hi, 20) {
		t.Fatalf("ink spans y %g..%g, want 0..20", lo, hi)
	}
}

func TestFitContentCentersSlack(t *testing.T) {
	// 最低点 19.5，取整为 20，内容下移 0.25。
	svg := emitSVG(t, overshootTree(0.95), 10, true)
	if _, vh := viewBox(t, svg); vh != 20 {
		t.Fatalf("fitted height = %g, want 20", vh)
	}
	lo, hi := yRange(pathPoints(t, svg))
	if !near(lo, 0.25) || !near(hi, 19.75) {
		t.Fatalf("ink spans y %g..%g, want 0.25..19.75", lo, hi)
	}
}

func TestFitContentNeverShrinks(t *testing.T) {
	tree := &box.Group{
		Width: 1, Height: 2,
		Children: []box.Node{&box.Leaf{Width: 1, Height: 2, Outline: canvas.Rectangle(1, 1).Translate(0, -2)}},
	}
	svg := emitSVG(t, tree, 10, true)
	if _, vh := viewBox(t, svg); vh != 20 {
		t.Fatalf("height = %g, want the ascent 20", vh)
	}
	if lo, hi := yRange(pathPoints(t, svg)); !near(lo, 0) || !near(hi, 10) {
		t.Fatalf("content moved: y %g..%g", lo, hi)
	}
}

func TestColorFromBox(t *testing.T) {
	cases := map[box.Color]color.RGBA{
		box.Black:                     {0, 0, 0, 255},
		box.Transparent:               {0, 0, 0, 0},
		box.ARGB(0xff, 0xff, 0, 0xff): {255, 0, 255, 255},
	}
	for in, want := range cases {
		if got := colorFromBox(in); got != want {
			t.Fatalf("colorFromBox(%v) = %v, want %v", in, got, want)
		}
	}
}
