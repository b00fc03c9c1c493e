package render

import (
	"github.com/tdewolff/canvas"

	"github.com/ByLCY/texbridge/box"
)

// inkRecorder 走一遍与 Draw 相同的绘制流程，只记录实际着墨的最低点。
type inkRecorder struct {
	color   box.Color
	bottom  float64
	painted bool
}

func (g *inkRecorder) Color() box.Color       { return g.color }
func (g *inkRecorder) SetColor(c box.Color)   { g.color = c }
func (g *inkRecorder) Translate(_, _ float64) {}
func (g *inkRecorder) Scale(_, _ float64)     {}

func (g *inkRecorder) FillPath(x, y float64, p *canvas.Path) error {
	if p == nil || p.Empty() {
		return nil
	}
	g.extend(y + p.Bounds().Y1)
	return nil
}

func (g *inkRecorder) StrokeRect(x, y, w, h float64) error {
	g.extend(y + h)
	return nil
}

func (g *inkRecorder) extend(y float64) {
	if !g.painted || y > g.bottom {
		g.bottom = y
	}
	g.painted = true
}

// InkBottom 返回着墨区域最低点到顶边的距离（像素，未取整）。
// 字形可能超出所在单元的深度，因此该值可以大于 Height + Depth。
// 树中没有任何轮廓时 painted 为 false。
func (r *Render) InkBottom() (bottom float64, painted bool, err error) {
	if err := r.check(); err != nil {
		return 0, false, err
	}
	rec := &inkRecorder{}
	_, h, _ := box.Extent(r.root)
	if err := paint(rec, r.root, 0, h); err != nil {
		return 0, false, err
	}
	if !rec.painted {
		return 0, false, nil
	}
	return rec.bottom * r.fixedScale, true, nil
}
