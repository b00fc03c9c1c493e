package canvasrenderer

import (
	"fmt"
	"image/color"

	"github.com/tdewolff/canvas"

	"github.com/ByLCY/texbridge/box"
	"github.com/ByLCY/texbridge/render"
)

// frameStrokeWidth 为调试外框的线宽（原生单位，随字号缩放）。
const frameStrokeWidth = 0.02

// Graphics 在 canvas.Context 上实现 render.Graphics。
// 坐标系设为 CartesianIV，使原点位于左上角、y 轴向下，与盒子树一致。
type Graphics struct {
	ctx   *canvas.Context
	view  canvas.Matrix
	color box.Color
}

var _ render.Graphics = (*Graphics)(nil)

// NewGraphics 绑定一个绘图上下文，初始颜色为黑色。
func NewGraphics(ctx *canvas.Context) *Graphics {
	ctx.SetCoordSystem(canvas.CartesianIV)
	g := &Graphics{ctx: ctx, view: canvas.Identity}
	g.SetColor(box.Black)
	return g
}

func (g *Graphics) Color() box.Color { return g.color }

func (g *Graphics) SetColor(c box.Color) {
	g.color = c
	g.ctx.SetFillColor(colorFromBox(c))
}

func (g *Graphics) Translate(dx, dy float64) {
	g.view = g.view.Translate(dx, dy)
	g.ctx.SetView(g.view)
}

func (g *Graphics) Scale(sx, sy float64) {
	g.view = g.view.Scale(sx, sy)
	g.ctx.SetView(g.view)
}

// FillPath 只填充不描边。
func (g *Graphics) FillPath(x, y float64, p *canvas.Path) error {
	if p == nil {
		return fmt.Errorf("canvas: 路径为空")
	}
	g.ctx.SetFillColor(colorFromBox(g.color))
	g.ctx.SetStrokeColor(canvas.Transparent)
	g.ctx.DrawPath(x, y, p)
	return nil
}

// StrokeRect 只描边不填充，完成后恢复填充色。
func (g *Graphics) StrokeRect(x, y, w, h float64) error {
	if w < 0 || h < 0 {
		return fmt.Errorf("canvas: 矩形尺寸为负 (%g, %g)", w, h)
	}
	g.ctx.SetFillColor(canvas.Transparent)
	g.ctx.SetStrokeColor(colorFromBox(g.color))
	g.ctx.SetStrokeWidth(frameStrokeWidth)
	g.ctx.DrawPath(x, y, canvas.Rectangle(w, h))
	g.ctx.SetStrokeColor(canvas.Transparent)
	g.ctx.SetFillColor(colorFromBox(g.color))
	return nil
}

func colorFromBox(c box.Color) color.Color {
	return canvas.RGBA(float64(c.R())/255.0, float64(c.G())/255.0, float64(c.B())/255.0, float64(c.A())/255.0)
}
