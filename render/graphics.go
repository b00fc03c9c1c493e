package render

import (
	"github.com/tdewolff/canvas"

	"github.com/ByLCY/texbridge/box"
)

// Graphics 是绘制盒子树所需的最小绘图上下文，由调用方提供。
// 坐标系原点在左上角，y 轴向下。
type Graphics interface {
	Color() box.Color
	SetColor(c box.Color)
	Translate(dx, dy float64)
	Scale(sx, sy float64)
	// FillPath 以当前颜色填充 p，p 的原点放在 (x, y)。
	FillPath(x, y float64, p *canvas.Path) error
	// StrokeRect 以当前颜色描出左上角为 (x, y) 的矩形。
	StrokeRect(x, y, w, h float64) error
}
