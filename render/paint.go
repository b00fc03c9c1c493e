package render

import (
	"fmt"

	"github.com/ByLCY/texbridge/box"
)

// paint 递归绘制节点，(x, y) 为节点基线左端。
func paint(g Graphics, n box.Node, x, y float64) error {
	switch v := n.(type) {
	case *box.Leaf:
		if v.Outline == nil {
			return nil
		}
		return g.FillPath(x, y, v.Outline)
	case *box.Group:
		if v.Axis == box.Vertical {
			return paintVertical(g, v, x, y)
		}
		cursor := x
		for i, child := range v.Children {
			if child == nil {
				return fmt.Errorf("%w: 第 %d 个子节点为空", ErrInvalidTree, i)
			}
			if err := paint(g, child, cursor, y+box.Shift(child)); err != nil {
				return err
			}
			w, _, _ := box.Extent(child)
			cursor += w
		}
		return nil
	case *box.Decoration:
		if v.Base == nil {
			return fmt.Errorf("%w: 装饰节点缺少内容", ErrInvalidTree)
		}
		if err := paint(g, v.Base, x, y); err != nil {
			return err
		}
		if v.Kind == box.DebugFrame {
			w, h, d := box.Extent(v.Base)
			return g.StrokeRect(x, y-h, w, h+d)
		}
		return nil
	default:
		return fmt.Errorf("%w: 未知节点 %T", ErrInvalidTree, n)
	}
}

// paintVertical 自上而下排列子节点，第一个子节点的顶边与组的顶边对齐。
func paintVertical(g Graphics, v *box.Group, x, y float64) error {
	cursor := y - v.Height
	for i, child := range v.Children {
		if child == nil {
			return fmt.Errorf("%w: 第 %d 个子节点为空", ErrInvalidTree, i)
		}
		_, h, d := box.Extent(child)
		cursor += h
		if err := paint(g, child, x+box.Shift(child), cursor); err != nil {
			return err
		}
		cursor += d
	}
	return nil
}
