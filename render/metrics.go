package render

import (
	"github.com/ByLCY/texbridge/box"
)

// KeyCharMetrics 先序遍历盒子树，收集每个字符单元的高度与深度（原生单位，截断为整数）。
// 截断后高度不大于 0 的叶子视为空白，不计入。两个切片长度始终相同。
func KeyCharMetrics(root box.Node) (heights, depths []int) {
	heights = []int{}
	depths = []int{}
	var walk func(n box.Node)
	walk = func(n box.Node) {
		switch v := n.(type) {
		case *box.Leaf:
			if h := int(v.Height); h > 0 {
				heights = append(heights, h)
				depths = append(depths, int(v.Depth))
			}
		case *box.Group:
			for _, child := range v.Children {
				walk(child)
			}
		case *box.Decoration:
			walk(v.Base)
		case nil:
		}
	}
	walk(root)
	return heights, depths
}

// BoxTreeHeight 返回根节点未缩放的 height + depth（原生单位）。
func BoxTreeHeight(root box.Node) float64 {
	_, h, d := box.Extent(root)
	return h + d
}

// NativeToPixelRatio 计算 native / pixels。任一值不大于 0 时返回 1，不做换算。
// KeyCharMetrics 的每个值除以该比例即可与像素比较。
func NativeToPixelRatio(native float64, pixels int) float64 {
	if native <= 0 || pixels <= 0 {
		return 1
	}
	return native / float64(pixels)
}

// KeyCharMetrics 对句柄当前的根节点执行提取。
func (r *Render) KeyCharMetrics() (heights, depths []int, err error) {
	if err := r.check(); err != nil {
		return nil, nil, err
	}
	heights, depths = KeyCharMetrics(r.root)
	return heights, depths, nil
}

// BoxTreeHeight 返回句柄根节点的原生总高度。
func (r *Render) BoxTreeHeight() (float64, error) {
	if err := r.check(); err != nil {
		return 0, err
	}
	return BoxTreeHeight(r.root), nil
}

// Stats 汇总关键字符高度，JSON 字段名与宿主侧约定一致。
type Stats struct {
	Heights       []int   `json:"key_char_heights"`
	Count         int     `json:"key_char_count"`
	Average       float64 `json:"average_char_height"`
	Max           int     `json:"max_char_height"`
	Min           int     `json:"min_char_height"`
	BoxTreeHeight float64 `json:"box_tree_height"`
}

// Summarize 计算平均、最大、最小高度。空输入时各统计量为 0。
func Summarize(heights []int, boxTreeHeight float64) Stats {
	s := Stats{Heights: heights, Count: len(heights), BoxTreeHeight: boxTreeHeight}
	if s.Heights == nil {
		s.Heights = []int{}
	}
	if len(heights) == 0 {
		return s
	}
	s.Max, s.Min = heights[0], heights[0]
	sum := 0
	for _, h := range heights {
		sum += h
		s.Max = max(s.Max, h)
		s.Min = min(s.Min, h)
	}
	s.Average = float64(sum) / float64(len(heights))
	return s
}

// Stats 提取并汇总句柄的关键字符度量。
func (r *Render) Stats() (Stats, error) {
	heights, _, err := r.KeyCharMetrics()
	if err != nil {
		return Stats{}, err
	}
	return Summarize(heights, BoxTreeHeight(r.root)), nil
}

// Metrics 为渲染结果的像素尺寸。Height 为总高度（ascent + depth），Ascent 仅为基线以上部分。
type Metrics struct {
	Width  int `json:"width"`
	Height int `json:"height"`
	Depth  int `json:"depth"`
	Ascent int `json:"ascent"`
}

// AspectRatio 返回 width / height，高度不大于 0 时为 1。
func (m Metrics) AspectRatio() float64 {
	if m.Height > 0 {
		return float64(m.Width) / float64(m.Height)
	}
	return 1
}

// BaselineRatio 返回 ascent / height，高度不大于 0 时为 0.5。
func (m Metrics) BaselineRatio() float64 {
	if m.Height > 0 {
		return float64(m.Ascent) / float64(m.Height)
	}
	return 0.5
}

// Metrics 读取句柄当前字号下的像素尺寸。
func (r *Render) Metrics() (Metrics, error) {
	if err := r.check(); err != nil {
		return Metrics{}, err
	}
	w, _ := r.Width()
	h, _ := r.Height()
	d, _ := r.Depth()
	return Metrics{Width: w, Height: h + d, Depth: d, Ascent: h}, nil
}
