// Package render measures and paints a pre-built box tree.
//
// A Render borrows its tree: the tree must outlive the handle and is never
// modified by it. Width, height and depth follow the text size linearly; the
// tree itself is never re-measured.
package render

import (
	"errors"
	"fmt"
	"math"

	"github.com/ByLCY/texbridge/box"
)

var (
	// ErrDestroyed 表示句柄已销毁后仍被使用。
	ErrDestroyed = errors.New("render: 句柄已销毁")
	// ErrNilRoot 表示创建句柄时没有提供盒子树。
	ErrNilRoot = errors.New("render: 盒子树为空")
	// ErrInvalidTextSize 表示字号不是正的有限数。
	ErrInvalidTextSize = errors.New("render: 字号无效")
	// ErrInvalidTree 表示盒子树中存在空节点。
	ErrInvalidTree = errors.New("render: 盒子树结构无效")
)

// Render 包装盒子树根节点与可变的显示参数。
// 同一个 Render 不能被多个 goroutine 同时修改和使用。
type Render struct {
	root       box.Node
	textSize   float64
	fixedScale float64
	fg         box.Color
	split      bool
	destroyed  bool
}

// Option 配置新建的 Render。
type Option func(*Render)

// WithSplit 标记公式已被拆成多行。
func WithSplit(split bool) Option {
	return func(r *Render) { r.split = split }
}

// WithForeground 设置初始前景色。
func WithForeground(c box.Color) Option {
	return func(r *Render) { r.fg = c }
}

// WithDebugOverlay 用调试覆盖层替换根节点，原树保持不变。
func WithDebugOverlay(filter box.Filter) Option {
	return func(r *Render) { r.root = box.Overlay(r.root, filter) }
}

// New 以初始字号创建句柄。
func New(root box.Node, textSize float64, opts ...Option) (*Render, error) {
	if root == nil {
		return nil, ErrNilRoot
	}
	if !validSize(textSize) {
		return nil, fmt.Errorf("%w: %v", ErrInvalidTextSize, textSize)
	}
	r := &Render{
		root:       root,
		textSize:   textSize,
		fixedScale: textSize / box.ReferenceTextSize,
		fg:         box.Black,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r, nil
}

func validSize(v float64) bool {
	return v > 0 && !math.IsInf(v, 0) && !math.IsNaN(v)
}

func (r *Render) check() error {
	if r == nil || r.destroyed {
		return ErrDestroyed
	}
	return nil
}

// Destroy 释放句柄自身的状态，不影响盒子树。只能调用一次。
func (r *Render) Destroy() error {
	if err := r.check(); err != nil {
		return err
	}
	r.destroyed = true
	r.root = nil
	return nil
}

// TextSize 返回当前字号。
func (r *Render) TextSize() (float64, error) {
	if err := r.check(); err != nil {
		return 0, err
	}
	return r.textSize, nil
}

// Width 返回缩放后的宽度（像素，向零截断）。
func (r *Render) Width() (int, error) {
	if err := r.check(); err != nil {
		return 0, err
	}
	w, _, _ := box.Extent(r.root)
	return int(w * r.fixedScale), nil
}

// Height 返回缩放后的基线以上高度（像素）。
func (r *Render) Height() (int, error) {
	if err := r.check(); err != nil {
		return 0, err
	}
	_, h, _ := box.Extent(r.root)
	return int(h * r.fixedScale), nil
}

// Depth 返回缩放后的基线以下深度（像素，正值）。
func (r *Render) Depth() (int, error) {
	if err := r.check(); err != nil {
		return 0, err
	}
	_, _, d := box.Extent(r.root)
	return int(d * r.fixedScale), nil
}

// Baseline 返回 height / (height + depth)：1 表示全部在基线以上。
func (r *Render) Baseline() (float64, error) {
	if err := r.check(); err != nil {
		return 0, err
	}
	_, h, d := box.Extent(r.root)
	if h+d == 0 {
		return 0, nil
	}
	return h / (h + d), nil
}

// IsSplit 报告公式是否被拆成多行。
func (r *Render) IsSplit() (bool, error) {
	if err := r.check(); err != nil {
		return false, err
	}
	return r.split, nil
}

// SetTextSize 以 O(1) 更新缩放比例，之后的所有度量都随之变化。
func (r *Render) SetTextSize(v float64) error {
	if err := r.check(); err != nil {
		return err
	}
	if !validSize(v) {
		return fmt.Errorf("%w: %v", ErrInvalidTextSize, v)
	}
	r.textSize = v
	r.fixedScale = v / box.ReferenceTextSize
	return nil
}

// Foreground 返回设置的前景色（可能为透明哨兵值）。
func (r *Render) Foreground() (box.Color, error) {
	if err := r.check(); err != nil {
		return box.Transparent, err
	}
	return r.fg, nil
}

// SetForeground 保存前景色。透明色在绘制时按黑色处理。
func (r *Render) SetForeground(c box.Color) error {
	if err := r.check(); err != nil {
		return err
	}
	r.fg = c
	return nil
}

// Draw 在 (x, y) 处绘制，基线位于 y + 根节点高度处（即 y 为顶边）。
// 无论绘制是否出错，颜色与变换都会恢复。
func (r *Render) Draw(g Graphics, x, y float64) (err error) {
	if err := r.check(); err != nil {
		return err
	}
	if g == nil {
		return errors.New("render: 绘图上下文为空")
	}
	scale := r.fixedScale
	root := r.root

	old := g.Color()
	defer g.SetColor(old)
	fg := r.fg
	if fg.IsTransparent() {
		fg = box.Black
	}
	g.SetColor(fg)

	g.Translate(x, y)
	defer g.Translate(-x, -y)
	g.Scale(scale, scale)
	defer g.Scale(1/scale, 1/scale)

	_, h, _ := box.Extent(root)
	return paint(g, root, 0, h)
}
