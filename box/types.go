package box

import "github.com/tdewolff/canvas"

// 该文件定义排版引擎产出的盒子树。树由外部引擎构建，这里只读取、不修改。

// ReferenceTextSize 是排版引擎计算盒子尺寸时使用的基准字号。
// 渲染时的缩放比例 fixedScale = textSize / ReferenceTextSize。
const ReferenceTextSize = 1.0

// Node 是盒子树的节点，只有 *Leaf、*Group、*Decoration 三种实现。
// 遍历时一律使用 type switch 穷举这三种形态。
type Node interface {
	node()
}

// Axis 决定 Group 内子节点的排列方向。
type Axis int

const (
	Horizontal Axis = iota // 从左到右
	Vertical               // 从上到下
)

// DecorationKind 区分装饰节点的绘制方式。
type DecorationKind int

const (
	Plain      DecorationKind = iota // 只绘制被包裹的节点
	DebugFrame                       // 绘制完成后描出外框，用于调试
)

// Leaf 表示单个字符单元。
// Outline 为可选的字形轮廓（原生单位），原点位于基线左端，y 轴向下。
type Leaf struct {
	Width   float64
	Height  float64
	Depth   float64
	Outline *canvas.Path
}

// Group 表示一组子节点。Height/Depth 由排版引擎自底向上算好，这里不重算。
// Shift 为相对父节点基线的下移量（正值向下）。
type Group struct {
	Children []Node
	Width    float64
	Height   float64
	Depth    float64
	Shift    float64
	Axis     Axis
}

// Decoration 包裹另一个节点，例如调试外框。
type Decoration struct {
	Base Node
	Kind DecorationKind
}

func (*Leaf) node()       {}
func (*Group) node()      {}
func (*Decoration) node() {}

// Extent 返回节点的宽、高（基线以上）与深度（基线以下）。
// Decoration 的尺寸与其包裹的节点一致；nil 节点返回全零。
func Extent(n Node) (width, height, depth float64) {
	switch v := n.(type) {
	case *Leaf:
		return v.Width, v.Height, v.Depth
	case *Group:
		return v.Width, v.Height, v.Depth
	case *Decoration:
		return Extent(v.Base)
	default:
		return 0, 0, 0
	}
}

// Shift 返回节点相对父基线的偏移，只有 Group 携带偏移。
func Shift(n Node) float64 {
	switch v := n.(type) {
	case *Group:
		return v.Shift
	case *Decoration:
		return Shift(v.Base)
	default:
		return 0
	}
}

// IsSpace 判断节点是否为纯空白：没有轮廓的叶子只占位置、不产生笔画。
func IsSpace(n Node) bool {
	leaf, ok := n.(*Leaf)
	return ok && leaf.Outline == nil
}
