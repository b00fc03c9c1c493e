package box

// Filter 决定调试覆盖层中哪些节点需要描框。
type Filter func(Node) bool

// OnlyLeaves 只为字符单元描框。
func OnlyLeaves(n Node) bool {
	_, ok := n.(*Leaf)
	return ok && !IsSpace(n)
}

// NonSpace 为所有非空白节点描框。
func NonSpace(n Node) bool { return !IsSpace(n) }

// Overlay 构建一棵新的调试树：每个 Group 都重新创建（尺寸不变），
// 被 filter 接受的非空白子节点包上 DebugFrame 装饰。
// 原树的节点只被引用，不会被修改。
func Overlay(root Node, filter Filter) Node {
	if filter == nil {
		filter = NonSpace
	}
	return overlay(root, filter)
}

func overlay(n Node, filter Filter) Node {
	switch v := n.(type) {
	case *Leaf:
		return v
	case *Group:
		g := *v
		g.Children = make([]Node, len(v.Children))
		for i, child := range v.Children {
			next := overlay(child, filter)
			if child != nil && !IsSpace(child) && filter(child) {
				next = &Decoration{Base: next, Kind: DebugFrame}
			}
			g.Children[i] = next
		}
		return &g
	case *Decoration:
		return &Decoration{Base: overlay(v.Base, filter), Kind: v.Kind}
	default:
		return n
	}
}
