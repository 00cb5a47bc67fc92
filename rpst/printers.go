package rpst

import (
	"fmt"
	"strings"
)

// debug utilities

func nodeStringer(n *Node) string {
	return fmt.Sprintf("(x=%d y=%d)", n.X, n.Y)
}

func nodesStringer(nodes []*Node, sep string) string {
	s := make([]string, 0, len(nodes))
	for _, n := range nodes {
		s = append(s, nodeStringer(n))
	}
	return strings.Join(s, sep)
}

// Dump renders t one node per line, indented by depth and prefixed with the
// child index the node occupies.
func Dump(t *Tree) string {
	var b strings.Builder
	fmt.Fprintf(&b, "height=%d maxx=%d\n", t.height, HeightToMaxX(t.height))
	_ = t.Walk(func(n *Node, level int) error {
		side := "-"
		if p := n.parent; p != nil {
			side = fmt.Sprint(p.childIndex(n))
		}
		fmt.Fprintf(&b, "%s%s %s\n", strings.Repeat("  ", level), side, nodeStringer(n))
		return nil
	})
	return b.String()
}

func (t *Tree) String() string {
	return Dump(t)
}
