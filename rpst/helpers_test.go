package rpst

import (
	"sort"
	"testing"

	"github.com/stretchr/testify/require"
)

func requireValid(t *testing.T, tree *Tree) {
	t.Helper()
	require.NoError(t, Verify(tree), "tree:\n%s", Dump(tree))
}

func insertAll(t *testing.T, tree *Tree, pairs ...[2]uint64) []*Node {
	t.Helper()
	nodes := make([]*Node, 0, len(pairs))
	for _, p := range pairs {
		n := NewNode(p[0], p[1])
		require.Nil(t, tree.Insert(n))
		nodes = append(nodes, n)
	}
	return nodes
}

// linearScan is the oracle for queries.
func linearScan(nodes []*Node, maxY, minX, maxX uint64) []*Node {
	var found []*Node
	for _, n := range nodes {
		if n.Y <= maxY && n.X >= minX && n.X <= maxX {
			found = append(found, n)
		}
	}
	return found
}

func sorted(nodes []*Node) []*Node {
	out := append([]*Node(nil), nodes...)
	sort.Slice(out, func(i, j int) bool {
		if out[i].X == out[j].X {
			return out[i].Y < out[j].Y
		}
		return out[i].X < out[j].X
	})
	return out
}

func requireSameNodes(t *testing.T, want, got []*Node) {
	t.Helper()
	want, got = sorted(want), sorted(got)
	require.Equal(t, len(want), len(got),
		"want [%s] got [%s]", nodesStringer(want, ", "), nodesStringer(got, ", "))
	for i := range want {
		require.Same(t, want[i], got[i],
			"want [%s] got [%s]", nodesStringer(want, ", "), nodesStringer(got, ", "))
	}
}
