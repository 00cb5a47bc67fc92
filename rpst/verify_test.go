package rpst

import (
	"testing"

	"github.com/stretchr/testify/require"
)

// buildFixture returns a small valid tree whose root has both children.
func buildFixture(t *testing.T) (*Tree, []*Node) {
	tree := NewTree()
	nodes := insertAll(t, tree, [2]uint64{5, 1}, [2]uint64{2, 4}, [2]uint64{13, 6}, [2]uint64{0, 9})
	requireValid(t, tree)
	require.NotNil(t, tree.Root().Child(0))
	require.NotNil(t, tree.Root().Child(1))
	return tree, nodes
}

func TestVerifyDetectsCorruption(t *testing.T) {
	tests := []struct {
		name    string
		corrupt func(tree *Tree, nodes []*Node)
		wantErr error
	}{
		{
			name: "heap order",
			corrupt: func(tree *Tree, nodes []*Node) {
				tree.Root().Child(1).Y = 0
			},
			wantErr: ErrHeapOrder,
		},
		{
			name: "trie order",
			corrupt: func(tree *Tree, nodes []*Node) {
				c := tree.Root().Child(1)
				c.X &^= 8
			},
			wantErr: ErrTrieOrder,
		},
		{
			name: "parent link",
			corrupt: func(tree *Tree, nodes []*Node) {
				tree.Root().Child(0).parent = nil
			},
			wantErr: ErrParentLink,
		},
		{
			name: "root with parent",
			corrupt: func(tree *Tree, nodes []*Node) {
				tree.Root().parent = tree.Root().Child(0)
			},
			wantErr: ErrParentLink,
		},
		{
			name: "owner",
			corrupt: func(tree *Tree, nodes []*Node) {
				tree.Root().Child(0).owner = nil
			},
			wantErr: ErrOwner,
		},
		{
			name: "height coverage",
			corrupt: func(tree *Tree, nodes []*Node) {
				tree.height = 2
			},
			wantErr: ErrHeightCoverage,
		},
		{
			name: "duplicate pair",
			corrupt: func(tree *Tree, nodes []*Node) {
				leaf := tree.Root().Child(0)
				for leaf.Child(0) != nil {
					leaf = leaf.Child(0)
				}
				dup := &Node{X: leaf.X, Y: leaf.Y, parent: leaf, owner: tree}
				leaf.children[0] = dup
			},
			wantErr: ErrDuplicatePair,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tree, nodes := buildFixture(t)
			tt.corrupt(tree, nodes)
			require.ErrorIs(t, Verify(tree), tt.wantErr)
		})
	}
}

func TestVerifyEmpty(t *testing.T) {
	require.NoError(t, Verify(NewTree()))
}
