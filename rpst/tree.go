package rpst

import "fmt"

// Tree is the handle for a radix priority search tree. The zero value is an
// empty tree of height 0.
type Tree struct {
	root   *Node
	height uint8
}

// NewTree returns an empty tree.
func NewTree() *Tree {
	t := &Tree{}
	t.Init()
	return t
}

// Init resets t to the empty tree. Nodes previously linked into t are not
// touched; callers must not reuse them without discarding t first.
func (t *Tree) Init() {
	t.root = nil
	t.height = 0
}

func (t *Tree) Root() *Node { return t.root }

func (t *Tree) Height() uint8 { return t.height }

func (t *Tree) Empty() bool { return t.root == nil }

// MaxX returns the largest x addressable at the current height.
func (t *Tree) MaxX() uint64 { return HeightToMaxX(t.height) }

// Insert links n into the tree.
//
// If a node with the same (X, Y) is already linked, that node is returned and
// the tree is unchanged. Otherwise n is linked and nil is returned.
//
// Insert panics if n is nil or already linked.
func (t *Tree) Insert(n *Node) *Node {
	if n == nil {
		panic(ErrNilNode)
	}
	if n.owner != nil {
		panic(fmt.Errorf("%w: x=%d y=%d", ErrNodeLinked, n.X, n.Y))
	}
	t.enlarge(n.X)

	var parent *Node
	slot := &t.root
	mask := levelMask(t.height, 0)
	cur := n
	cur.children = [2]*Node{}
	cur.parent = nil

	for {
		occ := *slot
		if occ == nil {
			*slot = cur
			cur.parent = parent
			cur.owner = t
			return nil
		}
		if occ.X == cur.X && occ.Y == cur.Y {
			// Only the incoming node can collide: every ancestor of an
			// existing equal pair has y <= its y, so no swap precedes this.
			return occ
		}
		if cur.Y < occ.Y {
			// cur takes the position; occ is carried on down.
			cur.adopt(occ.children[0], occ.children[1])
			cur.parent = parent
			cur.owner = t
			*slot = cur
			occ.children = [2]*Node{}
			occ.parent = nil
			cur, occ = occ, cur
		}
		idx := bitIndex(cur.X, mask)
		parent = occ
		slot = &occ.children[idx]
		mask >>= 1
	}
}

// Remove unlinks n from the tree. The hole n leaves is filled by melding its
// two subtrees. The height is unchanged.
//
// Remove panics if n is not linked into t.
func (t *Tree) Remove(n *Node) {
	if n == nil {
		panic(ErrNilNode)
	}
	if n.owner != t {
		panic(fmt.Errorf("%w: x=%d y=%d", ErrNodeNotLinked, n.X, n.Y))
	}
	slot := t.slotOf(n)
	meld(slot, n.parent, n.children[0], n.children[1])
	n.unlink()
}

// slotOf returns the reference that currently points at n.
func (t *Tree) slotOf(n *Node) **Node {
	p := n.parent
	if p == nil {
		if t.root != n {
			panic(fmt.Errorf("%w: orphaned x=%d y=%d", ErrNodeNotLinked, n.X, n.Y))
		}
		return &t.root
	}
	return &p.children[p.childIndex(n)]
}

// meld fills *slot, whose parent is parent, from the two subtrees l and r that
// hang at the slot's child positions 0 and 1.
//
// The root with the smaller y (l on ties) is promoted into the slot and keeps
// the other subtree as its sibling child; the position it vacated is then
// filled from its own two children, and so on down to a leaf. Trie positions
// depend only on depth and bit tests, so promoting a node one level is always
// legal.
func meld(slot **Node, parent *Node, l, r *Node) {
	for {
		if l == nil && r == nil {
			*slot = nil
			return
		}
		var top *Node
		var next **Node
		var nl, nr *Node
		if r == nil || (l != nil && l.Y <= r.Y) {
			top = l
			nl, nr = l.children[0], l.children[1]
			top.adopt(nil, r)
			next = &top.children[0]
		} else {
			top = r
			nl, nr = r.children[0], r.children[1]
			top.adopt(l, nil)
			next = &top.children[1]
		}
		top.parent = parent
		*slot = top

		slot, parent, l, r = next, top, nl, nr
	}
}

// enlarge grows the height until x is addressable. The current root, being
// the global minimum y, is lifted out and re-seated above everything else;
// every linked x has its new top bit clear so the old structure is legal as
// child 0.
func (t *Tree) enlarge(x uint64) {
	for x > HeightToMaxX(t.height) {
		if root := t.root; root != nil {
			t.Remove(root)
			root.adopt(t.root, nil)
			root.parent = nil
			root.owner = t
			t.root = root
		}
		t.height++
	}
}
