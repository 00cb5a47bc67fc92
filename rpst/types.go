package rpst

import "errors"

// MaxHeight is the height at which the tree addresses the whole uint64 domain.
const MaxHeight = 63

var (
	// Contract violations. The tree panics with an error wrapping one of these.
	ErrNilNode       = errors.New("rpst: nil node")
	ErrNodeLinked    = errors.New("rpst: node is already linked into a tree")
	ErrNodeNotLinked = errors.New("rpst: node is not linked into this tree")
	ErrInvalidRange  = errors.New("rpst: invalid query range")
	ErrNilIterator   = errors.New("rpst: nil iterator")
)

var (
	// Verify failures.
	ErrHeapOrder      = errors.New("rpst: heap order violated")
	ErrTrieOrder      = errors.New("rpst: trie order violated")
	ErrParentLink     = errors.New("rpst: parent back-reference inconsistent")
	ErrOwner          = errors.New("rpst: node owner inconsistent")
	ErrHeightCoverage = errors.New("rpst: height does not cover x")
	ErrDuplicatePair  = errors.New("rpst: duplicate (x, y) pair linked")
)

// Node is the record the tree links. It is owned by the caller.
//
// X is the trie key and Y the priority (smaller is nearer the root). Both may
// only be set while the node is unlinked.
type Node struct {
	X uint64
	Y uint64

	parent   *Node
	children [2]*Node
	owner    *Tree
}

// NewNode returns an unlinked node for (x, y).
func NewNode(x, y uint64) *Node {
	return &Node{X: x, Y: y}
}

// Parent returns the node holding n as a child, or nil for the root or an
// unlinked node.
func (n *Node) Parent() *Node {
	return n.parent
}

// Child returns child idx (0 or 1).
func (n *Node) Child(idx int) *Node {
	return n.children[idx&1]
}

// Linked reports whether n is currently linked into a tree.
func (n *Node) Linked() bool {
	return n.owner != nil
}

// childIndex returns the slot index c occupies in n.
func (n *Node) childIndex(c *Node) int {
	if n.children[1] == c {
		return 1
	}
	return 0
}

// adopt sets n's children and re-points their parent references at n.
func (n *Node) adopt(c0, c1 *Node) {
	n.children[0] = c0
	n.children[1] = c1
	n.fixParentLinks()
}

func (n *Node) fixParentLinks() {
	for _, c := range n.children {
		if c != nil {
			c.parent = n
		}
	}
}

func (n *Node) unlink() {
	n.parent = nil
	n.children = [2]*Node{}
	n.owner = nil
}
