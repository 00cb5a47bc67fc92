package rpst

import "fmt"

type pair struct{ x, y uint64 }

type verifyFrame struct {
	n     *Node
	level int
}

// Verify checks the structural invariants of t and returns an error wrapping
// the sentinel for the first violation found. It does not trust the parent
// back-references for traversal, so it can diagnose broken links.
func Verify(t *Tree) error {
	root := t.root
	if root == nil {
		return nil
	}
	if root.parent != nil {
		return fmt.Errorf("%w: root x=%d y=%d has a parent", ErrParentLink, root.X, root.Y)
	}

	maxX := HeightToMaxX(t.height)
	seen := make(map[*Node]bool)
	pairs := make(map[pair]bool)

	stack := []verifyFrame{{n: root}}
	for len(stack) > 0 {
		f := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		n := f.n

		if seen[n] {
			return fmt.Errorf("%w: x=%d y=%d reachable twice", ErrParentLink, n.X, n.Y)
		}
		seen[n] = true

		if n.owner != t {
			return fmt.Errorf("%w: x=%d y=%d", ErrOwner, n.X, n.Y)
		}
		if n.X > maxX {
			return fmt.Errorf("%w: x=%d height=%d", ErrHeightCoverage, n.X, t.height)
		}
		p := pair{n.X, n.Y}
		if pairs[p] {
			return fmt.Errorf("%w: x=%d y=%d", ErrDuplicatePair, n.X, n.Y)
		}
		pairs[p] = true

		mask := levelMask(t.height, f.level)
		childMask := levelMask(t.height, f.level+1)
		for idx, c := range n.children {
			if c == nil {
				continue
			}
			if c.parent != n {
				return fmt.Errorf("%w: x=%d y=%d child %d", ErrParentLink, n.X, n.Y, idx)
			}
			if c.Y < n.Y {
				return fmt.Errorf("%w: parent y=%d child y=%d", ErrHeapOrder, n.Y, c.Y)
			}
			if mask == 0 && idx != 0 {
				return fmt.Errorf("%w: child 1 below trie depth at level %d", ErrTrieOrder, f.level)
			}
			want := n.X&prefixMask(t.height, mask) | uint64(idx)*mask
			got := c.X & prefixMask(t.height, childMask)
			if got != want {
				return fmt.Errorf(
					"%w: x=%d at level %d child %d of x=%d", ErrTrieOrder, c.X, f.level+1, idx, n.X)
			}
			stack = append(stack, verifyFrame{n: c, level: f.level + 1})
		}
	}
	return nil
}
