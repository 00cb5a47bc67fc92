package rpst

import (
	"fmt"
	"iter"
)

// Iterator is the resumable state of a 3-sided query. It is caller owned and
// holds no references beyond the tree it walks. The tree must not be modified
// while an iteration is in progress.
type Iterator struct {
	tree  *Tree
	cur   *Node
	idx   int
	level int

	maxY uint64
	minX uint64
	maxX uint64
}

// IterateFirst starts a query for nodes with Y <= maxY and minX <= X <= maxX
// and returns the first match, or nil if there is none. Subsequent matches are
// returned by it.Next.
//
// IterateFirst panics if minX > maxX.
func (t *Tree) IterateFirst(it *Iterator, maxY, minX, maxX uint64) *Node {
	if it == nil {
		panic(ErrNilIterator)
	}
	if minX > maxX {
		panic(fmt.Errorf("%w: minX=%d > maxX=%d", ErrInvalidRange, minX, maxX))
	}
	*it = Iterator{tree: t}

	root := t.root
	if root == nil || root.Y > maxY {
		return nil
	}
	domain := HeightToMaxX(t.height)
	if minX > domain {
		return nil
	}
	if maxX > domain {
		// The edge tests compare addressable bits only.
		maxX = domain
	}

	it.cur = root
	it.level = 0
	it.maxY, it.minX, it.maxX = maxY, minX, maxX
	it.idx, _ = it.bounds(root, levelMask(t.height, 0))
	return it.Next()
}

// IterateNext returns the next match of it, or nil once the query is
// exhausted.
func IterateNext(it *Iterator) *Node {
	if it == nil {
		panic(ErrNilIterator)
	}
	return it.Next()
}

// Next returns the next match, or nil once the query is exhausted. Calling
// Next on an exhausted iterator keeps returning nil.
//
// The cursor on each node runs through its permissible children
// [minIdx, maxIdx], then maxIdx+1 examines the node itself and maxIdx+2
// ascends to the parent.
func (it *Iterator) Next() *Node {
	n := it.cur
	if n == nil {
		return nil
	}
	height := it.tree.height
	idx := it.idx
	level := it.level
	mask := levelMask(height, level)

	for {
		_, maxIdx := it.bounds(n, mask)

		switch {
		case idx > maxIdx+1:
			p := n.parent
			if p == nil {
				it.cur = nil
				return nil
			}
			idx = p.childIndex(n) + 1
			n = p
			level--
			mask = levelMask(height, level)

		case idx == maxIdx+1:
			idx++
			if n.X >= it.minX && n.X <= it.maxX {
				it.cur, it.idx, it.level = n, idx, level
				return n
			}

		default:
			c := n.children[idx]
			if c == nil || c.Y > it.maxY {
				idx++
				continue
			}
			n = c
			level++
			mask = levelMask(height, level)
			idx, _ = it.bounds(n, mask)
		}
	}
}

// bounds returns the permissible child index range for n, whose level tests
// mask. A node whose path prefix equals minX's can only hold matches on the
// side of minX's bit at this level, likewise for maxX.
func (it *Iterator) bounds(n *Node, mask uint64) (minIdx, maxIdx int) {
	prefix := prefixMask(it.tree.height, mask)
	maxIdx = 1
	if (n.X^it.minX)&prefix == 0 && it.minX&mask != 0 {
		minIdx = 1
	}
	if (n.X^it.maxX)&prefix == 0 && it.maxX&mask == 0 {
		maxIdx = 0
	}
	return minIdx, maxIdx
}

// Query returns the matches of the 3-sided query as a sequence. It panics if
// minX > maxX.
func (t *Tree) Query(maxY, minX, maxX uint64) iter.Seq[*Node] {
	if minX > maxX {
		panic(fmt.Errorf("%w: minX=%d > maxX=%d", ErrInvalidRange, minX, maxX))
	}
	return func(yield func(*Node) bool) {
		var it Iterator
		for n := t.IterateFirst(&it, maxY, minX, maxX); n != nil; n = it.Next() {
			if !yield(n) {
				return
			}
		}
	}
}

// Collect returns all matches of the 3-sided query.
func (t *Tree) Collect(maxY, minX, maxX uint64) []*Node {
	var found []*Node
	for n := range t.Query(maxY, minX, maxX) {
		found = append(found, n)
	}
	return found
}
