package rpst

// WalkFunc is invoked for every node visited by Walk. level is the node's
// depth, 0 for the root. Returning an error halts the walk.
type WalkFunc func(n *Node, level int) error

// Walk visits every linked node depth first, parents before children and
// child 0 before child 1. Like the query iterator it keeps no stack; it
// ascends through the parent back-references.
func (t *Tree) Walk(fn WalkFunc) error {
	n := t.root
	if n == nil {
		return nil
	}
	level := 0
	if err := fn(n, level); err != nil {
		return err
	}
	idx := 0
	for {
		if idx < 2 {
			c := n.children[idx]
			if c == nil {
				idx++
				continue
			}
			n = c
			level++
			idx = 0
			if err := fn(n, level); err != nil {
				return err
			}
			continue
		}
		p := n.parent
		if p == nil {
			return nil
		}
		idx = p.childIndex(n) + 1
		n = p
		level--
	}
}

// Len counts the linked nodes. It walks the whole tree.
func (t *Tree) Len() int {
	count := 0
	_ = t.Walk(func(*Node, int) error {
		count++
		return nil
	})
	return count
}
