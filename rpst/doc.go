package rpst

/*

# Radix priority search tree

This package provides an in-memory index over (x, y) pairs of 64-bit keys
which answers 3-sided queries,

	y <= maxY && minX <= x && x <= maxX

without a scan. A single binary tree is simultaneously

1. a radix trie on x, branching MSB-first on one bit of x per level, and
2. a min-heap on y, smaller y nearer the root.

It follows the same "primitives" style as go-merklelog/mmr and urkle:

- small, composable operations
- position is arithmetic (depth and accumulated bit tests), not node identity
- a burden of knowledge on the caller

## Ownership

The tree never allocates or frees the records it indexes. Callers embed a Node
in their own record (or keep a side map from *Node to their record) and hand
the tree a pointer. Insert links the node, Remove unlinks it. X and Y must not
be changed while a node is linked.

## Height

Height h addresses x in [0, 2^(h+1) - 1]; height 63 addresses the full uint64
domain. The level 0 mask is 1<<h and each level halves it. Past level h the
mask is zero, so every x tests 0 and nodes sharing an x chain through child 0
as a plain min-heap on y.

Inserting an x beyond the current range grows the tree: the current root (the
global minimum y) is removed, the remaining structure becomes its child 0, and
the height increases by one. The height never shrinks, including on removal.

## Invariants

After every public operation:

1. heap: for every node n with parent p, p.Y <= n.Y
2. trie: a node reached through children c0..c(L-1) has, for each level l < L,
   (x & mask(l)) != 0 iff c(l) == 1
3. no two linked nodes share both x and y
4. HeightToMaxX(height) covers every linked x

Verify checks all of them and is used heavily by the tests and by the
rpsttesting stress harness.

## Concurrency

None. The tree is unsynchronized; callers serialize mutation and exclude
readers during writes. Every operation is bounded by the depth of the tree.

## Queries

IterateFirst / IterateNext walk the tree depth first without recursion or an
explicit stack. The Iterator holds the current node, a child cursor and the
level; ascending uses the parent back-reference. Subtrees whose root exceeds
maxY are pruned (the heap property makes the whole subtree ineligible) and the
x bounds restrict which children are entered while a node sits on the edge of
minX or maxX.

*/
