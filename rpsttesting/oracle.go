package rpsttesting

import (
	"math/rand"

	"github.com/forestrie/go-rpst/rpst"
)

type pair struct{ x, y uint64 }

// Oracle is a linear scan model of the set of linked nodes.
type Oracle struct {
	nodes []*rpst.Node
	index map[*rpst.Node]int
	pairs map[pair]*rpst.Node
	maxX  uint64
}

func NewOracle() *Oracle {
	return &Oracle{
		index: make(map[*rpst.Node]int),
		pairs: make(map[pair]*rpst.Node),
	}
}

func (o *Oracle) Len() int { return len(o.nodes) }

// MaxInsertedX is the largest x ever added, including since-removed nodes.
func (o *Oracle) MaxInsertedX() uint64 { return o.maxX }

// Find returns the node holding (x, y), or nil.
func (o *Oracle) Find(x, y uint64) *rpst.Node {
	return o.pairs[pair{x, y}]
}

func (o *Oracle) Add(n *rpst.Node) {
	o.index[n] = len(o.nodes)
	o.nodes = append(o.nodes, n)
	o.pairs[pair{n.X, n.Y}] = n
	if n.X > o.maxX {
		o.maxX = n.X
	}
}

func (o *Oracle) Delete(n *rpst.Node) {
	i, ok := o.index[n]
	if !ok {
		return
	}
	last := len(o.nodes) - 1
	o.nodes[i] = o.nodes[last]
	o.index[o.nodes[i]] = i
	o.nodes = o.nodes[:last]
	delete(o.index, n)
	delete(o.pairs, pair{n.X, n.Y})
}

// Pick returns a random member, or nil when empty.
func (o *Oracle) Pick(rng *rand.Rand) *rpst.Node {
	if len(o.nodes) == 0 {
		return nil
	}
	return o.nodes[rng.Intn(len(o.nodes))]
}

// Query returns every member with y <= maxY and minX <= x <= maxX.
func (o *Oracle) Query(maxY, minX, maxX uint64) []*rpst.Node {
	var found []*rpst.Node
	for _, n := range o.nodes {
		if n.Y <= maxY && n.X >= minX && n.X <= maxX {
			found = append(found, n)
		}
	}
	return found
}

// Nodes returns the members in no particular order.
func (o *Oracle) Nodes() []*rpst.Node {
	return append([]*rpst.Node(nil), o.nodes...)
}
