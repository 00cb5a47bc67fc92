package rpst_test

import (
	"fmt"

	"github.com/forestrie/go-rpst/rpst"
)

// lease is a caller record indexed by (start address, expiry).
type lease struct {
	rpst.Node
	name string
}

func Example() {
	leases := []*lease{
		{Node: rpst.Node{X: 10, Y: 5}, name: "a"},
		{Node: rpst.Node{X: 3, Y: 9}, name: "b"},
		{Node: rpst.Node{X: 20, Y: 1}, name: "c"},
	}
	byNode := make(map[*rpst.Node]*lease)

	tree := rpst.NewTree()
	for _, l := range leases {
		if existing := tree.Insert(&l.Node); existing != nil {
			fmt.Println("duplicate of", byNode[existing].name)
			continue
		}
		byNode[&l.Node] = l
	}
	fmt.Println("root", byNode[tree.Root()].name)

	// expiring by 9 with an address in [0, 15]
	var it rpst.Iterator
	count := 0
	for n := tree.IterateFirst(&it, 9, 0, 15); n != nil; n = it.Next() {
		count++
	}
	fmt.Println("matches", count)

	tree.Remove(&leases[2].Node)
	fmt.Println("root", byNode[tree.Root()].name)

	// Output:
	// root c
	// matches 2
	// root a
}
