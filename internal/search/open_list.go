package search

// openItem is a node waiting in the open set.
type openItem struct {
	node  *Node
	seq   uint64 // insertion order, the final tie-break
	index int    // heap index
}

// openList is a container/heap min-heap ordered by f-cost, then by
// heuristic, then by insertion order. This reproduces a linear scan that
// keeps the earliest-inserted node among equal candidates.
type openList []*openItem

func (ol openList) Len() int { return len(ol) }

func (ol openList) Less(i, j int) bool {
	a, b := ol[i].node, ol[j].node
	if fa, fb := a.F(), b.F(); fa != fb {
		return fa < fb
	}
	if a.h != b.h {
		return a.h < b.h
	}
	return ol[i].seq < ol[j].seq
}

func (ol openList) Swap(i, j int) {
	ol[i], ol[j] = ol[j], ol[i]
	ol[i].index = i
	ol[j].index = j
}

func (ol *openList) Push(x interface{}) {
	it := x.(*openItem)
	it.index = len(*ol)
	*ol = append(*ol, it)
}

func (ol *openList) Pop() interface{} {
	old := *ol
	it := old[len(old)-1]
	old[len(old)-1] = nil
	*ol = old[:len(old)-1]
	it.index = -1
	return it
}
