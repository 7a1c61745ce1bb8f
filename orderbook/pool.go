package orderbook

// node is the intrusive storage cell for one resting order (spec.md §4.1).
// It is only ever reachable two ways: through the doubly-linked list of
// its price level, and through the book's by-id index — both views share
// this same allocation, never a copy.
type node struct {
	order Order
	prev  *node
	next  *node

	// level is the price level this node currently belongs to. It is the
	// node's only back-reference; a node is never aliased into two levels
	// at once, so this is unambiguous. nil when the node is free.
	level *priceLevel
}

// pool is a free-list arena that recycles node storage instead of
// allocating and garbage-collecting one node per order. Free nodes are
// threaded through node.next; alloc/dealloc are both O(1) with no
// auxiliary heap traffic in steady state (spec.md §4.1).
type pool struct {
	free *node
}

func newPool() *pool {
	return &pool{}
}

// alloc returns a node carrying order, reusing a freed node if one is
// available, or heap-allocating a fresh one otherwise.
func (p *pool) alloc(order Order) *node {
	n := p.free
	if n == nil {
		n = &node{}
	} else {
		p.free = n.next
	}
	n.order = order
	n.prev = nil
	n.next = nil
	n.level = nil
	return n
}

// dealloc returns n to the free list. n must not be referenced by any
// level or by-id entry after this call.
func (p *pool) dealloc(n *node) {
	n.order = Order{}
	n.prev = nil
	n.level = nil
	n.next = p.free
	p.free = n
}
