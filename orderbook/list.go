package orderbook

// intrusiveList is a doubly-linked FIFO threaded through node.prev/next.
// All operations are O(1) given a node pointer obtained from a previous
// pushBack (spec.md §4.1).
type intrusiveList struct {
	head *node
	tail *node
	size int
}

// pushBack appends n to the tail of the list.
func (l *intrusiveList) pushBack(n *node) {
	n.prev = l.tail
	n.next = nil
	if l.tail != nil {
		l.tail.next = n
	} else {
		l.head = n
	}
	l.tail = n
	l.size++
}

// popFront removes and returns the head of the list, or nil if empty.
func (l *intrusiveList) popFront() *node {
	n := l.head
	if n == nil {
		return nil
	}
	l.remove(n)
	return n
}

// remove unlinks n from the list. A nil n is a no-op. Removing the head,
// tail, a middle node, or the only node all leave head/tail consistent:
// both nil when the list becomes empty.
func (l *intrusiveList) remove(n *node) {
	if n == nil {
		return
	}
	if n.prev != nil {
		n.prev.next = n.next
	} else if l.head == n {
		l.head = n.next
	}
	if n.next != nil {
		n.next.prev = n.prev
	} else if l.tail == n {
		l.tail = n.prev
	}
	n.prev = nil
	n.next = nil
	l.size--
}

func (l *intrusiveList) isEmpty() bool {
	return l.head == nil
}

// forEach iterates oldest-first, stopping early if fn returns false.
// Non-destructive: fn must not unlink n itself mid-iteration without
// capturing n.next first.
func (l *intrusiveList) forEach(fn func(n *node) bool) {
	for n := l.head; n != nil; {
		next := n.next
		if !fn(n) {
			return
		}
		n = next
	}
}
