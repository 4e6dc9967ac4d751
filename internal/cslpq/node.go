package cslpq

import "sync/atomic"

// Node is a skip-list node carrying a priority, an optional payload (V may
// be struct{} for the key-only queue), its tower height, an
// insertion-in-progress flag, and one markPtr per level.
//
// Grounded directly on original_source/include/CSLPQ/Node.hpp: the method
// set below (GetNextPointer, GetNextPointerAndMark, IsNextMarked, SetNext,
// SetNextMark, TestAndSetMark, CompareExchange, IsInserting,
// SetDoneInserting) is a one-to-one port of CSLPQ::Node<K>'s public
// surface. The C++ source keeps Node<K> and KVNode<K,V> as separate class
// templates; here a single generic type serves both (spec.md §6: "A
// single generic type with an optional value slot is equivalent"), with
// the root package's Queue[K] instantiating V as struct{}.
type Node[K Ordered[K], V any] struct {
	priority  K
	value     V
	height    int
	next      []*markPtr[K, V]
	inserting atomic.Bool
}

// newNode allocates a node with the given tower height. inserting starts
// true and is cleared once Push finishes linking the node at every level
// (spec.md §3, Lifecycle).
func newNode[K Ordered[K], V any](priority K, value V, height int) *Node[K, V] {
	n := &Node[K, V]{
		priority: priority,
		value:    value,
		height:   height,
		next:     make([]*markPtr[K, V], height),
	}
	for i := range n.next {
		n.next[i] = newMarkPtr[K, V](nil)
	}
	n.inserting.Store(true)
	return n
}

// Height returns the node's tower height.
func (n *Node[K, V]) Height() int {
	return n.height
}

// Priority returns the node's ordering key.
func (n *Node[K, V]) Priority() K {
	return n.priority
}

// Value returns the node's payload.
func (n *Node[K, V]) Value() V {
	return n.value
}

// GetNextPointer delegates to the markPtr at level.
func (n *Node[K, V]) GetNextPointer(level int) *Node[K, V] {
	return n.next[level].Load()
}

// GetNextPointerAndMark delegates to the markPtr at level.
func (n *Node[K, V]) GetNextPointerAndMark(level int) (*Node[K, V], bool) {
	return n.next[level].LoadMarked()
}

// IsNextMarked delegates to the markPtr at level.
func (n *Node[K, V]) IsNextMarked(level int) bool {
	return n.next[level].IsMarked()
}

// SetNext plainly stores a successor. Only valid while the node is still
// private to its constructor, before the first CompareExchange links it
// into the list (spec.md §4.2).
func (n *Node[K, V]) SetNext(level int, next *Node[K, V]) {
	n.next[level].Store(next)
}

// SetNextMark force-marks level > 0 as a courtesy during extraction,
// helping future searches unlink the node sooner (spec.md §4.3.5 step 3).
func (n *Node[K, V]) SetNextMark(level int) {
	n.next[level].SetMark()
}

// TestAndSetMark commits logical deletion at level 0.
func (n *Node[K, V]) TestAndSetMark(level int, expected *Node[K, V]) bool {
	return n.next[level].TestAndSetMark(expected)
}

// CompareExchange splices at level.
func (n *Node[K, V]) CompareExchange(level int, old, new *Node[K, V]) bool {
	return n.next[level].CompareAndSwap(old, new)
}

// IsInserting reports whether Push is still linking this node.
func (n *Node[K, V]) IsInserting() bool {
	return n.inserting.Load()
}

// SetDoneInserting is the publication fence Push clears after linking the
// node at every level.
func (n *Node[K, V]) SetDoneInserting() {
	n.inserting.Store(false)
}
