package cslpq

import "sync/atomic"

// link is the immutable value a markPtr points to: a successor reference
// plus the one-bit logical-deletion mark, updated together by a single
// atomic.Pointer compare-and-swap.
//
// The original C++ (CSLPQ::MarkedSharedPointer) packs (pointer, mark) into
// the spare bit of a tagged 128-bit reference-counted pointer and manages
// a split external/local reference count so a node can't be freed while a
// traversing thread still holds it (see original_source/include/CSLPQ/
// MarkedPointer.hpp and Pointers.hpp). Go doesn't need that: the garbage
// collector already keeps a node alive for as long as any local variable
// or atomic load holds a reference to it. What's left is exactly the part
// spec.md §4.1 calls out as still required in a language without a native
// double-word CAS: "pack (pointer, mark) into the value of a wide atomic".
// Here that wide atomic is atomic.Pointer[link[K,V]] over an immutable
// struct, the same idiom the teacher already uses for lock-free pointer
// fields (internal/memtable/skiplist.go: next []*atomic.Pointer[skipNode]),
// generalized with a mark bit riding along in the pointed-to value.
type link[K Ordered[K], V any] struct {
	next   *Node[K, V]
	marked bool
}

// markPtr is the markable atomic pointer (MAP) of spec.md §4.1: Load,
// Store, CompareAndSwap, TestAndSetMark and SetMark, each linearizable.
type markPtr[K Ordered[K], V any] struct {
	v atomic.Pointer[link[K, V]]
}

func newMarkPtr[K Ordered[K], V any](next *Node[K, V]) *markPtr[K, V] {
	p := &markPtr[K, V]{}
	p.v.Store(&link[K, V]{next: next})
	return p
}

// Load atomically obtains the current successor (may be nil).
func (p *markPtr[K, V]) Load() *Node[K, V] {
	return p.v.Load().next
}

// LoadMarked atomically obtains the current successor and mark together.
func (p *markPtr[K, V]) LoadMarked() (*Node[K, V], bool) {
	l := p.v.Load()
	return l.next, l.marked
}

// IsMarked reports whether the mark bit is currently set.
func (p *markPtr[K, V]) IsMarked() bool {
	return p.v.Load().marked
}

// Store unconditionally replaces the target and clears the mark. Only
// used on a node still private to its constructor, before the node has
// been linked in by a successful CompareExchange (spec.md §4.2, SetNext).
func (p *markPtr[K, V]) Store(next *Node[K, V]) {
	p.v.Store(&link[K, V]{next: next})
}

// CompareAndSwap succeeds iff the current target equals oldNext and the
// mark is currently false; on success it installs newNext with mark false.
func (p *markPtr[K, V]) CompareAndSwap(oldNext, newNext *Node[K, V]) bool {
	old := p.v.Load()
	if old.next != oldNext || old.marked {
		return false
	}
	return p.v.CompareAndSwap(old, &link[K, V]{next: newNext})
}

// SetMark unconditionally forces the mark to true. Monotonic: once set, a
// concurrent SetMark or TestAndSetMark can never unset it (spec.md I3).
func (p *markPtr[K, V]) SetMark() {
	for {
		old := p.v.Load()
		if old.marked {
			return
		}
		if p.v.CompareAndSwap(old, &link[K, V]{next: old.next, marked: true}) {
			return
		}
	}
}

// TestAndSetMark succeeds iff the current target equals expected and the
// mark is currently false, atomically setting the mark to true. This is
// the commit point of logical deletion (spec.md §4.3.5 step 6).
func (p *markPtr[K, V]) TestAndSetMark(expected *Node[K, V]) bool {
	old := p.v.Load()
	if old.next != expected || old.marked {
		return false
	}
	return p.v.CompareAndSwap(old, &link[K, V]{next: old.next, marked: true})
}
