// Package cslpq implements the lock-free skip-list engine underlying the
// public Queue/KVQueue types: the markable atomic pointer, the node, and
// the search/insert/extract-min protocol.
//
// Reference: mewais/CSLPQ include/CSLPQ/{MarkedPointer,Node,Queue}.hpp
package cslpq

// Ordered is a totally-ordered key type. Compare returns a value < 0 if the
// receiver sorts before other, 0 if equal, > 0 if it sorts after.
//
// This mirrors the shape of Comparator in the top-level comparator.go
// (Compare(a, b []byte) int), generalized from bytes to a type parameter so
// composite keys don't need byte-encoding just to be ordered.
type Ordered[K any] interface {
	Compare(other K) int
}
