package cslpq

import "github.com/mewais/cslpq/internal/cslpq"

// Ordered is a totally-ordered priority key type: Compare returns a value
// < 0 if the receiver sorts before other, 0 if equal, > 0 if after.
type Ordered[K any] = cslpq.Ordered[K]

// Uint64Key is an Ordered wrapper around uint64, for callers who just want
// to push raw integer priorities (the common case in spec.md's own test
// scenarios).
type Uint64Key uint64

// Compare implements Ordered.
func (k Uint64Key) Compare(other Uint64Key) int {
	switch {
	case k < other:
		return -1
	case k > other:
		return 1
	default:
		return 0
	}
}

// PairKey is a lexicographically-ordered composite key, restoring the
// std::pair<uint64_t, uint64_t> composite-key test from
// original_source/test/Func2.cpp (and spec.md scenario S3): First is
// compared before Second.
type PairKey[A Ordered[A], B Ordered[B]] struct {
	First  A
	Second B
}

// Compare implements Ordered.
func (p PairKey[A, B]) Compare(other PairKey[A, B]) int {
	if c := p.First.Compare(other.First); c != 0 {
		return c
	}
	return p.Second.Compare(other.Second)
}
