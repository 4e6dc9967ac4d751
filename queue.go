package cslpq

import (
	"fmt"

	"github.com/mewais/cslpq/internal/cslpq"
)

// Queue is a lock-free, linearizable priority queue of bare priorities,
// with no associated payload. See package doc for the concurrency and
// capacity contract.
//
// Grounded on CSLPQ::Queue<K> (original_source/include/CSLPQ/Queue.hpp);
// internally backed by internal/cslpq.Engine[K, struct{}].
type Queue[K Ordered[K]] struct {
	eng *cslpq.Engine[K, struct{}]
}

// New constructs a Queue. It panics if opts.MaxLevel == 0 — a programmer
// error at a literal call site (spec.md §7); use TryNew if opts comes from
// untrusted or parsed configuration.
func New[K Ordered[K]](opts Options) *Queue[K] {
	q, err := TryNew[K](opts)
	if err != nil {
		panic(err)
	}
	return q
}

// TryNew is New's non-panicking counterpart.
func TryNew[K Ordered[K]](opts Options) (*Queue[K], error) {
	if opts.MaxLevel == 0 {
		return nil, ErrInvalidMaxLevel
	}
	return &Queue[K]{eng: cslpq.NewEngine[K, struct{}](opts.MaxLevel, opts.MaxSize)}, nil
}

// Push inserts priority. It may busy-wait if a soft capacity is
// configured and currently reached (spec.md §4.3.4 step 1).
func (q *Queue[K]) Push(priority K) {
	q.eng.Push(priority, struct{}{})
}

// TryPop removes and returns the minimum-priority item, if any is
// currently available. ok is false if the queue is empty, if the
// leftmost live node is still mid-insertion (spec.md I6), or if a
// concurrent TryPop won the race to extract it — all three are
// transient; callers expecting bounded-time extraction should loop.
func (q *Queue[K]) TryPop() (priority K, ok bool) {
	priority, _, ok = q.eng.TryPop()
	return priority, ok
}

// Count returns the advisory, approximate number of live items. It must
// not be used for correctness decisions (spec.md §5).
func (q *Queue[K]) Count() uint32 {
	return q.eng.Count()
}

// String renders the level-0 contents for debugging (spec.md §6,
// optional ToString).
func (q *Queue[K]) String() string {
	return q.eng.DumpString(false, func(k K, _ struct{}) string {
		return fmt.Sprintf("Key: %v", k)
	})
}

// DumpLevels renders every tower level for debugging, annotating marked
// (logically deleted, not yet physically unlinked) nodes.
func (q *Queue[K]) DumpLevels() string {
	return q.eng.DumpString(true, func(k K, _ struct{}) string {
		return fmt.Sprintf("Key: %v", k)
	})
}
