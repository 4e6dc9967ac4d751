package cslpq

import (
	"math/bits"
	"math/rand/v2"
	"runtime"
	"strconv"
	"sync/atomic"
)

// Engine is the skip-list priority queue core: a sentinel head of maximum
// height, a configurable maximum level and optional soft capacity, and the
// lock-free push / try-pop / traversal-with-physical-deletion routines.
//
// Grounded on original_source/include/CSLPQ/Queue.hpp's CSLPQ::Queue<K>
// and CSLPQ::KVQueue<K,V>, which are near-identical except for the
// payload; Engine unifies them the way spec.md §6 allows, and the root
// package's Queue[K]/KVQueue[K,V] are thin facades over Engine[K, struct{}]
// and Engine[K, V] respectively.
type Engine[K Ordered[K], V any] struct {
	maxLevel uint32
	maxSize  uint32
	head     *Node[K, V]
	count    atomic.Uint32
}

// NewEngine constructs an Engine. maxLevel must be >= 1; the caller (the
// root package's constructors) is responsible for turning maxLevel == 0
// into the documented programmer error before reaching here.
func NewEngine[K Ordered[K], V any](maxLevel, maxSize uint32) *Engine[K, V] {
	var zeroK K
	var zeroV V
	head := newNode[K, V](zeroK, zeroV, int(maxLevel)+1)
	head.SetDoneInserting()
	return &Engine[K, V]{maxLevel: maxLevel, maxSize: maxSize, head: head}
}

// MaxLevel returns the configured maximum level.
func (e *Engine[K, V]) MaxLevel() uint32 {
	return e.maxLevel
}

// Count returns the advisory, approximate live-item count (spec.md §5:
// "MUST NOT be used for correctness decisions ... beyond the capacity
// check").
func (e *Engine[K, V]) Count() uint32 {
	return e.count.Load()
}

// wait busy-waits while a configured soft capacity is reached. The
// original C++ Wait() is a bare `while (count >= max_size);` with, per
// spec.md §9, "no memory fence and no backoff" — an open question the
// spec asks implementers to resolve. Grounded on the teacher's own
// busy-poll loop in flush.go ("Sleep briefly to avoid spinning" / "TODO:
// Use proper signaling instead of polling"): capacity remains a soft,
// racy limit, never a correctness barrier, but each spin yields instead
// of hammering the count field.
//
// TODO: replace with a proper signal (condition variable / channel) woken
// by TryPop once a slot frees up, instead of polling.
func (e *Engine[K, V]) wait() {
	if e.maxSize == 0 {
		return
	}
	for e.count.Load() >= e.maxSize {
		runtime.Gosched()
	}
}

// randomLevel chooses a tower height in [1, maxLevel+1]. The original
// offers a uniform distribution over that range as its reference choice,
// noting it is "algorithmically acceptable but wasteful" and permitting a
// geometric `1 + count_trailing_zeros(rand())` substitute. This follows
// the teacher's own internal/memtable/skiplist.go randomHeight, which
// already favors a scaled-branching-factor geometric selection over
// RocksDB's naive loop-with-probability-compare: trailing zero count of a
// uniform random 64-bit draw yields a geometric distribution with mean 1,
// clamped to the configured ceiling.
func randomLevel(maxLevel uint32) uint32 {
	level := uint32(bits.TrailingZeros64(rand.Uint64())) + 1
	if level > maxLevel+1 {
		level = maxLevel + 1
	}
	return level
}

// findLastOfPriority performs the top-down search of spec.md §4.3.2: at
// each level, help physically unlink any marked node encountered,
// restarting the whole search from the top on a failed helping CAS, then
// walk forward while the successor's priority is strictly less than
// priority. Returns, per level, the last predecessor with priority <
// priority and its immediate successor (priority >= priority, or nil).
func (e *Engine[K, V]) findLastOfPriority(priority K) (preds, succs []*Node[K, V]) {
	preds = make([]*Node[K, V], e.maxLevel+1)
	succs = make([]*Node[K, V], e.maxLevel+1)

search:
	for {
		pred := e.head
		for level := int(e.maxLevel); level >= 0; level-- {
			cur := pred.GetNextPointer(level)
			for cur != nil {
				succ, marked := cur.GetNextPointerAndMark(level)
				for marked {
					if !pred.CompareExchange(level, cur, succ) {
						continue search
					}
					cur = succ
					if cur == nil {
						marked = false
					} else {
						succ, marked = cur.GetNextPointerAndMark(level)
					}
				}
				if cur == nil {
					break
				}
				if cur.Priority().Compare(priority) < 0 {
					pred = cur
					cur = succ
				} else {
					break
				}
			}
			preds[level] = pred
			succs[level] = cur
		}
		return preds, succs
	}
}

// findFirst walks predecessors top-down from head, helping unlink any
// marked node encountered at each level (same helping rule as
// findLastOfPriority, same top-restart on a failed helping CAS). At level
// 0 it returns the first unmarked successor of head, or nil if none
// (spec.md §4.3.3).
func (e *Engine[K, V]) findFirst() *Node[K, V] {
search:
	for {
		for level := int(e.maxLevel); level >= 0; level-- {
			cur := e.head.GetNextPointer(level)
			if cur == nil {
				if level == 0 {
					return nil
				}
				continue
			}
			succ, marked := cur.GetNextPointerAndMark(level)
			for marked {
				if !e.head.CompareExchange(level, cur, succ) {
					continue search
				}
				cur = succ
				if cur == nil {
					marked = false
				} else {
					succ, marked = cur.GetNextPointerAndMark(level)
				}
			}
			if level == 0 {
				return cur
			}
		}
	}
}

// Push implements spec.md §4.3.4: wait for capacity, choose a height,
// locate insertion predecessors/successors, splice at level 0 (the
// linearization point), then splice the remaining levels, refreshing
// predecessors/successors on CAS failure, and finally clear inserting.
func (e *Engine[K, V]) Push(priority K, value V) {
	e.wait()

	height := int(randomLevel(e.maxLevel))
	n := newNode[K, V](priority, value, height)

	preds, succs := e.findLastOfPriority(priority)
	for lvl := 0; lvl < height; lvl++ {
		n.SetNext(lvl, succs[lvl])
	}
	for !preds[0].CompareExchange(0, succs[0], n) {
		preds, succs = e.findLastOfPriority(priority)
		for lvl := 0; lvl < height; lvl++ {
			n.SetNext(lvl, succs[lvl])
		}
	}

	for lvl := 1; lvl < height; lvl++ {
		for !preds[lvl].CompareExchange(lvl, succs[lvl], n) {
			preds, succs = e.findLastOfPriority(priority)
		}
	}

	n.SetDoneInserting()
	e.count.Add(1)
}

// TryPop implements spec.md §4.3.5. The commit point is exclusively the
// level-0 TestAndSetMark; between reading the payload and committing, the
// node cannot be collected because the local variable first still
// references it.
func (e *Engine[K, V]) TryPop() (priority K, value V, ok bool) {
	first := e.findFirst()
	if first == nil {
		return priority, value, false
	}
	if first.IsInserting() {
		// Observable non-emptiness without a successful pop (spec.md I6).
		return priority, value, false
	}

	for lvl := first.Height() - 1; lvl >= 1; lvl-- {
		first.SetNextMark(lvl)
	}

	succ := first.GetNextPointer(0)
	priority = first.Priority()
	value = first.Value()

	if !first.TestAndSetMark(0, succ) {
		var zeroK K
		var zeroV V
		return zeroK, zeroV, false
	}

	e.count.Add(^uint32(0)) // decrement
	return priority, value, true
}

// SnapshotKeys returns a best-effort, point-in-time slice of the keys
// currently reachable (unmarked) at level 0. It is not a durable
// checkpoint and not a caller-facing iterator — spec.md §1 excludes both
// — it exists only to back the diagnostic Fingerprint/Snapshot helpers in
// the root package, the way the original's own ToString in
// original_source/include/CSLPQ/Queue.hpp walks level 0 purely for
// debugging output.
func (e *Engine[K, V]) SnapshotKeys() []K {
	var out []K
	cur := e.head.GetNextPointer(0)
	for cur != nil {
		nxt, marked := cur.GetNextPointerAndMark(0)
		if !marked {
			out = append(out, cur.Priority())
		}
		cur = nxt
	}
	return out
}

// DumpString renders the queue for debugging, grounded on
// CSLPQ::Queue<K>::ToString: with allLevels false it walks level 0 only;
// with allLevels true it walks every level, each under its own header.
// Marked (logically deleted but not yet physically unlinked) nodes are
// annotated rather than hidden, so the helping backlog is visible.
func (e *Engine[K, V]) DumpString(allLevels bool, format func(K, V) string) string {
	var sb []byte
	top := uint32(0)
	if allLevels {
		top = e.maxLevel
	}
	for level := uint32(0); level <= top; level++ {
		if allLevels {
			sb = append(sb, "Queue at level "...)
			sb = append(sb, strconv.FormatUint(uint64(level), 10)...)
			sb = append(sb, ":\n"...)
		} else {
			sb = append(sb, "Queue:\n"...)
		}
		cur := e.head.GetNextPointer(int(level))
		for cur != nil {
			nxt, marked := cur.GetNextPointerAndMark(int(level))
			sb = append(sb, "\t"...)
			sb = append(sb, format(cur.Priority(), cur.Value())...)
			if marked {
				sb = append(sb, " (Marked)"...)
			}
			sb = append(sb, '\n')
			cur = nxt
		}
	}
	return string(sb)
}

// snapshotEntry pairs a key with its value for KV dumps.
type snapshotEntry[K any, V any] struct {
	Key   K
	Value V
}

// SnapshotEntries is SnapshotKeys' key+value counterpart, used by
// KVQueue's diagnostic Snapshot/Fingerprint helpers.
func (e *Engine[K, V]) SnapshotEntries() []snapshotEntry[K, V] {
	var out []snapshotEntry[K, V]
	cur := e.head.GetNextPointer(0)
	for cur != nil {
		nxt, marked := cur.GetNextPointerAndMark(0)
		if !marked {
			out = append(out, snapshotEntry[K, V]{Key: cur.Priority(), Value: cur.Value()})
		}
		cur = nxt
	}
	return out
}
