package cslpq

import (
	"fmt"

	"github.com/mewais/cslpq/internal/cslpq"
)

// KVQueue is a lock-free, linearizable priority queue pairing each
// priority with a payload of type V.
//
// Grounded on CSLPQ::KVQueue<K,V> (original_source/include/CSLPQ/Queue.hpp).
type KVQueue[K Ordered[K], V any] struct {
	eng *cslpq.Engine[K, V]
}

// NewKV constructs a KVQueue. It panics if opts.MaxLevel == 0; see
// TryNewKV for a non-panicking variant.
func NewKV[K Ordered[K], V any](opts Options) *KVQueue[K, V] {
	q, err := TryNewKV[K, V](opts)
	if err != nil {
		panic(err)
	}
	return q
}

// TryNewKV is NewKV's non-panicking counterpart.
func TryNewKV[K Ordered[K], V any](opts Options) (*KVQueue[K, V], error) {
	if opts.MaxLevel == 0 {
		return nil, ErrInvalidMaxLevel
	}
	return &KVQueue[K, V]{eng: cslpq.NewEngine[K, V](opts.MaxLevel, opts.MaxSize)}, nil
}

// Push inserts (priority, value). It may busy-wait if a soft capacity is
// configured and currently reached.
func (q *KVQueue[K, V]) Push(priority K, value V) {
	q.eng.Push(priority, value)
}

// TryPop removes and returns the minimum-priority (key, value) pair, if
// any is currently available. See Queue.TryPop for the meaning of ok.
func (q *KVQueue[K, V]) TryPop() (priority K, value V, ok bool) {
	return q.eng.TryPop()
}

// Count returns the advisory, approximate number of live items.
func (q *KVQueue[K, V]) Count() uint32 {
	return q.eng.Count()
}

// String renders the level-0 contents for debugging.
func (q *KVQueue[K, V]) String() string {
	return q.eng.DumpString(false, func(k K, v V) string {
		return fmt.Sprintf("Key: %v, Value: %v", k, v)
	})
}

// DumpLevels renders every tower level for debugging.
func (q *KVQueue[K, V]) DumpLevels() string {
	return q.eng.DumpString(true, func(k K, v V) string {
		return fmt.Sprintf("Key: %v, Value: %v", k, v)
	})
}
