/*
Package cslpq provides a lock-free, linearizable Concurrent Skip-List
Priority Queue (CSLPQ) for concurrent producers and consumers on shared
memory.

Items are ordered by a totally-ordered priority key (see Ordered); the
smallest priority is extracted first. Duplicate priorities are permitted
and every pushed item eventually becomes poppable exactly once, but FIFO
order among items of equal priority is not guaranteed.

Two generic types are offered, matching how the original implementation
splits a key-only queue from a key+value queue: Queue[K] holds bare
priorities, KVQueue[K, V] pairs each priority with a payload.

# Usage

See cmd/smoketest for minimal single-goroutine usage and cmd/stresstest
for concurrent producer/consumer usage.

# Concurrency

Queue and KVQueue are safe for concurrent use by multiple goroutines: any
number of goroutines may call Push and TryPop concurrently without
external locking. The core algorithm is lock-free (system-wide progress
is guaranteed) but not wait-free: an individual Push or TryPop may retry
its internal compare-and-swap loop an unbounded number of times under
contention.

# Soft capacity

A non-zero MaxSize in Options makes Push busy-wait (yielding via
runtime.Gosched) whenever the queue's advisory count has reached that
limit. This is deliberate backpressure, not a correctness primitive —
the count is approximate and the limit can be transiently exceeded
under race; see Options.

Reference: mewais/CSLPQ (original C++), ported to Go's garbage-collected
memory model — see internal/cslpq for the per-component grounding notes.
*/
package cslpq
