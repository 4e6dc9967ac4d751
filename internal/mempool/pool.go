// Package mempool provides pooled byte-slice buffers for the root
// package's Snapshot/SnapshotKV, which serialize one record per live
// queue entry and would otherwise allocate a fresh buffer per record.
//
// This package is internal and not part of the public API.
//
// Grounded on the teacher's own memory/arena-style buffer pool (sized
// buckets backed by sync.Pool). The teacher buckets five size classes
// (256B/1K/4K/16K/64K) because its SST block encoder deals in buffers of
// wildly different sizes; Snapshot/SnapshotKV only ever request one
// record-scratch size (snapshot.go), so this pool carries a single size
// class instead of four that would never be exercised, and falls back to
// a plain allocation for anything bigger — a caller whose keyBytes or
// valueBytes encoder produces an unusually large record is the rare case,
// not the one worth pooling for.
package mempool

import "sync"

// recordBufferSize is the capacity Snapshot/SnapshotKV request per entry.
const recordBufferSize = 256

// Pool recycles record-scratch buffers for Snapshot/SnapshotKV.
type Pool struct {
	pool sync.Pool
}

// NewPool creates a new Pool.
func NewPool() *Pool {
	return &Pool{
		pool: sync.Pool{
			New: func() any {
				buf := make([]byte, 0, recordBufferSize)
				return &buf
			},
		},
	}
}

// Get retrieves a zero-length byte slice with at least minSize capacity.
// Requests over recordBufferSize bypass the pool: Snapshot's own calls
// never do this, so there is nothing pre-sized to hand back.
func (p *Pool) Get(minSize int) []byte {
	if minSize > recordBufferSize {
		return make([]byte, 0, minSize)
	}
	bufPtr, ok := p.pool.Get().(*[]byte)
	if !ok || cap(*bufPtr) < minSize {
		return make([]byte, 0, minSize)
	}
	return (*bufPtr)[:0]
}

// Put returns buf to the pool. Oversized buffers (grown past twice the
// record size by an unusually large key/value encoding) are dropped
// rather than retained, so one large record can't permanently bloat the
// pool's steady-state memory.
func (p *Pool) Put(buf []byte) {
	if buf == nil || cap(buf) > recordBufferSize*2 {
		return
	}
	buf = buf[:0]
	p.pool.Put(&buf)
}

// GlobalPool is the default global buffer pool.
var GlobalPool = NewPool()

// Get retrieves a zero-length buffer with at least minSize capacity from
// GlobalPool.
func Get(minSize int) []byte {
	return GlobalPool.Get(minSize)
}

// Put returns buf to GlobalPool.
func Put(buf []byte) {
	GlobalPool.Put(buf)
}
