package mempool

// pool_test.go tests the buffer pool implementation.

import "testing"

func TestPoolRoundTrip(t *testing.T) {
	pool := NewPool()

	buf := pool.Get(200)
	if cap(buf) < 200 {
		t.Errorf("expected cap >= 200, got %d", cap(buf))
	}
	if len(buf) != 0 {
		t.Errorf("expected len 0, got %d", len(buf))
	}
	pool.Put(buf)
}

func TestPoolReusesRecordBuffer(t *testing.T) {
	pool := NewPool()

	buf := pool.Get(recordBufferSize)
	buf = append(buf, make([]byte, 100)...)
	pool.Put(buf)

	reused := pool.Get(recordBufferSize)
	if cap(reused) < recordBufferSize {
		t.Errorf("expected cap >= %d, got %d", recordBufferSize, cap(reused))
	}
	if len(reused) != 0 {
		t.Errorf("expected len 0, got %d", len(reused))
	}
}

func TestPoolOversizedBypassesPool(t *testing.T) {
	pool := NewPool()

	// A request larger than recordBufferSize bypasses the pool.
	buf := pool.Get(1024 * 1024) // 1MB
	if cap(buf) < 1024*1024 {
		t.Errorf("expected cap >= 1MB, got %d", cap(buf))
	}

	// Should not panic on put, and an oversized buffer is dropped rather
	// than retained.
	pool.Put(buf)
}

func TestPoolNilPut(t *testing.T) {
	pool := NewPool()

	// Should not panic
	pool.Put(nil)
}

func BenchmarkPoolGet(b *testing.B) {
	pool := NewPool()

	for b.Loop() {
		buf := pool.Get(recordBufferSize)
		pool.Put(buf)
	}
}

func BenchmarkPoolGetParallel(b *testing.B) {
	pool := NewPool()
	b.ResetTimer()

	b.RunParallel(func(pb *testing.PB) {
		for pb.Next() {
			buf := pool.Get(recordBufferSize)
			pool.Put(buf)
		}
	})
}

func BenchmarkMakeSlice(b *testing.B) {
	for b.Loop() {
		buf := make([]byte, 0, recordBufferSize)
		_ = buf
	}
}

func TestGlobalGetPut(t *testing.T) {
	buf := Get(recordBufferSize)
	if cap(buf) < recordBufferSize || len(buf) != 0 {
		t.Errorf("Get(%d) = len %d cap %d, want len 0 cap >= %d", recordBufferSize, len(buf), cap(buf), recordBufferSize)
	}
	Put(buf)
}
