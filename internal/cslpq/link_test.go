package cslpq

import "testing"

func TestMarkPtrLoadStore(t *testing.T) {
	p := &markPtr[Uint64Key, int]{}
	n := newNode[Uint64Key, int](1, 10, 1)

	p.Store(n)
	if got := p.Load(); got != n {
		t.Errorf("Load() = %v, want %v", got, n)
	}
	if p.IsMarked() {
		t.Error("fresh Store should not be marked")
	}
}

func TestMarkPtrCompareAndSwap(t *testing.T) {
	p := &markPtr[Uint64Key, int]{}
	a := newNode[Uint64Key, int](1, 1, 1)
	b := newNode[Uint64Key, int](2, 2, 1)
	p.Store(a)

	if !p.CompareAndSwap(a, b) {
		t.Fatal("CompareAndSwap(a, b) should succeed when current == a")
	}
	if p.Load() != b {
		t.Error("successor not updated after CompareAndSwap")
	}
	if p.CompareAndSwap(a, b) {
		t.Error("CompareAndSwap(a, b) should fail once current != a")
	}
}

func TestMarkPtrCompareAndSwapFailsWhenMarked(t *testing.T) {
	p := &markPtr[Uint64Key, int]{}
	a := newNode[Uint64Key, int](1, 1, 1)
	b := newNode[Uint64Key, int](2, 2, 1)
	p.Store(a)
	p.SetMark()

	if p.CompareAndSwap(a, b) {
		t.Error("CompareAndSwap should fail once marked, even with the correct expected successor")
	}
}

func TestMarkPtrSetMarkIdempotent(t *testing.T) {
	p := &markPtr[Uint64Key, int]{}
	n := newNode[Uint64Key, int](1, 1, 1)
	p.Store(n)

	p.SetMark()
	p.SetMark()
	if !p.IsMarked() {
		t.Error("expected marked after SetMark")
	}
	if got := p.Load(); got != n {
		t.Error("SetMark must not change the successor")
	}
}

func TestMarkPtrTestAndSetMark(t *testing.T) {
	p := &markPtr[Uint64Key, int]{}
	a := newNode[Uint64Key, int](1, 1, 1)
	b := newNode[Uint64Key, int](2, 2, 1)
	p.Store(a)

	if p.TestAndSetMark(b) {
		t.Error("TestAndSetMark(b) should fail when current successor is a, not b")
	}
	if p.IsMarked() {
		t.Error("a failed TestAndSetMark must not set the mark")
	}

	if !p.TestAndSetMark(a) {
		t.Fatal("TestAndSetMark(a) should succeed when current successor is a")
	}
	if !p.IsMarked() {
		t.Error("expected marked after a successful TestAndSetMark")
	}
	if p.TestAndSetMark(a) {
		t.Error("TestAndSetMark should fail once already marked (P5: idempotent extraction)")
	}
}
