package cslpq

import "github.com/klauspost/cpuid/v2"

// WideCASSupported reports whether the host CPU advertises CMPXCHG16B
// (128-bit compare-and-swap).
//
// The engine itself does not need this: each markPtr CASes a single
// word-sized *link[K,V], never a packed 128-bit (pointer, mark) pair, so
// Go's atomic.Pointer already gets a native single-word CAS on every
// platform it supports (see link.go). The original C++ MarkedSharedPointer
// does attempt a manual 128-bit CAS (`lock cmpxchg16b`, see
// original_source/include/CSLPQ/MarkedPointer.hpp), which only works on
// hardware that implements the instruction; this is purely informational
// plumbing for anyone later porting the core to a runtime that takes that
// manual-packing approach instead of Go's GC-backed indirection.
var WideCASSupported = cpuid.CPU.Supports(cpuid.CX16)
