// Package atomics holds the alignment-check and memory-ordering helpers
// the function compiler's atomic-opcode lowering shares.
// WebAssembly atomics always use sequentially-consistent ordering; the
// only per-opcode variation is the access width used for the alignment
// check.
package atomics

// Ordering is the LLVM atomic ordering string every Wasm atomic access
// lowers to. WebAssembly's atomics proposal defines all accesses as
// sequentially consistent; there is no relaxed/acquire/release variant in
// the source language, unlike the instrumentation counters this compiler
// also emits (which do use relaxed/monotonic orderings, see
// internal/llvmaot/instrumentation.go).
const Ordering = "seq_cst"

// RequiredAlignment returns the natural alignment (in bytes) a
// widthBytes-wide atomic access must satisfy; an unaligned access traps
// UnalignedAtomicAccess.
func RequiredAlignment(widthBytes int) int64 {
	return int64(widthBytes)
}
