// Package simd holds the subtarget-dispatching name resolution the
// function compiler's SIMD lowering uses. By default, relaxed-SIMD
// operations lower to their portable LLVM intrinsic name on every
// subtarget; a target-specific
// instruction (e.g. the x86 VPSHUFB-backed swizzle, or AArch64's NEON
// table lookup) is substituted only when the detected subtarget feature
// flag that enables it is set, and the caller must record the fallback
// when it wasn't.
package simd

import "github.com/wasm2llvm/wasm2llvm/internal/llvmaot/subtarget"

// IntrinsicName resolves the LLVM intrinsic to use for a named vector
// operation, given the detected subtarget. portable is always valid;
// native is chosen when nativeAvailable is true and the subtarget has at
// least one vector extension (Features.Any). usedNative reports which one
// was chosen, for telemetry.
func IntrinsicName(op string, feats subtarget.Features, portable, native string, nativeAvailable bool) (name string, usedNative bool) {
	if nativeAvailable && feats.Any() {
		return native, true
	}
	return portable, false
}

// PreferSSSE3Shuffle reports whether the subtarget can use a
// pshufb-backed swizzle/shuffle lowering instead of the portable
// llvm.wasm.swizzle intrinic.
func PreferSSSE3Shuffle(feats subtarget.Features) bool {
	return feats.SSSE3
}

// PreferNEONTable reports whether the subtarget's NEON table-lookup
// instruction can back a swizzle/shuffle lowering.
func PreferNEONTable(feats subtarget.Features) bool {
	return feats.NEON
}
