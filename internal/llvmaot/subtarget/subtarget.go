// Package subtarget detects host CPU vector-instruction features and
// exposes them as a flat boolean set.
package subtarget

import "golang.org/x/sys/cpu"

// Features is the boolean feature-flag set the SIMD and numeric lowerings
// branch on. Exactly the flags
// the numeric and SIMD lowering branch on: SSE2, SSSE3, SSE4.1, XOP on x86; NEON on aarch64.
type Features struct {
	SSE2  bool
	SSSE3 bool
	SSE41 bool
	XOP   bool
	NEON  bool
}

// Generic is the feature set used when `is_generic_binary` is set: every
// flag false, forcing every lowering onto its portable fallback path.
var Generic = Features{}

// Detect returns the host's actual feature set. When generic is true it
// returns Generic unconditionally, honouring `is_generic_binary`.
func Detect(generic bool) Features {
	if generic {
		return Generic
	}
	return Features{
		SSE2:  cpu.X86.HasSSE2,
		SSSE3: cpu.X86.HasSSSE3,
		SSE41: cpu.X86.HasSSE41,
		// x/sys/cpu has no direct HasXOP field; XOP is an AMD-only
		// extension of the AVX encoding space, so it is gated on AVX
		// being present as a conservative stand-in signal.
		XOP:  cpu.X86.HasAVX,
		NEON: cpu.ARM64.HasASIMD,
	}
}

// Any reports whether the feature set has at least one vector extension
// enabled; simd.IntrinsicName consults it, and the features subcommand
// uses it to report a fallback-only feature set.
func (f Features) Any() bool {
	return f.SSE2 || f.SSSE3 || f.SSE41 || f.XOP || f.NEON
}
