package llvmaot

import (
	"github.com/wasm2llvm/wasm2llvm/internal/ir"
	"github.com/wasm2llvm/wasm2llvm/internal/llvmaot/simd"
	"github.com/wasm2llvm/wasm2llvm/internal/wasm"
)

// lane describes one SIMD shape's elemType/lane-count/llvm-type-suffix,
// keyed by the "v16i8"-style suffix LLVM intrinsic names use.
type lane struct {
	elem   ir.Type
	lanes  int
	vec    ir.Type
	suffix string
}

var (
	laneI8x16 = lane{elem: ir.I8, lanes: 16, vec: ir.I8x16, suffix: "v16i8"}
	laneI16x8 = lane{elem: ir.I16, lanes: 8, vec: ir.I16x8, suffix: "v8i16"}
	laneI32x4 = lane{elem: ir.I32, lanes: 4, vec: ir.I32x4, suffix: "v4i32"}
	laneI64x2 = lane{elem: ir.I64, lanes: 2, vec: ir.I64x2, suffix: "v2i64"}
	laneF32x4 = lane{elem: ir.F32, lanes: 4, vec: ir.F32x4, suffix: "v4f32"}
	laneF64x2 = lane{elem: ir.F64, lanes: 2, vec: ir.F64x2, suffix: "v2f64"}
	laneV128  = lane{elem: ir.I64, lanes: 2, vec: ir.V128, suffix: "v2i64"}
)

func (f *FunctionCompiler) simdBinPop() (y, x ir.Value) {
	y, x = f.state.pop(), f.state.pop()
	return
}

func (f *FunctionCompiler) opV128Load() {
	ma := f.readMemArg()
	if f.state.unreachable {
		f.state.pop()
		f.state.push(f.poison(ir.V128))
		return
	}
	addr := f.effectiveAddr(ma)
	f.state.push(f.b.Load(ir.V128, addr, false, true))
}

func (f *FunctionCompiler) opV128Store() {
	ma := f.readMemArg()
	if f.state.unreachable {
		f.state.pop()
		f.state.pop()
		return
	}
	val := f.state.pop()
	addr := f.effectiveAddr(ma)
	f.b.Store(addr, val, false, true)
}

// opV128Const reads the 16-byte immediate and builds the constant vector
// as a single i128 bit pattern bitcast to the canonical V128 shape.
func (f *FunctionCompiler) opV128Const() {
	var lo, hi uint64
	for i := 0; i < 8; i++ {
		lo |= uint64(f.readByte()) << (8 * i)
	}
	for i := 0; i < 8; i++ {
		hi |= uint64(f.readByte()) << (8 * i)
	}
	f.pushMaybe(func() ir.Value {
		low := f.b.ZExt(ir.I128, f.b.Iconst(ir.I64, int64(lo)))
		high := f.b.Shl(f.b.ZExt(ir.I128, f.b.Iconst(ir.I64, int64(hi))), f.b.Iconst(ir.I128, 64))
		bits := f.b.Or(low, high)
		return f.b.BitCast(ir.V128, bits)
	}, ir.V128)
}

func (f *FunctionCompiler) opSplat(l lane) {
	if f.state.unreachable {
		f.state.pop()
		f.state.push(f.poison(l.vec))
		return
	}
	x := f.state.pop()
	v := zeroConst(f.b, l.vec)
	for i := 0; i < l.lanes; i++ {
		v = f.b.InsertElement(v, x, i)
	}
	f.state.push(v)
}

// opVecBin implements the many structurally identical lane-wise binary
// ops (add/sub/mul/div/and/or/xor) by delegating straight to the
// scalar builder entry points, which operate on the vector's element type
// regardless of whether the operand is scalar or vector shaped (the
// façade infers shape from the operand's recorded Type).
func (f *FunctionCompiler) opVecBin(l lane, fn func(b *ir.Builder, x, y ir.Value) ir.Value) {
	if f.state.unreachable {
		f.state.pop()
		f.state.pop()
		f.state.push(f.poison(l.vec))
		return
	}
	y, x := f.simdBinPop()
	f.state.push(fn(f.b, x, y))
}

func (f *FunctionCompiler) opVecUnary(l lane, intrinsic string) {
	if f.state.unreachable {
		f.state.pop()
		f.state.push(f.poison(l.vec))
		return
	}
	x := f.state.pop()
	f.state.push(f.b.IntrinsicCall(intrinsic+"."+l.suffix, l.vec, []ir.Value{x}))
}

// opVecCmp implements the lane-wise comparisons: an icmp over the vector
// operands, then sign-extended back out to the lane width so each lane
// holds the WebAssembly-mandated all-ones/all-zeros mask.
func (f *FunctionCompiler) opVecCmp(l lane, cond ir.IntCmpCond) {
	if f.state.unreachable {
		f.state.pop()
		f.state.pop()
		f.state.push(f.poison(l.vec))
		return
	}
	y, x := f.simdBinPop()
	cmp := f.b.ICmp(cond, x, y)
	f.state.push(f.b.SExt(l.vec, cmp))
}

func (f *FunctionCompiler) opVecShift(l lane, shiftFn func(b *ir.Builder, x, y ir.Value) ir.Value, maskBits int64) {
	if f.state.unreachable {
		f.state.pop()
		f.state.pop()
		f.state.push(f.poison(l.vec))
		return
	}
	n := f.state.pop()
	x := f.state.pop()
	masked := f.b.And(n, f.b.Iconst(ir.I32, maskBits))
	bcast := zeroConst(f.b, l.vec)
	for i := 0; i < l.lanes; i++ {
		bcast = f.b.InsertElement(bcast, masked, i)
	}
	f.state.push(shiftFn(f.b, x, bcast))
}

func (f *FunctionCompiler) opVecAnyTrue() {
	if f.state.unreachable {
		f.state.pop()
		f.state.push(f.poison(ir.I32))
		return
	}
	x := f.state.pop()
	bits := f.b.BitCast(ir.I128, x)
	f.state.push(f.b.ZExt(ir.I32, f.b.ICmp(ir.IntNotEqual, bits, f.b.Iconst(ir.I128, 0))))
}

func (f *FunctionCompiler) opVecAllTrue(l lane) {
	if f.state.unreachable {
		f.state.pop()
		f.state.push(f.poison(ir.I32))
		return
	}
	x := f.state.pop()
	allNonzero := f.b.Iconst(ir.I32, 1)
	for i := 0; i < l.lanes; i++ {
		e := f.b.ExtractElement(x, i, l.elem)
		nz := f.b.ZExt(ir.I32, f.b.ICmp(ir.IntNotEqual, e, f.b.Iconst(l.elem, 0)))
		allNonzero = f.b.And(allNonzero, nz)
	}
	f.state.push(allNonzero)
}

func (f *FunctionCompiler) opBitselect() {
	if f.state.unreachable {
		f.state.pop()
		f.state.pop()
		f.state.pop()
		f.state.push(f.poison(ir.V128))
		return
	}
	mask := f.state.pop()
	y, x := f.state.pop(), f.state.pop()
	notMask := f.b.Xor(mask, f.b.Iconst(ir.V128, -1))
	f.state.push(f.b.Or(f.b.And(x, mask), f.b.And(y, notMask)))
}

// opRelaxedDot implements the two relaxed-SIMD dot-product opcodes:
// portable everywhere, per the decision recorded in DESIGN.md, via the
// llvm.wasm intrinsic family, regardless of subtarget. The subtarget
// feature check exists purely to mark
// SIMDFallbackUses telemetry when no native acceleration path applies.
func (f *FunctionCompiler) opRelaxedDot(addAcc bool) {
	var acc ir.Value
	if addAcc {
		if f.state.unreachable {
			f.state.pop()
		} else {
			acc = f.state.pop()
		}
	}
	if f.state.unreachable {
		f.state.pop()
		f.state.pop()
		f.state.push(f.poison(ir.I32x4))
		return
	}
	y, x := f.simdBinPop()
	name, usedNative := simd.IntrinsicName("relaxed_dot", f.cc.Features, "llvm.wasm.relaxed.dot.i8x16.i7x16.signed", "", false)
	if !usedNative {
		f.stats.SIMDFallbackUses++
	}
	dot := f.b.IntrinsicCall(name, ir.I16x8, []ir.Value{x, y})
	if !addAcc {
		f.state.push(dot)
		return
	}
	f.state.push(f.b.Add(dot, acc))
}

func (f *FunctionCompiler) opTruncSatVec(signed bool) {
	if f.state.unreachable {
		f.state.pop()
		f.state.push(f.poison(ir.I32x4))
		return
	}
	x := f.state.pop()
	name := "llvm.fptoui.sat.v4i32.v4f32"
	if signed {
		name = "llvm.fptosi.sat.v4i32.v4f32"
	}
	f.state.push(f.b.IntrinsicCall(name, ir.I32x4, []ir.Value{x}))
}

func (f *FunctionCompiler) lowerVec(sub wasm.OpcodeVec) error {
	switch sub {
	case wasm.OpcodeVecV128Load:
		f.opV128Load()
	case wasm.OpcodeVecV128Store:
		f.opV128Store()
	case wasm.OpcodeVecV128Const:
		f.opV128Const()

	case wasm.OpcodeVecI8x16Splat:
		f.opSplat(laneI8x16)

	case wasm.OpcodeVecI8x16Shuffle:
		f.opShuffle()
	case wasm.OpcodeVecI8x16Swizzle:
		f.opSwizzle()

	case wasm.OpcodeVecI8x16Eq:
		f.opVecCmp(laneI8x16, ir.IntEqual)
	case wasm.OpcodeVecI8x16Ne:
		f.opVecCmp(laneI8x16, ir.IntNotEqual)

	case wasm.OpcodeVecV128Not:
		f.opVecUnary(laneV128, "llvm.wasm.v128.not")
	case wasm.OpcodeVecV128And:
		f.opVecBin(laneV128, (*ir.Builder).And)
	case wasm.OpcodeVecV128Or:
		f.opVecBin(laneV128, (*ir.Builder).Or)
	case wasm.OpcodeVecV128Xor:
		f.opVecBin(laneV128, (*ir.Builder).Xor)
	case wasm.OpcodeVecV128Bitselect:
		f.opBitselect()
	case wasm.OpcodeVecV128AnyTrue:
		f.opVecAnyTrue()

	case wasm.OpcodeVecI8x16Abs:
		f.opVecUnary(laneI8x16, "llvm.abs")
	case wasm.OpcodeVecI8x16Neg:
		f.opVecUnaryNeg(laneI8x16)
	case wasm.OpcodeVecI8x16Popcnt:
		f.opVecUnary(laneI8x16, "llvm.ctpop")
	case wasm.OpcodeVecI8x16AllTrue:
		f.opVecAllTrue(laneI8x16)
	case wasm.OpcodeVecI8x16Bitmask:
		f.opBitmask(laneI8x16)
	case wasm.OpcodeVecI8x16NarrowI16x8S:
		f.opNarrow(laneI16x8, laneI8x16, true)
	case wasm.OpcodeVecI8x16NarrowI16x8U:
		f.opNarrow(laneI16x8, laneI8x16, false)
	case wasm.OpcodeVecI8x16Shl:
		f.opVecShift(laneI8x16, (*ir.Builder).Shl, 7)
	case wasm.OpcodeVecI8x16ShrS:
		f.opVecShift(laneI8x16, (*ir.Builder).AShr, 7)
	case wasm.OpcodeVecI8x16ShrU:
		f.opVecShift(laneI8x16, (*ir.Builder).LShr, 7)
	case wasm.OpcodeVecI8x16Add:
		f.opVecBin(laneI8x16, (*ir.Builder).Add)
	case wasm.OpcodeVecI8x16AddSatS:
		f.opVecUnaryBin(laneI8x16, "llvm.sadd.sat")
	case wasm.OpcodeVecI8x16AddSatU:
		f.opVecUnaryBin(laneI8x16, "llvm.uadd.sat")
	case wasm.OpcodeVecI8x16Sub:
		f.opVecBin(laneI8x16, (*ir.Builder).Sub)
	case wasm.OpcodeVecI8x16SubSatS:
		f.opVecUnaryBin(laneI8x16, "llvm.ssub.sat")
	case wasm.OpcodeVecI8x16SubSatU:
		f.opVecUnaryBin(laneI8x16, "llvm.usub.sat")
	case wasm.OpcodeVecI8x16MinS:
		f.opVecUnaryBin(laneI8x16, "llvm.smin")
	case wasm.OpcodeVecI8x16MinU:
		f.opVecUnaryBin(laneI8x16, "llvm.umin")
	case wasm.OpcodeVecI8x16MaxS:
		f.opVecUnaryBin(laneI8x16, "llvm.smax")
	case wasm.OpcodeVecI8x16MaxU:
		f.opVecUnaryBin(laneI8x16, "llvm.umax")
	case wasm.OpcodeVecI8x16AvgrU:
		f.opVecUnaryBin(laneI8x16, "llvm.wasm.avgr.unsigned")

	case wasm.OpcodeVecI16x8ExtaddPairwiseI8x16S:
		f.opExtaddPairwise(laneI8x16, laneI16x8, true)
	case wasm.OpcodeVecI16x8ExtaddPairwiseI8x16U:
		f.opExtaddPairwise(laneI8x16, laneI16x8, false)
	case wasm.OpcodeVecI32x4ExtaddPairwiseI16x8S:
		f.opExtaddPairwise(laneI16x8, laneI32x4, true)
	case wasm.OpcodeVecI32x4ExtaddPairwiseI16x8U:
		f.opExtaddPairwise(laneI16x8, laneI32x4, false)

	case wasm.OpcodeVecI16x8Abs:
		f.opVecUnary(laneI16x8, "llvm.abs")
	case wasm.OpcodeVecI16x8Neg:
		f.opVecUnaryNeg(laneI16x8)
	case wasm.OpcodeVecI16x8Q15mulrSatS:
		f.opVecUnaryBin(laneI16x8, "llvm.wasm.q15mulr.sat.signed")
	case wasm.OpcodeVecI16x8AllTrue:
		f.opVecAllTrue(laneI16x8)
	case wasm.OpcodeVecI16x8Bitmask:
		f.opBitmask(laneI16x8)
	case wasm.OpcodeVecI16x8Add:
		f.opVecBin(laneI16x8, (*ir.Builder).Add)
	case wasm.OpcodeVecI16x8AddSatS:
		f.opVecUnaryBin(laneI16x8, "llvm.sadd.sat")
	case wasm.OpcodeVecI16x8AddSatU:
		f.opVecUnaryBin(laneI16x8, "llvm.uadd.sat")
	case wasm.OpcodeVecI16x8Sub:
		f.opVecBin(laneI16x8, (*ir.Builder).Sub)
	case wasm.OpcodeVecI16x8SubSatS:
		f.opVecUnaryBin(laneI16x8, "llvm.ssub.sat")
	case wasm.OpcodeVecI16x8SubSatU:
		f.opVecUnaryBin(laneI16x8, "llvm.usub.sat")
	case wasm.OpcodeVecI16x8Mul:
		f.opVecBin(laneI16x8, (*ir.Builder).Mul)
	case wasm.OpcodeVecI16x8MinS:
		f.opVecUnaryBin(laneI16x8, "llvm.smin")
	case wasm.OpcodeVecI16x8MinU:
		f.opVecUnaryBin(laneI16x8, "llvm.umin")
	case wasm.OpcodeVecI16x8MaxS:
		f.opVecUnaryBin(laneI16x8, "llvm.smax")
	case wasm.OpcodeVecI16x8MaxU:
		f.opVecUnaryBin(laneI16x8, "llvm.umax")
	case wasm.OpcodeVecI16x8AvgrU:
		f.opVecUnaryBin(laneI16x8, "llvm.wasm.avgr.unsigned")

	case wasm.OpcodeVecI32x4Abs:
		f.opVecUnary(laneI32x4, "llvm.abs")
	case wasm.OpcodeVecI32x4Neg:
		f.opVecUnaryNeg(laneI32x4)
	case wasm.OpcodeVecI32x4AllTrue:
		f.opVecAllTrue(laneI32x4)
	case wasm.OpcodeVecI32x4Bitmask:
		f.opBitmask(laneI32x4)
	case wasm.OpcodeVecI32x4Add:
		f.opVecBin(laneI32x4, (*ir.Builder).Add)
	case wasm.OpcodeVecI32x4Sub:
		f.opVecBin(laneI32x4, (*ir.Builder).Sub)
	case wasm.OpcodeVecI32x4Mul:
		f.opVecBin(laneI32x4, (*ir.Builder).Mul)
	case wasm.OpcodeVecI32x4MinS:
		f.opVecUnaryBin(laneI32x4, "llvm.smin")
	case wasm.OpcodeVecI32x4MinU:
		f.opVecUnaryBin(laneI32x4, "llvm.umin")
	case wasm.OpcodeVecI32x4MaxS:
		f.opVecUnaryBin(laneI32x4, "llvm.smax")
	case wasm.OpcodeVecI32x4MaxU:
		f.opVecUnaryBin(laneI32x4, "llvm.umax")
	case wasm.OpcodeVecI32x4DotI16x8S:
		f.opVecUnaryBin(laneI32x4, "llvm.wasm.dot")

	case wasm.OpcodeVecI32x4TruncSatF32x4S:
		f.opTruncSatVec(true)
	case wasm.OpcodeVecI32x4TruncSatF32x4U:
		f.opTruncSatVec(false)
	case wasm.OpcodeVecI32x4TruncSatF64x2SZero:
		f.opTruncSatVec(true)
	case wasm.OpcodeVecI32x4TruncSatF64x2UZero:
		f.opTruncSatVec(false)

	case wasm.OpcodeVecI64x2Abs:
		f.opVecUnary(laneI64x2, "llvm.abs")
	case wasm.OpcodeVecI64x2Neg:
		f.opVecUnaryNeg(laneI64x2)
	case wasm.OpcodeVecI64x2Add:
		f.opVecBin(laneI64x2, (*ir.Builder).Add)
	case wasm.OpcodeVecI64x2Sub:
		f.opVecBin(laneI64x2, (*ir.Builder).Sub)
	case wasm.OpcodeVecI64x2Mul:
		f.opVecBin(laneI64x2, (*ir.Builder).Mul)

	case wasm.OpcodeVecF32x4Abs:
		f.opVecUnary(laneF32x4, "llvm.fabs")
	case wasm.OpcodeVecF32x4Neg:
		f.opVecUnaryNeg(laneF32x4)
	case wasm.OpcodeVecF32x4Sqrt:
		f.opVecUnary(laneF32x4, "llvm.sqrt")
	case wasm.OpcodeVecF32x4Add:
		f.opVecBin(laneF32x4, (*ir.Builder).FAdd)
	case wasm.OpcodeVecF32x4Sub:
		f.opVecBin(laneF32x4, (*ir.Builder).FSub)
	case wasm.OpcodeVecF32x4Mul:
		f.opVecBin(laneF32x4, (*ir.Builder).FMul)
	case wasm.OpcodeVecF32x4Div:
		f.opVecBin(laneF32x4, (*ir.Builder).FDiv)
	case wasm.OpcodeVecF32x4Min:
		f.opVecUnaryBin(laneF32x4, "llvm.minnum")
	case wasm.OpcodeVecF32x4Max:
		f.opVecUnaryBin(laneF32x4, "llvm.maxnum")

	case wasm.OpcodeVecF64x2Abs:
		f.opVecUnary(laneF64x2, "llvm.fabs")
	case wasm.OpcodeVecF64x2Neg:
		f.opVecUnaryNeg(laneF64x2)
	case wasm.OpcodeVecF64x2Sqrt:
		f.opVecUnary(laneF64x2, "llvm.sqrt")
	case wasm.OpcodeVecF64x2Add:
		f.opVecBin(laneF64x2, (*ir.Builder).FAdd)
	case wasm.OpcodeVecF64x2Sub:
		f.opVecBin(laneF64x2, (*ir.Builder).FSub)
	case wasm.OpcodeVecF64x2Mul:
		f.opVecBin(laneF64x2, (*ir.Builder).FMul)
	case wasm.OpcodeVecF64x2Div:
		f.opVecBin(laneF64x2, (*ir.Builder).FDiv)
	case wasm.OpcodeVecF64x2Min:
		f.opVecUnaryBin(laneF64x2, "llvm.minnum")
	case wasm.OpcodeVecF64x2Max:
		f.opVecUnaryBin(laneF64x2, "llvm.maxnum")

	case wasm.OpcodeVecI16x8RelaxedDotI8x16I7x16S:
		f.opRelaxedDot(false)
	case wasm.OpcodeVecI32x4RelaxedDotI8x16I7x16AddS:
		f.opRelaxedDot(true)

	default:
		return errUnsupportedOpcode("vec sub-opcode")
	}
	return nil
}

// opVecUnaryNeg implements the NegN family: FNeg for float lanes, a
// zero-minus-x subtraction for integer lanes (no dedicated vector ineg
// instruction in this façade).
func (f *FunctionCompiler) opVecUnaryNeg(l lane) {
	if f.state.unreachable {
		f.state.pop()
		f.state.push(f.poison(l.vec))
		return
	}
	x := f.state.pop()
	if l.elem.Kind() == ir.TypeKindFloat {
		f.state.push(f.b.FNeg(x))
		return
	}
	f.state.push(f.b.Sub(zeroConst(f.b, l.vec), x))
}

// opVecUnaryBin covers the two-operand intrinsic-backed ops (sat
// add/sub, min/max, avgr, dot): identical shape to opVecBin but through
// IntrinsicCall rather than a builder method.
func (f *FunctionCompiler) opVecUnaryBin(l lane, intrinsic string) {
	if f.state.unreachable {
		f.state.pop()
		f.state.pop()
		f.state.push(f.poison(l.vec))
		return
	}
	y, x := f.simdBinPop()
	f.state.push(f.b.IntrinsicCall(intrinsic+"."+l.suffix, l.vec, []ir.Value{x, y}))
}

func (f *FunctionCompiler) opShuffle() {
	indices := make([]int64, 16)
	for i := range indices {
		indices[i] = int64(f.readByte())
	}
	if f.state.unreachable {
		f.state.pop()
		f.state.pop()
		f.state.push(f.poison(ir.I8x16))
		return
	}
	y, x := f.simdBinPop()
	f.state.push(f.b.ShuffleVector(x, y, indices))
}

// opSwizzle implements i8x16.swizzle: a data-dependent per-lane gather,
// modelled as the portable llvm.wasm.swizzle intrinsic; native pshufb/tbl
// lowering is a backend instruction-selection concern out of this
// compiler's scope once the subtarget feature is set, so only the
// fallback telemetry differs here.
func (f *FunctionCompiler) opSwizzle() {
	if f.state.unreachable {
		f.state.pop()
		f.state.pop()
		f.state.push(f.poison(ir.I8x16))
		return
	}
	y, x := f.simdBinPop()
	if !simd.PreferSSSE3Shuffle(f.cc.Features) && !simd.PreferNEONTable(f.cc.Features) {
		f.stats.SIMDFallbackUses++
	}
	f.state.push(f.b.IntrinsicCall("llvm.wasm.swizzle", ir.I8x16, []ir.Value{x, y}))
}

// opBitmask implements the BitmaskN family: extracts the sign bit of
// every lane and packs them into the low bits of an i32 result.
func (f *FunctionCompiler) opBitmask(l lane) {
	if f.state.unreachable {
		f.state.pop()
		f.state.push(f.poison(ir.I32))
		return
	}
	x := f.state.pop()
	result := f.b.Iconst(ir.I32, 0)
	for i := 0; i < l.lanes; i++ {
		e := f.b.ExtractElement(x, i, l.elem)
		signBit := f.b.ZExt(ir.I32, f.b.ICmp(ir.IntSignedLessThan, e, f.b.Iconst(l.elem, 0)))
		shifted := f.b.Shl(signBit, f.b.Iconst(ir.I32, int64(i)))
		result = f.b.Or(result, shifted)
	}
	f.state.push(result)
}

// opNarrow implements the NarrowWideS/NarrowWideU family: saturates each
// wide lane into the narrow lane's signed/unsigned range, concatenating
// the two wide operands' lanes into one narrow-width result vector.
func (f *FunctionCompiler) opNarrow(wide, narrow lane, signed bool) {
	if f.state.unreachable {
		f.state.pop()
		f.state.pop()
		f.state.push(f.poison(narrow.vec))
		return
	}
	y, x := f.simdBinPop()
	name := "llvm.wasm.narrow.signed"
	if !signed {
		name = "llvm.wasm.narrow.unsigned"
	}
	f.state.push(f.b.IntrinsicCall(name+"."+narrow.suffix+"."+wide.suffix, narrow.vec, []ir.Value{x, y}))
}

// opExtaddPairwise implements the ExtaddPairwise family: sums adjacent
// lane pairs of the narrow operand, widening to the result's lane width.
func (f *FunctionCompiler) opExtaddPairwise(narrow, wide lane, signed bool) {
	if f.state.unreachable {
		f.state.pop()
		f.state.push(f.poison(wide.vec))
		return
	}
	x := f.state.pop()
	name := "llvm.wasm.extadd.pairwise.signed"
	if !signed {
		name = "llvm.wasm.extadd.pairwise.unsigned"
	}
	f.state.push(f.b.IntrinsicCall(name+"."+wide.suffix+"."+narrow.suffix, wide.vec, []ir.Value{x}))
}
