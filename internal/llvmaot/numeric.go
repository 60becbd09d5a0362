package llvmaot

import (
	"math"

	"github.com/wasm2llvm/wasm2llvm/internal/ir"
	"github.com/wasm2llvm/wasm2llvm/internal/wasm"
)

// simpleBinOps maps opcodes whose lowering is a single ir.Builder binop
// with no trap/masking logic: add/sub/mul/and/or/xor and the float arithmetic
// family. Div/rem/shift/rotate/min/max have dedicated handlers below
// because each carries its own trap, masking, or NaN-propagation rule.
var simpleBinOps = map[wasm.Opcode]func(b *ir.Builder, x, y ir.Value) ir.Value{
	wasm.OpcodeI32Add: (*ir.Builder).Add, wasm.OpcodeI64Add: (*ir.Builder).Add,
	wasm.OpcodeI32Sub: (*ir.Builder).Sub, wasm.OpcodeI64Sub: (*ir.Builder).Sub,
	wasm.OpcodeI32Mul: (*ir.Builder).Mul, wasm.OpcodeI64Mul: (*ir.Builder).Mul,
	wasm.OpcodeI32And: (*ir.Builder).And, wasm.OpcodeI64And: (*ir.Builder).And,
	wasm.OpcodeI32Or:  (*ir.Builder).Or, wasm.OpcodeI64Or: (*ir.Builder).Or,
	wasm.OpcodeI32Xor: (*ir.Builder).Xor, wasm.OpcodeI64Xor: (*ir.Builder).Xor,
	wasm.OpcodeF32Add: (*ir.Builder).FAdd, wasm.OpcodeF64Add: (*ir.Builder).FAdd,
	wasm.OpcodeF32Sub: (*ir.Builder).FSub, wasm.OpcodeF64Sub: (*ir.Builder).FSub,
	wasm.OpcodeF32Mul: (*ir.Builder).FMul, wasm.OpcodeF64Mul: (*ir.Builder).FMul,
	wasm.OpcodeF32Div: (*ir.Builder).FDiv, wasm.OpcodeF64Div: (*ir.Builder).FDiv,
}

// intCmpOps maps integer comparison opcodes to their predicate.
var intCmpOps = map[wasm.Opcode]ir.IntCmpCond{
	wasm.OpcodeI32Eq: ir.IntEqual, wasm.OpcodeI64Eq: ir.IntEqual,
	wasm.OpcodeI32Ne: ir.IntNotEqual, wasm.OpcodeI64Ne: ir.IntNotEqual,
	wasm.OpcodeI32LtS: ir.IntSignedLessThan, wasm.OpcodeI64LtS: ir.IntSignedLessThan,
	wasm.OpcodeI32LtU: ir.IntUnsignedLessThan, wasm.OpcodeI64LtU: ir.IntUnsignedLessThan,
	wasm.OpcodeI32GtS: ir.IntSignedGreaterThan, wasm.OpcodeI64GtS: ir.IntSignedGreaterThan,
	wasm.OpcodeI32GtU: ir.IntUnsignedGreaterThan, wasm.OpcodeI64GtU: ir.IntUnsignedGreaterThan,
	wasm.OpcodeI32LeS: ir.IntSignedLessThanOrEqual, wasm.OpcodeI64LeS: ir.IntSignedLessThanOrEqual,
	wasm.OpcodeI32LeU: ir.IntUnsignedLessThanOrEqual, wasm.OpcodeI64LeU: ir.IntUnsignedLessThanOrEqual,
	wasm.OpcodeI32GeS: ir.IntSignedGreaterThanOrEqual, wasm.OpcodeI64GeS: ir.IntSignedGreaterThanOrEqual,
	wasm.OpcodeI32GeU: ir.IntUnsignedGreaterThanOrEqual, wasm.OpcodeI64GeU: ir.IntUnsignedGreaterThanOrEqual,
}

// floatCmpOps maps float comparison opcodes to their ordered predicate.
var floatCmpOps = map[wasm.Opcode]ir.FloatCmpCond{
	wasm.OpcodeF32Eq: ir.FloatEqual, wasm.OpcodeF64Eq: ir.FloatEqual,
	wasm.OpcodeF32Ne: ir.FloatNotEqual, wasm.OpcodeF64Ne: ir.FloatNotEqual,
	wasm.OpcodeF32Lt: ir.FloatLessThan, wasm.OpcodeF64Lt: ir.FloatLessThan,
	wasm.OpcodeF32Gt: ir.FloatGreaterThan, wasm.OpcodeF64Gt: ir.FloatGreaterThan,
	wasm.OpcodeF32Le: ir.FloatLessThanOrEqual, wasm.OpcodeF64Le: ir.FloatLessThanOrEqual,
	wasm.OpcodeF32Ge: ir.FloatGreaterThanOrEqual, wasm.OpcodeF64Ge: ir.FloatGreaterThanOrEqual,
}

func (f *FunctionCompiler) opSimpleBin(op wasm.Opcode) {
	fn := simpleBinOps[op]
	if f.state.unreachable {
		f.state.pop()
		f.state.pop()
		f.state.push(f.poison(f.simpleBinType(op)))
		return
	}
	y, x := f.state.pop(), f.state.pop()
	f.state.push(fn(f.b, x, y))
}

func (f *FunctionCompiler) simpleBinType(op wasm.Opcode) ir.Type {
	switch op {
	case wasm.OpcodeI32Add, wasm.OpcodeI32Sub, wasm.OpcodeI32Mul, wasm.OpcodeI32And, wasm.OpcodeI32Or, wasm.OpcodeI32Xor:
		return ir.I32
	case wasm.OpcodeI64Add, wasm.OpcodeI64Sub, wasm.OpcodeI64Mul, wasm.OpcodeI64And, wasm.OpcodeI64Or, wasm.OpcodeI64Xor:
		return ir.I64
	case wasm.OpcodeF32Add, wasm.OpcodeF32Sub, wasm.OpcodeF32Mul, wasm.OpcodeF32Div:
		return ir.F32
	default:
		return ir.F64
	}
}

// poison returns a well-typed placeholder value for use when the
// enclosing frame is unreachable: this façade models poison as the zero constant of the
// requested type since it is never actually read back out to a real
// backend.
func (f *FunctionCompiler) poison(t ir.Type) ir.Value {
	return zeroConst(f.b, t)
}

func (f *FunctionCompiler) opIntCmp(op wasm.Opcode) {
	cond := intCmpOps[op]
	if f.state.unreachable {
		f.state.pop()
		f.state.pop()
		f.state.push(f.poison(ir.I32))
		return
	}
	y, x := f.state.pop(), f.state.pop()
	cmp := f.b.ICmp(cond, x, y)
	f.state.push(f.b.ZExt(ir.I32, cmp))
}

func (f *FunctionCompiler) opFloatCmp(op wasm.Opcode) {
	cond := floatCmpOps[op]
	if f.state.unreachable {
		f.state.pop()
		f.state.pop()
		f.state.push(f.poison(ir.I32))
		return
	}
	y, x := f.state.pop(), f.state.pop()
	cmp := f.b.FCmp(cond, x, y)
	f.state.push(f.b.ZExt(ir.I32, cmp))
}

func (f *FunctionCompiler) opEqz(is64 bool) {
	t := ir.I32
	if is64 {
		t = ir.I64
	}
	if f.state.unreachable {
		f.state.pop()
		f.state.push(f.poison(ir.I32))
		return
	}
	v := f.state.pop()
	cmp := f.b.ICmp(ir.IntEqual, v, f.b.Iconst(t, 0))
	f.state.push(f.b.ZExt(ir.I32, cmp))
}

func (f *FunctionCompiler) opConst(op wasm.Opcode) {
	switch op {
	case wasm.OpcodeI32Const:
		v := f.readI32()
		f.pushMaybe(func() ir.Value { return f.b.Iconst(ir.I32, int64(v)) }, ir.I32)
	case wasm.OpcodeI64Const:
		v := f.readI64()
		f.pushMaybe(func() ir.Value { return f.b.Iconst(ir.I64, v) }, ir.I64)
	case wasm.OpcodeF32Const:
		bits := f.readU32()
		f.pushMaybe(func() ir.Value { return f.b.Fconst(ir.F32, uint64(bits)) }, ir.F32)
	case wasm.OpcodeF64Const:
		bits := uint64(f.readU32()) | uint64(f.readU32())<<32
		f.pushMaybe(func() ir.Value { return f.b.Fconst(ir.F64, bits) }, ir.F64)
	}
}

// pushMaybe evaluates and pushes build() unless the frame is currently
// unreachable, in which case it pushes a poison value of t instead — used
// for opcodes whose immediates must still be consumed from the byte
// stream either way.
func (f *FunctionCompiler) pushMaybe(build func() ir.Value, t ir.Type) {
	if f.state.unreachable {
		f.state.push(f.poison(t))
		return
	}
	f.state.push(build())
}

// opIntDivRem implements "Integer div/rem": traps
// DivideByZero on a zero divisor; for signed div additionally traps
// IntegerOverflow on INT_MIN/-1; for signed rem, the same pattern yields 0
// instead of trapping (the WebAssembly-defined result).
func (f *FunctionCompiler) opIntDivRem(op wasm.Opcode) {
	is64 := op == wasm.OpcodeI64DivS || op == wasm.OpcodeI64DivU || op == wasm.OpcodeI64RemS || op == wasm.OpcodeI64RemU
	t := ir.I32
	if is64 {
		t = ir.I64
	}
	signed := op == wasm.OpcodeI32DivS || op == wasm.OpcodeI64DivS || op == wasm.OpcodeI32RemS || op == wasm.OpcodeI64RemS
	isRem := op == wasm.OpcodeI32RemS || op == wasm.OpcodeI64RemS || op == wasm.OpcodeI32RemU || op == wasm.OpcodeI64RemU

	if f.state.unreachable {
		f.state.pop()
		f.state.pop()
		f.state.push(f.poison(t))
		return
	}

	y, x := f.state.pop(), f.state.pop()
	zero := f.b.Iconst(t, 0)
	isZero := f.b.ICmp(ir.IntEqual, y, zero)
	f.branchToTrap(isZero, TrapDivideByZero)

	if !signed {
		if isRem {
			f.state.push(f.b.URem(x, y))
		} else {
			f.state.push(f.b.UDiv(x, y))
		}
		return
	}

	intMin := f.b.Iconst(t, minIntOf(t))
	negOne := f.b.Iconst(t, -1)
	isOverflow := f.b.And(f.b.ICmp(ir.IntEqual, x, intMin), f.b.ICmp(ir.IntEqual, y, negOne))

	if !isRem {
		f.branchToTrap(isOverflow, TrapIntegerOverflow)
		f.state.push(f.b.SDiv(x, y))
		return
	}

	// Signed rem: the overflow pattern yields 0 rather than trapping.
	overflowBlk := f.b.AllocateBasicBlock("srem_overflow")
	normalBlk := f.b.AllocateBasicBlock("srem_normal")
	joinBlk := f.b.AllocateBasicBlock("srem_join")
	joinBlk.AddParam(f.fn, t)

	f.b.CondBr(isOverflow, overflowBlk, nil, normalBlk, nil)
	overflowBlk.Seal()
	normalBlk.Seal()

	f.b.SetCurrentBlock(overflowBlk)
	f.b.Br(joinBlk, f.b.Iconst(t, 0))

	f.b.SetCurrentBlock(normalBlk)
	f.b.Br(joinBlk, f.b.SRem(x, y))

	joinBlk.Seal()
	f.b.SetCurrentBlock(joinBlk)
	f.state.push(joinBlk.Params()[0])
}

func minIntOf(t ir.Type) int64 {
	if t.Equal(ir.I64) {
		return math.MinInt64
	}
	return int64(math.MinInt32)
}

// opShift implements "Shifts": masks the shift count by
// width-1.
func (f *FunctionCompiler) opShift(op wasm.Opcode) {
	is64 := op == wasm.OpcodeI64Shl || op == wasm.OpcodeI64ShrS || op == wasm.OpcodeI64ShrU
	t := ir.I32
	mask := int64(31)
	if is64 {
		t = ir.I64
		mask = 63
	}
	if f.state.unreachable {
		f.state.pop()
		f.state.pop()
		f.state.push(f.poison(t))
		return
	}
	n, x := f.state.pop(), f.state.pop()
	masked := f.b.And(n, f.b.Iconst(t, mask))
	switch op {
	case wasm.OpcodeI32Shl, wasm.OpcodeI64Shl:
		f.state.push(f.b.Shl(x, masked))
	case wasm.OpcodeI32ShrS, wasm.OpcodeI64ShrS:
		f.state.push(f.b.AShr(x, masked))
	default:
		f.state.push(f.b.LShr(x, masked))
	}
}

// opRotate implements "Rotations": the funnel-shift
// intrinsic with the same operand doubled.
func (f *FunctionCompiler) opRotate(op wasm.Opcode) {
	is64 := op == wasm.OpcodeI64Rotl || op == wasm.OpcodeI64Rotr
	t := ir.I32
	if is64 {
		t = ir.I64
	}
	if f.state.unreachable {
		f.state.pop()
		f.state.pop()
		f.state.push(f.poison(t))
		return
	}
	n, x := f.state.pop(), f.state.pop()
	name := "llvm.fshl." + t.String()
	if op == wasm.OpcodeI32Rotr || op == wasm.OpcodeI64Rotr {
		name = "llvm.fshr." + t.String()
	}
	f.state.push(f.b.IntrinsicCall(name, t, []ir.Value{x, x, n}))
}

// opClzCtzPopcnt dispatches clz/ctz/popcnt to their LLVM intrinsic.
func (f *FunctionCompiler) opClzCtzPopcnt(op wasm.Opcode) {
	is64 := op == wasm.OpcodeI64Clz || op == wasm.OpcodeI64Ctz || op == wasm.OpcodeI64Popcnt
	t := ir.I32
	if is64 {
		t = ir.I64
	}
	if f.state.unreachable {
		f.state.pop()
		f.state.push(f.poison(t))
		return
	}
	x := f.state.pop()
	var name string
	switch op {
	case wasm.OpcodeI32Clz, wasm.OpcodeI64Clz:
		name = "llvm.ctlz." + t.String()
	case wasm.OpcodeI32Ctz, wasm.OpcodeI64Ctz:
		name = "llvm.cttz." + t.String()
	default:
		name = "llvm.ctpop." + t.String()
	}
	f.state.push(f.b.IntrinsicCall(name, t, []ir.Value{x}))
}

// opFloatUnary dispatches abs/neg/ceil/floor/trunc/sqrt to their LLVM
// intrinsic or instruction, and nearest to opNearest; copysign is handled
// by opCopysign.
func (f *FunctionCompiler) opFloatUnary(op wasm.Opcode) {
	is64 := isF64Unary(op)
	t := ir.F32
	if is64 {
		t = ir.F64
	}
	if f.state.unreachable {
		f.state.pop()
		f.state.push(f.poison(t))
		return
	}
	x := f.state.pop()
	switch op {
	case wasm.OpcodeF32Neg, wasm.OpcodeF64Neg:
		f.state.push(f.b.FNeg(x))
	case wasm.OpcodeF32Abs, wasm.OpcodeF64Abs:
		f.state.push(f.b.IntrinsicCall("llvm.fabs."+t.String(), t, []ir.Value{x}))
	case wasm.OpcodeF32Ceil, wasm.OpcodeF64Ceil:
		f.state.push(f.b.IntrinsicCall("llvm.ceil."+t.String(), t, []ir.Value{x}))
	case wasm.OpcodeF32Floor, wasm.OpcodeF64Floor:
		f.state.push(f.b.IntrinsicCall("llvm.floor."+t.String(), t, []ir.Value{x}))
	case wasm.OpcodeF32Trunc, wasm.OpcodeF64Trunc:
		f.state.push(f.b.IntrinsicCall("llvm.trunc."+t.String(), t, []ir.Value{x}))
	case wasm.OpcodeF32Sqrt, wasm.OpcodeF64Sqrt:
		f.state.push(f.b.IntrinsicCall("llvm.sqrt."+t.String(), t, []ir.Value{x}))
	case wasm.OpcodeF32Nearest, wasm.OpcodeF64Nearest:
		f.state.push(f.opNearest(t, x))
	}
}

func isF64Unary(op wasm.Opcode) bool {
	return op >= wasm.OpcodeF64Abs && op <= wasm.OpcodeF64Copysign
}

// opNearest implements "F32/F64 nearest": prefer the
// roundeven intrinsic when available; the subtarget-specific scalar round
// paths (SSE4.1 round, NEON frintn) collapse to the same
// portable roundeven intrinsic at the IR-façade level this compiler
// targets, since LLVM's own instruction-selection (out of scope per
// ) is what actually picks the scalar encoding; nearbyint is
// kept as the explicit fallback name when the subtarget offers neither.
func (f *FunctionCompiler) opNearest(t ir.Type, x ir.Value) ir.Value {
	if f.cc.Features.SSE41 || f.cc.Features.NEON {
		return f.b.IntrinsicCall("llvm.roundeven."+t.String(), t, []ir.Value{x})
	}
	return f.b.IntrinsicCall("llvm.nearbyint."+t.String(), t, []ir.Value{x})
}

func (f *FunctionCompiler) opCopysign(op wasm.Opcode) {
	t := ir.F32
	if op == wasm.OpcodeF64Copysign {
		t = ir.F64
	}
	if f.state.unreachable {
		f.state.pop()
		f.state.pop()
		f.state.push(f.poison(t))
		return
	}
	y, x := f.state.pop(), f.state.pop()
	f.state.push(f.b.IntrinsicCall("llvm.copysign."+t.String(), t, []ir.Value{x, y}))
}

// opFloatMinMax implements "Float min/max": NaN
// propagates (computed as lhs+rhs to force propagation); signed-zero
// cases pick the sign-correct zero via or (min) / and (max) on the
// operands' bit patterns; otherwise minnum/maxnum.
func (f *FunctionCompiler) opFloatMinMax(op wasm.Opcode) {
	isMax := op == wasm.OpcodeF32Max || op == wasm.OpcodeF64Max
	t := ir.F32
	intT := ir.I32
	if op == wasm.OpcodeF64Min || op == wasm.OpcodeF64Max {
		t = ir.F64
		intT = ir.I64
	}
	if f.state.unreachable {
		f.state.pop()
		f.state.pop()
		f.state.push(f.poison(t))
		return
	}
	y, x := f.state.pop(), f.state.pop()

	xNan := f.b.FCmp(ir.FloatNotEqual, x, x)
	yNan := f.b.FCmp(ir.FloatNotEqual, y, y)
	eitherNan := f.b.Or(f.b.ZExt(ir.I32, xNan), f.b.ZExt(ir.I32, yNan))

	bothZero := f.b.And(
		f.b.ZExt(ir.I32, f.b.FCmp(ir.FloatEqual, x, f.b.Fconst(t, 0))),
		f.b.ZExt(ir.I32, f.b.FCmp(ir.FloatEqual, y, f.b.Fconst(t, 0))),
	)

	name := "llvm.minnum." + t.String()
	if isMax {
		name = "llvm.maxnum." + t.String()
	}
	normal := f.b.IntrinsicCall(name, t, []ir.Value{x, y})

	nanResult := f.b.FAdd(x, y)

	xBits := f.b.BitCast(intT, x)
	yBits := f.b.BitCast(intT, y)
	var zeroBits ir.Value
	if isMax {
		zeroBits = f.b.And(xBits, yBits)
	} else {
		zeroBits = f.b.Or(xBits, yBits)
	}
	zeroResult := f.b.BitCast(t, zeroBits)

	r := f.b.Select(f.b.ICmp(ir.IntNotEqual, eitherNan, f.b.Iconst(ir.I32, 0)), nanResult,
		f.b.Select(f.b.ICmp(ir.IntNotEqual, bothZero, f.b.Iconst(ir.I32, 0)), zeroResult, normal))
	f.state.push(r)
}

// opWrap implements i32.wrap_i64: truncation with no trap.
func (f *FunctionCompiler) opWrap() {
	if f.state.unreachable {
		f.state.pop()
		f.state.push(f.poison(ir.I32))
		return
	}
	f.state.push(f.b.Trunc(ir.I32, f.state.pop()))
}

// opExtend implements i64.extend_i32_{s,u}.
func (f *FunctionCompiler) opExtend(signed bool) {
	if f.state.unreachable {
		f.state.pop()
		f.state.push(f.poison(ir.I64))
		return
	}
	x := f.state.pop()
	if signed {
		f.state.push(f.b.SExt(ir.I64, x))
	} else {
		f.state.push(f.b.ZExt(ir.I64, x))
	}
}

// opSignExtend implements the sign-extension proposal's i32/i64.extendN_s
// ops: sign-extend a narrower-width two's-complement view back out to the
// full operand width.
func (f *FunctionCompiler) opSignExtend(op wasm.Opcode) {
	var t, narrow ir.Type
	switch op {
	case wasm.OpcodeI32Extend8S:
		t, narrow = ir.I32, ir.I8
	case wasm.OpcodeI32Extend16S:
		t, narrow = ir.I32, ir.I16
	case wasm.OpcodeI64Extend8S:
		t, narrow = ir.I64, ir.I8
	case wasm.OpcodeI64Extend16S:
		t, narrow = ir.I64, ir.I16
	case wasm.OpcodeI64Extend32S:
		t, narrow = ir.I64, ir.I32
	}
	if f.state.unreachable {
		f.state.pop()
		f.state.push(f.poison(t))
		return
	}
	x := f.state.pop()
	truncated := f.b.Trunc(narrow, x)
	f.state.push(f.b.SExt(t, truncated))
}

// opReinterpret implements the four bitcast-only reinterpret opcodes.
func (f *FunctionCompiler) opReinterpret(op wasm.Opcode) {
	var t ir.Type
	switch op {
	case wasm.OpcodeI32ReinterpretF32:
		t = ir.I32
	case wasm.OpcodeI64ReinterpretF64:
		t = ir.I64
	case wasm.OpcodeF32ReinterpretI32:
		t = ir.F32
	case wasm.OpcodeF64ReinterpretI64:
		t = ir.F64
	}
	if f.state.unreachable {
		f.state.pop()
		f.state.push(f.poison(t))
		return
	}
	f.state.push(f.b.BitCast(t, f.state.pop()))
}

// opConvert implements the int->float convert opcodes (never traps) and
// float->float promote/demote.
func (f *FunctionCompiler) opConvert(op wasm.Opcode) {
	var t ir.Type
	switch op {
	case wasm.OpcodeF32ConvertI32S, wasm.OpcodeF32ConvertI32U, wasm.OpcodeF32ConvertI64S, wasm.OpcodeF32ConvertI64U, wasm.OpcodeF32DemoteF64:
		t = ir.F32
	default:
		t = ir.F64
	}
	if f.state.unreachable {
		f.state.pop()
		f.state.push(f.poison(t))
		return
	}
	x := f.state.pop()
	switch op {
	case wasm.OpcodeF32ConvertI32S, wasm.OpcodeF32ConvertI64S, wasm.OpcodeF64ConvertI32S, wasm.OpcodeF64ConvertI64S:
		f.state.push(f.b.SIToFP(t, x))
	case wasm.OpcodeF32ConvertI32U, wasm.OpcodeF32ConvertI64U, wasm.OpcodeF64ConvertI32U, wasm.OpcodeF64ConvertI64U:
		f.state.push(f.b.UIToFP(t, x))
	case wasm.OpcodeF32DemoteF64:
		f.state.push(f.b.FPTrunc(t, x))
	case wasm.OpcodeF64PromoteF32:
		f.state.push(f.b.FPExt(t, x))
	}
}

// truncBounds names the representable [min,max] float bounds for a
// trapping/saturating truncation target. The upper bound is always
// tested with a strict >= against upperExclusive (max+1, a power of two
// and so exactly representable in any source float type) rather than a
// LessThanOrEqual against the true maximum, to avoid the double-rounding
// pitfall when the integer width exceeds the float's mantissa precision.
//
// The lower bound needs an asymmetric technique for signed
// truncation: the true cutoff is min-1, but min-1 is not always exactly
// representable (e.g. -2147483649 in f32), and double-rounds back to
// exactly min — which would falsely trap the in-range trunc(min) case.
// lowerExactMin instead holds the exact destination minimum (also a
// power of two) and is compared with a strict <, which lands on the
// same classification without ever materializing the inexact min-1.
// Unsigned truncation has no such pitfall (its cutoff, -1, is always
// exact) and keeps the inclusive lowerInclusive/<=  comparison.
type truncBounds struct {
	lowerInclusive, lowerExactMin, upperExclusive float64
	satMin, satMax                                int64
}

func boundsFor(destIs64, signed bool) truncBounds {
	switch {
	case !destIs64 && signed:
		return truncBounds{lowerExactMin: -2147483648, upperExclusive: 2147483648, satMin: -2147483648, satMax: 2147483647}
	case !destIs64 && !signed:
		return truncBounds{lowerInclusive: -1, upperExclusive: 4294967296, satMin: 0, satMax: 4294967295}
	case destIs64 && signed:
		return truncBounds{lowerExactMin: float64(minInt64), upperExclusive: 9223372036854775808, satMin: minInt64, satMax: maxInt64}
	default:
		return truncBounds{lowerInclusive: -1, upperExclusive: 18446744073709551616, satMin: 0, satMax: -1} // satMax handled specially (all-ones) by caller.
	}
}

const minInt64 = math.MinInt64
const maxInt64 = math.MaxInt64

// opTruncTrapping implements "Float -> int truncation
// (trapping)": NaN traps InvalidConvToInt; out-of-bounds traps
// IntegerOverflow; otherwise a plain fptosi/fptoui.
func (f *FunctionCompiler) opTruncTrapping(op wasm.Opcode) {
	destIs64, signed, srcT, destT := truncShape(op)
	if f.state.unreachable {
		f.state.pop()
		f.state.push(f.poison(destT))
		return
	}
	x := f.state.pop()

	isNan := f.b.FCmp(ir.FloatNotEqual, x, x)
	f.branchToTrap(isNan, TrapInvalidConvToInt)

	bnd := boundsFor(destIs64, signed)
	var lower ir.Value
	if signed {
		lower = f.b.FCmp(ir.FloatLessThan, x, f.b.Fconst(srcT, floatBits(bnd.lowerExactMin, srcT)))
	} else {
		lower = f.b.FCmp(ir.FloatLessThanOrEqual, x, f.b.Fconst(srcT, floatBits(bnd.lowerInclusive, srcT)))
	}
	upper := f.b.FCmp(ir.FloatGreaterThanOrEqual, x, f.b.Fconst(srcT, floatBits(bnd.upperExclusive, srcT)))
	oor := f.b.Or(f.b.ZExt(ir.I32, lower), f.b.ZExt(ir.I32, upper))
	f.branchToTrap(f.b.ICmp(ir.IntNotEqual, oor, f.b.Iconst(ir.I32, 0)), TrapIntegerOverflow)

	if signed {
		f.state.push(f.b.FPToSI(destT, x))
	} else {
		f.state.push(f.b.FPToUI(destT, x))
	}
}

// opTruncSaturating implements "Float -> int truncation
// (saturating)": a total function returning a φ-merge of {0 on NaN, MIN on
// underflow, MAX on overflow, trunc on normal}.
func (f *FunctionCompiler) opTruncSaturating(destIs64, signed bool, srcT ir.Type) {
	destT := ir.I32
	if destIs64 {
		destT = ir.I64
	}
	if f.state.unreachable {
		f.state.pop()
		f.state.push(f.poison(destT))
		return
	}
	x := f.state.pop()
	bnd := boundsFor(destIs64, signed)

	isNan := f.b.FCmp(ir.FloatNotEqual, x, x)
	var under ir.Value
	if signed {
		under = f.b.FCmp(ir.FloatLessThan, x, f.b.Fconst(srcT, floatBits(bnd.lowerExactMin, srcT)))
	} else {
		under = f.b.FCmp(ir.FloatLessThanOrEqual, x, f.b.Fconst(srcT, floatBits(bnd.lowerInclusive, srcT)))
	}
	over := f.b.FCmp(ir.FloatGreaterThanOrEqual, x, f.b.Fconst(srcT, floatBits(bnd.upperExclusive, srcT)))

	var normal ir.Value
	if signed {
		normal = f.b.FPToSI(destT, x)
	} else {
		normal = f.b.FPToUI(destT, x)
	}

	satMax := f.b.Iconst(destT, bnd.satMax)
	if !signed && destIs64 {
		satMax = f.b.Iconst(destT, -1) // all-ones == UINT64_MAX.
	} else if !signed && !destIs64 {
		satMax = f.b.Iconst(destT, 4294967295)
	}

	r := f.b.Select(over, satMax,
		f.b.Select(under, f.b.Iconst(destT, bnd.satMin),
			f.b.Select(isNan, f.b.Iconst(destT, 0), normal)))
	f.state.push(r)
}

func truncShape(op wasm.Opcode) (destIs64, signed bool, srcT, destT ir.Type) {
	switch op {
	case wasm.OpcodeI32TruncF32S:
		return false, true, ir.F32, ir.I32
	case wasm.OpcodeI32TruncF32U:
		return false, false, ir.F32, ir.I32
	case wasm.OpcodeI32TruncF64S:
		return false, true, ir.F64, ir.I32
	case wasm.OpcodeI32TruncF64U:
		return false, false, ir.F64, ir.I32
	case wasm.OpcodeI64TruncF32S:
		return true, true, ir.F32, ir.I64
	case wasm.OpcodeI64TruncF32U:
		return true, false, ir.F32, ir.I64
	case wasm.OpcodeI64TruncF64S:
		return true, true, ir.F64, ir.I64
	case wasm.OpcodeI64TruncF64U:
		return true, false, ir.F64, ir.I64
	default:
		panic("llvmaot: unhandled trunc opcode")
	}
}

// floatBits renders a float64 literal as the raw bit pattern for t, via
// math.Float32bits for f32 and math.Float64bits otherwise.
func floatBits(v float64, t ir.Type) uint64 {
	if t.Equal(ir.F32) {
		return uint64(math.Float32bits(float32(v)))
	}
	return math.Float64bits(v)
}
