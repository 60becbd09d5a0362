package llvmaot

import (
	"fmt"

	"github.com/wasm2llvm/wasm2llvm/internal/ir"
	"github.com/wasm2llvm/wasm2llvm/internal/wasm"
)

func errUnsupportedOpcode(what string) error {
	return &CompileError{Code: "UnsupportedOpcode", Msg: what}
}

// lowerOne dispatches the opcode at the current program counter. Control-flow, call, and
// memory opcodes get dedicated cases since they carry special contracts
// of their own (block/loop/if nesting, the unreachable/unreachableDepth
// split, trap guards); the many structurally identical numeric opcodes
// are dispatched through the lookup tables numeric.go builds.
func (f *FunctionCompiler) lowerOne() error {
	op := wasm.Opcode(f.readByte())

	switch op {
	case wasm.OpcodeUnreachable:
		f.opUnreachable()
	case wasm.OpcodeNop:
	case wasm.OpcodeBlock:
		f.opBlock()
	case wasm.OpcodeLoop:
		f.opLoop()
	case wasm.OpcodeIf:
		f.opIf()
	case wasm.OpcodeElse:
		f.opElse()
	case wasm.OpcodeEnd:
		f.opEnd()
	case wasm.OpcodeBr:
		f.opBr()
	case wasm.OpcodeBrIf:
		f.opBrIf()
	case wasm.OpcodeBrTable:
		f.opBrTable()
	case wasm.OpcodeReturn:
		f.opReturn()
	case wasm.OpcodeCall:
		f.opCall()
	case wasm.OpcodeCallIndirect:
		f.opCallIndirect()
	case wasm.OpcodeReturnCall:
		f.opReturnCall()
	case wasm.OpcodeReturnCallIndirect:
		f.opReturnCallIndirect()
	case wasm.OpcodeCallRef:
		f.opCallRef()
	case wasm.OpcodeReturnCallRef:
		f.opReturnCallRef()
	case wasm.OpcodeBrOnNull:
		f.opBrOnNull(false)
	case wasm.OpcodeBrOnNonNull:
		f.opBrOnNull(true)

	case wasm.OpcodeDrop:
		f.opDrop()
	case wasm.OpcodeSelect:
		f.opSelect(false)
	case wasm.OpcodeTypedSelect:
		f.opSelect(true)

	case wasm.OpcodeLocalGet:
		f.opLocalGet()
	case wasm.OpcodeLocalSet:
		f.opLocalSet(false)
	case wasm.OpcodeLocalTee:
		f.opLocalSet(true)
	case wasm.OpcodeGlobalGet:
		f.opGlobalGet(op)
	case wasm.OpcodeGlobalSet:
		f.opGlobalSet()

	case wasm.OpcodeTableGet:
		f.opTableGet()
	case wasm.OpcodeTableSet:
		f.opTableSet()

	case wasm.OpcodeI32Load, wasm.OpcodeI64Load, wasm.OpcodeF32Load, wasm.OpcodeF64Load,
		wasm.OpcodeI32Load8S, wasm.OpcodeI32Load8U, wasm.OpcodeI32Load16S, wasm.OpcodeI32Load16U,
		wasm.OpcodeI64Load8S, wasm.OpcodeI64Load8U, wasm.OpcodeI64Load16S, wasm.OpcodeI64Load16U,
		wasm.OpcodeI64Load32S, wasm.OpcodeI64Load32U:
		f.opLoad(op)
	case wasm.OpcodeI32Store, wasm.OpcodeI64Store, wasm.OpcodeF32Store, wasm.OpcodeF64Store,
		wasm.OpcodeI32Store8, wasm.OpcodeI32Store16, wasm.OpcodeI64Store8, wasm.OpcodeI64Store16, wasm.OpcodeI64Store32:
		f.opStore(op)
	case wasm.OpcodeMemorySize:
		f.opMemorySize()
	case wasm.OpcodeMemoryGrow:
		f.opMemoryGrow()

	case wasm.OpcodeI32Const, wasm.OpcodeI64Const, wasm.OpcodeF32Const, wasm.OpcodeF64Const:
		f.opConst(op)

	case wasm.OpcodeI32Eqz:
		f.opEqz(false)
	case wasm.OpcodeI64Eqz:
		f.opEqz(true)

	case wasm.OpcodeI32Eq, wasm.OpcodeI32Ne, wasm.OpcodeI32LtS, wasm.OpcodeI32LtU, wasm.OpcodeI32GtS, wasm.OpcodeI32GtU,
		wasm.OpcodeI32LeS, wasm.OpcodeI32LeU, wasm.OpcodeI32GeS, wasm.OpcodeI32GeU,
		wasm.OpcodeI64Eq, wasm.OpcodeI64Ne, wasm.OpcodeI64LtS, wasm.OpcodeI64LtU, wasm.OpcodeI64GtS, wasm.OpcodeI64GtU,
		wasm.OpcodeI64LeS, wasm.OpcodeI64LeU, wasm.OpcodeI64GeS, wasm.OpcodeI64GeU:
		f.opIntCmp(op)
	case wasm.OpcodeF32Eq, wasm.OpcodeF32Ne, wasm.OpcodeF32Lt, wasm.OpcodeF32Gt, wasm.OpcodeF32Le, wasm.OpcodeF32Ge,
		wasm.OpcodeF64Eq, wasm.OpcodeF64Ne, wasm.OpcodeF64Lt, wasm.OpcodeF64Gt, wasm.OpcodeF64Le, wasm.OpcodeF64Ge:
		f.opFloatCmp(op)

	case wasm.OpcodeI32Clz, wasm.OpcodeI32Ctz, wasm.OpcodeI32Popcnt, wasm.OpcodeI64Clz, wasm.OpcodeI64Ctz, wasm.OpcodeI64Popcnt:
		f.opClzCtzPopcnt(op)
	case wasm.OpcodeI32Add, wasm.OpcodeI32Sub, wasm.OpcodeI32Mul, wasm.OpcodeI32And, wasm.OpcodeI32Or, wasm.OpcodeI32Xor,
		wasm.OpcodeI64Add, wasm.OpcodeI64Sub, wasm.OpcodeI64Mul, wasm.OpcodeI64And, wasm.OpcodeI64Or, wasm.OpcodeI64Xor,
		wasm.OpcodeF32Add, wasm.OpcodeF32Sub, wasm.OpcodeF32Mul, wasm.OpcodeF32Div,
		wasm.OpcodeF64Add, wasm.OpcodeF64Sub, wasm.OpcodeF64Mul, wasm.OpcodeF64Div:
		f.opSimpleBin(op)
	case wasm.OpcodeI32DivS, wasm.OpcodeI32DivU, wasm.OpcodeI32RemS, wasm.OpcodeI32RemU,
		wasm.OpcodeI64DivS, wasm.OpcodeI64DivU, wasm.OpcodeI64RemS, wasm.OpcodeI64RemU:
		f.opIntDivRem(op)
	case wasm.OpcodeI32Shl, wasm.OpcodeI32ShrS, wasm.OpcodeI32ShrU, wasm.OpcodeI64Shl, wasm.OpcodeI64ShrS, wasm.OpcodeI64ShrU:
		f.opShift(op)
	case wasm.OpcodeI32Rotl, wasm.OpcodeI32Rotr, wasm.OpcodeI64Rotl, wasm.OpcodeI64Rotr:
		f.opRotate(op)

	case wasm.OpcodeF32Abs, wasm.OpcodeF32Neg, wasm.OpcodeF32Ceil, wasm.OpcodeF32Floor, wasm.OpcodeF32Trunc,
		wasm.OpcodeF32Nearest, wasm.OpcodeF32Sqrt,
		wasm.OpcodeF64Abs, wasm.OpcodeF64Neg, wasm.OpcodeF64Ceil, wasm.OpcodeF64Floor, wasm.OpcodeF64Trunc,
		wasm.OpcodeF64Nearest, wasm.OpcodeF64Sqrt:
		f.opFloatUnary(op)
	case wasm.OpcodeF32Min, wasm.OpcodeF32Max, wasm.OpcodeF64Min, wasm.OpcodeF64Max:
		f.opFloatMinMax(op)
	case wasm.OpcodeF32Copysign, wasm.OpcodeF64Copysign:
		f.opCopysign(op)

	case wasm.OpcodeI32WrapI64:
		f.opWrap()
	case wasm.OpcodeI64ExtendI32S:
		f.opExtend(true)
	case wasm.OpcodeI64ExtendI32U:
		f.opExtend(false)

	case wasm.OpcodeI32TruncF32S, wasm.OpcodeI32TruncF32U, wasm.OpcodeI32TruncF64S, wasm.OpcodeI32TruncF64U,
		wasm.OpcodeI64TruncF32S, wasm.OpcodeI64TruncF32U, wasm.OpcodeI64TruncF64S, wasm.OpcodeI64TruncF64U:
		f.opTruncTrapping(op)

	case wasm.OpcodeF32ConvertI32S, wasm.OpcodeF32ConvertI32U, wasm.OpcodeF32ConvertI64S, wasm.OpcodeF32ConvertI64U,
		wasm.OpcodeF32DemoteF64,
		wasm.OpcodeF64ConvertI32S, wasm.OpcodeF64ConvertI32U, wasm.OpcodeF64ConvertI64S, wasm.OpcodeF64ConvertI64U,
		wasm.OpcodeF64PromoteF32:
		f.opConvert(op)

	case wasm.OpcodeI32ReinterpretF32, wasm.OpcodeI64ReinterpretF64, wasm.OpcodeF32ReinterpretI32, wasm.OpcodeF64ReinterpretI64:
		f.opReinterpret(op)

	case wasm.OpcodeI32Extend8S, wasm.OpcodeI32Extend16S, wasm.OpcodeI64Extend8S, wasm.OpcodeI64Extend16S, wasm.OpcodeI64Extend32S:
		f.opSignExtend(op)

	case wasm.OpcodeRefNull:
		f.opRefNull()
	case wasm.OpcodeRefIsNull:
		f.opRefIsNull()
	case wasm.OpcodeRefFunc:
		f.opRefFunc()
	case wasm.OpcodeRefEq:
		f.opRefEq()
	case wasm.OpcodeRefAsNonNull:
		f.opRefAsNonNull()

	case wasm.OpcodeMiscPrefix:
		sub := wasm.OpcodeMisc(f.readU32())
		return f.lowerMisc(sub)
	case wasm.OpcodeVecPrefix:
		sub := wasm.OpcodeVec(f.readU32())
		return f.lowerVec(sub)
	case wasm.OpcodeAtomicPrefix:
		sub := wasm.OpcodeAtomic(f.readU32())
		return f.lowerAtomic(sub)
	case wasm.OpcodeGCPrefix:
		sub := wasm.OpcodeGC(f.readU32())
		return f.lowerGC(sub)

	default:
		return errUnsupportedOpcode(fmt.Sprintf("opcode 0x%x", byte(op)))
	}
	return nil
}

// opBrOnNull/opBrOnNonNull implement the typed-function-references
// proposal's conditional branches. br_on_null pops the reference and
// branches to depth N (carrying the label's ordinary arity) when it's
// null; otherwise the reference is pushed back and execution falls
// through. br_on_non_null pops the reference and branches carrying it
// appended to the label's arity when it's non-null; otherwise it's
// dropped and execution falls through.
func (f *FunctionCompiler) opBrOnNull(onNonNull bool) {
	depth := f.readU32()
	if f.state.unreachable {
		f.state.pop()
		return
	}
	ref := f.state.pop()
	isNull := f.refIsNullCond(ref)
	target, n := f.brTarget(depth)
	args := f.state.peekN(n)

	cont := f.b.AllocateBasicBlock("br_on_null_cont")
	if onNonNull {
		fullArgs := append(append([]ir.Value{}, args...), ref)
		f.b.CondBr(isNull, cont, nil, target, fullArgs)
	} else {
		f.b.CondBr(isNull, target, args, cont, nil)
	}
	cont.Seal()
	f.b.SetCurrentBlock(cont)
	if !onNonNull {
		f.state.push(ref)
	}
}
