package llvmaot

import (
	"github.com/wasm2llvm/wasm2llvm/internal/ir"
	"github.com/wasm2llvm/wasm2llvm/internal/wasm"
)

func (f *FunctionCompiler) opArrayNewFixed(typeIdx wasm.Index, n uint32) {
	if f.state.unreachable {
		f.state.popN(int(n))
		f.state.push(f.poison(ir.RefRepr))
		return
	}
	elems := f.state.popN(int(n))
	elemsBuf, _ := f.marshalScratch(elems, nil)
	r := f.cc.callIntrinsic(f.b, IntrinsicArrayNewFixed, ir.RefRepr, []ir.Value{
		f.b.Iconst(ir.I32, int64(typeIdx)), f.b.Iconst(ir.I32, int64(n)), elemsBuf,
	})
	f.state.push(r)
}

func (f *FunctionCompiler) opArrayNewFromSegment(tag Intrinsic, typeIdx, segIdx wasm.Index) {
	if f.state.unreachable {
		f.state.pop()
		f.state.pop()
		f.state.push(f.poison(ir.RefRepr))
		return
	}
	n := f.state.pop()
	off := f.state.pop()
	r := f.cc.callIntrinsic(f.b, tag, ir.RefRepr, []ir.Value{
		f.b.Iconst(ir.I32, int64(typeIdx)), f.b.Iconst(ir.I32, int64(segIdx)), off, n,
	})
	f.state.push(r)
}

func (f *FunctionCompiler) opArrayFill() {
	typeIdx := wasm.Index(f.readU32())
	if f.state.unreachable {
		f.state.popN(4)
		return
	}
	n := f.state.pop()
	val := f.state.pop()
	idx := f.state.pop()
	ref := f.state.pop()
	f.branchToTrap(f.refIsNullCond(ref), TrapCastNullToNonNull)
	f.cc.callIntrinsic(f.b, IntrinsicArrayFill, ir.VoidType, []ir.Value{
		ref, f.b.Iconst(ir.I32, int64(typeIdx)), idx, widenToI64(f.b, val), n,
	})
}

func (f *FunctionCompiler) opArrayCopy() {
	dstType := wasm.Index(f.readU32())
	srcType := wasm.Index(f.readU32())
	if f.state.unreachable {
		f.state.popN(5)
		return
	}
	n := f.state.pop()
	srcIdx := f.state.pop()
	src := f.state.pop()
	dstIdx := f.state.pop()
	dst := f.state.pop()
	f.branchToTrap(f.refIsNullCond(dst), TrapCastNullToNonNull)
	f.branchToTrap(f.refIsNullCond(src), TrapCastNullToNonNull)
	f.cc.callIntrinsic(f.b, IntrinsicArrayCopy, ir.VoidType, []ir.Value{
		dst, f.b.Iconst(ir.I32, int64(dstType)), dstIdx,
		src, f.b.Iconst(ir.I32, int64(srcType)), srcIdx, n,
	})
}

func (f *FunctionCompiler) opArrayInitFromSegment(tag Intrinsic, typeIdx, segIdx wasm.Index) {
	if f.state.unreachable {
		f.state.popN(4)
		return
	}
	n := f.state.pop()
	srcOff := f.state.pop()
	dstIdx := f.state.pop()
	dst := f.state.pop()
	f.branchToTrap(f.refIsNullCond(dst), TrapCastNullToNonNull)
	f.cc.callIntrinsic(f.b, tag, ir.VoidType, []ir.Value{
		dst, f.b.Iconst(ir.I32, int64(typeIdx)), f.b.Iconst(ir.I32, int64(segIdx)), dstIdx, srcOff, n,
	})
}

// opBrOnCast/opBrOnCastFail implement the GC proposal's conditional casts.
// The reference representation is uniform regardless of static heap type
// (refgc.go's canonical 2x i64 shape), so a successful cast changes no
// bits; only RefTest's boolean result decides which edge is taken, and
// the same ref value rides along whichever edge fires.
func (f *FunctionCompiler) opBrOnCast(onFail bool) {
	f.readByte() // flags: nullable bit for source/target heap types.
	depth := f.readU32()
	f.readI32() // source heap type, unused: this façade's cast check only consults the target.
	targetHeap := f.readI32()
	if f.state.unreachable {
		f.state.pop()
		return
	}
	ref := f.state.pop()
	ok := f.cc.callIntrinsic(f.b, IntrinsicRefTest, ir.I32, []ir.Value{
		ref, f.b.Iconst(ir.I32, int64(targetHeap)), f.b.Iconst(ir.I32, 1),
	})
	taken := f.b.ICmp(ir.IntNotEqual, ok, f.b.Iconst(ir.I32, 0))
	if onFail {
		taken = f.b.ICmp(ir.IntEqual, ok, f.b.Iconst(ir.I32, 0))
	}

	target, n := f.brTarget(depth)
	args := f.state.peekN(n)
	fullArgs := append(append([]ir.Value{}, args...), ref)

	cont := f.b.AllocateBasicBlock("br_on_cast_cont")
	f.b.CondBr(taken, target, fullArgs, cont, nil)
	cont.Seal()
	f.b.SetCurrentBlock(cont)
	f.state.push(ref)
}

// lowerGC dispatches the struct/array/i31/cast opcode set reached through
// the GC prefix byte.
func (f *FunctionCompiler) lowerGC(sub wasm.OpcodeGC) error {
	switch sub {
	case wasm.OpcodeGCStructNew:
		typeIdx := wasm.Index(f.readU32())
		f.opStructNew(typeIdx, false)
	case wasm.OpcodeGCStructNewDefault:
		typeIdx := wasm.Index(f.readU32())
		f.opStructNew(typeIdx, true)
	case wasm.OpcodeGCStructGet:
		f.opStructGet(false, false)
	case wasm.OpcodeGCStructGetS:
		f.opStructGet(true, false)
	case wasm.OpcodeGCStructGetU:
		f.opStructGet(false, true)
	case wasm.OpcodeGCStructSet:
		f.opStructSet()

	case wasm.OpcodeGCArrayNew:
		typeIdx := wasm.Index(f.readU32())
		f.opArrayNew(typeIdx, false)
	case wasm.OpcodeGCArrayNewDefault:
		typeIdx := wasm.Index(f.readU32())
		f.opArrayNew(typeIdx, true)
	case wasm.OpcodeGCArrayNewFixed:
		typeIdx := wasm.Index(f.readU32())
		n := f.readU32()
		f.opArrayNewFixed(typeIdx, n)
	case wasm.OpcodeGCArrayNewData:
		typeIdx := wasm.Index(f.readU32())
		dataIdx := wasm.Index(f.readU32())
		f.opArrayNewFromSegment(IntrinsicArrayNewData, typeIdx, dataIdx)
	case wasm.OpcodeGCArrayNewElem:
		typeIdx := wasm.Index(f.readU32())
		elemIdx := wasm.Index(f.readU32())
		f.opArrayNewFromSegment(IntrinsicArrayNewElem, typeIdx, elemIdx)
	case wasm.OpcodeGCArrayGet:
		typeIdx := wasm.Index(f.readU32())
		elemType := f.cc.Module.TypeSection[typeIdx].Fields[0].StorageType
		f.opArrayGet(typeIdx, wasmValueIRType(elemType))
	case wasm.OpcodeGCArrayGetS, wasm.OpcodeGCArrayGetU:
		typeIdx := wasm.Index(f.readU32())
		elemType := f.cc.Module.TypeSection[typeIdx].Fields[0].StorageType
		f.opArrayGet(typeIdx, wasmValueIRType(elemType))
	case wasm.OpcodeGCArraySet:
		f.opArraySet()
	case wasm.OpcodeGCArrayLen:
		f.opArrayLen()
	case wasm.OpcodeGCArrayFill:
		f.opArrayFill()
	case wasm.OpcodeGCArrayCopy:
		f.opArrayCopy()
	case wasm.OpcodeGCArrayInitData:
		typeIdx := wasm.Index(f.readU32())
		dataIdx := wasm.Index(f.readU32())
		f.opArrayInitFromSegment(IntrinsicArrayInitData, typeIdx, dataIdx)
	case wasm.OpcodeGCArrayInitElem:
		typeIdx := wasm.Index(f.readU32())
		elemIdx := wasm.Index(f.readU32())
		f.opArrayInitFromSegment(IntrinsicArrayInitElem, typeIdx, elemIdx)

	case wasm.OpcodeGCRefTest:
		f.opRefTest(false)
	case wasm.OpcodeGCRefTestNull:
		f.opRefTest(true)
	case wasm.OpcodeGCRefCast:
		f.opRefCast(false)
	case wasm.OpcodeGCRefCastNull:
		f.opRefCast(true)

	case wasm.OpcodeGCBrOnCast:
		f.opBrOnCast(false)
	case wasm.OpcodeGCBrOnCastFail:
		f.opBrOnCast(true)

	case wasm.OpcodeGCRefI31:
		f.opRefI31()
	case wasm.OpcodeGCI31GetS:
		f.opI31Get(true)
	case wasm.OpcodeGCI31GetU:
		f.opI31Get(false)

	default:
		return errUnsupportedOpcode("GC sub-opcode")
	}
	return nil
}
