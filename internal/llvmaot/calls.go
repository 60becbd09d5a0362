package llvmaot

import (
	"github.com/wasm2llvm/wasm2llvm/internal/ir"
	"github.com/wasm2llvm/wasm2llvm/internal/wasm"
)

// irSigForWasmFuncType renders a wasm.FunctionType as the ir.Signature a
// direct/indirect call site builds its argument list against, prepending
// the Execution Context pointer exactly as typemap.SignatureForFunctionType
// does for declared functions.
func irSigForWasmFuncType(t *wasm.FunctionType) *ir.Signature {
	params := make([]ir.Type, 0, len(t.Params)+1)
	params = append(params, ir.PtrType)
	for _, p := range t.Params {
		params = append(params, wasmValueIRType(p))
	}
	results := make([]ir.Type, len(t.Results))
	for i, r := range t.Results {
		results[i] = wasmValueIRType(r)
	}
	return &ir.Signature{Params: params, Results: results}
}

// opCall implements direct call: pop arguments, call by the
// callee's emitted symbol with the current Execution Context threaded
// through as the extra leading argument, push results.
func (f *FunctionCompiler) opCall() {
	funcIdx := wasm.Index(f.readU32())
	wft := f.cc.wasmFuncType(funcIdx)
	if f.state.unreachable {
		f.state.popN(len(wft.Params))
		for _, r := range wft.Results {
			f.state.push(f.poison(wasmValueIRType(r)))
		}
		return
	}
	sig := irSigForWasmFuncType(wft)
	args := append([]ir.Value{f.execCtx}, f.state.popN(len(wft.Params))...)
	f.callAndPush(sig, f.cc.funcSymbol(funcIdx), args, wft.Results)
}

func (f *FunctionCompiler) callAndPush(sig *ir.Signature, callee string, args []ir.Value, results []wasm.ValType) {
	switch len(results) {
	case 0:
		f.b.Call(sig, callee, args)
	case 1:
		f.state.push(f.b.Call(sig, callee, args))
	default:
		agg := f.b.Call(sig, callee, args)
		for i, rt := range results {
			f.state.push(f.b.ExtractValue(agg, i, wasmValueIRType(rt)))
		}
	}
}

// extractCallResults splits r — void, a single value, or a multi-result
// aggregate — into one Value per result type. Shared by every direct-call
// fast path that has to merge with a marshalled fallback arm.
func extractCallResults(b *ir.Builder, r ir.Value, results []wasm.ValType) []ir.Value {
	switch len(results) {
	case 0:
		return nil
	case 1:
		return []ir.Value{r}
	default:
		out := make([]ir.Value, len(results))
		for i, rt := range results {
			out[i] = b.ExtractValue(r, i, wasmValueIRType(rt))
		}
		return out
	}
}

// deliverCallResults is the shared tail of every dispatch* helper once its
// callee's results are in hand: tail-return them for the return_call*
// variants, otherwise push them back onto the operand stack.
func (f *FunctionCompiler) deliverCallResults(vals []ir.Value, tail bool) {
	if tail {
		f.tailReturn(vals)
		return
	}
	for _, v := range vals {
		f.state.push(v)
	}
}

// opCallIndirect implements call_indirect: a dual-path dispatch.
func (f *FunctionCompiler) opCallIndirect() {
	typeIdx := wasm.Index(f.readU32())
	tableIdx := wasm.Index(f.readU32())
	wft := &f.cc.Module.TypeSection[typeIdx].Func
	if f.state.unreachable {
		f.state.pop() // table index operand.
		f.state.popN(len(wft.Params))
		for _, r := range wft.Results {
			f.state.push(f.poison(wasmValueIRType(r)))
		}
		return
	}
	elemIdx := f.state.pop()
	args := f.state.popN(len(wft.Params))
	f.dispatchIndirect(typeIdx, tableIdx, elemIdx, args, wft.Results, false)
}

// dispatchIndirect resolves elemIdx's callee through the
// TableGetFuncSymbol host intrinsic and, when that resolves to a non-null
// pointer, calls it directly. A null result (the table slot's signature
// doesn't match typeIdx, or the slot is unset) falls back to the generic
// CallIndirect host intrinsic: the arguments are marshalled through a
// scratch buffer, and a nonzero return code from the intrinsic branches to
// the IndirectCallTypeMismatch trap. Both arms merge into a common result
// block.
func (f *FunctionCompiler) dispatchIndirect(typeIdx, tableIdx wasm.Index, elemIdx ir.Value, args []ir.Value, results []wasm.ValType, tail bool) {
	wft := &f.cc.Module.TypeSection[typeIdx].Func

	fnPtr := f.cc.callIntrinsic(f.b, IntrinsicTableGetFuncSymbol, ir.PtrType, []ir.Value{
		f.b.Iconst(ir.I32, int64(tableIdx)), f.b.Iconst(ir.I32, int64(typeIdx)), elemIdx,
	})
	isNull := f.b.ICmp(ir.IntEqual, f.b.PtrToInt(ir.I64, fnPtr), f.b.Iconst(ir.I64, 0))

	fastBlk := f.b.AllocateBasicBlock("call_indirect_fast")
	slowBlk := f.b.AllocateBasicBlock("call_indirect_slow")
	merge := f.b.AllocateBasicBlock("call_indirect_merge")
	f.addBlockParams(irTypesOfWasm(results), merge)
	f.b.CondBr(isNull, slowBlk, nil, fastBlk, nil)

	fastBlk.Seal()
	f.b.SetCurrentBlock(fastBlk)
	sig := irSigForWasmFuncType(wft)
	fastArgs := append([]ir.Value{f.execCtx}, args...)
	fastResult := f.b.CallIndirect(sig, fnPtr, fastArgs)
	f.b.Br(merge, extractCallResults(f.b, fastResult, results)...)

	slowBlk.Seal()
	f.b.SetCurrentBlock(slowBlk)
	argsBuf, resultsBuf := f.marshalScratch(args, results)
	failCode := f.cc.callIntrinsic(f.b, IntrinsicCallIndirect, ir.I32, []ir.Value{
		f.execCtx,
		f.b.Iconst(ir.I32, int64(tableIdx)),
		elemIdx,
		f.b.Iconst(ir.I32, int64(typeIdx)),
		argsBuf,
		resultsBuf,
	})
	failed := f.b.ICmp(ir.IntNotEqual, failCode, f.b.Iconst(ir.I32, 0))
	f.branchToTrap(failed, TrapIndirectCallTypeMismatch)
	f.b.Br(merge, f.unmarshalScratch(resultsBuf, results)...)

	merge.Seal()
	f.b.SetCurrentBlock(merge)
	f.deliverCallResults(merge.Params(), tail)
}

// marshalScratch allocates and fills a pair of stack buffers holding args
// and space for results, the calling convention the host intrinsics use
// for anything whose arity isn't fixed at one result.
func (f *FunctionCompiler) marshalScratch(args []ir.Value, results []wasm.ValType) (argsBuf, resultsBuf ir.Value) {
	argCount, resultCount := len(args), len(results)
	if argCount == 0 {
		argCount = 1
	}
	if resultCount == 0 {
		resultCount = 1
	}

	slots := f.b.Alloca(ir.VectorType(ir.I64, argCount))
	for i, a := range args {
		slot := f.b.GEP(ir.I64, slots, f.b.Iconst(ir.I64, int64(i)))
		f.b.Store(slot, widenToI64(f.b, a), false, false)
	}
	resultsBuf = f.b.Alloca(ir.VectorType(ir.I64, resultCount))
	return slots, resultsBuf
}

func (f *FunctionCompiler) unmarshalScratch(resultsBuf ir.Value, results []wasm.ValType) []ir.Value {
	out := make([]ir.Value, len(results))
	for i, r := range results {
		t := wasmValueIRType(r)
		slot := f.b.GEP(ir.I64, resultsBuf, f.b.Iconst(ir.I64, int64(i)))
		raw := f.b.Load(ir.I64, slot, false, false)
		out[i] = narrowFromI64(f.b, raw, t)
	}
	return out
}

// widenToI64 bitcasts/extends a value to the i64 scratch-slot width used
// by marshalScratch; floats are bitcast, narrower ints zero-extended.
func widenToI64(b *ir.Builder, v ir.Value) ir.Value {
	switch v.Type().Kind() {
	case ir.TypeKindFloat:
		if v.Type().Equal(ir.F64) {
			return b.BitCast(ir.I64, v)
		}
		return b.ZExt(ir.I64, b.BitCast(ir.I32, v))
	case ir.TypeKindInt:
		if v.Type().Equal(ir.I64) {
			return v
		}
		return b.ZExt(ir.I64, v)
	default:
		return v
	}
}

func narrowFromI64(b *ir.Builder, raw ir.Value, t ir.Type) ir.Value {
	switch t.Kind() {
	case ir.TypeKindFloat:
		if t.Equal(ir.F64) {
			return b.BitCast(ir.F64, raw)
		}
		return b.BitCast(ir.F32, b.Trunc(ir.I32, raw))
	case ir.TypeKindInt:
		if t.Equal(ir.I64) {
			return raw
		}
		return b.Trunc(t, raw)
	default:
		return raw
	}
}

// opCallRef implements typed-function-reference call: traps
// AccessNullFunc on a null reference, otherwise resolves the callee
// through the RefGetFuncSymbol host intrinsic and calls it directly.
func (f *FunctionCompiler) opCallRef() {
	typeIdx := wasm.Index(f.readU32())
	wft := &f.cc.Module.TypeSection[typeIdx].Func
	if f.state.unreachable {
		f.state.pop()
		f.state.popN(len(wft.Params))
		for _, r := range wft.Results {
			f.state.push(f.poison(wasmValueIRType(r)))
		}
		return
	}
	ref := f.state.pop()
	args := f.state.popN(len(wft.Params))
	f.dispatchRef(ref, args, wft.Results, false)
}

// dispatchRef traps AccessNullFunc on a null reference, then resolves the
// callee through the RefGetFuncSymbol host intrinsic. A non-null result
// is called directly; a null result — resolution couldn't produce a
// callable pointer for this reference — falls back to the generic CallRef
// host intrinsic, which marshals arguments through a scratch buffer. Both
// arms merge into a common result block.
func (f *FunctionCompiler) dispatchRef(ref ir.Value, args []ir.Value, results []wasm.ValType, tail bool) {
	isNull := f.refIsNullCond(ref)
	f.branchToTrap(isNull, TrapAccessNullFunc)

	fnPtr := f.cc.callIntrinsic(f.b, IntrinsicRefGetFuncSymbol, ir.PtrType, []ir.Value{ref})
	fnPtrNull := f.b.ICmp(ir.IntEqual, f.b.PtrToInt(ir.I64, fnPtr), f.b.Iconst(ir.I64, 0))

	fastBlk := f.b.AllocateBasicBlock("call_ref_fast")
	slowBlk := f.b.AllocateBasicBlock("call_ref_slow")
	merge := f.b.AllocateBasicBlock("call_ref_merge")
	f.addBlockParams(irTypesOfWasm(results), merge)
	f.b.CondBr(fnPtrNull, slowBlk, nil, fastBlk, nil)

	fastBlk.Seal()
	f.b.SetCurrentBlock(fastBlk)
	sig := &ir.Signature{Params: append([]ir.Type{ir.PtrType}, irTypesOf(args)...), Results: irTypesOfWasm(results)}
	fastArgs := append([]ir.Value{f.execCtx}, args...)
	fastResult := f.b.CallIndirect(sig, fnPtr, fastArgs)
	f.b.Br(merge, extractCallResults(f.b, fastResult, results)...)

	slowBlk.Seal()
	f.b.SetCurrentBlock(slowBlk)
	argsBuf, resultsBuf := f.marshalScratch(args, results)
	f.cc.callIntrinsic(f.b, IntrinsicCallRef, ir.VoidType, []ir.Value{ref, argsBuf, resultsBuf})
	f.b.Br(merge, f.unmarshalScratch(resultsBuf, results)...)

	merge.Seal()
	f.b.SetCurrentBlock(merge)
	f.deliverCallResults(merge.Params(), tail)
}

func irTypesOf(vs []ir.Value) []ir.Type {
	out := make([]ir.Type, len(vs))
	for i, v := range vs {
		out[i] = v.Type()
	}
	return out
}

func irTypesOfWasm(vts []wasm.ValType) []ir.Type {
	out := make([]ir.Type, len(vts))
	for i, v := range vts {
		out[i] = wasmValueIRType(v)
	}
	return out
}

// tailReturn emits a plain ret of vals, the shared tail of every
// return_call* variant once its callee's results are in hand.
func (f *FunctionCompiler) tailReturn(vals []ir.Value) {
	f.flushInstrumentation()
	f.b.Ret(vals...)
	f.state.unreachable = true
}

// opReturnCall implements return_call: identical argument handling to
// call, but the callee is tail-called and its results are returned
// directly rather than pushed.
func (f *FunctionCompiler) opReturnCall() {
	funcIdx := wasm.Index(f.readU32())
	wft := f.cc.wasmFuncType(funcIdx)
	if f.state.unreachable {
		f.state.popN(len(wft.Params))
		return
	}
	sig := irSigForWasmFuncType(wft)
	args := append([]ir.Value{f.execCtx}, f.state.popN(len(wft.Params))...)
	f.flushInstrumentation()
	r := f.b.TailCall(sig, f.cc.funcSymbol(funcIdx), args)
	f.b.Ret(extractCallResults(f.b, r, wft.Results)...)
	f.state.unreachable = true
}

// opReturnCallIndirect implements return_call_indirect atop the same
// dual-path dispatch opCallIndirect uses, tail-returning its results.
func (f *FunctionCompiler) opReturnCallIndirect() {
	typeIdx := wasm.Index(f.readU32())
	tableIdx := wasm.Index(f.readU32())
	wft := &f.cc.Module.TypeSection[typeIdx].Func
	if f.state.unreachable {
		f.state.pop()
		f.state.popN(len(wft.Params))
		return
	}
	elemIdx := f.state.pop()
	args := f.state.popN(len(wft.Params))
	f.dispatchIndirect(typeIdx, tableIdx, elemIdx, args, wft.Results, true)
}

// opReturnCallRef implements return_call_ref atop opCallRef's dispatch.
func (f *FunctionCompiler) opReturnCallRef() {
	typeIdx := wasm.Index(f.readU32())
	wft := &f.cc.Module.TypeSection[typeIdx].Func
	if f.state.unreachable {
		f.state.pop()
		f.state.popN(len(wft.Params))
		return
	}
	ref := f.state.pop()
	args := f.state.popN(len(wft.Params))
	f.dispatchRef(ref, args, wft.Results, true)
}
