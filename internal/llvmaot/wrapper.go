package llvmaot

import (
	"fmt"

	"github.com/wasm2llvm/wasm2llvm/internal/ir"
	"github.com/wasm2llvm/wasm2llvm/internal/wasm"
)

// wrapperName produces the stable `tN` naming used for
// per-function-type wrappers.
func wrapperName(typeIdx wasm.Index) string {
	return fmt.Sprintf("t%d", typeIdx)
}

// wrapperSig is the uniform `(exec_ctx, f_ptr, args_ptr, rets_ptr) -> void`
// shape every emitted wrapper shares, independent of the
// wrapped function type's actual arity.
func wrapperSig() *ir.Signature {
	return &ir.Signature{
		Params:  []ir.Type{ir.PtrType, ir.PtrType, ir.PtrType, ir.PtrType},
		Results: nil,
	}
}

// EmitWrappers materialises one wrapper per unique function type, using the same SameAs-aliasing ledger NewCompileContext
// already built for cc.signatures.
func (cc *CompileContext) EmitWrappers() {
	for i := range cc.Module.TypeSection {
		ct := &cc.Module.TypeSection[i]
		if ct.Kind != wasm.CompositeTypeKindFunc {
			continue
		}
		idx := wasm.Index(i)
		canon := idx
		if ct.SameAs >= 0 {
			canon = wasm.Index(ct.SameAs)
		}
		if wrapper, ok := cc.wrappers[canon]; ok {
			cc.wrappers[idx] = wrapper
			continue
		}
		wrapper := cc.emitWrapper(canon, &ct.Func)
		cc.wrappers[canon] = wrapper
		cc.wrappers[idx] = wrapper
	}
}

// emitWrapper builds tN's body: load every argument out of args_ptr at its
// ValVariant-sized slot, call through f_ptr with the function's native
// ABI, then store the result(s) into rets_ptr — unpacking an aggregate
// return into consecutive slots.
func (cc *CompileContext) emitWrapper(typeIdx wasm.Index, wft *wasm.FunctionType) *ir.Function {
	fn := cc.IR.NewFunction(wrapperName(typeIdx), wrapperSig())
	fn.SetProtected()
	b := ir.NewBuilder(fn)

	execCtx, fPtr, argsPtr, retsPtr := fn.Param(0), fn.Param(1), fn.Param(2), fn.Param(3)

	callSig := irSigForWasmFuncType(wft)
	args := make([]ir.Value, 0, len(wft.Params)+1)
	args = append(args, execCtx)
	for i, p := range wft.Params {
		t := wasmValueIRType(p)
		slot := b.GEP(ir.I64, argsPtr, b.Iconst(ir.I64, int64(i)))
		raw := b.Load(ir.I64, slot, false, false)
		args = append(args, narrowFromI64(b, raw, t))
	}

	switch len(wft.Results) {
	case 0:
		b.CallIndirect(callSig, fPtr, args)
	case 1:
		r := b.CallIndirect(callSig, fPtr, args)
		slot := b.GEP(ir.I64, retsPtr, b.Iconst(ir.I64, 0))
		b.Store(slot, widenToI64(b, r), false, false)
	default:
		agg := b.CallIndirect(callSig, fPtr, args)
		for i, rt := range wft.Results {
			v := b.ExtractValue(agg, i, wasmValueIRType(rt))
			slot := b.GEP(ir.I64, retsPtr, b.Iconst(ir.I64, int64(i)))
			b.Store(slot, widenToI64(b, v), false, false)
		}
	}
	b.Ret()
	return fn
}

// EmitImportThunks materialises one thunk per imported function: a function carrying the import's native signature
// that marshals its arguments into a scratch buffer, calls the host Call
// intrinsic by the import's absolute function index, and unmarshals the
// results — the same scratch convention calls.go's indirect-call path
// uses, since the host Call intrinsic shares CallIndirect's fixed
// `(id, args_ptr, rets_ptr)` shape.
func (cc *CompileContext) EmitImportThunks() {
	for i := wasm.Index(0); i < cc.Module.ImportFunctionCount; i++ {
		wft := cc.wasmFuncType(i)
		cc.emitImportThunk(i, wft)
	}
}

func (cc *CompileContext) emitImportThunk(funcIdx wasm.Index, wft *wasm.FunctionType) *ir.Function {
	sig := irSigForWasmFuncType(wft)
	fn := cc.IR.NewFunction(importThunkName(funcIdx), sig)
	fn.SetInternalLinkage()
	b := ir.NewBuilder(fn)

	execCtx := fn.Param(0)
	args := make([]ir.Value, len(wft.Params))
	for i := range wft.Params {
		args[i] = fn.Param(i + 1)
	}

	argCount, resultCount := len(args), len(wft.Results)
	if argCount == 0 {
		argCount = 1
	}
	if resultCount == 0 {
		resultCount = 1
	}
	argsBuf := b.Alloca(ir.VectorType(ir.I64, argCount))
	for i, a := range args {
		slot := b.GEP(ir.I64, argsBuf, b.Iconst(ir.I64, int64(i)))
		b.Store(slot, widenToI64(b, a), false, false)
	}
	retsBuf := b.Alloca(ir.VectorType(ir.I64, resultCount))

	cc.callIntrinsic(b, IntrinsicCall, ir.VoidType, []ir.Value{
		execCtx, b.Iconst(ir.I32, int64(funcIdx)), argsBuf, retsBuf,
	})

	switch len(wft.Results) {
	case 0:
		b.Ret()
	case 1:
		slot := b.GEP(ir.I64, retsBuf, b.Iconst(ir.I64, 0))
		raw := b.Load(ir.I64, slot, false, false)
		b.Ret(narrowFromI64(b, raw, wasmValueIRType(wft.Results[0])))
	default:
		results := make([]ir.Value, len(wft.Results))
		for i, rt := range wft.Results {
			slot := b.GEP(ir.I64, retsBuf, b.Iconst(ir.I64, int64(i)))
			raw := b.Load(ir.I64, slot, false, false)
			results[i] = narrowFromI64(b, raw, wasmValueIRType(rt))
		}
		b.Ret(results...)
	}
	return fn
}
