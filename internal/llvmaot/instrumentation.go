package llvmaot

import "github.com/wasm2llvm/wasm2llvm/internal/ir"

// flushInstrumentation implements the block-boundary flush: the
// per-function accumulator cells (f.instrAccum/f.gasAccum, allocated by
// NewFunctionCompiler and updated on every opcode by accountInstruction in
// control.go) are folded into the Execution Context's shared cells and
// reset to zero. This runs immediately before any control transfer
// observable from outside the function: a normal return or tail call.
//
// The shared cells are read and written only through atomics, since other
// threads running the same instance observe them concurrently. The
// instruction count has no limit to enforce, so it's a plain atomic add.
// The gas cell does have a limit, and the limit has to be checked before
// the add is allowed to land — otherwise two threads racing past the
// limit in the same instant could both observe "under limit" from a stale
// read and together drive the shared cell over it. That's done with a
// compare-and-swap retry loop: compute the candidate new total, trap
// before ever attempting to publish it if it would exceed the limit,
// otherwise try to publish it and retry from the (possibly
// concurrently-updated) value the failed compare-and-swap handed back.
func (f *FunctionCompiler) flushInstrumentation() {
	if f.instructionCounting {
		local := f.b.Load(ir.I64, f.instrAccum, false, true)
		f.b.AtomicRMW(ir.AtomicRMWAdd, f.cc.getInstrCountPtr(f.b, f.execCtx), local, "monotonic")
		f.b.Store(f.instrAccum, f.b.Iconst(ir.I64, 0), false, true)
	}
	if f.costMeasuring {
		f.flushGasWithLimitCheck()
	}
}

// flushInstrumentationAtTrap is flushInstrumentation's counterpart for a
// block already committed to trapping: the instruction count is still a
// plain atomic add, but the gas cell skips the limit check entirely and
// is folded in with a single atomic add too. The function is unwinding
// regardless of whether this trap's cost pushed it over the limit, so
// there's nothing left to gate.
func (f *FunctionCompiler) flushInstrumentationAtTrap() {
	if f.instructionCounting {
		local := f.b.Load(ir.I64, f.instrAccum, false, true)
		f.b.AtomicRMW(ir.AtomicRMWAdd, f.cc.getInstrCountPtr(f.b, f.execCtx), local, "monotonic")
		f.b.Store(f.instrAccum, f.b.Iconst(ir.I64, 0), false, true)
	}
	if f.costMeasuring {
		local := f.b.Load(ir.I64, f.gasAccum, false, true)
		f.b.AtomicRMW(ir.AtomicRMWAdd, f.cc.getGasPtr(f.b, f.execCtx), local, "monotonic")
		f.b.Store(f.gasAccum, f.b.Iconst(ir.I64, 0), false, true)
	}
}

// flushGasWithLimitCheck is the retry loop behind flushInstrumentation's
// gas half: a loop header carrying the shared cell's last-observed value
// as a block parameter, re-entered on every failed compare-and-swap.
func (f *FunctionCompiler) flushGasWithLimitCheck() {
	local := f.b.Load(ir.I64, f.gasAccum, false, true)
	gasPtr := f.cc.getGasPtr(f.b, f.execCtx)
	limit := f.b.Load(ir.I64, f.cc.getGasLimitPtr(f.b, f.execCtx), false, false)
	observed := f.b.AtomicRMW(ir.AtomicRMWAdd, gasPtr, f.b.Iconst(ir.I64, 0), "monotonic")

	header := f.b.AllocateBasicBlock("gas_check")
	oldGasT := header.AddParam(f.fn, ir.I64)
	f.b.Br(header, observed)

	f.b.SetCurrentBlock(header)
	newGas := f.b.Add(oldGasT, local)
	exceeded := f.b.ICmp(ir.IntUnsignedGreaterThan, newGas, limit)
	okBlk := f.b.AllocateBasicBlock("gas_ok")
	f.b.CondBr(exceeded, f.trapBlock(TrapCostLimitExceeded), nil, okBlk, nil)

	okBlk.Seal()
	f.b.SetCurrentBlock(okBlk)
	pair := f.b.AtomicCmpXchg(gasPtr, oldGasT, newGas, "monotonic")
	retried := f.b.ExtractValue(pair, 0, ir.I64)
	succeeded := f.b.ExtractValue(pair, 1, ir.I1)
	committed := f.b.AllocateBasicBlock("gas_committed")
	f.b.CondBr(succeeded, committed, nil, header, []ir.Value{retried})

	header.Seal()
	committed.Seal()
	f.b.SetCurrentBlock(committed)
	f.b.Store(f.gasAccum, f.b.Iconst(ir.I64, 0), false, true)
}
