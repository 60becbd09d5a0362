package llvmaot

import (
	"fmt"

	"github.com/wasm2llvm/wasm2llvm/internal/ir"
	"github.com/wasm2llvm/wasm2llvm/internal/leb128"
	"github.com/wasm2llvm/wasm2llvm/internal/llvmaot/typemap"
	"github.com/wasm2llvm/wasm2llvm/internal/wasm"
)

// CompileStats accumulates the per-function telemetry fields collected
// for telemetry only, never semantics-affecting.
type CompileStats struct {
	Blocks           int
	TrapBlocks       int
	Instructions     int
	SIMDFallbackUses int
}

// controlFrameKind distinguishes the five shapes a control frame can take.
type controlFrameKind byte

const (
	controlFrameKindFunction controlFrameKind = iota
	controlFrameKindBlock
	controlFrameKindLoop
	controlFrameKindIfWithoutElse
	controlFrameKindIfWithElse
)

// controlFrame is one entry of the Control Stack. jumpBlock
// is the target of `br` to this frame; for loops that's the header, for
// everything else it's the post-merge block. nextBlock is the loop-exit
// block distinct from the header (loop frames only; equal to jumpBlock
// otherwise). elseBlock is populated for if-frames only.
//
// φ-nodes at jumpBlock are built incrementally as the frame's block
// parameters: every br/br_if/br_table/fall-through that targets jumpBlock
// passes its current operand-stack values as that branch's block
// arguments, which is exactly the "(return-values, originating-block)
// pairs" structured control flow lowers to, expressed through internal/ir's block-param
// convention instead of a retrospective φ-build pass.
type controlFrame struct {
	kind controlFrameKind

	stackFloor int // operand-stack depth at frame entry, sans re-pushed params.

	jumpBlock, nextBlock, elseBlock *ir.BasicBlock

	paramTypes, resultTypes []ir.Type

	// clonedArgs holds the then-side's live values, re-pushed when the
	// else arm (real or synthesised) begins.
	clonedArgs []ir.Value
}

func (k controlFrameKind) isLoop() bool { return k == controlFrameKindLoop }

// loweringState is the Operand Stack plus Control Stack,
// reset once per function compilation.
type loweringState struct {
	values           []ir.Value
	controlFrames    []controlFrame
	unreachable      bool
	unreachableDepth int
	pc               int
}

func (l *loweringState) reset() {
	l.values = l.values[:0]
	l.controlFrames = l.controlFrames[:0]
	l.unreachable = false
	l.unreachableDepth = 0
	l.pc = 0
}

func (l *loweringState) push(v ir.Value) { l.values = append(l.values, v) }

// floor is the operand-stack depth the innermost live control frame
// started at. Once unreachable, the wasm validator treats everything at
// or below this depth as an infinite, polymorphic supply of operands
// rather than real values to consume — pop/peek below it must keep
// succeeding without ever touching what's actually on the stack there,
// both because that depth may belong to an enclosing frame's still-live
// values and because switchTo later truncates to a frame's floor
// unconditionally and would panic if anything had eaten into it.
func (l *loweringState) floor() int {
	if n := len(l.controlFrames); n > 0 {
		return l.controlFrames[n-1].stackFloor
	}
	return 0
}

// pop removes and returns the top operand. Once unreachable and drained
// to the enclosing frame's floor, it stops short of the floor and hands
// back an invalid placeholder instead — every caller that pops while
// unreachable immediately discards the result in favor of an
// explicitly-typed poison value, so the placeholder itself is never read.
func (l *loweringState) pop() ir.Value {
	if l.unreachable && len(l.values) <= l.floor() {
		return ir.Value{}
	}
	n := len(l.values) - 1
	v := l.values[n]
	l.values = l.values[:n]
	return v
}

func (l *loweringState) peek() ir.Value {
	if l.unreachable && len(l.values) <= l.floor() {
		return ir.Value{}
	}
	return l.values[len(l.values)-1]
}

func (l *loweringState) popN(n int) []ir.Value {
	if n == 0 {
		return nil
	}
	out := make([]ir.Value, n)
	for i := n - 1; i >= 0; i-- {
		out[i] = l.pop()
	}
	return out
}

func (l *loweringState) peekN(n int) []ir.Value {
	if n == 0 {
		return nil
	}
	floor := l.floor()
	if !l.unreachable || len(l.values)-n >= floor {
		view := l.values[len(l.values)-n:]
		out := make([]ir.Value, n)
		copy(out, view)
		return out
	}
	out := make([]ir.Value, n)
	for i := range out {
		depth := n - i
		if len(l.values) >= depth {
			out[i] = l.values[len(l.values)-depth]
		} else {
			out[i] = ir.Value{}
		}
	}
	return out
}

func (l *loweringState) ctrlPush(f controlFrame) { l.controlFrames = append(l.controlFrames, f) }

func (l *loweringState) ctrlPop() controlFrame {
	n := len(l.controlFrames) - 1
	f := l.controlFrames[n]
	l.controlFrames = l.controlFrames[:n]
	return f
}

func (l *loweringState) ctrlAt(depth int) *controlFrame {
	n := len(l.controlFrames) - 1
	return &l.controlFrames[n-depth]
}

// FunctionCompiler is one invocation of the Function Compiler: translates a single function body into a fully-formed ir.Function
// with every basic block terminated, φ-nodes correct (via block params),
// trap paths materialised, and instrumentation emitted.
type FunctionCompiler struct {
	cc *CompileContext

	fn      *ir.Function
	b       *ir.Builder
	execCtx ir.Value

	wasmSig    *wasm.FunctionType
	localTypes []ir.Type
	// locals[i] is the alloca'd pointer for local index i, covering
	// parameters followed by declared locals.
	locals []ir.Value

	interruptible, instructionCounting, costMeasuring bool
	// instrAccum/gasAccum are the per-function accumulator cells
	// allocated at construction time when instrumentation is enabled.
	instrAccum, gasAccum ir.Value

	trapBlocks map[TrapCode]*ir.BasicBlock

	state loweringState
	body  []byte

	stats CompileStats
}

// NewFunctionCompiler implements construction contract:
// emits the entry block, loads the execution context, allocates local
// slots for parameters and declared locals (zero-initialising declared
// locals), and allocates instrumentation accumulators when requested.
func NewFunctionCompiler(
	cc *CompileContext,
	name string,
	sig *ir.Signature,
	wasmSig *wasm.FunctionType,
	declaredLocalTypes []wasm.ValType,
	body []byte,
	interruptible, instructionCounting, costMeasuring bool,
) *FunctionCompiler {
	fn := cc.IR.NewFunction(name, sig)
	b := ir.NewBuilder(fn)

	f := &FunctionCompiler{
		cc:                  cc,
		fn:                  fn,
		b:                   b,
		wasmSig:             wasmSig,
		interruptible:       interruptible,
		instructionCounting: instructionCounting,
		costMeasuring:       costMeasuring,
		trapBlocks:          map[TrapCode]*ir.BasicBlock{},
		body:                body,
	}

	f.execCtx = fn.Param(0)

	// Allocate local slots for parameters...
	for i, pt := range wasmSig.Params {
		t := sig.Params[i+1]
		slot := b.Alloca(t)
		b.Store(slot, fn.Param(i+1), false, false)
		f.locals = append(f.locals, slot)
		f.localTypes = append(f.localTypes, t)
		_ = pt
	}
	// ...and for declared locals, zero-initialised.
	for _, vt := range declaredLocalTypes {
		t := wasmValueIRType(vt)
		slot := b.Alloca(t)
		b.Store(slot, zeroConst(b, t), false, false)
		f.locals = append(f.locals, slot)
		f.localTypes = append(f.localTypes, t)
	}

	if instructionCounting {
		f.instrAccum = b.Alloca(ir.I64)
		b.Store(f.instrAccum, b.Iconst(ir.I64, 0), false, false)
	}
	if costMeasuring {
		f.gasAccum = b.Alloca(ir.I64)
		b.Store(f.gasAccum, b.Iconst(ir.I64, 0), false, false)
	}

	f.stats.Blocks++
	return f
}

func wasmValueIRType(vt wasm.ValType) ir.Type {
	return typemap.WasmTypeToIRType(vt)
}

func zeroConst(b *ir.Builder, t ir.Type) ir.Value {
	switch t.Kind() {
	case ir.TypeKindFloat:
		return b.Fconst(t, 0)
	case ir.TypeKindVector:
		return b.Iconst(t, 0)
	default:
		return b.Iconst(t, 0)
	}
}

// Compile runs the top-level lowering algorithm:
// pushes the synthetic outermost control frame, iterates the instruction
// stream dispatching and accounting instrumentation per instruction, emits
// the function return, then materialises trap-block bodies (already
// emitted lazily by trapBlock; this step is a no-op placeholder for
// symmetry with its four-step description since this
// implementation emits each trap block's body at the point it is first
// requested rather than deferring it).
func (f *FunctionCompiler) Compile() (*ir.Function, CompileStats, error) {
	f.state.reset()

	resultTypes := make([]ir.Type, len(f.wasmSig.Results))
	for i, rt := range f.wasmSig.Results {
		resultTypes[i] = wasmValueIRType(rt)
	}

	retBlock := f.b.AllocateBasicBlock("return")
	for _, rt := range resultTypes {
		retBlock.AddParam(f.fn, rt)
	}

	f.state.ctrlPush(controlFrame{
		kind:        controlFrameKindFunction,
		jumpBlock:   retBlock,
		nextBlock:   retBlock,
		resultTypes: resultTypes,
	})

	for f.state.pc < len(f.body) {
		f.accountInstruction()
		if err := f.lowerOne(); err != nil {
			return nil, f.stats, err
		}
	}

	// Fallback: if the body fell through the final `end` without ever
	// positioning the builder on a dead-end block (can't happen for a
	// validated module whose body always ends in OpcodeEnd, kept as an
	// assertion boundary per precondition contract). The
	// function-level control frame is always popped by that final `end`
	// before this point, so only run the fallback when a frame is still
	// live to consult.
	if len(f.state.controlFrames) > 0 && !f.b.CurrentBlock().Terminated() {
		f.compileReturn()
	}

	retBlock.Seal()
	f.b.SetCurrentBlock(retBlock)
	f.emitReturnFromBlockParams(retBlock)

	return f.fn, f.stats, nil
}

// emitReturnFromBlockParams emits the function's actual `ret`, built from
// the return block's params (populated by every path that reached it),
// flushing instrumentation one last time first.
func (f *FunctionCompiler) emitReturnFromBlockParams(retBlock *ir.BasicBlock) {
	f.flushInstrumentation()
	f.b.Ret(retBlock.Params()...)
}

// compileReturn pops the function's results, flushes instrumentation, and
// branches to the function frame's return block with the results as its
// arguments; the ret itself is emitted from that block's params.
func (f *FunctionCompiler) compileReturn() {
	frame := f.state.ctrlAt(len(f.state.controlFrames) - 1)
	n := len(frame.resultTypes)
	args := f.state.popN(n)
	f.flushInstrumentation()
	f.b.Br(frame.jumpBlock, args...)
}

// accountInstruction implements the per-instruction
// instrumentation: +1 to the instruction-count accumulator, and the
// opcode's gas cost added to the gas accumulator, before dispatch.
func (f *FunctionCompiler) accountInstruction() {
	f.stats.Instructions++
	if f.state.pc >= len(f.body) {
		return
	}
	op := f.body[f.state.pc]
	if f.instructionCounting {
		cur := f.b.Load(ir.I64, f.instrAccum, false, true)
		next := f.b.Add(cur, f.b.Iconst(ir.I64, 1))
		f.b.Store(f.instrAccum, next, false, true)
	}
	if f.costMeasuring {
		cost := f.opcodeCost(uint16(op))
		cur := f.b.Load(ir.I64, f.gasAccum, false, true)
		next := f.b.Add(cur, cost)
		f.b.Store(f.gasAccum, next, false, true)
	}
}

// opcodeCost loads the instruction's cost from the cost table, indexed by
// opcode value, bounded by UINT16_MAX+1.
func (f *FunctionCompiler) opcodeCost(op uint16) ir.Value {
	table := f.cc.getCostTablePtr(f.b, f.execCtx)
	loaded := f.b.Load(ir.PtrType, table, true, false)
	slot := f.b.GEP(ir.I64, loaded, f.b.Iconst(ir.I64, int64(op)))
	return f.b.Load(ir.I64, slot, false, false)
}

func (f *FunctionCompiler) readByte() byte {
	b := f.body[f.state.pc]
	f.state.pc++
	return b
}

func (f *FunctionCompiler) readU32() uint32 {
	v, n, err := leb128.LoadUint32(f.body[f.state.pc:])
	if err != nil {
		panic(fmt.Sprintf("llvmaot: malformed immediate: %v", err))
	}
	f.state.pc += int(n)
	return v
}

func (f *FunctionCompiler) readI32() int32 {
	v, n, err := leb128.LoadInt32(f.body[f.state.pc:])
	if err != nil {
		panic(fmt.Sprintf("llvmaot: malformed immediate: %v", err))
	}
	f.state.pc += int(n)
	return v
}

func (f *FunctionCompiler) readI64() int64 {
	v, n, err := leb128.LoadInt64(f.body[f.state.pc:])
	if err != nil {
		panic(fmt.Sprintf("llvmaot: malformed immediate: %v", err))
	}
	f.state.pc += int(n)
	return v
}

// readBlockType decodes a block-type immediate: either the single byte
// 0x40 (empty), a value-type byte (single result), or an s33 type index
// into the module's composite-type table.
func (f *FunctionCompiler) readBlockType() wasm.BlockType {
	start := f.state.pc
	v, n, err := leb128.LoadInt64(f.body[start:])
	if err != nil {
		panic(fmt.Sprintf("llvmaot: malformed block type: %v", err))
	}
	f.state.pc += int(n)
	if v < 0 {
		switch raw := f.body[start]; raw {
		case 0x40:
			return wasm.BlockType{Kind: wasm.BlockTypeKindEmpty}
		default:
			return wasm.BlockType{Kind: wasm.BlockTypeKindSingleResult, ResultType: valueTypeFromByte(raw)}
		}
	}
	return wasm.BlockType{Kind: wasm.BlockTypeKindFuncTypeIndex, TypeIndex: wasm.Index(v)}
}

func valueTypeFromByte(b byte) wasm.ValType {
	switch b {
	case 0x7F:
		return wasm.I32
	case 0x7E:
		return wasm.I64
	case 0x7D:
		return wasm.F32
	case 0x7C:
		return wasm.F64
	case 0x7B:
		return wasm.V128
	default:
		return wasm.RefType(wasm.HeapTypeAny, true)
	}
}

// addBlockParams allocates bb's block parameters from an IR type vector.
func (f *FunctionCompiler) addBlockParams(ts []ir.Type, bb *ir.BasicBlock) {
	for _, t := range ts {
		bb.AddParam(f.fn, t)
	}
}

// --- control-flow opcode handlers ---

func (f *FunctionCompiler) opBlock() {
	bt := f.readBlockType()
	if f.state.unreachable {
		f.state.unreachableDepth++
		return
	}
	params, results := f.cc.resolveBlockType(bt)
	end := f.b.AllocateBasicBlock("block_end")
	f.addBlockParams(results, end)

	f.state.ctrlPush(controlFrame{
		kind:        controlFrameKindBlock,
		stackFloor:  len(f.state.values) - len(params),
		jumpBlock:   end,
		nextBlock:   end,
		paramTypes:  params,
		resultTypes: results,
	})

	f.emitBlockEntryChecks()
	f.emitBlockBoundaryChecks()
}

func (f *FunctionCompiler) opLoop() {
	bt := f.readBlockType()
	if f.state.unreachable {
		f.state.unreachableDepth++
		return
	}
	params, results := f.cc.resolveBlockType(bt)
	header := f.b.AllocateBasicBlock("loop_header")
	end := f.b.AllocateBasicBlock("loop_end")
	f.addBlockParams(params, header)
	f.addBlockParams(results, end)

	floor := len(f.state.values) - len(params)
	f.state.ctrlPush(controlFrame{
		kind:        controlFrameKindLoop,
		stackFloor:  floor,
		jumpBlock:   header,
		nextBlock:   end,
		paramTypes:  params,
		resultTypes: results,
	})

	args := f.state.peekN(len(params))
	f.b.Br(header, args...)
	f.switchTo(floor, header)

	f.emitBlockEntryChecks()
	f.emitBlockBoundaryChecks()
}

func (f *FunctionCompiler) opIf() {
	bt := f.readBlockType()
	if f.state.unreachable {
		f.state.unreachableDepth++
		return
	}
	params, results := f.cc.resolveBlockType(bt)
	f.emitBlockEntryChecks()
	cond := f.state.pop()
	thenBlk := f.b.AllocateBasicBlock("if_then")
	elseBlk := f.b.AllocateBasicBlock("if_else")
	end := f.b.AllocateBasicBlock("if_end")
	f.addBlockParams(results, end)

	args := f.state.peekN(len(params))

	f.b.CondBr(cond, thenBlk, nil, elseBlk, nil)
	thenBlk.Seal()
	elseBlk.Seal()

	f.state.ctrlPush(controlFrame{
		kind:        controlFrameKindIfWithoutElse,
		stackFloor:  len(f.state.values) - len(params),
		jumpBlock:   end,
		nextBlock:   end,
		elseBlock:   elseBlk,
		paramTypes:  params,
		resultTypes: results,
		clonedArgs:  args,
	})

	f.b.SetCurrentBlock(thenBlk)
}

func (f *FunctionCompiler) opElse() {
	frame := f.state.ctrlAt(0)
	if f.state.unreachable && f.state.unreachableDepth > 0 {
		return
	}
	frame.kind = controlFrameKindIfWithElse
	if !f.state.unreachable {
		args := f.state.peekN(len(frame.resultTypes))
		f.b.Br(frame.jumpBlock, args...)
	} else {
		f.state.unreachable = false
	}

	f.state.values = f.state.values[:frame.stackFloor]
	elseBlk := frame.elseBlock
	for _, a := range frame.clonedArgs {
		f.state.push(a)
	}
	f.b.SetCurrentBlock(elseBlk)
}

func (f *FunctionCompiler) opEnd() {
	if f.state.unreachableDepth > 0 {
		f.state.unreachableDepth--
		return
	}
	frame := f.state.ctrlPop()
	end := frame.nextBlock

	if !f.state.unreachable {
		args := f.state.peekN(len(frame.resultTypes))
		f.b.Br(end, args...)
	} else {
		f.state.unreachable = false
	}

	switch frame.kind {
	case controlFrameKindLoop:
		frame.jumpBlock.Seal()
	case controlFrameKindIfWithoutElse:
		f.b.SetCurrentBlock(frame.elseBlock)
		f.b.Br(end, frame.clonedArgs...)
	}
	end.Seal()

	f.switchTo(frame.stackFloor, end)

	// The function-level frame's boundary is the ret block Compile flushes
	// and gas-checks itself once its params are all merged in; checking
	// here too would just flush a pair of zeroes redundantly.
	if frame.kind != controlFrameKindFunction {
		f.emitBlockBoundaryChecks()
	}
}

// switchTo repositions the builder at target, truncating the operand
// stack to floor and re-pushing target's block parameters as the new
// top-of-stack values (each a φ merge of its predecessors' arguments).
func (f *FunctionCompiler) switchTo(floor int, target *ir.BasicBlock) {
	f.b.SetCurrentBlock(target)
	f.state.values = f.state.values[:floor]
	for _, p := range target.Params() {
		f.state.push(p)
	}
}

// brTarget resolves the control frame at relative depth N and the operand
// count its branch transfer carries: the header's param count for a loop
// (feeding the header φ for another iteration), otherwise the frame's
// result count.
func (f *FunctionCompiler) brTarget(depth uint32) (*ir.BasicBlock, int) {
	frame := f.state.ctrlAt(int(depth))
	if frame.kind.isLoop() {
		return frame.jumpBlock, len(frame.paramTypes)
	}
	return frame.jumpBlock, len(frame.resultTypes)
}

func (f *FunctionCompiler) opBr() {
	depth := f.readU32()
	if f.state.unreachable {
		return
	}
	target, n := f.brTarget(depth)
	args := f.state.peekN(n)
	f.b.Br(target, args...)
	f.state.unreachable = true
}

func (f *FunctionCompiler) opBrIf() {
	depth := f.readU32()
	if f.state.unreachable {
		return
	}
	cond := f.state.pop()
	target, n := f.brTarget(depth)
	args := f.state.peekN(n)

	elseBlk := f.b.AllocateBasicBlock("br_if_cont")
	f.b.CondBr(cond, target, args, elseBlk, nil)
	elseBlk.Seal()
	f.b.SetCurrentBlock(elseBlk)
}

func (f *FunctionCompiler) opBrTable() {
	count := f.readU32()
	labels := make([]uint32, count+1)
	for i := range labels {
		labels[i] = f.readU32()
	}
	if f.state.unreachable {
		return
	}
	index := f.state.pop()

	if count == 0 {
		target, n := f.brTarget(labels[0])
		args := f.state.peekN(n)
		f.b.Br(target, args...)
		f.state.unreachable = true
		return
	}

	defTarget, defN := f.brTarget(labels[len(labels)-1])
	defArgs := f.state.peekN(defN)

	cases := make([]int64, count)
	targets := make([]*ir.BasicBlock, count)
	targetArgs := make([][]ir.Value, count)
	for i := uint32(0); i < count; i++ {
		t, n := f.brTarget(labels[i])
		cases[i] = int64(i)
		targets[i] = t
		targetArgs[i] = f.state.peekN(n)
	}
	f.b.Switch(index, defTarget, defArgs, cases, targets, targetArgs)
	f.state.unreachable = true
}

func (f *FunctionCompiler) opReturn() {
	if f.state.unreachable {
		return
	}
	f.compileReturn()
	f.state.unreachable = true
}

func (f *FunctionCompiler) opUnreachable() {
	if f.state.unreachable {
		return
	}
	f.b.Br(f.trapBlock(TrapUnreachable))
	f.state.unreachable = true
}

// emitInterruptCheck implements cooperative interrupt:
// at block entry, atomic-xchg the stop-token with zero; branch to the
// Interrupted trap block if the prior value was non-zero.
func (f *FunctionCompiler) emitInterruptCheck() {
	ptr := f.cc.getStopTokenPtr(f.b, f.execCtx)
	prior := f.b.AtomicRMW(ir.AtomicRMWXchg, ptr, f.b.Iconst(ir.I32, 0), "monotonic")
	nonzero := f.b.ICmp(ir.IntNotEqual, prior, f.b.Iconst(ir.I32, 0))
	f.branchToTrap(nonzero, TrapInterrupted)
}

// emitBlockEntryChecks runs the cooperative interrupt check at a
// structured control-flow entry point (block, loop, if), when the
// function was compiled with interruption enabled.
func (f *FunctionCompiler) emitBlockEntryChecks() {
	if f.interruptible {
		f.emitInterruptCheck()
	}
}

// emitBlockBoundaryChecks flushes the instruction-count/gas accumulators,
// checking the gas limit as part of that flush when cost measuring is
// enabled. flushInstrumentation already no-ops on its own flags, so this
// is safe to call unconditionally at every block boundary (block, loop,
// end).
func (f *FunctionCompiler) emitBlockBoundaryChecks() {
	f.flushInstrumentation()
}
