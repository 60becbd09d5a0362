package llvmaot

import "github.com/wasm2llvm/wasm2llvm/internal/ir"

// TrapCode enumerates the runtime error codes the runtime recognizes. Each
// has its own lazily materialised basic block, created on first use and
// reused by every later trap site that needs the same code.
type TrapCode int32

const (
	TrapUnreachable TrapCode = iota
	TrapDivideByZero
	TrapIntegerOverflow
	TrapInvalidConvToInt
	TrapCastNullToNonNull
	TrapAccessNullFunc
	TrapAccessNullI31
	TrapUnalignedAtomicAccess
	TrapCostLimitExceeded
	TrapInterrupted
	TrapIndirectCallTypeMismatch
	TrapUndefinedElement
)

func (c TrapCode) String() string {
	switch c {
	case TrapUnreachable:
		return "Unreachable"
	case TrapDivideByZero:
		return "DivideByZero"
	case TrapIntegerOverflow:
		return "IntegerOverflow"
	case TrapInvalidConvToInt:
		return "InvalidConvToInt"
	case TrapCastNullToNonNull:
		return "CastNullToNonNull"
	case TrapAccessNullFunc:
		return "AccessNullFunc"
	case TrapAccessNullI31:
		return "AccessNullI31"
	case TrapUnalignedAtomicAccess:
		return "UnalignedAtomicAccess"
	case TrapCostLimitExceeded:
		return "CostLimitExceeded"
	case TrapInterrupted:
		return "Interrupted"
	case TrapIndirectCallTypeMismatch:
		return "IndirectCallTypeMismatch"
	case TrapUndefinedElement:
		return "UndefinedElement"
	default:
		return "UnknownTrap"
	}
}

// trapBlock returns the (lazily materialised) basic block for code,
// creating it on first use. The block
// flushes instrumentation, calls the process-wide trap helper, and ends
// in unreachable.
func (f *FunctionCompiler) trapBlock(code TrapCode) *ir.BasicBlock {
	if blk, ok := f.trapBlocks[code]; ok {
		return blk
	}
	saved := f.b.CurrentBlock()

	blk := f.b.AllocateBasicBlock("trap_" + code.String())
	f.trapBlocks[code] = blk
	f.stats.TrapBlocks++

	f.b.SetCurrentBlock(blk)
	f.flushInstrumentationAtTrap()
	f.b.Call(&ir.Signature{Params: []ir.Type{ir.I32}}, trapHelperName,
		[]ir.Value{f.b.Iconst(ir.I32, int64(code))})
	f.b.Unreachable()

	f.b.SetCurrentBlock(saved)
	return blk
}

// branchToTrap emits a conditional branch to code's trap block when cond
// is nonzero, falling through to a fresh continuation block otherwise.
// This is the shared shape behind every trap-guarded opcode (div/rem
// checks, truncation bounds, alignment checks, cast checks, ...).
func (f *FunctionCompiler) branchToTrap(cond ir.Value, code TrapCode) {
	cont := f.b.AllocateBasicBlock("cont")
	f.b.CondBr(cond, f.trapBlock(code), nil, cont, nil)
	cont.Seal()
	f.b.SetCurrentBlock(cont)
}
