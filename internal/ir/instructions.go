package ir

// Opcode enumerates the LLVM instruction opcodes this façade can emit.
// The set is limited to what the function compiler's numeric, memory,
// control, reference/GC, SIMD, and atomics lowerings need,
// not the whole of LLVM's instruction set.
type Opcode byte

const (
	OpIconst Opcode = iota
	OpFconst

	OpAdd
	OpSub
	OpMul
	OpUDiv
	OpSDiv
	OpURem
	OpSRem
	OpAnd
	OpOr
	OpXor
	OpShl
	OpLShr
	OpAShr

	OpFAdd
	OpFSub
	OpFMul
	OpFDiv
	OpFNeg

	OpICmp
	OpFCmp
	OpSelect

	OpTrunc
	OpZExt
	OpSExt
	OpFPTrunc
	OpFPExt
	OpFPToUI
	OpFPToSI
	OpUIToFP
	OpSIToFP
	OpBitCast
	OpPtrToInt
	OpIntToPtr

	OpAlloca
	OpLoad
	OpStore
	OpGlobalAddr

	OpGEP

	OpCall
	OpCallIndirect

	OpBr
	OpCondBr
	OpSwitch
	OpRet
	OpUnreachable

	OpExtractValue
	OpInsertValue

	OpExtractElement
	OpInsertElement
	OpShuffleVector

	OpAtomicRMW
	OpAtomicCmpXchg
	OpFence

	OpIntrinsicCall
)

var opcodeNames = [...]string{
	OpIconst: "iconst", OpFconst: "fconst",
	OpAdd: "add", OpSub: "sub", OpMul: "mul", OpUDiv: "udiv", OpSDiv: "sdiv",
	OpURem: "urem", OpSRem: "srem", OpAnd: "and", OpOr: "or", OpXor: "xor",
	OpShl: "shl", OpLShr: "lshr", OpAShr: "ashr",
	OpFAdd: "fadd", OpFSub: "fsub", OpFMul: "fmul", OpFDiv: "fdiv", OpFNeg: "fneg",
	OpICmp: "icmp", OpFCmp: "fcmp", OpSelect: "select",
	OpTrunc: "trunc", OpZExt: "zext", OpSExt: "sext",
	OpFPTrunc: "fptrunc", OpFPExt: "fpext",
	OpFPToUI: "fptoui", OpFPToSI: "fptosi", OpUIToFP: "uitofp", OpSIToFP: "sitofp",
	OpBitCast: "bitcast", OpPtrToInt: "ptrtoint", OpIntToPtr: "inttoptr",
	OpAlloca: "alloca", OpLoad: "load", OpStore: "store", OpGEP: "gep",
	OpGlobalAddr: "global_addr",
	OpCall: "call", OpCallIndirect: "call_indirect",
	OpBr: "br", OpCondBr: "condbr", OpSwitch: "switch",
	OpRet: "ret", OpUnreachable: "unreachable",
	OpExtractValue: "extractvalue", OpInsertValue: "insertvalue",
	OpExtractElement: "extractelement", OpInsertElement: "insertelement",
	OpShuffleVector: "shufflevector",
	OpAtomicRMW:      "atomicrmw", OpAtomicCmpXchg: "cmpxchg", OpFence: "fence",
	OpIntrinsicCall: "intrinsic_call",
}

func (o Opcode) String() string {
	if int(o) < len(opcodeNames) {
		return opcodeNames[o]
	}
	return "unknown"
}

// Instruction is a handle to an emitted LLVM instruction, mirroring
// LLVMValueRef when the instruction produces a value. Most fields are
// opcode-specific payload; callers never construct these directly — the
// Builder's emit methods create them (see Builder.insert).
type Instruction struct {
	id     uint32
	op     Opcode
	block  *BasicBlock
	result Value // invalid (zero) for void-returning instructions.

	operands []Value

	// Imm holds integer/float constants (OpIconst/OpFconst) and
	// aggregate/vector extract and insert indices, depending on op.
	Imm  int64
	Imm2 int64

	// ICond/FCond hold the predicate for OpICmp/OpFCmp.
	ICond IntCmpCond
	FCond FloatCmpCond

	// AtomicOp holds the RMW operation for OpAtomicRMW.
	AtomicOp AtomicRMWOp
	// Ordering names the LLVM atomic ordering the instruction was built
	// with.
	Ordering string

	// Targets holds branch destinations: [0] for OpBr, [0]=true/[1]=false
	// for OpCondBr, [0]=default followed by case blocks for OpSwitch.
	Targets []*BasicBlock
	// TargetArgs[i] holds the block-parameter arguments passed to
	// Targets[i].
	TargetArgs [][]Value

	// Cases holds the constant case values for OpSwitch, index-aligned
	// with Targets[1:].
	Cases []int64

	// Callee names the function symbol for OpCall, or is empty for
	// OpCallIndirect (whose target is operands[0]).
	Callee string
	// CalleeType holds the callee's function type.
	CalleeType Type
	Tail       bool // true for a tail call.

	// FieldTypes holds the element type an OpAlloca reserves or an OpGEP
	// indexes over.
	FieldTypes []Type

	// InvariantGroup marks a Load/Store as tagged with !invariant.group
	// metadata.
	InvariantGroup bool
	// Volatile marks a Load/Store that must not be reordered or elided —
	// used for instrumentation counters and gas/interrupt checks.
	Volatile bool
}

// Result returns the value this instruction produces, or the invalid
// Value if it is void.
func (i *Instruction) Result() Value { return i.result }

// Opcode returns the instruction's opcode.
func (i *Instruction) Opcode() Opcode { return i.op }

// Block returns the block the instruction is appended to.
func (i *Instruction) Block() *BasicBlock { return i.block }

// Operands returns the instruction's value operands, in opcode-defined
// order.
func (i *Instruction) Operands() []Value { return i.operands }
