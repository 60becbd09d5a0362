package ir

import (
	"fmt"
	"strings"
)

// Context stands in for LLVMContextRef: the root factory a compilation
// unit allocates modules from. It carries no state of its own — types and
// constants in this façade are value types, not context-interned handles —
// but it is kept as an explicit handle because every LLVM API entry point
// threads one, and callers hold it
// alongside the module and builder they allocate from it.
type Context struct{}

// NewContext allocates a fresh Context.
func NewContext() *Context { return &Context{} }

// NewModule allocates an empty Module within this context.
func (c *Context) NewModule(name string) *Module {
	return &Module{Name: name, declared: map[string]*Signature{}}
}

// Module stands in for LLVMModuleRef: a single compilation unit's worth of
// function definitions and external declarations.
type Module struct {
	Name      string
	Functions []*Function

	declared map[string]*Signature
	globals  map[string]Type
}

// DeclareGlobal records a module-level global variable's element type
// (the intrinsics-table pointer, the `version` constant, and similar
// process-wide singletons are modelled this way).
func (m *Module) DeclareGlobal(name string, elemType Type) {
	if m.globals == nil {
		m.globals = map[string]Type{}
	}
	m.globals[name] = elemType
}

// GlobalType looks up a declared global's element type.
func (m *Module) GlobalType(name string) (Type, bool) {
	t, ok := m.globals[name]
	return t, ok
}

// DeclareFunction records an external function symbol (an imported Wasm
// function, or a runtime helper such as a trap handler) with the given
// signature, without giving it a body.
func (m *Module) DeclareFunction(name string, sig *Signature) {
	m.declared[name] = sig
}

// Declaration looks up a previously declared or defined function's
// signature by symbol name.
func (m *Module) Declaration(name string) (*Signature, bool) {
	if sig, ok := m.declared[name]; ok {
		return sig, true
	}
	for _, f := range m.Functions {
		if f.Name == name {
			return f.Sig, true
		}
	}
	return nil, false
}

// NewFunction allocates a new function definition in the module and
// returns it, along with its entry block already allocated (but not yet
// current — callers use Builder.SetCurrentBlock).
func (m *Module) NewFunction(name string, sig *Signature) *Function {
	// IDs 1..len(Params) belong to the parameters (see Param).
	f := &Function{Name: name, Sig: sig, module: m, nextValue: ValueID(len(sig.Params))}
	m.declared[name] = sig
	m.Functions = append(m.Functions, f)
	f.entry = f.allocBlock("entry")
	return f
}

// Function is a handle to a function definition, mirroring the LLVMValueRef
// of an LLVMAddFunction result together with its body.
type Function struct {
	Name string
	Sig  *Signature

	module *Module
	blocks []*BasicBlock
	entry  *BasicBlock

	nextValue ValueID
	nextBlock BlockID
	nextInst  uint32

	// Cold and NoReturn mirror LLVM's `cold`/`noreturn` function
	// attributes, set on the process-wide trap helper.
	Cold, NoReturn bool
	// Internal mirrors LLVM's internal linkage, set on import thunks.
	Internal bool
	// Protected mirrors LLVM's protected visibility, set on the
	// per-function-type wrappers.
	Protected bool
}

// SetCold marks the function cold, matching LLVM's `cold` attribute.
func (f *Function) SetCold() { f.Cold = true }

// SetNoReturn marks the function as never returning, matching LLVM's
// `noreturn` attribute.
func (f *Function) SetNoReturn() { f.NoReturn = true }

// SetInternalLinkage marks the function internal-linked rather than
// externally visible.
func (f *Function) SetInternalLinkage() { f.Internal = true }

// SetProtected marks the function's visibility protected, on top of its
// (default) external linkage.
func (f *Function) SetProtected() { f.Protected = true }

// Entry returns the function's entry block.
func (f *Function) Entry() *BasicBlock { return f.entry }

// Blocks returns every block allocated in this function, in allocation
// order.
func (f *Function) Blocks() []*BasicBlock { return f.blocks }

// Param returns the Value standing for the function's i-th parameter
// (index 0 is always the execution-context pointer, per this façade's
// Signature convention).
func (f *Function) Param(i int) Value {
	return Value{id: ValueID(i + 1), typ: f.Sig.Params[i]}
}

func (f *Function) newValue(t Type) Value {
	f.nextValue++
	return Value{id: f.nextValue, typ: t}
}

func (f *Function) allocBlock(name string) *BasicBlock {
	f.nextBlock++
	b := &BasicBlock{id: f.nextBlock, name: name}
	f.blocks = append(f.blocks, b)
	return b
}

// Builder accumulates instructions into a function's basic blocks,
// mirroring LLVMBuilderRef. It performs no local-variable/phi
// construction: locals are alloca'd up front and every value this
// Builder produces is already in
// SSA form by construction, with block parameters standing in for phis
// only at control-flow merges.
type Builder struct {
	f       *Function
	current *BasicBlock
}

// NewBuilder returns a Builder positioned at f's entry block.
func NewBuilder(f *Function) *Builder {
	return &Builder{f: f, current: f.entry}
}

// Function returns the function this builder is emitting into.
func (b *Builder) Function() *Function { return b.f }

// CurrentBlock returns the block new instructions are appended to.
func (b *Builder) CurrentBlock() *BasicBlock { return b.current }

// SetCurrentBlock repositions the builder to append into bb.
func (b *Builder) SetCurrentBlock(bb *BasicBlock) { b.current = bb }

// AllocateBasicBlock allocates a new, empty, unsealed block in the current
// function without changing the builder's position.
func (b *Builder) AllocateBasicBlock(name string) *BasicBlock {
	return b.f.allocBlock(name)
}

func (b *Builder) insert(op Opcode, resultType Type) *Instruction {
	if b.current.terminated {
		panic(fmt.Sprintf("ir: insert %v into already-terminated block %s", op, b.current.name))
	}
	b.f.nextInst++
	inst := &Instruction{id: b.f.nextInst, op: op, block: b.current}
	if resultType.Kind() != TypeKindVoid {
		inst.result = b.f.newValue(resultType)
	}
	b.current.insts = append(b.current.insts, inst)
	return inst
}

// --- constants ---

func (b *Builder) Iconst(t Type, v int64) Value {
	i := b.insert(OpIconst, t)
	i.Imm = v
	return i.result
}

func (b *Builder) Fconst(t Type, bits uint64) Value {
	i := b.insert(OpFconst, t)
	i.Imm = int64(bits)
	return i.result
}

// --- integer arithmetic ---

func (b *Builder) binop(op Opcode, x, y Value) Value {
	i := b.insert(op, x.Type())
	i.operands = []Value{x, y}
	return i.result
}

func (b *Builder) Add(x, y Value) Value  { return b.binop(OpAdd, x, y) }
func (b *Builder) Sub(x, y Value) Value  { return b.binop(OpSub, x, y) }
func (b *Builder) Mul(x, y Value) Value  { return b.binop(OpMul, x, y) }
func (b *Builder) UDiv(x, y Value) Value { return b.binop(OpUDiv, x, y) }
func (b *Builder) SDiv(x, y Value) Value { return b.binop(OpSDiv, x, y) }
func (b *Builder) URem(x, y Value) Value { return b.binop(OpURem, x, y) }
func (b *Builder) SRem(x, y Value) Value { return b.binop(OpSRem, x, y) }
func (b *Builder) And(x, y Value) Value  { return b.binop(OpAnd, x, y) }
func (b *Builder) Or(x, y Value) Value   { return b.binop(OpOr, x, y) }
func (b *Builder) Xor(x, y Value) Value  { return b.binop(OpXor, x, y) }
func (b *Builder) Shl(x, y Value) Value  { return b.binop(OpShl, x, y) }
func (b *Builder) LShr(x, y Value) Value { return b.binop(OpLShr, x, y) }
func (b *Builder) AShr(x, y Value) Value { return b.binop(OpAShr, x, y) }

// --- float arithmetic ---

func (b *Builder) FAdd(x, y Value) Value { return b.binop(OpFAdd, x, y) }
func (b *Builder) FSub(x, y Value) Value { return b.binop(OpFSub, x, y) }
func (b *Builder) FMul(x, y Value) Value { return b.binop(OpFMul, x, y) }
func (b *Builder) FDiv(x, y Value) Value { return b.binop(OpFDiv, x, y) }

func (b *Builder) FNeg(x Value) Value {
	i := b.insert(OpFNeg, x.Type())
	i.operands = []Value{x}
	return i.result
}

// --- comparisons and select ---

func (b *Builder) ICmp(cond IntCmpCond, x, y Value) Value {
	i := b.insert(OpICmp, I1)
	i.ICond = cond
	i.operands = []Value{x, y}
	return i.result
}

func (b *Builder) FCmp(cond FloatCmpCond, x, y Value) Value {
	i := b.insert(OpFCmp, I1)
	i.FCond = cond
	i.operands = []Value{x, y}
	return i.result
}

func (b *Builder) Select(cond, x, y Value) Value {
	i := b.insert(OpSelect, x.Type())
	i.operands = []Value{cond, x, y}
	return i.result
}

// --- conversions ---

func (b *Builder) conv(op Opcode, t Type, x Value) Value {
	i := b.insert(op, t)
	i.operands = []Value{x}
	return i.result
}

func (b *Builder) Trunc(t Type, x Value) Value    { return b.conv(OpTrunc, t, x) }
func (b *Builder) ZExt(t Type, x Value) Value     { return b.conv(OpZExt, t, x) }
func (b *Builder) SExt(t Type, x Value) Value     { return b.conv(OpSExt, t, x) }
func (b *Builder) FPTrunc(t Type, x Value) Value  { return b.conv(OpFPTrunc, t, x) }
func (b *Builder) FPExt(t Type, x Value) Value    { return b.conv(OpFPExt, t, x) }
func (b *Builder) FPToUI(t Type, x Value) Value   { return b.conv(OpFPToUI, t, x) }
func (b *Builder) FPToSI(t Type, x Value) Value   { return b.conv(OpFPToSI, t, x) }
func (b *Builder) UIToFP(t Type, x Value) Value   { return b.conv(OpUIToFP, t, x) }
func (b *Builder) SIToFP(t Type, x Value) Value   { return b.conv(OpSIToFP, t, x) }
func (b *Builder) BitCast(t Type, x Value) Value  { return b.conv(OpBitCast, t, x) }
func (b *Builder) PtrToInt(t Type, x Value) Value { return b.conv(OpPtrToInt, t, x) }
func (b *Builder) IntToPtr(t Type, x Value) Value { return b.conv(OpIntToPtr, t, x) }

// --- memory: locals live in alloca'd stack slots, not SSA variables ---

// Alloca reserves a stack slot of type t, returning a pointer Value. The
// function compiler calls this once per local at function entry, and also
// mid-block for the scratch buffers that host-intrinsic and import calls
// marshal through.
func (b *Builder) Alloca(t Type) Value {
	i := b.insert(OpAlloca, PtrType)
	i.FieldTypes = []Type{t}
	return i.result
}

// Load reads from a pointer. invariantGroup tags the load with
// !invariant.group metadata;
// volatile marks it as not to be reordered or eliminated (instrumentation
// counters, gas checks).
func (b *Builder) Load(t Type, ptr Value, invariantGroup, volatile bool) Value {
	i := b.insert(OpLoad, t)
	i.operands = []Value{ptr}
	i.InvariantGroup = invariantGroup
	i.Volatile = volatile
	return i.result
}

// Store writes val to a pointer.
func (b *Builder) Store(ptr, val Value, invariantGroup, volatile bool) {
	i := b.insert(OpStore, VoidType)
	i.operands = []Value{ptr, val}
	i.InvariantGroup = invariantGroup
	i.Volatile = volatile
}

// GlobalAddr returns the address of a module-level global declared with
// Module.DeclareGlobal.
func (b *Builder) GlobalAddr(name string) Value {
	i := b.insert(OpGlobalAddr, PtrType)
	i.Callee = name
	return i.result
}

// GEP computes a pointer offset by index elements of elemType, mirroring
// LLVM's getelementptr. Used for memory-base-relative addressing and
// Execution Context field access.
func (b *Builder) GEP(elemType Type, ptr Value, index Value) Value {
	i := b.insert(OpGEP, PtrType)
	i.operands = []Value{ptr, index}
	i.FieldTypes = []Type{elemType}
	return i.result
}

// --- calls ---

func (b *Builder) Call(sig *Signature, callee string, args []Value) Value {
	i := b.insert(OpCall, sig.ResultType())
	i.operands = args
	i.Callee = callee
	i.CalleeType = sig.FunctionType()
	return i.result
}

func (b *Builder) CallIndirect(sig *Signature, target Value, args []Value) Value {
	i := b.insert(OpCallIndirect, sig.ResultType())
	i.operands = append([]Value{target}, args...)
	i.CalleeType = sig.FunctionType()
	return i.result
}

// TailCall emits a musttail call.
// It does not itself terminate the block: the caller still emits the Ret
// of its result, matching LLVM's musttail-call-followed-by-ret idiom.
func (b *Builder) TailCall(sig *Signature, callee string, args []Value) Value {
	i := b.insert(OpCall, sig.ResultType())
	i.operands = args
	i.Callee = callee
	i.CalleeType = sig.FunctionType()
	i.Tail = true
	return i.result
}

// --- terminators ---

func (b *Builder) terminate(op Opcode) *Instruction {
	i := b.insert(op, VoidType)
	b.current.terminated = true
	return i
}

// Br unconditionally branches to target, passing args for its block
// parameters.
func (b *Builder) Br(target *BasicBlock, args ...Value) {
	i := b.terminate(OpBr)
	i.Targets = []*BasicBlock{target}
	i.TargetArgs = [][]Value{args}
	target.addPred(b.current, args)
}

// CondBr branches to thenBlock if cond is nonzero, else elseBlock.
func (b *Builder) CondBr(cond Value, thenBlock *BasicBlock, thenArgs []Value, elseBlock *BasicBlock, elseArgs []Value) {
	i := b.terminate(OpCondBr)
	i.operands = []Value{cond}
	i.Targets = []*BasicBlock{thenBlock, elseBlock}
	i.TargetArgs = [][]Value{thenArgs, elseArgs}
	thenBlock.addPred(b.current, thenArgs)
	elseBlock.addPred(b.current, elseArgs)
}

// Switch lowers a br_table: index selects among cases (matched against
// Cases in order), falling through to def otherwise.
func (b *Builder) Switch(index Value, def *BasicBlock, defArgs []Value, cases []int64, targets []*BasicBlock, targetArgs [][]Value) {
	i := b.terminate(OpSwitch)
	i.operands = []Value{index}
	i.Cases = cases
	i.Targets = append([]*BasicBlock{def}, targets...)
	i.TargetArgs = append([][]Value{defArgs}, targetArgs...)
	def.addPred(b.current, defArgs)
	for idx, t := range targets {
		t.addPred(b.current, targetArgs[idx])
	}
}

// Ret returns from the function, aggregating multiple results into the
// function's struct result type if necessary.
func (b *Builder) Ret(results ...Value) {
	i := b.terminate(OpRet)
	i.operands = results
}

// Unreachable marks a program point that control can never reach — the
// terminator every trap block ends with.
func (b *Builder) Unreachable() {
	b.terminate(OpUnreachable)
}

// --- aggregates ---

func (b *Builder) ExtractValue(agg Value, index int, t Type) Value {
	i := b.insert(OpExtractValue, t)
	i.operands = []Value{agg}
	i.Imm = int64(index)
	return i.result
}

func (b *Builder) InsertValue(agg, elem Value, index int) Value {
	i := b.insert(OpInsertValue, agg.Type())
	i.operands = []Value{agg, elem}
	i.Imm = int64(index)
	return i.result
}

// --- vectors ---

func (b *Builder) ExtractElement(vec Value, lane int, elemType Type) Value {
	i := b.insert(OpExtractElement, elemType)
	i.operands = []Value{vec}
	i.Imm = int64(lane)
	return i.result
}

func (b *Builder) InsertElement(vec, elem Value, lane int) Value {
	i := b.insert(OpInsertElement, vec.Type())
	i.operands = []Value{vec, elem}
	i.Imm = int64(lane)
	return i.result
}

func (b *Builder) ShuffleVector(x, y Value, mask []int64) Value {
	i := b.insert(OpShuffleVector, x.Type())
	i.operands = []Value{x, y}
	i.Cases = mask
	return i.result
}

// --- atomics ---

// AtomicRMW emits a single atomic read-modify-write with the given
// ordering.
func (b *Builder) AtomicRMW(op AtomicRMWOp, ptr, val Value, ordering string) Value {
	i := b.insert(OpAtomicRMW, val.Type())
	i.operands = []Value{ptr, val}
	i.AtomicOp = op
	i.Ordering = ordering
	return i.result
}

// AtomicCmpXchg emits cmpxchg; the result is the struct {oldValue, i1
// success}, matching LLVM's instruction shape.
func (b *Builder) AtomicCmpXchg(ptr, expected, new Value, ordering string) Value {
	i := b.insert(OpAtomicCmpXchg, StructType(expected.Type(), I1))
	i.operands = []Value{ptr, expected, new}
	i.Ordering = ordering
	return i.result
}

// Fence emits a standalone atomic fence, used to lower memory.atomic.fence
// and any instrumentation that needs a memory barrier without a RMW.
func (b *Builder) Fence(ordering string) {
	i := b.insert(OpFence, VoidType)
	i.Ordering = ordering
}

// --- intrinsics ---

// IntrinsicCall emits a call to a named LLVM intrinsic (e.g.
// "llvm.sqrt.f64", "llvm.x86.ssse3.pshuf.b.128"), used by the numeric and
// SIMD lowerings for operations LLVM exposes as intrinsics rather than
// first-class instructions.
func (b *Builder) IntrinsicCall(name string, resultType Type, args []Value) Value {
	i := b.insert(OpIntrinsicCall, resultType)
	i.operands = args
	i.Callee = name
	return i.result
}

// Format renders the function's blocks and instructions as a readable
// (non-LLVM-IR-syntax) listing, for debug dumps and test assertions —
// this façade never emits real .ll text, matching its Non-goal of driving
// an LLVM pass pipeline.
func (f *Function) Format() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "function %s\n", f.Name)
	for _, blk := range f.blocks {
		fmt.Fprintf(&sb, "%s(", blk.name)
		for i, p := range blk.params {
			if i > 0 {
				sb.WriteString(", ")
			}
			fmt.Fprintf(&sb, "%s: %s", p.String(), p.Type().String())
		}
		sb.WriteString("):\n")
		for _, inst := range blk.insts {
			fmt.Fprintf(&sb, "  %s\n", formatInst(inst))
		}
	}
	return sb.String()
}

func formatInst(i *Instruction) string {
	if i.result.Valid() {
		return fmt.Sprintf("%s = %v %v", i.result, i.op, i.operands)
	}
	return fmt.Sprintf("%v %v", i.op, i.operands)
}
