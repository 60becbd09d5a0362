package ir

// BlockID is a dense, per-function identifier for a basic block.
type BlockID uint32

// BasicBlock is a handle to an LLVM basic block, mirroring
// LLVMBasicBlockRef. WebAssembly's structured control flow (block / loop /
// if / else) is lowered to a CFG of these; merge points
// take their φ-values as explicit block parameters rather than LLVM phi
// instructions — restricted to control-flow joins, never to locals,
// since locals are alloca'd.
type BasicBlock struct {
	id   BlockID
	name string

	params []Value

	insts []*Instruction

	preds []*BasicBlock
	// succArgs[p] holds the operand values the predecessor at preds[p]
	// passes for this block's params, recorded when that predecessor's
	// terminator (Br/CondBr/Switch) targets this block.
	succArgs [][]Value

	sealed     bool
	terminated bool
}

// ID returns the block's dense identifier.
func (b *BasicBlock) ID() BlockID { return b.id }

// Name returns the block's debug label.
func (b *BasicBlock) Name() string { return b.name }

// AddParam declares a new block parameter of type t, returning the Value
// that stands for it inside the block. Callers append one param per
// operand-stack value a control-flow merge receives.
func (b *BasicBlock) AddParam(f *Function, t Type) Value {
	v := f.newValue(t)
	b.params = append(b.params, v)
	return v
}

// Params returns the block's parameter values, in declaration order.
func (b *BasicBlock) Params() []Value { return b.params }

// Preds returns the block's recorded predecessor blocks.
func (b *BasicBlock) Preds() []*BasicBlock { return b.preds }

// Terminated reports whether a terminator instruction has already been
// appended to this block (Br, CondBr, Switch, Ret, or Unreachable).
func (b *BasicBlock) Terminated() bool { return b.terminated }

// Sealed reports whether the block's predecessor set is final. A caller
// constructing loop headers must wait to seal until the backedge is known.
// The flag is only recorded: AddParam and the branch emitters do not
// consult it.
func (b *BasicBlock) Sealed() bool { return b.sealed }

// Seal marks the block's predecessor set as final.
func (b *BasicBlock) Seal() { b.sealed = true }

func (b *BasicBlock) addPred(pred *BasicBlock, args []Value) {
	b.preds = append(b.preds, pred)
	b.succArgs = append(b.succArgs, args)
}
