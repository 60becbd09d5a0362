// Package llvmaot is the Function Compiler and Compile
// Context: the per-function translator from a pre-validated
// WebAssembly module's function bodies into the internal/ir façade, plus
// the per-module shared state every function compilation draws from.
package llvmaot

import (
	"fmt"
	"sync"

	"github.com/wasm2llvm/wasm2llvm/internal/ir"
	"github.com/wasm2llvm/wasm2llvm/internal/llvmaot/subtarget"
	"github.com/wasm2llvm/wasm2llvm/internal/llvmaot/typemap"
	"github.com/wasm2llvm/wasm2llvm/internal/wasm"
)

// Config is the closed configuration set the compiler accepts.
type Config struct {
	OptimizationLevel   string // one of O0,O1,O2,O3,Os,Oz; unused by the core itself.
	IsGenericBinary     bool
	Interruptible       bool
	InstructionCounting bool
	CostMeasuring       bool
}

const (
	intrinsicsGlobalName = "intrinsics"
	versionGlobalName    = "version"
	trapHelperName       = "trap"
	// compiledBinaryVersion is the "version constant" that is
	// held by the `version` global.
	compiledBinaryVersion = 1
)

// Intrinsic enumerates the stable host-intrinsic tags the `intrinsics`
// global's table holds. Compiled code addresses these only through that
// global's index, never by symbol.
type Intrinsic int

const (
	IntrinsicTrap Intrinsic = iota
	IntrinsicCall
	IntrinsicCallIndirect
	IntrinsicCallRef
	IntrinsicTableGetFuncSymbol
	IntrinsicRefGetFuncSymbol
	IntrinsicMemGrow
	IntrinsicMemSize
	IntrinsicMemCopy
	IntrinsicMemFill
	IntrinsicMemInit
	IntrinsicDataDrop
	IntrinsicTableGet
	IntrinsicTableSet
	IntrinsicTableSize
	IntrinsicTableGrow
	IntrinsicTableFill
	IntrinsicTableInit
	IntrinsicTableCopy
	IntrinsicElemDrop
	IntrinsicRefFunc
	IntrinsicRefTest
	IntrinsicRefCast
	IntrinsicStructNew
	IntrinsicStructGet
	IntrinsicStructSet
	IntrinsicArrayNew
	IntrinsicArrayNewFixed
	IntrinsicArrayNewData
	IntrinsicArrayNewElem
	IntrinsicArrayGet
	IntrinsicArraySet
	IntrinsicArrayLen
	IntrinsicArrayFill
	IntrinsicArrayCopy
	IntrinsicArrayInitData
	IntrinsicArrayInitElem
	IntrinsicMemAtomicNotify
	IntrinsicMemAtomicWait

	intrinsicCount
)

// CompileError is the Go error type for the caller-contract violations
// the compiler can report (NotValidated, InvalidConfigure, UnsupportedOpcode).
type CompileError struct {
	Code string
	Msg  string
}

func (e *CompileError) Error() string { return fmt.Sprintf("%s: %s", e.Code, e.Msg) }

func errNotValidated(msg string) error    { return &CompileError{Code: "NotValidated", Msg: msg} }
func errInvalidConfigure(msg string) error { return &CompileError{Code: "InvalidConfigure", Msg: msg} }

// CompileContext is the per-module shared state every FunctionCompiler
// draws from. A single compile request holds its Mutex for
// the whole duration; parallelism across modules is achieved with independent
// contexts, not by sharing one.
type CompileContext struct {
	mu sync.Mutex

	Module   *wasm.Module
	Config   Config
	Features subtarget.Features

	IRCtx *ir.Context
	IR    *ir.Module

	// signatures caches the ir.Signature for every composite-type index,
	// already aliased through SameAs.
	signatures map[wasm.Index]*ir.Signature

	// wrappers is the duplicate-signature aliasing ledger: canonical type
	// index -> its emitted wrapper function.
	wrappers map[wasm.Index]*ir.Function

	// trapHelper is the process-wide trap *helper* function; the
	// lazily-materialised trap blocks themselves are per-function (see
	// traps.go).
	trapHelper *ir.Function

	nextFuncName int
}

// NewCompileContext constructs the Compile Context for one module compile:
// declares the intrinsics global, emits the trap helper, declares the
// version global, and populates subtarget feature flags (honouring
// is_generic_binary).
func NewCompileContext(m *wasm.Module, cfg Config) (*CompileContext, error) {
	if m == nil {
		return nil, errNotValidated("nil module handed to compile context")
	}
	irCtx := ir.NewContext()
	irMod := irCtx.NewModule("wasm2llvm")

	cc := &CompileContext{
		Module:     m,
		Config:     cfg,
		Features:   subtarget.Detect(cfg.IsGenericBinary),
		IRCtx:      irCtx,
		IR:         irMod,
		signatures: make(map[wasm.Index]*ir.Signature, len(m.TypeSection)),
		wrappers:   make(map[wasm.Index]*ir.Function, len(m.TypeSection)),
	}

	irMod.DeclareGlobal(intrinsicsGlobalName, ir.PtrType)
	irMod.DeclareGlobal(versionGlobalName, ir.I32)

	for i := range m.TypeSection {
		ct := &m.TypeSection[i]
		if ct.Kind != wasm.CompositeTypeKindFunc {
			continue
		}
		canon := wasm.Index(i)
		if ct.SameAs >= 0 {
			canon = wasm.Index(ct.SameAs)
		}
		if sig, ok := cc.signatures[canon]; ok {
			cc.signatures[wasm.Index(i)] = sig
			continue
		}
		sig := typemap.SignatureForFunctionType(i, &ct.Func)
		cc.signatures[wasm.Index(i)] = sig
	}

	cc.emitTrapHelper()
	return cc, nil
}

// SignatureOf returns the ir.Signature for a composite-type index,
// already resolved through the duplicate-signature aliasing ledger.
func (cc *CompileContext) SignatureOf(typeIdx wasm.Index) *ir.Signature {
	return cc.signatures[typeIdx]
}

// typeIndexOfFunc resolves a function's absolute index (spanning the
// import-then-module-defined index space, per wasm.Module's doc comment)
// to its declared type index.
func (cc *CompileContext) typeIndexOfFunc(funcIdx wasm.Index) wasm.Index {
	if funcIdx < cc.Module.ImportFunctionCount {
		return cc.Module.ImportSection[funcIdx].DescFunc
	}
	return cc.Module.FunctionSection[funcIdx-cc.Module.ImportFunctionCount]
}

// wasmFuncType resolves a function's absolute index to its declared
// FunctionType.
func (cc *CompileContext) wasmFuncType(funcIdx wasm.Index) *wasm.FunctionType {
	return &cc.Module.TypeSection[cc.typeIndexOfFunc(funcIdx)].Func
}

// compiledFuncName names the emitted symbol for a module-defined
// function, matching the naming convention NewCompileContext's callers
// use when declaring every function up front.
func compiledFuncName(funcIdx wasm.Index) string {
	return fmt.Sprintf("wasm_func_%d", funcIdx)
}

// importThunkName names the emitted stub for an imported function.
func importThunkName(funcIdx wasm.Index) string {
	return fmt.Sprintf("wasm_import_%d", funcIdx)
}

// funcSymbol returns the emitted symbol name for any function in the
// absolute function index space, whether imported or module-defined.
func (cc *CompileContext) funcSymbol(funcIdx wasm.Index) string {
	if funcIdx < cc.Module.ImportFunctionCount {
		return importThunkName(funcIdx)
	}
	return compiledFuncName(funcIdx)
}

// Lock acquires the context's exclusive compile lock.
func (cc *CompileContext) Lock() { cc.mu.Lock() }

// Unlock releases the context's exclusive compile lock.
func (cc *CompileContext) Unlock() { cc.mu.Unlock() }

// emitTrapHelper emits the process-wide `trap(i32 code)` helper: a
// no-return cold function whose body calls the host Trap intrinsic and
// ends in unreachable.
func (cc *CompileContext) emitTrapHelper() {
	sig := &ir.Signature{Params: []ir.Type{ir.I32}, Results: nil}
	fn := cc.IR.NewFunction(trapHelperName, sig)
	fn.SetCold()
	fn.SetNoReturn()
	b := ir.NewBuilder(fn)
	code := fn.Param(0)
	cc.callIntrinsic(b, IntrinsicTrap, ir.VoidType, []ir.Value{code})
	b.Unreachable()
	cc.trapHelper = fn
}

// callIntrinsic emits `getIntrinsic(builder, index, type)` followed by a
// call through the resolved pointer: it loads the
// intrinsics-table pointer (tagged invariant.group so the optimizer can
// CSE it across calls), GEPs by the intrinsic's index, loads the function
// pointer, and calls it.
func (cc *CompileContext) callIntrinsic(b *ir.Builder, tag Intrinsic, resultType ir.Type, args []ir.Value) ir.Value {
	tablePtr := b.GlobalAddr(intrinsicsGlobalName)
	loaded := b.Load(ir.PtrType, tablePtr, true, false)
	slot := b.GEP(ir.PtrType, loaded, b.Iconst(ir.I64, int64(tag)))
	fnPtr := b.Load(ir.PtrType, slot, true, false)
	paramTypes := make([]ir.Type, len(args))
	for i, a := range args {
		paramTypes[i] = a.Type()
	}
	sig := &ir.Signature{Params: paramTypes, Results: resultsOf(resultType)}
	return b.CallIndirect(sig, fnPtr, args)
}

func resultsOf(t ir.Type) []ir.Type {
	if t.Kind() == ir.TypeKindVoid {
		return nil
	}
	return []ir.Type{t}
}

// getMemory extracts the memory-base-pointer-array field from the
// Execution Context. Memory base loads are tagged invariant.group, since
// the host never mutates the base pointer array after setup.
func (cc *CompileContext) getMemory(b *ir.Builder, execCtx ir.Value, memIdx wasm.Index) ir.Value {
	field := b.GEP(ir.PtrType, execCtx, b.Iconst(ir.I64, int64(execCtxFieldMemoryBase)))
	base := b.Load(ir.PtrType, field, true, false)
	if memIdx == 0 {
		return base
	}
	off := b.GEP(ir.PtrType, base, b.Iconst(ir.I64, int64(memIdx)))
	return b.Load(ir.PtrType, off, true, false)
}

// getGlobal extracts the pointer to global index idx's storage slot from
// the global-storage-array field of the Execution Context.
func (cc *CompileContext) getGlobal(b *ir.Builder, execCtx ir.Value, idx wasm.Index, t ir.Type) ir.Value {
	field := b.GEP(ir.PtrType, execCtx, b.Iconst(ir.I64, int64(execCtxFieldGlobalStorage)))
	arr := b.Load(ir.PtrType, field, true, false)
	return b.GEP(t, arr, b.Iconst(ir.I64, int64(idx)))
}

func (cc *CompileContext) getInstrCountPtr(b *ir.Builder, execCtx ir.Value) ir.Value {
	return b.GEP(ir.I64, execCtx, b.Iconst(ir.I64, int64(execCtxFieldInstrCount)))
}

func (cc *CompileContext) getCostTablePtr(b *ir.Builder, execCtx ir.Value) ir.Value {
	return b.GEP(ir.PtrType, execCtx, b.Iconst(ir.I64, int64(execCtxFieldCostTable)))
}

func (cc *CompileContext) getGasPtr(b *ir.Builder, execCtx ir.Value) ir.Value {
	return b.GEP(ir.I64, execCtx, b.Iconst(ir.I64, int64(execCtxFieldGas)))
}

func (cc *CompileContext) getGasLimitPtr(b *ir.Builder, execCtx ir.Value) ir.Value {
	return b.GEP(ir.I64, execCtx, b.Iconst(ir.I64, int64(execCtxFieldGasLimit)))
}

func (cc *CompileContext) getStopTokenPtr(b *ir.Builder, execCtx ir.Value) ir.Value {
	return b.GEP(ir.I32, execCtx, b.Iconst(ir.I64, int64(execCtxFieldStopToken)))
}

// execCtxField enumerates the Execution Context record's fixed field
// offsets, in declared order:
// memory-base-pointer-array, global-storage-array, instruction-count-ptr,
// cost-table-ptr, gas-ptr, gas-limit, stop-token-ptr.
type execCtxField int

const (
	execCtxFieldMemoryBase execCtxField = iota
	execCtxFieldGlobalStorage
	execCtxFieldInstrCount
	execCtxFieldCostTable
	execCtxFieldGas
	execCtxFieldGasLimit
	execCtxFieldStopToken
)

// resolveBlockType returns the parameter and result IR types for a Block
// Type.
func (cc *CompileContext) resolveBlockType(bt wasm.BlockType) (params, results []ir.Type) {
	wp, wr := blockTypeParamsResults(cc.Module, bt)
	return irTypes(wp), irTypes(wr)
}

func blockTypeParamsResults(m *wasm.Module, bt wasm.BlockType) ([]wasm.ValType, []wasm.ValType) {
	return typemap.BlockTypeParamsResults(m, bt)
}

func irTypes(vts []wasm.ValType) []ir.Type {
	return typemap.WasmTypesToIRTypes(vts)
}
