package llvmaot

import (
	"github.com/wasm2llvm/wasm2llvm/internal/ir"
	"github.com/wasm2llvm/wasm2llvm/internal/wasm"
)

// tableElemType resolves a table index to its element reference type,
// spanning the import-then-module-defined index space the same way
// funcSymbol does for functions.
func (cc *CompileContext) tableElemType(tableIdx wasm.Index) wasm.ValType {
	if tableIdx < cc.Module.ImportTableCount {
		return cc.Module.ImportSection[tableIdx].DescTable.ElemType
	}
	return cc.Module.TableSection[tableIdx-cc.Module.ImportTableCount].ElemType
}

// opTableGet/opTableSet delegate to the host TableGet/TableSet
// intrinsics: table storage is host-owned state, same as
// memory growth and the function-pointer table call_indirect resolves
// against.
func (f *FunctionCompiler) opTableGet() {
	tableIdx := wasm.Index(f.readU32())
	elemType := wasmValueIRType(f.cc.tableElemType(tableIdx))
	if f.state.unreachable {
		f.state.pop()
		f.state.push(f.poison(elemType))
		return
	}
	idx := f.state.pop()
	r := f.cc.callIntrinsic(f.b, IntrinsicTableGet, ir.I64, []ir.Value{
		f.b.Iconst(ir.I32, int64(tableIdx)), idx,
	})
	f.state.push(narrowFromI64(f.b, r, elemType))
}

func (f *FunctionCompiler) opTableSet() {
	tableIdx := wasm.Index(f.readU32())
	if f.state.unreachable {
		f.state.pop()
		f.state.pop()
		return
	}
	val := f.state.pop()
	idx := f.state.pop()
	f.cc.callIntrinsic(f.b, IntrinsicTableSet, ir.VoidType, []ir.Value{
		f.b.Iconst(ir.I32, int64(tableIdx)), idx, widenToI64(f.b, val),
	})
}

func (f *FunctionCompiler) opTableSize() {
	tableIdx := wasm.Index(f.readU32())
	f.pushMaybe(func() ir.Value {
		return f.cc.callIntrinsic(f.b, IntrinsicTableSize, ir.I32, []ir.Value{f.b.Iconst(ir.I32, int64(tableIdx))})
	}, ir.I32)
}

func (f *FunctionCompiler) opTableGrow() {
	tableIdx := wasm.Index(f.readU32())
	if f.state.unreachable {
		f.state.pop()
		f.state.pop()
		f.state.push(f.poison(ir.I32))
		return
	}
	n := f.state.pop()
	val := f.state.pop()
	r := f.cc.callIntrinsic(f.b, IntrinsicTableGrow, ir.I32, []ir.Value{
		f.b.Iconst(ir.I32, int64(tableIdx)), widenToI64(f.b, val), n,
	})
	f.state.push(r)
}

func (f *FunctionCompiler) opTableFill() {
	tableIdx := wasm.Index(f.readU32())
	if f.state.unreachable {
		f.state.pop()
		f.state.pop()
		f.state.pop()
		return
	}
	n := f.state.pop()
	val := f.state.pop()
	dst := f.state.pop()
	f.cc.callIntrinsic(f.b, IntrinsicTableFill, ir.VoidType, []ir.Value{
		f.b.Iconst(ir.I32, int64(tableIdx)), dst, widenToI64(f.b, val), n,
	})
}

func (f *FunctionCompiler) opTableInit() {
	elemIdx := wasm.Index(f.readU32())
	tableIdx := wasm.Index(f.readU32())
	if f.state.unreachable {
		f.state.pop()
		f.state.pop()
		f.state.pop()
		return
	}
	n := f.state.pop()
	src := f.state.pop()
	dst := f.state.pop()
	f.cc.callIntrinsic(f.b, IntrinsicTableInit, ir.VoidType, []ir.Value{
		f.b.Iconst(ir.I32, int64(tableIdx)), f.b.Iconst(ir.I32, int64(elemIdx)), dst, src, n,
	})
}

func (f *FunctionCompiler) opElemDrop() {
	elemIdx := wasm.Index(f.readU32())
	f.cc.callIntrinsic(f.b, IntrinsicElemDrop, ir.VoidType, []ir.Value{f.b.Iconst(ir.I32, int64(elemIdx))})
}

func (f *FunctionCompiler) opTableCopy() {
	dstTable := wasm.Index(f.readU32())
	srcTable := wasm.Index(f.readU32())
	if f.state.unreachable {
		f.state.pop()
		f.state.pop()
		f.state.pop()
		return
	}
	n := f.state.pop()
	src := f.state.pop()
	dst := f.state.pop()
	f.cc.callIntrinsic(f.b, IntrinsicTableCopy, ir.VoidType, []ir.Value{
		f.b.Iconst(ir.I32, int64(dstTable)), f.b.Iconst(ir.I32, int64(srcTable)), dst, src, n,
	})
}

// --- bulk memory operations ---

func (f *FunctionCompiler) opMemoryInit() {
	dataIdx := wasm.Index(f.readU32())
	memIdx := wasm.Index(f.readU32())
	if f.state.unreachable {
		f.state.pop()
		f.state.pop()
		f.state.pop()
		return
	}
	n := f.state.pop()
	src := f.state.pop()
	dst := f.state.pop()
	f.cc.callIntrinsic(f.b, IntrinsicMemInit, ir.VoidType, []ir.Value{
		f.b.Iconst(ir.I32, int64(memIdx)), f.b.Iconst(ir.I32, int64(dataIdx)), dst, src, n,
	})
}

func (f *FunctionCompiler) opDataDrop() {
	dataIdx := wasm.Index(f.readU32())
	f.cc.callIntrinsic(f.b, IntrinsicDataDrop, ir.VoidType, []ir.Value{f.b.Iconst(ir.I32, int64(dataIdx))})
}

func (f *FunctionCompiler) opMemoryCopy() {
	dstMem := wasm.Index(f.readU32())
	srcMem := wasm.Index(f.readU32())
	if f.state.unreachable {
		f.state.pop()
		f.state.pop()
		f.state.pop()
		return
	}
	n := f.state.pop()
	src := f.state.pop()
	dst := f.state.pop()
	f.cc.callIntrinsic(f.b, IntrinsicMemCopy, ir.VoidType, []ir.Value{
		f.b.Iconst(ir.I32, int64(dstMem)), f.b.Iconst(ir.I32, int64(srcMem)), dst, src, n,
	})
}

func (f *FunctionCompiler) opMemoryFill() {
	memIdx := wasm.Index(f.readU32())
	if f.state.unreachable {
		f.state.pop()
		f.state.pop()
		f.state.pop()
		return
	}
	n := f.state.pop()
	val := f.state.pop()
	dst := f.state.pop()
	f.cc.callIntrinsic(f.b, IntrinsicMemFill, ir.VoidType, []ir.Value{
		f.b.Iconst(ir.I32, int64(memIdx)), dst, val, n,
	})
}

// lowerMisc dispatches the saturating-truncation and bulk memory/table
// opcode set reached through the misc prefix byte.
func (f *FunctionCompiler) lowerMisc(sub wasm.OpcodeMisc) error {
	switch sub {
	case wasm.OpcodeMiscI32TruncSatF32S:
		f.opTruncSaturating(false, true, ir.F32)
	case wasm.OpcodeMiscI32TruncSatF32U:
		f.opTruncSaturating(false, false, ir.F32)
	case wasm.OpcodeMiscI32TruncSatF64S:
		f.opTruncSaturating(false, true, ir.F64)
	case wasm.OpcodeMiscI32TruncSatF64U:
		f.opTruncSaturating(false, false, ir.F64)
	case wasm.OpcodeMiscI64TruncSatF32S:
		f.opTruncSaturating(true, true, ir.F32)
	case wasm.OpcodeMiscI64TruncSatF32U:
		f.opTruncSaturating(true, false, ir.F32)
	case wasm.OpcodeMiscI64TruncSatF64S:
		f.opTruncSaturating(true, true, ir.F64)
	case wasm.OpcodeMiscI64TruncSatF64U:
		f.opTruncSaturating(true, false, ir.F64)
	case wasm.OpcodeMiscMemoryInit:
		f.opMemoryInit()
	case wasm.OpcodeMiscDataDrop:
		f.opDataDrop()
	case wasm.OpcodeMiscMemoryCopy:
		f.opMemoryCopy()
	case wasm.OpcodeMiscMemoryFill:
		f.opMemoryFill()
	case wasm.OpcodeMiscTableInit:
		f.opTableInit()
	case wasm.OpcodeMiscElemDrop:
		f.opElemDrop()
	case wasm.OpcodeMiscTableCopy:
		f.opTableCopy()
	case wasm.OpcodeMiscTableGrow:
		f.opTableGrow()
	case wasm.OpcodeMiscTableSize:
		f.opTableSize()
	case wasm.OpcodeMiscTableFill:
		f.opTableFill()
	default:
		return errUnsupportedOpcode("misc sub-opcode")
	}
	return nil
}
