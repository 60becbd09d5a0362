package llvmaot

import (
	"github.com/wasm2llvm/wasm2llvm/internal/ir"
	"github.com/wasm2llvm/wasm2llvm/internal/wasm"
)

// memArg decodes the align/offset immediate pair every load/store/atomic
// opcode carries (the align hint is advisory only and not modelled since
// this façade never aligns accesses differently based on it).
type memArg struct {
	align  uint32
	offset uint32
}

func (f *FunctionCompiler) readMemArg() memArg {
	align := f.readU32()
	offset := f.readU32()
	return memArg{align: align, offset: offset}
}

// effectiveAddr implements the address computation shared by every
// load/store/atomic family member: pop the i32 address
// operand, zero-extend to the pointer width, add the static offset
// immediate, then GEP off the memory's base pointer.
func (f *FunctionCompiler) effectiveAddr(ma memArg) ir.Value {
	addr := f.state.pop()
	addrExt := f.b.ZExt(ir.I64, addr)
	withOffset := f.b.Add(addrExt, f.b.Iconst(ir.I64, int64(ma.offset)))
	base := f.cc.getMemory(f.b, f.execCtx, 0)
	return f.b.GEP(ir.I8, base, withOffset)
}

type loadShape struct {
	loadType                ir.Type
	narrow                  ir.Type // zero value means "no narrowing, full-width load".
	signed                  bool
}

var loadShapes = map[wasm.Opcode]loadShape{
	wasm.OpcodeI32Load:    {loadType: ir.I32},
	wasm.OpcodeI64Load:    {loadType: ir.I64},
	wasm.OpcodeF32Load:    {loadType: ir.F32},
	wasm.OpcodeF64Load:    {loadType: ir.F64},
	wasm.OpcodeI32Load8S:  {loadType: ir.I32, narrow: ir.I8, signed: true},
	wasm.OpcodeI32Load8U:  {loadType: ir.I32, narrow: ir.I8},
	wasm.OpcodeI32Load16S: {loadType: ir.I32, narrow: ir.I16, signed: true},
	wasm.OpcodeI32Load16U: {loadType: ir.I32, narrow: ir.I16},
	wasm.OpcodeI64Load8S:  {loadType: ir.I64, narrow: ir.I8, signed: true},
	wasm.OpcodeI64Load8U:  {loadType: ir.I64, narrow: ir.I8},
	wasm.OpcodeI64Load16S: {loadType: ir.I64, narrow: ir.I16, signed: true},
	wasm.OpcodeI64Load16U: {loadType: ir.I64, narrow: ir.I16},
	wasm.OpcodeI64Load32S: {loadType: ir.I64, narrow: ir.I32, signed: true},
	wasm.OpcodeI64Load32U: {loadType: ir.I64, narrow: ir.I32},
}

// opLoad implements load family: the narrower-than-result
// variants load the narrow type then sign/zero-extend to the pushed
// width; memory accesses are volatile (the host may mutate them outside
// this function's control flow) and never tagged invariant.group.
func (f *FunctionCompiler) opLoad(op wasm.Opcode) {
	ma := f.readMemArg()
	shape := loadShapes[op]
	if f.state.unreachable {
		f.state.pop()
		f.state.push(f.poison(shape.loadType))
		return
	}
	addr := f.effectiveAddr(ma)
	if shape.narrow.Kind() == ir.TypeKindVoid {
		f.state.push(f.b.Load(shape.loadType, addr, false, true))
		return
	}
	narrowed := f.b.Load(shape.narrow, addr, false, true)
	if shape.signed {
		f.state.push(f.b.SExt(shape.loadType, narrowed))
	} else {
		f.state.push(f.b.ZExt(shape.loadType, narrowed))
	}
}

type storeShape struct {
	valueType ir.Type
	narrow    ir.Type
}

var storeShapes = map[wasm.Opcode]storeShape{
	wasm.OpcodeI32Store:   {valueType: ir.I32},
	wasm.OpcodeI64Store:   {valueType: ir.I64},
	wasm.OpcodeF32Store:   {valueType: ir.F32},
	wasm.OpcodeF64Store:   {valueType: ir.F64},
	wasm.OpcodeI32Store8:  {valueType: ir.I32, narrow: ir.I8},
	wasm.OpcodeI32Store16: {valueType: ir.I32, narrow: ir.I16},
	wasm.OpcodeI64Store8:  {valueType: ir.I64, narrow: ir.I8},
	wasm.OpcodeI64Store16: {valueType: ir.I64, narrow: ir.I16},
	wasm.OpcodeI64Store32: {valueType: ir.I64, narrow: ir.I32},
}

// opStore implements store family: wider-than-memory
// variants truncate before storing.
func (f *FunctionCompiler) opStore(op wasm.Opcode) {
	ma := f.readMemArg()
	shape := storeShapes[op]
	if f.state.unreachable {
		f.state.pop()
		f.state.pop()
		return
	}
	val := f.state.pop()
	addr := f.effectiveAddr(ma)
	if shape.narrow.Kind() == ir.TypeKindVoid {
		f.b.Store(addr, val, false, true)
		return
	}
	f.b.Store(addr, f.b.Trunc(shape.narrow, val), false, true)
}

// opMemorySize implements memory.size: loads the page count via the
// MemSize host intrinsic (page accounting lives with the host allocator,
// not in compiled code).
func (f *FunctionCompiler) opMemorySize() {
	memIdx := wasm.Index(f.readU32())
	f.pushMaybe(func() ir.Value {
		return f.cc.callIntrinsic(f.b, IntrinsicMemSize, ir.I32, []ir.Value{f.b.Iconst(ir.I32, int64(memIdx))})
	}, ir.I32)
}

// opMemoryGrow implements memory.grow: delegates to the MemGrow host
// intrinsic, which returns the previous page count or -1 on failure.
func (f *FunctionCompiler) opMemoryGrow() {
	memIdx := wasm.Index(f.readU32())
	if f.state.unreachable {
		f.state.pop()
		f.state.push(f.poison(ir.I32))
		return
	}
	delta := f.state.pop()
	r := f.cc.callIntrinsic(f.b, IntrinsicMemGrow, ir.I32, []ir.Value{f.b.Iconst(ir.I32, int64(memIdx)), delta})
	f.state.push(r)
}

// --- locals, globals, drop, select ---

func (f *FunctionCompiler) opLocalGet() {
	idx := f.readU32()
	t := f.localTypes[idx]
	f.pushMaybe(func() ir.Value { return f.b.Load(t, f.locals[idx], false, false) }, t)
}

func (f *FunctionCompiler) opLocalSet(isTee bool) {
	idx := f.readU32()
	if f.state.unreachable {
		if !isTee {
			f.state.pop()
		}
		return
	}
	var v ir.Value
	if isTee {
		v = f.state.peek()
	} else {
		v = f.state.pop()
	}
	f.b.Store(f.locals[idx], v, false, false)
}

func (f *FunctionCompiler) opGlobalGet(op wasm.Opcode) {
	idx := wasm.Index(f.readU32())
	t := wasmValueIRType(f.cc.Module.GlobalSection[idx].Type.ValType)
	f.pushMaybe(func() ir.Value {
		ptr := f.cc.getGlobal(f.b, f.execCtx, idx, t)
		return f.b.Load(t, ptr, false, false)
	}, t)
	_ = op
}

func (f *FunctionCompiler) opGlobalSet() {
	idx := wasm.Index(f.readU32())
	t := wasmValueIRType(f.cc.Module.GlobalSection[idx].Type.ValType)
	if f.state.unreachable {
		f.state.pop()
		return
	}
	v := f.state.pop()
	ptr := f.cc.getGlobal(f.b, f.execCtx, idx, t)
	f.b.Store(ptr, v, false, false)
}

func (f *FunctionCompiler) opDrop() {
	if !f.state.unreachable {
		f.state.pop()
	}
}

// opSelect implements select and select t (the typed select opcode only
// differs in carrying an explicit type immediate that this lowering
// doesn't need, since the operand stack already knows the value's type).
func (f *FunctionCompiler) opSelect(typed bool) {
	if typed {
		f.readU32() // vector of result types; length-prefixed, single type in practice.
		f.readByte()
	}
	if f.state.unreachable {
		f.state.pop()
		f.state.pop()
		x := f.state.pop()
		f.state.push(f.poison(x.Type()))
		return
	}
	cond := f.state.pop()
	y, x := f.state.pop(), f.state.pop()
	nonzero := f.b.ICmp(ir.IntNotEqual, cond, f.b.Iconst(ir.I32, 0))
	f.state.push(f.b.Select(nonzero, x, y))
}
