package llvmaot

import (
	"github.com/wasm2llvm/wasm2llvm/internal/ir"
	"github.com/wasm2llvm/wasm2llvm/internal/llvmaot/atomics"
	"github.com/wasm2llvm/wasm2llvm/internal/wasm"
)

// atomicAlignedAddr computes the effective address for an atomic access
// and guards it with the alignment check the atomic memory instructions require: any
// access whose runtime address isn't a multiple of its own width traps
// UnalignedAtomicAccess, checked before the access itself (so the trap
// fires even when the memory access would otherwise succeed).
func (f *FunctionCompiler) atomicAlignedAddr(ma memArg, widthBytes int) ir.Value {
	addr := f.effectiveAddr(ma)
	addrInt := f.b.PtrToInt(ir.I64, addr)
	rem := f.b.And(addrInt, f.b.Iconst(ir.I64, atomics.RequiredAlignment(widthBytes)-1))
	misaligned := f.b.ICmp(ir.IntNotEqual, rem, f.b.Iconst(ir.I64, 0))
	f.branchToTrap(misaligned, TrapUnalignedAtomicAccess)
	return addr
}

// opAtomicLoad implements the atomic load family. narrow is the zero
// Type for the full-width 32/64-bit variants; for the narrow (load8_u/
// load16_u/load32_u) variants it names the in-memory width, which is
// loaded then zero-extended to t — atomic narrow loads are always
// unsigned, unlike the plain load family's load8_s/load16_s variants.
func (f *FunctionCompiler) opAtomicLoad(t ir.Type, widthBytes int, narrow ir.Type) {
	ma := f.readMemArg()
	if f.state.unreachable {
		f.state.pop()
		f.state.push(f.poison(t))
		return
	}
	addr := f.atomicAlignedAddr(ma, widthBytes)
	if narrow.Kind() == ir.TypeKindVoid {
		f.state.push(f.b.Load(t, addr, false, true))
		return
	}
	narrowed := f.b.Load(narrow, addr, false, true)
	f.state.push(f.b.ZExt(t, narrowed))
}

// opAtomicStore implements the atomic store family: the narrow
// (store8/store16/store32) variants truncate the full-width operand to
// narrow's width before storing.
func (f *FunctionCompiler) opAtomicStore(t ir.Type, widthBytes int, narrow ir.Type) {
	ma := f.readMemArg()
	if f.state.unreachable {
		f.state.pop()
		f.state.pop()
		return
	}
	val := f.state.pop()
	addr := f.atomicAlignedAddr(ma, widthBytes)
	if narrow.Kind() == ir.TypeKindVoid {
		f.b.Store(addr, val, false, true)
		return
	}
	f.b.Store(addr, f.b.Trunc(narrow, val), false, true)
}

// opAtomicRMW implements the atomic read-modify-write family: for the
// narrow (rmw8/rmw16/rmw32) variants the operand is truncated before the
// RMW and the old value it returns is zero-extended back to t, matching
// the narrow load family's convention.
func (f *FunctionCompiler) opAtomicRMW(t ir.Type, widthBytes int, op ir.AtomicRMWOp, narrow ir.Type) {
	ma := f.readMemArg()
	if f.state.unreachable {
		f.state.pop()
		f.state.pop()
		f.state.push(f.poison(t))
		return
	}
	val := f.state.pop()
	addr := f.atomicAlignedAddr(ma, widthBytes)
	if narrow.Kind() == ir.TypeKindVoid {
		f.state.push(f.b.AtomicRMW(op, addr, val, atomics.Ordering))
		return
	}
	old := f.b.AtomicRMW(op, addr, f.b.Trunc(narrow, val), atomics.Ordering)
	f.state.push(f.b.ZExt(t, old))
}

// opAtomicCmpxchg implements the atomic compare-exchange family: the
// narrow (rmw8.cmpxchg/rmw16.cmpxchg/rmw32.cmpxchg) variants truncate
// both operands before the exchange and zero-extend the extracted old
// value back to t.
func (f *FunctionCompiler) opAtomicCmpxchg(t ir.Type, widthBytes int, narrow ir.Type) {
	ma := f.readMemArg()
	if f.state.unreachable {
		f.state.pop()
		f.state.pop()
		f.state.pop()
		f.state.push(f.poison(t))
		return
	}
	replacement := f.state.pop()
	expected := f.state.pop()
	addr := f.atomicAlignedAddr(ma, widthBytes)
	if narrow.Kind() == ir.TypeKindVoid {
		pair := f.b.AtomicCmpXchg(addr, expected, replacement, atomics.Ordering)
		f.state.push(f.b.ExtractValue(pair, 0, t))
		return
	}
	pair := f.b.AtomicCmpXchg(addr, f.b.Trunc(narrow, expected), f.b.Trunc(narrow, replacement), atomics.Ordering)
	f.state.push(f.b.ZExt(t, f.b.ExtractValue(pair, 0, narrow)))
}

func (f *FunctionCompiler) opAtomicFence() {
	f.readByte() // reserved consistency immediate, always zero.
	f.b.Fence(atomics.Ordering)
}

// opAtomicNotify/opAtomicWait check the address's natural alignment and
// then delegate to the host, since futex-style
// waiting requires OS thread primitives outside this compiler's scope.
func (f *FunctionCompiler) opAtomicNotify() {
	ma := f.readMemArg()
	if f.state.unreachable {
		f.state.pop()
		f.state.pop()
		f.state.push(f.poison(ir.I32))
		return
	}
	count := f.state.pop()
	addr := f.atomicAlignedAddr(ma, 4)
	f.state.push(f.cc.callIntrinsic(f.b, IntrinsicMemAtomicNotify, ir.I32, []ir.Value{addr, count}))
}

func (f *FunctionCompiler) opAtomicWait(is64 bool) {
	ma := f.readMemArg()
	t := ir.I32
	if is64 {
		t = ir.I64
	}
	if f.state.unreachable {
		f.state.pop()
		f.state.pop()
		f.state.pop()
		f.state.push(f.poison(ir.I32))
		return
	}
	timeout := f.state.pop()
	expected := f.state.pop()
	width := 4
	if is64 {
		width = 8
	}
	addr := f.atomicAlignedAddr(ma, width)
	_ = t
	f.state.push(f.cc.callIntrinsic(f.b, IntrinsicMemAtomicWait, ir.I32, []ir.Value{addr, widenToI64(f.b, expected), timeout}))
}

func (f *FunctionCompiler) lowerAtomic(sub wasm.OpcodeAtomic) error {
	switch sub {
	case wasm.OpcodeAtomicMemoryNotify:
		f.opAtomicNotify()
	case wasm.OpcodeAtomicMemoryWait32:
		f.opAtomicWait(false)
	case wasm.OpcodeAtomicMemoryWait64:
		f.opAtomicWait(true)
	case wasm.OpcodeAtomicFence:
		f.opAtomicFence()
	case wasm.OpcodeAtomicI32Load:
		f.opAtomicLoad(ir.I32, 4, ir.Type{})
	case wasm.OpcodeAtomicI64Load:
		f.opAtomicLoad(ir.I64, 8, ir.Type{})
	case wasm.OpcodeAtomicI32Load8U:
		f.opAtomicLoad(ir.I32, 1, ir.I8)
	case wasm.OpcodeAtomicI32Load16U:
		f.opAtomicLoad(ir.I32, 2, ir.I16)
	case wasm.OpcodeAtomicI64Load8U:
		f.opAtomicLoad(ir.I64, 1, ir.I8)
	case wasm.OpcodeAtomicI64Load16U:
		f.opAtomicLoad(ir.I64, 2, ir.I16)
	case wasm.OpcodeAtomicI64Load32U:
		f.opAtomicLoad(ir.I64, 4, ir.I32)
	case wasm.OpcodeAtomicI32Store:
		f.opAtomicStore(ir.I32, 4, ir.Type{})
	case wasm.OpcodeAtomicI64Store:
		f.opAtomicStore(ir.I64, 8, ir.Type{})
	case wasm.OpcodeAtomicI32Store8:
		f.opAtomicStore(ir.I32, 1, ir.I8)
	case wasm.OpcodeAtomicI32Store16:
		f.opAtomicStore(ir.I32, 2, ir.I16)
	case wasm.OpcodeAtomicI64Store8:
		f.opAtomicStore(ir.I64, 1, ir.I8)
	case wasm.OpcodeAtomicI64Store16:
		f.opAtomicStore(ir.I64, 2, ir.I16)
	case wasm.OpcodeAtomicI64Store32:
		f.opAtomicStore(ir.I64, 4, ir.I32)
	case wasm.OpcodeAtomicI32RmwAdd:
		f.opAtomicRMW(ir.I32, 4, ir.AtomicRMWAdd, ir.Type{})
	case wasm.OpcodeAtomicI64RmwAdd:
		f.opAtomicRMW(ir.I64, 8, ir.AtomicRMWAdd, ir.Type{})
	case wasm.OpcodeAtomicI32Rmw8AddU:
		f.opAtomicRMW(ir.I32, 1, ir.AtomicRMWAdd, ir.I8)
	case wasm.OpcodeAtomicI32Rmw16AddU:
		f.opAtomicRMW(ir.I32, 2, ir.AtomicRMWAdd, ir.I16)
	case wasm.OpcodeAtomicI64Rmw8AddU:
		f.opAtomicRMW(ir.I64, 1, ir.AtomicRMWAdd, ir.I8)
	case wasm.OpcodeAtomicI64Rmw16AddU:
		f.opAtomicRMW(ir.I64, 2, ir.AtomicRMWAdd, ir.I16)
	case wasm.OpcodeAtomicI64Rmw32AddU:
		f.opAtomicRMW(ir.I64, 4, ir.AtomicRMWAdd, ir.I32)
	case wasm.OpcodeAtomicI32RmwSub:
		f.opAtomicRMW(ir.I32, 4, ir.AtomicRMWSub, ir.Type{})
	case wasm.OpcodeAtomicI64RmwSub:
		f.opAtomicRMW(ir.I64, 8, ir.AtomicRMWSub, ir.Type{})
	case wasm.OpcodeAtomicI32Rmw8SubU:
		f.opAtomicRMW(ir.I32, 1, ir.AtomicRMWSub, ir.I8)
	case wasm.OpcodeAtomicI32Rmw16SubU:
		f.opAtomicRMW(ir.I32, 2, ir.AtomicRMWSub, ir.I16)
	case wasm.OpcodeAtomicI64Rmw8SubU:
		f.opAtomicRMW(ir.I64, 1, ir.AtomicRMWSub, ir.I8)
	case wasm.OpcodeAtomicI64Rmw16SubU:
		f.opAtomicRMW(ir.I64, 2, ir.AtomicRMWSub, ir.I16)
	case wasm.OpcodeAtomicI64Rmw32SubU:
		f.opAtomicRMW(ir.I64, 4, ir.AtomicRMWSub, ir.I32)
	case wasm.OpcodeAtomicI32RmwAnd:
		f.opAtomicRMW(ir.I32, 4, ir.AtomicRMWAnd, ir.Type{})
	case wasm.OpcodeAtomicI64RmwAnd:
		f.opAtomicRMW(ir.I64, 8, ir.AtomicRMWAnd, ir.Type{})
	case wasm.OpcodeAtomicI32Rmw8AndU:
		f.opAtomicRMW(ir.I32, 1, ir.AtomicRMWAnd, ir.I8)
	case wasm.OpcodeAtomicI32Rmw16AndU:
		f.opAtomicRMW(ir.I32, 2, ir.AtomicRMWAnd, ir.I16)
	case wasm.OpcodeAtomicI64Rmw8AndU:
		f.opAtomicRMW(ir.I64, 1, ir.AtomicRMWAnd, ir.I8)
	case wasm.OpcodeAtomicI64Rmw16AndU:
		f.opAtomicRMW(ir.I64, 2, ir.AtomicRMWAnd, ir.I16)
	case wasm.OpcodeAtomicI64Rmw32AndU:
		f.opAtomicRMW(ir.I64, 4, ir.AtomicRMWAnd, ir.I32)
	case wasm.OpcodeAtomicI32RmwOr:
		f.opAtomicRMW(ir.I32, 4, ir.AtomicRMWOr, ir.Type{})
	case wasm.OpcodeAtomicI64RmwOr:
		f.opAtomicRMW(ir.I64, 8, ir.AtomicRMWOr, ir.Type{})
	case wasm.OpcodeAtomicI32Rmw8OrU:
		f.opAtomicRMW(ir.I32, 1, ir.AtomicRMWOr, ir.I8)
	case wasm.OpcodeAtomicI32Rmw16OrU:
		f.opAtomicRMW(ir.I32, 2, ir.AtomicRMWOr, ir.I16)
	case wasm.OpcodeAtomicI64Rmw8OrU:
		f.opAtomicRMW(ir.I64, 1, ir.AtomicRMWOr, ir.I8)
	case wasm.OpcodeAtomicI64Rmw16OrU:
		f.opAtomicRMW(ir.I64, 2, ir.AtomicRMWOr, ir.I16)
	case wasm.OpcodeAtomicI64Rmw32OrU:
		f.opAtomicRMW(ir.I64, 4, ir.AtomicRMWOr, ir.I32)
	case wasm.OpcodeAtomicI32RmwXor:
		f.opAtomicRMW(ir.I32, 4, ir.AtomicRMWXor, ir.Type{})
	case wasm.OpcodeAtomicI64RmwXor:
		f.opAtomicRMW(ir.I64, 8, ir.AtomicRMWXor, ir.Type{})
	case wasm.OpcodeAtomicI32Rmw8XorU:
		f.opAtomicRMW(ir.I32, 1, ir.AtomicRMWXor, ir.I8)
	case wasm.OpcodeAtomicI32Rmw16XorU:
		f.opAtomicRMW(ir.I32, 2, ir.AtomicRMWXor, ir.I16)
	case wasm.OpcodeAtomicI64Rmw8XorU:
		f.opAtomicRMW(ir.I64, 1, ir.AtomicRMWXor, ir.I8)
	case wasm.OpcodeAtomicI64Rmw16XorU:
		f.opAtomicRMW(ir.I64, 2, ir.AtomicRMWXor, ir.I16)
	case wasm.OpcodeAtomicI64Rmw32XorU:
		f.opAtomicRMW(ir.I64, 4, ir.AtomicRMWXor, ir.I32)
	case wasm.OpcodeAtomicI32RmwXchg:
		f.opAtomicRMW(ir.I32, 4, ir.AtomicRMWXchg, ir.Type{})
	case wasm.OpcodeAtomicI64RmwXchg:
		f.opAtomicRMW(ir.I64, 8, ir.AtomicRMWXchg, ir.Type{})
	case wasm.OpcodeAtomicI32Rmw8XchgU:
		f.opAtomicRMW(ir.I32, 1, ir.AtomicRMWXchg, ir.I8)
	case wasm.OpcodeAtomicI32Rmw16XchgU:
		f.opAtomicRMW(ir.I32, 2, ir.AtomicRMWXchg, ir.I16)
	case wasm.OpcodeAtomicI64Rmw8XchgU:
		f.opAtomicRMW(ir.I64, 1, ir.AtomicRMWXchg, ir.I8)
	case wasm.OpcodeAtomicI64Rmw16XchgU:
		f.opAtomicRMW(ir.I64, 2, ir.AtomicRMWXchg, ir.I16)
	case wasm.OpcodeAtomicI64Rmw32XchgU:
		f.opAtomicRMW(ir.I64, 4, ir.AtomicRMWXchg, ir.I32)
	case wasm.OpcodeAtomicI32RmwCmpxchg:
		f.opAtomicCmpxchg(ir.I32, 4, ir.Type{})
	case wasm.OpcodeAtomicI64RmwCmpxchg:
		f.opAtomicCmpxchg(ir.I64, 8, ir.Type{})
	case wasm.OpcodeAtomicI32Rmw8CmpxchgU:
		f.opAtomicCmpxchg(ir.I32, 1, ir.I8)
	case wasm.OpcodeAtomicI32Rmw16CmpxchgU:
		f.opAtomicCmpxchg(ir.I32, 2, ir.I16)
	case wasm.OpcodeAtomicI64Rmw8CmpxchgU:
		f.opAtomicCmpxchg(ir.I64, 1, ir.I8)
	case wasm.OpcodeAtomicI64Rmw16CmpxchgU:
		f.opAtomicCmpxchg(ir.I64, 2, ir.I16)
	case wasm.OpcodeAtomicI64Rmw32CmpxchgU:
		f.opAtomicCmpxchg(ir.I64, 4, ir.I32)
	default:
		return errUnsupportedOpcode("atomic sub-opcode")
	}
	return nil
}
