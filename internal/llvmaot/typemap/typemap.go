// Package typemap shapes WebAssembly value and function types into the
// internal/ir type vocabulary. Every function signature this package
// produces has the Execution Context pointer prepended as parameter 0;
// the Execution Context record carries everything a compiled function
// needs from its host, so exactly one pointer is prepended here rather
// than splitting host state across several leading parameters.
package typemap

import (
	"github.com/wasm2llvm/wasm2llvm/internal/ir"
	"github.com/wasm2llvm/wasm2llvm/internal/wasm"
)

// ExecCtxType is the LLVM type of the Execution Context pointer every
// compiled function receives as its first parameter.
var ExecCtxType = ir.PtrType

// WasmTypeToIRType maps a single WebAssembly value type to its LLVM
// representation: integers to their bit-width integer type, floats to
// native IEEE, every reference type to the canonical 2x i64 vector.
func WasmTypeToIRType(vt wasm.ValType) ir.Type {
	switch vt.Value {
	case wasm.ValueTypeI32:
		return ir.I32
	case wasm.ValueTypeI64:
		return ir.I64
	case wasm.ValueTypeF32:
		return ir.F32
	case wasm.ValueTypeF64:
		return ir.F64
	case wasm.ValueTypeV128:
		return ir.V128
	case wasm.ValueTypeRef, wasm.ValueTypeRefNull:
		return ir.RefRepr
	default:
		panic("typemap: unhandled wasm value type")
	}
}

// WasmTypesToIRTypes maps a slice of WebAssembly value types in order.
func WasmTypesToIRTypes(vts []wasm.ValType) []ir.Type {
	out := make([]ir.Type, len(vts))
	for i, vt := range vts {
		out[i] = WasmTypeToIRType(vt)
	}
	return out
}

// SignatureForFunctionType builds the ir.Signature for a Wasm function
// type, prepending the Execution Context pointer parameter.
func SignatureForFunctionType(id int, typ *wasm.FunctionType) *ir.Signature {
	params := make([]ir.Type, 0, len(typ.Params)+1)
	params = append(params, ExecCtxType)
	params = append(params, WasmTypesToIRTypes(typ.Params)...)
	return &ir.Signature{
		ID:      id,
		Params:  params,
		Results: WasmTypesToIRTypes(typ.Results),
	}
}

// BlockTypeParamsResults resolves a Block Type into its parameter and
// result value-type vectors: empty
// block types yield no params/results, a single-result block type yields
// one result, and a type-index block type derefs into the module's
// composite-type table.
func BlockTypeParamsResults(m *wasm.Module, bt wasm.BlockType) (params, results []wasm.ValType) {
	switch bt.Kind {
	case wasm.BlockTypeKindEmpty:
		return nil, nil
	case wasm.BlockTypeKindSingleResult:
		return nil, []wasm.ValType{bt.ResultType}
	case wasm.BlockTypeKindFuncTypeIndex:
		ct := &m.TypeSection[bt.TypeIndex]
		return ct.Func.Params, ct.Func.Results
	default:
		panic("typemap: unhandled block type kind")
	}
}
