// Package wasm holds the data-model contract this compiler consumes: the
// shape of an already-validated WebAssembly module. Parsing and validating
// the binary format is an external collaborator's job; this
// package only names the types the function compiler is handed.
package wasm

import "fmt"

// Index is a position in one of a module's index spaces (functions, types,
// globals, tables, memories, locals, labels).
type Index = uint32

// ValueType enumerates the WebAssembly value types a local, parameter,
// result, or stack operand can hold.
type ValueType byte

const (
	ValueTypeI32 ValueType = iota
	ValueTypeI64
	ValueTypeF32
	ValueTypeF64
	ValueTypeV128
	ValueTypeRef
	ValueTypeRefNull
)

// String implements fmt.Stringer.
func (v ValueType) String() string {
	switch v {
	case ValueTypeI32:
		return "i32"
	case ValueTypeI64:
		return "i64"
	case ValueTypeF32:
		return "f32"
	case ValueTypeF64:
		return "f64"
	case ValueTypeV128:
		return "v128"
	case ValueTypeRef:
		return "ref"
	case ValueTypeRefNull:
		return "refnull"
	default:
		return fmt.Sprintf("valuetype(%d)", byte(v))
	}
}

// HeapType identifies the concrete or abstract reference kind carried by a
// ValueTypeRef/ValueTypeRefNull value. Concrete heap types are composite-type
// indices (>= 0); abstract kinds use the negative sentinels below.
type HeapType int32

const (
	HeapTypeFunc HeapType = -1 - iota
	HeapTypeExtern
	HeapTypeAny
	HeapTypeEq
	HeapTypeI31
	HeapTypeStruct
	HeapTypeArray
	HeapTypeNoFunc
	HeapTypeNoExtern
	HeapTypeNone
)

// IsAbstract reports whether h names an abstract heap kind rather than a
// composite-type index.
func (h HeapType) IsAbstract() bool { return h < 0 }

// ValType pairs a ValueType with its HeapType when the value is a reference;
// HeapType is unused (zero value) for non-reference value types.
type ValType struct {
	Value ValueType
	Heap  HeapType
}

// I32, I64, F32, F64, V128 are the non-reference ValType constructors used
// pervasively when building function/block/struct/array signatures.
var (
	I32  = ValType{Value: ValueTypeI32}
	I64  = ValType{Value: ValueTypeI64}
	F32  = ValType{Value: ValueTypeF32}
	F64  = ValType{Value: ValueTypeF64}
	V128 = ValType{Value: ValueTypeV128}
)

// RefType builds a (possibly nullable) reference ValType over heap.
func RefType(heap HeapType, nullable bool) ValType {
	vt := ValueTypeRef
	if nullable {
		vt = ValueTypeRefNull
	}
	return ValType{Value: vt, Heap: heap}
}

// CompositeTypeKind distinguishes the three WebAssembly composite-type
// shapes.
type CompositeTypeKind byte

const (
	CompositeTypeKindFunc CompositeTypeKind = iota
	CompositeTypeKindStruct
	CompositeTypeKindArray
)

// FieldType is one struct/array field: a storage type (which may be a
// packed 8/16-bit integer storage narrower than any ValueType) plus
// mutability.
type FieldType struct {
	// StorageType is the value type as held in the stack/registers. Packed
	// is non-zero (8 or 16) when the field is physically stored narrower
	// than StorageType and must be sign/zero-extended on read.
	StorageType ValType
	Packed      byte
	Mutable     bool
}

// FunctionType is a composite type of kind Func: ordered parameter and
// result types.
type FunctionType struct {
	Params, Results []ValType
}

// CompositeType is a single type-section entry. Exactly one of Func/Fields is meaningful, selected by Kind.
type CompositeType struct {
	Kind CompositeTypeKind
	Func FunctionType
	// Fields holds struct/array field descriptors. For CompositeTypeKindArray
	// this always has exactly one entry.
	Fields []FieldType
	// SameAs, when >= 0, names an earlier type index with the identical
	// structural signature; compilation must alias wrapper/callee
	// generation to that index rather than emitting a duplicate.
	SameAs int32
}

// BlockTypeKind distinguishes the three shapes a structured-control block
// type can take.
type BlockTypeKind byte

const (
	BlockTypeKindEmpty BlockTypeKind = iota
	BlockTypeKindSingleResult
	BlockTypeKindFuncTypeIndex
)

// BlockType resolves to a parameter/result pair.
type BlockType struct {
	Kind       BlockTypeKind
	ResultType ValType // meaningful iff Kind == BlockTypeKindSingleResult
	TypeIndex  Index   // meaningful iff Kind == BlockTypeKindFuncTypeIndex
}
