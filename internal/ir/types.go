// Package ir is the IR Builder façade: a thin, typed-handle wrapper that
// stands in for the LLVM C API (Context, Module, Builder, Type, Value,
// BasicBlock) — typed handles over an instruction graph, but with a type
// and instruction vocabulary that matches LLVM IR concepts rather than a
// custom SSA dialect, because the function compiler built on top of it
// must produce something an LLVM backend can consume.
package ir

import "fmt"

// TypeKind enumerates the LLVM type shapes this façade exposes. Every
// WebAssembly value type maps to exactly one of these.
type TypeKind byte

const (
	TypeKindVoid TypeKind = iota
	TypeKindInt
	TypeKindFloat
	TypeKindVector
	TypeKindPointer
	TypeKindStruct
	TypeKindFunction
)

// Type is an opaque handle, mirroring LLVMTypeRef. It holds a slice, so it
// is not comparable with ==; compare types with Equal.
type Type struct {
	k TypeKind
	// IntWidth is meaningful iff k == TypeKindInt.
	IntWidth int
	// FloatIsDouble is meaningful iff k == TypeKindFloat (false == f32).
	FloatIsDouble bool
	// VecElem/VecLanes are meaningful iff k == TypeKindVector.
	VecElem  *Type
	VecLanes int
	// fields holds struct-type field types; meaningful iff k == TypeKindStruct.
	fields []Type
	// sig holds function parameter/result types; meaningful iff k == TypeKindFunction.
	sig *Signature
}

func (t Type) Kind() TypeKind { return t.k }

func (t Type) String() string {
	switch t.k {
	case TypeKindVoid:
		return "void"
	case TypeKindInt:
		return fmt.Sprintf("i%d", t.IntWidth)
	case TypeKindFloat:
		if t.FloatIsDouble {
			return "f64"
		}
		return "f32"
	case TypeKindVector:
		return fmt.Sprintf("<%d x %s>", t.VecLanes, t.VecElem.String())
	case TypeKindPointer:
		return "ptr"
	case TypeKindStruct:
		return "struct"
	case TypeKindFunction:
		return "function"
	default:
		return "unknown"
	}
}

// Equal reports whether two type handles describe the identical LLVM type.
// Struct types are compared field by field; function types are equal only
// when they share the same *Signature.
func (t Type) Equal(o Type) bool {
	if t.k != o.k {
		return false
	}
	switch t.k {
	case TypeKindInt:
		return t.IntWidth == o.IntWidth
	case TypeKindFloat:
		return t.FloatIsDouble == o.FloatIsDouble
	case TypeKindVector:
		return t.VecLanes == o.VecLanes && t.VecElem.Equal(*o.VecElem)
	case TypeKindStruct:
		if len(t.fields) != len(o.fields) {
			return false
		}
		for i := range t.fields {
			if !t.fields[i].Equal(o.fields[i]) {
				return false
			}
		}
		return true
	case TypeKindFunction:
		return t.sig == o.sig
	default:
		return true
	}
}

var (
	// VoidType is the LLVM void type, used for store/ret-void/branches.
	VoidType = Type{k: TypeKindVoid}
	I1       = Type{k: TypeKindInt, IntWidth: 1}
	I8       = Type{k: TypeKindInt, IntWidth: 8}
	I16      = Type{k: TypeKindInt, IntWidth: 16}
	I32      = Type{k: TypeKindInt, IntWidth: 32}
	I64      = Type{k: TypeKindInt, IntWidth: 64}
	I128     = Type{k: TypeKindInt, IntWidth: 128}
	F32      = Type{k: TypeKindFloat, FloatIsDouble: false}
	F64      = Type{k: TypeKindFloat, FloatIsDouble: true}
	PtrType  = Type{k: TypeKindPointer}

	// V128 is the canonical on-stack vector shape every SIMD value is
	// bitcast to/from.
	V128 = Type{k: TypeKindVector, VecElem: &I64, VecLanes: 2}
	// RefRepr is the canonical 2xi64 reference representation.
	RefRepr = V128
)

// IntType returns the integer type of the given bit width, interning the
// common widths.
func IntType(width int) Type {
	switch width {
	case 1:
		return I1
	case 8:
		return I8
	case 16:
		return I16
	case 32:
		return I32
	case 64:
		return I64
	case 128:
		return I128
	default:
		return Type{k: TypeKindInt, IntWidth: width}
	}
}

// VectorType returns the <lanes x elem> vector type; the canonical shape
// for each lane width is named by the I8x16 ... I128x1 constants below.
func VectorType(elem Type, lanes int) Type {
	e := elem
	return Type{k: TypeKindVector, VecElem: &e, VecLanes: lanes}
}

// StructType returns an LLVM-style struct type over the given field types,
// used for multi-value function returns.
func StructType(fields ...Type) Type {
	return Type{k: TypeKindStruct, fields: fields}
}

// Fields returns a struct type's field types.
func (t Type) Fields() []Type { return t.fields }

// Canonical vector shapes for each SIMD lane width.
var (
	I8x16  = VectorType(I8, 16)
	I16x8  = VectorType(I16, 8)
	I32x4  = VectorType(I32, 4)
	I64x2  = VectorType(I64, 2)
	F32x4  = VectorType(F32, 4)
	F64x2  = VectorType(F64, 2)
	I128x1 = VectorType(I128, 1)
)

// Signature is a function type: parameter types in order, followed by
// result types. By convention of this façade (and per Execution
// Context), index 0 is always the execution-context pointer.
type Signature struct {
	ID      int
	Params  []Type
	Results []Type
}

// ResultType collapses a signature's results into the single LLVM return
// type the function must declare: void for none, the lone type for one,
// or a struct type aggregating all of them.
func (s *Signature) ResultType() Type {
	switch len(s.Results) {
	case 0:
		return VoidType
	case 1:
		return s.Results[0]
	default:
		return StructType(s.Results...)
	}
}

// FunctionType returns the Type handle describing this signature, for use
// wherever a function-pointer type is needed (e.g. call_indirect targets).
func (s *Signature) FunctionType() Type {
	return Type{k: TypeKindFunction, sig: s}
}
