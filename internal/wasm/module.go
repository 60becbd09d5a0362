package wasm

// Module is a pre-validated WebAssembly module, decomposed into its
// sections. The core never re-validates these; a
// module handed to the compiler that violates a structural invariant is a
// caller bug, not a recoverable error.
//
// Section layout and index-space conventions follow the WebAssembly core
// specification: the function, global, table, and memory index spaces
// each begin with imports and continue with module-defined entries.
type Module struct {
	// TypeSection holds every composite type (function, struct, or array)
	// this module declares, indexed by type index.
	TypeSection []CompositeType

	ImportSection []Import

	// FunctionSection[i] is the type index of the i-th module-defined
	// function; its body lives at CodeSection[i].
	FunctionSection []Index
	CodeSection     []Code

	GlobalSection []Global

	TableSection  []TableType
	MemorySection []MemoryType

	ExportSection []Export

	ElementSection []ElementSegment
	DataSection    []DataSegment

	StartSection *Index

	// ImportFunctionCount, ImportGlobalCount, ImportMemoryCount,
	// ImportTableCount cache the number of each import kind so that
	// index-space arithmetic (e.g. "is this function index an import")
	// doesn't require rescanning ImportSection.
	ImportFunctionCount, ImportGlobalCount, ImportMemoryCount, ImportTableCount Index
}

// TypeOf returns the composite type a module-defined function (by its
// position in FunctionSection) was declared with.
func (m *Module) TypeOf(funcSectionIndex Index) *CompositeType {
	return &m.TypeSection[m.FunctionSection[funcSectionIndex]]
}

// ExternType enumerates the four importable/exportable external kinds.
type ExternType byte

const (
	ExternTypeFunc ExternType = iota
	ExternTypeTable
	ExternTypeMemory
	ExternTypeGlobal
)

// Import is one entry of the import section.
type Import struct {
	Module, Name string
	Type         ExternType

	DescFunc   Index // valid iff Type == ExternTypeFunc: a type index.
	DescTable  TableType
	DescMemory MemoryType
	DescGlobal GlobalType
}

// Export is one entry of the export section.
type Export struct {
	Name  string
	Type  ExternType
	Index Index
}

// GlobalType describes a global's value type and mutability.
type GlobalType struct {
	ValType ValType
	Mutable bool
}

// Global is a module-defined global: its type plus an init expression,
// represented here as the already-decoded constant instruction stream
// (opcode + immediate bytes, terminated by OpcodeEnd) since constant-
// expression evaluation is part of module-level setup and out of scope
// for the function compiler.
type Global struct {
	Type GlobalType
	Init []byte
}

// TableType describes a table's element reference type and size limits.
type TableType struct {
	ElemType ValType
	Min      uint32
	Max      uint32 // meaningful iff HasMax.
	HasMax   bool
}

// MemoryType describes a linear memory's size limits, in pages.
type MemoryType struct {
	Min, Max uint32
	HasMax   bool
	Shared   bool
	Is64     bool
}

// ElementSegment and DataSegment are module-level setup concerns named here only so Module is a complete record of a
// decoded module; the function compiler never reads them directly.
type ElementSegment struct {
	TableIndex Index
	Init       []Index
}

type DataSegment struct {
	MemoryIndex Index
	Offset      []byte
	Init        []byte
}

// Code is one function's locals declaration and body, index-correlated
// with FunctionSection.
type Code struct {
	LocalTypes []ValType
	Body       []byte
}
