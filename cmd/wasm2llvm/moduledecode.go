package main

import (
	"encoding/hex"
	"encoding/json"
	"fmt"

	"github.com/wasm2llvm/wasm2llvm/internal/wasm"
)

// jsonModule is the on-disk shape `compile` accepts in place of a real
// binary decoder: a pre-validated module expressed as JSON, with function
// bodies given as hex-encoded opcode streams. A real embedder skips this
// entirely and calls llvmaot.CompileModule with an already-decoded
// *wasm.Module.
type jsonModule struct {
	Types     []jsonFuncType `json:"types"`
	Imports   []jsonImport   `json:"imports"`
	Functions []jsonFunction `json:"functions"`
	Globals   []jsonGlobal   `json:"globals"`
	Tables    []jsonTable    `json:"tables"`
	Memories  []jsonMemory   `json:"memories"`
	Exports   []jsonExport   `json:"exports"`
	Start     *wasm.Index    `json:"start,omitempty"`
}

type jsonFuncType struct {
	Params  []string `json:"params"`
	Results []string `json:"results"`
}

type jsonImport struct {
	Module string `json:"module"`
	Name   string `json:"name"`
	Type   string `json:"type"` // "func", "table", "memory", "global"

	DescFunc   *wasm.Index `json:"desc_func,omitempty"`
	DescTable  *jsonTable  `json:"desc_table,omitempty"`
	DescMemory *jsonMemory `json:"desc_memory,omitempty"`
	DescGlobal *jsonGlobal `json:"desc_global,omitempty"`
}

type jsonFunction struct {
	Type   wasm.Index `json:"type"`
	Locals []string   `json:"locals"`
	Body   string     `json:"body"` // hex-encoded opcode stream
}

type jsonGlobal struct {
	ValType string `json:"value_type"`
	Mutable bool   `json:"mutable"`
	Init    string `json:"init"` // hex-encoded constant-expr opcode stream
}

type jsonTable struct {
	ElemType string `json:"elem_type"`
	Min      uint32 `json:"min"`
	Max      uint32 `json:"max"`
	HasMax   bool   `json:"has_max"`
}

type jsonMemory struct {
	Min    uint32 `json:"min"`
	Max    uint32 `json:"max"`
	HasMax bool   `json:"has_max"`
	Shared bool   `json:"shared"`
	Is64   bool   `json:"is64"`
}

type jsonExport struct {
	Name  string     `json:"name"`
	Type  string     `json:"type"`
	Index wasm.Index `json:"index"`
}

// decodeModuleJSON parses raw into a *wasm.Module, the same shape a real
// binary decoder would hand the compiler.
func decodeModuleJSON(raw []byte) (*wasm.Module, error) {
	var jm jsonModule
	if err := json.Unmarshal(raw, &jm); err != nil {
		return nil, fmt.Errorf("decode module json: %w", err)
	}

	m := &wasm.Module{
		StartSection: jm.Start,
	}

	for _, t := range jm.Types {
		params, err := parseValTypes(t.Params)
		if err != nil {
			return nil, fmt.Errorf("type %d params: %w", len(m.TypeSection), err)
		}
		results, err := parseValTypes(t.Results)
		if err != nil {
			return nil, fmt.Errorf("type %d results: %w", len(m.TypeSection), err)
		}
		m.TypeSection = append(m.TypeSection, wasm.CompositeType{
			Kind:   wasm.CompositeTypeKindFunc,
			Func:   wasm.FunctionType{Params: params, Results: results},
			SameAs: -1,
		})
	}

	for i, imp := range jm.Imports {
		decoded, err := decodeImport(imp)
		if err != nil {
			return nil, fmt.Errorf("import %d: %w", i, err)
		}
		switch decoded.Type {
		case wasm.ExternTypeFunc:
			m.ImportFunctionCount++
		case wasm.ExternTypeTable:
			m.ImportTableCount++
		case wasm.ExternTypeMemory:
			m.ImportMemoryCount++
		case wasm.ExternTypeGlobal:
			m.ImportGlobalCount++
		}
		m.ImportSection = append(m.ImportSection, decoded)
	}

	for i, fn := range jm.Functions {
		locals, err := parseValTypes(fn.Locals)
		if err != nil {
			return nil, fmt.Errorf("function %d locals: %w", i, err)
		}
		body, err := hex.DecodeString(fn.Body)
		if err != nil {
			return nil, fmt.Errorf("function %d body: %w", i, err)
		}
		m.FunctionSection = append(m.FunctionSection, fn.Type)
		m.CodeSection = append(m.CodeSection, wasm.Code{LocalTypes: locals, Body: body})
	}

	for i, g := range jm.Globals {
		vt, err := parseValType(g.ValType)
		if err != nil {
			return nil, fmt.Errorf("global %d: %w", i, err)
		}
		init, err := hex.DecodeString(g.Init)
		if err != nil {
			return nil, fmt.Errorf("global %d init: %w", i, err)
		}
		m.GlobalSection = append(m.GlobalSection, wasm.Global{
			Type: wasm.GlobalType{ValType: vt, Mutable: g.Mutable},
			Init: init,
		})
	}

	for i, t := range jm.Tables {
		decoded, err := decodeTable(t)
		if err != nil {
			return nil, fmt.Errorf("table %d: %w", i, err)
		}
		m.TableSection = append(m.TableSection, decoded)
	}

	for _, mem := range jm.Memories {
		m.MemorySection = append(m.MemorySection, wasm.MemoryType{
			Min: mem.Min, Max: mem.Max, HasMax: mem.HasMax, Shared: mem.Shared, Is64: mem.Is64,
		})
	}

	for i, e := range jm.Exports {
		et, err := parseExternType(e.Type)
		if err != nil {
			return nil, fmt.Errorf("export %d: %w", i, err)
		}
		m.ExportSection = append(m.ExportSection, wasm.Export{Name: e.Name, Type: et, Index: e.Index})
	}

	return m, nil
}

func decodeImport(imp jsonImport) (wasm.Import, error) {
	et, err := parseExternType(imp.Type)
	if err != nil {
		return wasm.Import{}, err
	}
	out := wasm.Import{Module: imp.Module, Name: imp.Name, Type: et}
	switch et {
	case wasm.ExternTypeFunc:
		if imp.DescFunc == nil {
			return wasm.Import{}, fmt.Errorf("func import missing desc_func")
		}
		out.DescFunc = *imp.DescFunc
	case wasm.ExternTypeTable:
		if imp.DescTable == nil {
			return wasm.Import{}, fmt.Errorf("table import missing desc_table")
		}
		t, err := decodeTable(*imp.DescTable)
		if err != nil {
			return wasm.Import{}, err
		}
		out.DescTable = t
	case wasm.ExternTypeMemory:
		if imp.DescMemory == nil {
			return wasm.Import{}, fmt.Errorf("memory import missing desc_memory")
		}
		out.DescMemory = wasm.MemoryType{
			Min: imp.DescMemory.Min, Max: imp.DescMemory.Max,
			HasMax: imp.DescMemory.HasMax, Shared: imp.DescMemory.Shared, Is64: imp.DescMemory.Is64,
		}
	case wasm.ExternTypeGlobal:
		if imp.DescGlobal == nil {
			return wasm.Import{}, fmt.Errorf("global import missing desc_global")
		}
		vt, err := parseValType(imp.DescGlobal.ValType)
		if err != nil {
			return wasm.Import{}, err
		}
		out.DescGlobal = wasm.GlobalType{ValType: vt, Mutable: imp.DescGlobal.Mutable}
	}
	return out, nil
}

func decodeTable(t jsonTable) (wasm.TableType, error) {
	vt, err := parseValType(t.ElemType)
	if err != nil {
		return wasm.TableType{}, err
	}
	return wasm.TableType{ElemType: vt, Min: t.Min, Max: t.Max, HasMax: t.HasMax}, nil
}

func parseExternType(s string) (wasm.ExternType, error) {
	switch s {
	case "func":
		return wasm.ExternTypeFunc, nil
	case "table":
		return wasm.ExternTypeTable, nil
	case "memory":
		return wasm.ExternTypeMemory, nil
	case "global":
		return wasm.ExternTypeGlobal, nil
	default:
		return 0, fmt.Errorf("unknown extern type %q", s)
	}
}

func parseValTypes(ss []string) ([]wasm.ValType, error) {
	if len(ss) == 0 {
		return nil, nil
	}
	out := make([]wasm.ValType, len(ss))
	for i, s := range ss {
		vt, err := parseValType(s)
		if err != nil {
			return nil, err
		}
		out[i] = vt
	}
	return out, nil
}

// parseValType recognizes the scalar value types plus the abstract
// reference type names a module description can realistically need
// without also describing its own struct/array type section entries.
func parseValType(s string) (wasm.ValType, error) {
	switch s {
	case "i32":
		return wasm.I32, nil
	case "i64":
		return wasm.I64, nil
	case "f32":
		return wasm.F32, nil
	case "f64":
		return wasm.F64, nil
	case "v128":
		return wasm.V128, nil
	case "funcref":
		return wasm.RefType(wasm.HeapTypeFunc, true), nil
	case "externref":
		return wasm.RefType(wasm.HeapTypeExtern, true), nil
	case "anyref":
		return wasm.RefType(wasm.HeapTypeAny, true), nil
	case "eqref":
		return wasm.RefType(wasm.HeapTypeEq, true), nil
	case "i31ref":
		return wasm.RefType(wasm.HeapTypeI31, true), nil
	case "structref":
		return wasm.RefType(wasm.HeapTypeStruct, true), nil
	case "arrayref":
		return wasm.RefType(wasm.HeapTypeArray, true), nil
	case "nullfuncref":
		return wasm.RefType(wasm.HeapTypeNoFunc, true), nil
	case "nullexternref":
		return wasm.RefType(wasm.HeapTypeNoExtern, true), nil
	case "nullref":
		return wasm.RefType(wasm.HeapTypeNone, true), nil
	default:
		return wasm.ValType{}, fmt.Errorf("unknown value type %q", s)
	}
}
