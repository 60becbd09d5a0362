package llvmaot

import (
	"github.com/wasm2llvm/wasm2llvm/internal/ir"
	"github.com/wasm2llvm/wasm2llvm/internal/wasm"
)

// CompileResult is the compilation artefact returned to the caller: the IR
// context and populated module, ready to be handed to a downstream
// optimizer and object emitter this package doesn't itself drive, plus
// the aggregated telemetry every function compile contributed to.
type CompileResult struct {
	IRCtx *ir.Context
	IR    *ir.Module

	FunctionStats []CompileStats
}

// CompileModule runs the module-level entry point in dependency order:
// build the Compile Context, emit the wrapper and import-thunk set, then
// compile every module-defined function body in function-index order.
// The compile context's lock is held for the entire call, honouring its
// single-threaded-cooperative scheduling model.
func CompileModule(m *wasm.Module, cfg Config) (*CompileResult, error) {
	cc, err := NewCompileContext(m, cfg)
	if err != nil {
		return nil, err
	}
	cc.Lock()
	defer cc.Unlock()

	cc.EmitWrappers()
	cc.EmitImportThunks()

	res := &CompileResult{
		IRCtx:         cc.IRCtx,
		IR:            cc.IR,
		FunctionStats: make([]CompileStats, 0, len(m.CodeSection)),
	}

	for i := range m.CodeSection {
		funcIdx := m.ImportFunctionCount + wasm.Index(i)
		code := &m.CodeSection[i]
		typeIdx := m.FunctionSection[i]
		wft := &m.TypeSection[typeIdx].Func
		sig := cc.SignatureOf(typeIdx)

		fc := NewFunctionCompiler(cc, compiledFuncName(funcIdx), sig, wft, code.LocalTypes, code.Body,
			cfg.Interruptible, cfg.InstructionCounting, cfg.CostMeasuring)
		_, stats, err := fc.Compile()
		if err != nil {
			return nil, err
		}
		res.FunctionStats = append(res.FunctionStats, stats)
	}

	return res, nil
}
