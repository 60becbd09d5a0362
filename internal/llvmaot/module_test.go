package llvmaot

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/wasm2llvm/wasm2llvm/internal/ir"
	"github.com/wasm2llvm/wasm2llvm/internal/wasm"
)

// buildModule assembles a minimal pre-validated module with a single
// function type and the given bodies, mirroring the shape a real decoder
// would hand the compiler.
func buildModule(t *testing.T, sig wasm.FunctionType, locals []wasm.ValType, body []byte) *wasm.Module {
	t.Helper()
	return &wasm.Module{
		TypeSection: []wasm.CompositeType{
			{Kind: wasm.CompositeTypeKindFunc, Func: sig, SameAs: -1},
		},
		FunctionSection: []wasm.Index{0},
		CodeSection: []wasm.Code{
			{LocalTypes: locals, Body: body},
		},
	}
}

// TestCompileModule_PlainAdd covers a plain-add scenario: a function
// (i32, i32) -> i32 computed as local.get 0; local.get 1; i32.add; end.
func TestCompileModule_PlainAdd(t *testing.T) {
	body := []byte{
		byte(wasm.OpcodeLocalGet), 0x00,
		byte(wasm.OpcodeLocalGet), 0x01,
		byte(wasm.OpcodeI32Add),
		byte(wasm.OpcodeEnd),
	}
	m := buildModule(t, wasm.FunctionType{Params: []wasm.ValType{wasm.I32, wasm.I32}, Results: []wasm.ValType{wasm.I32}}, nil, body)

	res, err := CompileModule(m, Config{OptimizationLevel: "O2"})
	require.NoError(t, err)
	require.Len(t, res.FunctionStats, 1)

	fn := res.IR.Functions[len(res.IR.Functions)-1]
	require.Equal(t, "wasm_func_0", fn.Name)
	assertEveryBlockHasExactlyOneTerminator(t, fn)
}

// TestCompileModule_LoopSum covers a loop-sum scenario's structural
// shape: a loop with a conditional back-edge, summing down from n.
func TestCompileModule_LoopSum(t *testing.T) {
	// locals: 0=n (param), 1=sum
	// loop:
	//   block $exit
	//     loop $continue
	//       local.get 0
	//       i32.eqz
	//       br_if $exit      ; depth 1 from inside loop = exit the block
	//       local.get 1
	//       local.get 0
	//       i32.add
	//       local.set 1
	//       local.get 0
	//       i32.const 1
	//       i32.sub
	//       local.set 0
	//       br $continue      ; depth 0
	//     end
	//   end
	//   local.get 1
	//   end
	body := []byte{
		byte(wasm.OpcodeBlock), 0x40,
		byte(wasm.OpcodeLoop), 0x40,
		byte(wasm.OpcodeLocalGet), 0x00,
		byte(wasm.OpcodeI32Eqz),
		byte(wasm.OpcodeBrIf), 0x01,
		byte(wasm.OpcodeLocalGet), 0x01,
		byte(wasm.OpcodeLocalGet), 0x00,
		byte(wasm.OpcodeI32Add),
		byte(wasm.OpcodeLocalSet), 0x01,
		byte(wasm.OpcodeLocalGet), 0x00,
		byte(wasm.OpcodeI32Const), 0x01,
		byte(wasm.OpcodeI32Sub),
		byte(wasm.OpcodeLocalSet), 0x00,
		byte(wasm.OpcodeBr), 0x00,
		byte(wasm.OpcodeEnd), // end loop
		byte(wasm.OpcodeEnd), // end block
		byte(wasm.OpcodeLocalGet), 0x01,
		byte(wasm.OpcodeEnd), // end function
	}
	m := buildModule(t, wasm.FunctionType{Params: []wasm.ValType{wasm.I32}, Results: []wasm.ValType{wasm.I32}}, []wasm.ValType{wasm.I32}, body)

	res, err := CompileModule(m, Config{OptimizationLevel: "O2", CostMeasuring: true})
	require.NoError(t, err)
	require.Len(t, res.FunctionStats, 1)

	fn := res.IR.Functions[len(res.IR.Functions)-1]
	assertEveryBlockHasExactlyOneTerminator(t, fn)
	// Every block (including the synthetic return and trap blocks) is
	// exercised; none should be left dangling without a predecessor check.
	require.Greater(t, len(fn.Blocks()), 1)

	// Gas is checked at the loop header, not only at return, so a gas
	// limit of 10 can trip CostLimitExceeded mid-loop instead of only
	// after the loop has already run to completion.
	require.True(t, hasBlockNamed(fn, "trap_CostLimitExceeded"))
}

func hasBlockNamed(fn *ir.Function, name string) bool {
	for _, bb := range fn.Blocks() {
		if bb.Name() == name {
			return true
		}
	}
	return false
}

// TestCompileModule_DivisionTraps covers a division-traps scenario: the
// function's lowering must materialise both DivideByZero and
// IntegerOverflow trap blocks even though neither path is taken at
// compile time.
func TestCompileModule_DivisionTraps(t *testing.T) {
	body := []byte{
		byte(wasm.OpcodeLocalGet), 0x00,
		byte(wasm.OpcodeLocalGet), 0x01,
		byte(wasm.OpcodeI32DivS),
		byte(wasm.OpcodeEnd),
	}
	m := buildModule(t, wasm.FunctionType{Params: []wasm.ValType{wasm.I32, wasm.I32}, Results: []wasm.ValType{wasm.I32}}, nil, body)

	res, err := CompileModule(m, Config{OptimizationLevel: "O0"})
	require.NoError(t, err)

	fn := res.IR.Functions[len(res.IR.Functions)-1]
	assertEveryBlockHasExactlyOneTerminator(t, fn)

	require.True(t, hasBlockNamed(fn, "trap_DivideByZero"), "expected a lazily-materialised DivideByZero trap block")
	require.True(t, hasBlockNamed(fn, "trap_IntegerOverflow"), "expected a lazily-materialised IntegerOverflow trap block")
}

// TestCompileModule_DuplicateSignaturesShareWrapper exercises the
// "duplicate signatures share a single wrapper" invariant end to end.
func TestCompileModule_DuplicateSignaturesShareWrapper(t *testing.T) {
	sig := wasm.FunctionType{Params: []wasm.ValType{wasm.I32}, Results: []wasm.ValType{wasm.I32}}
	m := &wasm.Module{
		TypeSection: []wasm.CompositeType{
			{Kind: wasm.CompositeTypeKindFunc, Func: sig, SameAs: -1},
			{Kind: wasm.CompositeTypeKindFunc, Func: sig, SameAs: 0},
		},
		FunctionSection: []wasm.Index{0, 1},
		CodeSection: []wasm.Code{
			{Body: []byte{byte(wasm.OpcodeLocalGet), 0x00, byte(wasm.OpcodeEnd)}},
			{Body: []byte{byte(wasm.OpcodeLocalGet), 0x00, byte(wasm.OpcodeEnd)}},
		},
	}

	res, err := CompileModule(m, Config{})
	require.NoError(t, err)
	require.Len(t, res.FunctionStats, 2)

	var wrapperCount int
	for _, fn := range res.IR.Functions {
		if fn.Name == "t0" || fn.Name == "t1" {
			wrapperCount++
		}
	}
	// Only t0 is materialised; t1 aliases it rather than emitting its own body.
	require.Equal(t, 1, wrapperCount)
}

// assertEveryBlockHasExactlyOneTerminator checks structural
// invariant: "Every basic block emitted ends with exactly one terminator."
func assertEveryBlockHasExactlyOneTerminator(t *testing.T, fn *ir.Function) {
	t.Helper()
	for _, bb := range fn.Blocks() {
		require.True(t, bb.Terminated(), "block %s has no terminator", bb.Name())
	}
}
