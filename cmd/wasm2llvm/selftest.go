package main

import (
	"github.com/spf13/cobra"

	"github.com/wasm2llvm/wasm2llvm/internal/llvmaot"
	"github.com/wasm2llvm/wasm2llvm/internal/llvmaot/config"
	"github.com/wasm2llvm/wasm2llvm/internal/llvmaot/telemetry"
	"github.com/wasm2llvm/wasm2llvm/internal/wasm"
)

// newSelftestCommand builds the `selftest` subcommand: it assembles a
// "plain add" scenario, a function (i32,i32)->i32 computed as
// local.get 0; local.get 1; i32.add; end, entirely in memory, and
// drives it through the real compile pipeline, the same path `compile`
// would take once fed an externally-decoded module. Useful as a smoke
// test that the IR Builder façade, Compile Context, and Function
// Compiler are wired together correctly without requiring a binary
// decoder this core doesn't own.
func newSelftestCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "selftest",
		Short: "Compile a plain-add scenario and report its telemetry",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.FromFlags(cmd)
			if err != nil {
				return err
			}
			lg := telemetry.Default()

			m := plainAddModule()
			res, err := llvmaot.CompileModule(m, cfg)
			if err != nil {
				return err
			}

			var totalBlocks, totalTraps, totalFallbacks int
			for i, s := range res.FunctionStats {
				lg.LogFunctionCompiled(telemetry.CompileStats{
					FunctionIndex:    uint32(i),
					Blocks:           s.Blocks,
					TrapBlocks:       s.TrapBlocks,
					Instructions:     s.Instructions,
					SIMDFallbackUses: s.SIMDFallbackUses,
				})
				totalBlocks += s.Blocks
				totalTraps += s.TrapBlocks
				totalFallbacks += s.SIMDFallbackUses
			}
			lg.LogModuleCompiled(len(res.FunctionStats), totalBlocks, totalTraps, totalFallbacks)
			return nil
		},
	}
	config.RegisterFlags(cmd)
	return cmd
}

// plainAddModule builds the minimal pre-validated module the "plain add"
// scenario above describes.
func plainAddModule() *wasm.Module {
	body := []byte{
		byte(wasm.OpcodeLocalGet), 0x00,
		byte(wasm.OpcodeLocalGet), 0x01,
		byte(wasm.OpcodeI32Add),
		byte(wasm.OpcodeEnd),
	}
	return &wasm.Module{
		TypeSection: []wasm.CompositeType{
			{Kind: wasm.CompositeTypeKindFunc, Func: wasm.FunctionType{
				Params:  []wasm.ValType{wasm.I32, wasm.I32},
				Results: []wasm.ValType{wasm.I32},
			}, SameAs: -1},
		},
		FunctionSection: []wasm.Index{0},
		CodeSection:     []wasm.Code{{Body: body}},
	}
}
