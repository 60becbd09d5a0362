package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/wasm2llvm/wasm2llvm/internal/llvmaot"
	"github.com/wasm2llvm/wasm2llvm/internal/llvmaot/config"
	"github.com/wasm2llvm/wasm2llvm/internal/llvmaot/telemetry"
)

// newCompileCommand builds the `compile <module.json>` subcommand. Binary
// decoding and validation of a real Wasm binary are an external
// collaborator's job — this core only ever receives an already-decoded
// *wasm.Module — so the CLI meets that contract halfway with a JSON
// stand-in module description (see decodeModuleJSON) rather than a real
// binary decoder this repository doesn't own.
func newCompileCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "compile <module.json>",
		Short: "Compile a JSON-described pre-validated module's function bodies to LLVM IR",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.FromFlags(cmd)
			if err != nil {
				return err
			}
			lg := telemetry.Default()
			lg.Infof("resolved config: opt=%s generic=%v interruptible=%v instr_counting=%v cost_measuring=%v",
				cfg.OptimizationLevel, cfg.IsGenericBinary, cfg.Interruptible, cfg.InstructionCounting, cfg.CostMeasuring)

			raw, err := os.ReadFile(args[0])
			if err != nil {
				return err
			}
			m, err := decodeModuleJSON(raw)
			if err != nil {
				return err
			}

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
