package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/wasm2llvm/wasm2llvm/internal/llvmaot/subtarget"
)

// newFeaturesCommand builds the `features` subcommand: it dumps the
// detected host subtarget flags, the same set numeric/SIMD lowering
// branches on when `--generic-binary` isn't set.
func newFeaturesCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "features",
		Short: "Print the detected host subtarget vectorization flags",
		RunE: func(cmd *cobra.Command, args []string) error {
			flags := cmd.Flags()
			generic, err := flags.GetBool("generic-binary")
			if err != nil {
				return err
			}
			f := subtarget.Detect(generic)
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "sse2:  %v\n", f.SSE2)
			fmt.Fprintf(out, "ssse3: %v\n", f.SSSE3)
			fmt.Fprintf(out, "sse41: %v\n", f.SSE41)
			fmt.Fprintf(out, "xop:   %v\n", f.XOP)
			fmt.Fprintf(out, "neon:  %v\n", f.NEON)
			if !f.Any() {
				fmt.Fprintln(out, "(no vector extensions detected; every lowering uses its portable fallback)")
			}
			return nil
		},
	}
	cmd.Flags().Bool("generic-binary", false, "report the portable (all-false) feature set instead of detecting the host")
	return cmd
}
