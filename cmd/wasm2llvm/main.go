// Command wasm2llvm drives the Function Compiler from the command line:
// the ambient CLI/config/logging surface around the core compiler, kept
// as a thin external collaborator rather than folded into the core itself.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func main() {
	root := newRootCommand()
	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:           "wasm2llvm",
		Short:         "Ahead-of-time WebAssembly function compiler (LLVM IR façade)",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(newCompileCommand())
	root.AddCommand(newSelftestCommand())
	root.AddCommand(newFeaturesCommand())
	root.AddCommand(newVersionCommand())
	return root
}
