package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

// cliVersion is the CLI binary's own version string, independent of the
// `version` global compiled into every IR module (compiledBinaryVersion in
// internal/llvmaot), which identifies the compiler's output format rather
// than this command-line tool.
const cliVersion = "0.1.0"

func newVersionCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "version",
		Short: "Print the wasm2llvm CLI version",
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Fprintln(cmd.OutOrStdout(), cliVersion)
			return nil
		},
	}
	return cmd
}
