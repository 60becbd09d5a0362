// Package config binds the closed configuration set the compiler exposes
// (optimization level, is_generic_binary, interruptibility, instruction
// counting, cost measuring) to cobra flags and environment variables via
// viper.
package config

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/wasm2llvm/wasm2llvm/internal/llvmaot"
)

const envPrefix = "wasm2llvm"

var validOptLevels = map[string]bool{
	"O0": true, "O1": true, "O2": true, "O3": true, "Os": true, "Oz": true,
}

// RegisterFlags attaches the closed configuration set's flags to cmd,
// with their default values.
func RegisterFlags(cmd *cobra.Command) {
	flags := cmd.Flags()
	flags.String("opt-level", "O2", "optimization level: O0, O1, O2, O3, Os, or Oz")
	flags.Bool("generic-binary", false, "disable subtarget-specific vectorization, forcing portable fallbacks everywhere")
	flags.Bool("interruptible", false, "emit interrupt checks at block, loop, and if entry")
	flags.Bool("instruction-counting", false, "emit per-function instruction-count accumulation")
	flags.Bool("cost-measuring", false, "emit gas accounting and a cost-limit trap check")
}

// FromFlags resolves the closed configuration set from cmd's flags,
// letting WASM2LLVM_-prefixed environment variables override any flag the
// user didn't explicitly set.
func FromFlags(cmd *cobra.Command) (llvmaot.Config, error) {
	if err := bindEnv(cmd); err != nil {
		return llvmaot.Config{}, err
	}
	flags := cmd.Flags()

	optLevel, err := flags.GetString("opt-level")
	if err != nil {
		return llvmaot.Config{}, err
	}
	if !validOptLevels[optLevel] {
		return llvmaot.Config{}, fmt.Errorf("config: invalid opt-level %q", optLevel)
	}

	generic, err := flags.GetBool("generic-binary")
	if err != nil {
		return llvmaot.Config{}, err
	}
	interruptible, err := flags.GetBool("interruptible")
	if err != nil {
		return llvmaot.Config{}, err
	}
	instrCounting, err := flags.GetBool("instruction-counting")
	if err != nil {
		return llvmaot.Config{}, err
	}
	costMeasuring, err := flags.GetBool("cost-measuring")
	if err != nil {
		return llvmaot.Config{}, err
	}

	return llvmaot.Config{
		OptimizationLevel:   optLevel,
		IsGenericBinary:     generic,
		Interruptible:       interruptible,
		InstructionCounting: instrCounting,
		CostMeasuring:       costMeasuring,
	}, nil
}

// bindEnv overlays WASM2LLVM_<FLAG> environment variables onto any flag
// the caller left at its default.
func bindEnv(cmd *cobra.Command) error {
	v := viper.New()
	v.AutomaticEnv()
	v.SetEnvPrefix(envPrefix)

	var errs []string
	cmd.Flags().VisitAll(func(f *pflag.Flag) {
		name := strings.ReplaceAll(f.Name, "-", "_")
		if !f.Changed && v.IsSet(name) {
			if err := cmd.Flags().Set(f.Name, fmt.Sprintf("%v", v.Get(name))); err != nil {
				errs = append(errs, err.Error())
			}
		}
	})
	if len(errs) > 0 {
		return fmt.Errorf("config: error mapping environment variables to flags: %s", strings.Join(errs, "; "))
	}
	return nil
}
