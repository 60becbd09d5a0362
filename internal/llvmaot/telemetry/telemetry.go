// Package telemetry is the structured-logging surface every stage of a
// compile reports through: module load, per-function compile stats, and
// the SIMD-fallback/trap-block counters compilectx.go and control.go
// accumulate.
package telemetry

import (
	"io"
	"os"

	"github.com/sirupsen/logrus"
)

// Logger wraps a logrus entry so callers never import logrus directly
// outside this package.
type Logger struct {
	entry *logrus.Entry
}

// New builds a Logger writing to out at the given level ("debug", "info",
// "warn", "error"), formatted as JSON unless pretty is set.
func New(out io.Writer, level string, pretty bool) *Logger {
	l := logrus.New()
	l.SetOutput(out)
	if lvl, err := logrus.ParseLevel(level); err == nil {
		l.SetLevel(lvl)
	} else {
		l.SetLevel(logrus.InfoLevel)
	}
	if pretty {
		l.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	} else {
		l.SetFormatter(&logrus.JSONFormatter{})
	}
	return &Logger{entry: logrus.NewEntry(l)}
}

// Default returns a Logger writing to stderr at info level, the one
// every command in cmd/wasm2llvm falls back to when no flags override it.
func Default() *Logger {
	return New(os.Stderr, "info", false)
}

// With returns a derived Logger carrying the given structured fields,
// mirroring logrus.Entry.WithFields without exposing logrus.Fields.
func (lg *Logger) With(fields map[string]any) *Logger {
	return &Logger{entry: lg.entry.WithFields(logrus.Fields(fields))}
}

func (lg *Logger) Debugf(format string, args ...any) { lg.entry.Debugf(format, args...) }
func (lg *Logger) Infof(format string, args ...any)  { lg.entry.Infof(format, args...) }
func (lg *Logger) Warnf(format string, args ...any)  { lg.entry.Warnf(format, args...) }
func (lg *Logger) Errorf(format string, args ...any) { lg.entry.Errorf(format, args...) }

// CompileStats is the telemetry shape every function compile reports
// once it finishes, matching the accumulator internal/llvmaot.CompileStats
// tracks.
type CompileStats struct {
	FunctionIndex    uint32
	Blocks           int
	TrapBlocks       int
	Instructions     int
	SIMDFallbackUses int
}

// LogFunctionCompiled emits one structured record per compiled function.
// Kept as its own method, rather than a bare With().Infof() at call sites,
// so the field set stays consistent across every caller.
func (lg *Logger) LogFunctionCompiled(s CompileStats) {
	lg.With(map[string]any{
		"func_index":         s.FunctionIndex,
		"blocks":             s.Blocks,
		"trap_blocks":        s.TrapBlocks,
		"instructions":       s.Instructions,
		"simd_fallback_uses": s.SIMDFallbackUses,
	}).Debugf("function compiled")
}

// LogModuleCompiled emits the module-wide summary after every function
// body has been lowered.
func (lg *Logger) LogModuleCompiled(functionCount int, totalBlocks, totalTrapBlocks, totalSIMDFallbacks int) {
	lg.With(map[string]any{
		"functions":          functionCount,
		"blocks":             totalBlocks,
		"trap_blocks":        totalTrapBlocks,
		"simd_fallback_uses": totalSIMDFallbacks,
	}).Infof("module compiled")
}
