package main

import (
	"io"
	"log/slog"
	"os"

	"github.com/fatih/color"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/emberlox/emberlox/internal/compiler"
	"github.com/emberlox/emberlox/internal/vm"
	"github.com/emberlox/emberlox/internal/vmconfig"
)

// buildVM reads the --config and --gc-stress persistent flags and
// constructs a VM wired to internal/compiler.Compile, with stderr
// colorized when it's a terminal.
func buildVM(cmd *cobra.Command) (*vm.VM, error) {
	configPath, _ := cmd.Flags().GetString("config")
	gcStress, _ := cmd.Flags().GetBool("gc-stress")

	cfg := vmconfig.Default()
	if configPath != "" {
		loaded, err := vmconfig.Load(configPath)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}
	if gcStress {
		cfg.GCStressMode = true
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: cfg.Level()}))
	errOut := newErrorWriter(os.Stderr)

	opts := append(cfg.Options(logger),
		vm.WithCompiler(compiler.Compile),
		vm.WithOutput(os.Stdout),
		vm.WithErrorOutput(errOut),
	)
	return vm.New(opts...), nil
}

// errorWriter colorizes every write in red when the underlying file is a
// terminal, matching the teacher's own go-isatty-gated behavior and the
// vovakirdan-surge example's fatih/color usage for CLI diagnostics.
type errorWriter struct {
	w       io.Writer
	colored bool
	paint   *color.Color
}

func newErrorWriter(f *os.File) io.Writer {
	colored := isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
	return &errorWriter{w: f, colored: colored, paint: color.New(color.FgRed)}
}

func (e *errorWriter) Write(p []byte) (int, error) {
	if !e.colored {
		return e.w.Write(p)
	}
	if _, err := e.paint.Fprint(e.w, string(p)); err != nil {
		return 0, err
	}
	return len(p), nil
}
