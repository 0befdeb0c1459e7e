package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/emberlox/emberlox/internal/vm"
)

var runCmd = &cobra.Command{
	Use:   "run <file>",
	Short: "Compile and run a script file",
	Args:  cobra.ExactArgs(1),
	RunE:  runExecution,
}

func runExecution(cmd *cobra.Command, args []string) error {
	source, err := os.ReadFile(args[0])
	if err != nil {
		return fmt.Errorf("reading %s: %w", args[0], err)
	}

	machine, err := buildVM(cmd)
	if err != nil {
		return err
	}

	switch machine.Interpret(string(source)) {
	case vm.InterpretCompileError:
		os.Exit(65)
	case vm.InterpretRuntimeError:
		os.Exit(70)
	}
	return nil
}
