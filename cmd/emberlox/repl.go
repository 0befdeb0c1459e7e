package main

import (
	"bufio"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var replCmd = &cobra.Command{
	Use:   "repl",
	Short: "Start an interactive read-eval-print loop",
	Args:  cobra.NoArgs,
	RunE:  replExecution,
}

// replExecution feeds each line to the VM as its own top-level script,
// the same one-statement-at-a-time model clox's own driver uses — each
// line gets a fresh compile, but the VM's globals table (and therefore
// any `var`/`fun`/`class` declared so far) persists across lines.
func replExecution(cmd *cobra.Command, args []string) error {
	machine, err := buildVM(cmd)
	if err != nil {
		return err
	}

	scanner := bufio.NewScanner(os.Stdin)
	fmt.Fprint(os.Stdout, "> ")
	for scanner.Scan() {
		line := scanner.Text()
		if line != "" {
			machine.Interpret(line)
		}
		fmt.Fprint(os.Stdout, "> ")
	}
	fmt.Fprintln(os.Stdout)
	return nil
}
