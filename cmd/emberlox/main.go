// Package main implements the emberlox CLI: a thin driver over
// internal/vm and internal/compiler that never reaches into the core
// beyond its public API.
package main

import (
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "emberlox",
	Short: "emberlox is a bytecode virtual machine for a small scripting language",
	Long:  "emberlox compiles and runs scripts through a single-pass compiler and a stack-based bytecode VM.",
}

func main() {
	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(replCmd)

	rootCmd.PersistentFlags().String("config", "", "path to an emberlox.yaml tuning file")
	rootCmd.PersistentFlags().Bool("gc-stress", false, "force a garbage collection before every allocation")

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
