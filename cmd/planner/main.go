/*
 * classplanner - a profiler class-instrumentation planner
 * Cobra wiring grounded on saferwall-pe/cmd/pedumper.go's
 * rootCmd/subcommand layout (root command with persistent verbose
 * flag, subcommands added via AddCommand, Execute() at the end of main).
 */

package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var verbose bool

func main() {
	rootCmd := &cobra.Command{
		Use:   "classplanner",
		Short: "Plans which class methods a profiling agent must instrument",
		Long:  "classplanner replays class-load events against a set of root method patterns and reports which methods must be bytecode-instrumented for call-graph profiling.",
	}
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug-level logging")

	rootCmd.AddCommand(newRunCommand())
	rootCmd.AddCommand(newRootsCommand())
	rootCmd.AddCommand(newVersionCommand())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the planner version",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Println("classplanner 0.1.0")
		},
	}
}
