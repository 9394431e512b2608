/*
 * classplanner - a profiler class-instrumentation planner
 */

package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"classplanner/rootmodel"
)

func newRootsCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "roots",
		Short: "Inspect a roots/filter session spec",
	}
	cmd.AddCommand(newRootsValidateCommand())
	return cmd
}

func newRootsValidateCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "validate <roots-file>",
		Short: "Parse a roots/filter session spec and report whether it activates the implicit-root heuristics",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			spec, err := loadSessionSpec(args[0])
			if err != nil {
				return fmt.Errorf("load roots file: %w", err)
			}
			fmt.Printf("entries: %d\n", len(spec.Roots.Entries))
			fmt.Printf("include patterns: %d, exclude patterns: %d\n", len(spec.Filter.Include), len(spec.Filter.Exclude))

			noExplicit := rootmodel.NoExplicitRoots(spec.Roots)
			fmt.Printf("no_explicit_roots: %v (implicit main/Runnable.run heuristics %s)\n",
				noExplicit, enabledOrNot(noExplicit))
			return nil
		},
	}
}

func enabledOrNot(on bool) string {
	if on {
		return "ENABLED"
	}
	return "disabled"
}
