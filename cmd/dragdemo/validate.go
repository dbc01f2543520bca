package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/phanxgames/dragbind/scenario"
)

func validateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "validate <scenario.yaml>...",
		Short: "Check scenario files without running them",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, path := range args {
				f, err := scenario.LoadFile(path)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s: ok (%d boxes, %d bindings, %d steps)\n",
					path, countBoxes(f.Boxes), len(f.Bindings), len(f.Steps))
			}
			return nil
		},
	}
}

func countBoxes(specs []scenario.BoxSpec) int {
	n := len(specs)
	for _, s := range specs {
		n += countBoxes(s.Children)
	}
	return n
}
