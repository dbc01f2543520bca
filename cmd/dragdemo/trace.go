package main

import (
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/phanxgames/dragbind/stage"
	"github.com/phanxgames/dragbind/trace"
)

func traceCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "trace",
		Short: "Inspect lifecycle event journals",
	}
	cmd.AddCommand(traceDumpCmd())
	return cmd
}

func traceDumpCmd() *cobra.Command {
	var (
		event   string
		binding int
		count   bool
	)

	cmd := &cobra.Command{
		Use:   "dump <journal.cbor>",
		Short: "Print the records of a journal written by run --trace",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := trace.Open(args[0], trace.Filter{Binding: binding, Event: event})
			if err != nil {
				return err
			}
			defer r.Close()

			out := cmd.OutOrStdout()
			n := 0
			for {
				rec, err := r.Next()
				if errors.Is(err, io.EOF) {
					break
				}
				if err != nil {
					return fmt.Errorf("%s: record %d: %w", args[0], n+1, err)
				}
				n++
				if !count {
					fmt.Fprintln(out, rec.String())
				}
			}
			if count {
				fmt.Fprintln(out, n)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&event, "event", "e", "", "Only records of this lifecycle event")
	cmd.Flags().IntVarP(&binding, "binding", "b", 0, "Only records of this binding id")
	cmd.Flags().BoolVarP(&count, "count", "c", false, "Print the number of matching records")

	return cmd
}

// stageNamer names stage targets by box name in journals.
func stageNamer(target any) string {
	switch t := target.(type) {
	case *stage.Box:
		if t.Name != "" {
			return t.Name
		}
	case *stage.Stage:
		return "document"
	}
	return trace.TypeNamer(target)
}
