package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/Zachkp/untangle/internal/untangle"
)

func checkCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "check [FILE|-]",
		Short: "Check a JSON drawing for crossing edges",
		Long: "Check a JSON drawing ({\"nodes\":[{\"id\",\"x\",\"y\"}],\"edges\":[{\"source\",\"target\"}]})\n" +
			"for crossing edges. Reads stdin when FILE is omitted or \"-\". Exits 1 when tangled.",
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var r io.Reader = cmd.InOrStdin()
			if len(args) == 1 && args[0] != "-" {
				f, err := os.Open(args[0])
				if err != nil {
					return err
				}
				defer f.Close()
				r = f
			}

			d, err := readDrawing(r)
			if err != nil {
				return err
			}

			canvas, _, err := opts.table()
			if err != nil {
				return err
			}
			if d.Canvas != nil {
				canvas = *d.Canvas
			}

			p, err := untangle.FromGraph(untangle.Config{Canvas: canvas}, d.Nodes, d.Edges)
			if err != nil {
				return err
			}
			s := p.State()

			out := cmd.OutOrStdout()
			printSummary(out, s, p.Crossings())
			for _, c := range p.Crossings() {
				e1, e2 := s.Edges[c.I], s.Edges[c.J]
				fmt.Fprintf(out, "  %s edge %d (%d-%d) crosses edge %d (%d-%d)\n",
					statusIcon(false), c.I, e1.Source, e1.Target, c.J, e2.Source, e2.Target)
			}

			switch {
			case s.Solved:
				good.Fprintln(out, "  Untangled")
				return nil
			case len(s.Edges) == 0:
				info.Fprintln(out, "  No edges to untangle")
				return errTangled
			default:
				bad.Fprintf(out, "  %d crossings\n", s.Crossings)
				return errTangled
			}
		},
	}
}
