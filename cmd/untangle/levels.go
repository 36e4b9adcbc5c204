package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
)

func levelsCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "levels",
		Short: "Show the level table",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			canvas, levels, err := opts.table()
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "  %s %gx%g, node radius %g\n\n",
				info.Sprint("Canvas"), canvas.Width, canvas.Height, canvas.NodeRadius)

			rows := make([][]string, 0, len(levels))
			for i, l := range levels {
				rows = append(rows, []string{strconv.Itoa(i + 1), strconv.Itoa(l.Nodes), strconv.Itoa(l.Edges)})
			}
			table(out, []string{"LEVEL", "NODES", "EDGES"}, rows)
			fmt.Fprintln(out)
			subtle.Fprintf(out, "  Levels above %d reuse the last row.\n", levels.Max())
			return nil
		},
	}
}
