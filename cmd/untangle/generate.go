package main

import (
	"fmt"
	"math/rand/v2"

	"github.com/spf13/cobra"

	"github.com/Zachkp/untangle/internal/untangle"
)

func generateCmd(opts *options) *cobra.Command {
	var (
		level  int
		seed   uint64
		asJSON bool
	)

	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate a random level",
		Long: "Generate a random level. Edges are sampled once per configured edge;\n" +
			"duplicates are dropped, so a level can have fewer edges than its row says.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			canvas, levels, err := opts.table()
			if err != nil {
				return err
			}

			cfg := untangle.Config{Canvas: canvas, Levels: levels}
			if seed != 0 {
				cfg.Rand = rand.New(rand.NewPCG(seed, seed))
			}
			p := untangle.New(cfg)
			p.Generate(level)
			p.EvaluateSolved()
			s := p.State()

			out := cmd.OutOrStdout()
			if asJSON {
				return writeDrawing(out, s)
			}

			want := levels.For(level)
			fmt.Fprintf(out, "  %s level %d: %d nodes, %d/%d edges on %gx%g\n\n",
				brand.Sprint("untangle"), level, len(s.Nodes), len(s.Edges), want.Edges, canvas.Width, canvas.Height)
			printSummary(out, s, p.Crossings())
			if s.Solved {
				good.Fprintln(out, "  Already untangled")
			} else {
				info.Fprintf(out, "  %d crossings to resolve\n", s.Crossings)
			}
			return nil
		},
	}

	cmd.Flags().IntVarP(&level, "level", "l", 1, "Difficulty level")
	cmd.Flags().Uint64Var(&seed, "seed", 0, "Random seed (0 picks one)")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print the drawing as JSON for check")
	return cmd
}
