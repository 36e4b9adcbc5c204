package main

import (
	"errors"

	"github.com/spf13/cobra"

	"github.com/Zachkp/untangle/internal/config"
	"github.com/Zachkp/untangle/internal/untangle"
)

// errTangled makes the process exit non-zero after the report is printed.
var errTangled = errors.New("drawing has crossing edges")

type options struct {
	canvas     string
	levelsFile string
}

// table loads the canvas and level table selected by the persistent flags.
func (o *options) table() (untangle.Canvas, untangle.Levels, error) {
	preset, err := config.CanvasPreset(o.canvas)
	if err != nil {
		return untangle.Canvas{}, nil, err
	}
	return config.LoadPuzzle(o.levelsFile, preset)
}

func newRootCmd() *cobra.Command {
	opts := &options{}

	cmd := &cobra.Command{
		Use:   "untangle",
		Short: "Planar untangle puzzle tools",
		Long: brand.Sprint("untangle") + " — generate puzzle levels and check drawings for crossing edges\n" +
			subtle.Sprint("Two edges cross when they share no node and their segments properly intersect."),
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().StringVar(&opts.canvas, "canvas", "wide", "Canvas preset: wide (600x400) or compact (450x300)")
	cmd.PersistentFlags().StringVar(&opts.levelsFile, "levels", "", "YAML level table to use instead of the built-in one")

	cmd.AddCommand(
		levelsCmd(opts),
		generateCmd(opts),
		checkCmd(opts),
	)
	return cmd
}
