// Command untangle generates untangle puzzle levels and checks drawings for
// crossing edges from the terminal.
package main

import (
	"errors"
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		if !errors.Is(err, errTangled) {
			bad.Fprintf(os.Stderr, "untangle: %v\n", err)
		}
		os.Exit(1)
	}
}
