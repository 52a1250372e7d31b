package main

import (
	"fmt"

	"github.com/revelaction/morphrob/corpus"
)

func validateCommand(dir string, ui UI) error {
	mgr, err := corpus.NewManager(dir)
	if err != nil {
		return err
	}

	fmt.Fprintf(ui.Out, "✓ %s: %d articles\n", dir, len(mgr.IDs()))
	return nil
}
