package main

import (
	"fmt"
	"os"

	"github.com/gosuri/uiprogress"
	"github.com/revelaction/morphrob/storage/filesystem"
	"github.com/revelaction/morphrob/storage/sqlite/zombiezen"
)

func exportCommand(opts ExportOptions, ui UI) error {
	pool, err := zombiezen.NewPool(opts.From)
	if err != nil {
		return err
	}
	defer pool.Close()

	src := zombiezen.NewStore(pool)

	if err := os.MkdirAll(opts.To, 0755); err != nil {
		return err
	}

	dst, err := filesystem.NewStore(opts.To)
	if err != nil {
		return err
	}

	infos, err := src.List()
	if err != nil {
		return err
	}

	uiprogress.Start()
	bar := uiprogress.AddBar(len(infos))
	bar.AppendCompleted()
	bar.PrependElapsed()

	count := 0
	for _, info := range infos {
		a, err := src.Read(info.ID)
		if err != nil {
			uiprogress.Stop()
			return fmt.Errorf("failed to read article %d: %w", info.ID, err)
		}

		if err := dst.Write(a); err != nil {
			uiprogress.Stop()
			return fmt.Errorf("failed to write article %d: %w", info.ID, err)
		}
		count++
		bar.Incr()
	}
	uiprogress.Stop()

	fmt.Fprintf(ui.Out, "Successfully exported %d articles from %s to %s\n", count, opts.From, opts.To)
	return nil
}
