package main

import (
	"fmt"

	"github.com/gosuri/uiprogress"
	"github.com/revelaction/morphrob/storage/filesystem"
	"github.com/revelaction/morphrob/storage/sqlite/zombiezen"
)

func importCommand(opts ImportOptions, ui UI) error {
	src, err := filesystem.NewStore(opts.From)
	if err != nil {
		return err
	}

	fmt.Fprintf(ui.Out, "Reading artifacts from %s...\n", opts.From)
	if err := src.Load(nil); err != nil {
		return err
	}

	pool, err := zombiezen.NewPool(opts.To)
	if err != nil {
		return err
	}
	defer pool.Close()

	if err := zombiezen.CreateSchema(pool); err != nil {
		return fmt.Errorf("failed to create corpus tables: %w", err)
	}

	dst := zombiezen.NewStore(pool)

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

	fmt.Fprintf(ui.Out, "Successfully imported %d articles from %s to %s\n", count, opts.From, opts.To)
	return nil
}
