package main

import (
	"encoding/json"
	"fmt"

	"github.com/revelaction/morphrob/render"
)

func showCommand(opts ShowOptions, articleID int, ui UI) error {
	pool := &Pool{}
	defer pool.Close()

	repo, err := NewRepository(pool, opts.RepoPath)
	if err != nil {
		return err
	}

	a, err := repo.Read(articleID)
	if err != nil {
		return err
	}

	r := render.NewRenderer(ui.Out)

	switch opts.Format {
	case "conllu":
		r.Conllu(a.Sentences, !opts.NoFeats)
	case "cleaned":
		r.Cleaned(a.Sentences)
	case "json":
		return json.NewEncoder(ui.Out).Encode(a.Sentences)
	default:
		for _, s := range a.Sentences {
			prefix := fmt.Sprintf("✍  %d-%d ", articleID, s.Position)
			r.Sentence(s, prefix)
		}
	}

	return nil
}
