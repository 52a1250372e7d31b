package main

import (
	"sort"

	"github.com/gosuri/uiprogress"
	"github.com/revelaction/morphrob/query"
	"github.com/revelaction/morphrob/render"
	"github.com/revelaction/morphrob/storage"
)

func queryCommand(opts QueryOptions, ui UI) error {
	pool := &Pool{}
	defer pool.Close()

	repo, err := NewRepository(pool, opts.RepoPath)
	if err != nil {
		return err
	}

	lemmas, err := corpusLemmas(repo)
	if err != nil {
		return err
	}

	r := render.NewRenderer(ui.Out)
	r.HasColor = !opts.NoColor
	r.HasPrefix = !opts.NoPrefix
	r.Format = opts.Format

	h := query.NewHandler(repo, r)
	h.Lemmas = lemmas
	return h.Run()
}

// corpusLemmas collects the unique lemmas of the corpus for the REPL
// completer.
func corpusLemmas(repo storage.Reader) ([]string, error) {
	infos, err := repo.List()
	if err != nil {
		return nil, err
	}

	uiprogress.Start()
	bar := uiprogress.AddBar(len(infos))
	bar.AppendCompleted()
	bar.PrependElapsed()

	seen := map[string]bool{}
	for _, info := range infos {
		a, err := repo.Read(info.ID)
		if err != nil {
			uiprogress.Stop()
			return nil, err
		}
		for _, sentence := range a.Sentences {
			for _, lemma := range sentence.Lemmas() {
				seen[lemma] = true
			}
		}
		bar.Incr()
	}
	uiprogress.Stop()

	lemmas := make([]string, 0, len(seen))
	for lemma := range seen {
		lemmas = append(lemmas, lemma)
	}
	sort.Strings(lemmas)

	return lemmas, nil
}
