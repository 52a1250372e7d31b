package main

import (
	"fmt"

	"github.com/revelaction/morphrob/render"
)

func sentenceCommand(opts SentenceOptions, articleID, sentPos int, ui UI) error {
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

	if sentPos < 0 || sentPos >= len(a.Sentences) {
		return fmt.Errorf("article %d has %d sentences, no sentence %d", articleID, len(a.Sentences), sentPos)
	}

	s := a.Sentences[sentPos]
	r := render.NewRenderer(ui.Out)
	prefix := fmt.Sprintf("✍  %d-%d ", articleID, sentPos)
	r.Sentence(s, prefix)
	fmt.Fprintln(ui.Out)

	for _, token := range s.Tokens {
		feats := token.Morph.Feats
		if feats == "" {
			feats = "_"
		}
		fmt.Fprintf(ui.Out, "%4d %20q %15q %8s %s\n", token.Position, token.Text, token.Morph.Lemma, token.Morph.POS, feats)
	}

	return nil
}
