package main

import (
	"sort"

	"github.com/revelaction/morphrob/render"
	"github.com/revelaction/morphrob/search"
	"github.com/revelaction/morphrob/storage"
)

const searchBatchSize = 500

func searchCommand(opts SearchOptions, args []string, ui UI) error {
	expr, err := search.Parse(args)
	if err != nil {
		return err
	}

	pool := &Pool{}
	defer pool.Close()

	repo, err := NewRepository(pool, opts.RepoPath)
	if err != nil {
		return err
	}

	finder := search.NewFinder(repo)
	if opts.Article != nil {
		finder = finder.WithArticleID(*opts.Article)
	}

	var matches []search.Match
	cursor := storage.Cursor(0)
	fetched := 0

	for {
		newCursor, err := finder.Sentences(expr, cursor, searchBatchSize, func(m search.Match) error {
			fetched++
			matches = append(matches, m)
			return nil
		})
		if err != nil {
			return err
		}
		if newCursor == cursor {
			break
		}
		if fetched >= opts.Limit {
			break
		}
		cursor = newCursor
	}

	sort.Slice(matches, func(i, j int) bool {
		if matches[i].ArticleID != matches[j].ArticleID {
			return matches[i].ArticleID < matches[j].ArticleID
		}
		return matches[i].Sentence.Position < matches[j].Sentence.Position
	})

	if opts.JSON {
		return render.NewJSONRenderer(ui.Out).Render(matches)
	}

	r := render.NewRenderer(ui.Out)
	r.HasColor = !opts.NoColor
	r.HasPrefix = !opts.NoPrefix
	r.Format = opts.Format
	r.Match(matches)

	return nil
}
