package main

import (
	"fmt"
	"sort"

	"github.com/revelaction/morphrob/stat"
)

func statCommand(opts StatOptions, articleID *int, ui UI) error {
	pool := &Pool{}
	defer pool.Close()

	repo, err := NewRepository(pool, opts.RepoPath)
	if err != nil {
		return err
	}

	hdl := stat.NewHandler()

	if articleID != nil {
		a, err := repo.Read(*articleID)
		if err != nil {
			return err
		}
		hdl.Aggregate(a)
	} else {
		infos, err := repo.List()
		if err != nil {
			return err
		}
		for _, info := range infos {
			a, err := repo.Read(info.ID)
			if err != nil {
				return err
			}
			hdl.Aggregate(a)
		}
	}

	stats := hdl.Get()
	fmt.Fprintf(ui.Out, "Articles: %d\n", stats.NumArticles)
	fmt.Fprintf(ui.Out, "Sentences: %d\n", stats.NumSentences)
	fmt.Fprintf(ui.Out, "Tokens: %d (mean %d per sentence)\n", stats.NumTokens, stats.TokensPerSentenceMean)
	if stats.NumTokens > 0 {
		fmt.Fprintf(ui.Out, "Tokens with features: %d\n", stats.NumTokensWithFeats)
	}

	// stable POS listing, most frequent first
	type posCount struct {
		pos   string
		count int
	}
	var counts []posCount
	for pos, count := range stats.POSDis {
		counts = append(counts, posCount{pos, count})
	}
	sort.Slice(counts, func(i, j int) bool {
		if counts[i].count != counts[j].count {
			return counts[i].count > counts[j].count
		}
		return counts[i].pos < counts[j].pos
	})

	for _, c := range counts {
		fmt.Fprintf(ui.Out, "  %-6s %d\n", c.pos, c.count)
	}

	return nil
}
