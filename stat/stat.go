// Package stat aggregates corpus statistics over annotated articles.
package stat

import (
	"github.com/revelaction/morphrob/storage"
)

type Handler struct {
	stats Stats
}

type Stats struct {
	NumArticles           int
	NumSentences          int
	NumTokens             int
	TokensPerSentenceMean int
	TokensPerSentenceDis  map[int]int

	// POSDis counts tokens per universal POS tag.
	POSDis map[string]int

	// NumTokensWithFeats counts tokens carrying at least one
	// morphological feature.
	NumTokensWithFeats int
}

func (h *Handler) Get() Stats {
	return h.stats
}

func NewHandler() *Handler {
	stats := Stats{
		TokensPerSentenceDis: map[int]int{},
		POSDis:               map[string]int{},
	}
	return &Handler{
		stats: stats,
	}
}

// Aggregate adds the article to the statistics. Repeated calls accumulate
// over multiple articles.
func (h *Handler) Aggregate(a storage.Annotated) {
	h.stats.NumArticles++
	h.stats.NumSentences += len(a.Sentences)

	for _, sentence := range a.Sentences {
		h.stats.NumTokens += len(sentence.Tokens)
		h.stats.TokensPerSentenceDis[len(sentence.Tokens)]++

		for _, token := range sentence.Tokens {
			h.stats.POSDis[token.Morph.POS]++
			if token.Morph.Feats != "" {
				h.stats.NumTokensWithFeats++
			}
		}
	}

	if h.stats.NumSentences > 0 {
		h.stats.TokensPerSentenceMean = h.stats.NumTokens / h.stats.NumSentences
	}
}
