// Package query implements the interactive search prompt.
package query

import (
	"fmt"
	"sort"
	"strings"

	"github.com/c-bata/go-prompt"

	"github.com/revelaction/morphrob/render"
	"github.com/revelaction/morphrob/search"
	"github.com/revelaction/morphrob/storage"
)

const (
	// candidateLimit caps the candidates fetched per query to avoid hangs
	// on frequent lemmas.
	candidateLimit = 2000

	batchSize = 500
)

// universalPOS are the UD tags offered by the completer after "pos=".
var universalPOS = []string{
	"ADJ", "ADP", "ADV", "AUX", "CCONJ", "DET", "INTJ", "NOUN",
	"NUM", "PART", "PRON", "PROPN", "PUNCT", "SCONJ", "SYM", "VERB", "X",
}

type Handler struct {
	Repo     storage.Reader
	Renderer *render.Renderer

	// Lemmas of the corpus, offered by the completer. Optional.
	Lemmas []string
}

func NewHandler(repo storage.Reader, r *render.Renderer) *Handler {
	return &Handler{
		Repo:     repo,
		Renderer: r,
	}
}

func (h *Handler) Run() error {

	fmt.Println("🔑 Ctrl+X: Toggle prefix, Ctrl+F: next Format, 🔧 quit")

	// initialize prompt history
	history := []string{}

	for {

		in := prompt.Input("      🔖 ", h.completer(),
			prompt.OptionTitle("morphrob query"),
			prompt.OptionPrefixTextColor(prompt.Yellow),
			prompt.OptionPreviewSuggestionTextColor(prompt.Blue),
			prompt.OptionSelectedSuggestionBGColor(prompt.LightGray),
			prompt.OptionMaxSuggestion(12),
			prompt.OptionSuggestionBGColor(prompt.DarkGray),
			prompt.OptionHistory(history),
			prompt.OptionAddKeyBind(prompt.KeyBind{
				Key: prompt.ControlF,
				Fn: func(buf *prompt.Buffer) {
					h.Renderer.NextFormat()
					fmt.Println("Format set to: " + h.Renderer.Format)
				}}),
			prompt.OptionAddKeyBind(prompt.KeyBind{
				Key: prompt.ControlX,
				Fn: func(buf *prompt.Buffer) {
					h.Renderer.NextPrefix()
					fmt.Println("Prefix set to " + fmt.Sprintf("%t", h.Renderer.HasPrefix))
				}}),
		)

		if in == "quit" {
			return nil
		}

		expr, err := search.Parse(strings.Fields(in))
		if err != nil {
			continue
		}

		history = append(history, in)

		matches, err := h.find(expr)
		if err != nil {
			fmt.Printf("Error fetching candidates: %v\n", err)
			continue
		}

		// Sort results by article, then sentence position
		sort.Slice(matches, func(i, j int) bool {
			if matches[i].ArticleID != matches[j].ArticleID {
				return matches[i].ArticleID < matches[j].ArticleID
			}
			return matches[i].Sentence.Position < matches[j].Sentence.Position
		})

		h.Renderer.Match(matches)
	}
}

func (h *Handler) find(expr search.Expr) ([]search.Match, error) {
	finder := search.NewFinder(h.Repo)

	var matches []search.Match
	cursor := storage.Cursor(0)
	fetched := 0

	for {
		newCursor, err := finder.Sentences(expr, cursor, batchSize, func(m search.Match) error {
			fetched++
			matches = append(matches, m)
			return nil
		})
		if err != nil {
			return nil, err
		}
		if newCursor == cursor {
			break
		}
		if fetched >= candidateLimit {
			break
		}
		cursor = newCursor
	}

	return matches, nil
}

func (h *Handler) completer() func(in prompt.Document) []prompt.Suggest {
	return func(in prompt.Document) []prompt.Suggest {

		s := []prompt.Suggest{}
		word := in.GetWordBeforeCursor()
		if word == "" {
			return s
		}

		negated := strings.HasPrefix(word, "!")
		item := strings.TrimPrefix(word, "!")

		if strings.HasPrefix(item, "pos=") {
			for _, pos := range universalPOS {
				candidate := "pos=" + pos
				if negated {
					candidate = "!" + candidate
				}
				if strings.HasPrefix(candidate, word) {
					s = append(s, prompt.Suggest{Text: candidate, Description: "POS " + pos})
				}
			}
			return s
		}

		for _, prefix := range []string{"pos=", "feat="} {
			candidate := prefix
			if negated {
				candidate = "!" + prefix
			}
			if strings.HasPrefix(candidate, word) {
				s = append(s, prompt.Suggest{Text: candidate, Description: "expression item"})
			}
		}

		for _, lemma := range h.Lemmas {
			candidate := lemma
			if negated {
				candidate = "!" + lemma
			}
			if strings.HasPrefix(candidate, word) {
				s = append(s, prompt.Suggest{Text: candidate, Description: "lemma"})
			}
		}

		return s
	}
}
