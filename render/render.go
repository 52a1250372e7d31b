// Package render writes annotated sentences and search matches to a
// terminal or to JSON.
package render

import (
	"fmt"
	"io"
	"strings"

	"github.com/revelaction/morphrob/conllu"
	"github.com/revelaction/morphrob/search"
)

const (
	partialOffset = 6
	DefaultFormat = "all"
)

var (
	Yellow256 = "\033[1;38;5;130m"
	Grey256   = "\033[1;38;5;145m"
	Green256  = "\033[1;38;5;70m"
	Off       = "\033[0m"
	ClearLine = "\033[K"
)

func SupportedFormats() []string {
	return []string{"all", "part", "lemma"}
}

type Renderer struct {
	W io.Writer

	HasColor bool

	HasPrefix bool

	// Format determines the format of the matched sentence
	//
	// all: print the whole sentence
	// part: print the surrounding of the matches in the sentence, cut the rest.
	// lemma: print only the lemmas of the matched words
	Format string
}

func NewRenderer(w io.Writer) *Renderer {
	return &Renderer{W: w, Format: DefaultFormat}
}

// Match renders search matches, one line per sentence.
func (r *Renderer) Match(matches []search.Match) {
	for _, m := range matches {
		prefix := r.buildPrefix(m)

		var text string
		switch r.Format {
		case "part":
			text = r.syntagma(m.Sentence.Tokens, m.Positions)
		case "lemma":
			text = r.lemma(m.Sentence, m.Positions)
		default:
			text = r.sentence(m.Sentence.Tokens, m.Positions)
		}

		fmt.Fprintf(r.W, "%s%s\n", prefix, text)
	}
}

// Sentence renders a single sentence without match highlighting.
func (r *Renderer) Sentence(s conllu.Sentence, prefix string) {
	fmt.Fprintf(r.W, "%s%s\n", prefix, r.sentence(s.Tokens, nil))
}

// Conllu renders sentences as CONLL-U blocks, the same layout the
// pipeline writes to the artifact files.
func (r *Renderer) Conllu(sentences []conllu.Sentence, includeFeats bool) {
	for _, s := range sentences {
		fmt.Fprint(r.W, s.ConlluText(includeFeats))
	}
}

// Cleaned renders the cleaned form of the sentences, one per line.
func (r *Renderer) Cleaned(sentences []conllu.Sentence) {
	for _, s := range sentences {
		fmt.Fprintf(r.W, "%s\n", s.Cleaned())
	}
}

func (r *Renderer) sentence(tokens []conllu.Token, positions []int) string {
	var words []string
	for _, token := range tokens {
		words = append(words, r.colorToken(token, positions))
	}
	return strings.Join(words, " ")
}

// syntagma cuts the sentence to a window around the first and last
// matched token.
func (r *Renderer) syntagma(tokens []conllu.Token, positions []int) string {
	if len(positions) == 0 {
		return r.sentence(tokens, positions)
	}

	// positions are sorted and 1-based over the kept tokens
	first := positions[0] - 1
	last := positions[len(positions)-1] - 1

	lo := 0
	if first > partialOffset {
		lo = first - partialOffset
	}
	hi := len(tokens) - 1
	if hi-last > partialOffset {
		hi = last + partialOffset
	}

	return r.sentence(tokens[lo:hi+1], positions)
}

// lemma renders only the lemmas of the matched tokens.
func (r *Renderer) lemma(s conllu.Sentence, positions []int) string {
	var lemmas []string
	for _, token := range s.Tokens {
		for _, p := range positions {
			if token.Position == p {
				lemmas = append(lemmas, token.Morph.Lemma)
				break
			}
		}
	}
	return strings.Join(lemmas, " ")
}

func (r *Renderer) colorToken(token conllu.Token, positions []int) string {
	if !r.HasColor {
		return token.Text
	}

	for _, p := range positions {
		if token.Position == p {
			return Green256 + token.Text + Off
		}
	}
	return token.Text
}

func (r *Renderer) buildPrefix(m search.Match) string {
	if !r.HasPrefix {
		return ""
	}
	return fmt.Sprintf("[%s%4d%s %3d] ✍  ", Grey256, m.ArticleID, Off, m.Sentence.Position)
}

// NextFormat sets the Renderer Format option to a different one, following
// the SupportedFormats() order.
func (r *Renderer) NextFormat() {
	supported := SupportedFormats()
	for i, format := range supported {
		if format == r.Format {
			switch i {
			case len(supported) - 1:
				r.Format = supported[0]
			default:
				r.Format = supported[i+1]
			}
			break
		}
	}
}

// NextPrefix toggles the sentence prefix.
func (r *Renderer) NextPrefix() {
	r.HasPrefix = !r.HasPrefix
}
