package conllu

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// nonWord matches every rune that is not a letter, digit or underscore.
// Used to build the cleaned (lowercase, punctuation-free) form of a token.
var nonWord = regexp.MustCompile(`[^\p{L}\p{N}_]+`)

// MorphParams holds the morphological annotation of a single token: the
// lemma, the UD part-of-speech tag and the pipe-joined feature string.
// A MorphParams value is attached to exactly one Token and is never
// modified afterwards.
type MorphParams struct {
	Lemma string `json:"lemma"`
	POS   string `json:"pos"`
	Feats string `json:"feats,omitempty"`
}

// Token is a single annotated token of a sentence.
type Token struct {
	// The index of the token in the sentence, starting at 1.
	// Filtered-out raw tokens never consume a position.
	Position int `json:"position"`

	// The unmodified surface form
	Text string `json:"text"`

	Morph MorphParams `json:"morph"`
}

// Line returns the CONLL-U representation of the token: exactly ten
// tab-separated fields. The feats field is "_" if includeFeats is false or
// the computed feature string is empty.
func (t Token) Line(includeFeats bool) string {
	feats := "_"
	if includeFeats && t.Morph.Feats != "" {
		feats = t.Morph.Feats
	}

	fields := []string{
		strconv.Itoa(t.Position),
		t.Text,
		t.Morph.Lemma,
		t.Morph.POS,
		"_",
		feats,
		"0",
		"root",
		"_",
		"_",
	}
	return strings.Join(fields, "\t")
}

// Cleaned returns the lowercase surface form with all non-word runes
// removed. The result may be empty (e.g. for punctuation tokens).
func (t Token) Cleaned() string {
	return nonWord.ReplaceAllString(strings.ToLower(t.Text), "")
}

// Sentence is an ordered sequence of annotated tokens.
type Sentence struct {
	// The index of the sentence in the article, starting at 0.
	Position int `json:"position"`

	// The original sentence text
	Text string `json:"text"`

	Tokens []Token `json:"tokens"`
}

// ConlluText returns the CONLL-U block of the sentence: the sent_id and
// text comment lines followed by one line per token and a trailing newline.
func (s Sentence) ConlluText(includeFeats bool) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# sent_id = %d\n", s.Position)
	fmt.Fprintf(&b, "# text = %s\n", s.Text)

	lines := make([]string, 0, len(s.Tokens))
	for _, token := range s.Tokens {
		lines = append(lines, token.Line(includeFeats))
	}
	b.WriteString(strings.Join(lines, "\n"))
	b.WriteString("\n")
	return b.String()
}

// Cleaned returns the cleaned forms of all tokens joined with single
// spaces. Tokens that are empty after cleaning are omitted.
func (s Sentence) Cleaned() string {
	cleaned := make([]string, 0, len(s.Tokens))
	for _, token := range s.Tokens {
		if c := token.Cleaned(); c != "" {
			cleaned = append(cleaned, c)
		}
	}
	return strings.TrimSpace(strings.Join(cleaned, " "))
}

// Lemmas returns all unique non-empty lemmas of the sentence.
func (s Sentence) Lemmas() []string {
	seen := make(map[string]bool)
	var lemmas []string
	for _, token := range s.Tokens {
		lemma := token.Morph.Lemma
		if lemma == "" || seen[lemma] {
			continue
		}
		seen[lemma] = true
		lemmas = append(lemmas, lemma)
	}
	return lemmas
}
