// Package segment splits raw article text into an ordered sequence of
// sentence strings.
package segment

import (
	"regexp"
	"strings"
)

// boundary finds a run of sentence terminators followed by whitespace and
// the start of a new sentence (an uppercase letter, a digit or an opening
// quote). The terminator run belongs to the preceding sentence.
var boundary = regexp.MustCompile(`([.!?…]+)\s+([\p{Lu}\p{N}«"])`)

var whitespace = regexp.MustCompile(`\s+`)

// Split returns the sentences of text in order. Inner whitespace runs are
// collapsed to single spaces; empty sentences are dropped.
func Split(text string) []string {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil
	}

	var sentences []string
	start := 0
	for _, idx := range boundary.FindAllStringSubmatchIndex(text, -1) {
		// idx[3] is the end of the terminator run, idx[4] the start of the
		// next sentence.
		if idx[3] < start {
			continue
		}
		sentences = appendSentence(sentences, text[start:idx[3]])
		start = idx[4]
	}
	return appendSentence(sentences, text[start:])
}

func appendSentence(sentences []string, s string) []string {
	s = strings.TrimSpace(whitespace.ReplaceAllString(s, " "))
	if s == "" {
		return sentences
	}
	return append(sentences, s)
}
