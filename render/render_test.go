package render

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/revelaction/morphrob/conllu"
	"github.com/revelaction/morphrob/search"
)

func testMatch() search.Match {
	return search.Match{
		ArticleID: 3,
		Sentence: conllu.Sentence{
			Position: 1,
			Text:     "Кот спит.",
			Tokens: []conllu.Token{
				{Position: 1, Text: "Кот", Morph: conllu.MorphParams{Lemma: "кот", POS: "NOUN"}},
				{Position: 2, Text: "спит", Morph: conllu.MorphParams{Lemma: "спать", POS: "VERB"}},
				{Position: 3, Text: ".", Morph: conllu.MorphParams{Lemma: ".", POS: "PUNCT"}},
			},
		},
		Positions: []int{1},
	}
}

func TestMatchFormatAll(t *testing.T) {
	var buf bytes.Buffer
	r := NewRenderer(&buf)
	r.Match([]search.Match{testMatch()})

	want := "Кот спит .\n"
	if got := buf.String(); got != want {
		t.Errorf("expected %q, got %q", want, got)
	}
}

func TestMatchFormatLemma(t *testing.T) {
	var buf bytes.Buffer
	r := NewRenderer(&buf)
	r.Format = "lemma"
	r.Match([]search.Match{testMatch()})

	want := "кот\n"
	if got := buf.String(); got != want {
		t.Errorf("expected %q, got %q", want, got)
	}
}

func TestMatchColor(t *testing.T) {
	var buf bytes.Buffer
	r := NewRenderer(&buf)
	r.HasColor = true
	r.Match([]search.Match{testMatch()})

	if !strings.Contains(buf.String(), Green256+"Кот"+Off) {
		t.Errorf("expected colored match, got %q", buf.String())
	}
	if strings.Contains(buf.String(), Green256+"спит") {
		t.Errorf("unmatched token must not be colored: %q", buf.String())
	}
}

func TestMatchPrefix(t *testing.T) {
	var buf bytes.Buffer
	r := NewRenderer(&buf)
	r.HasPrefix = true
	r.Match([]search.Match{testMatch()})

	if !strings.Contains(buf.String(), "3") {
		t.Errorf("expected article id in prefix, got %q", buf.String())
	}
}

func TestSyntagmaWindow(t *testing.T) {
	tokens := make([]conllu.Token, 0, 20)
	for i := 1; i <= 20; i++ {
		tokens = append(tokens, conllu.Token{Position: i, Text: "слово"})
	}
	tokens[9].Text = "центр"

	m := search.Match{
		ArticleID: 1,
		Sentence:  conllu.Sentence{Tokens: tokens},
		Positions: []int{10},
	}

	var buf bytes.Buffer
	r := NewRenderer(&buf)
	r.Format = "part"
	r.Match([]search.Match{m})

	words := strings.Fields(buf.String())
	if len(words) != 2*partialOffset+1 {
		t.Errorf("expected %d words in window, got %d", 2*partialOffset+1, len(words))
	}
	if words[partialOffset] != "центр" {
		t.Errorf("expected match in the middle of the window, got %v", words)
	}
}

func TestNextFormatCycles(t *testing.T) {
	r := NewRenderer(&bytes.Buffer{})
	seen := []string{r.Format}
	for i := 0; i < len(SupportedFormats())-1; i++ {
		r.NextFormat()
		seen = append(seen, r.Format)
	}
	r.NextFormat()
	if r.Format != DefaultFormat {
		t.Errorf("expected cycle back to %q, got %q", DefaultFormat, r.Format)
	}
	if len(seen) != len(SupportedFormats()) {
		t.Errorf("expected all formats visited, got %v", seen)
	}
}

func TestConlluRender(t *testing.T) {
	var buf bytes.Buffer
	r := NewRenderer(&buf)
	r.Conllu([]conllu.Sentence{testMatch().Sentence}, false)

	out := buf.String()
	if !strings.HasPrefix(out, "# sent_id = 1\n# text = Кот спит.\n") {
		t.Errorf("unexpected conllu header: %q", out)
	}
}

func TestJSONRendererEmpty(t *testing.T) {
	var buf bytes.Buffer
	r := NewJSONRenderer(&buf)
	if err := r.Render(nil); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var matches []search.Match
	if err := json.Unmarshal(buf.Bytes(), &matches); err != nil {
		t.Fatalf("failed to unmarshal: %v", err)
	}
	if len(matches) != 0 {
		t.Fatalf("expected 0 matches, got %d", len(matches))
	}
}

func TestJSONRendererOneMatch(t *testing.T) {
	var buf bytes.Buffer
	r := NewJSONRenderer(&buf)
	if err := r.Render([]search.Match{testMatch()}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var matches []search.Match
	if err := json.Unmarshal(buf.Bytes(), &matches); err != nil {
		t.Fatalf("failed to unmarshal: %v", err)
	}
	if len(matches) != 1 {
		t.Fatalf("expected 1 match, got %d", len(matches))
	}
	if matches[0].ArticleID != 3 {
		t.Errorf("expected article 3, got %d", matches[0].ArticleID)
	}
	if len(matches[0].Sentence.Tokens) != 3 {
		t.Errorf("expected 3 tokens, got %d", len(matches[0].Sentence.Tokens))
	}
}
