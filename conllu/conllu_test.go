package conllu

import (
	"strings"
	"testing"
)

func TestTokenLineFieldCount(t *testing.T) {
	tokens := []Token{
		{Position: 1, Text: "Кот", Morph: MorphParams{Lemma: "кот", POS: "NOUN", Feats: "Case=Nom|Number=Sing"}},
		{Position: 2, Text: "7", Morph: MorphParams{Lemma: "7", POS: "NUM"}},
		{Position: 3, Text: ".", Morph: MorphParams{Lemma: ".", POS: "PUNCT"}},
	}

	for _, token := range tokens {
		for _, includeFeats := range []bool{true, false} {
			fields := strings.Split(token.Line(includeFeats), "\t")
			if len(fields) != 10 {
				t.Fatalf("token %q: expected 10 fields, got %d", token.Text, len(fields))
			}
		}
	}
}

func TestTokenLineFeats(t *testing.T) {
	token := Token{Position: 1, Text: "Кот", Morph: MorphParams{Lemma: "кот", POS: "NOUN", Feats: "Case=Nom|Number=Sing"}}

	fields := strings.Split(token.Line(true), "\t")
	if fields[5] != "Case=Nom|Number=Sing" {
		t.Errorf("expected feats field, got %q", fields[5])
	}

	fields = strings.Split(token.Line(false), "\t")
	if fields[5] != "_" {
		t.Errorf("expected '_' with feats disabled, got %q", fields[5])
	}

	empty := Token{Position: 1, Text: ".", Morph: MorphParams{Lemma: ".", POS: "PUNCT"}}
	fields = strings.Split(empty.Line(true), "\t")
	if fields[5] != "_" {
		t.Errorf("expected '_' for empty feats, got %q", fields[5])
	}
}

func TestTokenCleaned(t *testing.T) {
	cases := map[string]string{
		"Кот":    "кот",
		"«Дом»":  "дом",
		".":      "",
		"IT-отдел": "itотдел",
		"2022":   "2022",
	}

	for text, want := range cases {
		got := Token{Text: text}.Cleaned()
		if got != want {
			t.Errorf("Cleaned(%q): expected %q, got %q", text, want, got)
		}
	}
}

func TestSentenceConlluText(t *testing.T) {
	s := Sentence{
		Position: 0,
		Text:     "Кот спит.",
		Tokens: []Token{
			{Position: 1, Text: "Кот", Morph: MorphParams{Lemma: "кот", POS: "NOUN", Feats: "Case=Nom"}},
			{Position: 2, Text: "спит", Morph: MorphParams{Lemma: "спать", POS: "VERB"}},
			{Position: 3, Text: ".", Morph: MorphParams{Lemma: ".", POS: "PUNCT"}},
		},
	}

	text := s.ConlluText(true)
	lines := strings.Split(strings.TrimSuffix(text, "\n"), "\n")

	if lines[0] != "# sent_id = 0" {
		t.Errorf("unexpected sent_id line: %q", lines[0])
	}
	if lines[1] != "# text = Кот спит." {
		t.Errorf("unexpected text line: %q", lines[1])
	}
	if len(lines) != 5 {
		t.Fatalf("expected 2 comments and 3 token lines, got %d lines", len(lines))
	}
	if !strings.HasSuffix(text, "\n") {
		t.Error("expected trailing newline")
	}

	// third token carries no feats
	fields := strings.Split(lines[4], "\t")
	if fields[0] != "3" || fields[5] != "_" {
		t.Errorf("unexpected punct line: %q", lines[4])
	}
}

func TestSentenceCleaned(t *testing.T) {
	s := Sentence{
		Text: "Кот спит.",
		Tokens: []Token{
			{Position: 1, Text: "Кот"},
			{Position: 2, Text: "спит"},
			{Position: 3, Text: "."},
		},
	}

	if got := s.Cleaned(); got != "кот спит" {
		t.Errorf("expected 'кот спит', got %q", got)
	}
}

func TestSentenceLemmas(t *testing.T) {
	s := Sentence{
		Tokens: []Token{
			{Morph: MorphParams{Lemma: "кот"}},
			{Morph: MorphParams{Lemma: "спать"}},
			{Morph: MorphParams{Lemma: "кот"}},
		},
	}

	lemmas := s.Lemmas()
	if len(lemmas) != 2 {
		t.Fatalf("expected 2 unique lemmas, got %v", lemmas)
	}
}
