package search

import (
	"testing"

	"github.com/revelaction/morphrob/conllu"
)

func token(position int, text, lemma, pos, feats string) conllu.Token {
	return conllu.Token{
		Position: position,
		Text:     text,
		Morph:    conllu.MorphParams{Lemma: lemma, POS: pos, Feats: feats},
	}
}

func testSentence() conllu.Sentence {
	return conllu.Sentence{
		Position: 0,
		Text:     "Кот спит.",
		Tokens: []conllu.Token{
			token(1, "Кот", "кот", "NOUN", "animacy=Anim|case=Nom|gender=Masc|number=Sing"),
			token(2, "спит", "спать", "VERB", "number=Sing|tense=Pres"),
			token(3, ".", ".", "PUNCT", ""),
		},
	}
}

func TestParseLemma(t *testing.T) {
	expr, err := Parse([]string{"Кот"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(expr) != 1 {
		t.Fatalf("expected 1 item, got %d", len(expr))
	}
	if expr[0].Kind != KindLemma {
		t.Errorf("expected lemma kind, got %d", expr[0].Kind)
	}
	if expr[0].Lemma != "кот" {
		t.Errorf("expected lowercase lemma кот, got %q", expr[0].Lemma)
	}
}

func TestParsePos(t *testing.T) {
	expr, err := Parse([]string{"pos=NOUN"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if expr[0].Kind != KindPOS || expr[0].POS != "NOUN" {
		t.Errorf("unexpected item: %+v", expr[0])
	}
}

func TestParseFeat(t *testing.T) {
	expr, err := Parse([]string{"feat=Case=Nom"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	item := expr[0]
	if item.Kind != KindFeat {
		t.Fatalf("expected feat kind, got %d", item.Kind)
	}
	if item.FeatCategory != "case" || item.FeatValue != "Nom" {
		t.Errorf("unexpected feat item: %+v", item)
	}
}

func TestParseNegation(t *testing.T) {
	expr, err := Parse([]string{"!pos=VERB"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !expr[0].Negate {
		t.Error("expected negated item")
	}
}

func TestParseErrors(t *testing.T) {
	for _, args := range [][]string{
		{},
		{""},
		{"!"},
		{"pos="},
		{"feat=Case"},
		{"feat==Nom"},
	} {
		if _, err := Parse(args); err == nil {
			t.Errorf("expected error for %q", args)
		}
	}
}

func TestLemmasSkipsNegatedAndDuplicates(t *testing.T) {
	expr, err := Parse([]string{"кот", "кот", "!собака", "pos=NOUN"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	lemmas := expr.Lemmas()
	if len(lemmas) != 1 || lemmas[0] != "кот" {
		t.Errorf("expected [кот], got %v", lemmas)
	}
}

func TestMatchSentenceLemma(t *testing.T) {
	expr := Expr{{Kind: KindLemma, Lemma: "кот"}}
	m, ok := NewMatcher(expr).MatchSentence(7, testSentence())
	if !ok {
		t.Fatal("expected match")
	}
	if m.ArticleID != 7 {
		t.Errorf("expected article 7, got %d", m.ArticleID)
	}
	if len(m.Positions) != 1 || m.Positions[0] != 1 {
		t.Errorf("expected positions [1], got %v", m.Positions)
	}
}

func TestMatchSentenceConjunction(t *testing.T) {
	expr := Expr{
		{Kind: KindLemma, Lemma: "кот"},
		{Kind: KindPOS, POS: "VERB"},
	}
	m, ok := NewMatcher(expr).MatchSentence(1, testSentence())
	if !ok {
		t.Fatal("expected match")
	}
	if len(m.Positions) != 2 || m.Positions[0] != 1 || m.Positions[1] != 2 {
		t.Errorf("expected positions [1 2], got %v", m.Positions)
	}
}

func TestMatchSentenceFeat(t *testing.T) {
	expr := Expr{{Kind: KindFeat, FeatCategory: "case", FeatValue: "Nom"}}
	if _, ok := NewMatcher(expr).MatchSentence(1, testSentence()); !ok {
		t.Error("expected feat match")
	}

	expr = Expr{{Kind: KindFeat, FeatCategory: "case", FeatValue: "Gen"}}
	if _, ok := NewMatcher(expr).MatchSentence(1, testSentence()); ok {
		t.Error("expected no match for absent feat value")
	}
}

func TestMatchSentenceNegation(t *testing.T) {
	expr := Expr{
		{Kind: KindLemma, Lemma: "кот"},
		{Kind: KindPOS, POS: "VERB", Negate: true},
	}
	if _, ok := NewMatcher(expr).MatchSentence(1, testSentence()); ok {
		t.Error("expected negated verb item to reject sentence")
	}

	expr = Expr{
		{Kind: KindLemma, Lemma: "кот"},
		{Kind: KindLemma, Lemma: "собака", Negate: true},
	}
	m, ok := NewMatcher(expr).MatchSentence(1, testSentence())
	if !ok {
		t.Fatal("expected match with absent negated lemma")
	}
	if len(m.Positions) != 1 {
		t.Errorf("negated items must not contribute positions: %v", m.Positions)
	}
}

func TestMatchSentenceMissingLemma(t *testing.T) {
	expr := Expr{{Kind: KindLemma, Lemma: "собака"}}
	if _, ok := NewMatcher(expr).MatchSentence(1, testSentence()); ok {
		t.Error("expected no match")
	}
}

func TestExprString(t *testing.T) {
	expr := Expr{
		{Kind: KindLemma, Lemma: "кот"},
		{Kind: KindPOS, POS: "VERB", Negate: true},
		{Kind: KindFeat, FeatCategory: "case", FeatValue: "Nom"},
	}
	want := "кот !pos=VERB feat=case=Nom"
	if got := expr.String(); got != want {
		t.Errorf("expected %q, got %q", want, got)
	}
}
