// Package search matches annotated sentences against user expressions.
//
// An expression is a list of items with AND semantics. Each item selects
// tokens by lemma, POS tag or morphological feature:
//
//	кот            lemma
//	pos=NOUN       universal POS tag
//	feat=case=Nom  morphological feature
//	!pos=VERB      negation, the sentence must contain no such token
package search

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/revelaction/morphrob/conllu"
)

const (
	KindLemma = iota
	KindPOS
	KindFeat
)

// Item is a single condition of an expression.
type Item struct {
	Kind int

	// Negate inverts the condition: no token of the sentence may satisfy
	// it.
	Negate bool

	Lemma string
	POS   string

	// Feature category and value for KindFeat, lowercase category as in
	// the CONLL-U feats column.
	FeatCategory string
	FeatValue    string
}

func (i Item) String() string {
	var s string
	switch i.Kind {
	case KindPOS:
		s = "pos=" + i.POS
	case KindFeat:
		s = "feat=" + i.FeatCategory + "=" + i.FeatValue
	default:
		s = i.Lemma
	}
	if i.Negate {
		return "!" + s
	}
	return s
}

// Expr is a conjunction of items.
type Expr []Item

func (e Expr) String() string {
	sl := make([]string, 0, len(e))
	for _, item := range e {
		sl = append(sl, item.String())
	}
	return strings.Join(sl, " ")
}

// Lemmas returns the unique non-negated lemmas of the expression. Negated
// lemmas are excluded because they can not be used for indexed candidate
// retrieval in storage; they are handled by the Matcher.
func (e Expr) Lemmas() []string {
	seen := make(map[string]bool)
	var lemmas []string
	for _, item := range e {
		if item.Kind != KindLemma || item.Negate {
			continue
		}
		if !seen[item.Lemma] {
			seen[item.Lemma] = true
			lemmas = append(lemmas, item.Lemma)
		}
	}
	return lemmas
}

// Parse converts command line arguments to an Expr.
func Parse(args []string) (Expr, error) {
	var expr Expr
	for _, arg := range args {
		item, err := parseItem(arg)
		if err != nil {
			return nil, err
		}
		expr = append(expr, item)
	}

	if len(expr) == 0 {
		return nil, errors.New("expression is empty")
	}
	return expr, nil
}

func parseItem(arg string) (Item, error) {
	var item Item

	if strings.HasPrefix(arg, "!") {
		item.Negate = true
		arg = arg[1:]
	}
	if arg == "" {
		return item, errors.New("empty expression item")
	}

	switch {
	case strings.HasPrefix(arg, "pos="):
		item.Kind = KindPOS
		item.POS = strings.TrimPrefix(arg, "pos=")
		if item.POS == "" {
			return item, errors.New("pos item without value")
		}
	case strings.HasPrefix(arg, "feat="):
		parts := strings.SplitN(strings.TrimPrefix(arg, "feat="), "=", 2)
		if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
			return item, fmt.Errorf("feat item needs category=value: %q", arg)
		}
		item.Kind = KindFeat
		item.FeatCategory = strings.ToLower(parts[0])
		item.FeatValue = parts[1]
	default:
		item.Kind = KindLemma
		item.Lemma = strings.ToLower(arg)
	}

	return item, nil
}

// Match is a sentence that satisfies an expression.
type Match struct {
	ArticleID int
	Sentence  conllu.Sentence

	// Positions of the tokens matched by the non-negated items, ordered
	// and unique. Used to highlight tokens in the rendered output.
	Positions []int
}

// Matcher evaluates one expression against sentences.
type Matcher struct {
	expr Expr
}

func NewMatcher(expr Expr) *Matcher {
	return &Matcher{expr: expr}
}

// MatchSentence evaluates the sentence. The second return value is false
// when the sentence does not satisfy every item of the expression.
func (m *Matcher) MatchSentence(articleID int, sentence conllu.Sentence) (Match, bool) {
	seen := make(map[int]bool)
	var positions []int

	for _, item := range m.expr {
		matched := false
		for _, token := range sentence.Tokens {
			if !matchToken(item, token) {
				continue
			}
			matched = true
			if item.Negate {
				break
			}
			if !seen[token.Position] {
				seen[token.Position] = true
				positions = append(positions, token.Position)
			}
		}

		if item.Negate == matched {
			return Match{}, false
		}
	}

	sort.Ints(positions)
	return Match{ArticleID: articleID, Sentence: sentence, Positions: positions}, true
}

func matchToken(item Item, token conllu.Token) bool {
	switch item.Kind {
	case KindPOS:
		return token.Morph.POS == item.POS
	case KindFeat:
		return hasFeat(token.Morph.Feats, item.FeatCategory, item.FeatValue)
	default:
		return token.Morph.Lemma == item.Lemma
	}
}

// hasFeat reports whether the pipe separated feats column contains the
// category=value pair.
func hasFeat(feats, category, value string) bool {
	if feats == "" || feats == "_" {
		return false
	}
	for _, pair := range strings.Split(feats, "|") {
		if pair == category+"="+value {
			return true
		}
	}
	return false
}
