package search

import (
	"errors"

	"github.com/revelaction/morphrob/storage"
)

// Finder selects the retrieval strategy for matching an expression against
// a repository of annotated articles.
type Finder struct {
	repo      storage.Reader
	articleID *int
}

// NewFinder creates a Finder over the given repository.
func NewFinder(repo storage.Reader) *Finder {
	return &Finder{repo: repo}
}

// WithArticleID restricts the search to a single article. The article is
// read whole and every sentence is matched, the lemma index is not used.
func (f *Finder) WithArticleID(id int) *Finder {
	f.articleID = &id
	return f
}

// Sentences calls onMatch for every sentence that satisfies the
// expression, handling pagination through the returned cursor.
func (f *Finder) Sentences(expr Expr, cursor storage.Cursor, limit int, onMatch func(Match) error) (storage.Cursor, error) {
	matcher := NewMatcher(expr)

	// Strategy 1: single article, no index.
	if f.articleID != nil {
		a, err := f.repo.Read(*f.articleID)
		if err != nil {
			return cursor, err
		}
		for _, sentence := range a.Sentences {
			m, ok := matcher.MatchSentence(a.ID, sentence)
			if !ok {
				continue
			}
			if err := onMatch(m); err != nil {
				return cursor, err
			}
		}
		return cursor, nil
	}

	// Strategy 2: indexed candidate retrieval. The index returns sentences
	// containing all positive lemmas, the matcher then applies the pos,
	// feat and negated items.
	lemmas := expr.Lemmas()
	if len(lemmas) == 0 {
		return cursor, errors.New("expression must contain at least one lemma for indexed search")
	}

	return f.repo.FindCandidates(lemmas, cursor, limit, func(res storage.SentenceResult) error {
		m, ok := matcher.MatchSentence(res.ArticleID, res.Sentence)
		if !ok {
			return nil
		}
		return onMatch(m)
	})
}
