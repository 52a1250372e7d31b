// Package storage defines repository interfaces over the annotated corpus.
package storage

import (
	"github.com/revelaction/morphrob/conllu"
)

// ArticleInfo is the lightweight listing entry of an annotated article.
// Sentence content is not loaded.
type ArticleInfo struct {
	ID        int
	Sentences int
}

// Annotated is a fully loaded annotated article.
type Annotated struct {
	ID        int
	Sentences []conllu.Sentence
}

// Cursor for paginated lemma-based candidate queries.
type Cursor int64

// SentenceResult is one sentence candidate returned by FindCandidates.
type SentenceResult struct {
	RowID     int64
	ArticleID int
	Sentence  conllu.Sentence
}

// Reader defines read operations over an annotated corpus.
type Reader interface {
	// List returns the metadata of all annotated articles, ordered by ID.
	List() ([]ArticleInfo, error)

	// Read returns an annotated article by ID.
	Read(id int) (Annotated, error)

	// FindCandidates returns sentence candidates containing ALL given
	// lemmas, resuming after the given cursor. It calls onCandidate for
	// each result and returns the new cursor.
	FindCandidates(lemmas []string, after Cursor, limit int, onCandidate func(SentenceResult) error) (Cursor, error)
}

// Writer defines write operations over an annotated corpus.
type Writer interface {
	// Write persists an annotated article and its lemma index.
	Write(a Annotated) error
}

// Repository combines read and write operations.
type Repository interface {
	Reader
	Writer
}
