// Package filesystem reads an annotated corpus from the artifact directory
// written by the annotation pipeline.
package filesystem

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/revelaction/morphrob/conllu"
	"github.com/revelaction/morphrob/file"
	"github.com/revelaction/morphrob/storage"
)

// Store serves annotated articles from the morphological CONLL-U artifacts
// of a directory.
type Store struct {
	dir string

	// In-memory cache, loaded lazily
	ids      []int
	articles map[int]storage.Annotated
}

var _ storage.Repository = (*Store)(nil)

// NewStore creates a filesystem store over the given artifact directory.
func NewStore(dir string) (*Store, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}

	var ids []int
	for _, entry := range entries {
		if id, ok := file.MorphConlluID(entry.Name()); ok {
			ids = append(ids, id)
		}
	}
	sort.Ints(ids)

	return &Store{dir: dir, ids: ids}, nil
}

// Load parses all artifacts into memory. The callback is called per
// article with the total count and the current artifact name.
func (s *Store) Load(cb func(total int, name string)) error {
	if s.articles != nil {
		return nil
	}

	s.articles = make(map[int]storage.Annotated, len(s.ids))
	for _, id := range s.ids {
		name := file.MorphConlluName(id)
		if cb != nil {
			cb(len(s.ids), name)
		}

		sentences, err := file.ReadConllu(filepath.Join(s.dir, name))
		if err != nil {
			return fmt.Errorf("artifact %s: %w", name, err)
		}
		s.articles[id] = storage.Annotated{ID: id, Sentences: sentences}
	}

	return nil
}

func (s *Store) List() ([]storage.ArticleInfo, error) {
	if err := s.Load(nil); err != nil {
		return nil, err
	}

	infos := make([]storage.ArticleInfo, 0, len(s.ids))
	for _, id := range s.ids {
		infos = append(infos, storage.ArticleInfo{
			ID:        id,
			Sentences: len(s.articles[id].Sentences),
		})
	}
	return infos, nil
}

func (s *Store) Read(id int) (storage.Annotated, error) {
	if err := s.Load(nil); err != nil {
		return storage.Annotated{}, err
	}

	a, ok := s.articles[id]
	if !ok {
		return storage.Annotated{}, fmt.Errorf("article not found: %d", id)
	}
	return a, nil
}

// FindCandidates scans all sentences in memory. The filesystem store has no
// index: a single pass returns every match and the cursor jumps to EOF.
func (s *Store) FindCandidates(lemmas []string, after storage.Cursor, limit int, onCandidate func(storage.SentenceResult) error) (storage.Cursor, error) {
	if after > 0 {
		return after, nil
	}
	if err := s.Load(nil); err != nil {
		return after, err
	}

	for _, id := range s.ids {
		for _, sentence := range s.articles[id].Sentences {
			if !containsAll(sentence, lemmas) {
				continue
			}
			err := onCandidate(storage.SentenceResult{
				ArticleID: id,
				Sentence:  sentence,
			})
			if err != nil {
				return after, err
			}
		}
	}

	return 1, nil
}

// Write persists an annotated article as a morphological CONLL-U artifact.
// Used as the target of an export from the sqlite store.
func (s *Store) Write(a storage.Annotated) error {
	if err := file.WriteConllu(s.dir, a.ID, a.Sentences, true); err != nil {
		return err
	}
	if s.articles != nil {
		s.articles[a.ID] = a
	}

	known := false
	for _, id := range s.ids {
		if id == a.ID {
			known = true
			break
		}
	}
	if !known {
		s.ids = append(s.ids, a.ID)
		sort.Ints(s.ids)
	}
	return nil
}

func containsAll(sentence conllu.Sentence, lemmas []string) bool {
	for _, lemma := range lemmas {
		found := false
		for _, token := range sentence.Tokens {
			if token.Morph.Lemma == lemma {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}
