// Package corpus validates the on-disk article dataset and keeps the
// registry of articles.
package corpus

import (
	"errors"
	"fmt"
	"os"
	"sort"

	"github.com/revelaction/morphrob/conllu"
	"github.com/revelaction/morphrob/file"
)

var (
	// ErrNotFound signals a missing dataset directory.
	ErrNotFound = errors.New("dataset directory not found")

	// ErrNotADirectory signals that the dataset path is not a directory.
	ErrNotADirectory = errors.New("dataset path is not a directory")

	// ErrEmptyDirectory signals a dataset without raw files.
	ErrEmptyDirectory = errors.New("dataset directory contains no raw files")

	// ErrInconsistentDataset signals mismatched file counts, ID slips or
	// empty files.
	ErrInconsistentDataset = errors.New("inconsistent dataset")
)

// Article is one registered article. Sentences is nil until the annotation
// pipeline has processed the article.
type Article struct {
	ID        int
	Text      string
	Sentences []conllu.Sentence
}

// Manager validates a dataset directory and exposes the article registry.
type Manager struct {
	dir      string
	articles map[int]*Article
}

// NewManager validates the dataset at dir and, on success, loads every raw
// article keyed by its numeric ID. Validation is fail-fast: no article is
// read before the whole dataset passes.
func NewManager(dir string) (*Manager, error) {
	m := &Manager{
		dir:      dir,
		articles: map[int]*Article{},
	}

	if err := m.validate(); err != nil {
		return nil, err
	}
	if err := m.scan(); err != nil {
		return nil, err
	}

	return m, nil
}

// validate checks the dataset preconditions in order: the directory exists
// and is a directory, at least one raw file is present, raw and meta counts
// match, the sorted IDs of each set have no gap greater than 1, and no file
// is empty.
func (m *Manager) validate() error {
	info, err := os.Stat(m.dir)
	if err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("%w: %s", ErrNotFound, m.dir)
		}
		return err
	}
	if !info.IsDir() {
		return fmt.Errorf("%w: %s", ErrNotADirectory, m.dir)
	}

	entries, err := os.ReadDir(m.dir)
	if err != nil {
		return err
	}

	var rawIDs, metaIDs []int
	var empty []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}

		id, isRaw := file.RawID(entry.Name())
		if !isRaw {
			var isMeta bool
			id, isMeta = file.MetaID(entry.Name())
			if !isMeta {
				continue
			}
			metaIDs = append(metaIDs, id)
		} else {
			rawIDs = append(rawIDs, id)
		}

		info, err := entry.Info()
		if err != nil {
			return err
		}
		if info.Size() == 0 {
			empty = append(empty, entry.Name())
		}
	}

	if len(rawIDs) == 0 {
		return fmt.Errorf("%w: %s", ErrEmptyDirectory, m.dir)
	}

	if len(metaIDs) != len(rawIDs) {
		return fmt.Errorf("%w: %d raw files but %d meta files",
			ErrInconsistentDataset, len(rawIDs), len(metaIDs))
	}

	// Each ID list is checked for local gaps independently. The two sets
	// are not compared elementwise and the minimum ID is not pinned.
	if err := checkGaps(rawIDs, "raw"); err != nil {
		return err
	}
	if err := checkGaps(metaIDs, "meta"); err != nil {
		return err
	}

	if len(empty) > 0 {
		return fmt.Errorf("%w: empty file %s", ErrInconsistentDataset, empty[0])
	}
	return nil
}

func checkGaps(ids []int, kind string) error {
	sort.Ints(ids)
	for i := 1; i < len(ids); i++ {
		if ids[i]-ids[i-1] > 1 {
			return fmt.Errorf("%w: %s IDs are not sequential between %d and %d",
				ErrInconsistentDataset, kind, ids[i-1], ids[i])
		}
	}
	return nil
}

// scan registers every raw article by its parsed numeric ID.
func (m *Manager) scan() error {
	entries, err := os.ReadDir(m.dir)
	if err != nil {
		return err
	}

	for _, entry := range entries {
		id, ok := file.RawID(entry.Name())
		if !ok {
			continue
		}

		text, err := file.ReadRaw(m.dir, id)
		if err != nil {
			return err
		}

		m.articles[id] = &Article{ID: id, Text: text}
	}

	return nil
}

// Articles returns the registry keyed by article ID.
func (m *Manager) Articles() map[int]*Article {
	return m.articles
}

// IDs returns the registered article IDs in ascending order.
func (m *Manager) IDs() []int {
	ids := make([]int, 0, len(m.articles))
	for id := range m.articles {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	return ids
}
