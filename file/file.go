// Package file defines the artifact naming convention of the dataset and
// reads/writes the per-article artifacts.
package file

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"

	"github.com/revelaction/morphrob/conllu"
)

var (
	rawRe   = regexp.MustCompile(`^(\d+)_raw\.txt$`)
	metaRe  = regexp.MustCompile(`^(\d+)_meta\.json$`)
	morphRe = regexp.MustCompile(`^(\d+)_morphological_conllu\.conllu$`)
)

// RawName returns the raw text file name of an article.
func RawName(id int) string { return fmt.Sprintf("%d_raw.txt", id) }

// MetaName returns the metadata file name of an article.
func MetaName(id int) string { return fmt.Sprintf("%d_meta.json", id) }

// CleanedName returns the cleaned-text artifact name of an article.
func CleanedName(id int) string { return fmt.Sprintf("%d_cleaned.txt", id) }

// PosConlluName returns the name of the CONLL-U artifact without
// morphological features.
func PosConlluName(id int) string { return fmt.Sprintf("%d_pos_conllu.conllu", id) }

// MorphConlluName returns the name of the CONLL-U artifact with
// morphological features.
func MorphConlluName(id int) string { return fmt.Sprintf("%d_morphological_conllu.conllu", id) }

// RawID parses the article ID of a raw file name.
func RawID(name string) (int, bool) { return matchID(rawRe, name) }

// MetaID parses the article ID of a metadata file name.
func MetaID(name string) (int, bool) { return matchID(metaRe, name) }

// MorphConlluID parses the article ID of a morphological CONLL-U artifact
// name.
func MorphConlluID(name string) (int, bool) { return matchID(morphRe, name) }

func matchID(re *regexp.Regexp, name string) (int, bool) {
	m := re.FindStringSubmatch(name)
	if m == nil {
		return 0, false
	}
	id, err := strconv.Atoi(m[1])
	if err != nil {
		return 0, false
	}
	return id, true
}

// ReadRaw returns the raw article text.
func ReadRaw(dir string, id int) (string, error) {
	data, err := os.ReadFile(filepath.Join(dir, RawName(id)))
	if err != nil {
		return "", fmt.Errorf("read raw article %d: %w", id, err)
	}
	return string(data), nil
}

// WriteCleaned writes the cleaned-text artifact: one cleaned sentence per
// line, in sentence order.
func WriteCleaned(dir string, id int, sentences []conllu.Sentence) error {
	var b strings.Builder
	for _, s := range sentences {
		b.WriteString(s.Cleaned())
		b.WriteString("\n")
	}

	path := filepath.Join(dir, CleanedName(id))
	if err := os.WriteFile(path, []byte(b.String()), 0644); err != nil {
		return fmt.Errorf("write cleaned artifact %d: %w", id, err)
	}
	return nil
}

// WriteConllu writes a CONLL-U artifact: the concatenated CONLL-U blocks of
// all sentences. With includeFeats the morphological artifact is written,
// without it the pos artifact with feats forced to "_".
func WriteConllu(dir string, id int, sentences []conllu.Sentence, includeFeats bool) error {
	var b strings.Builder
	for _, s := range sentences {
		b.WriteString(s.ConlluText(includeFeats))
	}

	name := PosConlluName(id)
	if includeFeats {
		name = MorphConlluName(id)
	}

	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(b.String()), 0644); err != nil {
		return fmt.Errorf("write conllu artifact %d: %w", id, err)
	}
	return nil
}

// RemoveArtifacts deletes all three artifacts of an article. Used to roll
// back a partially written article.
func RemoveArtifacts(dir string, id int) {
	for _, name := range []string{CleanedName(id), PosConlluName(id), MorphConlluName(id)} {
		_ = os.Remove(filepath.Join(dir, name))
	}
}

// ReadConllu parses a CONLL-U artifact back into sentences. Sentence blocks
// start with a "# sent_id" comment; token lines carry ten tab-separated
// fields.
func ReadConllu(path string) ([]conllu.Sentence, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read conllu artifact: %w", err)
	}

	var sentences []conllu.Sentence

	for i, line := range strings.Split(string(data), "\n") {
		switch {
		case line == "":
			continue

		case strings.HasPrefix(line, "# sent_id = "):
			position, err := strconv.Atoi(strings.TrimPrefix(line, "# sent_id = "))
			if err != nil {
				return nil, fmt.Errorf("line %d: invalid sent_id: %w", i+1, err)
			}
			sentences = append(sentences, conllu.Sentence{Position: position})

		case strings.HasPrefix(line, "# text = "):
			if len(sentences) == 0 {
				return nil, fmt.Errorf("line %d: text comment before sent_id", i+1)
			}
			sentences[len(sentences)-1].Text = strings.TrimPrefix(line, "# text = ")

		case strings.HasPrefix(line, "#"):
			continue

		default:
			if len(sentences) == 0 {
				return nil, fmt.Errorf("line %d: token line before sent_id", i+1)
			}
			token, err := parseTokenLine(line)
			if err != nil {
				return nil, fmt.Errorf("line %d: %w", i+1, err)
			}
			current := &sentences[len(sentences)-1]
			current.Tokens = append(current.Tokens, token)
		}
	}

	return sentences, nil
}

func parseTokenLine(line string) (conllu.Token, error) {
	fields := strings.Split(line, "\t")
	if len(fields) != 10 {
		return conllu.Token{}, fmt.Errorf("expected 10 fields, got %d", len(fields))
	}

	position, err := strconv.Atoi(fields[0])
	if err != nil {
		return conllu.Token{}, fmt.Errorf("invalid position: %w", err)
	}

	feats := fields[5]
	if feats == "_" {
		feats = ""
	}

	return conllu.Token{
		Position: position,
		Text:     fields[1],
		Morph: conllu.MorphParams{
			Lemma: fields[2],
			POS:   fields[3],
			Feats: feats,
		},
	}, nil
}
