package pipeline

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/revelaction/morphrob/analyzer"
	"github.com/revelaction/morphrob/corpus"
	"github.com/revelaction/morphrob/file"
	"github.com/revelaction/morphrob/ud"
)

// fakeAnalyzer whitespace-splits the sentence and serves analyses from a
// fixed table keyed by surface form.
func fakeAnalyzer(table map[string]analyzer.Analysis) analyzer.Func {
	return func(ctx context.Context, sentence string) ([]analyzer.Token, error) {
		var tokens []analyzer.Token
		for _, word := range strings.Fields(sentence) {
			trailingDot := strings.HasSuffix(word, ".") && word != "."
			if trailingDot {
				word = strings.TrimSuffix(word, ".")
			}

			token := analyzer.Token{Text: word}
			if a, ok := table[word]; ok {
				token.Analyses = []analyzer.Analysis{a}
			}
			tokens = append(tokens, token)

			if trailingDot {
				tokens = append(tokens, analyzer.Token{Text: "."})
			}
		}
		return tokens, nil
	}
}

func writeDataset(t *testing.T, dir string, texts map[int]string) {
	t.Helper()
	for id, text := range texts {
		if err := os.WriteFile(filepath.Join(dir, file.RawName(id)), []byte(text), 0644); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(filepath.Join(dir, file.MetaName(id)), []byte("{}"), 0644); err != nil {
			t.Fatal(err)
		}
	}
}

func mystemConverter(t *testing.T) ud.Converter {
	t.Helper()
	mapping, err := ud.MystemMapping()
	if err != nil {
		t.Fatal(err)
	}
	return ud.NewMystemConverter(mapping)
}

func TestRunAnnotatesSentence(t *testing.T) {
	dataset := t.TempDir()
	writeDataset(t, dataset, map[int]string{1: "Кот спит."})

	m, err := corpus.NewManager(dataset)
	if err != nil {
		t.Fatal(err)
	}

	a := fakeAnalyzer(map[string]analyzer.Analysis{
		"Кот":  {Lemma: "кот", Tag: ud.Tag{Flat: "S,муж,од=им,ед"}},
		"спит": {Lemma: "спать", Tag: ud.Tag{Flat: "V,несов,нп=наст,ед,изъяв"}},
	})

	artifacts := t.TempDir()
	p := New(m, a, mystemConverter(t), artifacts)
	if err := p.Run(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	sentences := m.Articles()[1].Sentences
	if len(sentences) != 1 {
		t.Fatalf("expected 1 sentence, got %d", len(sentences))
	}

	tokens := sentences[0].Tokens
	if len(tokens) != 3 {
		t.Fatalf("expected 3 kept tokens, got %d", len(tokens))
	}

	for i, token := range tokens {
		if token.Position != i+1 {
			t.Errorf("token %d: expected position %d, got %d", i, i+1, token.Position)
		}
	}

	if tokens[0].Morph.POS != "NOUN" || tokens[0].Morph.Lemma != "кот" {
		t.Errorf("unexpected first token: %+v", tokens[0].Morph)
	}
	if tokens[1].Morph.POS != "VERB" || tokens[1].Morph.Lemma != "спать" {
		t.Errorf("unexpected second token: %+v", tokens[1].Morph)
	}
	if tokens[2].Morph.POS != "PUNCT" || tokens[2].Morph.Lemma != "." || tokens[2].Morph.Feats != "" {
		t.Errorf("unexpected third token: %+v", tokens[2].Morph)
	}

	// the period line serializes feats as "_"
	lines := strings.Split(strings.TrimSuffix(sentences[0].ConlluText(true), "\n"), "\n")
	fields := strings.Split(lines[4], "\t")
	if fields[0] != "3" || fields[5] != "_" {
		t.Errorf("unexpected punct line: %q", lines[4])
	}
}

func TestRunNoCandidatesFallsBackToX(t *testing.T) {
	dataset := t.TempDir()
	writeDataset(t, dataset, map[int]string{1: "Бармаглот хрюкотал."})

	m, err := corpus.NewManager(dataset)
	if err != nil {
		t.Fatal(err)
	}

	artifacts := t.TempDir()
	p := New(m, fakeAnalyzer(nil), mystemConverter(t), artifacts)
	if err := p.Run(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	tokens := m.Articles()[1].Sentences[0].Tokens
	if tokens[0].Morph.POS != "X" || tokens[0].Morph.Lemma != "Бармаглот" {
		t.Errorf("expected X fallback with surface lemma, got %+v", tokens[0].Morph)
	}
	if tokens[0].Morph.Feats != "" {
		t.Errorf("expected empty feats, got %q", tokens[0].Morph.Feats)
	}
}

func TestRunNumericToken(t *testing.T) {
	dataset := t.TempDir()
	writeDataset(t, dataset, map[int]string{1: "Осталось 7 дней."})

	m, err := corpus.NewManager(dataset)
	if err != nil {
		t.Fatal(err)
	}

	p := New(m, fakeAnalyzer(nil), mystemConverter(t), t.TempDir())
	if err := p.Run(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	tokens := m.Articles()[1].Sentences[0].Tokens
	if tokens[1].Morph.POS != "NUM" || tokens[1].Morph.Lemma != "7" {
		t.Errorf("expected NUM for digits, got %+v", tokens[1].Morph)
	}
}

func TestRunFiltersNonWordTokens(t *testing.T) {
	dataset := t.TempDir()
	writeDataset(t, dataset, map[int]string{1: "Кот , спит."})

	m, err := corpus.NewManager(dataset)
	if err != nil {
		t.Fatal(err)
	}

	p := New(m, fakeAnalyzer(nil), mystemConverter(t), t.TempDir())
	if err := p.Run(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	tokens := m.Articles()[1].Sentences[0].Tokens
	if len(tokens) != 3 {
		t.Fatalf("expected comma filtered out, got %d tokens", len(tokens))
	}
	// positions stay contiguous after filtering
	for i, token := range tokens {
		if token.Position != i+1 {
			t.Errorf("token %d: expected position %d, got %d", i, i+1, token.Position)
		}
	}
}

func TestRunWritesArtifacts(t *testing.T) {
	dataset := t.TempDir()
	writeDataset(t, dataset, map[int]string{1: "Кот спит.", 2: "Конец."})

	m, err := corpus.NewManager(dataset)
	if err != nil {
		t.Fatal(err)
	}

	artifacts := t.TempDir()
	p := New(m, fakeAnalyzer(nil), mystemConverter(t), artifacts)
	p.Workers = 2
	if err := p.Run(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	for _, id := range []int{1, 2} {
		for _, name := range []string{file.CleanedName(id), file.PosConlluName(id), file.MorphConlluName(id)} {
			if _, err := os.Stat(filepath.Join(artifacts, name)); err != nil {
				t.Errorf("missing artifact %s: %v", name, err)
			}
		}
	}

	data, err := os.ReadFile(filepath.Join(artifacts, file.CleanedName(1)))
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "кот спит\n" {
		t.Errorf("unexpected cleaned artifact: %q", string(data))
	}
}

func TestRunIdempotent(t *testing.T) {
	dataset := t.TempDir()
	writeDataset(t, dataset, map[int]string{1: "Кот спит. Собака лает."})

	artifacts := t.TempDir()
	read := func() map[string]string {
		out := map[string]string{}
		entries, err := os.ReadDir(artifacts)
		if err != nil {
			t.Fatal(err)
		}
		for _, entry := range entries {
			data, err := os.ReadFile(filepath.Join(artifacts, entry.Name()))
			if err != nil {
				t.Fatal(err)
			}
			out[entry.Name()] = string(data)
		}
		return out
	}

	table := map[string]analyzer.Analysis{
		"Кот": {Lemma: "кот", Tag: ud.Tag{Flat: "S,муж,од=им,ед"}},
	}

	for run := 0; run < 2; run++ {
		m, err := corpus.NewManager(dataset)
		if err != nil {
			t.Fatal(err)
		}
		p := New(m, fakeAnalyzer(table), mystemConverter(t), artifacts)
		if err := p.Run(context.Background()); err != nil {
			t.Fatal(err)
		}

		if run == 0 {
			first := read()
			defer func() {
				second := read()
				for name, content := range first {
					if second[name] != content {
						t.Errorf("artifact %s differs between runs", name)
					}
				}
			}()
		}
	}
}

func TestRunIsolatesArticleFailures(t *testing.T) {
	dataset := t.TempDir()
	writeDataset(t, dataset, map[int]string{1: "Кот спит.", 2: "Сбой."})

	m, err := corpus.NewManager(dataset)
	if err != nil {
		t.Fatal(err)
	}

	boom := errors.New("analyzer down")
	a := analyzer.Func(func(ctx context.Context, sentence string) ([]analyzer.Token, error) {
		if strings.Contains(sentence, "Сбой") {
			return nil, boom
		}
		return []analyzer.Token{{Text: "Кот"}}, nil
	})

	artifacts := t.TempDir()
	p := New(m, a, mystemConverter(t), artifacts)

	err = p.Run(context.Background())
	if !errors.Is(err, boom) {
		t.Fatalf("expected analyzer error to surface, got %v", err)
	}
	if !strings.Contains(err.Error(), "article 2") {
		t.Errorf("expected article ID in error, got %q", err.Error())
	}
	if !strings.Contains(err.Error(), "sentence 0") {
		t.Errorf("expected sentence index in error, got %q", err.Error())
	}

	// the healthy article is still fully annotated
	if _, err := os.Stat(filepath.Join(artifacts, file.MorphConlluName(1))); err != nil {
		t.Errorf("missing artifact of healthy article: %v", err)
	}
	// the failed article left no artifacts behind
	if _, err := os.Stat(filepath.Join(artifacts, file.CleanedName(2))); !os.IsNotExist(err) {
		t.Errorf("expected no artifacts for failed article, stat err: %v", err)
	}
}

func TestProcessSentencePositions(t *testing.T) {
	dataset := t.TempDir()
	writeDataset(t, dataset, map[int]string{1: "Кот спит. Собака лает. Конец."})

	m, err := corpus.NewManager(dataset)
	if err != nil {
		t.Fatal(err)
	}

	p := New(m, fakeAnalyzer(nil), mystemConverter(t), t.TempDir())
	if err := p.Run(context.Background()); err != nil {
		t.Fatal(err)
	}

	sentences := m.Articles()[1].Sentences
	if len(sentences) != 3 {
		t.Fatalf("expected 3 sentences, got %d", len(sentences))
	}
	for i, s := range sentences {
		if s.Position != i {
			t.Errorf("sentence %d: expected position %d, got %d", i, i, s.Position)
		}
	}
}

func TestRunUnknownTagAborts(t *testing.T) {
	dataset := t.TempDir()
	writeDataset(t, dataset, map[int]string{1: "Кот."})

	m, err := corpus.NewManager(dataset)
	if err != nil {
		t.Fatal(err)
	}

	a := fakeAnalyzer(map[string]analyzer.Analysis{
		"Кот": {Lemma: "кот", Tag: ud.Tag{Flat: "ZZZ=им,ед"}},
	})

	p := New(m, a, mystemConverter(t), t.TempDir())
	err = p.Run(context.Background())
	if !errors.Is(err, ud.ErrUnknownTag) {
		t.Fatalf("expected ErrUnknownTag, got %v", err)
	}
}
