// Package pipeline morphologically annotates every registered article and
// persists the per-article artifacts.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"os"
	"regexp"
	"sort"
	"strings"
	"sync"
	"unicode"

	"github.com/gosuri/uiprogress"

	"github.com/revelaction/morphrob/analyzer"
	"github.com/revelaction/morphrob/conllu"
	"github.com/revelaction/morphrob/corpus"
	"github.com/revelaction/morphrob/file"
	"github.com/revelaction/morphrob/segment"
	"github.com/revelaction/morphrob/ud"
)

// keep matches the surface forms that survive token filtering: a run of
// word characters or a single period. Everything else (whitespace, other
// punctuation) is discarded before classification.
var keep = regexp.MustCompile(`^(?:[\p{L}\p{N}_]+|\.)`)

// SplitFunc produces the ordered sentences of an article text.
type SplitFunc func(text string) []string

// Pipeline annotates the articles of a corpus into CONLL-U artifacts.
type Pipeline struct {
	corpus    *corpus.Manager
	analyzer  analyzer.Analyzer
	converter ud.Converter

	// Split is the sentence splitter. Defaults to segment.Split.
	Split SplitFunc

	// ArtifactDir receives the three artifacts of every article.
	ArtifactDir string

	// Workers bounds the number of articles annotated concurrently.
	// Values below 1 mean sequential processing.
	Workers int

	// Progress renders a progress bar while annotating.
	Progress bool
}

// New creates a pipeline over the given corpus, analyzer and converter.
func New(c *corpus.Manager, a analyzer.Analyzer, conv ud.Converter, artifactDir string) *Pipeline {
	return &Pipeline{
		corpus:      c,
		analyzer:    a,
		converter:   conv,
		Split:       segment.Split,
		ArtifactDir: artifactDir,
		Workers:     1,
	}
}

// Run annotates every registered article, by ascending ID, and persists the
// cleaned-text artifact and both CONLL-U artifacts per article. Failing
// articles do not stop the batch: their artifacts are rolled back and the
// errors are collected and returned joined, each carrying the article ID.
func (p *Pipeline) Run(ctx context.Context) error {
	if err := os.MkdirAll(p.ArtifactDir, 0755); err != nil {
		return fmt.Errorf("artifact directory: %w", err)
	}

	ids := p.corpus.IDs()

	workers := p.Workers
	if workers < 1 {
		workers = 1
	}
	if workers > len(ids) {
		workers = len(ids)
	}

	var bar *uiprogress.Bar
	if p.Progress {
		uiprogress.Start()
		bar = uiprogress.AddBar(len(ids))
		bar.AppendCompleted()
		bar.PrependElapsed()
	}

	jobs := make(chan int)
	failures := make(map[int]error)

	var wg sync.WaitGroup
	var mu sync.Mutex

	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for id := range jobs {
				err := p.runArticle(ctx, id)

				mu.Lock()
				if err != nil {
					failures[id] = err
				}
				if bar != nil {
					bar.Incr()
				}
				mu.Unlock()
			}
		}()
	}

	for _, id := range ids {
		jobs <- id
	}
	close(jobs)
	wg.Wait()

	if p.Progress {
		uiprogress.Stop()
	}

	if len(failures) == 0 {
		return nil
	}

	failed := make([]int, 0, len(failures))
	for id := range failures {
		failed = append(failed, id)
	}
	sort.Ints(failed)

	errs := make([]error, 0, len(failed))
	for _, id := range failed {
		errs = append(errs, fmt.Errorf("article %d: %w", id, failures[id]))
	}
	return errors.Join(errs...)
}

// runArticle annotates one article and writes its three artifacts. On any
// failure the already written artifacts of the article are removed.
func (p *Pipeline) runArticle(ctx context.Context, id int) error {
	article := p.corpus.Articles()[id]

	sentences, err := p.process(ctx, article.Text)
	if err != nil {
		return err
	}
	article.Sentences = sentences

	if err := p.persist(id, sentences); err != nil {
		file.RemoveArtifacts(p.ArtifactDir, id)
		return err
	}
	return nil
}

func (p *Pipeline) persist(id int, sentences []conllu.Sentence) error {
	if err := file.WriteCleaned(p.ArtifactDir, id, sentences); err != nil {
		return err
	}
	if err := file.WriteConllu(p.ArtifactDir, id, sentences, false); err != nil {
		return err
	}
	return file.WriteConllu(p.ArtifactDir, id, sentences, true)
}

// process turns an article text into annotated sentences.
func (p *Pipeline) process(ctx context.Context, text string) ([]conllu.Sentence, error) {
	var sentences []conllu.Sentence

	for idx, sentence := range p.Split(text) {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		raw, err := p.analyzer.Analyze(ctx, sentence)
		if err != nil {
			return nil, fmt.Errorf("sentence %d: %w", idx, err)
		}

		var tokens []conllu.Token
		position := 0

		for _, record := range raw {
			if !keep.MatchString(record.Text) {
				continue
			}
			position++

			surface := strings.ReplaceAll(record.Text, " ", "")

			morph, err := p.classify(surface, record.Analyses)
			if err != nil {
				return nil, fmt.Errorf("sentence %d: token %q: %w", idx, surface, err)
			}

			tokens = append(tokens, conllu.Token{
				Position: position,
				Text:     surface,
				Morph:    morph,
			})
		}

		sentences = append(sentences, conllu.Sentence{
			Position: idx,
			Text:     sentence,
			Tokens:   tokens,
		})
	}

	return sentences, nil
}

// classify assigns lemma, POS and feats to one kept token. Alphabetic
// tokens with at least one candidate analysis are converted via the
// configured tag converter; alphabetic tokens without candidates fall back
// to X; digit-only tokens are NUM; remaining kept tokens are PUNCT.
func (p *Pipeline) classify(surface string, analyses []analyzer.Analysis) (conllu.MorphParams, error) {
	switch {
	case isAlpha(surface):
		if len(analyses) == 0 {
			return conllu.MorphParams{Lemma: surface, POS: "X"}, nil
		}

		first := analyses[0]
		pos, err := p.converter.ConvertPOS(first.Tag)
		if err != nil {
			return conllu.MorphParams{}, err
		}
		feats, err := p.converter.ConvertMorphologicalTags(first.Tag)
		if err != nil {
			return conllu.MorphParams{}, err
		}
		return conllu.MorphParams{Lemma: first.Lemma, POS: pos, Feats: feats}, nil

	case isDigit(surface):
		return conllu.MorphParams{Lemma: surface, POS: "NUM"}, nil

	default:
		return conllu.MorphParams{Lemma: surface, POS: "PUNCT"}, nil
	}
}

func isAlpha(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if !unicode.IsLetter(r) {
			return false
		}
	}
	return true
}

func isDigit(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if !unicode.IsDigit(r) {
			return false
		}
	}
	return true
}
