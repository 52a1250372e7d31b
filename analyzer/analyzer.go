// Package analyzer defines the contract of the external morphological
// analyzer consumed by the annotation pipeline.
package analyzer

import (
	"context"

	"github.com/revelaction/morphrob/ud"
)

// Analysis is one candidate lexical analysis of a token.
type Analysis struct {
	// The dictionary base form
	Lemma string

	// The native grammar tag, flat or structured depending on the analyzer
	Tag ud.Tag
}

// Token is a raw token record returned by the analyzer, in sentence order.
// Analyses is empty when the analyzer has no candidate for the surface form.
type Token struct {
	Text     string
	Analyses []Analysis
}

// Analyzer returns the ordered token records of one sentence.
type Analyzer interface {
	Analyze(ctx context.Context, sentence string) ([]Token, error)
}

// Func adapts a plain function to the Analyzer interface.
type Func func(ctx context.Context, sentence string) ([]Token, error)

func (f Func) Analyze(ctx context.Context, sentence string) ([]Token, error) {
	return f(ctx, sentence)
}
