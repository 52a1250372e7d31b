// Package mystem drives the mystem binary as an external morphological
// analyzer.
package mystem

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os/exec"
	"strings"

	"github.com/revelaction/morphrob/analyzer"
	"github.com/revelaction/morphrob/ud"
)

// DefaultCommand is the mystem binary looked up in PATH.
const DefaultCommand = "mystem"

// defaultArgs make mystem emit one JSON token array per input line,
// including unanalyzed input (-c) and grammar info (-i), with
// disambiguation (-d).
var defaultArgs = []string{"-c", "-i", "-d", "-e", "utf-8", "--format", "json"}

// Client runs mystem once per sentence and decodes its JSON output.
type Client struct {
	command string
}

var _ analyzer.Analyzer = (*Client)(nil)

// New creates a client for the given mystem binary. An empty command falls
// back to DefaultCommand.
func New(command string) *Client {
	if command == "" {
		command = DefaultCommand
	}
	return &Client{command: command}
}

// record mirrors one token object of mystem's JSON output.
type record struct {
	Text     string `json:"text"`
	Analysis []struct {
		Lex string `json:"lex"`
		Gr  string `json:"gr"`
	} `json:"analysis"`
}

// Analyze feeds the sentence to mystem on stdin and returns the decoded
// token records in input order.
func (c *Client) Analyze(ctx context.Context, sentence string) ([]analyzer.Token, error) {
	cmd := exec.CommandContext(ctx, c.command, defaultArgs...)
	cmd.Stdin = strings.NewReader(sentence)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return nil, fmt.Errorf("mystem: %w: %s", err, strings.TrimSpace(stderr.String()))
	}

	return parseOutput(stdout.Bytes())
}

// parseOutput decodes the JSON token arrays, one per output line.
func parseOutput(out []byte) ([]analyzer.Token, error) {
	var tokens []analyzer.Token

	scanner := bufio.NewScanner(bytes.NewReader(out))
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := bytes.TrimSpace(scanner.Bytes())
		if len(line) == 0 {
			continue
		}

		var records []record
		if err := json.Unmarshal(line, &records); err != nil {
			return nil, fmt.Errorf("mystem output: %w", err)
		}

		for _, rec := range records {
			token := analyzer.Token{Text: rec.Text}
			for _, a := range rec.Analysis {
				token.Analyses = append(token.Analyses, analyzer.Analysis{
					Lemma: a.Lex,
					Tag:   ud.Tag{Flat: a.Gr},
				})
			}
			tokens = append(tokens, token)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("mystem output: %w", err)
	}

	return tokens, nil
}
