// Package pymorphy is an HTTP client for a pymorphy2 analyzer service that
// returns structured OpenCorpora grammemes.
package pymorphy

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/revelaction/morphrob/analyzer"
	"github.com/revelaction/morphrob/ud"
)

// DefaultTimeout bounds one analyze request.
const DefaultTimeout = 30 * time.Second

// Client posts sentences to the analyzer service and decodes the token
// records of the response.
type Client struct {
	url        string
	httpClient *http.Client
}

var _ analyzer.Analyzer = (*Client)(nil)

// New creates a client for the service at url. A zero timeout falls back to
// DefaultTimeout.
func New(url string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Client{
		url:        url,
		httpClient: &http.Client{Timeout: timeout},
	}
}

type analyzeRequest struct {
	Text string `json:"text"`
}

type analyzeResponse struct {
	Tokens []struct {
		Text     string `json:"text"`
		Analyses []struct {
			Lemma   string `json:"lemma"`
			POS     string `json:"pos"`
			Case    string `json:"case"`
			Number  string `json:"number"`
			Gender  string `json:"gender"`
			Animacy string `json:"animacy"`
		} `json:"analyses"`
	} `json:"tokens"`
}

// Analyze sends the sentence to the service and returns the decoded token
// records in sentence order.
func (c *Client) Analyze(ctx context.Context, sentence string) ([]analyzer.Token, error) {
	body, err := json.Marshal(analyzeRequest{Text: sentence})
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("analyzer service: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("analyzer service: status %d: %s", resp.StatusCode, bytes.TrimSpace(msg))
	}

	var decoded analyzeResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return nil, fmt.Errorf("analyzer service response: %w", err)
	}

	tokens := make([]analyzer.Token, 0, len(decoded.Tokens))
	for _, rec := range decoded.Tokens {
		token := analyzer.Token{Text: rec.Text}
		for _, a := range rec.Analyses {
			token.Analyses = append(token.Analyses, analyzer.Analysis{
				Lemma: a.Lemma,
				Tag: ud.Tag{
					POS:     a.POS,
					Case:    a.Case,
					Number:  a.Number,
					Gender:  a.Gender,
					Animacy: a.Animacy,
				},
			})
		}
		tokens = append(tokens, token)
	}

	return tokens, nil
}
