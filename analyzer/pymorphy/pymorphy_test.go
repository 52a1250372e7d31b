package pymorphy

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestAnalyze(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req analyzeRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("bad request body: %v", err)
		}
		if req.Text != "Кот спит." {
			t.Errorf("unexpected sentence: %q", req.Text)
		}

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"tokens": [
			{"text": "Кот", "analyses": [{"lemma": "кот", "pos": "NOUN", "case": "nomn", "number": "sing", "gender": "masc", "animacy": "anim"}]},
			{"text": "спит", "analyses": [{"lemma": "спать", "pos": "VERB"}]},
			{"text": "."}
		]}`))
	}))
	defer srv.Close()

	c := New(srv.URL, 0)
	tokens, err := c.Analyze(context.Background(), "Кот спит.")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(tokens) != 3 {
		t.Fatalf("expected 3 tokens, got %d", len(tokens))
	}
	if tokens[0].Analyses[0].Tag.Case != "nomn" {
		t.Errorf("unexpected case grammeme: %q", tokens[0].Analyses[0].Tag.Case)
	}
	if tokens[2].Analyses != nil {
		t.Errorf("expected no analyses for punctuation, got %+v", tokens[2].Analyses)
	}
}

func TestAnalyzeErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer srv.Close()

	c := New(srv.URL, 0)
	if _, err := c.Analyze(context.Background(), "Кот спит."); err == nil {
		t.Fatal("expected error for non-200 response")
	}
}
