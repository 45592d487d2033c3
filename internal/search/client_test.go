package search

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestSnippets(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("q") != "go concurrency" {
			t.Fatalf("q = %q", r.URL.Query().Get("q"))
		}
		if r.URL.Query().Get("format") != "json" {
			t.Fatalf("format = %q", r.URL.Query().Get("format"))
		}
		_ = json.NewEncoder(w).Encode(map[string]any{
			"AbstractText": "Goroutines are lightweight threads.",
			"RelatedTopics": []map[string]any{
				{"Text": "Channels communicate between goroutines."},
				{"Text": ""},
				{"Text": "The sync package."},
				{"Text": "One more."},
			},
		})
	}))
	defer srv.Close()

	c := NewClient(srv.URL)
	got, err := c.Snippets(context.Background(), "go concurrency", 3)
	if err != nil {
		t.Fatalf("Snippets: %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("len = %d, want 3", len(got))
	}
	if got[0] != "Goroutines are lightweight threads." {
		t.Fatalf("first snippet = %q", got[0])
	}
}

func TestSnippetsServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusInternalServerError)
	}))
	defer srv.Close()

	if _, err := NewClient(srv.URL).Snippets(context.Background(), "x", 3); err == nil {
		t.Fatal("expected error on http 500")
	}
}
