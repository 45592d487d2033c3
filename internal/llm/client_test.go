package llm

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestClientGenerate(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Fatalf("method = %s", r.Method)
		}
		if r.URL.Path != "/chat/completions" {
			t.Fatalf("path = %s", r.URL.Path)
		}
		if r.Header.Get("Authorization") != "Bearer test-key" {
			t.Fatalf("auth header = %q", r.Header.Get("Authorization"))
		}

		var body map[string]any
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Fatalf("decode request: %v", err)
		}
		if body["model"] != "test-model" {
			t.Fatalf("model = %v", body["model"])
		}

		resp := map[string]any{
			"choices": []map[string]any{{
				"message": map[string]any{"content": "  Subtopic | Duration | Slot  "},
			}},
		}
		_ = json.NewEncoder(w).Encode(resp)
	}))
	defer srv.Close()

	c := NewClient("test-key", srv.URL, "test-model")
	out, err := c.Generate(context.Background(), "prompt")
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if out != "Subtopic | Duration | Slot" {
		t.Fatalf("out = %q", out)
	}
}

func TestClientGenerateHTTPError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "rate limited", http.StatusTooManyRequests)
	}))
	defer srv.Close()

	c := NewClient("test-key", srv.URL, "test-model")
	if _, err := c.Generate(context.Background(), "prompt"); err == nil {
		t.Fatal("expected error on non-2xx response")
	}
}

func TestClientGenerateEmptyChoices(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]any{"choices": []any{}})
	}))
	defer srv.Close()

	c := NewClient("test-key", srv.URL, "test-model")
	if _, err := c.Generate(context.Background(), "prompt"); err == nil {
		t.Fatal("expected error on empty choices")
	}
}

func TestClientGenerateMissingConfig(t *testing.T) {
	if _, err := NewClient("", "http://x", "m").Generate(context.Background(), "p"); err == nil {
		t.Fatal("expected error without api key")
	}
	if _, err := NewClient("k", "", "m").Generate(context.Background(), "p"); err == nil {
		t.Fatal("expected error without base url")
	}
	if _, err := NewClient("k", "http://x", "").Generate(context.Background(), "p"); err == nil {
		t.Fatal("expected error without model")
	}
}
