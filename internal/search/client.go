// Package search fetches short reference snippets for a query from the
// DuckDuckGo instant-answer API. Snippets only enrich the generation
// prompt; callers degrade to an empty list when the lookup fails.
package search

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const defaultBaseURL = "https://api.duckduckgo.com"

// Client queries the instant-answer endpoint.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient builds a search client. An empty baseURL selects the
// public endpoint.
func NewClient(baseURL string) *Client {
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}
}

// Snippets returns up to max text snippets for the query.
func (c *Client) Snippets(ctx context.Context, query string, max int) ([]string, error) {
	if max <= 0 {
		max = 3
	}

	u := fmt.Sprintf("%s/?q=%s&format=json&no_html=1&skip_disambig=1", c.baseURL, url.QueryEscape(query))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("search http %d", resp.StatusCode)
	}

	var decoded struct {
		AbstractText  string `json:"AbstractText"`
		RelatedTopics []struct {
			Text string `json:"Text"`
		} `json:"RelatedTopics"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}

	var snippets []string
	if text := strings.TrimSpace(decoded.AbstractText); text != "" {
		snippets = append(snippets, text)
	}
	for _, topic := range decoded.RelatedTopics {
		if len(snippets) >= max {
			break
		}
		if text := strings.TrimSpace(topic.Text); text != "" {
			snippets = append(snippets, text)
		}
	}
	if len(snippets) > max {
		snippets = snippets[:max]
	}
	return snippets, nil
}
