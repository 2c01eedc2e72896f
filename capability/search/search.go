// Package search provides the web search capability, backed by the
// DuckDuckGo HTML interface (no API key required). Payloads are plain
// search queries.
package search

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/tailored-agentic-units/assistant/capability"
)

const (
	searchEndpoint = "https://html.duckduckgo.com/html/"
	maxResults     = 5
	maxBodyBytes   = 1 << 20
)

// Capability performs web searches.
type Capability struct {
	endpoint string
	http     *http.Client
}

// Option configures a Capability.
type Option func(*Capability)

// WithEndpoint overrides the search endpoint, mainly for tests.
func WithEndpoint(endpoint string) Option {
	return func(c *Capability) { c.endpoint = endpoint }
}

// WithHTTPClient overrides the default HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Capability) { c.http = hc }
}

// New creates the search capability.
func New(opts ...Option) *Capability {
	c := &Capability{
		endpoint: searchEndpoint,
		http:     http.DefaultClient,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (*Capability) Name() string {
	return "search"
}

func (*Capability) Description() string {
	return "Searches the web for information on any topic. Use a plain search query as the payload."
}

func (c *Capability) Invoke(ctx context.Context, payload string) (capability.Result, error) {
	query := strings.TrimSpace(payload)
	if query == "" {
		return capability.Result{Output: "empty search query"}, nil
	}

	results, err := c.search(ctx, query)
	if err != nil {
		return capability.Result{Output: fmt.Sprintf("search failed: %s", err)}, nil
	}
	if len(results) == 0 {
		return capability.Result{OK: true, Output: "No search results found for: " + query}, nil
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Search results for: %s\n", query)
	for i, r := range results {
		fmt.Fprintf(&b, "\n%d. **%s**\n", i+1, r.Title)
		if r.Snippet != "" {
			fmt.Fprintf(&b, "   %s\n", r.Snippet)
		}
		fmt.Fprintf(&b, "   URL: %s\n", r.URL)
	}
	return capability.Result{OK: true, Output: b.String()}, nil
}

func (c *Capability) search(ctx context.Context, query string) ([]result, error) {
	endpoint := c.endpoint + "?q=" + url.QueryEscape(query)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", "Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36")
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status %s", resp.Status)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	return parseResults(string(body), maxResults)
}
