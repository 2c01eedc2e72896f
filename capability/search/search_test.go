package search

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

const resultsPage = `<!DOCTYPE html>
<html><body>
<div class="serp__results">
  <div class="result results_links results_links_deep web-result">
    <a class="result__a" href="//duckduckgo.com/l/?uddg=https%3A%2F%2Fgo.dev%2Fdoc%2F&amp;rut=abc">Go Documentation</a>
    <a class="result__snippet" href="https://go.dev/doc/">Official <b>Go</b> docs and guides.</a>
  </div>
  <div class="result results_links results_links_deep web-result">
    <a class="result__a" href="https://go.dev/tour/">A Tour of Go</a>
  </div>
  <div class="result results_links">
    <a class="result__a" href="">Broken entry without URL</a>
  </div>
</div>
</body></html>`

func TestParseResults(t *testing.T) {
	results, err := parseResults(resultsPage, 5)
	if err != nil {
		t.Fatalf("parseResults() unexpected error: %v", err)
	}
	if len(results) != 2 {
		t.Fatalf("parseResults() returned %d results, want 2", len(results))
	}

	first := results[0]
	if first.Title != "Go Documentation" {
		t.Errorf("Title = %q, want %q", first.Title, "Go Documentation")
	}
	if first.URL != "https://go.dev/doc/" {
		t.Errorf("URL = %q, want the unwrapped redirect target", first.URL)
	}
	if first.Snippet != "Official Go docs and guides." {
		t.Errorf("Snippet = %q, want the flattened text", first.Snippet)
	}

	second := results[1]
	if second.URL != "https://go.dev/tour/" || second.Snippet != "" {
		t.Errorf("second result = %+v, want direct URL and no snippet", second)
	}
}

func TestParseResultsHonorsMax(t *testing.T) {
	var b strings.Builder
	b.WriteString("<html><body>")
	for i := 0; i < 10; i++ {
		fmt.Fprintf(&b, `<div class="result results_links"><a class="result__a" href="https://example.com/%d">R%d</a></div>`, i, i)
	}
	b.WriteString("</body></html>")

	results, err := parseResults(b.String(), 5)
	if err != nil {
		t.Fatalf("parseResults() unexpected error: %v", err)
	}
	if len(results) != 5 {
		t.Errorf("parseResults() returned %d results, want capped at 5", len(results))
	}
}

func TestCleanRedirect(t *testing.T) {
	tests := []struct {
		href string
		want string
	}{
		{"//duckduckgo.com/l/?uddg=https%3A%2F%2Fgo.dev%2F&rut=xyz", "https://go.dev/"},
		{"https://example.com/direct", "https://example.com/direct"},
		{"", ""},
	}
	for _, tt := range tests {
		if got := cleanRedirect(tt.href); got != tt.want {
			t.Errorf("cleanRedirect(%q) = %q, want %q", tt.href, got, tt.want)
		}
	}
}

func TestInvokeFormatsResults(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("q"); got != "golang testing" {
			t.Errorf("query = %q, want %q", got, "golang testing")
		}
		_, _ = w.Write([]byte(resultsPage))
	}))
	defer srv.Close()

	c := New(WithEndpoint(srv.URL + "/"))
	res, err := c.Invoke(context.Background(), "golang testing")
	if err != nil {
		t.Fatalf("Invoke() unexpected error: %v", err)
	}
	if !res.OK {
		t.Fatalf("Invoke() OK = false: %s", res.Output)
	}
	if !strings.Contains(res.Output, "Search results for: golang testing") {
		t.Errorf("Output missing the header: %q", res.Output)
	}
	if !strings.Contains(res.Output, "1. **Go Documentation**") {
		t.Errorf("Output missing the numbered title: %q", res.Output)
	}
	if !strings.Contains(res.Output, "URL: https://go.dev/doc/") {
		t.Errorf("Output missing the result URL: %q", res.Output)
	}
}

func TestInvokeEmptyQuery(t *testing.T) {
	c := New()
	res, err := c.Invoke(context.Background(), "   ")
	if err != nil {
		t.Fatalf("Invoke() unexpected error: %v", err)
	}
	if res.OK {
		t.Error("Invoke() OK = true for empty query, want false")
	}
}

func TestInvokeUpstreamFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer srv.Close()

	c := New(WithEndpoint(srv.URL + "/"))
	res, err := c.Invoke(context.Background(), "anything")
	if err != nil {
		t.Fatalf("Invoke() unexpected error: %v", err)
	}
	if res.OK {
		t.Error("Invoke() OK = true on upstream failure, want false")
	}
	if !strings.Contains(res.Output, "search failed") {
		t.Errorf("Output = %q, want a search failure diagnostic", res.Output)
	}
}

func TestInvokeNoResults(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("<html><body><div>nothing here</div></body></html>"))
	}))
	defer srv.Close()

	c := New(WithEndpoint(srv.URL + "/"))
	res, err := c.Invoke(context.Background(), "obscure query")
	if err != nil {
		t.Fatalf("Invoke() unexpected error: %v", err)
	}
	if !res.OK || !strings.Contains(res.Output, "No search results found") {
		t.Errorf("Invoke() = %+v, want an explicit empty-results message", res)
	}
}
