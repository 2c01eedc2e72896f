// Package browser provides a capability that fetches a web page with a
// headless Chrome instance and returns its title and visible text.
package browser

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"

	"github.com/tailored-agentic-units/assistant/capability"
)

// Config controls how the browser capability launches and drives Chrome.
type Config struct {
	Headed              bool   `json:"headed"`
	DebuggerURL         string `json:"debugger_url"`
	NavigationTimeoutMs int    `json:"navigation_timeout_ms"`
	MaxOutputBytes      int    `json:"max_output_bytes"`
}

// DefaultConfig returns the browser defaults.
func DefaultConfig() Config {
	return Config{
		NavigationTimeoutMs: 20000,
		MaxOutputBytes:      16 * 1024,
	}
}

// Merge applies non-zero values from source into c.
func (c *Config) Merge(source *Config) {
	if source.DebuggerURL != "" {
		c.DebuggerURL = source.DebuggerURL
	}
	if source.NavigationTimeoutMs > 0 {
		c.NavigationTimeoutMs = source.NavigationTimeoutMs
	}
	if source.MaxOutputBytes > 0 {
		c.MaxOutputBytes = source.MaxOutputBytes
	}
	if source.Headed {
		c.Headed = true
	}
}

// Capability reads pages with a shared, lazily connected browser. The
// browser is bound to the capability's own lifecycle, not to any single
// invocation; per-invocation deadlines apply at page scope only.
type Capability struct {
	cfg Config

	mu        sync.Mutex
	browser   *rod.Browser
	lifecycle context.Context
	stop      context.CancelFunc
}

// New returns a browser capability using cfg.
func New(cfg Config) *Capability {
	merged := DefaultConfig()
	merged.Merge(&cfg)

	ctx, stop := context.WithCancel(context.Background())
	return &Capability{cfg: merged, lifecycle: ctx, stop: stop}
}

// Name implements capability.Capability.
func (b *Capability) Name() string { return "browser" }

// Description implements capability.Capability.
func (b *Capability) Description() string {
	return "Open a web page by URL and return its title and visible text"
}

// Invoke navigates to the URL given as payload and extracts the page text.
// Malformed URLs and navigation failures are reported as failed results
// rather than handler errors.
func (b *Capability) Invoke(ctx context.Context, payload string) (capability.Result, error) {
	raw := strings.TrimSpace(payload)
	target, err := parseTarget(raw)
	if err != nil {
		return capability.Result{Output: err.Error()}, nil
	}

	br, err := b.connect()
	if err != nil {
		return capability.Result{}, fmt.Errorf("connect browser: %w", err)
	}

	page, err := br.Page(proto.TargetCreateTarget{})
	if err != nil {
		return capability.Result{}, fmt.Errorf("create page: %w", err)
	}
	defer page.Close()

	timeout := time.Duration(b.cfg.NavigationTimeoutMs) * time.Millisecond
	page = page.Context(ctx).Timeout(timeout)

	if err := page.Navigate(target); err != nil {
		return capability.Result{Output: fmt.Sprintf("failed to open %s: %v", target, err)}, nil
	}
	if err := page.WaitLoad(); err != nil {
		return capability.Result{Output: fmt.Sprintf("failed to load %s: %v", target, err)}, nil
	}

	info, err := page.Info()
	if err != nil {
		return capability.Result{Output: fmt.Sprintf("failed to inspect %s: %v", target, err)}, nil
	}

	body, err := page.Element("body")
	if err != nil {
		return capability.Result{Output: fmt.Sprintf("no body element at %s: %v", target, err)}, nil
	}
	text, err := body.Text()
	if err != nil {
		return capability.Result{Output: fmt.Sprintf("failed to read %s: %v", target, err)}, nil
	}

	return capability.Result{OK: true, Output: b.render(info.Title, target, text)}, nil
}

// Close shuts down the shared browser, if one was started.
func (b *Capability) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.stop()
	if b.browser == nil {
		return nil
	}
	err := b.browser.Close()
	b.browser = nil
	return err
}

func (b *Capability) connect() (*rod.Browser, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.browser != nil {
		return b.browser, nil
	}
	if err := b.lifecycle.Err(); err != nil {
		return nil, fmt.Errorf("browser capability closed: %w", err)
	}

	controlURL := b.cfg.DebuggerURL
	if controlURL == "" {
		u, err := launcher.New().Headless(!b.cfg.Headed).Launch()
		if err != nil {
			return nil, fmt.Errorf("launch chrome: %w", err)
		}
		controlURL = u
	}

	br := rod.New().ControlURL(controlURL).Context(b.lifecycle)
	if err := br.Connect(); err != nil {
		return nil, fmt.Errorf("connect to chrome: %w", err)
	}
	b.browser = br
	return br, nil
}

func (b *Capability) render(title, target, text string) string {
	text = strings.TrimSpace(text)
	if len(text) > b.cfg.MaxOutputBytes {
		text = text[:b.cfg.MaxOutputBytes] + "\n[truncated]"
	}
	var sb strings.Builder
	fmt.Fprintf(&sb, "Title: %s\nURL: %s\n\n", title, target)
	if text == "" {
		sb.WriteString("(page has no visible text)")
	} else {
		sb.WriteString(text)
	}
	return sb.String()
}

func parseTarget(raw string) (string, error) {
	if raw == "" {
		return "", errors.New("no URL given")
	}
	u, err := url.Parse(raw)
	if err != nil {
		return "", fmt.Errorf("invalid URL %q: %v", raw, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return "", fmt.Errorf("unsupported URL scheme %q, only http and https are allowed", u.Scheme)
	}
	return u.String(), nil
}
