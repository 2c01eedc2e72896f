package reasoning

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/tailored-agentic-units/assistant/capability"
	"github.com/tailored-agentic-units/assistant/core/protocol"
	"github.com/tailored-agentic-units/assistant/knowledge"
)

const defaultSystemPrompt = "You are a helpful assistant. Use the provided capabilities to answer " +
	"questions and fulfill requests. Check the conversation history before deciding on an action. " +
	"When a request needs a system command, use the shell capability with the command; the system " +
	"handles any confirmation with the user."

// Config holds reasoning client initialization parameters.
type Config struct {
	BaseURL        string  `json:"base_url,omitempty"` // e.g. https://api.openai.com/v1
	APIKey         string  `json:"api_key,omitempty"`
	Model          string  `json:"model,omitempty"`
	Temperature    float64 `json:"temperature,omitempty"`
	MaxTokens      int     `json:"max_tokens,omitempty"`
	TimeoutSeconds int     `json:"timeout_seconds,omitempty"`
	SystemPrompt   string  `json:"system_prompt,omitempty"`
}

// DefaultConfig returns a Config with sensible defaults. BaseURL and
// Model have no defaults and must be supplied.
func DefaultConfig() Config {
	return Config{
		Temperature:    0.7,
		MaxTokens:      1000,
		TimeoutSeconds: 60,
		SystemPrompt:   defaultSystemPrompt,
	}
}

// Merge applies non-zero values from source into c.
func (c *Config) Merge(source *Config) {
	if source.BaseURL != "" {
		c.BaseURL = source.BaseURL
	}
	if source.APIKey != "" {
		c.APIKey = source.APIKey
	}
	if source.Model != "" {
		c.Model = source.Model
	}
	if source.Temperature > 0 {
		c.Temperature = source.Temperature
	}
	if source.MaxTokens > 0 {
		c.MaxTokens = source.MaxTokens
	}
	if source.TimeoutSeconds > 0 {
		c.TimeoutSeconds = source.TimeoutSeconds
	}
	if source.SystemPrompt != "" {
		c.SystemPrompt = source.SystemPrompt
	}
}

// Option configures a Client after config-driven initialization.
type Option func(*Client)

// WithHTTPClient overrides the default HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

// WithGuidelines attaches a guideline store whose contents are appended
// to the system prompt on every call.
func WithGuidelines(store knowledge.Store) Option {
	return func(c *Client) { c.guidelines = store }
}

// Client is a Reasoner backed by an OpenAI-chat-completions-compatible
// endpoint. Capability definitions from the global registry are advertised
// as tools; at most the first tool call of the response is honored, since
// the orchestrator's contract is zero-or-one requested invocation per
// turn.
type Client struct {
	cfg        Config
	http       *http.Client
	guidelines knowledge.Store
}

// NewClient creates a Client from configuration.
func NewClient(cfg *Config, opts ...Option) (*Client, error) {
	if cfg.BaseURL == "" {
		return nil, fmt.Errorf("reasoning base_url is required")
	}
	if cfg.Model == "" {
		return nil, fmt.Errorf("reasoning model is required")
	}

	c := &Client{
		cfg: *cfg,
		http: &http.Client{
			Timeout: time.Duration(cfg.TimeoutSeconds) * time.Second,
		},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatTool struct {
	Type     string `json:"type"`
	Function struct {
		Name        string         `json:"name"`
		Description string         `json:"description"`
		Parameters  map[string]any `json:"parameters"`
	} `json:"function"`
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Tools       []chatTool    `json:"tools,omitempty"`
	Temperature float64       `json:"temperature,omitempty"`
	MaxTokens   int           `json:"max_tokens,omitempty"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content   string `json:"content"`
			ToolCalls []struct {
				Function struct {
					Name      string `json:"name"`
					Arguments string `json:"arguments"`
				} `json:"function"`
			} `json:"tool_calls"`
		} `json:"message"`
		FinishReason string `json:"finish_reason"`
	} `json:"choices"`
}

func (c *Client) Next(ctx context.Context, history []protocol.Message, safeMode bool) (*Turn, error) {
	system, err := c.buildSystemContent(ctx, safeMode)
	if err != nil {
		return nil, err
	}

	messages := make([]chatMessage, 0, len(history)+1)
	messages = append(messages, chatMessage{Role: "system", Content: system})
	for _, msg := range history {
		messages = append(messages, chatMessage{Role: string(msg.Role), Content: msg.Content})
	}

	payload, err := json.Marshal(chatRequest{
		Model:       c.cfg.Model,
		Messages:    messages,
		Tools:       capabilityTools(),
		Temperature: c.cfg.Temperature,
		MaxTokens:   c.cfg.MaxTokens,
	})
	if err != nil {
		return nil, fmt.Errorf("encode request: %w", err)
	}

	endpoint := strings.TrimRight(c.cfg.BaseURL, "/") + "/chat/completions"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.cfg.APIKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.cfg.APIKey)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("reasoning endpoint returned %s", resp.Status)
	}

	var decoded chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	if len(decoded.Choices) == 0 {
		return nil, fmt.Errorf("response missing choices")
	}

	choice := decoded.Choices[0]
	turn := &Turn{Content: strings.TrimSpace(choice.Message.Content)}

	if len(choice.Message.ToolCalls) > 0 {
		tc := choice.Message.ToolCalls[0]
		var args struct {
			Payload string `json:"payload"`
		}
		if err := json.Unmarshal([]byte(tc.Function.Arguments), &args); err != nil {
			return nil, fmt.Errorf("decode tool call arguments for %s: %w", tc.Function.Name, err)
		}
		turn.Request = &protocol.CapabilityRequest{
			Capability: tc.Function.Name,
			Payload:    args.Payload,
		}
	}

	if turn.Content == "" && turn.Request == nil {
		return nil, fmt.Errorf("response empty")
	}
	return turn, nil
}

func (c *Client) buildSystemContent(ctx context.Context, safeMode bool) (string, error) {
	content := c.cfg.SystemPrompt
	if safeMode {
		content += " Side-effecting commands are subject to user confirmation before they run."
	} else {
		content += " Side-effecting commands run immediately without confirmation."
	}

	guidelines, err := knowledge.Compose(ctx, c.guidelines)
	if err != nil {
		return "", fmt.Errorf("compose guidelines: %w", err)
	}
	if guidelines != "" {
		content += "\n\nGuidelines:\n" + guidelines
	}
	return content, nil
}

func capabilityTools() []chatTool {
	caps := capability.List()
	tools := make([]chatTool, 0, len(caps))
	for _, c := range caps {
		var t chatTool
		t.Type = "function"
		t.Function.Name = c.Name()
		t.Function.Description = c.Description()
		t.Function.Parameters = map[string]any{
			"type": "object",
			"properties": map[string]any{
				"payload": map[string]any{
					"type":        "string",
					"description": "Single-line payload for the capability (command string, query, or URL).",
				},
			},
			"required": []string{"payload"},
		}
		tools = append(tools, t)
	}
	return tools
}
