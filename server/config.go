package server

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/tailored-agentic-units/assistant/capability/browser"
	"github.com/tailored-agentic-units/assistant/eventlog"
	"github.com/tailored-agentic-units/assistant/knowledge"
	"github.com/tailored-agentic-units/assistant/reasoning"
	"github.com/tailored-agentic-units/assistant/sandbox"
)

const defaultAddr = "127.0.0.1:8080"

// Config holds initialization parameters for the server and all subsystems
// it composes. Each subsystem section delegates to that subsystem's
// config-driven constructor.
type Config struct {
	Addr          string           `json:"addr"`
	PolicyFile    string           `json:"policy_file,omitempty"`
	EnableBrowser bool             `json:"enable_browser,omitempty"`
	Sandbox       sandbox.Config   `json:"sandbox"`
	Reasoning     reasoning.Config `json:"reasoning"`
	Knowledge     knowledge.Config `json:"knowledge"`
	EventLog      eventlog.Config  `json:"event_log"`
	Browser       browser.Config   `json:"browser"`
}

// DefaultConfig returns a Config with sensible defaults for all subsystems.
func DefaultConfig() Config {
	return Config{
		Addr:      defaultAddr,
		Sandbox:   sandbox.DefaultConfig(),
		Reasoning: reasoning.DefaultConfig(),
		Knowledge: knowledge.DefaultConfig(),
		EventLog:  eventlog.DefaultConfig(),
		Browser:   browser.DefaultConfig(),
	}
}

// Merge applies non-zero values from source into c, delegating to each
// subsystem's Merge method.
func (c *Config) Merge(source *Config) {
	if source.Addr != "" {
		c.Addr = source.Addr
	}
	if source.PolicyFile != "" {
		c.PolicyFile = source.PolicyFile
	}
	if source.EnableBrowser {
		c.EnableBrowser = true
	}
	c.Sandbox.Merge(&source.Sandbox)
	c.Reasoning.Merge(&source.Reasoning)
	c.Knowledge.Merge(&source.Knowledge)
	c.EventLog.Merge(&source.EventLog)
	c.Browser.Merge(&source.Browser)
}

// LoadConfig reads a JSON config file, merges it with defaults, and returns
// the resulting Config.
func LoadConfig(filename string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var loaded Config
	if err := json.Unmarshal(data, &loaded); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	cfg.Merge(&loaded)
	return &cfg, nil
}
