package server_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/tailored-agentic-units/assistant/server"
)

func TestDefaultConfig(t *testing.T) {
	cfg := server.DefaultConfig()

	if cfg.Addr != "127.0.0.1:8080" {
		t.Errorf("got Addr %q, want 127.0.0.1:8080", cfg.Addr)
	}
	if cfg.Sandbox.DeadlineSeconds != 30 {
		t.Errorf("got Sandbox.DeadlineSeconds %d, want 30", cfg.Sandbox.DeadlineSeconds)
	}
	if cfg.EnableBrowser {
		t.Error("got EnableBrowser true, want false by default")
	}
}

func TestConfig_Merge(t *testing.T) {
	cfg := server.DefaultConfig()

	source := &server.Config{
		Addr:       "0.0.0.0:9000",
		PolicyFile: "/etc/assistant/policy.yaml",
	}
	source.Sandbox.DeadlineSeconds = 10

	cfg.Merge(source)

	if cfg.Addr != "0.0.0.0:9000" {
		t.Errorf("got Addr %q, want 0.0.0.0:9000", cfg.Addr)
	}
	if cfg.PolicyFile != "/etc/assistant/policy.yaml" {
		t.Errorf("got PolicyFile %q, want the merged path", cfg.PolicyFile)
	}
	if cfg.Sandbox.DeadlineSeconds != 10 {
		t.Errorf("got Sandbox.DeadlineSeconds %d, want 10", cfg.Sandbox.DeadlineSeconds)
	}
}

func TestConfig_Merge_ZeroValuesPreserveDefaults(t *testing.T) {
	cfg := server.DefaultConfig()

	cfg.Merge(&server.Config{})

	if cfg.Addr != "127.0.0.1:8080" {
		t.Errorf("got Addr %q, want preserved default", cfg.Addr)
	}
	if cfg.Sandbox.DeadlineSeconds != 30 {
		t.Errorf("got Sandbox.DeadlineSeconds %d, want preserved default", cfg.Sandbox.DeadlineSeconds)
	}
	if cfg.Reasoning.Temperature != 0.7 {
		t.Errorf("got Reasoning.Temperature %v, want preserved default", cfg.Reasoning.Temperature)
	}
}

func TestLoadConfig(t *testing.T) {
	dir := t.TempDir()
	configPath := filepath.Join(dir, "config.json")

	content := `{
		"addr": "127.0.0.1:9999",
		"enable_browser": true,
		"sandbox": {"deadline_seconds": 5},
		"reasoning": {"base_url": "http://localhost:1234/v1", "model": "local"},
		"event_log": {"sqlite_path": "/tmp/events.db"}
	}`

	if err := os.WriteFile(configPath, []byte(content), 0o644); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}

	cfg, err := server.LoadConfig(configPath)
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}

	if cfg.Addr != "127.0.0.1:9999" {
		t.Errorf("got Addr %q, want 127.0.0.1:9999", cfg.Addr)
	}
	if !cfg.EnableBrowser {
		t.Error("got EnableBrowser false, want true")
	}
	if cfg.Sandbox.DeadlineSeconds != 5 {
		t.Errorf("got Sandbox.DeadlineSeconds %d, want 5", cfg.Sandbox.DeadlineSeconds)
	}
	if cfg.Reasoning.Model != "local" {
		t.Errorf("got Reasoning.Model %q, want local", cfg.Reasoning.Model)
	}
	if cfg.Reasoning.Temperature != 0.7 {
		t.Errorf("got Reasoning.Temperature %v, want preserved default", cfg.Reasoning.Temperature)
	}
	if cfg.EventLog.SQLitePath != "/tmp/events.db" {
		t.Errorf("got EventLog.SQLitePath %q, want /tmp/events.db", cfg.EventLog.SQLitePath)
	}
}

func TestLoadConfigMissingFile(t *testing.T) {
	if _, err := server.LoadConfig(filepath.Join(t.TempDir(), "absent.json")); err == nil {
		t.Error("LoadConfig on a missing file succeeded, want error")
	}
}
