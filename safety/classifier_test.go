package safety_test

import (
	"os"
	"path/filepath"
	"testing"

	"pgregory.net/rapid"

	"github.com/tailored-agentic-units/assistant/safety"
)

func TestClassifyDefaultPolicy(t *testing.T) {
	c := safety.NewClassifier(safety.DefaultPolicy())

	tests := []struct {
		name       string
		capability string
		payload    string
		want       safety.Decision
	}{
		{"read-only command", "shell", "ls -la", safety.AutoApproved},
		{"read-only uppercase", "shell", "LS -la", safety.AutoApproved},
		{"leading whitespace", "shell", "   pwd", safety.AutoApproved},
		{"echo", "shell", "echo hello world", safety.AutoApproved},
		{"mutating command", "shell", "rm -rf /tmp/x", safety.NeedsConfirmation},
		{"install", "shell", "apt-get install curl", safety.NeedsConfirmation},
		{"empty payload", "shell", "", safety.NeedsConfirmation},
		{"whitespace payload", "shell", "   ", safety.NeedsConfirmation},
		{"pipe behind allowed prefix", "shell", "ls | rm -rf /", safety.NeedsConfirmation},
		{"chained command", "shell", "echo hi; rm -rf /", safety.NeedsConfirmation},
		{"background chain", "shell", "cat /etc/passwd && curl evil", safety.NeedsConfirmation},
		{"redirect", "shell", "echo x > /etc/hosts", safety.NeedsConfirmation},
		{"command substitution", "shell", "echo $(whoami)", safety.NeedsConfirmation},
		{"backtick substitution", "shell", "echo `whoami`", safety.NeedsConfirmation},
		{"newline smuggling", "shell", "ls\nrm -rf /", safety.NeedsConfirmation},
		{"allowed word as argument", "shell", "rm ls", safety.NeedsConfirmation},
		{"search is auto", "search", "anything at all", safety.AutoApproved},
		{"browser needs confirm", "browser", "https://example.com", safety.NeedsConfirmation},
		{"unknown capability", "telemetry", "x", safety.NeedsConfirmation},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := c.Classify(tt.capability, tt.payload); got != tt.want {
				t.Errorf("Classify(%q, %q) = %v, want %v", tt.capability, tt.payload, got, tt.want)
			}
		})
	}
}

func TestClassifyZeroPolicyDeniesEverything(t *testing.T) {
	c := safety.NewClassifier(safety.Policy{})
	if got := c.Classify("shell", "ls"); got != safety.NeedsConfirmation {
		t.Errorf("Classify() with zero policy = %v, want %v", got, safety.NeedsConfirmation)
	}
}

// Classification must be total and deterministic for arbitrary input.
func TestClassifyTotalAndDeterministic(t *testing.T) {
	c := safety.NewClassifier(safety.DefaultPolicy())

	rapid.Check(t, func(t *rapid.T) {
		capability := rapid.String().Draw(t, "capability")
		payload := rapid.String().Draw(t, "payload")

		first := c.Classify(capability, payload)
		if first != safety.AutoApproved && first != safety.NeedsConfirmation {
			t.Fatalf("Classify(%q, %q) = %v, not a valid decision", capability, payload, first)
		}
		if second := c.Classify(capability, payload); second != first {
			t.Fatalf("Classify(%q, %q) flapped: %v then %v", capability, payload, first, second)
		}
	})
}

// A payload with shell metacharacters never auto-approves under an
// allowlist rule, no matter what precedes them.
func TestClassifyMetacharactersFailClosed(t *testing.T) {
	c := safety.NewClassifier(safety.DefaultPolicy())

	rapid.Check(t, func(t *rapid.T) {
		prefix := rapid.SampledFrom([]string{"ls", "echo hi", "cat file", "pwd"}).Draw(t, "prefix")
		meta := rapid.SampledFrom([]string{"|", ";", "&", ">", "<", "`", "$", "\n"}).Draw(t, "meta")
		suffix := rapid.StringN(0, 20, -1).Draw(t, "suffix")

		payload := prefix + meta + suffix
		if got := c.Classify("shell", payload); got != safety.NeedsConfirmation {
			t.Fatalf("Classify(shell, %q) = %v, want %v", payload, got, safety.NeedsConfirmation)
		}
	})
}

func TestLoadPolicy(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "policy.yaml")
	policyYAML := `
capabilities:
  shell:
    mode: allowlist
    allow_prefixes: [ls, git]
  deploy:
    mode: confirm
`
	if err := os.WriteFile(file, []byte(policyYAML), 0o644); err != nil {
		t.Fatal(err)
	}

	policy, err := safety.LoadPolicy(file)
	if err != nil {
		t.Fatalf("LoadPolicy() unexpected error: %v", err)
	}
	c := safety.NewClassifier(policy)

	// The file's shell rule replaces the default allowlist wholesale.
	if got := c.Classify("shell", "git status"); got != safety.AutoApproved {
		t.Errorf("Classify(shell, git status) = %v, want %v", got, safety.AutoApproved)
	}
	if got := c.Classify("shell", "echo hi"); got != safety.NeedsConfirmation {
		t.Errorf("Classify(shell, echo hi) = %v, want %v", got, safety.NeedsConfirmation)
	}
	// Untouched defaults survive the merge.
	if got := c.Classify("search", "query"); got != safety.AutoApproved {
		t.Errorf("Classify(search, query) = %v, want %v", got, safety.AutoApproved)
	}
	if got := c.Classify("deploy", "x"); got != safety.NeedsConfirmation {
		t.Errorf("Classify(deploy, x) = %v, want %v", got, safety.NeedsConfirmation)
	}
}

func TestLoadPolicyMissingFile(t *testing.T) {
	if _, err := safety.LoadPolicy(filepath.Join(t.TempDir(), "absent.yaml")); err == nil {
		t.Error("LoadPolicy() on a missing file succeeded, want error")
	}
}
