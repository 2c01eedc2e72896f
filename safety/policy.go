// Package safety decides whether a requested capability invocation may run
// without explicit user confirmation. Classification is pure, total, and
// default-deny: anything a rule does not positively allow needs
// confirmation.
package safety

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Mode selects how a capability's payloads are classified.
type Mode string

const (
	// ModeAuto approves every payload for the capability.
	ModeAuto Mode = "auto"
	// ModeConfirm requires confirmation for every payload.
	ModeConfirm Mode = "confirm"
	// ModeAllowlist approves payloads whose command word matches one of
	// the rule's allow prefixes; everything else needs confirmation.
	ModeAllowlist Mode = "allowlist"
)

// Rule is the per-capability classification policy.
type Rule struct {
	Mode          Mode     `yaml:"mode" json:"mode"`
	AllowPrefixes []string `yaml:"allow_prefixes,omitempty" json:"allow_prefixes,omitempty"`
}

// Policy maps capability names to rules. Capabilities without a rule are
// classified needs-confirmation. The zero value denies everything.
type Policy struct {
	Capabilities map[string]Rule `yaml:"capabilities" json:"capabilities"`
}

// readOnlyShellCommands are command words considered non-destructive
// enough to run without confirmation when the shell rule is in allowlist
// mode.
var readOnlyShellCommands = []string{
	"ls", "pwd", "whoami", "date", "echo", "cat",
	"head", "tail", "wc", "which", "uname", "hostname",
}

// DefaultPolicy returns the builtin policy: shell restricted to read-only
// command prefixes, search auto-approved, browser gated on confirmation.
func DefaultPolicy() Policy {
	return Policy{
		Capabilities: map[string]Rule{
			"shell":   {Mode: ModeAllowlist, AllowPrefixes: readOnlyShellCommands},
			"search":  {Mode: ModeAuto},
			"browser": {Mode: ModeConfirm},
		},
	}
}

// Merge applies non-empty rules from source into p. Source rules replace
// same-named rules wholesale.
func (p *Policy) Merge(source *Policy) {
	if len(source.Capabilities) == 0 {
		return
	}
	if p.Capabilities == nil {
		p.Capabilities = make(map[string]Rule, len(source.Capabilities))
	}
	for name, rule := range source.Capabilities {
		p.Capabilities[name] = rule
	}
}

// LoadPolicy reads a YAML policy file and merges it over DefaultPolicy.
func LoadPolicy(filename string) (Policy, error) {
	policy := DefaultPolicy()

	data, err := os.ReadFile(filename)
	if err != nil {
		return Policy{}, fmt.Errorf("failed to read policy file: %w", err)
	}

	var loaded Policy
	if err := yaml.Unmarshal(data, &loaded); err != nil {
		return Policy{}, fmt.Errorf("failed to parse policy file: %w", err)
	}

	policy.Merge(&loaded)
	return policy, nil
}
