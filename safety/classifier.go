package safety

import "strings"

// Decision is the classification outcome for a requested invocation.
type Decision string

const (
	AutoApproved      Decision = "auto-approved"
	NeedsConfirmation Decision = "needs-confirmation"
)

// shellMetacharacters disqualify a payload from allowlist approval even
// when its command word matches: chaining, redirection, and substitution
// can smuggle a second command behind an allowed prefix.
const shellMetacharacters = "|;&><`$\n"

// Classifier applies a Policy to requested invocations. It is stateless
// and safe for concurrent use.
type Classifier struct {
	policy Policy
}

// NewClassifier creates a Classifier for the given policy.
func NewClassifier(policy Policy) *Classifier {
	return &Classifier{policy: policy}
}

// Classify returns the decision for one capability invocation. It is a
// total function: any input, including unknown capabilities and malformed
// payloads, yields a decision, and the same input always yields the same
// decision.
func (c *Classifier) Classify(capability, payload string) Decision {
	rule, exists := c.policy.Capabilities[capability]
	if !exists {
		return NeedsConfirmation
	}

	switch rule.Mode {
	case ModeAuto:
		return AutoApproved
	case ModeAllowlist:
		return classifyAllowlist(rule.AllowPrefixes, payload)
	default:
		return NeedsConfirmation
	}
}

func classifyAllowlist(prefixes []string, payload string) Decision {
	if strings.ContainsAny(payload, shellMetacharacters) {
		return NeedsConfirmation
	}

	fields := strings.Fields(payload)
	if len(fields) == 0 {
		return NeedsConfirmation
	}

	command := strings.ToLower(fields[0])
	for _, prefix := range prefixes {
		if command == strings.ToLower(prefix) {
			return AutoApproved
		}
	}
	return NeedsConfirmation
}
