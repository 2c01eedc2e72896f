package orchestrator

import "strings"

// Confirmation grammar: fixed token sets, not free-text intent inference.
// A reply confirms when it contains at least one affirmative token and no
// negative token, denies in the mirror case, and is otherwise ambiguous.
// Surrounding text does not matter ("yes please" confirms); conflicting
// tokens do ("yes and no" is ambiguous).
var (
	affirmativeTokens = map[string]bool{
		"yes": true, "y": true, "confirm": true, "approve": true,
	}
	negativeTokens = map[string]bool{
		"no": true, "n": true, "deny": true, "cancel": true, "decline": true,
	}
)

// ParseConfirmation matches a reply against the confirmation grammar.
// recognized is false when the reply is ambiguous; confirmed is only
// meaningful when recognized is true.
func ParseConfirmation(reply string) (confirmed, recognized bool) {
	normalized := strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			return r
		case r >= 'A' && r <= 'Z':
			return r + ('a' - 'A')
		default:
			return ' '
		}
	}, reply)

	var affirmative, negative bool
	for _, token := range strings.Fields(normalized) {
		if affirmativeTokens[token] {
			affirmative = true
		}
		if negativeTokens[token] {
			negative = true
		}
	}

	switch {
	case affirmative && !negative:
		return true, true
	case negative && !affirmative:
		return false, true
	default:
		return false, false
	}
}

// ConfirmationToken returns the canonical sentinel token for a structured
// confirm/deny decision. The transport uses it to translate a UI
// affordance into the grammar instead of relying on free-text parsing.
func ConfirmationToken(confirmed bool) string {
	if confirmed {
		return "yes"
	}
	return "no"
}
