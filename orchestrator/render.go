package orchestrator

import (
	"fmt"
	"strings"
	"time"

	"github.com/tailored-agentic-units/assistant/capability"
	"github.com/tailored-agentic-units/assistant/core/protocol"
)

const declinedText = "Okay, command was not executed."

// renderConfirmationPrompt builds the assistant message that asks the
// user to approve a parked request. The reasoning function's utterance
// (if any) comes first; the payload is always rendered verbatim so the
// user sees exactly what would run.
func renderConfirmationPrompt(utterance string, req protocol.CapabilityRequest) string {
	var b strings.Builder
	if utterance != "" {
		b.WriteString(utterance)
		b.WriteString("\n\n")
	}
	fmt.Fprintf(&b, "Approval required to run `%s` via the %s capability. Reply \"yes\" to run it or \"no\" to cancel.",
		req.Payload, req.Capability)
	return b.String()
}

// renderResult folds a capability result into assistant content, payload
// verbatim in the executed block.
func renderResult(req protocol.CapabilityRequest, result capability.Result) protocol.Message {
	output := strings.TrimSpace(result.Output)
	if output == "" {
		output = "(no output)"
	}
	elapsed := result.Elapsed.Round(time.Millisecond)

	var content string
	if result.OK {
		content = fmt.Sprintf("Executed `%s` via %s in %s.\n\nOutput:\n```\n%s\n```",
			req.Payload, req.Capability, elapsed, output)
	} else {
		content = fmt.Sprintf("Running `%s` via %s failed after %s.\n\n```\n%s\n```",
			req.Payload, req.Capability, elapsed, output)
	}
	return protocol.NewMessage(protocol.RoleAssistant, content)
}

// renderReasoningFailure translates a reasoning-function error into
// user-facing assistant content. Content-filter rejections get a specific
// explanation; everything else gets a generic recoverable-error message,
// since upstream error text is not meant for end users.
func renderReasoningFailure(err error) string {
	text := err.Error()
	if strings.Contains(text, "content_filter") || strings.Contains(text, "ResponsibleAIPolicyViolation") {
		return "Sorry, I cannot process this request due to content policy restrictions. Please try rephrasing your request."
	}
	return "An error occurred while processing your request. Please try again."
}
