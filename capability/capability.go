// Package capability defines the contract for side-effecting operations
// the assistant may request (shell execution, web search, browser
// automation) and a registry resolving requested names to handlers.
//
// New capabilities are added by registration, never by modifying the
// orchestrator.
package capability

import (
	"context"
	"time"
)

// Result is the outcome of one capability invocation. It is transient:
// the orchestrator folds it into an assistant message rather than
// persisting it on its own.
type Result struct {
	OK      bool          // false when the invocation failed or timed out
	Output  string        // capability output, or a diagnostic when OK is false
	Elapsed time.Duration // wall-clock duration, recorded by the sandbox
}

// Capability is a named, side-effecting operation. Invoke must honor the
// context deadline internally (terminating any underlying work, not merely
// abandoning it) and should report operational failures through the
// Result. A returned error means the handler itself faulted; the sandbox
// translates it into a failure Result so faults never reach the
// orchestrator.
type Capability interface {
	Name() string
	Description() string
	Invoke(ctx context.Context, payload string) (Result, error)
}

// Func adapts a plain function into a Capability.
type Func struct {
	name        string
	description string
	fn          func(ctx context.Context, payload string) (Result, error)
}

// NewFunc wraps name, description, and an invoke function as a Capability.
func NewFunc(name, description string, fn func(ctx context.Context, payload string) (Result, error)) Func {
	return Func{name: name, description: description, fn: fn}
}

func (f Func) Name() string        { return f.name }
func (f Func) Description() string { return f.description }

func (f Func) Invoke(ctx context.Context, payload string) (Result, error) {
	return f.fn(ctx, payload)
}
