// Package sandbox runs exactly one capability invocation per call under a
// bounded wall-clock deadline, isolating handler failures from the
// orchestrator. The caller always receives a CapabilityResult
// synchronously, even on timeout, handler error, or panic.
package sandbox

import (
	"context"
	"fmt"
	"time"

	"github.com/tailored-agentic-units/assistant/capability"
)

const defaultDeadlineSeconds = 30

// Config holds Runner initialization parameters.
type Config struct {
	// DeadlineSeconds bounds each invocation's wall-clock duration.
	DeadlineSeconds int `json:"deadline_seconds,omitempty"`
}

// DefaultConfig returns a Config with the default 30-second deadline.
func DefaultConfig() Config {
	return Config{DeadlineSeconds: defaultDeadlineSeconds}
}

// Merge applies non-zero values from source into c.
func (c *Config) Merge(source *Config) {
	if source.DeadlineSeconds > 0 {
		c.DeadlineSeconds = source.DeadlineSeconds
	}
}

// Runner dispatches invocations to the capability registry.
type Runner struct {
	deadline time.Duration
}

// NewRunner creates a Runner from configuration.
func NewRunner(cfg *Config) *Runner {
	deadline := time.Duration(cfg.DeadlineSeconds) * time.Second
	if deadline <= 0 {
		deadline = defaultDeadlineSeconds * time.Second
	}
	return &Runner{deadline: deadline}
}

// Deadline returns the per-invocation deadline.
func (r *Runner) Deadline() time.Duration {
	return r.deadline
}

type outcome struct {
	result capability.Result
	err    error
}

// Run invokes the named capability with the payload and returns its
// result. Run never returns an error and never panics: resolution
// failures, handler errors, handler panics, and deadline expiry all come
// back as failure Results with a diagnostic. The handler runs in its own
// goroutine so a handler that ignores context cancellation cannot wedge
// the turn past the deadline; well-behaved handlers observe the
// cancellation and terminate their underlying work.
func (r *Runner) Run(ctx context.Context, name, payload string) capability.Result {
	start := time.Now()

	handler, exists := capability.Get(name)
	if !exists {
		return capability.Result{
			Output:  fmt.Sprintf("%s: %s", capability.ErrNotFound, name),
			Elapsed: time.Since(start),
		}
	}

	ctx, cancel := context.WithTimeout(ctx, r.deadline)
	defer cancel()

	done := make(chan outcome, 1)
	go func() {
		defer func() {
			if p := recover(); p != nil {
				done <- outcome{err: fmt.Errorf("capability %s panicked: %v", name, p)}
			}
		}()
		result, err := handler.Invoke(ctx, payload)
		done <- outcome{result: result, err: err}
	}()

	select {
	case out := <-done:
		if out.err != nil {
			return capability.Result{
				Output:  fmt.Sprintf("capability %s failed: %s", name, out.err),
				Elapsed: time.Since(start),
			}
		}
		out.result.Elapsed = time.Since(start)
		return out.result
	case <-ctx.Done():
		return capability.Result{
			Output:  fmt.Sprintf("capability %s timed out after %s", name, r.deadline),
			Elapsed: time.Since(start),
		}
	}
}
