// Package shell provides the confirmation-gated command execution
// capability. Payloads are single-line shell command strings run through
// the system shell; on deadline expiry the whole process group is killed
// so spawned children are never orphaned.
package shell

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"runtime"
	"strings"

	"github.com/tailored-agentic-units/assistant/capability"
)

// Capability executes shell commands.
type Capability struct{}

// New creates the shell capability.
func New() Capability {
	return Capability{}
}

func (Capability) Name() string {
	return "shell"
}

func (Capability) Description() string {
	return "Runs a single-line shell command and returns its output. Use for system operations, file management, and running programs."
}

// Invoke runs the payload as a shell command. Operational failures
// (nonzero exit, termination on deadline) come back as failure Results
// with the captured output; only inability to start the process at all is
// a handler fault.
func (Capability) Invoke(ctx context.Context, payload string) (capability.Result, error) {
	command := strings.TrimSpace(payload)
	if command == "" {
		return capability.Result{Output: "empty command"}, nil
	}

	var cmd *exec.Cmd
	if runtime.GOOS == "windows" {
		cmd = exec.Command("cmd", "/C", command)
	} else {
		cmd = exec.Command("sh", "-c", command)
	}
	configureCommandProcess(cmd)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Start(); err != nil {
		return capability.Result{}, fmt.Errorf("start command: %w", err)
	}

	done := make(chan error, 1)
	go func() { done <- cmd.Wait() }()

	select {
	case <-ctx.Done():
		terminateCommandProcess(cmd)
		<-done
		output := renderOutput(&stdout, &stderr, nil)
		return capability.Result{
			Output: strings.TrimSpace(output + "\ncommand terminated: " + ctx.Err().Error()),
		}, nil
	case err := <-done:
		output := renderOutput(&stdout, &stderr, err)
		if err != nil {
			return capability.Result{Output: output}, nil
		}
		if output == "" {
			output = "Command executed successfully (no output)"
		}
		return capability.Result{OK: true, Output: output}, nil
	}
}

func renderOutput(stdout, stderr *bytes.Buffer, waitErr error) string {
	output := stdout.String()
	if stderr.Len() > 0 {
		output += "\nSTDERR: " + stderr.String()
	}
	if exitErr, ok := waitErr.(*exec.ExitError); ok {
		output += fmt.Sprintf("\nReturn code: %d", exitErr.ExitCode())
	} else if waitErr != nil {
		output += "\n" + waitErr.Error()
	}
	return strings.TrimSpace(output)
}
