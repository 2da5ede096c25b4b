package plugin

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os/exec"
	"time"
)

// DefaultTimeoutMs bounds a plugin run when no timeout is configured.
const DefaultTimeoutMs = 5000

const waitDelay = 500 * time.Millisecond

// Executor handles the execution of plugins with timeout support.
type Executor struct {
	timeoutMs int
}

// NewExecutor creates a new Executor with the specified timeout in milliseconds.
// A non-positive timeout selects DefaultTimeoutMs.
func NewExecutor(timeoutMs int) *Executor {
	if timeoutMs <= 0 {
		timeoutMs = DefaultTimeoutMs
	}
	return &Executor{
		timeoutMs: timeoutMs,
	}
}

// Timeout returns the per-run deadline.
func (e *Executor) Timeout() time.Duration {
	return time.Duration(e.timeoutMs) * time.Millisecond
}

// Execute runs a plugin with the given request and returns the response.
// The request is written to the plugin's stdin as JSON and its stdout is parsed
// as a Response. The run is cancelled when ctx is done or the executor's
// timeout passes, whichever comes first.
func (e *Executor) Execute(ctx context.Context, plugin *Plugin, req *Request) (*Response, error) {
	ctx, cancel := context.WithTimeout(ctx, e.Timeout())
	defer cancel()

	cmd := exec.CommandContext(ctx, plugin.Executable)
	cmd.Dir = plugin.Path
	// Children of the plugin may keep stdout open after it is killed.
	cmd.WaitDelay = waitDelay

	reqJSON, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}
	cmd.Stdin = bytes.NewReader(reqJSON)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err = cmd.Run()

	if errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return nil, fmt.Errorf("plugin execution timeout after %dms", e.timeoutMs)
	}
	if errors.Is(ctx.Err(), context.Canceled) {
		return nil, fmt.Errorf("plugin execution cancelled: %w", ctx.Err())
	}

	if err != nil {
		stderrStr := stderr.String()
		if stderrStr != "" {
			return nil, fmt.Errorf("plugin execution failed: %w, stderr: %s", err, stderrStr)
		}
		return nil, fmt.Errorf("plugin execution failed: %w", err)
	}

	var response Response
	if err := json.Unmarshal(stdout.Bytes(), &response); err != nil {
		return nil, fmt.Errorf("failed to parse plugin response: %w, stdout: %s", err, stdout.String())
	}

	return &response, nil
}
