package plugin

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os/exec"
	"strings"
	"time"
)

// DefaultTimeoutMs bounds a single hook run when no timeout is configured.
const DefaultTimeoutMs = 5000

// killGrace is how long a timed-out hook may keep its output pipes open
// after it was killed.
const killGrace = 500 * time.Millisecond

// Executor runs hook executables, one request per process.
type Executor struct {
	timeout time.Duration
}

// NewExecutor returns an Executor that kills hooks running longer than
// timeoutMs. A non-positive timeout uses DefaultTimeoutMs.
func NewExecutor(timeoutMs int) *Executor {
	if timeoutMs <= 0 {
		timeoutMs = DefaultTimeoutMs
	}
	return &Executor{timeout: time.Duration(timeoutMs) * time.Millisecond}
}

// Execute starts p in its own directory, feeds it req as JSON on stdin and
// decodes its stdout as a Response.
func (e *Executor) Execute(ctx context.Context, p *Plugin, req *Request) (*Response, error) {
	payload, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, e.timeout)
	defer cancel()

	var stdout, stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, p.Executable)
	cmd.Dir = p.Path
	cmd.Stdin = bytes.NewReader(payload)
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	cmd.WaitDelay = killGrace

	runErr := cmd.Run()
	if errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return nil, fmt.Errorf("plugin %s: execution timeout after %s", p.Manifest.Name, e.timeout)
	}
	if runErr != nil {
		if msg := strings.TrimSpace(stderr.String()); msg != "" {
			return nil, fmt.Errorf("plugin %s: execution failed: %w: %s", p.Manifest.Name, runErr, msg)
		}
		return nil, fmt.Errorf("plugin %s: execution failed: %w", p.Manifest.Name, runErr)
	}

	var resp Response
	if err := json.Unmarshal(stdout.Bytes(), &resp); err != nil {
		return nil, fmt.Errorf("failed to parse plugin response from %s: %w (stdout %q)", p.Manifest.Name, err, stdout.String())
	}
	return &resp, nil
}
