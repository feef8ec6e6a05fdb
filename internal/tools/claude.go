package tools

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	osexec "os/exec"
	"strconv"
	"strings"
	"sync"
	"syscall"
	"time"
)

// ClaudeCodeInput defines input for the claude_code tool.
type ClaudeCodeInput struct {
	Task    string `json:"task" jsonschema_description:"The task to execute"`
	Workdir string `json:"workdir,omitempty" jsonschema_description:"Optional working directory path"`
}

// ClaudeCodeSetWorkdirInput defines input for the claude_code_set_workdir tool.
type ClaudeCodeSetWorkdirInput struct {
	Path string `json:"path" jsonschema_description:"Path to the working directory"`
}

// ClaudeCodeConfig configures the Claude Code CLI integration.
type ClaudeCodeConfig struct {
	// Command is the CLI binary to invoke.
	Command string
	// Workdir seeds the stored working directory; empty inherits the process cwd.
	Workdir string
	// MaxTurns > 0 appends --max-turns N to task invocations.
	MaxTurns int
	// Timeout bounds a single invocation; zero means no bound.
	Timeout time.Duration
}

// ClaudeCode runs coding tasks through the Claude Code CLI in a subprocess.
// The stored working directory is shared mutable state guarded by mu.
type ClaudeCode struct {
	command  string
	maxTurns int
	timeout  time.Duration
	logger   *slog.Logger

	mu      sync.RWMutex
	workdir string
}

// NewClaudeCode creates the Claude Code tool group.
func NewClaudeCode(cfg ClaudeCodeConfig, logger *slog.Logger) (*ClaudeCode, error) {
	if cfg.Command == "" {
		return nil, fmt.Errorf("command is required")
	}
	if logger == nil {
		return nil, fmt.Errorf("logger is required")
	}

	return &ClaudeCode{
		command:  cfg.Command,
		maxTurns: cfg.MaxTurns,
		timeout:  cfg.Timeout,
		logger:   logger,
		workdir:  cfg.Workdir,
	}, nil
}

// Execute runs a single task through the CLI and returns its stdout. The
// working directory is the input's workdir if given, else the stored one,
// else the inherited process directory.
func (c *ClaudeCode) Execute(ctx context.Context, in ClaudeCodeInput) (string, error) {
	dir := in.Workdir
	if dir == "" {
		dir = c.currentWorkdir()
	}

	args := []string{"--print", in.Task}
	if c.maxTurns > 0 {
		args = append(args, "--max-turns", strconv.Itoa(c.maxTurns))
	}

	c.logger.Debug("running claude code task", "workdir", dir, "max_turns", c.maxTurns)

	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	cmd := osexec.CommandContext(ctx, c.command, args...)
	cmd.Dir = dir
	cmd.SysProcAttr = &syscall.SysProcAttr{Setpgid: true}
	cmd.Cancel = func() error {
		// Kill the whole process group so CLI children die with it.
		return syscall.Kill(-cmd.Process.Pid, syscall.SIGKILL)
	}

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		var exitErr *osexec.ExitError
		isRealExit := errors.As(err, &exitErr) && exitErr.ExitCode() >= 0
		if !isRealExit && ctx.Err() != nil {
			return "", Wrapf(KindTransport, ctx.Err(), "Failed to run Claude Code: %v", ctx.Err())
		}
		if isRealExit {
			return "", Errf(KindRemote, "Claude Code failed: %s\n%s", stdout.String(), stderr.String())
		}
		return "", Wrapf(KindTransport, err, "Failed to run Claude Code: %v", err)
	}
	return stdout.String(), nil
}

// Workdir returns the stored working directory, or "Not set".
func (c *ClaudeCode) Workdir(_ context.Context) (string, error) {
	dir := c.currentWorkdir()
	if dir == "" {
		return "Not set", nil
	}
	return dir, nil
}

// SetWorkdir validates and stores the working directory for later tasks. The
// stored value is unchanged when the path does not exist.
func (c *ClaudeCode) SetWorkdir(_ context.Context, in ClaudeCodeSetWorkdirInput) (string, error) {
	if _, err := os.Stat(in.Path); err != nil {
		return "", Wrapf(KindValidation, err, "Path does not exist: %s", in.Path)
	}

	c.mu.Lock()
	c.workdir = in.Path
	c.mu.Unlock()

	c.logger.Debug("claude code workdir updated", "path", in.Path)
	return "Working directory set to: " + in.Path, nil
}

// Status checks that the CLI is installed and responsive.
func (c *ClaudeCode) Status(ctx context.Context) (string, error) {
	cmd := osexec.CommandContext(ctx, c.command, "--version")

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		var exitErr *osexec.ExitError
		if errors.As(err, &exitErr) {
			return "", Wrapf(KindRemote, err, "Claude Code CLI not authenticated or configured")
		}
		return "", Wrapf(KindTransport, err, "Claude Code CLI not installed")
	}

	workdir, _ := c.Workdir(ctx)
	return fmt.Sprintf("Claude Code: Available\nVersion: %s\nWorkdir: %s",
		strings.TrimSpace(stdout.String()), workdir), nil
}

func (c *ClaudeCode) currentWorkdir() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.workdir
}
