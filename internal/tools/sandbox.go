package tools

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
)

// ExecutePythonInput defines input for the execute_python tool.
type ExecutePythonInput struct {
	Code string `json:"code" jsonschema_description:"Python code to execute"`
}

// InstallPackageInput defines input for the install_package tool.
type InstallPackageInput struct {
	Package string `json:"package" jsonschema_description:"Package name to install"`
}

// SandboxReadFileInput defines input for the sandbox_read_file tool.
type SandboxReadFileInput struct {
	Path string `json:"path" jsonschema_description:"File or directory path"`
}

// SandboxWriteFileInput defines input for the sandbox_write_file tool.
type SandboxWriteFileInput struct {
	Path    string `json:"path" jsonschema_description:"File path"`
	Content string `json:"content" jsonschema_description:"Content to write"`
}

// SandboxListFilesInput defines input for the sandbox_list_files tool.
type SandboxListFilesInput struct {
	Path string `json:"path,omitempty" jsonschema_description:"Directory path (optional)"`
}

// RunShellInput defines input for the run_shell tool.
type RunShellInput struct {
	Command string `json:"command" jsonschema_description:"Shell command"`
}

// SandboxConfig configures the sandbox client. An empty BaseURL means the
// sandbox is not configured; every call then fails with a clear message
// instead of dialing nowhere.
type SandboxConfig struct {
	BaseURL string
	APIKey  string
}

// Sandbox executes Python code and shell commands in an isolated remote
// environment, and moves files in and out of it.
type Sandbox struct {
	baseURL string
	apiKey  string
	client  *http.Client
	logger  *slog.Logger
}

// NewSandbox creates the sandbox tool group.
func NewSandbox(cfg SandboxConfig, client *http.Client, logger *slog.Logger) (*Sandbox, error) {
	if client == nil {
		return nil, fmt.Errorf("HTTP client is required")
	}
	if logger == nil {
		return nil, fmt.Errorf("logger is required")
	}

	return &Sandbox{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		apiKey:  cfg.APIKey,
		client:  client,
		logger:  logger,
	}, nil
}

type sandboxResponse struct {
	Success bool    `json:"success"`
	Output  *string `json:"output"`
	Error   *string `json:"error"`
}

// ExecutePython runs Python code in the sandbox and returns its output.
func (s *Sandbox) ExecutePython(ctx context.Context, in ExecutePythonInput) (string, error) {
	return s.call(ctx, "/execute", map[string]any{
		"code":     in.Code,
		"language": "python",
	})
}

// InstallPackage installs a Python package into the sandbox environment.
func (s *Sandbox) InstallPackage(ctx context.Context, in InstallPackageInput) (string, error) {
	return s.call(ctx, "/install", map[string]any{"package": in.Package})
}

// ReadFile returns the content of a file inside the sandbox.
func (s *Sandbox) ReadFile(ctx context.Context, in SandboxReadFileInput) (string, error) {
	return s.call(ctx, "/files/read", map[string]any{"path": in.Path})
}

// WriteFile writes content to a file inside the sandbox.
func (s *Sandbox) WriteFile(ctx context.Context, in SandboxWriteFileInput) (string, error) {
	return s.call(ctx, "/files/write", map[string]any{
		"path":    in.Path,
		"content": in.Content,
	})
}

// ListFiles lists a sandbox directory, defaulting to /home/user.
func (s *Sandbox) ListFiles(ctx context.Context, in SandboxListFilesInput) (string, error) {
	dir := in.Path
	if dir == "" {
		dir = "/home/user"
	}
	return s.call(ctx, "/files/list", map[string]any{"path": dir})
}

// RunShell runs a shell command in the sandbox and returns its output.
func (s *Sandbox) RunShell(ctx context.Context, in RunShellInput) (string, error) {
	return s.call(ctx, "/shell", map[string]any{"command": in.Command})
}

// call posts one JSON request to the sandbox API and unwraps its
// success/output/error envelope.
func (s *Sandbox) call(ctx context.Context, endpoint string, payload map[string]any) (string, error) {
	if s.baseURL == "" {
		return "", Errf(KindRemote, "SANDBOX_API_URL not configured")
	}

	s.logger.Debug("calling sandbox", "endpoint", endpoint)

	data, err := json.Marshal(payload)
	if err != nil {
		return "", Wrapf(KindTransport, err, "Sandbox request failed: %v", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.baseURL+endpoint, bytes.NewReader(data))
	if err != nil {
		return "", Wrapf(KindTransport, err, "Sandbox request failed: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if s.apiKey != "" {
		req.Header.Set("X-API-Key", s.apiKey)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return "", Wrapf(KindTransport, err, "Sandbox request failed: %v", err)
	}
	defer resp.Body.Close()

	body, err := readBody(resp)
	if err != nil {
		return "", Wrapf(KindTransport, err, "Sandbox request failed: %v", err)
	}
	if !is2xx(resp.StatusCode) {
		return "", Errf(KindRemote, "Sandbox API error %s: %s", resp.Status, body)
	}

	var out sandboxResponse
	if err := json.Unmarshal([]byte(body), &out); err != nil {
		return "", Wrapf(KindDecode, err, "Failed to parse response: %v", err)
	}
	if !out.Success {
		if out.Error != nil {
			return "", Errf(KindRemote, "%s", *out.Error)
		}
		return "", Errf(KindRemote, "Unknown error")
	}
	return strOr(out.Output, ""), nil
}
