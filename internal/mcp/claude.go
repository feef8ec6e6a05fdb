package mcp

import (
	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/BangRocket/mypalclara/internal/tools"
)

// registerClaudeTools registers the Claude Code CLI tools.
// Tools: claude_code, claude_code_get_workdir, claude_code_set_workdir,
// claude_code_status
func registerClaudeTools(r *Registry, claude *tools.ClaudeCode) error {
	if err := Register(r, "claude_code", &mcp.Tool{
		Name:        "claude_code",
		Description: "Execute a coding task using Claude Code CLI",
	}, claude.Execute); err != nil {
		return err
	}
	if err := Register(r, "claude_code", &mcp.Tool{
		Name:        "claude_code_get_workdir",
		Description: "Get the current working directory for Claude Code",
	}, noArgs(claude.Workdir)); err != nil {
		return err
	}
	if err := Register(r, "claude_code", &mcp.Tool{
		Name:        "claude_code_set_workdir",
		Description: "Set the working directory for Claude Code",
	}, claude.SetWorkdir); err != nil {
		return err
	}
	if err := Register(r, "claude_code", &mcp.Tool{
		Name:        "claude_code_status",
		Description: "Check Claude Code availability and status",
	}, noArgs(claude.Status)); err != nil {
		return err
	}
	return nil
}
