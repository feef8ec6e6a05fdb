package mcp

import (
	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/BangRocket/mypalclara/internal/tools"
)

// registerSandboxTools registers the code execution sandbox tools.
// Tools: execute_python, install_package, sandbox_read_file,
// sandbox_write_file, sandbox_list_files, run_shell
func registerSandboxTools(r *Registry, sandbox *tools.Sandbox) error {
	if err := Register(r, "sandbox", &mcp.Tool{
		Name:        "execute_python",
		Description: "Execute Python code in a sandboxed environment",
	}, sandbox.ExecutePython); err != nil {
		return err
	}
	if err := Register(r, "sandbox", &mcp.Tool{
		Name:        "install_package",
		Description: "Install a Python package in the sandbox",
	}, sandbox.InstallPackage); err != nil {
		return err
	}
	if err := Register(r, "sandbox", &mcp.Tool{
		Name:        "sandbox_read_file",
		Description: "Read a file from the sandbox",
	}, sandbox.ReadFile); err != nil {
		return err
	}
	if err := Register(r, "sandbox", &mcp.Tool{
		Name:        "sandbox_write_file",
		Description: "Write content to a file in the sandbox",
	}, sandbox.WriteFile); err != nil {
		return err
	}
	if err := Register(r, "sandbox", &mcp.Tool{
		Name:        "sandbox_list_files",
		Description: "List files in a sandbox directory",
	}, sandbox.ListFiles); err != nil {
		return err
	}
	if err := Register(r, "sandbox", &mcp.Tool{
		Name:        "run_shell",
		Description: "Run a shell command in the sandbox",
	}, sandbox.RunShell); err != nil {
		return err
	}
	return nil
}
