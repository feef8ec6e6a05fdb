package mcp

import (
	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/BangRocket/mypalclara/internal/tools"
)

// registerFileTools registers the local file storage tools.
// Tools: save_file, list_files, read_file, delete_file,
// download_from_sandbox, upload_to_sandbox
func registerFileTools(r *Registry, files *tools.Files) error {
	if err := Register(r, "files", &mcp.Tool{
		Name:        "save_file",
		Description: "Save a file to persistent local storage for a user",
	}, files.Save); err != nil {
		return err
	}
	if err := Register(r, "files", &mcp.Tool{
		Name:        "list_files",
		Description: "List saved files for a user",
	}, files.List); err != nil {
		return err
	}
	if err := Register(r, "files", &mcp.Tool{
		Name:        "read_file",
		Description: "Read a saved file from local storage",
	}, files.Read); err != nil {
		return err
	}
	if err := Register(r, "files", &mcp.Tool{
		Name:        "delete_file",
		Description: "Delete a saved file from local storage",
	}, files.Delete); err != nil {
		return err
	}
	if err := Register(r, "files", &mcp.Tool{
		Name:        "download_from_sandbox",
		Description: "Download a file from the sandbox to persistent local storage",
	}, files.DownloadFromSandbox); err != nil {
		return err
	}
	if err := Register(r, "files", &mcp.Tool{
		Name:        "upload_to_sandbox",
		Description: "Upload a saved file from local storage to the sandbox",
	}, files.UploadToSandbox); err != nil {
		return err
	}
	return nil
}
