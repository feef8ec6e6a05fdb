package mcp

import (
	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/BangRocket/mypalclara/internal/tools"
)

// registerNotesTools registers the ORS notes tools.
// Tools: ors_list_notes, ors_add_note, ors_archive_note
func registerNotesTools(r *Registry, notes *tools.Notes) error {
	if err := Register(r, "notes", &mcp.Tool{
		Name:        "ors_list_notes",
		Description: "List ORS notes for a user",
	}, notes.List); err != nil {
		return err
	}
	if err := Register(r, "notes", &mcp.Tool{
		Name:        "ors_add_note",
		Description: "Add an ORS note",
	}, notes.Add); err != nil {
		return err
	}
	if err := Register(r, "notes", &mcp.Tool{
		Name:        "ors_archive_note",
		Description: "Archive an ORS note",
	}, notes.Archive); err != nil {
		return err
	}
	return nil
}
