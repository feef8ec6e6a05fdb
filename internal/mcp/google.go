package mcp

import (
	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/BangRocket/mypalclara/internal/tools"
)

// registerGoogleTools registers the Google Workspace tools. All of them
// authenticate through the Clara API's OAuth token broker.
// Tools: calendar_list_events, calendar_create_event, sheets_read,
// sheets_write, drive_list, drive_download
func registerGoogleTools(r *Registry, google *tools.Google) error {
	if err := Register(r, "google", &mcp.Tool{
		Name:        "calendar_list_events",
		Description: "List upcoming Google Calendar events for a user",
	}, google.CalendarListEvents); err != nil {
		return err
	}
	if err := Register(r, "google", &mcp.Tool{
		Name:        "calendar_create_event",
		Description: "Create a Google Calendar event",
	}, google.CalendarCreateEvent); err != nil {
		return err
	}
	if err := Register(r, "google", &mcp.Tool{
		Name:        "sheets_read",
		Description: "Read a range from a Google Sheet",
	}, google.SheetsRead); err != nil {
		return err
	}
	if err := Register(r, "google", &mcp.Tool{
		Name:        "sheets_write",
		Description: "Write values to a range in a Google Sheet",
	}, google.SheetsWrite); err != nil {
		return err
	}
	if err := Register(r, "google", &mcp.Tool{
		Name:        "drive_list",
		Description: "List files in Google Drive",
	}, google.DriveList); err != nil {
		return err
	}
	if err := Register(r, "google", &mcp.Tool{
		Name:        "drive_download",
		Description: "Download a file from Google Drive",
	}, google.DriveDownload); err != nil {
		return err
	}
	return nil
}
