package tools

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
)

// NotesListInput defines input for the ors_list_notes tool.
type NotesListInput struct {
	UserID string `json:"user_id" jsonschema_description:"User ID"`
}

// NotesAddInput defines input for the ors_add_note tool.
type NotesAddInput struct {
	UserID   string `json:"user_id" jsonschema_description:"User ID"`
	Content  string `json:"content" jsonschema_description:"Note content"`
	Category string `json:"category,omitempty" jsonschema_description:"Category (optional)"`
}

// NotesArchiveInput defines input for the ors_archive_note tool.
type NotesArchiveInput struct {
	NoteID string `json:"note_id" jsonschema_description:"Note ID"`
}

// Notes manages ORS (Organic Response System) observations through the Clara
// API: the notes that drive proactive conversations.
type Notes struct {
	baseURL string
	client  *http.Client
	logger  *slog.Logger
}

// NewNotes creates the notes tool group against the Clara API at baseURL.
func NewNotes(baseURL string, client *http.Client, logger *slog.Logger) (*Notes, error) {
	if baseURL == "" {
		return nil, fmt.Errorf("base URL is required")
	}
	if client == nil {
		return nil, fmt.Errorf("HTTP client is required")
	}
	if logger == nil {
		return nil, fmt.Errorf("logger is required")
	}

	return &Notes{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  client,
		logger:  logger,
	}, nil
}

// List returns the active notes for a user as the API renders them. A
// non-success response means no active notes rather than a failure.
func (n *Notes) List(ctx context.Context, in NotesListInput) (string, error) {
	n.logger.Debug("listing notes", "user_id", in.UserID)

	u := n.baseURL + "/ors/notes/" + url.PathEscape(in.UserID)
	resp, err := doJSON(ctx, n.client, http.MethodGet, u, nil)
	if err != nil {
		return "", Wrapf(KindTransport, err, "Failed to list notes: %v", err)
	}
	defer resp.Body.Close()

	if !is2xx(resp.StatusCode) {
		return "No active notes found.", nil
	}

	body, err := readBody(resp)
	if err != nil {
		return "", Wrapf(KindTransport, err, "Failed to list notes: %v", err)
	}
	return body, nil
}

// Add records a new note, defaulting the category to "general".
func (n *Notes) Add(ctx context.Context, in NotesAddInput) (string, error) {
	n.logger.Debug("adding note", "user_id", in.UserID, "category", in.Category)

	category := in.Category
	if category == "" {
		category = "general"
	}
	payload := map[string]any{
		"user_id":  in.UserID,
		"content":  in.Content,
		"category": category,
	}

	resp, err := doJSON(ctx, n.client, http.MethodPost, n.baseURL+"/ors/notes", payload)
	if err != nil {
		return "", Wrapf(KindTransport, err, "Failed to add note: %v", err)
	}
	defer resp.Body.Close()

	if !is2xx(resp.StatusCode) {
		body, _ := readBody(resp)
		return "", Errf(KindRemote, "Failed to add note: %s", body)
	}
	return "Note added successfully.", nil
}

// Archive marks a note as handled so it stops driving conversations.
func (n *Notes) Archive(ctx context.Context, in NotesArchiveInput) (string, error) {
	n.logger.Debug("archiving note", "note_id", in.NoteID)

	u := n.baseURL + "/ors/notes/" + url.PathEscape(in.NoteID) + "/archive"
	resp, err := doJSON(ctx, n.client, http.MethodPost, u, nil)
	if err != nil {
		return "", Wrapf(KindTransport, err, "Failed to archive note: %v", err)
	}
	defer resp.Body.Close()

	if !is2xx(resp.StatusCode) {
		body, _ := readBody(resp)
		return "", Errf(KindRemote, "Failed to archive note: %s", body)
	}
	return "Note archived.", nil
}
