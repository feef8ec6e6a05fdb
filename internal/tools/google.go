package tools

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

// CalendarListEventsInput defines input for the calendar_list_events tool.
type CalendarListEventsInput struct {
	UserID     string `json:"user_id" jsonschema_description:"User ID"`
	CalendarID string `json:"calendar_id,omitempty" jsonschema_description:"Calendar ID (defaults to primary)"`
	MaxResults int    `json:"max_results,omitempty" jsonschema_description:"Maximum number of events to return (default 10)"`
}

// CalendarCreateEventInput defines input for the calendar_create_event tool.
type CalendarCreateEventInput struct {
	UserID      string `json:"user_id" jsonschema_description:"User ID"`
	Title       string `json:"title" jsonschema_description:"Event title"`
	StartTime   string `json:"start_time" jsonschema_description:"Event start in RFC3339 format"`
	EndTime     string `json:"end_time" jsonschema_description:"Event end in RFC3339 format"`
	Description string `json:"description,omitempty" jsonschema_description:"Event description (optional)"`
}

// SheetsReadInput defines input for the sheets_read tool.
type SheetsReadInput struct {
	UserID        string `json:"user_id" jsonschema_description:"User ID"`
	SpreadsheetID string `json:"spreadsheet_id" jsonschema_description:"Spreadsheet ID"`
	Range         string `json:"range" jsonschema_description:"A1 notation range to read (e.g. Sheet1!A1:C10)"`
}

// SheetsWriteInput defines input for the sheets_write tool.
type SheetsWriteInput struct {
	UserID        string `json:"user_id" jsonschema_description:"User ID"`
	SpreadsheetID string `json:"spreadsheet_id" jsonschema_description:"Spreadsheet ID"`
	Range         string `json:"range" jsonschema_description:"A1 notation range to write"`
	Values        string `json:"values" jsonschema_description:"Two-dimensional JSON array of cell values"`
}

// DriveListInput defines input for the drive_list tool.
type DriveListInput struct {
	UserID string `json:"user_id" jsonschema_description:"User ID"`
	Query  string `json:"query,omitempty" jsonschema_description:"Drive search query (optional)"`
}

// DriveDownloadInput defines input for the drive_download tool.
type DriveDownloadInput struct {
	UserID string `json:"user_id" jsonschema_description:"User ID"`
	FileID string `json:"file_id" jsonschema_description:"Drive file ID"`
}

// GoogleConfig configures the Google tool group. TokenBaseURL points at the
// Clara API hosting the OAuth token broker; the rest are the Google REST
// roots, overridable for tests.
type GoogleConfig struct {
	TokenBaseURL    string
	CalendarBaseURL string
	SheetsBaseURL   string
	DriveBaseURL    string
}

// Google integrates Calendar, Sheets, and Drive on behalf of a user. Every
// operation first trades the user id for an OAuth access token at the Clara
// API broker, then calls the Google REST API with it.
type Google struct {
	tokenBaseURL    string
	calendarBaseURL string
	sheetsBaseURL   string
	driveBaseURL    string
	client          *http.Client
	logger          *slog.Logger
}

// NewGoogle creates the Google Workspace tool group.
func NewGoogle(cfg GoogleConfig, client *http.Client, logger *slog.Logger) (*Google, error) {
	if cfg.TokenBaseURL == "" {
		return nil, fmt.Errorf("token base URL is required")
	}
	if cfg.CalendarBaseURL == "" || cfg.SheetsBaseURL == "" || cfg.DriveBaseURL == "" {
		return nil, fmt.Errorf("Google API base URLs are required")
	}
	if client == nil {
		return nil, fmt.Errorf("HTTP client is required")
	}
	if logger == nil {
		return nil, fmt.Errorf("logger is required")
	}

	return &Google{
		tokenBaseURL:    strings.TrimRight(cfg.TokenBaseURL, "/"),
		calendarBaseURL: strings.TrimRight(cfg.CalendarBaseURL, "/"),
		sheetsBaseURL:   strings.TrimRight(cfg.SheetsBaseURL, "/"),
		driveBaseURL:    strings.TrimRight(cfg.DriveBaseURL, "/"),
		client:          client,
		logger:          logger,
	}, nil
}

// CalendarListEvents returns upcoming events as the Calendar API renders
// them, starting from now and ordered by start time.
func (g *Google) CalendarListEvents(ctx context.Context, in CalendarListEventsInput) (string, error) {
	token, err := g.token(ctx, in.UserID)
	if err != nil {
		return "", err
	}

	calID := in.CalendarID
	if calID == "" {
		calID = "primary"
	}
	maxResults := in.MaxResults
	if maxResults <= 0 {
		maxResults = 10
	}

	g.logger.Debug("listing calendar events", "calendar_id", calID, "max_results", maxResults)

	q := url.Values{}
	q.Set("maxResults", strconv.Itoa(maxResults))
	q.Set("singleEvents", "true")
	q.Set("orderBy", "startTime")
	q.Set("timeMin", time.Now().UTC().Format(time.RFC3339))

	u := g.calendarBaseURL + "/calendars/" + url.PathEscape(calID) + "/events?" + q.Encode()
	body, _, err := g.bearerDo(ctx, http.MethodGet, u, token, nil)
	if err != nil {
		return "", Wrapf(KindTransport, err, "Calendar API failed: %v", err)
	}
	return body, nil
}

// CalendarCreateEvent creates an event on the user's primary calendar.
func (g *Google) CalendarCreateEvent(ctx context.Context, in CalendarCreateEventInput) (string, error) {
	token, err := g.token(ctx, in.UserID)
	if err != nil {
		return "", err
	}

	g.logger.Debug("creating calendar event", "title", in.Title)

	payload := map[string]any{
		"summary":     in.Title,
		"description": in.Description,
		"start":       map[string]any{"dateTime": in.StartTime},
		"end":         map[string]any{"dateTime": in.EndTime},
	}

	body, status, err := g.bearerDo(ctx, http.MethodPost, g.calendarBaseURL+"/calendars/primary/events", token, payload)
	if err != nil {
		return "", Wrapf(KindTransport, err, "Calendar API failed: %v", err)
	}
	if !is2xx(status.code) {
		return "", Errf(KindRemote, "Failed to create event: %s", body)
	}
	return "Created event: " + in.Title, nil
}

// SheetsRead returns a spreadsheet range as the Sheets API renders it.
func (g *Google) SheetsRead(ctx context.Context, in SheetsReadInput) (string, error) {
	token, err := g.token(ctx, in.UserID)
	if err != nil {
		return "", err
	}

	g.logger.Debug("reading sheet range", "spreadsheet_id", in.SpreadsheetID, "range", in.Range)

	u := g.sheetsBaseURL + "/spreadsheets/" + url.PathEscape(in.SpreadsheetID) + "/values/" + url.PathEscape(in.Range)
	body, _, err := g.bearerDo(ctx, http.MethodGet, u, token, nil)
	if err != nil {
		return "", Wrapf(KindTransport, err, "Sheets API failed: %v", err)
	}
	return body, nil
}

// SheetsWrite writes a two-dimensional array of values into a range. The
// values argument must be a JSON array; it is validated before any call.
func (g *Google) SheetsWrite(ctx context.Context, in SheetsWriteInput) (string, error) {
	var values json.RawMessage
	if err := json.Unmarshal([]byte(in.Values), &values); err != nil {
		return "", Wrapf(KindValidation, err, "Invalid JSON values: %v", err)
	}

	token, err := g.token(ctx, in.UserID)
	if err != nil {
		return "", err
	}

	g.logger.Debug("writing sheet range", "spreadsheet_id", in.SpreadsheetID, "range", in.Range)

	u := g.sheetsBaseURL + "/spreadsheets/" + url.PathEscape(in.SpreadsheetID) +
		"/values/" + url.PathEscape(in.Range) + "?valueInputOption=USER_ENTERED"

	body, status, err := g.bearerDo(ctx, http.MethodPut, u, token, map[string]any{"values": values})
	if err != nil {
		return "", Wrapf(KindTransport, err, "Sheets API failed: %v", err)
	}
	if !is2xx(status.code) {
		return "", Errf(KindRemote, "Failed to write: %s", body)
	}
	return "Wrote data to " + in.Range, nil
}

// DriveList returns the user's Drive files as the API renders them,
// optionally filtered by a search query.
func (g *Google) DriveList(ctx context.Context, in DriveListInput) (string, error) {
	token, err := g.token(ctx, in.UserID)
	if err != nil {
		return "", err
	}

	g.logger.Debug("listing drive files", "query", in.Query)

	u := g.driveBaseURL + "/files?pageSize=20"
	if in.Query != "" {
		u += "&q=" + url.QueryEscape(in.Query)
	}

	body, _, err := g.bearerDo(ctx, http.MethodGet, u, token, nil)
	if err != nil {
		return "", Wrapf(KindTransport, err, "Drive API failed: %v", err)
	}
	return body, nil
}

// DriveDownload returns a Drive file's raw content.
func (g *Google) DriveDownload(ctx context.Context, in DriveDownloadInput) (string, error) {
	token, err := g.token(ctx, in.UserID)
	if err != nil {
		return "", err
	}

	g.logger.Debug("downloading drive file", "file_id", in.FileID)

	u := g.driveBaseURL + "/files/" + url.PathEscape(in.FileID) + "?alt=media"
	body, _, err := g.bearerDo(ctx, http.MethodGet, u, token, nil)
	if err != nil {
		return "", Wrapf(KindTransport, err, "Drive API failed: %v", err)
	}
	return body, nil
}

// token trades a user id for an OAuth access token at the Clara API broker.
func (g *Google) token(ctx context.Context, userID string) (string, error) {
	u := g.tokenBaseURL + "/oauth/google/token/" + url.PathEscape(userID)

	resp, err := doJSON(ctx, g.client, http.MethodGet, u, nil)
	if err != nil {
		return "", Wrapf(KindTransport, err, "Failed to get token: %v", err)
	}
	defer resp.Body.Close()

	if !is2xx(resp.StatusCode) {
		return "", Errf(KindRemote, "Google account not connected. Use google_connect first.")
	}

	body, err := readBody(resp)
	if err != nil {
		return "", Wrapf(KindTransport, err, "Failed to get token: %v", err)
	}

	var out struct {
		AccessToken string `json:"access_token"`
	}
	if err := json.Unmarshal([]byte(body), &out); err != nil {
		return "", Wrapf(KindDecode, err, "Failed to parse token: %v", err)
	}
	if out.AccessToken == "" {
		return "", Errf(KindDecode, "Failed to parse token: missing access_token")
	}
	return out.AccessToken, nil
}

// bearerDo issues one authorized request and drains the body. Error mapping
// is left to the caller.
func (g *Google) bearerDo(ctx context.Context, method, rawURL, token string, payload any) (string, respStatus, error) {
	var rd io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return "", respStatus{}, err
		}
		rd = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, rawURL, rd)
	if err != nil {
		return "", respStatus{}, err
	}
	req.Header.Set("Authorization", "Bearer "+token)
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := g.client.Do(req)
	if err != nil {
		return "", respStatus{}, err
	}
	defer resp.Body.Close()

	body, err := readBody(resp)
	if err != nil {
		return "", respStatus{}, err
	}
	return body, respStatus{code: resp.StatusCode, text: resp.Status}, nil
}
