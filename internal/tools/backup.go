package tools

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/robfig/cron/v3"
)

// BackupNowInput defines input for the backup_now tool.
type BackupNowInput struct {
	Destination string   `json:"destination,omitempty" jsonschema_description:"Destination name (optional, uses default if not specified)"`
	Databases   []string `json:"databases,omitempty" jsonschema_description:"Databases to backup (optional, backs up all if not specified)"`
}

// BackupListInput defines input for the backup_list tool.
type BackupListInput struct {
	Destination string `json:"destination,omitempty" jsonschema_description:"Filter by destination name"`
	Database    string `json:"database,omitempty" jsonschema_description:"Filter by database name (clara or mem0)"`
	Limit       int    `json:"limit,omitempty" jsonschema_description:"Maximum number of backups to list"`
}

// BackupScheduleInput defines input for the backup_schedule tool.
type BackupScheduleInput struct {
	Enabled       bool   `json:"enabled" jsonschema_description:"Enable or disable scheduled backups"`
	Cron          string `json:"cron,omitempty" jsonschema_description:"Cron expression for schedule (e.g. '0 3 * * *' for daily at 3 AM)"`
	RetentionDays int    `json:"retention_days,omitempty" jsonschema_description:"Number of days to retain backups"`
}

// BackupConfigInput defines input for the backup_config tool.
type BackupConfigInput struct {
	Name     string `json:"name" jsonschema_description:"Unique name for this destination"`
	DestType string `json:"dest_type" jsonschema_description:"Destination type: s3, google_drive, or ftp"`
	Config   string `json:"config" jsonschema_description:"Configuration as JSON (type-specific settings)"`
}

// BackupDestinationDeleteInput defines input for the backup_destination_delete tool.
type BackupDestinationDeleteInput struct {
	Name string `json:"name" jsonschema_description:"Name of the destination"`
}

// Backup drives the backup endpoints of the Clara API: immediate backups,
// listings, status, schedules, and storage destinations.
type Backup struct {
	baseURL string
	client  *http.Client
	logger  *slog.Logger
}

// NewBackup creates the backup tool group against the Clara API at baseURL.
func NewBackup(baseURL string, client *http.Client, logger *slog.Logger) (*Backup, error) {
	if baseURL == "" {
		return nil, fmt.Errorf("base URL is required")
	}
	if client == nil {
		return nil, fmt.Errorf("HTTP client is required")
	}
	if logger == nil {
		return nil, fmt.Errorf("logger is required")
	}

	return &Backup{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  client,
		logger:  logger,
	}, nil
}

type backupRunResponse struct {
	Status   *string           `json:"status"`
	Message  *string           `json:"message"`
	BackupID *string           `json:"backup_id"`
	Details  *backupRunDetails `json:"details"`
}

type backupRunDetails struct {
	Clara json.RawMessage `json:"clara"`
	Mem0  json.RawMessage `json:"mem0"`
}

type backupListResponse struct {
	Backups []backupListEntry `json:"backups"`
}

type backupListEntry struct {
	Name        *string `json:"name"`
	Database    *string `json:"database"`
	Timestamp   *string `json:"timestamp"`
	SizeBytes   *uint64 `json:"size_bytes"`
	Destination *string `json:"destination"`
}

type backupStatusResponse struct {
	LastBackup     *string                   `json:"last_backup"`
	LastBackupSize *uint64                   `json:"last_backup_size"`
	LastError      *string                   `json:"last_error"`
	NextScheduled  *string                   `json:"next_scheduled"`
	TotalBackups   *uint64                   `json:"total_backups"`
	Schedule       *backupScheduleInfo       `json:"schedule"`
	Destinations   []backupStatusDestination `json:"destinations"`
}

type backupScheduleInfo struct {
	Enabled       *bool   `json:"enabled"`
	Cron          *string `json:"cron"`
	RetentionDays *uint64 `json:"retention_days"`
}

type backupStatusDestination struct {
	Name   *string `json:"name"`
	Type   *string `json:"type"`
	Status *string `json:"status"`
}

type backupScheduleResponse struct {
	Status   *string             `json:"status"`
	Message  *string             `json:"message"`
	Schedule *backupScheduleInfo `json:"schedule"`
}

type backupDestinationsResponse struct {
	Destinations []backupDestinationEntry `json:"destinations"`
}

type backupDestinationEntry struct {
	Name      *string           `json:"name"`
	Type      *string           `json:"type"`
	Status    *string           `json:"status"`
	IsDefault *bool             `json:"is_default"`
	Config    *backupDestConfig `json:"config"`
}

type backupDestConfig struct {
	Bucket      *string `json:"bucket"`
	EndpointURL *string `json:"endpoint_url"`
	FolderID    *string `json:"folder_id"`
	Host        *string `json:"host"`
	Port        *uint64 `json:"port"`
	UseSFTP     *bool   `json:"use_sftp"`
}

// Now triggers an immediate backup, optionally scoped to one destination and
// a subset of databases.
func (b *Backup) Now(ctx context.Context, in BackupNowInput) (string, error) {
	b.logger.Debug("triggering backup", "destination", in.Destination, "databases", in.Databases)

	q := url.Values{}
	if in.Destination != "" {
		q.Set("destination", in.Destination)
	}
	if len(in.Databases) > 0 {
		q.Set("databases", strings.Join(in.Databases, ","))
	}

	body, status, err := b.call(ctx, http.MethodPost, "/api/backup/now", q, nil)
	if err != nil {
		return "", err
	}
	if !is2xx(status.code) {
		return "", Errf(KindRemote, "Backup failed: %s - %s", status.text, body)
	}

	var out backupRunResponse
	if err := json.Unmarshal([]byte(body), &out); err != nil {
		// The backup already ran; report success with a note.
		return fmt.Sprintf("Backup triggered (response parse error: %v)", err), nil
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "Backup %s\n", strOr(out.Status, "unknown"))
	if out.Message != nil && *out.Message != "" {
		fmt.Fprintf(&sb, "Message: %s\n", *out.Message)
	}
	if out.BackupID != nil {
		fmt.Fprintf(&sb, "Backup ID: %s\n", *out.BackupID)
	}
	if out.Details != nil {
		if len(out.Details.Clara) > 0 {
			fmt.Fprintf(&sb, "\nClara DB: %s", compactJSON(out.Details.Clara))
		}
		if len(out.Details.Mem0) > 0 {
			fmt.Fprintf(&sb, "\nMem0 DB: %s", compactJSON(out.Details.Mem0))
		}
	}
	return sb.String(), nil
}

// List returns available backups, optionally filtered by destination,
// database, or count.
func (b *Backup) List(ctx context.Context, in BackupListInput) (string, error) {
	b.logger.Debug("listing backups", "destination", in.Destination, "database", in.Database, "limit", in.Limit)

	q := url.Values{}
	if in.Destination != "" {
		q.Set("destination", in.Destination)
	}
	if in.Database != "" {
		q.Set("database", in.Database)
	}
	if in.Limit > 0 {
		q.Set("limit", strconv.Itoa(in.Limit))
	}

	body, status, err := b.call(ctx, http.MethodGet, "/api/backup/list", q, nil)
	if err != nil {
		return "", err
	}
	if !is2xx(status.code) {
		return "", Errf(KindRemote, "Failed to list backups: %s - %s", status.text, body)
	}

	var out backupListResponse
	if err := json.Unmarshal([]byte(body), &out); err != nil {
		return "", Wrapf(KindDecode, err, "Failed to parse backup list: %v", err)
	}
	if len(out.Backups) == 0 {
		return "No backups found.", nil
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "Found %d backup(s):\n\n", len(out.Backups))
	for _, e := range out.Backups {
		fmt.Fprintf(&sb, "- %s (%s)\n  Database: %s\n  Size: %s\n  Destination: %s\n\n",
			strOr(e.Name, "unknown"),
			strOr(e.Timestamp, "unknown"),
			strOr(e.Database, "unknown"),
			humanSize(u64Or(e.SizeBytes, 0)),
			strOr(e.Destination, "default"))
	}
	return sb.String(), nil
}

// Status reports the last backup, the active schedule, and the configured
// destinations.
func (b *Backup) Status(ctx context.Context) (string, error) {
	b.logger.Debug("fetching backup status")

	body, status, err := b.call(ctx, http.MethodGet, "/api/backup/status", nil, nil)
	if err != nil {
		return "", err
	}
	if !is2xx(status.code) {
		return "", Errf(KindRemote, "Failed to get status: %s - %s", status.text, body)
	}

	var st backupStatusResponse
	if err := json.Unmarshal([]byte(body), &st); err != nil {
		return "", Wrapf(KindDecode, err, "Failed to parse status: %v", err)
	}

	var sb strings.Builder
	sb.WriteString("Backup Status:\n\n")
	fmt.Fprintf(&sb, "Last backup: %s\n", strOr(st.LastBackup, "Never"))
	if st.LastBackupSize != nil {
		size := *st.LastBackupSize
		if size > 1024*1024 {
			fmt.Fprintf(&sb, "Last backup size: %.2f MB\n", float64(size)/(1024*1024))
		} else {
			fmt.Fprintf(&sb, "Last backup size: %.2f KB\n", float64(size)/1024)
		}
	}
	if st.LastError != nil && *st.LastError != "" {
		fmt.Fprintf(&sb, "Last error: %s\n", *st.LastError)
	}
	if st.NextScheduled != nil {
		fmt.Fprintf(&sb, "Next scheduled: %s\n", *st.NextScheduled)
	}
	if st.TotalBackups != nil {
		fmt.Fprintf(&sb, "Total backups: %d\n", *st.TotalBackups)
	}

	if st.Schedule != nil {
		sb.WriteString("\nSchedule:\n")
		fmt.Fprintf(&sb, "  Enabled: %t\n", boolOr(st.Schedule.Enabled, false))
		if st.Schedule.Cron != nil {
			fmt.Fprintf(&sb, "  Cron: %s\n", *st.Schedule.Cron)
		}
		if st.Schedule.RetentionDays != nil {
			fmt.Fprintf(&sb, "  Retention: %d days\n", *st.Schedule.RetentionDays)
		}
	}

	if st.Destinations != nil {
		sb.WriteString("\nConfigured destinations:\n")
		for _, d := range st.Destinations {
			if d.Name == nil {
				continue
			}
			fmt.Fprintf(&sb, "  - %s (%s) - %s\n", *d.Name, strOr(d.Type, "unknown"), strOr(d.Status, "unknown"))
		}
	}

	return sb.String(), nil
}

// SetSchedule enables, disables, or reconfigures scheduled backups. The cron
// expression is validated locally before anything is sent.
func (b *Backup) SetSchedule(ctx context.Context, in BackupScheduleInput) (string, error) {
	b.logger.Debug("updating backup schedule", "enabled", in.Enabled, "cron", in.Cron)

	if in.Cron != "" {
		if _, err := cron.ParseStandard(in.Cron); err != nil {
			return "", Wrapf(KindValidation, err, "Invalid cron expression: %v", err)
		}
	}

	payload := map[string]any{"enabled": in.Enabled}
	if in.Cron != "" {
		payload["cron"] = in.Cron
	}
	if in.RetentionDays > 0 {
		payload["retention_days"] = in.RetentionDays
	}

	body, status, err := b.call(ctx, http.MethodPost, "/api/backup/schedule", nil, payload)
	if err != nil {
		return "", err
	}
	if !is2xx(status.code) {
		return "", Errf(KindRemote, "Failed to update schedule: %s - %s", status.text, body)
	}

	var out backupScheduleResponse
	if err := json.Unmarshal([]byte(body), &out); err != nil {
		// The schedule change already landed; report success with a note.
		return fmt.Sprintf("Schedule updated (response parse error: %v)", err), nil
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "Schedule %s\n", strOr(out.Status, "updated"))
	if out.Message != nil && *out.Message != "" {
		fmt.Fprintf(&sb, "%s\n", *out.Message)
	}
	if out.Schedule != nil {
		sb.WriteString("\nNew schedule:\n")
		fmt.Fprintf(&sb, "  Enabled: %t\n", boolOr(out.Schedule.Enabled, false))
		fmt.Fprintf(&sb, "  Cron: %s\n", strOr(out.Schedule.Cron, "not set"))
		fmt.Fprintf(&sb, "  Retention: %d days\n", u64Or(out.Schedule.RetentionDays, 7))
	}
	return sb.String(), nil
}

// ConfigureDestination adds or updates a storage destination. The config
// argument must be a JSON document with type-specific settings.
func (b *Backup) ConfigureDestination(ctx context.Context, in BackupConfigInput) (string, error) {
	b.logger.Debug("configuring backup destination", "name", in.Name, "type", in.DestType)

	var cfg json.RawMessage
	if err := json.Unmarshal([]byte(in.Config), &cfg); err != nil {
		return "", Wrapf(KindValidation, err, "Invalid config JSON: %v", err)
	}

	payload := map[string]any{
		"name":   in.Name,
		"type":   in.DestType,
		"config": cfg,
	}

	body, status, err := b.call(ctx, http.MethodPost, "/api/backup/destinations", nil, payload)
	if err != nil {
		return "", err
	}
	if !is2xx(status.code) {
		return "", Errf(KindRemote, "Failed to configure destination: %s - %s", status.text, body)
	}
	return fmt.Sprintf("Destination '%s' configured successfully as %s storage.", in.Name, in.DestType), nil
}

// ListDestinations returns every configured storage destination with its
// type-specific settings.
func (b *Backup) ListDestinations(ctx context.Context) (string, error) {
	b.logger.Debug("listing backup destinations")

	body, status, err := b.call(ctx, http.MethodGet, "/api/backup/destinations", nil, nil)
	if err != nil {
		return "", err
	}
	if !is2xx(status.code) {
		return "", Errf(KindRemote, "Failed to list destinations: %s - %s", status.text, body)
	}

	var out backupDestinationsResponse
	if err := json.Unmarshal([]byte(body), &out); err != nil {
		return "", Wrapf(KindDecode, err, "Failed to parse destinations: %v", err)
	}
	if len(out.Destinations) == 0 {
		return "No destinations configured.\n\nUse backup_config to add a destination.", nil
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "Configured destinations (%d):\n\n", len(out.Destinations))
	for _, d := range out.Destinations {
		dtype := strOr(d.Type, "unknown")
		suffix := ""
		if boolOr(d.IsDefault, false) {
			suffix = " [default]"
		}
		fmt.Fprintf(&sb, "- %s (%s)%s\n", strOr(d.Name, "unknown"), dtype, suffix)
		fmt.Fprintf(&sb, "  Status: %s\n", strOr(d.Status, "unknown"))

		if d.Config != nil {
			switch dtype {
			case "s3":
				if d.Config.Bucket != nil {
					fmt.Fprintf(&sb, "  Bucket: %s\n", *d.Config.Bucket)
				}
				if d.Config.EndpointURL != nil {
					fmt.Fprintf(&sb, "  Endpoint: %s\n", *d.Config.EndpointURL)
				}
			case "google_drive":
				if d.Config.FolderID != nil {
					fmt.Fprintf(&sb, "  Folder ID: %s\n", *d.Config.FolderID)
				}
			case "ftp":
				if d.Config.Host != nil {
					proto := "FTP"
					if boolOr(d.Config.UseSFTP, false) {
						proto = "SFTP"
					}
					fmt.Fprintf(&sb, "  Host: %s:%d (%s)\n", *d.Config.Host, u64Or(d.Config.Port, 21), proto)
				}
			}
		}

		sb.WriteString("\n")
	}
	return sb.String(), nil
}

// DeleteDestination removes a storage destination by name.
func (b *Backup) DeleteDestination(ctx context.Context, in BackupDestinationDeleteInput) (string, error) {
	b.logger.Debug("deleting backup destination", "name", in.Name)

	body, status, err := b.call(ctx, http.MethodDelete, "/api/backup/destinations/"+url.PathEscape(in.Name), nil, nil)
	if err != nil {
		return "", err
	}
	if !is2xx(status.code) {
		return "", Errf(KindRemote, "Failed to delete destination: %s - %s", status.text, body)
	}
	return fmt.Sprintf("Destination '%s' deleted.", in.Name), nil
}

// respStatus pairs the numeric status code with its rendered "200 OK" form.
type respStatus struct {
	code int
	text string
}

// call issues one request against the backup service and drains the body.
// Connection and body-read failures both surface as the service's transport
// error.
func (b *Backup) call(ctx context.Context, method, path string, q url.Values, payload any) (string, respStatus, error) {
	u := b.baseURL + path
	if len(q) > 0 {
		u += "?" + q.Encode()
	}

	resp, err := doJSON(ctx, b.client, method, u, payload)
	if err != nil {
		return "", respStatus{}, Wrapf(KindTransport, err, "Failed to connect to backup service: %v", err)
	}
	defer resp.Body.Close()

	body, err := readBody(resp)
	if err != nil {
		return "", respStatus{}, Wrapf(KindTransport, err, "Failed to connect to backup service: %v", err)
	}
	return body, respStatus{code: resp.StatusCode, text: resp.Status}, nil
}

// humanSize renders a byte count the way the backup service reports sizes.
func humanSize(n uint64) string {
	switch {
	case n > 1024*1024:
		return fmt.Sprintf("%.2f MB", float64(n)/(1024*1024))
	case n > 1024:
		return fmt.Sprintf("%.2f KB", float64(n)/1024)
	default:
		return fmt.Sprintf("%d bytes", n)
	}
}

func strOr(s *string, fallback string) string {
	if s != nil {
		return *s
	}
	return fallback
}

func u64Or(n *uint64, fallback uint64) uint64 {
	if n != nil {
		return *n
	}
	return fallback
}

func boolOr(b *bool, fallback bool) bool {
	if b != nil {
		return *b
	}
	return fallback
}

// compactJSON renders raw JSON with insignificant whitespace removed.
func compactJSON(raw json.RawMessage) string {
	var buf bytes.Buffer
	if err := json.Compact(&buf, raw); err != nil {
		return string(raw)
	}
	return buf.String()
}
