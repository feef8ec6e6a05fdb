package mcp

import (
	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/BangRocket/mypalclara/internal/tools"
)

// registerBackupTools registers the backup service tools.
// Tools: backup_now, backup_list, backup_status, backup_schedule,
// backup_config, backup_destinations, backup_destination_delete
func registerBackupTools(r *Registry, backup *tools.Backup) error {
	if err := Register(r, "backup", &mcp.Tool{
		Name:        "backup_now",
		Description: "Trigger an immediate database backup. Backs up Clara and Mem0 databases to configured storage.",
	}, backup.Now); err != nil {
		return err
	}
	if err := Register(r, "backup", &mcp.Tool{
		Name:        "backup_list",
		Description: "List available database backups with optional filters.",
	}, backup.List); err != nil {
		return err
	}
	if err := Register(r, "backup", &mcp.Tool{
		Name:        "backup_status",
		Description: "Get current backup status including last backup time, schedule, and configured destinations.",
	}, noArgs(backup.Status)); err != nil {
		return err
	}
	if err := Register(r, "backup", &mcp.Tool{
		Name:        "backup_schedule",
		Description: "Configure the backup schedule. Use cron expressions for timing (e.g., '0 3 * * *' for daily at 3 AM).",
	}, backup.SetSchedule); err != nil {
		return err
	}
	if err := Register(r, "backup", &mcp.Tool{
		Name:        "backup_config",
		Description: "Add or update a backup destination. Supports S3, Google Drive, and FTP/SFTP.",
	}, backup.ConfigureDestination); err != nil {
		return err
	}
	if err := Register(r, "backup", &mcp.Tool{
		Name:        "backup_destinations",
		Description: "List all configured backup destinations.",
	}, noArgs(backup.ListDestinations)); err != nil {
		return err
	}
	if err := Register(r, "backup", &mcp.Tool{
		Name:        "backup_destination_delete",
		Description: "Remove a backup destination by name.",
	}, backup.DeleteDestination); err != nil {
		return err
	}
	return nil
}
