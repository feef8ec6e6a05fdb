// Package cmd implements the mypalclara command line interface.
//
// The root command starts the MCP server on stdio, the transport MCP
// clients such as Claude Desktop and Claude Code use to launch it. The
// tools subcommand prints the registered tool catalog and version prints
// build information.
package cmd

import (
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "mypalclara",
	Short: "MCP server for Clara's native tools",
	Long: `mypalclara exposes Clara's native tools over the Model Context Protocol:
database backups, sandboxed Python and shell execution, Claude Code task
delegation, ORS notes, per-user file storage, Discord messaging, and Google
Calendar, Sheets, and Drive access.

Without a subcommand it starts the MCP server on stdio. Logs go to stderr;
stdout carries only the protocol.`,
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		// No subcommand starts the MCP server on stdio.
		return runServe(cmd, args)
	},
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	// Subcommands register themselves in their own files.
}
