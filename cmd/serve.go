package cmd

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"

	mcpSdk "github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/spf13/cobra"

	"github.com/BangRocket/mypalclara/internal/config"
	"github.com/BangRocket/mypalclara/internal/log"
	"github.com/BangRocket/mypalclara/internal/mcp"
	"github.com/BangRocket/mypalclara/internal/observability"
	"github.com/BangRocket/mypalclara/internal/tools"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the MCP server on stdio",
	Long: `Start the MCP server on stdio.

The server reads MCP protocol messages from stdin and writes responses to
stdout, so nothing else may print there. All logs go to stderr.`,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func runServe(_ *cobra.Command, _ []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	logger := log.New(log.Config{
		Level: log.ParseLevel(cfg.Log.Level),
		JSON:  cfg.Log.JSON,
	})

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	shutdownTracing, err := observability.Setup(ctx, observability.Config{
		Enabled:     cfg.Observability.Enabled,
		Endpoint:    cfg.Observability.Endpoint,
		ServiceName: cfg.Server.Name,
		Version:     AppVersion,
	}, logger)
	if err != nil {
		return fmt.Errorf("setting up tracing: %w", err)
	}
	defer func() {
		// The signal context is already canceled by the time spans flush.
		if shutdownErr := shutdownTracing(context.Background()); shutdownErr != nil {
			logger.Warn("trace shutdown error", "error", shutdownErr)
		}
	}()

	server, err := buildServer(cfg, logger)
	if err != nil {
		return err
	}

	logger.Info("MCP server ready", "name", cfg.Server.Name, "version", AppVersion, "transport", "stdio")

	if err := server.Run(ctx, &mcpSdk.StdioTransport{}); err != nil {
		return fmt.Errorf("MCP server error: %w", err)
	}

	logger.Info("MCP server shut down gracefully")
	return nil
}

// buildServer wires the shared HTTP client and the seven tool groups into
// an MCP server. The tools subcommand reuses it so the printed catalog
// cannot drift from what serve registers.
func buildServer(cfg *config.Config, logger log.Logger) (*mcp.Server, error) {
	client := tools.NewHTTPClient(cfg.HTTP.Timeout)

	backup, err := tools.NewBackup(cfg.API.BaseURL, client, logger.With("group", "backup"))
	if err != nil {
		return nil, fmt.Errorf("creating backup tools: %w", err)
	}

	claude, err := tools.NewClaudeCode(tools.ClaudeCodeConfig{
		Command:  cfg.Claude.Command,
		Workdir:  cfg.Claude.Workdir,
		MaxTurns: cfg.Claude.MaxTurns,
		Timeout:  cfg.Claude.Timeout,
	}, logger.With("group", "claude_code"))
	if err != nil {
		return nil, fmt.Errorf("creating claude code tools: %w", err)
	}

	sandbox, err := tools.NewSandbox(tools.SandboxConfig{
		BaseURL: cfg.Sandbox.BaseURL,
		APIKey:  cfg.Sandbox.APIKey,
	}, client, logger.With("group", "sandbox"))
	if err != nil {
		return nil, fmt.Errorf("creating sandbox tools: %w", err)
	}

	notes, err := tools.NewNotes(cfg.API.BaseURL, client, logger.With("group", "notes"))
	if err != nil {
		return nil, fmt.Errorf("creating notes tools: %w", err)
	}

	files, err := tools.NewFiles(cfg.Files.Dir, sandbox, logger.With("group", "files"))
	if err != nil {
		return nil, fmt.Errorf("creating file tools: %w", err)
	}

	discord, err := tools.NewDiscord(tools.DiscordConfig{
		BotToken:  cfg.Discord.BotToken,
		BaseURL:   cfg.Discord.BaseURL,
		RateLimit: cfg.Discord.RateLimit,
	}, client, logger.With("group", "discord"))
	if err != nil {
		return nil, fmt.Errorf("creating discord tools: %w", err)
	}

	// Google access tokens are minted per user by the Clara API, so the
	// token base URL is the API root rather than a Google endpoint.
	google, err := tools.NewGoogle(tools.GoogleConfig{
		TokenBaseURL:    cfg.API.BaseURL,
		CalendarBaseURL: cfg.Google.CalendarBaseURL,
		SheetsBaseURL:   cfg.Google.SheetsBaseURL,
		DriveBaseURL:    cfg.Google.DriveBaseURL,
	}, client, logger.With("group", "google"))
	if err != nil {
		return nil, fmt.Errorf("creating google tools: %w", err)
	}

	server, err := mcp.NewServer(mcp.Config{
		Name:    cfg.Server.Name,
		Version: AppVersion,
		Logger:  logger,
		Backup:  backup,
		Claude:  claude,
		Sandbox: sandbox,
		Notes:   notes,
		Files:   files,
		Discord: discord,
		Google:  google,
	})
	if err != nil {
		return nil, fmt.Errorf("creating MCP server: %w", err)
	}
	return server, nil
}
