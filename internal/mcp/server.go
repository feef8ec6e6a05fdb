package mcp

import (
	"context"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/BangRocket/mypalclara/internal/log"
	"github.com/BangRocket/mypalclara/internal/tools"
)

// serverInstructions is announced to clients during the MCP handshake.
const serverInstructions = "Clara's native tools for coding, sandbox execution, backups, and notes."

// Config holds everything the server needs: an identity for the MCP
// handshake plus the seven tool groups.
type Config struct {
	// Name is the implementation name announced to clients.
	Name string
	// Version is the implementation version announced to clients.
	Version string
	// Logger receives the per-dispatch log lines.
	Logger log.Logger

	Backup  *tools.Backup
	Claude  *tools.ClaudeCode
	Sandbox *tools.Sandbox
	Notes   *tools.Notes
	Files   *tools.Files
	Discord *tools.Discord
	Google  *tools.Google
}

func (c Config) validate() error {
	if c.Name == "" {
		return fmt.Errorf("server name is required")
	}
	if c.Version == "" {
		return fmt.Errorf("server version is required")
	}
	if c.Logger == nil {
		return fmt.Errorf("logger is required")
	}
	if c.Backup == nil {
		return fmt.Errorf("backup tools is required")
	}
	if c.Claude == nil {
		return fmt.Errorf("claude code tools is required")
	}
	if c.Sandbox == nil {
		return fmt.Errorf("sandbox tools is required")
	}
	if c.Notes == nil {
		return fmt.Errorf("notes tools is required")
	}
	if c.Files == nil {
		return fmt.Errorf("file tools is required")
	}
	if c.Discord == nil {
		return fmt.Errorf("discord tools is required")
	}
	if c.Google == nil {
		return fmt.Errorf("google tools is required")
	}
	return nil
}

// Server exposes the tool catalog over the Model Context Protocol.
type Server struct {
	mcpServer *mcp.Server
	registry  *Registry
	logger    log.Logger
	name      string
	version   string
}

// NewServer validates the config, builds the catalog, and installs every
// tool into an SDK server. The catalog is immutable after this returns.
func NewServer(cfg Config) (*Server, error) {
	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("invalid server config: %w", err)
	}

	registry := NewRegistry(cfg.Logger)
	if err := registerAll(registry, cfg); err != nil {
		return nil, err
	}

	mcpServer := mcp.NewServer(&mcp.Implementation{
		Name:    cfg.Name,
		Version: cfg.Version,
	}, &mcp.ServerOptions{
		Instructions: serverInstructions,
	})
	registry.Install(mcpServer)

	cfg.Logger.Info("MCP server initialized",
		"name", cfg.Name,
		"version", cfg.Version,
		"tools", len(registry.List()),
	)

	return &Server{
		mcpServer: mcpServer,
		registry:  registry,
		logger:    cfg.Logger,
		name:      cfg.Name,
		version:   cfg.Version,
	}, nil
}

// registerAll registers the seven tool groups in catalog order. The order
// is part of the capability surface: clients and the tools subcommand see
// it verbatim.
func registerAll(r *Registry, cfg Config) error {
	if err := registerBackupTools(r, cfg.Backup); err != nil {
		return err
	}
	if err := registerClaudeTools(r, cfg.Claude); err != nil {
		return err
	}
	if err := registerSandboxTools(r, cfg.Sandbox); err != nil {
		return err
	}
	if err := registerNotesTools(r, cfg.Notes); err != nil {
		return err
	}
	if err := registerFileTools(r, cfg.Files); err != nil {
		return err
	}
	if err := registerDiscordTools(r, cfg.Discord); err != nil {
		return err
	}
	if err := registerGoogleTools(r, cfg.Google); err != nil {
		return err
	}
	return nil
}

// Tools returns the catalog descriptors in registration order.
func (s *Server) Tools() []*Descriptor {
	return s.registry.List()
}

// Run serves MCP over the given transport until the context is canceled or
// the client disconnects. Serving on stdio uses &mcp.StdioTransport{}.
func (s *Server) Run(ctx context.Context, transport mcp.Transport) error {
	s.logger.Info("MCP server starting", "name", s.name, "version", s.version)
	if err := s.mcpServer.Run(ctx, transport); err != nil {
		return fmt.Errorf("MCP server run: %w", err)
	}
	return nil
}
