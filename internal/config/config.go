// Package config provides application configuration management with multi-source priority.
//
// Configuration sources (highest to lowest priority):
//  1. Environment variables (runtime override, the deployment contract)
//  2. Config file (~/.mypalclara/config.yaml)
//  3. Default values (sensible defaults for quick start)
//
// Main configuration categories:
//   - API: the Clara API base URL (backup service, notes store, Google token broker)
//   - Sandbox: code execution service URL and API key
//   - Discord: bot token, REST base URL, outbound rate limit
//   - Files: per-user local file storage root
//   - Claude: Claude Code CLI command, workdir, turn and time bounds
//   - Google: Calendar/Sheets/Drive REST base URLs
//   - HTTP: shared outbound client timeout
//   - Log / Observability / Server: ambient process settings
//
// Security: sensitive fields (API keys, bot tokens) are masked in MarshalJSON()
// and String(); the config directory uses 0750 permissions.
//
// Error Handling:
//   - Uses sentinel errors for Go-idiomatic error checking with errors.Is()
//   - Wrap with context using fmt.Errorf("%w: details", ErrXxx)
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/viper"
)

var (
	// ErrConfigNil indicates the configuration is nil.
	ErrConfigNil = errors.New("configuration is nil")

	// ErrInvalidAPIBase indicates the Clara API base URL is missing or not absolute.
	ErrInvalidAPIBase = errors.New("invalid API base URL")

	// ErrInvalidSandboxBase indicates the sandbox base URL is set but not absolute.
	ErrInvalidSandboxBase = errors.New("invalid sandbox base URL")

	// ErrInvalidFilesDir indicates the local files directory is empty.
	ErrInvalidFilesDir = errors.New("invalid files directory")

	// ErrInvalidHTTPTimeout indicates the outbound HTTP timeout is not positive.
	ErrInvalidHTTPTimeout = errors.New("invalid HTTP timeout")

	// ErrInvalidClaudeTimeout indicates the Claude Code timeout is not positive.
	ErrInvalidClaudeTimeout = errors.New("invalid Claude Code timeout")

	// ErrInvalidRateLimit indicates the Discord rate limit is not positive.
	ErrInvalidRateLimit = errors.New("invalid Discord rate limit")

	// ErrInvalidServerName indicates the MCP server name is empty.
	ErrInvalidServerName = errors.New("invalid server name")
)

// APIConfig points at the Clara API, which fronts the backup service,
// the notes store, and the Google OAuth token broker.
type APIConfig struct {
	// BaseURL is the Clara API root (default: http://localhost:8000)
	BaseURL string `mapstructure:"base_url" json:"base_url"`
}

// SandboxConfig holds the code execution sandbox settings.
// An empty BaseURL means the sandbox is not configured; sandbox tools
// then fail with a clear message instead of dialing nowhere.
type SandboxConfig struct {
	BaseURL string `mapstructure:"base_url" json:"base_url"`
	// APIKey is sent as X-API-Key when non-empty. SENSITIVE: masked in MarshalJSON.
	APIKey string `mapstructure:"api_key" json:"api_key"`
}

// DiscordConfig holds Discord REST settings.
// An empty BotToken means Discord is not configured.
type DiscordConfig struct {
	// BotToken authorizes requests as "Bot {token}". SENSITIVE: masked in MarshalJSON.
	BotToken string `mapstructure:"bot_token" json:"bot_token"`
	// BaseURL is the Discord REST root (default: https://discord.com/api/v10)
	BaseURL string `mapstructure:"base_url" json:"base_url"`
	// RateLimit is outbound messages per second; burst equals the limit.
	RateLimit float64 `mapstructure:"rate_limit" json:"rate_limit"`
}

// FilesConfig holds the local per-user file storage settings.
type FilesConfig struct {
	// Dir is the storage root; each user gets a sanitized subdirectory.
	Dir string `mapstructure:"dir" json:"dir"`
}

// ClaudeConfig holds Claude Code CLI invocation settings.
type ClaudeConfig struct {
	// Command is the CLI binary to invoke (default: claude)
	Command string `mapstructure:"command" json:"command"`
	// Workdir seeds the stored working directory; empty inherits the process cwd.
	Workdir string `mapstructure:"workdir" json:"workdir"`
	// MaxTurns > 0 appends --max-turns N to every task invocation.
	MaxTurns int `mapstructure:"max_turns" json:"max_turns"`
	// Timeout bounds a single CLI invocation (default: 300s)
	Timeout time.Duration `mapstructure:"timeout" json:"timeout"`
}

// GoogleConfig holds the Google REST base URLs. The defaults point at the
// public APIs; tests override them with local fakes. The OAuth token broker
// lives on the Clara API (see APIConfig).
type GoogleConfig struct {
	CalendarBaseURL string `mapstructure:"calendar_base_url" json:"calendar_base_url"`
	SheetsBaseURL   string `mapstructure:"sheets_base_url" json:"sheets_base_url"`
	DriveBaseURL    string `mapstructure:"drive_base_url" json:"drive_base_url"`
}

// HTTPConfig holds shared outbound HTTP client settings.
type HTTPConfig struct {
	// Timeout bounds every outbound request end to end (default: 30s)
	Timeout time.Duration `mapstructure:"timeout" json:"timeout"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	// Level is one of debug, info, warn, error (default: info)
	Level string `mapstructure:"level" json:"level"`
	// JSON switches output from text to JSON lines.
	JSON bool `mapstructure:"json" json:"json"`
}

// ObservabilityConfig holds OTLP trace export settings.
type ObservabilityConfig struct {
	Enabled bool `mapstructure:"enabled" json:"enabled"`
	// Endpoint is the OTLP/HTTP collector address (default: localhost:4318)
	Endpoint string `mapstructure:"endpoint" json:"endpoint"`
}

// ServerConfig holds the MCP server identity.
type ServerConfig struct {
	// Name is the implementation name announced during the MCP handshake.
	Name string `mapstructure:"name" json:"name"`
}

// Config stores application configuration.
// SECURITY: Sensitive fields are explicitly masked in MarshalJSON().
// When adding new sensitive fields (API keys, tokens), update MarshalJSON.
type Config struct {
	API           APIConfig           `mapstructure:"api" json:"api"`
	Sandbox       SandboxConfig       `mapstructure:"sandbox" json:"sandbox"`
	Discord       DiscordConfig       `mapstructure:"discord" json:"discord"`
	Files         FilesConfig         `mapstructure:"files" json:"files"`
	Claude        ClaudeConfig        `mapstructure:"claude" json:"claude"`
	Google        GoogleConfig        `mapstructure:"google" json:"google"`
	HTTP          HTTPConfig          `mapstructure:"http" json:"http"`
	Log           LogConfig           `mapstructure:"log" json:"log"`
	Observability ObservabilityConfig `mapstructure:"observability" json:"observability"`
	Server        ServerConfig        `mapstructure:"server" json:"server"`
}

// Load loads configuration.
// Priority: Environment variables > Configuration file > Default values
func Load() (*Config, error) {
	// Configuration directory: ~/.mypalclara/
	home, err := os.UserHomeDir()
	if err != nil {
		return nil, fmt.Errorf("getting user home directory: %w", err)
	}

	configDir := filepath.Join(home, ".mypalclara")

	// Ensure directory exists (use 0750 permission for better security)
	if err := os.MkdirAll(configDir, 0o750); err != nil {
		return nil, fmt.Errorf("creating config directory: %w", err)
	}

	// Configure Viper
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(configDir)
	viper.AddConfigPath(".") // Also support current directory

	// Set default values
	setDefaults()

	// Bind environment variables
	bindEnvVariables()

	// Read configuration file (if exists)
	if err := viper.ReadInConfig(); err != nil {
		// Configuration file not found is not an error, use default values
		var configNotFound viper.ConfigFileNotFoundError
		if !errors.As(err, &configNotFound) {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
		slog.Debug("configuration file not found, using default values",
			"search_paths", []string{configDir, "."},
			"config_name", "config.yaml")
	}

	// Use Unmarshal to automatically map to struct (type-safe)
	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("parsing configuration: %w", err)
	}

	// CRITICAL: Validate immediately (fail-fast)
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating configuration: %w", err)
	}

	return &cfg, nil
}

// setDefaults sets all default configuration values.
func setDefaults() {
	// Clara API defaults
	viper.SetDefault("api.base_url", "http://localhost:8000")

	// Discord defaults
	viper.SetDefault("discord.base_url", "https://discord.com/api/v10")
	viper.SetDefault("discord.rate_limit", 5)

	// Local file storage defaults
	viper.SetDefault("files.dir", "./clara_files")

	// Claude Code defaults
	viper.SetDefault("claude.command", "claude")
	viper.SetDefault("claude.timeout", "300s")

	// Google REST defaults (public endpoints)
	viper.SetDefault("google.calendar_base_url", "https://www.googleapis.com/calendar/v3")
	viper.SetDefault("google.sheets_base_url", "https://sheets.googleapis.com/v4")
	viper.SetDefault("google.drive_base_url", "https://www.googleapis.com/drive/v3")

	// Outbound HTTP defaults
	viper.SetDefault("http.timeout", "30s")

	// Logging defaults
	viper.SetDefault("log.level", "info")
	viper.SetDefault("log.json", false)

	// Observability defaults
	viper.SetDefault("observability.enabled", false)
	viper.SetDefault("observability.endpoint", "localhost:4318")

	// Server identity defaults
	viper.SetDefault("server.name", "mypalclara")
}

// bindEnvVariables binds environment variables explicitly.
// The env names are the deployment contract shared with the rest of the
// Clara stack and must not change.
func bindEnvVariables() {
	// Helper to panic on unexpected bind errors (hardcoded strings can't fail)
	// If this panics, it's a BUG in our code, not a runtime error
	mustBind := func(key, envVar string) {
		if err := viper.BindEnv(key, envVar); err != nil {
			panic(fmt.Sprintf("BUG: failed to bind %q to %q: %v", key, envVar, err))
		}
	}

	mustBind("api.base_url", "CLARA_API_URL")

	mustBind("sandbox.base_url", "SANDBOX_API_URL")
	mustBind("sandbox.api_key", "SANDBOX_API_KEY")

	mustBind("discord.bot_token", "DISCORD_BOT_TOKEN")
	mustBind("discord.base_url", "DISCORD_BASE_URL")
	mustBind("discord.rate_limit", "DISCORD_RATE_LIMIT")

	mustBind("files.dir", "CLARA_FILES_DIR")

	mustBind("claude.command", "CLAUDE_CODE_COMMAND")
	mustBind("claude.workdir", "CLAUDE_CODE_WORKDIR")
	mustBind("claude.max_turns", "CLAUDE_CODE_MAX_TURNS")
	mustBind("claude.timeout", "CLAUDE_CODE_TIMEOUT")

	mustBind("google.calendar_base_url", "GOOGLE_CALENDAR_BASE_URL")
	mustBind("google.sheets_base_url", "GOOGLE_SHEETS_BASE_URL")
	mustBind("google.drive_base_url", "GOOGLE_DRIVE_BASE_URL")

	mustBind("http.timeout", "CLARA_HTTP_TIMEOUT")

	mustBind("log.level", "CLARA_LOG_LEVEL")
	mustBind("log.json", "CLARA_LOG_JSON")

	mustBind("observability.enabled", "CLARA_OTEL_ENABLED")
	mustBind("observability.endpoint", "CLARA_OTEL_ENDPOINT")
}

// maskedValue is the placeholder for masked sensitive data.
// Full-width blocks (U+2588) avoid accidental substring matches against
// real secret material.
const maskedValue = "████████"

// maskSecret masks a secret string for safe logging.
// Secrets of 8 characters or fewer are fully masked to prevent substring
// matching; longer secrets keep the first and last 2 characters for
// debug utility.
//
// THREAT MODEL: This defends against accidental logging of real secrets.
// It is NOT cryptographically secure - if logs are compromised, rotate secrets.
func maskSecret(s string) string {
	if s == "" {
		return ""
	}
	if len(s) <= 8 {
		return maskedValue
	}
	// Example: "my_long_secret_key_123" → "my<████████>23"
	prefix := make([]byte, 2)
	suffix := make([]byte, 2)
	copy(prefix, s[:2])
	copy(suffix, s[len(s)-2:])
	return string(prefix) + "<" + maskedValue + ">" + string(suffix)
}

// MarshalJSON implements json.Marshaler with explicit sensitive field masking.
//
// Sensitive fields masked:
//   - Sandbox.APIKey
//   - Discord.BotToken
//
// When adding new sensitive fields, update this method.
func (c Config) MarshalJSON() ([]byte, error) {
	type alias Config
	a := alias(c)
	a.Sandbox.APIKey = maskSecret(a.Sandbox.APIKey)
	a.Discord.BotToken = maskSecret(a.Discord.BotToken)
	data, err := json.Marshal(a)
	if err != nil {
		return nil, fmt.Errorf("marshal config: %w", err)
	}
	return data, nil
}

// String implements Stringer to prevent accidental printing of secrets.
func (c Config) String() string {
	data, err := c.MarshalJSON()
	if err != nil {
		return fmt.Sprintf("Config{error: %v}", err)
	}
	return string(data)
}
