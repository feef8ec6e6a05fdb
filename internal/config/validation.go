package config

import (
	"fmt"
	"net/url"
)

// Validate validates configuration values.
// Returns sentinel errors that can be checked with errors.Is().
func (c *Config) Validate() error {
	if c == nil {
		return ErrConfigNil
	}

	// 1. Clara API base URL (required: backup, notes and the Google token
	// broker all live behind it)
	if err := validateAbsoluteURL(c.API.BaseURL); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidAPIBase, err)
	}

	// 2. Sandbox base URL (optional, but must be well-formed when set)
	if c.Sandbox.BaseURL != "" {
		if err := validateAbsoluteURL(c.Sandbox.BaseURL); err != nil {
			return fmt.Errorf("%w: %v", ErrInvalidSandboxBase, err)
		}
	}

	// 3. Local file storage root
	if c.Files.Dir == "" {
		return fmt.Errorf("%w: files.dir cannot be empty", ErrInvalidFilesDir)
	}

	// 4. Timeouts must be positive; a zero timeout would remove the bound
	// from every outbound call
	if c.HTTP.Timeout <= 0 {
		return fmt.Errorf("%w: must be positive, got %v", ErrInvalidHTTPTimeout, c.HTTP.Timeout)
	}
	if c.Claude.Timeout <= 0 {
		return fmt.Errorf("%w: must be positive, got %v", ErrInvalidClaudeTimeout, c.Claude.Timeout)
	}

	// 5. Discord rate limit (messages per second)
	if c.Discord.RateLimit <= 0 {
		return fmt.Errorf("%w: must be positive, got %v", ErrInvalidRateLimit, c.Discord.RateLimit)
	}

	// 6. MCP server identity
	if c.Server.Name == "" {
		return fmt.Errorf("%w: server.name cannot be empty", ErrInvalidServerName)
	}

	return nil
}

// validateAbsoluteURL checks that s parses as an absolute http(s) URL.
func validateAbsoluteURL(s string) error {
	if s == "" {
		return fmt.Errorf("URL is empty")
	}
	u, err := url.Parse(s)
	if err != nil {
		return fmt.Errorf("parsing %q: %w", s, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("%q must use http or https", s)
	}
	if u.Host == "" {
		return fmt.Errorf("%q has no host", s)
	}
	return nil
}
