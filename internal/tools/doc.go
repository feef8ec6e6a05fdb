// Package tools implements the tool groups exposed over MCP.
//
// # Overview
//
// Each group wraps one external surface and turns its responses into the
// exact text block an MCP client sees:
//
//   - Backup: the backup service REST API (trigger, list, status, schedule,
//     destination management)
//   - ClaudeCode: the Claude Code CLI driven as a subprocess
//   - Sandbox: the code execution service (Python, shell, sandbox files)
//   - Notes: the ORS notes store behind the Clara API
//   - Files: per-user persistent file storage on the local disk
//   - Discord: outbound Discord channel messages
//   - Google: Calendar, Sheets and Drive on behalf of a connected user
//
// Groups are plain structs built with New* constructors taking their config,
// the shared HTTP client and a logger. Every operation has the shape
//
//	func (g *Group) Op(ctx context.Context, in OpInput) (string, error)
//
// where OpInput is the tool's input schema (jsonschema tags included) and
// the returned string is the complete success text.
//
// # Error Handling
//
// Operations fail with *Error, which carries a Kind (validation, transport,
// remote, decode, not_found) and a user-facing Message. The Message is the
// entire error text shown to the client; the Kind exists for logs and spans
// and never leaks into it. Remote error texts embed the upstream status and
// body so the model can react to what the service actually said.
//
// # Output Contract
//
// Success texts are stable. Formatted listings (backups, destinations,
// saved files) render deterministic layouts with explicit fallbacks for
// fields the upstream omitted; passthrough operations (notes listing, the
// Google read APIs, sandbox output) return the upstream body verbatim.
// Callers can rely on these strings not changing shape between releases.
package tools
