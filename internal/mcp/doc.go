// Package mcp implements the Model Context Protocol server for mypalclara.
//
// The server exposes Clara's native tool catalog over MCP so that Claude
// Desktop, Claude Code, and other MCP clients can trigger backups, run code
// in the sandbox, manage notes and files, and reach Discord and Google on a
// user's behalf. The protocol is spoken on stdout; every log line goes to
// stderr.
//
// # Overview
//
// The package is organized around a small dispatch core plus one
// registration file per tool group:
//
//   - registry.go: the insertion-ordered tool catalog and the per-call
//     observer (request id, structured log line, trace span)
//   - server.go: configuration, validation, and the SDK server lifecycle
//   - backup.go, claude.go, sandbox.go, notes.go, files.go, discord.go,
//     google.go: tool registration for each group
//
// # Architecture
//
//	MCP Client (Claude Desktop, Claude Code, ...)
//	     |
//	     | (MCP protocol over stdio)
//	     v
//	Server (MCP SDK)
//	     |
//	     +-- Registry (ordered catalog, one descriptor per tool)
//	     |        |
//	     |        +-- dispatch observer (uuid, slog, otel span)
//	     |
//	     v
//	Tool groups (internal/tools)
//	     |
//	     v
//	Backends (backup service, sandbox, Discord, Google, CLI, disk)
//
// # Tool Handler Pattern
//
// Every tool follows the same shape:
//
//  1. Define an input struct with JSON tags and descriptions in
//     internal/tools
//  2. Infer the JSON schema with jsonschema-go at registration time
//  3. Register through Register with the group's typed handler method
//  4. The dispatch observer converts (string, error) into the protocol
//     result shape
//
// Tools without parameters register through the noArgs adapter and present
// an empty object schema.
//
// # Error Handling
//
// Domain failures (bad input, unreachable backend, remote rejection) never
// surface as protocol errors. They become CallToolResult{IsError: true}
// with the tool's message as the only text block, so clients can show the
// text directly. The error kind travels in the dispatch log line and the
// trace span, never in the client-facing text. The SDK's error path is
// reserved for protocol faults such as unknown tool names.
//
// # Thread Safety
//
// The registry is assembled inside NewServer and read-only afterwards.
// Handlers are stateless except for the Claude Code working directory and
// the per-user file locks, both owned by internal/tools. Concurrent calls
// to distinct tools are safe.
package mcp
