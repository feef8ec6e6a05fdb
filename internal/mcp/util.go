package mcp

import (
	"context"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// textResult wraps one text block as a successful protocol result.
func textResult(text string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{&mcp.TextContent{Text: text}},
	}
}

// errorResult wraps a failure message as a protocol error result. The
// message is the complete client-facing payload; kinds and causes stay in
// the server logs.
func errorResult(message string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{&mcp.TextContent{Text: message}},
		IsError: true,
	}
}

// noArgs adapts a handler that takes no input to the registry handler
// shape. The tool's schema renders as an empty object.
func noArgs(f func(context.Context) (string, error)) Handler[struct{}] {
	return func(ctx context.Context, _ struct{}) (string, error) {
		return f(ctx)
	}
}
