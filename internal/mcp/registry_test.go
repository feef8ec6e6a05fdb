package mcp

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/BangRocket/mypalclara/internal/log"
	"github.com/BangRocket/mypalclara/internal/tools"
)

func noopHandler(_ context.Context, _ struct{}) (string, error) {
	return "ok", nil
}

func TestRegister_RejectsEmptyName(t *testing.T) {
	r := NewRegistry(log.NewNop())

	err := Register(r, "test", &mcp.Tool{Description: "unnamed"}, noopHandler)
	if err == nil {
		t.Fatal("Register accepted a tool without a name")
	}
	if !strings.Contains(err.Error(), "tool name is required") {
		t.Errorf("Register error = %q, want to contain %q", err.Error(), "tool name is required")
	}
}

func TestRegister_RejectsDuplicateName(t *testing.T) {
	r := NewRegistry(log.NewNop())

	if err := Register(r, "test", &mcp.Tool{Name: "ping", Description: "first"}, noopHandler); err != nil {
		t.Fatalf("first Register failed: %v", err)
	}

	err := Register(r, "test", &mcp.Tool{Name: "ping", Description: "second"}, noopHandler)
	if err == nil {
		t.Fatal("Register accepted a duplicate tool name")
	}
	if !strings.Contains(err.Error(), `"ping" already registered`) {
		t.Errorf("Register error = %q, want to contain %q", err.Error(), `"ping" already registered`)
	}
}

func TestRegister_InfersInputSchema(t *testing.T) {
	r := NewRegistry(log.NewNop())

	tool := &mcp.Tool{Name: "read", Description: "read a saved file"}
	err := Register(r, "test", tool, func(_ context.Context, _ tools.ReadFileInput) (string, error) {
		return "", nil
	})
	if err != nil {
		t.Fatalf("Register failed: %v", err)
	}
	if tool.InputSchema == nil {
		t.Fatal("Register left InputSchema nil")
	}
}

func TestRegistry_LookupAndList(t *testing.T) {
	r := NewRegistry(log.NewNop())

	names := []string{"alpha", "beta", "gamma"}
	for _, name := range names {
		if err := Register(r, "test", &mcp.Tool{Name: name, Description: name}, noopHandler); err != nil {
			t.Fatalf("Register(%q) failed: %v", name, err)
		}
	}

	d, err := r.Lookup("beta")
	if err != nil {
		t.Fatalf("Lookup(beta) failed: %v", err)
	}
	if d.Tool.Name != "beta" {
		t.Errorf("Lookup(beta) returned %q", d.Tool.Name)
	}

	_, err = r.Lookup("missing")
	if !errors.Is(err, ErrToolNotFound) {
		t.Fatalf("Lookup(missing) error = %v, want ErrToolNotFound", err)
	}
	if !strings.Contains(err.Error(), "missing") {
		t.Errorf("Lookup(missing) error = %q, want to contain the tool name", err.Error())
	}

	listed := r.List()
	if len(listed) != len(names) {
		t.Fatalf("List() returned %d descriptors, want %d", len(listed), len(names))
	}
	for i, got := range listed {
		if got.Tool.Name != names[i] {
			t.Errorf("List()[%d] = %q, want %q (registration order)", i, got.Tool.Name, names[i])
		}
	}
}

// TestDispatch_LogsRequestIDAndErrorKind drives a failing call through the
// protocol layer and checks the dispatch log line carries the request id
// and the error kind while the client sees only the message text.
func TestDispatch_LogsRequestIDAndErrorKind(t *testing.T) {
	h := newTestHelper(t)
	cfg := h.createValidConfig()

	var buf bytes.Buffer
	cfg.Logger = log.NewWithWriter(&buf, log.Config{})

	session := connectServer(t, cfg)

	result, err := session.CallTool(context.Background(), &mcp.CallToolParams{
		Name:      "read_file",
		Arguments: map[string]any{"filename": "ghost.txt", "user_id": "alice"},
	})
	if err != nil {
		t.Fatalf("CallTool(read_file) unexpected error: %v", err)
	}
	if !result.IsError {
		t.Fatal("CallTool(read_file) on a missing file should return an error result")
	}

	logged := buf.String()
	if !strings.Contains(logged, "tool call failed") {
		t.Errorf("dispatch log missing failure line:\n%s", logged)
	}
	if !strings.Contains(logged, "error_kind=not_found") {
		t.Errorf("dispatch log missing error kind:\n%s", logged)
	}
	if !strings.Contains(logged, "request_id=") {
		t.Errorf("dispatch log missing request id:\n%s", logged)
	}

	text, ok := result.Content[0].(*mcp.TextContent)
	if !ok {
		t.Fatalf("content type = %T, want *mcp.TextContent", result.Content[0])
	}
	if strings.Contains(text.Text, "not_found") {
		t.Errorf("error kind leaked into client text: %q", text.Text)
	}
}
