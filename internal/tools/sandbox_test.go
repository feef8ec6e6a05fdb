package tools

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newSandboxGroup creates a Sandbox group against a fake sandbox API.
func newSandboxGroup(t *testing.T, apiKey string, handler http.HandlerFunc) *Sandbox {
	t.Helper()

	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	s, err := NewSandbox(SandboxConfig{BaseURL: srv.URL, APIKey: apiKey}, srv.Client(), testLogger())
	require.NoError(t, err)
	return s
}

func TestNewSandbox_Validation(t *testing.T) {
	t.Parallel()

	t.Run("missing client", func(t *testing.T) {
		t.Parallel()
		_, err := NewSandbox(SandboxConfig{}, nil, testLogger())
		require.Error(t, err)
		assert.Contains(t, err.Error(), "HTTP client is required")
	})

	t.Run("missing logger", func(t *testing.T) {
		t.Parallel()
		_, err := NewSandbox(SandboxConfig{}, NewHTTPClient(time.Second), nil)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "logger is required")
	})

	t.Run("empty base URL is allowed", func(t *testing.T) {
		t.Parallel()
		s, err := NewSandbox(SandboxConfig{}, NewHTTPClient(time.Second), testLogger())
		require.NoError(t, err)
		assert.NotNil(t, s)
	})
}

func TestSandboxExecutePython(t *testing.T) {
	t.Parallel()

	s := newSandboxGroup(t, "secret-key", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/execute", r.URL.Path)
		assert.Equal(t, "secret-key", r.Header.Get("X-API-Key"))
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		var payload map[string]any
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&payload))
		assert.Equal(t, "print(1)", payload["code"])
		assert.Equal(t, "python", payload["language"])

		_, _ = w.Write([]byte(`{"success": true, "output": "1\n"}`))
	})

	out, err := s.ExecutePython(context.Background(), ExecutePythonInput{Code: "print(1)"})
	require.NoError(t, err)
	assert.Equal(t, "1\n", out)
}

func TestSandboxEndpoints(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name        string
		call        func(ctx context.Context, s *Sandbox) (string, error)
		wantPath    string
		wantPayload map[string]any
	}{
		{
			name: "install package",
			call: func(ctx context.Context, s *Sandbox) (string, error) {
				return s.InstallPackage(ctx, InstallPackageInput{Package: "requests"})
			},
			wantPath:    "/install",
			wantPayload: map[string]any{"package": "requests"},
		},
		{
			name: "read file",
			call: func(ctx context.Context, s *Sandbox) (string, error) {
				return s.ReadFile(ctx, SandboxReadFileInput{Path: "/home/user/data.csv"})
			},
			wantPath:    "/files/read",
			wantPayload: map[string]any{"path": "/home/user/data.csv"},
		},
		{
			name: "write file",
			call: func(ctx context.Context, s *Sandbox) (string, error) {
				return s.WriteFile(ctx, SandboxWriteFileInput{Path: "/home/user/out.txt", Content: "hello"})
			},
			wantPath:    "/files/write",
			wantPayload: map[string]any{"path": "/home/user/out.txt", "content": "hello"},
		},
		{
			name: "list files",
			call: func(ctx context.Context, s *Sandbox) (string, error) {
				return s.ListFiles(ctx, SandboxListFilesInput{Path: "/tmp"})
			},
			wantPath:    "/files/list",
			wantPayload: map[string]any{"path": "/tmp"},
		},
		{
			name: "list files defaults to home",
			call: func(ctx context.Context, s *Sandbox) (string, error) {
				return s.ListFiles(ctx, SandboxListFilesInput{})
			},
			wantPath:    "/files/list",
			wantPayload: map[string]any{"path": "/home/user"},
		},
		{
			name: "run shell",
			call: func(ctx context.Context, s *Sandbox) (string, error) {
				return s.RunShell(ctx, RunShellInput{Command: "ls -la"})
			},
			wantPath:    "/shell",
			wantPayload: map[string]any{"command": "ls -la"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			s := newSandboxGroup(t, "", func(w http.ResponseWriter, r *http.Request) {
				assert.Equal(t, tt.wantPath, r.URL.Path)

				var payload map[string]any
				assert.NoError(t, json.NewDecoder(r.Body).Decode(&payload))
				assert.Equal(t, tt.wantPayload, payload)

				_, _ = w.Write([]byte(`{"success": true, "output": "done"}`))
			})

			out, err := tt.call(context.Background(), s)
			require.NoError(t, err)
			assert.Equal(t, "done", out)
		})
	}
}

func TestSandboxCall_Failures(t *testing.T) {
	t.Parallel()

	t.Run("not configured", func(t *testing.T) {
		t.Parallel()
		s, err := NewSandbox(SandboxConfig{}, NewHTTPClient(time.Second), testLogger())
		require.NoError(t, err)

		_, err = s.ExecutePython(context.Background(), ExecutePythonInput{Code: "1"})
		require.Error(t, err)
		assert.Equal(t, "SANDBOX_API_URL not configured", err.Error())
		kind, ok := KindOf(err)
		require.True(t, ok)
		assert.Equal(t, KindRemote, kind)
	})

	t.Run("api error includes status and body", func(t *testing.T) {
		t.Parallel()
		s := newSandboxGroup(t, "", func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
			_, _ = w.Write([]byte("boom"))
		})

		_, err := s.ExecutePython(context.Background(), ExecutePythonInput{Code: "1"})
		require.Error(t, err)
		assert.Equal(t, "Sandbox API error 500 Internal Server Error: boom", err.Error())
	})

	t.Run("failure flag surfaces the error verbatim", func(t *testing.T) {
		t.Parallel()
		s := newSandboxGroup(t, "", func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`{"success": false, "error": "NameError: name 'x' is not defined"}`))
		})

		_, err := s.ExecutePython(context.Background(), ExecutePythonInput{Code: "x"})
		require.Error(t, err)
		assert.Equal(t, "NameError: name 'x' is not defined", err.Error())
	})

	t.Run("failure without detail", func(t *testing.T) {
		t.Parallel()
		s := newSandboxGroup(t, "", func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`{"success": false}`))
		})

		_, err := s.ExecutePython(context.Background(), ExecutePythonInput{Code: "x"})
		require.Error(t, err)
		assert.Equal(t, "Unknown error", err.Error())
	})

	t.Run("undecodable body", func(t *testing.T) {
		t.Parallel()
		s := newSandboxGroup(t, "", func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte("not json"))
		})

		_, err := s.ExecutePython(context.Background(), ExecutePythonInput{Code: "1"})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "Failed to parse response:")
		kind, ok := KindOf(err)
		require.True(t, ok)
		assert.Equal(t, KindDecode, kind)
	})

	t.Run("missing output on success yields empty string", func(t *testing.T) {
		t.Parallel()
		s := newSandboxGroup(t, "", func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`{"success": true}`))
		})

		out, err := s.ExecutePython(context.Background(), ExecutePythonInput{Code: "pass"})
		require.NoError(t, err)
		assert.Empty(t, out)
	})
}

func TestSandboxAPIKey_OmittedWhenUnset(t *testing.T) {
	t.Parallel()

	s := newSandboxGroup(t, "", func(w http.ResponseWriter, r *http.Request) {
		_, present := r.Header["X-Api-Key"]
		assert.False(t, present, "X-API-Key header should not be sent without a key")
		_, _ = w.Write([]byte(`{"success": true, "output": ""}`))
	})

	_, err := s.ExecutePython(context.Background(), ExecutePythonInput{Code: "1"})
	require.NoError(t, err)
}
