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

// newDiscordGroup creates a Discord group against a fake Discord API.
func newDiscordGroup(t *testing.T, token string, handler http.HandlerFunc) *Discord {
	t.Helper()

	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	d, err := NewDiscord(DiscordConfig{
		BotToken:  token,
		BaseURL:   srv.URL,
		RateLimit: 100,
	}, srv.Client(), testLogger())
	require.NoError(t, err)
	return d
}

func TestNewDiscord_Validation(t *testing.T) {
	t.Parallel()

	client := NewHTTPClient(time.Second)

	t.Run("missing base URL", func(t *testing.T) {
		t.Parallel()
		_, err := NewDiscord(DiscordConfig{RateLimit: 1}, client, testLogger())
		require.Error(t, err)
		assert.Contains(t, err.Error(), "base URL is required")
	})

	t.Run("nonpositive rate limit", func(t *testing.T) {
		t.Parallel()
		_, err := NewDiscord(DiscordConfig{BaseURL: "http://localhost"}, client, testLogger())
		require.Error(t, err)
		assert.Contains(t, err.Error(), "rate limit must be positive")
	})

	t.Run("missing client", func(t *testing.T) {
		t.Parallel()
		_, err := NewDiscord(DiscordConfig{BaseURL: "http://localhost", RateLimit: 1}, nil, testLogger())
		require.Error(t, err)
		assert.Contains(t, err.Error(), "HTTP client is required")
	})
}

func TestDiscordSendMessage(t *testing.T) {
	t.Parallel()

	t.Run("success", func(t *testing.T) {
		t.Parallel()
		d := newDiscordGroup(t, "test-token", func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, http.MethodPost, r.Method)
			assert.Equal(t, "/channels/123456/messages", r.URL.Path)
			assert.Equal(t, "Bot test-token", r.Header.Get("Authorization"))
			assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

			var payload map[string]any
			assert.NoError(t, json.NewDecoder(r.Body).Decode(&payload))
			assert.Equal(t, "hello from clara", payload["content"])

			_, _ = w.Write([]byte(`{"id": "987"}`))
		})

		out, err := d.SendMessage(context.Background(), DiscordSendMessageInput{
			ChannelID: "123456",
			Message:   "hello from clara",
		})
		require.NoError(t, err)
		assert.Equal(t, "Message sent to channel 123456", out)
	})

	t.Run("missing token fails before any call", func(t *testing.T) {
		t.Parallel()
		d := newDiscordGroup(t, "", func(w http.ResponseWriter, r *http.Request) {
			t.Error("unexpected request to Discord")
		})

		_, err := d.SendMessage(context.Background(), DiscordSendMessageInput{
			ChannelID: "123456",
			Message:   "hi",
		})
		require.Error(t, err)
		assert.Equal(t, "DISCORD_BOT_TOKEN not set", err.Error())
		kind, ok := KindOf(err)
		require.True(t, ok)
		assert.Equal(t, KindRemote, kind)
	})

	t.Run("remote failure includes status and body", func(t *testing.T) {
		t.Parallel()
		d := newDiscordGroup(t, "test-token", func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusForbidden)
			_, _ = w.Write([]byte("Missing Access"))
		})

		_, err := d.SendMessage(context.Background(), DiscordSendMessageInput{
			ChannelID: "123456",
			Message:   "hi",
		})
		require.Error(t, err)
		assert.Equal(t, "Discord API error 403 Forbidden: Missing Access", err.Error())
	})

	t.Run("canceled context stops at the limiter", func(t *testing.T) {
		t.Parallel()
		d := newDiscordGroup(t, "test-token", func(w http.ResponseWriter, r *http.Request) {
			t.Error("unexpected request to Discord")
		})

		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		_, err := d.SendMessage(ctx, DiscordSendMessageInput{ChannelID: "123456", Message: "hi"})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "Request failed:")
		kind, ok := KindOf(err)
		require.True(t, ok)
		assert.Equal(t, KindTransport, kind)
	})
}
