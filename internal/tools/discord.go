package tools

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"golang.org/x/time/rate"
)

// DiscordSendMessageInput defines input for the discord_send_message tool.
type DiscordSendMessageInput struct {
	ChannelID string `json:"channel_id" jsonschema_description:"Discord channel ID"`
	Message   string `json:"message" jsonschema_description:"Message text to send"`
}

// DiscordConfig configures the Discord REST client. An empty BotToken means
// Discord is not configured; sends then fail with a clear message.
type DiscordConfig struct {
	BotToken string
	BaseURL  string
	// RateLimit is outbound messages per second; burst equals the limit.
	RateLimit float64
}

// Discord sends channel messages through the Discord REST API as the
// configured bot. Sends pass a local token-bucket limiter before going out.
type Discord struct {
	token   string
	baseURL string
	limiter *rate.Limiter
	client  *http.Client
	logger  *slog.Logger
}

// NewDiscord creates the Discord tool group.
func NewDiscord(cfg DiscordConfig, client *http.Client, logger *slog.Logger) (*Discord, error) {
	if cfg.BaseURL == "" {
		return nil, fmt.Errorf("base URL is required")
	}
	if cfg.RateLimit <= 0 {
		return nil, fmt.Errorf("rate limit must be positive")
	}
	if client == nil {
		return nil, fmt.Errorf("HTTP client is required")
	}
	if logger == nil {
		return nil, fmt.Errorf("logger is required")
	}

	burst := int(cfg.RateLimit)
	if burst < 1 {
		burst = 1
	}

	return &Discord{
		token:   cfg.BotToken,
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		limiter: rate.NewLimiter(rate.Limit(cfg.RateLimit), burst),
		client:  client,
		logger:  logger,
	}, nil
}

// SendMessage posts one message to a channel as the configured bot.
func (d *Discord) SendMessage(ctx context.Context, in DiscordSendMessageInput) (string, error) {
	if d.token == "" {
		return "", Errf(KindRemote, "DISCORD_BOT_TOKEN not set")
	}

	if err := d.limiter.Wait(ctx); err != nil {
		return "", Wrapf(KindTransport, err, "Request failed: %v", err)
	}

	d.logger.Debug("sending discord message", "channel_id", in.ChannelID, "bytes", len(in.Message))

	data, err := json.Marshal(map[string]any{"content": in.Message})
	if err != nil {
		return "", Wrapf(KindTransport, err, "Request failed: %v", err)
	}

	u := d.baseURL + "/channels/" + url.PathEscape(in.ChannelID) + "/messages"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, u, bytes.NewReader(data))
	if err != nil {
		return "", Wrapf(KindTransport, err, "Request failed: %v", err)
	}
	req.Header.Set("Authorization", "Bot "+d.token)
	req.Header.Set("Content-Type", "application/json")

	resp, err := d.client.Do(req)
	if err != nil {
		return "", Wrapf(KindTransport, err, "Request failed: %v", err)
	}
	defer resp.Body.Close()

	if !is2xx(resp.StatusCode) {
		body, _ := readBody(resp)
		return "", Errf(KindRemote, "Discord API error %s: %s", resp.Status, body)
	}
	return "Message sent to channel " + in.ChannelID, nil
}
