package mcp

import (
	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/BangRocket/mypalclara/internal/tools"
)

// registerDiscordTools registers the Discord tools.
// Tools: discord_send_message
func registerDiscordTools(r *Registry, discord *tools.Discord) error {
	return Register(r, "discord", &mcp.Tool{
		Name:        "discord_send_message",
		Description: "Send a message to a Discord channel",
	}, discord.SendMessage)
}
