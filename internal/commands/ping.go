package commands

import (
	"context"
	"fmt"
	"time"

	"github.com/bwmarrin/discordgo"

	"github.com/keshon/dispatchkit/internal/bot"
	"github.com/keshon/dispatchkit/pkg/dispatch"
)

func pingCommand(d Deps) *dispatch.Command {
	return &dispatch.Command{
		Name:        "ping",
		Aliases:     []string{"p"},
		Description: "Check whether the bot is alive and how fast it answers.",
		Category:    "General",
		Cooldown:    5 * time.Second,
		Run: func(ctx context.Context, inv *dispatch.Invocation) error {
			bc, ok := bot.FromInvocation(inv)
			if !ok {
				return errNoContext
			}
			latency := bc.Session.HeartbeatLatency().Round(time.Millisecond)
			return respondEmbed(inv, &discordgo.MessageEmbed{
				Description: fmt.Sprintf("Pong! Gateway latency: %s", latency),
				Color:       bot.EmbedColor,
			})
		},
	}
}
