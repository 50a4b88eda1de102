package commands

import (
	"context"
	"fmt"

	"github.com/bwmarrin/discordgo"

	"github.com/keshon/dispatchkit/internal/bot"
	"github.com/keshon/dispatchkit/pkg/dispatch"
)

func prefixCommand(d Deps) *dispatch.Command {
	minLen := 1
	maxLen := 5
	return &dispatch.Command{
		Name:        "prefix",
		Description: "Change the message command prefix for this server.",
		Category:    "Admin",
		Permissions: &dispatch.Rules{
			GuildOnly:       true,
			UserPermissions: discordgo.PermissionManageServer,
		},
		Args: []dispatch.ArgSpec{
			{
				Name:        "value",
				Description: "The new prefix",
				Kind:        dispatch.KindString,
				Required:    true,
				MinLength:   &minLen,
				MaxLength:   &maxLen,
			},
		},
		Run: func(ctx context.Context, inv *dispatch.Invocation) error {
			value := argString(inv, "value", "")
			if err := d.Store.SetPrefix(inv.GuildID, value); err != nil {
				return fmt.Errorf("failed to store prefix: %w", err)
			}
			return respondEmbed(inv, &discordgo.MessageEmbed{
				Description: fmt.Sprintf("Prefix for this server is now `%s`", value),
				Color:       bot.EmbedColor,
			})
		},
	}
}
