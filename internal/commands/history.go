package commands

import (
	"context"
	"fmt"
	"strings"

	"github.com/bwmarrin/discordgo"

	"github.com/keshon/dispatchkit/internal/bot"
	"github.com/keshon/dispatchkit/pkg/dispatch"
	"github.com/keshon/dispatchkit/pkg/util"
)

func historyCommand(d Deps) *dispatch.Command {
	return &dispatch.Command{
		Name:        "history",
		Description: "Show the most recent command usage in this server.",
		Category:    "Admin",
		Permissions: &dispatch.Rules{
			GuildOnly:       true,
			UserPermissions: discordgo.PermissionManageServer,
		},
		Run: func(ctx context.Context, inv *dispatch.Invocation) error {
			// The datastore read can take a moment on large guilds, so
			// acknowledge first and deliver the listing as a followup.
			if inv.Mode == dispatch.ModeInteraction {
				if bc, ok := bot.FromInvocation(inv); ok {
					if err := bc.RespondDeferredEphemeral(); err != nil {
						return fmt.Errorf("failed to defer reply: %w", err)
					}
				}
			}

			records, err := d.Store.FetchCommandHistory(inv.GuildID)
			if err != nil {
				return fmt.Errorf("failed to fetch history: %w", err)
			}
			if len(records) == 0 {
				return respondEmbedEphemeral(inv, &discordgo.MessageEmbed{
					Description: "No command usage recorded yet.",
					Color:       bot.EmbedColor,
				})
			}

			var sb strings.Builder
			// Newest first.
			for i := len(records) - 1; i >= 0; i-- {
				rec := records[i]
				sb.WriteString(fmt.Sprintf("`%s` **%s** ran `%s` in <#%s>\n",
					util.FormatDateTpl(rec.Datetime.UnixMilli(), "YYYY-MM-DD hh:mm"),
					rec.Username, rec.Command, rec.ChannelID))
			}

			return respondEmbedEphemeral(inv, &discordgo.MessageEmbed{
				Title:       "📜 Command History",
				Description: sb.String(),
				Color:       bot.EmbedColor,
			})
		},
	}
}
